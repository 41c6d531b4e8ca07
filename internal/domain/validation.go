package domain

import (
	"regexp"
	"strings"
)

// emailRegex 匿名提交者邮箱的形状校验（非完整 RFC 校验）
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// slugInvalidChars 匹配 slug 中需要替换为连字符的字符
var slugInvalidChars = regexp.MustCompile(`[^a-z0-9]+`)

// ValidEmail 判断邮箱格式是否合法
func ValidEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// NormalizeSlug 将任意字符串规范化为小写连字符形式
//
// 幂等：对已规范化的 slug 再次调用返回原值。
func NormalizeSlug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = slugInvalidChars.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// ValidPriority 判断优先级取值是否合法
func ValidPriority(p MessagePriority) bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh:
		return true
	}
	return false
}

// ValidMessageType 判断消息类型取值是否合法
func ValidMessageType(t MessageType) bool {
	switch t {
	case TypeContactForm, TypeProductInquiry, TypeDirectMessage, TypeBulkMessage:
		return true
	}
	return false
}
