package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidEmail(t *testing.T) {
	t.Run("合法邮箱通过校验", func(t *testing.T) {
		valid := []string{
			"ada@x.com",
			"user.name+tag@example.co.uk",
			"a@b.cn",
		}
		for _, email := range valid {
			assert.True(t, ValidEmail(email), email)
		}
	})

	t.Run("非法邮箱被拒绝", func(t *testing.T) {
		invalid := []string{
			"",
			"no-at-sign",
			"two@@example.com",
			"space in@example.com",
			"missing@tld",
			"@example.com",
		}
		for _, email := range invalid {
			assert.False(t, ValidEmail(email), email)
		}
	})
}

func TestNormalizeSlug(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Fresh Produce", "fresh-produce"},
		{"  Brighton & Hove  ", "brighton-hove"},
		{"already-normalized", "already-normalized"},
		{"UPPER_case slug!", "upper-case-slug"},
		{"---", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeSlug(tc.in), tc.in)
	}

	t.Run("规范化是幂等的", func(t *testing.T) {
		inputs := []string{"Fresh Produce", "a--b__c", "Hello World 123"}
		for _, in := range inputs {
			once := NormalizeSlug(in)
			assert.Equal(t, once, NormalizeSlug(once))
		}
	})
}

func TestDeriveMessageType(t *testing.T) {
	contentID := "prop-1"

	t.Run("主题包含 contact form 时优先判定为联系表单", func(t *testing.T) {
		got := DeriveMessageType("Contact Form: Inquiry", ContentProperty, &contentID, TypeDirectMessage)
		assert.Equal(t, TypeContactForm, got)
	})

	t.Run("大小写不敏感", func(t *testing.T) {
		got := DeriveMessageType("CONTACT FORM question", ContentGeneral, nil, "")
		assert.Equal(t, TypeContactForm, got)
	})

	t.Run("非 general 且带 content_id 判定为商品咨询", func(t *testing.T) {
		got := DeriveMessageType("About your listing", ContentProperty, &contentID, "")
		assert.Equal(t, TypeProductInquiry, got)
	})

	t.Run("general 类型不构成商品咨询", func(t *testing.T) {
		id := "x"
		got := DeriveMessageType("Hello", ContentGeneral, &id, "")
		assert.Equal(t, TypeDirectMessage, got)
	})

	t.Run("显式覆盖值生效", func(t *testing.T) {
		got := DeriveMessageType("Hello", ContentGeneral, nil, TypeBulkMessage)
		assert.Equal(t, TypeBulkMessage, got)
	})

	t.Run("默认判定为私信", func(t *testing.T) {
		got := DeriveMessageType("Hello", ContentGeneral, nil, "")
		assert.Equal(t, TypeDirectMessage, got)
	})
}

func TestContactMessage_InvolvesUser(t *testing.T) {
	sender := "user-a"
	recipient := "user-b"
	msg := ContactMessage{
		SenderID:    &sender,
		RecipientID: &recipient,
		CreatedAt:   time.Now(),
	}

	assert.True(t, msg.InvolvesUser("user-a"))
	assert.True(t, msg.InvolvesUser("user-b"))
	assert.False(t, msg.InvolvesUser("user-c"))

	anonymous := ContactMessage{SenderID: nil, RecipientID: &recipient}
	assert.False(t, anonymous.InvolvesUser("user-a"))
	assert.True(t, anonymous.InvolvesUser("user-b"))
}
