package notify

import (
	"fmt"
	"mime"
	"strings"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"brightonhub/backend/internal/domain"
)

// MailerConfig 外发邮件配置
type MailerConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // 发件地址，如 noreply@brightonhub.com
	AdminTo  string // 无站内接收者时的兜底通知地址
}

// Mailer 通过上游 SMTP 服务发送消息通知邮件。
type Mailer struct {
	cfg MailerConfig
}

// NewMailer 创建邮件发送器。
func NewMailer(cfg MailerConfig) *Mailer {
	return &Mailer{cfg: cfg}
}

// SendMessageNotification 发送一封新消息通知邮件。
//
// to 为空时回退到管理员兜底地址；itemCtx 非空时正文附带关联条目摘要。
func (m *Mailer) SendMessageNotification(to string, msg *domain.ContactMessage, itemCtx *domain.ItemContext) error {
	if to == "" {
		to = m.cfg.AdminTo
	}
	if to == "" {
		return fmt.Errorf("no notification recipient")
	}

	body := m.buildMail(to, msg, itemCtx)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth sasl.Client
	if m.cfg.Username != "" {
		auth = sasl.NewPlainClient("", m.cfg.Username, m.cfg.Password)
	}

	return smtp.SendMail(addr, auth, m.cfg.From, []string{to}, strings.NewReader(body))
}

// buildMail 组装通知邮件的原始内容。
func (m *Mailer) buildMail(to string, msg *domain.ContactMessage, itemCtx *domain.ItemContext) string {
	subject := fmt.Sprintf("新消息: %s", msg.Subject)

	var b strings.Builder
	fmt.Fprintf(&b, "From: BrightonHub <%s>\r\n", m.cfg.From)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "发送者: %s <%s>\r\n", msg.SenderName, msg.SenderEmail)
	if msg.SenderPhone != "" {
		fmt.Fprintf(&b, "电话: %s\r\n", msg.SenderPhone)
	}
	fmt.Fprintf(&b, "类型: %s\r\n", msg.MessageType)
	if itemCtx != nil && itemCtx.Title != "" {
		fmt.Fprintf(&b, "关联条目: %s", itemCtx.Title)
		if itemCtx.Price != nil {
			fmt.Fprintf(&b, " (%.2f)", *itemCtx.Price)
		}
		if itemCtx.Location != "" {
			fmt.Fprintf(&b, " - %s", itemCtx.Location)
		}
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n")
	b.WriteString(msg.Message)
	b.WriteString("\r\n")

	return b.String()
}
