package mailing

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"RecipeHub-Backend/internal/utils"

	"gopkg.in/gomail.v2"
)

type (
	Mailer interface {
		SendMail(toEmail string, subject string, body string) error
	}

	MailConfig struct {
		AppURL       string
		SMTPHost     string
		SMTPPort     string
		SMTPSender   string
		SMTPEmail    string
		SMTPPassword string
	}

	smtpMailer struct {
		config MailConfig
	}

	noopMailer struct{}
)

func LoadMailConfig() MailConfig {
	return MailConfig{
		AppURL:       utils.GetConfig("APP_URL"),
		SMTPHost:     utils.GetConfig("SMTP_HOST"),
		SMTPPort:     utils.GetConfig("SMTP_PORT"),
		SMTPSender:   utils.GetConfig("SMTP_SENDER_NAME"),
		SMTPEmail:    utils.GetConfig("SMTP_AUTH_EMAIL"),
		SMTPPassword: utils.GetConfig("SMTP_AUTH_PASSWORD"),
	}
}

// NewMailer returns a mailer that drops every message when SMTP is not configured.
func NewMailer(config MailConfig) Mailer {
	if config.SMTPHost == "" || config.SMTPEmail == "" {
		return noopMailer{}
	}
	return &smtpMailer{config: config}
}

func (m *smtpMailer) SendMail(toEmail string, subject string, body string) error {
	mailer := gomail.NewMessage()
	mailer.SetAddressHeader("From", m.config.SMTPEmail, m.config.SMTPSender)
	mailer.SetHeader("To", toEmail)
	mailer.SetHeader("Subject", subject)
	mailer.SetBody("text/html", body)
	port, err := strconv.Atoi(m.config.SMTPPort)
	if err != nil {
		return err
	}
	dialer := gomail.NewDialer(
		m.config.SMTPHost,
		port,
		m.config.SMTPEmail,
		m.config.SMTPPassword,
	)

	return dialer.DialAndSend(mailer)
}

func (noopMailer) SendMail(string, string, string) error {
	return nil
}

var commentTemplate = template.Must(template.New("comment").Parse(
	`<p>Hi {{.Owner}},</p>
<p><strong>{{.Commenter}}</strong> commented on your recipe <a href="{{.Link}}">{{.Title}}</a>:</p>
<blockquote>{{.Content}}</blockquote>`))

type CommentNotification struct {
	Owner     string
	Commenter string
	Title     string
	Content   string
	Link      string
}

// CommentNotificationMail renders the subject and HTML body sent to a recipe owner.
func CommentNotificationMail(n CommentNotification) (string, string, error) {
	var body bytes.Buffer
	if err := commentTemplate.Execute(&body, n); err != nil {
		return "", "", err
	}
	return fmt.Sprintf("New comment on %s", n.Title), body.String(), nil
}
