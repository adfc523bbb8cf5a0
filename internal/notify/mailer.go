package notify

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
)

// Mailer sends platform mail over SMTP. With no server configured every send
// is a logged no-op, so local runs work without a mail relay.
type Mailer struct {
	server       string
	port         string
	user         string
	password     string
	authDisabled bool
	from         string
	adminTo      string
}

type MailerConfig struct {
	Server       string
	Port         string
	User         string
	Password     string
	AuthDisabled bool
	From         string
	AdminTo      string
}

func NewMailer(cfg MailerConfig) *Mailer {
	return &Mailer{
		server:       cfg.Server,
		port:         cfg.Port,
		user:         cfg.User,
		password:     cfg.Password,
		authDisabled: cfg.AuthDisabled,
		from:         cfg.From,
		adminTo:      cfg.AdminTo,
	}
}

// Send delivers a plain-text message asynchronously.
func (m *Mailer) Send(to, subject, body string) {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s", m.from, to, subject, body)
	m.deliver(to, msg)
}

// SendHTML delivers an HTML message asynchronously.
func (m *Mailer) SendHTML(to, subject, htmlBody string) {
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		htmlBody,
	}, "\r\n")
	m.deliver(to, msg)
}

// SendAdmin mails the configured platform admin address.
func (m *Mailer) SendAdmin(subject, htmlBody string) {
	if m.adminTo == "" {
		log.Printf("mail skipped (no admin recipient): %s", subject)
		return
	}
	m.SendHTML(m.adminTo, subject, htmlBody)
}

func (m *Mailer) deliver(to, msg string) {
	if m.server == "" {
		log.Printf("mail skipped (no SMTP server): to=%s", to)
		return
	}

	addr := fmt.Sprintf("%s:%s", m.server, m.port)
	auth := smtp.PlainAuth("", m.user, m.password, m.server)
	if m.authDisabled {
		auth = nil
	}

	go func() {
		if err := smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg)); err != nil {
			log.Printf("Failed to send email to %s: %v", to, err)
		}
	}()
}
