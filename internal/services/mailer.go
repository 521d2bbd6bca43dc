package services

import (
	"fmt"

	"github.com/izwi-app/izwi/internal/config"
	"gopkg.in/gomail.v2"
)

// Mailer sends invite and moderation mail over SMTP. A nil Mailer
// means mail is disabled.
type Mailer struct {
	cfg config.SMTPConfig
}

// NewMailer returns nil when no SMTP host is configured.
func NewMailer(cfg config.SMTPConfig) *Mailer {
	if cfg.Host == "" {
		return nil
	}
	return &Mailer{cfg: cfg}
}

// SendInvite mails a community invite link to the given address.
func (m *Mailer) SendInvite(to, communityName, inviteURL string) error {
	subject := fmt.Sprintf("You're invited to join %s on iZwi", communityName)
	body := fmt.Sprintf(
		`<p>Hello,</p><p>You have been invited to join the <b>%s</b> community on iZwi.</p><p><a href="%s">Accept the invitation</a></p>`,
		communityName, inviteURL)
	return m.send(to, subject, body)
}

// SendModerationNotice tells the community admin that an alert was
// reported.
func (m *Mailer) SendModerationNotice(to string, alertID uint64, description string) error {
	subject := fmt.Sprintf("Alert #%d was reported for review", alertID)
	body := fmt.Sprintf(
		`<p>An alert in your community was reported by a member.</p><p>Alert #%d: %s</p><p>Please review it from your dashboard.</p>`,
		alertID, description)
	return m.send(to, subject, body)
}

func (m *Mailer) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(m.cfg.Host, m.cfg.Port, m.cfg.Username, m.cfg.Password)
	return d.DialAndSend(msg)
}
