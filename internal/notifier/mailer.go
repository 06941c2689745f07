package notifier

import (
	"fmt"
	"net/smtp"

	"github.com/complianceassoc/portal/internal/models"
	"github.com/complianceassoc/portal/internal/service"
	"github.com/rs/zerolog"
)

type SMTPConfig struct {
	Host     string
	Port     string
	From     string
	Password string
}

type Mailer struct {
	cfg SMTPConfig
	log zerolog.Logger
}

func NewMailer(cfg SMTPConfig, log zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// SendConfirmation emails a payment confirmation for a registration or a
// membership renewal.
func (m *Mailer) SendConfirmation(notice service.ConfirmedNotice) error {
	var subject, body string
	amount := fmt.Sprintf("%.2f %s", float64(notice.AmountCents)/100, notice.Currency)

	switch notice.Target {
	case models.TargetMembership:
		subject = "Your membership renewal is confirmed"
		body = fmt.Sprintf(
			"Dear %s,\n\nYour membership renewal payment of %s has been received. Your membership is now active.\n\nThank you.",
			notice.FullName, amount,
		)
	default:
		subject = "Your event registration is confirmed"
		body = fmt.Sprintf(
			"Dear %s,\n\nYour payment of %s for \"%s\" has been received. Your registration is confirmed.\n\nWe look forward to seeing you.",
			notice.FullName, amount, notice.EventTitle,
		)
	}

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.From, notice.Email, subject, body,
	)

	addr := m.cfg.Host + ":" + m.cfg.Port
	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Password, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{notice.Email}, []byte(msg)); err != nil {
		m.log.Warn().Err(err).Str("recipient", notice.Email).Msg("failed to send confirmation email")
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Str("recipient", notice.Email).Str("target", string(notice.Target)).
		Msg("confirmation email sent")
	return nil
}
