package notify

import (
	"fmt"
	"net/smtp"

	"github.com/Dan9191/grocery-store/internal/config"
	"github.com/jordan-wright/email"
	"github.com/sirupsen/logrus"
)

// Mailer delivers account notifications
type Mailer interface {
	SendWelcome(to, name string) error
}

// sendFunc delivers a prepared message to addr
type sendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// Sender handles sending emails via SMTP
type Sender struct {
	cfg    *config.Config
	logger *logrus.Logger
	send   sendFunc
}

// NewSender creates a new email sender
func NewSender(cfg *config.Config, logger *logrus.Logger) *Sender {
	return &Sender{
		cfg:    cfg,
		logger: logger,
		send: func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		},
	}
}

// SendWelcome greets a newly registered customer
func (s *Sender) SendWelcome(to, name string) error {
	e := s.welcomeEmail(to, name)

	addr := fmt.Sprintf("%s:%s", s.cfg.SMTPHost, s.cfg.SMTPPort)
	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	if err := s.send(e, addr, auth); err != nil {
		s.logger.Errorf("Failed to send welcome email to %s: %v", to, err)
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Infof("Email sent to %s: %s", to, e.Subject)
	return nil
}

func (s *Sender) welcomeEmail(to, name string) *email.Email {
	e := email.NewEmail()
	e.From = s.cfg.SenderEmail
	e.To = []string{to}
	e.Subject = "Welcome to Grocery Store"

	greeting := name
	if greeting == "" {
		greeting = "customer"
	}
	body := fmt.Sprintf("Dear %s,\n\n", greeting)
	body += "Your account has been created. You can now sign in with this email address.\n"
	body += "\nBest regards,\nGrocery Store"
	e.Text = []byte(body)
	return e
}
