package mail

import (
	"context"
	"fmt"

	"MediBook/models"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Notifier sends patient mails through an SMTP relay.
type Notifier struct {
	dialer *gomail.Dialer
	from   string
	send   func(m ...*gomail.Message) error
}

func NewNotifier(cfg Config) *Notifier {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	n := &Notifier{dialer: d, from: cfg.From}
	n.send = d.DialAndSend
	return n
}

func (n *Notifier) AppointmentDecided(ctx context.Context, user models.User, doctor models.Doctor, a models.Appointment) error {
	subject := fmt.Sprintf("Your appointment with %s was %s", doctor.Name, a.Status)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour appointment with %s on %s for %q is now %s.\n",
		user.Username, doctor.Name, a.Date.Format("2006-01-02"), a.Disease, a.Status,
	)
	return n.deliver(ctx, user.Email, subject, body)
}

func (n *Notifier) FollowUpReminder(ctx context.Context, user models.User, doctor models.Doctor, a models.Appointment) error {
	subject := fmt.Sprintf("Follow-up with %s today", doctor.Name)
	body := fmt.Sprintf(
		"Hello %s,\n\n%s asked to see you again today for %q.\n",
		user.Username, doctor.Name, a.Disease,
	)
	return n.deliver(ctx, user.Email, subject, body)
}

func (n *Notifier) deliver(ctx context.Context, to, subject, body string) error {
	if to == "" {
		return fmt.Errorf("recipient has no email address")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := n.send(m); err != nil {
		log.Error().Err(err).Str("to", to).Msg("Error from DialAndSend")
		return err
	}
	log.Debug().Str("to", to).Str("subject", subject).Msg("Mail sent")
	return nil
}

// Nop is used when no SMTP relay is configured.
type Nop struct{}

func (Nop) AppointmentDecided(context.Context, models.User, models.Doctor, models.Appointment) error {
	return nil
}

func (Nop) FollowUpReminder(context.Context, models.User, models.Doctor, models.Appointment) error {
	return nil
}
