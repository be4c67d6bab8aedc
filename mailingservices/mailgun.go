package mailingservices

import (
	"context"
	"log"
	"time"

	"github.com/greenloophq/greenloop/config"
	"github.com/mailgun/mailgun-go/v4"
)

// Mailer sends transactional mail. Kept as an interface so services can run
// without a mail backend in tests.
type Mailer interface {
	SendMail(to, subject, body string) error
}

type Mailgun struct {
	Client *mailgun.MailgunImpl
	From   string
}

func (m *Mailgun) Init(conf *config.Config) {
	m.Client = mailgun.NewMailgun(conf.MgDomain, conf.MailgunApiKey)
	m.From = conf.MgEmailFrom
	log.Println("Mailgun client initialized")
}

func (m *Mailgun) SendMail(to, subject, body string) error {
	message := m.Client.NewMessage(m.From, subject, body, to)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, _, err := m.Client.Send(ctx, message)
	return err
}
