// Package mailer delivers the registration confirmation email over SMTP.
package mailer

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	gomail "gopkg.in/gomail.v2"

	"github.com/eventhub-app/eventhub-api/internal/config"
	"github.com/eventhub-app/eventhub-api/internal/domain"
)

const bodyTemplate = `<h2>Registration confirmed</h2>
<p>Hi {{.Name}},</p>
<p>You are registered for <strong>{{.EventTitle}}</strong> on {{.EventDate}} at {{.EventLocation}}.</p>
<p>Your registration code is <strong>{{.Code}}</strong>. Present the QR code below at check-in.</p>
{{if .QRCode}}<p><img src="{{.QRCode}}" alt="registration QR code"></p>{{end}}
`

type SMTPSender struct {
	conf *config.MailConfig
	tmpl *template.Template
}

func NewSMTPSender(conf *config.MailConfig) *SMTPSender {
	return &SMTPSender{
		conf: conf,
		tmpl: template.Must(template.New("confirmation").Parse(bodyTemplate)),
	}
}

// SendConfirmation mails the registration confirmation. The send runs in a
// goroutine raced against ctx so delivery is always time-bounded; a hung
// SMTP server cannot stall the caller past the context deadline.
func (m *SMTPSender) SendConfirmation(ctx context.Context, reg domain.Registration, event domain.Event) error {
	var body bytes.Buffer
	err := m.tmpl.Execute(&body, map[string]any{
		"Name":          reg.Name,
		"EventTitle":    event.Title,
		"EventDate":     event.Date.Format("Jan 2, 2006 15:04"),
		"EventLocation": event.Location,
		"Code":          reg.RegistrationCode,
		"QRCode":        template.URL(reg.QRCode),
	})
	if err != nil {
		return fmt.Errorf("tmpl.Execute -> %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.conf.From)
	msg.SetHeader("To", reg.Email)
	msg.SetHeader("Subject", "Registration Confirmation - "+event.Title)
	msg.SetBody("text/html", body.String())

	dialer := gomail.NewDialer(m.conf.Host, m.conf.Port, m.conf.Username, m.conf.Password)

	done := make(chan error, 1)
	go func() {
		done <- dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("dialer.DialAndSend -> %w", err)
		}

		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
