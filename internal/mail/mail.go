// Package mail sends side-channel notifications. Delivery is best effort:
// callers treat a send failure as non-fatal and only log it.
package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

// Mailer delivers a single HTML message.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SMTP is a Mailer backed by an SMTP relay.
type SMTP struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP constructs an SMTP mailer.
func NewSMTP(host string, port int, username, password, from string) *SMTP {
	return &SMTP{dialer: gomail.NewDialer(host, port, username, password), from: from}
}

func (s *SMTP) Send(ctx context.Context, to, subject, htmlBody string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

// Nop is a Mailer that discards messages. Used when SMTP is not configured
// and in tests.
type Nop struct{}

func (Nop) Send(context.Context, string, string, string) error { return nil }

var credentialsTmpl = template.Must(template.New("credentials").Parse(`<html><body>
<p>Hello {{.Name}},</p>
<p>Your {{.Role}} account for the College Placement Management System has been created.</p>
<p>Email: <b>{{.Email}}</b><br>Password: <b>{{.Password}}</b></p>
<p>Please sign in and change your password.</p>
</body></html>`))

// Credentials holds the fields of the welcome e-mail.
type Credentials struct {
	Role     string
	Name     string
	Email    string
	Password string
}

// CredentialsBody renders the welcome e-mail for a new account.
func CredentialsBody(c Credentials) (string, error) {
	var buf bytes.Buffer
	if err := credentialsTmpl.Execute(&buf, c); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CredentialsSubject returns the subject line for a new account mail.
func CredentialsSubject(roleLabel string) string {
	return fmt.Sprintf("Welcome to CPMS | Your Login Credentials as a %s", roleLabel)
}
