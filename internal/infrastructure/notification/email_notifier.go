// Package notification emails customers about their sanctioned loans.
package notification

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/bibbank/loan-origination/internal/domain/port"
	"github.com/bibbank/loan-origination/pkg/money"
)

// SMTPConfig holds outgoing mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// sender is satisfied by *gomail.Dialer.
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailNotifier implements port.Notifier over SMTP.
type EmailNotifier struct {
	sender sender
	from   string
	body   *template.Template
}

// NewEmailNotifier builds a notifier that dials cfg for each message.
func NewEmailNotifier(cfg SMTPConfig) *EmailNotifier {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return newEmailNotifier(gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password), from)
}

func newEmailNotifier(s sender, from string) *EmailNotifier {
	return &EmailNotifier{
		sender: s,
		from:   from,
		body:   template.Must(template.New("sanction").Parse(sanctionEmail)),
	}
}

const sanctionEmail = `<p>Dear {{ .Name }},</p>
<p>Your personal loan of <strong>{{ .Amount }}</strong> for {{ .Tenure }} months has been sanctioned
at {{ .Rate }}% p.a. Your monthly EMI is <strong>{{ .EMI }}</strong>.</p>
<p>Your sanction letter is available at <a href="{{ .URL }}">{{ .URL }}</a>.</p>
<p>Reference: {{ .ApplicationID }}</p>`

// NotifySanction sends the sanction summary and letter link to to.
func (n *EmailNotifier) NotifySanction(ctx context.Context, to string, letter port.SanctionLetter, documentURL string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer
	err := n.body.Execute(&buf, map[string]any{
		"Name":          letter.Customer.Name,
		"Amount":        money.New(letter.Figures.LoanAmount, money.INR).Grouped(),
		"Tenure":        letter.Figures.TenureMonths,
		"Rate":          letter.Figures.InterestRatePct.StringFixed(2),
		"EMI":           money.New(letter.Figures.EMI.MonthlyEMI, money.INR).Grouped(),
		"URL":           documentURL,
		"ApplicationID": letter.ApplicationID,
	})
	if err != nil {
		return fmt.Errorf("notification: render email: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Your loan has been sanctioned")
	m.SetBody("text/html", buf.String())

	// gomail has no context support; the send is abandoned, not aborted,
	// when ctx ends first.
	done := make(chan error, 1)
	go func() { done <- n.sender.DialAndSend(m) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("notification: send to %s: %w", to, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("notification: send to %s: %w", to, ctx.Err())
	}
}
