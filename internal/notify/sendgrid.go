package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

const (
	defaultSendGridHost = "https://api.sendgrid.com"
	sendEndpoint        = "/v3/mail/send"
)

// SendGridMailer forwards messages to a fixed inbox.
type SendGridMailer struct {
	apiKey string
	host   string
	from   string
	to     string
}

func NewSendGridMailer(apiKey, from, to string) *SendGridMailer {
	return &SendGridMailer{apiKey: apiKey, host: defaultSendGridHost, from: from, to: to}
}

func (m *SendGridMailer) Send(ctx context.Context, subject, body string) error {
	if m.apiKey == "" {
		return fmt.Errorf("sendgrid api key is empty")
	}
	if m.from == "" || m.to == "" {
		return fmt.Errorf("sendgrid from/to address is empty")
	}

	message := mail.NewSingleEmail(
		mail.NewEmail("Storefront", m.from),
		subject,
		mail.NewEmail("", m.to),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	req := sendgrid.GetRequest(m.apiKey, sendEndpoint, m.host)
	req.Method = "POST"
	req.Body = mail.GetRequestBody(message)

	resp, err := sendgrid.MakeRequestWithContext(ctx, req)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed: status=%d, body=%s", resp.StatusCode, resp.Body)
	}
	return nil
}
