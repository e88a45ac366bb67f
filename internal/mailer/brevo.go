package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const brevoAPIURL = "https://api.brevo.com/v3/smtp/email"

// Sender delivers transactional mail. The reset-password flow is the only
// caller.
type Sender interface {
	Send(ctx context.Context, toEmail, subject, html string) error
}

// Brevo is a thin client for the Brevo transactional email API.
type Brevo struct {
	apiKey     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
	configured bool
}

func NewBrevo(apiKey, fromEmail, fromName string) *Brevo {
	c := &Brevo{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	if apiKey != "" && fromEmail != "" && fromName != "" {
		c.apiKey = apiKey
		c.fromEmail = fromEmail
		c.fromName = fromName
		c.configured = true
	}
	return c
}

// IsConfigured reports whether credentials were supplied at construction.
func (c *Brevo) IsConfigured() bool { return c.configured }

type sendEmailReq struct {
	Sender      map[string]string   `json:"sender"`
	To          []map[string]string `json:"to"`
	Subject     string              `json:"subject"`
	HtmlContent string              `json:"htmlContent"`
}

func (c *Brevo) Send(ctx context.Context, toEmail, subject, html string) error {
	if !c.configured {
		return fmt.Errorf("mailer not configured, email to %s skipped", toEmail)
	}
	if toEmail == "" || subject == "" || html == "" {
		return errors.New("toEmail, subject, and html content cannot be empty")
	}

	body, err := json.Marshal(sendEmailReq{
		Sender:      map[string]string{"email": c.fromEmail, "name": c.fromName},
		To:          []map[string]string{{"email": toEmail}},
		Subject:     subject,
		HtmlContent: html,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, brevoAPIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create mailer request: %w", err)
	}
	req.Header.Set("api-key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("mailer send request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("mailer API error: status %d", resp.StatusCode)
	}
	return nil
}
