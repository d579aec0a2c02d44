package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"cardkeeper/internal/logger"
)

const resendEndpoint = "https://api.resend.com/emails"

// ResendMailer delivers email through the Resend HTTP API.
type ResendMailer struct {
	apiKey string
	from   string
	client *http.Client
}

// NewResendMailer creates a mailer for the given API key and From address.
// An empty API key is allowed: sends are skipped with a warning, which
// keeps development environments working without credentials.
func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		apiKey: apiKey,
		from:   from,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID string `json:"id"`
}

// SendEmail posts one message to the Resend API.
func (m *ResendMailer) SendEmail(ctx context.Context, to, subject, html string) error {
	if m.apiKey == "" {
		logger.Get().Warnw("no Resend API key configured, skipping email", "to", to, "subject", subject)
		return nil
	}

	payload, err := json.Marshal(resendRequest{
		From:    m.from,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resendEndpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(req)
	if err != nil {
		return fmt.Errorf("email send failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("email send failed: status %d: %s", resp.StatusCode, body)
	}

	var result resendResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err == nil && result.ID != "" {
		logger.Get().Infow("email sent", "to", to, "id", result.ID)
	}
	return nil
}
