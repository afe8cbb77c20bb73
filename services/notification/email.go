package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"emviapp/models"
)

// HTTPEmailSender posts rendered messages to the transactional email
// provider's JSON API.
type HTTPEmailSender struct {
	APIURL string
	APIKey string
	From   string
	Client *http.Client
}

// NewHTTPEmailSender constructs a sender with a sane request timeout.
func NewHTTPEmailSender(apiURL, apiKey, from string) *HTTPEmailSender {
	return &HTTPEmailSender{
		APIURL: apiURL,
		APIKey: apiKey,
		From:   from,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

type emailPayload struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

func (s *HTTPEmailSender) Send(ctx context.Context, msg models.EmailMessage) error {
	if s.APIURL == "" {
		return fmt.Errorf("email provider URL is not configured")
	}

	body, err := json.Marshal(emailPayload{
		From:    s.From,
		To:      msg.To,
		Subject: msg.Subject,
		HTML:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.APIURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return fmt.Errorf("email provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("email provider returned status %d", resp.StatusCode)
	}
	return nil
}
