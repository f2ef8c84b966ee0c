package sender

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const mailgunBaseURL = "https://api.mailgun.net/v3"

// MailgunSender delivers email through the Mailgun HTTP API.
type MailgunSender struct {
	apiKey     string
	domain     string
	from       string
	baseURL    string
	httpClient *http.Client
}

func NewMailgunSender(apiKey, domain, from string) (*MailgunSender, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("MAILGUN_API_KEY not set")
	}
	if strings.TrimSpace(domain) == "" {
		return nil, fmt.Errorf("MAILGUN_DOMAIN not set")
	}

	return &MailgunSender{
		apiKey:  apiKey,
		domain:  domain,
		from:    from,
		baseURL: mailgunBaseURL,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}, nil
}

type mailgunResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

func (s *MailgunSender) SendEmail(ctx context.Context, to, subject, body string) (SendResult, error) {
	form := url.Values{
		"from":    {s.from},
		"to":      {to},
		"subject": {subject},
		"html":    {body},
	}

	endpoint := fmt.Sprintf("%s/%s/messages", s.baseURL, s.domain)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return SendResult{}, err
	}
	req.SetBasicAuth("api", s.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("mailgun request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(resp.Body)
		msg := fmt.Sprintf("mailgun API error (%d): %s", resp.StatusCode, string(errBody))
		if resp.StatusCode == http.StatusForbidden {
			// 403 usually means a plan sending limit was hit.
			msg += " (check the Mailgun dashboard for plan limits)"
		}
		return SendResult{}, fmt.Errorf("%s", msg)
	}

	var parsed mailgunResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return SendResult{}, fmt.Errorf("mailgun response decode failed: %w", err)
	}

	return SendResult{
		MessageID: parsed.ID,
		SentAt:    time.Now(),
	}, nil
}
