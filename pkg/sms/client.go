package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aldousari/sooqfresh-backend/pkg/config"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
)

const (
	defaultBaseURL             = "https://api.twilio.com"
	apiVersion                 = "2010-04-01"
	defaultCountryCode         = "+965"
	localNumberLength          = 8
	responseBodyReadLimit int64 = 1024
)

var (
	errCredentialsRequired = errors.New("twilio account sid and auth token are required")
	errFromNumberRequired  = errors.New("twilio from number is required")
)

// Client wraps the Twilio Messages API used for vendor order notifications.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	accountSID   string
	authToken    string
	smsFrom      string
	whatsappFrom string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the Twilio API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the Twilio client from configuration.
func NewClient(cfg config.TwilioConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.AccountSID) == "" || strings.TrimSpace(cfg.AuthToken) == "" {
		return nil, errCredentialsRequired
	}
	if strings.TrimSpace(cfg.SMSFromNumber) == "" {
		return nil, errFromNumberRequired
	}

	client := &Client{
		httpClient:   &http.Client{Timeout: 10 * time.Second},
		baseURL:      defaultBaseURL,
		accountSID:   strings.TrimSpace(cfg.AccountSID),
		authToken:    strings.TrimSpace(cfg.AuthToken),
		smsFrom:      strings.TrimSpace(cfg.SMSFromNumber),
		whatsappFrom: strings.TrimSpace(cfg.WhatsAppNumber),
	}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		client.baseURL = strings.TrimSpace(cfg.BaseURL)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// NormalizePhone converts a raw phone string to E.164. Kuwaiti local numbers
// (8 digits) get the +965 country code; "00" international prefixes become "+".
func NormalizePhone(raw string) (string, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(raw))

	if cleaned == "" {
		return "", fmt.Errorf("phone number is empty")
	}

	if strings.HasPrefix(cleaned, "00") {
		cleaned = "+" + cleaned[2:]
	}

	digits := cleaned
	if strings.HasPrefix(cleaned, "+") {
		digits = cleaned[1:]
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", fmt.Errorf("phone number %q contains non-digit characters", raw)
		}
	}
	if digits == "" {
		return "", fmt.Errorf("phone number %q has no digits", raw)
	}

	if strings.HasPrefix(cleaned, "+") {
		return cleaned, nil
	}
	if len(digits) == localNumberLength {
		return defaultCountryCode + digits, nil
	}
	return "+" + digits, nil
}

// SendSMS delivers a plain SMS to the recipient.
func (c *Client) SendSMS(ctx context.Context, to, body string) error {
	return c.send(ctx, c.smsFrom, to, body)
}

// SendWhatsApp delivers the message over the WhatsApp channel.
func (c *Client) SendWhatsApp(ctx context.Context, to, body string) error {
	if c != nil && c.whatsappFrom == "" {
		return pkgerrors.New(pkgerrors.CodeDependency, "whatsapp sender not configured")
	}
	return c.send(ctx, "whatsapp:"+c.whatsappFrom, "whatsapp:"+to, body)
}

func (c *Client) send(ctx context.Context, from, to, body string) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "twilio client not configured")
	}
	if strings.TrimSpace(to) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "recipient phone number is required")
	}
	if strings.TrimSpace(body) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "message body is required")
	}

	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)

	endpoint := fmt.Sprintf("%s/%s/Accounts/%s/Messages.json",
		strings.TrimRight(c.baseURL, "/"), apiVersion, url.PathEscape(c.accountSID))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build twilio request")
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.SetBasicAuth(c.accountSID, c.authToken)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute twilio request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"twilio message send failed")
	}
	return nil
}
