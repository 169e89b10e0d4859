package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/aldousari/sooqfresh-backend/pkg/config"
	pkgerrors "github.com/aldousari/sooqfresh-backend/pkg/errors"
)

const (
	defaultBaseURL              = "https://api.openai.com/v1"
	defaultModel                = "gpt-4o"
	maxResponseTokens           = 500
	responseBodyReadLimit int64 = 2048
)

var errAPIKeyRequired = errors.New("openai api key is required")

// Client wraps the OpenAI vision API used for produce quality analysis.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
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

// WithBaseURL overrides the OpenAI API base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds the vision client from configuration.
func NewClient(cfg config.OpenAIConfig, opts ...Option) (*Client, error) {
	trimmedKey := strings.TrimSpace(cfg.APIKey)
	if trimmedKey == "" {
		return nil, errAPIKeyRequired
	}

	client := &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     trimmedKey,
		model:      defaultModel,
	}
	if strings.TrimSpace(cfg.Model) != "" {
		client.model = strings.TrimSpace(cfg.Model)
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// ScoredAspect is one graded dimension of the quality report.
type ScoredAspect struct {
	Score       int    `json:"score"`
	MaxScore    int    `json:"maxScore"`
	Description string `json:"description"`
}

// QualityReport is the structured assessment attached to a vendor offer.
type QualityReport struct {
	Freshness      ScoredAspect `json:"freshness"`
	Ripeness       string       `json:"ripeness"`
	VisibleDefects ScoredAspect `json:"visibleDefects"`
	Color          string       `json:"color"`
	OverallQuality string       `json:"overallQuality"`
	AnalyzedAt     time.Time    `json:"analyzedAt"`
}

const promptTemplate = `Analyze this %s image and provide a detailed quality assessment. Return a JSON object with the following structure:
{
  "freshness": {"score": 5, "maxScore": 5, "description": "Brief description of freshness"},
  "ripeness": "Description of ripeness level (e.g., 'Ripe, ready to eat', 'Underripe', 'Overripe')",
  "visibleDefects": {"score": 5, "maxScore": 5, "description": "Description of any visible defects, blemishes, or issues"},
  "color": "Description of color quality and consistency",
  "overallQuality": "Brief overall quality assessment"
}

For the visibleDefects score: use 2/5 for signs of fungal growth or decay, 1/5 for severe rot or major damage, 3/5 for noticeable defects, 4/5 for minor blemishes, and 5/5 for no visible defects. If the image quality is poor or the product is not clearly visible, note that in the assessment.`

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string        `json:"role"`
	Content []contentPart `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// AnalyzeProductImage grades a produce photo and returns the structured report.
func (c *Client) AnalyzeProductImage(ctx context.Context, imgURL, productName string) (*QualityReport, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "vision client not configured")
	}
	if strings.TrimSpace(imgURL) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image url is required")
	}
	if strings.TrimSpace(productName) == "" {
		productName = "produce"
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{{
			Role: "user",
			Content: []contentPart{
				{Type: "text", Text: fmt.Sprintf(promptTemplate, productName)},
				{Type: "image_url", ImageURL: &imageURL{URL: imgURL}},
			},
		}},
		MaxTokens:   maxResponseTokens,
		Temperature: 0.3,
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marshal vision request")
	}

	endpoint := strings.TrimRight(c.baseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build vision request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute vision request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency,
			fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))),
			"vision request failed")
	}

	var apiResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode vision response")
	}
	if len(apiResp.Choices) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "vision response contained no choices")
	}

	report, err := parseReport(apiResp.Choices[0].Message.Content)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "parse quality report")
	}
	report.AnalyzedAt = time.Now().UTC()
	return report, nil
}

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")
	bareJSONRe   = regexp.MustCompile(`(?s)\{.*\}`)
)

// parseReport extracts the JSON report from the model output, tolerating
// markdown code fences and surrounding prose.
func parseReport(content string) (*QualityReport, error) {
	jsonString := content
	if m := fencedJSONRe.FindStringSubmatch(content); m != nil {
		jsonString = m[1]
	} else if m := bareJSONRe.FindString(content); m != "" {
		jsonString = m
	}

	var report QualityReport
	if err := json.Unmarshal([]byte(strings.TrimSpace(jsonString)), &report); err != nil {
		return nil, fmt.Errorf("unmarshal report: %w", err)
	}

	if report.Freshness.MaxScore == 0 {
		report.Freshness.MaxScore = 5
	}
	if report.VisibleDefects.MaxScore == 0 {
		report.VisibleDefects.MaxScore = 5
	}
	if report.Ripeness == "" {
		report.Ripeness = "Not assessed"
	}
	if report.Color == "" {
		report.Color = "Not assessed"
	}
	if report.OverallQuality == "" {
		report.OverallQuality = "Not assessed"
	}
	return &report, nil
}
