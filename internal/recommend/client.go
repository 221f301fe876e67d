// Package recommend asks an OpenAI-compatible chat-completions endpoint for
// passages matching a mood.
package recommend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/MrSnakeDoc/fellowship/internal/apperr"
	"github.com/MrSnakeDoc/fellowship/internal/domain"
	"github.com/MrSnakeDoc/fellowship/internal/logger"
	"github.com/MrSnakeDoc/fellowship/internal/utils"
)

const (
	DefaultModel = "gpt-4o-mini"

	systemPrompt = "You are a Christian Bible assistant."
	temperature  = 0.3
	maxTokens    = 1000

	unknownReference = "Unknown"
	missingText      = "Verse not available"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = apperr.ErrUnavailable.WithMessage("Verse recommendations are not configured")

type Options struct {
	BaseURL string // ex: "https://api.openai.com/v1/"
	APIKey  string
	Model   string
	Timeout time.Duration
}

type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	log        logger.Logger
}

func NewClient(opts Options, log logger.Logger) (*Client, error) {
	base := opts.BaseURL
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("invalid recommender base url %q: %w", opts.BaseURL, err)
	}
	model := opts.Model
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		httpClient: &http.Client{Timeout: opts.Timeout},
		endpoint:   u.JoinPath("chat", "completions").String(),
		apiKey:     opts.APIKey,
		model:      model,
		log:        log.Named("recommend"),
	}, nil
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool { return c.apiKey != "" }

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string            `json:"model"`
	Messages       []chatMessage     `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
	MaxTokens      int               `json:"max_tokens"`
	Stream         bool              `json:"stream"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Recommend returns the passages suggested for req.
func (c *Client) Recommend(ctx context.Context, req domain.RecommendRequest) ([]domain.VerseSuggestion, error) {
	if !c.Enabled() {
		return nil, ErrDisabled
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: Prompt(req.Mood, req.Thought)},
		},
		Temperature:    temperature,
		ResponseFormat: map[string]string{"type": "json_object"},
		MaxTokens:      maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("encode completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create completion request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperr.ErrUpstream.WithMessage("Failed to get verse recommendations").WithInternal(err)
	}
	defer utils.CloseBody(c.log, resp.Body)

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, apperr.ErrUpstream.WithMessage("Failed to get verse recommendations").WithInternal(err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn("completion request failed",
			logger.Int("status", resp.StatusCode),
			logger.String("body", truncate(string(raw), 256)))
		return nil, apperr.ErrUpstream.
			WithMessage("Failed to get verse recommendations").
			WithInternal(fmt.Errorf("completion status %d", resp.StatusCode))
	}

	verses, err := parseCompletion(raw)
	if err != nil {
		c.log.Warn("invalid completion payload", logger.Error(err))
		return nil, apperr.ErrUpstream.WithMessage("Invalid response from recommendation service").WithInternal(err)
	}
	return verses, nil
}

func parseCompletion(raw []byte) ([]domain.VerseSuggestion, error) {
	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("decode completion: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, errors.New("completion has no choices")
	}

	var payload struct {
		Verses *[]domain.VerseSuggestion `json:"verses"`
	}
	if err := json.Unmarshal([]byte(cr.Choices[0].Message.Content), &payload); err != nil {
		return nil, fmt.Errorf("decode verses: %w", err)
	}
	if payload.Verses == nil {
		return nil, errors.New("completion has no verses array")
	}

	verses := *payload.Verses
	for i := range verses {
		if verses[i].Reference == "" {
			verses[i].Reference = unknownReference
		}
		if verses[i].Text == "" {
			verses[i].Text = missingText
		}
	}
	return verses, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
