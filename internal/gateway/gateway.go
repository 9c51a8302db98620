// Package gateway implements the client for the remote chat-completion API
// (OpenRouter). Every pipeline stage is one call through this client.
//
// Two call shapes are supported: CompleteInto binds the completion to a
// declared result type and treats decode failure as an error (classify,
// analyze, generate), while Complete returns the raw text for callers that do
// their own tolerant extraction (project-protocol, refine).
//
// Failure semantics are deliberately simple: a non-2xx status or a transport
// error aborts the enclosing request. No retries, no backoff.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/eloquo/eloquo/agent-service/internal/config"
	"github.com/eloquo/eloquo/agent-service/internal/jsonparse"
	"github.com/eloquo/eloquo/agent-service/pkg/models"
)

// DefaultTimeout bounds a single staged call when the request does not set
// its own.
const DefaultTimeout = 50 * time.Second

// Client talks to the OpenRouter chat-completions endpoint.
type Client struct {
	baseURL string
	apiKey  string
	referer string
	title   string
	client  *http.Client
}

// New creates an OpenRouter client. The HTTP client timeout is the hard upper
// bound; individual calls tighten it via CompletionRequest.Timeout.
func New(cfg config.OpenRouterConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		referer: cfg.Referer,
		title:   cfg.Title,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// CompletionRequest is one chat-completion call.
type CompletionRequest struct {
	Model       string
	System      string
	User        string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// Completion is the text and token usage returned by one call.
type Completion struct {
	Content          string
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// ── Wire types ──────────────────────────────────────────────

type chatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int64 `json:"prompt_tokens"`
		CompletionTokens int64 `json:"completion_tokens"`
		TotalTokens      int64 `json:"total_tokens"`
	} `json:"usage"`
}

// contentPart is one element of a multimodal user message.
type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

// ── Calls ───────────────────────────────────────────────────

// Complete performs a single chat-completion call and returns the raw text
// plus token usage.
func (c *Client) Complete(ctx context.Context, req CompletionRequest) (*Completion, error) {
	msgs := []chatMessage{}
	if req.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: req.System})
	}
	msgs = append(msgs, chatMessage{Role: "user", Content: req.User})
	return c.send(ctx, req, msgs)
}

// CompleteInto performs a completion expected to be a JSON document matching
// out. The model's output may be fence-wrapped; anything that does not decode
// into out is an error.
func (c *Client) CompleteInto(ctx context.Context, req CompletionRequest, out interface{}) (*Completion, error) {
	comp, err := c.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	cleaned := jsonparse.StripFences(comp.Content)
	if err := json.Unmarshal([]byte(cleaned), out); err != nil {
		return nil, fmt.Errorf("gateway: decode structured output for model %s: %w", req.Model, err)
	}
	return comp, nil
}

// AnalyzeFiles sends the attachments as data-URL image parts with the given
// instruction and returns the model's summary.
func (c *Client) AnalyzeFiles(ctx context.Context, model, instruction string, files []models.AttachedFile) (*Completion, error) {
	parts := []contentPart{{Type: "text", Text: instruction}}
	for _, f := range files {
		if f.Base64 == "" || f.MimeType == "" {
			continue
		}
		parts = append(parts, contentPart{
			Type:     "image_url",
			ImageURL: &imageURL{URL: "data:" + f.MimeType + ";base64," + f.Base64},
		})
	}

	req := CompletionRequest{
		Model:       model,
		MaxTokens:   1500,
		Temperature: 0.2,
		Timeout:     60 * time.Second,
	}
	msgs := []chatMessage{{Role: "user", Content: parts}}
	return c.send(ctx, req, msgs)
}

func (c *Client) send(ctx context.Context, req CompletionRequest, msgs []chatMessage) (*Completion, error) {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(chatRequest{
		Model:       req.Model,
		Messages:    msgs,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("gateway: marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("gateway: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("HTTP-Referer", c.referer)
	httpReq.Header.Set("X-Title", c.title)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("gateway: request failed: %w", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		return nil, fmt.Errorf("gateway: status %d: %s", httpResp.StatusCode, string(respBody))
	}

	var chatResp chatResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&chatResp); err != nil {
		return nil, fmt.Errorf("gateway: decode response: %w", err)
	}

	content := ""
	if len(chatResp.Choices) > 0 {
		content = chatResp.Choices[0].Message.Content
	}

	return &Completion{
		Content:          content,
		PromptTokens:     chatResp.Usage.PromptTokens,
		CompletionTokens: chatResp.Usage.CompletionTokens,
		TotalTokens:      chatResp.Usage.TotalTokens,
	}, nil
}
