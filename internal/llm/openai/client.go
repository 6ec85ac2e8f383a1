package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/contracts-tracker/internal/common"
	"github.com/joseph-ayodele/contracts-tracker/internal/llm"
)

var (
	_ llm.Provider       = (*Client)(nil)
	_ llm.ImageCompleter = (*Client)(nil)
)

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *llm.Usage `json:"usage"`
}

// Complete implements llm.Provider using text-only chat/completions.
func (c *Client) Complete(ctx context.Context, req llm.CompletionRequest) (llm.Completion, error) {
	req = req.WithDefaults()
	body := map[string]any{
		"model":       c.cfg.Model,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
		"messages": []map[string]any{
			{"role": "user", "content": req.Prompt},
		},
	}
	return c.chat(ctx, c.cfg.Model, len(req.Prompt), body)
}

// CompleteWithImage sends the prompt and one image as a multimodal message.
func (c *Client) CompleteWithImage(ctx context.Context, req llm.CompletionRequest, image []byte) (llm.Completion, error) {
	if !c.SupportsImages() {
		return llm.Completion{}, common.NewProviderError("image completion is not configured", nil)
	}
	if len(image) == 0 {
		return llm.Completion{}, common.NewProviderError("image payload is empty", nil)
	}
	req = req.WithDefaults()
	dataURL, mimeType := llm.ImageDataURL(image)
	c.log.Debug("llm.vision.image", "mime", mimeType, "bytes", len(image))

	body := map[string]any{
		"model":       c.cfg.VisionModel,
		"max_tokens":  req.MaxTokens,
		"temperature": req.Temperature,
		"messages": []map[string]any{
			{
				"role": "user",
				"content": []map[string]any{
					{"type": "text", "text": req.Prompt},
					{"type": "image_url", "image_url": map[string]any{"url": dataURL}},
				},
			},
		},
	}
	return c.chat(ctx, c.cfg.VisionModel, len(req.Prompt), body)
}

func (c *Client) chat(ctx context.Context, model string, promptLen int, body map[string]any) (llm.Completion, error) {
	rid := uuid.New().String()
	start := time.Now()
	c.log.Info("llm.complete.start", "req_id", rid, "model", model, "prompt_len", promptLen)

	raw, err := llm.DoJSON(ctx, c.httpClient, http.MethodPost, c.endpoint("/chat/completions"), body, c.headers(), c.log)
	if err != nil {
		c.log.Error("llm.complete.http_error", "req_id", rid, "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return llm.Completion{}, common.NewProviderError(describe(err), err)
	}

	var cc chatResponse
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.log.Error("llm.complete.decode_error", "req_id", rid, "error", err, "raw_bytes", len(raw))
		return llm.Completion{}, common.NewProviderError("decode openai response", err)
	}
	if len(cc.Choices) == 0 {
		c.log.Error("llm.complete.no_choices", "req_id", rid)
		return llm.Completion{}, common.NewProviderError("no response from OpenAI", nil)
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)
	if content == "" {
		c.log.Error("llm.complete.empty_content", "req_id", rid)
		return llm.Completion{}, common.NewProviderError("no response from OpenAI", nil)
	}

	if cc.Model != "" {
		model = cc.Model
	}
	attrs := []any{"req_id", rid, "model", model, "chars", len(content), "elapsed_ms", time.Since(start).Milliseconds()}
	if cc.Usage != nil {
		attrs = append(attrs, "total_tokens", cc.Usage.TotalTokens)
	}
	c.log.Info("llm.complete.ok", attrs...)

	return llm.Completion{Text: content, Usage: cc.Usage, Model: model}, nil
}

// IsHealthy lists models; every failure reads as unhealthy.
func (c *Client) IsHealthy(ctx context.Context) bool {
	_, err := llm.DoJSON(ctx, c.httpClient, http.MethodGet, c.endpoint("/models"), nil, c.headers(), c.log)
	if err != nil {
		c.log.Warn("llm.health.failed", "error", err)
		return false
	}
	return true
}

func (c *Client) SupportsImages() bool {
	return c.cfg.VisionModel != ""
}

func (c *Client) endpoint(path string) string {
	return strings.TrimRight(c.cfg.BaseURL, "/") + path
}

func (c *Client) headers() map[string]string {
	return map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
}

func describe(err error) string {
	var se *llm.StatusError
	if errors.As(err, &se) {
		switch se.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Sprintf("OpenAI rejected credentials (status %d)", se.StatusCode)
		case http.StatusTooManyRequests:
			return "OpenAI rate limit exceeded"
		}
		return fmt.Sprintf("OpenAI request failed with status %d", se.StatusCode)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return "OpenAI request timed out"
	}
	return "OpenAI request failed: " + err.Error()
}
