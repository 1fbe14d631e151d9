// Package vision produces layout descriptions for slide images, either by
// calling the Anthropic Messages API with the image attached or, in demo
// mode, from a built-in sample layout.
package vision

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	apiURL     = "https://api.anthropic.com/v1/messages"
	apiVersion = "2023-06-01"

	// DefaultModel is used when no model is configured.
	DefaultModel = "claude-sonnet-4-5"

	maxAttempts = 3
)

const layoutPrompt = `This image is a presentation slide. Analyze every visual
element and return its layout as JSON. Return ONLY the JSON object, with no
surrounding text or markdown code fences.

{
  "image_width": <estimated image width in pixels>,
  "image_height": <estimated image height in pixels>,
  "background": {"color": "#RRGGBB"},
  "elements": [
    {
      "kind": "text",
      "box": {"x": <px>, "y": <px>, "w": <px>, "h": <px>},
      "content": "the text content",
      "font_size": <approximate glyph height in px>,
      "color": "#RRGGBB",
      "align": "left" | "center" | "right",
      "bold": true|false,
      "italic": true|false,
      "background_color": "#RRGGBB" or "none"
    },
    {
      "kind": "shape",
      "box": {"x": <px>, "y": <px>, "w": <px>, "h": <px>},
      "geometry": "rectangle" | "rounded_rectangle" | "ellipse" | "line",
      "fill": "#RRGGBB" or "none",
      "border_color": "#RRGGBB" or omit,
      "border_width": <px> or omit
    },
    {
      "kind": "image",
      "box": {"x": <px>, "y": <px>, "w": <px>, "h": <px>},
      "description": "short description (chart, photo, logo, ...)"
    }
  ]
}

List elements back to front: backgrounds and large fills first, text on top.`

// Client calls the Anthropic Messages API to analyze slide images.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	retryDelay time.Duration
	httpClient *http.Client
}

// NewClient creates a vision client. An empty model selects DefaultModel.
func NewClient(apiKey, model string) *Client {
	if model == "" {
		model = DefaultModel
	}
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    apiURL,
		retryDelay: 2 * time.Second,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

type contentBlock struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type anthropicMessage struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Analyze sends the image to Claude and returns the raw layout JSON in the
// converter's input contract. Transient API failures (429, 5xx) are retried
// with backoff before giving up.
func (c *Client) Analyze(ctx context.Context, image []byte) ([]byte, error) {
	mediaType, err := detectImageType(image)
	if err != nil {
		return nil, err
	}

	reqBody := anthropicRequest{
		Model:     c.model,
		MaxTokens: 4096,
		Messages: []anthropicMessage{
			{
				Role: "user",
				Content: []contentBlock{
					{
						Type: "image",
						Source: &imageSource{
							Type:      "base64",
							MediaType: mediaType,
							Data:      base64.StdEncoding.EncodeToString(image),
						},
					},
					{Type: "text", Text: layoutPrompt},
				},
			},
		},
	}
	body, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * c.retryDelay):
			}
		}

		layout, err := c.doRequest(ctx, body)
		if err == nil {
			return layout, nil
		}
		lastErr = err

		var re *RetryableError
		if !errors.As(err, &re) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("vision analysis failed after %d attempts: %w", maxAttempts, lastErr)
}

func (c *Client) doRequest(ctx context.Context, body []byte) ([]byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("claude api: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return nil, &RetryableError{
			StatusCode: resp.StatusCode,
			Message:    string(respBody),
		}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("claude api status %d: %s", resp.StatusCode, truncate(string(respBody), 500))
	}

	var apiResp anthropicResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if apiResp.Error != nil {
		return nil, fmt.Errorf("claude error: %s: %s", apiResp.Error.Type, apiResp.Error.Message)
	}

	var text string
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, fmt.Errorf("empty response from claude")
	}
	return []byte(stripCodeBlock(text)), nil
}

// Close releases resources.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// detectImageType sniffs the image format and returns its media type.
// Claude's vision input accepts JPEG, PNG, GIF and WebP.
func detectImageType(image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image data")
	}
	mediaType := http.DetectContentType(image)
	switch mediaType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return mediaType, nil
	}
	return "", fmt.Errorf("unsupported image type %q", mediaType)
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

func stripCodeBlock(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); len(m) > 1 {
		return m[1]
	}
	return s
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// RetryableError indicates a transient API failure.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}
