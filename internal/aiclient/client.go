package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"banner-editor/internal/domain"
)

// Options configures the AI edit-service client.
type Options struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// Client talks to the image edit/generation service. Every call shares
// the same success/error envelope.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
}

// NewClient builds a client with default timeouts applied.
func NewClient(opts Options) *Client {
	base := strings.TrimRight(opts.BaseURL, "/")
	client := opts.HTTPClient
	if client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 120 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Client{
		httpClient: client,
		baseURL:    base,
		token:      strings.TrimSpace(opts.APIKey),
	}
}

type envelope struct {
	Success      bool    `json:"success"`
	ImageURL     string  `json:"result_image,omitempty"`
	ImageID      string  `json:"result_image_id,omitempty"`
	Text         string  `json:"recognized_text,omitempty"`
	CostEstimate float64 `json:"cost_estimate,omitempty"`
	DurationMS   int64   `json:"duration_ms,omitempty"`
	ErrorCode    string  `json:"error_code,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
}

// Inpaint regenerates the masked regions of the source image.
func (c *Client) Inpaint(ctx context.Context, req InpaintRequest) (EditResult, error) {
	if strings.TrimSpace(req.SourceImage) == "" {
		return EditResult{}, errors.New("aiclient: source image required")
	}
	if len(req.Masks) == 0 {
		return EditResult{}, errors.New("aiclient: at least one mask required")
	}
	return c.editCall(ctx, "/v1/edits/inpaint", req)
}

// Generate produces a fresh image for the prompt.
func (c *Client) Generate(ctx context.Context, req GenerateRequest) (EditResult, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return EditResult{}, errors.New("aiclient: prompt required")
	}
	return c.editCall(ctx, "/v1/generations", req)
}

// ReplaceText redraws the masked regions with the corrected text.
func (c *Client) ReplaceText(ctx context.Context, req TextReplaceRequest) (EditResult, error) {
	if len(req.Masks) == 0 {
		return EditResult{}, errors.New("aiclient: at least one mask required")
	}
	return c.editCall(ctx, "/v1/edits/text", req)
}

// Upscale raises the resolution of the source image.
func (c *Client) Upscale(ctx context.Context, req UpscaleRequest) (EditResult, error) {
	if req.Factor <= 0 {
		req.Factor = 2
	}
	return c.editCall(ctx, "/v1/edits/upscale", req)
}

// RecognizeText runs OCR over the crop areas and returns the extracted
// text.
func (c *Client) RecognizeText(ctx context.Context, req OCRRequest) (string, error) {
	out, err := c.post(ctx, "/v1/ocr", req)
	if err != nil {
		return "", err
	}
	return out.Text, nil
}

func (c *Client) editCall(ctx context.Context, path string, payload any) (EditResult, error) {
	out, err := c.post(ctx, path, payload)
	if err != nil {
		return EditResult{}, err
	}
	if strings.TrimSpace(out.ImageURL) == "" {
		return EditResult{}, errors.New("aiclient: missing result image")
	}
	return EditResult{
		ImageURL:     out.ImageURL,
		ImageID:      out.ImageID,
		CostEstimate: out.CostEstimate,
		DurationMS:   out.DurationMS,
	}, nil
}

func (c *Client) post(ctx context.Context, path string, payload any) (*envelope, error) {
	if c == nil {
		return nil, errors.New("aiclient: client not configured")
	}
	if c.token == "" {
		return nil, fmt.Errorf("aiclient: %w", domain.ErrSubscriptionNeeded)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aiclient: %w", err)
	}
	defer resp.Body.Close()

	var out envelope
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return nil, fmt.Errorf("aiclient: http %d", resp.StatusCode)
		}
		return nil, err
	}
	if !out.Success || resp.StatusCode >= http.StatusBadRequest {
		return nil, serviceError(out.ErrorCode, out.ErrorMessage, resp.StatusCode)
	}
	return &out, nil
}

// serviceError maps the error codes the orchestrator must special-case
// to domain sentinels; everything else falls through to a generic
// provider failure.
func serviceError(code, message string, status int) error {
	switch code {
	case "insufficient_balance":
		return fmt.Errorf("%w: %s", domain.ErrInsufficientBalance, message)
	case "missing_credentials", "subscription_required":
		return fmt.Errorf("%w: %s", domain.ErrSubscriptionNeeded, message)
	case "rate_limited":
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, message)
	}
	if message != "" {
		return fmt.Errorf("%w: %s (%s)", domain.ErrProviderFailure, message, code)
	}
	return fmt.Errorf("%w: http %d", domain.ErrProviderFailure, status)
}
