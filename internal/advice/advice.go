// Package advice talks to the external advisory text service.
package advice

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// UnavailableMessage is returned to callers whenever no advice could be
// produced.
const UnavailableMessage = "Advice is currently unavailable. Please try again later."

// ErrNotConfigured is returned by Disabled.
var ErrNotConfigured = errors.New("advice endpoint not configured")

// Advisor produces free text advice for a prompt.
type Advisor interface {
	Advise(ctx context.Context, prompt string) (string, error)
}

// Disabled is the Advisor used when no endpoint is configured.
type Disabled struct{}

func (Disabled) Advise(context.Context, string) (string, error) {
	return "", ErrNotConfigured
}

// HTTPAdvisor posts {"prompt": ...} to an endpoint and reads {"advice": ...}
// (or {"text": ...}) back.
type HTTPAdvisor struct {
	endpoint string
	client   *http.Client
}

func NewHTTPAdvisor(endpoint string, timeout time.Duration) *HTTPAdvisor {
	return &HTTPAdvisor{
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

type adviceRequest struct {
	Prompt string `json:"prompt"`
}

type adviceResponse struct {
	Advice string `json:"advice"`
	Text   string `json:"text"`
}

func (a *HTTPAdvisor) Advise(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(adviceRequest{Prompt: prompt})
	if err != nil {
		return "", fmt.Errorf("encode advice request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build advice request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("advice request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read advice response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("advice service returned status %d", resp.StatusCode)
	}

	var out adviceResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", fmt.Errorf("decode advice response: %w", err)
	}
	text := strings.TrimSpace(out.Advice)
	if text == "" {
		text = strings.TrimSpace(out.Text)
	}
	if text == "" {
		return "", errors.New("advice service returned an empty answer")
	}
	return text, nil
}
