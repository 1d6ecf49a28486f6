// Package llm: remote HTTP backend.
// RemoteBackend POSTs the prompt to a configured inference endpoint using
// stdlib net/http and decodes the JSON answer into a RawSuggestion.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	mimeJSON          = "application/json"
	headerContentType = "Content-Type"

	DefaultRemoteTimeout     = 30 * time.Second
	DefaultRemoteMaxLength   = 2048
	DefaultRemoteTemperature = 0.7

	// maxResponseBytes caps how much of a response body is decoded.
	maxResponseBytes = 1 << 20
)

// RemoteConfig configures a RemoteBackend.
type RemoteConfig struct {
	URL         string
	Timeout     time.Duration // Zero means DefaultRemoteTimeout.
	MaxLength   int           // Zero means DefaultRemoteMaxLength.
	Temperature *float64      // Nil means DefaultRemoteTemperature.

	// HTTPClient overrides the default client. Its own Timeout is left untouched;
	// the per-call deadline is always applied through the request context.
	HTTPClient *http.Client
}

// RemoteBackend implements Backend against a remote inference endpoint.
// It never retries: one Infer call is one HTTP request.
type RemoteBackend struct {
	url         string
	timeout     time.Duration
	maxLength   int
	temperature float64
	httpClient  *http.Client
}

// NewRemoteBackend creates a RemoteBackend, applying defaults for unset fields.
func NewRemoteBackend(cfg RemoteConfig) *RemoteBackend {
	b := &RemoteBackend{
		url:         cfg.URL,
		timeout:     cfg.Timeout,
		maxLength:   cfg.MaxLength,
		temperature: DefaultRemoteTemperature,
		httpClient:  cfg.HTTPClient,
	}
	if b.timeout <= 0 {
		b.timeout = DefaultRemoteTimeout
	}
	if b.maxLength <= 0 {
		b.maxLength = DefaultRemoteMaxLength
	}
	if cfg.Temperature != nil {
		b.temperature = *cfg.Temperature
	}
	if b.httpClient == nil {
		b.httpClient = &http.Client{Timeout: b.timeout}
	}
	return b
}

// ID implements Backend.
func (b *RemoteBackend) ID() BackendID { return BackendServer }

// Timeout returns the bound applied to every call.
func (b *RemoteBackend) Timeout() time.Duration { return b.timeout }

// Infer sends one POST with {prompt, max_length, temperature}.
// Non-2xx status, transport errors, timeouts and undecodable bodies all
// come back as *BackendFailure.
func (b *RemoteBackend) Infer(ctx context.Context, p Prompt) (*RawSuggestion, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	body, err := json.Marshal(RemoteRequest{
		Prompt:      p.Instruction,
		MaxLength:   b.maxLength,
		Temperature: b.temperature,
	})
	if err != nil {
		return nil, b.fail(fmt.Errorf("encode request: %w", err))
	}

	respBody, postErr := b.doPost(ctx, body)
	if postErr != nil {
		return nil, b.fail(postErr)
	}
	defer respBody.Close() //nolint:errcheck

	var raw *RawSuggestion
	if decodeErr := json.NewDecoder(io.LimitReader(respBody, maxResponseBytes)).Decode(&raw); decodeErr != nil {
		return nil, b.fail(fmt.Errorf("%w: %v", ErrMalformedResponse, decodeErr))
	}
	if raw == nil {
		return nil, b.fail(fmt.Errorf("%w: empty body", ErrMalformedResponse))
	}
	return raw, nil
}

// doPost sends the request and returns the response body.
// Caller is responsible for closing the returned ReadCloser.
func (b *RemoteBackend) doPost(ctx context.Context, body []byte) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("post %s: build request: %w", b.url, err)
	}
	req.Header.Set(headerContentType, mimeJSON)

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", b.url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close() //nolint:errcheck
		return nil, fmt.Errorf("post %s: status %d", b.url, resp.StatusCode)
	}
	return resp.Body, nil
}

func (b *RemoteBackend) fail(err error) error {
	return &BackendFailure{Backend: BackendServer, Cause: err}
}
