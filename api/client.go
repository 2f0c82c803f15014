package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
)

const (
	// DefaultBaseURL points at a local proxy; override it for real backends.
	DefaultBaseURL = "http://localhost:4000"

	defaultUserAgent = "chat-cli/1.0"
)

// Client handles API interactions with an OpenAI-compatible chat endpoint.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	UserAgent  string
}

// NewClient creates a new API client. An empty API key is permitted for
// unauthenticated local backends.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		// Timeout stays 0: a client-level timeout covers the whole body
		// read and would cut streams short. Callers bound requests with a
		// context instead.
		HTTPClient: &http.Client{},
		UserAgent:  defaultUserAgent,
	}
}

// Stream sends the conversation with stream enabled and returns a Session
// wrapping the live response body. The error is either a connection failure
// or a *StatusError; in both cases no session exists.
func (c *Client) Stream(ctx context.Context, req Request) (*Session, error) {
	req.Stream = true
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	slog.Debug("stream_open", "url", c.BaseURL, "model", req.Model, "messages_count", len(req.Messages))
	return newSession(resp.Body), nil
}

// ChatCompletion sends a non-streaming chat completion request and returns
// the full response.
func (c *Client) ChatCompletion(ctx context.Context, req Request) (*Response, error) {
	req.Stream = false
	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var apiResp Response
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return &apiResp, nil
}

func (c *Client) do(ctx context.Context, req Request) (*http.Response, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	slog.Debug("api_request",
		"url", c.BaseURL,
		"model", req.Model,
		"stream", req.Stream,
		"messages_count", len(req.Messages),
		"request_size", len(jsonData))

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	if c.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.UserAgent)
	}

	resp, err := c.HTTPClient.Do(httpReq)
	if err != nil {
		slog.Error("api_connect_error", "url", c.BaseURL, "error", err)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet := readSnippet(resp.Body)
		resp.Body.Close()
		slog.Error("api_status_error", "status_code", resp.StatusCode, "response_preview", snippet)
		return nil, &StatusError{Status: resp.StatusCode, Body: snippet}
	}
	return resp, nil
}

func readSnippet(r io.Reader) string {
	body, err := io.ReadAll(io.LimitReader(r, maxBodySnippet+1))
	if err != nil {
		return ""
	}
	if len(body) > maxBodySnippet {
		return string(body[:maxBodySnippet]) + "..."
	}
	return string(body)
}
