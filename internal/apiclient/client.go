// Package apiclient calls the ElderEase backend over HTTP.
package apiclient

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

	"elderease/internal/model"
	"elderease/pkg/log"
)

var (
	// ErrUnreachable means no HTTP response came back at all.
	ErrUnreachable = errors.New("backend unreachable")
	// ErrUpstream means the backend answered with a non-2xx status.
	ErrUpstream = errors.New("backend returned an error")
)

// UpstreamError carries the status and error body of a failed call.
type UpstreamError struct {
	StatusCode int
	Message    string
	Details    string
}

func (e *UpstreamError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("backend status %d: %s (%s)", e.StatusCode, e.Message, e.Details)
	}
	return fmt.Sprintf("backend status %d: %s", e.StatusCode, e.Message)
}

// Is makes errors.Is(err, ErrUpstream) hold for every UpstreamError.
func (e *UpstreamError) Is(target error) bool {
	return target == ErrUpstream
}

// Client talks to the four chat endpoints.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// New creates a Client for baseURL, e.g. http://localhost:3001.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Chat sends one message and returns the assistant's reply.
func (c *Client) Chat(ctx context.Context, req model.ChatRequest) (string, error) {
	if req.History == nil {
		req.History = model.History{}
	}
	var resp model.ChatResponse
	if err := c.do(ctx, http.MethodPost, "/chat", req, &resp); err != nil {
		return "", err
	}
	return resp.Response, nil
}

// Save replaces the stored history of userID.
func (c *Client) Save(ctx context.Context, userID string, history model.History) error {
	if history == nil {
		history = model.History{}
	}
	return c.do(ctx, http.MethodPost, "/save-chat", model.SaveChatRequest{UserID: userID, History: history}, nil)
}

// Load fetches the stored history of userID. Any failure is logged and yields an
// empty history, so a broken store never blocks the chat.
func (c *Client) Load(ctx context.Context, userID string) (model.History, error) {
	var resp model.LoadChatResponse
	if err := c.do(ctx, http.MethodGet, "/load-chat/"+url.PathEscape(userID), nil, &resp); err != nil {
		log.Warnf("load chat history failed: %v", err)
		return model.History{}, nil
	}
	if resp.History == nil {
		return model.History{}, nil
	}
	return resp.History, nil
}

// Clear deletes the stored history of userID.
func (c *Client) Clear(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/clear-chat/"+url.PathEscape(userID), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: reading response: %v", ErrUnreachable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upErr := &UpstreamError{StatusCode: resp.StatusCode}
		var errBody model.ErrorResponse
		if json.Unmarshal(respBody, &errBody) == nil && errBody.Error != "" {
			upErr.Message = errBody.Error
			upErr.Details = errBody.Details
		} else {
			upErr.Message = strings.TrimSpace(string(respBody))
		}
		return upErr
	}

	if out == nil {
		return nil
	}
	// a 2xx body that is not ours (captive portal, proxy page) means the backend was never reached
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decoding %s response: %v", ErrUnreachable, path, err)
	}
	return nil
}
