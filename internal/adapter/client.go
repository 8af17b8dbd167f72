package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gwifloria/chrome-dida-extension/internal/auth"
)

// DefaultBaseURL is the DidaList open API root.
const DefaultBaseURL = "https://api.dida365.com/open/v1"

// Client is the authenticated HTTP JSON client for the remote backend.
type Client struct {
	baseURL string
	tokens  auth.TokenSource
	httpc   *http.Client
}

// NewClient creates a client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, tokens auth.TokenSource) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpc:   &http.Client{Timeout: 30 * time.Second},
	}
}

// apiError is the backend's error envelope. Different endpoints use
// different field names for the human-readable message.
type apiError struct {
	ErrorMessage string `json:"errorMessage"`
	ErrorField   string `json:"error"`
	Message      string `json:"message"`
}

func (e apiError) message() string {
	switch {
	case e.ErrorMessage != "":
		return e.ErrorMessage
	case e.ErrorField != "":
		return e.ErrorField
	case e.Message != "":
		return e.Message
	}
	return ""
}

// do performs an authenticated JSON request. A nil out tolerates 204 and
// empty bodies, which the mutation endpoints return routinely.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return &AuthError{Reason: err.Error()}
	}
	if token == "" {
		return &AuthError{}
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope apiError
		json.Unmarshal(data, &envelope)
		msg := envelope.message()
		if msg == "" {
			msg = fmt.Sprintf("request failed: %d", resp.StatusCode)
		}
		return &NetworkError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &ParseError{Err: err}
	}
	return nil
}

// Endpoint paths.
func pathProjects() string { return "/project" }

func pathProjectData(projectID string) string {
	return "/project/" + projectID + "/data"
}

func pathTaskCreate() string { return "/task" }

func pathTaskUpdate(taskID string) string { return "/task/" + taskID }

func pathTaskComplete(projectID, taskID string) string {
	return "/project/" + projectID + "/task/" + taskID + "/complete"
}

func pathTaskDelete(projectID, taskID string) string {
	return "/project/" + projectID + "/task/" + taskID
}
