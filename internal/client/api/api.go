// Package api holds the thin HTTP plumbing shared by every caller of the
// time4kids platform: URL building, JSON headers, and normalization of
// error responses into a typed APIError.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const maxErrorBodyBytes = 64 << 10

// APIError is a non-OK HTTP response normalized into an error. Message is
// the server-provided message when the body is parseable JSON, otherwise a
// generic fallback.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s (status %d)", e.Message, e.Status)
}

// ToAPIError reads a non-OK response body and produces an APIError. It
// never fails: unparseable bodies degrade to a generic message.
func ToAPIError(resp *http.Response) *APIError {
	msg := "request failed"
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	if err == nil && len(body) > 0 {
		var parsed struct {
			Message string `json:"message"`
			Detail  string `json:"detail"`
			Err     string `json:"error"`
		}
		if json.Unmarshal(body, &parsed) == nil {
			switch {
			case parsed.Message != "":
				msg = parsed.Message
			case parsed.Detail != "":
				msg = parsed.Detail
			case parsed.Err != "":
				msg = parsed.Err
			}
		}
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}

// JSONHeaders returns the headers sent with every JSON request.
func JSONHeaders() http.Header {
	h := make(http.Header)
	h.Set("Content-Type", "application/json")
	h.Set("Accept", "application/json")
	return h
}

// Client issues requests against the platform API.
type Client struct {
	baseURL      string
	mediaBaseURL string
	http         *http.Client
}

func New(baseURL, mediaBaseURL string) *Client {
	if mediaBaseURL == "" {
		mediaBaseURL = baseURL
	}
	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		mediaBaseURL: strings.TrimRight(mediaBaseURL, "/"),
		http:         &http.Client{},
	}
}

// URL joins the configured base URL with a request path.
func (c *Client) URL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// MediaURL resolves a media path against the media base URL. Absolute
// URLs pass through unchanged.
func (c *Client) MediaURL(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.mediaBaseURL + path
}

// Do builds and issues a request. A nil header defaults to JSON headers.
func (c *Client) Do(ctx context.Context, method, path string, header http.Header, payload []byte) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, err
	}
	if header == nil {
		header = JSONHeaders()
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return c.http.Do(req)
}

// FetchJSON issues an unauthenticated JSON request and returns the raw
// response body when it is valid JSON, nil otherwise. Non-OK responses
// come back as an APIError.
func (c *Client) FetchJSON(ctx context.Context, method, path string, reqBody any) (json.RawMessage, error) {
	var payload []byte
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return nil, err
		}
		payload = b
	}
	resp, err := c.Do(ctx, method, path, nil, payload)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, ToAPIError(resp)
	}
	return DecodeLenient(resp.Body), nil
}

// DecodeLenient reads a success body and returns it as raw JSON, or nil
// when the body is empty or not valid JSON. Malformed success bodies are
// deliberately swallowed; callers must tolerate a nil payload.
func DecodeLenient(r io.Reader) json.RawMessage {
	body, err := io.ReadAll(r)
	if err != nil || len(bytes.TrimSpace(body)) == 0 || !json.Valid(body) {
		return nil
	}
	return json.RawMessage(body)
}
