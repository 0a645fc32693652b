// Package ece is a minimal client for the Elastic Cloud Enterprise platform
// API, covering the user and service-account endpoints the admin tooling needs.
package ece

import (
	"bytes"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to an ECE coordinator over its RESTful API.
type Client struct {
	BaseURL    string
	Username   string
	Password   string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a client for the given host. The host may be a bare
// hostname; NormalizeHost supplies the scheme. When apiKey is set it takes
// precedence over basic auth.
func NewClient(host, username, password, apiKey string) *Client {
	return &Client{
		BaseURL:  strings.TrimSuffix(NormalizeHost(host), "/"),
		Username: username,
		Password: password,
		APIKey:   apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NormalizeHost returns the base URL for an ECE host. Explicit schemes are
// kept; localhost-style hosts default to http, anything else to https. An
// empty host stays empty so callers can detect it and prompt.
func NormalizeHost(host string) string {
	host = strings.TrimSuffix(strings.TrimSpace(host), "/")
	switch {
	case host == "":
		return ""
	case strings.HasPrefix(host, "http://"), strings.HasPrefix(host, "https://"):
		return host
	case strings.Contains(host, "localhost"), strings.HasPrefix(host, "127.0.0.1"):
		return "http://" + host
	default:
		return "https://" + host
	}
}

// InsecureTLS disables certificate verification on the underlying transport.
// ECE installations commonly run with self-signed certificates.
func (c *Client) InsecureTLS() {
	c.HTTPClient.Transport = &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}
}

// Do executes an HTTP request against the API. The path is relative to
// /api/v1. The body, when non-nil, is marshaled as JSON.
func (c *Client) Do(method, path string, query url.Values, body interface{}) (*http.Response, error) {
	reqURL := c.BaseURL + "/api/v1" + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	switch {
	case c.APIKey != "":
		req.Header.Set("Authorization", "ApiKey "+c.APIKey)
	case c.Username != "":
		req.SetBasicAuth(c.Username, c.Password)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	return resp, nil
}

// APIError is a non-2xx response from the API.
type APIError struct {
	HTTPStatus int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API error (HTTP %d): %s", e.HTTPStatus, e.Message)
}

// errorEnvelope is the ECE error payload: {"errors":[{"code":...,"message":...}]}.
type errorEnvelope struct {
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// CheckError returns an *APIError for non-2xx responses, consuming the body.
// Responses in the 2xx range return nil with the body left unread.
func CheckError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := ReadBody(resp)

	apiErr := &APIError{HTTPStatus: resp.StatusCode}
	var envelope errorEnvelope
	if json.Unmarshal(body, &envelope) == nil && len(envelope.Errors) > 0 {
		apiErr.Code = envelope.Errors[0].Code
		apiErr.Message = envelope.Errors[0].Message
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(body))
	}
	return apiErr
}

// ReadBody reads and closes the response body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer func() { _ = resp.Body.Close() }()
	return io.ReadAll(resp.Body)
}
