package ece

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
)

// User is a platform user record as returned by GET /api/v1/users.
type User struct {
	UserName string       `json:"user_name"`
	FullName string       `json:"full_name,omitempty"`
	Email    string       `json:"email,omitempty"`
	Builtin  bool         `json:"builtin,omitempty"`
	Metadata UserMetadata `json:"metadata,omitempty"`
	Security UserSecurity `json:"security,omitempty"`
}

// UserMetadata carries provenance fields. CreatedBy is empty for accounts
// that predate provenance tracking and for bootstrap users.
type UserMetadata struct {
	CreatedBy string `json:"created_by,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// UserSecurity holds the security sub-document of a user.
type UserSecurity struct {
	Enabled bool `json:"enabled"`
}

// ServiceAccount is an entry from the platform service-accounts endpoint.
type ServiceAccount struct {
	UserID string `json:"user_id"`
}

// DeleteResult is the raw server verdict for a single delete call. It is
// only produced when the request made it to the server; transport failures
// surface as errors instead.
type DeleteResult struct {
	StatusCode int
	ErrorCode  string
	Message    string
}

// ListUsers fetches every user visible to the caller. Disabled users are
// excluded unless includeDisabled is set.
func (c *Client) ListUsers(includeDisabled bool) ([]User, error) {
	q := url.Values{}
	q.Set("include_disabled", strconv.FormatBool(includeDisabled))

	resp, err := c.Do(http.MethodGet, "/users", q, nil)
	if err != nil {
		return nil, err
	}
	if err := CheckError(resp); err != nil {
		return nil, err
	}

	body, err := ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed struct {
		Users []User `json:"users"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	return parsed.Users, nil
}

// ListServiceAccounts fetches the user IDs of all platform service accounts.
func (c *Client) ListServiceAccounts() ([]string, error) {
	resp, err := c.Do(http.MethodGet, "/platform/configuration/security/service-accounts", nil, nil)
	if err != nil {
		return nil, err
	}
	if err := CheckError(resp); err != nil {
		return nil, err
	}

	body, err := ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var parsed struct {
		ServiceAccounts []ServiceAccount `json:"service_accounts"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	ids := make([]string, 0, len(parsed.ServiceAccounts))
	for _, sa := range parsed.ServiceAccounts {
		if sa.UserID != "" {
			ids = append(ids, sa.UserID)
		}
	}
	return ids, nil
}

// DeleteUser issues a delete for the named user and reports the server's
// verdict. A non-2xx status is not an error here; callers classify it.
func (c *Client) DeleteUser(username string) (*DeleteResult, error) {
	resp, err := c.Do(http.MethodDelete, "/users/"+url.PathEscape(username), nil, nil)
	if err != nil {
		return nil, err
	}

	body, err := ReadBody(resp)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	result := &DeleteResult{StatusCode: resp.StatusCode}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return result, nil
	}

	var envelope errorEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Errors) == 0 {
		slog.Debug("delete response had no parseable error payload",
			"user", username, "status", resp.StatusCode)
		return result, nil
	}
	result.ErrorCode = envelope.Errors[0].Code
	result.Message = envelope.Errors[0].Message
	return result, nil
}
