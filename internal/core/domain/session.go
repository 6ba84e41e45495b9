// Package domain defines the core domain models for contacts-cli.
package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Durable storage keys for the persisted session.
const (
	KeyToken  = "token"
	KeyUserID = "userId"
)

// Session is the authenticated identity of the current user.
//
// An empty Token means logged out. Token and UserID are set together on
// login and cleared together on logout.
type Session struct {
	Token  string `json:"token,omitempty"`
	UserID string `json:"user_id,omitempty"`
}

// Authenticated reports whether the session carries a token.
func (s Session) Authenticated() bool {
	return s.Token != ""
}

// IsZero reports whether both fields are absent.
func (s Session) IsZero() bool {
	return s.Token == "" && s.UserID == ""
}

// Credentials are submitted to the remote API to authenticate.
type Credentials struct {
	User     string `json:"user"`
	Password string `json:"password"`
}

// Validate checks that both fields are present.
func (c Credentials) Validate() error {
	if c.User == "" {
		return ErrMissingArgument.WithDetails("user is required")
	}
	if c.Password == "" {
		return ErrMissingArgument.WithDetails("password is required")
	}
	return nil
}

// AuthResult is the remote API response to a successful authentication.
type AuthResult struct {
	Token string `json:"token"`
	User  string `json:"user"`
}

// UnmarshalJSON accepts the user id as a JSON string or number. The id is
// opaque to the client and kept as text.
func (r *AuthResult) UnmarshalJSON(data []byte) error {
	var raw struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	user, err := scalarText(raw.User)
	if err != nil {
		return fmt.Errorf("auth result user: %w", err)
	}
	r.Token = raw.Token
	r.User = user
	return nil
}

// scalarText renders a JSON string or number as text. Absent and null
// values are empty.
func scalarText(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	n, ok := v.(json.Number)
	if !ok {
		return "", fmt.Errorf("expected string or number, got %s", raw)
	}
	return n.String(), nil
}

// Session converts the result into the session it establishes.
func (r AuthResult) Session() Session {
	return Session{Token: r.Token, UserID: r.User}
}
