package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/yndnr/contacts-cli/internal/cli/connection"
	"github.com/yndnr/contacts-cli/internal/core/domain"
)

// API endpoint paths, relative to the configured base URL.
const (
	pathAuthentication = "authentication"
	pathUsers          = "users"
	pathContacts       = "contacts"
)

// APIClient is the transport used by the API-backed services.
type APIClient interface {
	Get(ctx context.Context, path string) (*http.Response, error)
	Post(ctx context.Context, path string, body any) (*http.Response, error)
	Put(ctx context.Context, path string, body any) (*http.Response, error)
}

// APIAuthenticator authenticates against the remote contacts API.
type APIAuthenticator struct {
	client APIClient
}

// NewAPIAuthenticator creates an authenticator over client.
func NewAPIAuthenticator(client APIClient) *APIAuthenticator {
	return &APIAuthenticator{client: client}
}

// Authenticate posts the credentials and returns the issued token and
// user id.
func (a *APIAuthenticator) Authenticate(ctx context.Context, creds domain.Credentials) (*domain.AuthResult, error) {
	resp, err := a.client.Post(ctx, pathAuthentication, creds)
	if err != nil {
		return nil, domain.ErrAuthUnavailable.WithCause(err)
	}

	var res domain.AuthResult
	if err := connection.ParseResponse(resp, &res); err != nil {
		var apiErr *connection.APIError
		if errors.As(err, &apiErr) {
			if apiErr.StatusCode >= 500 {
				return nil, domain.ErrAuthUnavailable.WithDetails(apiErr.Error()).WithCause(err)
			}
			return nil, domain.ErrAuthFailed.WithDetails(apiErr.Error()).WithCause(err)
		}
		return nil, domain.ErrAuthUnavailable.WithCause(err)
	}
	if res.Token == "" {
		return nil, domain.ErrAuthFailed.WithDetails("response carried no token")
	}
	return &res, nil
}

// Register creates a new account. It does not log in.
func (a *APIAuthenticator) Register(ctx context.Context, user domain.User) error {
	if user.User == "" || user.Password == "" {
		return domain.ErrMissingArgument.WithDetails("user and password are required")
	}
	resp, err := a.client.Post(ctx, pathUsers, user)
	if err != nil {
		return domain.ErrAuthUnavailable.WithCause(err)
	}
	if err := connection.ParseResponse(resp, nil); err != nil {
		return mapAPIError(err)
	}
	return nil
}

// ContactService reads and writes contacts through the remote API.
type ContactService struct {
	client  APIClient
	session SessionReader
}

// SessionReader exposes the current session.
type SessionReader interface {
	Session() domain.Session
}

// NewContactService creates a contact service. New contacts are attributed
// to the user of session.
func NewContactService(client APIClient, session SessionReader) *ContactService {
	return &ContactService{client: client, session: session}
}

// List returns the contacts of userID. An empty userID uses the session
// user.
func (s *ContactService) List(ctx context.Context, userID string) ([]domain.Contact, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	if userID == "" {
		userID = s.session.Session().UserID
	}
	path := pathContacts
	if userID != "" {
		path += "?" + url.Values{domain.UserIDQueryParam: []string{userID}}.Encode()
	}

	resp, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, domain.ErrAPIRequest.WithCause(err)
	}
	var contacts []domain.Contact
	if err := connection.ParseResponse(resp, &contacts); err != nil {
		return nil, mapAPIError(err)
	}
	return contacts, nil
}

// Get returns one contact.
func (s *ContactService) Get(ctx context.Context, id string) (*domain.Contact, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.ErrMissingArgument.WithDetails("contact id is required")
	}

	resp, err := s.client.Get(ctx, pathContacts+"/"+url.PathEscape(id))
	if err != nil {
		return nil, domain.ErrAPIRequest.WithCause(err)
	}
	var c domain.Contact
	if err := connection.ParseResponse(resp, &c); err != nil {
		return nil, mapAPIError(err)
	}
	return &c, nil
}

// Create stores a new contact owned by the session user.
func (s *ContactService) Create(ctx context.Context, c domain.Contact) (*domain.Contact, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	if c.Name == "" {
		return nil, domain.ErrMissingArgument.WithDetails("name is required")
	}
	if c.UserID == "" {
		c.UserID = s.session.Session().UserID
	}

	resp, err := s.client.Post(ctx, pathContacts, c)
	if err != nil {
		return nil, domain.ErrAPIRequest.WithCause(err)
	}
	var created domain.Contact
	if err := connection.ParseResponse(resp, &created); err != nil {
		return nil, mapAPIError(err)
	}
	return &created, nil
}

// Update replaces the contact id with c.
func (s *ContactService) Update(ctx context.Context, id string, c domain.Contact) (*domain.Contact, error) {
	if err := s.requireSession(); err != nil {
		return nil, err
	}
	if id == "" {
		return nil, domain.ErrMissingArgument.WithDetails("contact id is required")
	}
	c.ID = id

	resp, err := s.client.Put(ctx, pathContacts+"/"+url.PathEscape(id), c)
	if err != nil {
		return nil, domain.ErrAPIRequest.WithCause(err)
	}
	var updated domain.Contact
	if err := connection.ParseResponse(resp, &updated); err != nil {
		return nil, mapAPIError(err)
	}
	return &updated, nil
}

func (s *ContactService) requireSession() error {
	if s.session == nil || !s.session.Session().Authenticated() {
		return domain.ErrNotAuthenticated
	}
	return nil
}

// mapAPIError converts a response error into a domain error.
func mapAPIError(err error) error {
	var apiErr *connection.APIError
	if !errors.As(err, &apiErr) {
		return domain.ErrAPIRequest.WithCause(err)
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return domain.ErrNotAuthenticated.WithDetails(apiErr.Error()).WithCause(err)
	case http.StatusNotFound:
		return domain.ErrContactNotFound.WithDetails(apiErr.Error()).WithCause(err)
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return domain.ErrInvalidArgument.WithDetails(apiErr.Error()).WithCause(err)
	default:
		return domain.ErrAPIRequest.WithDetails(apiErr.Error()).WithCause(err)
	}
}
