// Package domain defines the core domain models for contacts-cli.
package domain

import (
	"net/url"
	"strings"
)

// Route names of the default route table.
const (
	RouteRoot          = "root"
	RouteLogin         = "login"
	RouteRegister      = "register"
	RouteContacts      = "contacts"
	RouteContactCreate = "contact-create"
	RouteContactEdit   = "contact-edit"
)

// Well-known paths.
const (
	PathLogin    = "/login"
	PathContacts = "/contacts"
)

// UserIDQueryParam carries the user identifier to the contact list.
const UserIDQueryParam = "usuarioId"

// Route is a static entry of the route table.
//
// Path may contain {var} placeholders. A route with RedirectTo set has no
// view of its own and always forwards to that path.
type Route struct {
	Name         string
	Path         string
	RequiresAuth bool
	RedirectTo   string
}

// DefaultRoutes returns the route table of the client.
func DefaultRoutes() []Route {
	return []Route{
		{Name: RouteRoot, Path: "/", RedirectTo: PathLogin},
		{Name: RouteLogin, Path: PathLogin},
		{Name: RouteRegister, Path: "/register"},
		{Name: RouteContacts, Path: PathContacts, RequiresAuth: true},
		{Name: RouteContactCreate, Path: "/contacts/new", RequiresAuth: true},
		{Name: RouteContactEdit, Path: "/contacts/edit/{id}", RequiresAuth: true},
	}
}

// Location is a navigation target: a path plus query parameters.
type Location struct {
	Path  string
	Query url.Values
}

// ParseLocation parses a navigation target such as
// "contacts?usuarioId=U1". Relative paths are made absolute.
func ParseLocation(target string) (Location, error) {
	target = strings.TrimSpace(target)
	if target == "" {
		return Location{}, ErrInvalidLocation.WithDetails("empty location")
	}

	u, err := url.Parse(target)
	if err != nil {
		return Location{}, ErrInvalidLocation.WithDetails(target).WithCause(err)
	}
	if u.Scheme != "" || u.Host != "" {
		return Location{}, ErrInvalidLocation.WithDetails("absolute URLs are not routable: " + target)
	}

	path := u.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return Location{Path: path, Query: u.Query()}, nil
}

// ContactsLocation returns the contact list location for a user.
func ContactsLocation(userID string) Location {
	loc := Location{Path: PathContacts}
	if userID != "" {
		loc.Query = url.Values{UserIDQueryParam: []string{userID}}
	}
	return loc
}

// LoginLocation returns the login location.
func LoginLocation() Location {
	return Location{Path: PathLogin}
}

// String renders the location as path?query.
func (l Location) String() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// IsZero reports whether the location is unset.
func (l Location) IsZero() bool {
	return l.Path == "" && len(l.Query) == 0
}

// NavState is the state of a navigation attempt.
type NavState int

const (
	// NavPending is the initial state before the guard runs.
	NavPending NavState = iota
	// NavAllowed means navigation proceeds to the target.
	NavAllowed
	// NavRedirected means navigation was diverted to the login route.
	NavRedirected
)

// String returns the state name.
func (s NavState) String() string {
	switch s {
	case NavPending:
		return "pending"
	case NavAllowed:
		return "allowed"
	case NavRedirected:
		return "redirected"
	default:
		return "unknown"
	}
}

// NavigationEvent records a resolved navigation attempt.
type NavigationEvent struct {
	// Requested is the location the caller asked for.
	Requested Location
	// Final is the location that was rendered.
	Final Location
	// Route is the route matched for Final.
	Route Route
	// Params holds path variables extracted from Final.
	Params map[string]string
	// State is the terminal state of the attempt.
	State NavState
}
