package domain

import (
	"errors"
	"testing"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name      string
		target    string
		wantPath  string
		wantQuery string
		wantErr   bool
	}{
		{"absolute path", "/contacts", "/contacts", "", false},
		{"relative path", "contacts", "/contacts", "", false},
		{"relative with query", "contacts?usuarioId=U1", "/contacts", "U1", false},
		{"path variable", "/contacts/edit/42", "/contacts/edit/42", "", false},
		{"surrounding spaces", "  /login ", "/login", "", false},
		{"empty", "", "", "", true},
		{"absolute url", "http://example.com/contacts", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, err := ParseLocation(tt.target)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLocation) {
					t.Fatalf("ParseLocation(%q) error = %v, want ErrInvalidLocation", tt.target, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseLocation(%q) error = %v", tt.target, err)
			}
			if loc.Path != tt.wantPath {
				t.Errorf("Path = %q, want %q", loc.Path, tt.wantPath)
			}
			if got := loc.Query.Get(UserIDQueryParam); got != tt.wantQuery {
				t.Errorf("Query[%s] = %q, want %q", UserIDQueryParam, got, tt.wantQuery)
			}
		})
	}
}

func TestContactsLocation(t *testing.T) {
	if got := ContactsLocation("U1").String(); got != "/contacts?usuarioId=U1" {
		t.Errorf("ContactsLocation(U1) = %q", got)
	}
	if got := ContactsLocation("").String(); got != "/contacts" {
		t.Errorf("ContactsLocation(\"\") = %q", got)
	}
	if got := LoginLocation().String(); got != "/login" {
		t.Errorf("LoginLocation() = %q", got)
	}
}

func TestDefaultRoutes(t *testing.T) {
	want := map[string]bool{
		"/":                   false,
		"/login":              false,
		"/register":           false,
		"/contacts":           true,
		"/contacts/new":       true,
		"/contacts/edit/{id}": true,
	}

	routes := DefaultRoutes()
	if len(routes) != len(want) {
		t.Fatalf("len(DefaultRoutes()) = %d, want %d", len(routes), len(want))
	}
	for _, r := range routes {
		auth, ok := want[r.Path]
		if !ok {
			t.Errorf("unexpected route %q", r.Path)
			continue
		}
		if r.RequiresAuth != auth {
			t.Errorf("route %q RequiresAuth = %v, want %v", r.Path, r.RequiresAuth, auth)
		}
	}
}

func TestNavState_String(t *testing.T) {
	tests := map[NavState]string{
		NavPending:    "pending",
		NavAllowed:    "allowed",
		NavRedirected: "redirected",
		NavState(99):  "unknown",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("NavState(%d).String() = %q, want %q", s, got, want)
		}
	}
}
