package view

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/yndnr/contacts-cli/internal/cli/output"
	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/core/service"
)

// Contacts is the contact service used by the views.
type Contacts interface {
	List(ctx context.Context, userID string) ([]domain.Contact, error)
	Get(ctx context.Context, id string) (*domain.Contact, error)
	Create(ctx context.Context, c domain.Contact) (*domain.Contact, error)
	Update(ctx context.Context, id string, c domain.Contact) (*domain.Contact, error)
}

// Router registers views by route name.
type Router interface {
	Handle(routeName string, v service.View)
}

// Views renders every route to one writer.
type Views struct {
	contacts Contacts
	session  service.SessionReader

	mu     sync.Mutex
	out    io.Writer
	format output.Format
	last   any
}

// New creates the views.
func New(out io.Writer, format output.Format, contacts Contacts, session service.SessionReader) *Views {
	return &Views{
		out:      out,
		format:   format,
		contacts: contacts,
		session:  session,
	}
}

// Register installs a view for every route of the default table.
func (v *Views) Register(nav Router) {
	nav.Handle(domain.RouteLogin, v.Login)
	nav.Handle(domain.RouteRegister, v.RegisterForm)
	nav.Handle(domain.RouteContacts, v.ContactList)
	nav.Handle(domain.RouteContactCreate, v.ContactCreate)
	nav.Handle(domain.RouteContactEdit, v.ContactEdit)
}

// SetOutput changes the writer and format used by later renders.
func (v *Views) SetOutput(out io.Writer, format output.Format) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.out = out
	v.format = format
}

// Last returns the data rendered by the most recent view, if any.
func (v *Views) Last() any {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.last
}

func (v *Views) render(data any) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.last = data
	return output.NewFormatter(v.format).Format(v.out, data)
}

func (v *Views) humanOutput() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.format != output.FormatJSON && v.format != output.FormatYAML
}

// printf writes human hints. Hints are suppressed for json and yaml so
// that output stays machine-readable.
func (v *Views) printf(format string, args ...any) {
	if !v.humanOutput() {
		return
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	fmt.Fprintf(v.out, format, args...)
}
