package view

import (
	"context"

	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/core/service"
)

// Login renders the login route. After a guard redirect it names the
// location that required authentication.
func (v *Views) Login(_ context.Context, req service.ViewRequest) error {
	ev := req.Event
	if ev.State == domain.NavRedirected {
		v.printf("Authentication required for %s.\n", ev.Requested.String())
	}
	if v.session != nil && v.session.Session().Authenticated() {
		v.printf("Already logged in. Run `logout` to switch users.\n")
		return nil
	}
	v.printf("Log in with: login --user <user>\n")
	v.printf("No account? Run: register --name <name> --user <user>\n")
	return nil
}

// RegisterForm renders the register route.
func (v *Views) RegisterForm(_ context.Context, _ service.ViewRequest) error {
	v.printf("Create an account with: register --name <name> --user <user>\n")
	v.printf("Already registered? Run: login --user <user>\n")
	return nil
}
