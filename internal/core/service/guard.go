package service

import "github.com/yndnr/contacts-cli/internal/core/domain"

// Decision is the terminal outcome of guarding one navigation attempt.
type Decision struct {
	State  domain.NavState
	Target domain.Location
}

// Guard decides whether navigation to target, matched by route, may
// proceed. Routes that require authentication redirect to the login route
// when no session is held; everything else is allowed unchanged.
//
// Guard has no side effects and is evaluated fresh on every attempt.
func Guard(route domain.Route, target domain.Location, authenticated bool) Decision {
	if route.RequiresAuth && !authenticated {
		return Decision{State: domain.NavRedirected, Target: domain.LoginLocation()}
	}
	return Decision{State: domain.NavAllowed, Target: target}
}
