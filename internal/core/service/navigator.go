package service

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/gorilla/mux"

	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/telemetry/logger"
	"github.com/yndnr/contacts-cli/internal/telemetry/metric"
)

// maxRedirectHops bounds static route redirects such as "/" -> "/login".
const maxRedirectHops = 4

// historyLimit bounds the retained navigation history.
const historyLimit = 100

// SessionState reports whether a session is currently held.
type SessionState interface {
	Authenticated() bool
}

// ViewRequest is passed to the view of the route a navigation resolved to.
type ViewRequest struct {
	Event domain.NavigationEvent
	// Form carries input for create and edit views. It is only passed to
	// the view of the requested route, never to a redirect target.
	Form map[string]string
}

// View renders one route.
type View func(ctx context.Context, req ViewRequest) error

// Navigator resolves navigation targets against the route table, applies
// the guard and dispatches to the registered view.
type Navigator struct {
	session SessionState
	logger  logger.Logger
	metrics *metric.Registry

	router *mux.Router
	routes map[string]domain.Route
	order  []domain.Route

	mu        sync.Mutex
	views     map[string]View
	observers []func(domain.NavigationEvent)
	current   domain.Location
	history   []domain.NavigationEvent
}

// NavigatorOption configures a Navigator.
type NavigatorOption func(*Navigator)

// WithNavigatorLogger sets the logger.
func WithNavigatorLogger(l logger.Logger) NavigatorOption {
	return func(n *Navigator) {
		n.logger = l
	}
}

// WithNavigatorMetrics records navigation counters into reg.
func WithNavigatorMetrics(reg *metric.Registry) NavigatorOption {
	return func(n *Navigator) {
		n.metrics = reg
	}
}

// NewNavigator builds a navigator over routes. The guard consults session
// on every attempt.
func NewNavigator(routes []domain.Route, session SessionState, opts ...NavigatorOption) (*Navigator, error) {
	n := &Navigator{
		session: session,
		logger:  logger.Default(),
		router:  mux.NewRouter(),
		routes:  make(map[string]domain.Route, len(routes)),
		views:   make(map[string]View),
	}
	for _, opt := range opts {
		opt(n)
	}
	n.logger = n.logger.With("component", "router")

	for _, r := range routes {
		if r.Name == "" || r.Path == "" {
			return nil, domain.ErrInvalidArgument.WithDetails("route needs a name and a path")
		}
		if _, dup := n.routes[r.Name]; dup {
			return nil, domain.ErrInvalidArgument.WithDetails("duplicate route " + r.Name)
		}
		mr := n.router.Path(r.Path).Name(r.Name)
		if err := mr.GetError(); err != nil {
			return nil, domain.ErrInvalidArgument.WithDetails("route " + r.Name).WithCause(err)
		}
		n.routes[r.Name] = r
		n.order = append(n.order, r)
	}

	login, _, ok := n.match(domain.PathLogin)
	if !ok {
		return nil, domain.ErrInvalidArgument.WithDetails("route table has no login route")
	}
	if login.RequiresAuth {
		return nil, domain.ErrInvalidArgument.WithDetails("login route must not require authentication")
	}

	return n, nil
}

// Handle registers the view rendered for the named route.
func (n *Navigator) Handle(routeName string, v View) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.views[routeName] = v
}

// OnNavigate registers fn to be called with every resolved navigation,
// before the view renders.
func (n *Navigator) OnNavigate(fn func(domain.NavigationEvent)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.observers = append(n.observers, fn)
}

// NavigateOption configures a single navigation.
type NavigateOption func(*navigateOptions)

type navigateOptions struct {
	form map[string]string
}

// WithForm passes form input to the view of the requested route.
func WithForm(form map[string]string) NavigateOption {
	return func(o *navigateOptions) {
		o.form = form
	}
}

// Navigate parses target and navigates to it.
func (n *Navigator) Navigate(ctx context.Context, target string, opts ...NavigateOption) (*domain.NavigationEvent, error) {
	loc, err := domain.ParseLocation(target)
	if err != nil {
		return nil, err
	}
	return n.NavigateTo(ctx, loc, opts...)
}

// NavigateTo resolves loc, applies the guard, records the navigation and
// renders the view of the final route.
//
// Each attempt starts Pending and ends Allowed or Redirected. A redirect
// to login starts a fresh attempt for the login route, which always
// resolves Allowed.
func (n *Navigator) NavigateTo(ctx context.Context, loc domain.Location, opts ...NavigateOption) (*domain.NavigationEvent, error) {
	var o navigateOptions
	for _, opt := range opts {
		opt(&o)
	}

	event, err := n.resolve(loc)
	if err != nil {
		n.logger.Debug("navigation failed", "target", loc.String(), "error", err)
		return nil, err
	}

	n.mu.Lock()
	n.current = event.Final
	n.history = append(n.history, *event)
	if len(n.history) > historyLimit {
		n.history = n.history[len(n.history)-historyLimit:]
	}
	observers := append([]func(domain.NavigationEvent){}, n.observers...)
	view := n.views[event.Route.Name]
	n.mu.Unlock()

	n.metrics.ObserveNavigation(event.State.String())
	n.logger.Debug("navigated",
		"requested", event.Requested.String(),
		"final", event.Final.String(),
		"state", event.State.String())

	for _, fn := range observers {
		fn(*event)
	}

	if view == nil {
		return event, nil
	}

	req := ViewRequest{Event: *event}
	if event.State == domain.NavAllowed {
		req.Form = o.form
	}
	if err := view(ctx, req); err != nil {
		return event, err
	}
	return event, nil
}

// resolve turns a requested location into a terminal navigation event.
func (n *Navigator) resolve(requested domain.Location) (*domain.NavigationEvent, error) {
	loc := requested
	route, params, ok := n.match(loc.Path)
	if !ok {
		return nil, domain.ErrRouteNotFound.WithDetails(loc.Path)
	}

	for hops := 0; route.RedirectTo != ""; hops++ {
		if hops >= maxRedirectHops {
			return nil, domain.ErrRouteNotFound.WithDetails(fmt.Sprintf("too many redirects from %s", requested.Path))
		}
		loc = domain.Location{Path: route.RedirectTo}
		if route, params, ok = n.match(loc.Path); !ok {
			return nil, domain.ErrRouteNotFound.WithDetails(loc.Path)
		}
	}

	event := &domain.NavigationEvent{
		Requested: requested,
		State:     domain.NavPending,
	}

	d := Guard(route, loc, n.session != nil && n.session.Authenticated())
	if d.State == domain.NavRedirected {
		route, params, ok = n.match(d.Target.Path)
		if !ok {
			return nil, domain.ErrRouteNotFound.WithDetails(d.Target.Path)
		}
	}

	event.Final = d.Target
	event.Route = route
	event.Params = params
	event.State = d.State
	return event, nil
}

// match finds the route for path and its path variables.
func (n *Navigator) match(path string) (domain.Route, map[string]string, bool) {
	req := &http.Request{Method: http.MethodGet, URL: &url.URL{Path: path}}
	var m mux.RouteMatch
	if !n.router.Match(req, &m) || m.MatchErr != nil || m.Route == nil {
		return domain.Route{}, nil, false
	}
	r, ok := n.routes[m.Route.GetName()]
	if !ok {
		return domain.Route{}, nil, false
	}
	return r, m.Vars, true
}

// Match reports the route and path variables for path without navigating.
func (n *Navigator) Match(path string) (domain.Route, map[string]string, bool) {
	return n.match(path)
}

// Current returns the location rendered last.
func (n *Navigator) Current() domain.Location {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// History returns a copy of the retained navigation events, oldest first.
func (n *Navigator) History() []domain.NavigationEvent {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]domain.NavigationEvent(nil), n.history...)
}

// Routes returns the route table in declaration order.
func (n *Navigator) Routes() []domain.Route {
	return append([]domain.Route(nil), n.order...)
}

// Route returns the named route.
func (n *Navigator) Route(name string) (domain.Route, bool) {
	r, ok := n.routes[name]
	return r, ok
}
