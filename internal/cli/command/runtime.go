package command

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/yndnr/contacts-cli/internal/cli/config"
	"github.com/yndnr/contacts-cli/internal/cli/connection"
	"github.com/yndnr/contacts-cli/internal/cli/output"
	"github.com/yndnr/contacts-cli/internal/cli/view"
	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/core/service"
	"github.com/yndnr/contacts-cli/internal/infra/buildinfo"
	"github.com/yndnr/contacts-cli/internal/infra/shutdown"
	"github.com/yndnr/contacts-cli/internal/storage"
	"github.com/yndnr/contacts-cli/internal/telemetry/logger"
	"github.com/yndnr/contacts-cli/internal/telemetry/metric"
)

// shutdownTimeout bounds the close hooks run when the runtime closes.
const shutdownTimeout = 5 * time.Second

// Streams are the standard streams of the process.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// Runtime holds the services shared by all commands of one process.
//
// Configuration, logging and metrics are ready after NewRuntime. Storage,
// the API client, the session store and the navigator are opened by Open
// on first use, so commands that only touch configuration never lock the
// session directory.
type Runtime struct {
	Config     *config.CLIConfig
	ConfigPath string
	Logger     logger.Logger
	Metrics    *metric.Registry

	In  *bufio.Reader
	Out io.Writer
	Err io.Writer

	mu     sync.Mutex
	format output.Format
	opened bool
	owned  bool

	KV        storage.KV
	Client    *connection.HTTPClient
	Auth      *service.APIAuthenticator
	Session   *service.SessionStore
	Contacts  *service.ContactService
	Navigator *service.Navigator
	Views     *view.Views

	shutdown *shutdown.Handler
}

// NewRuntime builds the runtime for cfg.
func NewRuntime(cfg *config.CLIConfig, configPath string, s Streams) (*Runtime, error) {
	if s.In == nil {
		s.In = os.Stdin
	}
	if s.Out == nil {
		s.Out = os.Stdout
	}
	if s.Err == nil {
		s.Err = os.Stderr
	}

	logCfg := cfg.Log
	logCfg.Output = s.Err
	log, err := logger.New(logCfg)
	if err != nil {
		return nil, err
	}
	logger.SetDefault(log)

	format, err := output.ParseFormat(cfg.Output)
	if err != nil {
		return nil, domain.ErrInvalidArgument.WithDetails(err.Error())
	}

	return &Runtime{
		Config:     cfg,
		ConfigPath: configPath,
		Logger:     log,
		Metrics:    metric.NewRegistry(),
		In:         bufio.NewReader(s.In),
		Out:        s.Out,
		Err:        s.Err,
		format:     format,
		shutdown:   shutdown.NewHandler(shutdownTimeout),
	}, nil
}

// Open opens storage, restores the session and wires the API client,
// services, navigator and views. It runs once; later calls return nil.
func (r *Runtime) Open(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.opened {
		return nil
	}

	kv, err := storage.Open(ctx, r.Config.Storage, r.Logger)
	if err != nil {
		return domain.ErrStorage.WithDetails("open session storage").WithCause(err)
	}
	r.shutdown.OnShutdown(func(context.Context) error { return kv.Close() })

	var store *service.SessionStore
	client, err := connection.NewHTTPClient(r.Config.API.BaseURL,
		connection.WithTokenSource(connection.TokenFunc(func() string { return store.Token() })),
		connection.WithTimeout(r.Config.API.Timeout),
		connection.WithRateLimit(r.Config.API.RateLimit),
		connection.WithCAFile(r.Config.API.CAFile),
		connection.WithUserAgent(buildinfo.UserAgent()),
		connection.WithMetrics(r.Metrics),
		connection.WithLogger(r.Logger),
	)
	if err != nil {
		_ = r.shutdown.Shutdown()
		return err
	}

	auth := service.NewAPIAuthenticator(client)
	store = service.NewSessionStore(kv, auth,
		service.WithSessionLogger(r.Logger),
		service.WithSessionMetrics(r.Metrics),
		service.WithClearUserOnLogout(r.Config.Session.ClearUserOnLogout),
	)
	store.Restore(ctx)
	if err := r.Metrics.Register(metric.NewSessionCollector(store.Authenticated)); err != nil {
		r.Logger.Warn("session collector not registered", "error", err)
	}

	nav, err := service.NewNavigator(domain.DefaultRoutes(), store,
		service.WithNavigatorLogger(r.Logger),
		service.WithNavigatorMetrics(r.Metrics),
	)
	if err != nil {
		_ = r.shutdown.Shutdown()
		return err
	}

	contacts := service.NewContactService(client, store)
	views := view.New(r.Out, r.format, contacts, store)
	views.Register(nav)

	r.KV = kv
	r.Client = client
	r.Auth = auth
	r.Session = store
	r.Contacts = contacts
	r.Navigator = nav
	r.Views = views
	r.opened = true
	return nil
}

// SetFormat changes the output format of later renders.
func (r *Runtime) SetFormat(f output.Format) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.format = f
	if r.Views != nil {
		r.Views.SetOutput(r.Out, f)
	}
}

// Format returns the current output format.
func (r *Runtime) Format() output.Format {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.format
}

// Render writes data in the current output format.
func (r *Runtime) Render(data any) error {
	return output.NewFormatter(r.Format()).Format(r.Out, data)
}

// OnClose registers a hook run by Close.
func (r *Runtime) OnClose(fn func(context.Context) error) {
	r.shutdown.OnShutdown(fn)
}

// Close releases storage and every registered hook.
func (r *Runtime) Close() error {
	return r.shutdown.Shutdown()
}

// ReadLine writes prompt to Err and reads one line from In without the
// trailing newline. A final line without newline is returned with a nil
// error.
func (r *Runtime) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(r.Err, prompt)
	}
	line, err := r.In.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Interactive reports whether w is a terminal.
func Interactive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice != 0
}
