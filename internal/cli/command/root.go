package command

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/contacts-cli/internal/cli/config"
	"github.com/yndnr/contacts-cli/internal/cli/output"
	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/infra/buildinfo"
)

// App.Metadata keys. sharedKey marks an app running on a runtime it does
// not own.
const (
	runtimeKey = "runtime"
	sharedKey  = "shared"
)

// App creates the CLI application. The runtime is built in Before and
// closed in After.
func App() *cli.App {
	return newApp(nil)
}

// newApp builds the application. A non-nil shared runtime is reused
// across runs and left open; the REPL runs every line this way.
func newApp(shared *Runtime) *cli.App {
	app := &cli.App{
		Name:                 "contacts-cli",
		Usage:                "Terminal client for the contacts API",
		Version:              buildinfo.String(),
		Flags:                globalFlags(),
		Commands:             commands(),
		EnableBashCompletion: true,
		Metadata:             map[string]any{},
		Before:               before,
		After:                after,
	}
	if shared != nil {
		app.Metadata[runtimeKey] = shared
		app.Metadata[sharedKey] = true
		app.Reader = shared.In
		app.Writer = shared.Out
		app.ErrWriter = shared.Err
		app.ExitErrHandler = func(*cli.Context, error) {}
	}
	return app
}

func commands() []*cli.Command {
	return []*cli.Command{
		LoginCommand(),
		LogoutCommand(),
		RegisterCommand(),
		WhoamiCommand(),
		ContactsCommand(),
		OpenCommand(),
		RoutesCommand(),
		ConfigCommand(),
		MetricsCommand(),
		ReplCommand(),
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Config file path",
			EnvVars: []string{"CONTACTS_CONFIG"},
			Value:   config.DefaultConfigPath(),
		},
		&cli.StringFlag{
			Name:    "api",
			Usage:   "Contacts API base URL",
			EnvVars: []string{"CONTACTS_API"},
		},
		&cli.StringFlag{
			Name:  "storage",
			Usage: "Session storage engine: badger, redis, memory",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: table, wide, json, yaml",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Log level: debug, info, warn, error",
		},
	}
}

// flagOverrides maps the set global flags to config keys.
func flagOverrides(c *cli.Context) map[string]any {
	m := map[string]any{}
	if c.IsSet("api") {
		m["api.base_url"] = c.String("api")
	}
	if c.IsSet("storage") {
		m["storage.engine"] = c.String("storage")
	}
	if c.IsSet("output") {
		m["output"] = c.String("output")
	}
	switch {
	case c.IsSet("log-level"):
		m["log.level"] = c.String("log-level")
	case c.Bool("verbose"):
		m["log.level"] = "debug"
	}
	return m
}

func before(c *cli.Context) error {
	if rt, ok := c.App.Metadata[runtimeKey].(*Runtime); ok && isShared(c) {
		// Shared runtime: only the per-line output flag applies.
		format := output.Format(rt.Config.Output)
		if c.IsSet("output") {
			f, err := output.ParseFormat(c.String("output"))
			if err != nil {
				return err
			}
			format = f
		}
		rt.SetFormat(format)
		return nil
	}

	path := c.String("config")
	cfg, err := config.Load(path, flagOverrides(c))
	if err != nil {
		return err
	}

	rt, err := NewRuntime(cfg, path, Streams{In: c.App.Reader, Out: c.App.Writer, Err: c.App.ErrWriter})
	if err != nil {
		return err
	}
	rt.owned = true
	c.App.Metadata[runtimeKey] = rt
	return nil
}

func after(c *cli.Context) error {
	if isShared(c) {
		return nil
	}
	rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
	if !ok || !rt.owned {
		return nil
	}
	delete(c.App.Metadata, runtimeKey)
	return rt.Close()
}

func isShared(c *cli.Context) bool {
	shared, _ := c.App.Metadata[sharedKey].(bool)
	return shared
}

// getRuntime returns the runtime built in Before.
func getRuntime(c *cli.Context) (*Runtime, error) {
	rt, ok := c.App.Metadata[runtimeKey].(*Runtime)
	if !ok {
		return nil, errors.New("runtime not initialized")
	}
	return rt, nil
}

// ready returns the runtime with its services opened.
func ready(c *cli.Context) (*Runtime, error) {
	rt, err := getRuntime(c)
	if err != nil {
		return nil, err
	}
	if err := rt.Open(c.Context); err != nil {
		return nil, err
	}
	return rt, nil
}

// ExitCode maps an error to a process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, domain.ErrNotAuthenticated), errors.Is(err, domain.ErrAuthFailed):
		return 2
	case errors.Is(err, domain.ErrMissingArgument), errors.Is(err, domain.ErrInvalidArgument),
		errors.Is(err, domain.ErrInvalidLocation), errors.Is(err, domain.ErrRouteNotFound):
		return 64
	default:
		return 1
	}
}

// PrintError writes err to w in the CLI's error format.
func PrintError(w io.Writer, err error) {
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
