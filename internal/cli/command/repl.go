package command

import (
	"context"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/contacts-cli/internal/cli/config"
	"github.com/yndnr/contacts-cli/internal/cli/output"
	"github.com/yndnr/contacts-cli/internal/cli/repl"
	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/infra/confloader"
	"github.com/yndnr/contacts-cli/internal/telemetry/logger"
)

// ReplCommand returns the repl command.
func ReplCommand() *cli.Command {
	return &cli.Command{
		Name:  "repl",
		Usage: "Start an interactive session",
		Description: `Every line is a contacts-cli command without the program name:
   login -u alice
   contacts list
   open contacts/edit/42 --set phone=555

End a line with ? to list completions. exit, quit or Ctrl-D leave the session.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "history-file",
				Usage: "Command history file",
				Value: config.DefaultHistoryPath(),
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Do not read or write the history file",
			},
			&cli.BoolFlag{
				Name:  "no-watch",
				Usage: "Do not reload the config file when it changes",
			},
		},
		Action: runREPL,
	}
}

func runREPL(c *cli.Context) error {
	rt, err := ready(c)
	if err != nil {
		return err
	}

	historyFile := c.String("history-file")
	if c.Bool("no-history") {
		historyFile = ""
	}
	history := repl.NewHistory(historyFile, 0)
	if err := history.Load(); err != nil {
		rt.Logger.Warn("history not loaded", "path", historyFile, "error", err)
	}

	if !c.Bool("no-watch") {
		watchConfig(rt)
	}

	exec := func(ctx context.Context, args []string) error {
		if len(args) > 0 && args[0] == "repl" {
			return domain.ErrInvalidArgument.WithDetails("already in an interactive session")
		}
		return newApp(rt).RunContext(ctx, append([]string{c.App.Name}, args...))
	}

	r := repl.New(exec,
		repl.WithIO(rt.In, rt.Out, rt.Err),
		repl.WithPrompt(func() string { return prompt(rt) }),
		repl.WithCompleter(repl.NewCompleter(completions(c.App.Commands, rt))),
		repl.WithHistory(history),
	)

	if _, err := rt.Navigator.Navigate(c.Context, "/"); err != nil {
		return err
	}

	runErr := r.Run(c.Context)
	if err := history.Save(); err != nil {
		rt.Logger.Warn("history not saved", "path", historyFile, "error", err)
	}
	return runErr
}

// prompt renders the current location.
func prompt(rt *Runtime) string {
	loc := rt.Navigator.Current()
	if loc.IsZero() {
		return "contacts:/> "
	}
	return "contacts:" + loc.String() + "> "
}

// completions lists command paths such as "contacts list" and one
// "open PATH" entry per static route.
func completions(cmds []*cli.Command, rt *Runtime) []string {
	var words []string
	var walk func(prefix string, cmds []*cli.Command)
	walk = func(prefix string, cmds []*cli.Command) {
		for _, cmd := range cmds {
			if cmd.Hidden || cmd.Name == "repl" {
				continue
			}
			for _, name := range cmd.Names() {
				words = append(words, prefix+name)
			}
			walk(prefix+cmd.Name+" ", cmd.Subcommands)
		}
	}
	walk("", cmds)

	for _, r := range rt.Navigator.Routes() {
		words = append(words, "open "+r.Path)
	}
	sort.Strings(words)
	return words
}

// watchConfig reloads the log level and output format when the config
// file changes. The watcher stops when the runtime closes.
func watchConfig(rt *Runtime) {
	w, err := confloader.NewWatcher(confloader.WithWatcherLogger(rt.Logger))
	if err != nil {
		rt.Logger.Debug("config watcher unavailable", "error", err)
		return
	}
	if err := w.Watch(rt.ConfigPath); err != nil {
		rt.Logger.Debug("config not watched", "path", rt.ConfigPath, "error", err)
		_ = w.Stop()
		return
	}

	w.OnChange(func(path string) {
		cfg, err := config.Load(path, nil)
		if err != nil {
			rt.Logger.Warn("config reload failed", "path", path, "error", err)
			return
		}
		logger.SetLevel(cfg.Log.Level)
		if f, err := output.ParseFormat(cfg.Output); err == nil {
			rt.SetFormat(f)
		}
		rt.Logger.Info("config reloaded", "path", path)
	})
	w.StartAsync()
	rt.OnClose(func(context.Context) error { return w.Stop() })
}
