package command

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/contacts-cli/internal/cli/output"
	"github.com/yndnr/contacts-cli/internal/core/domain"
	"github.com/yndnr/contacts-cli/internal/core/service"
)

// OpenCommand returns the open command, which navigates to a location.
func OpenCommand() *cli.Command {
	return &cli.Command{
		Name:      "open",
		Aliases:   []string{"go"},
		Usage:     "Navigate to a location, e.g. open contacts?usuarioId=U1",
		ArgsUsage: "LOCATION",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:    "set",
				Aliases: []string{"s"},
				Usage:   "Form field as KEY=VALUE (create and edit views)",
			},
		},
		Action: open,
	}
}

func open(c *cli.Context) error {
	target, trailing, err := openArgs(c.Args().Slice())
	if err != nil {
		return err
	}
	rt, err := ready(c)
	if err != nil {
		return err
	}

	var opts []service.NavigateOption
	if pairs := append(c.StringSlice("set"), trailing...); len(pairs) > 0 {
		form := make(map[string]string, len(pairs))
		for _, p := range pairs {
			k, v, ok := strings.Cut(p, "=")
			if !ok || k == "" {
				return domain.ErrInvalidArgument.WithDetails("--set expects KEY=VALUE, got " + p)
			}
			form[k] = v
		}
		opts = append(opts, service.WithForm(form))
	}

	ev, err := rt.Navigator.Navigate(c.Context, target, opts...)
	if err != nil {
		return err
	}
	rt.Logger.Debug("open", "final", ev.Final.String(), "state", ev.State.String())
	return nil
}

// openArgs splits the positional arguments into the location and the
// --set pairs written after it, which flag parsing leaves untouched.
func openArgs(args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, domain.ErrMissingArgument.WithDetails("LOCATION is required")
	}

	target := args[0]
	var pairs []string
	for rest := args[1:]; len(rest) > 0; rest = rest[1:] {
		arg := rest[0]
		switch {
		case arg == "--set" || arg == "-set" || arg == "-s":
			if len(rest) < 2 {
				return "", nil, domain.ErrMissingArgument.WithDetails(arg + " needs KEY=VALUE")
			}
			pairs = append(pairs, rest[1])
			rest = rest[1:]
		case strings.HasPrefix(arg, "--set="):
			pairs = append(pairs, strings.TrimPrefix(arg, "--set="))
		default:
			return "", nil, domain.ErrInvalidArgument.WithDetails("unexpected argument " + arg)
		}
	}
	return target, pairs, nil
}

// RoutesCommand returns the routes command.
func RoutesCommand() *cli.Command {
	return &cli.Command{
		Name:   "routes",
		Usage:  "List navigable locations",
		Action: routes,
	}
}

func routes(c *cli.Context) error {
	rt, err := ready(c)
	if err != nil {
		return err
	}

	t := &output.Table{Headers: []string{"NAME", "PATH", "AUTH", "REDIRECT"}}
	for _, r := range rt.Navigator.Routes() {
		auth := "no"
		if r.RequiresAuth {
			auth = "yes"
		}
		redirect := r.RedirectTo
		if redirect == "" {
			redirect = "-"
		}
		t.AddRow(r.Name, r.Path, auth, redirect)
	}

	if f := rt.Format(); f == output.FormatJSON || f == output.FormatYAML {
		return rt.Render(rt.Navigator.Routes())
	}
	return rt.Render(t)
}
