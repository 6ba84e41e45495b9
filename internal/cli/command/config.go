package command

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/yndnr/contacts-cli/internal/cli/config"
	"github.com/yndnr/contacts-cli/internal/cli/output"
	"github.com/yndnr/contacts-cli/internal/core/domain"
)

// ConfigCommand returns the config subcommand group.
func ConfigCommand() *cli.Command {
	return &cli.Command{
		Name:  "config",
		Usage: "Show or change the CLI configuration",
		Subcommands: []*cli.Command{
			{
				Name:   "show",
				Usage:  "Show the effective configuration (secrets masked)",
				Action: configShow,
			},
			{
				Name:   "path",
				Usage:  "Print the config file path",
				Action: configPath,
			},
			{
				Name:      "set",
				Usage:     "Set a key in the config file",
				ArgsUsage: "KEY VALUE",
				Action:    configSet,
				BashComplete: func(c *cli.Context) {
					for _, k := range config.Keys {
						fmt.Fprintln(c.App.Writer, k)
					}
				},
			},
		},
	}
}

func configShow(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	// Nested structs read better as YAML than as a field table.
	f := rt.Format()
	if f != output.FormatJSON {
		f = output.FormatYAML
	}
	return output.NewFormatter(f).Format(rt.Out, rt.Config.Redacted())
}

func configPath(c *cli.Context) error {
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(rt.Out, rt.ConfigPath)
	return err
}

func configSet(c *cli.Context) error {
	if c.NArg() != 2 {
		return domain.ErrMissingArgument.WithDetails("usage: config set KEY VALUE")
	}
	rt, err := getRuntime(c)
	if err != nil {
		return err
	}

	key, value := c.Args().Get(0), c.Args().Get(1)
	if _, err := config.Set(rt.ConfigPath, key, value); err != nil {
		return err
	}
	fmt.Fprintf(rt.Err, "%s updated in %s\n", key, rt.ConfigPath)
	return nil
}
