package command

import (
	"github.com/urfave/cli/v2"
)

// MetricsCommand returns the metrics command.
func MetricsCommand() *cli.Command {
	return &cli.Command{
		Name:   "metrics",
		Usage:  "Print client metrics in Prometheus text format",
		Action: metrics,
	}
}

func metrics(c *cli.Context) error {
	rt, err := ready(c)
	if err != nil {
		return err
	}
	return rt.Metrics.WriteText(rt.Out)
}
