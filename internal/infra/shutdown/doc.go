// Package shutdown coordinates cleanup when contacts-cli exits.
//
// Resources register close hooks on a Handler; hooks run once, in reverse
// order, whether the process ends normally or on SIGINT/SIGTERM.
//
//	ctx, stop := shutdown.WithSignals(context.Background())
//	defer stop()
package shutdown
