// Package command defines the commands of contacts-cli.
//
//   - root.go: App, global flags, runtime lifecycle
//   - runtime.go: the services shared by every command
//   - auth.go: login, logout, register, whoami
//   - contacts.go: contacts list/new/edit/show
//   - navigate.go: open, routes
//   - config.go: config show/path/set
//   - metrics.go: metrics
//   - repl.go: interactive mode
//
// Commands that show data do so by navigating: the navigator applies the
// route guard and renders the view of the resolved route.
package command
