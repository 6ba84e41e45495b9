// Package buildinfo exposes the version of contacts-cli.
//
// Values are injected with ldflags; a binary built with plain `go build`
// falls back to the module and VCS data embedded by the Go toolchain.
//
//	go build -ldflags "-X github.com/yndnr/contacts-cli/internal/infra/buildinfo.Version=v1.2.0"
package buildinfo
