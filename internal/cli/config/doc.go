// Package config defines the contacts-cli configuration file
// (~/.contacts/cli.yaml) and its loading.
//
// Values are layered file, then CONTACTS_* environment variables, then
// command-line flags. Save writes the file back with mode 0600 because it
// may hold the storage secret.
package config
