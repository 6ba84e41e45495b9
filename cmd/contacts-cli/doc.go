// Package main provides the entry point for contacts-cli.
//
// contacts-cli is a terminal client for the contacts API. It keeps the
// login session on disk, guards the contact locations behind it and runs
// either one command per invocation or an interactive session:
//
//	contacts-cli login -u alice
//	contacts-cli contacts list -o json
//	contacts-cli open contacts/edit/42 --set phone=555
//	contacts-cli repl
package main
