// Package confloader loads layered configuration with koanf.
//
// Priority (highest to lowest):
//
//  1. Values passed to LoadMap (command-line flags)
//  2. Environment variables (CONTACTS_*)
//  3. The YAML configuration file
//  4. Defaults already present in the target struct
//
// Watcher notifies about edits to the configuration file so long-running
// sessions can reload it.
package confloader
