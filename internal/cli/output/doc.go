// Package output renders command results for contacts-cli.
//
//   - formatter.go: Format names and the Formatter factory
//   - table.go: column tables built from structs, slices and maps
//   - json.go, yaml.go: machine-readable encodings
//   - spinner.go: pending indicator for remote calls
//
// Table output honours `table:"wide"` and `table:"-"` struct tags; the
// column header comes from the json tag.
package output
