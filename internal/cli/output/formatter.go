// Package output renders command results for contacts-cli.
package output

import (
	"fmt"
	"io"
	"strings"
)

// Format is an output format name.
type Format string

const (
	FormatTable Format = "table"
	FormatWide  Format = "wide"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Formats lists the accepted format names.
var Formats = []Format{FormatTable, FormatWide, FormatJSON, FormatYAML}

// ParseFormat validates a format name. Empty means table.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatTable, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown output format %q (want table, wide, json or yaml)", s)
}

// Formatter writes data to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter creates a formatter for format. Unknown formats render as
// a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{}
	case FormatYAML:
		return &YAMLFormatter{}
	case FormatWide:
		return &TableFormatter{Wide: true}
	default:
		return &TableFormatter{}
	}
}
