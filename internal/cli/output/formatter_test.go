package output

import (
	"bytes"
	"strings"
	"testing"
)

type row struct {
	ID     string `json:"id"`
	Owner  string `json:"usuarioId" table:"wide"`
	Name   string `json:"name"`
	Secret string `json:"-" table:"-"`
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"json", FormatJSON, false},
		{"YAML", FormatYAML, false},
		{" wide ", FormatWide, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNewFormatter(t *testing.T) {
	if _, ok := NewFormatter(FormatJSON).(*JSONFormatter); !ok {
		t.Error("json formatter expected")
	}
	if _, ok := NewFormatter(FormatYAML).(*YAMLFormatter); !ok {
		t.Error("yaml formatter expected")
	}
	if f, ok := NewFormatter(FormatWide).(*TableFormatter); !ok || !f.Wide {
		t.Error("wide table formatter expected")
	}
	if f, ok := NewFormatter("bogus").(*TableFormatter); !ok || f.Wide {
		t.Error("plain table formatter expected for unknown format")
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&JSONFormatter{}).Format(&buf, []row{{ID: "c1", Name: "Ana"}}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(buf.String(), `"name": "Ana"`) {
		t.Errorf("unexpected JSON:\n%s", buf.String())
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	data := map[string]any{"api": map[string]string{"base_url": "http://localhost:3000"}}
	if err := (&YAMLFormatter{}).Format(&buf, data); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	want := "api:\n  base_url: http://localhost:3000\n"
	if buf.String() != want {
		t.Errorf("YAML = %q, want %q", buf.String(), want)
	}
}
