package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"
)

// TableFormatter formats data as an aligned text table.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format implements Formatter. It accepts *Table, slices of structs,
// single structs and maps; anything else is printed with %v.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch d := data.(type) {
	case nil:
		return nil
	case *Table:
		return d.write(w, f.NoHeaders)
	case Table:
		return d.write(w, f.NoHeaders)
	case string:
		_, err := fmt.Fprintln(w, d)
		return err
	}

	t, ok := buildTable(reflect.ValueOf(data), f.Wide)
	if !ok {
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}
	return t.write(w, f.NoHeaders)
}

// column is one rendered struct field.
type column struct {
	index int
	name  string
}

// columns returns the visible fields of struct type t.
func columns(t reflect.Type, wide bool) []column {
	var cols []column
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("table")
		if tag == "-" || (tag == "wide" && !wide) {
			continue
		}
		cols = append(cols, column{index: i, name: fieldName(field)})
	}
	return cols
}

// fieldName prefers the json tag name.
func fieldName(f reflect.StructField) string {
	if name, _, _ := strings.Cut(f.Tag.Get("json"), ","); name != "" && name != "-" {
		return name
	}
	return f.Name
}

func buildTable(v reflect.Value, wide bool) (*Table, bool) {
	for v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return &Table{}, true
		}
		v = v.Elem()
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		elem := v.Type().Elem()
		if elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		if elem.Kind() != reflect.Struct {
			t := &Table{Headers: []string{"VALUE"}}
			for i := 0; i < v.Len(); i++ {
				t.AddRow(cell(v.Index(i)))
			}
			return t, true
		}
		cols := columns(elem, wide)
		t := &Table{}
		for _, c := range cols {
			t.Headers = append(t.Headers, strings.ToUpper(c.name))
		}
		for i := 0; i < v.Len(); i++ {
			item := reflect.Indirect(v.Index(i))
			if !item.IsValid() {
				continue
			}
			row := make([]string, len(cols))
			for j, c := range cols {
				row[j] = cell(item.Field(c.index))
			}
			t.AddRow(row...)
		}
		return t, true

	case reflect.Struct:
		t := &Table{Headers: []string{"FIELD", "VALUE"}}
		for _, c := range columns(v.Type(), true) {
			t.AddRow(c.name, cell(v.Field(c.index)))
		}
		return t, true

	case reflect.Map:
		t := &Table{Headers: []string{"KEY", "VALUE"}}
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return cell(keys[i]) < cell(keys[j]) })
		for _, k := range keys {
			t.AddRow(cell(k), cell(v.MapIndex(k)))
		}
		return t, true
	}
	return nil, false
}

// cell renders one value. Empty values render as "-".
func cell(v reflect.Value) string {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return "-"
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.IsZero() && v.Kind() == reflect.String {
		return "-"
	}

	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		parts := make([]string, v.Len())
		for i := range parts {
			parts[i] = cell(v.Index(i))
		}
		return strings.Join(parts, ",")
	case reflect.Map:
		return fmt.Sprintf("{%d keys}", v.Len())
	default:
		return fmt.Sprint(v.Interface())
	}
}

// Table is pre-built tabular data.
type Table struct {
	Headers []string
	Rows    [][]string
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// Render writes the table with headers.
func (t *Table) Render(w io.Writer) error {
	return t.write(w, false)
}

func (t Table) write(w io.Writer, noHeaders bool) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	if !noHeaders && len(t.Headers) > 0 {
		fmt.Fprintln(tw, strings.Join(t.Headers, "\t"))
	}
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}
