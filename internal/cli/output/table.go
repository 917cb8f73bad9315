// Package output provides output formatting for the ckptkit CLI.
package output

import (
	"fmt"
	"io"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
)

// TableFormatter renders data as tab-aligned text.
type TableFormatter struct {
	Wide      bool
	NoHeaders bool
}

// Format renders a slice of structs as one row per element, a single
// struct as a FIELD/VALUE listing, and a map as sorted KEY/VALUE
// pairs. Column names come from json tags; fields tagged `table:"-"`
// are skipped and `table:"wide"` fields appear only with Wide set.
func (f *TableFormatter) Format(w io.Writer, data any) error {
	if data == nil {
		return nil
	}

	v := reflect.ValueOf(data)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		f.writeRows(tw, v)
	case reflect.Struct:
		f.writeFields(tw, v)
	case reflect.Map:
		f.writeMap(tw, v)
	default:
		return fmt.Errorf("cannot tabulate %s", v.Kind())
	}
	return tw.Flush()
}

// writeRows renders one table row per slice element.
func (f *TableFormatter) writeRows(tw *tabwriter.Writer, v reflect.Value) {
	if v.Len() == 0 {
		return
	}

	first := v.Index(0)
	for first.Kind() == reflect.Pointer {
		first = first.Elem()
	}
	if first.Kind() != reflect.Struct {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(tw, cell(v.Index(i)))
		}
		return
	}

	cols := f.columns(first.Type())
	if !f.NoHeaders {
		headers := make([]string, len(cols))
		for i, c := range cols {
			headers[i] = c.header
		}
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
	}

	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		for elem.Kind() == reflect.Pointer {
			elem = elem.Elem()
		}
		cells := make([]string, len(cols))
		for j, c := range cols {
			cells[j] = cell(elem.Field(c.index))
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
}

// writeFields renders a single struct as FIELD/VALUE lines.
func (f *TableFormatter) writeFields(tw *tabwriter.Writer, v reflect.Value) {
	if !f.NoHeaders {
		fmt.Fprintln(tw, "FIELD\tVALUE")
	}
	for _, c := range f.columns(v.Type()) {
		fmt.Fprintf(tw, "%s\t%s\n", c.name, cell(v.Field(c.index)))
	}
}

// writeMap renders a map as KEY/VALUE lines in key order.
func (f *TableFormatter) writeMap(tw *tabwriter.Writer, v reflect.Value) {
	keys := make([]string, 0, v.Len())
	byKey := make(map[string]reflect.Value, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		k := cell(iter.Key())
		keys = append(keys, k)
		byKey[k] = iter.Value()
	}
	sort.Strings(keys)

	if !f.NoHeaders {
		fmt.Fprintln(tw, "KEY\tVALUE")
	}
	for _, k := range keys {
		fmt.Fprintf(tw, "%s\t%s\n", k, cell(byKey[k]))
	}
}

// column is one renderable struct field.
type column struct {
	name   string
	header string
	index  int
}

// columns selects and names the renderable fields of a struct type.
func (f *TableFormatter) columns(t reflect.Type) []column {
	cols := make([]column, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("table")
		if tag == "-" || (tag == "wide" && !f.Wide) {
			continue
		}

		name := field.Name
		if jsonTag, _, _ := strings.Cut(field.Tag.Get("json"), ","); jsonTag != "" && jsonTag != "-" {
			name = jsonTag
		}
		cols = append(cols, column{
			name:   name,
			header: strings.ToUpper(name),
			index:  i,
		})
	}
	return cols
}

// cell formats a single value; empty and nil render as "-".
func cell(v reflect.Value) string {
	if !v.IsValid() {
		return "-"
	}
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			return "-"
		}
		return cell(v.Elem())
	case reflect.String:
		if v.String() == "" {
			return "-"
		}
		return v.String()
	case reflect.Bool:
		return strconv.FormatBool(v.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(v.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(v.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(v.Float(), 'g', -1, 64)
	default:
		return fmt.Sprintf("%v", v.Interface())
	}
}
