// Package export serializes records into CSV text.
package export

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Column projects one record field into a CSV column.
type Column struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// Record is a flat row keyed by column key.
type Record map[string]any

// Generate renders records as CSV: a header line of labels followed by one
// line per record, separated by "\n" with no trailing newline.
func Generate(records []Record, columns []Column) string {
	var b strings.Builder
	_ = Write(&b, records, columns)
	return b.String()
}

// Write streams the same output as Generate to w.
func Write(w io.Writer, records []Record, columns []Column) error {
	labels := make([]string, len(columns))
	for i, c := range columns {
		labels[i] = c.Label
	}
	if _, err := io.WriteString(w, strings.Join(labels, ",")); err != nil {
		return err
	}

	fields := make([]string, len(columns))
	for _, r := range records {
		for i, c := range columns {
			fields[i] = Quote(Stringify(r[c.Key]))
		}
		if _, err := io.WriteString(w, "\n"+strings.Join(fields, ",")); err != nil {
			return err
		}
	}
	return nil
}

// Quote wraps s in double quotes, doubling inner quotes, iff s contains a
// comma, a double quote or a newline.
func Quote(s string) string {
	if !strings.ContainsAny(s, ",\"\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// Stringify renders a field value. nil and nil pointers become "".
func Stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return formatTime(x)
	case *time.Time:
		if x == nil {
			return ""
		}
		return formatTime(*x)
	case fmt.Stringer:
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
			return ""
		}
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case []string:
		return strings.Join(x, ";")
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		return Stringify(rv.Elem().Interface())
	}
	if rv.Kind() == reflect.String {
		return rv.String()
	}
	return fmt.Sprint(v)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
