package template

import (
	"maps"
	"strings"
	"unicode/utf8"
)

// SampleVariables fill placeholders that the caller did not supply.
var SampleVariables = map[string]string{
	"first_name":         "John",
	"last_name":          "Smith",
	"equity_change":      "$15,000",
	"short_link":         "https://link.co/abc123",
	"property_type":      "Condo",
	"location":           "Downtown",
	"amount":             "1,250.00",
	"due_date":           "Dec 15, 2024",
	"promotion_details":  "20% off closing costs",
	"code":               "123456",
	"newsletter_summary": "Home prices up 5% this month",
	"document_type":      "Loan Estimate",
}

// SegmentLength is the number of characters billed as one SMS segment.
const SegmentLength = 160

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Substitute replaces every {{name}} in body with vars[name], falling back to
// SampleVariables[name]. Unknown tokens are left as written. Replacement text
// is never rescanned.
func Substitute(body string, vars map[string]string) string {
	return expand(body, func(name string) (string, bool) {
		if v, ok := vars[name]; ok {
			return v, true
		}
		v, ok := SampleVariables[name]
		return v, ok
	})
}

// SubstituteExact is Substitute without the sample fallback.
func SubstituteExact(body string, vars map[string]string) string {
	return expand(body, func(name string) (string, bool) {
		v, ok := vars[name]
		return v, ok
	})
}

func expand(body string, lookup func(string) (string, bool)) string {
	if !strings.Contains(body, openDelim) {
		return body
	}

	var b strings.Builder
	b.Grow(len(body))
	for i := 0; i < len(body); {
		if strings.HasPrefix(body[i:], openDelim) {
			if end := strings.Index(body[i+len(openDelim):], closeDelim); end >= 0 {
				name := body[i+len(openDelim) : i+len(openDelim)+end]
				if v, ok := lookup(name); ok {
					b.WriteString(v)
					i += len(openDelim) + end + len(closeDelim)
					continue
				}
			}
		}
		b.WriteByte(body[i])
		i++
	}
	return b.String()
}

// Variables lists the distinct placeholder names of body in order of
// first appearance.
func Variables(body string) []string {
	var (
		out  []string
		seen = map[string]bool{}
	)
	for rest := body; ; {
		start := strings.Index(rest, openDelim)
		if start < 0 {
			return out
		}
		rest = rest[start+len(openDelim):]
		end := strings.Index(rest, closeDelim)
		if end < 0 {
			return out
		}
		name := rest[:end]
		// "{{{{a}}" yields "a", matching what expand replaces.
		if i := strings.LastIndex(name, openDelim); i >= 0 {
			name = name[i+len(openDelim):]
		}
		name = strings.TrimLeft(name, "{")
		if name != "" && !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
		rest = rest[end+len(closeDelim):]
	}
}

// Preview is a rendered body with its billing footprint.
type Preview struct {
	Body       string   `json:"body"`
	Characters int      `json:"characters"`
	Segments   int      `json:"segments"`
	Unresolved []string `json:"unresolved,omitempty"`
}

// Render substitutes custom values over the samples and measures the result.
func Render(body string, custom map[string]string) Preview {
	merged := maps.Clone(SampleVariables)
	maps.Copy(merged, custom)

	out := SubstituteExact(body, merged)
	chars := utf8.RuneCountInString(out)

	var unresolved []string
	for _, name := range Variables(body) {
		if _, ok := merged[name]; !ok {
			unresolved = append(unresolved, name)
		}
	}

	return Preview{
		Body:       out,
		Characters: chars,
		Segments:   (chars + SegmentLength - 1) / SegmentLength,
		Unresolved: unresolved,
	}
}
