package util

import (
	"regexp"
	"strings"
)

var nonDigits = regexp.MustCompile(`[^\d\+]+`)

// NormalizePhone turns user input into an E.164-like form for North American numbers.
func NormalizePhone(raw string) string {
	s := nonDigits.ReplaceAllString(strings.TrimSpace(raw), "")

	if strings.HasPrefix(s, "00") {
		s = "+" + s[2:]
	} else if strings.HasPrefix(s, "1") && len(s) == 11 {
		s = "+" + s
	} else if !strings.HasPrefix(s, "+") && len(s) == 10 {
		s = "+1" + s
	}

	return s
}

// FormatPhone renders a number for display: "+1 (555) 123-4567" for
// 11-digit numbers starting with 1, "(555) 123-4567" for 10 digits, and the
// input unchanged otherwise.
func FormatPhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	d := b.String()

	switch {
	case len(d) == 11 && d[0] == '1':
		return "+1 (" + d[1:4] + ") " + d[4:7] + "-" + d[7:]
	case len(d) == 10:
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	}
	return phone
}
