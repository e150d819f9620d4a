package schema

import (
	"strconv"
	"strings"
	"time"
)

// dateLayouts are tried in order. Ledger exports are wildly inconsistent
// about this; the list covers every format seen in real GL dumps so far.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-01-2006",
	"02.01.2006",
	"2-Jan-2006",
	"02-Jan-2006",
	"Jan 2, 2006",
	time.RFC3339,
}

// parseDate parses permissively; anything unrecognizable becomes nil.
func parseDate(s string) *time.Time {
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

// parseAmount parses permissively: currency symbols and thousands
// separators are stripped, accounting-style parentheses mean negative, and
// anything still unparseable becomes nil.
func parseAmount(s string) *float64 {
	if s == "" {
		return nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	var b strings.Builder
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '+':
			b.WriteRune(r)
		case r == ',', r == '$', r == '€', r == '£', r == ' ':
			// separators and currency markers
		default:
			return nil
		}
	}

	v, err := strconv.ParseFloat(b.String(), 64)
	if err != nil {
		return nil
	}
	if negative {
		v = -v
	}
	return &v
}

// parseFlag treats 1/true/yes/y (case-insensitive) as set.
func parseFlag(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return true
	}
	return false
}
