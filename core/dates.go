package core

import (
	"strconv"
	"strings"
	"time"
)

// Layouts accepted by ParseDate, tried in order. Codecs canonicalize to
// RFC 3339 on read, so that is the common case; the rest cover values that
// reach the engine straight from a source format.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006:01:02 15:04:05", // EXIF
	time.RFC1123,
	time.RFC1123Z,
}

// ParseDate parses a metadata date value. It accepts RFC 3339 (the canonical
// dictionary form), PDF "D:" date strings, EXIF timestamps, and a bare year.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if strings.HasPrefix(s, "D:") || (len(s) >= 8 && allDigits(s[:8])) {
		return parsePDFDate(s)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// Bare year, as found in audio tags.
	if len(s) == 4 && allDigits(s) {
		y, _ := strconv.Atoi(s)
		return time.Date(y, 1, 1, 0, 0, 0, 0, time.UTC), true
	}
	return time.Time{}, false
}

// FormatDate renders t in the canonical dictionary form (RFC 3339).
func FormatDate(t time.Time) string {
	return t.Format(time.RFC3339)
}

// parsePDFDate parses a PDF date string per ISO 32000 7.9.4:
// D:YYYYMMDDHHmmSSOHH'mm' with every component after the year optional.
func parsePDFDate(s string) (time.Time, bool) {
	s = strings.TrimPrefix(s, "D:")
	if len(s) < 4 || !allDigits(s[:4]) {
		return time.Time{}, false
	}

	year := atoi(s[:4])
	month, day, hour, min, sec := 1, 1, 0, 0, 0
	rest := s[4:]

	next := func(n int, lo, hi int, dst *int) bool {
		if len(rest) < n || !allDigits(rest[:n]) {
			return false
		}
		v := atoi(rest[:n])
		if v < lo || v > hi {
			return false
		}
		*dst = v
		rest = rest[n:]
		return true
	}

	// Each component is optional but positional; stop at the first
	// non-digit (the timezone marker) or end of string.
	for _, c := range []struct {
		lo, hi int
		dst    *int
	}{
		{1, 12, &month}, {1, 31, &day}, {0, 23, &hour},
		{0, 59, &min}, {0, 59, &sec},
	} {
		if len(rest) == 0 || !allDigits(rest[:1]) {
			break
		}
		if !next(2, c.lo, c.hi, c.dst) {
			return time.Time{}, false
		}
	}

	loc := time.UTC
	if len(rest) > 0 {
		switch rest[0] {
		case 'Z':
			// UTC, possibly followed by 00'00'
		case '+', '-':
			sign := 1
			if rest[0] == '-' {
				sign = -1
			}
			rest = rest[1:]
			if len(rest) < 2 || !allDigits(rest[:2]) {
				return time.Time{}, false
			}
			offH := atoi(rest[:2])
			rest = rest[2:]
			offM := 0
			rest = strings.TrimPrefix(rest, "'")
			if len(rest) >= 2 && allDigits(rest[:2]) {
				offM = atoi(rest[:2])
			}
			loc = time.FixedZone("", sign*(offH*3600+offM*60))
		default:
			return time.Time{}, false
		}
	}

	return time.Date(year, time.Month(month), day, hour, min, sec, 0, loc), true
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
