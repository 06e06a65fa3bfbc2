// Package numparse reads the locale formatted numbers found in statistical
// agency exports. Missing values are reported as ok == false, never as errors.
package numparse

import (
	"math"
	"strconv"
	"strings"
	"unicode"
)

// Convention picks how separators are interpreted for a field.
type Convention string

const (
	// Auto: with both separators the last one is the decimal mark; a lone
	// comma is the decimal mark, repeated dots are thousands and a single dot
	// is a decimal point ("12.345" -> 12.345). Columns using dots for
	// thousands must be read with Comma.
	Auto Convention = "auto"
	// Comma: "1.234,5" style, dots are always thousands separators.
	Comma Convention = "comma"
	// Point: "1,234.5" style, commas are always thousands separators.
	Point Convention = "point"
)

var missingMarkers = map[string]struct{}{
	"":     {},
	":":    {},
	"-":    {},
	"–":    {},
	"..":   {},
	"...":  {},
	"n.d.": {},
	"nd":   {},
	"n/a":  {},
	"na":   {},
	"nan":  {},
	"null": {},
}

// ParseLocaleNumber parses raw with the Auto convention.
// "1.234,56" -> 1234.56, "1,49" -> 1.49, ":" -> (0, false).
func ParseLocaleNumber(raw string) (float64, bool) {
	return Parser{Convention: Auto}.Parse(raw)
}

// OrZero returns the parsed value or 0 when raw holds no number.
func OrZero(raw string) float64 {
	v, _ := ParseLocaleNumber(raw)
	return v
}

// ParseConvention maps a configuration string onto a Convention, defaulting to Auto.
func ParseConvention(s string) Convention {
	switch Convention(strings.ToLower(strings.TrimSpace(s))) {
	case Comma:
		return Comma
	case Point:
		return Point
	default:
		return Auto
	}
}

// Parser reads numbers with a fixed Convention.
type Parser struct {
	Convention Convention
}

// Parse returns the value of raw, ok == false for missing markers and text.
func (p Parser) Parse(raw string) (float64, bool) {
	s := clean(raw)
	if _, missing := missingMarkers[strings.ToLower(s)]; missing {
		return 0, false
	}

	switch p.Convention {
	case Comma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case Point:
		s = strings.ReplaceAll(s, ",", "")
	default:
		comma, dot := strings.LastIndexByte(s, ','), strings.LastIndexByte(s, '.')
		switch {
		case comma >= 0 && dot > comma:
			// "1,234.56": the last separator is the decimal mark
			s = strings.ReplaceAll(s, ",", "")
		case comma >= 0:
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		case strings.Count(s, ".") > 1:
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}

	return v, true
}

// clean drops whitespace, percent signs and trailing Eurostat observation
// flags ("2.23 p", "1,5 e", "0.8 bep").
func clean(raw string) string {
	s := strings.TrimSpace(strings.ReplaceAll(raw, "\u00a0", " "))
	if s == "" {
		return s
	}

	if i := strings.LastIndexByte(s, ' '); i > 0 && isFlag(s[i+1:]) {
		s = strings.TrimSpace(s[:i])
	}

	s = strings.TrimSuffix(s, "%")
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\'' {
			return -1
		}
		return r
	}, s)

	return s
}

func isFlag(s string) bool {
	if s == "" || len(s) > 3 {
		return false
	}
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
