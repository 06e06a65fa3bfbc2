package numparse

import "strings"

// Unit is the monetary unit a source column is published in.
type Unit string

const (
	Euros          Unit = "euros"
	ThousandsEuros Unit = "thousands"
	MillionsEuros  Unit = "millions"
)

var toMillions = map[Unit]float64{
	Euros:          1e-6,
	ThousandsEuros: 1e-3,
	MillionsEuros:  1,
}

// ParseUnit accepts the unit names used in dataset configuration and in
// INE/Eurostat column headers. Unknown units are treated as millions.
func ParseUnit(s string) Unit {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "euros", "eur", "euro", "€":
		return Euros
	case "thousands", "miles", "miles de euros", "thousand euro", "thousand euros", "keur", "ths_eur":
		return ThousandsEuros
	default:
		return MillionsEuros
	}
}

// ToMillions converts v from unit to millions of euros. Call it exactly once
// per value, at the point the raw field is parsed.
func ToMillions(v float64, unit Unit) float64 {
	factor, ok := toMillions[unit]
	if !ok {
		return v
	}
	return v * factor
}
