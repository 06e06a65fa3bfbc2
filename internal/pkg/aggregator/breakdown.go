package aggregator

import (
	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/sectors"
	"github.com/shopspring/decimal"
)

// Breakdown queries every sector for one entity and year. Component sectors
// get SharePercentage relative to the total when the total is known. Shares
// are not forced to add up to 100.
func (f *Frame) Breakdown(entity domain.CanonicalEntity, scope domain.Scope, year domain.Year) []domain.ResolvedDataPoint {
	order := sectors.Order()
	out := make([]domain.ResolvedDataPoint, 0, len(order))
	for _, s := range order {
		out = append(out, f.Query(domain.AggregationQuery{Year: year, Sector: s, Entity: entity, Scope: scope}))
	}

	total := out[0]
	if !total.HasValue() || *total.Value == 0 {
		return out
	}

	t := decimal.NewFromFloat(*total.Value)
	out[0].SharePercentage = domain.Float(100)
	for i := 1; i < len(out); i++ {
		if !out[i].HasValue() {
			continue
		}
		share := decimal.NewFromFloat(*out[i].Value).Div(t).Mul(decimal.NewFromInt(100)).Round(2)
		out[i].SharePercentage = domain.Float(share.InexactFloat64())
	}
	return out
}

// Series queries one entity and sector for every year in the frame, plus
// the fallback years for nation queries.
func (f *Frame) Series(entity domain.CanonicalEntity, scope domain.Scope, sector domain.SectorID) []domain.ResolvedDataPoint {
	years := f.Years()
	if scope == domain.ScopeNation && f.opts.Fallback != nil {
		years = mergeYears(years, f.opts.Fallback.Years())
	}

	out := make([]domain.ResolvedDataPoint, 0, len(years))
	for _, y := range years {
		out = append(out, f.Query(domain.AggregationQuery{Year: y, Sector: sector, Entity: entity, Scope: scope}))
	}
	return out
}

// Points queries every entity for one year and sector, in the given order.
func (f *Frame) Points(entities []domain.CanonicalEntity, year domain.Year, sector domain.SectorID) []domain.ResolvedDataPoint {
	out := make([]domain.ResolvedDataPoint, 0, len(entities))
	for _, e := range entities {
		out = append(out, f.Query(domain.AggregationQuery{Year: year, Sector: sector, Entity: e, Scope: domain.ScopeEntity}))
	}
	return out
}

func mergeYears(a, b []domain.Year) []domain.Year {
	out := make([]domain.Year, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j >= len(b) || (i < len(a) && a[i] < b[j]):
			out = append(out, a[i])
			i++
		case i >= len(a) || b[j] < a[i]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
