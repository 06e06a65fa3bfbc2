package aggregator

import (
	"context"

	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/shopspring/decimal"
)

// Query builds a throwaway Frame and answers q. Callers issuing many queries
// on the same records should build the Frame once.
func Query(ctx context.Context, records []domain.RawRecord, schema domain.Schema, q domain.AggregationQuery, opts Options) domain.ResolvedDataPoint {
	return NewFrame(ctx, records, schema, opts).Query(q)
}

// Query resolves q in priority order: direct row, fallback table (nation
// only), weighted mean or sum of member rows (nation only), sub-entity
// rollup (additive measures only). When nothing applies the point has a nil Value.
func (f *Frame) Query(q domain.AggregationQuery) domain.ResolvedDataPoint {
	if q.Scope == domain.ScopeNation && q.Entity.IsZero() {
		q.Entity = f.opts.Nation
	}

	p := domain.ResolvedDataPoint{
		Entity: q.Entity,
		Sector: q.Sector,
		Year:   q.Year,
		Source: domain.SourceNone,
	}
	if q.Entity.IsZero() || !q.Sector.Valid() {
		return p
	}

	if r, ok := f.direct(q); ok {
		p.Value = r.value
		p.MonetaryValue = r.monetary
		p.Source = domain.SourceDirect
		return p
	}

	if q.Scope == domain.ScopeNation {
		if f.opts.Fallback != nil && f.opts.Fallback.EntityID() == q.Entity.ID {
			if v, ok := f.opts.Fallback.Lookup(q.Year, q.Sector); ok {
				p.Value = domain.Float(v)
				p.Source = domain.SourceFallback
				return p
			}
		}

		if f.schema.Measure == domain.MeasureAdditive {
			if v, m, ok := f.memberSum(q); ok {
				p.Value, p.MonetaryValue = v, m
				p.Source = domain.SourceSum
				return p
			}
		} else if v, m, ok := f.weighted(q); ok {
			p.Value, p.MonetaryValue = v, m
			p.Source = domain.SourceWeighted
			return p
		}
	}

	// shares of provinces do not add up to the share of their region
	if f.schema.Measure == domain.MeasureAdditive {
		if v, m, ok := f.rollup(q); ok {
			p.Value, p.MonetaryValue = v, m
			p.Source = domain.SourceRollup
			return p
		}
	}

	return p
}

func (f *Frame) matches(r *row, q domain.AggregationQuery) bool {
	return r.yearOK && r.year == q.Year && r.sectorOK && r.sector == q.Sector
}

// direct returns the first populated row of the entity itself. Rows that
// belong to a sub-entity (a province inside the community) never count.
func (f *Frame) direct(q domain.AggregationQuery) (*row, bool) {
	for i := range f.rows {
		r := &f.rows[i]
		if !r.entityOK || r.subOK || r.entity.ID != q.Entity.ID || !f.matches(r, q) {
			continue
		}
		if r.value == nil {
			continue
		}
		return r, true
	}
	return nil, false
}

// members returns one populated row per member entity of the nation, the
// first one met in record order.
func (f *Frame) members(q domain.AggregationQuery) []*row {
	seen := make(map[string]struct{})
	var out []*row
	for i := range f.rows {
		r := &f.rows[i]
		if !r.entityOK || r.subOK || r.value == nil || !f.matches(r, q) {
			continue
		}
		if r.entity.ID == q.Entity.ID || !f.opts.IsMember(r.entity, q.Entity) {
			continue
		}
		if _, dup := seen[r.entity.ID]; dup {
			continue
		}
		seen[r.entity.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// weighted computes sum(v*w)/sum(w) over member rows where w is the GDP of
// the member. Rows carry GDP explicitly or imply it through their monetary
// amount: gdp = amount * 100 / share.
func (f *Frame) weighted(q domain.AggregationQuery) (*float64, *float64, bool) {
	num := decimal.Zero
	den := decimal.Zero
	money := decimal.Zero
	allMoney := true
	n := 0

	for _, r := range f.members(q) {
		w, ok := weightOf(r)
		if !ok {
			continue
		}
		v := decimal.NewFromFloat(*r.value)
		num = num.Add(v.Mul(w))
		den = den.Add(w)
		if r.monetary != nil {
			money = money.Add(decimal.NewFromFloat(*r.monetary))
		} else {
			allMoney = false
		}
		n++
	}

	if n == 0 || den.IsZero() {
		return nil, nil, false
	}

	value := num.Div(den).InexactFloat64()
	var monetary *float64
	if allMoney {
		monetary = domain.Float(money.InexactFloat64())
	}
	return &value, monetary, true
}

func weightOf(r *row) (decimal.Decimal, bool) {
	if r.weight != nil {
		return decimal.NewFromFloat(*r.weight), true
	}
	if r.monetary != nil && *r.value > 0 {
		return decimal.NewFromFloat(*r.monetary).Mul(decimal.NewFromInt(100)).Div(decimal.NewFromFloat(*r.value)), true
	}
	return decimal.Zero, false
}

// memberSum adds up additive measures (counts, amounts) of the members.
func (f *Frame) memberSum(q domain.AggregationQuery) (*float64, *float64, bool) {
	rows := f.members(q)
	if len(rows) == 0 {
		return nil, nil, false
	}
	v, m := sum(rows)
	return v, m, true
}

// rollup sums the rows below the queried entity, each leaf entity counted
// once. Province datasets carry provinces in the entity column; community
// datasets carry them in the sub-entity column.
func (f *Frame) rollup(q domain.AggregationQuery) (*float64, *float64, bool) {
	seen := make(map[string]struct{})
	var rows []*row
	for i := range f.rows {
		r := &f.rows[i]
		if r.value == nil || !f.matches(r, q) {
			continue
		}
		leaf, ok := r.leaf()
		if !ok || !f.descends(leaf, q.Entity) {
			continue
		}
		if _, dup := seen[leaf.ID]; dup {
			continue
		}
		seen[leaf.ID] = struct{}{}
		rows = append(rows, r)
	}

	if len(rows) == 0 {
		return nil, nil, false
	}
	v, m := sum(rows)
	return v, m, true
}

// leaf is the most specific entity the row resolved to.
func (r *row) leaf() (domain.CanonicalEntity, bool) {
	if r.subOK {
		return r.sub, true
	}
	return r.entity, r.entityOK
}

// descends reports whether sub sits below target, directly or through its
// parent (province -> community -> nation).
func (f *Frame) descends(sub, target domain.CanonicalEntity) bool {
	if sub.Parent == "" {
		return false
	}
	if sub.Parent == target.ID {
		return true
	}
	if f.opts.Lookup == nil {
		return false
	}
	parent, ok := f.opts.Lookup(sub.Parent)
	if !ok {
		return false
	}
	return parent.Parent == target.ID || f.opts.IsMember(parent, target)
}

func sum(rows []*row) (*float64, *float64) {
	total := decimal.Zero
	money := decimal.Zero
	allMoney := true
	for _, r := range rows {
		total = total.Add(decimal.NewFromFloat(*r.value))
		if r.monetary != nil {
			money = money.Add(decimal.NewFromFloat(*r.monetary))
		} else {
			allMoney = false
		}
	}

	v := total.InexactFloat64()
	if !allMoney {
		return &v, nil
	}
	m := money.InexactFloat64()
	return &v, &m
}
