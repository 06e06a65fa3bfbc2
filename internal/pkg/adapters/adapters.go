// Package adapters turns aggregator output into the shapes the charting and
// mapping front end draws. It only orders, colors and labels points.
package adapters

import (
	"sort"

	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/geo"
	"github.com/ougirez/rdatlas/internal/pkg/sectors"
	"github.com/shopspring/decimal"
)

// Unit selects which value of a point is displayed.
type Unit string

const (
	UnitPercent  Unit = "percent"
	UnitMillions Unit = "millions"
)

// ParseUnit defaults to UnitPercent.
func ParseUnit(s string) Unit {
	if Unit(s) == UnitMillions {
		return UnitMillions
	}
	return UnitPercent
}

type Options struct {
	// Pinned keys (entity or sector ids) go first, in this order. The rest
	// follow by descending value.
	Pinned []string
	// Highlight marks keys drawn with emphasis, e.g. the nation among regions.
	Highlight []string
	Lang      string
	Unit      Unit
}

type Bar struct {
	Key       string             `json:"key"`
	Label     string             `json:"label"`
	Value     *float64           `json:"value"`
	Color     string             `json:"color"`
	Flag      string             `json:"flag,omitempty"`
	Highlight bool               `json:"highlight,omitempty"`
	NoData    bool               `json:"no_data"`
	Source    domain.ValueSource `json:"source"`
}

type BarChart struct {
	Unit   Unit  `json:"unit"`
	Bars   []Bar `json:"bars"`
	NoData bool  `json:"no_data"`
}

type Slice struct {
	Sector domain.SectorID `json:"sector"`
	Label  string          `json:"label"`
	Value  *float64        `json:"value"`
	Share  *float64        `json:"share"`
	Color  string          `json:"color"`
	NoData bool            `json:"no_data"`
}

type PieChart struct {
	Entity domain.CanonicalEntity `json:"entity"`
	Total  *float64               `json:"total"`
	Unit   Unit                   `json:"unit"`
	Slices []Slice                `json:"slices"`
	NoData bool                   `json:"no_data"`
}

type Region struct {
	FeatureIndex int      `json:"feature_index"`
	EntityID     string   `json:"entity_id,omitempty"`
	Label        string   `json:"label"`
	Value        *float64 `json:"value"`
	NoData       bool     `json:"no_data"`
}

type MapChart struct {
	Unit    Unit     `json:"unit"`
	Regions []Region `json:"regions"`
	Min     *float64 `json:"min"`
	Max     *float64 `json:"max"`
	NoData  bool     `json:"no_data"`
}

type LinePoint struct {
	Year  domain.Year `json:"year"`
	Value *float64    `json:"value"`
}

type Line struct {
	Key    string      `json:"key"`
	Label  string      `json:"label"`
	Color  string      `json:"color"`
	Points []LinePoint `json:"points"`
	NoData bool        `json:"no_data"`
}

type LineChart struct {
	Unit   Unit          `json:"unit"`
	Years  []domain.Year `json:"years"`
	Lines  []Line        `json:"lines"`
	NoData bool          `json:"no_data"`
}

func pick(p domain.ResolvedDataPoint, unit Unit) *float64 {
	if unit == UnitMillions {
		return p.MonetaryValue
	}
	return p.Value
}

// Bars draws one bar per entity. Entities without a value stay in the chart
// as placeholders after the valued bars.
func Bars(points []domain.ResolvedDataPoint, opts Options) BarChart {
	unit := unitOf(opts)
	chart := BarChart{Unit: unit, Bars: make([]Bar, 0, len(points)), NoData: true}
	highlight := toSet(opts.Highlight)

	for _, p := range points {
		v := pick(p, unit)
		b := Bar{
			Key:    p.Entity.ID,
			Label:  p.Entity.DisplayName(opts.Lang),
			Value:  v,
			Color:  EntityColor(p.Entity.ID),
			Flag:   p.Entity.Flag,
			NoData: v == nil,
			Source: p.Source,
		}
		if _, ok := highlight[p.Entity.ID]; ok {
			b.Highlight = true
		}
		if b.NoData {
			b.Color = NoDataColor
		} else {
			chart.NoData = false
		}
		chart.Bars = append(chart.Bars, b)
	}

	sortItems(chart.Bars, opts.Pinned, func(b Bar) (string, *float64, string) { return b.Key, b.Value, b.Label })
	return chart
}

// Slices draws the sector breakdown of one entity. The total sector is the
// whole pie, not a slice. Shares are recomputed for the monetary unit.
func Slices(points []domain.ResolvedDataPoint, opts Options) PieChart {
	unit := unitOf(opts)
	chart := PieChart{Unit: unit, NoData: true}

	var total *float64
	for _, p := range points {
		if chart.Entity.IsZero() {
			chart.Entity = p.Entity
		}
		if p.Sector == domain.SectorTotal {
			total = pick(p, unit)
		}
	}
	chart.Total = total

	for _, p := range points {
		if p.Sector == domain.SectorTotal {
			continue
		}
		v := pick(p, unit)
		s := Slice{
			Sector: p.Sector,
			Label:  sectorLabel(p.Sector, opts.Lang),
			Value:  v,
			Color:  SectorColor(p.Sector),
			NoData: v == nil,
		}
		switch {
		case v == nil:
			s.Color = NoDataColor
		case unit == UnitPercent && p.SharePercentage != nil:
			s.Share = p.SharePercentage
		case total != nil && *total != 0:
			share := decimal.NewFromFloat(*v).Div(decimal.NewFromFloat(*total)).Mul(decimal.NewFromInt(100)).Round(2)
			s.Share = domain.Float(share.InexactFloat64())
		}
		if !s.NoData {
			chart.NoData = false
		}
		chart.Slices = append(chart.Slices, s)
	}

	sortItems(chart.Slices, opts.Pinned, func(s Slice) (string, *float64, string) { return string(s.Sector), s.Value, s.Label })
	return chart
}

// Choropleth joins points to map features. Every feature is kept; features
// without an entity or a value are drawn as no data.
func Choropleth(points []domain.ResolvedDataPoint, matches []geo.Match, opts Options) MapChart {
	unit := unitOf(opts)
	chart := MapChart{Unit: unit, Regions: make([]Region, 0, len(matches)), NoData: true}

	byEntity := make(map[string]*float64, len(points))
	for _, p := range points {
		if _, dup := byEntity[p.Entity.ID]; !dup {
			byEntity[p.Entity.ID] = pick(p, unit)
		}
	}

	for _, m := range matches {
		r := Region{FeatureIndex: m.Index, Label: m.Label, NoData: true}
		if m.OK {
			r.EntityID = m.Entity.ID
			r.Label = m.Entity.DisplayName(opts.Lang)
			r.Value = byEntity[m.Entity.ID]
			r.NoData = r.Value == nil
		}
		if !r.NoData {
			chart.NoData = false
			v := *r.Value
			if chart.Min == nil || v < *chart.Min {
				chart.Min = domain.Float(v)
			}
			if chart.Max == nil || v > *chart.Max {
				chart.Max = domain.Float(v)
			}
		}
		chart.Regions = append(chart.Regions, r)
	}
	return chart
}

// Lines draws one line per series. Years are the union over all series;
// a series lacking a year gets a null point there, never a zero.
func Lines(series [][]domain.ResolvedDataPoint, opts Options) LineChart {
	unit := unitOf(opts)
	chart := LineChart{Unit: unit, NoData: true}

	years := make(map[domain.Year]struct{})
	for _, s := range series {
		for _, p := range s {
			years[p.Year] = struct{}{}
		}
	}
	for y := range years {
		chart.Years = append(chart.Years, y)
	}
	sort.Ints(chart.Years)

	for _, s := range series {
		if len(s) == 0 {
			continue
		}
		values := make(map[domain.Year]*float64, len(s))
		for _, p := range s {
			values[p.Year] = pick(p, unit)
		}

		first := s[0]
		l := Line{
			Key:    first.Entity.ID,
			Label:  first.Entity.DisplayName(opts.Lang),
			Color:  EntityColor(first.Entity.ID),
			Points: make([]LinePoint, 0, len(chart.Years)),
			NoData: true,
		}
		for _, y := range chart.Years {
			v := values[y]
			if v != nil {
				l.NoData = false
			}
			l.Points = append(l.Points, LinePoint{Year: y, Value: v})
		}
		if !l.NoData {
			chart.NoData = false
		}
		chart.Lines = append(chart.Lines, l)
	}
	return chart
}

// SectorOrder ranks sectors by the nation's own values, highest first. Passing
// the result as Options.Pinned keeps every regional pie in the national order.
func SectorOrder(nationPoints []domain.ResolvedDataPoint) []string {
	ranked := make([]domain.ResolvedDataPoint, 0, len(nationPoints))
	for _, p := range nationPoints {
		if p.Sector != domain.SectorTotal {
			ranked = append(ranked, p)
		}
	}

	sortItems(ranked, nil, func(p domain.ResolvedDataPoint) (string, *float64, string) {
		return string(p.Sector), p.Value, string(p.Sector)
	})

	out := make([]string, 0, len(ranked))
	for _, p := range ranked {
		out = append(out, string(p.Sector))
	}
	return out
}

// sortItems orders pinned keys first, then valued items by descending value,
// then placeholders. Ties break on label.
func sortItems[T any](items []T, pinned []string, key func(T) (string, *float64, string)) {
	rank := make(map[string]int, len(pinned))
	for i, k := range pinned {
		if _, dup := rank[k]; !dup {
			rank[k] = i
		}
	}

	sort.SliceStable(items, func(i, j int) bool {
		ki, vi, li := key(items[i])
		kj, vj, lj := key(items[j])

		ri, pi := rank[ki]
		rj, pj := rank[kj]
		switch {
		case pi && pj:
			return ri < rj
		case pi != pj:
			return pi
		}

		switch {
		case vi != nil && vj != nil:
			if *vi != *vj {
				return *vi > *vj
			}
		case vi != nil || vj != nil:
			return vi != nil
		}
		return li < lj
	})
}

func sectorLabel(id domain.SectorID, lang string) string {
	d, ok := sectors.Describe(id)
	if !ok {
		return string(id)
	}
	if lang == "en" {
		return d.Name.EN
	}
	return d.Name.ES
}

func unitOf(opts Options) Unit {
	if opts.Unit == "" {
		return UnitPercent
	}
	return opts.Unit
}

func toSet(keys []string) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		out[k] = struct{}{}
	}
	return out
}
