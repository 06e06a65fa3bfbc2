// Package aggregator answers (year, sector, entity) queries over a dataset.
//
// Records are parsed once into a Frame: labels resolved, numbers parsed and
// monetary amounts converted to millions of euros. Frames are immutable, so
// queries are pure and safe to run concurrently.
package aggregator

import (
	"context"
	"sort"
	"strconv"

	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/fallback"
	"github.com/ougirez/rdatlas/internal/pkg/logger"
	"github.com/ougirez/rdatlas/internal/pkg/numparse"
	"github.com/ougirez/rdatlas/internal/pkg/resolver"
	"github.com/ougirez/rdatlas/internal/pkg/sectors"
)

// maxLoggedProblems bounds per-row debug logging for a single frame.
const maxLoggedProblems = 20

type Options struct {
	// Entities resolves the entity column.
	Entities *resolver.Resolver
	// SubEntities resolves the sub-entity column (provinces). Optional.
	SubEntities *resolver.Resolver
	// Nation is used for ScopeNation queries that carry no entity.
	Nation domain.CanonicalEntity
	// Fallback is consulted for ScopeNation queries on its own entity. Optional.
	Fallback *fallback.Table
	// Lookup finds an entity by id, used to walk province -> community -> nation.
	Lookup func(id string) (domain.CanonicalEntity, bool)
	// IsMember reports whether child is a component of nation. Defaults to
	// child.Parent == nation.ID.
	IsMember func(child, nation domain.CanonicalEntity) bool
}

type row struct {
	index int

	entity   domain.CanonicalEntity
	entityOK bool
	sub      domain.CanonicalEntity
	subOK    bool

	year     domain.Year
	yearOK   bool
	sector   domain.SectorID
	sectorOK bool

	value    *float64
	monetary *float64
	weight   *float64
}

// Stats summarizes data quality problems met while building a Frame.
type Stats struct {
	Rows             int      `json:"rows"`
	UnresolvedLabels []string `json:"unresolved_labels,omitempty"`
	UnknownSectors   []string `json:"unknown_sectors,omitempty"`
	BadValues        int      `json:"bad_values"`
}

type Frame struct {
	schema domain.Schema
	opts   Options
	rows   []row
	years  []domain.Year
	stats  Stats
}

// NewFrame parses records according to schema. Data quality problems never
// fail the build: the affected fields become null and are counted in Stats.
func NewFrame(ctx context.Context, records []domain.RawRecord, schema domain.Schema, opts Options) *Frame {
	if opts.IsMember == nil {
		opts.IsMember = func(child, nation domain.CanonicalEntity) bool {
			return child.Parent != "" && child.Parent == nation.ID
		}
	}

	f := &Frame{
		schema: schema,
		opts:   opts,
		rows:   make([]row, 0, len(records)),
	}

	parser := numparse.Parser{Convention: numparse.ParseConvention(schema.Decimal)}
	unit := numparse.ParseUnit(schema.MonetaryUnit)

	unresolved := make(map[string]struct{})
	unknownSectors := make(map[string]struct{})
	years := make(map[domain.Year]struct{})
	logged := 0
	problem := func(format string, args ...interface{}) {
		if logged < maxLoggedProblems {
			logger.Debugf(ctx, format, args...)
		}
		logged++
	}

	for i, rec := range records {
		r := row{index: i}

		if label, ok := rec.Get(schema.EntityFields...); ok && opts.Entities != nil {
			r.entity, r.entityOK = opts.Entities.Resolve(label)
			if !r.entityOK {
				unresolved[label] = struct{}{}
			}
		}

		if label, ok := rec.Get(schema.SubEntityFields...); ok && opts.SubEntities != nil {
			r.sub, r.subOK = opts.SubEntities.Resolve(label)
		}

		if raw, ok := rec.Get(schema.YearFields...); ok {
			r.year, r.yearOK = parseYear(raw)
			if r.yearOK {
				years[r.year] = struct{}{}
			} else {
				problem("row %d: unparseable year %q", i, raw)
			}
		}

		if raw, ok := rec.Get(schema.SectorFields...); ok {
			r.sector, r.sectorOK = sectors.Lookup(raw)
			if !r.sectorOK {
				unknownSectors[raw] = struct{}{}
			}
		} else {
			// datasets without a sector column report totals
			r.sector, r.sectorOK = domain.SectorTotal, true
		}

		if raw, ok := rec.Get(schema.ValueFields...); ok {
			if v, ok := parser.Parse(raw); ok {
				r.value = &v
			} else {
				f.stats.BadValues++
				problem("row %d: unparseable value %q", i, raw)
			}
		}

		if raw, ok := rec.Get(schema.MonetaryFields...); ok {
			if v, ok := parser.Parse(raw); ok {
				m := numparse.ToMillions(v, unit)
				r.monetary = &m
			}
		}

		if raw, ok := rec.Get(schema.WeightFields...); ok {
			if v, ok := parser.Parse(raw); ok && v > 0 {
				r.weight = &v
			}
		}

		f.rows = append(f.rows, r)
	}

	for y := range years {
		f.years = append(f.years, y)
	}
	sort.Ints(f.years)

	f.stats.Rows = len(f.rows)
	f.stats.UnresolvedLabels = sortedKeys(unresolved)
	f.stats.UnknownSectors = sortedKeys(unknownSectors)

	if len(unresolved) > 0 || len(unknownSectors) > 0 || f.stats.BadValues > 0 {
		logger.Warn(ctx, "dataset has data quality problems",
			"rows", f.stats.Rows,
			"unresolved_labels", len(unresolved),
			"unknown_sectors", len(unknownSectors),
			"bad_values", f.stats.BadValues,
		)
	}

	return f
}

// Years lists the years present in the data, ascending.
func (f *Frame) Years() []domain.Year {
	out := make([]domain.Year, len(f.years))
	copy(out, f.years)
	return out
}

// LatestYear is the most recent year in the data, 0 for an empty frame.
func (f *Frame) LatestYear() domain.Year {
	if len(f.years) == 0 {
		return 0
	}
	return f.years[len(f.years)-1]
}

func (f *Frame) Stats() Stats {
	return f.stats
}

func (f *Frame) Schema() domain.Schema {
	return f.schema
}

// parseYear reads the first run of four digits: "2023", "2023 (p)", "2023-06".
func parseYear(raw string) (domain.Year, bool) {
	start, n := -1, 0
	for i, r := range raw {
		if r >= '0' && r <= '9' {
			if start < 0 {
				start = i
			}
			n++
			if n == 4 {
				y, err := strconv.Atoi(raw[start : i+1])
				return y, err == nil
			}
			continue
		}
		start, n = -1, 0
	}
	return 0, false
}

func sortedKeys(m map[string]struct{}) []string {
	if len(m) == 0 {
		return nil
	}
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
