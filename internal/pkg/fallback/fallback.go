// Package fallback holds published national aggregates used when a dataset
// has no usable national total row.
package fallback

import (
	"sort"

	"github.com/ougirez/rdatlas/internal/domain"
)

type key struct {
	year   domain.Year
	sector domain.SectorID
}

// Table is read-only after construction.
type Table struct {
	entityID string
	values   map[key]float64
}

type row struct {
	year                                              domain.Year
	total, business, government, education, nonprofit float64
}

func newTable(entityID string, rows []row) *Table {
	t := &Table{entityID: entityID, values: make(map[key]float64, len(rows)*5)}
	for _, r := range rows {
		t.values[key{r.year, domain.SectorTotal}] = r.total
		t.values[key{r.year, domain.SectorBusiness}] = r.business
		t.values[key{r.year, domain.SectorGovernment}] = r.government
		t.values[key{r.year, domain.SectorEducation}] = r.education
		t.values[key{r.year, domain.SectorNonprofit}] = r.nonprofit
	}
	return t
}

// EntityID is the nation the table describes.
func (t *Table) EntityID() string {
	if t == nil {
		return ""
	}
	return t.entityID
}

func (t *Table) Lookup(year domain.Year, sector domain.SectorID) (float64, bool) {
	if t == nil {
		return 0, false
	}
	v, ok := t.values[key{year, sector}]
	return v, ok
}

// Years lists the covered years in ascending order.
func (t *Table) Years() []domain.Year {
	if t == nil {
		return nil
	}
	seen := make(map[domain.Year]struct{})
	for k := range t.values {
		seen[k.year] = struct{}{}
	}
	out := make([]domain.Year, 0, len(seen))
	for y := range seen {
		out = append(out, y)
	}
	sort.Ints(out)
	return out
}

// INE "Estadística sobre actividades de I+D", internal R&D expenditure as % of GDP.
var spain = newTable("ES", []row{
	{year: 2010, total: 1.35, business: 0.70, government: 0.27, education: 0.38, nonprofit: 0.005},
	{year: 2011, total: 1.32, business: 0.69, government: 0.26, education: 0.37, nonprofit: 0.004},
	{year: 2012, total: 1.27, business: 0.67, government: 0.24, education: 0.36, nonprofit: 0.003},
	{year: 2013, total: 1.27, business: 0.67, government: 0.24, education: 0.36, nonprofit: 0.003},
	{year: 2014, total: 1.23, business: 0.65, government: 0.23, education: 0.35, nonprofit: 0.003},
	{year: 2015, total: 1.22, business: 0.64, government: 0.23, education: 0.34, nonprofit: 0.003},
	{year: 2016, total: 1.19, business: 0.64, government: 0.22, education: 0.33, nonprofit: 0.003},
	{year: 2017, total: 1.21, business: 0.66, government: 0.21, education: 0.34, nonprofit: 0.003},
	{year: 2018, total: 1.24, business: 0.70, government: 0.21, education: 0.33, nonprofit: 0.003},
	{year: 2019, total: 1.25, business: 0.70, government: 0.21, education: 0.34, nonprofit: 0.003},
	{year: 2020, total: 1.41, business: 0.79, government: 0.24, education: 0.38, nonprofit: 0.004},
	{year: 2021, total: 1.40, business: 0.79, government: 0.24, education: 0.37, nonprofit: 0.004},
	{year: 2022, total: 1.44, business: 0.81, government: 0.25, education: 0.38, nonprofit: 0.004},
	{year: 2023, total: 1.49, business: 0.85, government: 0.25, education: 0.39, nonprofit: 0.004},
})

// Spain returns the national R&D intensity series.
func Spain() *Table {
	return spain
}

var byEntity = map[string]*Table{
	spain.entityID: spain,
}

// For returns the table for a nation entity id, nil when there is none.
func For(entityID string) *Table {
	return byEntity[entityID]
}
