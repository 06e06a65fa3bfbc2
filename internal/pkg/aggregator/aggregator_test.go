package aggregator

import (
	"context"
	"math"
	"testing"

	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/fallback"
	"github.com/ougirez/rdatlas/internal/pkg/reference"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func communityOpts(tabs *reference.Tables) Options {
	return Options{
		Entities:    tabs.Resolver(domain.EntityCommunity),
		SubEntities: tabs.Resolver(domain.EntityProvince),
		Nation:      tabs.Nation,
		Fallback:    fallback.Spain(),
		Lookup:      tabs.Entity,
	}
}

func entity(t *testing.T, tabs *reference.Tables, id string) domain.CanonicalEntity {
	t.Helper()
	e, ok := tabs.Entity(id)
	if !ok {
		t.Fatalf("no entity %s", id)
	}
	return e
}

func TestDirectLookupScenario(t *testing.T) {
	tabs := reference.Builtin()
	records := []domain.RawRecord{
		{"Comunidad": "Canarias", "Año": "2023", "SectorId": "(_T)", "% PIB I+D": "1,04"},
	}

	p := Query(context.Background(), records, domain.DefaultSchema, domain.AggregationQuery{
		Year:   2023,
		Sector: domain.SectorTotal,
		Entity: entity(t, tabs, "ES70"),
		Scope:  domain.ScopeEntity,
	}, communityOpts(tabs))

	if !p.HasValue() || !almostEqual(*p.Value, 1.04) {
		t.Fatalf("value = %v, want 1.04", p.Value)
	}
	if p.Source != domain.SourceDirect {
		t.Errorf("source = %s", p.Source)
	}
}

func TestFallbackScenario(t *testing.T) {
	tabs := reference.Builtin()
	records := []domain.RawRecord{
		{"Comunidad": "Canarias", "Año": "2023", "SectorId": "(_T)", "% PIB I+D": "1,04", "PIB": "50000"},
		{"Comunidad": "Comunidad de Madrid", "Año": "2022", "SectorId": "(_T)", "% PIB I+D": "1,80", "PIB": "240000"},
	}

	p := Query(context.Background(), records, domain.DefaultSchema, domain.AggregationQuery{
		Year:   2023,
		Sector: domain.SectorTotal,
		Scope:  domain.ScopeNation,
	}, communityOpts(tabs))

	if !p.HasValue() || *p.Value != 1.49 {
		t.Fatalf("value = %v, want 1.49 verbatim", p.Value)
	}
	if p.Source != domain.SourceFallback {
		t.Errorf("source = %s, want fallback", p.Source)
	}
	if p.Entity.ID != "ES" {
		t.Errorf("entity = %s, want nation", p.Entity.ID)
	}
}

func TestNoDataScenario(t *testing.T) {
	tabs := reference.Builtin()
	records := []domain.RawRecord{
		{"Comunidad": "Canarias", "Año": "2023", "SectorId": "(_T)", "% PIB I+D": "1,04"},
	}

	tests := []struct {
		name string
		q    domain.AggregationQuery
	}{
		{
			name: "other entity",
			q:    domain.AggregationQuery{Year: 2023, Sector: domain.SectorTotal, Entity: entity(t, tabs, "ES30"), Scope: domain.ScopeEntity},
		},
		{
			name: "other year",
			q:    domain.AggregationQuery{Year: 2019, Sector: domain.SectorTotal, Entity: entity(t, tabs, "ES70"), Scope: domain.ScopeEntity},
		},
		{
			name: "other sector",
			q:    domain.AggregationQuery{Year: 2023, Sector: domain.SectorBusiness, Entity: entity(t, tabs, "ES70"), Scope: domain.ScopeEntity},
		},
		{
			name: "nation outside fallback years",
			q:    domain.AggregationQuery{Year: 1999, Sector: domain.SectorTotal, Scope: domain.ScopeNation},
		},
		{
			name: "invalid sector",
			q:    domain.AggregationQuery{Year: 2023, Sector: "agriculture", Entity: entity(t, tabs, "ES70"), Scope: domain.ScopeEntity},
		},
	}

	f := NewFrame(context.Background(), records, domain.DefaultSchema, communityOpts(tabs))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := f.Query(tt.q)
			if p.HasValue() {
				t.Fatalf("expected no value, got %v", *p.Value)
			}
			if p.Source != domain.SourceNone {
				t.Errorf("source = %s", p.Source)
			}
		})
	}
}

func TestDirectRowBeatsFallbackOnlyWhenPopulated(t *testing.T) {
	tabs := reference.Builtin()
	q := domain.AggregationQuery{Year: 2023, Sector: domain.SectorTotal, Scope: domain.ScopeNation}

	populated := []domain.RawRecord{
		{"Comunidad": "Total Nacional", "Año": "2023", "SectorId": "_T", "% PIB I+D": "1,50"},
	}
	p := Query(context.Background(), populated, domain.DefaultSchema, q, communityOpts(tabs))
	if p.Source != domain.SourceDirect || !almostEqual(*p.Value, 1.50) {
		t.Fatalf("populated direct row should win, got %v from %s", p.Value, p.Source)
	}

	empty := []domain.RawRecord{
		{"Comunidad": "Total Nacional", "Año": "2023", "SectorId": "_T", "% PIB I+D": ":"},
	}
	p = Query(context.Background(), empty, domain.DefaultSchema, q, communityOpts(tabs))
	if p.Source != domain.SourceFallback || *p.Value != 1.49 {
		t.Fatalf("empty direct row should defer to the fallback, got %v from %s", p.Value, p.Source)
	}
}

func TestFirstPopulatedRowWins(t *testing.T) {
	tabs := reference.Builtin()
	records := []domain.RawRecord{
		{"Comunidad": "Canarias", "Año": "2023", "SectorId": "_T", "% PIB I+D": "n.d."},
		{"Comunidad": "Islas Canarias", "Año": "2023", "SectorId": "_T", "% PIB I+D": "0,98"},
		{"Comunidad": "Canarias", "Año": "2023", "SectorId": "_T", "% PIB I+D": "1,20"},
	}

	p := Query(context.Background(), records, domain.DefaultSchema, domain.AggregationQuery{
		Year: 2023, Sector: domain.SectorTotal, Entity: entity(t, tabs, "ES70"), Scope: domain.ScopeEntity,
	}, communityOpts(tabs))

	if !p.HasValue() || !almostEqual(*p.Value, 0.98) {
		t.Fatalf("value = %v, want 0.98", p.Value)
	}
}

func TestWeightedAverage(t *testing.T) {
	tabs := reference.Builtin()
	opts := communityOpts(tabs)
	opts.Fallback = nil

	records := []domain.RawRecord{
		{"Comunidad": "Comunidad de Madrid", "Año": "2021", "SectorId": "_T", "% PIB I+D": "1,70", "PIB": "230000"},
		{"Comunidad": "Cataluña", "Año": "2021", "SectorId": "_T", "% PIB I+D": "1,68", "PIB": "235000"},
		{"Comunidad": "Canarias", "Año": "2021", "SectorId": "_T", "% PIB I+D": "0,55", "PIB": "42000"},
		{"Comunidad": "Canarias", "Año": "2021", "SectorId": "_T", "% PIB I+D": "9,99", "PIB": "42000"},
		{"Comunidad": "Andalucía", "Año": "2020", "SectorId": "_T", "% PIB I+D": "0,90", "PIB": "150000"},
	}

	p := Query(context.Background(), records, domain.DefaultSchema, domain.AggregationQuery{
		Year: 2021, Sector: domain.SectorTotal, Scope: domain.ScopeNation,
	}, opts)

	want := (1.70*230000 + 1.68*235000 + 0.55*42000) / (230000 + 235000 + 42000)
	if !p.HasValue() || !almostEqual(*p.Value, want) {
		t.Fatalf("value = %v, want %v", p.Value, want)
	}
	if p.Source != domain.SourceWeighted {
		t.Errorf("source = %s", p.Source)
	}
}

func TestWeightedAverageDerivesGDPFromExpenditure(t *testing.T) {
	tabs := reference.Builtin()
	opts := communityOpts(tabs)
	opts.Fallback = nil

	schema := domain.DefaultSchema
	schema.MonetaryUnit = "millions"

	// expenditure in millions; implied GDP = 100 * expenditure / share
	records := []domain.RawRecord{
		{"Comunidad": "Galicia", "Año": "2022", "SectorId": "_T", "% PIB I+D": "1,00", "Gasto I+D": "700"},
		{"Comunidad": "Aragón", "Año": "2022", "SectorId": "_T", "% PIB I+D": "0,80", "Gasto I+D": "320"},
	}

	p := Query(context.Background(), records, schema, domain.AggregationQuery{
		Year: 2022, Sector: domain.SectorTotal, Scope: domain.ScopeNation,
	}, opts)

	// GDPs 70000 and 40000
	want := (1.00*70000 + 0.80*40000) / 110000
	if !p.HasValue() || !almostEqual(*p.Value, want) {
		t.Fatalf("value = %v, want %v", p.Value, want)
	}
	if p.MonetaryValue == nil || !almostEqual(*p.MonetaryValue, 1020) {
		t.Errorf("monetary = %v, want 1020", p.MonetaryValue)
	}
}

func TestWeightedAverageNeedsWeights(t *testing.T) {
	tabs := reference.Builtin()
	opts := communityOpts(tabs)
	opts.Fallback = nil

	records := []domain.RawRecord{
		{"Comunidad": "Galicia", "Año": "2022", "SectorId": "_T", "% PIB I+D": "1,00"},
		{"Comunidad": "Aragón", "Año": "2022", "SectorId": "_T", "% PIB I+D": "0,80"},
	}

	p := Query(context.Background(), records, domain.DefaultSchema, domain.AggregationQuery{
		Year: 2022, Sector: domain.SectorTotal, Scope: domain.ScopeNation,
	}, opts)
	if p.HasValue() {
		t.Fatalf("an unweighted mean must not stand in for the national value, got %v", *p.Value)
	}
}

func TestRollupDeduplicatesProvinces(t *testing.T) {
	tabs := reference.Builtin()
	schema := domain.Schema{
		EntityFields:    []string{"Comunidad"},
		SubEntityFields: []string{"Provincia"},
		YearFields:      []string{"Año"},
		ValueFields:     []string{"Patentes"},
		Measure:         domain.MeasureAdditive,
		Decimal:         "comma",
	}
	opts := communityOpts(tabs)
	opts.Fallback = nil

	records := []domain.RawRecord{
		{"Comunidad": "Canarias", "Provincia": "35 Palmas, Las", "Año": "2022", "Patentes": "41"},
		{"Comunidad": "Canarias", "Provincia": "38 Santa Cruz de Tenerife", "Año": "2022", "Patentes": "37"},
		{"Comunidad": "Canarias", "Provincia": "Las Palmas", "Año": "2022", "Patentes": "41"},
		{"Comunidad": "Canarias", "Provincia": "Santa Cruz de Tenerife", "Año": "2021", "Patentes": "12"},
		{"Comunidad": "Comunidad de Madrid", "Provincia": "28 Madrid", "Año": "2022", "Patentes": "1.204"},
	}

	f := NewFrame(context.Background(), records, schema, opts)

	p := f.Query(domain.AggregationQuery{Year: 2022, Sector: domain.SectorTotal, Entity: entity(t, tabs, "ES70"), Scope: domain.ScopeEntity})
	if !p.HasValue() || *p.Value != 78 {
		t.Fatalf("Canarias rollup = %v, want 78", p.Value)
	}
	if p.Source != domain.SourceRollup {
		t.Errorf("source = %s", p.Source)
	}

	nation := f.Query(domain.AggregationQuery{Year: 2022, Sector: domain.SectorTotal, Scope: domain.ScopeNation})
	if !nation.HasValue() || *nation.Value != 78+1204 {
		t.Fatalf("nation rollup = %v, want %d", nation.Value, 78+1204)
	}
}

func TestAdditiveNationSum(t *testing.T) {
	tabs := reference.Builtin()
	schema := domain.DefaultSchema
	schema.Measure = domain.MeasureAdditive
	schema.ValueFields = []string{"Investigadores"}
	schema.Decimal = "comma"
	opts := communityOpts(tabs)
	opts.Fallback = nil

	records := []domain.RawRecord{
		{"Comunidad": "Galicia", "Año": "2022", "Investigadores": "9.512"},
		{"Comunidad": "Aragón", "Año": "2022", "Investigadores": "5.101"},
		{"Comunidad": "Galicia", "Año": "2022", "Investigadores": "9.512"},
	}

	p := Query(context.Background(), records, schema, domain.AggregationQuery{
		Year: 2022, Sector: domain.SectorTotal, Scope: domain.ScopeNation,
	}, opts)
	if !p.HasValue() || *p.Value != 14613 || p.Source != domain.SourceSum {
		t.Fatalf("value = %v from %s, want 14613 from sum", p.Value, p.Source)
	}
}

func TestMonetaryConvertedOnce(t *testing.T) {
	tabs := reference.Builtin()
	records := []domain.RawRecord{
		{"Comunidad": "Canarias", "Año": "2023", "SectorId": "_T", "% PIB I+D": "1,04", "Gasto I+D": "523.456"},
	}
	schema := domain.DefaultSchema
	schema.Decimal = "comma"

	f := NewFrame(context.Background(), records, schema, communityOpts(tabs))
	q := domain.AggregationQuery{Year: 2023, Sector: domain.SectorTotal, Entity: entity(t, tabs, "ES70"), Scope: domain.ScopeEntity}

	for i := 0; i < 3; i++ {
		p := f.Query(q)
		// "523.456" thousands -> 523456 thousand euros -> 523.456 millions
		if p.MonetaryValue == nil || !almostEqual(*p.MonetaryValue, 523.456) {
			t.Fatalf("query %d: monetary = %v, want 523.456", i, p.MonetaryValue)
		}
	}
}

func TestBreakdownShares(t *testing.T) {
	tabs := reference.Builtin()
	records := []domain.RawRecord{
		{"Comunidad": "País Vasco", "Año": "2022", "SectorId": "_T", "% PIB I+D": "2,20"},
		{"Comunidad": "País Vasco", "Año": "2022", "SectorId": "EMPRESAS", "% PIB I+D": "1,65"},
		{"Comunidad": "País Vasco", "Año": "2022", "SectorId": "ADMINISTRACION_PUBLICA", "% PIB I+D": "0,10"},
		{"Comunidad": "País Vasco", "Año": "2022", "SectorId": "ENSENIANZA_SUPERIOR", "% PIB I+D": "0,44"},
		{"Comunidad": "País Vasco", "Año": "2022", "SectorId": "AGRICULTURA", "% PIB I+D": "0,50"},
	}

	f := NewFrame(context.Background(), records, domain.DefaultSchema, communityOpts(tabs))
	points := f.Breakdown(entity(t, tabs, "ES21"), domain.ScopeEntity, 2022)

	if len(points) != 5 {
		t.Fatalf("expected 5 sectors, got %d", len(points))
	}
	wantShares := map[domain.SectorID]float64{
		domain.SectorTotal:      100,
		domain.SectorBusiness:   75,
		domain.SectorGovernment: 4.55,
		domain.SectorEducation:  20,
	}
	for _, p := range points {
		want, ok := wantShares[p.Sector]
		if !ok {
			if p.HasValue() || p.SharePercentage != nil {
				t.Errorf("%s should have no data", p.Sector)
			}
			continue
		}
		if p.SharePercentage == nil || !almostEqual(*p.SharePercentage, want) {
			t.Errorf("%s share = %v, want %v", p.Sector, p.SharePercentage, want)
		}
	}

	stats := f.Stats()
	if len(stats.UnknownSectors) != 1 || stats.UnknownSectors[0] != "AGRICULTURA" {
		t.Errorf("unknown sectors = %v", stats.UnknownSectors)
	}
}

func TestSeriesIncludesFallbackYears(t *testing.T) {
	tabs := reference.Builtin()
	records := []domain.RawRecord{
		{"Comunidad": "Total Nacional", "Año": "2024", "SectorId": "_T", "% PIB I+D": "1,55"},
	}

	f := NewFrame(context.Background(), records, domain.DefaultSchema, communityOpts(tabs))
	series := f.Series(tabs.Nation, domain.ScopeNation, domain.SectorTotal)

	last := series[len(series)-1]
	if last.Year != 2024 || last.Source != domain.SourceDirect {
		t.Errorf("last point = %d from %s", last.Year, last.Source)
	}
	if series[0].Year != 2010 || series[0].Source != domain.SourceFallback {
		t.Errorf("first point = %d from %s", series[0].Year, series[0].Source)
	}
	for i := 1; i < len(series); i++ {
		if series[i].Year <= series[i-1].Year {
			t.Fatalf("years not ascending at %d", i)
		}
	}
}

func TestParseYear(t *testing.T) {
	tests := []struct {
		raw    string
		want   domain.Year
		wantOK bool
	}{
		{raw: "2023", want: 2023, wantOK: true},
		{raw: "2023 (p)", want: 2023, wantOK: true},
		{raw: "2023-06", want: 2023, wantOK: true},
		{raw: "Año 2019", want: 2019, wantOK: true},
		{raw: "23", wantOK: false},
		{raw: "", wantOK: false},
	}

	for _, tt := range tests {
		got, ok := parseYear(tt.raw)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("parseYear(%q) = %d/%v, want %d/%v", tt.raw, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestRollupFromProvinceEntities(t *testing.T) {
	tabs := reference.Builtin()
	schema := domain.Schema{
		EntityFields: []string{"Provincia"},
		YearFields:   []string{"Año"},
		ValueFields:  []string{"Patentes"},
		Measure:      domain.MeasureAdditive,
		Decimal:      "comma",
		EntityKind:   domain.EntityProvince,
	}
	opts := Options{
		Entities: tabs.Resolver(domain.EntityProvince),
		Nation:   tabs.Nation,
		Lookup:   tabs.Entity,
	}

	records := []domain.RawRecord{
		{"Provincia": "35 Palmas, Las", "Año": "2022", "Patentes": "41"},
		{"Provincia": "38 Santa Cruz de Tenerife", "Año": "2022", "Patentes": "37"},
		{"Provincia": "Santa Cruz de Tenerife", "Año": "2022", "Patentes": "37"},
	}

	f := NewFrame(context.Background(), records, schema, opts)
	p := f.Query(domain.AggregationQuery{Year: 2022, Sector: domain.SectorTotal, Entity: entity(t, tabs, "ES70"), Scope: domain.ScopeEntity})
	if !p.HasValue() || *p.Value != 78 || p.Source != domain.SourceRollup {
		t.Fatalf("Canarias = %v from %s, want 78 from rollup", p.Value, p.Source)
	}

	madrid := f.Query(domain.AggregationQuery{Year: 2022, Sector: domain.SectorTotal, Entity: entity(t, tabs, "ES30"), Scope: domain.ScopeEntity})
	if madrid.HasValue() {
		t.Errorf("Madrid = %v, want no data", *madrid.Value)
	}
}

func TestShareMeasuresDoNotRollUp(t *testing.T) {
	tabs := reference.Builtin()
	opts := communityOpts(tabs)
	opts.Fallback = nil

	records := []domain.RawRecord{
		{"Comunidad": "Canarias", "Provincia": "35 Palmas, Las", "Año": "2022", "SectorId": "_T", "% PIB I+D": "0,61"},
		{"Comunidad": "Canarias", "Provincia": "38 Santa Cruz de Tenerife", "Año": "2022", "SectorId": "_T", "% PIB I+D": "0,55"},
	}

	p := Query(context.Background(), records, domain.DefaultSchema, domain.AggregationQuery{
		Year: 2022, Sector: domain.SectorTotal, Entity: entity(t, tabs, "ES70"), Scope: domain.ScopeEntity,
	}, opts)
	if p.HasValue() || p.Source != domain.SourceNone {
		t.Fatalf("Canarias = %v from %s, want no data", p.Value, p.Source)
	}
}
