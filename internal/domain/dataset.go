package domain

import "time"

// Measure tells the aggregator how sub-entity values combine into a parent.
type Measure string

const (
	// MeasureShare values are ratios such as % of GDP and combine by weighted mean.
	MeasureShare Measure = "share"
	// MeasureAdditive values are counts or amounts and combine by sum.
	MeasureAdditive Measure = "additive"
)

// Schema names the columns of a dataset. Every field list holds candidate
// header spellings tried in order.
type Schema struct {
	EntityFields    []string   `mapstructure:"entity_fields" json:"entity_fields"`
	YearFields      []string   `mapstructure:"year_fields" json:"year_fields"`
	SectorFields    []string   `mapstructure:"sector_fields" json:"sector_fields"`
	ValueFields     []string   `mapstructure:"value_fields" json:"value_fields"`
	MonetaryFields  []string   `mapstructure:"monetary_fields" json:"monetary_fields"`
	MonetaryUnit    string     `mapstructure:"monetary_unit" json:"monetary_unit"`
	WeightFields    []string   `mapstructure:"weight_fields" json:"weight_fields"`
	SubEntityFields []string   `mapstructure:"sub_entity_fields" json:"sub_entity_fields"`
	Measure         Measure    `mapstructure:"measure" json:"measure"`
	Decimal         string     `mapstructure:"decimal" json:"decimal"`
	EntityKind      EntityKind `mapstructure:"entity_kind" json:"entity_kind"`
}

// Merge fills every empty field of s from def.
func (s Schema) Merge(def Schema) Schema {
	pick := func(a, b []string) []string {
		if len(a) > 0 {
			return a
		}
		return b
	}

	s.EntityFields = pick(s.EntityFields, def.EntityFields)
	s.YearFields = pick(s.YearFields, def.YearFields)
	s.SectorFields = pick(s.SectorFields, def.SectorFields)
	s.ValueFields = pick(s.ValueFields, def.ValueFields)
	s.MonetaryFields = pick(s.MonetaryFields, def.MonetaryFields)
	s.WeightFields = pick(s.WeightFields, def.WeightFields)
	s.SubEntityFields = pick(s.SubEntityFields, def.SubEntityFields)
	if s.MonetaryUnit == "" {
		s.MonetaryUnit = def.MonetaryUnit
	}
	if s.Measure == "" {
		s.Measure = def.Measure
	}
	if s.Decimal == "" {
		s.Decimal = def.Decimal
	}
	if s.EntityKind == "" {
		s.EntityKind = def.EntityKind
	}
	return s
}

// DefaultSchema covers the header spellings of the INE, ISTAC and Eurostat exports.
var DefaultSchema = Schema{
	EntityFields: []string{
		"Comunidad", "Comunidad autónoma", "Comunidades y Ciudades Autónomas", "CCAA",
		"Territorio", "Country", "País", "geo", "Geopolitical entity (reporting)", "Región", "Region",
	},
	YearFields:      []string{"Año", "Anio", "Year", "TIME_PERIOD", "Periodo", "time"},
	SectorFields:    []string{"SectorId", "Sector", "sectperf", "Sector de ejecución", "Sector of performance"},
	ValueFields:     []string{"% PIB I+D", "Porcentaje", "Valor", "Value", "OBS_VALUE", "Total"},
	MonetaryFields:  []string{"Gasto I+D", "Gasto (miles de euros)", "Gasto", "Expenditure"},
	MonetaryUnit:    "thousands",
	WeightFields:    []string{"PIB", "GDP"},
	SubEntityFields: []string{"Provincia", "Province", "Provincias"},
	Measure:         MeasureShare,
	Decimal:         "auto",
	EntityKind:      EntityCommunity,
}

type Dataset struct {
	ID       string      `json:"id"`
	Schema   Schema      `json:"schema"`
	Records  []RawRecord `json:"-"`
	Source   string      `json:"source"`
	LoadedAt time.Time   `json:"loaded_at"`
}

// DatasetInfo describes a dataset persisted in a record store.
type DatasetInfo struct {
	ID        string    `db:"id" json:"id"`
	Source    string    `db:"source" json:"source"`
	Rows      int       `db:"row_count" json:"rows"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
