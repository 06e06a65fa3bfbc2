package domain

type EntityKind string

const (
	EntityCountry   EntityKind = "country"
	EntityCommunity EntityKind = "community"
	EntityProvince  EntityKind = "province"
	EntityAggregate EntityKind = "aggregate"
)

type LocalizedName struct {
	ES string `json:"es"`
	EN string `json:"en"`
}

// CanonicalEntity is a country, an autonomous community or a province.
// Code is ISO 3166-1 alpha-2 for countries, NUTS for regions and the INE
// code for provinces. AltCodes holds the other codes sources use for the
// same entity (Eurostat geo codes, INE and ISO 3166-2 community codes).
type CanonicalEntity struct {
	ID       string        `json:"id"`
	Kind     EntityKind    `json:"kind"`
	Name     LocalizedName `json:"name"`
	Code     string        `json:"code"`
	ISO3     string        `json:"iso3,omitempty"`
	AltCodes []string      `json:"alt_codes,omitempty"`
	Flag     string        `json:"flag,omitempty"`
	Parent   string        `json:"parent,omitempty"`
}

func (e CanonicalEntity) IsZero() bool {
	return e.ID == ""
}

// DisplayName picks the name for lang ("es" or "en"), falling back to the other.
func (e CanonicalEntity) DisplayName(lang string) string {
	if lang == "en" && e.Name.EN != "" {
		return e.Name.EN
	}
	if e.Name.ES != "" {
		return e.Name.ES
	}
	return e.Name.EN
}
