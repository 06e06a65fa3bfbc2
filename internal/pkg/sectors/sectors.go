// Package sectors maps source specific sector codes and labels onto domain.SectorID.
package sectors

import (
	"fmt"
	"strings"

	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/textnorm"
)

// Dialect is the vocabulary a dataset uses for sectors.
type Dialect string

const (
	Eurostat Dialect = "eurostat"
	INE      Dialect = "ine"
	LabelEN  Dialect = "label_en"
	LabelES  Dialect = "label_es"
)

type entry struct {
	descriptor domain.SectorDescriptor
	codes      map[Dialect]string
	aliases    []string
}

var table = []entry{
	{
		descriptor: domain.SectorDescriptor{
			ID:   domain.SectorTotal,
			Name: domain.LocalizedName{ES: "Todos los sectores", EN: "All Sectors"},
		},
		codes:   map[Dialect]string{Eurostat: "TOTAL", INE: "_T", LabelEN: "All Sectors", LabelES: "Todos los sectores"},
		aliases: []string{"_T", "T", "TOTAL", "Total", "Total sectores", "All sectors", "Total sectors"},
	},
	{
		descriptor: domain.SectorDescriptor{
			ID:   domain.SectorBusiness,
			Name: domain.LocalizedName{ES: "Empresas", EN: "Business enterprise sector"},
		},
		codes:   map[Dialect]string{Eurostat: "BES", INE: "EMPRESAS", LabelEN: "Business enterprise sector", LabelES: "Empresas"},
		aliases: []string{"BES", "EMPRESAS", "Business enterprise sector", "Business", "Sector empresas"},
	},
	{
		descriptor: domain.SectorDescriptor{
			ID:   domain.SectorGovernment,
			Name: domain.LocalizedName{ES: "Administración Pública", EN: "Government sector"},
		},
		codes: map[Dialect]string{Eurostat: "GOV", INE: "ADMINISTRACION_PUBLICA", LabelEN: "Government sector", LabelES: "Administración Pública"},
		aliases: []string{
			"GOV", "ADMINISTRACION_PUBLICA", "Government sector", "Government",
			"Administraciones Públicas", "Administracion publica",
		},
	},
	{
		descriptor: domain.SectorDescriptor{
			ID:   domain.SectorEducation,
			Name: domain.LocalizedName{ES: "Enseñanza Superior", EN: "Higher education sector"},
		},
		codes: map[Dialect]string{Eurostat: "HES", INE: "ENSENIANZA_SUPERIOR", LabelEN: "Higher education sector", LabelES: "Enseñanza Superior"},
		aliases: []string{
			"HES", "ENSENIANZA_SUPERIOR", "ENSENANZA_SUPERIOR", "Higher education sector", "Higher education",
			"Universidades",
		},
	},
	{
		descriptor: domain.SectorDescriptor{
			ID:   domain.SectorNonprofit,
			Name: domain.LocalizedName{ES: "Instituciones Privadas sin Fines de Lucro", EN: "Private non-profit sector"},
		},
		codes: map[Dialect]string{Eurostat: "PNP", INE: "IPSFL", LabelEN: "Private non-profit sector", LabelES: "Instituciones Privadas sin Fines de Lucro"},
		aliases: []string{
			"PNP", "IPSFL", "Private non-profit sector", "Private non-profit", "Non-profit",
			"Instituciones privadas sin fines de lucro",
		},
	},
}

// index is built once from table and only read afterwards.
var index = buildIndex()

func buildIndex() map[string]domain.SectorID {
	idx := make(map[string]domain.SectorID)
	for _, e := range table {
		put := func(s string) {
			k := key(s)
			if k == "" {
				return
			}
			if prev, ok := idx[k]; ok && prev != e.descriptor.ID {
				panic(fmt.Sprintf("sectors: %q maps to both %s and %s", s, prev, e.descriptor.ID))
			}
			idx[k] = e.descriptor.ID
		}

		put(string(e.descriptor.ID))
		put(e.descriptor.Name.ES)
		put(e.descriptor.Name.EN)
		for _, c := range e.codes {
			put(c)
		}
		for _, a := range e.aliases {
			put(a)
		}
	}
	return idx
}

// key strips wrapping parentheses ("(_T)") and normalizes the rest.
func key(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimSuffix(s, ")")
	return textnorm.Normalize(s)
}

// Lookup maps a raw sector code or label. ok is false for unrecognized input,
// which callers exclude from aggregation.
func Lookup(raw string) (domain.SectorID, bool) {
	k := key(raw)
	if k == "" {
		return "", false
	}

	if id, ok := index[k]; ok {
		return id, true
	}

	// "Business enterprise sector (BES)" style labels carry the code in parentheses
	if i := strings.LastIndex(raw, "("); i >= 0 {
		if id, ok := index[key(raw[i:])]; ok {
			return id, true
		}
		if id, ok := index[key(raw[:i])]; ok {
			return id, true
		}
	}

	return "", false
}

// ToSectorID maps raw like Lookup but returns SectorTotal for unknown input.
// Only call sites that cannot represent "unknown" should use it.
func ToSectorID(raw string) domain.SectorID {
	if id, ok := Lookup(raw); ok {
		return id
	}
	return domain.SectorTotal
}

// SourceCode returns the code dialect uses for id.
func SourceCode(id domain.SectorID, dialect Dialect) (string, error) {
	for _, e := range table {
		if e.descriptor.ID != id {
			continue
		}
		code, ok := e.codes[dialect]
		if !ok {
			return "", fmt.Errorf("sectors: unknown dialect %q", dialect)
		}
		return code, nil
	}
	return "", fmt.Errorf("sectors: invalid sector id %q", id)
}

// MustSourceCode panics on an invalid id or dialect, which is a programming error.
func MustSourceCode(id domain.SectorID, dialect Dialect) string {
	code, err := SourceCode(id, dialect)
	if err != nil {
		panic(err)
	}
	return code
}

// Order is the canonical sector order, total first.
func Order() []domain.SectorID {
	out := make([]domain.SectorID, 0, len(table))
	for _, e := range table {
		out = append(out, e.descriptor.ID)
	}
	return out
}

// Components are the sectors that make up the total.
func Components() []domain.SectorID {
	return Order()[1:]
}

func Descriptors() []domain.SectorDescriptor {
	out := make([]domain.SectorDescriptor, 0, len(table))
	for _, e := range table {
		d := e.descriptor
		d.SourceCodes = sourceCodes(e)
		out = append(out, d)
	}
	return out
}

func Describe(id domain.SectorID) (domain.SectorDescriptor, bool) {
	for _, e := range table {
		if e.descriptor.ID == id {
			d := e.descriptor
			d.SourceCodes = sourceCodes(e)
			return d, true
		}
	}
	return domain.SectorDescriptor{}, false
}

func sourceCodes(e entry) []string {
	codes := make([]string, 0, len(e.codes))
	for _, d := range []Dialect{Eurostat, INE, LabelEN, LabelES} {
		codes = append(codes, e.codes[d])
	}
	return codes
}
