// Package geo reads GeoJSON feature collections and joins their features
// against reference entities.
package geo

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/resolver"
)

// Property keys carrying a code, tried before names.
var CodeKeys = []string{
	"NUTS_ID", "nuts_id", "CNTR_ID", "cntr_id", "iso_a2", "ISO_A2", "iso_a3", "ISO_A3", "ISO3",
	"ADM0_A3", "iso_3166_2", "cod_ccaa", "codigo", "cod_prov", "id",
}

// Property keys carrying a display name.
var NameKeys = []string{
	"name", "NAME", "NAME_EN", "name_en", "NAME_ES", "name_es", "ADMIN", "admin", "NAME_LATN",
	"NUTS_NAME", "texto", "nombre", "Texto",
}

type FeatureCollection struct {
	Type     string    `json:"type"`
	Features []Feature `json:"features"`
}

type Feature struct {
	Type       string                 `json:"type"`
	ID         interface{}            `json:"id,omitempty"`
	Properties map[string]interface{} `json:"properties"`
	Geometry   json.RawMessage        `json:"geometry"`
}

func Decode(data []byte) (*FeatureCollection, error) {
	var fc FeatureCollection
	if err := sonic.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("sonic.Unmarshal: %w", err)
	}
	if fc.Type != "" && fc.Type != "FeatureCollection" {
		return nil, fmt.Errorf("unexpected geojson type %q", fc.Type)
	}
	return &fc, nil
}

// Property returns the first present, non-empty property among keys. Keys
// are tried verbatim, then case-insensitively.
func (f Feature) Property(keys ...string) (string, bool) {
	for _, k := range keys {
		if v, ok := stringify(f.Properties[k]); ok {
			return v, true
		}
	}

	props := make([]string, 0, len(f.Properties))
	for k := range f.Properties {
		props = append(props, k)
	}
	sort.Strings(props)

	for _, k := range keys {
		for _, p := range props {
			if strings.EqualFold(p, k) {
				if v, ok := stringify(f.Properties[p]); ok {
					return v, true
				}
			}
		}
	}
	return "", false
}

// Labels lists the code then name values of f in key order, the feature id
// included as a code.
func (f Feature) Labels() []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(v string, ok bool) {
		if !ok {
			return
		}
		if _, dup := seen[v]; dup {
			return
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}

	for _, k := range CodeKeys {
		add(f.Property(k))
	}
	add(stringify(f.ID))
	for _, k := range NameKeys {
		add(f.Property(k))
	}
	return out
}

// Resolve matches f against r, codes first. Matching stops at the first label
// that resolves.
func Resolve(f Feature, r *resolver.Resolver) (domain.CanonicalEntity, bool) {
	for _, l := range f.Labels() {
		if e, ok := r.Resolve(l); ok {
			return e, true
		}
	}
	return domain.CanonicalEntity{}, false
}

// Match is a feature with the entity it was joined to. OK is false for
// features no entity matched; they are drawn without data.
type Match struct {
	Index  int                    `json:"index"`
	Label  string                 `json:"label"`
	Entity domain.CanonicalEntity `json:"entity"`
	OK     bool                   `json:"ok"`
}

func Join(fc *FeatureCollection, r *resolver.Resolver) []Match {
	out := make([]Match, 0, len(fc.Features))
	for i, f := range fc.Features {
		label, _ := f.Property(NameKeys...)
		e, ok := Resolve(f, r)
		out = append(out, Match{Index: i, Label: label, Entity: e, OK: ok})
	}
	return out
}

func stringify(v interface{}) (string, bool) {
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		return s, s != ""
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10), true
		}
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case json.Number:
		return t.String(), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int:
		return strconv.Itoa(t), true
	default:
		return "", false
	}
}
