// Package reference holds the canonical entity tables every dataset is
// joined against. Tables are built once at start-up and never modified.
package reference

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/logger"
	"github.com/ougirez/rdatlas/internal/pkg/resolver"
)

// Fetcher loads the bytes of a file or URL.
type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

type LoadOpts struct {
	CountryFlags   string
	CommunityFlags string
	Aliases        resolver.AliasTable
}

// Tables is the read-only set of reference entities.
type Tables struct {
	Nation      domain.CanonicalEntity
	EU          domain.CanonicalEntity
	Countries   []domain.CanonicalEntity
	Communities []domain.CanonicalEntity
	Provinces   []domain.CanonicalEntity

	aliases resolver.AliasTable
	byID    map[string]domain.CanonicalEntity

	countryResolver   *resolver.Resolver
	communityResolver *resolver.Resolver
	provinceResolver  *resolver.Resolver
}

type countryFlag struct {
	Country string `json:"country"`
	Code    string `json:"code"`
	ISO3    string `json:"iso3"`
	Flag    string `json:"flag"`
}

type communityFlag struct {
	Community string `json:"community"`
	Code      string `json:"code"`
	Flag      string `json:"flag"`
}

// Builtin returns the tables without flag assets.
func Builtin() *Tables {
	return newTables(
		cloneAll(countries),
		cloneAll(communities),
		cloneAll(provinces),
		DefaultAliases(),
	)
}

// DefaultAliases is resolver.DefaultAliases, exposed here so callers only
// need one import to build their own Tables.
func DefaultAliases() resolver.AliasTable {
	return resolver.DefaultAliases
}

// Load builds the tables and enriches them with flag assets. Flag files are
// optional: a missing or malformed file is logged and the entities keep an
// empty Flag.
func Load(ctx context.Context, fetcher Fetcher, opts LoadOpts) *Tables {
	aliases := opts.Aliases
	if aliases == nil {
		aliases = DefaultAliases()
	}

	cs := cloneAll(countries)
	cms := cloneAll(communities)

	if opts.CountryFlags != "" && fetcher != nil {
		if err := applyCountryFlags(ctx, fetcher, opts.CountryFlags, cs, aliases); err != nil {
			logger.Warnf(ctx, "country flags unavailable, continuing without them: %s", err.Error())
		}
	}
	if opts.CommunityFlags != "" && fetcher != nil {
		if err := applyCommunityFlags(ctx, fetcher, opts.CommunityFlags, cms, aliases); err != nil {
			logger.Warnf(ctx, "community flags unavailable, continuing without them: %s", err.Error())
		}
	}

	return newTables(cs, cms, cloneAll(provinces), aliases)
}

func newTables(cs, cms, ps []domain.CanonicalEntity, aliases resolver.AliasTable) *Tables {
	t := &Tables{
		Countries:   cs,
		Communities: cms,
		Provinces:   ps,
		EU:          eu27,
		aliases:     aliases,
		byID:        make(map[string]domain.CanonicalEntity, len(cs)+len(cms)+len(ps)+1),
	}

	for _, group := range [][]domain.CanonicalEntity{cs, cms, ps} {
		for _, e := range group {
			t.byID[e.ID] = e
		}
	}
	t.byID[eu27.ID] = eu27
	t.Nation = t.byID[spain.ID]

	// the nation goes last so that regional names win every cascade step
	t.countryResolver = resolver.New(append(cloneAll(cs), eu27), aliases)
	t.communityResolver = resolver.New(append(cloneAll(cms), t.Nation), aliases)
	t.provinceResolver = resolver.New(cloneAll(ps), aliases)

	return t
}

func (t *Tables) Entity(id string) (domain.CanonicalEntity, bool) {
	e, ok := t.byID[id]
	return e, ok
}

// Resolver returns the resolver for entities of kind. Country resolvers also
// know the EU aggregate and community resolvers the nation.
func (t *Tables) Resolver(kind domain.EntityKind) *resolver.Resolver {
	switch kind {
	case domain.EntityCountry:
		return t.countryResolver
	case domain.EntityProvince:
		return t.provinceResolver
	default:
		return t.communityResolver
	}
}

// Table returns the entities of kind in reference order.
func (t *Tables) Table(kind domain.EntityKind) []domain.CanonicalEntity {
	switch kind {
	case domain.EntityCountry:
		return t.Countries
	case domain.EntityProvince:
		return t.Provinces
	default:
		return t.Communities
	}
}

// Children lists the entities whose Parent is parentID, in reference order.
func (t *Tables) Children(parentID string) []domain.CanonicalEntity {
	var out []domain.CanonicalEntity
	for _, group := range [][]domain.CanonicalEntity{t.Communities, t.Provinces} {
		for _, e := range group {
			if e.Parent == parentID {
				out = append(out, e)
			}
		}
	}
	return out
}

// IsEUMember reports whether the country belongs to the EU-27.
func IsEUMember(e domain.CanonicalEntity) bool {
	_, ok := eu27Members[e.Code]
	return ok
}

func applyCountryFlags(ctx context.Context, fetcher Fetcher, location string, table []domain.CanonicalEntity, aliases resolver.AliasTable) error {
	body, err := fetcher.Fetch(ctx, location)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", location, err)
	}

	var flags []countryFlag
	if err := sonic.Unmarshal(body, &flags); err != nil {
		return fmt.Errorf("sonic.Unmarshal %s: %w", location, err)
	}

	r := resolver.New(table, aliases)
	for _, f := range flags {
		applyFlag(ctx, r, table, f.Flag, f.Code, f.ISO3, f.Country)
	}
	return nil
}

func applyCommunityFlags(ctx context.Context, fetcher Fetcher, location string, table []domain.CanonicalEntity, aliases resolver.AliasTable) error {
	body, err := fetcher.Fetch(ctx, location)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", location, err)
	}

	var flags []communityFlag
	if err := sonic.Unmarshal(body, &flags); err != nil {
		return fmt.Errorf("sonic.Unmarshal %s: %w", location, err)
	}

	r := resolver.New(table, aliases)
	for _, f := range flags {
		applyFlag(ctx, r, table, f.Flag, f.Code, f.Community)
	}
	return nil
}

// applyFlag resolves the first usable label and sets the flag of the match.
func applyFlag(ctx context.Context, r *resolver.Resolver, table []domain.CanonicalEntity, flag string, labels ...string) {
	if flag == "" {
		return
	}
	for _, l := range labels {
		if l == "" {
			continue
		}
		e, ok := r.Resolve(l)
		if !ok {
			continue
		}
		for i := range table {
			if table[i].ID == e.ID && table[i].Flag == "" {
				table[i].Flag = flag
			}
		}
		return
	}
	logger.Debugf(ctx, "flag entry %v matches no reference entity", labels)
}

func cloneAll(in []domain.CanonicalEntity) []domain.CanonicalEntity {
	out := make([]domain.CanonicalEntity, len(in))
	copy(out, in)
	return out
}
