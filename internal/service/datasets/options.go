package datasets

import (
	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/aggregator"
	"github.com/ougirez/rdatlas/internal/pkg/config"
	"github.com/ougirez/rdatlas/internal/pkg/fallback"
	"github.com/ougirez/rdatlas/internal/pkg/reference"
)

// aggregatorOptions wires the reference tables matching the dataset's entity
// kind. Country datasets aggregate to the EU-27, everything else to Spain.
func aggregatorOptions(refs *reference.Tables, def config.Dataset) aggregator.Options {
	opts := aggregator.Options{
		Lookup: refs.Entity,
	}

	switch def.Schema.EntityKind {
	case domain.EntityCountry:
		opts.Entities = refs.Resolver(domain.EntityCountry)
		opts.Nation = refs.EU
		opts.IsMember = func(child, nation domain.CanonicalEntity) bool {
			return nation.ID == refs.EU.ID && reference.IsEUMember(child)
		}
	case domain.EntityProvince:
		opts.Entities = refs.Resolver(domain.EntityProvince)
		opts.Nation = refs.Nation
		opts.IsMember = func(child, nation domain.CanonicalEntity) bool {
			parent, ok := refs.Entity(child.Parent)
			return ok && parent.Parent == nation.ID
		}
	default:
		opts.Entities = refs.Resolver(domain.EntityCommunity)
		opts.SubEntities = refs.Resolver(domain.EntityProvince)
		opts.Nation = refs.Nation
	}

	if def.Fallback != "" {
		opts.Fallback = fallback.For(def.Fallback)
	}
	return opts
}
