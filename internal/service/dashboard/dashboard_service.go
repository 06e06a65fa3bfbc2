package dashboard

import (
	"context"
	"fmt"

	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/adapters"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
	"github.com/ougirez/rdatlas/internal/pkg/geo"
	"github.com/ougirez/rdatlas/internal/pkg/logger"
	"github.com/ougirez/rdatlas/internal/pkg/reference"
	"github.com/ougirez/rdatlas/internal/service/datasets"
)

type SnapshotSource interface {
	Snapshot() (*datasets.Snapshot, error)
	References() *reference.Tables
}

type Fetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

type Service struct {
	datasets SnapshotSource
	layers   map[string]*geo.FeatureCollection
}

func NewDashboardService(ds SnapshotSource, layers map[string]*geo.FeatureCollection) *Service {
	if layers == nil {
		layers = map[string]*geo.FeatureCollection{}
	}
	return &Service{datasets: ds, layers: layers}
}

// LoadGeoLayers fetches the configured GeoJSON layers. A layer that cannot be
// read is skipped with a warning; maps on it answer with no features.
func LoadGeoLayers(ctx context.Context, fetcher Fetcher, locations map[string]string) map[string]*geo.FeatureCollection {
	out := make(map[string]*geo.FeatureCollection, len(locations))
	for name, location := range locations {
		data, err := fetcher.Fetch(ctx, location)
		if err != nil {
			logger.Warnf(ctx, "geo layer %s: %s", name, err.Error())
			continue
		}
		fc, err := geo.Decode(data)
		if err != nil {
			logger.Warnf(ctx, "geo layer %s: %s", name, err.Error())
			continue
		}
		out[name] = fc
	}
	return out
}

func (s *Service) entry(id string) (*datasets.Entry, error) {
	snap, err := s.datasets.Snapshot()
	if err != nil {
		return nil, err
	}
	return snap.Entry(id)
}

// resolveEntity accepts an entity id or a label in the dataset's vocabulary.
// The nation (or the EU for country datasets) is queried at nation scope.
func (s *Service) resolveEntity(entry *datasets.Entry, raw string) (domain.CanonicalEntity, domain.Scope, error) {
	nation := entry.Options.Nation
	if raw == "" || raw == nation.ID {
		return nation, domain.ScopeNation, nil
	}

	e, ok := s.datasets.References().Entity(raw)
	if !ok && entry.Options.Entities != nil {
		e, ok = entry.Options.Entities.Resolve(raw)
	}
	if !ok {
		return domain.CanonicalEntity{}, "", fmt.Errorf("entity %q: %w", raw, constants.ErrUnknownEntity)
	}
	if e.ID == nation.ID {
		return e, domain.ScopeNation, nil
	}
	return e, domain.ScopeEntity, nil
}

// Intensity compares every community with the nation for one year and sector.
func (s *Service) Intensity(ctx context.Context, req Request) (*Chart, error) {
	entry, err := s.entry(req.Dataset)
	if err != nil {
		return nil, err
	}
	sector, err := req.sector()
	if err != nil {
		return nil, err
	}
	year := req.year(entry)
	refs := s.datasets.References()

	points := entry.Frame.Points(refs.Table(entry.Config.Schema.EntityKind), year, sector)
	nation := entry.Frame.Query(domain.AggregationQuery{Year: year, Sector: sector, Scope: domain.ScopeNation})
	points = append(points, nation)

	opts := req.options()
	opts.Highlight = []string{nation.Entity.ID}

	chart := adapters.Bars(points, opts)
	if chart.NoData {
		logger.Debugf(ctx, "intensity %s: no data for %d/%s", req.Dataset, year, sector)
	}
	return &Chart{Dataset: req.Dataset, Year: year, Sector: sector, Data: chart}, nil
}

// Sectors breaks one entity down by sector, slices ordered by the nation's ranking.
func (s *Service) Sectors(ctx context.Context, req Request) (*Chart, error) {
	entry, err := s.entry(req.Dataset)
	if err != nil {
		return nil, err
	}
	entity, scope, err := s.resolveEntity(entry, req.Entity)
	if err != nil {
		return nil, err
	}
	year := req.year(entry)

	nationPoints := entry.Frame.Breakdown(entry.Options.Nation, domain.ScopeNation, year)
	points := nationPoints
	if scope != domain.ScopeNation {
		points = entry.Frame.Breakdown(entity, scope, year)
	}

	opts := req.options()
	opts.Pinned = adapters.SectorOrder(nationPoints)

	return &Chart{Dataset: req.Dataset, Year: year, Entity: entity.ID, Data: adapters.Slices(points, opts)}, nil
}

// Europe ranks the countries of the dataset with the EU-27 aggregate pinned first.
func (s *Service) Europe(ctx context.Context, req Request) (*Chart, error) {
	entry, err := s.entry(req.Dataset)
	if err != nil {
		return nil, err
	}
	if entry.Config.Schema.EntityKind != domain.EntityCountry {
		return nil, fmt.Errorf("dataset %s is not a country dataset: %w", req.Dataset, constants.ErrInvalidQuery)
	}
	sector, err := req.sector()
	if err != nil {
		return nil, err
	}
	year := req.year(entry)
	refs := s.datasets.References()

	points := entry.Frame.Points(refs.Countries, year, sector)
	eu := entry.Frame.Query(domain.AggregationQuery{Year: year, Sector: sector, Entity: refs.EU, Scope: domain.ScopeNation})
	points = append(points, eu)

	opts := req.options()
	opts.Pinned = []string{refs.EU.ID}
	opts.Highlight = []string{refs.EU.ID, refs.Nation.ID}

	return &Chart{Dataset: req.Dataset, Year: year, Sector: sector, Data: adapters.Bars(points, opts)}, nil
}

// Map joins the dataset with a GeoJSON layer.
func (s *Service) Map(ctx context.Context, req Request) (*Chart, error) {
	entry, err := s.entry(req.Dataset)
	if err != nil {
		return nil, err
	}
	sector, err := req.sector()
	if err != nil {
		return nil, err
	}
	year := req.year(entry)

	layerName := req.Geo
	if layerName == "" {
		layerName = "communities"
		if entry.Config.Schema.EntityKind == domain.EntityCountry {
			layerName = "europe"
		}
	}
	layer, ok := s.layers[layerName]
	if !ok {
		return nil, fmt.Errorf("geo layer %q: %w", layerName, constants.ErrInvalidQuery)
	}

	matches := geo.Join(layer, entry.Options.Entities)
	entities := make([]domain.CanonicalEntity, 0, len(matches))
	unmatched := 0
	for _, m := range matches {
		if m.OK {
			entities = append(entities, m.Entity)
		} else {
			unmatched++
		}
	}
	if unmatched > 0 {
		logger.Debugf(ctx, "geo layer %s: %d features without entity", layerName, unmatched)
	}

	points := entry.Frame.Points(entities, year, sector)
	return &Chart{Dataset: req.Dataset, Year: year, Sector: sector, Data: adapters.Choropleth(points, matches, req.options())}, nil
}

// Patents shows each community, summing its provinces when the dataset has
// no community rows, with the national total highlighted.
func (s *Service) Patents(ctx context.Context, req Request) (*Chart, error) {
	entry, err := s.entry(req.Dataset)
	if err != nil {
		return nil, err
	}
	year := req.year(entry)
	refs := s.datasets.References()

	points := entry.Frame.Points(refs.Communities, year, domain.SectorTotal)
	nation := entry.Frame.Query(domain.AggregationQuery{Year: year, Sector: domain.SectorTotal, Scope: domain.ScopeNation})
	points = append(points, nation)

	opts := req.options()
	opts.Pinned = []string{nation.Entity.ID}
	opts.Highlight = []string{nation.Entity.ID}

	return &Chart{Dataset: req.Dataset, Year: year, Sector: domain.SectorTotal, Data: adapters.Bars(points, opts)}, nil
}

// Timeline draws one line per requested entity over every year of the dataset.
func (s *Service) Timeline(ctx context.Context, req Request) (*Chart, error) {
	entry, err := s.entry(req.Dataset)
	if err != nil {
		return nil, err
	}
	sector, err := req.sector()
	if err != nil {
		return nil, err
	}

	raw := req.entities()
	if len(raw) == 0 {
		raw = []string{""}
	}

	series := make([][]domain.ResolvedDataPoint, 0, len(raw))
	for _, r := range raw {
		entity, scope, err := s.resolveEntity(entry, r)
		if err != nil {
			return nil, err
		}
		series = append(series, entry.Frame.Series(entity, scope, sector))
	}

	return &Chart{Dataset: req.Dataset, Sector: sector, Entity: req.Entity, Data: adapters.Lines(series, req.options())}, nil
}
