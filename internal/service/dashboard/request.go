package dashboard

import (
	"fmt"
	"strings"

	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/adapters"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
	"github.com/ougirez/rdatlas/internal/pkg/sectors"
	"github.com/ougirez/rdatlas/internal/service/datasets"
)

// Request holds the query parameters shared by every chart endpoint.
type Request struct {
	Dataset string `query:"dataset" validate:"required"`
	Year    int    `query:"year" validate:"omitempty,gte=1900,lte=2100"`
	Sector  string `query:"sector"`
	// Entity is an entity id or label; several may be comma separated for timelines.
	Entity string `query:"entity"`
	Unit   string `query:"unit" validate:"omitempty,oneof=percent millions"`
	Lang   string `query:"lang" validate:"omitempty,oneof=es en"`
	Geo    string `query:"geo"`
}

// Chart is the envelope every chart endpoint answers with.
type Chart struct {
	Dataset string          `json:"dataset"`
	Year    domain.Year     `json:"year,omitempty"`
	Sector  domain.SectorID `json:"sector,omitempty"`
	Entity  string          `json:"entity,omitempty"`
	Data    interface{}     `json:"data"`
}

func (r Request) sector() (domain.SectorID, error) {
	if r.Sector == "" {
		return domain.SectorTotal, nil
	}
	id, ok := sectors.Lookup(r.Sector)
	if !ok {
		return "", fmt.Errorf("sector %q: %w", r.Sector, constants.ErrInvalidQuery)
	}
	return id, nil
}

func (r Request) year(entry *datasets.Entry) domain.Year {
	if r.Year != 0 {
		return r.Year
	}
	return entry.Frame.LatestYear()
}

func (r Request) options() adapters.Options {
	return adapters.Options{Lang: r.Lang, Unit: adapters.ParseUnit(r.Unit)}
}

func (r Request) entities() []string {
	var out []string
	for _, part := range strings.Split(r.Entity, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
