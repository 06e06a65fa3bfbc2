package adapters

import (
	"hash/fnv"

	"github.com/ougirez/rdatlas/internal/domain"
)

// NoDataColor is used for placeholders and features without a value.
const NoDataColor = "#d9d9d9"

var sectorColors = map[domain.SectorID]string{
	domain.SectorTotal:      "#1f4e79",
	domain.SectorBusiness:   "#2e86c1",
	domain.SectorGovernment: "#f39c12",
	domain.SectorEducation:  "#27ae60",
	domain.SectorNonprofit:  "#8e44ad",
}

var palette = []string{
	"#4e79a7", "#f28e2b", "#e15759", "#76b7b2", "#59a14f", "#edc948",
	"#b07aa1", "#ff9da7", "#9c755f", "#bab0ac", "#1b9e77", "#d95f02",
}

// SectorColor returns the fixed color of a sector.
func SectorColor(id domain.SectorID) string {
	if c, ok := sectorColors[id]; ok {
		return c
	}
	return EntityColor(string(id))
}

// EntityColor hashes an entity id into the palette. The same id always gets
// the same color.
func EntityColor(id string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return palette[h.Sum32()%uint32(len(palette))]
}
