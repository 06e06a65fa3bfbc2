package domain

import (
	"strings"
	"time"

	"github.com/ougirez/rdatlas/internal/pkg/textnorm"
)

type Year = int
type YearData = map[Year]float64

// RawRecord is one source row keyed by the header as published.
// Records are never modified once a dataset is loaded.
type RawRecord map[string]string

// Get returns the first non-empty field among keys. Each key is tried
// verbatim first, then case and accent insensitively against the header.
func (r RawRecord) Get(keys ...string) (string, bool) {
	for _, key := range keys {
		if v, ok := r[key]; ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v), true
		}
	}

	for _, key := range keys {
		nk := textnorm.Normalize(key)
		match := ""
		for header, v := range r {
			if strings.TrimSpace(v) == "" {
				continue
			}
			if !strings.EqualFold(header, key) && textnorm.Normalize(header) != nk {
				continue
			}
			// map order is random, the smallest header keeps the pick stable
			if match == "" || header < match {
				match = header
			}
		}
		if match != "" {
			return strings.TrimSpace(r[match]), true
		}
	}

	return "", false
}

// GetString is Get without the presence flag.
func (r RawRecord) GetString(keys ...string) string {
	v, _ := r.Get(keys...)
	return v
}

// StoredRecord is the database representation of a RawRecord.
type StoredRecord struct {
	ID        int64     `db:"id"`
	DatasetID string    `db:"dataset_id"`
	RowNum    int       `db:"row_num"`
	Fields    []byte    `db:"fields"`
	CreatedAt time.Time `db:"created_at"`
}
