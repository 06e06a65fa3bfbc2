// Package sources turns published files and database tables into raw records.
package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/store"
)

type Format string

const (
	FormatCSV   Format = "csv"
	FormatHTML  Format = "html"
	FormatStore Format = "store"
)

// ParseFormat guesses the format from a location when s is empty.
func ParseFormat(s, location string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatHTML:
		return FormatHTML, nil
	case FormatStore:
		return FormatStore, nil
	case "":
	default:
		return "", fmt.Errorf("unknown dataset format %q", s)
	}

	lower := strings.ToLower(location)
	switch {
	case strings.HasSuffix(lower, ".html"), strings.HasSuffix(lower, ".htm"):
		return FormatHTML, nil
	default:
		return FormatCSV, nil
	}
}

// PartFetcher loads the bytes of a dataset part. *Fetcher implements it.
type PartFetcher interface {
	Fetch(ctx context.Context, location string) ([]byte, error)
}

// Reader reads one part of a dataset.
type Reader struct {
	fetcher PartFetcher
	store   store.Store
}

func NewReader(fetcher PartFetcher, st store.Store) *Reader {
	if st == nil {
		st = &store.NopStore{}
	}
	return &Reader{fetcher: fetcher, store: st}
}

type Part struct {
	Format   Format
	Location string
	// Selector picks the html table.
	Selector string
}

func (r *Reader) Read(ctx context.Context, p Part) ([]domain.RawRecord, error) {
	if p.Format == FormatStore {
		records, err := r.store.ListRecords(ctx, p.Location)
		if err != nil {
			return nil, fmt.Errorf("store.ListRecords, dataset_id-%s: %w", p.Location, err)
		}
		return records, nil
	}

	data, err := r.fetcher.Fetch(ctx, p.Location)
	if err != nil {
		return nil, err
	}

	switch p.Format {
	case FormatHTML:
		records, err := ParseHTMLTable(data, p.Selector)
		if err != nil {
			return nil, fmt.Errorf("ParseHTMLTable, location-%s: %w", p.Location, err)
		}
		return records, nil
	default:
		records, err := ParseCSV(data)
		if err != nil {
			return nil, fmt.Errorf("ParseCSV, location-%s: %w", p.Location, err)
		}
		return records, nil
	}
}
