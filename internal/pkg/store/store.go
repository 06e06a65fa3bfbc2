package store

import (
	"context"

	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/store/xpgx"
)

type Pool = xpgx.Pool

// Store persists dataset records so datasets can be served from a database
// instead of a published file.
type Store interface {
	// ReplaceDataset swaps every record of the dataset for records in one transaction.
	ReplaceDataset(ctx context.Context, datasetID, source string, records []domain.RawRecord) error
	ListRecords(ctx context.Context, datasetID string) ([]domain.RawRecord, error)
	ListDatasets(ctx context.Context) ([]*domain.DatasetInfo, error)
	Close() error
}

type store struct {
	pool *Pool
}

func NewStore(pool *Pool) Store {
	return &store{pool}
}

func (s *store) Close() error {
	s.pool.Close()
	return nil
}

type NopStore struct{}

func (s *NopStore) ReplaceDataset(ctx context.Context, datasetID, source string, records []domain.RawRecord) error {
	return nil
}

func (s *NopStore) ListRecords(ctx context.Context, datasetID string) ([]domain.RawRecord, error) {
	return nil, nil
}

func (s *NopStore) ListDatasets(ctx context.Context) ([]*domain.DatasetInfo, error) {
	return nil, nil
}

func (s *NopStore) Close() error {
	return nil
}
