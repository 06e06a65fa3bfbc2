package store

import (
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/bytedance/sonic"
	"github.com/jackc/pgx/v5"
	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
)

const (
	tableDatasets       = "datasets"
	tableDatasetRecords = "dataset_records"

	// insertChunk bounds the number of rows per INSERT statement.
	insertChunk = 500
)

var (
	datasetColumns = []string{"id", "source", "row_count", "updated_at"}
	recordColumns  = []string{"id", "dataset_id", "row_num", "fields", "created_at"}
)

var mapping = map[error]error{pgx.ErrNoRows: constants.ErrDBNotFound}

func wrapErr(err error) error {
	for k, v := range mapping {
		if errors.Is(err, k) {
			return v
		}
	}
	return err
}

// builder returns a squirrel builder with postgres placeholders.
func builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// EncodeFields serializes a record for the fields column.
func EncodeFields(rec domain.RawRecord) ([]byte, error) {
	b, err := sonic.Marshal(map[string]string(rec))
	if err != nil {
		return nil, fmt.Errorf("sonic.Marshal: %w", err)
	}
	return b, nil
}

// DecodeFields is the inverse of EncodeFields.
func DecodeFields(b []byte) (domain.RawRecord, error) {
	rec := make(domain.RawRecord)
	if err := sonic.Unmarshal(b, &rec); err != nil {
		return nil, fmt.Errorf("sonic.Unmarshal: %w", err)
	}
	return rec, nil
}
