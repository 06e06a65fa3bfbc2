package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/logger"
	"github.com/ougirez/rdatlas/internal/pkg/store/xpgx"
)

func (s *store) ReplaceDataset(ctx context.Context, datasetID, source string, records []domain.RawRecord) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("pool.BeginTx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	upsert := builder().Insert(tableDatasets).
		Columns("id", "source", "row_count", "updated_at").
		Values(datasetID, source, len(records), time.Now().UTC()).
		Suffix(`on conflict (id) do update set
	source = excluded.source,
	row_count = excluded.row_count,
	updated_at = excluded.updated_at`)
	if err = execTx(ctx, tx, upsert); err != nil {
		return fmt.Errorf("upsert dataset, dataset_id-%s: %w", datasetID, err)
	}

	del := builder().Delete(tableDatasetRecords).Where(sq.Eq{"dataset_id": datasetID})
	if err = execTx(ctx, tx, del); err != nil {
		return fmt.Errorf("delete records, dataset_id-%s: %w", datasetID, err)
	}

	for start := 0; start < len(records); start += insertChunk {
		end := start + insertChunk
		if end > len(records) {
			end = len(records)
		}

		query := builder().Insert(tableDatasetRecords).Columns("dataset_id", "row_num", "fields")
		for i := start; i < end; i++ {
			fields, encErr := EncodeFields(records[i])
			if encErr != nil {
				err = fmt.Errorf("row %d: %w", i, encErr)
				return err
			}
			query = query.Values(datasetID, i, fields)
		}

		if err = execTx(ctx, tx, query); err != nil {
			logger.Error(ctx, err.Error())
			return fmt.Errorf("insert records, dataset_id-%s: %w", datasetID, err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}
	return nil
}

func (s *store) ListRecords(ctx context.Context, datasetID string) ([]domain.RawRecord, error) {
	exists := builder().Select(datasetColumns...).
		From(tableDatasets).
		Where(sq.Eq{"id": datasetID})
	if _, err := xpgx.Getx[domain.DatasetInfo](ctx, s.pool, exists); err != nil {
		return nil, wrapErr(err)
	}

	query := builder().Select(recordColumns...).
		From(tableDatasetRecords).
		Where(sq.Eq{"dataset_id": datasetID}).
		OrderBy("row_num")

	selected, err := xpgx.Selectx[domain.StoredRecord](ctx, s.pool, query)
	if err != nil {
		logger.Error(ctx, err.Error())
		return nil, wrapErr(err)
	}

	out := make([]domain.RawRecord, 0, len(selected))
	for _, r := range selected {
		rec, err := DecodeFields(r.Fields)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", r.RowNum, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func (s *store) ListDatasets(ctx context.Context) ([]*domain.DatasetInfo, error) {
	query := builder().Select(datasetColumns...).
		From(tableDatasets).
		OrderBy("id")

	selected, err := xpgx.Selectx[domain.DatasetInfo](ctx, s.pool, query)
	if err != nil {
		return nil, wrapErr(err)
	}

	out := make([]*domain.DatasetInfo, 0, len(selected))
	for i := range selected {
		out = append(out, &selected[i])
	}
	return out, nil
}

func execTx(ctx context.Context, tx pgx.Tx, query sq.Sqlizer) error {
	sql, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("query.ToSql: %w", err)
	}
	_, err = tx.Exec(ctx, sql, args...)
	return err
}
