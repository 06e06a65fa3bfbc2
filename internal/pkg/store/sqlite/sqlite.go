// Package sqlite is a single-file dataset record store on modernc.org/sqlite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
	"github.com/ougirez/rdatlas/internal/pkg/store"
	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

var _ store.Store = (*Store)(nil)

func New(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite: path is required")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return s, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func builder() sq.StatementBuilderType {
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

func (s *Store) ReplaceDataset(ctx context.Context, datasetID, source string, records []domain.RawRecord) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	now := time.Now().UTC().Format(time.RFC3339Nano)

	upsert := builder().Insert("datasets").
		Columns("id", "source", "row_count", "updated_at").
		Values(datasetID, source, len(records), now).
		Suffix(`ON CONFLICT(id) DO UPDATE SET
			source = excluded.source,
			row_count = excluded.row_count,
			updated_at = excluded.updated_at`).
		RunWith(tx)
	if _, err = upsert.ExecContext(ctx); err != nil {
		return fmt.Errorf("upsert dataset, dataset_id-%s: %w", datasetID, err)
	}

	del := builder().Delete("dataset_records").Where(sq.Eq{"dataset_id": datasetID}).RunWith(tx)
	if _, err = del.ExecContext(ctx); err != nil {
		return fmt.Errorf("delete records, dataset_id-%s: %w", datasetID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO dataset_records (dataset_id, row_num, fields, created_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, rec := range records {
		var fields []byte
		fields, err = store.EncodeFields(rec)
		if err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
		if _, err = stmt.ExecContext(ctx, datasetID, i, string(fields), now); err != nil {
			return fmt.Errorf("insert row %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return err
	}
	return nil
}

func (s *Store) ListRecords(ctx context.Context, datasetID string) ([]domain.RawRecord, error) {
	var id string
	err := builder().Select("id").
		From("datasets").
		Where(sq.Eq{"id": datasetID}).
		RunWith(s.db).
		QueryRowContext(ctx).
		Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, constants.ErrDBNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := builder().Select("row_num", "fields").
		From("dataset_records").
		Where(sq.Eq{"dataset_id": datasetID}).
		OrderBy("row_num").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.RawRecord
	for rows.Next() {
		var (
			rowNum int
			fields string
		)
		if err := rows.Scan(&rowNum, &fields); err != nil {
			return nil, err
		}
		rec, err := store.DecodeFields([]byte(fields))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) ListDatasets(ctx context.Context) ([]*domain.DatasetInfo, error) {
	rows, err := builder().Select("id", "source", "row_count", "updated_at").
		From("datasets").
		OrderBy("id").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.DatasetInfo
	for rows.Next() {
		var (
			info      domain.DatasetInfo
			updatedAt string
		)
		if err := rows.Scan(&info.ID, &info.Source, &info.Rows, &updatedAt); err != nil {
			return nil, err
		}
		info.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
		out = append(out, &info)
	}
	return out, rows.Err()
}

func (s *Store) migrate() error {
	statements := []string{
		`PRAGMA foreign_keys = ON;`,
		`CREATE TABLE IF NOT EXISTS datasets (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL DEFAULT '',
			row_count INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS dataset_records (
			dataset_id TEXT NOT NULL REFERENCES datasets (id) ON DELETE CASCADE,
			row_num INTEGER NOT NULL,
			fields TEXT NOT NULL,
			created_at TEXT NOT NULL,
			PRIMARY KEY (dataset_id, row_num)
		);`,
	}

	for _, statement := range statements {
		if _, err := s.db.Exec(statement); err != nil {
			return err
		}
	}

	return nil
}
