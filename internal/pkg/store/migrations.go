package store

import (
	"context"
	"fmt"
)

var migrations = []string{
	`create table if not exists datasets (
		id         text primary key,
		source     text not null default '',
		row_count  integer not null default 0,
		updated_at timestamptz not null default now()
	)`,
	`create table if not exists dataset_records (
		id         bigserial primary key,
		dataset_id text not null references datasets (id) on delete cascade,
		row_num    integer not null,
		fields     jsonb not null,
		created_at timestamptz not null default now(),
		unique (dataset_id, row_num)
	)`,
}

// Migrate creates the tables the store needs. It is safe to run repeatedly.
func Migrate(ctx context.Context, pool *Pool) error {
	for i, m := range migrations {
		if _, err := pool.Exec(ctx, m); err != nil {
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}
