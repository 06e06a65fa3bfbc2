package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
)

func TestFieldsRoundTripKeepsUnicodeHeaders(t *testing.T) {
	rec := domain.RawRecord{"Año": "2023", "% PIB I+D": "1,04", "Comunidad": "Castilla-La Mancha"}

	b, err := EncodeFields(rec)
	if err != nil {
		t.Fatalf("EncodeFields: %v", err)
	}
	got, err := DecodeFields(b)
	if err != nil {
		t.Fatalf("DecodeFields: %v", err)
	}
	for k, v := range rec {
		if got[k] != v {
			t.Errorf("%s = %q, want %q", k, got[k], v)
		}
	}
}

func TestWrapErr(t *testing.T) {
	if err := wrapErr(fmt.Errorf("select: %w", pgx.ErrNoRows)); !errors.Is(err, constants.ErrDBNotFound) {
		t.Errorf("ErrNoRows mapped to %v", err)
	}
	other := errors.New("boom")
	if err := wrapErr(other); err != other {
		t.Errorf("unrelated error changed to %v", err)
	}
}

func TestRecordInsertBuilder(t *testing.T) {
	query := builder().Insert(tableDatasetRecords).
		Columns("dataset_id", "row_num", "fields").
		Values("ccaa", 0, []byte(`{}`)).
		Values("ccaa", 1, []byte(`{}`))

	sql, args, err := query.ToSql()
	if err != nil {
		t.Fatalf("ToSql: %v", err)
	}
	want := "INSERT INTO dataset_records (dataset_id,row_num,fields) VALUES ($1,$2,$3),($4,$5,$6)"
	if sql != want {
		t.Errorf("sql = %q, want %q", sql, want)
	}
	if len(args) != 6 {
		t.Errorf("args = %d", len(args))
	}
}

func TestNopStore(t *testing.T) {
	var s Store = &NopStore{}
	ctx := context.Background()
	if err := s.ReplaceDataset(ctx, "x", "", []domain.RawRecord{{"a": "b"}}); err != nil {
		t.Fatal(err)
	}
	recs, err := s.ListRecords(ctx, "x")
	if err != nil || recs != nil {
		t.Fatalf("ListRecords = %v, %v", recs, err)
	}
}
