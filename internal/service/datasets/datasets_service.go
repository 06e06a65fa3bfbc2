package datasets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/domain/dto"
	"github.com/ougirez/rdatlas/internal/pkg/aggregator"
	"github.com/ougirez/rdatlas/internal/pkg/config"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
	"github.com/ougirez/rdatlas/internal/pkg/logger"
	"github.com/ougirez/rdatlas/internal/pkg/reference"
	"github.com/ougirez/rdatlas/internal/pkg/sources"
	"golang.org/x/sync/errgroup"
)

// PartReader reads one published part of a dataset.
type PartReader interface {
	Read(ctx context.Context, p sources.Part) ([]domain.RawRecord, error)
}

type Service struct {
	reader      PartReader
	refs        *reference.Tables
	defs        []config.Dataset
	concurrency int

	current   atomic.Pointer[Snapshot]
	seq       atomic.Uint64
	reloading atomic.Bool
}

func NewDatasetsService(reader PartReader, refs *reference.Tables, defs []config.Dataset, concurrency int) *Service {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &Service{
		reader:      reader,
		refs:        refs,
		defs:        defs,
		concurrency: concurrency,
	}
}

func (s *Service) References() *reference.Tables {
	return s.refs
}

// Snapshot returns the latest published snapshot.
func (s *Service) Snapshot() (*Snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		return nil, constants.ErrDatasetNotLoaded
	}
	return snap, nil
}

// Load fetches every dataset and publishes the result. A dataset that fails
// to load is recorded in the snapshot and does not affect the others. When
// loads overlap, a snapshot is published only if no later load has been
// published already.
func (s *Service) Load(ctx context.Context) (*Snapshot, error) {
	seq := s.seq.Add(1)

	entries := make(map[string]*Entry, len(s.defs))
	entriesMx := sync.Mutex{}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(s.concurrency)
	for _, def := range s.defs {
		def := def
		eg.Go(func() error {
			entry := s.loadDataset(logger.WithDataset(egCtx, def.ID), def)

			entriesMx.Lock()
			defer entriesMx.Unlock()
			entries[def.ID] = entry
			return nil
		})
	}
	_ = eg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("load cancelled: %w", err)
	}

	snap := &Snapshot{
		Generation: uuid.New(),
		Seq:        seq,
		LoadedAt:   time.Now().UTC(),
		entries:    entries,
		order:      make([]string, 0, len(s.defs)),
	}
	for _, def := range s.defs {
		snap.order = append(snap.order, def.ID)
	}

	if !s.publish(snap) {
		logger.Infof(ctx, "snapshot %d superseded by a newer load, dropped", seq)
		return s.current.Load(), nil
	}

	failed := 0
	for _, e := range entries {
		if e.Err != nil {
			failed++
		}
	}
	logger.Info(ctx, "datasets loaded",
		"generation", snap.Generation.String(),
		"seq", seq,
		"datasets", len(entries),
		"failed", failed,
	)
	return snap, nil
}

// Reload is Load guarded against concurrent admin reloads.
func (s *Service) Reload(ctx context.Context) (*Snapshot, error) {
	if !s.reloading.CompareAndSwap(false, true) {
		return nil, constants.ErrReloadInProgress
	}
	defer s.reloading.Store(false)

	return s.Load(ctx)
}

func (s *Service) publish(snap *Snapshot) bool {
	for {
		cur := s.current.Load()
		if cur != nil && cur.Seq > snap.Seq {
			return false
		}
		if s.current.CompareAndSwap(cur, snap) {
			return true
		}
	}
}

func (s *Service) loadDataset(ctx context.Context, def config.Dataset) *Entry {
	entry := &Entry{Config: def, Options: aggregatorOptions(s.refs, def)}

	records, err := s.readParts(ctx, def)
	if err != nil {
		logger.Errorf(ctx, "load dataset %s: %s", def.ID, err.Error())
		entry.Err = err
		return entry
	}

	entry.Dataset = &domain.Dataset{
		ID:       def.ID,
		Schema:   def.Schema,
		Records:  records,
		Source:   strings.Join(def.Locations, ", "),
		LoadedAt: time.Now().UTC(),
	}
	entry.Frame = aggregator.NewFrame(ctx, records, def.Schema, entry.Options)
	return entry
}

// readParts fetches every location of def concurrently and joins the parts
// in configuration order.
func (s *Service) readParts(ctx context.Context, def config.Dataset) ([]domain.RawRecord, error) {
	set := dto.NewRecordSet(def.ID)

	eg, egCtx := errgroup.WithContext(ctx)
	for i, location := range def.Locations {
		i, location := i, location
		eg.Go(func() error {
			format, err := sources.ParseFormat(def.Format, location)
			if err != nil {
				return err
			}

			records, err := s.reader.Read(egCtx, sources.Part{Format: format, Location: location, Selector: def.Selector})
			if err != nil {
				return fmt.Errorf("part %d: %w", i, err)
			}
			return set.PutPart(i, records)
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if set.Len() == 0 {
		return nil, errors.New("dataset has no rows")
	}
	return set.Records(), nil
}
