package datasets

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/config"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
	"github.com/ougirez/rdatlas/internal/pkg/reference"
	"github.com/ougirez/rdatlas/internal/pkg/sources"
)

type fakeReader struct {
	parts map[string][]domain.RawRecord
	delay map[string]time.Duration

	// gate blocks the first Read call until closed.
	gate  chan struct{}
	calls int32
}

func (f *fakeReader) Read(ctx context.Context, p sources.Part) ([]domain.RawRecord, error) {
	if f.gate != nil && atomic.AddInt32(&f.calls, 1) == 1 {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if d := f.delay[p.Location]; d > 0 {
		time.Sleep(d)
	}
	records, ok := f.parts[p.Location]
	if !ok {
		return nil, errors.New("404 not found")
	}
	return records, nil
}

func datasetDef(id string, locations ...string) config.Dataset {
	return config.Dataset{ID: id, Locations: locations, Fallback: "ES", Schema: domain.DefaultSchema}
}

func TestLoadIsolatesFailures(t *testing.T) {
	reader := &fakeReader{parts: map[string][]domain.RawRecord{
		"ccaa.csv": {{"Comunidad": "Canarias", "Año": "2023", "SectorId": "(_T)", "% PIB I+D": "1,04"}},
	}}
	svc := NewDatasetsService(reader, reference.Builtin(), []config.Dataset{
		datasetDef("ccaa", "ccaa.csv"),
		datasetDef("broken", "missing.csv"),
	}, 2)

	if _, err := svc.Snapshot(); !errors.Is(err, constants.ErrDatasetNotLoaded) {
		t.Fatalf("snapshot before load: %v", err)
	}

	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	entry, err := snap.Entry("ccaa")
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	canarias, _ := svc.References().Entity("ES70")
	p := entry.Frame.Query(domain.AggregationQuery{Year: 2023, Sector: domain.SectorTotal, Entity: canarias, Scope: domain.ScopeEntity})
	if p.Value == nil || *p.Value != 1.04 {
		t.Errorf("value = %v", p.Value)
	}

	if _, err := snap.Entry("broken"); !errors.Is(err, constants.ErrDatasetNotLoaded) {
		t.Errorf("broken dataset err = %v", err)
	}
	if _, err := snap.Entry("nope"); !errors.Is(err, constants.ErrUnknownDataset) {
		t.Errorf("unknown dataset err = %v", err)
	}

	statuses := snap.Statuses()
	if len(statuses) != 2 || statuses[0].State != StateReady || statuses[1].State != StateFailed || statuses[1].Error == "" {
		t.Errorf("statuses = %+v", statuses)
	}
}

func TestPartsJoinedInConfigOrder(t *testing.T) {
	reader := &fakeReader{
		parts: map[string][]domain.RawRecord{
			"2022.csv": {{"Año": "2022"}},
			"2023.csv": {{"Año": "2023"}},
		},
		delay: map[string]time.Duration{"2022.csv": 20 * time.Millisecond},
	}
	svc := NewDatasetsService(reader, reference.Builtin(), []config.Dataset{datasetDef("years", "2022.csv", "2023.csv")}, 1)

	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	entry, err := snap.Entry("years")
	if err != nil {
		t.Fatalf("Entry: %v", err)
	}
	recs := entry.Dataset.Records
	if len(recs) != 2 || recs[0]["Año"] != "2022" || recs[1]["Año"] != "2023" {
		t.Fatalf("records = %v", recs)
	}
}

func TestLastFetchWins(t *testing.T) {
	reader := &fakeReader{
		parts: map[string][]domain.RawRecord{"ccaa.csv": {{"Comunidad": "Canarias", "Año": "2023"}}},
		gate:  make(chan struct{}),
	}
	svc := NewDatasetsService(reader, reference.Builtin(), []config.Dataset{datasetDef("ccaa", "ccaa.csv")}, 1)

	var (
		wg   sync.WaitGroup
		slow *Snapshot
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		slow, _ = svc.Load(context.Background())
	}()

	// wait until the slow load holds the gate
	for atomic.LoadInt32(&reader.calls) == 0 {
		time.Sleep(time.Millisecond)
	}

	fast, err := svc.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	close(reader.gate)
	wg.Wait()

	cur, err := svc.Snapshot()
	if err != nil {
		t.Fatal(err)
	}
	if cur.Generation != fast.Generation || cur.Seq != 2 {
		t.Fatalf("current seq %d, want the later load (2)", cur.Seq)
	}
	if slow == nil || slow.Generation != fast.Generation {
		t.Errorf("superseded load should report the current snapshot")
	}
}

func TestReloadInProgress(t *testing.T) {
	reader := &fakeReader{
		parts: map[string][]domain.RawRecord{"ccaa.csv": {{"Año": "2023"}}},
		gate:  make(chan struct{}),
	}
	svc := NewDatasetsService(reader, reference.Builtin(), []config.Dataset{datasetDef("ccaa", "ccaa.csv")}, 1)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Reload(context.Background())
		done <- err
	}()
	for atomic.LoadInt32(&reader.calls) == 0 {
		time.Sleep(time.Millisecond)
	}

	if _, err := svc.Reload(context.Background()); !errors.Is(err, constants.ErrReloadInProgress) {
		t.Fatalf("concurrent reload err = %v", err)
	}

	close(reader.gate)
	if err := <-done; err != nil {
		t.Fatalf("first reload: %v", err)
	}
	if _, err := svc.Reload(context.Background()); err != nil {
		t.Fatalf("reload after completion: %v", err)
	}
}

func TestLoadCancelled(t *testing.T) {
	reader := &fakeReader{
		parts: map[string][]domain.RawRecord{"ccaa.csv": {{"Año": "2023"}}},
		gate:  make(chan struct{}),
	}
	svc := NewDatasetsService(reader, reference.Builtin(), []config.Dataset{datasetDef("ccaa", "ccaa.csv")}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if _, err := svc.Snapshot(); !errors.Is(err, constants.ErrDatasetNotLoaded) {
		t.Errorf("cancelled load must not publish, got %v", err)
	}
}

func TestCountryDatasetAggregatesToEU(t *testing.T) {
	reader := &fakeReader{parts: map[string][]domain.RawRecord{
		"eu.csv": {
			{"geo": "Germany", "TIME_PERIOD": "2022", "OBS_VALUE": "3.13", "GDP": "3876810"},
			{"geo": "Spain", "TIME_PERIOD": "2022", "OBS_VALUE": "1.44", "GDP": "1346377"},
			{"geo": "Norway", "TIME_PERIOD": "2022", "OBS_VALUE": "1.57", "GDP": "555000"},
		},
	}}
	d := datasetDef("eu", "eu.csv")
	d.Fallback = ""
	d.Schema.EntityKind = domain.EntityCountry
	d.Schema.Decimal = "point"

	svc := NewDatasetsService(reader, reference.Builtin(), []config.Dataset{d}, 1)
	snap, err := svc.Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	entry, err := snap.Entry("eu")
	if err != nil {
		t.Fatal(err)
	}

	p := entry.Frame.Query(domain.AggregationQuery{Year: 2022, Sector: domain.SectorTotal, Scope: domain.ScopeNation})
	want := (3.13*3876810 + 1.44*1346377) / (3876810 + 1346377)
	if p.Value == nil || p.Source != domain.SourceWeighted || *p.Value-want > 1e-6 || want-*p.Value > 1e-6 {
		t.Fatalf("EU value = %v from %s, want %v without Norway", p.Value, p.Source, want)
	}
}
