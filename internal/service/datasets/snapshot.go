package datasets

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ougirez/rdatlas/internal/domain"
	"github.com/ougirez/rdatlas/internal/pkg/aggregator"
	"github.com/ougirez/rdatlas/internal/pkg/config"
	"github.com/ougirez/rdatlas/internal/pkg/constants"
)

type State string

const (
	StateReady  State = "ready"
	StateFailed State = "failed"
)

// Entry is one dataset inside a snapshot. Either Frame is set or Err is.
type Entry struct {
	Config  config.Dataset
	Dataset *domain.Dataset
	Frame   *aggregator.Frame
	Options aggregator.Options
	Err     error
}

// Snapshot is an immutable set of loaded datasets. Readers keep the pointer
// they got for the whole request.
type Snapshot struct {
	Generation uuid.UUID
	Seq        uint64
	LoadedAt   time.Time

	entries map[string]*Entry
	order   []string
}

type Status struct {
	ID       string           `json:"id"`
	Title    string           `json:"title"`
	State    State            `json:"state"`
	Error    string           `json:"error,omitempty"`
	Source   string           `json:"source,omitempty"`
	LoadedAt *time.Time       `json:"loaded_at,omitempty"`
	Years    []domain.Year    `json:"years,omitempty"`
	Stats    aggregator.Stats `json:"stats"`
}

// Entry returns a ready dataset. Unknown ids and failed loads are coded errors.
func (s *Snapshot) Entry(id string) (*Entry, error) {
	e, ok := s.entries[id]
	if !ok {
		return nil, fmt.Errorf("dataset %s: %w", id, constants.ErrUnknownDataset)
	}
	if e.Err != nil {
		return nil, fmt.Errorf("dataset %s: %s: %w", id, e.Err.Error(), constants.ErrDatasetNotLoaded)
	}
	return e, nil
}

func (s *Snapshot) IDs() []string {
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

func (s *Snapshot) Statuses() []Status {
	out := make([]Status, 0, len(s.order))
	for _, id := range s.order {
		e := s.entries[id]
		st := Status{ID: id, Title: e.Config.Title, State: StateReady}
		if e.Err != nil {
			st.State = StateFailed
			st.Error = e.Err.Error()
		} else {
			loadedAt := e.Dataset.LoadedAt
			st.Source = e.Dataset.Source
			st.LoadedAt = &loadedAt
			st.Years = e.Frame.Years()
			st.Stats = e.Frame.Stats()
		}
		out = append(out, st)
	}
	return out
}
