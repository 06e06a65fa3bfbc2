package dto

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ougirez/rdatlas/internal/domain"
)

// RecordSet collects the records of a dataset published in several parts
// (one file per year, one HTML page per table) fetched concurrently.
// Parts are joined in index order so that row order does not depend on
// which fetch finished first.
type RecordSet struct {
	DatasetID string
	parts     map[int][]domain.RawRecord
	partsMx   sync.Mutex
}

func NewRecordSet(datasetID string) *RecordSet {
	return &RecordSet{
		DatasetID: datasetID,
		parts:     make(map[int][]domain.RawRecord),
	}
}

func (rs *RecordSet) PutPart(index int, records []domain.RawRecord) error {
	rs.partsMx.Lock()
	defer rs.partsMx.Unlock()

	if _, ok := rs.parts[index]; ok {
		return fmt.Errorf("part %d of dataset %s already loaded", index, rs.DatasetID)
	}

	rs.parts[index] = records
	return nil
}

func (rs *RecordSet) Len() int {
	rs.partsMx.Lock()
	defer rs.partsMx.Unlock()

	n := 0
	for _, part := range rs.parts {
		n += len(part)
	}
	return n
}

// Records returns every part concatenated in index order.
func (rs *RecordSet) Records() []domain.RawRecord {
	rs.partsMx.Lock()
	defer rs.partsMx.Unlock()

	indexes := make([]int, 0, len(rs.parts))
	total := 0
	for i, part := range rs.parts {
		indexes = append(indexes, i)
		total += len(part)
	}
	sort.Ints(indexes)

	out := make([]domain.RawRecord, 0, total)
	for _, i := range indexes {
		out = append(out, rs.parts[i]...)
	}
	return out
}
