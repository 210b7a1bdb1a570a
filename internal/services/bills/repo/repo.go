// Package repo persists the bill map as a single JSON document in the
// ranked document store
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"congresswatch/internal/core/bill"
	"congresswatch/internal/platform/docstore"
	perr "congresswatch/internal/platform/errors"
	"congresswatch/internal/services/bills/domain"
)

// wireDoc is the canonical persisted shape
type wireDoc struct {
	LastUpdated int64                  `json:"lastUpdated"`
	Map         map[string]bill.Record `json:"map"`
}

// Store is the document codec over the ranked backends
type Store struct {
	docs docstore.Store
}

// New constructs the codec. Panics on a nil document store
func New(docs docstore.Store) *Store {
	if docs == nil {
		panic("bills repo requires a document store")
	}
	return &Store{docs: docs}
}

// Load reads and normalizes the persisted document.
// A missing document is an empty snapshot, not an error
func (s *Store) Load(ctx context.Context) (domain.Snapshot, error) {
	data, err := s.docs.Load(ctx)
	if err != nil {
		if errors.Is(err, docstore.ErrNotExist) {
			return domain.Snapshot{Records: map[string]bill.Record{}}, nil
		}
		return domain.Snapshot{}, perr.Wrapf(err, perr.ErrorCodeUnavailable, "bills load failed")
	}

	records, lastUpdated := decodeDocument(data)
	snap := domain.Snapshot{Records: records}
	if lastUpdated > 0 {
		snap.LastUpdated = time.UnixMilli(lastUpdated)
	}
	return snap, nil
}

// Save persists the snapshot in the canonical shape
func (s *Store) Save(ctx context.Context, snap domain.Snapshot) error {
	doc := wireDoc{
		LastUpdated: snap.LastUpdated.UnixMilli(),
		Map:         snap.Records,
	}
	if doc.Map == nil {
		doc.Map = map[string]bill.Record{}
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnknown, "bills encode failed")
	}
	if err := s.docs.Save(ctx, data); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "bills save failed")
	}
	return nil
}
