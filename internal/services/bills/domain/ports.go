package domain

import (
	"context"

	"congresswatch/internal/core/bill"
)

// ReaderPort serves snapshot reads and feed pages
type ReaderPort interface {
	Load(ctx context.Context) (Snapshot, error)
	Slice(ctx context.Context, cursor, limit int) (FeedPage, error)
}

// WriterPort applies job output to the store
type WriterPort interface {
	// UpsertMany merges records by key against the existing state
	UpsertMany(ctx context.Context, recs []bill.Record) (int, error)

	// ReplaceAll discards prior state and persists the deduplicated input
	ReplaceAll(ctx context.Context, recs []bill.Record) (int, error)
}

// StorePort is the combined surface jobs depend on
type StorePort interface {
	ReaderPort
	WriterPort
}
