// Package domain defines the types and interfaces for the bills store service
package domain

import (
	"time"

	"congresswatch/internal/core/bill"
)

// Snapshot is the full store state loaded at the start of a request.
// Readers work against a snapshot; they never observe a write in progress
type Snapshot struct {
	Records     map[string]bill.Record
	LastUpdated time.Time
}

// Sorted returns the records newest-first
func (s Snapshot) Sorted() []bill.Record {
	out := make([]bill.Record, 0, len(s.Records))
	for _, r := range s.Records {
		out = append(out, r)
	}
	bill.SortNewestFirst(out)
	return out
}

// FeedPage is one cursor window over the sorted record set
type FeedPage struct {
	OK bool `json:"ok"`

	Items []bill.Record `json:"items"`

	// NextCursor is cursor+limit while more records remain, null at the end
	NextCursor *int `json:"nextCursor"`

	Total int `json:"total"`

	// LastUpdated is epoch milliseconds of the last persisted write
	LastUpdated int64 `json:"lastUpdated"`

	// Stale advises the client that the snapshot is old; it never blocks reads
	Stale bool `json:"stale"`
}
