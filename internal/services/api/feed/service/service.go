// Package service serves the public feed from the persisted document
package service

import (
	"context"

	"congresswatch/internal/platform/logger"
	billsdomain "congresswatch/internal/services/bills/domain"
)

// Service pages through the persisted document newest first
type Service struct {
	reader billsdomain.ReaderPort
	log    logger.Logger
}

// New constructs the feed service. Panics on nil reader
func New(reader billsdomain.ReaderPort) *Service {
	if reader == nil {
		panic("feed service requires a reader")
	}
	return &Service{reader: reader, log: *logger.Named("feed")}
}

// Page returns one slice of the feed. Cursor and limit clamping happens in
// the reader
func (s *Service) Page(ctx context.Context, cursor, limit int) (billsdomain.FeedPage, error) {
	return s.reader.Slice(ctx, cursor, limit)
}
