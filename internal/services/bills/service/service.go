// Package service implements merge, replace, and feed-slice logic over the
// persisted bill document
package service

import (
	"context"
	"time"

	"congresswatch/internal/core/bill"
	"congresswatch/internal/platform/logger"
	"congresswatch/internal/services/bills/domain"
	"congresswatch/internal/services/bills/repo"
)

const (
	defaultLimit = 12
	maxLimit     = 100
)

// Config tunes the service
type Config struct {
	// StaleAfter is the snapshot age past which feed pages flag themselves stale
	StaleAfter time.Duration
}

// Service owns store reads and writes. Implements domain.StorePort
type Service struct {
	repo *repo.Store
	cfg  Config
	log  logger.Logger
	now  func() time.Time
}

// New constructs the service. Panics on nil repo
func New(r *repo.Store, cfg Config) *Service {
	if r == nil {
		panic("bills service requires a repo")
	}
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = 24 * time.Hour
	}
	return &Service{
		repo: r,
		cfg:  cfg,
		log:  *logger.Named("bills"),
		now:  time.Now,
	}
}

// Load returns the current snapshot
func (s *Service) Load(ctx context.Context) (domain.Snapshot, error) {
	return s.repo.Load(ctx)
}

// UpsertMany merges incoming records into the existing state by key.
// Field conflicts resolve toward the fresher side; lastCached always advances
func (s *Service) UpsertMany(ctx context.Context, recs []bill.Record) (int, error) {
	if len(recs) == 0 {
		return 0, nil
	}
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return 0, err
	}
	if snap.Records == nil {
		snap.Records = make(map[string]bill.Record, len(recs))
	}

	now := s.now()
	applied := 0
	for _, in := range recs {
		in.Normalize()
		key := in.Key()
		if prev, ok := snap.Records[key]; ok {
			in = bill.Merge(prev, in)
		}
		in.LastCached = now.UnixMilli()
		snap.Records[key] = in
		applied++
	}

	snap.LastUpdated = now
	if err := s.repo.Save(ctx, snap); err != nil {
		return 0, err
	}
	s.log.Info().Int("applied", applied).Int("total", len(snap.Records)).Msg("bills upsert")
	return applied, nil
}

// ReplaceAll discards prior state. Duplicate keys in the input collapse to
// the first occurrence, which is the freshest under newest-first scan order
func (s *Service) ReplaceAll(ctx context.Context, recs []bill.Record) (int, error) {
	now := s.now()
	out := make(map[string]bill.Record, len(recs))
	for _, in := range recs {
		in.Normalize()
		key := in.Key()
		if _, dup := out[key]; dup {
			continue
		}
		in.LastCached = now.UnixMilli()
		out[key] = in
	}

	snap := domain.Snapshot{Records: out, LastUpdated: now}
	if err := s.repo.Save(ctx, snap); err != nil {
		return 0, err
	}
	s.log.Info().Int("total", len(out)).Msg("bills replace all")
	return len(out), nil
}

// Slice returns one feed page from the newest-first order.
// cursor clamps to >= 0; limit clamps to 1..100 with a default of 12
func (s *Service) Slice(ctx context.Context, cursor, limit int) (domain.FeedPage, error) {
	snap, err := s.repo.Load(ctx)
	if err != nil {
		return domain.FeedPage{}, err
	}

	if cursor < 0 {
		cursor = 0
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	sorted := snap.Sorted()
	total := len(sorted)

	start := cursor
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}

	page := domain.FeedPage{
		OK:    true,
		Items: sorted[start:end],
		Total: total,
		Stale: s.isStale(snap.LastUpdated),
	}
	if !snap.LastUpdated.IsZero() {
		page.LastUpdated = snap.LastUpdated.UnixMilli()
	}
	if cursor+limit < total {
		next := cursor + limit
		page.NextCursor = &next
	}
	return page, nil
}

func (s *Service) isStale(lastUpdated time.Time) bool {
	if lastUpdated.IsZero() {
		return true
	}
	return s.now().Sub(lastUpdated) > s.cfg.StaleAfter
}
