// Package docstore provides best-effort durable persistence for a single JSON
// document across deployment environments.
//
// Backends are ranked: a networked blob backend first, a local file next, an
// in-process memory backend last. Loads and saves walk the ranking and the
// first backend that succeeds wins; every failure is logged and falls through
// to the next backend. Only a failure of every backend surfaces as an error.
package docstore

import (
	"context"
	"errors"

	"congresswatch/internal/platform/logger"
)

// ErrNotExist is returned by a backend when the document has never been written
var ErrNotExist = errors.New("docstore: document does not exist")

// Backend is a single persistence target for the document
type Backend interface {
	// Name identifies the backend in logs ("s3", "file", "memory")
	Name() string
	// Load returns the raw document, or ErrNotExist when absent
	Load(ctx context.Context) ([]byte, error)
	// Save durably writes the raw document
	Save(ctx context.Context, data []byte) error
}

// Store is the read/write surface consumers depend on
type Store interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
	Ping(ctx context.Context) error
}

// Ranked tries a list of backends in order and keeps the first success
type Ranked struct {
	backends []Backend
	log      logger.Logger
}

// NewRanked builds a Ranked store over backends in priority order
func NewRanked(log logger.Logger, backends ...Backend) *Ranked {
	if len(backends) == 0 {
		panic("docstore: NewRanked requires at least one backend")
	}
	return &Ranked{backends: backends, log: log}
}

// Load returns the document from the first backend that has it.
// A backend error (including ErrNotExist) falls through to the next backend;
// ErrNotExist is returned only when no backend holds the document
func (r *Ranked) Load(ctx context.Context) ([]byte, error) {
	var lastErr error = ErrNotExist
	for _, b := range r.backends {
		data, err := b.Load(ctx)
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, ErrNotExist) {
			r.log.Warn().Err(err).Str("backend", b.Name()).Msg("docstore load failed, falling back")
		}
		lastErr = err
	}
	if errors.Is(lastErr, ErrNotExist) {
		return nil, ErrNotExist
	}
	return nil, lastErr
}

// Save writes through the first backend that accepts the write
func (r *Ranked) Save(ctx context.Context, data []byte) error {
	var lastErr error
	for _, b := range r.backends {
		if err := b.Save(ctx, data); err != nil {
			r.log.Warn().Err(err).Str("backend", b.Name()).Msg("docstore save failed, falling back")
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}

// Ping reports whether any backend is reachable; an absent document is healthy
func (r *Ranked) Ping(ctx context.Context) error {
	_, err := r.Load(ctx)
	if err == nil || errors.Is(err, ErrNotExist) {
		return nil
	}
	return err
}

// Backends exposes the ranking for diagnostics
func (r *Ranked) Backends() []string {
	out := make([]string, 0, len(r.backends))
	for _, b := range r.backends {
		out = append(out, b.Name())
	}
	return out
}
