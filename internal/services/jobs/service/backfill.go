package service

import (
	"context"

	"github.com/google/uuid"

	"congresswatch/internal/adapters/congress"
	"congresswatch/internal/core/bill"
	"congresswatch/internal/core/classify"
	perr "congresswatch/internal/platform/errors"
	"congresswatch/internal/services/jobs/domain"
	"congresswatch/internal/services/jobs/guardrails"
)

// backfillTypes are the resolution lists a deep scan walks per congress
var backfillTypes = []string{"hres", "sres"}

// Backfill rescans every congress inside the year window, one congress and
// resolution type at a time, and resyncs the document with what it finds.
// An upstream failure abandons the current scan unit and moves on
func (s *Service) Backfill(ctx context.Context, p domain.BackfillParams) (domain.RunReport, error) {
	p = p.Clamp()
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("mode", "backfill").Logger()

	ctx, cancel := guardrails.WithRun(ctx, s.cfg.Budget)
	defer cancel()

	now := s.now()
	since := now.AddDate(-p.Years, 0, 0)
	fromCongress, _ := bill.CongressForYear(since.Year())
	toCongress, _ := bill.CongressForYear(now.Year())
	if fromCongress < 1 {
		fromCongress = 1
	}

	seen := map[string]bool{}
	var found []bill.Record
	skippedUnits := 0

	for c := toCongress; c >= fromCongress; c-- {
		for _, typ := range backfillTypes {
			offset := 0
			for page := 1; page <= p.Pages; page++ {
				fctx, fcancel := guardrails.ForFetch(ctx, s.cfg.Budget)
				items, err := s.up.ListBills(fctx, congress.ListParams{
					Congress: c,
					Type:     typ,
					Limit:    p.Limit,
					Offset:   offset,
					Sort:     "updateDate+desc",
				})
				fcancel()
				if err != nil {
					log.Warn().Err(err).Int("congress", c).Str("type", typ).Int("page", page).
						Msg("backfill: scan unit abandoned")
					skippedUnits++
					break
				}
				if len(items) == 0 {
					break
				}

				inWindow := 0
				for _, it := range items {
					ud := bill.ParseDate(it.UpdateDate)
					if ud.IsZero() || ud.Before(since) {
						continue
					}
					inWindow++

					rec := listRecord(it)
					if !classify.Discipline(rec, p.Strict) {
						continue
					}
					if key := rec.Key(); !seen[key] {
						seen[key] = true
						found = append(found, rec)
						if p.Verbose {
							log.Info().Str("key", key).Str("title", rec.Title).Msg("backfill: kept")
						}
					}
				}

				offset += p.Limit
				// Update-sorted within the unit, so a windowless page means
				// the rest of this unit is older still
				if inWindow == 0 {
					break
				}
			}
		}
	}

	// A resync replaces the document, but records owned by the committee feed
	// are outside this scan's reach and must ride through
	snap, err := s.store.Load(ctx)
	if err != nil {
		return domain.RunReport{}, perr.Wrapf(err, perr.ErrorCodeDB, "backfill: load current document")
	}
	combined := found
	for _, r := range snap.Sorted() {
		if seen[r.Key()] {
			continue
		}
		if keepThroughResync(r) {
			combined = append(combined, r)
		}
	}

	pctx, pcancel := guardrails.ForPersist(ctx, s.cfg.Budget)
	total, err := s.store.ReplaceAll(pctx, combined)
	pcancel()
	if err != nil {
		return domain.RunReport{}, perr.Wrapf(err, perr.ErrorCodeDB, "backfill: persist")
	}

	log.Info().
		Int("matched", len(found)).
		Int("total", total).
		Int("from_congress", fromCongress).
		Int("to_congress", toCongress).
		Int("skipped_units", skippedUnits).
		Msg("backfill complete")

	return domain.RunReport{
		OK:             true,
		Mode:           "backfill",
		RunID:          runID,
		Years:          p.Years,
		FromCongress:   fromCongress,
		ToCongress:     toCongress,
		Strict:         p.Strict,
		AddedOrUpdated: len(found),
		SkippedUnits:   skippedUnits,
		LastUpdated:    s.now().UnixMilli(),
	}, nil
}
