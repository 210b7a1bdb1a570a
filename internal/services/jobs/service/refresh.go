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

// Refresh walks the recently-updated bill list newest first, keeps matching
// resolutions whose latest action falls inside the day window, and merges
// them into the document
func (s *Service) Refresh(ctx context.Context, p domain.RefreshParams) (domain.RunReport, error) {
	p = p.Clamp()
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("mode", "refresh").Logger()

	ctx, cancel := guardrails.WithRun(ctx, s.cfg.Budget)
	defer cancel()

	since := s.now().AddDate(0, 0, -p.Days)
	seen := map[string]bool{}
	var found []bill.Record

	offset := 0
	for page := 1; page <= p.Pages; page++ {
		fctx, fcancel := guardrails.ForFetch(ctx, s.cfg.Budget)
		items, err := s.up.ListBills(fctx, congress.ListParams{
			Limit:  p.Limit,
			Offset: offset,
			Sort:   "updateDate+desc",
		})
		fcancel()
		if err != nil {
			return domain.RunReport{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "refresh: list page %d", page)
		}
		if len(items) == 0 {
			break
		}

		pageAllOlder := true
		for _, it := range items {
			lad := actionDate(it)
			if lad.IsZero() || lad.Before(since) {
				continue
			}
			pageAllOlder = false

			rec := listRecord(it)
			if !classify.IsResolution(rec.Type) {
				continue
			}
			if !classify.Discipline(rec, p.Strict) {
				continue
			}
			if key := rec.Key(); !seen[key] {
				seen[key] = true
				found = append(found, rec)
				if p.Verbose {
					log.Info().Str("key", key).Str("title", rec.Title).Msg("refresh: kept")
				}
			}
		}

		offset += p.Limit
		// The list is update-sorted, not action-sorted, so a stale page in
		// the first two does not prove the window is exhausted
		if pageAllOlder && page > 2 {
			break
		}
	}

	pctx, pcancel := guardrails.ForPersist(ctx, s.cfg.Budget)
	applied, err := s.store.UpsertMany(pctx, found)
	pcancel()
	if err != nil {
		return domain.RunReport{}, perr.Wrapf(err, perr.ErrorCodeDB, "refresh: persist")
	}

	log.Info().Int("matched", len(found)).Int("applied", applied).Int("days", p.Days).Msg("refresh complete")
	return domain.RunReport{
		OK:             true,
		Mode:           "refresh",
		RunID:          runID,
		Days:           p.Days,
		Strict:         p.Strict,
		AddedOrUpdated: applied,
		LastUpdated:    s.now().UnixMilli(),
	}, nil
}
