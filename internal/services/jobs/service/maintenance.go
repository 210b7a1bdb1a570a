package service

import (
	"context"

	"github.com/google/uuid"

	"congresswatch/internal/core/bill"
	"congresswatch/internal/core/classify"
	perr "congresswatch/internal/platform/errors"
	"congresswatch/internal/services/jobs/domain"
	"congresswatch/internal/services/jobs/guardrails"
)

// Prune re-filters the persisted document under the strict ruleset and drops
// records that no longer qualify. Committee-sourced records and ethics
// referrals always survive
func (s *Service) Prune(ctx context.Context, p domain.PruneParams) (domain.RunReport, error) {
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("mode", "prune").Logger()

	ctx, cancel := guardrails.WithRun(ctx, s.cfg.Budget)
	defer cancel()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return domain.RunReport{}, perr.Wrapf(err, perr.ErrorCodeDB, "prune: load current document")
	}

	var kept []bill.Record
	pruned := 0
	for _, r := range snap.Sorted() {
		if classify.Discipline(r, true) || keepThroughResync(r) {
			kept = append(kept, r)
			continue
		}
		pruned++
	}

	report := domain.RunReport{
		OK:      true,
		Mode:    "prune",
		RunID:   runID,
		Confirm: p.Confirm,
		Kept:    len(kept),
		Pruned:  pruned,
	}
	if !p.Confirm {
		log.Info().Int("kept", len(kept)).Int("would_prune", pruned).Msg("prune dry run")
		return report, nil
	}

	pctx, pcancel := guardrails.ForPersist(ctx, s.cfg.Budget)
	if _, err := s.store.ReplaceAll(pctx, kept); err != nil {
		pcancel()
		return domain.RunReport{}, perr.Wrapf(err, perr.ErrorCodeDB, "prune: persist")
	}
	pcancel()

	log.Info().Int("kept", len(kept)).Int("pruned", pruned).Msg("prune complete")
	report.LastUpdated = s.now().UnixMilli()
	return report, nil
}

// needsDetail reports whether a record is missing fields a detail fetch fills
func needsDetail(r bill.Record, wide bool) bool {
	if r.Title == "" {
		return true
	}
	if r.LatestAction == nil || r.LatestAction.Text == "" {
		return true
	}
	if wide && len(r.SponsorIDs) == 0 {
		return true
	}
	return false
}

// Rehydrate refetches bill detail for persisted records and fills gaps left
// by earlier list-only scans. Record-level fetch failures are counted, not
// fatal
func (s *Service) Rehydrate(ctx context.Context, p domain.RehydrateParams) (domain.RunReport, error) {
	p = p.Clamp()
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("mode", "rehydrate").Logger()

	ctx, cancel := guardrails.WithRun(ctx, s.cfg.Budget)
	defer cancel()

	snap, err := s.store.Load(ctx)
	if err != nil {
		return domain.RunReport{}, perr.Wrapf(err, perr.ErrorCodeDB, "rehydrate: load current document")
	}

	var touched []bill.Record
	scanned, skipped, errCount := 0, 0, 0
	for _, r := range snap.Sorted() {
		if scanned >= p.Max {
			break
		}
		scanned++

		if p.MissingOnly && !needsDetail(r, p.Wide) {
			skipped++
			continue
		}
		if r.DetailURL == "" {
			skipped++
			continue
		}

		fctx, fcancel := guardrails.ForFetch(ctx, s.cfg.Budget)
		d, ferr := s.up.BillDetailURL(fctx, r.DetailURL)
		fcancel()
		if ferr != nil {
			errCount++
			log.Warn().Err(ferr).Str("key", r.Key()).Msg("rehydrate: detail fetch failed")
			continue
		}
		applyDetail(&r, d)
		touched = append(touched, r)
	}

	report := domain.RunReport{
		OK:      true,
		Mode:    "rehydrate",
		RunID:   runID,
		Confirm: p.Confirm,
		Wide:    p.Wide,
		Scanned: scanned,
		Touched: len(touched),
		Skipped: skipped,
		Errors:  errCount,
	}
	if !p.Confirm || len(touched) == 0 {
		log.Info().Int("scanned", scanned).Int("touched", len(touched)).Bool("confirm", p.Confirm).
			Msg("rehydrate: nothing persisted")
		return report, nil
	}

	pctx, pcancel := guardrails.ForPersist(ctx, s.cfg.Budget)
	if _, err := s.store.UpsertMany(pctx, touched); err != nil {
		pcancel()
		return domain.RunReport{}, perr.Wrapf(err, perr.ErrorCodeDB, "rehydrate: persist")
	}
	pcancel()

	log.Info().Int("scanned", scanned).Int("touched", len(touched)).Int("errors", errCount).Msg("rehydrate complete")
	report.LastUpdated = s.now().UnixMilli()
	return report, nil
}
