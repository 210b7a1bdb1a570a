package service

import (
	"context"
	"sync/atomic"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"congresswatch/internal/adapters/congress"
	"congresswatch/internal/core/bill"
	"congresswatch/internal/core/classify"
	perr "congresswatch/internal/platform/errors"
	"congresswatch/internal/services/jobs/domain"
	"congresswatch/internal/services/jobs/guardrails"
)

// CommitteeRefresh pulls bills referred to the House and Senate ethics
// committees since the window start, enriches changed rows with bill detail,
// and merges the result when confirmed
func (s *Service) CommitteeRefresh(ctx context.Context, p domain.CommitteeRefreshParams) (domain.RunReport, error) {
	p = p.Clamp()
	runID := uuid.NewString()
	log := s.log.With().Str("run_id", runID).Str("mode", "committee-refresh").Logger()

	ctx, cancel := guardrails.WithRun(ctx, s.cfg.Budget)
	defer cancel()

	from := p.FromDateTime
	if from == "" {
		from = s.now().AddDate(0, 0, -p.Days).UTC().Format("2006-01-02") + "T00:00:00Z"
	}

	recs := map[string]bill.Record{}
	scanned := 0
	skippedUnits := 0

	for _, unit := range ethicsCommittees {
		offset := 0
		for page := 1; page <= p.Pages; page++ {
			fctx, fcancel := guardrails.ForFetch(ctx, s.cfg.Budget)
			rows, err := s.up.CommitteeBills(fctx, unit.Chamber, unit.Code, congress.CommitteeParams{
				Limit:        p.Limit,
				Offset:       offset,
				FromDateTime: from,
			})
			fcancel()
			if err != nil {
				log.Warn().Err(err).Str("chamber", unit.Chamber).Str("code", unit.Code).Int("page", page).
					Msg("committee refresh: scan unit abandoned")
				skippedUnits++
				break
			}
			if len(rows) == 0 {
				break
			}

			for _, row := range rows {
				rec := committeeRecord(row)
				if rec.Congress == 0 || rec.Type == "" || rec.Number == "" {
					continue
				}
				scanned++
				key := rec.Key()
				if prev, ok := recs[key]; ok {
					rec = bill.Merge(prev, rec)
				} else if p.Verbose {
					log.Info().Str("key", key).Str("relationship", rec.RelationshipType).Msg("committee refresh: row")
				}
				recs[key] = rec
			}
			offset += p.Limit
			if len(rows) < p.Limit {
				break
			}
		}
	}

	snap, err := s.store.Load(ctx)
	if err != nil {
		return domain.RunReport{}, perr.Wrapf(err, perr.ErrorCodeDB, "committee refresh: load current document")
	}

	keys := make([]string, 0, len(recs))
	out := make([]bill.Record, 0, len(recs))
	for k, r := range recs {
		keys = append(keys, k)
		out = append(out, r)
	}

	var errCount atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.EnrichWorkers)
	for i := range out {
		if out[i].DetailURL == "" {
			continue
		}
		if !p.Wide {
			// Unchanged rows keep their cached detail
			if prev, ok := snap.Records[keys[i]]; ok && prev.UpdateDate != "" && prev.UpdateDate == out[i].UpdateDate {
				continue
			}
		}
		i := i
		g.Go(func() error {
			fctx, fcancel := guardrails.ForFetch(gctx, s.cfg.Budget)
			d, err := s.up.BillDetailURL(fctx, out[i].DetailURL)
			fcancel()
			if err != nil {
				errCount.Add(1)
				log.Warn().Err(err).Str("key", keys[i]).Msg("committee refresh: detail fetch failed")
				return nil
			}
			applyDetail(&out[i], d)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return domain.RunReport{}, perr.Wrapf(err, perr.ErrorCodeUpstream, "committee refresh: enrich")
	}

	// Confirmed runs escalate inconclusive rows: when neither the action
	// text nor a previously persisted record establishes the referral, the
	// measure's committee assignments decide. Probe failures keep the row
	dropped := 0
	if p.Confirm {
		keptRecs := out[:0]
		for i := range out {
			if classify.EthicsReferral(out[i]) {
				keptRecs = append(keptRecs, out[i])
				continue
			}
			if prev, ok := snap.Records[keys[i]]; ok && prev.CommitteeActionDate != "" {
				keptRecs = append(keptRecs, out[i])
				continue
			}
			fctx, fcancel := guardrails.ForFetch(ctx, s.cfg.Budget)
			cs, cerr := s.up.BillCommittees(fctx, out[i].Congress, out[i].Type, out[i].Number)
			fcancel()
			if cerr != nil {
				errCount.Add(1)
				log.Warn().Err(cerr).Str("key", keys[i]).Msg("committee refresh: assignment probe failed")
				keptRecs = append(keptRecs, out[i])
				continue
			}
			if referralConfirmed(cs) {
				keptRecs = append(keptRecs, out[i])
				continue
			}
			dropped++
			log.Debug().Str("key", keys[i]).Msg("committee refresh: referral not confirmed")
		}
		out = keptRecs
	}

	report := domain.RunReport{
		OK:           true,
		Mode:         "committee-refresh",
		RunID:        runID,
		Days:         p.Days,
		FromDateTime: from,
		Confirm:      p.Confirm,
		Wide:         p.Wide,
		Scanned:      scanned,
		Skipped:      dropped,
		Errors:       int(errCount.Load()),
		SkippedUnits: skippedUnits,
	}
	if !p.Confirm {
		log.Info().Int("scanned", scanned).Int("distinct", len(out)).Msg("committee refresh dry run")
		report.AddedOrUpdated = len(out)
		return report, nil
	}

	pctx, pcancel := guardrails.ForPersist(ctx, s.cfg.Budget)
	applied, err := s.store.UpsertMany(pctx, out)
	pcancel()
	if err != nil {
		return domain.RunReport{}, perr.Wrapf(err, perr.ErrorCodeDB, "committee refresh: persist")
	}

	log.Info().Int("scanned", scanned).Int("applied", applied).Msg("committee refresh complete")
	report.AddedOrUpdated = applied
	report.LastUpdated = s.now().UnixMilli()
	return report, nil
}
