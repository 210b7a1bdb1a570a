// Package service implements the scan jobs that keep the bill document fresh:
// incremental refresh, deep backfill, committee refresh, prune, and rehydrate
package service

import (
	"context"
	"time"

	"congresswatch/internal/adapters/congress"
	"congresswatch/internal/core/bill"
	"congresswatch/internal/core/classify"
	"congresswatch/internal/platform/logger"
	billsdomain "congresswatch/internal/services/bills/domain"
	"congresswatch/internal/services/jobs/guardrails"
)

// Upstream is the slice of the Congress.gov client the jobs consume
type Upstream interface {
	ListBills(ctx context.Context, p congress.ListParams) ([]congress.ListBill, error)
	CommitteeBills(ctx context.Context, chamber, code string, p congress.CommitteeParams) ([]congress.CommitteeBill, error)
	BillDetailURL(ctx context.Context, rawURL string) (congress.BillDetail, error)
	BillCommittees(ctx context.Context, congress int, typ, number string) ([]congress.BillCommittee, error)
}

// Config tunes the job service
type Config struct {
	// Budget bounds every run; see guardrails.Budget
	Budget guardrails.Budget

	// EnrichWorkers bounds the detail-fetch fan-out, default 4
	EnrichWorkers int
}

// Service runs the scan jobs. Implements domain.RunnerPort
type Service struct {
	store billsdomain.StorePort
	up    Upstream
	cfg   Config
	log   logger.Logger
	now   func() time.Time
}

// New constructs the service. Panics on nil collaborators
func New(store billsdomain.StorePort, up Upstream, cfg Config) *Service {
	if store == nil {
		panic("jobs service requires a store")
	}
	if up == nil {
		panic("jobs service requires an upstream client")
	}
	if cfg.EnrichWorkers <= 0 {
		cfg.EnrichWorkers = 4
	}
	return &Service{
		store: store,
		up:    up,
		cfg:   cfg,
		log:   *logger.Named("jobs"),
		now:   time.Now,
	}
}

// ethicsCommittees are the scan units for the committee refresh
var ethicsCommittees = []struct {
	Chamber string
	Code    string
}{
	{"house", "hsso00"},
	{"senate", "slet00"},
}

// listRecord maps an upstream list row onto the canonical record
func listRecord(b congress.ListBill) bill.Record {
	r := bill.Record{
		Congress:      b.Congress,
		Type:          b.Type,
		Number:        b.Number.String(),
		Title:         b.Title,
		OriginChamber: firstNonEmpty(b.OriginChamber, b.Chamber),
		UpdateDate:    b.UpdateDate,
		DetailURL:     b.URL,
	}
	if b.LatestAction != nil {
		r.LatestAction = &bill.Action{Text: b.LatestAction.Text, ActionDate: b.LatestAction.ActionDate}
	}
	r.Normalize()
	return r
}

// committeeRecord maps a committee bills row onto the canonical record
func committeeRecord(row congress.CommitteeBill) bill.Record {
	r := bill.Record{
		Congress:            row.Congress,
		Type:                row.Type,
		Number:              row.Number.String(),
		RelationshipType:    row.RelationshipType,
		CommitteeActionDate: row.ActionDate,
		UpdateDate:          row.UpdateDate,
		DetailURL:           row.URL,
	}
	r.Normalize()
	return r
}

// applyDetail folds a detail payload into rec, keeping prior values for
// anything the detail left empty
func applyDetail(rec *bill.Record, d congress.BillDetail) {
	if t := d.DisplayTitle(); t != "" {
		rec.Title = t
	}
	if d.LatestAction != nil {
		rec.LatestAction = &bill.Action{Text: d.LatestAction.Text, ActionDate: d.LatestAction.ActionDate}
	}
	if oc := firstNonEmpty(d.OriginChamber, d.Chamber); oc != "" {
		rec.OriginChamber = oc
	}
	if d.UpdateDate != "" {
		rec.UpdateDate = d.UpdateDate
	}
	if d.IntroducedDate != "" {
		rec.IntroducedDate = d.IntroducedDate
	}
	if ids := d.Sponsors.BioguideIDs(); len(ids) > 0 {
		rec.SponsorIDs = ids
	}
	if ids := d.Cosponsors.BioguideIDs(); len(ids) > 0 {
		rec.CosponsorIDs = ids
	}
}

// actionDate parses the recency timestamp used for windowing list rows
func actionDate(b congress.ListBill) time.Time {
	if b.LatestAction == nil {
		return time.Time{}
	}
	return bill.ParseDate(b.LatestAction.ActionDate)
}

// referralConfirmed reports whether any of the measure's committee
// assignments is an ethics committee
func referralConfirmed(cs []congress.BillCommittee) bool {
	for _, c := range cs {
		if classify.IsEthicsReferralText(c.Name) {
			return true
		}
	}
	return false
}

// keepThroughResync reports whether an existing record survives a discipline
// resync even though the scan did not see it: committee-sourced records and
// ethics referrals belong to the other feed and are never a resync casualty
func keepThroughResync(r bill.Record) bool {
	return r.CommitteeActionDate != "" || classify.EthicsReferral(r)
}

func firstNonEmpty(xs ...string) string {
	for _, x := range xs {
		if x != "" {
			return x
		}
	}
	return ""
}
