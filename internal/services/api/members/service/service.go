// Package service cross-references the persisted document against one member
package service

import (
	"context"
	"regexp"
	"strings"

	"congresswatch/internal/adapters/congress"
	"congresswatch/internal/core/bill"
	"congresswatch/internal/core/classify"
	perr "congresswatch/internal/platform/errors"
	"congresswatch/internal/platform/logger"
	"congresswatch/internal/services/api/members/domain"
	billsdomain "congresswatch/internal/services/bills/domain"
)

const (
	defaultLimit = 100
	maxLimit     = 500
)

// Lookup is the slice of the Congress.gov client the cross-reference needs
type Lookup interface {
	MemberByID(ctx context.Context, bioguideID string) (congress.Member, error)
}

// Service buckets records into authored, cosponsored, and targeted
type Service struct {
	reader billsdomain.ReaderPort
	lookup Lookup
	log    logger.Logger
}

// New constructs the member service. Panics on nil collaborators
func New(reader billsdomain.ReaderPort, lookup Lookup) *Service {
	if reader == nil {
		panic("members service requires a reader")
	}
	if lookup == nil {
		panic("members service requires a member lookup")
	}
	return &Service{reader: reader, lookup: lookup, log: *logger.Named("members")}
}

// Activity returns the member's records newest first, each bucket truncated
// to limit. A failed member lookup disables name targeting but still reports
// sponsorship buckets
func (s *Service) Activity(ctx context.Context, bioguideID string, limit int, loose bool) (domain.MemberActivity, error) {
	bioguideID = strings.ToUpper(strings.TrimSpace(bioguideID))
	if bioguideID == "" {
		return domain.MemberActivity{}, perr.New(perr.ErrorCodeInvalidArgument, "bioguide id is required")
	}
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	snap, err := s.reader.Load(ctx)
	if err != nil {
		return domain.MemberActivity{}, perr.Wrapf(err, perr.ErrorCodeDB, "members: load document")
	}

	var pat *regexp.Regexp
	var name string
	if m, lerr := s.lookup.MemberByID(ctx, bioguideID); lerr != nil {
		s.log.Warn().Err(lerr).Str("bioguide_id", bioguideID).Msg("member lookup failed, name targeting disabled")
	} else {
		first, last := m.Name()
		pat = classify.TargetPattern(first, last, loose)
		name = displayName(m, first, last)
	}

	out := domain.MemberActivity{OK: true, BioguideID: bioguideID, Name: name}
	for _, r := range snap.Sorted() {
		switch {
		case hasID(r.SponsorIDs, bioguideID):
			out.Authored = append(out.Authored, r)
		case hasID(r.CosponsorIDs, bioguideID):
			out.Cosponsored = append(out.Cosponsored, r)
		case pat != nil && pat.MatchString(searchText(r)):
			out.Targeted = append(out.Targeted, r)
		}
	}

	out.Counts = domain.Counts{
		Authored:    len(out.Authored),
		Cosponsored: len(out.Cosponsored),
		Targeted:    len(out.Targeted),
	}
	out.Authored = truncate(out.Authored, limit)
	out.Cosponsored = truncate(out.Cosponsored, limit)
	out.Targeted = truncate(out.Targeted, limit)
	return out, nil
}

func displayName(m congress.Member, first, last string) string {
	if m.DirectOrderName != "" {
		return m.DirectOrderName
	}
	return strings.TrimSpace(first + " " + last)
}

func searchText(r bill.Record) string {
	if r.LatestAction == nil {
		return r.Title
	}
	return r.Title + " " + r.LatestAction.Text
}

func hasID(ids []string, id string) bool {
	for _, x := range ids {
		if strings.EqualFold(x, id) {
			return true
		}
	}
	return false
}

func truncate(recs []bill.Record, limit int) []bill.Record {
	if len(recs) > limit {
		return recs[:limit]
	}
	return recs
}
