package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"congresswatch/internal/adapters/congress"
	"congresswatch/internal/core/bill"
	"congresswatch/internal/platform/docstore"
	"congresswatch/internal/platform/logger"
	billsrepo "congresswatch/internal/services/bills/repo"
	billssvc "congresswatch/internal/services/bills/service"
	"congresswatch/internal/services/jobs/domain"
)

type fakeUpstream struct {
	list       func(p congress.ListParams) ([]congress.ListBill, error)
	committee  func(chamber, code string, p congress.CommitteeParams) ([]congress.CommitteeBill, error)
	detail     func(rawURL string) (congress.BillDetail, error)
	committees func(c int, typ, number string) ([]congress.BillCommittee, error)
}

func (f *fakeUpstream) ListBills(_ context.Context, p congress.ListParams) ([]congress.ListBill, error) {
	if f.list == nil {
		return nil, nil
	}
	return f.list(p)
}

func (f *fakeUpstream) CommitteeBills(_ context.Context, chamber, code string, p congress.CommitteeParams) ([]congress.CommitteeBill, error) {
	if f.committee == nil {
		return nil, nil
	}
	return f.committee(chamber, code, p)
}

func (f *fakeUpstream) BillDetailURL(_ context.Context, rawURL string) (congress.BillDetail, error) {
	if f.detail == nil {
		return congress.BillDetail{}, nil
	}
	return f.detail(rawURL)
}

func (f *fakeUpstream) BillCommittees(_ context.Context, c int, typ, number string) ([]congress.BillCommittee, error) {
	if f.committees == nil {
		return []congress.BillCommittee{{Name: "Committee on Ethics"}}, nil
	}
	return f.committees(c, typ, number)
}

var testNow = time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, up *fakeUpstream) (*Service, *billssvc.Service) {
	t.Helper()
	docs := docstore.NewRanked(*logger.Named("jobs-test"), docstore.NewMemory())
	store := billssvc.New(billsrepo.New(docs), billssvc.Config{StaleAfter: time.Hour})
	svc := New(store, up, Config{})
	svc.now = func() time.Time { return testNow }
	return svc, store
}

func seed(t *testing.T, store *billssvc.Service, recs ...bill.Record) {
	t.Helper()
	if _, err := store.UpsertMany(context.Background(), recs); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func loadKeys(t *testing.T, store *billssvc.Service) map[string]bill.Record {
	t.Helper()
	snap, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return snap.Records
}

func TestRefresh_KeepsWindowedMatches(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{list: func(p congress.ListParams) ([]congress.ListBill, error) {
		if p.Offset > 0 {
			return nil, nil
		}
		return []congress.ListBill{
			{
				Congress: 119, Type: "HRES", Number: "10",
				Title:        "Censuring Rep. John Smith",
				LatestAction: &congress.LatestAction{Text: "Referred", ActionDate: "2026-08-15"},
				UpdateDate:   "2026-08-16",
			},
			{
				Congress: 119, Type: "SRES", Number: "4",
				Title:        "A resolution to expel Sen. Jane Doe",
				LatestAction: &congress.LatestAction{Text: "Submitted", ActionDate: "2026-08-10"},
			},
			{
				Congress: 119, Type: "HRES", Number: "11",
				Title:        "Recognizing National Dairy Month",
				LatestAction: &congress.LatestAction{Text: "Referred", ActionDate: "2026-08-20"},
			},
			{
				Congress: 116, Type: "HRES", Number: "755",
				Title:        "Censuring Rep. Old News",
				LatestAction: &congress.LatestAction{Text: "Agreed to", ActionDate: "2020-01-01"},
			},
			{
				Congress: 119, Type: "HR", Number: "100",
				Title:        "To censure Rep. Not A Resolution",
				LatestAction: &congress.LatestAction{Text: "Referred", ActionDate: "2026-08-18"},
			},
		}, nil
	}}
	svc, store := newTestService(t, up)

	rep, err := svc.Refresh(context.Background(), domain.RefreshParams{Strict: true})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if !rep.OK || rep.Mode != "refresh" {
		t.Fatalf("unexpected report %+v", rep)
	}
	if rep.AddedOrUpdated != 2 {
		t.Fatalf("AddedOrUpdated = %d, want 2", rep.AddedOrUpdated)
	}

	recs := loadKeys(t, store)
	if _, ok := recs["119-HRES-10"]; !ok {
		t.Fatal("in-window censure resolution should persist")
	}
	if _, ok := recs["119-SRES-4"]; !ok {
		t.Fatal("in-window expulsion resolution should persist")
	}
	if _, ok := recs["116-HRES-755"]; ok {
		t.Fatal("out-of-window resolution should not persist")
	}
	if _, ok := recs["119-HR-100"]; ok {
		t.Fatal("non-resolution type should not persist")
	}
}

func TestRefresh_StopsOnStalePageAfterTwo(t *testing.T) {
	t.Parallel()

	old := congress.ListBill{
		Congress: 110, Type: "HRES", Number: "1",
		Title:        "Censuring Rep. Ancient History",
		LatestAction: &congress.LatestAction{Text: "Agreed to", ActionDate: "2008-01-01"},
	}
	calls := 0
	up := &fakeUpstream{list: func(p congress.ListParams) ([]congress.ListBill, error) {
		calls++
		return []congress.ListBill{old}, nil
	}}
	svc, _ := newTestService(t, up)

	if _, err := svc.Refresh(context.Background(), domain.RefreshParams{Pages: 5, Strict: true}); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	// The first two stale pages do not end the walk, the third does
	if calls != 3 {
		t.Fatalf("list calls = %d, want 3", calls)
	}
}

func TestRefresh_UpstreamErrorAborts(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{list: func(congress.ListParams) ([]congress.ListBill, error) {
		return nil, errors.New("boom")
	}}
	svc, _ := newTestService(t, up)

	if _, err := svc.Refresh(context.Background(), domain.RefreshParams{}); err == nil {
		t.Fatal("expected error when the list fetch fails")
	}
}

func TestBackfill_ResyncKeepsCommitteeRecords(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{list: func(p congress.ListParams) ([]congress.ListBill, error) {
		if p.Congress == 119 && p.Type == "hres" && p.Offset == 0 {
			return []congress.ListBill{{
				Congress: 119, Type: "HRES", Number: "10",
				Title:        "Censuring Rep. John Smith",
				LatestAction: &congress.LatestAction{Text: "Referred", ActionDate: "2026-08-15"},
				UpdateDate:   "2026-08-16",
			}}, nil
		}
		return nil, nil
	}}
	svc, store := newTestService(t, up)
	seed(t, store,
		bill.Record{
			Congress: 118, Type: "HRES", Number: "900",
			Title:               "Supporting apple month",
			CommitteeActionDate: "2025-03-01",
		},
		bill.Record{
			Congress: 118, Type: "HRES", Number: "901",
			Title: "Stale record without any qualifying text",
		},
	)

	rep, err := svc.Backfill(context.Background(), domain.BackfillParams{Strict: true})
	if err != nil {
		t.Fatalf("backfill: %v", err)
	}
	if rep.AddedOrUpdated != 1 {
		t.Fatalf("AddedOrUpdated = %d, want 1", rep.AddedOrUpdated)
	}
	if rep.ToCongress != 119 || rep.FromCongress == 0 {
		t.Fatalf("unexpected congress range %d..%d", rep.FromCongress, rep.ToCongress)
	}

	recs := loadKeys(t, store)
	if _, ok := recs["119-HRES-10"]; !ok {
		t.Fatal("scanned match should persist")
	}
	if _, ok := recs["118-HRES-900"]; !ok {
		t.Fatal("committee-sourced record should survive the resync")
	}
	if _, ok := recs["118-HRES-901"]; ok {
		t.Fatal("unqualified record should be dropped by the resync")
	}
}

func TestBackfill_UnitErrorSkipsToNextUnit(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{list: func(p congress.ListParams) ([]congress.ListBill, error) {
		if p.Congress == 119 && p.Type == "hres" {
			return nil, errors.New("boom")
		}
		return nil, nil
	}}
	svc, _ := newTestService(t, up)

	rep, err := svc.Backfill(context.Background(), domain.BackfillParams{Years: 1})
	if err != nil {
		t.Fatalf("backfill should tolerate a failing unit: %v", err)
	}
	if rep.SkippedUnits != 1 {
		t.Fatalf("SkippedUnits = %d, want 1", rep.SkippedUnits)
	}
}

func TestCommitteeRefresh_EnrichesChangedRowsOnly(t *testing.T) {
	t.Parallel()

	var fetched []string
	up := &fakeUpstream{
		committee: func(chamber, code string, p congress.CommitteeParams) ([]congress.CommitteeBill, error) {
			if chamber != "house" || p.Offset > 0 {
				return nil, nil
			}
			if code != "hsso00" {
				t.Errorf("unexpected committee code %q", code)
			}
			return []congress.CommitteeBill{
				{Congress: 119, Type: "HRES", Number: "20", RelationshipType: "Referred to",
					ActionDate: "2026-08-01", UpdateDate: "2026-08-02", URL: "https://x/119/hres/20"},
				{Congress: 119, Type: "HRES", Number: "21", RelationshipType: "Referred to",
					ActionDate: "2026-07-01", UpdateDate: "2026-07-02", URL: "https://x/119/hres/21"},
			}, nil
		},
		detail: func(rawURL string) (congress.BillDetail, error) {
			fetched = append(fetched, rawURL)
			return congress.BillDetail{Title: "Resolution regarding official conduct"}, nil
		},
	}
	svc, store := newTestService(t, up)
	// 21 is already cached at the same update date, 20 is new
	seed(t, store, bill.Record{
		Congress: 119, Type: "HRES", Number: "21",
		Title: "Cached title", UpdateDate: "2026-07-02", CommitteeActionDate: "2026-07-01",
	})

	rep, err := svc.CommitteeRefresh(context.Background(), domain.CommitteeRefreshParams{Confirm: true})
	if err != nil {
		t.Fatalf("committee refresh: %v", err)
	}
	if rep.Scanned != 2 {
		t.Fatalf("Scanned = %d, want 2", rep.Scanned)
	}
	if len(fetched) != 1 || fetched[0] != "https://x/119/hres/20" {
		t.Fatalf("detail fetches = %v, want only the changed row", fetched)
	}

	recs := loadKeys(t, store)
	got, ok := recs["119-HRES-20"]
	if !ok {
		t.Fatal("new committee row should persist")
	}
	if got.Title != "Resolution regarding official conduct" {
		t.Fatalf("Title = %q, want enriched detail title", got.Title)
	}
	if recs["119-HRES-21"].Title != "Cached title" {
		t.Fatal("unchanged row should keep its cached detail")
	}
}

func TestCommitteeRefresh_WideForcesEnrichment(t *testing.T) {
	t.Parallel()

	var fetched []string
	up := &fakeUpstream{
		committee: func(chamber, _ string, p congress.CommitteeParams) ([]congress.CommitteeBill, error) {
			if chamber != "senate" || p.Offset > 0 {
				return nil, nil
			}
			return []congress.CommitteeBill{{
				Congress: 119, Type: "SRES", Number: "5",
				ActionDate: "2026-08-01", UpdateDate: "2026-08-02", URL: "https://x/119/sres/5",
			}}, nil
		},
		detail: func(rawURL string) (congress.BillDetail, error) {
			fetched = append(fetched, rawURL)
			return congress.BillDetail{}, nil
		},
	}
	svc, store := newTestService(t, up)
	seed(t, store, bill.Record{
		Congress: 119, Type: "SRES", Number: "5",
		Title: "Cached", UpdateDate: "2026-08-02", CommitteeActionDate: "2026-08-01",
	})

	if _, err := svc.CommitteeRefresh(context.Background(), domain.CommitteeRefreshParams{Wide: true}); err != nil {
		t.Fatalf("committee refresh: %v", err)
	}
	if len(fetched) != 1 {
		t.Fatalf("wide run should refetch unchanged rows, fetched %v", fetched)
	}
}

func TestCommitteeRefresh_ConfirmVerifiesInconclusiveRows(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{
		committee: func(chamber, _ string, p congress.CommitteeParams) ([]congress.CommitteeBill, error) {
			if chamber != "house" || p.Offset > 0 {
				return nil, nil
			}
			return []congress.CommitteeBill{
				{Congress: 119, Type: "HRES", Number: "40", ActionDate: "2026-08-01", UpdateDate: "2026-08-02"},
				{Congress: 119, Type: "HRES", Number: "41", ActionDate: "2026-08-01", UpdateDate: "2026-08-02"},
			}, nil
		},
		committees: func(_ int, _, number string) ([]congress.BillCommittee, error) {
			if number == "40" {
				return []congress.BillCommittee{{Name: "Committee on Ethics"}}, nil
			}
			return []congress.BillCommittee{{Name: "Committee on the Judiciary"}}, nil
		},
	}
	svc, store := newTestService(t, up)

	rep, err := svc.CommitteeRefresh(context.Background(), domain.CommitteeRefreshParams{Confirm: true})
	if err != nil {
		t.Fatalf("committee refresh: %v", err)
	}
	if rep.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1 unverified row", rep.Skipped)
	}

	recs := loadKeys(t, store)
	if _, ok := recs["119-HRES-40"]; !ok {
		t.Fatal("verified referral should persist")
	}
	if _, ok := recs["119-HRES-41"]; ok {
		t.Fatal("unverified row should be dropped")
	}
}

func TestCommitteeRefresh_DryRunDoesNotPersist(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{committee: func(chamber, _ string, p congress.CommitteeParams) ([]congress.CommitteeBill, error) {
		if chamber != "house" || p.Offset > 0 {
			return nil, nil
		}
		return []congress.CommitteeBill{{
			Congress: 119, Type: "HRES", Number: "30",
			ActionDate: "2026-08-01", UpdateDate: "2026-08-02", URL: "https://x/119/hres/30",
		}}, nil
	}}
	svc, store := newTestService(t, up)

	rep, err := svc.CommitteeRefresh(context.Background(), domain.CommitteeRefreshParams{})
	if err != nil {
		t.Fatalf("committee refresh: %v", err)
	}
	if rep.Confirm {
		t.Fatal("confirm should default to false")
	}
	if rep.LastUpdated != 0 {
		t.Fatal("dry run should not report a write timestamp")
	}
	if len(loadKeys(t, store)) != 0 {
		t.Fatal("dry run must leave the document untouched")
	}
}

func TestPrune_StrictRefilterKeepsCommitteeAndReferrals(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, &fakeUpstream{})
	seed(t, store,
		bill.Record{Congress: 119, Type: "HRES", Number: "1", Title: "Censuring Rep. John Smith"},
		bill.Record{Congress: 119, Type: "HRES", Number: "2", Title: "Expressing support for censure reform"},
		bill.Record{Congress: 119, Type: "HRES", Number: "3", Title: "Supporting apple month",
			CommitteeActionDate: "2026-01-01"},
		bill.Record{Congress: 119, Type: "HRES", Number: "4", Title: "Some measure",
			LatestAction: &bill.Action{Text: "Referred to the Committee on Ethics.", ActionDate: "2026-01-02"}},
	)

	rep, err := svc.Prune(context.Background(), domain.PruneParams{Confirm: true})
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if rep.Kept != 3 || rep.Pruned != 1 {
		t.Fatalf("kept/pruned = %d/%d, want 3/1", rep.Kept, rep.Pruned)
	}

	recs := loadKeys(t, store)
	if _, ok := recs["119-HRES-2"]; ok {
		t.Fatal("loose-only record should be pruned under strict rules")
	}
	for _, k := range []string{"119-HRES-1", "119-HRES-3", "119-HRES-4"} {
		if _, ok := recs[k]; !ok {
			t.Fatalf("record %s should survive the prune", k)
		}
	}
}

func TestPrune_DryRunReportsWithoutWriting(t *testing.T) {
	t.Parallel()

	svc, store := newTestService(t, &fakeUpstream{})
	seed(t, store, bill.Record{Congress: 119, Type: "HRES", Number: "2", Title: "Censure reform now"})

	rep, err := svc.Prune(context.Background(), domain.PruneParams{})
	if err != nil {
		t.Fatalf("prune: %v", err)
	}
	if rep.Pruned != 1 {
		t.Fatalf("Pruned = %d, want 1", rep.Pruned)
	}
	if len(loadKeys(t, store)) != 1 {
		t.Fatal("dry run must not drop records")
	}
}

func TestRehydrate_FillsMissingDetail(t *testing.T) {
	t.Parallel()

	up := &fakeUpstream{detail: func(rawURL string) (congress.BillDetail, error) {
		if rawURL == "https://x/broken" {
			return congress.BillDetail{}, errors.New("boom")
		}
		return congress.BillDetail{
			Title:        "Censuring Rep. John Smith",
			LatestAction: &congress.LatestAction{Text: "Referred", ActionDate: "2026-08-01"},
			Sponsors:     congress.PersonList{{BioguideID: "S000001"}},
		}, nil
	}}
	svc, store := newTestService(t, up)
	seed(t, store,
		bill.Record{Congress: 119, Type: "HRES", Number: "1", DetailURL: "https://x/1"},
		bill.Record{Congress: 119, Type: "HRES", Number: "2", Title: "Complete already",
			LatestAction: &bill.Action{Text: "Agreed to", ActionDate: "2026-07-01"}},
		bill.Record{Congress: 119, Type: "HRES", Number: "3", DetailURL: "https://x/broken"},
	)

	rep, err := svc.Rehydrate(context.Background(), domain.RehydrateParams{MissingOnly: true, Confirm: true})
	if err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if rep.Scanned != 3 || rep.Touched != 1 || rep.Skipped != 1 || rep.Errors != 1 {
		t.Fatalf("scanned/touched/skipped/errors = %d/%d/%d/%d, want 3/1/1/1",
			rep.Scanned, rep.Touched, rep.Skipped, rep.Errors)
	}

	recs := loadKeys(t, store)
	if recs["119-HRES-1"].Title != "Censuring Rep. John Smith" {
		t.Fatal("missing title should be rehydrated")
	}
	if len(recs["119-HRES-1"].SponsorIDs) != 1 {
		t.Fatal("detail sponsors should be applied")
	}
}

func TestRehydrate_MaxBoundsScan(t *testing.T) {
	t.Parallel()

	calls := 0
	up := &fakeUpstream{detail: func(string) (congress.BillDetail, error) {
		calls++
		return congress.BillDetail{Title: "T", LatestAction: &congress.LatestAction{Text: "A"}}, nil
	}}
	svc, store := newTestService(t, up)
	seed(t, store,
		bill.Record{Congress: 119, Type: "HRES", Number: "1", DetailURL: "https://x/1"},
		bill.Record{Congress: 119, Type: "HRES", Number: "2", DetailURL: "https://x/2"},
		bill.Record{Congress: 119, Type: "HRES", Number: "3", DetailURL: "https://x/3"},
	)

	rep, err := svc.Rehydrate(context.Background(), domain.RehydrateParams{MissingOnly: true, Max: 2})
	if err != nil {
		t.Fatalf("rehydrate: %v", err)
	}
	if rep.Scanned != 2 || calls != 2 {
		t.Fatalf("scanned=%d calls=%d, want 2/2", rep.Scanned, calls)
	}
	if rep.LastUpdated != 0 {
		t.Fatal("unconfirmed run should not persist")
	}
}
