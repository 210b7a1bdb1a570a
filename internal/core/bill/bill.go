// Package bill holds the canonical record for a tracked congressional measure
// and the pure helpers the rest of the system leans on: stable keys, field
// normalization, freshness aware merging, and newest-first ordering.
package bill

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Action is the most recent recorded action on a measure
type Action struct {
	Text       string `json:"text,omitempty"`
	ActionDate string `json:"actionDate,omitempty"`
}

// Record is the canonical persisted shape for one tracked measure.
// Dates are ISO strings as received upstream; Number stays a string because
// the upstream API emits it both quoted and bare
type Record struct {
	Congress            int      `json:"congress"`
	Type                string   `json:"type"`
	Number              string   `json:"number"`
	Title               string   `json:"title,omitempty"`
	OriginChamber       string   `json:"originChamber,omitempty"`
	LatestAction        *Action  `json:"latestAction,omitempty"`
	UpdateDate          string   `json:"updateDate,omitempty"`
	IntroducedDate      string   `json:"introducedDate,omitempty"`
	CommitteeActionDate string   `json:"committeeActionDate,omitempty"`
	RelationshipType    string   `json:"relationshipType,omitempty"`
	SponsorIDs          []string `json:"sponsorIds,omitempty"`
	CosponsorIDs        []string `json:"cosponsorIds,omitempty"`
	DetailURL           string   `json:"congressdotgov_url,omitempty"`

	// LastCached is epoch milliseconds of the last time a job touched this record
	LastCached int64 `json:"lastCached,omitempty"`
}

// Key returns the stable identity "{congress}-{TYPE}-{number}"
func (r Record) Key() string {
	return fmt.Sprintf("%d-%s-%s", r.Congress, strings.ToUpper(strings.TrimSpace(r.Type)), strings.TrimSpace(r.Number))
}

// ParseKey splits a stored key into its parts. Accepts both the canonical
// dash form and the legacy colon form "{congress}:{TYPE}:{number}"
func ParseKey(key string) (congress int, typ, number string, ok bool) {
	sep := "-"
	if strings.Contains(key, ":") {
		sep = ":"
	}
	parts := strings.SplitN(key, sep, 3)
	if len(parts) != 3 {
		return 0, "", "", false
	}
	n, err := parseInt(parts[0])
	if err != nil || n <= 0 {
		return 0, "", "", false
	}
	return n, strings.ToUpper(parts[1]), parts[2], true
}

func parseInt(s string) (int, error) {
	var n int
	_, err := fmt.Sscanf(strings.TrimSpace(s), "%d", &n)
	return n, err
}

// Normalize uppercases the type and trims number and string fields in place
func (r *Record) Normalize() {
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	r.Number = strings.TrimSpace(r.Number)
	r.Title = strings.TrimSpace(r.Title)
	r.OriginChamber = strings.TrimSpace(r.OriginChamber)
}

// dateLayouts covers the formats the upstream API actually emits
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02",
}

// ParseDate parses an upstream date string, zero time when unparseable
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// LatestDate is the ordering timestamp for a record: latest action date,
// else update date, else committee action date, else introduced date.
// Records with none of these sort last as the zero time
func (r Record) LatestDate() time.Time {
	if r.LatestAction != nil {
		if t := ParseDate(r.LatestAction.ActionDate); !t.IsZero() {
			return t
		}
	}
	if t := ParseDate(r.UpdateDate); !t.IsZero() {
		return t
	}
	if t := ParseDate(r.CommitteeActionDate); !t.IsZero() {
		return t
	}
	return ParseDate(r.IntroducedDate)
}

// newer reports whether a is strictly after b; unparseable dates sort oldest
func newer(a, b string) bool {
	ta, tb := ParseDate(a), ParseDate(b)
	if ta.IsZero() {
		return false
	}
	if tb.IsZero() {
		return true
	}
	return ta.After(tb)
}

// Merge folds next into prev for the same key.
// The record with the newer updateDate contributes its fields; the other
// record backfills anything the winner left empty. CommitteeActionDate and
// LastCached keep whichever side is newer regardless of the winner
func Merge(prev, next Record) Record {
	winner, loser := next, prev
	if newer(prev.UpdateDate, next.UpdateDate) {
		winner, loser = prev, next
	}

	out := winner
	if out.Title == "" {
		out.Title = loser.Title
	}
	if out.OriginChamber == "" {
		out.OriginChamber = loser.OriginChamber
	}
	if out.LatestAction == nil {
		out.LatestAction = loser.LatestAction
	}
	if out.UpdateDate == "" {
		out.UpdateDate = loser.UpdateDate
	}
	if out.IntroducedDate == "" {
		out.IntroducedDate = loser.IntroducedDate
	}
	if out.DetailURL == "" {
		out.DetailURL = loser.DetailURL
	}
	if out.RelationshipType == "" {
		out.RelationshipType = loser.RelationshipType
	}
	if len(out.SponsorIDs) == 0 {
		out.SponsorIDs = loser.SponsorIDs
	}
	if len(out.CosponsorIDs) == 0 {
		out.CosponsorIDs = loser.CosponsorIDs
	}
	if loser.CommitteeActionDate != "" && (out.CommitteeActionDate == "" || newer(loser.CommitteeActionDate, out.CommitteeActionDate)) {
		out.CommitteeActionDate = loser.CommitteeActionDate
	}
	if loser.LastCached > out.LastCached {
		out.LastCached = loser.LastCached
	}
	return out
}

// SortNewestFirst orders records newest-first by LatestDate, stable
func SortNewestFirst(recs []Record) {
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].LatestDate().After(recs[j].LatestDate())
	})
}

// CongressForYear maps a calendar year to its congress number.
// A congress spans two years starting in an odd year; the second return
// reports whether year is the opening (odd) year of its congress
func CongressForYear(year int) (int, bool) {
	if year < 1789 {
		return 0, false
	}
	return (year-1789)/2 + 1, year%2 == 1
}
