// Package domain defines job parameters and run reports
package domain

// RefreshParams tunes the incremental refresh scan
type RefreshParams struct {
	Days   int  `json:"days"`
	Limit  int  `json:"limit"`
	Pages  int  `json:"pages"`
	Strict bool `json:"strict"`

	// Verbose logs every kept record
	Verbose bool `json:"-"`
}

// Clamp applies defaults and bounds: days 1..120 (default 30),
// limit 10..250 (default 200), pages 1..40 (default 8)
func (p RefreshParams) Clamp() RefreshParams {
	p.Days = clamp(p.Days, 1, 120, 30)
	p.Limit = clamp(p.Limit, 10, 250, 200)
	p.Pages = clamp(p.Pages, 1, 40, 8)
	return p
}

// BackfillParams tunes the deep backfill scan
type BackfillParams struct {
	Years  int  `json:"years"`
	Limit  int  `json:"limit"`
	Pages  int  `json:"pages"`
	Strict bool `json:"strict"`

	// Verbose logs every kept record
	Verbose bool `json:"-"`
}

// Clamp applies defaults and bounds: years 1..25 (default 10),
// limit 10..250 (default 200), pages 1..500 (default 200)
func (p BackfillParams) Clamp() BackfillParams {
	p.Years = clamp(p.Years, 1, 25, 10)
	p.Limit = clamp(p.Limit, 10, 250, 200)
	p.Pages = clamp(p.Pages, 1, 500, 200)
	return p
}

// CommitteeRefreshParams tunes the ethics committee scan
type CommitteeRefreshParams struct {
	Days int `json:"days"`

	// FromDateTime overrides the Days window when set, ISO form
	FromDateTime string `json:"fromDateTime,omitempty"`

	Limit int `json:"limit"`
	Pages int `json:"pages"`

	// Confirm gates persistence; false is a dry run
	Confirm bool `json:"confirm"`

	// Wide forces detail enrichment even for unchanged rows and, when no
	// explicit window was given, widens the window to a full year
	Wide bool `json:"wide"`

	// Verbose logs every kept record
	Verbose bool `json:"-"`
}

// Clamp applies defaults and bounds: days 1..365 (default 30, or 365 on
// wide runs), limit 10..250 (default 250), pages 1..200 (default 200)
func (p CommitteeRefreshParams) Clamp() CommitteeRefreshParams {
	if p.Days == 0 && p.Wide {
		p.Days = 365
	}
	p.Days = clamp(p.Days, 1, 365, 30)
	p.Limit = clamp(p.Limit, 10, 250, 250)
	p.Pages = clamp(p.Pages, 1, 200, 200)
	return p
}

// PruneParams tunes the strict re-filter pass
type PruneParams struct {
	// Confirm gates persistence; false reports what would be pruned
	Confirm bool `json:"confirm"`
}

// RehydrateParams tunes detail re-enrichment of persisted records
type RehydrateParams struct {
	// MissingOnly limits work to records lacking title or latest action
	MissingOnly bool `json:"missingOnly"`

	// Wide additionally backfills sponsor ids
	Wide bool `json:"wide"`

	// Max bounds how many records one run scans
	Max int `json:"max"`

	// Confirm gates persistence
	Confirm bool `json:"confirm"`
}

// Clamp applies defaults: max 1..100000 (default 100000)
func (p RehydrateParams) Clamp() RehydrateParams {
	p.Max = clamp(p.Max, 1, 100000, 100000)
	return p
}

// RunReport is the structured result of one job run.
// Fields irrelevant to a given mode stay zero and are omitted on the wire
type RunReport struct {
	OK    bool   `json:"ok"`
	Mode  string `json:"mode"`
	RunID string `json:"runId,omitempty"`

	Days         int    `json:"days,omitempty"`
	Years        int    `json:"years,omitempty"`
	FromDateTime string `json:"fromDateTime,omitempty"`
	FromCongress int    `json:"fromCongress,omitempty"`
	ToCongress   int    `json:"toCongress,omitempty"`
	Strict       bool   `json:"strict,omitempty"`
	Confirm      bool   `json:"confirm,omitempty"`
	Wide         bool   `json:"wide,omitempty"`

	AddedOrUpdated int `json:"addedOrUpdated,omitempty"`
	Kept           int `json:"kept,omitempty"`
	Pruned         int `json:"pruned,omitempty"`
	Scanned        int `json:"scanned,omitempty"`
	Touched        int `json:"touched,omitempty"`
	Skipped        int `json:"skipped,omitempty"`
	Errors         int `json:"errors,omitempty"`

	// SkippedUnits counts scan units abandoned after an upstream failure
	SkippedUnits int `json:"skippedUnits,omitempty"`

	// LastUpdated is epoch milliseconds of the persisted write, zero on dry runs
	LastUpdated int64 `json:"lastUpdated,omitempty"`
}

func clamp(v, lo, hi, def int) int {
	if v == 0 {
		v = def
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
