// Package http provides http transport for the scan jobs
package http

import (
	stdhttp "net/http"

	"congresswatch/internal/modkit/httpkit"
	"congresswatch/internal/platform/net/http/bind"
	"congresswatch/internal/services/jobs/domain"
)

// Register mounts job endpoints on the given router
func Register(r httpkit.Router, runner domain.RunnerPort) {
	h := &handlers{runner: runner}

	// incremental scan of recently updated resolutions
	httpkit.Get(r, "/refresh", h.refresh)

	// deep rescan across congresses
	httpkit.Get(r, "/backfill", h.backfill)

	// ethics committee referral scan
	httpkit.Get(r, "/committee-refresh", h.committeeRefresh)

	// strict re-filter of the persisted document
	httpkit.Get(r, "/prune", h.prune)

	// detail re-enrichment of persisted records
	httpkit.Get(r, "/rehydrate", h.rehydrate)
}

type handlers struct{ runner domain.RunnerPort }

// @Summary Refresh recently updated resolutions
// @Tags Jobs
// @Produce json
// @Param days query int false "Window in days, 1..120" default(30)
// @Param limit query int false "Page size, 10..250" default(200)
// @Param pages query int false "Max pages, 1..40" default(8)
// @Param strict query bool false "Strict member-reference filter" default(true)
// @Param log query bool false "Log every kept record" default(false)
// @Success 200 {object} domain.RunReport "ok"
// @Router /jobs/refresh [get]
func (h *handlers) refresh(r *stdhttp.Request) (any, error) {
	return h.runner.Refresh(r.Context(), domain.RefreshParams{
		Days:    bind.QueryInt(r, "days", 0),
		Limit:   bind.QueryInt(r, "limit", 0),
		Pages:   bind.QueryInt(r, "pages", 0),
		Strict:  bind.QueryBool(r, "strict", true),
		Verbose: bind.QueryBool(r, "log", false),
	})
}

// @Summary Deep rescan across congresses
// @Tags Jobs
// @Produce json
// @Param years query int false "Window in years, 1..25" default(10)
// @Param limit query int false "Page size, 10..250" default(200)
// @Param pages query int false "Max pages per scan unit, 1..500" default(200)
// @Param strict query bool false "Strict member-reference filter" default(true)
// @Param log query bool false "Log every kept record" default(false)
// @Success 200 {object} domain.RunReport "ok"
// @Router /jobs/backfill [get]
func (h *handlers) backfill(r *stdhttp.Request) (any, error) {
	return h.runner.Backfill(r.Context(), domain.BackfillParams{
		Years:   bind.QueryInt(r, "years", 0),
		Limit:   bind.QueryInt(r, "limit", 0),
		Pages:   bind.QueryInt(r, "pages", 0),
		Strict:  bind.QueryBool(r, "strict", true),
		Verbose: bind.QueryBool(r, "log", false),
	})
}

// @Summary Scan ethics committee referrals
// @Tags Jobs
// @Produce json
// @Param days query int false "Window in days, 1..365" default(30)
// @Param fromDateTime query string false "Window start override, ISO timestamp"
// @Param limit query int false "Page size, 10..250" default(250)
// @Param pages query int false "Max pages per committee, 1..200" default(200)
// @Param confirm query bool false "Persist the result" default(false)
// @Param wide query bool false "Force detail enrichment and a year-long window" default(false)
// @Param log query bool false "Log every scanned row" default(false)
// @Success 200 {object} domain.RunReport "ok"
// @Router /jobs/committee-refresh [get]
func (h *handlers) committeeRefresh(r *stdhttp.Request) (any, error) {
	return h.runner.CommitteeRefresh(r.Context(), domain.CommitteeRefreshParams{
		Days:         bind.QueryInt(r, "days", 0),
		FromDateTime: bind.QueryString(r, "fromDateTime", ""),
		Limit:        bind.QueryInt(r, "limit", 0),
		Pages:        bind.QueryInt(r, "pages", 0),
		Confirm:      bind.QueryBool(r, "confirm", false),
		Wide:         bind.QueryBool(r, "wide", false),
		Verbose:      bind.QueryBool(r, "log", false),
	})
}

// @Summary Prune records that fail the strict filter
// @Tags Jobs
// @Produce json
// @Param confirm query bool false "Persist the result" default(true)
// @Success 200 {object} domain.RunReport "ok"
// @Router /jobs/prune [get]
func (h *handlers) prune(r *stdhttp.Request) (any, error) {
	return h.runner.Prune(r.Context(), domain.PruneParams{
		Confirm: bind.QueryBool(r, "confirm", true),
	})
}

// @Summary Re-enrich persisted records from bill detail
// @Tags Jobs
// @Produce json
// @Param missingOnly query bool false "Only records missing title or latest action" default(true)
// @Param wide query bool false "Also backfill sponsor ids" default(false)
// @Param max query int false "Max records per run, 1..100000" default(100000)
// @Param confirm query bool false "Persist the result" default(true)
// @Success 200 {object} domain.RunReport "ok"
// @Router /jobs/rehydrate [get]
func (h *handlers) rehydrate(r *stdhttp.Request) (any, error) {
	return h.runner.Rehydrate(r.Context(), domain.RehydrateParams{
		MissingOnly: bind.QueryBool(r, "missingOnly", true),
		Wide:        bind.QueryBool(r, "wide", false),
		Max:         bind.QueryInt(r, "max", 0),
		Confirm:     bind.QueryBool(r, "confirm", true),
	})
}
