// Package http provides http transport for member cross-reference
package http

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"

	"congresswatch/internal/modkit/httpkit"
	"congresswatch/internal/platform/net/http/bind"
	"congresswatch/internal/services/api/members/domain"
)

// Register mounts member endpoints on the given router
func Register(r httpkit.Router, p domain.MemberPort) {
	h := &handlers{port: p}

	// records authored by, cosponsored by, or naming the member
	httpkit.Get(r, "/{bioguideID}", h.activity)
}

type handlers struct{ port domain.MemberPort }

// @Summary Cross-reference tracked resolutions for one member
// @Tags Members
// @Produce json
// @Param bioguideID path string true "Bioguide id, e.g. S001218"
// @Param limit query int false "Max records per bucket, 1..500" default(100)
// @Param loose query bool false "Loose name matching" default(false)
// @Success 200 {object} domain.MemberActivity "ok"
// @Router /members/{bioguideID} [get]
func (h *handlers) activity(r *stdhttp.Request) (any, error) {
	return h.port.Activity(
		r.Context(),
		chi.URLParam(r, "bioguideID"),
		bind.QueryInt(r, "limit", 0),
		bind.QueryBool(r, "loose", false),
	)
}
