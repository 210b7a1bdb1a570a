// Package http provides http transport for the feed
package http

import (
	stdhttp "net/http"

	"congresswatch/internal/modkit/httpkit"
	"congresswatch/internal/platform/net/http/bind"
	"congresswatch/internal/services/api/feed/domain"
)

// Register mounts feed endpoints on the given router
func Register(r httpkit.Router, p domain.FeedPort) {
	h := &handlers{port: p}

	// newest-first slice of the document
	httpkit.Get(r, "/", h.page)
}

type handlers struct{ port domain.FeedPort }

// @Summary Cursor paginated feed of tracked resolutions
// @Tags Feed
// @Produce json
// @Param cursor query int false "Offset into the newest-first ordering" default(0)
// @Param limit query int false "Page size, 1..100" default(12)
// @Success 200 {object} billsdomain.FeedPage "ok"
// @Router /feed [get]
func (h *handlers) page(r *stdhttp.Request) (any, error) {
	cursor := bind.QueryInt(r, "cursor", 0)
	limit := bind.QueryInt(r, "limit", 0)
	return h.port.Page(r.Context(), cursor, limit)
}
