// Package module wires the feed into the API using modkit
package module

import (
	"net/http"

	modkit "congresswatch/internal/modkit"
	"congresswatch/internal/modkit/httpkit"
	str "congresswatch/internal/platform/strings"
	"congresswatch/internal/services/api/feed/domain"
	feedhttp "congresswatch/internal/services/api/feed/http"
	feedsvc "congresswatch/internal/services/api/feed/service"
	billsrepo "congresswatch/internal/services/bills/repo"
	billssvc "congresswatch/internal/services/bills/service"
)

// Module implements the feed module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *feedsvc.Service
}

// New constructs the feed module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("feed"), modkit.WithPrefix("/feed")}, opts...)...)

	store := billssvc.New(billsrepo.New(deps.Docs), billssvc.Config{
		StaleAfter: deps.Cfg.MayDuration("CORE_FEED_STALE_AFTER", 0),
	})
	svc := feedsvc.New(store)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = domain.FeedPort(svc)

	external := b.Register
	m.register = func(r httpkit.Router) {
		feedhttp.Register(r, m.svc)
		if external != nil {
			external(r)
		}
	}
	return m
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	r.Route(m.prefix, func(rr httpkit.Router) {
		for _, mw := range m.mws {
			rr.Use(mw)
		}
		if m.subrouter != nil {
			rr = m.subrouter(rr)
		}
		if m.register != nil {
			m.register(rr)
		}
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Middlewares returns the module middlewares
func (m *Module) Middlewares() []func(http.Handler) http.Handler { return m.mws }
