// Package module wires the scan jobs into the API using modkit
package module

import (
	"net/http"
	"time"

	modkit "congresswatch/internal/modkit"
	"congresswatch/internal/modkit/httpkit"
	str "congresswatch/internal/platform/strings"
	billsrepo "congresswatch/internal/services/bills/repo"
	billssvc "congresswatch/internal/services/bills/service"
	"congresswatch/internal/services/jobs/domain"
	"congresswatch/internal/services/jobs/guardrails"
	jobshttp "congresswatch/internal/services/jobs/http"
	jobssvc "congresswatch/internal/services/jobs/service"
)

// Module implements the jobs module
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string

	mws       []func(http.Handler) http.Handler
	ports     any
	swaggerOn bool

	subrouter func(httpkit.Router) httpkit.Router
	register  func(httpkit.Router)

	svc *jobssvc.Service
}

// New constructs the jobs module
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("jobs"), modkit.WithPrefix("/jobs")}, opts...)...)

	cfg := deps.Cfg.Prefix("CORE_JOBS_")
	store := billssvc.New(billsrepo.New(deps.Docs), billssvc.Config{
		StaleAfter: deps.Cfg.MayDuration("CORE_FEED_STALE_AFTER", 0),
	})
	svc := jobssvc.New(store, deps.Congress, jobssvc.Config{
		Budget: guardrails.Budget{
			Run:     cfg.MayDuration("RUN_TIMEOUT", 25*time.Second),
			Fetch:   cfg.MayDuration("FETCH_TIMEOUT", 0),
			Persist: cfg.MayDuration("PERSIST_TIMEOUT", 0),
		},
		EnrichWorkers: cfg.MayInt("ENRICH_WORKERS", 0),
	})

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		swaggerOn: b.SwaggerOn,
		subrouter: b.Subrouter,
		svc:       svc,
	}
	m.ports = domain.RunnerPort(svc)

	external := b.Register
	m.register = func(r httpkit.Router) {
		jobshttp.Register(r, m.svc)
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
