// Package api provides the HTTP API for the application
package api

import (
	"congresswatch/internal/adapters/congress"
	"congresswatch/internal/platform/config"
	"congresswatch/internal/platform/docstore"
	"congresswatch/internal/platform/logger"
	phttp "congresswatch/internal/platform/net/http"

	"congresswatch/internal/modkit"
	"congresswatch/internal/modkit/httpkit"
	"congresswatch/internal/modkit/module"
	"congresswatch/internal/modkit/swaggerkit"

	feedmod "congresswatch/internal/services/api/feed/module"
	membersmod "congresswatch/internal/services/api/members/module"
	metamod "congresswatch/internal/services/api/meta/module"
	jobsmod "congresswatch/internal/services/jobs/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Docs           docstore.Store
	Congress       *congress.Client
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg:      opt.Config,
		Docs:     opt.Docs,
		Congress: opt.Congress,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	mods := []module.Module{
		metamod.New(deps),
		feedmod.New(deps),
		membersmod.New(deps),
		jobsmod.New(deps),
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())

			// mount module routes under its Prefix()
			m.MountRoutes(api)
		}
	})
}
