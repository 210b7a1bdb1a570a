package modkit

import (
	"congresswatch/internal/adapters/congress"
	"congresswatch/internal/platform/config"
	"congresswatch/internal/platform/docstore"
	"congresswatch/internal/platform/logger"
)

// Deps is the platform dependency bag passed to every module.
// Fields are optional by design: modules assert what they need at
// construction time and panic early when a required seam is missing
type Deps struct {
	// Log is the root structured logger; modules derive named children
	Log logger.Logger

	// Cfg is the process configuration snapshot
	Cfg config.Conf

	// Docs is the ranked document store holding the tracked-bill snapshots
	Docs docstore.Store

	// Congress is the upstream Congress.gov API client
	Congress *congress.Client
}

// ZeroOK reports whether an all-zero Deps is acceptable.
// It is: modules perform their own nil checks for the seams they use
func (d Deps) ZeroOK() bool { return true }
