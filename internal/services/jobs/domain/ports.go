package domain

import "context"

// RunnerPort exposes the job operations to transports and schedulers
type RunnerPort interface {
	Refresh(ctx context.Context, p RefreshParams) (RunReport, error)
	Backfill(ctx context.Context, p BackfillParams) (RunReport, error)
	CommitteeRefresh(ctx context.Context, p CommitteeRefreshParams) (RunReport, error)
	Prune(ctx context.Context, p PruneParams) (RunReport, error)
	Rehydrate(ctx context.Context, p RehydrateParams) (RunReport, error)
}
