// Command congresswatch-cron keeps the document fresh on a schedule:
// frequent incremental refreshes plus a daily ethics committee sweep
package main

import (
	"context"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"congresswatch/internal/adapters/congress"
	"congresswatch/internal/platform/config"
	"congresswatch/internal/platform/docstore"
	"congresswatch/internal/platform/logger"
	billsrepo "congresswatch/internal/services/bills/repo"
	billssvc "congresswatch/internal/services/bills/service"
	jobsdomain "congresswatch/internal/services/jobs/domain"
	jobssvc "congresswatch/internal/services/jobs/service"
)

func main() {
	_ = godotenv.Load()

	root := config.New()
	cronCfg := root.Prefix("CORE_CRON_")
	l := logger.Get()

	ctx := context.Background()
	docs := openDocs(ctx, root.Prefix("CORE_DOCS_"), l)
	client := congress.NewClient(congress.Options{
		APIKey:  root.Prefix("CONGRESS_GOV_").MustString("API_KEY"),
		BaseURL: root.Prefix("CONGRESS_GOV_").MayString("BASE_URL", ""),
	})

	store := billssvc.New(billsrepo.New(docs), billssvc.Config{})
	runner := jobssvc.New(store, client, jobssvc.Config{})

	c := cron.New()

	refreshSpec := cronCfg.MayString("REFRESH_SPEC", "15 */6 * * *")
	if _, err := c.AddFunc(refreshSpec, func() {
		rep, err := runner.Refresh(ctx, jobsdomain.RefreshParams{
			Days:   cronCfg.MayInt("REFRESH_DAYS", 2),
			Limit:  200,
			Pages:  4,
			Strict: true,
		})
		if err != nil {
			l.Error().Err(err).Msg("scheduled refresh failed")
			return
		}
		l.Info().Int("added_or_updated", rep.AddedOrUpdated).Msg("scheduled refresh done")
	}); err != nil {
		l.Panic().Err(err).Str("spec", refreshSpec).Msg("bad refresh schedule")
	}

	committeeSpec := cronCfg.MayString("COMMITTEE_SPEC", "45 2 * * *")
	if _, err := c.AddFunc(committeeSpec, func() {
		rep, err := runner.CommitteeRefresh(ctx, jobsdomain.CommitteeRefreshParams{Confirm: true})
		if err != nil {
			l.Error().Err(err).Msg("scheduled committee refresh failed")
			return
		}
		l.Info().
			Int("scanned", rep.Scanned).
			Int("added_or_updated", rep.AddedOrUpdated).
			Int("errors", rep.Errors).
			Msg("scheduled committee refresh done")
	}); err != nil {
		l.Panic().Err(err).Str("spec", committeeSpec).Msg("bad committee schedule")
	}

	l.Info().Str("refresh", refreshSpec).Str("committee", committeeSpec).Msg("scheduler up")
	c.Run()
}

// openDocs builds the ranked document store: S3 when configured, then a
// local file, then in-process memory
func openDocs(ctx context.Context, cfg config.Conf, l *logger.Logger) docstore.Store {
	var backends []docstore.Backend

	if bucket := cfg.MayString("S3_BUCKET", ""); bucket != "" {
		s3b, err := docstore.NewS3(ctx, docstore.S3Options{
			Bucket:   bucket,
			Key:      cfg.MayString("S3_KEY", "bills.json"),
			Region:   cfg.MayString("S3_REGION", ""),
			Endpoint: cfg.MayString("S3_ENDPOINT", ""),
		})
		if err != nil {
			l.Warn().Err(err).Msg("s3 backend unavailable, falling back")
		} else {
			backends = append(backends, s3b)
		}
	}

	if path := cfg.MayString("FILE_PATH", "data/bills.json"); path != "" {
		backends = append(backends, docstore.NewFile(path))
	}
	backends = append(backends, docstore.NewMemory())

	return docstore.NewRanked(*l, backends...)
}
