// Command congresswatch-backfill runs a deep rescan from the shell, with
// optional committee refresh and prune passes
package main

import (
	"context"
	"flag"

	"github.com/joho/godotenv"

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

	years := flag.Int("years", 10, "window in years, 1..25")
	limit := flag.Int("limit", 200, "page size, 10..250")
	pages := flag.Int("pages", 200, "max pages per scan unit, 1..500")
	strict := flag.Bool("strict", true, "strict member-reference filter")
	committee := flag.Bool("committee", false, "also run the ethics committee refresh")
	prune := flag.Bool("prune", false, "finish with a strict prune pass")
	flag.Parse()

	root := config.New()
	l := logger.Get()

	ctx := context.Background()
	docs := openDocs(ctx, root.Prefix("CORE_DOCS_"), l)
	client := congress.NewClient(congress.Options{
		APIKey:  root.Prefix("CONGRESS_GOV_").MustString("API_KEY"),
		BaseURL: root.Prefix("CONGRESS_GOV_").MayString("BASE_URL", ""),
	})

	store := billssvc.New(billsrepo.New(docs), billssvc.Config{})
	runner := jobssvc.New(store, client, jobssvc.Config{})

	rep, err := runner.Backfill(ctx, jobsdomain.BackfillParams{
		Years:  *years,
		Limit:  *limit,
		Pages:  *pages,
		Strict: *strict,
	})
	if err != nil {
		l.Panic().Err(err).Msg("backfill failed")
	}
	l.Info().
		Int("added_or_updated", rep.AddedOrUpdated).
		Int("from_congress", rep.FromCongress).
		Int("to_congress", rep.ToCongress).
		Int("skipped_units", rep.SkippedUnits).
		Msg("backfill done")

	if *committee {
		rep, err := runner.CommitteeRefresh(ctx, jobsdomain.CommitteeRefreshParams{Confirm: true})
		if err != nil {
			l.Panic().Err(err).Msg("committee refresh failed")
		}
		l.Info().
			Int("scanned", rep.Scanned).
			Int("added_or_updated", rep.AddedOrUpdated).
			Int("errors", rep.Errors).
			Msg("committee refresh done")
	}

	if *prune {
		rep, err := runner.Prune(ctx, jobsdomain.PruneParams{Confirm: true})
		if err != nil {
			l.Panic().Err(err).Msg("prune failed")
		}
		l.Info().Int("kept", rep.Kept).Int("pruned", rep.Pruned).Msg("prune done")
	}
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
