// @title         Congresswatch API
// @version       0.1.0
// @description   Feed, member cross-reference, and scan jobs for congressional discipline tracking

package main

import (
	"context"

	"github.com/joho/godotenv"

	"congresswatch/internal/adapters/congress"
	"congresswatch/internal/platform/config"
	"congresswatch/internal/platform/docstore"
	"congresswatch/internal/platform/logger"
	phttp "congresswatch/internal/platform/net/http"

	"congresswatch/internal/services/api"
)

func main() {
	_ = godotenv.Load()

	// service-scoped config for HTTP etc (CORE_API_*)
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	docsCfg := root.Prefix("CORE_DOCS_")

	// bring up logging early
	l := logger.Get()

	ctx := context.Background()
	docs := openDocs(ctx, docsCfg, l)
	client := congress.NewClient(congress.Options{
		APIKey:  root.Prefix("CONGRESS_GOV_").MustString("API_KEY"),
		BaseURL: root.Prefix("CONGRESS_GOV_").MayString("BASE_URL", ""),
	})

	// http server (reads CORE_API_PORT / CORE_API_ADDR)
	srv := phttp.NewServer(apiCfg)

	// mount our API
	api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Docs:           docs,
			Congress:       client,
			Logger:         l,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", true),
		},
	)

	// run
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
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
