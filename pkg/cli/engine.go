package cli

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/byronwade/fieldmigrate/internal/config"
	"github.com/byronwade/fieldmigrate/internal/db"
	"github.com/byronwade/fieldmigrate/internal/db/repository"
	"github.com/byronwade/fieldmigrate/internal/service/mapping"
	"github.com/byronwade/fieldmigrate/internal/service/migration"
	"github.com/byronwade/fieldmigrate/internal/service/transform"
	"github.com/byronwade/fieldmigrate/internal/source"
)

// engine bundles the wired migration service with its backing store.
type engine struct {
	svc  *migration.Service
	jobs *repository.JobRepo
	pool *sql.DB
}

func buildEngine(cfg *config.Config, logger *slog.Logger) (*engine, error) {
	pool, err := db.OpenSQLite(cfg.MetaDBPath)
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(pool); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("migrate canonical store: %w", err)
	}

	repo := repository.NewThrottledRepository(
		repository.NewEntityRepo(pool), cfg.WriteRateRPS, cfg.WriteRateBurst)

	svc := migration.NewService(
		mapping.NewResolver(mapping.DefaultPresets(), cfg.SuggestionTimeout, logger),
		transform.NewRecordTransformer(cfg.DefaultCountryCode),
		repo,
		logger,
	)

	return &engine{svc: svc, jobs: repository.NewJobRepo(pool), pool: pool}, nil
}

func (e *engine) Close() error {
	return e.pool.Close()
}

// buildSource turns a job spec into a record source, wiring S3 access when
// configured. Local-only jobs work without any S3 configuration.
func buildSource(cfg *config.Config, spec *source.JobSpec) (*source.Source, error) {
	var reader *source.S3Reader
	if cfg.HasS3Config() {
		var err error
		reader, err = source.NewS3Reader(cfg)
		if err != nil {
			return nil, err
		}
	}
	return source.NewCSVSource(spec.EntityFiles(), reader.Opener())
}

func runOptions(cfg *config.Config, spec *source.JobSpec) migration.Options {
	return migration.Options{
		WorkerCount:  cfg.WorkerCount,
		BatchSize:    cfg.BatchSize,
		RetryPasses:  cfg.RetryPasses,
		PlatformHint: spec.Platform,
		DryRun:       spec.DryRun,
	}
}
