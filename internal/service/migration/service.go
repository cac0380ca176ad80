package migration

import (
	"log/slog"

	"github.com/byronwade/fieldmigrate/internal/domain"
	"github.com/byronwade/fieldmigrate/internal/service/mapping"
	"github.com/byronwade/fieldmigrate/internal/service/transform"
)

// sampleLimit bounds how many rows are sampled per entity type during planning.
const sampleLimit = 20

// Options tunes one migration run.
type Options struct {
	WorkerCount  int    // bounded parallelism per batch (default 4)
	BatchSize    int    // records per batch (default 100)
	RetryPasses  int    // deferred-queue replay passes (default 2)
	PlatformHint string // passed to the suggestion source
	// DryRun pushes every record through the full pipeline but skips
	// repository writes; canonical ids are synthesized so relationship
	// resolution is still exercised.
	DryRun bool
}

func (o Options) withDefaults() Options {
	opts := o
	if opts.WorkerCount < 1 {
		opts.WorkerCount = 4
	}
	if opts.BatchSize < 1 {
		opts.BatchSize = 100
	}
	if opts.RetryPasses <= 0 {
		opts.RetryPasses = 2
	}
	return opts
}

// Service orchestrates migration jobs: it owns the planning step, drives the
// record pipeline in dependency order, and accounts for every record in the
// final report.
type Service struct {
	resolver    *mapping.Resolver
	transformer *transform.RecordTransformer
	repo        domain.Repository
	logger      *slog.Logger
}

// NewService creates a migration Service.
func NewService(resolver *mapping.Resolver, transformer *transform.RecordTransformer,
	repo domain.Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{
		resolver:    resolver,
		transformer: transformer,
		repo:        repo,
		logger:      logger,
	}
}
