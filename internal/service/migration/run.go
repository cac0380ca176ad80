package migration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/byronwade/fieldmigrate/internal/domain"
	"github.com/byronwade/fieldmigrate/internal/service/relationship"
)

// deferredRecord is a transformed record held back because foreign keys were
// not resolvable when its batch ran.
type deferredRecord struct {
	record      *domain.ImportRecord
	target      map[string]any
	pending     map[string]string // field → original external id
	fieldErrors []domain.FieldError
}

// jobRun carries the mutable state of one migration run.
type jobRun struct {
	svc      *Service
	opts     Options
	plans    map[domain.EntityType][]domain.FieldMapping
	rel      *relationship.Resolver
	report   *domain.Report
	deferred map[domain.EntityType][]*deferredRecord
	order    []domain.EntityType // flattened dependency order, for retry passes
	logger   *slog.Logger
}

// Plan runs the planning phase only: mapping resolution per entity type plus
// the required-field coverage check. Exposed so callers can review and
// approve a plan before running. The returned PlanningErrors are the
// coverage gaps; a non-nil error means the source itself failed.
func (s *Service) Plan(ctx context.Context, source domain.RecordSource, opts Options) (
	map[domain.EntityType][]domain.FieldMapping, []*domain.PlanningError, error) {

	plans := make(map[domain.EntityType][]domain.FieldMapping)
	var gaps []*domain.PlanningError

	types := append([]domain.EntityType(nil), source.EntityTypes()...)
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })

	for _, et := range types {
		fields, err := source.SampleFields(ctx, et, sampleLimit)
		if err != nil {
			return nil, nil, fmt.Errorf("sample %s fields: %w", et, err)
		}
		mappings, err := s.resolver.SuggestMappings(ctx, fields, et, opts.PlatformHint)
		if err != nil {
			return nil, nil, err
		}
		plans[et] = mappings

		if missing := coverageGaps(et, mappings); len(missing) > 0 {
			gaps = append(gaps, &domain.PlanningError{EntityType: et, MissingFields: missing})
		}
	}
	return plans, gaps, nil
}

// coverageGaps returns required target fields with no mapping. A split
// mapping covers every part it writes.
func coverageGaps(entityType domain.EntityType, mappings []domain.FieldMapping) []string {
	covered := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		if m.Transformation == domain.TransformSplit {
			for _, p := range m.Params.Parts {
				covered[p] = true
			}
			continue
		}
		covered[m.TargetField] = true
	}

	var missing []string
	for _, name := range domain.RequiredFields(domain.TargetSchema(entityType)) {
		if !covered[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// Run executes a migration job end to end. A planning gap is an in-band
// outcome: the report comes back with status FAILED_PLANNING and a nil
// error, and zero records have been processed. A non-nil error means the
// run itself broke (source failure, cancellation).
func (s *Service) Run(ctx context.Context, source domain.RecordSource, opts Options) (*domain.Report, error) {
	opts = opts.withDefaults()

	report := &domain.Report{
		JobID:     domain.NewID(),
		Status:    domain.JobStatusPlanning,
		DryRun:    opts.DryRun,
		StartedAt: time.Now().UTC(),
	}
	logger := s.logger.With("job_id", report.JobID)

	logger.Info("planning migration", "platform_hint", opts.PlatformHint, "dry_run", opts.DryRun)
	plans, gaps, err := s.Plan(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	if len(gaps) > 0 {
		for _, g := range gaps {
			report.PlanningErrors = append(report.PlanningErrors, g.Error())
		}
		report.Status = domain.JobStatusFailedPlanning
		report.FinishedAt = time.Now().UTC()
		logger.Error("planning failed", "errors", report.PlanningErrors)
		return report, nil
	}

	levels, err := ResolveEntityOrder(source.EntityTypes())
	if err != nil {
		return nil, err
	}

	run := &jobRun{
		svc:      s,
		opts:     opts,
		plans:    plans,
		rel:      relationship.NewResolver(),
		report:   report,
		deferred: make(map[domain.EntityType][]*deferredRecord),
		logger:   logger,
	}
	for _, level := range levels {
		run.order = append(run.order, level...)
	}

	report.Status = domain.JobStatusRunning
	logger.Info("migration running", "entity_order", run.order)
	for _, level := range levels {
		for _, et := range level {
			if err := run.processEntityType(ctx, source, et); err != nil {
				report.FinishedAt = time.Now().UTC()
				return report, err
			}
		}
	}

	report.Status = domain.JobStatusRetrying
	if err := run.retryDeferred(ctx); err != nil {
		report.FinishedAt = time.Now().UTC()
		return report, err
	}
	run.finalizeDeferred(ctx)

	report.Status = domain.JobStatusDone
	report.FinishedAt = time.Now().UTC()
	logger.Info("migration done", "failed", report.TotalFailed())
	return report, nil
}

// processEntityType streams one entity type's records in bounded batches.
func (r *jobRun) processEntityType(ctx context.Context, source domain.RecordSource, et domain.EntityType) error {
	it, err := source.Records(ctx, et)
	if err != nil {
		return fmt.Errorf("open %s records: %w", et, err)
	}
	defer it.Close() //nolint:errcheck

	plan := r.plans[et]
	batch := make([]*domain.ImportRecord, 0, r.opts.BatchSize)

	for {
		rec, err := it.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read %s record: %w", et, err)
		}
		batch = append(batch, rec)
		if len(batch) == r.opts.BatchSize {
			if err := r.processBatch(ctx, et, plan, batch); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		return r.processBatch(ctx, et, plan, batch)
	}
	return nil
}

// processBatch transforms a batch with bounded parallelism, then resolves
// relationships and writes serially. Cancellation stops new batches from
// being scheduled, but a batch that has started runs to completion so a
// written record is always registered.
func (r *jobRun) processBatch(ctx context.Context, et domain.EntityType,
	plan []domain.FieldMapping, batch []*domain.ImportRecord) error {

	if err := ctx.Err(); err != nil {
		return err
	}
	detached := context.WithoutCancel(ctx)

	// Record transformation is pure and shares no state: full parallelism
	// up to the worker limit.
	results := make([]*domain.RecordResult, len(batch))
	var g errgroup.Group
	g.SetLimit(r.opts.WorkerCount)
	for i, rec := range batch {
		g.Go(func() error {
			target, fieldErrors := r.svc.transformer.Transform(rec, plan)
			results[i] = &domain.RecordResult{Record: rec, Target: target, FieldErrors: fieldErrors}
			return nil
		})
	}
	_ = g.Wait() // workers never return errors; failures are field data

	for _, res := range results {
		pending := r.rel.ResolveForeignKeys(res.Target, et)
		if len(pending) > 0 {
			r.deferred[et] = append(r.deferred[et], &deferredRecord{
				record:      res.Record,
				target:      res.Target,
				pending:     pending,
				fieldErrors: res.FieldErrors,
			})
			r.logger.Debug("record deferred", "entity_type", et,
				"row", res.Record.SourceRowIndex, "pending", sortedKeys(pending))
			continue
		}
		r.writeAndAccount(detached, et, res)
	}
	return nil
}

// writeAndAccount writes one fully-resolved record and registers its
// canonical id. Registration is the direct continuation of a successful
// write, never a separately scheduled step.
func (r *jobRun) writeAndAccount(ctx context.Context, et domain.EntityType, res *domain.RecordResult) {
	er := r.report.Entity(et)
	externalID := res.ExternalID()

	if r.opts.DryRun {
		res.CanonicalID = "dry-run-" + domain.NewID()
	} else {
		id, err := r.svc.repo.Write(ctx, et, res.Target)
		if err != nil {
			res.Status = domain.RecordStatusFailed
			res.FailureReasons = append(res.FailureReasons, fmt.Sprintf("repository write: %v", err))
			er.Failed++
			er.FailedRecords = append(er.FailedRecords, domain.FailedRecord{
				ExternalID:     externalID,
				SourceRowIndex: res.Record.SourceRowIndex,
				Reasons:        res.FailureReasons,
			})
			r.logger.Warn("repository write failed", "entity_type", et,
				"external_id", externalID, "error", err)
			return
		}
		res.CanonicalID = id
	}

	if externalID != "" {
		r.rel.RegisterCanonicalID(et, externalID, res.CanonicalID)
	}

	if len(res.FieldErrors) > 0 || len(res.UnresolvedRefs) > 0 {
		res.Status = domain.RecordStatusPartial
		er.Partial++
	} else {
		res.Status = domain.RecordStatusSuccess
		er.Success++
	}
}

// retryDeferred replays the deferred queue in dependency order, once per
// pass. Forward references across entity types resolve here: the referenced
// entity may have been imported after the referencing record's own pass.
func (r *jobRun) retryDeferred(ctx context.Context) error {
	detached := context.WithoutCancel(ctx)

	for pass := 1; pass <= r.opts.RetryPasses; pass++ {
		remaining := 0
		for _, q := range r.deferred {
			remaining += len(q)
		}
		if remaining == 0 {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		r.logger.Info("retry pass", "pass", pass, "deferred", remaining)

		resolved := 0
		for _, et := range r.order {
			var still []*deferredRecord
			for _, d := range r.deferred[et] {
				d.pending = r.rel.ResolvePending(d.target, d.pending)
				if len(d.pending) > 0 {
					still = append(still, d)
					continue
				}
				res := &domain.RecordResult{Record: d.record, Target: d.target, FieldErrors: d.fieldErrors}
				r.writeAndAccount(detached, et, res)
				resolved++
			}
			r.deferred[et] = still
		}
		if resolved == 0 {
			return nil
		}
	}
	return nil
}

// finalizeDeferred disposes of records still unresolved after the last
// retry pass. Types are visited in dependency order and each record gets
// one last resolution attempt first, so a record written here can satisfy
// references held by a later type. Required references failing is a record
// failure; leftovers that are all optional are written as partial, with the
// unresolved marker left in place rather than the field being dropped.
func (r *jobRun) finalizeDeferred(ctx context.Context) {
	detached := context.WithoutCancel(ctx)

	for _, et := range r.order {
		required := requiredSet(et)
		er := r.report.Entity(et)

		for _, d := range r.deferred[et] {
			d.pending = r.rel.ResolvePending(d.target, d.pending)
			if len(d.pending) == 0 {
				res := &domain.RecordResult{Record: d.record, Target: d.target, FieldErrors: d.fieldErrors}
				r.writeAndAccount(detached, et, res)
				continue
			}

			var requiredPending []string
			for field := range d.pending {
				if required[field] {
					requiredPending = append(requiredPending, field)
				}
			}

			if len(requiredPending) == 0 {
				res := &domain.RecordResult{
					Record:         d.record,
					Target:         d.target,
					FieldErrors:    d.fieldErrors,
					UnresolvedRefs: sortedKeys(d.pending),
				}
				r.writeAndAccount(detached, et, res)
				continue
			}

			sort.Strings(requiredPending)
			reasons := make([]string, 0, len(requiredPending))
			for _, field := range requiredPending {
				reasons = append(reasons, fmt.Sprintf("unresolved reference %s=%q", field, d.pending[field]))
			}
			er.Failed++
			er.FailedRecords = append(er.FailedRecords, domain.FailedRecord{
				ExternalID:     externalIDOf(d.target),
				SourceRowIndex: d.record.SourceRowIndex,
				Reasons:        reasons,
			})
			r.logger.Warn("record failed after retries", "entity_type", et,
				"row", d.record.SourceRowIndex, "reasons", reasons)
		}
		r.deferred[et] = nil
	}
}

func requiredSet(entityType domain.EntityType) map[string]bool {
	set := make(map[string]bool)
	for _, name := range domain.RequiredFields(domain.TargetSchema(entityType)) {
		set[name] = true
	}
	return set
}

func externalIDOf(target map[string]any) string {
	if s, ok := target["external_id"].(string); ok {
		return s
	}
	return ""
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
