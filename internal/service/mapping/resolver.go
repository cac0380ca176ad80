package mapping

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

// fallbackConfidence is assigned to every heuristic name match. The fallback
// trades precision for availability: it misses semantic matches ("Client" →
// "customer") but needs no external collaborator.
const fallbackConfidence = 0.7

// Resolver produces the import plan for one entity type. A suggestion
// source, when configured and healthy, wins outright; the similarity
// heuristic is the fallback for every failure mode including timeout.
type Resolver struct {
	suggestions domain.SuggestionSource // optional
	timeout     time.Duration
	logger      *slog.Logger
}

// NewResolver creates a Resolver. suggestions may be nil, in which case only
// the heuristic path runs.
func NewResolver(suggestions domain.SuggestionSource, timeout time.Duration, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Resolver{suggestions: suggestions, timeout: timeout, logger: logger}
}

// SuggestMappings maps source fields onto the target schema for entityType.
// It never fails because the suggestion source is unavailable; the only
// error is an unknown entity type. It does not guarantee required-field
// coverage — that check belongs to the orchestrator's planning phase.
func (r *Resolver) SuggestMappings(ctx context.Context, sourceFields []domain.SourceField,
	entityType domain.EntityType, platformHint string) ([]domain.FieldMapping, error) {

	schema := domain.TargetSchema(entityType)
	if schema == nil {
		return nil, domain.ErrValidation("unknown entity type %q", entityType)
	}

	if r.suggestions != nil {
		suggested, err := r.suggest(ctx, sourceFields, schema, entityType, platformHint)
		if err != nil {
			r.logger.Warn("suggestion source unavailable, using heuristic fallback",
				"entity_type", entityType, "error", err)
		} else if len(suggested) > 0 {
			return suggested, nil
		}
	}

	return heuristicMappings(sourceFields, schema), nil
}

// suggest calls the external suggestion source under the configured timeout
// and sanitizes its response. A response that maps onto no known target
// field is treated as malformed.
func (r *Resolver) suggest(ctx context.Context, sourceFields []domain.SourceField,
	schema []domain.SchemaField, entityType domain.EntityType, platformHint string) ([]domain.FieldMapping, error) {

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	candidates, err := r.suggestions.Suggest(ctx, sourceFields, schema, entityType, platformHint)
	if err != nil {
		return nil, err
	}

	known := make(map[string]domain.SchemaField, len(schema))
	for _, f := range schema {
		known[f.Name] = f
	}

	// Candidate mappings are accepted as-is — they already carry confidence
	// and transformation choice. Only mappings onto fields outside the
	// target schema are dropped: the resolver never fabricates targets.
	// Filtered into a fresh slice; the candidates belong to the source.
	kept := make([]domain.FieldMapping, 0, len(candidates))
	for _, m := range candidates {
		if m.Transformation == domain.TransformSplit {
			if validSplitParts(m.Params.Parts, known) {
				kept = append(kept, m)
			} else {
				r.logger.Warn("dropping suggested split onto unknown target fields",
					"entity_type", entityType, "source_field", m.SourceField)
			}
			continue
		}
		if _, ok := known[m.TargetField]; ok {
			kept = append(kept, m)
		} else {
			r.logger.Warn("dropping suggested mapping onto unknown target field",
				"entity_type", entityType, "target_field", m.TargetField)
		}
	}
	if len(kept) == 0 {
		return nil, domain.ErrValidation("suggestion source returned no usable mappings for %s", entityType)
	}
	return kept, nil
}

func validSplitParts(parts []string, known map[string]domain.SchemaField) bool {
	if len(parts) == 0 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			continue
		}
		if _, ok := known[p]; !ok {
			return false
		}
	}
	return true
}

// heuristicMappings is the deterministic fallback: normalized names that are
// equal or contain one another are matched with fixed confidence and a
// direct transformation. Assignment is one-to-one: each source field maps to
// at most one target field and vice versa, with the highest-scoring pair
// winning, so an exact match preempts containment matches on the same
// source column.
func heuristicMappings(sourceFields []domain.SourceField, schema []domain.SchemaField) []domain.FieldMapping {
	type candidate struct {
		source      string
		target      string
		score       float64
		targetIndex int
		sourceIndex int
	}
	var candidates []candidate

	for ti, target := range schema {
		b := NormalizeFieldName(target.Name)
		if b == "" {
			continue
		}
		for si, source := range sourceFields {
			a := NormalizeFieldName(source.Name)
			if a == "" {
				continue
			}
			if a != b && !strings.Contains(a, b) && !strings.Contains(b, a) {
				continue
			}
			candidates = append(candidates, candidate{
				source:      source.Name,
				target:      target.Name,
				score:       CalculateSimilarity(source.Name, target.Name),
				targetIndex: ti,
				sourceIndex: si,
			})
		}
	}

	// Best score first; ties break on schema order then source order so
	// the assignment is stable across runs.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].targetIndex != candidates[j].targetIndex {
			return candidates[i].targetIndex < candidates[j].targetIndex
		}
		return candidates[i].sourceIndex < candidates[j].sourceIndex
	})

	usedSource := make(map[string]bool, len(sourceFields))
	byTarget := make(map[string]candidate, len(schema))
	for _, c := range candidates {
		if usedSource[c.source] {
			continue
		}
		if _, taken := byTarget[c.target]; taken {
			continue
		}
		usedSource[c.source] = true
		byTarget[c.target] = c
	}

	var mappings []domain.FieldMapping
	for _, target := range schema {
		c, ok := byTarget[target.Name]
		if !ok {
			continue
		}
		mappings = append(mappings, domain.FieldMapping{
			SourceField:    c.source,
			TargetField:    target.Name,
			Transformation: domain.TransformDirect,
			Confidence:     fallbackConfidence,
			Required:       target.Required,
		})
	}
	return mappings
}
