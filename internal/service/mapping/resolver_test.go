package mapping

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

type stubSuggestionSource struct {
	mappings []domain.FieldMapping
	err      error
	delay    time.Duration
	calls    int
}

func (s *stubSuggestionSource) Suggest(ctx context.Context, _ []domain.SourceField,
	_ []domain.SchemaField, _ domain.EntityType, _ string) ([]domain.FieldMapping, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.mappings, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func sourceFields(names ...string) []domain.SourceField {
	fields := make([]domain.SourceField, len(names))
	for i, n := range names {
		fields[i] = domain.SourceField{Name: n}
	}
	return fields
}

func TestSuggestMappings_SuggestionSourceAcceptedAsIs(t *testing.T) {
	suggested := []domain.FieldMapping{
		{SourceField: "Client Email", TargetField: "email", Transformation: domain.TransformDirect, Confidence: 0.93, Required: true},
		{SourceField: "Client", TargetField: "display_name", Transformation: domain.TransformDirect, Confidence: 0.88},
	}
	src := &stubSuggestionSource{mappings: suggested}
	r := NewResolver(src, time.Second, discardLogger())

	got, err := r.SuggestMappings(context.Background(), sourceFields("Client Email", "Client"),
		domain.EntityCustomers, "")
	require.NoError(t, err)

	// Candidates win as-is: the resolver does not second-guess confidence
	// or transformation choice.
	assert.Equal(t, suggested, got)
	assert.Equal(t, 1, src.calls)
}

func TestSuggestMappings_UnknownTargetDropped(t *testing.T) {
	src := &stubSuggestionSource{mappings: []domain.FieldMapping{
		{SourceField: "Email", TargetField: "email", Transformation: domain.TransformDirect, Confidence: 0.9},
		{SourceField: "Shoe Size", TargetField: "shoe_size", Transformation: domain.TransformDirect, Confidence: 0.9},
	}}
	r := NewResolver(src, time.Second, discardLogger())

	got, err := r.SuggestMappings(context.Background(), sourceFields("Email", "Shoe Size"),
		domain.EntityCustomers, "")
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, "email", got[0].TargetField)
}

func TestSuggestMappings_AllTargetsUnknownFallsBack(t *testing.T) {
	src := &stubSuggestionSource{mappings: []domain.FieldMapping{
		{SourceField: "X", TargetField: "not_a_field", Transformation: domain.TransformDirect},
	}}
	r := NewResolver(src, time.Second, discardLogger())

	got, err := r.SuggestMappings(context.Background(), sourceFields("Email"),
		domain.EntityCustomers, "")
	require.NoError(t, err)

	// Malformed response → heuristic fallback.
	require.Len(t, got, 1)
	assert.Equal(t, "Email", got[0].SourceField)
	assert.InDelta(t, 0.7, got[0].Confidence, 1e-9)
}

func TestSuggestMappings_SourceErrorFallsBack(t *testing.T) {
	src := &stubSuggestionSource{err: domain.ErrValidation("model unavailable")}
	r := NewResolver(src, time.Second, discardLogger())

	got, err := r.SuggestMappings(context.Background(), sourceFields("Email", "Phone"),
		domain.EntityCustomers, "")
	require.NoError(t, err, "suggestion source failure must never fail the job")

	require.Len(t, got, 2)
	for _, m := range got {
		assert.Equal(t, domain.TransformDirect, m.Transformation)
		assert.InDelta(t, 0.7, m.Confidence, 1e-9)
	}
}

func TestSuggestMappings_TimeoutFallsBack(t *testing.T) {
	src := &stubSuggestionSource{delay: 500 * time.Millisecond}
	r := NewResolver(src, 10*time.Millisecond, discardLogger())

	start := time.Now()
	got, err := r.SuggestMappings(context.Background(), sourceFields("Email"),
		domain.EntityCustomers, "")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 400*time.Millisecond, "timeout must cut the call short")

	require.Len(t, got, 1)
	assert.InDelta(t, 0.7, got[0].Confidence, 1e-9)
}

func TestSuggestMappings_NoSuggestionSource(t *testing.T) {
	r := NewResolver(nil, 0, discardLogger())

	got, err := r.SuggestMappings(context.Background(),
		sourceFields("Email Address", "Client Phone", "First Name"),
		domain.EntityCustomers, "")
	require.NoError(t, err)

	byTarget := make(map[string]domain.FieldMapping, len(got))
	for _, m := range got {
		byTarget[m.TargetField] = m
	}

	assert.Equal(t, "Email Address", byTarget["email"].SourceField, "containment match")
	assert.Equal(t, "Client Phone", byTarget["phone"].SourceField)
	assert.Equal(t, "First Name", byTarget["first_name"].SourceField, "exact after normalization")
	assert.InDelta(t, 0.7, byTarget["first_name"].Confidence, 1e-9)
}

func TestSuggestMappings_HeuristicMissesSemanticMatch(t *testing.T) {
	r := NewResolver(nil, 0, discardLogger())

	// Documented precision/availability trade-off: "Client" → display_name
	// is a semantic match the substring heuristic cannot find.
	got, err := r.SuggestMappings(context.Background(), sourceFields("Client"),
		domain.EntityCustomers, "")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuggestMappings_UnknownEntityType(t *testing.T) {
	r := NewResolver(nil, 0, discardLogger())

	_, err := r.SuggestMappings(context.Background(), sourceFields("Email"),
		domain.EntityType("vehicles"), "")
	require.Error(t, err)
	var verr *domain.ValidationError
	assert.ErrorAs(t, err, &verr)
}

func TestHeuristicMappings_OneSourceOneTarget(t *testing.T) {
	schema := domain.TargetSchema(domain.EntityCustomers)

	// "Phone" matches both phone (exact) and secondary_phone (containment).
	// The exact match claims the source column; the containment match must
	// not produce a second mapping off the same column.
	got := heuristicMappings(sourceFields("Phone"), schema)

	require.Len(t, got, 1)
	assert.Equal(t, "phone", got[0].TargetField)
}

func TestSuggestMappings_CandidatesSliceNotMutated(t *testing.T) {
	candidates := []domain.FieldMapping{
		{SourceField: "Email", TargetField: "email", Transformation: domain.TransformDirect, Confidence: 0.9},
		{SourceField: "Shoe Size", TargetField: "shoe_size", Transformation: domain.TransformDirect, Confidence: 0.9},
		{SourceField: "Phone", TargetField: "phone", Transformation: domain.TransformDirect, Confidence: 0.9},
	}
	original := make([]domain.FieldMapping, len(candidates))
	copy(original, candidates)

	src := &stubSuggestionSource{mappings: candidates}
	r := NewResolver(src, time.Second, discardLogger())

	got, err := r.SuggestMappings(context.Background(),
		sourceFields("Email", "Shoe Size", "Phone"), domain.EntityCustomers, "")
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Filtering must not rearrange the source's backing storage.
	assert.Equal(t, original, candidates)
}

func TestHeuristicMappings_BestOfCompetingSources(t *testing.T) {
	schema := domain.TargetSchema(domain.EntityCustomers)
	fields := sourceFields("Email", "Customer Email Backup")

	got := heuristicMappings(fields, schema)

	byTarget := make(map[string]string, len(got))
	for _, m := range got {
		byTarget[m.TargetField] = m.SourceField
	}
	assert.Equal(t, "Email", byTarget["email"], "exact match beats containment")
}
