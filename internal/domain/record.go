package domain

// Record status constants.
const (
	RecordStatusSuccess = "SUCCESS"
	RecordStatusPartial = "PARTIAL"
	RecordStatusFailed  = "FAILED"
)

// UnresolvedMarker is written into a foreign-key field whose external id has
// no canonical id yet. Explicit so an unresolved reference is never confused
// with a raw source identifier.
const UnresolvedMarker = "__unresolved__"

// ImportRecord is one source row plus its lineage. Immutable input.
type ImportRecord struct {
	EntityType     EntityType
	SourceRowIndex int
	Values         map[string]string
}

// FieldError is a recoverable, per-field failure: a missing required source
// value, a validation rule failure, or an unparsable transformation result.
type FieldError struct {
	Field   string
	Message string
}

// RecordResult is the outcome of pushing one ImportRecord through the
// transform and relationship-resolution pipeline.
type RecordResult struct {
	Record         *ImportRecord
	Target         map[string]any
	Status         string
	FieldErrors    []FieldError
	UnresolvedRefs []string
	CanonicalID    string
	// FailureReasons is populated when Status is FAILED: exhausted
	// unresolved references or a repository write error.
	FailureReasons []string
}

// ExternalID returns the source platform's identifier for the record, taken
// from the mapped external_id target field. Falls back to empty when the
// plan produced none.
func (r *RecordResult) ExternalID() string {
	if r.Target == nil {
		return ""
	}
	if v, ok := r.Target["external_id"]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
