package domain

// FieldType describes the canonical value type of a target schema field.
const (
	FieldTypeString  = "string"
	FieldTypeNumber  = "number"
	FieldTypeBoolean = "boolean"
	FieldTypeDate    = "date"
)

// SchemaField describes one attribute of the canonical target schema for one
// entity type. Immutable; defined by the target schema.
type SchemaField struct {
	Name        string
	Type        string
	Required    bool
	Description string
}

// TransformationKind selects the transformation behavior carried by a FieldMapping.
type TransformationKind string

const (
	TransformDirect  TransformationKind = "direct"
	TransformSplit   TransformationKind = "split"
	TransformJoin    TransformationKind = "join"
	TransformConvert TransformationKind = "convert"
	TransformLookup  TransformationKind = "lookup"
	TransformCustom  TransformationKind = "custom"
)

// CustomFunc is a caller-supplied transformation. The engine treats it as
// opaque. It receives the source value and the target record built so far.
type CustomFunc func(value any, target map[string]any) any

// TransformParams carries the per-kind parameters of a transformation.
type TransformParams struct {
	Delimiter string         // split, join; split defaults to a single space
	Parts     []string       // split: target sub-field names, zipped by position
	Fields    []string       // join: target-record fields populated earlier
	To        string         // convert: number, string, boolean, date
	Map       map[string]any // lookup: unmatched keys pass through unchanged
	Custom    CustomFunc     // custom
}

// ValidationRule is evaluated against the pre-transformation source value.
type ValidationRule struct {
	Kind      string // "regex" or "custom"
	Pattern   string
	Predicate func(value string) bool
	Message   string
}

// FieldMapping maps one source field onto the target schema. One list of
// these constitutes the import plan for an entity type; immutable once the
// plan is approved.
type FieldMapping struct {
	SourceField    string
	TargetField    string
	Transformation TransformationKind
	Params         TransformParams
	Confidence     float64 // 0..1
	Required       bool
	DefaultValue   any
	// DependsOn names target fields that must already be populated before
	// this mapping is applied (join prerequisites). The record transformer
	// checks it instead of relying on caller discipline.
	DependsOn []string
	Rules     []ValidationRule
}

// SourceField is a source column name with sampled values, used by the
// mapping resolver to plan an import.
type SourceField struct {
	Name         string
	SampleValues []string
}
