package transform

import (
	"regexp"
	"strings"

	"github.com/byronwade/fieldmigrate/internal/domain"
	"github.com/byronwade/fieldmigrate/internal/service/normalize"
)

// RecordTransformer applies a mapping plan to one source record. It is
// stateless apart from configuration and safe for concurrent use.
type RecordTransformer struct {
	countryCode string
}

// NewRecordTransformer creates a RecordTransformer. countryCode is the
// default prefix for bare 10-digit phone numbers.
func NewRecordTransformer(countryCode string) *RecordTransformer {
	if countryCode == "" {
		countryCode = "1"
	}
	return &RecordTransformer{countryCode: countryCode}
}

// Transform applies mappings in list order — join mappings read target
// fields written by earlier mappings — and returns the target record plus
// per-field errors. Field errors never abort the record: the remaining
// mappings still run (partial-failure semantics).
func (t *RecordTransformer) Transform(record *domain.ImportRecord, mappings []domain.FieldMapping) (map[string]any, []domain.FieldError) {
	target := make(map[string]any, len(mappings))
	var fieldErrors []domain.FieldError

	for _, m := range mappings {
		raw, present := record.Values[m.SourceField]
		if strings.TrimSpace(raw) == "" {
			present = false
		}

		// join reads the target record, not the source value, so it is
		// exempt from the missing-source checks. Its declared
		// prerequisites are validated instead.
		if m.Transformation == domain.TransformJoin {
			if missing := unmetDependencies(m, target); len(missing) > 0 {
				fieldErrors = append(fieldErrors, domain.FieldError{
					Field:   m.TargetField,
					Message: "join prerequisites not populated: " + strings.Join(missing, ", "),
				})
				continue
			}
			result := Apply(raw, m.Transformation, m.Params, target)
			target[m.TargetField] = result.Value
			continue
		}

		if !present {
			if m.Required {
				fieldErrors = append(fieldErrors, domain.FieldError{
					Field:   m.TargetField,
					Message: "missing required source value",
				})
				continue
			}
			if m.DefaultValue != nil {
				target[m.TargetField] = m.DefaultValue
			}
			// Absent optional fields are skipped entirely: the repository
			// writes only present keys, never nulls.
			continue
		}

		result := Apply(raw, m.Transformation, m.Params, target)
		if result.Group != nil {
			for k, v := range result.Group {
				target[k] = v
			}
		} else {
			target[m.TargetField] = result.Value
		}

		// Rules run against the pre-transformation source value. Failures
		// are recorded but the transformed value stands.
		fieldErrors = append(fieldErrors, runRules(m, raw)...)
	}

	t.normalizeKnownFields(target)
	return target, fieldErrors
}

// unmetDependencies returns the declared prerequisite target fields that a
// join mapping needs but that are not yet populated.
func unmetDependencies(m domain.FieldMapping, target map[string]any) []string {
	deps := m.DependsOn
	if len(deps) == 0 {
		deps = m.Params.Fields
	}
	var missing []string
	for _, dep := range deps {
		if _, ok := target[dep]; !ok {
			missing = append(missing, dep)
		}
	}
	return missing
}

// runRules evaluates the mapping's validation rules against the source value.
func runRules(m domain.FieldMapping, raw string) []domain.FieldError {
	var errs []domain.FieldError
	for _, rule := range m.Rules {
		ok := true
		switch rule.Kind {
		case "regex":
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				ok = false
			} else {
				ok = re.MatchString(raw)
			}
		case "custom":
			if rule.Predicate != nil {
				ok = rule.Predicate(raw)
			}
		}
		if !ok {
			msg := rule.Message
			if msg == "" {
				msg = "validation failed"
			}
			errs = append(errs, domain.FieldError{Field: m.TargetField, Message: msg})
		}
	}
	return errs
}

// normalizeKnownFields is a second, name-driven canonicalization pass. Many
// source schemas land in these fields via direct mappings and still need
// normalization.
func (t *RecordTransformer) normalizeKnownFields(target map[string]any) {
	for field, v := range target {
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		switch field {
		case "email":
			target[field] = normalize.Email(s)
		case "phone", "secondary_phone":
			target[field] = normalize.Phone(s, t.countryCode)
		case "state":
			target[field] = normalize.RegionCode(s)
		case "zip":
			target[field] = normalize.PostalCode(s)
		}
	}
}
