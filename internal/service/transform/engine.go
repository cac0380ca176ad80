// Package transform implements the per-field transformation engine and the
// record transformer that applies a resolved mapping plan to source rows.
package transform

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

// Result is the outcome of applying one transformation. Either Value is set,
// or Group holds a set of target fields (split produces a field group that
// the caller merges into the target record).
type Result struct {
	Value any
	Group map[string]any
}

// dateLayouts are tried in order when converting to a date. Source platforms
// export a mix of ISO and US-style formats.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006",
	"1/2/2006",
}

// Apply runs one transformation against a source value. It is total: it
// never fails, and inputs that cannot be transformed pass through unchanged.
// Convert-to-number is the exception and yields NaN; callers needing strict
// validation attach a ValidationRule.
func Apply(value string, kind domain.TransformationKind, params domain.TransformParams, target map[string]any) Result {
	switch kind {
	case domain.TransformSplit:
		return Result{Group: applySplit(value, params)}
	case domain.TransformJoin:
		return Result{Value: applyJoin(params, target)}
	case domain.TransformConvert:
		return Result{Value: applyConvert(value, params.To)}
	case domain.TransformLookup:
		if mapped, ok := params.Map[value]; ok {
			return Result{Value: mapped}
		}
		return Result{Value: value} // fail-open: unknown keys pass through
	case domain.TransformCustom:
		if params.Custom != nil {
			return Result{Value: params.Custom(value, target)}
		}
		return Result{Value: value}
	default: // direct
		return Result{Value: value}
	}
}

// applySplit splits a value on the delimiter and zips the segments onto the
// configured part names by position. Missing segments become empty strings.
func applySplit(value string, params domain.TransformParams) map[string]any {
	delimiter := params.Delimiter
	if delimiter == "" {
		delimiter = " "
	}
	segments := strings.Split(value, delimiter)

	group := make(map[string]any, len(params.Parts))
	for i, part := range params.Parts {
		if part == "" {
			continue
		}
		if i < len(segments) {
			group[part] = strings.TrimSpace(segments[i])
		} else {
			group[part] = ""
		}
	}
	return group
}

// applyJoin reads already-populated fields off the target record, drops
// empty values, and joins the rest.
func applyJoin(params domain.TransformParams, target map[string]any) string {
	delimiter := params.Delimiter
	if delimiter == "" {
		delimiter = " "
	}
	var parts []string
	for _, field := range params.Fields {
		v, ok := target[field]
		if !ok || v == nil {
			continue
		}
		s, ok := v.(string)
		if !ok || s == "" {
			continue
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, delimiter)
}

func applyConvert(value, to string) any {
	switch to {
	case domain.FieldTypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return math.NaN()
		}
		return n
	case domain.FieldTypeBoolean:
		switch strings.ToLower(strings.TrimSpace(value)) {
		case "true", "yes", "y", "1", "active":
			return true
		case "false", "no", "n", "0", "inactive":
			return false
		}
		return value
	case domain.FieldTypeDate:
		trimmed := strings.TrimSpace(value)
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, trimmed); err == nil {
				return ts.UTC().Format(time.RFC3339)
			}
		}
		return value
	default: // string
		return value
	}
}
