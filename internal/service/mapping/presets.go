package mapping

import (
	"context"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

// presetConfidence ranks preset alias matches above the heuristic fallback:
// presets are curated per platform, not guessed.
const presetConfidence = 0.95

// SplitPreset declares a source column that fans out into several target
// fields, e.g. "Full Name" → first_name + last_name.
type SplitPreset struct {
	Source    string   `yaml:"source"`
	Delimiter string   `yaml:"delimiter"`
	Parts     []string `yaml:"parts"`
}

// EntityPreset holds the curated mapping knowledge for one entity type of
// one platform.
type EntityPreset struct {
	// Aliases maps a target field name to the source column names the
	// platform is known to export it under, in preference order.
	Aliases map[string][]string `yaml:"aliases"`
	Splits  []SplitPreset       `yaml:"splits"`
}

// PlatformPreset is the curated export format of one competing platform.
type PlatformPreset struct {
	Name     string                  `yaml:"name"`
	Entities map[string]EntityPreset `yaml:"entities"`
}

type presetFile struct {
	Platforms []PlatformPreset `yaml:"platforms"`
}

// PresetSuggestionSource satisfies domain.SuggestionSource from curated
// per-platform mapping presets. It is the shipped stand-in for the external
// model-backed suggestion collaborator: same contract, no network.
type PresetSuggestionSource struct {
	platforms map[string]PlatformPreset
}

// NewPresetSuggestionSource builds a suggestion source from presets.
func NewPresetSuggestionSource(presets []PlatformPreset) *PresetSuggestionSource {
	platforms := make(map[string]PlatformPreset, len(presets))
	for _, p := range presets {
		platforms[NormalizeFieldName(p.Name)] = p
	}
	return &PresetSuggestionSource{platforms: platforms}
}

// LoadPresets reads platform presets from a YAML file.
func LoadPresets(path string) (*PresetSuggestionSource, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is caller-controlled
	if err != nil {
		return nil, err
	}
	return parsePresets(data)
}

// DefaultPresets returns the presets embedded in the binary.
func DefaultPresets() *PresetSuggestionSource {
	src, err := parsePresets(embeddedPresets)
	if err != nil {
		// The embedded file is part of the build; a parse failure is a bug.
		panic("embedded presets: " + err.Error())
	}
	return src
}

func parsePresets(data []byte) (*PresetSuggestionSource, error) {
	var f presetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, domain.ErrValidation("parse presets: %v", err)
	}
	for _, p := range f.Platforms {
		if p.Name == "" {
			return nil, domain.ErrValidation("preset platform with empty name")
		}
		for entity := range p.Entities {
			if !domain.IsValidEntityType(entity) {
				return nil, domain.ErrValidation("preset %s: unknown entity type %q", p.Name, entity)
			}
		}
	}
	return NewPresetSuggestionSource(f.Platforms), nil
}

// Platforms lists the known platform names.
func (s *PresetSuggestionSource) Platforms() []string {
	names := make([]string, 0, len(s.platforms))
	for _, p := range s.platforms {
		names = append(names, p.Name)
	}
	return names
}

// Suggest resolves mappings from the preset of the hinted platform. An
// unknown platform or an entity type the preset does not cover returns an
// error, which the resolver treats as "unavailable" and falls back on.
func (s *PresetSuggestionSource) Suggest(ctx context.Context, sourceFields []domain.SourceField,
	targetSchema []domain.SchemaField, entityType domain.EntityType, platformHint string) ([]domain.FieldMapping, error) {

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	platform, ok := s.platforms[NormalizeFieldName(platformHint)]
	if !ok {
		return nil, domain.ErrNotFound("no preset for platform %q", platformHint)
	}
	preset, ok := platform.Entities[string(entityType)]
	if !ok {
		return nil, domain.ErrNotFound("preset %s does not cover %s", platform.Name, entityType)
	}

	bySource := make(map[string]string, len(sourceFields))
	for _, f := range sourceFields {
		bySource[normalizeHeader(f.Name)] = f.Name
	}

	required := make(map[string]bool, len(targetSchema))
	for _, f := range targetSchema {
		required[f.Name] = f.Required
	}

	var mappings []domain.FieldMapping
	for _, target := range targetSchema {
		aliases, ok := preset.Aliases[target.Name]
		if !ok {
			continue
		}
		for _, alias := range aliases {
			source, ok := bySource[normalizeHeader(alias)]
			if !ok {
				continue
			}
			mappings = append(mappings, domain.FieldMapping{
				SourceField:    source,
				TargetField:    target.Name,
				Transformation: domain.TransformDirect,
				Confidence:     presetConfidence,
				Required:       required[target.Name],
			})
			break
		}
	}

	for _, split := range preset.Splits {
		source, ok := bySource[normalizeHeader(split.Source)]
		if !ok {
			continue
		}
		mappings = append(mappings, domain.FieldMapping{
			SourceField:    source,
			TargetField:    firstPart(split.Parts),
			Transformation: domain.TransformSplit,
			Params:         domain.TransformParams{Delimiter: split.Delimiter, Parts: split.Parts},
			Confidence:     presetConfidence,
		})
	}

	if len(mappings) == 0 {
		return nil, domain.ErrNotFound("preset %s matched no source fields for %s", platform.Name, entityType)
	}
	return mappings, nil
}

// normalizeHeader trims and lowercases a source column header for alias
// comparison, keeping spaces so "First Name" and "FirstName" stay distinct
// in the preset file but compare case-insensitively.
func normalizeHeader(name string) string {
	return strings.ToLower(strings.TrimSpace(strings.Trim(name, `"'`)))
}

func firstPart(parts []string) string {
	for _, p := range parts {
		if p != "" {
			return p
		}
	}
	return ""
}
