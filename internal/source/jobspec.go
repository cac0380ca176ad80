package source

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

// JobSpec is the YAML description of one migration job: which platform the
// exports came from and one export file per entity type. File references
// are local paths or s3:// URIs.
//
//	platform: housecall-pro
//	dry_run: false
//	entities:
//	  customers: exports/customers.csv
//	  jobs: s3://acme-exports/jobs.csv
type JobSpec struct {
	Platform string            `yaml:"platform"`
	DryRun   bool              `yaml:"dry_run"`
	Entities map[string]string `yaml:"entities"`
}

// LoadJobSpec reads and validates a job spec file. Unknown YAML fields are
// rejected so typos surface before a run starts.
func LoadJobSpec(path string) (*JobSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job spec: %w", err)
	}

	var spec JobSpec
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&spec); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if len(spec.Entities) == 0 {
		return nil, domain.ErrValidation("%s: job spec lists no entities", path)
	}
	for name, ref := range spec.Entities {
		if !domain.IsValidEntityType(name) {
			return nil, domain.ErrValidation("%s: unknown entity type %q", path, name)
		}
		if ref == "" {
			return nil, domain.ErrValidation("%s: entity %q has no file reference", path, name)
		}
	}
	return &spec, nil
}

// EntityFiles returns the entity map keyed by typed entity type, ready for
// NewCSVSource.
func (j *JobSpec) EntityFiles() map[domain.EntityType]string {
	files := make(map[domain.EntityType]string, len(j.Entities))
	for name, ref := range j.Entities {
		files[domain.EntityType(name)] = ref
	}
	return files
}
