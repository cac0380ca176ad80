// Package source reads competitor platform exports and exposes them as
// record streams for a migration run. CSV is the interchange format; files
// can live on local disk or in S3-compatible object storage.
package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

// sampleValuesPerField caps how many example values planning sees per column.
const sampleValuesPerField = 5

// Opener resolves a file reference to a readable stream. References with an
// s3:// scheme need an S3-configured opener; see S3Reader.
type Opener func(ctx context.Context, path string) (io.ReadCloser, error)

// LocalOpener opens references as local filesystem paths.
func LocalOpener(_ context.Context, path string) (io.ReadCloser, error) {
	return os.Open(path)
}

// Source is a CSV-backed record source: one file per entity type, streamed
// row by row. The first row of each file is the header; header names become
// the source field names handed to mapping resolution.
type Source struct {
	files map[domain.EntityType]string
	open  Opener
}

// NewCSVSource builds a Source over the given entity-type-to-file mapping.
// A nil opener reads from the local filesystem.
func NewCSVSource(files map[domain.EntityType]string, open Opener) (*Source, error) {
	if len(files) == 0 {
		return nil, domain.ErrValidation("source has no entity files")
	}
	for et, path := range files {
		if !domain.IsValidEntityType(string(et)) {
			return nil, domain.ErrValidation("unknown entity type: %s", et)
		}
		if strings.TrimSpace(path) == "" {
			return nil, domain.ErrValidation("empty file reference for entity type %s", et)
		}
	}
	if open == nil {
		open = LocalOpener
	}
	return &Source{files: files, open: open}, nil
}

// EntityTypes returns the entity types this source carries, sorted.
func (s *Source) EntityTypes() []domain.EntityType {
	types := make([]domain.EntityType, 0, len(s.files))
	for et := range s.files {
		types = append(types, et)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// SampleFields reads the header and up to limit rows, returning the source
// fields in header order with a few example values each.
func (s *Source) SampleFields(ctx context.Context, et domain.EntityType, limit int) ([]domain.SourceField, error) {
	it, err := s.Records(ctx, et)
	if err != nil {
		return nil, err
	}
	defer it.Close() //nolint:errcheck

	ci := it.(*csvIterator)
	fields := make([]domain.SourceField, len(ci.header))
	for i, name := range ci.header {
		fields[i] = domain.SourceField{Name: name}
	}

	for read := 0; limit <= 0 || read < limit; read++ {
		rec, err := it.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i, name := range ci.header {
			f := &fields[i]
			if len(f.SampleValues) >= sampleValuesPerField {
				continue
			}
			if v := rec.Values[name]; v != "" {
				f.SampleValues = append(f.SampleValues, v)
			}
		}
	}
	return fields, nil
}

// Records opens the entity type's file and returns a streaming iterator.
func (s *Source) Records(ctx context.Context, et domain.EntityType) (domain.RecordIterator, error) {
	path, ok := s.files[et]
	if !ok {
		return nil, domain.ErrNotFound("no file for entity type %s", et)
	}
	rc, err := s.open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("open %s source %q: %w", et, path, err)
	}

	r := csv.NewReader(rc)
	r.FieldsPerRecord = -1 // exports are frequently ragged
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		rc.Close() //nolint:errcheck
		return nil, domain.ErrValidation("%s source %q is empty", et, path)
	}
	if err != nil {
		rc.Close() //nolint:errcheck
		return nil, fmt.Errorf("read %s header from %q: %w", et, path, err)
	}

	return &csvIterator{
		entityType: et,
		rc:         rc,
		r:          r,
		header:     cleanHeader(header),
	}, nil
}

// cleanHeader trims whitespace and strips the UTF-8 BOM some exporters
// prepend to the first column name.
func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\uFEFF")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}

type csvIterator struct {
	entityType domain.EntityType
	rc         io.ReadCloser
	r          *csv.Reader
	header     []string
	rowIndex   int
}

// Next returns the next data row, skipping rows with no values at all.
// Row indices are 1-based over data rows, matching how spreadsheet users
// count past the header.
func (it *csvIterator) Next(ctx context.Context) (*domain.ImportRecord, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := it.r.Read()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", it.entityType, it.rowIndex+1, err)
		}
		it.rowIndex++

		values := make(map[string]string, len(it.header))
		empty := true
		for i, name := range it.header {
			if name == "" {
				continue
			}
			var v string
			if i < len(row) {
				v = strings.TrimSpace(row[i])
			}
			values[name] = v
			if v != "" {
				empty = false
			}
		}
		if empty {
			continue
		}
		return &domain.ImportRecord{
			EntityType:     it.entityType,
			SourceRowIndex: it.rowIndex,
			Values:         values,
		}, nil
	}
}

func (it *csvIterator) Close() error {
	return it.rc.Close()
}
