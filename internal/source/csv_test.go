package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCSVSourceRecords(t *testing.T) {
	path := writeFile(t, "customers.csv",
		"Customer ID,Email, First Name \n"+
			"C1,ann@example.com,Ann\n"+
			"C2,bob@example.com,Bob\n")

	src, err := NewCSVSource(map[domain.EntityType]string{domain.EntityCustomers: path}, nil)
	require.NoError(t, err)
	assert.Equal(t, []domain.EntityType{domain.EntityCustomers}, src.EntityTypes())

	it, err := src.Records(context.Background(), domain.EntityCustomers)
	require.NoError(t, err)
	defer it.Close() //nolint:errcheck

	first, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.EntityCustomers, first.EntityType)
	assert.Equal(t, 1, first.SourceRowIndex)
	// Header names are trimmed and become the value keys.
	assert.Equal(t, map[string]string{
		"Customer ID": "C1", "Email": "ann@example.com", "First Name": "Ann",
	}, first.Values)

	second, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second.SourceRowIndex)
	assert.Equal(t, "C2", second.Values["Customer ID"])

	_, err = it.Next(context.Background())
	assert.Equal(t, io.EOF, err)
}

func TestCSVSourceStripsBOM(t *testing.T) {
	path := writeFile(t, "team.csv", "\uFEFFexternal_id,email\nT1,tess@example.com\n")

	src, err := NewCSVSource(map[domain.EntityType]string{domain.EntityTeam: path}, nil)
	require.NoError(t, err)

	fields, err := src.SampleFields(context.Background(), domain.EntityTeam, 10)
	require.NoError(t, err)
	require.Len(t, fields, 2)
	assert.Equal(t, "external_id", fields[0].Name)
}

func TestCSVSourceRaggedAndEmptyRows(t *testing.T) {
	path := writeFile(t, "jobs.csv",
		"external_id,customer_id,title,notes\n"+
			"J1,C1,Tune-up\n"+ // short row, padded
			",,,\n"+ // fully empty, skipped
			"J2,C1,Repair,left gate open,extra\n") // long row, truncated

	src, err := NewCSVSource(map[domain.EntityType]string{domain.EntityJobs: path}, nil)
	require.NoError(t, err)

	it, err := src.Records(context.Background(), domain.EntityJobs)
	require.NoError(t, err)
	defer it.Close() //nolint:errcheck

	first, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "", first.Values["notes"])

	second, err := it.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "J2", second.Values["external_id"])
	assert.Equal(t, 3, second.SourceRowIndex)
	assert.Equal(t, "left gate open", second.Values["notes"])
	assert.Len(t, second.Values, 4)

	_, err = it.Next(context.Background())
	assert.Equal(t, io.EOF, err)
}

func TestCSVSourceSampleFields(t *testing.T) {
	path := writeFile(t, "customers.csv",
		"external_id,email\n"+
			"C1,ann@example.com\n"+
			"C2,\n"+
			"C3,carl@example.com\n")

	src, err := NewCSVSource(map[domain.EntityType]string{domain.EntityCustomers: path}, nil)
	require.NoError(t, err)

	fields, err := src.SampleFields(context.Background(), domain.EntityCustomers, 2)
	require.NoError(t, err)
	require.Len(t, fields, 2)

	// Only two rows are read, and empty cells contribute no samples.
	assert.Equal(t, []string{"C1", "C2"}, fields[0].SampleValues)
	assert.Equal(t, []string{"ann@example.com"}, fields[1].SampleValues)
}

func TestCSVSourceErrors(t *testing.T) {
	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "empty.csv", "")
		src, err := NewCSVSource(map[domain.EntityType]string{domain.EntityCustomers: path}, nil)
		require.NoError(t, err)

		_, err = src.Records(context.Background(), domain.EntityCustomers)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "is empty")
	})

	t.Run("missing file", func(t *testing.T) {
		src, err := NewCSVSource(map[domain.EntityType]string{domain.EntityCustomers: "/does/not/exist.csv"}, nil)
		require.NoError(t, err)

		_, err = src.Records(context.Background(), domain.EntityCustomers)
		require.Error(t, err)
	})

	t.Run("entity type not in source", func(t *testing.T) {
		path := writeFile(t, "customers.csv", "external_id\nC1\n")
		src, err := NewCSVSource(map[domain.EntityType]string{domain.EntityCustomers: path}, nil)
		require.NoError(t, err)

		_, err = src.Records(context.Background(), domain.EntityJobs)
		require.Error(t, err)
		var notFound *domain.NotFoundError
		assert.ErrorAs(t, err, &notFound)
	})

	t.Run("unknown entity type in file map", func(t *testing.T) {
		_, err := NewCSVSource(map[domain.EntityType]string{"warehouses": "x.csv"}, nil)
		require.Error(t, err)
	})

	t.Run("no files", func(t *testing.T) {
		_, err := NewCSVSource(nil, nil)
		require.Error(t, err)
	})
}
