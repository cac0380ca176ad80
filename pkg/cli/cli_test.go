package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byronwade/fieldmigrate/internal/db"
	"github.com/byronwade/fieldmigrate/internal/db/repository"
	"github.com/byronwade/fieldmigrate/internal/domain"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunCommandEndToEnd(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "store.sqlite")
	t.Setenv("META_DB_PATH", dbPath)

	writeTestFile(t, dir, "customers.csv",
		"Customer ID,Email,First Name\n"+
			"C1,ann@example.com,Ann\n"+
			"C2,bob@example.com,Bob\n")
	jobPath := writeTestFile(t, dir, "job.yaml",
		"platform: housecall-pro\n"+
			"entities:\n"+
			"  customers: "+filepath.Join(dir, "customers.csv")+"\n")

	root := newRootCmd()
	root.SetArgs([]string{"run", jobPath, "--env-file", filepath.Join(dir, "nope.env")})
	require.NoError(t, root.Execute())

	pool, err := db.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer pool.Close() //nolint:errcheck

	n, err := repository.NewEntityRepo(pool).Count(context.Background(), domain.EntityCustomers)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	jobs, err := repository.NewJobRepo(pool).ListJobs(context.Background())
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, domain.JobStatusDone, jobs[0].Status)

	// Listing runs cleanly against the same store.
	list := newRootCmd()
	list.SetArgs([]string{"jobs", "--env-file", filepath.Join(dir, "nope.env")})
	require.NoError(t, list.Execute())
}

func TestRunCommandDryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "store.sqlite")
	t.Setenv("META_DB_PATH", dbPath)

	writeTestFile(t, dir, "team.csv",
		"external_id,first_name,email\nT1,Tess,tess@example.com\n")
	jobPath := writeTestFile(t, dir, "job.yaml",
		"dry_run: true\n"+
			"entities:\n"+
			"  team: "+filepath.Join(dir, "team.csv")+"\n")

	root := newRootCmd()
	root.SetArgs([]string{"run", jobPath, "--env-file", filepath.Join(dir, "nope.env")})
	require.NoError(t, root.Execute())

	pool, err := db.OpenSQLite(dbPath)
	require.NoError(t, err)
	defer pool.Close() //nolint:errcheck

	n, err := repository.NewEntityRepo(pool).Count(context.Background(), domain.EntityTeam)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSchemaCommand(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"schema", "customers"})
	require.NoError(t, root.Execute())

	bad := newRootCmd()
	bad.SetArgs([]string{"schema", "warehouses"})
	require.Error(t, bad.Execute())
}
