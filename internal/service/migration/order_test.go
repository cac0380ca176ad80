package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/byronwade/fieldmigrate/internal/domain"
)

func TestResolveEntityOrder(t *testing.T) {
	tests := []struct {
		name    string
		input   []domain.EntityType
		want    [][]domain.EntityType
		wantErr string
	}{
		{
			name: "all entity types",
			input: []domain.EntityType{
				domain.EntityInvoices, domain.EntityCustomers, domain.EntityJobs,
				domain.EntityTeam, domain.EntityEquipment, domain.EntityProperties,
			},
			want: [][]domain.EntityType{
				{domain.EntityCustomers, domain.EntityTeam},
				{domain.EntityProperties},
				{domain.EntityEquipment, domain.EntityJobs},
				{domain.EntityInvoices},
			},
		},
		{
			name:  "subset keeps relative order",
			input: []domain.EntityType{domain.EntityInvoices, domain.EntityJobs, domain.EntityCustomers},
			want: [][]domain.EntityType{
				{domain.EntityCustomers},
				{domain.EntityJobs},
				{domain.EntityInvoices},
			},
		},
		{
			name:  "absent dependencies are ignored",
			input: []domain.EntityType{domain.EntityJobs},
			want:  [][]domain.EntityType{{domain.EntityJobs}},
		},
		{
			name:  "independent types share a level",
			input: []domain.EntityType{domain.EntityTeam, domain.EntityCustomers},
			want:  [][]domain.EntityType{{domain.EntityCustomers, domain.EntityTeam}},
		},
		{
			name:  "empty input",
			input: nil,
			want:  nil,
		},
		{
			name:    "unknown entity type",
			input:   []domain.EntityType{domain.EntityCustomers, "warehouses"},
			wantErr: "unknown entity type",
		},
		{
			name:    "duplicate entity type",
			input:   []domain.EntityType{domain.EntityCustomers, domain.EntityCustomers},
			wantErr: "duplicate entity type",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ResolveEntityOrder(tc.input)
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestResolveEntityOrderCycle(t *testing.T) {
	// The shipped dependency graph is acyclic, so a cycle has to be
	// injected for the guard to be exercised.
	orig := domain.EntityDependencies[domain.EntityCustomers]
	domain.EntityDependencies[domain.EntityCustomers] = []domain.EntityType{domain.EntityProperties}
	defer func() { domain.EntityDependencies[domain.EntityCustomers] = orig }()

	_, err := ResolveEntityOrder([]domain.EntityType{domain.EntityCustomers, domain.EntityProperties})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}
