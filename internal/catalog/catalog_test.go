package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sevaportal/internal/repository"
)

func TestServicesAreComplete(t *testing.T) {
	services := Services()
	assert.Len(t, services, 30)

	names := make(map[string]bool)
	for _, s := range services {
		assert.NotEmpty(t, s.Name)
		assert.NotEmpty(t, s.Category)
		assert.True(t, s.Price.IsPositive(), s.Name)
		assert.NotEmpty(t, s.Requirements, s.Name)
		assert.False(t, names[s.Name], "duplicate service %q", s.Name)
		names[s.Name] = true
		if s.Badge == "" {
			assert.Empty(t, s.BadgeColor, s.Name)
		}
	}
}

func TestServicesReturnsIndependentCopies(t *testing.T) {
	first := Services()
	first[0].Requirements[0] = "mutated"
	assert.NotEqual(t, "mutated", Services()[0].Requirements[0])
}

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryStore().Services()

	n, err := Seed(ctx, repo)
	require.NoError(t, err)
	assert.Equal(t, 30, n)

	n, err = Seed(ctx, repo)
	require.NoError(t, err)
	assert.Zero(t, n)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 30)
	for i, s := range all {
		assert.Equal(t, uint(i+1), s.ID)
	}
}

func TestCategoryFilterMatchesSeededSubset(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewMemoryStore().Services()
	_, err := Seed(ctx, repo)
	require.NoError(t, err)

	for _, category := range []string{CategoryIdentity, CategoryTravel, CategoryCertificates, CategoryTax, CategoryVehicle, CategoryProperty, CategoryWelfare} {
		t.Run(category, func(t *testing.T) {
			var want []string
			for _, s := range Services() {
				if s.Category == category {
					want = append(want, s.Name)
				}
			}

			got, err := repo.ListByCategory(ctx, category)
			require.NoError(t, err)
			var names []string
			var lastID uint
			for _, s := range got {
				names = append(names, s.Name)
				assert.Greater(t, s.ID, lastID)
				lastID = s.ID
			}
			assert.Equal(t, want, names)
		})
	}
}

func TestEveryServiceUsesADeclaredCategory(t *testing.T) {
	declared := map[string]bool{
		CategoryIdentity: true, CategoryTravel: true, CategoryCertificates: true, CategoryTax: true,
		CategoryVehicle: true, CategoryProperty: true, CategoryWelfare: true,
	}
	used := make(map[string]bool)
	for _, s := range Services() {
		assert.True(t, declared[s.Category], "%s has undeclared category %q", s.Name, s.Category)
		used[s.Category] = true
	}
	assert.Len(t, used, len(declared))
}
