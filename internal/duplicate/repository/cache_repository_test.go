package repository

import (
	"testing"
	"time"

	"contacthub-backend/internal/duplicate/domain"
	"contacthub-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(c1, c2 string, confidence float64, reasons ...string) *domain.DuplicateCacheEntry {
	return &domain.DuplicateCacheEntry{
		Contact1ID:  c1,
		Contact2ID:  c2,
		Confidence:  confidence,
		Reasons:     reasons,
		LastUpdated: time.Now(),
	}
}

func TestReplaceSwapsGeneration(t *testing.T) {
	repo := NewCacheRepository(testutil.NewTestDB(t))

	require.NoError(t, repo.Replace([]*domain.DuplicateCacheEntry{
		entry("a", "b", 1.0, "identical email"),
		entry("c", "d", 0.9, "similar full names: C D ≈ C D"),
	}))
	require.NoError(t, repo.Replace([]*domain.DuplicateCacheEntry{
		entry("e", "f", 0.7, "matching first name (E) with supporting evidence:", "  • matching last 7 digits of phone numbers"),
	}))

	entries, err := repo.List(0)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "e", entries[0].Contact1ID)
	assert.Equal(t, domain.StringArray{
		"matching first name (E) with supporting evidence:",
		"  • matching last 7 digits of phone numbers",
	}, entries[0].Reasons)
	assert.NotEmpty(t, entries[0].ID)
}

func TestReplaceWithEmptySetClearsCache(t *testing.T) {
	repo := NewCacheRepository(testutil.NewTestDB(t))

	require.NoError(t, repo.Replace([]*domain.DuplicateCacheEntry{entry("a", "b", 1.0)}))
	require.NoError(t, repo.Replace(nil))

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestListKeepsGenerationOrderAndFilters(t *testing.T) {
	repo := NewCacheRepository(testutil.NewTestDB(t))

	require.NoError(t, repo.Replace([]*domain.DuplicateCacheEntry{
		entry("z", "y", 1.0),
		entry("a", "b", 1.0),
		entry("m", "n", 0.9),
		entry("p", "q", 0.6),
	}))

	all, err := repo.List(0)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, []string{"z", "a", "m", "p"}, []string{all[0].Contact1ID, all[1].Contact1ID, all[2].Contact1ID, all[3].Contact1ID})

	strong, err := repo.List(0.9)
	require.NoError(t, err)
	assert.Len(t, strong, 3)

	// Missing reasons come back as an empty list
	assert.NotNil(t, all[0].Reasons)
	assert.Empty(t, all[0].Reasons)
}
