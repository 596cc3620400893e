package usecase

import (
	"testing"
	"time"

	contactrepo "contacthub-backend/internal/contact/repository"
	"contacthub-backend/internal/duplicate/domain"
	"contacthub-backend/internal/duplicate/repository"
	statusrepo "contacthub-backend/internal/status/repository"
	"contacthub-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	usecase  DuplicateUsecase
	contacts contactrepo.ContactRepository
	cache    repository.CacheRepository
	status   statusrepo.StatusRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := &fixture{
		contacts: contactrepo.NewContactRepository(db),
		cache:    repository.NewCacheRepository(db),
		status:   statusrepo.NewStatusRepository(db),
	}
	f.usecase = NewDuplicateUsecase(f.cache, f.contacts, f.status)

	testutil.SeedContacts(t, db,
		testutil.NewContact("a", "Jon", "Smith", "jon@x.com", ""),
		testutil.NewContact("b", "Jon", "Smythe", "jon@x.com", ""),
		testutil.NewContact("c", "Ann", "Lee", "", "212-555-1234"),
		testutil.NewContact("d", "Ann", "", "", "646-555-1234"),
	)
	return f
}

func (f *fixture) seedCache(t *testing.T) {
	t.Helper()
	now := time.Now()
	require.NoError(t, f.cache.Replace([]*domain.DuplicateCacheEntry{
		{Contact1ID: "a", Contact2ID: "b", Confidence: 1.0, Reasons: domain.StringArray{"identical email"}, LastUpdated: now},
		{Contact1ID: "c", Contact2ID: "d", Confidence: 0.7, Reasons: domain.StringArray{"matching first name (Ann) with supporting evidence:"}, LastUpdated: now},
	}))
	require.NoError(t, f.status.MarkCacheRefreshed(now))
}

func TestGetDuplicatesNotReadyWithoutStatus(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.cache.Replace([]*domain.DuplicateCacheEntry{
		{Contact1ID: "a", Contact2ID: "b", Confidence: 1.0},
	}))

	matches, err := f.usecase.GetDuplicates(0)
	assert.ErrorIs(t, err, ErrCacheNotReady)
	assert.Nil(t, matches)
}

func TestGetDuplicatesReadyButEmpty(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.status.MarkCacheRefreshed(time.Now()))

	matches, err := f.usecase.GetDuplicates(0)
	require.NoError(t, err)
	assert.NotNil(t, matches)
	assert.Empty(t, matches)
}

func TestGetDuplicatesResolvesContacts(t *testing.T) {
	f := newFixture(t)
	f.seedCache(t)

	matches, err := f.usecase.GetDuplicates(0)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "a", matches[0].Contact1.ID)
	assert.Equal(t, "b", matches[0].Contact2.ID)
	assert.Equal(t, []string{"identical email"}, matches[0].Reasons)
	assert.Equal(t, "Ann", matches[1].Contact1.FirstName)

	strong, err := f.usecase.GetDuplicates(0.85)
	require.NoError(t, err)
	assert.Len(t, strong, 1)
}

func TestGetDuplicatesSkipsRemovedContacts(t *testing.T) {
	f := newFixture(t)
	f.seedCache(t)

	require.NoError(t, f.contacts.Delete("a"))
	require.NoError(t, f.contacts.SoftDelete("d"))

	matches, err := f.usecase.GetDuplicates(0)
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestGetCacheStatus(t *testing.T) {
	f := newFixture(t)

	status, err := f.usecase.GetCacheStatus()
	require.NoError(t, err)
	assert.False(t, status.Ready)
	assert.Nil(t, status.LastUpdated)

	f.seedCache(t)
	status, err = f.usecase.GetCacheStatus()
	require.NoError(t, err)
	assert.True(t, status.Ready)
	assert.NotNil(t, status.LastUpdated)
	assert.EqualValues(t, 2, status.Pairs)
}
