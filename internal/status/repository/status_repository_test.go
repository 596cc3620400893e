package repository

import (
	"testing"
	"time"

	"contacthub-backend/internal/status/domain"
	"contacthub-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandshakeMarker(t *testing.T) {
	repo := NewStatusRepository(testutil.NewTestDB(t))

	ready, err := repo.IsInteractiveReady()
	require.NoError(t, err)
	assert.False(t, ready)

	require.NoError(t, repo.SignalReady(42))
	require.NoError(t, repo.SignalReady(43))
	ready, err = repo.IsInteractiveReady()
	require.NoError(t, err)
	assert.True(t, ready)

	require.NoError(t, repo.ClearReady())
	ready, err = repo.IsInteractiveReady()
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestSignalReadyStoresPID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewStatusRepository(db)

	require.NoError(t, repo.SignalReady(42))
	require.NoError(t, repo.SignalReady(4242))

	var pid int
	require.NoError(t, db.Raw("SELECT pid FROM process_status WHERE name = ?", domain.InteractiveProcess).Scan(&pid).Error)
	assert.Equal(t, 4242, pid)
}

func TestCacheStatusMissingIsNotReady(t *testing.T) {
	repo := NewStatusRepository(testutil.NewTestDB(t))

	status, err := repo.GetCacheStatus()
	require.NoError(t, err)
	require.NotNil(t, status)
	assert.False(t, status.Ready())
	assert.Nil(t, status.LastUpdate)
}

func TestCacheStatusUnknownValueIsNotReady(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewStatusRepository(db)

	require.NoError(t, db.Create(&domain.ProcessStatus{
		Name:       domain.DuplicateCache,
		Status:     "corrupted",
		LastUpdate: time.Now(),
	}).Error)

	status, err := repo.GetCacheStatus()
	require.NoError(t, err)
	assert.False(t, status.Ready())
}

func TestMarkCacheRefreshed(t *testing.T) {
	repo := NewStatusRepository(testutil.NewTestDB(t))
	first := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	second := first.Add(5 * time.Minute)

	require.NoError(t, repo.MarkCacheRefreshed(first))
	require.NoError(t, repo.MarkCacheRefreshed(second))

	status, err := repo.GetCacheStatus()
	require.NoError(t, err)
	assert.True(t, status.Ready())
	require.NotNil(t, status.LastUpdate)
	assert.True(t, second.Equal(*status.LastUpdate))

	// The handshake row is independent of the cache row
	ready, err := repo.IsInteractiveReady()
	require.NoError(t, err)
	assert.False(t, ready)
}

func TestNilCacheStatusIsNotReady(t *testing.T) {
	var status *domain.CacheStatus
	assert.False(t, status.Ready())
}
