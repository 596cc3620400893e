package usecase

import (
	"errors"
	"testing"
	"time"

	"contacthub-backend/internal/task/domain"
	"contacthub-backend/internal/task/repository"
	"contacthub-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTaskUsecase(t *testing.T) *taskUsecase {
	t.Helper()
	return NewTaskUsecase(repository.NewGormTaskRepository(testutil.NewTestDB(t))).(*taskUsecase)
}

func TestTaskLifecycle(t *testing.T) {
	u := newTaskUsecase(t)

	task, err := u.Start(domain.TaskKindSourceSync, "Sync Gmail")
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusRunning, task.Status)
	assert.False(t, task.Done())

	require.NoError(t, u.Progress(task.ID, 150, "almost"))
	got, err := u.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, "almost", got.Message)

	require.NoError(t, u.Progress(task.ID, -3, "rewind"))
	got, _ = u.GetTask(task.ID)
	assert.Equal(t, 0, got.Progress)

	require.NoError(t, u.Complete(task.ID, "Imported 3 contacts"))
	got, _ = u.GetTask(task.ID)
	assert.Equal(t, domain.TaskStatusCompleted, got.Status)
	assert.Equal(t, 100, got.Progress)
	require.NotNil(t, got.FinishedAt)

	// Finished tasks ignore late progress updates
	require.NoError(t, u.Progress(task.ID, 10, "late"))
	got, _ = u.GetTask(task.ID)
	assert.Equal(t, 100, got.Progress)
	assert.Equal(t, "Imported 3 contacts", got.Message)
}

func TestTaskFailAndNotFound(t *testing.T) {
	u := newTaskUsecase(t)

	task, err := u.Start(domain.TaskKindCSVImport, "Import csv_yahoo")
	require.NoError(t, err)
	require.NoError(t, u.Fail(task.ID, errors.New("bad header")))

	got, err := u.GetTask(task.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.TaskStatusFailed, got.Status)
	assert.Equal(t, "bad header", got.Error)
	assert.True(t, got.Done())

	_, err = u.GetTask("missing")
	assert.ErrorIs(t, err, ErrTaskNotFound)
	assert.ErrorIs(t, u.Complete("missing", ""), ErrTaskNotFound)
}

func TestListTasksFiltersByStatus(t *testing.T) {
	u := newTaskUsecase(t)
	base := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

	for i, title := range []string{"first", "second", "third"} {
		started := base.Add(time.Duration(i) * time.Minute)
		u.now = func() time.Time { return started }
		task, err := u.Start(domain.TaskKindDuplicateRefresh, title)
		require.NoError(t, err)
		if title == "second" {
			require.NoError(t, u.Complete(task.ID, "done"))
		}
	}

	all, total, err := u.ListTasks(nil, 0, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Title)

	running := string(domain.TaskStatusRunning)
	list, total, err := u.ListTasks(&running, 1, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, list, 1)
	assert.Equal(t, "third", list[0].Title)
}

func TestFailStaleAndPrune(t *testing.T) {
	u := newTaskUsecase(t)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	u.now = func() time.Time { return now.Add(-2 * time.Hour) }
	abandoned, err := u.Start(domain.TaskKindDuplicateRefresh, "abandoned")
	require.NoError(t, err)
	old, err := u.Start(domain.TaskKindCSVImport, "old import")
	require.NoError(t, err)
	require.NoError(t, u.Complete(old.ID, "done"))

	u.now = func() time.Time { return now }
	fresh, err := u.Start(domain.TaskKindDuplicateRefresh, "fresh")
	require.NoError(t, err)

	failed, err := u.FailStale(30 * time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 1, failed)

	got, _ := u.GetTask(abandoned.ID)
	assert.Equal(t, domain.TaskStatusFailed, got.Status)
	assert.Contains(t, got.Error, "abandoned")
	got, _ = u.GetTask(fresh.ID)
	assert.Equal(t, domain.TaskStatusRunning, got.Status)

	// old finished two hours ago; abandoned was finished just now by FailStale
	pruned, err := u.Prune(time.Hour)
	require.NoError(t, err)
	assert.EqualValues(t, 1, pruned)

	_, err = u.GetTask(old.ID)
	assert.ErrorIs(t, err, ErrTaskNotFound)
}
