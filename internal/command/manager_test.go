package command

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCommand struct {
	name     string
	execErr  error
	undoErr  error
	executed int
	undone   int
}

func (f *fakeCommand) Execute() error {
	if f.execErr != nil {
		return f.execErr
	}
	f.executed++
	return nil
}

func (f *fakeCommand) Undo() error {
	if f.undoErr != nil {
		return f.undoErr
	}
	f.undone++
	return nil
}

func (f *fakeCommand) Description() string { return f.name }

func TestEmptyStacks(t *testing.T) {
	m := NewManager(0)

	ok, err := m.Undo()
	assert.False(t, ok)
	assert.NoError(t, err)

	ok, err = m.Redo()
	assert.False(t, ok)
	assert.NoError(t, err)

	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
	assert.Empty(t, m.UndoDescription())
	assert.Empty(t, m.RedoDescription())
	assert.Empty(t, m.History())
}

func TestExecuteUndoRedo(t *testing.T) {
	m := NewManager(0)
	first := &fakeCommand{name: "first"}
	second := &fakeCommand{name: "second"}

	require.NoError(t, m.Execute(first))
	require.NoError(t, m.Execute(second))
	assert.Equal(t, "second", m.UndoDescription())

	ok, err := m.Undo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, second.undone)
	assert.Equal(t, "first", m.UndoDescription())
	assert.Equal(t, "second", m.RedoDescription())

	ok, err = m.Redo()
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2, second.executed)
	assert.False(t, m.CanRedo())
	assert.Equal(t, "second", m.UndoDescription())
}

func TestNewCommandClearsRedo(t *testing.T) {
	m := NewManager(0)
	require.NoError(t, m.Execute(&fakeCommand{name: "a"}))
	_, err := m.Undo()
	require.NoError(t, err)
	require.True(t, m.CanRedo())

	require.NoError(t, m.Execute(&fakeCommand{name: "b"}))
	assert.False(t, m.CanRedo())

	ok, err := m.Redo()
	assert.False(t, ok)
	assert.NoError(t, err)
}

func TestFailedExecutePushesNothingAndKeepsRedo(t *testing.T) {
	m := NewManager(0)
	require.NoError(t, m.Execute(&fakeCommand{name: "a"}))
	_, err := m.Undo()
	require.NoError(t, err)

	boom := errors.New("boom")
	err = m.Execute(&fakeCommand{name: "broken", execErr: boom})
	assert.ErrorIs(t, err, boom)

	assert.False(t, m.CanUndo())
	assert.True(t, m.CanRedo())
	assert.Equal(t, "a", m.RedoDescription())
}

func TestFailedUndoKeepsCommandOnUndoStack(t *testing.T) {
	m := NewManager(0)
	cmd := &fakeCommand{name: "sticky", undoErr: ErrUndoStateInconsistent}
	require.NoError(t, m.Execute(cmd))

	ok, err := m.Undo()
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrUndoStateInconsistent)
	assert.True(t, m.CanUndo())
	assert.False(t, m.CanRedo())
	assert.Equal(t, "sticky", m.UndoDescription())
}

func TestFailedRedoKeepsCommandOnRedoStack(t *testing.T) {
	m := NewManager(0)
	cmd := &fakeCommand{name: "flaky"}
	require.NoError(t, m.Execute(cmd))
	_, err := m.Undo()
	require.NoError(t, err)

	boom := errors.New("locked")
	cmd.execErr = boom
	ok, err := m.Redo()
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)
	assert.True(t, m.CanRedo())
	assert.False(t, m.CanUndo())
}

func TestHistory(t *testing.T) {
	m := NewManager(0)
	require.NoError(t, m.Execute(&fakeCommand{name: "one"}))
	require.NoError(t, m.Execute(&fakeCommand{name: "two"}))
	require.NoError(t, m.Execute(&fakeCommand{name: "three"}))
	_, err := m.Undo()
	require.NoError(t, err)

	history := m.History()
	require.Len(t, history, 3)
	assert.Equal(t, "two", history[0].Description)
	assert.Equal(t, "done", history[0].State)
	assert.Equal(t, "one", history[1].Description)
	assert.Equal(t, "three", history[2].Description)
	assert.Equal(t, "undone", history[2].State)
	assert.False(t, history[0].ExecutedAt.IsZero())
}

func TestMaxHistoryDropsOldest(t *testing.T) {
	m := NewManager(2)
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, m.Execute(&fakeCommand{name: name}))
	}

	history := m.History()
	require.Len(t, history, 2)
	assert.Equal(t, "c", history[0].Description)
	assert.Equal(t, "b", history[1].Description)
}

func TestManagerSerializesCommands(t *testing.T) {
	m := NewManager(0)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = m.Execute(&fakeCommand{name: "concurrent"})
		}()
	}
	wg.Wait()

	assert.Len(t, m.History(), 20)
}

func TestStateReflectsBothStacks(t *testing.T) {
	m := NewManager(0)
	assert.Equal(t, State{}, m.State())

	require.NoError(t, m.Execute(&fakeCommand{name: "one"}))
	require.NoError(t, m.Execute(&fakeCommand{name: "two"}))
	_, err := m.Undo()
	require.NoError(t, err)

	assert.Equal(t, State{
		CanUndo:         true,
		CanRedo:         true,
		UndoDescription: "one",
		RedoDescription: "two",
	}, m.State())

	entries, st := m.Snapshot()
	require.Len(t, entries, 2)
	assert.Equal(t, "one", entries[0].Description)
	assert.Equal(t, "two", entries[1].Description)
	assert.Equal(t, m.State(), st)
}

func TestStateIsConsistentDuringConcurrentUndoRedo(t *testing.T) {
	m := NewManager(0)
	require.NoError(t, m.Execute(&fakeCommand{name: "toggle"}))

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			_, _ = m.Undo()
			_, _ = m.Redo()
		}
	}()

	for i := 0; i < 2000; i++ {
		st := m.State()
		// a single command sits on exactly one stack at any instant
		if st.CanUndo == st.CanRedo {
			close(stop)
			wg.Wait()
			t.Fatalf("torn state: %+v", st)
		}
		assert.Equal(t, st.CanUndo, st.UndoDescription == "toggle")
		assert.Equal(t, st.CanRedo, st.RedoDescription == "toggle")
	}
	close(stop)
	wg.Wait()
}
