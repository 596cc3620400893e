package command

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// HistoryEntry describes one command on either stack
type HistoryEntry struct {
	Description string    `json:"description"`
	State       string    `json:"state"` // "done" or "undone"
	ExecutedAt  time.Time `json:"executed_at"`
}

// State is a consistent view of both stacks taken under one lock
type State struct {
	CanUndo         bool
	CanRedo         bool
	UndoDescription string
	RedoDescription string
}

type record struct {
	cmd        Command
	executedAt time.Time
}

// Manager keeps the undo and redo stacks. All methods are safe for
// concurrent use; commands run one at a time.
type Manager struct {
	mu         sync.Mutex
	undoStack  []record
	redoStack  []record
	maxHistory int
	now        func() time.Time
	logger     *slog.Logger
}

// NewManager creates a manager that keeps at most maxHistory undoable
// commands. maxHistory <= 0 means unbounded.
func NewManager(maxHistory int) *Manager {
	return &Manager{
		maxHistory: maxHistory,
		now:        time.Now,
		logger:     slog.Default().With("component", "CommandManager"),
	}
}

// Execute runs cmd. On success it becomes undoable and the redo stack is
// cleared; on failure neither stack changes.
func (m *Manager) Execute(cmd Command) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := cmd.Execute(); err != nil {
		return err
	}

	m.push(record{cmd: cmd, executedAt: m.now()})
	m.redoStack = nil
	m.logger.Info("executed", "command", cmd.Description())
	return nil
}

// Undo reverses the most recent command. It returns false with a nil error
// when there is nothing to undo. If the reversal fails the command stays on
// the undo stack.
func (m *Manager) Undo() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.undoStack) == 0 {
		return false, nil
	}

	last := m.undoStack[len(m.undoStack)-1]
	if err := last.cmd.Undo(); err != nil {
		return false, fmt.Errorf("undo %q: %w", last.cmd.Description(), err)
	}

	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.redoStack = append(m.redoStack, last)
	m.logger.Info("undone", "command", last.cmd.Description())
	return true, nil
}

// Redo re-executes the most recently undone command
func (m *Manager) Redo() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.redoStack) == 0 {
		return false, nil
	}

	last := m.redoStack[len(m.redoStack)-1]
	if err := last.cmd.Execute(); err != nil {
		return false, fmt.Errorf("redo %q: %w", last.cmd.Description(), err)
	}

	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.push(record{cmd: last.cmd, executedAt: m.now()})
	m.logger.Info("redone", "command", last.cmd.Description())
	return true, nil
}

func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undoStack) > 0
}

func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redoStack) > 0
}

// UndoDescription describes the command Undo would reverse, or ""
func (m *Manager) UndoDescription() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.undoStack) == 0 {
		return ""
	}
	return m.undoStack[len(m.undoStack)-1].cmd.Description()
}

// RedoDescription describes the command Redo would re-run, or ""
func (m *Manager) RedoDescription() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.redoStack) == 0 {
		return ""
	}
	return m.redoStack[len(m.redoStack)-1].cmd.Description()
}

// History lists done commands newest first, followed by undone commands
// in the order Redo would replay them.
func (m *Manager) History() []HistoryEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.historyLocked()
}

// State reports both stacks at a single point in time
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

// Snapshot returns History and State taken under the same lock
func (m *Manager) Snapshot() ([]HistoryEntry, State) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.historyLocked(), m.stateLocked()
}

func (m *Manager) historyLocked() []HistoryEntry {
	entries := make([]HistoryEntry, 0, len(m.undoStack)+len(m.redoStack))
	for i := len(m.undoStack) - 1; i >= 0; i-- {
		entries = append(entries, toEntry(m.undoStack[i], "done"))
	}
	for i := len(m.redoStack) - 1; i >= 0; i-- {
		entries = append(entries, toEntry(m.redoStack[i], "undone"))
	}
	return entries
}

func (m *Manager) stateLocked() State {
	st := State{
		CanUndo: len(m.undoStack) > 0,
		CanRedo: len(m.redoStack) > 0,
	}
	if st.CanUndo {
		st.UndoDescription = m.undoStack[len(m.undoStack)-1].cmd.Description()
	}
	if st.CanRedo {
		st.RedoDescription = m.redoStack[len(m.redoStack)-1].cmd.Description()
	}
	return st
}

func (m *Manager) push(r record) {
	m.undoStack = append(m.undoStack, r)
	if m.maxHistory > 0 && len(m.undoStack) > m.maxHistory {
		m.undoStack = append([]record(nil), m.undoStack[len(m.undoStack)-m.maxHistory:]...)
	}
}

func toEntry(r record, state string) HistoryEntry {
	return HistoryEntry{
		Description: r.cmd.Description(),
		State:       state,
		ExecutedAt:  r.executedAt,
	}
}
