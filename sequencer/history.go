package sequencer

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// HistoryModel exposes undo and redo over the full-state snapshots the
// change brackets push, plus the crash recovery file.
type HistoryModel Model

func (m *Model) History() *HistoryModel { return (*HistoryModel)(m) }

func (h *HistoryModel) Undo() Action {
	m := (*Model)(h)
	return MakeEnabledAction(m.undo, func() bool { return len(m.undoStack) > 0 })
}

func (h *HistoryModel) Redo() Action {
	m := (*Model)(h)
	return MakeEnabledAction(m.redo, func() bool { return len(m.redoStack) > 0 })
}

// UndoDescription names the edit Undo would revert, e.g. "Place Sample C",
// or "" when the undo stack is empty.
func (h *HistoryModel) UndoDescription() string {
	if len(h.undoStack) == 0 {
		return ""
	}
	return h.undoStack[len(h.undoStack)-1].description
}

func (h *HistoryModel) RedoDescription() string {
	if len(h.redoStack) == 0 {
		return ""
	}
	return h.redoStack[len(h.redoStack)-1].description
}

func (h *HistoryModel) UndoDepth() int { return len(h.undoStack) }
func (h *HistoryModel) RedoDepth() int { return len(h.redoStack) }

// Clear drops both stacks, e.g. after loading a new song.
func (h *HistoryModel) Clear() {
	h.undoStack = h.undoStack[:0]
	h.redoStack = h.redoStack[:0]
	h.prevUndoKind = ""
}

func (m *Model) undo() {
	if len(m.undoStack) == 0 {
		return
	}
	// an open coalescing burst ends here, so the undone edit cannot be
	// amended back into existence
	m.prevUndoKind = ""
	entry := m.undoStack[len(m.undoStack)-1]
	m.undoStack = m.undoStack[:len(m.undoStack)-1]
	m.redoStack = append(m.redoStack, undoEntry{data: m.copyData(), kind: entry.kind, description: entry.description})
	if len(m.redoStack) > maxUndo {
		copy(m.redoStack, m.redoStack[len(m.redoStack)-maxUndo:])
		m.redoStack = m.redoStack[:maxUndo]
	}
	m.restore(entry.data)
}

func (m *Model) redo() {
	if len(m.redoStack) == 0 {
		return
	}
	m.prevUndoKind = ""
	entry := m.redoStack[len(m.redoStack)-1]
	m.redoStack = m.redoStack[:len(m.redoStack)-1]
	m.undoStack = append(m.undoStack, undoEntry{data: m.copyData(), kind: entry.kind, description: entry.description})
	m.restore(entry.data)
}

// restore swaps in a snapshot and resyncs the player: the player diffs the
// song against its own state and reloads or drops samples as needed, so one
// full copy covers every kind of reverted edit.
func (m *Model) restore(d modelData) {
	m.d = d
	m.clampPositions()
	m.d.ChangedSinceSave = true
	m.d.ChangedSinceRecovery = true
	TrySend(m.broker.ToPlayer, any(m.d.Song.Copy()))
	TrySend(m.broker.ToGUI, any(MsgToGUI{}))
}

// MarshalRecovery returns the whole model state, including the cursor and
// the file path, so a crashed session can resume where it was.
func (m *Model) MarshalRecovery() []byte {
	out, err := yaml.Marshal(m.d)
	if err != nil {
		return nil
	}
	return out
}

func (m *Model) UnmarshalRecovery(bytes []byte) error {
	var d modelData
	if err := yaml.Unmarshal(bytes, &d); err != nil {
		return err
	}
	if err := d.Song.Validate(); err != nil {
		return err
	}
	// the player reloads every referenced sample from the song copy below;
	// mark them in flight so the completions are accepted
	for i := range d.Song.Bank.Slots {
		d.Song.Bank.Slots[i].Loaded = false
		d.Song.Bank.Slots[i].Processing = d.Song.Bank.Slots[i].SourceRef != ""
	}
	recoveryPath := m.d.RecoveryFilePath
	m.d = d
	m.d.RecoveryFilePath = recoveryPath
	m.d.ChangedSinceRecovery = false
	m.clampPositions()
	TrySend(m.broker.ToPlayer, any(m.d.Song.Copy()))
	return nil
}

// SaveRecovery writes the recovery file if anything changed since the last
// save. Call it periodically and on exit.
func (m *Model) SaveRecovery() error {
	if !m.d.ChangedSinceRecovery || m.d.RecoveryFilePath == "" {
		return nil
	}
	bytes := m.MarshalRecovery()
	if bytes == nil {
		return errors.New("could not marshal model state")
	}
	if err := os.MkdirAll(filepath.Dir(m.d.RecoveryFilePath), 0755); err != nil {
		return err
	}
	if err := os.WriteFile(m.d.RecoveryFilePath, bytes, 0644); err != nil {
		return err
	}
	m.d.ChangedSinceRecovery = false
	return nil
}

// RemoveRecovery deletes the recovery file, called after a clean save.
func (m *Model) RemoveRecovery() {
	if m.d.RecoveryFilePath == "" {
		return
	}
	os.Remove(m.d.RecoveryFilePath)
	m.d.ChangedSinceRecovery = false
}

func readRecovery(path string) ([]byte, error) {
	return os.ReadFile(path)
}
