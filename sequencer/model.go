package sequencer

import (
	"time"

	"github.com/gridbeat/gridbeat"
)

type (
	// modelData is the part of the model that gets copied in full to the
	// undo and redo stacks on every change. Avoid pointers, slices shared
	// between copies, or any other aliasing here: a stored copy must stay
	// intact no matter what happens to the live data afterwards.
	modelData struct {
		Song gridbeat.Song

		Cursor, Cursor2 CellAddr
		SectionIndex    int
		SlotIndex       int
		StepInsertSize  int

		FilePath         string
		ChangedSinceSave bool

		RecoveryFilePath     string
		ChangedSinceRecovery bool
	}

	undoEntry struct {
		data        modelData
		kind        string
		description string
	}

	Model struct {
		d modelData

		undoStack    []undoEntry
		redoStack    []undoEntry
		prevUndoKind string
		lastChangeAt time.Time

		changeLevel    int
		changeType     ChangeType
		changeSeverity ChangeSeverity
		changeKind     string
		changeDesc     string
		changeCancel   bool
		changePushed   bool

		changedCells []CellAddr
		changedSlots []int

		playing      bool
		playerStatus PlayerStatus
		loop         Region
		selecting    bool

		cellClip    *cellClip
		sectionClip *gridbeat.SectionClip

		alerts []Alert

		broker *Broker
		now    func() time.Time
	}

	// ChangeType is a bitmask of the parts of the model a change bracket
	// touched; it decides what gets sent to the player when the bracket
	// closes.
	ChangeType int

	// ChangeSeverity decides whether consecutive changes of the same kind
	// coalesce into one undo entry. MinorChange is used by the continuous
	// controls (volumes, pitches, BPM): dragging a knob produces a burst of
	// changes that should undo as one step.
	ChangeSeverity int
)

const (
	TableChange ChangeType = 1 << iota
	BankChange
	SettingsChange
)

const (
	MajorChange ChangeSeverity = iota
	MinorChange
)

const (
	maxUndo        = 100
	coalesceWindow = 800 * time.Millisecond
	maxStepInsert  = 16
)

func NewModel(broker *Broker, recoveryFilePath string) *Model {
	m := &Model{
		broker: broker,
		now:    time.Now,
	}
	m.d.Song = gridbeat.NewSong()
	m.d.StepInsertSize = 1
	m.d.RecoveryFilePath = recoveryFilePath
	if recoveryFilePath != "" {
		if bytes, err := readRecovery(recoveryFilePath); err == nil {
			if err := m.UnmarshalRecovery(bytes); err != nil {
				m.Alerts().Add("Error loading recovery file: "+err.Error(), Error)
			}
		}
	}
	TrySend(broker.ToPlayer, any(m.d.Song.Copy()))
	return m
}

// change starts a new change bracket. Every mutation of the model data goes
// through it:
//
//	defer m.change("CellVolume", "Set Cell Volume", TableChange, MinorChange)()
//
// When the outermost bracket opens, the model state is pushed to the undo
// stack, unless this is a MinorChange of the same kind as the previous
// change and within the coalescing window, in which case the burst keeps
// amending the entry already on the stack. When the outermost bracket
// closes, the parts of the song that changed are sent to the player and the
// accumulated cell/slot notifications are flushed to the GUI.
func (m *Model) change(kind string, description string, t ChangeType, severity ChangeSeverity) func() {
	if m.changeLevel == 0 {
		m.changeType = t
		m.changeSeverity = severity
		m.changeKind = kind
		m.changeDesc = description
		m.changeCancel = false
		m.changePushed = false
		coalesce := severity == MinorChange &&
			kind != "" &&
			kind == m.prevUndoKind &&
			m.now().Sub(m.lastChangeAt) < coalesceWindow
		if !coalesce {
			m.pushUndo(kind, description)
			m.changePushed = true
		}
	} else {
		m.changeType |= t
	}
	m.changeLevel++
	return m.finishChange
}

func (m *Model) finishChange() {
	m.changeLevel--
	if m.changeLevel > 0 {
		return
	}
	if m.changeCancel {
		if m.changePushed && len(m.undoStack) > 0 {
			m.d = m.undoStack[len(m.undoStack)-1].data
			m.undoStack = m.undoStack[:len(m.undoStack)-1]
		}
		m.prevUndoKind = ""
		m.changedCells = m.changedCells[:0]
		m.changedSlots = m.changedSlots[:0]
		return
	}
	if m.changePushed {
		// the redo stack is dropped only once the edit commits; a rolled
		// back bracket must leave the history exactly as it found it
		m.redoStack = m.redoStack[:0]
	}
	m.prevUndoKind = m.changeKind
	m.lastChangeAt = m.now()
	if m.changeType&(TableChange|BankChange|SettingsChange) != 0 {
		m.d.ChangedSinceSave = true
		m.d.ChangedSinceRecovery = true
		m.clampPositions()
		TrySend(m.broker.ToPlayer, any(m.d.Song.Copy()))
	}
	m.flushGUIEvents()
}

// cancel rolls the open change bracket back: the model data is restored from
// the undo stack and no entry is kept. Used when a mutation turns out to be
// invalid halfway through.
func (m *Model) cancel() {
	m.changeCancel = true
}

func (m *Model) pushUndo(kind string, description string) {
	m.undoStack = append(m.undoStack, undoEntry{data: m.copyData(), kind: kind, description: description})
	if len(m.undoStack) > maxUndo {
		copy(m.undoStack, m.undoStack[len(m.undoStack)-maxUndo:])
		m.undoStack = m.undoStack[:maxUndo]
	}
}

func (m *Model) copyData() modelData {
	d := m.d
	d.Song = m.d.Song.Copy()
	return d
}

func (m *Model) clampPositions() {
	steps, cols := m.d.Song.Table.Steps(), m.d.Song.Table.Cols()
	m.d.Cursor.Step = max(0, min(steps-1, m.d.Cursor.Step))
	m.d.Cursor.Col = max(0, min(cols-1, m.d.Cursor.Col))
	m.d.Cursor2.Step = max(0, min(steps-1, m.d.Cursor2.Step))
	m.d.Cursor2.Col = max(0, min(cols-1, m.d.Cursor2.Col))
	m.d.SectionIndex = max(0, min(len(m.d.Song.Table.Sections)-1, m.d.SectionIndex))
	m.d.SlotIndex = max(0, min(gridbeat.MaxSampleSlots-1, m.d.SlotIndex))
	m.d.StepInsertSize = max(1, min(maxStepInsert, m.d.StepInsertSize))
}

func (m *Model) markCell(step, col int) {
	for _, a := range m.changedCells {
		if a.Step == step && a.Col == col {
			return
		}
	}
	m.changedCells = append(m.changedCells, CellAddr{Step: step, Col: col})
}

func (m *Model) markSlot(slot int) {
	for _, s := range m.changedSlots {
		if s == slot {
			return
		}
	}
	m.changedSlots = append(m.changedSlots, slot)
}

func (m *Model) flushGUIEvents() {
	if len(m.changedCells) == 0 && len(m.changedSlots) == 0 {
		return
	}
	msg := MsgToGUI{
		Cells: append([]CellAddr(nil), m.changedCells...),
		Slots: append([]int(nil), m.changedSlots...),
	}
	m.changedCells = m.changedCells[:0]
	m.changedSlots = m.changedSlots[:0]
	TrySend(m.broker.ToGUI, any(msg))
}

// ProcessMsg handles a message received from the player. The owner of the
// model is expected to drain broker.ToModel into this in its event loop.
func (m *Model) ProcessMsg(msg MsgToModel) {
	if msg.HasPlayerStatus {
		m.playing = msg.Status.Playing
		m.playerStatus = msg.Status
	}
	switch e := msg.Data.(type) {
	case SampleLoadedMsg:
		m.finishSampleLoad(e)
	case Alert:
		m.addAlert(e)
	}
}

func (m *Model) finishSampleLoad(msg SampleLoadedMsg) {
	if !m.d.Song.Bank.InRange(msg.Slot) {
		return
	}
	slot := &m.d.Song.Bank.Slots[msg.Slot]
	if !slot.Processing {
		return // the load was superseded by an unload or a newer load
	}
	slot.Processing = false
	if msg.Err != nil {
		slot.Loaded = false
		slot.SourceRef = ""
		slot.Name = ""
		m.Alerts().Add("Sample "+gridbeat.SlotName(msg.Slot)+" failed to load: "+msg.Err.Error(), Error)
	} else {
		slot.Loaded = true
	}
	m.markSlot(msg.Slot)
	m.flushGUIEvents()
}

func (m *Model) Broker() *Broker { return m.broker }

// Playing reports the player-side playback state as last published through
// the broker; model-side accessors for it live in play.go.
func (m *Model) PlayerStatus() PlayerStatus { return m.playerStatus }

func (m *Model) FilePath() string       { return m.d.FilePath }
func (m *Model) ChangedSinceSave() bool { return m.d.ChangedSinceSave }
