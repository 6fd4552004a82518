package sequencer

import (
	"fmt"

	"github.com/gridbeat/gridbeat"
)

// GridModel exposes the cell grid: the cursor, the selection, placing and
// clearing samples, per-cell overrides and the cell clipboard.
type GridModel Model

type cellClip struct {
	cells [][]gridbeat.Cell // [row][col], relative rows, absolute cols from left edge
	left  int               // column of the left edge at copy time
}

func (m *Model) Grid() *GridModel { return (*GridModel)(m) }

func (g *GridModel) Cursor() CellAddr  { return g.d.Cursor }
func (g *GridModel) Cursor2() CellAddr { return g.d.Cursor2 }

// SetCursor moves the cursor, collapsing the selection unless the grid is in
// selecting mode. Cursor and selection moves are not edits: they push
// nothing to the undo stack.
func (g *GridModel) SetCursor(a CellAddr) {
	a.Step = max(0, min(g.d.Song.Table.Steps()-1, a.Step))
	a.Col = max(0, min(g.d.Song.Table.Cols()-1, a.Col))
	g.d.Cursor = a
	if !g.selecting {
		g.d.Cursor2 = a
	}
}

func (g *GridModel) SetCursor2(a CellAddr) {
	a.Step = max(0, min(g.d.Song.Table.Steps()-1, a.Step))
	a.Col = max(0, min(g.d.Song.Table.Cols()-1, a.Col))
	g.d.Cursor2 = a
}

// Selection returns the current selection rectangle, X being columns and Y
// steps. With no active selection this is the 1x1 rectangle at the cursor.
func (g *GridModel) Selection() Rect {
	r := Rect{
		TopLeft:     Point{X: g.d.Cursor.Col, Y: g.d.Cursor.Step},
		BottomRight: Point{X: g.d.Cursor2.Col, Y: g.d.Cursor2.Step},
	}
	return r.Normalized()
}

func (g *GridModel) Cell(step, col int) gridbeat.Cell {
	return g.d.Song.Table.Cell(step, col)
}

// PlaceSample assigns the sample slot to the cell, keeping any volume and
// pitch overrides the cell already had. The slot does not need to hold a
// loaded sample.
func (g *GridModel) PlaceSample(step, col, slot int) bool {
	m := (*Model)(g)
	if !g.d.Song.Table.InRange(step, col) || !g.d.Song.Bank.InRange(slot) {
		return false
	}
	desc := fmt.Sprintf("Place Sample %s", gridbeat.SlotName(slot))
	defer m.change("PlaceSample", desc, TableChange, MajorChange)()
	c := g.d.Song.Table.Cell(step, col)
	c.SampleSlot = slot
	g.d.Song.Table.SetCell(step, col, c)
	m.markCell(step, col)
	return true
}

// ClearCell empties the cell, dropping its overrides along with the sample
// assignment.
func (g *GridModel) ClearCell(step, col int) bool {
	m := (*Model)(g)
	if !g.d.Song.Table.InRange(step, col) {
		return false
	}
	defer m.change("ClearCell", "Clear Cell", TableChange, MajorChange)()
	g.d.Song.Table.SetCell(step, col, gridbeat.EmptyCell)
	m.markCell(step, col)
	return true
}

// SetCellVolume sets the per-cell volume override. Values from consecutive
// calls coalesce into one undo entry, so a dragged fader undoes in one step.
func (g *GridModel) SetCellVolume(step, col int, volume float32) bool {
	m := (*Model)(g)
	if !g.d.Song.Table.InRange(step, col) {
		return false
	}
	c := g.d.Song.Table.Cell(step, col)
	if c.SampleSlot < 0 {
		return false
	}
	kind := fmt.Sprintf("CellVolume%d:%d", step, col)
	defer m.change(kind, "Set Cell Volume", TableChange, MinorChange)()
	c.Volume = gridbeat.ClampVolume(volume)
	g.d.Song.Table.SetCell(step, col, c)
	m.markCell(step, col)
	return true
}

// SetCellPitch sets the per-cell pitch override as a playback rate ratio.
func (g *GridModel) SetCellPitch(step, col int, ratio float32) bool {
	m := (*Model)(g)
	if !g.d.Song.Table.InRange(step, col) {
		return false
	}
	c := g.d.Song.Table.Cell(step, col)
	if c.SampleSlot < 0 {
		return false
	}
	kind := fmt.Sprintf("CellPitch%d:%d", step, col)
	defer m.change(kind, "Set Cell Pitch", TableChange, MinorChange)()
	c.Pitch = gridbeat.ClampPitchRatio(ratio)
	g.d.Song.Table.SetCell(step, col, c)
	m.markCell(step, col)
	return true
}

// ClearCellOverrides resets the cell's volume and pitch back to the slot
// defaults, keeping the sample assignment.
func (g *GridModel) ClearCellOverrides(step, col int) bool {
	m := (*Model)(g)
	if !g.d.Song.Table.InRange(step, col) {
		return false
	}
	c := g.d.Song.Table.Cell(step, col)
	if c.SampleSlot < 0 || (c.Volume < 0 && c.Pitch < 0) {
		return false
	}
	defer m.change("ClearCellOverrides", "Reset Cell Overrides", TableChange, MajorChange)()
	c.Volume, c.Pitch = -1, -1
	g.d.Song.Table.SetCell(step, col, c)
	m.markCell(step, col)
	return true
}

func (g *GridModel) SelectionMode() Bool { return MakeBool((*selectionMode)(g)) }
func (g *GridModel) StepInsertSize() Int { return MakeInt((*stepInsertSize)(g)) }
func (g *GridModel) DeleteSelected() Action {
	return MakeAction(func() { (*GridModel)(g).deleteSelected() })
}
func (g *GridModel) CopyCells() Action {
	return MakeAction(func() { (*GridModel)(g).copyCells() })
}
func (g *GridModel) PasteCells() Action {
	m := (*Model)(g)
	return MakeEnabledAction(
		func() { g.pasteCells() },
		func() bool { return m.cellClip != nil })
}

type selectionMode GridModel

func (v *selectionMode) Value() bool   { return v.selecting }
func (v *selectionMode) Enabled() bool { return true }
func (v *selectionMode) SetValue(value bool) {
	v.selecting = value
	if !value {
		(*GridModel)(v).SetCursor2(v.d.Cursor)
	}
}

type stepInsertSize GridModel

func (v *stepInsertSize) Value() int      { return v.d.StepInsertSize }
func (v *stepInsertSize) Range() IntRange { return IntRange{1, maxStepInsert} }
func (v *stepInsertSize) SetValue(value int) bool {
	v.d.StepInsertSize = value
	return true
}

func (g *GridModel) deleteSelected() {
	m := (*Model)(g)
	defer m.change("DeleteCells", "Delete Cells", TableChange, MajorChange)()
	r := g.Selection()
	for step := r.TopLeft.Y; step <= r.BottomRight.Y; step++ {
		for col := r.TopLeft.X; col <= r.BottomRight.X; col++ {
			if !g.d.Song.Table.InRange(step, col) {
				continue
			}
			g.d.Song.Table.SetCell(step, col, gridbeat.EmptyCell)
			m.markCell(step, col)
		}
	}
}

func (g *GridModel) copyCells() {
	r := g.Selection()
	clip := &cellClip{left: r.TopLeft.X}
	for step := r.TopLeft.Y; step <= r.BottomRight.Y; step++ {
		row := make([]gridbeat.Cell, 0, r.Width())
		for col := r.TopLeft.X; col <= r.BottomRight.X; col++ {
			if g.d.Song.Table.InRange(step, col) {
				row = append(row, g.d.Song.Table.Cell(step, col))
			} else {
				row = append(row, gridbeat.EmptyCell)
			}
		}
		clip.cells = append(clip.cells, row)
	}
	(*Model)(g).cellClip = clip
}

// pasteCells pastes the cell clipboard at the cursor. Rows land relative to
// the cursor step; columns keep their absolute offset from the clip's left
// edge so that layer assignment is preserved. Cells falling outside the grid
// are clipped.
func (g *GridModel) pasteCells() {
	m := (*Model)(g)
	if m.cellClip == nil {
		return
	}
	defer m.change("PasteCells", "Paste Cells", TableChange, MajorChange)()
	for dy, row := range m.cellClip.cells {
		step := g.d.Cursor.Step + dy
		for dx, c := range row {
			col := m.cellClip.left + dx
			if !g.d.Song.Table.InRange(step, col) {
				continue
			}
			g.d.Song.Table.SetCell(step, col, c)
			m.markCell(step, col)
		}
	}
}

// InsertSteps inserts StepInsertSize empty steps at the cursor, growing the
// cursor's section and shifting everything below down.
func (g *GridModel) InsertSteps() Action {
	m := (*Model)(g)
	return MakeAction(func() {
		defer m.change("InsertSteps", "Insert Steps", TableChange, MajorChange)()
		sec := g.d.Song.Table.SectionAt(g.d.Cursor.Step)
		offset := g.d.Cursor.Step - g.d.Song.Table.Sections[sec].StartStep
		for i := 0; i < g.d.StepInsertSize; i++ {
			if err := g.d.Song.Table.InsertStep(sec, offset); err != nil {
				if i == 0 {
					m.cancel()
				}
				m.Alerts().Add(err.Error(), Warning)
				return
			}
		}
	})
}

// DeleteSteps removes StepInsertSize steps at the cursor from the cursor's
// section, stopping early when the section is down to one step.
func (g *GridModel) DeleteSteps() Action {
	m := (*Model)(g)
	return MakeAction(func() {
		defer m.change("DeleteSteps", "Delete Steps", TableChange, MajorChange)()
		sec := g.d.Song.Table.SectionAt(g.d.Cursor.Step)
		offset := g.d.Cursor.Step - g.d.Song.Table.Sections[sec].StartStep
		deleted := 0
		for i := 0; i < g.d.StepInsertSize; i++ {
			if err := g.d.Song.Table.DeleteStep(sec, offset); err != nil {
				break
			}
			deleted++
		}
		if deleted == 0 {
			m.cancel()
		}
	})
}
