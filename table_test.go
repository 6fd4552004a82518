package gridbeat_test

import (
	"errors"
	"testing"

	"github.com/gridbeat/gridbeat"
)

func TestNewTableDefaults(t *testing.T) {
	table := gridbeat.NewTable()
	if got := table.Steps(); got != gridbeat.DefaultSectionSteps {
		t.Errorf("Steps() = %d, want %d", got, gridbeat.DefaultSectionSteps)
	}
	if got := table.Cols(); got != gridbeat.DefaultLayerCols {
		t.Errorf("Cols() = %d, want %d", got, gridbeat.DefaultLayerCols)
	}
	if len(table.Sections) != 1 || len(table.Layers) != 1 {
		t.Fatalf("expected 1 section and 1 layer, got %d and %d", len(table.Sections), len(table.Layers))
	}
	if table.Sections[0].Loops != gridbeat.DefaultSectionLoops {
		t.Errorf("default section loops = %d, want %d", table.Sections[0].Loops, gridbeat.DefaultSectionLoops)
	}
	for step := 0; step < table.Steps(); step++ {
		for col := 0; col < table.Cols(); col++ {
			if c := table.Cell(step, col); c.SampleSlot != -1 {
				t.Fatalf("cell (%d,%d) not empty: %v", step, col, c)
			}
		}
	}
}

func TestInsertSectionRelabels(t *testing.T) {
	table := gridbeat.NewTable()
	if err := table.InsertSection(0, 8); err != nil {
		t.Fatalf("InsertSection: %v", err)
	}
	if err := table.InsertSection(-1, 4); err != nil {
		t.Fatalf("InsertSection at front: %v", err)
	}
	wantStarts := []int{0, 4, 20}
	wantSteps := []int{4, 16, 8}
	if len(table.Sections) != 3 {
		t.Fatalf("expected 3 sections, got %d", len(table.Sections))
	}
	for i, s := range table.Sections {
		if s.StartStep != wantStarts[i] || s.NumSteps != wantSteps[i] {
			t.Errorf("section %d = {start %d, steps %d}, want {start %d, steps %d}",
				i, s.StartStep, s.NumSteps, wantStarts[i], wantSteps[i])
		}
	}
	if table.Steps() != 28 || len(table.Cells) != 28 {
		t.Errorf("Steps() = %d, len(Cells) = %d, want 28", table.Steps(), len(table.Cells))
	}
}

func TestDeleteSectionShiftsCells(t *testing.T) {
	table := gridbeat.NewTable()
	table.InsertSection(0, 8)
	table.SetCell(16, 0, gridbeat.Cell{SampleSlot: 3, Volume: -1, Pitch: -1})
	if err := table.DeleteSection(0); err != nil {
		t.Fatalf("DeleteSection: %v", err)
	}
	if table.Steps() != 8 {
		t.Fatalf("Steps() = %d, want 8", table.Steps())
	}
	if c := table.Cell(0, 0); c.SampleSlot != 3 {
		t.Errorf("cell did not shift with its section: %v", c)
	}
}

func TestDeleteLastSectionRejected(t *testing.T) {
	table := gridbeat.NewTable()
	if err := table.DeleteSection(0); !errors.Is(err, gridbeat.ErrLastSection) {
		t.Errorf("DeleteSection on last section: got %v, want ErrLastSection", err)
	}
}

func TestSectionLimit(t *testing.T) {
	table := gridbeat.NewTable()
	for i := 1; i < gridbeat.MaxSections; i++ {
		if err := table.InsertSection(0, 1); err != nil {
			t.Fatalf("InsertSection %d: %v", i, err)
		}
	}
	if err := table.InsertSection(0, 1); !errors.Is(err, gridbeat.ErrTableFull) {
		t.Errorf("InsertSection beyond limit: got %v, want ErrTableFull", err)
	}
}

func TestSetSectionStepsKeepsCells(t *testing.T) {
	table := gridbeat.NewTable()
	table.SetCell(3, 1, gridbeat.Cell{SampleSlot: 5, Volume: -1, Pitch: -1})
	if err := table.SetSectionSteps(0, 8); err != nil {
		t.Fatalf("SetSectionSteps shrink: %v", err)
	}
	if c := table.Cell(3, 1); c.SampleSlot != 5 {
		t.Errorf("cell lost on shrink: %v", c)
	}
	if err := table.SetSectionSteps(0, 32); err != nil {
		t.Fatalf("SetSectionSteps grow: %v", err)
	}
	if c := table.Cell(3, 1); c.SampleSlot != 5 {
		t.Errorf("cell lost on grow: %v", c)
	}
	if c := table.Cell(31, 0); c.SampleSlot != -1 {
		t.Errorf("grown cell not empty: %v", c)
	}
}

func TestInsertDeleteStep(t *testing.T) {
	table := gridbeat.NewTable()
	table.SetCell(5, 0, gridbeat.Cell{SampleSlot: 2, Volume: -1, Pitch: -1})
	if err := table.InsertStep(0, 3); err != nil {
		t.Fatalf("InsertStep: %v", err)
	}
	if table.Steps() != 17 {
		t.Fatalf("Steps() = %d, want 17", table.Steps())
	}
	if c := table.Cell(6, 0); c.SampleSlot != 2 {
		t.Errorf("cell did not shift down on insert: %v", c)
	}
	if err := table.DeleteStep(0, 3); err != nil {
		t.Fatalf("DeleteStep: %v", err)
	}
	if c := table.Cell(5, 0); c.SampleSlot != 2 {
		t.Errorf("cell did not shift back on delete: %v", c)
	}
}

func TestAppendSectionCopies(t *testing.T) {
	table := gridbeat.NewTable()
	table.SetCell(2, 1, gridbeat.Cell{SampleSlot: 7, Volume: 0.5, Pitch: -1})
	if err := table.AppendSection(16, 0); err != nil {
		t.Fatalf("AppendSection: %v", err)
	}
	if len(table.Sections) != 2 {
		t.Fatalf("expected 2 sections, got %d", len(table.Sections))
	}
	if c := table.Cell(18, 1); c.SampleSlot != 7 || c.Volume != 0.5 {
		t.Errorf("appended section did not copy cells: %v", c)
	}
}

func TestPasteSectionClipsToDestination(t *testing.T) {
	table := gridbeat.NewTable()
	table.InsertSection(0, 4)
	table.Sections[1].Loops = 2
	table.SetCell(2, 0, gridbeat.Cell{SampleSlot: 1, Volume: -1, Pitch: -1})
	table.SetCell(10, 0, gridbeat.Cell{SampleSlot: 9, Volume: -1, Pitch: -1})
	clip, ok := table.CopySection(0)
	if !ok {
		t.Fatal("CopySection failed")
	}
	if err := table.PasteSection(1, clip); err != nil {
		t.Fatalf("PasteSection: %v", err)
	}
	// destination keeps its own step count; source rows beyond it (like the
	// cell at row 10) are clipped away
	if table.Sections[1].NumSteps != 4 {
		t.Errorf("destination resized to %d steps", table.Sections[1].NumSteps)
	}
	if c := table.Cell(16+2, 0); c.SampleSlot != 1 {
		t.Errorf("pasted cell = %v, want slot 1", c)
	}
	// destination keeps its own loop count too
	if table.Sections[1].Loops != 2 {
		t.Errorf("destination loops changed to %d", table.Sections[1].Loops)
	}
}

func TestLayers(t *testing.T) {
	table := gridbeat.NewTable()
	for len(table.Layers) < gridbeat.MaxLayers {
		if err := table.AddLayer(); err != nil {
			t.Fatalf("AddLayer: %v", err)
		}
	}
	if err := table.AddLayer(); !errors.Is(err, gridbeat.ErrTableFull) {
		t.Errorf("AddLayer beyond limit: got %v, want ErrTableFull", err)
	}
	if got := table.Cols(); got != gridbeat.MaxLayers*gridbeat.DefaultLayerCols {
		t.Fatalf("Cols() = %d", got)
	}
	table.SetCell(0, 0, gridbeat.Cell{SampleSlot: 4, Volume: -1, Pitch: -1})
	for len(table.Layers) > 1 {
		if err := table.RemoveLayer(); err != nil {
			t.Fatalf("RemoveLayer: %v", err)
		}
	}
	if err := table.RemoveLayer(); !errors.Is(err, gridbeat.ErrLastLayer) {
		t.Errorf("RemoveLayer on last layer: got %v, want ErrLastLayer", err)
	}
	if got := table.Cols(); got != gridbeat.DefaultLayerCols {
		t.Errorf("Cols() after removals = %d", got)
	}
	if c := table.Cell(0, 0); c.SampleSlot != 4 {
		t.Errorf("first layer cell lost: %v", c)
	}
}

func TestLayerAt(t *testing.T) {
	table := gridbeat.NewTable()
	table.AddLayer()
	if got := table.LayerAt(0); got != 0 {
		t.Errorf("LayerAt(0) = %d", got)
	}
	if got := table.LayerAt(gridbeat.DefaultLayerCols); got != 1 {
		t.Errorf("LayerAt(%d) = %d", gridbeat.DefaultLayerCols, got)
	}
	if got := table.LayerAt(100); got != -1 {
		t.Errorf("LayerAt(100) = %d", got)
	}
}

func TestCopyIsDeep(t *testing.T) {
	table := gridbeat.NewTable()
	copied := table.Copy()
	table.SetCell(0, 0, gridbeat.Cell{SampleSlot: 1, Volume: -1, Pitch: -1})
	table.Sections[0].Loops = 9
	if c := copied.Cell(0, 0); c.SampleSlot != -1 {
		t.Error("copy shares cell storage with the original")
	}
	if copied.Sections[0].Loops == 9 {
		t.Error("copy shares section storage with the original")
	}
}
