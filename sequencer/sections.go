package sequencer

import (
	"fmt"

	"github.com/gridbeat/gridbeat"
)

// SectionsModel exposes the section list: selecting, adding, deleting and
// resizing sections, per-section loop counts and the section clipboard.
type SectionsModel Model

func (m *Model) Sections() *SectionsModel { return (*SectionsModel)(m) }

func (s *SectionsModel) Count() int { return len(s.d.Song.Table.Sections) }

func (s *SectionsModel) Section(index int) (gridbeat.Section, bool) {
	if index < 0 || index >= len(s.d.Song.Table.Sections) {
		return gridbeat.Section{}, false
	}
	return s.d.Song.Table.Sections[index], true
}

func (s *SectionsModel) Selected() Int { return MakeInt((*selectedSection)(s)) }
func (s *SectionsModel) Loops() Int    { return MakeInt((*sectionLoops)(s)) }
func (s *SectionsModel) Steps() Int    { return MakeInt((*sectionSteps)(s)) }

type selectedSection SectionsModel

func (v *selectedSection) Value() int { return v.d.SectionIndex }
func (v *selectedSection) Range() IntRange {
	return IntRange{0, len(v.d.Song.Table.Sections) - 1}
}
func (v *selectedSection) SetValue(value int) bool {
	v.d.SectionIndex = value
	return true
}

type sectionLoops SectionsModel

func (v *sectionLoops) Value() int {
	if v.d.SectionIndex >= len(v.d.Song.Table.Sections) {
		return 0
	}
	return v.d.Song.Table.Sections[v.d.SectionIndex].Loops
}
func (v *sectionLoops) Range() IntRange {
	return IntRange{gridbeat.MinSectionLoops, gridbeat.MaxSectionLoops}
}
func (v *sectionLoops) SetValue(value int) bool {
	m := (*Model)(v)
	kind := fmt.Sprintf("SectionLoops%d", v.d.SectionIndex)
	defer m.change(kind, "Set Section Loops", TableChange, MinorChange)()
	v.d.Song.Table.Sections[v.d.SectionIndex].Loops = value
	return true
}

type sectionSteps SectionsModel

func (v *sectionSteps) Value() int {
	if v.d.SectionIndex >= len(v.d.Song.Table.Sections) {
		return 0
	}
	return v.d.Song.Table.Sections[v.d.SectionIndex].NumSteps
}
func (v *sectionSteps) Range() IntRange { return IntRange{1, gridbeat.MaxSteps} }
func (v *sectionSteps) SetValue(value int) bool {
	m := (*Model)(v)
	defer m.change("SectionSteps", "Resize Section", TableChange, MajorChange)()
	if err := v.d.Song.Table.SetSectionSteps(v.d.SectionIndex, value); err != nil {
		m.cancel()
		m.Alerts().Add(err.Error(), Warning)
		return false
	}
	return true
}

// AddAfterSelected inserts a new empty section of the default length after
// the selected one and selects it.
func (s *SectionsModel) AddAfterSelected() Action {
	m := (*Model)(s)
	return MakeAction(func() {
		defer m.change("AddSection", "Add Section", TableChange, MajorChange)()
		if err := s.d.Song.Table.InsertSection(s.d.SectionIndex, gridbeat.DefaultSectionSteps); err != nil {
			m.cancel()
			m.Alerts().Add(err.Error(), Warning)
			return
		}
		s.d.SectionIndex++
	})
}

// Append adds a section at the end of the song; copyFrom < 0 appends an
// empty section, otherwise the new section duplicates the cells of the
// addressed one.
func (s *SectionsModel) Append(steps, copyFrom int) bool {
	m := (*Model)(s)
	defer m.change("AppendSection", "Append Section", TableChange, MajorChange)()
	if err := s.d.Song.Table.AppendSection(steps, copyFrom); err != nil {
		m.cancel()
		m.Alerts().Add(err.Error(), Warning)
		return false
	}
	return true
}

// DeleteSelected removes the selected section; the last remaining section
// cannot be deleted.
func (s *SectionsModel) DeleteSelected() Action {
	m := (*Model)(s)
	return MakeEnabledAction(func() {
		defer m.change("DeleteSection", "Delete Section", TableChange, MajorChange)()
		if err := s.d.Song.Table.DeleteSection(s.d.SectionIndex); err != nil {
			m.cancel()
			m.Alerts().Add(err.Error(), Warning)
		}
	}, func() bool {
		return len(s.d.Song.Table.Sections) > 1
	})
}

func (s *SectionsModel) CopySelected() Action {
	m := (*Model)(s)
	return MakeAction(func() {
		clip, ok := s.d.Song.Table.CopySection(s.d.SectionIndex)
		if !ok {
			return
		}
		m.sectionClip = &clip
	})
}

// PasteToSelected overwrites the selected section's cells with the section
// clipboard; the selected section keeps its own step and loop counts.
func (s *SectionsModel) PasteToSelected() Action {
	m := (*Model)(s)
	return MakeEnabledAction(func() {
		defer m.change("PasteSection", "Paste Section", TableChange, MajorChange)()
		if err := s.d.Song.Table.PasteSection(s.d.SectionIndex, *m.sectionClip); err != nil {
			m.cancel()
			m.Alerts().Add(err.Error(), Warning)
		}
	}, func() bool {
		return m.sectionClip != nil
	})
}

// LayersModel exposes the column layers of the grid.
type LayersModel Model

func (m *Model) Layers() *LayersModel { return (*LayersModel)(m) }

func (l *LayersModel) Count() int { return len(l.d.Song.Table.Layers) }

func (l *LayersModel) Add() Action {
	m := (*Model)(l)
	return MakeEnabledAction(func() {
		defer m.change("AddLayer", "Add Layer", TableChange, MajorChange)()
		if err := l.d.Song.Table.AddLayer(); err != nil {
			m.cancel()
			m.Alerts().Add(err.Error(), Warning)
		}
	}, func() bool {
		return len(l.d.Song.Table.Layers) < gridbeat.MaxLayers &&
			l.d.Song.Table.Cols()+gridbeat.DefaultLayerCols <= gridbeat.MaxCols
	})
}

// Remove drops the last layer and every cell in its columns.
func (l *LayersModel) Remove() Action {
	m := (*Model)(l)
	return MakeEnabledAction(func() {
		defer m.change("RemoveLayer", "Remove Layer", TableChange, MajorChange)()
		if err := l.d.Song.Table.RemoveLayer(); err != nil {
			m.cancel()
			m.Alerts().Add(err.Error(), Warning)
		}
	}, func() bool {
		return len(l.d.Song.Table.Layers) > 1
	})
}
