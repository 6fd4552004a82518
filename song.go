package gridbeat

import (
	"errors"
	"fmt"
)

type (
	// Song is the complete authoritative project state: the grid table, the
	// sample bank and the playback settings that are part of the project
	// (tempo, master volume, section sequencing mode). It marshals as one
	// atomic structure, which is the boundary the project save files and the
	// collaboration checkpoints use.
	Song struct {
		BPM          int        `yaml:"bpm" json:"bpm"`
		MasterVolume float32    `yaml:"masterVolume" json:"masterVolume"`
		SongMode     bool       `yaml:"songMode" json:"songMode"`
		SongWrap     bool       `yaml:"songWrap" json:"songWrap"`
		Table        Table      `yaml:"table" json:"table"`
		Bank         SampleBank `yaml:"bank" json:"bank"`
	}
)

// NewSong returns a song with one default section, one layer and an empty
// sample bank.
func NewSong() Song {
	return Song{
		BPM:          DefaultBPM,
		MasterVolume: 1,
		SongWrap:     true,
		Table:        NewTable(),
		Bank:         NewSampleBank(),
	}
}

// Copy makes a deep copy of the song.
func (s Song) Copy() Song {
	ret := s
	ret.Table = s.Table.Copy()
	ret.Bank = s.Bank.Copy()
	return ret
}

// Validate checks that the song is structurally sound: at least one section
// and layer, cell matrix matching the section/layer extents, and all scalars
// inside their ranges. Project files from older versions or other clients go
// through this before they replace the live state.
func (s Song) Validate() error {
	if len(s.Table.Sections) < 1 || len(s.Table.Layers) < 1 {
		return errors.New("song needs at least one section and one layer")
	}
	if s.BPM < MinBPM || s.BPM > MaxBPM {
		return fmt.Errorf("bpm %d outside range [%d,%d]", s.BPM, MinBPM, MaxBPM)
	}
	if len(s.Table.Cells) != s.Table.Steps() {
		return fmt.Errorf("cell rows (%d) do not match section steps (%d)", len(s.Table.Cells), s.Table.Steps())
	}
	cols := s.Table.Cols()
	for i, row := range s.Table.Cells {
		if len(row) != cols {
			return fmt.Errorf("row %d has %d cells, expected %d", i, len(row), cols)
		}
		for j, c := range row {
			if c.SampleSlot >= MaxSampleSlots {
				return fmt.Errorf("cell %d:%d references slot %d, bank has %d", i, j, c.SampleSlot, MaxSampleSlots)
			}
			if c.Volume > 1 {
				return fmt.Errorf("cell %d:%d volume %v outside range [0,1]", i, j, c.Volume)
			}
			if c.Pitch >= 0 && (c.Pitch < MinPitchRatio || c.Pitch > MaxPitchRatio) {
				return fmt.Errorf("cell %d:%d pitch %v outside range [%v,%v]", i, j, c.Pitch, MinPitchRatio, MaxPitchRatio)
			}
		}
	}
	for i, sl := range s.Bank.Slots {
		if sl.Volume < 0 || sl.Volume > 1 {
			return fmt.Errorf("slot %s volume %v outside range [0,1]", SlotName(i), sl.Volume)
		}
		if sl.Pitch < MinPitchRatio || sl.Pitch > MaxPitchRatio {
			return fmt.Errorf("slot %s pitch %v outside range [%v,%v]", SlotName(i), sl.Pitch, MinPitchRatio, MaxPitchRatio)
		}
	}
	start := 0
	for i, sec := range s.Table.Sections {
		if sec.StartStep != start || sec.NumSteps < 1 || sec.Loops < MinSectionLoops || sec.Loops > MaxSectionLoops {
			return fmt.Errorf("section %d is inconsistent", i)
		}
		start += sec.NumSteps
	}
	return nil
}
