package sequencer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gridbeat/gridbeat"
)

// SamplesModel exposes the sample bank: loading and unloading samples into
// slots, the slot default volume and pitch, and previews.
type SamplesModel Model

func (m *Model) Samples() *SamplesModel { return (*SamplesModel)(m) }

func (s *SamplesModel) Slot(index int) gridbeat.SampleSlot {
	return s.d.Song.Bank.Slot(index)
}

func (s *SamplesModel) LoadedCount() int { return s.d.Song.Bank.LoadedCount() }

func (s *SamplesModel) Selected() Int { return MakeInt((*selectedSlot)(s)) }
func (s *SamplesModel) Volume() Float { return MakeFloat((*sampleVolume)(s)) }
func (s *SamplesModel) Pitch() Float  { return MakeFloat((*samplePitch)(s)) }
func (s *SamplesModel) Name() String  { return MakeString((*sampleName)(s)) }

// Load assigns a sample source to the slot and asks the player to decode it.
// The slot is immediately usable in the grid; Loaded flips to true once the
// backend reports the decode finished.
func (s *SamplesModel) Load(slot int, sourceRef string) bool {
	m := (*Model)(s)
	if !s.d.Song.Bank.InRange(slot) || sourceRef == "" {
		return false
	}
	desc := fmt.Sprintf("Load Sample %s", gridbeat.SlotName(slot))
	defer m.change("LoadSample", desc, BankChange, MajorChange)()
	sl := &s.d.Song.Bank.Slots[slot]
	sl.SourceRef = sourceRef
	sl.Name = strings.TrimSuffix(filepath.Base(sourceRef), filepath.Ext(sourceRef))
	sl.Loaded = false
	sl.Processing = true
	m.markSlot(slot)
	return true
}

// Unload frees the slot. Cells referring to it keep their reference and fall
// silent until a new sample is loaded into the slot.
func (s *SamplesModel) Unload(slot int) bool {
	m := (*Model)(s)
	if !s.d.Song.Bank.InRange(slot) || s.d.Song.Bank.Slots[slot].SourceRef == "" {
		return false
	}
	desc := fmt.Sprintf("Unload Sample %s", gridbeat.SlotName(slot))
	defer m.change("UnloadSample", desc, BankChange, MajorChange)()
	s.d.Song.Bank.Reset(slot)
	m.markSlot(slot)
	return true
}

type selectedSlot SamplesModel

func (v *selectedSlot) Value() int      { return v.d.SlotIndex }
func (v *selectedSlot) Range() IntRange { return IntRange{0, gridbeat.MaxSampleSlots - 1} }
func (v *selectedSlot) SetValue(value int) bool {
	v.d.SlotIndex = value
	return true
}

type sampleVolume SamplesModel

func (v *sampleVolume) Value() float32    { return v.d.Song.Bank.Slots[v.d.SlotIndex].Volume }
func (v *sampleVolume) Range() FloatRange { return FloatRange{0, 1} }
func (v *sampleVolume) SetValue(value float32) bool {
	m := (*Model)(v)
	kind := fmt.Sprintf("SampleVolume%d", v.d.SlotIndex)
	defer m.change(kind, "Set Sample Volume", BankChange, MinorChange)()
	v.d.Song.Bank.Slots[v.d.SlotIndex].Volume = value
	m.markSlot(v.d.SlotIndex)
	return true
}

// samplePitch is the slot default pitch on the 0..1 UI scale; 0.5 plays the
// sample at its recorded rate, the extremes an octave down and up.
type samplePitch SamplesModel

func (v *samplePitch) Value() float32 {
	return gridbeat.PitchRatioToUI(v.d.Song.Bank.Slots[v.d.SlotIndex].Pitch)
}
func (v *samplePitch) Range() FloatRange { return FloatRange{0, 1} }
func (v *samplePitch) SetValue(value float32) bool {
	m := (*Model)(v)
	kind := fmt.Sprintf("SamplePitch%d", v.d.SlotIndex)
	defer m.change(kind, "Set Sample Pitch", BankChange, MinorChange)()
	v.d.Song.Bank.Slots[v.d.SlotIndex].Pitch = gridbeat.UIToPitchRatio(value)
	m.markSlot(v.d.SlotIndex)
	return true
}

// SetPitchRatio sets the slot pitch directly as a playback rate ratio,
// bypassing the UI scale.
func (s *SamplesModel) SetPitchRatio(slot int, ratio float32) bool {
	m := (*Model)(s)
	if !s.d.Song.Bank.InRange(slot) {
		return false
	}
	kind := fmt.Sprintf("SamplePitch%d", slot)
	defer m.change(kind, "Set Sample Pitch", BankChange, MinorChange)()
	s.d.Song.Bank.Slots[slot].Pitch = gridbeat.ClampPitchRatio(ratio)
	m.markSlot(slot)
	return true
}

type sampleName SamplesModel

func (v *sampleName) Value() string { return v.d.Song.Bank.Slots[v.d.SlotIndex].Name }
func (v *sampleName) SetValue(value string) bool {
	m := (*Model)(v)
	defer m.change("SampleName", "Rename Sample", BankChange, MinorChange)()
	v.d.Song.Bank.Slots[v.d.SlotIndex].Name = value
	m.markSlot(v.d.SlotIndex)
	return true
}

// PreviewSlot plays the slot's sample once at its default settings, outside
// the grid schedule. Previews are fire-and-forget: a newer preview replaces
// a pending one.
func (s *SamplesModel) PreviewSlot(slot int) {
	if !s.d.Song.Bank.InRange(slot) {
		return
	}
	sl := s.d.Song.Bank.Slots[slot]
	TrySend(s.broker.ToPlayer, any(PreviewSlotMsg{Slot: slot, Volume: sl.Volume, Pitch: sl.Pitch}))
}

// PreviewCell plays one cell as it would sound during playback, with the
// cell's effective volume and pitch.
func (s *SamplesModel) PreviewCell(step, col int) {
	c := s.d.Song.Table.Cell(step, col)
	if c.SampleSlot < 0 || !s.d.Song.Bank.InRange(c.SampleSlot) {
		return
	}
	volume, pitch := gridbeat.Effective(c, s.d.Song.Bank.Slots[c.SampleSlot])
	TrySend(s.broker.ToPlayer, any(PreviewSlotMsg{Slot: c.SampleSlot, Volume: volume, Pitch: pitch}))
}

// PreviewFile auditions a sample file that has not been loaded into any
// slot, e.g. while browsing for a sample to load.
func (s *SamplesModel) PreviewFile(path string) {
	if path == "" {
		return
	}
	TrySend(s.broker.ToPlayer, any(PreviewFileMsg{Path: path, Volume: 1, Pitch: 1}))
}

func (s *SamplesModel) StopPreview() {
	TrySend(s.broker.ToPlayer, any(StopPreviewMsg{}))
}
