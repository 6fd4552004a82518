package gridbeat

type (
	// SampleSlot is one entry of the sample bank. SourceRef is the path or
	// URI the sample was loaded from; empty means the slot is free. Loaded
	// and Processing track the asynchronous load: Processing is true while a
	// decode is in flight and gates UI feedback only, never playback
	// correctness. Volume and Pitch are the slot defaults that cells inherit
	// unless they override them.
	SampleSlot struct {
		ID         string  `yaml:"id,omitempty" json:"id,omitempty"`
		Name       string  `yaml:"name,omitempty" json:"name,omitempty"`
		SourceRef  string  `yaml:"source,omitempty" json:"source,omitempty"`
		Loaded     bool    `yaml:"loaded" json:"loaded"`
		Processing bool    `yaml:"-" json:"-"`
		Volume     float32 `yaml:"volume" json:"volume"`
		Pitch      float32 `yaml:"pitch" json:"pitch"`
	}

	// SampleBank is the fixed array of sample slots, indexed 0..MaxSampleSlots-1
	// and named A-Z in the UI.
	SampleBank struct {
		Slots [MaxSampleSlots]SampleSlot `yaml:"slots" json:"slots"`
	}
)

// NewSampleBank returns a bank of empty slots with default settings.
func NewSampleBank() SampleBank {
	var b SampleBank
	for i := range b.Slots {
		b.Slots[i] = SampleSlot{Volume: 1, Pitch: 1}
	}
	return b
}

// Copy makes a copy of the bank. The bank is a plain value, so this is just
// an assignment, but the method keeps the snapshotting code uniform with
// Table.Copy.
func (b SampleBank) Copy() SampleBank { return b }

// InRange reports whether slot addresses a bank entry.
func (b SampleBank) InRange(slot int) bool {
	return slot >= 0 && slot < len(b.Slots)
}

// Slot returns the slot contents, or a zero slot if out of range.
func (b SampleBank) Slot(slot int) SampleSlot {
	if !b.InRange(slot) {
		return SampleSlot{}
	}
	return b.Slots[slot]
}

// LoadedCount returns the number of slots currently loaded.
func (b SampleBank) LoadedCount() int {
	ret := 0
	for _, s := range b.Slots {
		if s.Loaded {
			ret++
		}
	}
	return ret
}

// Reset returns the slot to its unloaded default state.
func (b *SampleBank) Reset(slot int) {
	if !b.InRange(slot) {
		return
	}
	b.Slots[slot] = SampleSlot{Volume: 1, Pitch: 1}
}

// SlotName returns the display letter of a slot: "A" for 0 through "Z".
func SlotName(slot int) string {
	if slot < 0 || slot >= MaxSampleSlots {
		return "?"
	}
	return string(rune('A' + slot))
}

// Effective computes the volume and pitch a cell should play with: the cell
// override when set (>= 0), the slot default otherwise.
func Effective(c Cell, s SampleSlot) (volume, pitch float32) {
	volume, pitch = s.Volume, s.Pitch
	if c.Volume >= 0 {
		volume = c.Volume
	}
	if c.Pitch >= 0 {
		pitch = c.Pitch
	}
	return volume, pitch
}
