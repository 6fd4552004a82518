// Package gridbeat contains the data model for the gridbeat step sequencer: a
// table of cells partitioned into sections (step ranges with loop counts) and
// layers (column ranges), a bank of sample slots, and the playback settings.
// Everything in this package has value semantics: the structs are plain data
// with deep Copy methods, so the sequencer package can snapshot and restore
// whole songs for undo/redo. The mutable state machinery lives in the
// sequencer package; the audio rendering behind the AudioBackend interface.
package gridbeat

// Grid and bank limits. These match the project snapshot format, so changing
// them breaks older project files.
const (
	MaxSteps       = 2048
	MaxCols        = 16
	MaxSampleSlots = 26 // slots are named A-Z
	MaxSections    = 64
	MaxLayers      = 4

	DefaultSectionSteps = 16
	DefaultLayerCols    = 4

	MinSectionLoops     = 1
	MaxSectionLoops     = 1024
	DefaultSectionLoops = 4

	MinBPM     = 60
	MaxBPM     = 300
	DefaultBPM = 120
)

type (
	// AudioBackend is the boundary to the audio rendering layer. Trigger
	// calls are fire-and-forget: implementations must not block, and a
	// dropped trigger is not an error worth retrying, as the next step is
	// already coming. Sample loading is asynchronous; the backend reports
	// completion by calling the LoadObserver it was given.
	AudioBackend interface {
		// TriggerCell plays the sample of a cell once, at the given pitch
		// ratio and volume. step and col identify the cell for backends that
		// key voices by grid address.
		TriggerCell(step, col, slot int, pitch, volume float32)

		// TriggerPreview starts a sustained preview note for the slot. Only
		// one preview plays at a time; the caller stops the previous one
		// first.
		TriggerPreview(slot int, pitch, volume float32)

		// PreviewFile auditions a file that is not loaded into any slot. The
		// backend decodes and plays it as a one-off preview voice.
		PreviewFile(path string, pitch, volume float32)
		StopPreview()

		// LoadSample starts decoding the source into the slot. It returns
		// immediately; the observer is called from the backend's goroutine
		// when the load finishes or fails.
		LoadSample(slot int, sourceRef string)
		UnloadSample(slot int)

		SetMasterVolume(volume float32)
		Close() error
	}

	// LoadObserver receives sample load completions from a backend. The
	// sequencer's Player implements this by forwarding to the model through
	// the broker.
	LoadObserver interface {
		SampleLoaded(slot int, err error)
	}
)

// NullBackend is an AudioBackend that plays nothing. It is used in tests and
// when gridbeat runs without an audio device. Loads succeed synchronously.
type NullBackend struct {
	Observer LoadObserver
}

func (NullBackend) TriggerCell(step, col, slot int, pitch, volume float32) {}
func (NullBackend) TriggerPreview(slot int, pitch, volume float32)         {}
func (NullBackend) PreviewFile(path string, pitch, volume float32)         {}
func (NullBackend) StopPreview()                                           {}
func (n NullBackend) LoadSample(slot int, sourceRef string) {
	if n.Observer != nil {
		n.Observer.SampleLoaded(slot, nil)
	}
}
func (NullBackend) UnloadSample(slot int)          {}
func (NullBackend) SetMasterVolume(volume float32) {}
func (NullBackend) Close() error                   { return nil }
