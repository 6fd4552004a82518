// Package gomidi implements the audio backend as MIDI note output, for
// driving an external sampler or drum machine instead of the built-in
// mixer. Each sample slot maps to one note: slot A is note 36 (the General
// MIDI kick), B is 37 and so on, and pitch offsets transpose in semitones.
package gomidi

import (
	"fmt"
	"sync"
	"time"

	"github.com/gridbeat/gridbeat"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // autoregisters the rtmidi driver
)

const (
	baseNote   = 36 // GM kick; slots map to baseNote..baseNote+25
	noteLength = 100 * time.Millisecond
)

// Backend sends note on/off pairs to a MIDI out port. It implements
// gridbeat.AudioBackend; sample "loads" complete instantly since the
// receiving device owns the actual audio.
type Backend struct {
	mu       sync.Mutex
	out      drivers.Out
	send     func(midi.Message) error
	channel  uint8
	preview  int // note of the sustained preview, -1 if none
	observer gridbeat.LoadObserver
}

// NewBackend opens the first MIDI out port whose name contains portName; an
// empty portName picks the first port available.
func NewBackend(portName string, channel uint8, observer gridbeat.LoadObserver) (*Backend, error) {
	out, err := midi.FindOutPort(portName)
	if err != nil {
		return nil, fmt.Errorf("no MIDI out port matching %q: %w", portName, err)
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("cannot open MIDI out port %q: %w", out.String(), err)
	}
	return &Backend{
		out:      out,
		send:     send,
		channel:  channel,
		preview:  -1,
		observer: observer,
	}, nil
}

func (b *Backend) note(slot int, pitch float32) int {
	n := baseNote + slot + gridbeat.Semitones(pitch)
	return max(0, min(127, n))
}

func velocity(volume float32) uint8 {
	v := int(gridbeat.ClampVolume(volume) * 127)
	return uint8(max(1, min(127, v)))
}

func (b *Backend) TriggerCell(step, col, slot int, pitch, volume float32) {
	n := b.note(slot, pitch)
	b.mu.Lock()
	b.send(midi.NoteOn(b.channel, uint8(n), velocity(volume)))
	b.mu.Unlock()
	time.AfterFunc(noteLength, func() {
		b.mu.Lock()
		b.send(midi.NoteOff(b.channel, uint8(n)))
		b.mu.Unlock()
	})
}

func (b *Backend) TriggerPreview(slot int, pitch, volume float32) {
	n := b.note(slot, pitch)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.preview >= 0 {
		b.send(midi.NoteOff(b.channel, uint8(b.preview)))
	}
	b.preview = n
	b.send(midi.NoteOn(b.channel, uint8(n), velocity(volume)))
}

// PreviewFile has no meaning for a MIDI device; files cannot be auditioned
// through it.
func (b *Backend) PreviewFile(path string, pitch, volume float32) {}

func (b *Backend) StopPreview() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.preview >= 0 {
		b.send(midi.NoteOff(b.channel, uint8(b.preview)))
		b.preview = -1
	}
}

// LoadSample reports success right away: the slot only needs a note number,
// and the external device decides what it sounds like.
func (b *Backend) LoadSample(slot int, sourceRef string) {
	if b.observer != nil {
		b.observer.SampleLoaded(slot, nil)
	}
}

func (b *Backend) UnloadSample(slot int) {}

// SetMasterVolume is a no-op; the receiving device owns its level. Channel
// volume CC would fight with the device's own mixer settings.
func (b *Backend) SetMasterVolume(volume float32) {}

func (b *Backend) Close() error {
	b.StopPreview()
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.out.Close(); err != nil {
		return fmt.Errorf("cannot close MIDI out port: %w", err)
	}
	midi.CloseDriver()
	return nil
}
