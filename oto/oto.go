// Package oto implements the audio backend on top of the oto library: one
// streaming player fed by a software mixer that plays decoded wav samples.
package oto

import (
	"fmt"

	"github.com/ebitengine/oto/v3"
	"github.com/gridbeat/gridbeat"
)

const (
	sampleRate = 44100
	channels   = 2
)

// Backend renders triggers through an oto output stream. It implements
// gridbeat.AudioBackend; sample decodes run in their own goroutines and
// report through the observer.
type Backend struct {
	player   *oto.Player
	mixer    *mixer
	observer gridbeat.LoadObserver
}

// NewBackend opens the audio device and starts the output stream. There can
// be only one oto context per process, so there can be only one Backend.
func NewBackend(observer gridbeat.LoadObserver) (*Backend, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
	}
	context, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("cannot create oto context: %w", err)
	}
	<-ready
	m := newMixer()
	b := &Backend{
		player:   context.NewPlayer(m),
		mixer:    m,
		observer: observer,
	}
	b.player.Play()
	return b, nil
}

func (b *Backend) TriggerCell(step, col, slot int, pitch, volume float32) {
	b.mixer.triggerSlot(slot, pitch, volume, false)
}

func (b *Backend) TriggerPreview(slot int, pitch, volume float32) {
	b.mixer.triggerSlot(slot, pitch, volume, true)
}

// PreviewFile decodes the file and plays it as a preview voice without
// touching the sample bank. The decode is asynchronous like a slot load, so
// the audition starts a moment after the call.
func (b *Backend) PreviewFile(path string, pitch, volume float32) {
	go func() {
		s, err := loadWav(path)
		if err != nil {
			return
		}
		b.mixer.triggerSample(s, pitch, volume, true)
	}()
}

func (b *Backend) StopPreview() {
	b.mixer.stopPreview()
}

// LoadSample decodes the wav file behind sourceRef into the slot. Triggers
// for the slot play silence until the decode finishes.
func (b *Backend) LoadSample(slot int, sourceRef string) {
	go func() {
		s, err := loadWav(sourceRef)
		if err != nil {
			b.mixer.setSample(slot, nil)
			if b.observer != nil {
				b.observer.SampleLoaded(slot, err)
			}
			return
		}
		b.mixer.setSample(slot, s)
		if b.observer != nil {
			b.observer.SampleLoaded(slot, nil)
		}
	}()
}

func (b *Backend) UnloadSample(slot int) {
	b.mixer.setSample(slot, nil)
}

func (b *Backend) SetMasterVolume(volume float32) {
	b.mixer.setMaster(volume)
}

// Close stops the output stream. The oto context itself cannot be closed;
// it lives until the process exits.
func (b *Backend) Close() error {
	if err := b.player.Close(); err != nil {
		return fmt.Errorf("cannot close oto player: %w", err)
	}
	return nil
}
