package oto

import (
	"math"
	"sync"

	"github.com/gridbeat/gridbeat"
	"github.com/viterin/vek/vek32"
)

const maxVoices = 32

type (
	// mixer sums the active voices into the output stream. Its Read is
	// called from oto's audio goroutine while triggers arrive from the
	// player goroutine, so all state is behind the mutex; the critical
	// sections only touch slices, never block on IO.
	mixer struct {
		mu      sync.Mutex
		samples [gridbeat.MaxSampleSlots]*sample
		voices  [maxVoices]voice
		next    int // round robin index for voice stealing
		master  float32
		tmp     []float32
	}

	// sample is decoded audio: interleaved stereo float32 frames and the
	// rate they were recorded at.
	sample struct {
		data []float32
		rate float64
	}

	voice struct {
		data    []float32
		slot    int     // -1 for file previews
		pos     float64 // fractional frame position
		step    float64 // frames of source advanced per output frame
		volume  float32
		preview bool
		active  bool
	}
)

func newMixer() *mixer {
	return &mixer{master: 1}
}

func (m *mixer) setSample(slot int, s *sample) {
	if slot < 0 || slot >= gridbeat.MaxSampleSlots {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.samples[slot] = s
	if s != nil {
		return
	}
	// silence voices still playing the dropped sample
	for i := range m.voices {
		if m.voices[i].active && m.voices[i].slot == slot {
			m.voices[i].active = false
		}
	}
}

func (m *mixer) triggerSlot(slot int, pitch, volume float32, preview bool) {
	if slot < 0 || slot >= gridbeat.MaxSampleSlots {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trigger(m.samples[slot], slot, pitch, volume, preview)
}

func (m *mixer) triggerSample(s *sample, pitch, volume float32, preview bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.trigger(s, -1, pitch, volume, preview)
}

// trigger starts a voice, stealing the oldest one when all are busy. The
// caller holds the mutex.
func (m *mixer) trigger(s *sample, slot int, pitch, volume float32, preview bool) {
	if s == nil || len(s.data) == 0 {
		return
	}
	pitch = gridbeat.ClampPitchRatio(pitch)
	v := &m.voices[m.next]
	m.next = (m.next + 1) % maxVoices
	*v = voice{
		data:    s.data,
		slot:    slot,
		step:    float64(pitch) * s.rate / sampleRate,
		volume:  gridbeat.ClampVolume(volume),
		preview: preview,
		active:  true,
	}
}

func (m *mixer) stopPreview() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.voices {
		if m.voices[i].preview {
			m.voices[i].active = false
		}
	}
}

func (m *mixer) setMaster(volume float32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.master = gridbeat.ClampVolume(volume)
}

// Read mixes the active voices into p as float32 LE stereo frames. It
// always fills the whole buffer so the stream never starves; silence is
// just a sum of zero voices.
func (m *mixer) Read(p []byte) (int, error) {
	frames := len(p) / (4 * channels)
	n := frames * channels
	m.mu.Lock()
	if cap(m.tmp) < n {
		m.tmp = make([]float32, n)
	}
	buf := vek32.Zeros_Into(m.tmp[:n], n)
	for i := range m.voices {
		if m.voices[i].active {
			m.mixVoice(&m.voices[i], buf, frames)
		}
	}
	vek32.MulNumber_Inplace(buf, m.master)
	m.mu.Unlock()
	for i, v := range buf {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		bits := math.Float32bits(v)
		p[i*4] = byte(bits)
		p[i*4+1] = byte(bits >> 8)
		p[i*4+2] = byte(bits >> 16)
		p[i*4+3] = byte(bits >> 24)
	}
	return frames * 4 * channels, nil
}

// mixVoice adds one voice into buf with linear interpolation resampling;
// the voice deactivates when its sample runs out.
func (m *mixer) mixVoice(v *voice, buf []float32, frames int) {
	totalFrames := len(v.data) / channels
	for f := 0; f < frames; f++ {
		i := int(v.pos)
		if i >= totalFrames-1 {
			v.active = false
			return
		}
		frac := float32(v.pos - float64(i))
		for c := 0; c < channels; c++ {
			a := v.data[i*channels+c]
			b := v.data[(i+1)*channels+c]
			buf[f*channels+c] += (a + (b-a)*frac) * v.volume
		}
		v.pos += v.step
	}
}
