package sequencer

import (
	"time"

	"github.com/gridbeat/gridbeat"
)

type (
	// Player is the playback scheduler. It runs in its own goroutine,
	// consumes messages from the model through the broker, fires cell
	// triggers into the audio backend on a step clock, and publishes its
	// position back to the model after every step. It keeps its own copy of
	// the song so the model is free to mutate without locks.
	Player struct {
		song    gridbeat.Song
		playing bool
		step    int // absolute step of the row playing right now
		section int
		loop    int // how many times the current section has finished
		region  Region

		sources [gridbeat.MaxSampleSlots]string // per-slot refs as known to the backend

		backend gridbeat.AudioBackend
		broker  *Broker
	}

	// StartPlayMsg starts playback at the given absolute step.
	StartPlayMsg struct {
		Step int
	}

	// IsPlayingMsg pauses or resumes playback without moving the cursor.
	IsPlayingMsg struct {
		Playing bool
	}

	RegionMsg struct {
		Region Region
	}

	PreviewSlotMsg struct {
		Slot          int
		Pitch, Volume float32
	}

	PreviewFileMsg struct {
		Path          string
		Pitch, Volume float32
	}

	StopPreviewMsg struct{}
)

const stepsPerBeat = 4 // the step clock ticks sixteenth notes

func NewPlayer(broker *Broker, backend gridbeat.AudioBackend) *Player {
	if backend == nil {
		backend = gridbeat.NullBackend{}
	}
	return &Player{
		song:    gridbeat.NewSong(),
		backend: backend,
		broker:  broker,
	}
}

// SetBackend swaps the audio backend before Run is started. It exists
// because a backend needs the player as its load observer, so the two
// cannot be constructed in one step.
func (p *Player) SetBackend(backend gridbeat.AudioBackend) {
	p.backend = backend
}

// SampleLoaded implements gridbeat.LoadObserver; the backend calls it from
// its decode goroutine and the completion travels to the model through the
// broker.
func (p *Player) SampleLoaded(slot int, err error) {
	TrySend(p.broker.ToModel, MsgToModel{Data: SampleLoadedMsg{Slot: slot, Err: err}})
}

// Run is the player goroutine. It returns when ClosePlayer is signaled,
// closing the backend and then FinishedPlayer.
func (p *Player) Run() {
	defer close(p.broker.FinishedPlayer)
	defer p.backend.Close()
	ticker := time.NewTicker(p.stepDuration())
	defer ticker.Stop()
	for {
		select {
		case <-p.broker.ClosePlayer:
			return
		case msg := <-p.broker.ToPlayer:
			bpm := p.song.BPM
			restarted := p.handleMsg(msg)
			if restarted || p.song.BPM != bpm {
				// the first row of a fresh start has already been triggered;
				// the next tick comes one full step later
				ticker.Reset(p.stepDuration())
			}
		case <-ticker.C:
			if p.playing {
				p.tick()
			}
		}
	}
}

func (p *Player) stepDuration() time.Duration {
	bpm := p.song.BPM
	if bpm < gridbeat.MinBPM {
		bpm = gridbeat.DefaultBPM
	}
	return time.Minute / time.Duration(bpm*stepsPerBeat)
}

// handleMsg processes one message from the model; the return value tells
// the run loop whether the step clock needs to restart from now.
func (p *Player) handleMsg(msg any) (restarted bool) {
	switch m := msg.(type) {
	case gridbeat.Song:
		p.applySong(m)
	case StartPlayMsg:
		p.start(m.Step)
		restarted = true
	case IsPlayingMsg:
		p.playing = m.Playing
		p.sendStatus()
	case RegionMsg:
		p.region = m.Region
	case PreviewSlotMsg:
		p.backend.StopPreview()
		p.backend.TriggerPreview(m.Slot, m.Pitch, m.Volume)
	case PreviewFileMsg:
		p.backend.StopPreview()
		p.backend.PreviewFile(m.Path, m.Pitch, m.Volume)
	case StopPreviewMsg:
		p.backend.StopPreview()
	}
	return restarted
}

// applySong takes a fresh song copy from the model and diffs the sample bank
// against what the backend has: changed refs are reloaded, dropped refs
// unloaded. Undo, redo and song loading resync the backend through this one
// path, since they all arrive as whole song copies.
func (p *Player) applySong(song gridbeat.Song) {
	for i := range song.Bank.Slots {
		ref := song.Bank.Slots[i].SourceRef
		if ref == p.sources[i] {
			continue
		}
		if p.sources[i] != "" {
			p.backend.UnloadSample(i)
		}
		if ref != "" {
			p.backend.LoadSample(i, ref)
		}
		p.sources[i] = ref
	}
	if song.MasterVolume != p.song.MasterVolume {
		p.backend.SetMasterVolume(song.MasterVolume)
	}
	p.song = song
	p.clampPosition()
}

func (p *Player) start(step int) {
	if steps := p.song.Table.Steps(); step < 0 || step >= steps {
		step = 0
	}
	if !p.region.Empty() && (step < p.region.Start || step >= p.region.End) {
		step = p.region.Start
	}
	p.step = step
	p.section = p.song.Table.SectionAt(step)
	p.loop = 0
	p.playing = true
	p.triggerRow()
	p.sendStatus()
}

// tick advances the cursor one step and plays the new row. Section
// boundaries consume the section's loop count first; what happens after the
// loops depends on the play mode: section mode keeps looping the same
// section, song mode advances to the next section and, if SongWrap is set,
// wraps from the last section back to the first, otherwise stops.
func (p *Player) tick() {
	next := p.step + 1
	if !p.region.Empty() && next >= p.region.End {
		next = p.region.Start
		p.step = next
		p.section = p.song.Table.SectionAt(next)
		p.loop = 0
		p.triggerRow()
		p.sendStatus()
		return
	}
	sec, ok := p.currentSection()
	if !ok {
		p.stop()
		return
	}
	if next >= sec.StartStep+sec.NumSteps {
		p.loop++
		if p.loop < sec.Loops || !p.song.SongMode {
			if !p.song.SongMode && p.loop >= sec.Loops {
				p.loop = 0
			}
			next = sec.StartStep
		} else if p.section+1 < len(p.song.Table.Sections) {
			p.section++
			p.loop = 0
			next = p.song.Table.Sections[p.section].StartStep
		} else if p.song.SongWrap {
			p.section = 0
			p.loop = 0
			next = p.song.Table.Sections[0].StartStep
		} else {
			p.stop()
			return
		}
	}
	p.step = next
	p.triggerRow()
	p.sendStatus()
}

func (p *Player) currentSection() (gridbeat.Section, bool) {
	if p.section < 0 || p.section >= len(p.song.Table.Sections) {
		return gridbeat.Section{}, false
	}
	return p.song.Table.Sections[p.section], true
}

func (p *Player) stop() {
	p.playing = false
	p.sendStatus()
}

// triggerRow fires every non-empty cell of the current row into the
// backend. Cells referring to unloaded slots stay silent but are not an
// error: the reference outlives the sample.
func (p *Player) triggerRow() {
	cols := p.song.Table.Cols()
	for col := 0; col < cols; col++ {
		c := p.song.Table.Cell(p.step, col)
		if c.SampleSlot < 0 || !p.song.Bank.InRange(c.SampleSlot) {
			continue
		}
		slot := p.song.Bank.Slots[c.SampleSlot]
		if slot.SourceRef == "" {
			continue
		}
		volume, pitch := gridbeat.Effective(c, slot)
		p.backend.TriggerCell(p.step, col, c.SampleSlot, pitch, volume)
	}
}

// clampPosition keeps the cursor valid after the table shrinks under the
// player, e.g. when a section is deleted mid-playback.
func (p *Player) clampPosition() {
	steps := p.song.Table.Steps()
	if steps == 0 {
		p.stop()
		return
	}
	if p.step >= steps {
		p.step = steps - 1
	}
	sec := p.song.Table.SectionAt(p.step)
	if sec != p.section {
		p.section = sec
		p.loop = 0
	}
	if s, ok := p.currentSection(); ok && p.loop >= s.Loops {
		p.loop = 0
	}
}

func (p *Player) sendStatus() {
	TrySend(p.broker.ToModel, MsgToModel{
		HasPlayerStatus: true,
		Status: PlayerStatus{
			Playing:     p.playing,
			CursorStep:  p.step,
			Section:     p.section,
			SectionLoop: p.loop,
		},
	})
}
