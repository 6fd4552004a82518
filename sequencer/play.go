package sequencer

import "github.com/gridbeat/gridbeat"

type (
	// Region restricts playback to the step range [Start, End); a zero
	// Region means the whole table.
	Region struct {
		Start, End int
	}

	// PlayModel exposes the transport: starting and stopping playback, the
	// tempo, the master volume and the play mode.
	PlayModel Model
)

func (r Region) Empty() bool { return r.Start >= r.End }

func (m *Model) Play() *PlayModel { return (*PlayModel)(m) }

func (p *PlayModel) Playing() Bool       { return MakeBool((*playing)(p)) }
func (p *PlayModel) BPM() Int            { return MakeInt((*songBPM)(p)) }
func (p *PlayModel) MasterVolume() Float { return MakeFloat((*masterVolume)(p)) }
func (p *PlayModel) SongMode() Bool      { return MakeBool((*songMode)(p)) }
func (p *PlayModel) SongWrap() Bool      { return MakeBool((*songWrap)(p)) }

// Status returns the playback position as last published by the player.
func (p *PlayModel) Status() PlayerStatus { return p.playerStatus }

func (p *PlayModel) Region() Region { return p.loop }

// SetRegion restricts playback to a step range; the player clamps its
// cursor into the region on the next tick. A zero region plays everything.
func (p *PlayModel) SetRegion(r Region) {
	if r.Empty() {
		r = Region{}
	}
	p.loop = r
	TrySend(p.broker.ToPlayer, any(RegionMsg{Region: r}))
}

// PlayFromSection starts playback at the first step of the selected
// section regardless of where the cursor was left.
func (p *PlayModel) PlayFromSection() Action {
	m := (*Model)(p)
	return MakeAction(func() {
		sec, ok := m.Sections().Section(p.d.SectionIndex)
		if !ok {
			return
		}
		TrySend(p.broker.ToPlayer, any(StartPlayMsg{Step: sec.StartStep}))
	})
}

type playing PlayModel

func (v *playing) Value() bool   { return v.playing }
func (v *playing) Enabled() bool { return true }
func (v *playing) SetValue(value bool) {
	if value {
		start := 0
		if !v.d.Song.SongMode {
			if sec, ok := (*Model)(v).Sections().Section(v.d.SectionIndex); ok {
				start = sec.StartStep
			}
		}
		TrySend(v.broker.ToPlayer, any(StartPlayMsg{Step: start}))
	} else {
		TrySend(v.broker.ToPlayer, any(IsPlayingMsg{Playing: false}))
	}
	// optimistic; the player confirms through its status messages
	v.playing = value
}

type songBPM PlayModel

func (v *songBPM) Value() int      { return v.d.Song.BPM }
func (v *songBPM) Range() IntRange { return IntRange{gridbeat.MinBPM, gridbeat.MaxBPM} }
func (v *songBPM) SetValue(value int) bool {
	m := (*Model)(v)
	defer m.change("BPM", "Set BPM", SettingsChange, MinorChange)()
	v.d.Song.BPM = value
	return true
}

type masterVolume PlayModel

func (v *masterVolume) Value() float32    { return v.d.Song.MasterVolume }
func (v *masterVolume) Range() FloatRange { return FloatRange{0, 1} }
func (v *masterVolume) SetValue(value float32) bool {
	m := (*Model)(v)
	defer m.change("MasterVolume", "Set Master Volume", SettingsChange, MinorChange)()
	v.d.Song.MasterVolume = value
	return true
}

type songMode PlayModel

func (v *songMode) Value() bool   { return v.d.Song.SongMode }
func (v *songMode) Enabled() bool { return true }
func (v *songMode) SetValue(value bool) {
	m := (*Model)(v)
	defer m.change("SongMode", "Toggle Song Mode", SettingsChange, MajorChange)()
	v.d.Song.SongMode = value
}

type songWrap PlayModel

func (v *songWrap) Value() bool   { return v.d.Song.SongWrap }
func (v *songWrap) Enabled() bool { return v.d.Song.SongMode }
func (v *songWrap) SetValue(value bool) {
	m := (*Model)(v)
	defer m.change("SongWrap", "Toggle Song Wrap", SettingsChange, MajorChange)()
	v.d.Song.SongWrap = value
}
