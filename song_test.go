package gridbeat_test

import (
	"encoding/json"
	"testing"

	"github.com/gridbeat/gridbeat"
	"gopkg.in/yaml.v3"
)

func testSong(t *testing.T) gridbeat.Song {
	t.Helper()
	song := gridbeat.NewSong()
	song.BPM = 174
	song.SongMode = true
	if err := song.Table.AppendSection(8, -1); err != nil {
		t.Fatal(err)
	}
	song.Table.Sections[1].Loops = 2
	song.Table.SetCell(0, 0, gridbeat.Cell{SampleSlot: 0, Volume: -1, Pitch: -1})
	song.Table.SetCell(4, 1, gridbeat.Cell{SampleSlot: 2, Volume: 0.25, Pitch: 1.5})
	song.Bank.Slots[0].SourceRef = "kick.wav"
	song.Bank.Slots[0].Name = "kick"
	song.Bank.Slots[2].SourceRef = "snare.wav"
	song.Bank.Slots[2].Pitch = 2
	return song
}

func TestSongYamlRoundTrip(t *testing.T) {
	song := testSong(t)
	out, err := yaml.Marshal(song)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var loaded gridbeat.Song
	if err := yaml.Unmarshal(out, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if err := loaded.Validate(); err != nil {
		t.Fatalf("loaded song invalid: %v", err)
	}
	assertSongsEqual(t, song, loaded)
}

func TestSongJSONRoundTrip(t *testing.T) {
	song := testSong(t)
	out, err := json.Marshal(song)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var loaded gridbeat.Song
	if err := json.Unmarshal(out, &loaded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	assertSongsEqual(t, song, loaded)
}

func assertSongsEqual(t *testing.T, want, got gridbeat.Song) {
	t.Helper()
	if got.BPM != want.BPM || got.SongMode != want.SongMode || got.SongWrap != want.SongWrap {
		t.Errorf("settings differ: got %v/%v/%v", got.BPM, got.SongMode, got.SongWrap)
	}
	if len(got.Table.Sections) != len(want.Table.Sections) {
		t.Fatalf("section count %d, want %d", len(got.Table.Sections), len(want.Table.Sections))
	}
	for i := range want.Table.Sections {
		if got.Table.Sections[i] != want.Table.Sections[i] {
			t.Errorf("section %d differs: %v vs %v", i, got.Table.Sections[i], want.Table.Sections[i])
		}
	}
	for step := 0; step < want.Table.Steps(); step++ {
		for col := 0; col < want.Table.Cols(); col++ {
			if got.Table.Cell(step, col) != want.Table.Cell(step, col) {
				t.Errorf("cell (%d,%d) differs: %v vs %v", step, col,
					got.Table.Cell(step, col), want.Table.Cell(step, col))
			}
		}
	}
	for i := range want.Bank.Slots {
		w, g := want.Bank.Slots[i], got.Bank.Slots[i]
		if g.SourceRef != w.SourceRef || g.Name != w.Name || g.Volume != w.Volume || g.Pitch != w.Pitch {
			t.Errorf("slot %s differs: %+v vs %+v", gridbeat.SlotName(i), g, w)
		}
	}
}

func TestValidateRejectsBrokenSongs(t *testing.T) {
	song := gridbeat.NewSong()
	song.BPM = 20
	if song.Validate() == nil {
		t.Error("BPM below range accepted")
	}

	song = gridbeat.NewSong()
	song.Table.Sections = nil
	if song.Validate() == nil {
		t.Error("song without sections accepted")
	}

	song = gridbeat.NewSong()
	song.Table.Sections[0].StartStep = 3
	if song.Validate() == nil {
		t.Error("inconsistent section starts accepted")
	}

	song = gridbeat.NewSong()
	song.Table.Cells = song.Table.Cells[:4]
	if song.Validate() == nil {
		t.Error("cell matrix shorter than sections accepted")
	}

	song = gridbeat.NewSong()
	song.Bank.Slots[0].Volume = 1e9
	if song.Validate() == nil {
		t.Error("slot volume far outside range accepted")
	}

	song = gridbeat.NewSong()
	song.Bank.Slots[3].Pitch = 1e6
	if song.Validate() == nil {
		t.Error("slot pitch outside range accepted")
	}

	song = gridbeat.NewSong()
	song.Table.SetCell(0, 0, gridbeat.Cell{SampleSlot: gridbeat.MaxSampleSlots, Volume: -1, Pitch: -1})
	if song.Validate() == nil {
		t.Error("cell slot reference past the bank accepted")
	}

	song = gridbeat.NewSong()
	song.Table.SetCell(0, 0, gridbeat.Cell{SampleSlot: 0, Volume: 5, Pitch: -1})
	if song.Validate() == nil {
		t.Error("cell volume override above 1 accepted")
	}

	song = gridbeat.NewSong()
	song.Table.SetCell(0, 0, gridbeat.Cell{SampleSlot: 0, Volume: -1, Pitch: 0.001})
	if song.Validate() == nil {
		t.Error("cell pitch override below the playable range accepted")
	}

	if err := gridbeat.NewSong().Validate(); err != nil {
		t.Errorf("default song rejected: %v", err)
	}
}

func TestEffective(t *testing.T) {
	slot := gridbeat.SampleSlot{Volume: 0.8, Pitch: 1.5}
	v, p := gridbeat.Effective(gridbeat.Cell{SampleSlot: 0, Volume: -1, Pitch: -1}, slot)
	if v != 0.8 || p != 1.5 {
		t.Errorf("cell without overrides: got %v/%v", v, p)
	}
	v, p = gridbeat.Effective(gridbeat.Cell{SampleSlot: 0, Volume: 0.25, Pitch: 2}, slot)
	if v != 0.25 || p != 2 {
		t.Errorf("cell with overrides: got %v/%v", v, p)
	}
	v, p = gridbeat.Effective(gridbeat.Cell{SampleSlot: 0, Volume: 0.25, Pitch: -1}, slot)
	if v != 0.25 || p != 1.5 {
		t.Errorf("cell with volume override only: got %v/%v", v, p)
	}
}

func TestSlotName(t *testing.T) {
	if got := gridbeat.SlotName(0); got != "A" {
		t.Errorf("SlotName(0) = %q", got)
	}
	if got := gridbeat.SlotName(25); got != "Z" {
		t.Errorf("SlotName(25) = %q", got)
	}
}
