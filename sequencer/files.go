package sequencer

import (
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/gridbeat/gridbeat"
	"gopkg.in/yaml.v3"
)

// ReadSong loads a song from the reader, accepting either JSON or YAML, and
// makes it the current song. The undo history is cleared and the player is
// resynced, reloading the samples the song references.
func (m *Model) ReadSong(r io.ReadCloser) error {
	b, err := io.ReadAll(r)
	if err != nil {
		r.Close()
		return err
	}
	if err := r.Close(); err != nil {
		return err
	}
	var song gridbeat.Song
	if errJSON := json.Unmarshal(b, &song); errJSON != nil {
		if errYaml := yaml.Unmarshal(b, &song); errYaml != nil {
			return errors.Join(errors.New("the song could not be parsed"), errJSON, errYaml)
		}
	}
	if err := song.Validate(); err != nil {
		return err
	}
	for i := range song.Bank.Slots {
		song.Bank.Slots[i].Loaded = false
		song.Bank.Slots[i].Processing = song.Bank.Slots[i].SourceRef != ""
	}
	m.d.Song = song
	m.d.Cursor = CellAddr{}
	m.d.Cursor2 = CellAddr{}
	m.d.SectionIndex = 0
	m.d.ChangedSinceSave = false
	m.clampPositions()
	m.History().Clear()
	TrySend(m.broker.ToPlayer, any(m.d.Song.Copy()))
	TrySend(m.broker.ToGUI, any(MsgToGUI{}))
	return nil
}

// WriteSong saves the current song as YAML.
func (m *Model) WriteSong(w io.WriteCloser) error {
	b, err := yaml.Marshal(m.d.Song)
	if err != nil {
		w.Close()
		return err
	}
	if _, err := w.Write(b); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// OpenSongFile loads the song at path; on success the path becomes the
// current file path.
func (m *Model) OpenSongFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	if err := m.ReadSong(f); err != nil {
		return err
	}
	m.d.FilePath = path
	return nil
}

// SaveSongFile saves the song to path and drops the recovery file.
func (m *Model) SaveSongFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := m.WriteSong(f); err != nil {
		return err
	}
	m.d.FilePath = path
	m.d.ChangedSinceSave = false
	m.RemoveRecovery()
	return nil
}

// ResetSong replaces the current song with an empty default one.
func (m *Model) ResetSong() {
	defer m.change("ResetSong", "New Song", TableChange|BankChange|SettingsChange, MajorChange)()
	m.d.Song = gridbeat.NewSong()
	m.d.Cursor = CellAddr{}
	m.d.Cursor2 = CellAddr{}
	m.d.SectionIndex = 0
	m.d.FilePath = ""
}
