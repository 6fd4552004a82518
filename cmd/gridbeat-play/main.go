// gridbeat-play plays gridbeat song files from the command line, without
// the editor: load, hit play, ctrl-C to stop.
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gridbeat/gridbeat"
	"github.com/gridbeat/gridbeat/gomidi"
	"github.com/gridbeat/gridbeat/oto"
	"github.com/gridbeat/gridbeat/sequencer"
	"github.com/gridbeat/gridbeat/version"
)

func main() {
	midiPort := flag.String("midi", "", "Send MIDI notes to the named out port instead of playing audio.")
	midiChannel := flag.Int("channel", 9, "MIDI channel (0-15) for the -midi output.")
	section := flag.Int("section", -1, "Loop the given section instead of playing the whole song.")
	bpm := flag.Int("bpm", 0, "Override the song tempo.")
	help := flag.Bool("h", false, "Show help.")
	versionFlag := flag.Bool("v", false, "Print version.")
	flag.Usage = printUsage
	flag.Parse()
	if *versionFlag {
		fmt.Println(version.VersionOrHash)
		os.Exit(0)
	}
	if flag.NArg() != 1 || *help {
		flag.Usage()
		os.Exit(0)
	}

	broker := sequencer.NewBroker()
	model := sequencer.NewModel(broker, "")

	var backend gridbeat.AudioBackend
	var err error
	player := sequencer.NewPlayer(broker, nil)
	if *midiPort != "" {
		backend, err = gomidi.NewBackend(*midiPort, uint8(*midiChannel&0xf), player)
	} else {
		backend, err = oto.NewBackend(player)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not open audio backend: %v\n", err)
		os.Exit(1)
	}
	player.SetBackend(backend)
	go player.Run()

	if err := model.OpenSongFile(flag.Arg(0)); err != nil {
		fmt.Fprintf(os.Stderr, "could not load song %v: %v\n", flag.Arg(0), err)
		os.Exit(1)
	}
	if *bpm > 0 {
		model.Play().BPM().SetValue(*bpm)
	}
	if *section >= 0 {
		model.Play().SongMode().SetValue(false)
		model.Sections().Selected().SetValue(*section)
	} else {
		model.Play().SongMode().SetValue(true)
	}
	model.Play().Playing().SetValue(true)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	started := false
	for {
		select {
		case msg := <-broker.ToModel:
			model.ProcessMsg(msg)
			if s := model.PlayerStatus(); s.Playing {
				started = true
			} else if started {
				// the song ran out (song mode without wrap)
				shutdown(broker)
				return
			}
		case <-interrupt:
			shutdown(broker)
			return
		}
	}
}

func shutdown(broker *sequencer.Broker) {
	broker.ClosePlayer <- struct{}{}
	select {
	case <-broker.FinishedPlayer:
	case <-time.After(3 * time.Second):
		fmt.Fprintln(os.Stderr, "player did not shut down cleanly")
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, "gridbeat command line utility for playing .yml/.json song files.\nUsage: %s [flags] path\n", os.Args[0])
	flag.PrintDefaults()
}
