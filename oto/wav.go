package oto

import (
	"fmt"
	"io"
	"os"

	wav "github.com/youpy/go-wav"
)

// loadWav decodes a wav file into interleaved stereo float32 frames at the
// file's own sample rate; mono files are duplicated to both channels. The
// mixer resamples on playback, so nothing is converted here.
func loadWav(path string) (*sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open sample: %w", err)
	}
	defer f.Close()
	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, fmt.Errorf("cannot read wav format: %w", err)
	}
	if format.NumChannels < 1 {
		return nil, fmt.Errorf("wav file has no channels")
	}
	s := &sample{rate: float64(format.SampleRate)}
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot decode wav samples: %w", err)
		}
		for _, smp := range samples {
			left := float32(r.FloatValue(smp, 0))
			right := left
			if format.NumChannels > 1 {
				right = float32(r.FloatValue(smp, 1))
			}
			s.data = append(s.data, left, right)
		}
	}
	if len(s.data) == 0 {
		return nil, fmt.Errorf("wav file contains no audio")
	}
	return s, nil
}
