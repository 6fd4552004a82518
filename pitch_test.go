package gridbeat_test

import (
	"math"
	"testing"

	"github.com/gridbeat/gridbeat"
)

func TestUIToPitchRatio(t *testing.T) {
	for _, c := range []struct {
		ui    float32
		ratio float32
	}{
		{0, 0.5},
		{0.5, 1},
		{1, 2},
		{-3, 0.5}, // out of range inputs clamp
		{7, 2},
	} {
		if got := gridbeat.UIToPitchRatio(c.ui); math.Abs(float64(got-c.ratio)) > 1e-6 {
			t.Errorf("UIToPitchRatio(%v) = %v, want %v", c.ui, got, c.ratio)
		}
	}
}

func TestPitchRatioRoundTrip(t *testing.T) {
	for _, ui := range []float32{0, 0.125, 0.25, 0.5, 0.75, 1} {
		got := gridbeat.PitchRatioToUI(gridbeat.UIToPitchRatio(ui))
		if math.Abs(float64(got-ui)) > 1e-6 {
			t.Errorf("round trip of %v gave %v", ui, got)
		}
	}
	// ratios outside the one-octave UI span clamp to the ends
	if got := gridbeat.PitchRatioToUI(4); got != 1 {
		t.Errorf("PitchRatioToUI(4) = %v, want 1", got)
	}
	if got := gridbeat.PitchRatioToUI(0.125); got != 0 {
		t.Errorf("PitchRatioToUI(0.125) = %v, want 0", got)
	}
}

func TestSemitones(t *testing.T) {
	for _, c := range []struct {
		ratio float32
		want  int
	}{
		{1, 0},
		{2, 12},
		{0.5, -12},
		{1.0595, 1},
		{0.25, -24},
	} {
		if got := gridbeat.Semitones(c.ratio); got != c.want {
			t.Errorf("Semitones(%v) = %d, want %d", c.ratio, got, c.want)
		}
	}
}

func TestClampPitchRatio(t *testing.T) {
	if got := gridbeat.ClampPitchRatio(0); got != gridbeat.MinPitchRatio {
		t.Errorf("ClampPitchRatio(0) = %v", got)
	}
	if got := gridbeat.ClampPitchRatio(1000); got != gridbeat.MaxPitchRatio {
		t.Errorf("ClampPitchRatio(1000) = %v", got)
	}
	if got := gridbeat.ClampPitchRatio(1.5); got != 1.5 {
		t.Errorf("ClampPitchRatio(1.5) = %v", got)
	}
}
