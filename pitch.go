package gridbeat

import "math"

// Pitch ratios are multiplicative playback-rate factors, 1.0 meaning
// unchanged. The UI exposes pitch as a normalized [0,1] value spanning one
// octave down to one octave up (+-12 semitones), so 0 maps to ratio 0.5, 0.5
// to 1.0 and 1 to 2.0. Slots and cells store the ratio, not the UI value.
const (
	MinPitchRatio = 0.03125 // 5 octaves down
	MaxPitchRatio = 32.0    // 5 octaves up
)

// ClampPitchRatio clamps a ratio to the playable range. Out-of-range inputs
// are clamped, not rejected.
func ClampPitchRatio(ratio float32) float32 {
	if ratio < MinPitchRatio {
		return MinPitchRatio
	}
	if ratio > MaxPitchRatio {
		return MaxPitchRatio
	}
	return ratio
}

// ClampVolume clamps a volume to [0,1].
func ClampVolume(volume float32) float32 {
	if volume < 0 {
		return 0
	}
	if volume > 1 {
		return 1
	}
	return volume
}

// UIToPitchRatio converts a normalized [0,1] UI pitch value to a ratio:
// ratio = 2^(2v-1).
func UIToPitchRatio(v float32) float32 {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return float32(math.Exp2(float64(2*v - 1)))
}

// PitchRatioToUI converts a ratio back to the normalized UI value, clamping
// ratios outside the +-1 octave span of the control.
func PitchRatioToUI(ratio float32) float32 {
	v := float32(math.Log2(float64(ratio))+1) / 2
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Semitones returns the pitch ratio as signed semitones, rounded to the
// nearest whole semitone. MIDI backends use this to turn ratios into note
// offsets.
func Semitones(ratio float32) int {
	return int(math.Round(12 * math.Log2(float64(ratio))))
}
