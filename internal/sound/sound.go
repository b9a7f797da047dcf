// Package sound finds discrete sounds in a clip, decides which ones are
// clicks, and fades out everything else.
package sound

import (
	"fmt"

	"sound-declick/internal/spectrum"
)

// Sound is a run of loud frames: [StartFrame, EndFrame] inclusive,
// where both endpoints are loud frames and no two consecutive loud
// frames inside are further apart than the segmenter's closeness
// threshold.
type Sound struct {
	StartFrame int
	EndFrame   int

	// MaxLoudness is the loudest frame in the sound, in decibels.
	MaxLoudness float64

	analysis Analysis
	analyzed bool
}

// Analysis is the spectral shape of one sound.
type Analysis struct {
	Power  spectrum.Power
	Binned spectrum.Binned
}

// New starts a one-frame sound.
func New(frame int, loudness float64) Sound {
	return Sound{StartFrame: frame, EndFrame: frame, MaxLoudness: loudness}
}

// extend moves the end of s to frame and folds in its loudness.
func (s *Sound) extend(frame int, loudness float64) {
	s.EndFrame = frame
	if loudness > s.MaxLoudness {
		s.MaxLoudness = loudness
	}
}

// FrameDuration is the number of frames in s; always at least 1.
func (s Sound) FrameDuration() int {
	return s.EndFrame - s.StartFrame + 1
}

// Duration is the length of s in seconds.
func (s Sound) Duration(frameRate float64) float64 {
	return float64(s.FrameDuration()) / frameRate
}

// DistanceToEndpoint is 0 inside s, otherwise the number of frames to
// the nearer endpoint.
func (s Sound) DistanceToEndpoint(frame int) int {
	switch {
	case frame < s.StartFrame:
		return s.StartFrame - frame
	case frame > s.EndFrame:
		return frame - s.EndFrame
	default:
		return 0
	}
}

// Analysis returns the spectral analysis of s, if one was computed.
func (s Sound) Analysis() (Analysis, bool) {
	return s.analysis, s.analyzed
}

// WithAnalysis returns a copy of s carrying a.
func (s Sound) WithAnalysis(a Analysis) Sound {
	s.analysis = a
	s.analyzed = true
	return s
}

func (s Sound) String() string {
	return fmt.Sprintf("sound [%d, %d]: maxLoud = %g dB", s.StartFrame, s.EndFrame, s.MaxLoudness)
}
