package sound

import (
	"math"

	"sound-declick/internal/audioclip"
)

// PartitionParams control how a clip is split into sounds.
type PartitionParams struct {
	// LoudnessThreshold is the level, in decibels, a frame must
	// strictly exceed to count as loud.
	LoudnessThreshold float64

	// Closeness is the longest gap, in seconds, between loud frames of
	// the same sound. The declick fade also uses it: full level within
	// Closeness/2 of a sound and silence beyond Closeness.
	Closeness float64
}

// DefaultPartitionParams returns -40 dB / 0.2 s.
func DefaultPartitionParams() PartitionParams {
	return PartitionParams{LoudnessThreshold: -40, Closeness: 0.2}
}

// ClosenessFrames converts Closeness to whole frames, truncating.
func (p PartitionParams) ClosenessFrames(frameRate float64) int {
	return int(p.Closeness * frameRate)
}

// FindSounds segments src with p.
func FindSounds(src audioclip.Samples, p PartitionParams) []Sound {
	return Segment(src, p.LoudnessThreshold, p.ClosenessFrames(src.FrameRate()))
}

// Segment scans src once and returns its sounds in order.
//
// A loud frame within closenessFrames of the open sound's last loud
// frame extends it; a loud frame further away closes it and starts a
// new one. Quiet frames never close a sound on their own. Every sound
// is emitted, however short; retention is decided separately.
func Segment(src audioclip.Samples, loudnessThreshold float64, closenessFrames int) []Sound {
	var sounds []Sound
	var cur *Sound

	for frame := 0; frame < src.NumFrames(); frame++ {
		dB := FrameLoudness(src, frame)
		if !(dB > loudnessThreshold) {
			continue
		}

		if cur != nil && frame-cur.EndFrame <= closenessFrames {
			cur.extend(frame, dB)
			continue
		}

		if cur != nil {
			sounds = append(sounds, *cur)
		}
		s := New(frame, dB)
		cur = &s
	}

	if cur != nil {
		sounds = append(sounds, *cur)
	}
	return sounds
}

// FrameLoudness is the loudest channel of frame, in decibels.
func FrameLoudness(src audioclip.Samples, frame int) float64 {
	dB := math.Inf(-1)
	for ch := 0; ch < src.NumChannels(); ch++ {
		dB = math.Max(dB, audioclip.AmplitudeToDecibels(src.Sample(frame, ch)))
	}
	return dB
}
