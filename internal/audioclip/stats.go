package audioclip

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Stats summarizes the amplitude of a clip across all channels.
type Stats struct {
	Peak        float64 // max |x|
	RMS         float64
	CrestFactor float64 // Peak / RMS, 0 for silence
	DCOffset    float64 // mean sample value
}

// PeakDecibels returns Peak as an amplitude level.
func (s Stats) PeakDecibels() float64 { return AmplitudeToDecibels(s.Peak) }

// RMSDecibels returns RMS as an amplitude level.
func (s Stats) RMSDecibels() float64 { return AmplitudeToDecibels(s.RMS) }

// Stats computes amplitude statistics over every sample in the clip.
func (c *Clip) Stats() Stats {
	if len(c.samples) == 0 {
		return Stats{}
	}
	n := float64(len(c.samples))
	st := Stats{
		Peak:     floats.Norm(c.samples, math.Inf(1)),
		RMS:      floats.Norm(c.samples, 2) / math.Sqrt(n),
		DCOffset: floats.Sum(c.samples) / n,
	}
	if st.RMS > 0 {
		st.CrestFactor = st.Peak / st.RMS
	}
	return st
}
