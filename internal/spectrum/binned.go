package spectrum

import "math"

// Binned is the maximum power within each decade-wide frequency bin.
//
// The click heuristic is only meaningful for short sounds (well under
// 0.2 s); longer sounds average too much material for the low/high
// balance to say anything.
type Binned struct {
	MaxDecibels [NumBins]float64

	// ExcessLowDecibels is the loudest element below 1 kHz minus the
	// loudest element from 1 kHz to 10 kHz.
	ExcessLowDecibels float64

	// LikelyClick is set when the 1-10 kHz band dominates.
	LikelyClick bool
}

// NewBinned derives the heuristic fields from per-bin maxima.
func NewBinned(maxDecibels [NumBins]float64) Binned {
	excess := maxDecibels[ClickLowBin] - maxDecibels[ClickHighBin]
	return Binned{
		MaxDecibels:       maxDecibels,
		ExcessLowDecibels: excess,
		LikelyClick:       excess < 0,
	}
}

// Bin collapses p into NumBins logarithmic bins. Elements below 1 Hz
// (including DC) and at or above 10^NumBins Hz are ignored.
func Bin(p Power) Binned {
	var maxDB [NumBins]float64
	for k := range maxDB {
		maxDB[k] = FloorDecibels
	}

	for i := 0; i < p.Len(); i++ {
		bin, ok := BinIndex(p.Frequency(i))
		if !ok {
			continue
		}
		maxDB[bin] = math.Max(maxDB[bin], p.Decibels(i))
	}
	return NewBinned(maxDB)
}

// BinIndex returns the decade bin for freq, floor(log10(freq)).
// Boundaries are compared against exact powers of ten; math.Log10
// rounds 1000 down to 2.9999999999999996.
func BinIndex(freq float64) (int, bool) {
	if !(freq >= 1) {
		return 0, false
	}
	upper := 10.0
	for bin := 0; bin < NumBins; bin++ {
		if freq < upper {
			return bin, true
		}
		upper *= 10
	}
	return 0, false
}

// UpperFrequency returns the exclusive upper bound of bin k in Hz.
func UpperFrequency(k int) float64 {
	upper := 10.0
	for ; k > 0; k-- {
		upper *= 10
	}
	return upper
}
