package audioclip

import "math"

// FloorDecibels is reported for silent (zero) or negligible levels,
// where the logarithm is undefined or meaninglessly small.
const FloorDecibels = -100.0

// AmplitudeToDecibels converts a sample to 20*log10(|x|). The sign of
// x is lost.
func AmplitudeToDecibels(x float64) float64 {
	if x == 0 {
		return FloorDecibels
	}
	return math.Max(20*math.Log10(math.Abs(x)), FloorDecibels)
}

// PowerToDecibels converts a linear power to 10*log10(p).
func PowerToDecibels(p float64) float64 {
	if p <= 0 {
		return FloorDecibels
	}
	return math.Max(10*math.Log10(p), FloorDecibels)
}
