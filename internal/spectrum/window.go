package spectrum

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Hann returns the periodic Hann window of length n:
// w(i) = 0.5*(1-cos(2*pi*i/n)). It is zero at i=0 and peaks at i=n/2.
func Hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n)))
	}
	return w
}

// windowScale returns the factor that normalizes summed |X|^2 so that
// a full-scale sinusoid reads 1.0: 4/S^2 where S is the window sum.
// The 4 accounts for discarding the mirrored upper half of the bins.
func windowScale(w []float64) float64 {
	s := floats.Sum(w)
	if s > 0 {
		return 4 / (s * s)
	}
	return 1
}
