package spectrum_test

import (
	"fmt"

	"sound-declick/internal/spectrum"
)

func ExampleBin() {
	// Eight elements at 0, 500, ..., 3500 Hz.
	p := spectrum.NewPower(16, 8000, []float64{0, -12, -30, -40, -6, -50, -50, -50})
	b := spectrum.Bin(p)
	for k, db := range b.MaxDecibels {
		fmt.Printf("up to %6.0f Hz: %8.3f dB max\n", spectrum.UpperFrequency(k), db)
	}
	fmt.Printf("excessLow = %.1f dB, likelyClick = %v\n", b.ExcessLowDecibels, b.LikelyClick)
	// Output:
	// up to     10 Hz: -100.000 dB max
	// up to    100 Hz: -100.000 dB max
	// up to   1000 Hz:  -12.000 dB max
	// up to  10000 Hz:   -6.000 dB max
	// up to 100000 Hz: -100.000 dB max
	// excessLow = -6.0 dB, likelyClick = true
}
