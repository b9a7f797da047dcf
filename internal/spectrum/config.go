// Package spectrum estimates power spectra of audio clips and reduces
// them to a coarse logarithmic shape used to tell clicks from speech.
//
// A Power spectrum has windowSize/2 elements; element i is the power
// at frequency i/windowSize*frameRate, in decibels relative to a
// full-scale sinusoid at that frequency (which reads 0 dB). Values are
// never below FloorDecibels.
package spectrum

import "sound-declick/internal/audioclip"

const (
	// FloorDecibels is the lowest value any spectrum element or bin
	// holds, and the initial value of every bin.
	FloorDecibels = audioclip.FloorDecibels

	// NumBins is the number of decade-wide bins: [1,10), [10,100),
	// ..., [10000,100000) Hz. Frequencies outside are discarded.
	NumBins = 5

	// The click heuristic compares the loudest element in
	// [100,1000) Hz against the loudest in [1000,10000) Hz.
	ClickLowBin  = 2
	ClickHighBin = 3

	// DefaultWindowSize is used for whole-clip spectra.
	DefaultWindowSize = 1024
)
