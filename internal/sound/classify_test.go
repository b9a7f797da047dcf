package sound

import (
	"testing"

	"sound-declick/internal/spectrum"
)

func soundOfFrames(n int) Sound {
	return Sound{StartFrame: 1000, EndFrame: 1000 + n - 1, MaxLoudness: -10}
}

func withClick(s Sound, click bool) Sound {
	maxDB := [spectrum.NumBins]float64{-100, -100, -20, -30, -100}
	if click {
		maxDB[spectrum.ClickHighBin] = -10
	}
	return s.WithAnalysis(Analysis{Binned: spectrum.NewBinned(maxDB)})
}

func TestShouldRetain(t *testing.T) {
	const rate = 1000
	c := DefaultClassifier()

	tests := []struct {
		name        string
		sound       Sound
		useSpectrum bool
		want        bool
	}{
		{"just below min, not click", withClick(soundOfFrames(89), false), true, false},
		{"just below min, no spectrum", soundOfFrames(89), false, false},
		{"exactly min, no analysis", soundOfFrames(90), true, true},
		{"exactly max click, click spectrum", withClick(soundOfFrames(200), true), true, true},
		{"long, click spectrum", withClick(soundOfFrames(5000), true), true, true},
		{"borderline click, spectrum on", withClick(soundOfFrames(150), true), true, false},
		{"borderline click, spectrum off", withClick(soundOfFrames(150), true), false, true},
		{"borderline voice, spectrum on", withClick(soundOfFrames(150), false), true, true},
		{"borderline, no analysis", soundOfFrames(150), true, true},
		{"single frame", soundOfFrames(1), true, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.ShouldRetain(tc.sound, rate, tc.useSpectrum); got != tc.want {
				t.Fatalf("ShouldRetain = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBorderline(t *testing.T) {
	c := Classifier{MinDuration: 0.09, MaxClickDuration: 0.2}
	for _, tc := range []struct {
		frames int
		want   bool
	}{
		{89, false}, {90, true}, {199, true}, {200, false},
	} {
		if got := c.Borderline(soundOfFrames(tc.frames), 1000); got != tc.want {
			t.Errorf("Borderline(%d frames) = %v, want %v", tc.frames, got, tc.want)
		}
	}
}

func TestRetainKeepsOrder(t *testing.T) {
	sounds := []Sound{
		{StartFrame: 0, EndFrame: 499},
		{StartFrame: 1000, EndFrame: 1009},
		withClick(Sound{StartFrame: 2000, EndFrame: 2149}, true),
		{StartFrame: 3000, EndFrame: 3149},
	}
	got := DefaultClassifier().Retain(sounds, 1000, true)
	if len(got) != 2 || got[0].StartFrame != 0 || got[1].StartFrame != 3000 {
		t.Fatalf("retained = %+v", got)
	}
}
