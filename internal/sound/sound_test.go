package sound

import (
	"math"
	"testing"

	"sound-declick/internal/audioclip"
	"sound-declick/internal/spectrum"
)

func monoClip(t *testing.T, rate int, samples []float64) *audioclip.Clip {
	t.Helper()
	c, err := audioclip.New(audioclip.Format{SampleRate: rate, NumChannels: 1, BitDepth: 16}, samples)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// spikes returns n silent samples with 0.5 at each listed frame.
func spikes(n int, frames ...int) []float64 {
	s := make([]float64, n)
	for _, f := range frames {
		s[f] = 0.5
	}
	return s
}

func TestSoundBasics(t *testing.T) {
	s := New(10, -30)
	if s.FrameDuration() != 1 {
		t.Fatalf("FrameDuration = %d, want 1", s.FrameDuration())
	}
	s.extend(19, -20)
	s.extend(25, -35)
	if s.StartFrame != 10 || s.EndFrame != 25 || s.MaxLoudness != -20 {
		t.Fatalf("after extend: %+v", s)
	}
	if got := s.Duration(100); math.Abs(got-0.16) > 1e-12 {
		t.Fatalf("Duration = %v, want 0.16", got)
	}

	tests := []struct{ frame, want int }{
		{0, 10}, {9, 1}, {10, 0}, {17, 0}, {25, 0}, {26, 1}, {40, 15},
	}
	for _, tc := range tests {
		if got := s.DistanceToEndpoint(tc.frame); got != tc.want {
			t.Errorf("DistanceToEndpoint(%d) = %d, want %d", tc.frame, got, tc.want)
		}
	}

	if _, ok := s.Analysis(); ok {
		t.Fatal("new sound should have no analysis")
	}
	withA := s.WithAnalysis(Analysis{Binned: spectrum.NewBinned([spectrum.NumBins]float64{})})
	if _, ok := withA.Analysis(); !ok {
		t.Fatal("WithAnalysis did not attach analysis")
	}
	if _, ok := s.Analysis(); ok {
		t.Fatal("WithAnalysis modified the receiver")
	}
	if got := s.String(); got != "sound [10, 25]: maxLoud = -20 dB" {
		t.Fatalf("String() = %q", got)
	}
}

func TestSegmentMergeSplit(t *testing.T) {
	const closeness = 20

	merged := Segment(monoClip(t, 1000, spikes(100, 10, 10+closeness)), -40, closeness)
	if len(merged) != 1 {
		t.Fatalf("gap == closeness: got %d sounds, want 1", len(merged))
	}
	if merged[0].StartFrame != 10 || merged[0].EndFrame != 30 {
		t.Fatalf("merged sound = %+v", merged[0])
	}

	split := Segment(monoClip(t, 1000, spikes(100, 10, 10+closeness+1)), -40, closeness)
	if len(split) != 2 {
		t.Fatalf("gap == closeness+1: got %d sounds, want 2", len(split))
	}
	if split[0].EndFrame != 10 || split[1].StartFrame != 31 || split[1].EndFrame != 31 {
		t.Fatalf("split sounds = %+v", split)
	}
}

func TestSegmentChain(t *testing.T) {
	// Each spike is within closeness of the previous one, so the chain
	// forms one sound even though the ends are far apart.
	got := Segment(monoClip(t, 1000, spikes(200, 5, 20, 35, 50, 120, 199)), -40, 15)
	want := [][2]int{{5, 50}, {120, 120}, {199, 199}}
	if len(got) != len(want) {
		t.Fatalf("got %d sounds, want %d: %+v", len(got), len(want), got)
	}
	for i, w := range want {
		if got[i].StartFrame != w[0] || got[i].EndFrame != w[1] {
			t.Errorf("sound %d = [%d,%d], want %v", i, got[i].StartFrame, got[i].EndFrame, w)
		}
	}
	for i := 1; i < len(got); i++ {
		if got[i].StartFrame <= got[i-1].EndFrame {
			t.Fatalf("sounds %d and %d overlap", i-1, i)
		}
	}
}

func TestSegmentThresholdIsStrict(t *testing.T) {
	threshold := audioclip.AmplitudeToDecibels(0.5)
	if got := Segment(monoClip(t, 1000, spikes(10, 3)), threshold, 5); len(got) != 0 {
		t.Fatalf("frame at threshold counted as loud: %+v", got)
	}
	if got := Segment(monoClip(t, 1000, spikes(10, 3)), threshold-1e-9, 5); len(got) != 1 {
		t.Fatalf("frame above threshold not counted: %+v", got)
	}
}

func TestSegmentEmptyAndSilent(t *testing.T) {
	if got := Segment(monoClip(t, 1000, nil), -40, 10); len(got) != 0 {
		t.Fatalf("empty clip: %+v", got)
	}
	if got := Segment(monoClip(t, 1000, make([]float64, 50)), -40, 10); len(got) != 0 {
		t.Fatalf("silent clip: %+v", got)
	}
}

func TestSegmentUsesLoudestChannel(t *testing.T) {
	samples := make([]float64, 2*50)
	samples[2*10+1] = 0.25 // right channel only
	samples[2*12] = -1     // left channel, negative
	clip, err := audioclip.New(audioclip.Format{SampleRate: 1000, NumChannels: 2}, samples)
	if err != nil {
		t.Fatal(err)
	}
	got := Segment(clip, -40, 5)
	if len(got) != 1 || got[0].StartFrame != 10 || got[0].EndFrame != 12 {
		t.Fatalf("sounds = %+v", got)
	}
	if got[0].MaxLoudness != 0 {
		t.Fatalf("MaxLoudness = %v, want 0", got[0].MaxLoudness)
	}
	if l := FrameLoudness(clip, 10); math.Abs(l-audioclip.AmplitudeToDecibels(0.25)) > 1e-12 {
		t.Fatalf("FrameLoudness(10) = %v", l)
	}
}

func TestFindSoundsConvertsCloseness(t *testing.T) {
	clip := monoClip(t, 1000, spikes(100, 10, 30, 51))
	got := FindSounds(clip, PartitionParams{LoudnessThreshold: -40, Closeness: 0.02})
	if len(got) != 2 || got[0].EndFrame != 30 || got[1].StartFrame != 51 {
		t.Fatalf("sounds = %+v", got)
	}
	if n := DefaultPartitionParams().ClosenessFrames(8000); n != 1600 {
		t.Fatalf("default closeness at 8 kHz = %d frames, want 1600", n)
	}
}
