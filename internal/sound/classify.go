package sound

// Classifier decides which sounds survive click removal.
type Classifier struct {
	// MinDuration: anything shorter, in seconds, is dropped.
	MinDuration float64

	// MaxClickDuration: anything at least this long, in seconds, is
	// kept without looking at its spectrum.
	MaxClickDuration float64
}

// DefaultClassifier returns 0.09 s / 0.2 s.
func DefaultClassifier() Classifier {
	return Classifier{MinDuration: 0.09, MaxClickDuration: 0.2}
}

// Borderline reports whether s is long enough to keep but short enough
// that its spectrum decides.
func (c Classifier) Borderline(s Sound, frameRate float64) bool {
	d := s.Duration(frameRate)
	return d >= c.MinDuration && d < c.MaxClickDuration
}

// ShouldRetain reports whether s should be kept. A borderline sound is
// dropped only when useSpectrum is set and its analysis says it is a
// likely click; without an analysis it is kept.
func (c Classifier) ShouldRetain(s Sound, frameRate float64, useSpectrum bool) bool {
	d := s.Duration(frameRate)
	if d < c.MinDuration {
		return false
	}
	if d >= c.MaxClickDuration {
		return true
	}
	if a, ok := s.Analysis(); useSpectrum && ok {
		return !a.Binned.LikelyClick
	}
	return true
}

// Retain filters sounds, preserving order.
func (c Classifier) Retain(sounds []Sound, frameRate float64, useSpectrum bool) []Sound {
	var kept []Sound
	for _, s := range sounds {
		if c.ShouldRetain(s, frameRate, useSpectrum) {
			kept = append(kept, s)
		}
	}
	return kept
}
