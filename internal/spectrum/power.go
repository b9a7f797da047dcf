package spectrum

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"sound-declick/internal/audioclip"
	"sound-declick/internal/fft"
)

// Power is an averaged power spectrum in decibels.
type Power struct {
	windowSize int
	frameRate  float64
	decibels   []float64
}

// NewPower builds a spectrum from precomputed decibel values; element
// i of decibels is the power at i/windowSize*frameRate.
func NewPower(windowSize int, frameRate float64, decibels []float64) Power {
	return Power{windowSize: windowSize, frameRate: frameRate, decibels: append([]float64(nil), decibels...)}
}

func (p Power) WindowSize() int { return p.windowSize }
func (p Power) FrameRate() float64 { return p.frameRate }

// Len returns the number of spectrum elements, windowSize/2.
func (p Power) Len() int { return len(p.decibels) }

// Decibels returns the power of element i.
func (p Power) Decibels(i int) float64 { return p.decibels[i] }

// Frequency returns the frequency in Hz that element i represents.
func (p Power) Frequency(i int) float64 {
	return float64(i) / float64(p.windowSize) * p.frameRate
}

// Estimator computes power spectra for one window size. It owns its
// FFT workspace, so it must not be used from more than one goroutine.
type Estimator struct {
	windowSize int
	window     []float64
	scale      float64

	ws    *fft.Workspace
	re    []float64
	im    []float64
	power []float64
}

// NewEstimator prepares an estimator. windowSize must be a power of
// two and at least 2.
func NewEstimator(windowSize int) (*Estimator, error) {
	if err := fft.ValidateSize(windowSize); err != nil {
		return nil, err
	}
	if windowSize < 2 {
		return nil, fmt.Errorf("%w: window size %d must be at least 2", fft.ErrInvalidSize, windowSize)
	}
	w := Hann(windowSize)
	return &Estimator{
		windowSize: windowSize,
		window:     w,
		scale:      windowScale(w),
		ws:         fft.NewWorkspace(windowSize),
		re:         make([]float64, windowSize),
		im:         make([]float64, windowSize),
		power:      make([]float64, windowSize/2),
	}, nil
}

// WindowSize returns the analysis window length in frames.
func (e *Estimator) WindowSize() int { return e.windowSize }

// Estimate measures frames [startFrame, endFrame] (inclusive) of src.
//
// Windows advance by half a window and only whole windows inside the
// range are measured; there is no zero padding. Every channel of every
// window contributes equally to the average. A range shorter than one
// window yields FloorDecibels everywhere.
func (e *Estimator) Estimate(src audioclip.Samples, startFrame, endFrame int) (Power, error) {
	n := e.windowSize
	hop := n / 2

	if startFrame < 0 {
		startFrame = 0
	}
	if last := src.NumFrames() - 1; endFrame > last {
		endFrame = last
	}

	for i := range e.power {
		e.power[i] = 0
	}
	for i := range e.im {
		e.im[i] = 0
	}

	evaluations := 0
	for start := startFrame; start+n-1 <= endFrame; start += hop {
		for ch := 0; ch < src.NumChannels(); ch++ {
			for i := 0; i < n; i++ {
				e.re[i] = src.Sample(start+i, ch) * e.window[i]
			}
			out, err := e.ws.Transform(e.re, e.im, fft.Forward)
			if err != nil {
				return Power{}, err
			}
			for i := range e.power {
				re, im := out[2*i], out[2*i+1]
				e.power[i] += re*re + im*im
			}
			evaluations++
		}
	}

	decibels := make([]float64, len(e.power))
	if evaluations == 0 {
		for i := range decibels {
			decibels[i] = FloorDecibels
		}
	} else {
		floats.Scale(e.scale/float64(evaluations), e.power)
		for i, p := range e.power {
			decibels[i] = audioclip.PowerToDecibels(p)
		}
	}

	return Power{windowSize: n, frameRate: src.FrameRate(), decibels: decibels}, nil
}

// Estimate is a one-shot helper: it measures frames [startFrame,
// endFrame] of src with a fresh Estimator.
func Estimate(src audioclip.Samples, windowSize, startFrame, endFrame int) (Power, error) {
	e, err := NewEstimator(windowSize)
	if err != nil {
		return Power{}, err
	}
	return e.Estimate(src, startFrame, endFrame)
}

// EstimateClip measures the whole of src.
func EstimateClip(src audioclip.Samples, windowSize int) (Power, error) {
	return Estimate(src, windowSize, 0, src.NumFrames()-1)
}
