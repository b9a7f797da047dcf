// Package audioclip holds decoded audio as floating-point samples with
// random access by frame and channel.
//
// Samples are nominally in [-1, 1]. A frame is one time slot holding
// one sample per channel; samples are stored frame-major (interleaved).
package audioclip

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidWAV is returned when the input is not a readable WAV file.
	ErrInvalidWAV = errors.New("invalid WAV file")

	// ErrUnsupportedFormat is returned for WAV encodings the codec
	// cannot represent (non-PCM data, unusual bit depths).
	ErrUnsupportedFormat = errors.New("unsupported audio format")

	errBadShape = errors.New("sample count is not a multiple of the channel count")
)

// Samples is read-only random access to a sample stream.
type Samples interface {
	NumFrames() int
	NumChannels() int
	FrameRate() float64
	Sample(frame, channel int) float64
}

// MutableSamples is a sample stream that can be rewritten in place.
type MutableSamples interface {
	Samples
	SetSample(frame, channel int, v float64)
}

// Format describes how a clip was (or will be) encoded.
type Format struct {
	SampleRate  int
	NumChannels int
	BitDepth    int

	// AudioFormat is the WAV format tag; 1 is integer PCM.
	AudioFormat int
}

func (f Format) String() string {
	return fmt.Sprintf("PCM_SIGNED %d Hz, %d bit, %d channels", f.SampleRate, f.BitDepth, f.NumChannels)
}

// Clip is an in-memory audio clip.
type Clip struct {
	format  Format
	samples []float64
}

// New wraps interleaved samples. The slice is owned by the clip
// afterwards.
func New(format Format, samples []float64) (*Clip, error) {
	if format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: %d channels", ErrUnsupportedFormat, format.NumChannels)
	}
	if format.SampleRate <= 0 {
		return nil, fmt.Errorf("%w: sample rate %d", ErrUnsupportedFormat, format.SampleRate)
	}
	if len(samples)%format.NumChannels != 0 {
		return nil, fmt.Errorf("%w: %d samples, %d channels", errBadShape, len(samples), format.NumChannels)
	}
	if format.BitDepth == 0 {
		format.BitDepth = 16
	}
	if format.AudioFormat == 0 {
		format.AudioFormat = pcmFormat
	}
	return &Clip{format: format, samples: samples}, nil
}

// NewSilent returns a clip of numFrames zero-valued frames.
func NewSilent(format Format, numFrames int) (*Clip, error) {
	if numFrames < 0 {
		numFrames = 0
	}
	return New(format, make([]float64, numFrames*max(format.NumChannels, 1)))
}

func (c *Clip) Format() Format { return c.format }
func (c *Clip) NumChannels() int { return c.format.NumChannels }
func (c *Clip) FrameRate() float64 { return float64(c.format.SampleRate) }
func (c *Clip) NumSamples() int { return len(c.samples) }
func (c *Clip) NumFrames() int { return len(c.samples) / c.format.NumChannels }
func (c *Clip) SampleAt(i int) float64 { return c.samples[i] }

// Sample returns the sample at (frame, channel).
func (c *Clip) Sample(frame, channel int) float64 {
	return c.samples[frame*c.format.NumChannels+channel]
}

// SetSample overwrites the sample at (frame, channel).
func (c *Clip) SetSample(frame, channel int, v float64) {
	c.samples[frame*c.format.NumChannels+channel] = v
}

// Decibels returns the amplitude level of one sample in decibels.
func (c *Clip) Decibels(frame, channel int) float64 {
	return AmplitudeToDecibels(c.Sample(frame, channel))
}

// Duration is the playback length of the clip.
func (c *Clip) Duration() time.Duration {
	return time.Duration(float64(c.NumFrames()) / c.FrameRate() * float64(time.Second))
}

// Clone returns a deep copy.
func (c *Clip) Clone() *Clip {
	return &Clip{format: c.format, samples: append([]float64(nil), c.samples...)}
}
