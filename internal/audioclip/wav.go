package audioclip

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/sirupsen/logrus"
)

const pcmFormat = 1

// Load reads a WAV file into a clip.
func Load(path string) (*Clip, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	clip, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "audioclip.Load",
		"path":     path,
		"frames":   clip.NumFrames(),
		"channels": clip.NumChannels(),
		"rate":     clip.format.SampleRate,
		"bits":     clip.format.BitDepth,
	}).Debug("Decoded WAV file")

	return clip, nil
}

// Decode reads a whole WAV stream and converts its PCM integers to
// floating-point samples.
func Decode(r io.ReadSeeker) (*Clip, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		return nil, ErrInvalidWAV
	}
	if decoder.WavAudioFormat != pcmFormat {
		return nil, fmt.Errorf("%w: WAV format tag %d", ErrUnsupportedFormat, decoder.WavAudioFormat)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("could not read PCM buffer: %w", err)
	}

	format := Format{
		SampleRate:  buf.Format.SampleRate,
		NumChannels: buf.Format.NumChannels,
		BitDepth:    int(decoder.BitDepth),
		AudioFormat: pcmFormat,
	}
	codec, err := newSampleCodec(format.BitDepth)
	if err != nil {
		return nil, err
	}

	// Drop a trailing partial frame, if any.
	n := len(buf.Data) - len(buf.Data)%max(format.NumChannels, 1)
	samples := make([]float64, n)
	for i := range samples {
		samples[i] = codec.toFloat(buf.Data[i])
	}
	return New(format, samples)
}

// Save writes the clip as a WAV file in its own format.
func (c *Clip) Save(path string) error {
	outFile, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output file creation error: %w", err)
	}

	if err := c.Encode(outFile); err != nil {
		outFile.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := outFile.Close(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	logrus.WithFields(logrus.Fields{
		"function": "audioclip.Save",
		"path":     path,
		"frames":   c.NumFrames(),
	}).Debug("Encoded WAV file")

	return nil
}

// Encode writes the clip as WAV, converting samples back to PCM
// integers of the clip's bit depth. Out-of-range samples are clipped.
func (c *Clip) Encode(w io.WriteSeeker) error {
	codec, err := newSampleCodec(c.format.BitDepth)
	if err != nil {
		return err
	}

	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: c.format.NumChannels,
			SampleRate:  c.format.SampleRate,
		},
		Data:           make([]int, len(c.samples)),
		SourceBitDepth: c.format.BitDepth,
	}
	for i, v := range c.samples {
		buf.Data[i] = codec.toInt(v)
	}

	encoder := wav.NewEncoder(
		w,
		c.format.SampleRate,
		c.format.BitDepth,
		c.format.NumChannels,
		c.format.AudioFormat,
	)
	if err := encoder.Write(buf); err != nil {
		return fmt.Errorf("data writing error: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("could not finalize WAV header: %w", err)
	}
	return nil
}

// ReadPCMBytes returns the raw bytes of the data chunk of a WAV file,
// without decoding them.
func ReadPCMBytes(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("could not open file: %w", err)
	}
	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s: %w", path, ErrInvalidWAV)
	}
	if err := decoder.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%s: could not find PCM data: %w", path, err)
	}

	data := make([]byte, decoder.PCMChunk.Size)
	n, err := io.ReadFull(decoder.PCMChunk, data)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: could not read PCM data: %w", path, err)
	}
	return data[:n], nil
}

// sampleCodec maps PCM integers of one bit depth to [-1, 1] and back.
type sampleCodec struct {
	scale    float64
	offset   int
	minValue int
	maxValue int
}

func newSampleCodec(bitDepth int) (sampleCodec, error) {
	switch bitDepth {
	case 8:
		// 8-bit WAV is unsigned, centred on 128.
		return sampleCodec{scale: 128, offset: 128, minValue: 0, maxValue: 255}, nil
	case 16, 24, 32:
		scale := float64(int64(1) << uint(bitDepth-1))
		return sampleCodec{
			scale:    scale,
			minValue: -int(scale),
			maxValue: int(scale) - 1,
		}, nil
	default:
		return sampleCodec{}, fmt.Errorf("%w: %d-bit samples", ErrUnsupportedFormat, bitDepth)
	}
}

func (sc sampleCodec) toFloat(v int) float64 {
	return float64(v-sc.offset) / sc.scale
}

func (sc sampleCodec) toInt(x float64) int {
	v := int(math.Round(x*sc.scale)) + sc.offset
	if v < sc.minValue {
		return sc.minValue
	}
	if v > sc.maxValue {
		return sc.maxValue
	}
	return v
}
