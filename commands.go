package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"sound-declick/internal/argmap"
	"sound-declick/internal/audioclip"
	"sound-declick/internal/sound"
	"sound-declick/internal/spectrum"
)

// commandEnv is what every command gets: the input path, its
// parameters and where to print.
type commandEnv struct {
	path   string
	params *argmap.Map
	out    io.Writer
}

var commands = map[string]func(*commandEnv) error{
	"info":     runInfo,
	"bytes":    runBytes,
	"samples":  runSamples,
	"copy":     runCopy,
	"sounds":   runSounds,
	"declick":  runDeclick,
	"freq":     runFreq,
	"freqBins": runFreqBins,
	"report":   runReport,
}

// load reads the input clip.
func (e *commandEnv) load() (*audioclip.Clip, error) {
	startTime := time.Now()
	logrus.WithField("function", "load").Debugf("[%3d%%] Reading audio file...", 0)

	clip, err := audioclip.Load(e.path)
	if err != nil {
		return nil, fmt.Errorf("audio file reading error: %w", err)
	}

	logrus.WithField("function", "load").Debugf(
		"[%3d%%] Audio file successfully read. Duration: %.2f sec, Number of channels: %d, Sample rate: %.0f Hz",
		10, time.Since(startTime).Seconds(), clip.NumChannels(), clip.FrameRate())
	return clip, nil
}

// save writes clip to path, creating its directory if needed.
func save(clip *audioclip.Clip, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	logrus.WithField("function", "save").Debugf("[%3d%%] Saving audio...", 85)
	if err := clip.Save(path); err != nil {
		return fmt.Errorf("audio file saving error: %w", err)
	}
	return nil
}

func runInfo(e *commandEnv) error {
	clip, err := e.load()
	if err != nil {
		return err
	}
	f := clip.Format()
	st := clip.Stats()

	fmt.Fprintf(e.out, "format: %s\n", f)
	fmt.Fprintf(e.out, "channels: %d\n", f.NumChannels)
	fmt.Fprintf(e.out, "frame rate (Hz): %d\n", f.SampleRate)
	fmt.Fprintf(e.out, "sample size in bits: %d\n", f.BitDepth)
	fmt.Fprintf(e.out, "bytes per sample: %d\n", (f.BitDepth+7)/8)
	fmt.Fprintf(e.out, "num frames: %d\n", clip.NumFrames())
	fmt.Fprintf(e.out, "num samples: %d\n", clip.NumSamples())
	fmt.Fprintf(e.out, "duration (s): %.3f\n", clip.Duration().Seconds())
	fmt.Fprintf(e.out, "peak level (dB): %.2f\n", st.PeakDecibels())
	fmt.Fprintf(e.out, "RMS level (dB): %.2f\n", st.RMSDecibels())
	return nil
}

// runBytes works on the undecoded data chunk.
func runBytes(e *commandEnv) error {
	limit, err := e.params.Int("max", 10)
	if err != nil {
		return err
	}
	data, err := audioclip.ReadPCMBytes(e.path)
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "read %d bytes:\n", len(data))
	for i := 0; i < limit && i < len(data); i++ {
		fmt.Fprintf(e.out, "  byte %d: %4d (0x%02x)\n", i, int8(data[i]), data[i])
	}
	return nil
}

func runSamples(e *commandEnv) error {
	limit, err := e.params.Int("max", 10)
	if err != nil {
		return err
	}
	clip, err := e.load()
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "read %d samples:\n", clip.NumSamples())
	for i := 0; i < limit && i < clip.NumSamples(); i++ {
		v := clip.SampleAt(i)
		fmt.Fprintf(e.out, "  sample %d: %.6f  \t%.2f dB\n", i, v, audioclip.AmplitudeToDecibels(v))
	}
	return nil
}

// runCopy re-encodes without processing, so a diff against the input
// checks that the codec preserves the samples.
func runCopy(e *commandEnv) error {
	out, err := e.params.RequiredString("out")
	if err != nil {
		return err
	}
	clip, err := e.load()
	if err != nil {
		return err
	}
	if err := save(clip, out); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "wrote %s\n", out)
	return nil
}

// pipelineParams builds a pipeline from the sounds/declick parameters.
func pipelineParams(params *argmap.Map, useSpectrum bool) (sound.Pipeline, error) {
	p := sound.DefaultPipeline()
	var err error

	if p.Partition.LoudnessThreshold, err = params.Float("loud_dB", p.Partition.LoudnessThreshold); err != nil {
		return p, err
	}
	if p.Partition.Closeness, err = params.Float("close_s", p.Partition.Closeness); err != nil {
		return p, err
	}
	if p.Classifier.MinDuration, err = params.Float("duration_s", p.Classifier.MinDuration); err != nil {
		return p, err
	}
	if p.Classifier.MaxClickDuration, err = params.Float("maxClick_s", p.Classifier.MaxClickDuration); err != nil {
		return p, err
	}
	if p.UseSpectrum, err = params.Bool("spectrum", useSpectrum); err != nil {
		return p, err
	}
	if p.WindowSize, err = params.Int("windowSize", p.WindowSize); err != nil {
		return p, err
	}

	for _, v := range []struct {
		name  string
		value float64
	}{
		{"close_s", p.Partition.Closeness},
		{"duration_s", p.Classifier.MinDuration},
		{"maxClick_s", p.Classifier.MaxClickDuration},
	} {
		if v.value < 0 || math.IsNaN(v.value) {
			return p, fmt.Errorf("%w: %s must not be negative: %g", argmap.ErrInvalidArgument, v.name, v.value)
		}
	}
	return p, nil
}

func runSounds(e *commandEnv) error {
	p, err := pipelineParams(e.params, false)
	if err != nil {
		return err
	}
	clip, err := e.load()
	if err != nil {
		return err
	}

	logrus.WithField("function", "runSounds").Debugf("[%3d%%] Finding sounds...", 30)
	res, err := p.Classify(clip)
	if err != nil {
		return fmt.Errorf("sound classification error: %w", err)
	}

	for i, s := range res.Sounds {
		writeSound(e.out, s, clip.FrameRate(), res.Decisions[i])
	}
	fmt.Fprintf(e.out, "%d sounds, %d retained\n", len(res.Sounds), len(res.Retained))
	return nil
}

func runDeclick(e *commandEnv) error {
	out, err := e.params.RequiredString("out")
	if err != nil {
		return err
	}
	p, err := pipelineParams(e.params, true)
	if err != nil {
		return err
	}
	clip, err := e.load()
	if err != nil {
		return err
	}

	startTime := time.Now()
	logrus.WithField("function", "runDeclick").Debugf("[%3d%%] Starting declick operation...", 30)
	res, err := p.Declick(clip)
	if err != nil {
		return fmt.Errorf("declick operation error: %w", err)
	}
	logrus.WithField("function", "runDeclick").Debugf(
		"[%3d%%] Declick operation completed. Duration: %.2f sec", 75, time.Since(startTime).Seconds())

	if err := save(clip, out); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "kept %d of %d sounds\n", len(res.Retained), len(res.Sounds))
	fmt.Fprintf(e.out, "wrote %s\n", out)
	return nil
}

// clipSpectrum estimates the power spectrum of the whole input.
func (e *commandEnv) clipSpectrum() (spectrum.Power, error) {
	windowSize, err := e.params.Int("windowSize", spectrum.DefaultWindowSize)
	if err != nil {
		return spectrum.Power{}, err
	}
	clip, err := e.load()
	if err != nil {
		return spectrum.Power{}, err
	}

	logrus.WithField("function", "clipSpectrum").Debugf("[%3d%%] Estimating power spectrum...", 30)
	p, err := spectrum.EstimateClip(clip, windowSize)
	if err != nil {
		return spectrum.Power{}, fmt.Errorf("spectrum estimation error: %w", err)
	}
	return p, nil
}

func runFreq(e *commandEnv) error {
	p, err := e.clipSpectrum()
	if err != nil {
		return err
	}

	fmt.Fprintf(e.out, "  freq       dB  dB stars\n")
	fmt.Fprintf(e.out, "------  -------  ----------\n")
	for i := 0; i < p.Len(); i++ {
		fmt.Fprintf(e.out, "%6.0f  %7.2f%s\n", p.Frequency(i), p.Decibels(i), starBar(p.Decibels(i)))
	}
	return nil
}

// starBar draws one star per 10 dB above -110 dB, so the floor gets
// none.
func starBar(dB float64) string {
	n := int(math.Floor((dB + 110) / 10))
	if n <= 0 {
		return ""
	}
	return "  " + strings.Repeat("*", n)
}

func runFreqBins(e *commandEnv) error {
	p, err := e.clipSpectrum()
	if err != nil {
		return err
	}
	writeBinned(e.out, "", spectrum.Bin(p))
	return nil
}

func writeBinned(w io.Writer, indent string, b spectrum.Binned) {
	fmt.Fprintf(w, "%sbinned frequency distribution:\n", indent)
	for k, dB := range b.MaxDecibels {
		fmt.Fprintf(w, "%s  up to %6.0f Hz: %8.3f dB max\n", indent, spectrum.UpperFrequency(k), dB)
	}
	fmt.Fprintf(w, "%sexcessLow = %.3f dB, likelyClick = %v\n", indent, b.ExcessLowDecibels, b.LikelyClick)
}

func writeSound(w io.Writer, s sound.Sound, frameRate float64, retained bool) {
	fmt.Fprintf(w, "sound [%d, %d]: maxLoud = %.3f dB, duration = %.3f s\n",
		s.StartFrame, s.EndFrame, s.MaxLoudness, s.Duration(frameRate))
	if a, ok := s.Analysis(); ok {
		writeBinned(w, "  ", a.Binned)
	}
	fmt.Fprintf(w, "  retained: %v\n", retained)
}

func runReport(e *commandEnv) error {
	out := e.params.String("out", filepath.Join("analyses", filepath.Base(e.path)+"-analysis.md"))
	p, err := pipelineParams(e.params, true)
	if err != nil {
		return err
	}
	clip, err := e.load()
	if err != nil {
		return err
	}

	logrus.WithField("function", "runReport").Debugf("[%3d%%] Analyzing clip...", 30)
	a, err := analyzeClip(e.path, clip, p)
	if err != nil {
		return err
	}

	logrus.WithField("function", "runReport").Debugf("[%3d%%] Creating analysis file: %s", 80, out)
	if err := writeAnalysisToFile(a, out); err != nil {
		return err
	}
	fmt.Fprintf(e.out, "wrote %s\n", out)
	return nil
}
