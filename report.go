package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"sound-declick/internal/audioclip"
	"sound-declick/internal/sound"
	"sound-declick/internal/spectrum"
)

// clipAnalysis is everything the markdown report shows about one clip.
type clipAnalysis struct {
	file     string
	date     time.Time
	format   audioclip.Format
	frames   int
	duration time.Duration

	stats            audioclip.Stats
	zeroCrossingRate float64

	pipeline sound.Pipeline
	result   sound.Result
	binned   spectrum.Binned
}

// analyzeClip gathers the report contents. clip is not modified.
func analyzeClip(file string, clip *audioclip.Clip, p sound.Pipeline) (clipAnalysis, error) {
	res, err := p.Classify(clip)
	if err != nil {
		return clipAnalysis{}, fmt.Errorf("sound classification error: %w", err)
	}
	power, err := spectrum.EstimateClip(clip, spectrum.DefaultWindowSize)
	if err != nil {
		return clipAnalysis{}, fmt.Errorf("spectrum estimation error: %w", err)
	}

	return clipAnalysis{
		file:             file,
		date:             time.Now(),
		format:           clip.Format(),
		frames:           clip.NumFrames(),
		duration:         clip.Duration(),
		stats:            clip.Stats(),
		zeroCrossingRate: zeroCrossingRate(clip),
		pipeline:         p,
		result:           res,
		binned:           spectrum.Bin(power),
	}, nil
}

// zeroCrossingRate is the fraction of consecutive frame pairs whose
// sign differs, averaged over channels.
func zeroCrossingRate(src audioclip.Samples) float64 {
	if src.NumFrames() < 2 {
		return 0
	}
	var crossings int
	for ch := 0; ch < src.NumChannels(); ch++ {
		for f := 1; f < src.NumFrames(); f++ {
			prev, cur := src.Sample(f-1, ch), src.Sample(f, ch)
			if (prev >= 0 && cur < 0) || (prev < 0 && cur >= 0) {
				crossings++
			}
		}
	}
	return float64(crossings) / float64(src.NumChannels()*(src.NumFrames()-1))
}

// writeAnalysisToFile writes the report to filePath, creating its
// directory.
func writeAnalysisToFile(a clipAnalysis, filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create analyses directory: %w", err)
	}
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("analysis file creation error: %w", err)
	}
	if err := writeAnalysis(file, a); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// writeAnalysis renders a as markdown.
func writeAnalysis(w io.Writer, a clipAnalysis) error {
	ew := &errWriter{w: w}
	frameRate := float64(a.format.SampleRate)

	ew.printf("# Click Analysis Report\n")
	ew.printf("# File: %s\n", a.file)
	ew.printf("# Date: %s\n", a.date.Format("2006-01-02 15:04:05"))
	ew.printf("# Format: %d Hz, %d channels, %d-bit\n", a.format.SampleRate, a.format.NumChannels, a.format.BitDepth)
	ew.printf("# Duration: %.2f seconds (%d frames)\n\n", a.duration.Seconds(), a.frames)

	// Executive summary
	ew.printf("## 1. Executive Summary\n\n")
	q := determineAudioQuality(a.stats, len(a.result.Sounds)-len(a.result.Retained))
	ew.printf("**Overall Quality Rating:** %s\n\n", q.rating)
	ew.printf("%s\n\n", q.description)

	// Levels
	ew.printf("## 2. Level Statistics\n\n")
	ew.printf("| Metric | Value | Interpretation |\n")
	ew.printf("|--------|-------|---------------|\n")
	ew.printf("| Peak Level | %.2f dB | %s |\n", a.stats.PeakDecibels(), interpretPeakLevel(a.stats.PeakDecibels()))
	ew.printf("| RMS Level | %.2f dB | %s |\n", a.stats.RMSDecibels(), interpretRMSLevel(a.stats.RMSDecibels()))
	ew.printf("| Crest Factor | %.4f | %s |\n", a.stats.CrestFactor, interpretCrestFactor(a.stats.CrestFactor))
	ew.printf("| DC Offset | %.6f | %s |\n", a.stats.DCOffset, interpretDCOffset(a.stats.DCOffset))
	ew.printf("| Zero-Crossing Rate | %.6f | %s |\n\n", a.zeroCrossingRate, interpretZeroCrossingRate(a.zeroCrossingRate))

	// Sounds
	ew.printf("## 3. Sounds\n\n")
	ew.printf("| Parameter | Value | Description |\n")
	ew.printf("|-----------|-------|-------------|\n")
	ew.printf("| loud_dB | %.2f | Level a frame must exceed to be loud |\n", a.pipeline.Partition.LoudnessThreshold)
	ew.printf("| close_s | %.3f | Longest quiet gap inside one sound |\n", a.pipeline.Partition.Closeness)
	ew.printf("| duration_s | %.3f | Shorter sounds are removed |\n", a.pipeline.Classifier.MinDuration)
	ew.printf("| maxClick_s | %.3f | Longer sounds are always kept |\n", a.pipeline.Classifier.MaxClickDuration)
	ew.printf("| spectrum | %v | Click heuristic for sounds in between |\n\n", a.pipeline.UseSpectrum)

	if len(a.result.Sounds) == 0 {
		ew.printf("No sounds above %.2f dB were found.\n\n", a.pipeline.Partition.LoudnessThreshold)
	} else {
		ew.printf("| # | Frames | Duration (s) | Max Level (dB) | Excess Low (dB) | Decision |\n")
		ew.printf("|---|--------|--------------|----------------|-----------------|----------|\n")
		for i, s := range a.result.Sounds {
			excess := "-"
			if an, ok := s.Analysis(); ok {
				excess = fmt.Sprintf("%.2f", an.Binned.ExcessLowDecibels)
			}
			ew.printf("| %d | %d-%d | %.3f | %.2f | %s | %s |\n",
				i+1, s.StartFrame, s.EndFrame, s.Duration(frameRate), s.MaxLoudness, excess,
				decisionLabel(a.result.Decisions[i], s, a.pipeline.Classifier, frameRate))
		}
		ew.printf("\n%d of %d sounds retained.\n\n", len(a.result.Retained), len(a.result.Sounds))
	}

	// Spectrum
	ew.printf("## 4. Spectral Analysis\n\n")
	ew.printf("| Frequency Band | Max Level (dB) |\n")
	ew.printf("|----------------|----------------|\n")
	lower := 1.0
	for k, dB := range a.binned.MaxDecibels {
		upper := spectrum.UpperFrequency(k)
		ew.printf("| %.0f-%.0f Hz | %.2f |\n", lower, upper, dB)
		lower = upper
	}
	ew.printf("\n**Excess low (100 Hz-1 kHz over 1-10 kHz):** %.2f dB. %s\n\n",
		a.binned.ExcessLowDecibels, interpretExcessLow(a.binned))

	// Recommendations
	ew.printf("## 5. Recommendations\n\n")
	recs := generateRecommendations(a)
	if len(recs) == 0 {
		ew.printf("No changes recommended.\n")
	}
	for i, rec := range recs {
		ew.printf("%d. **%s**: %s\n\n", i+1, rec.title, rec.description)
	}

	return ew.err
}

// errWriter keeps the first write error so the report can be written
// without checking every line.
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}

func decisionLabel(retained bool, s sound.Sound, c sound.Classifier, frameRate float64) string {
	switch {
	case retained:
		return "kept"
	case s.Duration(frameRate) < c.MinDuration:
		return "removed (too short)"
	default:
		return "removed (likely click)"
	}
}

// AudioQualityRating represents a quality assessment
type AudioQualityRating struct {
	rating      string
	description string
}

// determineAudioQuality scores level and crest factor and counts the
// sounds that declick would remove.
func determineAudioQuality(st audioclip.Stats, removed int) AudioQualityRating {
	rmsDB := st.RMSDecibels()

	var levelScore int
	switch {
	case rmsDB > -12:
		levelScore = 5
	case rmsDB > -20:
		levelScore = 4
	case rmsDB > -30:
		levelScore = 3
	case rmsDB > -45:
		levelScore = 2
	default:
		levelScore = 1
	}

	var crestScore int
	switch cf := st.CrestFactor; {
	case cf > 3 && cf < 10:
		crestScore = 5 // Ideal range
	case cf > 2 && cf <= 15:
		crestScore = 4
	case cf > 1.4 && cf <= 20:
		crestScore = 3
	default:
		crestScore = 2
	}

	clickScore := 5
	switch {
	case removed > 10:
		clickScore = 1
	case removed > 3:
		clickScore = 2
	case removed > 0:
		clickScore = 3
	}

	totalScore := float64(levelScore)*0.3 + float64(crestScore)*0.3 + float64(clickScore)*0.4

	rating := AudioQualityRating{}
	switch {
	case totalScore >= 4.5:
		rating.rating = "Excellent (5/5)"
	case totalScore >= 3.5:
		rating.rating = "Very Good (4/5)"
	case totalScore >= 2.5:
		rating.rating = "Good (3/5)"
	case totalScore >= 1.5:
		rating.rating = "Fair (2/5)"
	default:
		rating.rating = "Poor (1/5)"
	}

	if levelScore >= 4 {
		rating.description = "This audio has strong overall levels. "
	} else if levelScore >= 3 {
		rating.description = "This audio has moderate overall levels. "
	} else {
		rating.description = "This audio is quiet overall. "
	}

	if st.CrestFactor > 10 {
		rating.description += "There are significant peaks that may indicate transients or clicks. "
	} else if st.CrestFactor > 3 {
		rating.description += "The peak-to-average ratio is well balanced. "
	} else {
		rating.description += "The signal has limited dynamic variation. "
	}

	if removed == 0 {
		rating.description += "No sounds would be removed."
	} else {
		rating.description += fmt.Sprintf("%d sound(s) would be removed as too short or click-like.", removed)
	}

	return rating
}

// Recommendation represents an analysis suggestion
type Recommendation struct {
	title       string
	description string
}

// generateRecommendations creates actionable suggestions based on analysis
func generateRecommendations(a clipAnalysis) []Recommendation {
	var recommendations []Recommendation

	removed := len(a.result.Sounds) - len(a.result.Retained)
	if removed > 0 {
		recommendations = append(recommendations, Recommendation{
			title:       "Declick",
			description: fmt.Sprintf("%d short or click-like sound(s) were found. Run the declick command with the same parameters to silence them.", removed),
		})
	}

	if len(a.result.Sounds) == 0 {
		recommendations = append(recommendations, Recommendation{
			title:       "Loudness Threshold",
			description: fmt.Sprintf("Nothing exceeds %.0f dB. Lower loud_dB to find sounds in this recording.", a.pipeline.Partition.LoudnessThreshold),
		})
	} else if len(a.result.Retained) == 0 {
		recommendations = append(recommendations, Recommendation{
			title:       "Duration Threshold",
			description: "Declick would silence the whole clip. Lower duration_s or raise close_s before declicking.",
		})
	}

	if !a.pipeline.UseSpectrum {
		recommendations = append(recommendations, Recommendation{
			title:       "Spectral Classification",
			description: "Borderline sounds were kept without looking at their spectrum. Pass spectrum:true to test them for clicks.",
		})
	}

	if a.stats.PeakDecibels() > -0.1 {
		recommendations = append(recommendations, Recommendation{
			title:       "Level Normalization",
			description: "Signal peaks reach full scale. Clipped samples can be mistaken for clicks; consider lowering the gain.",
		})
	} else if a.stats.RMSDecibels() < -45 && a.stats.RMS > 0 {
		recommendations = append(recommendations, Recommendation{
			title:       "Volume Enhancement",
			description: "Overall signal level is quite low. Consider applying gain, or lower loud_dB to match.",
		})
	}

	if a.stats.DCOffset > 0.01 || a.stats.DCOffset < -0.01 {
		recommendations = append(recommendations, Recommendation{
			title:       "DC Offset Removal",
			description: "The signal is not centred on zero, which raises the level of quiet frames. Apply a high-pass filter first.",
		})
	}

	return recommendations
}

// Helper interpretation functions
func interpretPeakLevel(dB float64) string {
	if dB > -0.1 {
		return "At full scale (possible clipping)"
	} else if dB > -6 {
		return "High peak level"
	} else if dB > -20 {
		return "Moderate peak level"
	} else if dB > spectrum.FloorDecibels {
		return "Low peak level"
	}
	return "Silent"
}

func interpretRMSLevel(dB float64) string {
	if dB > -12 {
		return "Very high power level"
	} else if dB > -20 {
		return "High power level"
	} else if dB > -30 {
		return "Moderate power level"
	} else if dB > -45 {
		return "Low power level"
	}
	return "Very low power level"
}

func interpretCrestFactor(value float64) string {
	if value > 15 {
		return "Very high (may indicate transient peaks)"
	} else if value > 10 {
		return "High (dynamic audio)"
	} else if value > 5 {
		return "Moderate (typical for most audio)"
	} else if value > 3 {
		return "Low (may indicate compression)"
	} else if value == 0 {
		return "Silent"
	}
	return "Very low (heavily compressed/limited)"
}

func interpretDCOffset(value float64) string {
	if value > 0.01 || value < -0.01 {
		return "Significant offset"
	}
	return "Centred"
}

func interpretZeroCrossingRate(value float64) string {
	if value > 0.15 {
		return "Very high (suggests significant high frequency content)"
	} else if value > 0.1 {
		return "High (substantial high frequency or noise)"
	} else if value > 0.05 {
		return "Moderate (balanced frequency content)"
	} else if value > 0.02 {
		return "Low (dominant low frequency content)"
	}
	return "Very low (primarily low frequency content)"
}

func interpretExcessLow(b spectrum.Binned) string {
	if b.LikelyClick {
		return "High frequencies dominate, as in a click."
	}
	return "Low frequencies dominate, as in voice or music."
}
