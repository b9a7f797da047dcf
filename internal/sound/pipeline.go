package sound

import (
	"time"

	"github.com/sirupsen/logrus"

	"sound-declick/internal/audioclip"
	"sound-declick/internal/spectrum"
)

// DefaultWindowSize is the per-sound spectrum window. Borderline sounds
// last 0.09-0.2 s, so the window has to fit several times into a few
// thousand frames.
const DefaultWindowSize = 256

// Pipeline bundles everything needed to classify and declick a clip.
type Pipeline struct {
	Partition  PartitionParams
	Classifier Classifier

	// UseSpectrum enables the click heuristic for borderline sounds.
	UseSpectrum bool

	// WindowSize is the spectrum window used for per-sound analysis.
	WindowSize int
}

// DefaultPipeline returns the default parameters with spectral
// classification off.
func DefaultPipeline() Pipeline {
	return Pipeline{
		Partition:  DefaultPartitionParams(),
		Classifier: DefaultClassifier(),
		WindowSize: DefaultWindowSize,
	}
}

// Result is the outcome of classifying a clip.
type Result struct {
	// Sounds holds every sound found, in order, with analyses attached
	// where they were computed.
	Sounds []Sound

	// Retained is the ordered subset of Sounds that survives.
	Retained []Sound

	// Decisions[i] is the retain decision for Sounds[i].
	Decisions []bool
}

// Classify segments src, analyzes borderline sounds when UseSpectrum is
// set, and decides what to retain. src is not modified.
func (p Pipeline) Classify(src audioclip.Samples) (Result, error) {
	startTime := time.Now()
	frameRate := src.FrameRate()

	sounds := FindSounds(src, p.Partition)
	logrus.WithFields(logrus.Fields{
		"function": "Pipeline.Classify",
		"sounds":   len(sounds),
		"elapsed":  time.Since(startTime),
	}).Debug("Segmentation completed")

	if p.UseSpectrum {
		if err := p.Analyze(src, sounds); err != nil {
			return Result{}, err
		}
	}

	res := Result{Sounds: sounds, Decisions: make([]bool, len(sounds))}
	for i, s := range sounds {
		keep := p.Classifier.ShouldRetain(s, frameRate, p.UseSpectrum)
		res.Decisions[i] = keep
		if keep {
			res.Retained = append(res.Retained, s)
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "Pipeline.Classify",
		"sounds":   len(sounds),
		"retained": len(res.Retained),
		"elapsed":  time.Since(startTime),
	}).Debug("Classification completed")

	return res, nil
}

// Declick classifies clip and then silences everything but the
// retained sounds, in place. All analysis finishes before the first
// sample is modified.
func (p Pipeline) Declick(clip audioclip.MutableSamples) (Result, error) {
	res, err := p.Classify(clip)
	if err != nil {
		return Result{}, err
	}

	closeness := p.Partition.ClosenessFrames(clip.FrameRate())
	Declick(clip, res.Retained, closeness)

	logrus.WithFields(logrus.Fields{
		"function":        "Pipeline.Declick",
		"retained":        len(res.Retained),
		"closenessFrames": closeness,
	}).Debug("Declick completed")

	return res, nil
}

// Analyze attaches a spectrum to every borderline sound that lacks
// one. Sounds outside the borderline range never consult it.
func (p Pipeline) Analyze(src audioclip.Samples, sounds []Sound) error {
	windowSize := p.WindowSize
	if windowSize == 0 {
		windowSize = DefaultWindowSize
	}
	est, err := spectrum.NewEstimator(windowSize)
	if err != nil {
		return err
	}

	frameRate := src.FrameRate()
	analyzed := 0
	for i := range sounds {
		s := &sounds[i]
		if _, ok := s.Analysis(); ok || !p.Classifier.Borderline(*s, frameRate) {
			continue
		}

		power, err := est.Estimate(src, s.StartFrame, s.EndFrame)
		if err != nil {
			return err
		}
		binned := spectrum.Bin(power)
		*s = s.WithAnalysis(Analysis{Power: power, Binned: binned})
		analyzed++

		logrus.WithFields(logrus.Fields{
			"function":    "Pipeline.Analyze",
			"start":       s.StartFrame,
			"end":         s.EndFrame,
			"excessLowDB": binned.ExcessLowDecibels,
			"likelyClick": binned.LikelyClick,
		}).Debug("Analyzed borderline sound")
	}

	logrus.WithFields(logrus.Fields{
		"function":   "Pipeline.Analyze",
		"windowSize": windowSize,
		"analyzed":   analyzed,
	}).Debug("Spectral analysis completed")

	return nil
}
