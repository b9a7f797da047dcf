package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"sound-declick/internal/argmap"
)

const usage = `Usage: declick [-v] <file.wav> <command> [name:value ...]

Commands:
  info
    Print format and level information.

  bytes [max:int(10)]
    Print the first <max> raw bytes of the PCM data.

  samples [max:int(10)]
    Print the first <max> decoded samples.

  copy out:string
    Decode and re-encode to <out> without processing.

  sounds [loud_dB:float(-40)] [close_s:float(0.2)]
         [duration_s:float(0.09)] [maxClick_s:float(0.2)]
         [spectrum:bool(false)] [windowSize:int(256)]
    Report the discrete sounds: runs of frames louder than <loud_dB>
    within <close_s> seconds of each other, with the retain decision.

  declick out:string [same parameters as sounds, spectrum:bool(true)]
    Silence everything that "sounds" does not retain.

  freq [windowSize:int(1024)]
    Print the power spectrum of the whole clip.

  freqBins [windowSize:int(1024)]
    Bin the power spectrum at 10x logarithmic intervals.

  report [out:string(analyses/<file>-analysis.md)]
    Write a markdown analysis of levels, sounds and spectrum.
`

var (
	errUsage          = errors.New("expected <file.wav> <command> [name:value ...]")
	errUnknownCommand = errors.New("unknown command")
)

func main() {
	var verbose bool
	flag.BoolVar(&verbose, "v", false, "Show detailed process information")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usage)
		fmt.Fprintln(os.Stderr, "\nFlags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	logrus.SetOutput(os.Stderr)
	if verbose {
		logrus.SetLevel(logrus.DebugLevel)
	}

	if err := run(flag.Args(), os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errors.Is(err, errUsage) || errors.Is(err, errUnknownCommand) {
			fmt.Fprint(os.Stderr, usage)
		}
		os.Exit(2)
	}
}

// run executes one command. Report output goes to out.
func run(args []string, out io.Writer) error {
	if len(args) < 2 {
		return errUsage
	}
	path, name := args[0], args[1]

	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: %q", errUnknownCommand, name)
	}
	params, err := argmap.Parse(args[2:])
	if err != nil {
		return err
	}

	startTime := time.Now()
	logrus.WithFields(logrus.Fields{
		"function": "run",
		"command":  name,
		"input":    path,
	}).Debugf("[%3d%%] Starting %s...", 0, name)

	env := &commandEnv{path: path, params: params, out: out}
	if err := cmd(env); err != nil {
		return err
	}

	if unused := params.Unused(); len(unused) > 0 {
		logrus.WithFields(logrus.Fields{
			"function": "run",
			"command":  name,
		}).Warnf("ignored parameters: %v", unused)
	}
	logrus.WithFields(logrus.Fields{
		"function": "run",
		"command":  name,
		"elapsed":  time.Since(startTime),
	}).Debugf("[%3d%%] Completed %s. Duration: %.2f sec", 100, name, time.Since(startTime).Seconds())

	return nil
}
