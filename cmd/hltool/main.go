// Command hltool recovers blown highlights in image files.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/muesli/termenv"
	"github.com/spf13/pflag"
	"github.com/vearutop/highlights"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	def := highlights.DefaultParams()

	fs := pflag.NewFlagSet("hltool", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: hltool [flags] inputs...")
		fmt.Fprintln(stderr, `Edge-aware highlights adjustment. Inputs may be wildcards, e.g. "~/scans/*.jpg".`)
		fs.PrintDefaults()
	}

	outDir := fs.StringP("out-dir", "o", "", "output folder (optional)")
	suffix := fs.String("suffix", "_hl", "suffix for output files")
	overwrite := fs.Bool("overwrite", false, "overwrite originals")
	knee := fs.Float32("knee", def.Knee, "start of highlight compression (0..1)")
	strength := fs.Float32("strength", def.Strength, "how strong to compress (0..1)")
	rolloff := fs.Float32("rolloff", def.Rolloff, "transition width after knee (0..1)")
	whiteGuard := fs.Float32("white-guard", def.WhiteGuard, "protect top whites (0..0.1)")
	sigmaColor := fs.Float32("base-sigc", def.SigmaColor, "bilateral sigma color for base")
	sigmaSpace := fs.Float32("base-sigs", def.SigmaSpace, "bilateral sigma space for base")
	precise := fs.Bool("precise", false, "smooth lightness in float instead of 8-bit levels")
	preset := fs.String("preset", "", "TOML or YAML file with effect parameters, flags take precedence")
	jobs := fs.IntP("jobs", "j", 1, "number of images processed in parallel")
	retries := fs.Int("retries", 0, "extra attempts for an image that failed for a transient reason")
	quality := fs.IntP("quality", "q", 95, "JPEG output quality")
	maxSide := fs.Int("max-side", 0, "downscale outputs to fit this many pixels, 0 keeps the size")
	interpName := fs.String("interp", highlights.InterpolationLanczos3.String(),
		"downscale kernel: nearest, bilinear, bicubic, mitchell, lanczos2, lanczos3")
	keepExif := fs.Bool("keep-exif", true, "copy EXIF from JPEG inputs to JPEG outputs")
	verbose := fs.BoolP("verbose", "v", false, "debug logging")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	p := def
	if *preset != "" {
		var err error
		if p, err = highlights.LoadParams(*preset, p); err != nil {
			logger.Error("load preset", "path", *preset, "error", err)
			return 2
		}
	}
	for name, pair := range map[string]struct{ dst, src *float32 }{
		"knee":        {&p.Knee, knee},
		"strength":    {&p.Strength, strength},
		"rolloff":     {&p.Rolloff, rolloff},
		"white-guard": {&p.WhiteGuard, whiteGuard},
		"base-sigc":   {&p.SigmaColor, sigmaColor},
		"base-sigs":   {&p.SigmaSpace, sigmaSpace},
	} {
		if *preset == "" || fs.Changed(name) {
			*pair.dst = *pair.src
		}
	}
	if *preset == "" || fs.Changed("precise") {
		p.PreciseBase = *precise
	}
	if err := p.Validate(); err != nil {
		logger.Warn("parameters out of range are clamped", "error", err)
	}

	interp, err := highlights.ParseInterpolation(*interpName)
	if err != nil {
		logger.Error("invalid flag", "flag", "interp", "error", err)
		return 2
	}

	inputs := highlights.ExpandInputs(fs.Args())
	if len(inputs) == 0 {
		logger.Error("no input files matched", "patterns", fs.Args())
		return 1
	}

	// Cores left over by the image-level pool go to row-level smoothing.
	filterWorkers := runtime.GOMAXPROCS(0) / max(*jobs, 1)

	term := termenv.NewOutput(stdout)
	okTag := term.String("[OK]").Foreground(term.Color("2")).String()

	report, err := highlights.Batch(ctx, inputs, p, highlights.BatchOptions{
		OutDir:    *outDir,
		Suffix:    *suffix,
		Overwrite: *overwrite,
		Workers:   *jobs,
		Retries:   *retries,
		KeepExif:  *keepExif,
		Pipeline: highlights.Pipeline{
			Smoother: highlights.BilateralFilter{Workers: filterWorkers},
		},
		Encode: highlights.EncodeOptions{
			Quality:       *quality,
			MaxSide:       *maxSide,
			Interpolation: interp,
		},
		OnResult: func(res highlights.Result) {
			switch {
			case res.Err == nil:
				fmt.Fprintf(stdout, "%s %s -> %s\n", okTag, res.Input, res.Output)
				logger.Debug("processed", "path", res.Input, "elapsed", res.Elapsed, "attempts", res.Attempts)
			case res.Stage == highlights.StageRead:
				logger.Warn("cannot read", "path", res.Input, "error", res.Err)
			default:
				logger.Error("failed to write", "path", res.Output, "stage", res.Stage, "error", res.Err)
			}
		},
	})
	if err != nil {
		logger.Error("batch", "error", err)
		return 1
	}

	logger.Debug("done", "succeeded", report.Succeeded, "failed", report.Failed)
	if report.Succeeded == 0 {
		return 1
	}
	return 0
}
