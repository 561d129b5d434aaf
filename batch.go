package highlights

import (
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/mitchellh/go-homedir"
)

// Stage names the batch step an image failed at.
type Stage string

// Batch stages.
const (
	StageRead   Stage = "read"
	StageAdjust Stage = "adjust"
	StageWrite  Stage = "write"
)

// BatchOptions controls batch processing.
type BatchOptions struct {
	// OutDir receives outputs, empty means next to the input. A leading ~ is expanded.
	OutDir string
	// Suffix is appended to output file stems, empty means "_hl" unless OutDir is set.
	Suffix string
	// Overwrite writes results over the inputs.
	Overwrite bool
	// Workers is the number of images processed at once, values <= 1 process sequentially.
	Workers int
	// Retries is the number of extra attempts for an image that failed
	// with an error not caused by the input itself, negative values mean none.
	Retries int
	// KeepExif copies EXIF from JPEG inputs into JPEG outputs.
	KeepExif bool

	Encode   EncodeOptions
	Pipeline Pipeline

	// OnResult is called once per input, from a single goroutine, as results arrive.
	OnResult func(res Result)
}

// Result describes the outcome for one input.
type Result struct {
	Input    string
	Output   string
	Err      error
	Stage    Stage // set when Err is not nil
	Attempts int
	Elapsed  time.Duration
}

// BatchReport holds per-input results in input order.
type BatchReport struct {
	Results   []Result
	Succeeded int
	Failed    int
}

// Batch adjusts highlights of every input file and writes the results.
//
// A failing image is reported and skipped, the batch goes on.
// Cancelling ctx stops scheduling, unscheduled inputs fail with the context error.
// An error is returned only when the output directory cannot be created.
func Batch(ctx context.Context, inputs []string, p Params, opt BatchOptions) (*BatchReport, error) {
	if expanded, err := homedir.Expand(opt.OutDir); err == nil {
		opt.OutDir = expanded
	}
	if opt.OutDir != "" && !opt.Overwrite {
		if err := os.MkdirAll(opt.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	if opt.Suffix == "" && opt.OutDir == "" {
		opt.Suffix = defaultSuffix
	}

	report := &BatchReport{Results: make([]Result, len(inputs))}
	if len(inputs) == 0 {
		return report, nil
	}

	if opt.Retries < 0 {
		opt.Retries = 0
	}

	workers := opt.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > len(inputs) {
		workers = len(inputs)
	}

	type indexed struct {
		idx int
		res Result
	}

	jobs := make(chan int)
	done := make(chan indexed)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				done <- indexed{idx: idx, res: processWithRetry(ctx, inputs[idx], p, &opt)}
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(jobs)
		for idx := range inputs {
			select {
			case jobs <- idx:
			case <-ctx.Done():
				for ; idx < len(inputs); idx++ {
					done <- indexed{idx: idx, res: Result{Input: inputs[idx], Err: ctx.Err(), Stage: StageRead}}
				}
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(done)
	}()

	for d := range done {
		report.Results[d.idx] = d.res
		if d.res.Err != nil {
			report.Failed++
		} else {
			report.Succeeded++
		}
		if opt.OnResult != nil {
			opt.OnResult(d.res)
		}
	}
	return report, nil
}

func processWithRetry(ctx context.Context, in string, p Params, opt *BatchOptions) Result {
	start := time.Now()
	res := Result{Input: in, Output: in}
	if !opt.Overwrite {
		res.Output = outputFor(in, opt)
	}
	for attempt := 0; attempt <= opt.Retries; attempt++ {
		if err := ctx.Err(); err != nil {
			if res.Err == nil {
				res.Err, res.Stage = err, StageRead
			}
			break
		}
		res.Attempts++
		res.Stage, res.Err = processFile(in, res.Output, p, opt)
		if res.Err == nil || isPermanent(res.Err) {
			break
		}
	}
	if res.Err == nil {
		res.Stage = ""
	}
	res.Elapsed = time.Since(start)
	return res
}

// outputFor names the output of in, an input already inside OutDir gets the default suffix
// so that it is not replaced without Overwrite.
func outputFor(in string, opt *BatchOptions) string {
	out := OutputPath(in, opt.OutDir, opt.Suffix)
	if samePath(in, out) {
		out = OutputPath(in, opt.OutDir, defaultSuffix)
	}
	return out
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}

func processFile(in, out string, p Params, opt *BatchOptions) (Stage, error) {
	if format := formatFromPath(out); !canEncode(format) {
		return StageWrite, fmt.Errorf("%w: %s", ErrUnsupportedFormat, out)
	}
	img, exif, err := DecodeFile(in)
	if err != nil {
		return StageRead, fmt.Errorf("read %s: %w", in, err)
	}
	adjusted, err := opt.Pipeline.Adjust(img, p)
	if err != nil {
		return StageAdjust, fmt.Errorf("adjust %s: %w", in, err)
	}
	enc := opt.Encode
	if opt.KeepExif {
		enc.Exif = exif
	}
	if err := EncodeFile(out, adjusted.RGBA(), enc); err != nil {
		return StageWrite, fmt.Errorf("write %s: %w", out, err)
	}
	return "", nil
}

// isPermanent reports errors that repeat until the input is fixed.
func isPermanent(err error) bool {
	for _, target := range []error{image.ErrFormat, ErrNotImage, ErrUnsupportedFormat, ErrChannels, ErrEmpty, ErrBufferSize} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
