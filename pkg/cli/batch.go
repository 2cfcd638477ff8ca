package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc/pool"

	"github.com/Fepozopo/pixfx/pkg/fx"
)

// BatchJob is one input file and where its result goes.
type BatchJob struct {
	Input  string
	Output string
}

// BatchResult describes a finished job.
type BatchResult struct {
	BatchJob
	Width    int
	Height   int
	Duration time.Duration
}

// BatchOptions controls RunBatch.
type BatchOptions struct {
	Workers int
	// Fit scales each input into MaxWidth x MaxHeight before processing.
	Fit       bool
	MaxWidth  int
	MaxHeight int
}

// PlanJobs derives output paths. A single input goes to out, or to the
// effect's download name inside outDir. Several inputs each get their own
// "<stem>-<download name>" inside outDir.
func PlanJobs(inputs []string, out, outDir string, e fx.Effect) ([]BatchJob, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input images")
	}
	if out != "" && len(inputs) > 1 {
		return nil, fmt.Errorf("--out needs exactly one input, got %d", len(inputs))
	}
	if outDir == "" {
		outDir = "."
	}
	name := DefaultOutputName(e)
	jobs := make([]BatchJob, 0, len(inputs))
	seen := make(map[string]string, len(inputs))
	for _, in := range inputs {
		dst := out
		if dst == "" {
			dst = filepath.Join(outDir, name)
			if len(inputs) > 1 {
				stem := strings.TrimSuffix(filepath.Base(in), filepath.Ext(in))
				dst = filepath.Join(outDir, stem+"-"+name)
			}
		}
		if prev, dup := seen[dst]; dup {
			return nil, fmt.Errorf("%s and %s would both write %s", prev, in, dst)
		}
		seen[dst] = in
		jobs = append(jobs, BatchJob{Input: in, Output: dst})
	}
	return jobs, nil
}

// ProcessFile runs req on one image file and writes the result.
func ProcessFile(job BatchJob, req fx.EffectRequest, opts BatchOptions) (BatchResult, error) {
	start := time.Now()
	img, _, err := LoadImage(job.Input)
	if err != nil {
		return BatchResult{}, err
	}
	if opts.Fit {
		img = FitToViewport(img, opts.MaxWidth, opts.MaxHeight)
	}
	out, err := fx.Apply(fx.FromImage(img), req)
	if err != nil {
		return BatchResult{}, fmt.Errorf("%s: %w", job.Input, err)
	}
	if err := SaveImage(job.Output, out.Image()); err != nil {
		return BatchResult{}, fmt.Errorf("write %s: %w", job.Output, err)
	}
	return BatchResult{BatchJob: job, Width: out.Width, Height: out.Height, Duration: time.Since(start)}, nil
}

// RunBatch processes jobs on a bounded pool. Every job is attempted; the
// returned error joins all failures. Results are sorted by input path.
func RunBatch(ctx context.Context, req fx.EffectRequest, jobs []BatchJob, opts BatchOptions) ([]BatchResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}
	p := pool.NewWithResults[BatchResult]().WithMaxGoroutines(workers).WithContext(ctx)
	for _, job := range jobs {
		job := job
		p.Go(func(ctx context.Context) (BatchResult, error) {
			if err := ctx.Err(); err != nil {
				return BatchResult{}, err
			}
			res, err := ProcessFile(job, req, opts)
			if err != nil {
				log.WithError(err).WithField("input", job.Input).Error("effect failed")
				return BatchResult{}, err
			}
			log.WithFields(log.Fields{
				"input":    job.Input,
				"output":   job.Output,
				"effect":   req.Effect.String(),
				"size":     fmt.Sprintf("%dx%d", res.Width, res.Height),
				"duration": res.Duration,
			}).Info("effect applied")
			return res, nil
		})
	}
	results, err := p.Wait()
	sort.Slice(results, func(i, j int) bool { return results[i].Input < results[j].Input })
	return results, err
}
