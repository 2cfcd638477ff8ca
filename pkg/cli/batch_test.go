package cli

import (
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fepozopo/pixfx/pkg/fx"
)

func writeTestImage(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	require.NoError(t, SaveImage(path, makeSolidNRGBA(w, h, c)))
}

func TestPlanJobs(t *testing.T) {
	jobs, err := PlanJobs([]string{"in/cat.png"}, "", "out", fx.EffectSepia)
	require.NoError(t, err)
	assert.Equal(t, []BatchJob{{Input: "in/cat.png", Output: filepath.Join("out", "sepia-image.png")}}, jobs)

	jobs, err = PlanJobs([]string{"in/cat.png"}, "x.jpg", "out", fx.EffectSepia)
	require.NoError(t, err)
	assert.Equal(t, "x.jpg", jobs[0].Output)

	jobs, err = PlanJobs([]string{"a/cat.png", "b/dog.jpg"}, "", "", fx.EffectEmboss)
	require.NoError(t, err)
	assert.Equal(t, "cat-embossed-image.png", jobs[0].Output)
	assert.Equal(t, "dog-embossed-image.png", jobs[1].Output)

	_, err = PlanJobs(nil, "", "", fx.EffectBlur)
	assert.Error(t, err)
	_, err = PlanJobs([]string{"a.png", "b.png"}, "out.png", "", fx.EffectBlur)
	assert.Error(t, err)
	_, err = PlanJobs([]string{"a/cat.png", "b/cat.png"}, "", "", fx.EffectBlur)
	assert.Error(t, err, "colliding outputs")
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for _, name := range []string{"one.png", "two.png", "three.png"} {
		p := filepath.Join(dir, name)
		writeTestImage(t, p, 40, 30, color.NRGBA{R: 255, G: 60, B: 20, A: 255})
		inputs = append(inputs, p)
	}
	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	jobs, err := PlanJobs(inputs, "", outDir, fx.EffectPosterize)
	require.NoError(t, err)
	results, err := RunBatch(context.Background(), fx.EffectRequest{Effect: fx.EffectPosterize, Percent: 100}, jobs, BatchOptions{Workers: 2})
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, filepath.Join(dir, "one.png"), results[0].Input)

	buf, _, err := LoadBuffer(filepath.Join(outDir, "two-posterized-image.png"))
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 0, 0, 255}, buf.Pix[:4])
}

func TestRunBatchFitAndFailures(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "big.png")
	writeTestImage(t, good, 200, 100, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	jobs := []BatchJob{
		{Input: good, Output: filepath.Join(dir, "big-out.png")},
		{Input: filepath.Join(dir, "missing.png"), Output: filepath.Join(dir, "missing-out.png")},
	}
	opts := BatchOptions{Workers: 4, Fit: true, MaxWidth: 50, MaxHeight: 50}
	results, err := RunBatch(context.Background(), fx.EffectRequest{Effect: fx.EffectEdgeSobel}, jobs, opts)
	assert.Error(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, 50, results[0].Width)
	assert.Equal(t, 25, results[0].Height)

	_, err = RunBatch(context.Background(), fx.EffectRequest{Effect: fx.EffectSepia, Percent: 300}, jobs, opts)
	assert.ErrorIs(t, err, fx.ErrInvalidParameter)
}
