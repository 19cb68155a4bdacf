package deflicker

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/ArnaudCalmettes/deflicker/imp"
	"github.com/ArnaudCalmettes/deflicker/input"
	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Gray levels of the synthetic sequence, all exactly representable on 8 bits.
var levels = []uint8{51, 102, 204, 102, 51}

// writeSequence writes one 2x2 frame per level to a new directory. The top
// row is a bit darker than the bottom one so that relaxation has to scale
// distinct values.
func writeSequence(t *testing.T, levels []uint8) string {
	t.Helper()
	dir := t.TempDir()
	for i, l := range levels {
		img := imaging.New(2, 2, color.NRGBA{R: l, G: l, B: l, A: 255})
		img.SetNRGBA(0, 0, color.NRGBA{R: l - 10, G: l, B: l + 10, A: 255})
		img.SetNRGBA(1, 0, color.NRGBA{R: l + 10, G: l, B: l - 10, A: 255})
		name := filepath.Join(dir, fmt.Sprintf("frame_%d.png", i+1))
		require.NoError(t, imaging.Save(img, name))
	}
	return dir
}

func TestModeFromPaths(t *testing.T) {
	assert.Equal(t, ModeNone, Config{}.Mode())
	assert.Equal(t, ModePlot, Config{PlotPath: "p.png"}.Mode())
	assert.Equal(t, ModeAdjust, Config{OutputDir: "out"}.Mode())
	assert.Equal(t, ModeBoth, Config{PlotPath: "p.png", OutputDir: "out"}.Mode())
	assert.Equal(t, "plot+adjust", ModeBoth.String())
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Config{Directory: "in", Width: 1}.Validate())
	assert.Error(t, Config{Width: 3}.Validate())
	assert.Error(t, Config{Directory: "in", Width: 0}.Validate())
	assert.Error(t, Config{Directory: "in", Width: 3, Quality: 101}.Validate())
}

func TestAnalyze(t *testing.T) {
	dir := writeSequence(t, levels)

	res, err := Analyze(context.Background(), Config{Directory: dir, Width: 3, Workers: 2})
	require.NoError(t, err)
	require.Len(t, res.Frames, 5)
	assert.Equal(t, "frame_1.png", res.Frames[0].Name)

	raw := make([]float64, len(levels))
	for i, l := range levels {
		raw[i] = float64(l) / 255
	}
	assert.InDeltaSlice(t, raw, res.Raw.Channel(1), 1e-12)

	assert.InDeltaSlice(t, []float64{
		(raw[0] + raw[0] + raw[1]) / 3,
		(raw[0] + raw[1] + raw[2]) / 3,
		(raw[1] + raw[2] + raw[3]) / 3,
		(raw[2] + raw[3] + raw[4]) / 3,
		(raw[3] + raw[4] + raw[4]) / 3,
	}, res.Smoothed.Channel(1), 1e-12)
}

func TestRunNothingToDo(t *testing.T) {
	// The directory is not even looked at.
	assert.NoError(t, Run(context.Background(), Config{Directory: "/does/not/exist", Width: 3}))
}

func TestRunPlotAndAdjust(t *testing.T) {
	dir := writeSequence(t, levels)
	out := filepath.Join(t.TempDir(), "out")
	plotFile := filepath.Join(t.TempDir(), "series.png")

	cfg := Config{
		Directory: dir,
		Width:     3,
		PlotPath:  plotFile,
		OutputDir: out,
		Relax:     imp.DefaultRelaxOptions(),
	}
	require.NoError(t, Run(context.Background(), cfg))

	_, err := os.Stat(plotFile)
	require.NoError(t, err)

	res, err := Analyze(context.Background(), cfg)
	require.NoError(t, err)
	for i, f := range res.Frames {
		img, err := imp.ReadFile(filepath.Join(out, f.Name))
		require.NoError(t, err)
		means, err := imp.Mean(img)
		require.NoError(t, err)
		assert.InDeltaSlice(t, res.Smoothed[i], means, 1.0/255, f.Name)
	}
}

func TestRunInPlace(t *testing.T) {
	dir := writeSequence(t, levels)
	cfg := Config{Directory: dir, Width: 5, OutputDir: dir}
	require.NoError(t, Run(context.Background(), cfg))

	frames, err := input.Sequence(dir)
	require.NoError(t, err)
	assert.Len(t, frames, len(levels))

	// The flicker is gone: the middle frame is no longer the brightest by far.
	res, err := Analyze(context.Background(), cfg)
	require.NoError(t, err)
	assert.Less(t, res.Raw[2][1], float64(levels[2])/255)
}

func TestExtractSkipInvalid(t *testing.T) {
	dir := writeSequence(t, levels)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame_3b.png"), []byte("garbage"), 0o644))

	_, err := Analyze(context.Background(), Config{Directory: dir, Width: 3})
	assert.ErrorIs(t, err, imp.ErrDecode)

	res, err := Analyze(context.Background(), Config{Directory: dir, Width: 3, SkipInvalid: true})
	require.NoError(t, err)
	assert.Len(t, res.Frames, len(levels))
	assert.Equal(t, len(levels), res.Raw.Len())
}

func TestExtractNothingDecodable(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "frame_1.png"), []byte("garbage"), 0o644))

	_, err := Analyze(context.Background(), Config{Directory: dir, Width: 3, SkipInvalid: true})
	assert.ErrorIs(t, err, input.ErrEmptySequence)
}

func TestAnalyzeEmptyDirectory(t *testing.T) {
	_, err := Analyze(context.Background(), Config{Directory: t.TempDir(), Width: 3})
	assert.ErrorIs(t, err, input.ErrEmptySequence)
}

func TestAdjustTargetMismatch(t *testing.T) {
	dir := writeSequence(t, levels)
	frames, err := input.Sequence(dir)
	require.NoError(t, err)

	err = Adjust(context.Background(), Config{OutputDir: t.TempDir()}, frames, nil)
	assert.Error(t, err)
}

func TestAdjustUnreachableTarget(t *testing.T) {
	dir := writeSequence(t, levels[:1])
	frames, err := input.Sequence(dir)
	require.NoError(t, err)
	targets := [][]float64{{1.5, 0.5, 0.5}}

	out := t.TempDir()
	err = Adjust(context.Background(), Config{OutputDir: out}, frames, targets)
	assert.ErrorIs(t, err, imp.ErrConvergence)

	require.NoError(t, Adjust(context.Background(), Config{OutputDir: out, SkipInvalid: true}, frames, targets))
	img, err := imp.ReadFile(filepath.Join(out, frames[0].Name))
	require.NoError(t, err)

	// Red could not reach 1.5, green and blue were still relaxed.
	means, err := imp.Mean(img)
	require.NoError(t, err)
	assert.InDelta(t, 0.5, means[1], 1.0/255)
	assert.InDelta(t, 0.5, means[2], 1.0/255)
}

func TestAdjustRejectsUnwritableFormat(t *testing.T) {
	dir := writeSequence(t, levels[:2])
	frames, err := input.Sequence(dir)
	require.NoError(t, err)
	frames[1].Name = "frame_2.webp"
	targets := [][]float64{{0.3, 0.3, 0.3}, {0.3, 0.3, 0.3}}

	out := filepath.Join(t.TempDir(), "out")
	err = Adjust(context.Background(), Config{OutputDir: out}, frames, targets)
	assert.ErrorIs(t, err, imp.ErrUnsupportedFormat)
	assert.Contains(t, err.Error(), "frame_2.webp")

	// Nothing was written, not even the first frame.
	_, err = os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestCanceledContext(t *testing.T) {
	dir := writeSequence(t, levels)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Analyze(ctx, Config{Directory: dir, Width: 3})
	assert.ErrorIs(t, err, context.Canceled)
}
