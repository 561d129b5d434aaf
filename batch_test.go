package highlights

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/mitchellh/go-homedir"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func brightImage(seed int) *Image {
	return fillImage(24, 18, func(x, y int) (uint8, uint8, uint8) {
		return uint8(200 + (x+seed)%50), uint8(190 + (y*seed)%60), 245
	})
}

func writePNG(t *testing.T, path string, img *Image) {
	t.Helper()
	require.NoError(t, EncodeFile(path, img.RGBA(), EncodeOptions{}))
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.png")
	b := filepath.Join(dir, "b.png")
	bad := filepath.Join(dir, "bad.png")
	writePNG(t, a, brightImage(1))
	writePNG(t, b, brightImage(2))
	require.NoError(t, os.WriteFile(bad, []byte("definitely not a png"), 0o600))

	var calls atomic.Int32
	report, err := Batch(context.Background(), []string{a, bad, b}, DefaultParams(), BatchOptions{
		Workers:  2,
		Retries:  2,
		OnResult: func(Result) { calls.Add(1) },
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, int32(3), calls.Load())
	require.Len(t, report.Results, 3)

	ok := report.Results[0]
	assert.Equal(t, a, ok.Input)
	assert.Equal(t, filepath.Join(dir, "a_hl.png"), ok.Output)
	assert.NoError(t, ok.Err)
	assert.Equal(t, 1, ok.Attempts)
	assert.FileExists(t, ok.Output)

	failed := report.Results[1]
	require.Error(t, failed.Err)
	assert.Equal(t, StageRead, failed.Stage)
	assert.Equal(t, 1, failed.Attempts, "undecodable input is not retried")
	assert.NoFileExists(t, failed.Output)

	assert.FileExists(t, filepath.Join(dir, "b_hl.png"))
}

func TestBatchParallelMatchesSequential(t *testing.T) {
	dir := t.TempDir()
	var inputs []string
	for i := 0; i < 5; i++ {
		in := filepath.Join(dir, string(rune('a'+i))+".png")
		writePNG(t, in, brightImage(i+1))
		inputs = append(inputs, in)
	}

	seqDir := filepath.Join(dir, "seq")
	parDir := filepath.Join(dir, "par")

	_, err := Batch(context.Background(), inputs, DefaultParams(), BatchOptions{OutDir: seqDir, Workers: 1})
	require.NoError(t, err)
	report, err := Batch(context.Background(), inputs, DefaultParams(), BatchOptions{OutDir: parDir, Workers: 4})
	require.NoError(t, err)
	assert.Equal(t, 5, report.Succeeded)

	for _, in := range inputs {
		name := filepath.Base(in)
		seq, err := os.ReadFile(filepath.Join(seqDir, name))
		require.NoError(t, err)
		par, err := os.ReadFile(filepath.Join(parDir, name))
		require.NoError(t, err)
		assert.Equal(t, seq, par, name)
	}
}

func TestBatchOverwrite(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.png")
	src := brightImage(3)
	writePNG(t, in, src)

	report, err := Batch(context.Background(), []string{in}, DefaultParams(), BatchOptions{Overwrite: true})
	require.NoError(t, err)
	require.Equal(t, 1, report.Succeeded)
	assert.Equal(t, in, report.Results[0].Output)

	got, _, err := DecodeFile(in)
	require.NoError(t, err)
	assert.NotEqual(t, src.Pix, got.Pix)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestBatchSuffixAndOutDir(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.png")
	writePNG(t, in, brightImage(4))
	out := filepath.Join(dir, "nested", "out")

	report, err := Batch(context.Background(), []string{in}, DefaultParams(), BatchOptions{OutDir: out, Suffix: "_x"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "photo_x.png"), report.Results[0].Output)
	assert.FileExists(t, report.Results[0].Output)
}

func TestBatchUnsupportedOutput(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "photo.xyz")
	writePNG(t, filepath.Join(dir, "photo.png"), brightImage(5))
	require.NoError(t, os.Rename(filepath.Join(dir, "photo.png"), in))

	report, err := Batch(context.Background(), []string{in}, DefaultParams(), BatchOptions{Retries: 3})
	require.NoError(t, err)

	res := report.Results[0]
	assert.ErrorIs(t, res.Err, ErrUnsupportedFormat)
	assert.Equal(t, StageWrite, res.Stage)
	assert.Equal(t, 1, res.Attempts)
}

func TestBatchRetriesTransientErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "gone.png")

	report, err := Batch(context.Background(), []string{missing}, DefaultParams(), BatchOptions{Retries: 2})
	require.NoError(t, err)

	res := report.Results[0]
	assert.ErrorIs(t, res.Err, os.ErrNotExist)
	assert.Equal(t, StageRead, res.Stage)
	assert.Equal(t, 3, res.Attempts)
}

func TestBatchCancelled(t *testing.T) {
	dir := t.TempDir()
	inputs := []string{filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")}
	for i, in := range inputs {
		writePNG(t, in, brightImage(i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Batch(ctx, inputs, DefaultParams(), BatchOptions{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, 0, report.Succeeded)
	assert.Equal(t, 2, report.Failed)
	for _, res := range report.Results {
		assert.ErrorIs(t, res.Err, context.Canceled)
		assert.NoFileExists(t, OutputPath(res.Input, "", defaultSuffix))
	}
}

func TestBatchEmpty(t *testing.T) {
	report, err := Batch(context.Background(), nil, DefaultParams(), BatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Results)
}

func TestBatchOutDirError(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0o600))

	_, err := Batch(context.Background(), []string{"x.png"}, DefaultParams(), BatchOptions{OutDir: filepath.Join(file, "sub")})
	assert.Error(t, err)
}

func TestBatchNegativeRetries(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.png")
	writePNG(t, in, brightImage(1))

	report, err := Batch(context.Background(), []string{in}, DefaultParams(), BatchOptions{Retries: -1})
	require.NoError(t, err)

	res := report.Results[0]
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Attempts)
	assert.Equal(t, 1, report.Succeeded)
	assert.FileExists(t, filepath.Join(dir, "a_hl.png"))

	missing := filepath.Join(dir, "gone.png")
	report, err = Batch(context.Background(), []string{missing}, DefaultParams(), BatchOptions{Retries: -5})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 1, report.Results[0].Attempts)
	assert.ErrorIs(t, report.Results[0].Err, os.ErrNotExist)
}

func TestBatchOutDirHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	homedir.DisableCache = true
	t.Cleanup(func() { homedir.DisableCache = false })

	in := filepath.Join(t.TempDir(), "a.png")
	writePNG(t, in, brightImage(2))

	report, err := Batch(context.Background(), []string{in}, DefaultParams(), BatchOptions{OutDir: "~/recovered"})
	require.NoError(t, err)

	want := filepath.Join(home, "recovered", "a.png")
	assert.Equal(t, want, report.Results[0].Output)
	assert.FileExists(t, want)
}

func TestBatchInputInsideOutDir(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "a.png")
	src := brightImage(3)
	writePNG(t, in, src)

	report, err := Batch(context.Background(), []string{in}, DefaultParams(), BatchOptions{OutDir: dir})
	require.NoError(t, err)
	require.Equal(t, 1, report.Succeeded)
	assert.Equal(t, filepath.Join(dir, "a_hl.png"), report.Results[0].Output)

	got, _, err := DecodeFile(in)
	require.NoError(t, err)
	assert.Equal(t, src.Pix, got.Pix, "source is left intact")
}
