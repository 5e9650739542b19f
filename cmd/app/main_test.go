package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"

	"image-filter-tool/internal/filters"
)

func writeInput(t *testing.T, dir string) string {
	t.Helper()
	img := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(40, 120, 220, 0), 24, 32, gocv.MatTypeCV8UC3)
	defer img.Close()

	path := filepath.Join(dir, "input.png")
	require.True(t, gocv.IMWrite(path, img))
	return path
}

func TestRunGrayThenBlur(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.png")

	var stdout, stderr bytes.Buffer
	err := run([]string{in, out, "--gray", "--blur", "3", "1.0"}, &stdout, &stderr)
	require.NoError(t, err)

	result := gocv.IMRead(out, gocv.IMReadUnchanged)
	defer result.Close()
	require.False(t, result.Empty())
	assert.Equal(t, 3, result.Channels())

	px := result.GetVecbAt(10, 10)
	assert.Equal(t, px[0], px[1])
	assert.Equal(t, px[1], px[2])

	log := stdout.String()
	assert.Contains(t, log, "GrayFilter completed")
	assert.Contains(t, log, "BlurFilter completed")
	assert.Contains(t, log, "Processing completed successfully")
}

func TestRunWithImagingCodecAndFlags(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.jpg")

	var stdout, stderr bytes.Buffer
	err := run([]string{"-codec", "imaging", in, out, "--heart", "--rainbow", "c"}, &stdout, &stderr)
	require.NoError(t, err)

	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestRunInvalidParameterTouchesNothing(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.png")

	var stdout, stderr bytes.Buffer
	err := run([]string{in, out, "--blur", "4", "1"}, &stdout, &stderr)
	require.ErrorIs(t, err, filters.ErrConfiguration)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMissingInput(t *testing.T) {
	dir := t.TempDir()

	var stdout, stderr bytes.Buffer
	err := run([]string{filepath.Join(dir, "absent.png"), filepath.Join(dir, "out.png"), "--heart"}, &stdout, &stderr)
	assert.Error(t, err)
}

func TestRunBadUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Error(t, run([]string{"only-input.png"}, &stdout, &stderr))
	assert.Error(t, run([]string{"a.png", "b.png", "--blur", "3"}, &stdout, &stderr))
	assert.Error(t, run([]string{"-nope", "a.png", "b.png", "--gray"}, &stdout, &stderr))
}

func TestRunFromJobFileWithLogFile(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir)
	out := filepath.Join(dir, "out.png")
	logPath := filepath.Join(dir, "processing_log.txt")

	job := strings.Join([]string{
		`input = "` + filepath.ToSlash(in) + `"`,
		`output = "` + filepath.ToSlash(out) + `"`,
		`[[filters]]`,
		`kind = "rose"`,
	}, "\n")
	jobPath := filepath.Join(dir, "job.toml")
	require.NoError(t, os.WriteFile(jobPath, []byte(job), 0o644))

	var stdout, stderr bytes.Buffer
	err := run([]string{"-config", jobPath, "-log", logPath, "--singlecolour", "255", "0", "0"}, &stdout, &stderr)
	require.NoError(t, err)

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "=== Logger started ===")
	assert.Contains(t, text, "RoseBlushFilter completed")
	assert.Contains(t, text, "SingleColourFilter completed")
	assert.Contains(t, text, "=== Logger ended ===")
	assert.Less(t, strings.Index(text, "RoseBlushFilter"), strings.Index(text, "SingleColourFilter"))
	assert.Empty(t, stdout.String())
}

func TestSplitArgs(t *testing.T) {
	flagArgs, chain := splitArgs([]string{"-debug", "-config", "j.toml", "--heart", "--blur", "3", "1"})
	assert.Equal(t, []string{"-debug", "-config", "j.toml"}, flagArgs)
	assert.Equal(t, []string{"--heart", "--blur", "3", "1"}, chain)

	flagArgs, chain = splitArgs([]string{"-debug", "a.png", "b.png"})
	assert.Equal(t, []string{"-debug", "a.png", "b.png"}, flagArgs)
	assert.Nil(t, chain)
}
