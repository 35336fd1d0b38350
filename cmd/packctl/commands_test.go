package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: 200})
		}
	}
	path := filepath.Join(t.TempDir(), "photo.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

func TestRecommendCommand(t *testing.T) {
	out, err := execute(t, "recommend",
		"--length", "100", "--width", "50", "--height", "30",
		"--weight", "1.2", "--fragility", "low", "--category", "electronics")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 87.28, got["estimated_cost_inr"])
	assert.Equal(t, "user", got["fragility_source"])
	assert.Equal(t, "INR", got["currency"])
	assert.NotContains(t, got, "assessment")
}

func TestRecommendCommandWithImageAndDecisionLog(t *testing.T) {
	img := writePNG(t, 300, 100)
	logPath := filepath.Join(t.TempDir(), "decisions.jsonl")

	out, err := execute(t, "recommend",
		"--length", "100", "--width", "50", "--height", "30",
		"--weight", "1.2", "--fragility", "high",
		"--image", img, "--decision-log", logPath)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "ai", got["fragility_source"])
	assert.Equal(t, 199.18, got["estimated_cost_inr"])

	data, err := os.ReadFile(logPath)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "\n"))
	assert.Contains(t, string(data), `"final_fragility_used":"high"`)
}

func TestRecommendCommandUnreadableImageFallsBack(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.jpg")
	out, err := execute(t, "recommend",
		"--length", "100", "--width", "50", "--height", "30",
		"--weight", "1.2", "--fragility", "medium", "--image", missing)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "ai", got["fragility_source"])
	assessment, ok := got["assessment"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "medium", assessment["suggested_fragility"])
	assert.Equal(t, 0.0, assessment["confidence"])
	assert.Equal(t, []any{"could not analyze image"}, assessment["reasoning"])
}

func TestRecommendCommandRejectsInvalidInput(t *testing.T) {
	_, err := execute(t, "recommend", "--length", "0", "--width", "50", "--height", "30", "--weight", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "length_mm")
}

func TestRecommendCommandRequiresDimensions(t *testing.T) {
	_, err := execute(t, "recommend", "--length", "10")
	assert.Error(t, err)
}

func TestClassifyCommand(t *testing.T) {
	out, err := execute(t, "classify", writePNG(t, 190, 100))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "medium", got["suggested_fragility"])
	assert.Equal(t, 0.7, got["confidence"])
}

func TestClassifyCommandFallsBackOnGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jpg")
	require.NoError(t, os.WriteFile(path, []byte("garbage"), 0o600))

	out, err := execute(t, "classify", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"could not analyze image"`)
	assert.Contains(t, out, `"confidence": 0`)
}

func TestClassifyCommandMissingFile(t *testing.T) {
	_, err := execute(t, "classify", filepath.Join(t.TempDir(), "nope.png"))
	assert.Error(t, err)
}
