package main

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-compress/internal/media"
	"media-compress/pkg/config"
)

func TestRunOnceImage(t *testing.T) {
	dir := t.TempDir()
	src := image.NewNRGBA(image.Rect(0, 0, 800, 1200))
	for i := range src.Pix {
		src.Pix[i] = uint8(i)
	}
	src.Set(0, 0, color.NRGBA{A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	// no extension, so the type is sniffed
	in := filepath.Join(dir, "upload")
	require.NoError(t, os.WriteFile(in, buf.Bytes(), 0o600))
	out := filepath.Join(dir, "out.jpg")

	proc, err := newProcessor(config.Default(), nil)
	require.NoError(t, err)
	require.NoError(t, runOnce(context.Background(), proc, in, out, media.DefaultResizeSpec()))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	cfg, err := jpeg.DecodeConfig(f)
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestRunOnceUnsupported(t *testing.T) {
	in := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(in, []byte("plain text"), 0o600))

	proc, err := newProcessor(config.Default(), nil)
	require.NoError(t, err)
	err = runOnce(context.Background(), proc, in, "", media.DefaultResizeSpec())
	assert.ErrorIs(t, err, media.ErrUnsupportedInput)
}
