package resize

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"math"
	"math/rand"
	"testing"

	"media-compress/internal/media"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTranscoder(t *testing.T) *Transcoder {
	t.Helper()
	tr, err := NewTranscoder(DefaultOptions())
	require.NoError(t, err)
	return tr
}

// noisyPNG returns a PNG that compresses badly as JPEG.
func noisyPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	rnd := rand.New(rand.NewSource(int64(w*7919 + h)))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = byte(rnd.Intn(256))
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func imageAsset(data []byte) media.RawAsset {
	return media.RawAsset{Name: "in.png", Kind: media.KindImage, MimeType: "image/png", Data: data}
}

func decodeJPEG(t *testing.T, data []byte) image.Image {
	t.Helper()
	img, err := jpeg.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return img
}

func TestFitDimensionsAspect(t *testing.T) {
	sizes := []int{1, 3, 17, 299, 300, 301, 640, 1023, 4000}
	boxes := [][2]int{{300, 300}, {1, 1}, {50, 400}, {1920, 1080}, {7, 3000}}

	for _, sw := range sizes {
		for _, sh := range sizes {
			for _, box := range boxes {
				w, h := FitDimensions(sw, sh, box[0], box[1])

				assert.LessOrEqual(t, w, box[0])
				assert.LessOrEqual(t, h, box[1])
				assert.GreaterOrEqual(t, w, 1)
				assert.GreaterOrEqual(t, h, 1)
				assert.LessOrEqual(t, w, sw, "never upsample")
				assert.LessOrEqual(t, h, sh, "never upsample")

				// Derive one side from the other; the rounding error must stay within a pixel.
				errH := math.Abs(float64(h) - float64(w)*float64(sh)/float64(sw))
				errW := math.Abs(float64(w) - float64(h)*float64(sw)/float64(sh))
				if w > 1 && h > 1 {
					assert.LessOrEqual(t, math.Min(errH, errW), 1.0,
						"src %dx%d box %v -> %dx%d", sw, sh, box, w, h)
				}
			}
		}
	}
}

func TestFitDimensionsCases(t *testing.T) {
	tests := []struct {
		sw, sh, mw, mh int
		ww, wh         int
	}{
		{1200, 800, 300, 300, 300, 200},
		{800, 1200, 300, 300, 200, 300},
		{200, 100, 300, 300, 200, 100},
		{1000, 1000, 300, 150, 150, 150},
		{10000, 1, 100, 100, 100, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%dx%d_in_%dx%d", tt.sw, tt.sh, tt.mw, tt.mh), func(t *testing.T) {
			w, h := FitDimensions(tt.sw, tt.sh, tt.mw, tt.mh)
			assert.Equal(t, tt.ww, w)
			assert.Equal(t, tt.wh, h)
		})
	}
}

func TestTranscodeDownscales(t *testing.T) {
	tr := newTranscoder(t)
	out, err := tr.Transcode(context.Background(), imageAsset(noisyPNG(t, 640, 480)), media.ResizeSpec{
		MaxWidth:  300,
		MaxHeight: 300,
	})
	require.NoError(t, err)

	assert.Equal(t, media.KindImage, out.Kind)
	assert.Equal(t, media.MimeJPEG, out.MimeType)
	assert.Equal(t, "resized_image.jpg", out.FileName)

	img := decodeJPEG(t, out.Data)
	assert.Equal(t, 300, img.Bounds().Dx())
	assert.Equal(t, 225, img.Bounds().Dy())

	require.NotNil(t, out.Image)
	assert.Equal(t, 640, out.Image.SourceWidth)
	assert.Equal(t, DefaultInitialQuality, out.Image.Quality)
	assert.True(t, out.Image.CeilingMet)
	assert.Equal(t, 1, out.Image.Attempts)
}

func TestTranscodeNeverUpsamples(t *testing.T) {
	tr := newTranscoder(t)
	out, err := tr.Transcode(context.Background(), imageAsset(noisyPNG(t, 40, 20)), media.DefaultResizeSpec())
	require.NoError(t, err)

	img := decodeJPEG(t, out.Data)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())
}

func TestTranscodeLowersQualityUnderCeiling(t *testing.T) {
	tr := newTranscoder(t)
	data := noisyPNG(t, 200, 200)

	first, err := tr.Transcode(context.Background(), imageAsset(data), media.ResizeSpec{MaxWidth: 200, MaxHeight: 200})
	require.NoError(t, err)

	// A ceiling just below the first attempt forces at least one retry.
	ceiling := int64(len(first.Data) - 1)
	out, err := tr.Transcode(context.Background(), imageAsset(data), media.ResizeSpec{
		MaxWidth:       200,
		MaxHeight:      200,
		MaxOutputBytes: ceiling,
	})
	require.NoError(t, err)
	require.NotNil(t, out.Image)

	assert.Less(t, out.Image.Quality, DefaultInitialQuality)
	assert.Greater(t, out.Image.Attempts, 1)
	if out.Image.CeilingMet {
		assert.LessOrEqual(t, int64(len(out.Data)), ceiling)
	} else {
		assert.Equal(t, DefaultMinQuality, out.Image.Quality)
	}
}

func TestTranscodeCeilingBestEffortAtFloor(t *testing.T) {
	tr := newTranscoder(t)
	out, err := tr.Transcode(context.Background(), imageAsset(noisyPNG(t, 300, 300)), media.ResizeSpec{
		MaxWidth:       300,
		MaxHeight:      300,
		MaxOutputBytes: 10,
	})
	require.NoError(t, err, "missing the ceiling is not an error")
	require.NotNil(t, out.Image)

	assert.False(t, out.Image.CeilingMet)
	assert.Equal(t, DefaultMinQuality, out.Image.Quality)
	assert.Greater(t, len(out.Data), 10)
	// 90, 80, ..., 30
	assert.Equal(t, 7, out.Image.Attempts)
}

func TestTranscodeAttemptCap(t *testing.T) {
	tr, err := NewTranscoder(Options{InitialQuality: 90, QualityStep: 1, MinQuality: 1, MaxAttempts: 3})
	require.NoError(t, err)

	out, err := tr.Transcode(context.Background(), imageAsset(noisyPNG(t, 100, 100)), media.ResizeSpec{
		MaxWidth:       100,
		MaxHeight:      100,
		MaxOutputBytes: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, out.Image.Attempts)
	assert.Equal(t, 88, out.Image.Quality)
	assert.False(t, out.Image.CeilingMet)
}

func TestTranscodeFlattensTransparency(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, color.NRGBA{})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	tr := newTranscoder(t)
	out, err := tr.Transcode(context.Background(), imageAsset(buf.Bytes()), media.DefaultResizeSpec())
	require.NoError(t, err)

	r, g, b, _ := decodeJPEG(t, out.Data).At(4, 4).RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, b>>8, uint32(240))
}

func TestTranscodeErrors(t *testing.T) {
	tr := newTranscoder(t)
	ctx := context.Background()

	t.Run("not an image", func(t *testing.T) {
		_, err := tr.Transcode(ctx, imageAsset([]byte("definitely not pixels")), media.DefaultResizeSpec())
		require.Error(t, err)
		assert.ErrorIs(t, err, media.ErrDecode)
	})

	t.Run("invalid box", func(t *testing.T) {
		_, err := tr.Transcode(ctx, imageAsset(noisyPNG(t, 4, 4)), media.ResizeSpec{MaxWidth: 0, MaxHeight: 10})
		assert.ErrorIs(t, err, media.ErrInvalidSpec)
	})

	t.Run("wrong kind", func(t *testing.T) {
		asset := imageAsset(noisyPNG(t, 4, 4))
		asset.Kind = media.KindAudio
		_, err := tr.Transcode(ctx, asset, media.DefaultResizeSpec())
		assert.ErrorIs(t, err, media.ErrUnsupportedInput)

		var merr *media.Error
		require.True(t, errors.As(err, &merr))
		assert.Equal(t, media.OpClassify, merr.Op)
		assert.Equal(t, media.KindAudio, merr.Kind)
	})

	t.Run("cancelled", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := tr.Transcode(cctx, imageAsset(noisyPNG(t, 4, 4)), media.DefaultResizeSpec())
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFilterByName(t *testing.T) {
	for _, name := range []string{"", "linear", "Bilinear", "box", "area", "lanczos", "catmullrom", "nearest"} {
		_, err := FilterByName(name)
		assert.NoError(t, err, name)
	}
	_, err := FilterByName("sharpest")
	assert.Error(t, err)

	_, err = NewTranscoder(Options{Filter: "sharpest"})
	assert.Error(t, err)
}
