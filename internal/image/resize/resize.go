// Package resize downscales raster images into a bounding box and recompresses
// them as JPEG under a best-effort byte ceiling.
package resize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"strings"

	"media-compress/internal/media"

	"github.com/disintegration/imaging"
	"github.com/rs/zerolog/log"
	_ "golang.org/x/image/webp" // registers the webp decoder with image.Decode
)

const (
	DefaultInitialQuality = 90
	DefaultQualityStep    = 10
	// DefaultMinQuality is the floor of the ceiling search. Output produced at
	// this quality is returned even when it is still over the ceiling.
	DefaultMinQuality  = 30
	DefaultMaxAttempts = 10
)

type Options struct {
	// Filter is a name accepted by FilterByName.
	Filter         string
	InitialQuality int
	QualityStep    int
	MinQuality     int
	MaxAttempts    int
}

func DefaultOptions() Options {
	return Options{
		Filter:         "linear",
		InitialQuality: DefaultInitialQuality,
		QualityStep:    DefaultQualityStep,
		MinQuality:     DefaultMinQuality,
		MaxAttempts:    DefaultMaxAttempts,
	}
}

// FilterByName maps a config value to a resampling filter.
func FilterByName(name string) (imaging.ResampleFilter, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "linear", "bilinear":
		return imaging.Linear, nil
	case "box", "area":
		return imaging.Box, nil
	case "catmullrom", "bicubic":
		return imaging.CatmullRom, nil
	case "lanczos":
		return imaging.Lanczos, nil
	case "nearest":
		return imaging.NearestNeighbor, nil
	default:
		return imaging.ResampleFilter{}, fmt.Errorf("unknown resample filter %q", name)
	}
}

type Transcoder struct {
	opts   Options
	filter imaging.ResampleFilter
}

// NewTranscoder fills zero option fields with defaults.
func NewTranscoder(opts Options) (*Transcoder, error) {
	def := DefaultOptions()
	filter, err := FilterByName(opts.Filter)
	if err != nil {
		return nil, err
	}
	if opts.InitialQuality <= 0 || opts.InitialQuality > 100 {
		opts.InitialQuality = def.InitialQuality
	}
	if opts.QualityStep <= 0 {
		opts.QualityStep = def.QualityStep
	}
	if opts.MinQuality <= 0 || opts.MinQuality > opts.InitialQuality {
		opts.MinQuality = min(def.MinQuality, opts.InitialQuality)
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = def.MaxAttempts
	}
	return &Transcoder{opts: opts, filter: filter}, nil
}

// FitDimensions returns the size of a srcW x srcH image scaled by
// min(1, maxW/srcW, maxH/srcH), never smaller than 1px and never outside the box.
func FitDimensions(srcW, srcH, maxW, maxH int) (int, int) {
	scale := math.Min(1, math.Min(float64(maxW)/float64(srcW), float64(maxH)/float64(srcH)))
	w := int(math.Round(float64(srcW) * scale))
	h := int(math.Round(float64(srcH) * scale))
	return clamp(w, 1, maxW), clamp(h, 1, maxH)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Transcode decodes in, fits it into spec's bounding box and encodes it as JPEG.
func (t *Transcoder) Transcode(ctx context.Context, in media.RawAsset, spec media.ResizeSpec) (media.ProcessedAsset, error) {
	if err := ctx.Err(); err != nil {
		return media.ProcessedAsset{}, err
	}
	if in.Kind != media.KindImage {
		return media.ProcessedAsset{}, &media.Error{
			Op:    media.OpClassify,
			Kind:  in.Kind,
			Class: media.ErrUnsupportedInput,
			Err:   fmt.Errorf("%s asset given to image transcoder", in.Kind),
		}
	}
	if err := spec.Validate(); err != nil {
		return media.ProcessedAsset{}, err
	}

	src, err := imaging.Decode(bytes.NewReader(in.Data), imaging.AutoOrientation(true))
	if err != nil {
		return media.ProcessedAsset{}, media.NewDecodeError(media.KindImage, err)
	}
	b := src.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return media.ProcessedAsset{}, media.NewDecodeError(media.KindImage, fmt.Errorf("empty image %dx%d", b.Dx(), b.Dy()))
	}

	w, h := FitDimensions(b.Dx(), b.Dy(), spec.MaxWidth, spec.MaxHeight)
	var dst *image.NRGBA
	if w == b.Dx() && h == b.Dy() {
		dst = imaging.Clone(src)
	} else {
		dst = imaging.Resize(src, w, h, t.filter)
	}
	out := flatten(dst)

	data, quality, attempts, met, err := t.encode(out, spec.MaxOutputBytes)
	if err != nil {
		return media.ProcessedAsset{}, media.NewEncodeError(media.KindImage, err)
	}

	log.Debug().
		Str("name", in.Name).
		Int("src_width", b.Dx()).
		Int("src_height", b.Dy()).
		Int("width", w).
		Int("height", h).
		Int("quality", quality).
		Int("attempts", attempts).
		Int("bytes", len(data)).
		Bool("ceiling_met", met).
		Msg("Image transcoded")

	return media.ProcessedAsset{
		Kind:     media.KindImage,
		MimeType: media.MimeJPEG,
		FileName: media.ImageExportName,
		Data:     data,
		Image: &media.ImageDetails{
			SourceWidth:  b.Dx(),
			SourceHeight: b.Dy(),
			Width:        w,
			Height:       h,
			Quality:      quality,
			Attempts:     attempts,
			CeilingMet:   met,
		},
	}, nil
}

// encode lowers the JPEG quality step by step until the output fits
// maxBytes, the quality floor is hit or the attempt cap is reached.
func (t *Transcoder) encode(img image.Image, maxBytes int64) ([]byte, int, int, bool, error) {
	var buf bytes.Buffer
	quality := t.opts.InitialQuality

	for attempt := 1; ; attempt++ {
		buf.Reset()
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, quality, attempt, false, err
		}
		if maxBytes == 0 || int64(buf.Len()) <= maxBytes {
			return bytes.Clone(buf.Bytes()), quality, attempt, true, nil
		}
		if quality <= t.opts.MinQuality || attempt >= t.opts.MaxAttempts {
			log.Debug().
				Int64("ceiling", maxBytes).
				Int("bytes", buf.Len()).
				Int("quality", quality).
				Msg("Byte ceiling not reached, returning best effort")
			return bytes.Clone(buf.Bytes()), quality, attempt, false, nil
		}
		quality = max(quality-t.opts.QualityStep, t.opts.MinQuality)
	}
}

// flatten composites translucent pixels onto white, JPEG has no alpha.
func flatten(img *image.NRGBA) image.Image {
	if img.Opaque() {
		return img
	}
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	return imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
}
