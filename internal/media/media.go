// Package media holds the asset model shared by the transcoders: raw and
// processed assets, the resize request, decoded PCM and the error taxonomy.
package media

import (
	"fmt"
	"strings"
	"time"
)

type Kind string

func (k Kind) String() string {
	return string(k)
}

const (
	KindUnsupported Kind = "unsupported"
	KindImage       Kind = "image"
	KindAudio       Kind = "audio"
)

const (
	MimeJPEG = "image/jpeg"
	MimeMP3  = "audio/mp3"

	ImageExportName = "resized_image.jpg"
	AudioExportName = "compressed_audio.mp3"
)

// RawAsset is one selected input file. Data is never modified after creation.
type RawAsset struct {
	Name     string
	Kind     Kind
	MimeType string
	Data     []byte
}

// Subtype returns the part of the MIME type after the slash without parameters,
// e.g. "png" for "image/png" or "mpeg" for "audio/mpeg; codecs=mp3".
func (a RawAsset) Subtype() string {
	mt := strings.ToLower(a.MimeType)
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = mt[:i]
	}
	_, sub, ok := strings.Cut(strings.TrimSpace(mt), "/")
	if !ok {
		return ""
	}
	return sub
}

// ImageDetails describes how an image output was produced.
type ImageDetails struct {
	SourceWidth  int
	SourceHeight int
	Width        int
	Height       int
	Quality      int
	Attempts     int
	// CeilingMet is false when the quality floor was reached and the output
	// is still larger than the requested byte ceiling.
	CeilingMet bool
}

// AudioDetails describes how an MP3 output was produced.
type AudioDetails struct {
	SampleRate  int
	Samples     int
	Submissions int
	Chunks      int
	Frames      int
	Duration    time.Duration
}

// ProcessedAsset is the output of a successful transcode.
type ProcessedAsset struct {
	Kind     Kind
	MimeType string
	FileName string
	Data     []byte

	Image *ImageDetails `json:",omitempty"`
	Audio *AudioDetails `json:",omitempty"`
}

// ResizeSpec bounds the image output. MaxOutputBytes == 0 disables the byte ceiling.
type ResizeSpec struct {
	MaxWidth       int   `json:"max_width" form:"max_width" yaml:"max_width" binding:"required,gt=0"`
	MaxHeight      int   `json:"max_height" form:"max_height" yaml:"max_height" binding:"required,gt=0"`
	MaxOutputBytes int64 `json:"max_output_bytes" form:"max_output_bytes" yaml:"max_output_bytes" binding:"gte=0"`
}

const (
	DefaultMaxWidth       = 300
	DefaultMaxHeight      = 300
	DefaultMaxOutputBytes = 50 << 20
)

func DefaultResizeSpec() ResizeSpec {
	return ResizeSpec{
		MaxWidth:       DefaultMaxWidth,
		MaxHeight:      DefaultMaxHeight,
		MaxOutputBytes: DefaultMaxOutputBytes,
	}
}

func (s ResizeSpec) Validate() error {
	if s.MaxWidth <= 0 || s.MaxHeight <= 0 {
		return fmt.Errorf("%w: bounding box %dx%d must be positive", ErrInvalidSpec, s.MaxWidth, s.MaxHeight)
	}
	if s.MaxOutputBytes < 0 {
		return fmt.Errorf("%w: negative byte ceiling %d", ErrInvalidSpec, s.MaxOutputBytes)
	}
	return nil
}

// PcmBuffer is single channel float32 audio in [-1, 1].
type PcmBuffer struct {
	Samples    []float32
	SampleRate int
}

func (p PcmBuffer) Duration() time.Duration {
	if p.SampleRate <= 0 {
		return 0
	}
	return time.Duration(len(p.Samples)) * time.Second / time.Duration(p.SampleRate)
}
