// Package decoder turns an uploaded audio file into mono float PCM.
package decoder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"

	"media-compress/internal/media"
)

var ErrUnknownFormat = errors.New("unrecognised audio container")

// Format is an audio container this package can read.
type Format string

const (
	FormatWAV  Format = "wav"
	FormatMP3  Format = "mp3"
	FormatOpus Format = "opus"
)

// Decoder reads one complete file. Multi-channel audio is reduced to its
// first channel.
type Decoder interface {
	Decode(data []byte) (media.PcmBuffer, error)
}

func New(format Format) (Decoder, error) {
	switch format {
	case FormatWAV:
		return &WAVDecoder{}, nil
	case FormatMP3:
		return &MP3Decoder{}, nil
	case FormatOpus:
		dec, err := NewOpusDecoder()
		if err != nil {
			return nil, err
		}
		return dec, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// FormatOf picks the container from the asset subtype and falls back to
// sniffing the bytes when the subtype says nothing useful.
func FormatOf(asset media.RawAsset) (Format, error) {
	if f, ok := formatFromSubtype(asset.Subtype()); ok {
		return f, nil
	}
	detected := mimetype.Detect(asset.Data).String()
	if f, ok := formatFromSubtype(strings.TrimPrefix(detected, "audio/")); ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %s (detected %s)", ErrUnknownFormat, asset.MimeType, detected)
}

func formatFromSubtype(subtype string) (Format, bool) {
	subtype = strings.ToLower(subtype)
	if i := strings.IndexByte(subtype, ';'); i >= 0 {
		subtype = strings.TrimSpace(subtype[:i])
	}
	switch subtype {
	case "wav", "x-wav", "wave", "vnd.wave":
		return FormatWAV, true
	case "mpeg", "mp3", "x-mpeg", "mpeg3", "x-mp3":
		return FormatMP3, true
	case "ogg", "opus", "x-opus+ogg":
		return FormatOpus, true
	}
	return "", false
}

// Decode reads an audio asset into a PcmBuffer. Every failure is reported
// as a media decode error.
func Decode(ctx context.Context, asset media.RawAsset) (media.PcmBuffer, error) {
	if err := ctx.Err(); err != nil {
		return media.PcmBuffer{}, err
	}
	if asset.Kind != media.KindAudio {
		return media.PcmBuffer{}, media.NewDecodeError(asset.Kind, fmt.Errorf("asset %q is not audio", asset.Name))
	}

	format, err := FormatOf(asset)
	if err != nil {
		return media.PcmBuffer{}, media.NewDecodeError(media.KindAudio, err)
	}
	dec, err := New(format)
	if err != nil {
		return media.PcmBuffer{}, media.NewDecodeError(media.KindAudio, err)
	}

	pcm, err := dec.Decode(asset.Data)
	if err != nil {
		return media.PcmBuffer{}, media.NewDecodeError(media.KindAudio, fmt.Errorf("%s: %w", format, err))
	}

	log.Debug().
		Str("format", string(format)).
		Int("samples", len(pcm.Samples)).
		Int("sample_rate", pcm.SampleRate).
		Msg("Audio decoded")
	return pcm, nil
}
