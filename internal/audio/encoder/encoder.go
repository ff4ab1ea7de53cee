package encoder

import (
	"errors"
	"fmt"

	"media-compress/internal/audio/config"
)

var (
	ErrClosed      = errors.New("encoder session is closed")
	ErrFlushed     = errors.New("encoder session already flushed")
	ErrUnavailable = errors.New("mp3 encoder requires cgo and libmp3lame - rebuild with CGO_ENABLED=1")
)

// New creates an encoder session for cfg. A session is single use: blocks are
// submitted in order, then Flush is called once, then Close.
func New(cfg config.AudioConfig) (*MP3Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Type {
	case config.AudioCodecMP3:
		return NewMP3Encoder(cfg)
	default:
		return nil, fmt.Errorf("unknown codec type %q", cfg.Type)
	}
}

// maxFrameBytes bounds the output of one Submit call: 1.25 * samples + 7200.
func maxFrameBytes(samples int) int {
	return samples*5/4 + 7200
}
