//go:build !cgo || nolame

package encoder

import "media-compress/internal/audio/config"

// MP3Encoder is unavailable without cgo; every constructor call fails.
type MP3Encoder struct{}

func NewMP3Encoder(cfg config.AudioConfig) (*MP3Encoder, error) {
	return nil, ErrUnavailable
}

func (e *MP3Encoder) Submit(block []float32) ([]byte, error) { return nil, ErrUnavailable }

func (e *MP3Encoder) Flush() ([]byte, error) { return nil, ErrUnavailable }

func (e *MP3Encoder) Close() error { return nil }

func LameVersion() string { return "" }
