//go:build !cgo || nolibopusfile

package decoder

import (
	"errors"

	"media-compress/internal/media"
)

var ErrOpusUnavailable = errors.New("ogg/opus decoding requires cgo and libopusfile")

type OpusDecoder struct{}

func NewOpusDecoder() (*OpusDecoder, error) {
	return nil, ErrOpusUnavailable
}

func (d *OpusDecoder) Decode(data []byte) (media.PcmBuffer, error) {
	return media.PcmBuffer{}, ErrOpusUnavailable
}
