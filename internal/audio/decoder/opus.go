//go:build cgo && !nolibopusfile

package decoder

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/hraban/opus.v2"

	"media-compress/internal/audio/convert"
	"media-compress/internal/media"
)

// 120 ms at 48 kHz, the longest Opus packet.
const opusMaxFrameSamples = 5760

type OpusDecoder struct{}

func NewOpusDecoder() (*OpusDecoder, error) {
	return &OpusDecoder{}, nil
}

// Decode reads an Ogg/Opus file through libopusfile.
func (d *OpusDecoder) Decode(data []byte) (media.PcmBuffer, error) {
	channels, err := opusChannels(data)
	if err != nil {
		return media.PcmBuffer{}, err
	}

	s, err := opus.NewStream(bytes.NewReader(data))
	if err != nil {
		return media.PcmBuffer{}, fmt.Errorf("open opus stream: %w", err)
	}
	defer s.Close()

	buf := make([]float32, opusMaxFrameSamples*channels)
	var out []float32
	for {
		n, err := s.ReadFloat32(buf)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return media.PcmBuffer{}, fmt.Errorf("read opus stream: %w", err)
		}
		out = append(out, convert.FirstChannel(buf[:n*channels], channels)...)
	}

	return media.PcmBuffer{Samples: out, SampleRate: OpusOutputRate}, nil
}
