package decoder

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-audio/wav"

	"media-compress/internal/audio/convert"
	"media-compress/internal/media"
)

// WAVE format tags.
const (
	wavFormatPCM   = 1
	wavFormatFloat = 3
	wavFormatMuLaw = 7
	// WAVE_FORMAT_EXTENSIBLE; go-audio does not expose the sub-format, so
	// it is treated as integer PCM.
	wavFormatExtensible = 0xFFFE
)

type WAVDecoder struct{}

func (d *WAVDecoder) Decode(data []byte) (media.PcmBuffer, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return media.PcmBuffer{}, fmt.Errorf("invalid wav file: %w", err)
		}
		return media.PcmBuffer{}, errors.New("invalid wav file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return media.PcmBuffer{}, fmt.Errorf("read pcm: %w", err)
	}

	channels := int(dec.NumChans)
	depth := int(dec.BitDepth)

	var samples []float32
	switch dec.WavAudioFormat {
	case wavFormatPCM, wavFormatExtensible:
		samples = convert.IntToFloat32(buf.Data, depth)
	case wavFormatFloat:
		if depth != 32 {
			return media.PcmBuffer{}, fmt.Errorf("unsupported float bit depth %d", depth)
		}
		samples = convert.Float32BitsToFloat32(buf.Data)
	case wavFormatMuLaw:
		if depth != 8 {
			return media.PcmBuffer{}, fmt.Errorf("unsupported mu-law bit depth %d", depth)
		}
		samples = convert.MuLawToFloat32(buf.Data)
	default:
		return media.PcmBuffer{}, fmt.Errorf("unsupported wav format tag %d", dec.WavAudioFormat)
	}

	return media.PcmBuffer{
		Samples:    convert.FirstChannel(samples, channels),
		SampleRate: int(dec.SampleRate),
	}, nil
}
