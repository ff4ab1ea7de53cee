package decoder

import (
	"bytes"
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"media-compress/internal/audio/convert"
	"media-compress/internal/media"
)

// MP3Decoder reads MPEG-1/2 Layer III. The library always yields 16-bit
// little endian stereo, even for mono sources.
type MP3Decoder struct{}

const mp3OutputChannels = 2

func (d *MP3Decoder) Decode(data []byte) (media.PcmBuffer, error) {
	dec, err := mp3.NewDecoder(bytes.NewReader(data))
	if err != nil {
		return media.PcmBuffer{}, err
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return media.PcmBuffer{}, fmt.Errorf("read mp3 stream: %w", err)
	}
	return media.PcmBuffer{
		Samples:    convert.PCM16LEFirstChannel(raw, mp3OutputChannels),
		SampleRate: dec.SampleRate(),
	}, nil
}
