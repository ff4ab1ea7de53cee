package decoder

import (
	"bytes"
	"errors"
)

// OpusOutputRate is the rate libopusfile always decodes at.
const OpusOutputRate = 48000

var ErrNotOpus = errors.New("ogg stream carries no OpusHead packet")

var opusHeadMagic = []byte("OpusHead")

// opusChannels reads the output channel count from the OpusHead
// identification header: magic(8) version(1) channels(1) ...
func opusChannels(data []byte) (int, error) {
	i := bytes.Index(data, opusHeadMagic)
	if i < 0 || i+10 > len(data) {
		return 0, ErrNotOpus
	}
	ch := int(data[i+9])
	if ch == 0 {
		return 0, errors.New("OpusHead declares zero channels")
	}
	return ch, nil
}
