//go:build cgo && !nolame

package encoder

/*
#cgo LDFLAGS: -lmp3lame
#include <stdlib.h>
#include <lame/lame.h>
*/
import "C"

import (
	"fmt"
	"unsafe"

	"media-compress/internal/audio/config"
)

// MP3Encoder is a LAME encoder session. LAME keeps psychoacoustic and bit
// reservoir state between calls, so blocks must arrive in order.
type MP3Encoder struct {
	gfp     C.lame_t
	buf     []byte
	flushed bool
	closed  bool
}

// NewMP3Encoder creates a CBR mono encoder at cfg.SampleRate and cfg.BitrateKbps.
// The stream carries no Xing/Info frame and no ID3 tags.
func NewMP3Encoder(cfg config.AudioConfig) (*MP3Encoder, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	gfp := C.lame_init()
	if gfp == nil {
		return nil, fmt.Errorf("lame_init failed")
	}

	C.lame_set_num_channels(gfp, C.int(cfg.Channels))
	C.lame_set_in_samplerate(gfp, C.int(cfg.SampleRate))
	C.lame_set_out_samplerate(gfp, C.int(cfg.SampleRate))
	C.lame_set_mode(gfp, C.MPEG_mode(C.MONO))
	C.lame_set_VBR(gfp, C.vbr_mode(C.vbr_off))
	C.lame_set_brate(gfp, C.int(cfg.BitrateKbps))
	C.lame_set_quality(gfp, 3)
	C.lame_set_bWriteVbrTag(gfp, 0)
	C.lame_set_write_id3tag_automatic(gfp, 0)

	if rc := C.lame_init_params(gfp); rc < 0 {
		C.lame_close(gfp)
		return nil, fmt.Errorf("lame_init_params failed (%d) for %d Hz, %d channel(s), %d kbps",
			int(rc), cfg.SampleRate, cfg.Channels, cfg.BitrateKbps)
	}

	return &MP3Encoder{
		gfp: gfp,
		buf: make([]byte, maxFrameBytes(config.BlockSamples)),
	}, nil
}

// Submit encodes one block of mono samples and returns whatever complete
// frames LAME emitted for it, which may be none.
func (e *MP3Encoder) Submit(block []float32) ([]byte, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if e.flushed {
		return nil, ErrFlushed
	}
	if len(block) == 0 {
		return nil, nil
	}
	if need := maxFrameBytes(len(block)); len(e.buf) < need {
		e.buf = make([]byte, need)
	}

	pcm := (*C.float)(unsafe.Pointer(&block[0]))
	n := C.lame_encode_buffer_ieee_float(e.gfp, pcm, pcm, C.int(len(block)),
		(*C.uchar)(unsafe.Pointer(&e.buf[0])), C.int(len(e.buf)))
	if n < 0 {
		return nil, fmt.Errorf("lame_encode_buffer_ieee_float: %s", lameError(int(n)))
	}
	return copyOut(e.buf[:int(n)]), nil
}

// Flush emits the frames still buffered inside LAME. It may be called once.
func (e *MP3Encoder) Flush() ([]byte, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if e.flushed {
		return nil, ErrFlushed
	}
	e.flushed = true

	n := C.lame_encode_flush(e.gfp, (*C.uchar)(unsafe.Pointer(&e.buf[0])), C.int(len(e.buf)))
	if n < 0 {
		return nil, fmt.Errorf("lame_encode_flush: %s", lameError(int(n)))
	}
	return copyOut(e.buf[:int(n)]), nil
}

func (e *MP3Encoder) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	C.lame_close(e.gfp)
	e.gfp = nil
	return nil
}

// LameVersion reports the linked libmp3lame version.
func LameVersion() string {
	return C.GoString(C.get_lame_version())
}

func copyOut(b []byte) []byte {
	if len(b) == 0 {
		return nil
	}
	out := make([]byte, len(b))
	copy(out, b)
	return out
}

func lameError(code int) string {
	switch code {
	case -1:
		return "mp3 buffer too small"
	case -2:
		return "malloc failed"
	case -3:
		return "lame_init_params not called"
	case -4:
		return "psychoacoustic problem"
	default:
		return fmt.Sprintf("error %d", code)
	}
}
