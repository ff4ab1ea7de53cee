// Package pipeline turns a mono PCM buffer into an MP3 byte stream by feeding
// fixed-size blocks through an encoder session and flushing it once.
package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"media-compress/internal/audio/config"
	"media-compress/internal/audio/mp3info"
	"media-compress/internal/media"
)

var (
	ErrFactoryNil = errors.New("encoder session factory cannot be nil")
	ErrSessionNil = errors.New("encoder session cannot be nil")
)

// Session is one single-use encoder run. Submit may return no bytes while
// the encoder buffers; Flush returns what is left and ends the stream.
type Session interface {
	Submit(block []float32) ([]byte, error)
	Flush() ([]byte, error)
	Close() error
}

// SessionFactory opens a new encoder session for cfg.
type SessionFactory func(cfg config.AudioConfig) (Session, error)

type AudioTranscoder struct {
	newSession SessionFactory
}

func NewAudioTranscoder(factory SessionFactory) (*AudioTranscoder, error) {
	if factory == nil {
		return nil, ErrFactoryNil
	}
	return &AudioTranscoder{newSession: factory}, nil
}

// Blocks splits samples into consecutive blocks of size. The last block may
// be shorter and is never padded. The blocks share memory with samples.
func Blocks(samples []float32, size int) [][]float32 {
	if size <= 0 || len(samples) == 0 {
		return nil
	}
	out := make([][]float32, 0, (len(samples)+size-1)/size)
	for off := 0; off < len(samples); off += size {
		out = append(out, samples[off:min(off+size, len(samples))])
	}
	return out
}

// Transcode encodes pcm into a complete MP3 stream. The context is only
// checked before the encoder session is opened; once encoding starts it
// runs to completion.
func (t *AudioTranscoder) Transcode(ctx context.Context, pcm media.PcmBuffer) (media.ProcessedAsset, error) {
	if err := ctx.Err(); err != nil {
		return media.ProcessedAsset{}, err
	}
	if pcm.SampleRate <= 0 {
		return media.ProcessedAsset{}, media.NewEncodeError(media.KindAudio,
			fmt.Errorf("invalid sample rate %d", pcm.SampleRate))
	}

	session, err := t.newSession(config.NewMP3Config(pcm.SampleRate))
	if err != nil {
		return media.ProcessedAsset{}, media.NewEncodeError(media.KindAudio, fmt.Errorf("open encoder: %w", err))
	}
	if session == nil {
		return media.ProcessedAsset{}, media.NewEncodeError(media.KindAudio, ErrSessionNil)
	}
	defer func() {
		if err := session.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close encoder session")
		}
	}()

	details := &media.AudioDetails{
		SampleRate: pcm.SampleRate,
		Samples:    len(pcm.Samples),
	}

	var out bytes.Buffer
	for _, block := range Blocks(pcm.Samples, config.BlockSamples) {
		chunk, err := session.Submit(block)
		details.Submissions++
		if err != nil {
			return media.ProcessedAsset{}, media.NewEncodeError(media.KindAudio,
				fmt.Errorf("submit block %d: %w", details.Submissions, err))
		}
		if len(chunk) > 0 {
			out.Write(chunk)
			details.Chunks++
		}
	}

	tail, err := session.Flush()
	if err != nil {
		return media.ProcessedAsset{}, media.NewEncodeError(media.KindAudio, fmt.Errorf("flush: %w", err))
	}
	if len(tail) > 0 {
		out.Write(tail)
		details.Chunks++
	}

	details.Duration = pcm.Duration()
	if info, err := mp3info.Scan(out.Bytes()); err == nil {
		details.Frames = info.Frames
		details.Duration = info.Duration
	} else if out.Len() > 0 {
		log.Debug().Err(err).Int("bytes", out.Len()).Msg("Encoded stream did not scan as mp3")
	}

	log.Debug().
		Int("samples", details.Samples).
		Int("sample_rate", details.SampleRate).
		Int("submissions", details.Submissions).
		Int("chunks", details.Chunks).
		Int("frames", details.Frames).
		Int("bytes", out.Len()).
		Msg("Audio encoded")

	return media.ProcessedAsset{
		Kind:     media.KindAudio,
		MimeType: media.MimeMP3,
		FileName: media.AudioExportName,
		Data:     out.Bytes(),
		Audio:    details,
	}, nil
}
