// Package resample converts mono PCM between sample rates.
package resample

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"media-compress/internal/media"
)

// Resample converts pcm to targetRate. A targetRate of zero, or one equal to
// the source rate, returns pcm unchanged.
func Resample(pcm media.PcmBuffer, targetRate int) (media.PcmBuffer, error) {
	if targetRate < 0 {
		return media.PcmBuffer{}, media.NewResampleError(fmt.Errorf("invalid target rate %d", targetRate))
	}
	if targetRate == 0 || targetRate == pcm.SampleRate {
		return pcm, nil
	}
	if pcm.SampleRate <= 0 {
		return media.PcmBuffer{}, media.NewResampleError(fmt.Errorf("invalid source rate %d", pcm.SampleRate))
	}
	if len(pcm.Samples) == 0 {
		return media.PcmBuffer{SampleRate: targetRate}, nil
	}

	ratio := float64(targetRate) / float64(pcm.SampleRate)
	out, err := convert(pcm.Samples, ratio)
	if err != nil {
		return media.PcmBuffer{}, media.NewResampleError(err)
	}

	log.Debug().
		Int("from", pcm.SampleRate).
		Int("to", targetRate).
		Int("samples_in", len(pcm.Samples)).
		Int("samples_out", len(out)).
		Msg("Audio resampled")
	return media.PcmBuffer{Samples: out, SampleRate: targetRate}, nil
}
