//go:build cgo && !nosamplerate

package resample

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"media-compress/internal/media"
)

func TestResampleHalvesLength(t *testing.T) {
	in := make([]float32, 9600)
	for i := range in {
		in[i] = float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/96000))
	}

	out, err := Resample(media.PcmBuffer{Samples: in, SampleRate: 96000}, 48000)
	require.NoError(t, err)
	assert.Equal(t, 48000, out.SampleRate)
	assert.InDelta(t, 4800, len(out.Samples), 64)
}
