//go:build cgo && !nosamplerate

package resample

import (
	"fmt"

	"github.com/dh1tw/gosamplerate"
)

func convert(in []float32, ratio float64) ([]float32, error) {
	out, err := gosamplerate.Simple(in, ratio, 1, gosamplerate.SRC_SINC_MEDIUM_QUALITY)
	if err != nil {
		return nil, fmt.Errorf("libsamplerate: %w", err)
	}
	return out, nil
}
