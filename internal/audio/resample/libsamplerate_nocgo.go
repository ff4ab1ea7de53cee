//go:build !cgo || nosamplerate

package resample

import "errors"

var ErrUnavailable = errors.New("resampling requires cgo and libsamplerate")

func convert(in []float32, ratio float64) ([]float32, error) {
	return nil, ErrUnavailable
}
