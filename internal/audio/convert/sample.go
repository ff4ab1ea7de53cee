package convert

import (
	"encoding/binary"
	"math"
)

// FirstChannel returns the samples of channel 0 from interleaved data.
// Trailing samples that do not form a whole frame are dropped.
func FirstChannel(interleaved []float32, channels int) []float32 {
	if channels <= 1 {
		return interleaved
	}
	frames := len(interleaved) / channels
	dst := make([]float32, frames)
	for i := range dst {
		dst[i] = interleaved[i*channels]
	}
	return dst
}

// PCM16LEFirstChannel decodes little endian signed 16-bit interleaved PCM
// bytes and keeps channel 0.
func PCM16LEFirstChannel(src []byte, channels int) []float32 {
	if channels < 1 {
		channels = 1
	}
	frameBytes := 2 * channels
	frames := len(src) / frameBytes
	dst := make([]float32, frames)
	for i := range dst {
		v := int16(binary.LittleEndian.Uint16(src[i*frameBytes:]))
		dst[i] = float32(v) / 32768.0
	}
	return dst
}

// IntToFloat32 scales signed integer PCM of the given bit depth to [-1, 1).
// 8-bit PCM is unsigned and centered on 128.
func IntToFloat32(src []int, bitDepth int) []float32 {
	dst := make([]float32, len(src))
	if bitDepth == 8 {
		for i, v := range src {
			dst[i] = float32(v-128) / 128.0
		}
		return dst
	}
	scale := float32(math.Ldexp(1, bitDepth-1))
	for i, v := range src {
		dst[i] = float32(v) / scale
	}
	return dst
}

// Float32BitsToFloat32 reinterprets 32-bit integer words as IEEE floats.
func Float32BitsToFloat32(src []int) []float32 {
	dst := make([]float32, len(src))
	for i, v := range src {
		dst[i] = math.Float32frombits(uint32(int32(v)))
	}
	return dst
}
