package convert

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFirstChannel(t *testing.T) {
	tests := []struct {
		name     string
		in       []float32
		channels int
		want     []float32
	}{
		{"mono passthrough", []float32{1, 2, 3}, 1, []float32{1, 2, 3}},
		{"stereo", []float32{1, -1, 2, -2, 3, -3}, 2, []float32{1, 2, 3}},
		{"partial frame dropped", []float32{1, -1, 2}, 2, []float32{1}},
		{"six channels", []float32{1, 0, 0, 0, 0, 0, 2, 0, 0, 0, 0, 0}, 6, []float32{1, 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FirstChannel(tt.in, tt.channels))
		})
	}
}

func TestPCM16LEFirstChannel(t *testing.T) {
	src := make([]byte, 8)
	binary.LittleEndian.PutUint16(src[0:], uint16(16384))
	v := int16(-16384)
	binary.LittleEndian.PutUint16(src[2:], uint16(v))
	binary.LittleEndian.PutUint16(src[4:], uint16(0))
	binary.LittleEndian.PutUint16(src[6:], uint16(32767))

	assert.Equal(t, []float32{0.5, 0}, PCM16LEFirstChannel(src, 2))
	assert.Equal(t, []float32{0.5, -0.5, 0, 32767.0 / 32768.0}, PCM16LEFirstChannel(src, 1))
}

func TestIntToFloat32(t *testing.T) {
	assert.Equal(t, []float32{0, -1, 0.5}, IntToFloat32([]int{0, -32768, 16384}, 16))
	assert.Equal(t, []float32{0, -1}, IntToFloat32([]int{0, -8388608}, 24))
	assert.Equal(t, []float32{0, -1, 0.5}, IntToFloat32([]int{128, 0, 192}, 8))
}

func TestFloat32BitsToFloat32(t *testing.T) {
	words := []int{int(int32(math.Float32bits(0.25))), int(int32(math.Float32bits(-0.75)))}
	assert.Equal(t, []float32{0.25, -0.75}, Float32BitsToFloat32(words))
}

func TestMuLaw(t *testing.T) {
	assert.Equal(t, int16(0), MuLawToLinear16(0xFF))
	assert.Equal(t, int16(-32124), MuLawToLinear16(0x00))
	assert.Equal(t, int16(32124), MuLawToLinear16(0x80))

	out := MuLawToFloat32([]int{0xFF, 0x80})
	assert.Equal(t, float32(0), out[0])
	assert.InDelta(t, 32124.0/32768.0, out[1], 1e-6)
}
