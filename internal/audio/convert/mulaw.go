package convert

// G.711 mu-law expansion.
const muBias = 0x84

func MuLawToLinear16(mu byte) int16 {
	mu = ^mu
	sign := mu & 0x80
	exponent := (mu >> 4) & 0x07
	mantissa := mu & 0x0F
	value := (int16(mantissa)<<3 + muBias) << exponent
	value -= muBias
	if sign != 0 {
		return -value
	}
	return value
}

// MuLawToFloat32 expands mu-law code words, one per element of src.
func MuLawToFloat32(src []int) []float32 {
	dst := make([]float32, len(src))
	for i, v := range src {
		dst[i] = float32(MuLawToLinear16(byte(v))) / 32768.0
	}
	return dst
}
