package config

import (
	"fmt"
	"slices"
)

type AudioConfigType string

func (ac AudioConfigType) String() string {
	return string(ac)
}

const (
	// BlockSamples is one MPEG-1 Layer III frame worth of samples.
	BlockSamples = 1152
	// BitrateKbps is the constant bitrate of the output stream.
	BitrateKbps = 32
	Channels    = 1

	AudioCodecMP3 AudioConfigType = "mp3"
)

// MPEG audio sample rates (MPEG-1, MPEG-2 and MPEG-2.5).
var supportedSampleRates = []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000}

type AudioConfig struct {
	SampleRate  int
	Channels    int
	BitrateKbps int
	Type        AudioConfigType
	MimeType    string
}

// NewMP3Config creates the encoder config for one transcode at sampleRate.
func NewMP3Config(sampleRate int) AudioConfig {
	return AudioConfig{
		SampleRate:  sampleRate,
		Channels:    Channels,
		BitrateKbps: BitrateKbps,
		Type:        AudioCodecMP3,
		MimeType:    "audio/mp3",
	}
}

func (ac AudioConfig) Validate() error {
	if ac.Channels != Channels {
		return fmt.Errorf("unsupported channel count %d, only mono is encoded", ac.Channels)
	}
	if !IsSampleRateSupported(ac.SampleRate) {
		return fmt.Errorf("unsupported sample rate %d Hz", ac.SampleRate)
	}
	if ac.BitrateKbps <= 0 {
		return fmt.Errorf("invalid bitrate %d kbps", ac.BitrateKbps)
	}
	return nil
}

func IsSampleRateSupported(sampleRate int) bool {
	return slices.Contains(supportedSampleRates, sampleRate)
}

func SupportedSampleRates() []int {
	return slices.Clone(supportedSampleRates)
}
