package audio

import (
	"errors"
	"slices"
)

// DefaultBufferThreshold is 8KB = 4096 mono samples, about 93ms @ 44.1kHz.
const DefaultBufferThreshold = 8192

// mp3Rates are the sample rates the MPEG-1/2/2.5 layer III encoder accepts.
var mp3Rates = []int{8000, 11025, 12000, 16000, 22050, 24000, 32000, 44100, 48000}

// BounceConfig configures the MP3 bounce encoder.
type BounceConfig struct {
	// SampleRate of the incoming PCM, normally the device output rate.
	SampleRate int

	// BufferThreshold is the number of PCM bytes to accumulate before encoding.
	BufferThreshold int
}

// Validate returns an error if the config is invalid.
func (c BounceConfig) Validate() error {
	if c.SampleRate <= 0 {
		return errors.New("sample rate must be positive")
	}

	if !slices.Contains(mp3Rates, c.SampleRate) {
		return errors.New("sample rate not supported by mp3")
	}

	if c.BufferThreshold <= 0 {
		return errors.New("buffer threshold must be positive")
	}

	return nil
}

// WithDefaults returns a config with default values applied to zero fields.
func (c BounceConfig) WithDefaults() BounceConfig {
	if c.SampleRate == 0 {
		c.SampleRate = DefaultOutputRate
	}

	if c.BufferThreshold == 0 {
		c.BufferThreshold = DefaultBufferThreshold
	}

	return c
}
