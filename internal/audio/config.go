package audio

import (
	"errors"

	"github.com/gen2brain/malgo"
)

const (
	// DefaultOutputRate is the playback device sample rate.
	DefaultOutputRate = 44100
	// DefaultPlaybackChannels duplicates the mono signal to both speakers.
	DefaultPlaybackChannels = 2
)

// DeviceConfig configures the playback device. Only signed 16-bit output is
// produced.
type DeviceConfig struct {
	Format           malgo.FormatType
	PlaybackChannels int
	SampleRate       int
}

// Validate returns an error if the config is invalid.
func (c DeviceConfig) Validate() error {
	if c.Format != malgo.FormatS16 {
		return errors.New("only S16 output is supported")
	}

	if c.PlaybackChannels < 1 {
		return errors.New("playback channels must be positive")
	}

	if c.SampleRate <= 0 {
		return errors.New("sample rate must be positive")
	}

	return nil
}

// WithDefaults returns a config with default values applied to zero fields.
func (c DeviceConfig) WithDefaults() DeviceConfig {
	if c.Format == malgo.FormatUnknown {
		c.Format = malgo.FormatS16
	}

	if c.PlaybackChannels == 0 {
		c.PlaybackChannels = DefaultPlaybackChannels
	}

	if c.SampleRate == 0 {
		c.SampleRate = DefaultOutputRate
	}

	return c
}
