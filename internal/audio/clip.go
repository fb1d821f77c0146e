package audio

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-audio/wav"
)

var (
	// ErrNotWAV is returned when a file is not a readable WAV file.
	ErrNotWAV = errors.New("not a valid WAV file")
	// ErrEmptyClip is returned when a clip has no samples.
	ErrEmptyClip = errors.New("clip has no samples")
)

// Clip is a mono sound held in memory at its native sample rate.
type Clip struct {
	Samples    []int16
	SampleRate int
}

// Validate returns an error if the clip can't be played.
func (c *Clip) Validate() error {
	if c == nil || len(c.Samples) == 0 {
		return ErrEmptyClip
	}

	if c.SampleRate <= 0 {
		return errors.New("sample rate must be positive")
	}

	return nil
}

// LoadWAV decodes a PCM WAV file and downmixes it to mono.
func LoadWAV(path string) (*Clip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%s: %w", path, ErrNotWAV)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	channels := int(dec.NumChans)
	if channels < 1 {
		return nil, fmt.Errorf("%s: %w", path, ErrNotWAV)
	}

	clip := &Clip{
		Samples:    downmix(buf.Data, channels, int(dec.BitDepth)),
		SampleRate: int(dec.SampleRate),
	}

	if err := clip.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return clip, nil
}

// Tone generates a sine clip, used when no sound file is configured.
func Tone(freq float64, seconds float64, sampleRate int) *Clip {
	n := int(seconds * float64(sampleRate))
	samples := make([]int16, n)

	for i := range samples {
		phase := 2 * math.Pi * freq * float64(i) / float64(sampleRate)
		samples[i] = int16(math.Sin(phase) * 0.3 * math.MaxInt16)
	}

	return &Clip{Samples: samples, SampleRate: sampleRate}
}

// downmix averages interleaved frames to mono 16-bit samples.
func downmix(data []int, channels, bitDepth int) []int16 {
	frames := len(data) / channels
	out := make([]int16, frames)

	for i := range out {
		sum := 0
		for c := range channels {
			sum += to16(data[i*channels+c], bitDepth)
		}

		out[i] = int16(sum / channels) //nolint:gosec // average of int16-range values
	}

	return out
}

func to16(v, bitDepth int) int {
	switch bitDepth {
	case 8:
		return (v - 128) << 8
	case 24:
		return v >> 8
	case 32:
		return v >> 16
	default:
		return v
	}
}
