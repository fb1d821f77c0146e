package audio_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alkime/knobs/internal/audio"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeWAV(t *testing.T, channels int, data []int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, 8000, 16, channels, 1)
	require.NoError(t, enc.Write(&goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: 8000},
		Data:           data,
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	return path
}

func TestLoadWAV(t *testing.T) {
	t.Parallel()

	t.Run("mono", func(t *testing.T) {
		t.Parallel()

		clip, err := audio.LoadWAV(writeWAV(t, 1, []int{1, -2, 300}))
		require.NoError(t, err)
		assert.Equal(t, []int16{1, -2, 300}, clip.Samples)
		assert.Equal(t, 8000, clip.SampleRate)
	})

	t.Run("stereo is downmixed", func(t *testing.T) {
		t.Parallel()

		clip, err := audio.LoadWAV(writeWAV(t, 2, []int{100, 300, -50, -150}))
		require.NoError(t, err)
		assert.Equal(t, []int16{200, -100}, clip.Samples)
	})

	t.Run("not a wav", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "clip.wav")
		require.NoError(t, os.WriteFile(path, []byte("definitely not riff"), 0o600))

		_, err := audio.LoadWAV(path)
		require.ErrorIs(t, err, audio.ErrNotWAV)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		_, err := audio.LoadWAV(filepath.Join(t.TempDir(), "nope.wav"))
		require.Error(t, err)
	})
}

func TestTone(t *testing.T) {
	t.Parallel()

	clip := audio.Tone(440, 0.5, 8000)
	require.NoError(t, clip.Validate())
	assert.Len(t, clip.Samples, 4000)
	assert.Equal(t, int16(0), clip.Samples[0])
}
