package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	mp3encoder "github.com/braheezy/shine-mp3/pkg/mp3"
)

// Bouncer records what the player sends to the speakers. It reads mono S16LE
// PCM from a channel, batches it up to a threshold and writes MP3 frames.
//
// Encoding stops when the input channel is closed or the context is
// cancelled. Whatever is buffered at that point is flushed.
type Bouncer struct {
	config BounceConfig
	input  <-chan []byte
	output io.Writer

	encoder *mp3encoder.Encoder
	buffer  []byte
	written int64

	mu      sync.Mutex
	wg      sync.WaitGroup
	errOnce sync.Once
	err     error
}

// NewBouncer creates an MP3 bounce encoder.
func NewBouncer(config BounceConfig, input <-chan []byte, output io.Writer) (*Bouncer, error) {
	if input == nil {
		return nil, errors.New("input channel cannot be nil")
	}

	if output == nil {
		return nil, errors.New("output writer cannot be nil")
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid bounce config: %w", err)
	}

	return &Bouncer{ //nolint:exhaustruct // encoder and sync state set on Start()
		config: config,
		input:  input,
		output: output,
		buffer: make([]byte, 0, config.BufferThreshold),
	}, nil
}

// BounceFile creates path and returns a Bouncer writing to it together with
// the func that closes the file once the Bouncer is done.
func BounceFile(config BounceConfig, input <-chan []byte, path string) (*Bouncer, func() error, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create bounce file: %w", err)
	}

	b, err := NewBouncer(config, input, f)
	if err != nil {
		_ = f.Close()
		_ = os.Remove(path)

		return nil, nil, err
	}

	return b, f.Close, nil
}

// Start begins the encoding goroutine.
func (b *Bouncer) Start(ctx context.Context) error {
	if b.encoder != nil {
		return errors.New("bouncer already started")
	}

	// shine-mp3 mono output is broken; encode as stereo with L=R.
	b.encoder = mp3encoder.NewEncoder(b.config.SampleRate, 2)

	slog.Debug("starting bounce encoder",
		"sampleRate", b.config.SampleRate,
		"bufferThreshold", b.config.BufferThreshold)

	b.wg.Go(func() {
		defer func() {
			if err := b.Flush(); err != nil {
				b.setError(fmt.Errorf("failed to flush bouncer on shutdown: %w", err))
			}
		}()

		for {
			select {
			case data, ok := <-b.input:
				if !ok {
					return
				}

				b.buffer = append(b.buffer, data...)

				if len(b.buffer) >= b.config.BufferThreshold {
					if err := b.encodeBatch(); err != nil {
						b.setError(err)
						return
					}
				}

			case <-ctx.Done():
				b.setError(fmt.Errorf("bouncer context cancelled: %w", ctx.Err()))
				return
			}
		}
	})

	return nil
}

// BytesWritten returns the number of PCM bytes encoded so far.
func (b *Bouncer) BytesWritten() int64 {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.written
}

// Flush encodes any remaining buffered data.
func (b *Bouncer) Flush() error {
	if err := b.encodeBatch(); err != nil {
		return fmt.Errorf("failed to flush mp3 encoder: %w", err)
	}

	return nil
}

// Wait blocks until encoding completes and returns the first error seen.
func (b *Bouncer) Wait() error {
	b.wg.Wait()

	return b.err
}

func (b *Bouncer) encodeBatch() error {
	if len(b.buffer) == 0 || b.encoder == nil {
		return nil
	}

	mono := BytesToInt16(b.buffer)
	stereo := make([]int16, len(mono)*2)

	for i, s := range mono {
		stereo[i*2] = s
		stereo[i*2+1] = s
	}

	if err := b.encoder.Write(b.output, stereo); err != nil {
		return fmt.Errorf("failed to encode audio to mp3: %w", err)
	}

	b.mu.Lock()
	b.written += int64(len(mono) * 2)
	b.mu.Unlock()

	b.buffer = b.buffer[:0]

	return nil
}

func (b *Bouncer) setError(err error) {
	b.errOnce.Do(func() {
		b.err = err
		slog.Debug("bouncer error", "error", err)
	})
}
