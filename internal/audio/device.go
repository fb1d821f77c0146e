package audio

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"

	"github.com/alkime/knobs/pkg/collections"
	"github.com/gen2brain/malgo"
)

// FrameSource produces mono output frames on demand. *Player implements it.
type FrameSource interface {
	Fill(out []int16)
}

type Device interface {
	// EnumerateDevices lists available playback devices.
	// It ignores any device configuration passed in.
	EnumerateDevices(ctx context.Context) ([]Info, error)

	// Open initializes the underlying playback device. Once started, the
	// device callback pulls every frame it plays from src.
	Open(ctx context.Context, src FrameSource) error

	// Start starts the audio device.
	Start(ctx context.Context) error
	// Stop stops the audio device.
	// if the underlying device has already been deallocated this is a no-op.
	Stop(ctx context.Context) error

	// IsStarted returns whether the audio device is currently started.
	IsStarted() bool

	// Dealloc deallocates the underlying audio device and frees resources.
	Dealloc(ctx context.Context)
}

type device struct {
	conf DeviceConfig

	mgCtx    *malgo.AllocatedContext
	mgDevice *malgo.Device
}

func NewDevice(conf DeviceConfig) Device {
	return &device{conf: conf.WithDefaults()}
}

func (d *device) EnumerateDevices(_ context.Context) ([]Info, error) {
	devCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	defer uninitializeContext(devCtx)

	playbackDevices, err := devCtx.Devices(malgo.Playback)
	if err != nil {
		return nil, fmt.Errorf("failed to get playback devices: %w", err)
	}

	return collections.Apply(playbackDevices, malgoDeviceInfoToDeviceInfo), nil
}

func (d *device) Open(_ context.Context, src FrameSource) error {
	if src == nil {
		return errors.New("frame source is nil. unable to allocate device")
	}

	if d.mgDevice != nil {
		return errors.New("device already open")
	}

	if err := d.conf.Validate(); err != nil {
		return fmt.Errorf("invalid device config: %w", err)
	}

	mgCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}

	devCnf := malgo.DefaultDeviceConfig(malgo.Playback)
	devCnf.Playback.Format = d.conf.Format
	devCnf.Playback.Channels = uint32(d.conf.PlaybackChannels) //nolint:gosec // validated positive
	devCnf.SampleRate = uint32(d.conf.SampleRate)              //nolint:gosec // validated positive

	fill := newFiller(src, d.conf.PlaybackChannels)
	callBacks := malgo.DeviceCallbacks{
		Data: func(out, _ []byte, framecount uint32) {
			fill(out, int(framecount))
		},
	}

	mgDevice, err := malgo.InitDevice(mgCtx.Context, devCnf, callBacks)
	if err != nil {
		uninitializeContext(mgCtx)
		return fmt.Errorf("failed to initialize malgo device: %w", err)
	}

	d.mgCtx, d.mgDevice = mgCtx, mgDevice

	return nil
}

func (d *device) Start(_ context.Context) error {
	if d.mgDevice == nil {
		return errors.New("device nil. have you Open()ed it?")
	}

	if d.mgDevice.IsStarted() {
		return nil
	}

	if err := d.mgDevice.Start(); err != nil {
		return fmt.Errorf("failed to start malgo device: %w", err)
	}

	return nil
}

func (d *device) Stop(_ context.Context) error {
	if d.mgDevice == nil {
		return nil
	}

	if err := d.mgDevice.Stop(); err != nil {
		return fmt.Errorf("failed to stop malgo device: %w", err)
	}

	return nil
}

func (d *device) Dealloc(_ context.Context) {
	if d.mgDevice == nil {
		return
	}

	d.mgDevice.Uninit()
	uninitializeContext(d.mgCtx)
	d.mgDevice = nil
	d.mgCtx = nil
}

func (d *device) IsStarted() bool {
	if d.mgDevice == nil {
		return false
	}

	return d.mgDevice.IsStarted()
}

// newFiller returns the device callback body: it pulls mono frames from src
// and writes them as interleaved S16LE, one copy per output channel. The
// scratch buffer is reused across callbacks.
func newFiller(src FrameSource, channels int) func(out []byte, frames int) {
	var scratch []int16

	return func(out []byte, frames int) {
		frames = min(frames, len(out)/(2*channels))
		if cap(scratch) < frames {
			scratch = make([]int16, frames)
		}

		mono := scratch[:frames]
		src.Fill(mono)

		for i, s := range mono {
			for c := range channels {
				binary.LittleEndian.PutUint16(out[(i*channels+c)*2:], uint16(s)) //nolint:gosec // bit pattern
			}
		}
	}
}

type Info struct {
	Name        string
	IsDefault   bool
	FormatCount int
	Formats     []string
}

func malgoDeviceInfoToDeviceInfo(mdi malgo.DeviceInfo) Info {
	formats := make([]string, len(mdi.Formats))
	for i, mf := range mdi.Formats {
		formats[i] = fmt.Sprintf("(SampleSizeBytes: %d, Channels: %d, SampleRate: %d)",
			malgo.SampleSizeInBytes(mf.Format),
			mf.Channels, mf.SampleRate)
	}

	return Info{
		Name:        mdi.Name(),
		IsDefault:   mdi.IsDefault != 0,
		FormatCount: int(mdi.FormatCount),
		Formats:     formats,
	}
}

func uninitializeContext(deviceCtx *malgo.AllocatedContext) {
	if deviceCtx == nil {
		return
	}

	if err := deviceCtx.Uninit(); err != nil {
		slog.Error("failed to uninitialize malgo context", "error", err)
	}
	deviceCtx.Free()
}
