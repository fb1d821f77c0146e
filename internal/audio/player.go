package audio

import (
	"errors"
	"log/slog"
	"math"
	"sync"

	"github.com/alkime/knobs/pkg/channels"
	"github.com/alkime/knobs/pkg/uictl"
)

const (
	// DefaultMaxRate caps how fast a clip may be played back.
	DefaultMaxRate = 4.0
	// DefaultTapSize is how many output samples are kept for visualisation.
	DefaultTapSize = 4096
)

// PlayerConfig configures a Player.
type PlayerConfig struct {
	// OutputRate is the device sample rate frames are produced at.
	OutputRate int
	// Rate is the initial playback rate (1 = native speed).
	Rate float64
	// MaxRate caps the playback rate. Zero means DefaultMaxRate.
	MaxRate float64
	// TapSize is the number of output samples kept for Levels. Zero means DefaultTapSize.
	TapSize int
}

// Player loops a clip at a variable playback rate. Frames are pulled by the
// audio device callback while the UI moves the rate and transport, so all
// methods are safe for concurrent use.
type Player struct {
	mu      sync.Mutex
	clip    *Clip
	step    float64 // clip samples per output frame at rate 1
	pos     float64
	rate    float64
	maxRate float64
	playing bool

	tap    *RingBuffer[int16]
	bounce chan<- []byte
}

// NewPlayer creates a paused player for clip.
func NewPlayer(clip *Clip, cfg PlayerConfig) (*Player, error) {
	if err := clip.Validate(); err != nil {
		return nil, err
	}

	if cfg.OutputRate <= 0 {
		return nil, errors.New("output rate must be positive")
	}

	if cfg.MaxRate <= 0 {
		cfg.MaxRate = DefaultMaxRate
	}

	if cfg.TapSize <= 0 {
		cfg.TapSize = DefaultTapSize
	}

	p := &Player{
		clip:    clip,
		step:    float64(clip.SampleRate) / float64(cfg.OutputRate),
		maxRate: cfg.MaxRate,
		tap:     NewRingBuffer[int16](cfg.TapSize),
	}
	p.SetRate(cfg.Rate)

	return p, nil
}

// BounceTo copies every produced frame, as S16LE bytes, to dataC. Sends never
// block the audio callback; frames are dropped if dataC is full. Once
// BounceTo(nil) returns the previous channel receives nothing more and may be
// closed.
func (p *Player) BounceTo(dataC chan<- []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.bounce = dataC
}

// SetRate sets the playback rate, clamped to [0, MaxRate]. Non-finite rates
// are ignored.
func (p *Player) SetRate(rate float64) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.rate = math.Min(math.Max(rate, 0), p.maxRate)
}

// PlaybackRate returns the current playback rate.
func (p *Player) PlaybackRate() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.rate
}

// Play resumes playback.
func (p *Player) Play() {
	p.setPlaying(true)
}

// Pause silences output, keeping the position.
func (p *Player) Pause() {
	p.setPlaying(false)
}

// Playing reports whether the player is producing sound.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.playing
}

// Position returns the current clip position and length in samples.
func (p *Player) Position() (pos, length int64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	return int64(p.pos), int64(len(p.clip.Samples))
}

// Fill renders the next len(out) mono output frames.
func (p *Player) Fill(out []int16) {
	p.mu.Lock()

	if !p.playing || p.rate == 0 {
		clear(out)
	} else {
		p.render(out)
	}

	if p.bounce != nil {
		if err := channels.SendNonBlock(p.bounce, Int16ToBytes(out)); err != nil {
			slog.Debug("bounce frame dropped", "error", err)
		}
	}
	p.mu.Unlock()

	p.tap.Write(out)
}

// render advances through the clip with linear interpolation, wrapping at the end.
func (p *Player) render(out []int16) {
	samples := p.clip.Samples
	n := float64(len(samples))
	step := p.step * p.rate

	for i := range out {
		idx := int(p.pos)
		frac := p.pos - float64(idx)
		a := float64(samples[idx])
		b := float64(samples[(idx+1)%len(samples)])
		out[i] = int16(a + (b-a)*frac)

		p.pos = math.Mod(p.pos+step, n)
	}
}

func (p *Player) setPlaying(on bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.playing = on
}

// Rate exposes the playback rate as a Fader.
func (p *Player) Rate() uictl.Fader[float64] {
	return rateFader{p}
}

// Transport exposes play/pause as a Knob.
func (p *Player) Transport() uictl.Knob {
	return transportKnob{p}
}

// Progress exposes the loop position as a CappedDial.
func (p *Player) Progress() uictl.CappedDial[int64] {
	return progressDial{p}
}

// Levels exposes the last n output samples.
func (p *Player) Levels(n int) uictl.Levels[int16] {
	return p.tap.Window(n)
}

type rateFader struct{ p *Player }

func (f rateFader) Read() float64 { return f.p.PlaybackRate() }
func (f rateFader) Set(v float64) { f.p.SetRate(v) }

type transportKnob struct{ p *Player }

func (k transportKnob) Read() bool { return k.p.Playing() }
func (k transportKnob) On()        { k.p.Play() }
func (k transportKnob) Off()       { k.p.Pause() }

func (k transportKnob) Toggle() {
	k.p.mu.Lock()
	defer k.p.mu.Unlock()

	k.p.playing = !k.p.playing
}

type progressDial struct{ p *Player }

func (d progressDial) Read() int64 {
	pos, _ := d.p.Position()
	return pos
}

func (d progressDial) Cap() (int64, int64) {
	return d.p.Position()
}
