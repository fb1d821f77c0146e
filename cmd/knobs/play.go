package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/alkime/knobs/internal/audio"
	"github.com/alkime/knobs/internal/config"
	"github.com/alkime/knobs/internal/keyring"
	"github.com/alkime/knobs/internal/logger"
	"github.com/alkime/knobs/internal/page"
	"github.com/alkime/knobs/internal/server"
	"github.com/alkime/knobs/internal/tui"
	"github.com/alkime/knobs/pkg/channels"
	tea "github.com/charmbracelet/bubbletea"
)

const (
	toneFreq    = 440
	toneSeconds = 2
	levelsSize  = 2048
	bounceBuf   = 64
)

// PlayCmd is the default command: it opens the page in the terminal and
// loops a sound at the rate the slider sets.
type PlayCmd struct {
	Sound  string `arg:"" optional:"" help:"WAV file to loop (default: a test tone)"`
	Layout string `flag:"" optional:"" help:"Page layout YAML file (default: $KNOBS_LAYOUT)"`
	Bounce string `flag:"" optional:"" help:"Also encode everything played to this MP3 file"`
	Remote string `flag:"" optional:"" help:"Serve the remote control API on this address, e.g. 127.0.0.1:8080"`
	Token  string `flag:"" optional:"" help:"Token the remote control API requires (default: $KNOBS_REMOTE_TOKEN, then the keychain)"`
}

// Run executes the play command.
//
//nolint:funlen // CLI command with multiple setup steps
func (c *PlayCmd) Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	c.applyTo(cfg)

	logFile, err := logger.OpenLogFile(cfg.LogFile)
	if err != nil {
		return err
	}
	defer logFile.Close()

	log := logger.SetupLogger(cfg, logFile)

	layout, err := page.LoadLayout(cfg.Layout)
	if err != nil {
		return fmt.Errorf("failed to load layout: %w", err)
	}

	clip, err := loadClip(cfg)
	if err != nil {
		return err
	}

	player, err := audio.NewPlayer(clip, audio.PlayerConfig{
		OutputRate: cfg.OutputRate,
		MaxRate:    cfg.MaxRate,
	})
	if err != nil {
		return fmt.Errorf("failed to create player: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	wg := sync.WaitGroup{}

	// output

	dev := audio.NewDevice(audio.DeviceConfig{SampleRate: cfg.OutputRate})
	if err := dev.Open(ctx, player); err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}

	// always dealloc when we're done
	defer func() {
		dev.Dealloc(ctx)
		slog.Debug("Audio device deallocated")
	}()

	// The device runs from the start; the player is silent until played.
	if err := dev.Start(ctx); err != nil {
		return fmt.Errorf("failed to start audio device: %w", err)
	}

	finishBounce, err := c.startBounce(cfg, player)
	if err != nil {
		return err
	}

	// page

	events := channels.NewBroadcaster[page.Change]()
	defer events.Close()

	pg, err := page.New(layout, page.Deps{
		Rate:      player.Rate(),
		Transport: player.Transport(),
		Events:    events,
	})
	if err != nil {
		return fmt.Errorf("failed to build page: %w", err)
	}
	defer pg.Close()

	model := tui.New(tui.Config{Cancel: cancel}, pg, tui.Controls{
		PlayPause: player.Transport(),
		Rate:      player.Rate(),
		Position:  player.Progress(),
		Levels:    player.Levels(levelsSize),
	})

	p := tea.NewProgram(model,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)

	// remote

	if cfg.RemoteAddr != "" {
		srv := server.New(cfg, log, server.Deps{
			Writer:  tui.NewRemoteWriter(p),
			Events:  events,
			Initial: pg.Snapshot(),
			Token:   keyring.ResolveToken(cfg.RemoteToken),
		})

		wg.Go(func() {
			if err := srv.Run(ctx); err != nil {
				slog.Error("Remote control server error", "error", err)
			}
		})
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}

	cancel()
	wg.Wait()

	if err := dev.Stop(ctx); err != nil {
		slog.Error("Failed to stop audio device", "error", err)
	}

	if err := finishBounce(); err != nil {
		return err
	}

	fmt.Println("\nfinished. bye!")

	return nil
}

// applyTo lets flags override the environment.
func (c *PlayCmd) applyTo(cfg *config.Config) {
	if c.Sound != "" {
		cfg.Sound = c.Sound
	}

	if c.Layout != "" {
		cfg.Layout = c.Layout
	}

	if c.Remote != "" {
		cfg.RemoteAddr = c.Remote
	}

	if c.Token != "" {
		cfg.RemoteToken = c.Token
	}
}

// startBounce starts encoding the player's output when --bounce is set. The
// returned func detaches the player and waits for the file to be complete.
func (c *PlayCmd) startBounce(cfg *config.Config, player *audio.Player) (func() error, error) {
	if c.Bounce == "" {
		return func() error { return nil }, nil
	}

	dataC := make(chan []byte, bounceBuf)

	bouncer, closeFile, err := audio.BounceFile(audio.BounceConfig{SampleRate: cfg.OutputRate}, dataC, c.Bounce)
	if err != nil {
		return nil, fmt.Errorf("failed to create bouncer: %w", err)
	}

	// Not tied to the run context: the bouncer drains until dataC closes.
	if err := bouncer.Start(context.Background()); err != nil {
		_ = closeFile()
		return nil, fmt.Errorf("failed to start bouncer: %w", err)
	}

	player.BounceTo(dataC)

	return func() error {
		player.BounceTo(nil)
		close(dataC)

		waitErr := bouncer.Wait()

		if err := closeFile(); err != nil {
			return fmt.Errorf("failed to close bounce file: %w", err)
		}

		if waitErr != nil {
			return fmt.Errorf("bounce failed: %w", waitErr)
		}

		slog.Info("Bounce written", "path", c.Bounce, "pcmBytes", bouncer.BytesWritten())

		return nil
	}, nil
}

func loadClip(cfg *config.Config) (*audio.Clip, error) {
	if cfg.Sound == "" {
		slog.Debug("No sound configured, using test tone", "freq", toneFreq)
		return audio.Tone(toneFreq, toneSeconds, cfg.OutputRate), nil
	}

	clip, err := audio.LoadWAV(cfg.Sound)
	if err != nil {
		return nil, fmt.Errorf("failed to load sound: %w", err)
	}

	return clip, nil
}
