package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alkime/knobs/internal/audio"
	"github.com/alkime/knobs/internal/config"
	"github.com/alkime/knobs/internal/keyring"
	"github.com/alkime/knobs/internal/logger"
	"github.com/alkime/knobs/internal/page"
	"github.com/alkime/knobs/internal/server"
	"github.com/alkime/knobs/pkg/channels"
)

const defaultRemoteAddr = "127.0.0.1:8080"

// ServeCmd plays without a terminal UI; the widgets are driven only through
// the remote control API.
type ServeCmd struct {
	Sound  string `arg:"" optional:"" help:"WAV file to loop (default: a test tone)"`
	Layout string `flag:"" optional:"" help:"Page layout YAML file (default: $KNOBS_LAYOUT)"`
	Addr   string `flag:"" optional:"" help:"Listen address (default: $KNOBS_REMOTE_ADDR or 127.0.0.1:8080)"`
	Token  string `flag:"" optional:"" help:"Token the API requires (default: $KNOBS_REMOTE_TOKEN, then the keychain)"`
}

// Run executes the serve command.
func (c *ServeCmd) Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	(&PlayCmd{Sound: c.Sound, Layout: c.Layout, Remote: c.Addr, Token: c.Token}).applyTo(cfg)

	if cfg.RemoteAddr == "" {
		cfg.RemoteAddr = defaultRemoteAddr
	}

	log := logger.SetupLogger(cfg, os.Stdout)

	log.Info("Starting knobs server",
		"env", cfg.Env,
		"addr", cfg.RemoteAddr,
		"layout", cfg.Layout,
	)

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

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dev := audio.NewDevice(audio.DeviceConfig{SampleRate: cfg.OutputRate})
	if err := dev.Open(ctx, player); err != nil {
		return fmt.Errorf("failed to open audio device: %w", err)
	}
	defer dev.Dealloc(ctx)

	if err := dev.Start(ctx); err != nil {
		return fmt.Errorf("failed to start audio device: %w", err)
	}

	events := channels.NewBroadcaster[page.Change]()
	defer events.Close()

	pg, err := page.New(layout, page.Deps{Rate: player.Rate(), Events: events})
	if err != nil {
		return fmt.Errorf("failed to build page: %w", err)
	}
	defer pg.Close()

	// No pointer will ever press, so play right away.
	player.Play()

	sp := page.NewSerialized(pg)
	srv := server.New(cfg, log, server.Deps{
		Writer:  sp,
		Events:  events,
		Initial: sp.Snapshot(),
		Token:   keyring.ResolveToken(cfg.RemoteToken),
	})

	if err := srv.Run(ctx); err != nil {
		return err
	}

	log.Info("Server stopped")

	return nil
}
