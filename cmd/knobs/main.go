package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
	"github.com/alkime/knobs/internal/audio"
	"github.com/alkime/knobs/internal/page"
	"gopkg.in/yaml.v3"
)

// CLI defines the knobs command structure.
type CLI struct {
	// Default command (runs when no subcommand given)
	Play PlayCmd `cmd:"" default:"withargs" help:"Open the page and loop a sound"`

	// Subcommands
	Serve   ServeCmd   `cmd:"" help:"Play headless, controlled only through the remote API"`
	Devices DevicesCmd `cmd:"" help:"List available playback devices"`
	Layout  LayoutCmd  `cmd:"" help:"Print the default page layout as YAML"`
	Config  ConfigCmd  `cmd:"" help:"Manage configuration"`
}

// DevicesCmd lists available playback devices.
type DevicesCmd struct{}

// Run executes the devices command.
func (dcmd *DevicesCmd) Run() error {
	slog.Info("Enumerating playback devices...")

	devices, err := audio.NewDevice(audio.DeviceConfig{}).EnumerateDevices(context.Background())
	if err != nil {
		return fmt.Errorf("failed to enumerate audio devices: %w", err)
	}

	for _, dev := range devices {
		slog.Info("Audio Device",
			"name", dev.Name,
			"isDefault", dev.IsDefault,
			"formatCount", dev.FormatCount,
			"formats", dev.Formats,
		)
	}

	return nil
}

// LayoutCmd prints the built-in layout, a starting point for a layout file.
type LayoutCmd struct{}

// Run executes the layout command.
func (c *LayoutCmd) Run() error {
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)

	if err := enc.Encode(page.DefaultLayout()); err != nil {
		return fmt.Errorf("failed to encode layout: %w", err)
	}

	return enc.Close()
}

func main() {
	// Text logger for CLI output; play switches to a log file.
	//nolint:exhaustruct // Using default values for other HandlerOptions fields
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))

	cli := &CLI{} //nolint:exhaustruct // Kong fills in command fields
	ctx := kong.Parse(cli,
		kong.Name("knobs"),
		kong.Description("A slider and a snap dial driving a looping sound."),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
	os.Exit(0)
}
