package main

import (
	"fmt"
	"strings"

	"github.com/alkime/knobs/internal/config"
	"github.com/alkime/knobs/internal/keyring"
)

// ConfigCmd groups configuration-related subcommands.
type ConfigCmd struct {
	SetToken   SetTokenCmd   `cmd:"" name:"set-token" help:"Store the remote control token in the system keychain"`
	ClearToken ClearTokenCmd `cmd:"" name:"clear-token" help:"Remove the stored remote control token"`
	Show       ShowCmd       `cmd:"" help:"Show the effective configuration"`
}

// SetTokenCmd stores the remote control token in the system keychain.
type SetTokenCmd struct {
	Secret string `arg:"" optional:"" help:"Token value (generated when omitted)"`
}

// Run executes the set-token command.
func (c *SetTokenCmd) Run() error {
	secret := strings.TrimSpace(c.Secret)
	generated := secret == ""

	if generated {
		secret = keyring.GenerateToken()
	}

	if err := keyring.SetToken(secret); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}

	if generated {
		fmt.Printf("generated token stored in keychain: %s\n", secret)
	} else {
		fmt.Println("token stored in keychain")
	}

	return nil
}

// ClearTokenCmd removes the stored token.
type ClearTokenCmd struct{}

// Run executes the clear-token command.
func (c *ClearTokenCmd) Run() error {
	if err := keyring.ClearToken(); err != nil {
		return err
	}

	fmt.Println("token removed from keychain")

	return nil
}

// ShowCmd prints the configuration play would use.
type ShowCmd struct{}

// Run executes the show command.
func (c *ShowCmd) Run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	sound := cfg.Sound
	if sound == "" {
		sound = "(test tone)"
	}

	remote := cfg.RemoteAddr
	if remote == "" {
		remote = "(off)"
	}

	token := "not set"

	switch {
	case cfg.RemoteToken != "":
		token = "from environment"
	case keyring.IsSet():
		token = "from keychain"
	}

	fmt.Printf("env:         %s\n", cfg.Env)
	fmt.Printf("layout:      %s\n", cfg.Layout)
	fmt.Printf("sound:       %s\n", sound)
	fmt.Printf("output rate: %d Hz\n", cfg.OutputRate)
	fmt.Printf("max rate:    ×%g\n", cfg.MaxRate)
	fmt.Printf("remote:      %s\n", remote)
	fmt.Printf("token:       %s\n", token)
	fmt.Printf("log file:    %s\n", cfg.LogFile)

	return nil
}
