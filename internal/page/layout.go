package page

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/alkime/knobs/internal/widget"
	"gopkg.in/yaml.v3"
)

// Layout declares the widgets a page shows and their initial values.
type Layout struct {
	Slider SliderLayout `yaml:"slider"`
	Dial   DialLayout   `yaml:"dial"`
}

type SliderLayout struct {
	Label string `yaml:"label"`
	Value string `yaml:"value"`
}

type DialLayout struct {
	Label string            `yaml:"label"`
	Value string            `yaml:"value"`
	Stops []widget.StopDecl `yaml:"stops"`
}

// DefaultLayout is used when no layout file exists: a rate slider at native
// speed and a four-stop dial.
func DefaultLayout() Layout {
	return Layout{
		Slider: SliderLayout{Label: "rate", Value: "1"},
		Dial: DialLayout{
			Label: "mode",
			Value: "0",
			Stops: []widget.StopDecl{
				{Value: "0", Text: "A"},
				{Value: "25", Text: "B"},
				{Value: "50", Text: "C"},
				{Value: "75", Text: "D"},
			},
		},
	}
}

// LoadLayout reads a YAML layout file.
//
//   - An empty path or a missing file yields DefaultLayout.
//   - Fields left out of the file keep their default.
//   - Unknown fields are rejected via KnownFields(true).
func LoadLayout(path string) (Layout, error) {
	if path == "" {
		return DefaultLayout(), nil
	}

	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultLayout(), nil
	}

	if err != nil {
		return Layout{}, fmt.Errorf("read layout file: %w", err)
	}

	return ParseLayout(b)
}

// ParseLayout decodes a YAML layout over the defaults.
func ParseLayout(b []byte) (Layout, error) {
	layout := DefaultLayout()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&layout); errors.Is(err, io.EOF) {
		return layout, nil
	} else if err != nil {
		return Layout{}, fmt.Errorf("decode layout yaml: %w", err)
	}

	if err := dec.Decode(&struct{}{}); err == nil {
		return Layout{}, errors.New("decode layout yaml: unexpected trailing document")
	}

	return layout, nil
}
