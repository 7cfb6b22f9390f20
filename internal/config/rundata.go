package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/cwbudde/algo-musr/musr"
)

var errNoRunName = errors.New("config: run data without name")

// RunData is the YAML form of a raw run.
type RunData struct {
	Name           string        `yaml:"name"`
	TimeResolution float64       `yaml:"time_resolution"`
	Field          float64       `yaml:"field"`
	Energy         float64       `yaml:"energy"`
	Temperatures   []float64     `yaml:"temperatures"`
	Channels       []ChannelData `yaml:"channels"`
}

// ChannelData is one histogram of a run.
type ChannelData struct {
	No          int       `yaml:"no"`
	T0          float64   `yaml:"t0"`
	T0Estimated float64   `yaml:"t0_estimated"`
	Bins        []float64 `yaml:"bins"`
}

// Raw converts d into a musr.RawRun.
func (d RunData) Raw() *musr.RawRun {
	r := &musr.RawRun{
		Name:           d.Name,
		TimeResolution: d.TimeResolution,
		Field:          d.Field,
		Energy:         d.Energy,
		Channels:       make(map[int]*musr.Channel, len(d.Channels)),
	}
	for _, t := range d.Temperatures {
		r.Temperatures = append(r.Temperatures, musr.Temperature{Value: t})
	}
	for _, ch := range d.Channels {
		r.Channels[ch.No] = &musr.Channel{T0: ch.T0, T0Estimated: ch.T0Estimated, Bins: ch.Bins}
	}
	return r
}

// LoadRunData reads every YAML document of the given files into a
// repository.
func LoadRunData(paths ...string) (*musr.MemoryRepository, error) {
	repo := musr.NewMemoryRepository()
	for _, p := range paths {
		b, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := decodeRunData(b, repo); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
	}
	return repo, nil
}

func decodeRunData(b []byte, repo *musr.MemoryRepository) error {
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	for {
		var d RunData
		err := dec.Decode(&d)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("config: %w", err)
		}
		if d.Name == "" {
			return errNoRunName
		}
		repo.Add(d.Raw())
	}
}

// WriteRunData encodes runs as a multi-document YAML stream.
func WriteRunData(runs ...RunData) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	for _, r := range runs {
		if err := enc.Encode(r); err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return buf.Bytes(), nil
}
