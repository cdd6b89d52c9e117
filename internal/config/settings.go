package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Settings is the server configuration, read from an optional JSON file.
type Settings struct {
	Generator GeneratorSettings `json:"generator"`
	Server    ServerSettings    `json:"server"`
	Limits    LimitSettings     `json:"limits"`
}

// GeneratorSettings are the defaults for request fields a client omits.
type GeneratorSettings struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Octaves     int     `json:"octaves"`
	Persistence float32 `json:"persistence"`
	LandPercent int     `json:"landPercent"`
	TidyCycles  int     `json:"tidyCycles"`
}

type ServerSettings struct {
	SSHAddr  string `json:"sshAddr"`
	HTTPAddr string `json:"httpAddr"`
	TCPAddr  string `json:"tcpAddr"`
	HostKey  string `json:"hostKey"`
}

// LimitSettings bound what a single network request may ask for.
type LimitSettings struct {
	MaxWidth   int `json:"maxWidth"`
	MaxHeight  int `json:"maxHeight"`
	MaxOctaves int `json:"maxOctaves"`
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Generator: GeneratorSettings{
			Width:       60,
			Height:      30,
			Octaves:     3,
			Persistence: 0.5,
			LandPercent: 30,
			TidyCycles:  3,
		},
		Server: ServerSettings{
			SSHAddr:  ":2222",
			HTTPAddr: ":8080",
			TCPAddr:  "tcp://:9494",
			HostKey:  "host_key",
		},
		Limits: LimitSettings{
			MaxWidth:   400,
			MaxHeight:  200,
			MaxOctaves: 10,
		},
	}
}

// Load reads path over the defaults. A missing file is not an error.
// PORT, when set, overrides the SSH listen port.
func Load(path string) (Settings, bool, error) {
	s := Default()
	loaded := false

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return s, false, fmt.Errorf("read settings: %w", err)
	default:
		if err := json.Unmarshal(data, &s); err != nil {
			return s, false, fmt.Errorf("parse %s: %w", path, err)
		}
		loaded = true
	}

	if port := os.Getenv("PORT"); port != "" {
		s.Server.SSHAddr = ":" + port
	}
	if err := s.Validate(); err != nil {
		return s, loaded, err
	}
	return s, loaded, nil
}

// Validate rejects settings no request could satisfy.
func (s Settings) Validate() error {
	l := s.Limits
	if l.MaxWidth <= 0 || l.MaxHeight <= 0 || l.MaxOctaves <= 0 {
		return fmt.Errorf("limits must be positive: %+v", l)
	}
	g := s.Generator
	if g.Width <= 0 || g.Width > l.MaxWidth || g.Height <= 0 || g.Height > l.MaxHeight {
		return fmt.Errorf("default size %dx%d outside limits %dx%d", g.Width, g.Height, l.MaxWidth, l.MaxHeight)
	}
	if g.Octaves <= 0 || g.Octaves > l.MaxOctaves {
		return fmt.Errorf("default octaves %d outside 1..%d", g.Octaves, l.MaxOctaves)
	}
	return nil
}
