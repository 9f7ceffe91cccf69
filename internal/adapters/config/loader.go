// Package config provides the YAML settings loader.
package config

import (
	"errors"
	"io/fs"
	"os"

	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"

	"go.trai.ch/memo/internal/core/domain"
	"go.trai.ch/memo/internal/core/ports"
)

// DefaultFilename is the config file looked up when none is specified.
const DefaultFilename = "memo.yaml"

// Loader implements ports.SettingsLoader from a YAML file.
type Loader struct{}

// NewLoader creates a Loader.
func NewLoader() *Loader {
	return &Loader{}
}

type fileDTO struct {
	Version string    `yaml:"version"`
	Engine  engineDTO `yaml:"engine"`
}

type engineDTO struct {
	Shards          int    `yaml:"shards"`
	WarmParallelism int    `yaml:"warmParallelism"`
	CachePath       string `yaml:"cachePath"`
	LogLevel        string `yaml:"logLevel"`
}

// Load reads settings from the given path. A missing file yields defaulted
// settings; a malformed file is an error.
func (l *Loader) Load(path string) (*domain.Settings, error) {
	if path == "" {
		path = DefaultFilename
	}

	data, err := os.ReadFile(path) //nolint:gosec // path is provided by user
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s := &domain.Settings{}
			if err := s.Validate(); err != nil {
				return nil, err
			}
			return s, nil
		}
		return nil, zerr.With(errors.Join(domain.ErrConfigReadFailed, err), "path", path)
	}

	var dto fileDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, zerr.With(errors.Join(domain.ErrConfigParseFailed, err), "path", path)
	}

	s := &domain.Settings{
		Shards:          dto.Engine.Shards,
		WarmParallelism: dto.Engine.WarmParallelism,
		CachePath:       dto.Engine.CachePath,
		LogLevel:        dto.Engine.LogLevel,
	}
	if err := s.Validate(); err != nil {
		return nil, zerr.With(err, "path", path)
	}
	return s, nil
}

var _ ports.SettingsLoader = (*Loader)(nil)
