// Package config provides configuration helpers and TOML parsing.
package config

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Play        PlayConfig         `toml:"play"`
	Engine      EngineConfig       `toml:"engine"`
	Sensitivity map[string]float64 `toml:"sensitivity"`
	Log         LogConfig          `toml:"log"`
}

// PlayConfig maps session settings.
type PlayConfig struct {
	Mode      *string  `toml:"mode"`
	LifeMode  *bool    `toml:"life-mode"`
	Game      *string  `toml:"game"`
	Sens      *float64 `toml:"sens"`
	DPI       *int     `toml:"dpi"`
	Mouse     *string  `toml:"mouse"`
	MinTravel *int     `toml:"min-travel"`
}

// EngineConfig overrides the flash timing and limits.
type EngineConfig struct {
	InitialInterval *Duration `toml:"initial-interval"`
	MinInterval     *Duration `toml:"min-interval"`
	IntervalStep    *Duration `toml:"interval-step"`
	MissPenalty     *Duration `toml:"miss-penalty"`
	HitCooldown     *Duration `toml:"hit-cooldown"`
	MaxMisses       *int      `toml:"max-misses"`
	MaxNoClicks     *int      `toml:"max-no-clicks"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, errors.New("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, errors.Wrap(err, "failed to stat config")
	}
	var cfg FileConfig
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, errors.Wrap(err, "failed to decode config")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, errors.Newf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}
