// Package config handles loading, defaulting, and validation of the xrtcal
// configuration. Settings are layered: built-in defaults, then a YAML or
// TOML file, then XRTCAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/rs/zerolog"
	yml "gopkg.in/yaml.v2"

	"github.com/robert-malhotra/go-xrt/xrt"
)

// EnvPrefix is the prefix of environment overrides. XRTCAL_DATA_FILE sets
// data.file.
const EnvPrefix = "XRTCAL_"

// ErrUnknownFormat is returned for configuration files that are neither
// YAML nor TOML.
var ErrUnknownFormat = errors.New("unknown configuration file format")

// Config is the top-level configuration.
type Config struct {
	Data    DataConfig    `koanf:"data"    yaml:"data"`
	Logging LoggingConfig `koanf:"logging" yaml:"logging"`
	Server  ServerConfig  `koanf:"server"  yaml:"server"`
	Export  ExportConfig  `koanf:"export"  yaml:"export"`
}

// DataConfig locates the calibration file.
type DataConfig struct {
	File     string `koanf:"file"     yaml:"file"`
	Variable string `koanf:"variable" yaml:"variable"`
}

// LoggingConfig selects the log level and output format.
type LoggingConfig struct {
	Level  string `koanf:"level"  yaml:"level"`
	Format string `koanf:"format" yaml:"format"` // console or json
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Bind string `koanf:"bind" yaml:"bind"`
}

// ExportConfig controls the export command.
type ExportConfig struct {
	Dir    string `koanf:"dir"    yaml:"dir"`
	Format string `koanf:"format" yaml:"format"` // fits, yaml or json
	// Channels holds filter names as written in the file. An empty list
	// selects every channel.
	Channels []interface{} `koanf:"channels" yaml:"channels"`
}

// Default returns a Config populated with defaults.
func Default() Config {
	return Config{
		Data: DataConfig{
			File:     "xrt_channels_v0016.genx",
			Variable: xrt.DefaultVariable,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Server: ServerConfig{
			Bind: "127.0.0.1:8080",
		},
		Export: ExportConfig{
			Dir:    ".",
			Format: "fits",
		},
	}
}

// Load layers the file at path and the environment on top of the defaults
// and validates the result. An empty path skips the file.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("loading defaults: %w", err)
	}

	if path != "" {
		parser, err := parserFor(path)
		if err != nil {
			return Config{}, err
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return Config{}, fmt.Errorf("loading %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("loading environment: %w", err)
	}

	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return Config{}, fmt.Errorf("decoding configuration: %w", err)
	}
	if err := validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// envKey maps XRTCAL_EXPORT_DIR to export.dir. Only the first underscore
// after the prefix separates section and key.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(s, "_", ".", 1)
}

func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return tomlParser{}, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// ExportChannels resolves export.channels to canonical names. An empty list
// yields every channel in index order.
func (c Config) ExportChannels() ([]string, error) {
	if len(c.Export.Channels) == 0 {
		return xrt.ChannelNames(), nil
	}
	out := make([]string, 0, len(c.Export.Channels))
	for i, v := range c.Export.Channels {
		name, err := xrt.ResolveFilterValue(v)
		if err != nil {
			return nil, fmt.Errorf("export.channels[%d]: %w", i, err)
		}
		if _, err := xrt.Lookup(name); err != nil {
			return nil, fmt.Errorf("export.channels[%d]: %w", i, err)
		}
		out = append(out, name)
	}
	return out, nil
}

func validate(cfg Config) error {
	if cfg.Data.File == "" {
		return errors.New("data.file must not be empty")
	}
	if _, err := zerolog.ParseLevel(cfg.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch cfg.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", cfg.Logging.Format)
	}
	if cfg.Server.Bind == "" {
		return errors.New("server.bind must not be empty")
	}
	switch cfg.Export.Format {
	case "fits", "yaml", "json":
	default:
		return fmt.Errorf("export.format must be fits, yaml or json, got %q", cfg.Export.Format)
	}
	if _, err := cfg.ExportChannels(); err != nil {
		return err
	}
	return nil
}

// Write emits cfg as YAML.
func Write(w io.Writer, cfg Config) error {
	b, err := yml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
