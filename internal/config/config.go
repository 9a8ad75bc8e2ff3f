// Package config resolves graphhist settings from a config file, the
// environment (GRAPHHIST_*) and command-line flags.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	KeyOutputDir = "output_dir"
	KeyStateDir  = "state_dir"
	KeyCachePath = "cache_path"
	KeyWebAddr   = "web.addr"
	KeyLogLevel  = "log.level"
	KeyFilters   = "graph.filters"

	EnvPrefix = "GRAPHHIST"
	FileName  = "graphhist"
)

type Config struct {
	OutputDir string `json:"outputDir"`
	StateDir  string `json:"stateDir"`
	CachePath string `json:"cachePath"`
	WebAddr   string `json:"webAddr"`
	LogLevel  string `json:"logLevel"`
	Filters   string `json:"filters,omitempty"`

	// File is the config file that was read, if any.
	File string `json:"file,omitempty"`
}

// New returns a viper instance with defaults and env binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyOutputDir, "output")
	v.SetDefault(KeyStateDir, "~/.graphhist")
	v.SetDefault(KeyCachePath, "")
	v.SetDefault(KeyWebAddr, "127.0.0.1:8080")
	v.SetDefault(KeyLogLevel, "INFO")
	v.SetDefault(KeyFilters, "")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// BindFlags maps flag names onto config keys. Only flags that exist in fs are bound.
func BindFlags(v *viper.Viper, fs *pflag.FlagSet, keysByFlag map[string]string) error {
	for flag, key := range keysByFlag {
		f := fs.Lookup(flag)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return err
		}
	}
	return nil
}

// Load reads the config file (explicit path, or graphhist.yaml in the working
// directory or state dir) and returns the resolved settings. A missing
// config file is not an error.
func Load(v *viper.Viper, file string) (Config, error) {
	if strings.TrimSpace(file) != "" {
		p, err := homedir.Expand(file)
		if err != nil {
			return Config{}, err
		}
		v.SetConfigFile(p)
	} else {
		v.SetConfigName(FileName)
		v.AddConfigPath(".")
		if sd, err := homedir.Expand(v.GetString(KeyStateDir)); err == nil {
			v.AddConfigPath(sd)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || strings.TrimSpace(file) != "" {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		WebAddr:  strings.TrimSpace(v.GetString(KeyWebAddr)),
		LogLevel: strings.TrimSpace(v.GetString(KeyLogLevel)),
		Filters:  strings.TrimSpace(v.GetString(KeyFilters)),
		File:     v.ConfigFileUsed(),
	}

	var err error
	if cfg.OutputDir, err = expand(v.GetString(KeyOutputDir)); err != nil {
		return Config{}, err
	}
	if cfg.StateDir, err = expand(v.GetString(KeyStateDir)); err != nil {
		return Config{}, err
	}
	if cfg.CachePath, err = expand(v.GetString(KeyCachePath)); err != nil {
		return Config{}, err
	}
	if cfg.CachePath == "" {
		cfg.CachePath = filepath.Join(cfg.StateDir, "index.sqlite")
	}
	if cfg.OutputDir == "" {
		return Config{}, errors.New("config: output_dir is empty")
	}
	return cfg, nil
}

func expand(p string) (string, error) {
	p = strings.TrimSpace(p)
	if p == "" {
		return "", nil
	}
	out, err := homedir.Expand(p)
	if err != nil {
		return "", fmt.Errorf("expand %q: %w", p, err)
	}
	return filepath.Clean(out), nil
}
