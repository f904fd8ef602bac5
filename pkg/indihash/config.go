package indihash

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jlrickert/cli-toolkit/mylog"
	"github.com/jlrickert/indihash/pkg/digest"
	"github.com/jlrickert/indihash/pkg/internal"
	"gopkg.in/yaml.v3"
)

// Config is the optional user config ($XDG_CONFIG_HOME/indihash/config.yaml).
// Every field may be omitted.
type Config struct {
	// Algorithm is the selection used when a command is not given one. Empty
	// means no default; the user has to pick.
	Algorithm string `yaml:"algorithm,omitempty"`

	// Mode is "sequential" or "pipelined".
	Mode string `yaml:"mode,omitempty"`

	// BufferSize overrides the read buffer size; 0 uses the page size.
	BufferSize int `yaml:"bufferSize,omitempty"`

	// QueueDepth bounds how far the pipelined reader may run ahead.
	QueueDepth int `yaml:"queueDepth,omitempty"`

	// Debounce is the quiet period used by watch.
	Debounce time.Duration `yaml:"debounce,omitempty"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Mode:       digest.Sequential.String(),
		QueueDepth: digest.DefaultQueueDepth,
		Debounce:   DefaultDebounce,
	}
}

// DefaultConfigPath returns the path of the user config file. The file does
// not have to exist.
func DefaultConfigPath() (string, error) {
	dir, err := internal.GetConfigDir(ConfigAppName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// ReadConfig reads and validates the config at path. Fields missing from the
// file keep their DefaultConfig values.
func ReadConfig(ctx context.Context, path string) (*Config, error) {
	lg := mylog.LoggerFromContext(ctx)
	b, err := os.ReadFile(path)
	if err != nil {
		lg.Debug("failed to read config", "path", path, "err", err)
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(b, cfg); err != nil {
		lg.Error("failed to parse config", "path", path, "err", err)
		return nil, NewInvalidConfigError("", err.Error())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	lg.Debug("config read", "path", path, "config", *cfg)
	return cfg, nil
}

// LoadConfig resolves the effective config. An explicit path must be
// readable. Without one the default path is tried and a missing file falls
// back to DefaultConfig.
func LoadConfig(ctx context.Context, explicitPath string) (*Config, error) {
	if explicitPath != "" {
		return ReadConfig(ctx, explicitPath)
	}

	path, err := DefaultConfigPath()
	if err != nil {
		mylog.LoggerFromContext(ctx).Debug("no config dir", "err", err)
		return DefaultConfig(), nil
	}
	cfg, err := ReadConfig(ctx, path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// Validate checks every field and returns an *InvalidConfigError for the
// first bad one.
func (c *Config) Validate() error {
	if c == nil {
		return NewInvalidConfigError("", "config is nil")
	}
	if strings.TrimSpace(c.Algorithm) != "" {
		if _, err := digest.Parse(c.Algorithm); err != nil {
			return NewInvalidConfigError("algorithm", err.Error())
		}
	}
	if _, err := digest.ParseMode(c.Mode); err != nil {
		return NewInvalidConfigError("mode", err.Error())
	}
	if c.BufferSize < 0 {
		return NewInvalidConfigError("bufferSize", "must not be negative")
	}
	if c.QueueDepth < 0 {
		return NewInvalidConfigError("queueDepth", "must not be negative")
	}
	if c.Debounce < 0 {
		return NewInvalidConfigError("debounce", "must not be negative")
	}
	return nil
}

// DefaultAlgorithm returns the configured algorithm, or the zero Algorithm
// when none is configured.
func (c *Config) DefaultAlgorithm() digest.Algorithm {
	if c == nil || strings.TrimSpace(c.Algorithm) == "" {
		return 0
	}
	alg, err := digest.Parse(c.Algorithm)
	if err != nil {
		return 0
	}
	return alg
}

// DigestOptions converts the config into engine options.
func (c *Config) DigestOptions() digest.Options {
	if c == nil {
		return digest.Options{}
	}
	mode, _ := digest.ParseMode(c.Mode)
	return digest.Options{
		Mode:       mode,
		BufferSize: c.BufferSize,
		QueueDepth: c.QueueDepth,
	}
}

// WriteConfig writes the config to path atomically, creating the parent
// directory as needed.
func (c *Config) WriteConfig(path string) error {
	if c == nil {
		return fmt.Errorf("config is nil")
	}
	if path == "" {
		return fmt.Errorf("path required")
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config dir %q: %w", dir, err)
	}

	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return fmt.Errorf("write temp config %q: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %q -> %q: %w", tmp, path, err)
	}
	return nil
}
