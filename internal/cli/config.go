package cli

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"snipdesk/internal/client"
)

// Config is the snipctl configuration file.
type Config struct {
	ServerURL      string        `toml:"server_url"`
	Token          string        `toml:"token"`
	Timeout        time.Duration `toml:"timeout"`
	CaptureTimeout time.Duration `toml:"capture_timeout"`
	Retries        int           `toml:"retries"` // 0 or 1
}

func DefaultConfig() *Config {
	return &Config{
		ServerURL:      "http://localhost:8080",
		Timeout:        client.DefaultTimeout,
		CaptureTimeout: client.DefaultCaptureTimeout,
		Retries:        1,
	}
}

// DefaultConfigPath is ~/.config/snipdesk/snipctl.toml on Linux and the platform equivalent elsewhere.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locating config dir: %w", err)
	}
	return filepath.Join(dir, "snipdesk", "snipctl.toml"), nil
}

// Read decodes r over the defaults, so keys that are absent keep their default value.
func Read(r io.Reader) (*Config, error) {
	cfg := DefaultConfig()
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ReadFromFile reads path. A missing file yields the defaults when allowMissing is set.
func ReadFromFile(path string, allowMissing bool) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		if allowMissing && errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	cfg, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// Init writes cfg to path. It refuses to overwrite an existing file.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// The token is a credential.
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServerURL) == "" {
		return errors.New("server_url must not be empty")
	}
	if c.Retries < 0 || c.Retries > 1 {
		return fmt.Errorf("retries must be 0 or 1, got %d", c.Retries)
	}
	if c.Timeout <= 0 || c.CaptureTimeout <= 0 {
		return errors.New("timeout and capture_timeout must be positive")
	}
	return nil
}

// ClientConfig converts c into the API client's settings.
func (c *Config) ClientConfig() client.Config {
	return client.Config{
		BaseURL:        c.ServerURL,
		Token:          c.Token,
		Timeout:        c.Timeout,
		CaptureTimeout: c.CaptureTimeout,
		Retries:        c.Retries,
	}
}
