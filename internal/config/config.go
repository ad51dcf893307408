// Package config reads the tool's configuration: the main settings file
// (base URL, credentials, driver endpoints, wait timing) via viper, and the
// accounts and recipients documents kept next to it. Settings are read once
// at startup and immutable for the process lifetime.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// DefaultDirName is the per-user configuration directory under $HOME.
const DefaultDirName = ".bgwire"

// DriverKind selects the remote-UI driver implementation.
type DriverKind string

const (
	DriverPhantomJS DriverKind = "phantomjs"
	DriverSelenium  DriverKind = "selenium"
)

// Settings is the process-wide configuration.
type Settings struct {
	Dir string

	BaseURL  string
	Username string
	Password string

	Driver         DriverKind
	DriverEndpoint string
	DriverBrowser  string

	WaitTimeout  time.Duration
	PollInterval time.Duration
}

// DefaultDir returns the per-user configuration directory.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, DefaultDirName), nil
}

// Load reads config.yaml from dir. The file must exist; running without a
// base URL or driver endpoint cannot do anything useful.
func Load(dir string) (*Settings, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetDefault("driver.kind", string(DriverPhantomJS))
	v.SetDefault("driver.endpoint", "http://127.0.0.1:8910")
	v.SetDefault("driver.browser", "firefox")
	v.SetDefault("wait.timeout", "20s")
	v.SetDefault("wait.poll_interval", "500ms")

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading configuration from %s: %w", dir, err)
	}

	s := &Settings{
		Dir:            dir,
		BaseURL:        v.GetString("base_url"),
		Username:       v.GetString("credentials.username"),
		Password:       v.GetString("credentials.password"),
		Driver:         DriverKind(v.GetString("driver.kind")),
		DriverEndpoint: v.GetString("driver.endpoint"),
		DriverBrowser:  v.GetString("driver.browser"),
		WaitTimeout:    v.GetDuration("wait.timeout"),
		PollInterval:   v.GetDuration("wait.poll_interval"),
	}

	if s.BaseURL == "" {
		return nil, fmt.Errorf("configuration in %s has no base_url", dir)
	}
	switch s.Driver {
	case DriverPhantomJS, DriverSelenium:
	default:
		return nil, fmt.Errorf("unknown driver.kind %q (expected %q or %q)",
			s.Driver, DriverPhantomJS, DriverSelenium)
	}
	return s, nil
}
