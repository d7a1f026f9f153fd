// Package config loads the dockhosts settings file.
//
// Config is stored at $XDG_CONFIG_HOME/dockhosts/config.yaml (defaults to
// ~/.config/dockhosts/config.yaml). Every field can be overridden by a
// command-line flag.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"dockhosts/internal/hostsfile"
	"dockhosts/internal/logging"
	"dockhosts/internal/privilege"

	"gopkg.in/yaml.v3"
)

// Markers override the lines delimiting the managed block.
type Markers struct {
	Begin string `yaml:"begin,omitempty"`
	End   string `yaml:"end,omitempty"`
}

// Docker describes how to reach the engine. Empty fields fall back to the
// DOCKER_* environment variables.
type Docker struct {
	Host    string        `yaml:"host,omitempty"`
	TLSCA   string        `yaml:"tls_ca,omitempty"`
	TLSCert string        `yaml:"tls_cert,omitempty"`
	TLSKey  string        `yaml:"tls_key,omitempty"`
	Wait    time.Duration `yaml:"wait,omitempty"` // readiness timeout, 0 disables
}

type Telemetry struct {
	OTLPEndpoint string `yaml:"otlp_endpoint,omitempty"`
}

type Config struct {
	Network   string    `yaml:"network,omitempty"`
	HostsFile string    `yaml:"hosts_file,omitempty"`
	WriteMode string    `yaml:"write_mode,omitempty"`
	Privilege string    `yaml:"privilege,omitempty"`
	Markers   Markers   `yaml:"markers,omitempty"`
	LogLevel  string    `yaml:"log_level,omitempty"`
	LogFormat string    `yaml:"log_format,omitempty"`
	Journal   string    `yaml:"journal,omitempty"` // sqlite path, empty disables
	Docker    Docker    `yaml:"docker,omitempty"`
	Telemetry Telemetry `yaml:"telemetry,omitempty"`
}

// DefaultHostsFile returns the platform hosts file.
func DefaultHostsFile() string {
	if runtime.GOOS == "windows" {
		return `C:\Windows\System32\drivers\etc\hosts`
	}
	return "/etc/hosts"
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	return &Config{
		HostsFile: DefaultHostsFile(),
		WriteMode: hostsfile.WriteAtomic,
		Privilege: privilege.ModeSudo,
		Markers:   Markers{Begin: hostsfile.DefaultBeginMarker, End: hostsfile.DefaultEndMarker},
		LogLevel:  logging.LevelInfo,
		LogFormat: logging.FormatText,
	}
}

// Path returns the config file location. It respects XDG_CONFIG_HOME,
// falling back to ~/.config/dockhosts/config.yaml.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".config", "dockhosts", "config.yaml")
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "dockhosts", "config.yaml")
}

// Load reads the config at path, or at Path() when path is empty. Values
// missing from the file keep their defaults. A missing file at the default
// location is not an error; a missing explicit path is.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = Path()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate normalizes enumerated fields and rejects unusable settings.
func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.HostsFile) == "" {
		errs = append(errs, errors.New("hosts_file is required"))
	}
	if mode, err := hostsfile.ParseWriteMode(c.WriteMode); err != nil {
		errs = append(errs, err)
	} else {
		c.WriteMode = mode
	}
	if mode, err := privilege.ParseMode(c.Privilege); err != nil {
		errs = append(errs, err)
	} else {
		c.Privilege = mode
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", logging.FormatText, logging.FormatJSON:
	default:
		errs = append(errs, fmt.Errorf("invalid log format %q", c.LogFormat))
	}
	switch c.Markers.Begin {
	case "":
		errs = append(errs, errors.New("markers.begin is required"))
	case c.Markers.End:
		errs = append(errs, errors.New("markers.begin and markers.end must differ"))
	}
	if c.Markers.End == "" {
		errs = append(errs, errors.New("markers.end is required"))
	}
	if strings.Contains(c.Markers.Begin+c.Markers.End, "\n") {
		errs = append(errs, errors.New("markers must be single lines"))
	}
	if c.Docker.Wait < 0 {
		errs = append(errs, errors.New("docker.wait must not be negative"))
	}
	if (c.Docker.TLSCert == "") != (c.Docker.TLSKey == "") {
		errs = append(errs, errors.New("docker.tls_cert and docker.tls_key must be set together"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// HostsMarkers returns the configured block markers.
func (c *Config) HostsMarkers() hostsfile.Markers {
	return hostsfile.Markers{Begin: c.Markers.Begin, End: c.Markers.End}
}
