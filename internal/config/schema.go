package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	CMDB     CMDBConfig     `yaml:"cmdb"`
	Nmap     NmapConfig     `yaml:"nmap"`
	Files    []FileConfig   `yaml:"files,omitempty"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	RequestTimeout  Duration `yaml:"request_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development,omitempty"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path"`
}

// CMDBConfig configures the CMDB deployment source
type CMDBConfig struct {
	Enabled     bool              `yaml:"enabled"`
	Name        string            `yaml:"name,omitempty"`
	Description string            `yaml:"description,omitempty"`
	URL         string            `yaml:"url"`
	User        string            `yaml:"user,omitempty"`
	Password    string            `yaml:"password,omitempty"`
	ConsoleURL  string            `yaml:"console_url,omitempty"` // cloud console base for action URLs
	Timeout     Duration          `yaml:"timeout"`
	Routes      map[string]string `yaml:"routes,omitempty"` // resolved target -> endpoint path
}

// NmapConfig configures the network scan source
type NmapConfig struct {
	Enabled           bool         `yaml:"enabled"`
	Name              string       `yaml:"name,omitempty"`
	Description       string       `yaml:"description,omitempty"`
	Targets           []ScanTarget `yaml:"targets,omitempty"`
	Ports             string       `yaml:"ports,omitempty"`
	Timeout           Duration     `yaml:"timeout"`
	SkipHostDiscovery bool         `yaml:"skip_host_discovery,omitempty"`
	AllowAnyTarget    bool         `yaml:"allow_any_target,omitempty"`
}

// ScanTarget is one scan range offered by the nmap source
type ScanTarget struct {
	Target string `yaml:"target"`
	Label  string `yaml:"label,omitempty"`
}

// FileConfig configures one inventory file source
type FileConfig struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Path        string `yaml:"path"`
	Format      string `yaml:"format,omitempty"` // yaml (default) or ansible-inventory
	Watch       bool   `yaml:"watch,omitempty"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
