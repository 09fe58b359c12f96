// Package config loads the hostlookup configuration.
//
// Config file locations (priority order):
//  1. $HOSTLOOKUP_CONFIG
//  2. ./hostlookup.yaml
//  3. ~/.config/hostlookup/config.yaml
//  4. /etc/hostlookup/config.yaml
//
// CMDB connection settings can be overridden from the environment with
// HOSTLOOKUP_CMDB_URL, HOSTLOOKUP_CMDB_USER and HOSTLOOKUP_CMDB_PASS so
// credentials need not live in the file.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Environment overrides
const (
	EnvCMDBURL      = "HOSTLOOKUP_CMDB_URL"
	EnvCMDBUser     = "HOSTLOOKUP_CMDB_USER"
	EnvCMDBPassword = "HOSTLOOKUP_CMDB_PASS"
)

const defaultDatabasePath = "./hostlookup.db"

// Load finds and loads the config file, or returns defaults if none found.
// Environment overrides are applied in both cases.
func Load(fs afero.Fs) (*Config, string, error) {
	path := FindConfigPath(fs)

	if path == "" {
		cfg := DefaultConfig()
		cfg.applyEnv(os.LookupEnv)
		return cfg, "", nil
	}

	return LoadFromPath(fs, path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(fs afero.Fs, path string) (*Config, string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, path, err
	}
	cfg.applyEnv(os.LookupEnv)

	return cfg, path, nil
}

// Parse decodes a config document and fills in defaults
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// Save writes config to the specified path
func (c *Config) Save(fs afero.Fs, path string) error {
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return afero.WriteFile(fs, path, data, 0600)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = Duration(60 * time.Second)
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = Duration(10 * time.Second)
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = defaultDatabasePath
	}

	if c.CMDB.Name == "" {
		c.CMDB.Name = "cmdb"
	}
	if c.CMDB.Timeout == 0 {
		c.CMDB.Timeout = Duration(30 * time.Second)
	}

	if c.Nmap.Name == "" {
		c.Nmap.Name = "nmap"
	}
	if c.Nmap.Ports == "" {
		c.Nmap.Ports = "22,80,443"
	}
	if c.Nmap.Timeout == 0 {
		c.Nmap.Timeout = Duration(10 * time.Minute)
	}

	for i := range c.Files {
		if c.Files[i].Format == "" {
			c.Files[i].Format = "yaml"
		}
	}
}

// applyEnv overlays CMDB connection settings from the environment. Setting
// the URL also enables the source.
func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvCMDBURL); ok && v != "" {
		c.CMDB.URL = v
		c.CMDB.Enabled = true
	}
	if v, ok := lookup(EnvCMDBUser); ok {
		c.CMDB.User = v
	}
	if v, ok := lookup(EnvCMDBPassword); ok {
		c.CMDB.Password = v
	}
}

// Validate reports every problem with the config at once
func (c *Config) Validate() error {
	var result *multierror.Error

	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		result = multierror.Append(result, fmt.Errorf("log.level: %w", err))
	}

	names := make(map[string]bool)
	claim := func(name string) {
		if names[name] {
			result = multierror.Append(result, fmt.Errorf("source name %q used more than once", name))
		}
		names[name] = true
	}

	if c.CMDB.Enabled {
		claim(c.CMDB.Name)
		if c.CMDB.URL == "" {
			result = multierror.Append(result, fmt.Errorf("cmdb.url is required"))
		} else if u, err := url.Parse(c.CMDB.URL); err != nil || u.Scheme == "" || u.Host == "" {
			result = multierror.Append(result, fmt.Errorf("cmdb.url %q is not an absolute URL", c.CMDB.URL))
		}
		if (c.CMDB.User == "") != (c.CMDB.Password == "") {
			result = multierror.Append(result, fmt.Errorf("cmdb.user and cmdb.password must be set together"))
		}
	}

	if c.Nmap.Enabled {
		claim(c.Nmap.Name)
		if len(c.Nmap.Targets) == 0 && !c.Nmap.AllowAnyTarget {
			result = multierror.Append(result, fmt.Errorf("nmap.targets is empty"))
		}
		for i, t := range c.Nmap.Targets {
			if strings.TrimSpace(t.Target) == "" {
				result = multierror.Append(result, fmt.Errorf("nmap.targets[%d].target is required", i))
			}
		}
	}

	for i, f := range c.Files {
		if f.Name == "" {
			result = multierror.Append(result, fmt.Errorf("files[%d].name is required", i))
		} else {
			claim(f.Name)
		}
		if f.Path == "" {
			result = multierror.Append(result, fmt.Errorf("files[%d].path is required", i))
		}
		if f.Format != "yaml" && f.Format != "ansible-inventory" {
			result = multierror.Append(result, fmt.Errorf("files[%d].format %q is not supported", i, f.Format))
		}
	}

	return result.ErrorOrNil()
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	var sources []string
	if c.CMDB.Enabled {
		sources = append(sources, fmt.Sprintf("%s(cmdb %s)", c.CMDB.Name, c.CMDB.URL))
	}
	if c.Nmap.Enabled {
		sources = append(sources, fmt.Sprintf("%s(nmap, %d targets)", c.Nmap.Name, len(c.Nmap.Targets)))
	}
	for _, f := range c.Files {
		sources = append(sources, fmt.Sprintf("%s(file %s)", f.Name, f.Path))
	}

	summary := fmt.Sprintf("Listen: %s, Database: %s\n", c.Server.Addr, c.Database.Path)
	summary += fmt.Sprintf("Sources (%d):", len(sources))
	for _, s := range sources {
		summary += " " + s
	}
	return summary
}
