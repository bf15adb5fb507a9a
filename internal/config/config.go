// Package config provides YAML configuration file loading and validation.
// It handles environment variable expansion, default value application,
// and named endpoint lookup.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// AdHocEndpointName labels endpoints given directly as a URL.
const AdHocEndpointName = "adhoc"

// Config represents the root configuration structure loaded from YAML.
type Config struct {
	Endpoints []Endpoint `yaml:"endpoints"`
	Defaults  Defaults   `yaml:"defaults"`
	Logging   Logging    `yaml:"logging"`
	Server    Server     `yaml:"server"`
}

// Endpoint is a named JSON-RPC endpoint.
type Endpoint struct {
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`               // supports ${VAR} env expansion
	Timeout time.Duration `yaml:"timeout,omitempty"` // 0 inherits Defaults.Timeout
}

// Defaults apply to every analysis unless a flag overrides them.
type Defaults struct {
	Endpoint string `yaml:"endpoint"`

	// Timeout bounds each HTTP request locally. 0 leaves requests unbounded
	// and relies on the node.
	Timeout time.Duration `yaml:"timeout" default:"0s"`

	// TraceTimeout is forwarded to the remote tracer, not enforced here.
	TraceTimeout     string `yaml:"trace_timeout" default:"60s"`
	Language         string `yaml:"language" default:"en"`
	MaxDepth         int    `yaml:"max_depth" default:"1026"` // frames, root included
	MaxDisplayLength int    `yaml:"max_display_length" default:"66"`
}

type Logging struct {
	Level string `yaml:"level" default:"info"`
}

type Server struct {
	Listen  string `yaml:"listen" default:":8080"`
	Metrics bool   `yaml:"metrics" default:"true"`
}

// New returns a Config holding only defaults, for running without a file.
func New() *Config {
	cfg := &Config{}
	if err := defaults.Set(cfg); err != nil {
		// Only reachable with a malformed default tag.
		panic(err)
	}
	return cfg
}

// Validate checks values and fills per-endpoint timeouts.
func (c *Config) Validate() error {
	if c.Defaults.Timeout < 0 {
		return fmt.Errorf("defaults.timeout must be >= 0")
	}
	if _, err := time.ParseDuration(c.Defaults.TraceTimeout); err != nil {
		return fmt.Errorf("defaults.trace_timeout: %w", err)
	}
	if c.Defaults.MaxDepth <= 0 {
		return fmt.Errorf("defaults.max_depth must be > 0")
	}
	if c.Defaults.MaxDisplayLength <= 0 {
		return fmt.Errorf("defaults.max_display_length must be > 0")
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}

	seen := make(map[string]bool, len(c.Endpoints))
	for i := range c.Endpoints {
		ep := &c.Endpoints[i]
		if ep.Name == "" {
			return fmt.Errorf("endpoint %d: name is required", i)
		}
		if seen[ep.Name] {
			return fmt.Errorf("endpoint %s: duplicate name", ep.Name)
		}
		seen[ep.Name] = true

		if ep.Timeout == 0 {
			ep.Timeout = c.Defaults.Timeout
		}
		if err := ValidateURL(ep.URL); err != nil {
			return fmt.Errorf("endpoint %s: %w", ep.Name, err)
		}
	}

	if c.Defaults.Endpoint != "" && !seen[c.Defaults.Endpoint] {
		return fmt.Errorf("defaults.endpoint %q is not a configured endpoint", c.Defaults.Endpoint)
	}

	return nil
}

// ValidateURL accepts absolute http and https URLs.
func ValidateURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("url is required")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid url (missing scheme or host)")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid url scheme %q (expected http or https)", u.Scheme)
	}
	return nil
}

// Endpoint returns the endpoint named name, or the default endpoint when name
// is empty.
func (c *Config) Endpoint(name string) (Endpoint, error) {
	if name == "" {
		name = c.Defaults.Endpoint
	}
	if name == "" {
		return Endpoint{}, fmt.Errorf("no endpoint selected and defaults.endpoint is not set")
	}

	for _, ep := range c.Endpoints {
		if ep.Name == name {
			return ep, nil
		}
	}

	names := make([]string, 0, len(c.Endpoints))
	for _, ep := range c.Endpoints {
		names = append(names, ep.Name)
	}
	return Endpoint{}, fmt.Errorf("unknown endpoint %q (configured: %s)", name, strings.Join(names, ", "))
}

// AdHoc binds a URL given on the command line or in a web form. The URL is
// not validated here; empty input is reported by the analyzer.
func (c *Config) AdHoc(rawURL string) Endpoint {
	return Endpoint{
		Name:    AdHocEndpointName,
		URL:     strings.TrimSpace(rawURL),
		Timeout: c.Defaults.Timeout,
	}
}

// Load reads a YAML configuration file, expanding ${VAR} references and
// applying defaults before validation.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := New()

	type plain Config
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), (*plain)(cfg)); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
