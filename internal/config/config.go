// Package config contains the configuration of the bouncer command line tool.
//
// The configuration is a JSON file that may contain comments and
// trailing commas. Missing fields take their default value.
package config

import (
	"encoding/json"
	"net/url"
	"os"

	"github.com/ooni/probe-bouncer/internal/model"
	"github.com/pkg/errors"
	"github.com/tailscale/hujson"
	"golang.org/x/net/idna"
)

// ReadConfig reads the configuration from the path.
func ReadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := ParseConfig(b)
	if err != nil {
		return nil, errors.Wrap(err, "parsing config")
	}
	return c, nil
}

// ParseConfig returns config from human-readable JSON bytes.
func ParseConfig(b []byte) (*Config, error) {
	b, err := hujson.Standardize(b)
	if err != nil {
		return nil, errors.Wrap(err, "standardizing json")
	}

	var c Config
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrap(err, "parsing json")
	}

	c.Default()

	if err := c.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating")
	}
	return &c, nil
}

// Config is the configuration of the bouncer command line tool.
type Config struct {
	// Comment is an OPTIONAL field for leaving notes in the file.
	Comment string `json:"_"`

	// BaseURL is the OPTIONAL bouncer base URL.
	BaseURL string `json:"base_url"`

	// CABundlePath is the OPTIONAL CA bundle to use.
	CABundlePath string `json:"ca_bundle_path"`

	// Name is the OPTIONAL nettest name.
	Name string `json:"name"`

	// Version is the OPTIONAL nettest version.
	Version string `json:"version"`

	// Helpers contains the OPTIONAL helpers to ask for. A nil
	// value means using the default helpers.
	Helpers []string `json:"helpers"`

	// Timeout is the OPTIONAL timeout in seconds.
	Timeout int64 `json:"timeout"`
}

// Default returns the default configuration.
func Default() *Config {
	c := &Config{}
	c.Default()
	return c
}

// Default fills the empty fields with their default values.
func (c *Config) Default() {
	if c.BaseURL == "" {
		c.BaseURL = model.BouncerDefaultBaseURL
	}
	if c.Name == "" {
		c.Name = model.BouncerDefaultNettestName
	}
	if c.Version == "" {
		c.Version = model.BouncerDefaultNettestVersion
	}
	if c.Helpers == nil {
		c.Helpers = model.DefaultBouncerHelpers()
	}
	if c.Timeout == 0 {
		c.Timeout = model.BouncerDefaultTimeout
	}
}

// Validate the config file.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return errors.Errorf("timeout must be positive, got %d", c.Timeout)
	}
	URL, err := url.Parse(c.BaseURL)
	if err != nil {
		return errors.Wrap(err, "base_url")
	}
	if URL.Scheme != "http" && URL.Scheme != "https" {
		return errors.Errorf("base_url: unsupported scheme %q", URL.Scheme)
	}
	if URL.Host == "" {
		return errors.New("base_url: missing host")
	}
	if _, err := idna.Lookup.ToASCII(URL.Hostname()); err != nil {
		return errors.Wrap(err, "base_url: invalid host")
	}
	return nil
}
