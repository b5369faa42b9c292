package main

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"time"

	"github.com/fwojciec/refbook"
	"github.com/fwojciec/refbook/book"
	refhttp "github.com/fwojciec/refbook/http"
	"github.com/fwojciec/refbook/mirror"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverFS     = "fs"
	DriverSQLite = "sqlite"
)

// Config is the refbook.yaml configuration file.
type Config struct {
	Content   string          `yaml:"content"`
	BaseURL   string          `yaml:"base_url"`
	Store     StoreConfig     `yaml:"store"`
	Fetch     FetchConfig     `yaml:"fetch"`
	Normalize NormalizeConfig `yaml:"normalize"`
	Output    OutputConfig    `yaml:"output"`
}

// StoreConfig selects the document store.
type StoreConfig struct {
	Driver string `yaml:"driver"`
	// Path is a directory for the fs driver and a database file for sqlite.
	Path string `yaml:"path"`
}

// FetchConfig controls how reference pages are fetched.
type FetchConfig struct {
	Concurrency int           `yaml:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"`
	// Rate is the request rate per host per second. Zero disables limiting.
	Rate      float64 `yaml:"rate"`
	Browser   bool    `yaml:"browser"`
	UserAgent string  `yaml:"user_agent"`
}

// NormalizeConfig overrides the normalizer selectors. Empty lists keep the
// built-in cppreference selectors.
type NormalizeConfig struct {
	Furniture []string `yaml:"furniture"`
	Highlight []string `yaml:"highlight"`
}

// OutputConfig controls the assembled document.
type OutputConfig struct {
	Title string `yaml:"title"`
}

// DefaultConfig returns the configuration used for fields the file leaves out.
func DefaultConfig() *Config {
	return &Config{
		Content: "content",
		BaseURL: "https://en.cppreference.com/w/",
		Store:   StoreConfig{Driver: DriverFS},
		Fetch: FetchConfig{
			Concurrency: mirror.DefaultConcurrency,
			Timeout:     refhttp.DefaultFetchTimeout,
			Rate:        1,
			UserAgent:   refhttp.DefaultUserAgent,
		},
		Output: OutputConfig{Title: book.DefaultTitle},
	}
}

// LoadConfig reads the configuration file at path on top of the defaults.
// A missing file yields the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	} else if err != nil {
		return nil, refbook.Errorf(refbook.EINVALID, "cannot read config %s: %v", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, refbook.Errorf(refbook.EINVALID, "cannot parse config %s: %v", path, err)
	}
	return cfg, nil
}

// Override applies values given on the command line or in the environment.
// Empty values leave the file settings in place.
func (c *Config) Override(content, storePath string) {
	if content != "" {
		c.Content = content
	}
	if storePath != "" {
		c.Store.Path = storePath
	}
}

// StorePath returns the configured store path or the driver's default.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if c.Store.Driver == DriverSQLite {
		return "refbook.db"
	}
	return "refbook-pages"
}

// Validate checks every setting and reports all invalid ones as EINVALID.
func (c *Config) Validate() error {
	err := validation.Errors{
		"store.driver": validation.Validate(c.Store.Driver,
			validation.Required,
			validation.In(DriverFS, DriverSQLite).Error("unknown store driver (want fs or sqlite)"),
		),
		"base_url": validation.Validate(c.BaseURL,
			validation.Required,
			validation.By(httpURL),
		),
		"content": validation.Validate(c.Content, validation.Required),
		"fetch.concurrency": validation.Validate(c.Fetch.Concurrency,
			validation.Required.Error("must be at least 1"),
			validation.Min(1).Error("must be at least 1"),
		),
		"fetch.rate": validation.Validate(c.Fetch.Rate,
			validation.Min(0.0).Error("must not be negative"),
		),
		"fetch.timeout": validation.Validate(c.Fetch.Timeout,
			validation.Required.Error("must be positive"),
			validation.Min(time.Nanosecond).Error("must be positive"),
		),
	}.Filter()
	if err != nil {
		return refbook.Errorf(refbook.EINVALID, "invalid config: %v", err)
	}
	return nil
}

func httpURL(value any) error {
	u, err := url.Parse(value.(string))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("validation_is_http_url", "must be an absolute http(s) URL")
	}
	return nil
}
