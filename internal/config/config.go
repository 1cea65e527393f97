package config

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/ini.v1"
)

// DefaultAPIURL is the Gemini generateContent endpoint used when no override
// is configured.
const DefaultAPIURL = "https://generativelanguage.googleapis.com/v1beta/models/gemini-2.0-flash:generateContent"

// DefaultLogFile is created in the current working directory.
const DefaultLogFile = "mcp-server.log"

// Environment variable names. The credential is required for tool
// invocations; the URL override is optional.
const (
	EnvAPIKey = "GEMINI_API_KEY"
	EnvAPIURL = "GEMINI_API_URL"
)

// Config holds all configurable values for the server. It is constructed
// once at startup and passed into constructors; nothing reads the
// environment after that.
type Config struct {
	// APIKey is the Gemini credential. May be empty at startup: the review
	// client reports the missing credential per invocation so the server can
	// still start and answer list_tools.
	APIKey string
	// APIURL is the generateContent endpoint.
	APIURL string
	// LogFile is the path of the server log file.
	LogFile string
	// ConfigFile is an optional INI file providing the same keys as the
	// environment. Empty means no file is consulted.
	ConfigFile string
	// RequestTimeoutSec bounds the single upstream HTTP attempt.
	RequestTimeoutSec int
}

// ParseFlags parses the command-line flags and returns a Config populated
// with flag values and defaults. File and environment values are layered on
// by Load.
func ParseFlags() *Config {
	cfg := &Config{}

	flag.StringVar(&cfg.ConfigFile, "config", "", "Path to an optional INI config file")
	flag.StringVar(&cfg.LogFile, "log-file", DefaultLogFile, "Path to the server log file")
	flag.IntVar(&cfg.RequestTimeoutSec, "timeout", 30, "Upstream request timeout in seconds")

	flag.Parse()
	cfg.APIURL = DefaultAPIURL
	return cfg
}

// Load layers the config file (if any) and then the process environment on
// top of the flag values. Environment wins over the file.
func (c *Config) Load() error {
	if err := c.loadFile(); err != nil {
		return err
	}
	c.applyEnvironment()
	return nil
}

// loadFile reads the [default] section of the INI file named by ConfigFile.
func (c *Config) loadFile() error {
	if c.ConfigFile == "" {
		return nil
	}
	file, err := ini.Load(c.ConfigFile)
	if err != nil {
		return fmt.Errorf("could not read config file %s: %w", c.ConfigFile, err)
	}
	section := file.Section("default")
	if v := strings.TrimSpace(section.Key(EnvAPIKey).String()); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(section.Key(EnvAPIURL).String()); v != "" {
		c.APIURL = v
	}
	return nil
}

// applyEnvironment overrides file values with process environment values.
func (c *Config) applyEnvironment() {
	if v := strings.TrimSpace(os.Getenv(EnvAPIKey)); v != "" {
		c.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAPIURL)); v != "" {
		c.APIURL = v
	}
}

// Validate checks if the configuration values are valid. The credential is
// deliberately not required here; see Config.APIKey.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API URL is required")
	}
	parsed, err := url.Parse(c.APIURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("API URL is not a valid absolute URL: %s", c.APIURL)
	}
	if c.LogFile == "" {
		return fmt.Errorf("log file path is required")
	}
	if c.RequestTimeoutSec < 5 || c.RequestTimeoutSec > 300 {
		return fmt.Errorf("request timeout must be between 5 and 300 seconds")
	}
	return nil
}
