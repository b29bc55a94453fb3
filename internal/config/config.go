// Package config provides configuration management for the commit relay
// application. It loads a YAML file selected on the command line, applies
// defaults, and validates the result so the application starts safely.
//
// Ambient process settings (log level, log file) come from environment
// variables and are handled in main; the file schema below carries
// everything the relay itself needs.
//
// Configuration file schema:
//
//	secret: hunter2              # shared webhook secret (required)
//	http:
//	  host: ""                   # listen address (default: all interfaces)
//	  port: 8080                 # listen port (required)
//	chat:
//	  nick: commit-relay         # bot nickname (required)
//	  server: irc.libera.chat    # server host (required)
//	  port: 6697                 # default: 6667, or 6697 when tls is set
//	  tls: true                  # connect over TLS (default: false)
//	  password: ""               # optional server password
//	  sasl_login: ""             # optional SASL PLAIN credentials
//	  sasl_password: ""
//	  channels:                  # at least one, joined in order
//	    - "#dev"
//	shortener:
//	  domain: is.gd              # link shortener host (default: is.gd)
//	  timeout: 5s                # per-call timeout (default: 5s)
//	filters:                     # optional per-channel repository allow lists
//	  "#dev": [demo, website]
//
// A channel with no filters entry receives notifications for every
// repository. A channel with an entry receives only the repositories
// listed; an empty list silences the channel entirely.
//
// Example usage:
//
//	// Load configuration from a file
//	cfg, err := config.Load("config.yaml")
//	if err != nil {
//		log.Fatalf("Failed to load configuration: %v", err)
//	}
//
//	// Validate configuration
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for the commit relay application.
// It is loaded with Load() and should be validated with Validate() before
// use. After startup it is read-only; a configuration reload constructs a
// fresh Config rather than mutating the running one.
type Config struct {
	// Secret is the shared secret webhook payloads are signed with.
	Secret string `yaml:"secret"`

	// HTTP configures the webhook listener.
	HTTP HTTPConfig `yaml:"http"`

	// Chat configures the IRC connection.
	Chat ChatConfig `yaml:"chat"`

	// Shortener configures the link shortening service.
	Shortener ShortenerConfig `yaml:"shortener"`

	// Filters maps a channel name to the repositories allowed there.
	// Channels without an entry receive everything.
	Filters map[string][]string `yaml:"filters"`
}

// HTTPConfig holds the webhook listener settings.
type HTTPConfig struct {
	Host string `yaml:"host"` // Listen address, empty for all interfaces
	Port int    `yaml:"port"` // Listen port (required)
}

// ChatConfig holds the IRC connection settings.
type ChatConfig struct {
	Nick         string   `yaml:"nick"`          // Bot nickname (required)
	Server       string   `yaml:"server"`        // Server host (required)
	Port         int      `yaml:"port"`          // Server port (default 6667, 6697 with TLS)
	TLS          bool     `yaml:"tls"`           // Connect over TLS
	Password     string   `yaml:"password"`      // Optional server password
	SASLLogin    string   `yaml:"sasl_login"`    // Optional SASL PLAIN account
	SASLPassword string   `yaml:"sasl_password"` // Optional SASL PLAIN password
	Channels     []string `yaml:"channels"`      // Channels to join, in order
}

// ShortenerConfig holds the link shortening service settings.
type ShortenerConfig struct {
	Domain  string        `yaml:"domain"`  // Service host (default is.gd)
	Timeout time.Duration `yaml:"timeout"` // Per-call timeout (default 5s)
}

// Load reads and parses the configuration file at path and applies default
// values for optional fields.
//
// This function does not validate the configuration - call Validate() on
// the returned Config to ensure all required values are properly set.
//
// Returns:
//   - *Config: The parsed configuration with defaults applied
//   - error: A descriptive error if the file cannot be read or parsed
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults fills in default values for optional fields that were not
// set in the configuration file.
func (c *Config) applyDefaults() {
	if c.Chat.Port == 0 {
		if c.Chat.TLS {
			c.Chat.Port = 6697
		} else {
			c.Chat.Port = 6667
		}
	}

	if c.Shortener.Domain == "" {
		c.Shortener.Domain = "is.gd"
	}

	if c.Shortener.Timeout == 0 {
		c.Shortener.Timeout = 5 * time.Second
	}
}

// Validate performs validation on the configuration to ensure all required
// fields are present and all values are valid.
//
// This method checks:
//   - Required fields (secret, http.port, chat.nick, chat.server, chat.channels)
//   - Field format validation (ports, channel names, timeouts)
//   - Cross-field dependencies (SASL credentials must come in pairs)
//
// The application should call this method after loading configuration and
// before starting to ensure safe operation. Filter entries for channels
// that are not in the channel list are inert and do not fail validation.
//
// Returns:
//   - error: A descriptive error if validation fails, nil if configuration is valid
func (c *Config) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("secret is required: unsigned webhooks are always rejected")
	}

	if c.HTTP.Port < 1 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be a valid port number between 1 and 65535")
	}

	if c.Chat.Nick == "" {
		return fmt.Errorf("chat.nick is required")
	}

	if c.Chat.Server == "" {
		return fmt.Errorf("chat.server is required")
	}

	if c.Chat.Port < 1 || c.Chat.Port > 65535 {
		return fmt.Errorf("chat.port must be a valid port number between 1 and 65535")
	}

	if len(c.Chat.Channels) == 0 {
		return fmt.Errorf("chat.channels must list at least one channel")
	}

	for _, channel := range c.Chat.Channels {
		if !strings.HasPrefix(channel, "#") && !strings.HasPrefix(channel, "&") {
			return fmt.Errorf("chat.channels entry %q must start with '#' or '&'", channel)
		}
	}

	if (c.Chat.SASLLogin == "") != (c.Chat.SASLPassword == "") {
		return fmt.Errorf("chat.sasl_login and chat.sasl_password must be set together")
	}

	if c.Shortener.Timeout <= 0 {
		return fmt.Errorf("shortener.timeout must be greater than zero")
	}

	return nil
}

// Addr returns the listen address in host:port form.
func (h *HTTPConfig) Addr() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}

// Addr returns the server address in host:port form.
func (c *ChatConfig) Addr() string {
	return net.JoinHostPort(c.Server, strconv.Itoa(c.Port))
}
