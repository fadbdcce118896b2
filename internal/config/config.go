package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/formbind/internal/errors"
)

const (
	// DefaultDebounce is the quiet period before the reasons label updates.
	DefaultDebounce = 100 * time.Millisecond

	// DefaultRequiredSuffix is the domain every submitted address must carry.
	DefaultRequiredSuffix = "@gmail.com"

	// DefaultAddr is the default binding server address.
	DefaultAddr = ":8080"

	// DefaultBackendTimeout bounds a single username lookup.
	DefaultBackendTimeout = 5 * time.Second
)

// FileNames are the configuration files looked up by Load, in order.
var FileNames = []string{"formbind.json", "formbind.yaml", "formbind.yml"}

// Backend kinds.
const (
	BackendStub  = "stub"
	BackendS3    = "s3"
	BackendMySQL = "mysql"
)

// Config represents the complete formbind configuration.
type Config struct {
	// Debounce is the reasons label debounce window.
	Debounce Duration `json:"debounce,omitempty" yaml:"debounce,omitempty"`

	// RequiredSuffix is stripped from the address to obtain the username.
	RequiredSuffix string `json:"requiredSuffix,omitempty" yaml:"requiredSuffix,omitempty"`

	// StrictValidation enables the per-field validators and the combined
	// submit gate.
	StrictValidation bool `json:"strictValidation,omitempty" yaml:"strictValidation,omitempty"`

	Log     LogConfig     `json:"log,omitempty" yaml:"log,omitempty"`
	Server  ServerConfig  `json:"server,omitempty" yaml:"server,omitempty"`
	Backend BackendConfig `json:"backend,omitempty" yaml:"backend,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" yaml:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

// ServerConfig contains binding server configuration.
type ServerConfig struct {
	Addr string `json:"addr,omitempty" yaml:"addr,omitempty"`

	// AllowedOrigins restricts WebSocket upgrades. Empty allows same-origin
	// requests only.
	AllowedOrigins []string `json:"allowedOrigins,omitempty" yaml:"allowedOrigins,omitempty"`
}

// BackendConfig selects and configures the username service.
type BackendConfig struct {
	Kind    string      `json:"kind,omitempty" yaml:"kind,omitempty"`
	Timeout Duration    `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	S3      S3Config    `json:"s3,omitempty" yaml:"s3,omitempty"`
	MySQL   MySQLConfig `json:"mysql,omitempty" yaml:"mysql,omitempty"`
}

// S3Config configures the S3 username directory.
type S3Config struct {
	Bucket       string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	Prefix       string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	Region       string `json:"region,omitempty" yaml:"region,omitempty"`
	Endpoint     string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`
	UsePathStyle bool   `json:"usePathStyle,omitempty" yaml:"usePathStyle,omitempty"`
}

// MySQLConfig configures the MySQL username directory.
type MySQLConfig struct {
	DSN         string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	AutoMigrate bool   `json:"autoMigrate,omitempty" yaml:"autoMigrate,omitempty"`
}

// New creates a configuration with all defaults applied.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads the first configuration file found in dir. When none exists
// the defaults are returned.
func Load(dir string) (*Config, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return LoadFile(path)
		}
	}
	return New(), nil
}

// LoadFile reads a JSON or YAML configuration file, chosen by extension.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("C001").
			WithDetail("Cannot read " + path).
			Wrap(err)
	}

	cfg := &Config{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("C001").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.New("C001").
				WithDetail("Failed to parse " + filepath.Base(path) + ": " + err.Error())
		}
	default:
		return nil, errors.New("C002").WithDetail("Cannot read " + path)
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return cfg, nil
}

// Path returns the path the config was loaded from, or "" for defaults.
func (c *Config) Path() string {
	return c.configPath
}

// ApplyEnv overrides fields from FORMBIND_* variables. getenv is usually
// os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("FORMBIND_BACKEND"); v != "" {
		c.Backend.Kind = v
	}
	if v := getenv("FORMBIND_MYSQL_DSN"); v != "" {
		c.Backend.MySQL.DSN = v
	}
	if v := getenv("FORMBIND_S3_BUCKET"); v != "" {
		c.Backend.S3.Bucket = v
	}
	if v := getenv("FORMBIND_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.Debounce.Duration == 0 {
		c.Debounce.Duration = DefaultDebounce
	}
	if c.RequiredSuffix == "" {
		c.RequiredSuffix = DefaultRequiredSuffix
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Backend.Kind == "" {
		c.Backend.Kind = BackendStub
	}
	if c.Backend.Timeout.Duration == 0 {
		c.Backend.Timeout.Duration = DefaultBackendTimeout
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Debounce.Duration < 0 {
		return errors.New("C001").WithDetail("debounce must not be negative")
	}
	if !strings.HasPrefix(c.RequiredSuffix, "@") {
		return errors.New("C001").WithDetail(fmt.Sprintf("requiredSuffix %q must start with @", c.RequiredSuffix))
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return errors.New("C001").WithDetail(err.Error())
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		return errors.New("C001").WithDetail(fmt.Sprintf("log format %q is not text or json", c.Log.Format))
	}

	switch c.Backend.Kind {
	case BackendStub:
	case BackendS3:
		if c.Backend.S3.Bucket == "" {
			return errors.New("C001").WithDetail("backend.s3.bucket is required for the s3 backend")
		}
	case BackendMySQL:
		if c.Backend.MySQL.DSN == "" {
			return errors.New("C001").WithDetail("backend.mysql.dsn is required for the mysql backend")
		}
	default:
		return errors.New("C001").WithDetail(fmt.Sprintf("unknown backend kind %q", c.Backend.Kind))
	}
	return nil
}

// Duration is a time.Duration that reads "100ms"-style strings from JSON
// and YAML.
type Duration struct {
	time.Duration
}

// UnmarshalJSON accepts a duration string or a number of nanoseconds.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		return d.parse(s)
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("duration must be a string like \"100ms\": %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

// MarshalJSON writes the duration as a string.
func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalYAML accepts a duration string.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.parse(s)
}

// MarshalYAML writes the duration as a string.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

func (d *Duration) parse(s string) error {
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}
