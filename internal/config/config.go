package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all sqlschema configuration.
type Config struct {
	Output      OutputConfig      `yaml:"output"`
	Logging     LoggingConfig     `yaml:"logging"`
	Audit       AuditConfig       `yaml:"audit"`
	Dump        DumpConfig        `yaml:"dump"`
	Connections []SavedConnection `yaml:"connections"`
}

// OutputConfig controls how introspection results are printed.
type OutputConfig struct {
	Format string `yaml:"format"` // "table", "json" or "yaml"
	Color  bool   `yaml:"color"`
	Theme  string `yaml:"theme,omitempty"`
}

// LoggingConfig holds log level and the optional Seq endpoint.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	SeqURL string `yaml:"seq_url,omitempty"`
}

// AuditConfig holds settings for the run audit log.
type AuditConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path,omitempty"`
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// DumpConfig holds settings for the dump command.
type DumpConfig struct {
	Concurrency int `yaml:"concurrency"`
}

// SavedConnection holds parameters for a saved database connection.
type SavedConnection struct {
	Name     string `yaml:"name"`
	Adapter  string `yaml:"adapter"`
	Driver   string `yaml:"driver,omitempty"`
	DSN      string `yaml:"dsn,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
	File     string `yaml:"file,omitempty"`
}

// Formats lists the accepted output formats.
var Formats = []string{"table", "json", "yaml"}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Format: "table",
			Color:  true,
			Theme:  "default",
		},
		Logging: LoggingConfig{
			Level: "warn",
		},
		Audit: AuditConfig{
			MaxSizeMB: 10,
		},
		Dump: DumpConfig{
			Concurrency: 4,
		},
	}
}

// ConfigDir returns the sqlschema configuration directory path,
// typically ~/.config/sqlschema/.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(base, "sqlschema"), nil
}

// DefaultPath returns ConfigDir()/config.yaml.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads a Config from the YAML file at path. If the file does not exist,
// it returns DefaultConfig without error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadDefault loads configuration from DefaultPath.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Validate checks enumerated and numeric settings.
func (c *Config) Validate() error {
	if !ValidFormat(c.Output.Format) {
		return fmt.Errorf("config: unknown output format %q (want one of %s)",
			c.Output.Format, strings.Join(Formats, ", "))
	}
	if c.Dump.Concurrency < 1 {
		return fmt.Errorf("config: dump.concurrency must be at least 1, got %d", c.Dump.Concurrency)
	}
	return nil
}

// ValidFormat reports whether f is one of Formats.
func ValidFormat(f string) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Save writes the Config to the YAML file at path, creating any necessary
// parent directories.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Connection returns the saved connection called name.
func (c *Config) Connection(name string) (SavedConnection, bool) {
	for _, sc := range c.Connections {
		if sc.Name == name {
			return sc, true
		}
	}
	return SavedConnection{}, false
}

// AuditPath returns the configured audit log path, or
// ConfigDir()/audit.jsonl when none is set.
func (c *Config) AuditPath() (string, error) {
	if c.Audit.Path != "" {
		return c.Audit.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audit.jsonl"), nil
}

func isFileAdapter(name string) bool {
	return strings.ToLower(name) == "sqlite"
}

// BuildDSN constructs a connection string from the individual fields of a
// SavedConnection. If DSN is already set, it is returned as-is. For
// sqlite it returns the File field. For network adapters it builds
// "user:password@host:port/database".
func (sc *SavedConnection) BuildDSN() string {
	if sc.DSN != "" {
		return sc.DSN
	}

	if isFileAdapter(sc.Adapter) {
		return sc.File
	}

	var b strings.Builder

	if sc.User != "" {
		b.WriteString(sc.User)
		if sc.Password != "" {
			b.WriteByte(':')
			b.WriteString(sc.Password)
		}
		b.WriteByte('@')
	}

	host := sc.Host
	if host == "" {
		host = "localhost"
	}
	b.WriteString(host)

	if sc.Port > 0 {
		fmt.Fprintf(&b, ":%d", sc.Port)
	}

	if sc.Database != "" {
		b.WriteByte('/')
		b.WriteString(sc.Database)
	}

	return b.String()
}

// DisplayString returns a human-readable representation of the connection,
// formatted as "adapter://host:port/database" for network adapters or
// "adapter://file" for sqlite. It never includes credentials.
func (sc *SavedConnection) DisplayString() string {
	if isFileAdapter(sc.Adapter) {
		file := sc.File
		if file == "" {
			file = sc.DSN
		}
		return fmt.Sprintf("%s://%s", sc.Adapter, file)
	}

	host := sc.Host
	if host == "" {
		host = "localhost"
	}

	var location string
	if sc.Port > 0 {
		location = fmt.Sprintf("%s:%d", host, sc.Port)
	} else {
		location = host
	}

	db := sc.Database
	if db != "" {
		return fmt.Sprintf("%s://%s/%s", sc.Adapter, location, db)
	}
	return fmt.Sprintf("%s://%s", sc.Adapter, location)
}
