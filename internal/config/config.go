// Package config loads and persists shaftdb settings.
//
// Settings resolve in precedence order: command-line flags (applied by the
// CLI layer), SHAFTDB_* environment variables, <data-dir>/config.yaml, and
// built-in defaults. The config file is optional; a missing file means
// defaults apply.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file name inside the data directory.
const FileName = "config.yaml"

// DefaultListenAddr is the address `shaftdb serve` binds when none is
// configured.
const DefaultListenAddr = ":8080"

// envPrefix prefixes every environment override (SHAFTDB_BACKEND and so on).
const envPrefix = "SHAFTDB"

// Backend selects the catalog storage implementation.
type Backend string

const (
	// BackendMemory keeps the catalog in memory and persists it to a JSONL
	// snapshot between runs.
	BackendMemory Backend = "memory"
	// BackendSQLite writes every mutation through to a SQLite database.
	BackendSQLite Backend = "sqlite"
)

// validBackends is the set of allowed backend values.
var validBackends = map[Backend]bool{
	BackendMemory: true,
	BackendSQLite: true,
}

// ParseBackend normalizes and validates a backend name.
func ParseBackend(value string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(value)))
	if !validBackends[b] {
		return "", fmt.Errorf("unknown backend %q (valid: memory, sqlite)", value)
	}
	return b, nil
}

// Config holds the persistent shaftdb settings. Empty path fields are
// resolved relative to DataDir by the accessor methods, so a config file
// only needs the fields it overrides.
//
// DataDir itself is never read from the file: the file lives inside the
// data directory, so its location is decided by flag, environment, or
// default before the file is opened.
type Config struct {
	DataDir    string  `yaml:"-"`
	Backend    Backend `yaml:"backend"`
	VocabDir   string  `yaml:"vocab-dir,omitempty"`
	Snapshot   string  `yaml:"snapshot,omitempty"`
	DB         string  `yaml:"db,omitempty"`
	ListenAddr string  `yaml:"listen-addr"`
	JSON       bool    `yaml:"json"`
	NoColor    bool    `yaml:"no-color"`
}

// DefaultDataDir returns the data directory used when no --data-dir flag or
// SHAFTDB_DATA_DIR variable is present: ~/.shaftdb, or .shaftdb under the
// working directory when the home directory cannot be resolved.
func DefaultDataDir() string {
	if dir := os.Getenv(envPrefix + "_DATA_DIR"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".shaftdb"
	}
	return filepath.Join(home, ".shaftdb")
}

// Default returns the built-in settings rooted at dataDir. An empty dataDir
// selects DefaultDataDir.
func Default(dataDir string) *Config {
	if dataDir == "" {
		dataDir = DefaultDataDir()
	}
	return &Config{
		DataDir:    dataDir,
		Backend:    BackendMemory,
		ListenAddr: DefaultListenAddr,
	}
}

// Load reads <dataDir>/config.yaml and applies SHAFTDB_* environment
// overrides on top. A missing file is not an error.
func Load(dataDir string) (*Config, error) {
	cfg := Default(dataDir)

	data, err := os.ReadFile(cfg.Path()) // #nosec G304 -- path derives from the data-dir setting
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// No config file yet; defaults stand.
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", cfg.Path(), err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", cfg.Path(), err)
		}
	}

	cfg.applyEnv(newEnvViper())

	backend, err := ParseBackend(string(cfg.Backend))
	if err != nil {
		return nil, err
	}
	cfg.Backend = backend

	return cfg, nil
}

// Save writes the config to <data-dir>/config.yaml, creating the data
// directory if needed.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.DataDir, 0750); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(c.Path(), data, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", FileName, err)
	}
	return nil
}

// Path returns the config file location.
func (c *Config) Path() string {
	return filepath.Join(c.DataDir, FileName)
}

// SnapshotPath returns the JSONL snapshot location used by the memory
// backend.
func (c *Config) SnapshotPath() string {
	if c.Snapshot != "" {
		return c.Snapshot
	}
	return filepath.Join(c.DataDir, "catalog.jsonl")
}

// DBPath returns the SQLite database location used by the sqlite backend.
func (c *Config) DBPath() string {
	if c.DB != "" {
		return c.DB
	}
	return filepath.Join(c.DataDir, "catalog.db")
}

// VocabPath returns the vocabulary pack directory.
func (c *Config) VocabPath() string {
	if c.VocabDir != "" {
		return c.VocabDir
	}
	return filepath.Join(c.DataDir, "vocab")
}

// newEnvViper binds SHAFTDB_* environment variables. Keys use the yaml
// spelling; the replacer maps listen-addr to SHAFTDB_LISTEN_ADDR and so on.
func newEnvViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// applyEnv overlays any bound environment variables onto c. Only variables
// that are actually set override file or default values.
func (c *Config) applyEnv(v *viper.Viper) {
	if v.IsSet("backend") {
		c.Backend = Backend(v.GetString("backend"))
	}
	if v.IsSet("vocab-dir") {
		c.VocabDir = v.GetString("vocab-dir")
	}
	if v.IsSet("snapshot") {
		c.Snapshot = v.GetString("snapshot")
	}
	if v.IsSet("db") {
		c.DB = v.GetString("db")
	}
	if v.IsSet("listen-addr") {
		c.ListenAddr = v.GetString("listen-addr")
	}
	if v.IsSet("json") {
		c.JSON = v.GetBool("json")
	}
	if v.IsSet("no-color") {
		c.NoColor = v.GetBool("no-color")
	}
}
