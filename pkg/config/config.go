package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"urlcopier/pkg/errors"
	"urlcopier/pkg/store"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDevToolsURL     = "http://127.0.0.1:9222"
	DefaultListen          = "127.0.0.1:7788"
	DefaultClipboardHelper = "process"
)

// Profile is a named browser setup, e.g. a second browser started with a
// different debugging port and its own template database.
type Profile struct {
	Name    string        `yaml:"name"`
	Browser BrowserConfig `yaml:"browser"`
	Store   StoreConfig   `yaml:"store,omitempty"`
	Default bool          `yaml:"default,omitempty"`
}

// Config holds the complete configuration including profiles
type Config struct {
	Browser       BrowserConfig   `yaml:"browser"`
	Clipboard     ClipboardConfig `yaml:"clipboard"`
	Daemon        DaemonConfig    `yaml:"daemon"`
	Store         StoreConfig     `yaml:"store"`
	LogLevel      string          `yaml:"log_level,omitempty"`
	Profiles      []Profile       `yaml:"profiles,omitempty"`
	ActiveProfile string          `yaml:"active_profile,omitempty"`
}

type BrowserConfig struct {
	DevToolsURL string `yaml:"devtools_url"`
}

type ClipboardConfig struct {
	// Helper is "process" (a helper child process owns the clipboard) or
	// "local" (write from the calling process).
	Helper string `yaml:"helper"`
}

type DaemonConfig struct {
	Listen string `yaml:"listen"`
	// Use routes palette requests through a running daemon.
	Use bool `yaml:"use,omitempty"`
}

type StoreConfig struct {
	Path string `yaml:"path,omitempty"`
}

// Load loads the configuration, optionally with a specific profile
func Load(profileName ...string) (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, errors.NewWithError(errors.ExitCodeConfig, "failed to get config path", err)
	}
	return loadFromPath(configPath, profileName...)
}

// LoadFile reads the config file as written, without environment
// overrides, profiles or defaults. Used when editing the file.
func LoadFile(path string) (*Config, error) {
	cfg := &Config{}
	if err := loadConfigFile(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// GetConfigPath returns the path to the config file
func GetConfigPath() (string, error) {
	if path := os.Getenv("URLCOPIER_CONFIG"); path != "" {
		return path, nil
	}
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "urlcopier", "config.yaml"), nil
}

// Save saves the configuration to file
func Save(cfg *Config) error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}
	return saveToPath(configPath, cfg)
}

func saveToPath(configPath string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to create config directory", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to marshal config", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to write config file", err)
	}

	return nil
}

// GetProfile returns a profile by name
func (c *Config) GetProfile(name string) (*Profile, error) {
	for i := range c.Profiles {
		if c.Profiles[i].Name == name {
			return &c.Profiles[i], nil
		}
	}
	return nil, fmt.Errorf("profile '%s' not found", name)
}

// SetProfile sets the active profile
func (c *Config) SetProfile(name string) error {
	if name == "" {
		c.ActiveProfile = ""
		return nil
	}

	if _, err := c.GetProfile(name); err != nil {
		return err
	}

	c.ActiveProfile = name
	return nil
}

// AddProfile adds a new profile
func (c *Config) AddProfile(profile Profile) error {
	if _, err := c.GetProfile(profile.Name); err == nil {
		return fmt.Errorf("profile '%s' already exists", profile.Name)
	}

	c.Profiles = append(c.Profiles, profile)
	return nil
}

// RemoveProfile removes a profile
func (c *Config) RemoveProfile(name string) error {
	if c.ActiveProfile == name {
		return fmt.Errorf("cannot remove active profile '%s'", name)
	}

	for i, p := range c.Profiles {
		if p.Name == name {
			c.Profiles = append(c.Profiles[:i], c.Profiles[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("profile '%s' not found", name)
}

// IsProfileActive checks if a profile is the active one
func (c *Config) IsProfileActive(name string) bool {
	return c.ActiveProfile == name
}

// ListProfiles returns a list of profile names
func (c *Config) ListProfiles() []string {
	names := make([]string, 0, len(c.Profiles))
	for _, p := range c.Profiles {
		names = append(names, p.Name)
	}
	return names
}

// StorePath returns the configured database path or the default one.
func (c *Config) StorePath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return store.GetDBPath()
}

// settable maps `config set` keys to their fields.
var settable = map[string]func(c *Config) *string{
	"browser.devtools_url": func(c *Config) *string { return &c.Browser.DevToolsURL },
	"clipboard.helper":     func(c *Config) *string { return &c.Clipboard.Helper },
	"daemon.listen":        func(c *Config) *string { return &c.Daemon.Listen },
	"store.path":           func(c *Config) *string { return &c.Store.Path },
	"log_level":            func(c *Config) *string { return &c.LogLevel },
}

const keyDaemonUse = "daemon.use"

// Keys lists the keys accepted by Set and Get.
func Keys() []string {
	keys := make([]string, 0, len(settable)+1)
	for k := range settable {
		keys = append(keys, k)
	}
	keys = append(keys, keyDaemonUse)
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted key.
func (c *Config) Get(key string) (string, error) {
	if key == keyDaemonUse {
		return strconv.FormatBool(c.Daemon.Use), nil
	}
	field, ok := settable[key]
	if !ok {
		return "", errors.ValidationError(fmt.Sprintf("unknown config key %q", key))
	}
	return *field(c), nil
}

// Set assigns a dotted key and validates the result.
func (c *Config) Set(key, value string) error {
	if key == keyDaemonUse {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return errors.ValidationError(fmt.Sprintf("%s expects true or false, got %q", key, value))
		}
		c.Daemon.Use = b
		return nil
	}

	field, ok := settable[key]
	if !ok {
		return errors.ValidationError(fmt.Sprintf("unknown config key %q", key))
	}
	previous := *field(c)
	*field(c) = value
	if err := validateConfig(c); err != nil {
		*field(c) = previous
		return err
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func loadFromPath(configPath string, profileName ...string) (*Config, error) {
	cfg := &Config{}

	if err := loadConfigFile(configPath, cfg); err != nil {
		return nil, err
	}

	applyEnvironmentOverrides(cfg)

	// Apply profile if specified or if there's an active profile
	targetProfile := ""
	if len(profileName) > 0 && profileName[0] != "" {
		targetProfile = profileName[0]
	} else if cfg.ActiveProfile != "" {
		targetProfile = cfg.ActiveProfile
	}

	if targetProfile != "" {
		profile, err := cfg.GetProfile(targetProfile)
		if err != nil {
			return nil, errors.ConfigError(err.Error())
		}
		applyProfileConfig(cfg, profile)
	}

	applyDefaults(cfg)

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyProfileConfig(cfg *Config, profile *Profile) {
	if profile.Browser.DevToolsURL != "" {
		cfg.Browser.DevToolsURL = profile.Browser.DevToolsURL
	}
	if profile.Store.Path != "" {
		cfg.Store.Path = profile.Store.Path
	}
}

// loadConfigFile reads and parses the config file from the given path
func loadConfigFile(path string, cfg *Config) error {
	if _, err := os.Stat(path); err != nil {
		// No file: defaults and environment only.
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to read config file", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.NewWithError(errors.ExitCodeConfig, "failed to parse config file", err)
	}

	return nil
}

// applyEnvironmentOverrides applies environment variable overrides to the config
func applyEnvironmentOverrides(cfg *Config) {
	cfg.Browser.DevToolsURL = getEnv("URLCOPIER_DEVTOOLS_URL", cfg.Browser.DevToolsURL)
	cfg.Clipboard.Helper = getEnv("URLCOPIER_CLIPBOARD_HELPER", cfg.Clipboard.Helper)
	cfg.Daemon.Listen = getEnv("URLCOPIER_LISTEN", cfg.Daemon.Listen)
	cfg.Daemon.Use = getEnvBool("URLCOPIER_USE_DAEMON", cfg.Daemon.Use)
	cfg.Store.Path = getEnv("URLCOPIER_STORE", cfg.Store.Path)
	cfg.LogLevel = getEnv("URLCOPIER_LOG_LEVEL", cfg.LogLevel)

	// Profile can be overridden via environment
	if profileEnv := os.Getenv("URLCOPIER_PROFILE"); profileEnv != "" {
		cfg.ActiveProfile = profileEnv
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Browser.DevToolsURL == "" {
		cfg.Browser.DevToolsURL = DefaultDevToolsURL
	}
	if cfg.Clipboard.Helper == "" {
		cfg.Clipboard.Helper = DefaultClipboardHelper
	}
	if cfg.Daemon.Listen == "" {
		cfg.Daemon.Listen = DefaultListen
	}
}

// validateConfig rejects values the rest of the program cannot use.
func validateConfig(cfg *Config) error {
	if cfg.Browser.DevToolsURL != "" {
		u, err := url.Parse(cfg.Browser.DevToolsURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return errors.ConfigError(fmt.Sprintf("browser devtools_url %q must be an http(s) URL such as %s", cfg.Browser.DevToolsURL, DefaultDevToolsURL))
		}
	}
	switch cfg.Clipboard.Helper {
	case "", "process", "local":
	default:
		return errors.ConfigError(fmt.Sprintf("clipboard helper %q is not supported (use process or local)", cfg.Clipboard.Helper))
	}
	return nil
}
