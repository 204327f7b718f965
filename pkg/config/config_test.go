package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"urlcopier/pkg/errors"

	"gopkg.in/yaml.v3"
)

// contains checks if a string contains a substring
func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}

// clearEnv unsets every variable the loader reads for the duration of t.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"URLCOPIER_DEVTOOLS_URL",
		"URLCOPIER_CLIPBOARD_HELPER",
		"URLCOPIER_LISTEN",
		"URLCOPIER_USE_DAEMON",
		"URLCOPIER_STORE",
		"URLCOPIER_LOG_LEVEL",
		"URLCOPIER_PROFILE",
		"URLCOPIER_CONFIG",
	} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config file: %v", err)
	}
	return configPath
}

func TestLoad_Success(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `browser:
  devtools_url: http://127.0.0.1:9333
clipboard:
  helper: local
daemon:
  listen: 127.0.0.1:9000
  use: true
store:
  path: /tmp/urlcopier-test.db
log_level: debug
`)

	cfg, err := loadFromPath(configPath)
	if err != nil {
		t.Fatalf("loadFromPath() returned error: %v", err)
	}

	if cfg.Browser.DevToolsURL != "http://127.0.0.1:9333" {
		t.Errorf("Expected devtools_url 'http://127.0.0.1:9333', got '%s'", cfg.Browser.DevToolsURL)
	}
	if cfg.Clipboard.Helper != "local" {
		t.Errorf("Expected helper 'local', got '%s'", cfg.Clipboard.Helper)
	}
	if cfg.Daemon.Listen != "127.0.0.1:9000" || !cfg.Daemon.Use {
		t.Errorf("Unexpected daemon config: %+v", cfg.Daemon)
	}
	if cfg.StorePath() != "/tmp/urlcopier-test.db" {
		t.Errorf("Expected store path '/tmp/urlcopier-test.db', got '%s'", cfg.StorePath())
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log_level 'debug', got '%s'", cfg.LogLevel)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := loadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("loadFromPath() returned error: %v", err)
	}

	if cfg.Browser.DevToolsURL != DefaultDevToolsURL {
		t.Errorf("Expected default devtools_url, got '%s'", cfg.Browser.DevToolsURL)
	}
	if cfg.Clipboard.Helper != DefaultClipboardHelper {
		t.Errorf("Expected default helper, got '%s'", cfg.Clipboard.Helper)
	}
	if cfg.Daemon.Listen != DefaultListen {
		t.Errorf("Expected default listen, got '%s'", cfg.Daemon.Listen)
	}
	if !contains(cfg.StorePath(), filepath.Join("urlcopier", "templates.db")) {
		t.Errorf("Unexpected default store path '%s'", cfg.StorePath())
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `browser:
  devtools_url: http://127.0.0.1:9222
  - invalid yaml
`)

	_, err := loadFromPath(configPath)
	if err == nil {
		t.Error("loadFromPath() expected error for invalid YAML, got nil")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{
			name:    "devtools url without scheme",
			content: "browser:\n  devtools_url: localhost:9222\n",
			wantMsg: "devtools_url",
		},
		{
			name:    "unknown clipboard helper",
			content: "clipboard:\n  helper: carrier-pigeon\n",
			wantMsg: "clipboard helper",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := loadFromPath(writeConfig(t, tt.content))
			if err == nil {
				t.Fatal("loadFromPath() expected error, got nil")
			}
			if !contains(err.Error(), tt.wantMsg) {
				t.Errorf("Unexpected error message: %v", err)
			}
			if !errors.IsExitCode(err, errors.ExitCodeConfig) {
				t.Errorf("Expected config exit code, got %v", err)
			}
		})
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `browser:
  devtools_url: http://127.0.0.1:9333
`)
	t.Setenv("URLCOPIER_DEVTOOLS_URL", "http://127.0.0.1:9444")
	t.Setenv("URLCOPIER_CLIPBOARD_HELPER", "local")
	t.Setenv("URLCOPIER_USE_DAEMON", "true")
	t.Setenv("URLCOPIER_STORE", "/tmp/env.db")

	cfg, err := loadFromPath(configPath)
	if err != nil {
		t.Fatalf("loadFromPath() returned error: %v", err)
	}

	if cfg.Browser.DevToolsURL != "http://127.0.0.1:9444" {
		t.Errorf("Expected env devtools_url, got '%s'", cfg.Browser.DevToolsURL)
	}
	if cfg.Clipboard.Helper != "local" {
		t.Errorf("Expected env helper, got '%s'", cfg.Clipboard.Helper)
	}
	if !cfg.Daemon.Use {
		t.Error("Expected daemon.use from environment")
	}
	if cfg.StorePath() != "/tmp/env.db" {
		t.Errorf("Expected env store path, got '%s'", cfg.StorePath())
	}
}

func TestLoad_Profiles(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, `browser:
  devtools_url: http://127.0.0.1:9222
profiles:
  - name: work
    browser:
      devtools_url: http://127.0.0.1:9333
    store:
      path: /tmp/work.db
active_profile: work
`)

	cfg, err := loadFromPath(configPath)
	if err != nil {
		t.Fatalf("loadFromPath() returned error: %v", err)
	}
	if cfg.Browser.DevToolsURL != "http://127.0.0.1:9333" {
		t.Errorf("Expected profile devtools_url, got '%s'", cfg.Browser.DevToolsURL)
	}
	if cfg.StorePath() != "/tmp/work.db" {
		t.Errorf("Expected profile store path, got '%s'", cfg.StorePath())
	}

	if _, err := loadFromPath(configPath, "home"); err == nil {
		t.Error("loadFromPath() expected error for unknown profile")
	}
}

func TestProfileManagement(t *testing.T) {
	cfg := &Config{}

	if err := cfg.AddProfile(Profile{Name: "work"}); err != nil {
		t.Fatalf("AddProfile() returned error: %v", err)
	}
	if err := cfg.AddProfile(Profile{Name: "work"}); err == nil {
		t.Error("AddProfile() expected error for duplicate profile")
	}
	if err := cfg.SetProfile("work"); err != nil {
		t.Fatalf("SetProfile() returned error: %v", err)
	}
	if err := cfg.SetProfile("nope"); err == nil {
		t.Error("SetProfile() expected error for unknown profile")
	}
	if err := cfg.RemoveProfile("work"); err == nil {
		t.Error("RemoveProfile() expected error for active profile")
	}
	if err := cfg.SetProfile(""); err != nil {
		t.Fatalf("SetProfile(\"\") returned error: %v", err)
	}
	if err := cfg.RemoveProfile("work"); err != nil {
		t.Errorf("RemoveProfile() returned error: %v", err)
	}
	if len(cfg.ListProfiles()) != 0 {
		t.Errorf("Expected no profiles, got %v", cfg.ListProfiles())
	}
}

func TestSetAndGet(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)

	if err := cfg.Set("clipboard.helper", "local"); err != nil {
		t.Fatalf("Set() returned error: %v", err)
	}
	if v, _ := cfg.Get("clipboard.helper"); v != "local" {
		t.Errorf("Get(clipboard.helper) = %q, want local", v)
	}

	if err := cfg.Set("clipboard.helper", "bogus"); err == nil {
		t.Error("Set() expected error for invalid helper")
	}
	if cfg.Clipboard.Helper != "local" {
		t.Errorf("invalid Set() must not change the value, got %q", cfg.Clipboard.Helper)
	}

	if err := cfg.Set("daemon.use", "yes"); err == nil {
		t.Error("Set(daemon.use) expected error for non-boolean")
	}
	if err := cfg.Set("daemon.use", "true"); err != nil {
		t.Fatalf("Set(daemon.use) returned error: %v", err)
	}
	if v, _ := cfg.Get("daemon.use"); v != "true" {
		t.Errorf("Get(daemon.use) = %q", v)
	}

	if _, err := cfg.Get("browser.port"); err == nil {
		t.Error("Get() expected error for unknown key")
	}
	if len(Keys()) != 6 {
		t.Errorf("Keys() = %v", Keys())
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	configPath := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := &Config{
		Browser:   BrowserConfig{DevToolsURL: "http://127.0.0.1:9555"},
		Clipboard: ClipboardConfig{Helper: "local"},
	}
	if err := saveToPath(configPath, cfg); err != nil {
		t.Fatalf("saveToPath() returned error: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("Failed to read saved config: %v", err)
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved config is not valid YAML: %v", err)
	}

	loaded, err := loadFromPath(configPath)
	if err != nil {
		t.Fatalf("loadFromPath() returned error: %v", err)
	}
	if loaded.Browser.DevToolsURL != "http://127.0.0.1:9555" || loaded.Clipboard.Helper != "local" {
		t.Errorf("Unexpected round trip result: %+v", loaded)
	}
}

func TestGetConfigPath_EnvOverride(t *testing.T) {
	t.Setenv("URLCOPIER_CONFIG", "/etc/urlcopier.yaml")
	path, err := GetConfigPath()
	if err != nil {
		t.Fatalf("GetConfigPath() returned error: %v", err)
	}
	if path != "/etc/urlcopier.yaml" {
		t.Errorf("GetConfigPath() = %q", path)
	}
}

func TestLoadFile_IgnoresEnvironment(t *testing.T) {
	clearEnv(t)
	configPath := writeConfig(t, "clipboard:\n  helper: local\n")
	t.Setenv("URLCOPIER_DEVTOOLS_URL", "http://127.0.0.1:9444")

	cfg, err := LoadFile(configPath)
	if err != nil {
		t.Fatalf("LoadFile() returned error: %v", err)
	}
	if cfg.Browser.DevToolsURL != "" {
		t.Errorf("LoadFile() applied environment override: %q", cfg.Browser.DevToolsURL)
	}
	if cfg.Clipboard.Helper != "local" {
		t.Errorf("Expected helper 'local', got '%s'", cfg.Clipboard.Helper)
	}
}
