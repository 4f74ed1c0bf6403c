// Package config loads configuration for the inputtap server.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/frudas24/inputtap/internal/permission"
)

const (
	defaultListenAddr    = "127.0.0.1:8788"
	defaultDataDir       = "./data"
	defaultConfigName    = "inputtap.yaml"
	defaultPasswordMode  = true
	defaultQueueSize     = 1024
	defaultStreamBuffer  = 256
	defaultLogLevel      = "info"
	defaultLogFormat     = "console"
	defaultWebRTCEnabled = true
)

// Config holds runtime configuration values.
type Config struct {
	ListenAddr         string              `yaml:"listen_addr"`
	DataDir            string              `yaml:"data_dir"`
	UIPassword         string              `yaml:"ui_password"`
	PasswordMode       bool                `yaml:"password_mode"`
	QueueSize          int                 `yaml:"queue_size"`
	StreamBuffer       int                 `yaml:"stream_buffer"`
	LogLevel           string              `yaml:"log_level"`
	LogFormat          string              `yaml:"log_format"`
	PermissionOverride permission.Override `yaml:"permission_override"`
	WebRTCEnabled      bool                `yaml:"webrtc_enabled"`
	ConfigPath         string              `yaml:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		ListenAddr:    defaultListenAddr,
		DataDir:       defaultDataDir,
		PasswordMode:  defaultPasswordMode,
		QueueSize:     defaultQueueSize,
		StreamBuffer:  defaultStreamBuffer,
		LogLevel:      defaultLogLevel,
		LogFormat:     defaultLogFormat,
		WebRTCEnabled: defaultWebRTCEnabled,
		ConfigPath:    filepath.Join(defaultDataDir, defaultConfigName),
	}
}

// Load reads ./data/.env, then the YAML file at CONFIG_PATH, then
// environment variables, each layer overriding the previous one.
func Load() (Config, error) {
	cfg := Defaults()

	if err := loadEnvFile(filepath.Join(cfg.DataDir, ".env")); err != nil {
		return Config{}, err
	}

	cfg.ConfigPath = envString("CONFIG_PATH", cfg.ConfigPath)
	if err := loadYAMLFile(cfg.ConfigPath, &cfg); err != nil {
		return Config{}, err
	}

	cfg.ListenAddr = envString("LISTEN_ADDR", cfg.ListenAddr)
	cfg.DataDir = envString("DATA_DIR", cfg.DataDir)
	cfg.UIPassword = envString("UI_PASSWORD", cfg.UIPassword)
	cfg.PasswordMode = envBool("PASSWORD_MODE", cfg.PasswordMode)
	cfg.LogLevel = envString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envString("LOG_FORMAT", cfg.LogFormat)
	cfg.WebRTCEnabled = envBool("WEBRTC_ENABLED", cfg.WebRTCEnabled)

	override, err := permission.ParseOverride(envString("PERMISSION_OVERRIDE", string(cfg.PermissionOverride)))
	if err != nil {
		return Config{}, fmt.Errorf("PERMISSION_OVERRIDE: %w", err)
	}
	cfg.PermissionOverride = override

	queueSize, err := envInt("QUEUE_SIZE", cfg.QueueSize)
	if err != nil {
		return Config{}, err
	}
	cfg.QueueSize = queueSize

	streamBuffer, err := envInt("STREAM_BUFFER", cfg.StreamBuffer)
	if err != nil {
		return Config{}, err
	}
	cfg.StreamBuffer = streamBuffer

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks value ranges and required keys.
func (c Config) Validate() error {
	if c.QueueSize <= 0 {
		return errors.New("QUEUE_SIZE must be > 0")
	}
	if c.StreamBuffer <= 0 {
		return errors.New("STREAM_BUFFER must be > 0")
	}
	if strings.TrimSpace(c.ListenAddr) == "" {
		return errors.New("LISTEN_ADDR is required")
	}
	if c.PasswordMode && strings.TrimSpace(c.UIPassword) == "" {
		return errors.New("UI_PASSWORD is required")
	}
	return nil
}

// loadYAMLFile overlays the YAML file at path onto cfg. A missing file is not an error.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// envString returns an env override when present, otherwise a default.
func envString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// envInt returns an int env override when present, otherwise a default.
func envInt(key string, def int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return value, nil
}

// envBool returns a bool env override when present, otherwise a default.
func envBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	switch strings.ToLower(raw) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

// loadEnvFile loads KEY=VALUE pairs from a .env file.
func loadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := parseEnvLine(line)
		if !ok {
			continue
		}
		if _, exists := os.LookupEnv(key); !exists {
			if err := os.Setenv(key, value); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseEnvLine parses a single .env line into key/value.
func parseEnvLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	key, value, ok := strings.Cut(line, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	return key, strings.Trim(strings.TrimSpace(value), `"'`), true
}
