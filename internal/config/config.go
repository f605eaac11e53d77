package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ferryman/internal/models"

	"github.com/fsnotify/fsnotify"
	"github.com/goccy/go-yaml"
)

type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Database      DatabaseConfig      `yaml:"database"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Transfers     TransfersConfig     `yaml:"transfers"`
	Mounts        MountsConfig        `yaml:"mounts"`
	Gatekeeper    GatekeeperConfig    `yaml:"gatekeeper"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Encryption    EncryptionConfig    `yaml:"encryption"`
	Logging       LoggingConfig       `yaml:"logging"`

	mu       sync.RWMutex
	watchers []chan<- struct{}
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	Host            string        `yaml:"host"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type SchedulerConfig struct {
	// Timezone used for cron expressions and rolling ranges. Empty means local.
	Timezone        string        `yaml:"timezone"`
	LogRetention    time.Duration `yaml:"log_retention"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// Location resolves Timezone.
func (s SchedulerConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

type TransfersConfig struct {
	DefaultLocalPath string        `yaml:"default_local_path"`
	ScratchDir       string        `yaml:"scratch_dir"`
	ConnectTimeout   time.Duration `yaml:"connect_timeout"`
	ReconnectEvery   int           `yaml:"reconnect_every"`
	Retries          int           `yaml:"retries"`
	KnownHosts       string        `yaml:"known_hosts"`
}

type MountsConfig struct {
	// Command is prepended to mount and umount, e.g. "sudo -n".
	Command        string                `yaml:"command"`
	Timeout        time.Duration         `yaml:"timeout"`
	StatusCacheTTL time.Duration         `yaml:"status_cache_ttl"`
	TempDir        string                `yaml:"temp_dir"`
	Drives         []models.NetworkDrive `yaml:"drives"`
}

type GatekeeperConfig struct {
	Enabled         bool   `yaml:"enabled"`
	MaxUsagePercent int    `yaml:"max_usage_percent"`
	MinFreeBytes    uint64 `yaml:"min_free_bytes"`
}

type NotificationsConfig struct {
	Pushover PushoverConfig `yaml:"pushover"`
	Email    EmailConfig    `yaml:"email"`
}

type PushoverConfig struct {
	Token         string        `yaml:"token"`
	User          string        `yaml:"user"`
	Enabled       bool          `yaml:"enabled"`
	Priority      int           `yaml:"priority"`
	RetryInterval time.Duration `yaml:"retry_interval"`
	ExpireTime    time.Duration `yaml:"expire_time"`
}

type EmailConfig struct {
	Enabled  bool     `yaml:"enabled"`
	Host     string   `yaml:"host"`
	Port     int      `yaml:"port"`
	Username string   `yaml:"username"`
	Password string   `yaml:"password"`
	From     string   `yaml:"from"`
	To       []string `yaml:"to"`
	// TLS is one of "starttls" (default), "tls" or "none".
	TLS string `yaml:"tls"`
}

type EncryptionConfig struct {
	// Key is a base64 encoded 32 byte key. When empty the key is derived
	// from Password and Salt.
	Key      string `yaml:"key"`
	Password string `yaml:"password"`
	Salt     string `yaml:"salt"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

const (
	DefaultPort            = 8080
	DefaultShutdownTimeout = 30 * time.Second
	DefaultLogRetention    = 30 * 24 * time.Hour
	DefaultCleanupInterval = time.Hour
	DefaultConnectTimeout  = 30 * time.Second
	DefaultReconnectEvery  = 50
	DefaultRetries         = 1
	DefaultMountTimeout    = 60 * time.Second
	DefaultStatusCacheTTL  = 30 * time.Second
	DefaultMaxUsagePercent = 95
)

var (
	globalConfig *Config
	configOnce   sync.Once
)

// Load loads configuration from file with environment variable expansion
func Load(configPath string) (*Config, error) {
	var err error
	configOnce.Do(func() {
		globalConfig, err = loadConfig(configPath)
		if err == nil && globalConfig != nil {
			go globalConfig.watchConfig(configPath)
		}
	})
	return globalConfig, err
}

// Get returns the global configuration instance
func Get() *Config {
	if globalConfig == nil {
		panic("configuration not loaded - call Load() first")
	}
	return globalConfig
}

func loadConfig(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	content := os.ExpandEnv(string(data))

	// Retries may legitimately be 0, so its default is seeded before parsing.
	var config Config
	config.Transfers.Retries = DefaultRetries
	if err := yaml.Unmarshal([]byte(content), &config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.applyDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if err := config.ensureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	return &config, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/ferryman.db"
	}
	if c.Scheduler.LogRetention == 0 {
		c.Scheduler.LogRetention = DefaultLogRetention
	}
	if c.Scheduler.CleanupInterval == 0 {
		c.Scheduler.CleanupInterval = DefaultCleanupInterval
	}
	if c.Transfers.ScratchDir == "" {
		c.Transfers.ScratchDir = filepath.Join(os.TempDir(), "ferryman")
	}
	if c.Transfers.ConnectTimeout == 0 {
		c.Transfers.ConnectTimeout = DefaultConnectTimeout
	}
	if c.Transfers.ReconnectEvery == 0 {
		c.Transfers.ReconnectEvery = DefaultReconnectEvery
	}
	if c.Mounts.Timeout == 0 {
		c.Mounts.Timeout = DefaultMountTimeout
	}
	if c.Mounts.StatusCacheTTL == 0 {
		c.Mounts.StatusCacheTTL = DefaultStatusCacheTTL
	}
	if c.Mounts.TempDir == "" {
		c.Mounts.TempDir = filepath.Join(os.TempDir(), "ferryman-mounts")
	}
	if c.Gatekeeper.MaxUsagePercent == 0 {
		c.Gatekeeper.MaxUsagePercent = DefaultMaxUsagePercent
	}
	if c.Notifications.Email.TLS == "" {
		c.Notifications.Email.TLS = "starttls"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "json"
	}
}

func unset(v string) bool {
	return v == "" || strings.HasPrefix(v, "${")
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if _, err := c.Scheduler.Location(); err != nil {
		return fmt.Errorf("invalid scheduler timezone %q: %w", c.Scheduler.Timezone, err)
	}

	if c.Transfers.Retries < 0 {
		return fmt.Errorf("transfers.retries cannot be negative")
	}

	if c.Gatekeeper.MaxUsagePercent < 0 || c.Gatekeeper.MaxUsagePercent > 100 {
		return fmt.Errorf("gatekeeper.max_usage_percent must be between 0 and 100")
	}

	names := make(map[string]bool)
	for i := range c.Mounts.Drives {
		drive := &c.Mounts.Drives[i]
		if err := drive.Validate(); err != nil {
			return fmt.Errorf("mounts.drives[%d]: %w", i, err)
		}
		if names[drive.Name] {
			return fmt.Errorf("mounts.drives[%d]: duplicate drive name %q", i, drive.Name)
		}
		names[drive.Name] = true
	}

	if c.Notifications.Pushover.Enabled {
		if unset(c.Notifications.Pushover.Token) {
			return fmt.Errorf("pushover token is required when notifications are enabled")
		}
		if unset(c.Notifications.Pushover.User) {
			return fmt.Errorf("pushover user is required when notifications are enabled")
		}
	}

	if email := c.Notifications.Email; email.Enabled {
		if unset(email.Host) || unset(email.From) || len(email.To) == 0 {
			return fmt.Errorf("email host, from and to are required when email notifications are enabled")
		}
		switch email.TLS {
		case "starttls", "tls", "none":
		default:
			return fmt.Errorf("invalid email tls mode: %s", email.TLS)
		}
	}

	if c.Encryption.Key == "" && c.Encryption.Password != "" && c.Encryption.Salt == "" {
		return fmt.Errorf("encryption salt is required with an encryption password")
	}

	return nil
}

func (c *Config) ensureDirectories() error {
	dirs := []string{
		filepath.Dir(c.Database.Path),
		c.Transfers.ScratchDir,
	}

	if c.Logging.File != "" {
		dirs = append(dirs, filepath.Dir(c.Logging.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	return nil
}

// WatchForChanges registers a channel to receive notifications when config changes
func (c *Config) WatchForChanges() <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan struct{}, 1)
	c.watchers = append(c.watchers, ch)
	return ch
}

func (c *Config) watchConfig(configPath string) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		slog.Error("failed to create config watcher", "error", err)
		return
	}
	defer watcher.Close()

	configDir := filepath.Dir(configPath)
	if err := watcher.Add(configDir); err != nil {
		slog.Error("failed to watch config directory", "error", err, "path", configDir)
		return
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) == filepath.Base(configPath) &&
				(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				slog.Info("config file changed, reloading", "file", configPath)

				// editors write in several steps
				time.Sleep(100 * time.Millisecond)

				if err := c.reload(configPath); err != nil {
					slog.Error("failed to reload config", "error", err)
				} else {
					c.notifyWatchers()
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			slog.Error("config watcher error", "error", err)
		}
	}
}

// reload swaps in the sections that are safe to change at runtime. Server
// and database settings need a restart.
func (c *Config) reload(configPath string) error {
	newConfig, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.Scheduler = newConfig.Scheduler
	c.Transfers = newConfig.Transfers
	c.Mounts = newConfig.Mounts
	c.Gatekeeper = newConfig.Gatekeeper
	c.Notifications = newConfig.Notifications
	c.Logging = newConfig.Logging

	slog.Info("configuration reloaded successfully")
	return nil
}

func (c *Config) notifyWatchers() {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, watcher := range c.watchers {
		select {
		case watcher <- struct{}{}:
		default:
		}
	}
}

// GetServer returns a copy of the server configuration
func (c *Config) GetServer() ServerConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Server
}

func (c *Config) GetDatabase() DatabaseConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Database
}

func (c *Config) GetScheduler() SchedulerConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Scheduler
}

func (c *Config) GetTransfers() TransfersConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Transfers
}

// GetMounts returns a copy of the mount configuration, drives included.
func (c *Config) GetMounts() MountsConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	mounts := c.Mounts
	mounts.Drives = append([]models.NetworkDrive(nil), c.Mounts.Drives...)
	return mounts
}

func (c *Config) GetGatekeeper() GatekeeperConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Gatekeeper
}

// GetNotifications returns a copy of the notifications configuration
func (c *Config) GetNotifications() NotificationsConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Notifications
}

func (c *Config) GetEncryption() EncryptionConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Encryption
}

// GetLogging returns a copy of the logging configuration
func (c *Config) GetLogging() LoggingConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.Logging
}
