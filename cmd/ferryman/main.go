package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"ferryman/internal/api"
	"ferryman/internal/config"
	"ferryman/internal/credentials"
	"ferryman/internal/gatekeeper"
	"ferryman/internal/interfaces"
	"ferryman/internal/mount"
	"ferryman/internal/notifications"
	"ferryman/internal/repository"
	"ferryman/internal/runner"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "ferryman",
	Short: "Unattended FTP, SFTP and NFS transfer jobs",
	Long: `Ferryman runs scheduled download and upload jobs against FTP, SFTP
and NFS endpoints, organizes the files it fetches into dated folders and
reports every run.`,
	Version:       api.Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	// Setup logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := rootCmd.Execute(); err != nil {
		slog.Error("command failed", "error", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"config file (default $FERRYMAN_CONFIG, /config/config.yaml or ./config.yaml)")
}

// loadConfig reads the configuration and applies its logging section.
func loadConfig() (*config.Config, error) {
	path := getConfigPath(configPath)
	if path == "" {
		return nil, errors.New("no configuration file found")
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogging(cfg.GetLogging())
	slog.Info("configuration loaded", "config_path", path)
	return cfg, nil
}

func getConfigPath(flag string) string {
	if flag != "" {
		return flag
	}
	if path := os.Getenv("FERRYMAN_CONFIG"); path != "" {
		return path
	}

	// Try common paths
	candidates := []string{
		"/config/config.yaml",
		"./config.yaml",
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

var (
	logMu   sync.Mutex
	logFile *os.File
)

func setupLogging(logConfig config.LoggingConfig) {
	logMu.Lock()
	defer logMu.Unlock()

	var out io.Writer = os.Stdout
	var file *os.File
	if logConfig.File != "" {
		f, err := os.OpenFile(logConfig.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			slog.Warn("failed to open log file, logging to stdout only", "file", logConfig.File, "error", err)
		} else {
			file = f
			out = io.MultiWriter(os.Stdout, f)
		}
	}

	slog.SetDefault(slog.New(newLogHandler(out, logConfig)))

	if logFile != nil {
		logFile.Close()
	}
	logFile = file
}

func newLogHandler(w io.Writer, logConfig config.LoggingConfig) slog.Handler {
	var level slog.Level
	switch logConfig.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}
	if logConfig.Format == "text" {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

// openCredentials returns the credential store, or a locked one that only
// accepts empty passwords when no key is configured.
func openCredentials(cfg *config.Config) (interfaces.CredentialStore, error) {
	store, err := credentials.New(cfg.GetEncryption())
	if errors.Is(err, credentials.ErrNoKey) {
		slog.Warn("no encryption key configured, endpoints with passwords will fail")
		return credentials.Locked{}, nil
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// engine is the set of components a job execution needs.
type engine struct {
	repo       *repository.Repository
	mounts     *mount.Manager
	gatekeeper *gatekeeper.Gatekeeper
	runner     *runner.Runner
}

func newEngine(cfg *config.Config) (*engine, error) {
	repo, err := repository.New(cfg.GetDatabase().Path)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	slog.Info("database initialized", "path", cfg.GetDatabase().Path)

	creds, err := openCredentials(cfg)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to open credential store: %w", err)
	}

	mounts, err := mount.New(cfg.GetMounts(), creds, slog.Default().With("component", "mount"))
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("failed to initialize mount manager: %w", err)
	}

	gk := gatekeeper.New(cfg)
	notifier := notifications.FromConfig(cfg)

	return &engine{
		repo:       repo,
		mounts:     mounts,
		gatekeeper: gk,
		runner:     runner.New(cfg, repo, creds, mounts, gk, notifier),
	}, nil
}
