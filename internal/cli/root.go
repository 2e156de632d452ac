// Package cli provides the command-line interface.
package cli

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/sharkusmanch/ntfy-publisher/internal/config"
	"github.com/sharkusmanch/ntfy-publisher/pkg/version"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	cfgFile  string
	logLevel string
	server   string
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ntfy-publisher",
		Short: "Publish notifications to ntfy servers",
		Long: `ntfy-publisher sends push notifications to an ntfy server.

Defaults for the server, topic, credentials and message attributes come from
the config file and NTFY_PUBLISHER_* environment variables; flags override both.`,
		Version: version.Get().String(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&server, "server", "s", "", "ntfy server URL")

	// Add subcommands
	rootCmd.AddCommand(NewPublishCmd())
	rootCmd.AddCommand(NewNotifyCmd())
	rootCmd.AddCommand(NewValidateCmd())
	rootCmd.AddCommand(NewTopicCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command. An interrupt cancels in-flight requests.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// initConfig sets up logging to stderr until the config is loaded.
func initConfig() error {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: parseLevel(logLevel),
	})
	slog.SetDefault(slog.New(handler))

	return nil
}

// setupLogging configures logging based on the loaded config.
func setupLogging(cfg *config.Config) (*slog.Logger, error) {
	var output io.Writer = os.Stderr
	if cfg.Log.Output != "" {
		dir := filepath.Dir(cfg.Log.Output)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, err
		}

		output = &lumberjack.Logger{
			Filename:   cfg.Log.Output,
			MaxSize:    cfg.Log.MaxSizeMB,
			MaxBackups: 3,
			MaxAge:     28, // days
			Compress:   true,
		}
	}

	// --log-level was already applied to cfg by loadConfig.
	handler := slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return logger, nil
}

// loadConfig loads the application configuration.
func loadConfig() (*config.Config, error) {
	loader := config.NewLoader()

	if cfgFile != "" {
		loader = loader.WithConfigPath(cfgFile)
	}

	// Apply CLI flag overrides
	if logLevel != "" {
		loader.Set("log.level", logLevel)
	}
	if server != "" {
		loader.Set("server", server)
	}

	return loader.Load()
}
