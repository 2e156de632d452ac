package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/sharkusmanch/ntfy-publisher/internal/config"
	"github.com/sharkusmanch/ntfy-publisher/internal/http"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and test connectivity",
		Long: `Validate the configuration file and test connectivity to external services.

This checks:
- Config file syntax and values
- ntfy server health
- Pushgateway connectivity (if metrics are enabled)`,
		RunE: runValidate,
	}

	return cmd
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration:")
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(out, "  ✗ Config file: %v\n", err)
		return err
	}
	fmt.Fprintf(out, "  ✓ Config valid\n")

	configPath, _ := config.DefaultConfigPath()
	if cfgFile != "" {
		configPath = cfgFile
	}
	fmt.Fprintf(out, "  Config file: %s\n", configPath)
	fmt.Fprintf(out, "  Server: %s\n", cfg.Server)
	if cfg.Topic != "" {
		fmt.Fprintf(out, "  Default topic: %s\n", cfg.Topic)
	} else {
		fmt.Fprintf(out, "  Default topic: none\n")
	}
	fmt.Fprintf(out, "  Auth: %s\n", cfg.Auth.Mode())
	if cfg.Metrics.Enabled {
		fmt.Fprintf(out, "  Metrics: enabled\n")
		fmt.Fprintf(out, "  Pushgateway URL: %s\n", cfg.Metrics.PushgatewayURL)
	} else {
		fmt.Fprintf(out, "  Metrics: disabled\n")
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Checks:")
	logger, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	httpClient := http.NewClient(
		http.WithRetryConfig(http.RetryConfig{
			MaxAttempts:  1, // No retries for validation
			InitialDelay: time.Second,
			MaxDelay:     time.Second,
		}),
		http.WithLogger(logger),
	)

	var failed bool

	if err := httpClient.CheckHealth(ctx, cfg.Server); err != nil {
		fmt.Fprintf(out, "  ✗ ntfy server: %v\n", err)
		failed = true
	} else {
		fmt.Fprintf(out, "  ✓ ntfy server healthy\n")
	}

	if cfg.Metrics.Enabled {
		if err := newMetricsPusher(cfg, httpClient, logger).Validate(ctx); err != nil {
			fmt.Fprintf(out, "  ✗ Pushgateway: %v\n", err)
			failed = true
		} else {
			fmt.Fprintf(out, "  ✓ Pushgateway reachable\n")
		}
	}

	fmt.Fprintln(out)
	if failed {
		return fmt.Errorf("validation failed")
	}
	fmt.Fprintln(out, "Validation complete.")
	return nil
}
