package cli

import (
	"fmt"
	"strings"

	"github.com/sharkusmanch/ntfy-publisher/internal/domain"
	"github.com/sharkusmanch/ntfy-publisher/internal/notify"
	"github.com/spf13/cobra"
)

type notifyOptions struct {
	topics []string
	level  string
	title  string
	tags   []string
	click  string
}

// NewNotifyCmd creates the notify command.
func NewNotifyCmd() *cobra.Command {
	opts := &notifyOptions{}

	cmd := &cobra.Command{
		Use:   "notify <message>",
		Short: "Send a leveled alert to one or more topics",
		Long: `Send an alert whose priority and icon follow its level:
info is sent at default priority, warning at high and error at max.

Every --topic receives the alert; failures on one topic do not stop the others.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNotify(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.topics, "topic", "t", nil, "topic to notify (repeatable, defaults to the configured topic)")
	f.StringVarP(&opts.level, "level", "l", string(domain.NotificationLevelInfo), "level: info, warning or error")
	f.StringVar(&opts.title, "title", "", "notification title")
	f.StringSliceVar(&opts.tags, "tags", nil, "extra tags")
	f.StringVar(&opts.click, "click", "", "URL opened when the notification is tapped")

	return cmd
}

func runNotify(cmd *cobra.Command, opts *notifyOptions, args []string) error {
	level := domain.NotificationLevel(strings.ToLower(opts.level))
	if !level.IsValid() {
		return fmt.Errorf("unknown level %q", opts.level)
	}

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	topics := opts.topics
	if len(topics) == 0 {
		topics = []string{cfg.Topic}
	}

	httpClient := newHTTPClient(cfg, logger)
	publisher := newPublisher(cfg, httpClient, logger)
	base := cfg.Notification()

	notifiers := make([]domain.Notifier, 0, len(topics))
	for _, topic := range topics {
		notifiers = append(notifiers, notify.NewNtfyNotifier(publisher, base.WithTopic(topic),
			notify.WithHealthChecker(httpClient),
			notify.WithLogger(logger),
		))
	}

	n := domain.NewNotification(opts.title, strings.Join(args, " "), level)
	n.Tags = opts.tags
	n.Click = opts.click

	return notify.NewMultiNotifier(notifiers...).WithMultiLogger(logger).Notify(cmd.Context(), n)
}
