package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/sharkusmanch/ntfy-publisher/internal/config"
	"github.com/sharkusmanch/ntfy-publisher/internal/draft"
	"github.com/sharkusmanch/ntfy-publisher/pkg/ntfy"
	"github.com/spf13/cobra"
)

type publishOptions struct {
	topic      string
	title      string
	priority   string
	tags       []string
	markdown   bool
	click      string
	icon       string
	attach     string
	filename   string
	delay      string
	email      string
	call       string
	noCache    bool
	noFirebase bool
	file       string
	token      string
	user       string
}

// NewPublishCmd creates the publish command.
func NewPublishCmd() *cobra.Command {
	opts := &publishOptions{}

	cmd := &cobra.Command{
		Use:     "publish [message]",
		Aliases: []string{"pub", "send"},
		Short:   "Publish a notification",
		Long: `Publish a notification and print the message id assigned by the server.

The message is taken from the arguments; "-" reads it from stdin. Attributes
are layered: config defaults, then the draft given with --file, then flags.`,
		Example: `  ntfy-publisher publish -t alerts -p high --tags warning "Disk almost full"
  ntfy-publisher publish -f draft.yaml
  echo "build done" | ntfy-publisher publish -t ci -`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPublish(cmd, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.topic, "topic", "t", "", "topic to publish to")
	f.StringVar(&opts.title, "title", "", "notification title")
	f.StringVarP(&opts.priority, "priority", "p", "", "priority: min, low, default, high, max or 1-5")
	f.StringSliceVar(&opts.tags, "tags", nil, "comma-separated tags or emoji short codes")
	f.BoolVar(&opts.markdown, "markdown", false, "render the message as Markdown")
	f.StringVar(&opts.click, "click", "", "URL opened when the notification is tapped")
	f.StringVar(&opts.icon, "icon", "", "notification icon URL")
	f.StringVar(&opts.attach, "attach", "", "URL of a file to attach instead of a message")
	f.StringVar(&opts.filename, "filename", "", "file name shown for --attach")
	f.StringVar(&opts.delay, "delay", "", "delivery delay: a duration (30m) or an RFC 3339 time")
	f.StringVar(&opts.email, "email", "", "also forward to this e-mail address")
	f.StringVar(&opts.call, "call", "", "also call this phone number")
	f.BoolVar(&opts.noCache, "no-cache", false, "do not cache the message on the server")
	f.BoolVar(&opts.noFirebase, "no-firebase", false, "do not forward the message to Firebase")
	f.StringVarP(&opts.file, "file", "f", "", "YAML draft to publish")
	f.StringVar(&opts.token, "token", "", "access token")
	f.StringVar(&opts.user, "user", "", "basic auth credentials as user:pass")

	cmd.MarkFlagsMutuallyExclusive("token", "user")

	return cmd
}

func runPublish(cmd *cobra.Command, opts *publishOptions, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}

	n, err := buildNotification(cmd, cfg, opts, args)
	if err != nil {
		return err
	}

	publisher := newPublisher(cfg, newHTTPClient(cfg, logger), logger)

	result, err := publisher.Publish(cmd.Context(), n)
	if err != nil {
		return fmt.Errorf("publish failed: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), result.MessageID)
	return nil
}

// buildNotification layers the draft and the flags that were set on top of
// the config defaults.
func buildNotification(cmd *cobra.Command, cfg *config.Config, opts *publishOptions, args []string) (ntfy.Notification, error) {
	n := cfg.Notification()
	changed := cmd.Flags().Changed

	// Markdown layering: flag, then draft, then config.
	markdown := cfg.Defaults.Markdown
	var draftText *string

	if opts.file != "" {
		d, err := draft.Load(opts.file)
		if err != nil {
			return n, err
		}
		if n, err = d.Apply(n); err != nil {
			return n, fmt.Errorf("invalid draft %s: %w", opts.file, err)
		}
		if d.Markdown != nil {
			markdown = *d.Markdown
		}
		if d.Attach == nil {
			draftText = d.Message
		}
	}
	if changed("markdown") {
		markdown = opts.markdown
	}

	message, err := readMessage(cmd.InOrStdin(), args)
	if err != nil {
		return n, err
	}

	text, hasText := message, message != ""
	if !hasText && draftText != nil {
		text, hasText = *draftText, true
	}

	switch {
	case opts.attach != "" && message != "":
		return n, fmt.Errorf("a message and --attach cannot be combined")
	case opts.attach != "":
		n = n.WithFile(opts.filename, opts.attach)
	case hasText && markdown:
		n = n.WithMarkdown(text)
	case hasText:
		n = n.WithText(text)
	}

	if changed("topic") {
		n = n.WithTopic(opts.topic)
	}
	if changed("title") {
		n = n.WithTitle(opts.title)
	}
	if changed("priority") {
		p, err := ntfy.ParsePriority(opts.priority)
		if err != nil {
			return n, err
		}
		n = n.WithPriority(p)
	}
	if changed("tags") {
		n = n.WithTags(opts.tags...)
	}
	if changed("click") {
		n = n.WithClick(opts.click)
	}
	if changed("icon") {
		n = n.WithIcon(opts.icon)
	}
	if changed("delay") {
		if n, err = draft.ApplyDelay(n, opts.delay); err != nil {
			return n, err
		}
	}
	if changed("email") {
		n = n.WithEmail(opts.email)
	}
	if changed("call") {
		n = n.WithCall(opts.call)
	}
	if changed("no-cache") {
		n = n.WithoutCache(opts.noCache)
	}
	if changed("no-firebase") {
		n = n.WithoutFirebase(opts.noFirebase)
	}
	if changed("token") {
		n = n.WithToken(opts.token)
	}
	if changed("user") {
		username, password, ok := strings.Cut(opts.user, ":")
		if !ok {
			return n, fmt.Errorf("--user must be user:pass")
		}
		n = n.WithBasicAuth(username, password)
	}

	return n, nil
}

func readMessage(stdin io.Reader, args []string) (string, error) {
	if len(args) == 1 && args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read message from stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
	return strings.Join(args, " "), nil
}
