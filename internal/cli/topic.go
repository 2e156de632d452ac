package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var topicPrefix string

// NewTopicCmd creates the topic command.
func NewTopicCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "topic",
		Short: "Generate an unguessable topic name",
		Long: `Print a random topic name. Anyone who knows a topic on a public server can
subscribe to it, so topics without access control should be hard to guess.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), newTopic(topicPrefix))
			return nil
		},
	}

	cmd.Flags().StringVar(&topicPrefix, "prefix", "", "readable prefix for the topic")

	return cmd
}

// newTopic returns prefix followed by a random UUID without dashes.
func newTopic(prefix string) string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	if prefix == "" {
		return id
	}
	return prefix + "-" + id
}
