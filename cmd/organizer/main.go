// Command organizer runs the student organizer assistant: an HTTP and
// websocket API over the conversation loop, plus a terminal chat.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "organizer",
		Short: "Student organizer assistant",
		Long: `A chat assistant for a study group. It manages members, assignments,
schedule events and reminder preferences through Gemini function calling.

Examples:
  organizer serve
  organizer serve --config ./organizer.yaml
  organizer chat "What is due this week?"`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file (default: organizer.yaml, ~/.config/organizer/config.yaml)")
	root.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	root.PersistentFlags().String("log-level", "", "override log level (trace, debug, info, warn, error)")

	root.AddCommand(newServeCmd(), newChatCmd())
	return root
}
