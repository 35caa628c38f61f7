// ABOUTME: Root CLI command and global flags
// ABOUTME: Wires all subcommands into a single cobra tree

package commands

import (
	"github.com/spf13/cobra"
)

var verbose bool

// NewRootCmd creates the root command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "postforge",
		Short: "Research-backed social post generation",
		Long: `postforge turns topics, YouTube videos, and uploaded documents into
professional social posts.

Queries are routed automatically: a document reference goes to document
search, a video URL goes to transcription, anything else becomes a web
research topic. Results are always schema-validated posts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMCPCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
