package post

import (
	"github.com/spf13/cobra"

	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal"
)

// NewPostCommand returns the root "clawreply <message> [sender]" command.
// Persistent flags are bound by the caller into global.
func NewPostCommand(global *internal.GlobalOptions) *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "clawreply <message> [sender]",
		Short: "Post a chat reply to the Supabase messages table",
		Example: `  clawreply "Deploy finished"
  clawreply "On it" Scout
  clawreply --session ops "Paging on-call"
  echo "multi-line text" | clawreply -
  clawreply -- "--starts with dashes"`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				PrintUsage(cmd.OutOrStdout())
				return internal.ErrFailed
			}
			opts.CreatedAtSet = cmd.Flags().Changed("created-at")
			return postCmd(cmd.Context(), *global, opts, args, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.SessionKey, "session", "s", "",
		"Session key to post into (default: CLAWREPLY_SESSION_KEY or \"default\")")
	cmd.Flags().StringVar(&opts.CreatedAt, "created-at", "",
		"Value sent as created_at; empty leaves it to the table default")

	return cmd
}
