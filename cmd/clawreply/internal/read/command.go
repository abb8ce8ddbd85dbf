package read

import (
	"github.com/spf13/cobra"

	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal"
)

func NewReadCommand(global *internal.GlobalOptions) *cobra.Command {
	var (
		limit   int
		session string
	)

	cmd := &cobra.Command{
		Use:   "read",
		Short: "Show recent messages of a session",
		Args:  cobra.NoArgs,
		Example: `  clawreply read
  clawreply read --limit 50
  clawreply read --session ops`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := internal.LoadConfig(*global)
			if err != nil {
				return err
			}
			return readCmd(cmd.Context(), cfg, session, limit, cmd.OutOrStdout())
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", DefaultLimit, "Number of messages to show")
	cmd.Flags().StringVarP(&session, "session", "s", "", "Session key (default: configured session)")

	return cmd
}
