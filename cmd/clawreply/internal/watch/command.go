package watch

import (
	"github.com/spf13/cobra"

	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal"
)

func NewWatchCommand(global *internal.GlobalOptions) *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream new messages as they are inserted",
		Args:  cobra.NoArgs,
		Example: `  clawreply watch
  clawreply watch --session ops
  clawreply watch --all`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := internal.LoadConfig(*global)
			if err != nil {
				return err
			}
			return watchCmd(cmd.Context(), cfg, opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.SessionKey, "session", "s", "", "Session key (default: configured session)")
	cmd.Flags().BoolVar(&opts.All, "all", false, "Show inserts from every session")

	return cmd
}
