package status

import (
	"github.com/spf13/cobra"

	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal"
)

func NewStatusCommand(global *internal.GlobalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "status",
		Short:   "Show resolved configuration",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := internal.LoadConfig(*global)
			if err != nil {
				return err
			}
			statusCmd(cfg, cmd.OutOrStdout())
			return nil
		},
	}

	return cmd
}
