package chat

import (
	"github.com/spf13/cobra"

	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal"
)

type Options struct {
	Sender  string
	Session string
	Listen  bool
}

func NewChatCommand(global *internal.GlobalOptions) *cobra.Command {
	var opts Options

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Post every line typed as a reply",
		Args:  cobra.NoArgs,
		Example: `  clawreply chat
  clawreply chat --sender Scout --session ops
  clawreply chat --listen=false`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := internal.LoadConfig(*global)
			if err != nil {
				return err
			}
			if opts.Session != "" {
				cfg.Reply.SessionKey = opts.Session
			}
			return chatCmd(cmd.Context(), cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Sender, "sender", "", "Sender name (default: CLAWREPLY_SENDER or \"Beast\")")
	cmd.Flags().StringVarP(&opts.Session, "session", "s", "", "Session key (default: configured session)")
	cmd.Flags().BoolVar(&opts.Listen, "listen", true, "Print messages other senders insert into the session")

	return cmd
}
