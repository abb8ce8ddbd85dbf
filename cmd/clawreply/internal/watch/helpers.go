package watch

import (
	"context"
	"fmt"
	"io"

	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal"
	"github.com/tinyland-inc/clawreply/pkg/config"
	"github.com/tinyland-inc/clawreply/pkg/logger"
	"github.com/tinyland-inc/clawreply/pkg/reply"
	"github.com/tinyland-inc/clawreply/pkg/supabase"
)

type Options struct {
	SessionKey string
	All        bool
}

// Subscription selects inserts into the messages table, narrowed to one
// session unless All is set.
func (o Options) Subscription(cfg *config.Config) supabase.Subscription {
	sub := supabase.Subscription{
		Schema: "public",
		Table:  cfg.Reply.Table,
		Event:  "INSERT",
	}
	if !o.All {
		session := o.SessionKey
		if session == "" {
			session = cfg.Reply.SessionKey
		}
		sub.Filter = "session_key=eq." + session
	}
	return sub
}

func watchCmd(ctx context.Context, cfg *config.Config, opts Options, out io.Writer) error {
	if err := internal.RequireCredentials(cfg); err != nil {
		return err
	}

	rt, err := supabase.NewRealtime(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		return fmt.Errorf("error creating realtime client: %w", err)
	}

	sub := opts.Subscription(cfg)
	fmt.Fprintf(out, "%s Watching %s (Ctrl+C to exit)\n\n", internal.Logo, sub.Topic())

	err = rt.Subscribe(ctx, sub, func(c supabase.Change) {
		logger.DebugCF("watch", "Change received", map[string]any{"type": c.Type})
		fmt.Fprintln(out, reply.FormatRow(c.Record))
	})
	if err != nil {
		return fmt.Errorf("error watching messages: %w", err)
	}
	return nil
}
