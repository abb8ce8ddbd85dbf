package read

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"

	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal"
	"github.com/tinyland-inc/clawreply/pkg/config"
	"github.com/tinyland-inc/clawreply/pkg/reply"
	"github.com/tinyland-inc/clawreply/pkg/supabase"
)

const DefaultLimit = 20

// Query is the PostgREST filter for the newest limit rows of a session.
func Query(session string, limit int) url.Values {
	q := url.Values{}
	q.Set("select", "*")
	q.Set("session_key", "eq."+session)
	q.Set("order", "created_at.desc")
	q.Set("limit", strconv.Itoa(limit))
	return q
}

func readCmd(ctx context.Context, cfg *config.Config, session string, limit int, out io.Writer) error {
	if err := internal.RequireCredentials(cfg); err != nil {
		return err
	}
	if limit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", limit)
	}
	if session == "" {
		session = cfg.Reply.SessionKey
	}

	client := supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey,
		supabase.WithTimeout(cfg.Reply.Timeout()))

	rows, err := client.Select(ctx, cfg.Reply.Table, Query(session, limit))
	if err != nil {
		return fmt.Errorf("error reading messages: %w", err)
	}

	lines := reply.FormatRows(rows)
	if len(lines) == 0 {
		fmt.Fprintf(out, "No messages in session %s\n", session)
		return nil
	}
	for _, line := range lines {
		fmt.Fprintln(out, line)
	}
	return nil
}
