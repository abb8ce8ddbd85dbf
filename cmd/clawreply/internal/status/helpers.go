package status

import (
	"fmt"
	"io"
	"os"

	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal"
	"github.com/tinyland-inc/clawreply/pkg/config"
)

func statusCmd(cfg *config.Config, out io.Writer) {
	fmt.Fprintf(out, "%s clawreply Status\n", internal.Logo)
	fmt.Fprintf(out, "Version: %s\n", internal.FormatVersion())
	fmt.Fprintln(out)

	fallback := config.FallbackEnvPath()
	if _, err := os.Stat(fallback); err == nil {
		fmt.Fprintln(out, "Fallback file:", fallback, "✓")
	} else {
		fmt.Fprintln(out, "Fallback file:", fallback, "✗")
	}

	fmt.Fprintf(out, "Supabase URL: %s\n", valueOrNotSet(cfg.Supabase.URL, cfg.Sources.URL))
	fmt.Fprintf(out, "Service key: %s\n",
		valueOrNotSet(config.MaskKey(cfg.Supabase.ServiceKey), cfg.Sources.ServiceKey))

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Table: %s\n", cfg.Reply.Table)
	fmt.Fprintf(out, "Session: %s\n", cfg.Reply.SessionKey)
	fmt.Fprintf(out, "Sender: %s\n", cfg.Reply.Sender)
	createdAt := cfg.Reply.CreatedAt
	if createdAt == "" {
		createdAt = "(table default)"
	}
	fmt.Fprintf(out, "created_at: %s\n", createdAt)
	fmt.Fprintf(out, "Max content: %d characters\n", cfg.Reply.MaxContentChars)
	fmt.Fprintf(out, "Timeout: %s\n", cfg.Reply.Timeout())
}

func valueOrNotSet(v string, src config.Source) string {
	if v == "" {
		return "not set"
	}
	return fmt.Sprintf("%s (%s)", v, src)
}
