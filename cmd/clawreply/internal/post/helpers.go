package post

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal"
	"github.com/tinyland-inc/clawreply/pkg/config"
	"github.com/tinyland-inc/clawreply/pkg/logger"
	"github.com/tinyland-inc/clawreply/pkg/reply"
)

// StdinMarker as the message argument reads the message from standard input.
const StdinMarker = "-"

type Options struct {
	SessionKey   string
	CreatedAt    string
	CreatedAtSet bool
}

// Apply overrides reply settings from command-line flags.
func (o Options) Apply(cfg *config.Config) {
	if o.SessionKey != "" {
		cfg.Reply.SessionKey = o.SessionKey
	}
	if o.CreatedAtSet {
		cfg.Reply.CreatedAt = o.CreatedAt
	}
}

func PrintUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: clawreply <message> [sender]")
	fmt.Fprintln(w, "       clawreply - [sender]    read the message from standard input")
	fmt.Fprintln(w, "       clawreply -- <message> [sender]    message starts with \"-\"")
}

func postCmd(
	ctx context.Context,
	global internal.GlobalOptions,
	opts Options,
	args []string,
	stdin io.Reader,
	out io.Writer,
) error {
	cfg, err := internal.LoadConfig(global)
	if err != nil {
		return err
	}
	opts.Apply(cfg)

	message, err := ReadMessage(args[0], stdin)
	if err != nil {
		return err
	}

	poster := reply.NewPoster(cfg, reply.WithOutput(out))

	// arguments after the sender are ignored
	sender := poster.DefaultSender()
	if len(args) > 1 {
		sender = args[1]
	}

	logger.DebugCF("cli", "Posting reply", map[string]any{
		"session_key": cfg.Reply.SessionKey,
		"sender":      sender,
		"chars":       len([]rune(message)),
	})

	if !poster.Post(ctx, message, sender) {
		return internal.ErrFailed
	}
	return nil
}

// ReadMessage returns arg, or all of stdin without its trailing newline when
// arg is StdinMarker.
func ReadMessage(arg string, stdin io.Reader) (string, error) {
	if arg != StdinMarker {
		return arg, nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("error reading message from stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}
