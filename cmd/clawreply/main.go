// clawreply - Post chat replies to an OpenClaw Supabase messages table
// License: MIT
//
// Copyright (c) 2026 clawreply contributors

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal"
	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal/chat"
	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal/post"
	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal/read"
	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal/status"
	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal/version"
	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal/watch"
)

func NewClawreplyCommand() *cobra.Command {
	var global internal.GlobalOptions

	cmd := post.NewPostCommand(&global)
	// any word is a valid message, so no command may shadow one
	cmd.CompletionOptions.DisableDefaultCmd = true

	cmd.PersistentFlags().StringVar(&global.EnvFile, "env-file", "",
		"Extra dotenv file read after the environment and before ~/.openclaw/.env")
	cmd.PersistentFlags().BoolVarP(&global.Debug, "debug", "d", false, "Enable debug logging")

	cmd.AddCommand(
		read.NewReadCommand(&global),
		watch.NewWatchCommand(&global),
		chat.NewChatCommand(&global),
		status.NewStatusCommand(&global),
		version.NewVersionCommand(),
	)

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd := NewClawreplyCommand()
	if err := cmd.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, internal.ErrFailed) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		stop()
		os.Exit(1)
	}
}
