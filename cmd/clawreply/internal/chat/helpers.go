package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/chzyer/readline"
	"github.com/tidwall/gjson"

	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal"
	"github.com/tinyland-inc/clawreply/pkg/bus"
	"github.com/tinyland-inc/clawreply/pkg/config"
	"github.com/tinyland-inc/clawreply/pkg/logger"
	"github.com/tinyland-inc/clawreply/pkg/reply"
	"github.com/tinyland-inc/clawreply/pkg/supabase"
)

// poster is the part of reply.Poster the session drives.
type poster interface {
	Post(ctx context.Context, content, sender string) bool
}

// session posts typed lines through the bus and prints what others insert.
type session struct {
	poster poster
	bus    *bus.MessageBus
	sender string
	out    io.Writer
}

func newSession(p poster, sender string, out io.Writer) *session {
	return &session{
		poster: p,
		bus:    bus.NewMessageBus(bus.DefaultBufferSize),
		sender: sender,
		out:    out,
	}
}

func chatCmd(ctx context.Context, cfg *config.Config, opts Options) error {
	if err := internal.RequireCredentials(cfg); err != nil {
		return err
	}

	sender := opts.Sender
	if sender == "" {
		sender = cfg.Reply.Sender
	}

	var out io.Writer = &lockedWriter{w: os.Stdout}
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          fmt.Sprintf("%s %s: ", internal.Logo, sender),
		HistoryFile:     filepath.Join(os.TempDir(), ".clawreply_history"),
		HistoryLimit:    100,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("Error initializing readline: %v\n", err)
		fmt.Println("Falling back to simple input mode...")
		rl = nil
	} else {
		defer rl.Close()
		out = rl.Stdout()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	s := newSession(reply.NewPoster(cfg, reply.WithOutput(out)), sender, out)
	wait := s.start(ctx)

	if opts.Listen {
		go s.listen(ctx, cfg)
	}

	fmt.Fprintf(out, "%s Reply mode: session %s as %s (Ctrl+C to exit)\n\n",
		internal.Logo, cfg.Reply.SessionKey, sender)

	if rl != nil {
		s.interactiveMode(ctx, rl)
	} else {
		s.simpleInteractiveMode(ctx, os.Stdin)
	}

	s.bus.Close()
	wait()
	return nil
}

// start runs the consumers until the bus is closed and drained. The
// returned func waits for them.
func (s *session) start(ctx context.Context) func() {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		for {
			msg, ok := s.bus.ConsumeOutbound(ctx)
			if !ok {
				return
			}
			s.poster.Post(ctx, msg.Content, msg.Sender)
		}
	}()

	go func() {
		defer wg.Done()
		for {
			msg, ok := s.bus.ConsumeInbound(ctx)
			if !ok {
				return
			}
			fmt.Fprintln(s.out, reply.FormatMessage(msg.CreatedAt, msg.Sender, msg.Content))
		}
	}()

	return wg.Wait
}

// listen feeds inserts by other senders in the session into the bus.
func (s *session) listen(ctx context.Context, cfg *config.Config) {
	rt, err := supabase.NewRealtime(cfg.Supabase.URL, cfg.Supabase.ServiceKey)
	if err != nil {
		logger.WarnCF("chat", "Realtime unavailable", map[string]any{"error": err.Error()})
		return
	}

	sub := supabase.Subscription{
		Table:  cfg.Reply.Table,
		Event:  "INSERT",
		Filter: "session_key=eq." + cfg.Reply.SessionKey,
	}
	err = rt.Subscribe(ctx, sub, func(c supabase.Change) {
		msg := inboundFromRecord(c.Record)
		if msg.Sender == s.sender {
			return
		}
		if err := s.bus.PublishInbound(ctx, msg); err != nil {
			logger.DebugCF("chat", "Dropped inbound message", map[string]any{"error": err.Error()})
		}
	})
	if err != nil {
		logger.WarnCF("chat", "Realtime subscription ended", map[string]any{"error": err.Error()})
	}
}

func inboundFromRecord(record []byte) bus.InboundMessage {
	r := gjson.ParseBytes(record)
	return bus.InboundMessage{
		ID:         r.Get("id").String(),
		Sender:     r.Get("sender").String(),
		SessionKey: r.Get("session_key").String(),
		Content:    r.Get("content").String(),
		CreatedAt:  r.Get("created_at").String(),
	}
}

func (s *session) interactiveMode(ctx context.Context, rl *readline.Instance) {
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(s.out, "Error reading input: %v\n", err)
			continue
		}

		if !s.handleLine(ctx, line) {
			return
		}
	}
}

func (s *session) simpleInteractiveMode(ctx context.Context, in io.Reader) {
	reader := bufio.NewReader(in)
	for {
		fmt.Fprintf(s.out, "%s %s: ", internal.Logo, s.sender)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(s.out, "Error reading input: %v\n", err)
			return
		}

		if !s.handleLine(ctx, line) {
			return
		}
		if err != nil {
			fmt.Fprintln(s.out, "\nGoodbye!")
			return
		}
	}
}

// handleLine queues one input line and reports whether the loop continues.
func (s *session) handleLine(ctx context.Context, line string) bool {
	input := strings.TrimSpace(line)
	if input == "" {
		return true
	}

	if input == "exit" || input == "quit" {
		fmt.Fprintln(s.out, "Goodbye!")
		return false
	}

	if ctx.Err() != nil {
		return false
	}
	err := s.bus.PublishOutbound(ctx, bus.OutboundMessage{Sender: s.sender, Content: input})
	return err == nil
}

type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
