package reply

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/tidwall/gjson"

	"github.com/tinyland-inc/clawreply/pkg/config"
	"github.com/tinyland-inc/clawreply/pkg/logger"
	"github.com/tinyland-inc/clawreply/pkg/supabase"
)

// MaxDiagnosticBody caps how much of a failed response body is reported.
const MaxDiagnosticBody = 200

var ErrMissingCredentials = errors.New("SUPABASE_URL or SUPABASE_SERVICE_KEY not set")

// Inserter is the part of supabase.Client the poster needs.
type Inserter interface {
	Insert(ctx context.Context, table string, row any, prefer string) (*supabase.Response, error)
}

// Result describes a reply the server accepted.
type Result struct {
	StatusCode int
	ID         string
	RequestID  string
	Message    Message
}

type Poster struct {
	reply        config.ReplyConfig
	creds        config.SupabaseConfig
	client       Inserter
	out          io.Writer
	fallbackPath string
}

type Option func(*Poster)

// WithOutput sets where human-readable diagnostics are written.
func WithOutput(w io.Writer) Option {
	return func(p *Poster) { p.out = w }
}

// WithInserter replaces the Supabase client.
func WithInserter(i Inserter) Option {
	return func(p *Poster) { p.client = i }
}

func NewPoster(cfg *config.Config, opts ...Option) *Poster {
	p := &Poster{
		reply:        cfg.Reply,
		creds:        cfg.Supabase,
		out:          os.Stdout,
		fallbackPath: config.FallbackEnvPath(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.client == nil && cfg.Supabase.Complete() {
		p.client = supabase.NewClient(cfg.Supabase.URL, cfg.Supabase.ServiceKey,
			supabase.WithTimeout(cfg.Reply.Timeout()))
	}
	return p
}

// DefaultSender is the sender used when the caller does not name one.
func (p *Poster) DefaultSender() string {
	return p.reply.Sender
}

// Submit inserts one reply and reports the outcome as an error:
// ErrMissingCredentials before any request, a *supabase.StatusError for any
// status other than 201, or the wrapped transport failure.
func (p *Poster) Submit(ctx context.Context, content, sender string) (*Result, error) {
	if !p.creds.Complete() || p.client == nil {
		return nil, ErrMissingCredentials
	}

	msg := NewMessage(content, sender, p.reply)

	resp, err := p.client.Insert(ctx, p.reply.Table, msg, supabase.PreferRepresentation)
	if err != nil {
		logger.WarnCF("reply", "Reply request failed", map[string]any{"error": err.Error()})
		return nil, err
	}

	if resp.StatusCode != http.StatusCreated {
		logger.WarnCF("reply", "Reply rejected", map[string]any{
			"status":     resp.StatusCode,
			"request_id": resp.RequestID,
		})
		return nil, &supabase.StatusError{
			Code: resp.StatusCode,
			Body: Truncate(string(resp.Body), MaxDiagnosticBody),
		}
	}

	id := gjson.GetBytes(resp.Body, "0.id")
	if !id.Exists() {
		id = gjson.GetBytes(resp.Body, "id")
	}

	logger.DebugCF("reply", "Reply posted", map[string]any{
		"status":     resp.StatusCode,
		"request_id": resp.RequestID,
		"id":         id.String(),
		"chars":      len([]rune(msg.Content)),
	})

	return &Result{
		StatusCode: resp.StatusCode,
		ID:         id.String(),
		RequestID:  resp.RequestID,
		Message:    msg,
	}, nil
}

// Post submits one reply and reports success as a bool. Every failure is
// described on the poster's output; none escapes as an error or panic.
func (p *Poster) Post(ctx context.Context, content, sender string) bool {
	res, err := p.Submit(ctx, content, sender)

	var statusErr *supabase.StatusError
	switch {
	case err == nil:
		if res.ID != "" {
			fmt.Fprintf(p.out, "✓ Reply posted: %d (id %s)\n", res.StatusCode, res.ID)
		} else {
			fmt.Fprintf(p.out, "✓ Reply posted: %d\n", res.StatusCode)
		}
		return true
	case errors.Is(err, ErrMissingCredentials):
		fmt.Fprintf(p.out, "Error: %v\n", err)
		fmt.Fprintf(p.out, "Add them to %s or environment variables\n", p.fallbackPath)
		return false
	case errors.As(err, &statusErr):
		fmt.Fprintf(p.out, "✗ Failed to post reply: %d\n", statusErr.Code)
		fmt.Fprintf(p.out, "  Response: %s\n", statusErr.Body)
		return false
	default:
		fmt.Fprintf(p.out, "✗ Error posting reply: %v\n", err)
		return false
	}
}
