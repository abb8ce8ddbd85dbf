// Package reply builds chat reply rows and posts them to the Supabase
// messages table.
package reply

import (
	"github.com/tinyland-inc/clawreply/pkg/config"
)

// Message is one reply row as sent to PostgREST. The row's identity and
// timestamps belong to the server once it is inserted.
type Message struct {
	Content    string `json:"content"`
	Sender     string `json:"sender"`
	SessionKey string `json:"session_key"`
	CreatedAt  string `json:"created_at,omitempty"`
}

// NewMessage applies the reply settings to content and sender. Content is
// cut to cfg.MaxContentChars characters.
func NewMessage(content, sender string, cfg config.ReplyConfig) Message {
	return Message{
		Content:    Truncate(content, cfg.MaxContentChars),
		Sender:     sender,
		SessionKey: cfg.SessionKey,
		CreatedAt:  cfg.CreatedAt,
	}
}

// Truncate returns the first n characters (runes, not bytes) of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
