package reply

import (
	"encoding/json"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/clawreply/pkg/config"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"shorter", "hello", 10, "hello"},
		{"exact", "hello", 5, "hello"},
		{"longer", "hello world", 5, "hello"},
		{"empty", "", 3, ""},
		{"zero limit", "hello", 0, ""},
		{"multibyte kept whole", "héllo wörld", 7, "héllo w"},
		{"emoji counted as one", "🦞🦞🦞", 2, "🦞🦞"},
		{"bytes over limit but runes under", "ééé", 4, "ééé"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.in, tt.n))
		})
	}
}

func TestTruncate_TenThousandCharacters(t *testing.T) {
	long := strings.Repeat("ab", 6000)
	got := Truncate(long, 10000)
	assert.Len(t, got, 10000)
	assert.Equal(t, long[:10000], got)

	wide := strings.Repeat("ü", 10001)
	got = Truncate(wide, 10000)
	assert.Equal(t, 10000, utf8.RuneCountInString(got))
	assert.True(t, utf8.ValidString(got))

	exact := strings.Repeat("x", 10000)
	assert.Equal(t, exact, Truncate(exact, 10000))
}

func TestNewMessage(t *testing.T) {
	cfg := config.DefaultConfig().Reply

	msg := NewMessage("hi there", "Beast", cfg)
	assert.Equal(t, Message{
		Content:    "hi there",
		Sender:     "Beast",
		SessionKey: "default",
		CreatedAt:  "now()",
	}, msg)

	data, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"content":"hi there","sender":"Beast","session_key":"default","created_at":"now()"}`,
		string(data))
}

func TestNewMessage_EmptyCreatedAtIsOmitted(t *testing.T) {
	cfg := config.DefaultConfig().Reply
	cfg.CreatedAt = ""
	cfg.SessionKey = "ops"

	data, err := json.Marshal(NewMessage("x", "Scout", cfg))
	require.NoError(t, err)
	assert.JSONEq(t, `{"content":"x","sender":"Scout","session_key":"ops"}`, string(data))
}
