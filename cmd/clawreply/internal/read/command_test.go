package read

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tinyland-inc/clawreply/cmd/clawreply/internal"
	"github.com/tinyland-inc/clawreply/pkg/config"
	"github.com/tinyland-inc/clawreply/pkg/reply"
	"github.com/tinyland-inc/clawreply/pkg/supabase"
)

func testConfig(url string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Supabase.URL = url
	cfg.Supabase.ServiceKey = "service-key"
	return cfg
}

func TestNewReadCommand(t *testing.T) {
	var global internal.GlobalOptions
	cmd := NewReadCommand(&global)

	require.NotNil(t, cmd)

	assert.Equal(t, "read", cmd.Use)
	assert.Equal(t, "Show recent messages of a session", cmd.Short)
	assert.True(t, cmd.HasExample())
	assert.False(t, cmd.HasSubCommands())
	assert.NotNil(t, cmd.RunE)

	limit := cmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "20", limit.DefValue)
	assert.NotNil(t, cmd.Flags().Lookup("session"))
}

func TestQuery(t *testing.T) {
	q := Query("ops", 5)
	assert.Equal(t, "*", q.Get("select"))
	assert.Equal(t, "eq.ops", q.Get("session_key"))
	assert.Equal(t, "created_at.desc", q.Get("order"))
	assert.Equal(t, "5", q.Get("limit"))
}

func TestReadCmd_PrintsOldestFirst(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/messages", r.URL.Path)
		assert.Equal(t, "eq.default", r.URL.Query().Get("session_key"))
		assert.Equal(t, "3", r.URL.Query().Get("limit"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[
			{"content":"second","sender":"Scout","created_at":"b"},
			{"content":"first","sender":"Beast","created_at":"a"}
		]`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, readCmd(context.Background(), testConfig(srv.URL), "", 3, &out))
	assert.Equal(t, "[a] Beast: first\n[b] Scout: second\n", out.String())
}

func TestReadCmd_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "eq.ops", r.URL.Query().Get("session_key"))
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	var out bytes.Buffer
	require.NoError(t, readCmd(context.Background(), testConfig(srv.URL), "ops", 20, &out))
	assert.Equal(t, "No messages in session ops\n", out.String())
}

func TestReadCmd_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	err := readCmd(context.Background(), testConfig(srv.URL), "", 20, &bytes.Buffer{})

	var se *supabase.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusUnauthorized, se.Code)
}

func TestReadCmd_Validation(t *testing.T) {
	err := readCmd(context.Background(), config.DefaultConfig(), "", 20, &bytes.Buffer{})
	assert.ErrorIs(t, err, reply.ErrMissingCredentials)

	err = readCmd(context.Background(), testConfig("https://x.test"), "", 0, &bytes.Buffer{})
	assert.Error(t, err)
}
