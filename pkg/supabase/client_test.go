package supabase

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsert_SendsHeadersAndBody(t *testing.T) {
	var (
		gotPath    string
		gotMethod  string
		gotHeaders http.Header
		gotBody    map[string]any
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotHeaders = r.Header.Clone()
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`[{"id":7}]`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "service-key")
	resp, err := c.Insert(context.Background(), "messages",
		map[string]string{"content": "hi"}, PreferRepresentation)
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.JSONEq(t, `[{"id":7}]`, string(resp.Body))
	assert.NotEmpty(t, resp.RequestID)

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "/rest/v1/messages", gotPath)
	assert.Equal(t, "service-key", gotHeaders.Get("apikey"))
	assert.Equal(t, "Bearer service-key", gotHeaders.Get("Authorization"))
	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "return=representation", gotHeaders.Get("Prefer"))
	assert.Equal(t, resp.RequestID, gotHeaders.Get("X-Request-Id"))
	assert.Equal(t, "hi", gotBody["content"])
}

func TestInsert_NonSuccessStatusIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Invalid API key"}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, "bad").Insert(context.Background(), "messages", map[string]string{}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Contains(t, string(resp.Body), "Invalid API key")
}

func TestInsert_TrailingSlashBaseURL(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "k")
	assert.Equal(t, srv.URL, c.BaseURL())

	_, err := c.Insert(context.Background(), "messages", map[string]string{}, "")
	require.NoError(t, err)
	assert.Equal(t, "/rest/v1/messages", gotPath)
}

func TestInsert_TimeoutIsTransportError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()
	defer close(release)

	c := NewClient(srv.URL, "k", WithTimeout(50*time.Millisecond))
	assert.Equal(t, 50*time.Millisecond, c.Timeout())

	_, err := c.Insert(context.Background(), "messages", map[string]string{}, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert into messages")
}

func TestInsert_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	_, err := NewClient(addr, "k").Insert(context.Background(), "messages", map[string]string{}, "")
	assert.Error(t, err)
}

func TestInsert_WithHTTPClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	hc := &http.Client{}
	c := NewClient(srv.URL, "k", WithHTTPClient(hc), WithTimeout(2*time.Second))
	resp, err := c.Insert(context.Background(), "messages", map[string]string{}, "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)
}

func TestSelect(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/messages", r.URL.Path)
		assert.Equal(t, "Bearer k", r.Header.Get("Authorization"))
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"content":"a"}]`))
	}))
	defer srv.Close()

	q := url.Values{}
	q.Set("select", "*")
	q.Set("session_key", "eq.default")
	q.Set("limit", "5")

	rows, err := NewClient(srv.URL, "k").Select(context.Background(), "messages", q)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"content":"a"}]`, string(rows))
	assert.Equal(t, "eq.default", gotQuery.Get("session_key"))
	assert.Equal(t, "5", gotQuery.Get("limit"))
}

func TestSelect_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"relation does not exist"}`))
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, "k").Select(context.Background(), "nope", nil)
	require.Error(t, err)

	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusNotFound, se.Code)
	assert.Contains(t, se.Body, "relation does not exist")
	assert.Contains(t, se.Error(), "404")
}
