package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"

	"github.com/tinyland-inc/clawreply/pkg/logger"
)

const (
	realtimePath     = "/realtime/v1/websocket"
	realtimeVSN      = "1.0.0"
	DefaultHeartbeat = 25 * time.Second
)

// ErrChannelClosed is returned when the server closes the subscribed channel.
var ErrChannelClosed = errors.New("realtime channel closed by server")

// Subscription selects the postgres changes to stream.
type Subscription struct {
	Schema string // default "public"
	Table  string
	Event  string // INSERT, UPDATE, DELETE or *; default INSERT
	Filter string // PostgREST-style filter, e.g. "session_key=eq.default"
}

func (s Subscription) withDefaults() Subscription {
	if s.Schema == "" {
		s.Schema = "public"
	}
	if s.Event == "" {
		s.Event = "INSERT"
	}
	return s
}

// Topic is the Phoenix channel topic used for the subscription.
func (s Subscription) Topic() string {
	s = s.withDefaults()
	topic := "realtime:" + s.Schema + ":" + s.Table
	if s.Filter != "" {
		topic += ":" + s.Filter
	}
	return topic
}

// Change is one row event delivered by Realtime.
type Change struct {
	Schema          string
	Table           string
	Type            string
	CommitTimestamp string
	Record          json.RawMessage
}

type phoenixMessage struct {
	Topic   string `json:"topic"`
	Event   string `json:"event"`
	Payload any    `json:"payload"`
	Ref     string `json:"ref"`
	JoinRef string `json:"join_ref,omitempty"`
}

type Realtime struct {
	endpoint  string
	apiKey    string
	heartbeat time.Duration
	dialer    *websocket.Dialer
	ref       atomic.Uint64
}

// Realtime returns a Realtime client for the same project and key.
func (c *Client) Realtime() (*Realtime, error) {
	return NewRealtime(c.baseURL, c.serviceKey)
}

func NewRealtime(baseURL, apiKey string) (*Realtime, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid supabase URL: %w", err)
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	case "http":
		u.Scheme = "ws"
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("unsupported supabase URL scheme %q", u.Scheme)
	}
	u.Path += realtimePath
	q := url.Values{}
	q.Set("apikey", apiKey)
	q.Set("vsn", realtimeVSN)
	u.RawQuery = q.Encode()

	return &Realtime{
		endpoint:  u.String(),
		apiKey:    apiKey,
		heartbeat: DefaultHeartbeat,
		dialer:    websocket.DefaultDialer,
	}, nil
}

// SetHeartbeat changes the keepalive interval.
func (r *Realtime) SetHeartbeat(d time.Duration) {
	r.heartbeat = d
}

func (r *Realtime) nextRef() string {
	return strconv.FormatUint(r.ref.Add(1), 10)
}

// Subscribe joins the channel for sub and calls handler for every change
// until ctx is cancelled (nil is returned) or the connection fails.
// handler runs on the reader goroutine.
func (r *Realtime) Subscribe(ctx context.Context, sub Subscription, handler func(Change)) error {
	sub = sub.withDefaults()
	if sub.Table == "" {
		return errors.New("realtime subscription requires a table")
	}

	conn, _, err := r.dialer.DialContext(ctx, r.endpoint, nil)
	if err != nil {
		return fmt.Errorf("realtime dial: %w", err)
	}
	defer conn.Close()

	topic := sub.Topic()
	joinRef := r.nextRef()
	change := map[string]string{
		"event":  sub.Event,
		"schema": sub.Schema,
		"table":  sub.Table,
	}
	if sub.Filter != "" {
		change["filter"] = sub.Filter
	}
	join := phoenixMessage{
		Topic: topic,
		Event: "phx_join",
		Payload: map[string]any{
			"config": map[string]any{
				"broadcast":        map[string]bool{"ack": false, "self": false},
				"presence":         map[string]string{"key": ""},
				"postgres_changes": []map[string]string{change},
				"private":          false,
			},
			"access_token": r.apiKey,
		},
		Ref:     joinRef,
		JoinRef: joinRef,
	}
	if err := conn.WriteJSON(join); err != nil {
		return fmt.Errorf("realtime join: %w", err)
	}

	logger.InfoCF("realtime", "Joining channel", map[string]any{"topic": topic})

	errCh := make(chan error, 1)
	go func() {
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				errCh <- err
				return
			}
			if err := r.dispatch(topic, joinRef, data, handler); err != nil {
				errCh <- err
				return
			}
		}
	}()

	ticker := time.NewTicker(r.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			return nil
		case err := <-errCh:
			if ctx.Err() != nil {
				return nil
			}
			return err
		case <-ticker.C:
			hb := phoenixMessage{
				Topic:   "phoenix",
				Event:   "heartbeat",
				Payload: map[string]any{},
				Ref:     r.nextRef(),
			}
			if err := conn.WriteJSON(hb); err != nil {
				return fmt.Errorf("realtime heartbeat: %w", err)
			}
		}
	}
}

func (r *Realtime) dispatch(topic, joinRef string, data []byte, handler func(Change)) error {
	msg := gjson.ParseBytes(data)
	if msg.Get("topic").String() != topic {
		return nil
	}

	switch msg.Get("event").String() {
	case "phx_reply":
		if msg.Get("ref").String() != joinRef {
			return nil
		}
		if status := msg.Get("payload.status").String(); status != "ok" {
			return fmt.Errorf("realtime join rejected (%s): %s", status, msg.Get("payload.response").Raw)
		}
		logger.InfoCF("realtime", "Subscribed", map[string]any{"topic": topic})
	case "postgres_changes":
		d := msg.Get("payload.data")
		handler(Change{
			Schema:          d.Get("schema").String(),
			Table:           d.Get("table").String(),
			Type:            d.Get("type").String(),
			CommitTimestamp: d.Get("commit_timestamp").String(),
			Record:          json.RawMessage(d.Get("record").Raw),
		})
	case "system":
		logger.DebugCF("realtime", "System message", map[string]any{
			"status":  msg.Get("payload.status").String(),
			"message": msg.Get("payload.message").String(),
		})
	case "phx_error":
		return fmt.Errorf("realtime channel error: %s", msg.Get("payload").Raw)
	case "phx_close":
		return ErrChannelClosed
	}
	return nil
}
