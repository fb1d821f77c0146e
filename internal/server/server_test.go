package server_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alkime/knobs/internal/config"
	"github.com/alkime/knobs/internal/page"
	"github.com/alkime/knobs/internal/server"
	"github.com/alkime/knobs/pkg/channels"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var initial = []page.Change{
	{Widget: page.SliderName, Value: 1, Attr: "1"},
	{Widget: page.DialName, Value: 0, Attr: "0"},
}

type fakeWriter struct {
	block bool
}

func (f *fakeWriter) SetAttr(ctx context.Context, widget, value string) (page.Change, error) {
	if f.block {
		<-ctx.Done()
		return page.Change{}, ctx.Err()
	}

	if widget != page.SliderName && widget != page.DialName {
		return page.Change{}, page.ErrUnknownWidget
	}

	return page.Change{Widget: widget, Value: 0.5, Attr: value}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		Env:        "test",
		HSTSMaxAge: 31536000,
		CSPMode:    "relaxed",
		LogLevel:   "info",
	}
}

func newServer(t *testing.T, deps server.Deps) *server.Server {
	t.Helper()

	if deps.Initial == nil {
		deps.Initial = initial
	}

	return server.New(testConfig(), slog.New(slog.DiscardHandler), deps)
}

func do(t *testing.T, srv *server.Server, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range header {
		req.Header[k] = v
	}

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	return w
}

func TestHealthEndpoint(t *testing.T) {
	t.Parallel()

	w := do(t, newServer(t, server.Deps{}), http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "healthy")
	assert.Contains(t, w.Body.String(), "knobs")
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, w.Header().Get("Content-Security-Policy"))
}

func TestWidgets_Read(t *testing.T) {
	t.Parallel()

	srv := newServer(t, server.Deps{})

	w := do(t, srv, http.MethodGet, "/api/v1/widgets", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var list struct {
		Widgets []page.Change `json:"widgets"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, initial, list.Widgets)

	w = do(t, srv, http.MethodGet, "/api/v1/widgets/dial", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got page.Change
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, initial[1], got)

	w = do(t, srv, http.MethodGet, "/api/v1/widgets/fader", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestWidgets_Write(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		writer server.WidgetWriter
		path   string
		body   string
		status int
		want   string
	}{
		{
			name:   "applied",
			writer: &fakeWriter{},
			path:   "/api/v1/widgets/slider",
			body:   `{"value":"0.5"}`,
			status: http.StatusOK,
			want:   `"attr":"0.5"`,
		},
		{
			name:   "empty value is a value",
			writer: &fakeWriter{},
			path:   "/api/v1/widgets/dial",
			body:   `{"value":""}`,
			status: http.StatusOK,
			want:   `"attr":""`,
		},
		{
			name:   "unknown widget",
			writer: &fakeWriter{},
			path:   "/api/v1/widgets/fader",
			body:   `{"value":"1"}`,
			status: http.StatusNotFound,
			want:   "unknown widget",
		},
		{
			name:   "missing value",
			writer: &fakeWriter{},
			path:   "/api/v1/widgets/slider",
			body:   `{}`,
			status: http.StatusBadRequest,
		},
		{
			name:   "malformed body",
			writer: &fakeWriter{},
			path:   "/api/v1/widgets/slider",
			body:   `value=1`,
			status: http.StatusBadRequest,
		},
		{
			name:   "no writer",
			path:   "/api/v1/widgets/slider",
			body:   `{"value":"1"}`,
			status: http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			srv := newServer(t, server.Deps{Writer: tt.writer})
			w := do(t, srv, http.MethodPut, tt.path, tt.body, http.Header{"Content-Type": {"application/json"}})

			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestWidgets_WriteTimeout(t *testing.T) {
	t.Parallel()

	srv := newServer(t, server.Deps{Writer: &fakeWriter{block: true}})
	w := do(t, srv, http.MethodPut, "/api/v1/widgets/slider", `{"value":"1"}`, nil)

	assert.Equal(t, http.StatusGatewayTimeout, w.Code)
}

func TestToken(t *testing.T) {
	t.Parallel()

	srv := newServer(t, server.Deps{Token: "s3cret"})

	assert.Equal(t, http.StatusUnauthorized, do(t, srv, http.MethodGet, "/api/v1/widgets", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized,
		do(t, srv, http.MethodGet, "/api/v1/widgets", "", http.Header{"Authorization": {"Bearer nope"}}).Code)
	assert.Equal(t, http.StatusOK,
		do(t, srv, http.MethodGet, "/api/v1/widgets", "", http.Header{"Authorization": {"Bearer s3cret"}}).Code)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/api/v1/widgets?token=s3cret", "", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, srv, http.MethodGet, "/health", "", nil).Code)
}

func TestStatusPage(t *testing.T) {
	t.Parallel()

	srv := newServer(t, server.Deps{})

	w := do(t, srv, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<title>knobs</title>")

	w = do(t, srv, http.MethodGet, "/app.js", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/api/v1/events")

	w = do(t, srv, http.MethodGet, "/nope.txt", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func readEnvelope(t *testing.T, conn *websocket.Conn) (string, json.RawMessage) {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))

	var env server.Envelope
	require.NoError(t, conn.ReadJSON(&env))
	require.NotNil(t, env.Ts)

	return env.Type, env.Data
}

func TestEvents(t *testing.T) {
	t.Parallel()

	events := channels.NewBroadcaster[page.Change]()
	srv := newServer(t, server.Deps{Events: events})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, srv.Start(ctx))

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/events"

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	typ, data := readEnvelope(t, conn)
	require.Equal(t, server.EventSnapshot, typ)

	var snap []page.Change
	require.NoError(t, json.Unmarshal(data, &snap))
	assert.Equal(t, initial, snap)

	// A burst on one widget arrives as its latest value.
	for _, v := range []string{"0.1", "0.2", "0.3"} {
		events.Publish(page.Change{Widget: page.SliderName, Attr: v})
	}

	var last page.Change
	for last.Attr != "0.3" {
		typ, data = readEnvelope(t, conn)
		require.Equal(t, server.EventChange, typ)
		require.NoError(t, json.Unmarshal(data, &last))
	}

	got, ok := srv.Store().Get(page.SliderName)
	require.True(t, ok)
	assert.Equal(t, "0.3", got.Attr)

	// Closing the stream disconnects clients.
	events.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseGoingAway), "got %v", err)
}

func TestEvents_Token(t *testing.T) {
	t.Parallel()

	srv := newServer(t, server.Deps{Token: "s3cret"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, srv.Start(ctx))

	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/events"

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	conn, resp, err := websocket.DefaultDialer.Dial(url+"?token=s3cret", nil)
	require.NoError(t, err)
	defer conn.Close()
	defer resp.Body.Close()

	typ, _ := readEnvelope(t, conn)
	assert.Equal(t, server.EventSnapshot, typ)
}

func TestStore(t *testing.T) {
	t.Parallel()

	s := server.NewStore(nil)
	assert.Empty(t, s.All())

	s.Put(page.Change{Widget: "b", Attr: "1"})
	s.Put(page.Change{Widget: "a", Attr: "2"})
	s.Put(page.Change{Widget: "b", Attr: "3"})

	assert.Equal(t, []page.Change{{Widget: "b", Attr: "3"}, {Widget: "a", Attr: "2"}}, s.All())

	_, ok := s.Get("c")
	assert.False(t, ok)
}
