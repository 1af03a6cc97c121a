package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"fermentation_dashboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// --- parseInterval unit tests ---

func TestParseInterval(t *testing.T) {
	h := NewHandler(&service.Service{}, nil)

	cases := []struct {
		name string
		u    string
		want time.Duration
	}{
		{"default_when_missing", "/ws", 30 * time.Second},
		{"interval_string_valid", "/ws?interval=200ms", 200 * time.Millisecond},
		{"interval_ms_valid", "/ws?interval_ms=150", 150 * time.Millisecond},
		{"interval_too_large", "/ws?interval=20m", 30 * time.Second},
		{"interval_too_small", "/ws?interval=1ms", 30 * time.Second},
		{"interval_ms_too_large", "/ws?interval_ms=900000", 30 * time.Second},
		{"interval_invalid_string", "/ws?interval=bogus", 30 * time.Second},
		{"interval_ms_invalid", "/ws?interval_ms=NaN", 30 * time.Second},
		{"both_present_interval_wins", "/ws?interval=2s&interval_ms=150", 2 * time.Second},
		{"both_present_invalid_interval_ms_used", "/ws?interval=bogus&interval_ms=250", 250 * time.Millisecond},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, tc.u, nil)
			c, _ := gin.CreateTestContext(w)
			c.Request = req
			got := h.parseInterval(c)
			if got != tc.want {
				t.Fatalf("got %v, want %v for %s", got, tc.want, tc.u)
			}
		})
	}
}

func TestParseInterval_ConfiguredDefault(t *testing.T) {
	h := NewHandler(&service.Service{}, nil, WithWSInterval(5*time.Second))
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/ws", nil)
	if got := h.parseInterval(c); got != 5*time.Second {
		t.Fatalf("got %v", got)
	}
}

// --- websocket integration tests ---

type envelope struct {
	Type   string          `json:"type"`
	Widget string          `json:"widget"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func dialWS(t *testing.T, dash *mockDashboard, query string) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(&service.Service{Dashboard: dash}, nil)
	r.GET("/ws", h.wsConnect)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	u, _ := url.Parse(srv.URL)
	u.Scheme = "ws"
	u.Path = "/ws"
	u.RawQuery = query

	dialer := websocket.Dialer{HandshakeTimeout: 2 * time.Second}
	conn, _, err := dialer.Dial(u.String(), nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func readEnvelope(t *testing.T, conn *websocket.Conn) envelope {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var env envelope
	if err := conn.ReadJSON(&env); err != nil {
		t.Fatalf("read: %v", err)
	}
	return env
}

func TestWebSocket_InitialAndPeriodic(t *testing.T) {
	conn := dialWS(t, newChartedDashboard(), "interval_ms=100")

	env := readEnvelope(t, conn)
	if env.Type != "dashboard" || len(env.Data) == 0 {
		t.Fatalf("bad envelope: %+v", env)
	}
	var v service.DashboardView
	if err := json.Unmarshal(env.Data, &v); err != nil {
		t.Fatalf("unmarshal dashboard: %v", err)
	}
	if v.Status["current-temp"] != "24.0°C" {
		t.Fatalf("unexpected dashboard: %+v", v)
	}

	env = readEnvelope(t, conn)
	if env.Type != "dashboard" {
		t.Fatalf("expected periodic dashboard, got %+v", env)
	}
}

func TestWebSocket_PushesRedraws(t *testing.T) {
	dash := newChartedDashboard()
	conn := dialWS(t, dash, "interval=5m")

	if env := readEnvelope(t, conn); env.Type != "dashboard" {
		t.Fatalf("initial: %+v", env)
	}

	deadline := time.Now().Add(2 * time.Second)
	for dash.subscribers() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	dash.publish("sessionChart")

	env := readEnvelope(t, conn)
	if env.Type != "redraw" || env.Widget != "sessionChart" || len(env.Data) == 0 {
		t.Fatalf("expected redraw envelope, got %+v", env)
	}
}

func TestWebSocket_UnsubscribesOnClose(t *testing.T) {
	dash := newChartedDashboard()
	conn := dialWS(t, dash, "")
	readEnvelope(t, conn)
	_ = conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for {
		dash.mu.Lock()
		n := dash.unsubscribed
		dash.mu.Unlock()
		if n == 1 {
			return
		}
		if time.Now().After(deadline) {
			t.Fatal("subscription not released")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
