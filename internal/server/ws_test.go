package server

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"perlin-map/internal/config"
)

func dialTestServer(t *testing.T) *websocket.Conn {
	t.Helper()
	s := NewWSServer("", testDefaults(), config.Default().Limits)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestWebSocketGenerate(t *testing.T) {
	conn := dialTestServer(t)

	if err := conn.WriteJSON(map[string]any{"width": 40, "height": 20, "land": 40, "seed": 77}); err != nil {
		t.Fatal(err)
	}
	var got struct {
		Width        int                        `json:"width"`
		Height       int                        `json:"height"`
		Seed         int64                      `json:"seed"`
		LandFraction float64                    `json:"land_fraction"`
		Tiles        [][]int                    `json:"tiles"`
		Legend       map[string]json.RawMessage `json:"legend"`
		Error        string                     `json:"error"`
	}
	if err := conn.ReadJSON(&got); err != nil {
		t.Fatal(err)
	}
	if got.Error != "" {
		t.Fatalf("server error: %s", got.Error)
	}
	if got.Width != 40 || got.Height != 20 || len(got.Tiles) != 20 || len(got.Tiles[0]) != 40 {
		t.Errorf("unexpected size %dx%d", got.Width, got.Height)
	}
	if got.Seed != 77 {
		t.Errorf("seed = %d, want 77", got.Seed)
	}
	if got.LandFraction < 0.35 || got.LandFraction > 0.45 {
		t.Errorf("land fraction %v outside 40%%±5", got.LandFraction)
	}
	if len(got.Legend) == 0 {
		t.Error("legend missing")
	}
}

func TestWebSocketErrors(t *testing.T) {
	conn := dialTestServer(t)

	tests := []struct {
		name          string
		msg           string
		wantExhausted bool
	}{
		{"bad json", `{"width": `, false},
		{"over limit", `{"width": 10000}`, false},
		{"invalid persistence", `{"persistence": -1}`, false},
		{"exhausted", `{"width": 1, "height": 1, "land": 50, "seed": 1}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := conn.WriteMessage(websocket.TextMessage, []byte(tt.msg)); err != nil {
				t.Fatal(err)
			}
			var got wsError
			if err := conn.ReadJSON(&got); err != nil {
				t.Fatal(err)
			}
			if got.Error == "" {
				t.Error("expected an error reply")
			}
			if got.Exhausted != tt.wantExhausted {
				t.Errorf("exhausted = %v, want %v", got.Exhausted, tt.wantExhausted)
			}
		})
	}
}

func TestWebSocketReadLimit(t *testing.T) {
	conn := dialTestServer(t)

	big := `{"mode": "` + strings.Repeat("x", maxMessageSize) + `"}`
	if err := conn.WriteMessage(websocket.TextMessage, []byte(big)); err != nil {
		t.Fatal(err)
	}
	_, _, err := conn.ReadMessage()
	if !websocket.IsCloseError(err, websocket.CloseMessageTooBig) {
		t.Errorf("got %v, want close %d", err, websocket.CloseMessageTooBig)
	}
}
