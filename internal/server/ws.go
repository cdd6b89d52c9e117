package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"perlin-map/internal/config"
	"perlin-map/internal/terrain"
)

// maxMessageSize caps an incoming request. Larger messages close the
// connection with CloseMessageTooBig.
const maxMessageSize = 4096

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// wsError is sent in place of a map when a request fails.
type wsError struct {
	Error     string `json:"error"`
	Exhausted bool   `json:"exhausted,omitempty"`
}

// WSServer answers JSON generation requests over WebSocket.
type WSServer struct {
	addr     string
	defaults Request
	limits   config.LimitSettings
}

// NewWSServer creates a WebSocket server bound to the given address.
func NewWSServer(addr string, defaults Request, limits config.LimitSettings) *WSServer {
	return &WSServer{addr: addr, defaults: defaults, limits: limits}
}

// Handler returns the HTTP handler serving /ws.
func (s *WSServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	return mux
}

// Start begins listening for HTTP connections.
func (s *WSServer) Start() error {
	log.Printf("WebSocket server listening on %s/ws", s.addr)
	return http.ListenAndServe(s.addr, s.Handler())
}

func (s *WSServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageSize)

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Println("WebSocket read error:", err)
			}
			return
		}

		reply, err := s.serve(data)
		if err != nil {
			reply, _ = json.Marshal(wsError{
				Error:     err.Error(),
				Exhausted: errors.Is(err, terrain.ErrGenerationExhausted),
			})
		}
		if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			log.Println("WebSocket write error:", err)
			return
		}
	}
}

// serve decodes one request over the defaults and returns the map document.
func (s *WSServer) serve(data []byte) ([]byte, error) {
	req := s.defaults
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	if err := req.Validate(s.limits); err != nil {
		return nil, err
	}
	gen, err := req.Generate()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := gen.Map.WriteJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
