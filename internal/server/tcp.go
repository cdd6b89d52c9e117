package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/panjf2000/gnet"
	"github.com/panjf2000/gnet/pkg/pool/goroutine"

	"perlin-map/internal/config"
	"perlin-map/internal/render"
	"perlin-map/internal/terrain"
)

// maxLineSize caps a request line. A longer line, complete or not, is
// answered with an error and the connection is closed.
const maxLineSize = 1024

var errLineTooLong = []byte("error: request line too long\n")

// lineCodec is the newline codec with a bound on buffered input. Without it a
// client that never sends a newline grows the inbound buffer forever.
type lineCodec struct {
	gnet.LineBasedFrameCodec
}

// Decode returns the next line. Once more than maxLineSize bytes are buffered
// without a newline, it hands that prefix up as a frame so React rejects it.
func (lc *lineCodec) Decode(c gnet.Conn) ([]byte, error) {
	frame, err := lc.LineBasedFrameCodec.Decode(c)
	if err != nil && c.BufferLength() > maxLineSize {
		_, buf := c.ReadN(maxLineSize + 1)
		frame = append([]byte(nil), buf...)
		c.ShiftN(maxLineSize + 1)
		return frame, nil
	}
	return frame, err
}

// TCPServer answers one flag-style request per line with the rendered map.
// Generation runs on a worker pool so the event loops never block on it.
type TCPServer struct {
	*gnet.EventServer

	addr     string
	pool     *goroutine.Pool
	defaults Request
	limits   config.LimitSettings
}

// NewTCPServer creates a line-protocol server for a gnet address such as
// "tcp://:9494".
func NewTCPServer(addr string, defaults Request, limits config.LimitSettings) *TCPServer {
	return &TCPServer{
		addr:     addr,
		pool:     goroutine.Default(),
		defaults: defaults,
		limits:   limits,
	}
}

// Start serves until Stop is called.
func (s *TCPServer) Start() error {
	return gnet.Serve(s, s.addr,
		gnet.WithMulticore(true),
		gnet.WithReusePort(true),
		gnet.WithCodec(&lineCodec{}),
	)
}

// Stop shuts the listener down and releases the worker pool.
func (s *TCPServer) Stop(ctx context.Context) error {
	defer s.pool.Release()
	return gnet.Stop(ctx, s.addr)
}

func (s *TCPServer) OnInitComplete(srv gnet.Server) (action gnet.Action) {
	log.Printf("TCP server listening on %s (multicore %t, %d loops)", srv.Addr.String(), srv.Multicore, srv.NumEventLoop)
	return
}

func (s *TCPServer) OnOpened(c gnet.Conn) (out []byte, action gnet.Action) {
	log.Printf("[%s] connected", c.RemoteAddr())
	return
}

func (s *TCPServer) OnClosed(c gnet.Conn, err error) (action gnet.Action) {
	if err != nil {
		log.Printf("[%s] closed: %v", c.RemoteAddr(), err)
	}
	return
}

func (s *TCPServer) React(frame []byte, c gnet.Conn) (out []byte, action gnet.Action) {
	if len(frame) > maxLineSize {
		return errLineTooLong, gnet.Close
	}
	line := strings.TrimSpace(string(frame))
	if line == "" {
		return
	}
	if line == "quit" {
		return nil, gnet.Close
	}

	err := s.pool.Submit(func() {
		if err := c.AsyncWrite([]byte(s.serve(line))); err != nil {
			log.Printf("[%s] write: %v", c.RemoteAddr(), err)
		}
	})
	if err != nil {
		return []byte("error: server busy\n"), gnet.None
	}
	return
}

// serve runs one request line and returns the reply text, which ends in a
// newline. The codec appends one more, so on the wire every reply ends with
// an empty line and clients can frame multi-line maps.
func (s *TCPServer) serve(line string) string {
	req, err := ParseRequest(strings.Fields(line), s.defaults)
	if err == nil {
		err = req.Validate(s.limits)
	}
	if err != nil {
		return fmt.Sprintf("error: %v\n", err)
	}

	gen, err := req.Generate()
	if err != nil {
		if errors.Is(err, terrain.ErrGenerationExhausted) {
			return fmt.Sprintf("exhausted: %v\n", err)
		}
		return fmt.Sprintf("error: %v\n", err)
	}

	mode, _ := render.ParseMode(req.Mode)
	m := gen.Map
	return fmt.Sprintf("ok %dx%d seed %d sea %d land %.3f\n%s",
		m.Width, m.Height, m.Seed, m.SeaLevel, m.LandFraction, render.Text(m, mode))
}

