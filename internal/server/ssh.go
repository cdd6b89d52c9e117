package server

import (
	"fmt"
	"io"
	"log"
	"strings"
	"unicode/utf8"

	"github.com/gliderlabs/ssh"

	"perlin-map/internal/config"
	"perlin-map/internal/render"
)

// hudRows is the status line below the map.
const hudRows = 1

// action is a key press in the interactive viewer.
type action int

const (
	actNone action = iota
	actUp
	actDown
	actLeft
	actRight
	actRegenerate
	actToggleBinary
	actQuit
)

// SSHServer serves generated maps to SSH sessions.
type SSHServer struct {
	addr     string
	hostKey  string
	defaults Request
	limits   config.LimitSettings
}

// NewSSHServer creates a new SSH server bound to the given address.
func NewSSHServer(addr, hostKey string, defaults Request, limits config.LimitSettings) *SSHServer {
	return &SSHServer{
		addr:     addr,
		hostKey:  hostKey,
		defaults: defaults,
		limits:   limits,
	}
}

// Start begins listening for SSH connections.
func (s *SSHServer) Start() error {
	server := &ssh.Server{
		Addr:    s.addr,
		Handler: s.handleSession,
	}

	// Set host key
	if err := server.SetOption(ssh.HostKeyFile(s.hostKey)); err != nil {
		return fmt.Errorf("set host key: %w", err)
	}

	log.Printf("SSH server listening on %s", s.addr)
	return server.ListenAndServe()
}

func (s *SSHServer) handleSession(sess ssh.Session) {
	req, err := ParseRequest(sess.Command(), s.defaults)
	if err == nil {
		err = req.Validate(s.limits)
	}
	if err != nil {
		fmt.Fprintf(sess, "Error: %v\n", err)
		sess.Exit(2)
		return
	}

	log.Printf("Session opened: %s from %s", sess.User(), sess.RemoteAddr())
	defer log.Printf("Session closed: %s", sess.User())

	ptyReq, winCh, ok := sess.Pty()
	if !ok {
		// Non-interactive: print once and exit.
		gen, err := req.Generate()
		if err != nil {
			fmt.Fprintf(sess, "Error: %v\n", err)
			sess.Exit(1)
			return
		}
		mode, _ := render.ParseMode(req.Mode)
		io.WriteString(sess, render.Text(gen.Map, mode))
		sess.Exit(0)
		return
	}

	v := &viewer{
		req:    req,
		binary: req.Mode == string(render.ModeBinary),
		termW:  ptyReq.Window.Width,
		termH:  ptyReq.Window.Height,
	}
	v.regenerate(false)

	// Setup terminal
	io.WriteString(sess, render.AltScreenOn)
	io.WriteString(sess, render.HideCursor)
	defer func() {
		io.WriteString(sess, render.ShowCursor)
		io.WriteString(sess, render.AltScreenOff)
	}()

	actions := make(chan action, 16)
	quitCh := make(chan struct{})

	// Goroutine: read input
	go func() {
		defer close(quitCh)
		buf := make([]byte, 64)
		for {
			n, err := sess.Read(buf)
			if err != nil {
				return
			}
			for _, a := range parseInput(buf[:n]) {
				select {
				case actions <- a:
				default:
				}
			}
		}
	}()

	io.WriteString(sess, v.frame())
	for {
		select {
		case <-quitCh:
			return
		case win, ok := <-winCh:
			if !ok {
				winCh = nil
				continue
			}
			v.termW, v.termH = win.Width, win.Height
		case a := <-actions:
			if a == actQuit {
				return
			}
			v.apply(a)
		}
		io.WriteString(sess, v.frame())
	}
}

// viewer is the state of one interactive session.
type viewer struct {
	req    Request
	gen    *Generated
	status string
	binary bool
	focusX int
	focusY int
	termW  int
	termH  int
}

func (v *viewer) regenerate(newSeed bool) {
	if newSeed {
		v.req.Seed = 0
	}
	gen, err := v.req.Generate()
	if err != nil {
		v.status = "Error: " + err.Error()
		return
	}
	v.gen = gen
	v.focusX, v.focusY = gen.Map.Width/2, gen.Map.Height/2
	v.status = ""
}

func (v *viewer) apply(a action) {
	switch a {
	case actRegenerate:
		v.regenerate(true)
	case actToggleBinary:
		v.binary = !v.binary
	case actUp:
		v.focusY--
	case actDown:
		v.focusY++
	case actLeft:
		v.focusX--
	case actRight:
		v.focusX++
	}
	if v.gen == nil {
		return
	}
	// Keep the focus where it still moves the camera.
	vp := v.viewport()
	v.focusX, v.focusY = vp.Center()
}

func (v *viewer) viewport() render.Viewport {
	m := v.gen.Map
	return render.NewViewport(v.focusX, v.focusY, v.termW, v.termH, m.Width, m.Height, hudRows)
}

func (v *viewer) frame() string {
	var sb strings.Builder
	sb.WriteString(render.ClearScreen)
	if v.gen != nil {
		sb.WriteString(render.Screen(v.gen.Map, v.viewport(), v.binary))
	}

	status := v.status
	if status == "" && v.gen != nil {
		m := v.gen.Map
		status = fmt.Sprintf("%dx%d seed %d  sea %d  land %.1f%%  [r]egen [b]inary [wasd] pan [q]uit",
			m.Width, m.Height, m.Seed, m.SeaLevel, m.LandFraction*100)
	}
	if len(status) > v.termW && v.termW > 0 {
		status = status[:v.termW]
	}
	sb.WriteString(render.MoveTo(v.termH, 1))
	sb.WriteString(status)
	return sb.String()
}

// parseInput converts raw bytes into viewer actions.
// Handles WASD, arrow key escape sequences, R, B, Q and Ctrl-C.
func parseInput(data []byte) []action {
	var actions []action
	i := 0
	for i < len(data) {
		// Check for escape sequences (arrow keys)
		if i+2 < len(data) && data[i] == 0x1b && data[i+1] == '[' {
			switch data[i+2] {
			case 'A':
				actions = append(actions, actUp)
			case 'B':
				actions = append(actions, actDown)
			case 'C':
				actions = append(actions, actRight)
			case 'D':
				actions = append(actions, actLeft)
			}
			i += 3
			continue
		}

		// Single byte inputs
		r, size := utf8.DecodeRune(data[i:])
		switch r {
		case 'w', 'W':
			actions = append(actions, actUp)
		case 's', 'S':
			actions = append(actions, actDown)
		case 'a', 'A':
			actions = append(actions, actLeft)
		case 'd', 'D':
			actions = append(actions, actRight)
		case 'r', 'R':
			actions = append(actions, actRegenerate)
		case 'b', 'B':
			actions = append(actions, actToggleBinary)
		case 'q', 'Q':
			actions = append(actions, actQuit)
		case 3: // Ctrl-C
			actions = append(actions, actQuit)
		}
		i += size
	}
	return actions
}
