package server

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"perlin-map/internal/config"
	"perlin-map/internal/maps"
	"perlin-map/internal/render"
	"perlin-map/internal/terrain"
)

// Request is one map generation asked for by a client.
type Request struct {
	Width       int     `json:"width"`
	Height      int     `json:"height"`
	Octaves     int     `json:"octaves"`
	Persistence float32 `json:"persistence"`
	Land        int     `json:"land"`
	Water       int     `json:"water"` // fixed sea level; negative calibrates to Land
	Tidy        int     `json:"tidy"`
	Seed        int64   `json:"seed"` // 0 picks one from the clock
	Mode        string  `json:"mode"`
}

// NewRequest returns a Request filled from the generator defaults.
func NewRequest(g config.GeneratorSettings) Request {
	return Request{
		Width:       g.Width,
		Height:      g.Height,
		Octaves:     g.Octaves,
		Persistence: g.Persistence,
		Land:        g.LandPercent,
		Water:       -1,
		Tidy:        g.TidyCycles,
		Mode:        string(render.ModeColor),
	}
}

// ParseRequest parses command-line style arguments over defaults,
// e.g. "-size 80x40 -land 45 -seed 7".
func ParseRequest(args []string, defaults Request) (Request, error) {
	r := defaults
	size := fmt.Sprintf("%dx%d", r.Width, r.Height)
	persistence := float64(r.Persistence)

	fs := flag.NewFlagSet("generate", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&size, "size", size, "map size as WxH")
	fs.IntVar(&r.Octaves, "octaves", r.Octaves, "noise octaves")
	fs.Float64Var(&persistence, "persistence", persistence, "octave amplitude decay")
	fs.IntVar(&r.Land, "land", r.Land, "target land percent")
	fs.IntVar(&r.Water, "water", r.Water, "fixed sea level (negative calibrates)")
	fs.IntVar(&r.Tidy, "tidy", r.Tidy, "tidy cycles")
	fs.Int64Var(&r.Seed, "seed", r.Seed, "random seed (0 = random)")
	fs.StringVar(&r.Mode, "mode", r.Mode, "render mode (digits, binary, color)")
	if err := fs.Parse(args); err != nil {
		return r, fmt.Errorf("parse request: %w", err)
	}
	if fs.NArg() > 0 {
		return r, fmt.Errorf("parse request: unexpected argument %q", fs.Arg(0))
	}

	w, h, err := maps.ParseSize(size)
	if err != nil {
		return r, err
	}
	r.Width, r.Height = w, h
	r.Persistence = float32(persistence)
	return r, nil
}

// Validate checks the request against the server limits. Parameter ranges
// the generator itself enforces are left to it.
func (r Request) Validate(l config.LimitSettings) error {
	if r.Width > l.MaxWidth || r.Height > l.MaxHeight {
		return fmt.Errorf("size %dx%d exceeds limit %dx%d", r.Width, r.Height, l.MaxWidth, l.MaxHeight)
	}
	if r.Octaves > l.MaxOctaves {
		return fmt.Errorf("octaves %d exceeds limit %d", r.Octaves, l.MaxOctaves)
	}
	if r.Tidy > terrain.DefaultTidyCycles*4 {
		return fmt.Errorf("tidy cycles %d exceeds limit %d", r.Tidy, terrain.DefaultTidyCycles*4)
	}
	if _, err := render.ParseMode(r.Mode); err != nil {
		return err
	}
	return nil
}

// Generated is a served map plus bookkeeping for logs.
type Generated struct {
	ID       uuid.UUID
	Map      *maps.Map
	Attempts int
	Elapsed  time.Duration
}

// Generate runs the request with its own random source.
func (r Request) Generate() (*Generated, error) {
	id := uuid.New()
	seed := r.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	start := time.Now()
	c := terrain.NewCalibrator(rand.New(rand.NewSource(seed)))
	p := terrain.NoiseParams{Octaves: r.Octaves, Persistence: r.Persistence}
	name := fmt.Sprintf("map-%d", seed)

	out := &Generated{ID: id}
	if r.Water >= 0 {
		g, err := c.GenerateAt(r.Width, r.Height, p, r.Water, r.Tidy)
		if err != nil {
			log.Printf("[%s] generate failed: %v", id, err)
			return nil, err
		}
		out.Map = maps.FromGrid(name, seed, r.Water, g)
		out.Attempts = 1
	} else {
		t := terrain.DefaultTarget(r.Land)
		t.TidyCycles = r.Tidy
		res, err := c.Generate(r.Width, r.Height, p, t)
		if err != nil {
			var ex *terrain.ExhaustedError
			if errors.As(err, &ex) {
				log.Printf("[%s] %dx%d land %d%%: exhausted after %d attempts (closest %.1f%%)",
					id, r.Width, r.Height, r.Land, ex.Attempts, ex.ClosestFraction*100)
			} else {
				log.Printf("[%s] generate failed: %v", id, err)
			}
			return nil, err
		}
		out.Map = maps.FromResult(name, seed, res)
		out.Attempts = res.TotalAttempts
	}

	out.Elapsed = time.Since(start)
	log.Printf("[%s] %dx%d seed %d: sea level %d, land %.1f%%, %d attempts in %s",
		id, r.Width, r.Height, seed, out.Map.SeaLevel, out.Map.LandFraction*100, out.Attempts, out.Elapsed.Round(time.Millisecond))
	return out, nil
}
