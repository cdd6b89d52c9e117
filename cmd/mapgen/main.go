package main

import (
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"
	"time"

	"perlin-map/internal/maps"
	"perlin-map/internal/render"
	"perlin-map/internal/terrain"
)

func main() {
	size := flag.String("size", "60x30", "map size as WxH")
	octaves := flag.Int("octaves", 3, "noise octaves (generally 3-7)")
	persistence := flag.Float64("persistence", 0.5, "octave amplitude decay")
	land := flag.Int("land", 30, "target land percent (0-100)")
	water := flag.Int("water", -1, "fixed sea level, skips calibration (negative = calibrate)")
	tidy := flag.Int("tidy", terrain.DefaultTidyCycles, "tidy cycles")
	seed := flag.Int64("seed", 0, "random seed (0 = random)")
	out := flag.String("render", "digits", "output: digits, binary, color or json")
	stats := flag.Bool("stats", false, "print band distribution to stderr")
	quiet := flag.Bool("q", false, "suppress progress output")
	flag.Parse()

	w, h, err := maps.ParseSize(*size)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var mode render.Mode
	if *out != "json" {
		if mode, err = render.ParseMode(*out); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	progress := func(format string, args ...any) {
		if !*quiet {
			fmt.Fprintf(os.Stderr, format, args...)
		}
	}

	progress("Generating %dx%d map (seed %d)...\n", w, h, *seed)

	c := terrain.NewCalibrator(rand.New(rand.NewSource(*seed)))
	p := terrain.NoiseParams{Octaves: *octaves, Persistence: float32(*persistence)}
	name := fmt.Sprintf("map-%d", *seed)

	var m *maps.Map
	if *water >= 0 {
		g, err := c.GenerateAt(w, h, p, *water, *tidy)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		m = maps.FromGrid(name, *seed, *water, g)
	} else {
		c.Observer = func(a terrain.Attempt) {
			if a.Accepted || a.Index == 0 {
				progress("  sea level %2d attempt %3d: land %5.1f%%\n", a.SeaLevel, a.Index+1, a.LandFraction*100)
			}
		}
		t := terrain.DefaultTarget(*land)
		t.TidyCycles = *tidy
		res, err := c.Generate(w, h, p, t)
		if err != nil {
			if errors.Is(err, terrain.ErrGenerationExhausted) {
				fmt.Fprintf(os.Stderr, "Error: %v\nTry a different target, octave count or persistence.\n", err)
				os.Exit(2)
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		progress("Accepted at sea level %d after %d attempts\n", res.SeaLevel, res.TotalAttempts)
		m = maps.FromResult(name, *seed, res)
	}

	if *out == "json" {
		if err := m.WriteJSON(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	} else {
		os.Stdout.WriteString(render.Text(m, mode))
	}

	if *stats {
		printStats(m)
	}
}

func printStats(m *maps.Map) {
	total := m.Width * m.Height
	fmt.Fprintf(os.Stderr, "\n%s (%dx%d = %d cells, sea level %d)\n\n", m.Name, m.Width, m.Height, total, m.SeaLevel)
	for _, e := range m.Distribution() {
		pct := float64(e.Count) / float64(total) * 100
		bar := strings.Repeat("█", int(pct/2))
		fmt.Fprintf(os.Stderr, "  %-10s %5d (%5.1f%%) %s\n", e.Name, e.Count, pct, bar)
	}
	fmt.Fprintf(os.Stderr, "\nLand: %.1f%%\n", m.LandFraction*100)
}
