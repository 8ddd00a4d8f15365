package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"image"
	"os"
	"sort"
	"strings"
	"time"

	"monster-maker/internal/geom"
	"monster-maker/internal/record"
	"monster-maker/internal/render"
	"monster-maker/internal/session"
	"monster-maker/internal/shape"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "png":
		os.Exit(runPNG(args))
	case "viz":
		os.Exit(runViz(args))
	case "stats":
		os.Exit(runStats(args))
	case "json":
		os.Exit(runJSON(args))
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: monstergen <command> [flags]

Commands:
  png    [-seed N] [-width W] [-caption T] [-out file.png]   Generate a monster and write a PNG
  viz    [-seed N] [-width W]                                Render a monster as half-block ANSI art
  stats  [-seed N] [-n COUNT]                                Generate COUNT monsters and check their layout
  json   [-seed N] [-out file.json]                          Dump a monster's shapes as JSON`)
}

func seedFlag(fs *flag.FlagSet) *uint64 {
	return fs.Uint64("seed", 0, "random seed (0 = random)")
}

// generate builds one monster. A zero seed is replaced with the clock.
func generate(seed uint64) (*session.Session, uint64, error) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	s := session.New(geom.NewRand(seed))
	if _, err := s.Generate(); err != nil {
		return nil, seed, err
	}
	return s, seed, nil
}

// --- png ---

func runPNG(args []string) int {
	fs := flag.NewFlagSet("png", flag.ExitOnError)
	seed := seedFlag(fs)
	width := fs.Int("width", shape.CanvasWidth, "image width in pixels")
	caption := fs.String("caption", "", "text drawn in the corner")
	out := fs.String("out", "monster.png", "output file")
	fs.Parse(args)

	s, used, err := generate(*seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer f.Close()

	if err := record.EncodePNG(f, s.Snapshot(), *width, *caption); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stderr, "Wrote %s (seed %d, %d shapes)\n", *out, used, s.Len())
	return 0
}

// --- viz ---

func runViz(args []string) int {
	fs := flag.NewFlagSet("viz", flag.ExitOnError)
	seed := seedFlag(fs)
	width := fs.Int("width", 80, "width in terminal columns")
	fs.Parse(args)

	s, used, err := generate(*seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	w := geom.ClampValue(*width, 8, 400)
	img := image.NewRGBA(image.Rect(0, 0, w, w*shape.CanvasHeight/shape.CanvasWidth))
	snap := s.Snapshot()
	render.NewRasterizer().DrawScene(img, render.Scene{
		Shapes:          snap.Shapes,
		Background:      snap.Background,
		HideAffordances: true,
	})

	fmt.Printf("Monster (seed %d, %d shapes, background %s)\n", used, s.Len(), snap.Background.Color)
	fmt.Print(render.HalfBlocks(img))
	for _, sh := range snap.Shapes {
		fmt.Printf("  %-6s %s size=%3d at (%3d,%3d)\n", sh.Kind, sh.Color, sh.Size, sh.X, sh.Y)
	}
	return 0
}

// --- stats ---

func runStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	seed := seedFlag(fs)
	n := fs.Int("n", 100, "number of monsters")
	fs.Parse(args)

	base := *seed
	if base == 0 {
		base = uint64(time.Now().UnixNano())
	}

	counts := make(map[shape.Kind]int)
	totals := make(map[int]int)
	violations := 0
	for i := 0; i < *n; i++ {
		s, used, err := generate(base + uint64(i))
		if err != nil {
			fmt.Printf("  ERROR: seed %d: %v\n", used, err)
			violations++
			continue
		}
		totals[s.Len()]++
		for _, sh := range s.Shapes() {
			counts[sh.Kind]++
		}
		for _, msg := range checkLayout(s.Shapes()) {
			fmt.Printf("  ERROR: seed %d: %s\n", used, msg)
			violations++
		}
	}

	fmt.Printf("%d monsters from seed %d\n\n", *n, base)
	for _, k := range shape.Kinds {
		avg := float64(counts[k]) / float64(max(*n, 1))
		fmt.Printf("  %-6s %5d  (%.2f per monster) %s\n", k, counts[k], avg, strings.Repeat("█", int(avg*4)))
	}

	sizes := make([]int, 0, len(totals))
	for size := range totals {
		sizes = append(sizes, size)
	}
	sort.Ints(sizes)
	fmt.Println("\nShapes per monster:")
	for _, size := range sizes {
		fmt.Printf("  %2d: %d\n", size, totals[size])
	}

	if violations > 0 {
		fmt.Printf("\n%d violation(s) found\n", violations)
		return 1
	}
	fmt.Println("\nAll monsters valid")
	return 0
}

// checkLayout reports shapes that break the generated layout rules.
func checkLayout(shapes []shape.Shape) []string {
	var problems []string
	if len(shapes) == 0 || shapes[0].Kind != shape.Body {
		return []string{"first shape is not a body"}
	}
	if len(shapes) > shape.MaxShapes {
		problems = append(problems, fmt.Sprintf("%d shapes exceeds %d", len(shapes), shape.MaxShapes))
	}
	body := shapes[0].Bounds()
	canvas := geom.Rect{W: shape.CanvasWidth, H: shape.CanvasHeight}
	if !body.Inside(canvas) {
		problems = append(problems, "body leaves the canvas")
	}
	for _, sh := range shapes[1:] {
		if !sh.Bounds().Inside(body) {
			problems = append(problems, fmt.Sprintf("%s outside body", sh))
		}
	}
	return problems
}

// --- json ---

type jsonShape struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	ClipPath string `json:"clipPath"`
	Color    string `json:"color"`
	Size     int    `json:"size"`
	X        int    `json:"x"`
	Y        int    `json:"y"`
}

type jsonMonster struct {
	Seed       uint64      `json:"seed"`
	Background string      `json:"background"`
	Shapes     []jsonShape `json:"shapes"`
}

func runJSON(args []string) int {
	fs := flag.NewFlagSet("json", flag.ExitOnError)
	seed := seedFlag(fs)
	out := fs.String("out", "", "output file (default: stdout)")
	fs.Parse(args)

	s, used, err := generate(*seed)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	m := jsonMonster{Seed: used, Background: s.Background().Color.Hex()}
	for _, sh := range s.Shapes() {
		m.Shapes = append(m.Shapes, jsonShape{
			ID:       sh.ID,
			Kind:     string(sh.Kind),
			ClipPath: string(sh.ClipPath),
			Color:    sh.Color.Hex(),
			Size:     sh.Size,
			X:        sh.X,
			Y:        sh.Y,
		})
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if *out == "" {
		fmt.Println(string(data))
		return 0
	}
	if err := os.WriteFile(*out, append(data, '\n'), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
