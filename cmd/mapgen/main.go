// Command mapgen writes a random text map for the grid loader. Walls come
// from thresholded simplex noise, the border is always solid and open
// pockets cut off from the largest open region are filled in.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ojrac/opensimplex-go"
)

const (
	openID  = '.'
	solidID = 'X'
)

// params controls map generation.
type params struct {
	Rows      int
	Cols      int
	Seed      int64
	Threshold float64 // Noise above this becomes a wall
	Scale     float64 // Noise frequency per tile
}

func main() {
	rows := flag.Int("rows", 20, "Map rows")
	cols := flag.Int("cols", 32, "Map columns")
	seed := flag.Int64("seed", 0, "Noise seed (0 = time-based)")
	threshold := flag.Float64("threshold", 0.62, "Noise level above which a tile becomes a wall")
	scale := flag.Float64("scale", 0.18, "Noise frequency per tile")
	outPath := flag.String("out", "", "Output file (empty = stdout)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	p := params{Rows: *rows, Cols: *cols, Seed: *seed, Threshold: *threshold, Scale: *scale}
	if p.Seed == 0 {
		p.Seed = time.Now().UnixNano()
	}

	ids, err := generate(p)
	if err != nil {
		logger.Error("failed to generate map", "error", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			logger.Error("failed to create output", "error", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	if err := write(out, p, ids); err != nil {
		logger.Error("failed to write map", "error", err)
		os.Exit(1)
	}
	logger.Info("map generated", "rows", p.Rows, "cols", p.Cols, "seed", p.Seed, "open", countOpen(ids))
}

// generate builds a rows x cols table of tile ids.
func generate(p params) ([][]byte, error) {
	if p.Rows < 3 || p.Cols < 3 {
		return nil, fmt.Errorf("map must be at least 3x3, got %dx%d", p.Rows, p.Cols)
	}
	if p.Scale <= 0 {
		p.Scale = 0.18
	}

	noise := opensimplex.NewNormalized(p.Seed)
	ids := make([][]byte, p.Rows)
	for r := range ids {
		ids[r] = make([]byte, p.Cols)
		for c := range ids[r] {
			border := r == 0 || c == 0 || r == p.Rows-1 || c == p.Cols-1
			if border || noise.Eval2(float64(c)*p.Scale, float64(r)*p.Scale) > p.Threshold {
				ids[r][c] = solidID
			} else {
				ids[r][c] = openID
			}
		}
	}
	fillPockets(ids)
	return ids, nil
}

// fillPockets keeps the largest 4-connected open region and walls off the
// rest, so every open tile is reachable from every other.
func fillPockets(ids [][]byte) {
	rows, cols := len(ids), len(ids[0])
	region := make([]int, rows*cols)
	var sizes []int

	for start := range region {
		r, c := start/cols, start%cols
		if ids[r][c] != openID || region[start] != 0 {
			continue
		}
		label := len(sizes) + 1
		size := 0
		stack := []int{start}
		region[start] = label
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			size++
			cr, cc := cur/cols, cur%cols
			for _, d := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				nr, nc := cr+d[0], cc+d[1]
				if nr < 0 || nc < 0 || nr >= rows || nc >= cols {
					continue
				}
				n := nr*cols + nc
				if ids[nr][nc] == openID && region[n] == 0 {
					region[n] = label
					stack = append(stack, n)
				}
			}
		}
		sizes = append(sizes, size)
	}

	keep := 0
	for i, s := range sizes {
		if keep == 0 || s > sizes[keep-1] {
			keep = i + 1
		}
	}
	for i, label := range region {
		if label != 0 && label != keep {
			ids[i/cols][i%cols] = solidID
		}
	}
}

func countOpen(ids [][]byte) int {
	n := 0
	for _, row := range ids {
		for _, id := range row {
			if id == openID {
				n++
			}
		}
	}
	return n
}

// write emits the map with a comment header the loader skips.
func write(w io.Writer, p params, ids [][]byte) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "# mapgen rows=%d cols=%d seed=%d threshold=%g\n", p.Rows, p.Cols, p.Seed, p.Threshold)
	for _, row := range ids {
		bw.Write(row)
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
