package grid

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrEmptyMap is returned when a map source yields no rows.
	ErrEmptyMap = errors.New("grid: map has no rows")
	// ErrRaggedMap is returned when map rows differ in length.
	ErrRaggedMap = errors.New("grid: map rows differ in length")
)

// Construct fills the grid with rows x cols tiles that all share one id.
func (g *Grid) Construct(rows, cols int, id byte) error {
	if rows <= 0 || cols <= 0 {
		return fmt.Errorf("constructing %dx%d grid: %w", rows, cols, ErrEmptyMap)
	}
	ids := make([][]byte, rows)
	for r := range ids {
		ids[r] = bytes.Repeat([]byte{id}, cols)
	}
	g.build(ids)
	return nil
}

// LoadFromVector builds tiles from a row-major table of tile ids.
func (g *Grid) LoadFromVector(ids [][]byte) error {
	if len(ids) == 0 || len(ids[0]) == 0 {
		return ErrEmptyMap
	}
	for r, row := range ids {
		if len(row) != len(ids[0]) {
			return fmt.Errorf("row %d has %d tiles, want %d: %w", r, len(row), len(ids[0]), ErrRaggedMap)
		}
	}
	copied := make([][]byte, len(ids))
	for r, row := range ids {
		copied[r] = append([]byte(nil), row...)
	}
	g.build(copied)
	return nil
}

// LoadFromReader parses a text map: one row per line, one character per tile.
// Blank lines and lines starting with '#' are skipped. When sep is non-zero
// every occurrence of it is stripped before the row is read.
func (g *Grid) LoadFromReader(r io.Reader, sep byte) error {
	ids, err := parseMap(r, sep)
	if err != nil {
		return err
	}
	return g.LoadFromVector(ids)
}

// LoadFromFile reads a text map from disk. See LoadFromReader for the format.
func (g *Grid) LoadFromFile(path string, sep byte) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening map file: %w", err)
	}
	defer f.Close()

	if err := g.LoadFromReader(f, sep); err != nil {
		return fmt.Errorf("loading map %s: %w", path, err)
	}
	g.logger.Debug("grid loaded", "path", path, "rows", g.rows, "cols", g.cols)
	return nil
}

func parseMap(r io.Reader, sep byte) ([][]byte, error) {
	var ids [][]byte
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 || line[0] == '#' {
			continue
		}
		row := make([]byte, 0, len(line))
		for _, c := range line {
			if sep != 0 && c == sep {
				continue
			}
			row = append(row, c)
		}
		if len(row) == 0 {
			continue
		}
		ids = append(ids, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading map: %w", err)
	}
	if len(ids) == 0 {
		return nil, ErrEmptyMap
	}
	return ids, nil
}

// build replaces every tile. Existing children are detached and colliders
// released, since their indices no longer describe the new map.
func (g *Grid) build(ids [][]byte) {
	g.RemoveAllChildren()
	g.releaseColliders()

	g.rows = len(ids)
	g.cols = len(ids[0])
	g.width = float32(g.cols)*(g.tileW+g.spacing) + g.spacing
	g.height = float32(g.rows)*(g.tileH+g.spacing) + g.spacing

	g.tiles = make([]Tile, 0, g.rows*g.cols)
	for r, row := range ids {
		for c, id := range row {
			g.tiles = append(g.tiles, Tile{
				Index:   Index{Row: r, Col: c},
				ID:      id,
				X:       g.x + g.spacing + float32(c)*(g.tileW+g.spacing),
				Y:       g.y + g.spacing + float32(r)*(g.tileH+g.spacing),
				W:       g.tileW,
				H:       g.tileH,
				Visible: true,
				Fill:    g.style.Fill,
			})
		}
	}
}
