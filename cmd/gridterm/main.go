// Command gridterm runs the headless simulation and draws the grid in a
// terminal with tcell.
package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/pthm-cable/tilewalk/config"
	"github.com/pthm-cable/tilewalk/game"
	"github.com/pthm-cable/tilewalk/grid"
)

var (
	styleFloor  = tcell.StyleDefault.Foreground(tcell.NewRGBColor(70, 70, 90))
	styleWall   = tcell.StyleDefault.Foreground(tcell.NewRGBColor(150, 150, 170)).Background(tcell.NewRGBColor(50, 50, 65))
	stylePlayer = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleWalker = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleCrate  = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleStatus = tcell.StyleDefault.Foreground(tcell.NewRGBColor(180, 180, 180))
)

var arrowKeys = map[tcell.Key]grid.Direction{
	tcell.KeyLeft:  grid.Left,
	tcell.KeyRight: grid.Right,
	tcell.KeyUp:    grid.Up,
	tcell.KeyDown:  grid.Down,
}

type viewer struct {
	screen tcell.Screen
	game   *game.Game
}

func main() {
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	seed := flag.Int64("seed", 0, "RNG seed (0 = config, then time-based)")
	logPath := flag.String("log", "", "Write JSON logs to this file (empty = discard)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading config: %v\n", err)
		os.Exit(1)
	}

	// The terminal owns stdout, so logs go to a file or nowhere
	var out io.Writer = io.Discard
	if *logPath != "" {
		f, err := os.Create(*logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "creating log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}
	logger := slog.New(slog.NewJSONHandler(out, nil))

	g, err := game.New(game.Options{
		Config:   cfg,
		Seed:     *seed,
		Headless: true,
		Logger:   logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating game: %v\n", err)
		os.Exit(1)
	}
	defer g.Unload()

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "initializing screen: %v\n", err)
		os.Exit(1)
	}
	defer screen.Fini()

	v := &viewer{screen: screen, game: g}
	v.run(time.Duration(cfg.Simulation.DT * float64(time.Second)))
}

func (v *viewer) run(frame time.Duration) {
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	eventChan := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := v.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	for {
		select {
		case ev := <-eventChan:
			if !v.handleInput(ev) {
				return
			}
		case <-ticker.C:
			v.game.UpdateHeadless()
			v.draw()
		}
	}
}

func (v *viewer) handleInput(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
			return false
		}
		if d, ok := arrowKeys[ev.Key()]; ok {
			v.game.MovePlayer(d)
			return true
		}
		if ev.Key() == tcell.KeyRune {
			switch ev.Rune() {
			case 'q':
				return false
			case ' ', 'p':
				v.game.SetPaused(!v.game.Paused())
			case 'a':
				c := v.game.Controls()
				c.Adaptive = !c.Adaptive
				v.game.SetControls(c)
			}
		}
	case *tcell.EventResize:
		v.screen.Sync()
	}
	return true
}

func (v *viewer) draw() {
	v.screen.Clear()
	g := v.game
	gr := g.Grid()

	gr.ForEachTile(func(t grid.Tile) {
		if t.Collidable {
			v.screen.SetContent(t.Index.Col, t.Index.Row, '#', nil, styleWall)
		} else {
			v.screen.SetContent(t.Index.Col, t.Index.Row, '.', nil, styleFloor)
		}
	})

	for _, e := range gr.Children() {
		t, ok := gr.TileOccupiedByChild(e)
		if !ok {
			continue
		}
		r, style := 'o', styleWalker
		if c, ok := g.Scene().Collider(e); ok {
			switch c.Group {
			case game.GroupPlayer:
				r, style = '@', stylePlayer
			case game.GroupCrate:
				r, style = '%', styleCrate
			}
		}
		v.screen.SetContent(t.Index.Col, t.Index.Row, r, nil, style)
	}

	state := "running"
	if g.Paused() {
		state = "paused"
	}
	status := fmt.Sprintf("tick %d | %s | walkers %d | moving %d | arrivals %d | adaptive %v | arrows move, space pause, a adaptive, q quit",
		g.Tick(), state, len(g.Walkers()), g.Moving(), g.Arrivals(), g.Controls().Adaptive)
	for i, r := range []rune(status) {
		v.screen.SetContent(i, gr.Rows()+1, r, nil, styleStatus)
	}

	v.screen.Show()
}
