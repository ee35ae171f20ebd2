// Package renderer draws the tile grid and its entities with raylib.
package renderer

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/tilewalk/camera"
)

// Camera2D converts the pan/zoom camera into a raylib camera for
// rl.BeginMode2D.
func Camera2D(c *camera.Camera) rl.Camera2D {
	return rl.Camera2D{
		Offset:   rl.NewVector2(c.ViewportW/2, c.ViewportH/2),
		Target:   rl.NewVector2(c.X, c.Y),
		Rotation: 0,
		Zoom:     c.Zoom,
	}
}
