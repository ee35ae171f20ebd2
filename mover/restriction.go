package mover

import (
	"fmt"

	"github.com/pthm-cable/tilewalk/grid"
)

// Restriction limits which directions a mover accepts.
type Restriction uint8

const (
	RestrictNone        Restriction = iota // All eight directions
	RestrictAll                            // No movement at all
	RestrictHorizontal                     // Left and right only
	RestrictVertical                       // Up and down only
	RestrictDiagonal                       // Diagonals only
	RestrictNonDiagonal                    // Left, right, up and down
)

var restrictionNames = [...]string{
	RestrictNone:        "none",
	RestrictAll:         "all",
	RestrictHorizontal:  "horizontal",
	RestrictVertical:    "vertical",
	RestrictDiagonal:    "diagonal",
	RestrictNonDiagonal: "non_diagonal",
}

func (r Restriction) String() string {
	if int(r) >= len(restrictionNames) {
		return "unknown"
	}
	return restrictionNames[r]
}

// ParseRestriction converts a config name into a Restriction.
func ParseRestriction(s string) (Restriction, error) {
	for i, name := range restrictionNames {
		if name == s {
			return Restriction(i), nil
		}
	}
	return 0, fmt.Errorf("unknown movement restriction %q", s)
}

// Allows reports whether d may be requested under the restriction.
func (r Restriction) Allows(d grid.Direction) bool {
	if !d.Valid() {
		return false
	}
	switch r {
	case RestrictNone:
		return true
	case RestrictHorizontal:
		return d.IsHorizontal()
	case RestrictVertical:
		return d.IsVertical()
	case RestrictDiagonal:
		return d.IsDiagonal()
	case RestrictNonDiagonal:
		return !d.IsDiagonal()
	}
	return false
}

// AllowsCardinal reports whether all four of up, down, left and right are
// allowed, which path following needs.
func (r Restriction) AllowsCardinal() bool {
	return r == RestrictNone || r == RestrictNonDiagonal
}

// AllowsDiagonal reports whether any diagonal direction is allowed.
// Such restrictions need equal speeds on both axes.
func (r Restriction) AllowsDiagonal() bool {
	return r == RestrictNone || r == RestrictDiagonal
}
