package grid

// Direction is one of the eight compass directions, or None.
type Direction uint8

const (
	None Direction = iota
	Left
	Right
	Up
	Down
	UpLeft
	UpRight
	DownLeft
	DownRight
)

// Directions lists every movement direction in declaration order.
var Directions = [...]Direction{Left, Right, Up, Down, UpLeft, UpRight, DownLeft, DownRight}

var directionOffsets = [...][2]int{
	None:      {0, 0},
	Left:      {0, -1},
	Right:     {0, 1},
	Up:        {-1, 0},
	Down:      {1, 0},
	UpLeft:    {-1, -1},
	UpRight:   {-1, 1},
	DownLeft:  {1, -1},
	DownRight: {1, 1},
}

var directionNames = [...]string{
	None:      "none",
	Left:      "left",
	Right:     "right",
	Up:        "up",
	Down:      "down",
	UpLeft:    "up_left",
	UpRight:   "up_right",
	DownLeft:  "down_left",
	DownRight: "down_right",
}

// Valid reports whether d is one of the eight movement directions.
func (d Direction) Valid() bool {
	return d >= Left && d <= DownRight
}

// Offset returns the row and column deltas of the direction.
// Rows grow downwards, columns grow to the right.
func (d Direction) Offset() (dRow, dCol int) {
	if int(d) >= len(directionOffsets) {
		return 0, 0
	}
	o := directionOffsets[d]
	return o[0], o[1]
}

// IsDiagonal reports whether the direction moves along both axes.
func (d Direction) IsDiagonal() bool {
	return d >= UpLeft && d <= DownRight
}

// IsHorizontal reports whether the direction is Left or Right.
func (d Direction) IsHorizontal() bool {
	return d == Left || d == Right
}

// IsVertical reports whether the direction is Up or Down.
func (d Direction) IsVertical() bool {
	return d == Up || d == Down
}

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction {
	dRow, dCol := d.Offset()
	return directionFromOffset(-dRow, -dCol)
}

func (d Direction) String() string {
	if int(d) >= len(directionNames) {
		return "unknown"
	}
	return directionNames[d]
}

// DirectionBetween returns the direction that steps from one index to an
// adjacent one. Returns None if the indices are equal or not 8-adjacent.
func DirectionBetween(from, to Index) Direction {
	dRow, dCol := to.Row-from.Row, to.Col-from.Col
	if abs(dRow) > 1 || abs(dCol) > 1 {
		return None
	}
	return directionFromOffset(dRow, dCol)
}

func directionFromOffset(dRow, dCol int) Direction {
	for d, o := range directionOffsets {
		if o[0] == dRow && o[1] == dCol {
			return Direction(d)
		}
	}
	return None
}
