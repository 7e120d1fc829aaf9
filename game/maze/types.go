package maze

// CellType represents different types of maze cells
type CellType string

const (
	Wall   CellType = "wall"
	Path   CellType = "path"
	Start  CellType = "start"
	Exit   CellType = "exit"
	Gold   CellType = "gold"
	Trap   CellType = "trap"
	Locker CellType = "locker"
	Boss   CellType = "boss"

	// Resource values
	GoldValue   = 50
	TrapPenalty = 30

	// Validation constants
	MinMazeSize = 3
	MaxMazeSize = 50
)

// Position represents x,y coordinates on the grid. X is the column
// index, Y the row index.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Neighbor pairs an adjacent position with its cell type.
type Neighbor struct {
	Pos  Position `json:"pos"`
	Cell CellType `json:"cell"`
}

// Symbols maps layout characters to cell types. It is passed into Parse
// explicitly so callers can rebind characters per puzzle pack without any
// process-wide state.
type Symbols struct {
	Wall   byte `json:"wall"`
	Path   byte `json:"path"`
	Start  byte `json:"start"`
	Exit   byte `json:"exit"`
	Gold   byte `json:"gold"`
	Trap   byte `json:"trap"`
	Locker byte `json:"locker"`
	Boss   byte `json:"boss"`
}

// DefaultSymbols returns the standard character set used by the maze
// generator collaborator.
func DefaultSymbols() Symbols {
	return Symbols{
		Wall:   '#',
		Path:   ' ',
		Start:  'S',
		Exit:   'E',
		Gold:   'G',
		Trap:   'T',
		Locker: 'L',
		Boss:   'B',
	}
}

// cellFor resolves a layout character to its cell type.
func (s Symbols) cellFor(ch byte) (CellType, bool) {
	switch ch {
	case s.Wall:
		return Wall, true
	case s.Path:
		return Path, true
	case s.Start:
		return Start, true
	case s.Exit:
		return Exit, true
	case s.Gold:
		return Gold, true
	case s.Trap:
		return Trap, true
	case s.Locker:
		return Locker, true
	case s.Boss:
		return Boss, true
	}
	return "", false
}

// ResourceValue returns the resource value collected when stepping onto a
// cell of the given type. Gold pays out, traps cost, everything else is
// neutral.
func ResourceValue(c CellType) int {
	switch c {
	case Gold:
		return GoldValue
	case Trap:
		return -TrapPenalty
	}
	return 0
}
