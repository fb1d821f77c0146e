package pointer

// CellAspect is the height of a terminal cell in pointer units, where the
// cell width is one unit. Pointer space is kept square so angles measured in
// it match what is seen on screen.
const CellAspect = 2

// CellEvent converts a terminal cell position to a pointer event.
func CellEvent(col, row int) Event {
	return Event{X: float64(col), Y: float64(row) * CellAspect}
}
