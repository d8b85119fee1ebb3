package game

const (
	BoardWidth  = 10
	BoardHeight = 20
)

// PlayField is the cell grid. A cell is 0 when empty, a positive color id
// when occupied, and a negative color id when it only carries the active
// piece's ghost. Ghost cells never block a placement.
type PlayField struct {
	cells  [][]int
	width  int
	height int
}

// NewPlayField creates an empty grid of the given size.
func NewPlayField(width, height int) *PlayField {
	f := &PlayField{width: width, height: height}
	f.cells = make([][]int, height)
	for y := range f.cells {
		f.cells[y] = make([]int, width)
	}
	return f
}

func (f *PlayField) Width() int  { return f.width }
func (f *PlayField) Height() int { return f.height }

// Cell returns the raw value at (x, y).
func (f *PlayField) Cell(x, y int) int {
	return f.cells[y][x]
}

// Cells returns a copy of the grid, row-major.
func (f *PlayField) Cells() [][]int {
	out := make([][]int, f.height)
	for y := range f.cells {
		out[y] = make([]int, f.width)
		copy(out[y], f.cells[y])
	}
	return out
}

// Reset empties every cell.
func (f *PlayField) Reset() {
	for y := range f.cells {
		clear(f.cells[y])
	}
}

// IsValidPlacement reports whether every block of p lies inside the
// horizontal bounds, above the floor, and (when on the visible grid) on a
// cell that holds no locked block. Rows above the grid are always free.
func (f *PlayField) IsValidPlacement(p *Piece) bool {
	for _, b := range p.Blocks() {
		if b.Pos.X < 0 || b.Pos.X >= f.width {
			return false
		}
		if b.Pos.Y >= f.height {
			return false
		}
		if b.Pos.Y >= 0 && f.cells[b.Pos.Y][b.Pos.X] > 0 {
			return false
		}
	}
	return true
}

// Stamp writes p into the grid at its current position and refreshes the
// ghost projection below it.
func (f *PlayField) Stamp(p *Piece) {
	f.clearGhost()
	f.stampGhost(p)
	for _, b := range p.Blocks() {
		if b.Pos.Y < 0 {
			continue
		}
		f.cells[b.Pos.Y][b.Pos.X] = b.Color
	}
}

// Erase removes p's cells and every ghost marker from the grid.
func (f *PlayField) Erase(p *Piece) {
	for _, b := range p.Blocks() {
		if b.Pos.Y < 0 {
			continue
		}
		f.cells[b.Pos.Y][b.Pos.X] = 0
	}
	f.clearGhost()
}

// stampGhost marks the lowest valid landing cells of p with negative color
// ids. p.Position is restored before returning.
func (f *PlayField) stampGhost(p *Piece) {
	if !f.IsValidPlacement(p) {
		return
	}
	orig := p.Position
	for {
		p.Position.Y++
		if !f.IsValidPlacement(p) {
			p.Position.Y--
			break
		}
	}
	for _, b := range p.Blocks() {
		if b.Pos.Y >= 0 && f.cells[b.Pos.Y][b.Pos.X] == 0 {
			f.cells[b.Pos.Y][b.Pos.X] = -b.Color
		}
	}
	p.Position = orig
}

func (f *PlayField) clearGhost() {
	for y := range f.cells {
		for x, v := range f.cells[y] {
			if v < 0 {
				f.cells[y][x] = 0
			}
		}
	}
}

// FindFullRows returns, top to bottom, the rows whose every cell holds a
// locked block.
func (f *PlayField) FindFullRows() []int {
	var rows []int
	for y := 0; y < f.height; y++ {
		full := true
		for x := 0; x < f.width; x++ {
			if f.cells[y][x] <= 0 {
				full = false
				break
			}
		}
		if full {
			rows = append(rows, y)
		}
	}
	return rows
}

// ClearRows empties the given rows, then for each of them in order shifts
// everything above it down by one row. Row 0 is left empty after each shift.
func (f *PlayField) ClearRows(rows []int) {
	for _, row := range rows {
		clear(f.cells[row])
	}
	for _, row := range rows {
		f.shiftDown(row)
	}
}

func (f *PlayField) shiftDown(row int) {
	for y := row; y > 0; y-- {
		copy(f.cells[y], f.cells[y-1])
	}
	clear(f.cells[0])
}
