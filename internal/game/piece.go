package game

import "fmt"

type PieceType int

const (
	PieceSquare PieceType = iota
	PieceI
	PieceJ
	PieceL
	PieceT
	PieceS
	PieceZ

	// PieceTypeCount is the number of tetromino variants.
	PieceTypeCount = 7
)

var pieceNames = [PieceTypeCount]string{"Square", "I", "J", "L", "T", "S", "Z"}

func (t PieceType) String() string {
	if t < 0 || t >= PieceTypeCount {
		return fmt.Sprintf("PieceType(%d)", int(t))
	}
	return pieceNames[t]
}

// ParsePieceType maps a name produced by PieceType.String back to the type.
func ParsePieceType(name string) (PieceType, bool) {
	for i, n := range pieceNames {
		if n == name {
			return PieceType(i), true
		}
	}
	return 0, false
}

type pieceTemplate struct {
	shape [][]int
	spawn Point
}

// Shape values are color ids; 0 is an empty cell. S, Z and T use a 5x5
// matrix so their rotations pivot on a center cell.
var pieceTemplates = [PieceTypeCount]pieceTemplate{
	PieceSquare: {
		shape: [][]int{
			{0, 0, 0, 0},
			{0, 1, 1, 0},
			{0, 1, 1, 0},
			{0, 0, 0, 0},
		},
		spawn: Point{X: 3, Y: -1},
	},
	PieceI: {
		shape: [][]int{
			{0, 0, 0, 0},
			{0, 0, 0, 0},
			{1, 1, 1, 1},
			{0, 0, 0, 0},
		},
		spawn: Point{X: 3, Y: -2},
	},
	PieceJ: {
		shape: [][]int{
			{0, 0, 0, 0},
			{2, 2, 2, 0},
			{0, 0, 2, 0},
			{0, 0, 0, 0},
		},
		spawn: Point{X: 3, Y: -1},
	},
	PieceL: {
		shape: [][]int{
			{0, 0, 0, 0},
			{0, 2, 2, 2},
			{0, 2, 0, 0},
			{0, 0, 0, 0},
		},
		spawn: Point{X: 2, Y: -1},
	},
	PieceT: {
		shape: [][]int{
			{0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0},
			{0, 1, 1, 1, 0},
			{0, 0, 1, 0, 0},
			{0, 0, 0, 0, 0},
		},
		spawn: Point{X: 2, Y: -2},
	},
	PieceS: {
		shape: [][]int{
			{0, 0, 0, 0, 0},
			{0, 0, 3, 3, 0},
			{0, 3, 3, 0, 0},
			{0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0},
		},
		spawn: Point{X: 2, Y: -1},
	},
	PieceZ: {
		shape: [][]int{
			{0, 0, 0, 0, 0},
			{0, 3, 3, 0, 0},
			{0, 0, 3, 3, 0},
			{0, 0, 0, 0, 0},
			{0, 0, 0, 0, 0},
		},
		spawn: Point{X: 2, Y: -1},
	},
}

// Piece is a tetromino positioned on the grid. Position is the grid
// coordinate of the shape matrix's top-left corner, Origin the offset of the
// first occupied row and column within the matrix, and Size the occupied
// footprint.
type Piece struct {
	Type     PieceType
	Shape    [][]int
	Position Point
	Origin   Point
	Size     Size
}

// Block is one occupied cell of a piece in grid space.
type Block struct {
	Pos   Point
	Color int
}

// NewPiece builds a piece of type t at its spawn offset. It panics on an
// unknown type.
func NewPiece(t PieceType) *Piece {
	if t < 0 || t >= PieceTypeCount {
		panic(fmt.Sprintf("game: unknown piece type %d", int(t)))
	}
	tmpl := pieceTemplates[t]
	shape := copyShape(tmpl.shape)
	origin, size := footprint(shape)
	return &Piece{
		Type:     t,
		Shape:    shape,
		Position: SpawnPosition(t),
		Origin:   origin,
		Size:     size,
	}
}

// SpawnPosition returns the fixed spawn offset for t.
func SpawnPosition(t PieceType) Point {
	return pieceTemplates[t].spawn
}

// Clone returns a deep copy of the piece.
func (p *Piece) Clone() *Piece {
	c := *p
	c.Shape = copyShape(p.Shape)
	return &c
}

// Translate moves the piece without consulting any grid.
func (p *Piece) Translate(dx, dy int) {
	p.Position.Translate(dx, dy)
}

// RotateRight rotates the shape 90 degrees clockwise.
func (p *Piece) RotateRight() {
	rows, cols := len(p.Shape), len(p.Shape[0])
	rotated := newShape(cols, rows)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rotated[j][rows-1-i] = p.Shape[i][j]
		}
	}
	p.setRotated(rotated)
}

// RotateLeft rotates the shape 90 degrees counter clockwise.
func (p *Piece) RotateLeft() {
	rows, cols := len(p.Shape), len(p.Shape[0])
	rotated := newShape(cols, rows)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			rotated[cols-1-j][i] = p.Shape[i][j]
		}
	}
	p.setRotated(rotated)
}

func (p *Piece) setRotated(shape [][]int) {
	p.Shape = shape
	p.Origin, _ = footprint(shape)
	p.Size = p.Size.Rotate()
}

// Top returns the grid row of the piece's first occupied row.
func (p *Piece) Top() int {
	return p.Position.Y + p.Origin.Y
}

// Blocks returns the occupied cells in grid coordinates.
func (p *Piece) Blocks() []Block {
	blocks := make([]Block, 0, 4)
	for y, row := range p.Shape {
		for x, color := range row {
			if color == 0 {
				continue
			}
			blocks = append(blocks, Block{
				Pos:   Point{X: p.Position.X + x, Y: p.Position.Y + y},
				Color: color,
			})
		}
	}
	return blocks
}

func newShape(rows, cols int) [][]int {
	shape := make([][]int, rows)
	for i := range shape {
		shape[i] = make([]int, cols)
	}
	return shape
}

func copyShape(src [][]int) [][]int {
	dst := make([][]int, len(src))
	for i := range src {
		dst[i] = make([]int, len(src[i]))
		copy(dst[i], src[i])
	}
	return dst
}

// footprint returns the first occupied row/column and the bounding size of
// the occupied cells. An empty shape is a broken template.
func footprint(shape [][]int) (Point, Size) {
	minX, minY, maxX, maxY := -1, -1, -1, -1
	for y, row := range shape {
		for x, v := range row {
			if v == 0 {
				continue
			}
			if minY < 0 {
				minY = y
			}
			maxY = y
			if minX < 0 || x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
		}
	}
	if minY < 0 {
		panic("game: piece shape has no occupied cells")
	}
	return Point{X: minX, Y: minY}, Size{Width: maxX - minX + 1, Height: maxY - minY + 1}
}
