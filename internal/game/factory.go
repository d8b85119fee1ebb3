package game

import (
	"fmt"
	"math/rand"
)

// Source picks a uniform integer in [0, n). *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// PieceFactory draws pieces uniformly at random from the seven variants.
// Two factories built from the same seed produce identical sequences.
type PieceFactory struct {
	rng Source
}

// NewPieceFactory creates a factory drawing from rng.
func NewPieceFactory(rng Source) *PieceFactory {
	return &PieceFactory{rng: rng}
}

// NewSeededPieceFactory creates a factory backed by a seeded math/rand source.
func NewSeededPieceFactory(seed int64) *PieceFactory {
	return NewPieceFactory(rand.New(rand.NewSource(seed)))
}

// Spawn returns a new piece at its variant's spawn offset.
func (f *PieceFactory) Spawn() *Piece {
	n := f.rng.Intn(PieceTypeCount)
	if n < 0 || n >= PieceTypeCount {
		panic(fmt.Sprintf("game: random source returned %d outside [0,%d)", n, PieceTypeCount))
	}
	return NewPiece(PieceType(n))
}
