package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatisticsScoreTable(t *testing.T) {
	tests := []struct {
		cleared int
		score   int
	}{
		{0, 10},
		{1, 100},
		{2, 300},
		{3, 500},
		{4, 1000},
	}
	for _, tt := range tests {
		var s Statistics
		assert.False(t, s.Update(tt.cleared))
		assert.Equal(t, tt.score, s.Score, "cleared %d", tt.cleared)
		assert.Equal(t, tt.cleared, s.Lines)
		assert.Zero(t, s.Level)
	}
}

func TestStatisticsLevelUp(t *testing.T) {
	s := Statistics{Lines: 8}

	assert.False(t, s.Update(1))
	assert.Equal(t, 0, s.Level)

	assert.True(t, s.Update(2))
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 11, s.Lines)

	assert.False(t, s.Update(4))
	assert.False(t, s.Update(4))
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 19, s.Lines)

	assert.True(t, s.Update(1))
	assert.Equal(t, 2, s.Level)
	assert.Equal(t, 20, s.Lines)
}

func TestStatisticsLevelRisesOncePerLock(t *testing.T) {
	s := Statistics{Lines: 19, Level: 0}

	assert.True(t, s.Update(4))
	assert.Equal(t, 1, s.Level)
	assert.Equal(t, 23, s.Lines)

	assert.True(t, s.Update(0))
	assert.Equal(t, 2, s.Level)
}

func TestStatisticsRejectsImpossibleClear(t *testing.T) {
	var s Statistics
	assert.Panics(t, func() { s.Update(5) })
	assert.Panics(t, func() { s.Update(-1) })
}
