package game

import "fmt"

// lineScores is indexed by the number of rows cleared in one lock.
var lineScores = [...]int{10, 100, 300, 500, 1000}

// LinesPerLevel is the number of cleared rows between level ups.
const LinesPerLevel = 10

// Statistics tracks score, level and cleared rows for one game.
type Statistics struct {
	Score int
	Level int
	Lines int
}

// Update records a lock that cleared the given number of rows and reports
// whether the level went up. The level rises at most once per call.
func (s *Statistics) Update(cleared int) bool {
	if cleared < 0 || cleared >= len(lineScores) {
		panic(fmt.Sprintf("game: cannot clear %d rows in one lock", cleared))
	}
	s.Score += lineScores[cleared]
	s.Lines += cleared
	if s.Lines/LinesPerLevel > s.Level {
		s.Level++
		return true
	}
	return false
}
