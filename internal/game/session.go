package game

const (
	// InitialFallSpeed is the number of ticks between gravity steps at the
	// start of a game.
	InitialFallSpeed = 20
	// MinFallSpeed is the fastest gravity reachable by levelling up.
	MinFallSpeed = 5
	// FallSpeedStep is how much faster gravity gets on each level up.
	FallSpeedStep = 2
)

// Session is one game: the grid, the falling piece, the next piece and the
// statistics. Events emitted while mutating the game are buffered until
// DrainEvents is called.
type Session struct {
	field   *PlayField
	factory *PieceFactory
	stats   Statistics

	current *Piece
	next    *Piece

	fallSpeed      int
	ticksUntilDrop int
	running        bool

	events []Event
}

// NewSession creates a session drawing pieces from factory. Call NewGame
// before stepping it.
func NewSession(factory *PieceFactory) *Session {
	return &Session{
		field:     NewPlayField(BoardWidth, BoardHeight),
		factory:   factory,
		fallSpeed: InitialFallSpeed,
	}
}

// NewGame resets the grid and statistics and spawns the first two pieces.
func (s *Session) NewGame() {
	s.field.Reset()
	s.stats = Statistics{}
	s.fallSpeed = InitialFallSpeed
	s.ticksUntilDrop = s.fallSpeed
	s.current = s.factory.Spawn()
	s.next = s.factory.Spawn()
	s.field.Stamp(s.current)
	s.running = true
	s.emit(EventStart)
	s.emit(EventStartMusic)
}

func (s *Session) Running() bool        { return s.running }
func (s *Session) Stats() Statistics    { return s.stats }
func (s *Session) FallSpeed() int       { return s.fallSpeed }
func (s *Session) TicksUntilDrop() int  { return s.ticksUntilDrop }
func (s *Session) CurrentPiece() *Piece { return s.current.Clone() }
func (s *Session) NextPiece() *Piece    { return s.next.Clone() }

// Grid returns a copy of the cell grid.
func (s *Session) Grid() [][]int {
	return s.field.Cells()
}

// DrainEvents returns the events emitted since the last call.
func (s *Session) DrainEvents() []Event {
	events := s.events
	s.events = nil
	return events
}

// Step runs one tick: the highest-priority piece action in actions, then
// gravity.
func (s *Session) Step(actions ActionSet) {
	if a, ok := actions.Gameplay(); ok {
		s.ProcessAction(a)
	}
	s.Tick()
}

// ProcessAction applies a single piece action. Moves that would collide
// are reverted and emit nothing.
func (s *Session) ProcessAction(a Action) {
	if !s.running {
		return
	}
	switch a {
	case ActionMoveLeft:
		s.moveLateral(-1)
	case ActionMoveRight:
		s.moveLateral(1)
	case ActionSoftDrop:
		s.Descend(1)
	case ActionHardDrop:
		s.HardDrop()
	case ActionRotateCW:
		s.rotate(1)
	case ActionRotateCCW:
		s.rotate(-1)
	}
}

// Tick advances the gravity countdown and descends one row when it expires.
func (s *Session) Tick() {
	if !s.running {
		return
	}
	s.ticksUntilDrop--
	if s.ticksUntilDrop < 0 {
		s.ticksUntilDrop = s.fallSpeed
		s.Descend(1)
	}
}

// HardDrop descends the piece as far as it goes and locks it.
func (s *Session) HardDrop() {
	s.Descend(s.field.Height())
}

// Descend moves the piece down by up to rows rows. If it is blocked before
// that, it locks in place, or ends the game when it rests at the top row.
func (s *Session) Descend(rows int) {
	if !s.running {
		return
	}
	s.field.Erase(s.current)

	landed := false
	for i := 0; i < rows; i++ {
		s.current.Translate(0, 1)
		if !s.field.IsValidPlacement(s.current) {
			s.current.Translate(0, -1)
			landed = true
			break
		}
	}
	s.field.Stamp(s.current)

	if !landed {
		return
	}
	if s.current.Top() <= 0 {
		s.end()
		return
	}
	s.lockAndAdvance()
}

func (s *Session) moveLateral(dx int) {
	s.field.Erase(s.current)
	s.current.Translate(dx, 0)
	if s.field.IsValidPlacement(s.current) {
		s.emit(EventLateral)
	} else {
		s.current.Translate(-dx, 0)
	}
	s.field.Stamp(s.current)
}

func (s *Session) rotate(dir int) {
	s.field.Erase(s.current)
	if dir > 0 {
		s.current.RotateRight()
	} else {
		s.current.RotateLeft()
	}
	if s.field.IsValidPlacement(s.current) {
		s.emit(EventRotate)
	} else if dir > 0 {
		s.current.RotateLeft()
	} else {
		s.current.RotateRight()
	}
	s.field.Stamp(s.current)
}

// lockAndAdvance leaves the current piece on the grid, clears full rows,
// scores the lock and brings in the next piece.
func (s *Session) lockAndAdvance() {
	rows := s.field.FindFullRows()
	s.field.ClearRows(rows)
	s.emit(lockEvent(len(rows)))

	if s.stats.Update(len(rows)) {
		s.emit(EventLevelUp)
		s.fallSpeed = max(s.fallSpeed-FallSpeedStep, MinFallSpeed)
	}

	s.current = s.next
	s.next = s.factory.Spawn()
	if !s.field.IsValidPlacement(s.current) {
		s.end()
		return
	}
	s.field.Stamp(s.current)
}

func (s *Session) end() {
	s.running = false
	s.emit(EventGameOver)
	s.emit(EventStopMusic)
}

func (s *Session) emit(e Event) {
	s.events = append(s.events, e)
}
