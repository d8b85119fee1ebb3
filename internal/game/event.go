package game

// Event is a fire-and-forget notification for the audio collaborator.
type Event int

const (
	EventLateral Event = iota
	EventRotate
	EventDrop
	EventClear
	EventTetris
	EventLevelUp
	EventGameOver
	EventStart
	EventSelect
	EventStartMusic
	EventStopMusic
)

var eventNames = [...]string{
	EventLateral:    "lateral",
	EventRotate:     "rotate",
	EventDrop:       "drop",
	EventClear:      "clear",
	EventTetris:     "tetris",
	EventLevelUp:    "level_up",
	EventGameOver:   "game_over",
	EventStart:      "start",
	EventSelect:     "select",
	EventStartMusic: "start_music",
	EventStopMusic:  "stop_music",
}

func (e Event) String() string {
	if e < 0 || int(e) >= len(eventNames) {
		return "unknown"
	}
	return eventNames[e]
}

// ParseEvent maps a name produced by Event.String back to the event.
func ParseEvent(name string) (Event, bool) {
	for i, n := range eventNames {
		if n == name {
			return Event(i), true
		}
	}
	return 0, false
}

// lockEvent selects the sound for a lock that cleared n rows.
func lockEvent(n int) Event {
	switch {
	case n >= 4:
		return EventTetris
	case n > 0:
		return EventClear
	default:
		return EventDrop
	}
}
