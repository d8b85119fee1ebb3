package game

import "strings"

// Action is a discrete input symbol.
type Action int

const (
	ActionMoveLeft Action = iota
	ActionMoveRight
	ActionSoftDrop
	ActionHardDrop
	ActionRotateCW
	ActionRotateCCW
	ActionConfirm
	ActionTogglePause
)

var actionNames = [...]string{
	ActionMoveLeft:    "MoveLeft",
	ActionMoveRight:   "MoveRight",
	ActionSoftDrop:    "SoftDrop",
	ActionHardDrop:    "HardDrop",
	ActionRotateCW:    "RotateCW",
	ActionRotateCCW:   "RotateCCW",
	ActionConfirm:     "Confirm",
	ActionTogglePause: "TogglePause",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "Unknown"
	}
	return actionNames[a]
}

// gameplayPriority is the order in which a session resolves simultaneous
// actions. Only the first one present is applied.
var gameplayPriority = [...]Action{
	ActionMoveLeft,
	ActionMoveRight,
	ActionSoftDrop,
	ActionHardDrop,
	ActionRotateCW,
	ActionRotateCCW,
}

// ActionSet is the set of actions sampled during one tick.
type ActionSet uint16

// NewActionSet returns a set holding the given actions.
func NewActionSet(actions ...Action) ActionSet {
	var s ActionSet
	for _, a := range actions {
		s = s.With(a)
	}
	return s
}

// With returns s with a added.
func (s ActionSet) With(a Action) ActionSet {
	return s | 1<<uint(a)
}

// Has reports whether a is in s.
func (s ActionSet) Has(a Action) bool {
	return s&(1<<uint(a)) != 0
}

// Empty reports whether no action is set.
func (s ActionSet) Empty() bool {
	return s == 0
}

// Gameplay returns the highest-priority piece action in s.
func (s ActionSet) Gameplay() (Action, bool) {
	for _, a := range gameplayPriority {
		if s.Has(a) {
			return a, true
		}
	}
	return 0, false
}

func (s ActionSet) String() string {
	var names []string
	for a := range actionNames {
		if s.Has(Action(a)) {
			names = append(names, Action(a).String())
		}
	}
	return "{" + strings.Join(names, ",") + "}"
}
