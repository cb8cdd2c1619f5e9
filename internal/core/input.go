package core

// Action is a semantic input, decoupled from the keys that trigger it.
type Action int

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionSelect // pick a tile, or swap with the picked one
	ActionHint
	ActionBack // leave to the menu
	ActionRestart
	ActionQuit
	ActionPause

	actionCount
)

var actionNames = [actionCount]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionSelect:  "Select",
	ActionHint:    "Hint",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
	ActionPause:   "Pause",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return "Unknown"
	}
	return actionNames[a]
}

// InputFrame is the set of actions triggered during one tick. It is a plain
// value, so a frame handed to a game is unaffected by later Clear calls.
type InputFrame struct {
	bits uint32
}

// NewInputFrame returns an empty frame.
func NewInputFrame() InputFrame { return InputFrame{} }

// Set marks a as triggered. ActionNone and unknown actions are ignored.
func (f *InputFrame) Set(a Action) {
	if a <= ActionNone || a >= actionCount {
		return
	}
	f.bits |= 1 << uint(a)
}

// Has reports whether a was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if a <= ActionNone || a >= actionCount {
		return false
	}
	return f.bits&(1<<uint(a)) != 0
}

// Empty reports whether no action was triggered.
func (f InputFrame) Empty() bool { return f.bits == 0 }

// Actions lists the triggered actions in declaration order.
func (f InputFrame) Actions() []Action {
	var out []Action
	for a := ActionNone + 1; a < actionCount; a++ {
		if f.Has(a) {
			out = append(out, a)
		}
	}
	return out
}

// Clear resets the frame for the next tick.
func (f *InputFrame) Clear() { f.bits = 0 }
