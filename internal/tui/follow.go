package tui

// FollowState says whether the stream window tracks the newest events.
type FollowState int

const (
	// Following pins the window to the bottom whenever the log grows.
	Following FollowState = iota

	// Paused leaves the window where the user scrolled it.
	Paused
)

func (s FollowState) String() string {
	if s == Paused {
		return "paused"
	}
	return "following"
}

// followController is the auto-follow state machine. It is driven by
// two signals: user scrolling (distance from the bottom) and log
// growth. Rendering is not its concern, which keeps the transition
// rules testable on their own.
type followController struct {
	state     FollowState
	tolerance int
	pending   int
}

func newFollowController(tolerance int) followController {
	return followController{state: Following, tolerance: tolerance}
}

func (f *followController) State() FollowState { return f.state }

func (f *followController) Following() bool { return f.state == Following }

// Pending returns how many events arrived while paused.
func (f *followController) Pending() int { return f.pending }

// OnUserScroll is fed the window's line distance from the bottom after
// a user scroll. Drifting beyond the tolerance pauses following;
// scrolling back down never resumes it on its own.
func (f *followController) OnUserScroll(distFromBottom int) {
	if f.state == Following && distFromBottom > f.tolerance {
		f.state = Paused
	}
}

// OnAppend records n newly observed events and reports whether the
// window should pin to the bottom.
func (f *followController) OnAppend(n int) bool {
	if f.state == Following {
		return true
	}
	f.pending += n
	return false
}

// JumpToLatest is the only way back from Paused.
func (f *followController) JumpToLatest() {
	f.state = Following
	f.pending = 0
}

// Reset returns to the initial state, used on session switch.
func (f *followController) Reset() {
	f.state = Following
	f.pending = 0
}
