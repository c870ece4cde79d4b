package tui

import "testing"

func TestFollowController_InitialState(t *testing.T) {
	f := newFollowController(2)
	if f.State() != Following {
		t.Errorf("initial state = %v, want Following", f.State())
	}
	if f.Pending() != 0 {
		t.Errorf("initial pending = %d, want 0", f.Pending())
	}
}

func TestFollowController_ScrollTransitions(t *testing.T) {
	tests := []struct {
		name      string
		tolerance int
		distance  int
		want      FollowState
	}{
		{"at bottom stays following", 2, 0, Following},
		{"within tolerance stays following", 2, 2, Following},
		{"beyond tolerance pauses", 2, 3, Paused},
		{"far away pauses", 2, 50, Paused},
		{"zero tolerance pauses on any drift", 0, 1, Paused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFollowController(tt.tolerance)
			f.OnUserScroll(tt.distance)
			if f.State() != tt.want {
				t.Errorf("state after scroll(%d) = %v, want %v", tt.distance, f.State(), tt.want)
			}
		})
	}
}

func TestFollowController_ScrollBackDoesNotResume(t *testing.T) {
	f := newFollowController(2)
	f.OnUserScroll(10)
	if f.State() != Paused {
		t.Fatal("expected Paused")
	}

	// Returning to the bottom by hand is not the explicit jump action.
	f.OnUserScroll(0)
	if f.State() != Paused {
		t.Error("scrolling back to the bottom should not resume following")
	}
}

func TestFollowController_AppendWhileFollowing(t *testing.T) {
	f := newFollowController(2)
	if !f.OnAppend(3) {
		t.Error("append while following should request a bottom pin")
	}
	if f.Pending() != 0 {
		t.Errorf("pending = %d, want 0 while following", f.Pending())
	}
}

func TestFollowController_AppendWhilePausedAccumulates(t *testing.T) {
	f := newFollowController(2)
	f.OnUserScroll(10)

	if f.OnAppend(2) {
		t.Error("append while paused should not request a pin")
	}
	f.OnAppend(3)
	if f.Pending() != 5 {
		t.Errorf("pending = %d, want 5", f.Pending())
	}
}

func TestFollowController_JumpToLatest(t *testing.T) {
	f := newFollowController(2)
	f.OnUserScroll(10)
	f.OnAppend(4)

	f.JumpToLatest()
	if f.State() != Following {
		t.Errorf("state after jump = %v, want Following", f.State())
	}
	if f.Pending() != 0 {
		t.Errorf("pending after jump = %d, want 0", f.Pending())
	}
}

func TestFollowController_Reset(t *testing.T) {
	f := newFollowController(2)
	f.OnUserScroll(10)
	f.OnAppend(1)

	f.Reset()
	if f.State() != Following || f.Pending() != 0 {
		t.Errorf("after reset: state=%v pending=%d, want Following/0", f.State(), f.Pending())
	}
}
