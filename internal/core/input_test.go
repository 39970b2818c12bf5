package core

import "testing"

func TestInputFrame(t *testing.T) {
	f := NewInputFrame()
	if !f.Empty() {
		t.Fatal("new frame should be empty")
	}

	f.Set(ActionFlag)
	f.AddClick(Click{X: 3, Y: 4, Action: ActionReveal})

	if !f.Has(ActionFlag) {
		t.Error("Has(ActionFlag) should be true")
	}
	if f.Has(ActionReveal) {
		t.Error("clicks must not set key actions")
	}
	if len(f.Clicks) != 1 || f.Clicks[0].X != 3 {
		t.Errorf("Clicks = %+v", f.Clicks)
	}

	f.Clear()
	if !f.Empty() {
		t.Errorf("frame should be empty after Clear, got %+v", f)
	}
}

func TestInputFrameZeroValue(t *testing.T) {
	var f InputFrame
	if f.Has(ActionUp) {
		t.Error("zero frame should have no actions")
	}
	f.Set(ActionUp)
	if !f.Has(ActionUp) {
		t.Error("Set should work on a zero frame")
	}
}

func TestActionString(t *testing.T) {
	tests := map[Action]string{
		ActionNone:    "None",
		ActionReveal:  "Reveal",
		ActionChord:   "Chord",
		ActionRestart: "Restart",
		Action(99):    "Unknown",
	}
	for a, want := range tests {
		if got := a.String(); got != want {
			t.Errorf("Action(%d).String() = %q, expected %q", a, got, want)
		}
	}
}
