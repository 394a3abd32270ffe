package session

import (
	"errors"
	"testing"
)

func TestIsExit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line string
		want bool
	}{
		{"exit", true},
		{"EXIT", true},
		{"Exit", true},
		{"  exit\t", true},
		{"exit now", false},
		{"", false},
		{"hello", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			t.Parallel()
			if got := IsExit(tt.line); got != tt.want {
				t.Errorf("IsExit(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	if Classify("eXiT") != EventExit {
		t.Error("Classify(eXiT) should be EXIT")
	}
	if Classify("") != EventLine {
		t.Error("empty line should be forwarded as a task line")
	}
}

func TestState(t *testing.T) {
	t.Parallel()

	if !StateTerminated.IsTerminal() {
		t.Error("terminated should be terminal")
	}
	for _, s := range []State{StateAwaitingInput, StateProcessing} {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
		if !s.IsValid() {
			t.Errorf("%s should be valid", s)
		}
	}
	if State("paused").IsValid() {
		t.Error("unknown state should be invalid")
	}
}

func TestSession_Record(t *testing.T) {
	t.Parallel()

	s := New("s-1")
	s.Record(nil)
	s.Record(errors.New("boom"))
	if s.Turns != 2 || s.Failures != 1 {
		t.Errorf("Turns = %d, Failures = %d", s.Turns, s.Failures)
	}
}
