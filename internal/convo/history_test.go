package convo

import (
	"fmt"
	"testing"
)

func TestHistoryBound(t *testing.T) {
	var h History
	for i := 0; i < 30; i++ {
		h.Append(RoleUser, fmt.Sprintf("turn %d", i))
	}
	if h.Len() != maxHistoryTurns {
		t.Fatalf("len = %d, want %d", h.Len(), maxHistoryTurns)
	}
	turns := h.Turns()
	if turns[0].Text != "turn 10" {
		t.Errorf("oldest kept turn = %q, want turn 10", turns[0].Text)
	}
	if turns[len(turns)-1].Text != "turn 29" {
		t.Errorf("newest turn = %q, want turn 29", turns[len(turns)-1].Text)
	}
}

func TestHistoryReset(t *testing.T) {
	var h History
	h.Append(RoleUser, "hello")
	h.Reset()
	if h.Len() != 0 {
		t.Errorf("len after reset = %d", h.Len())
	}
}

func TestRecentAssistant(t *testing.T) {
	var h History
	h.Append(RoleAssistant, "a1")
	h.Append(RoleUser, "u1")
	h.Append(RoleAssistant, "a2")
	h.Append(RoleAssistant, "a3")
	h.Append(RoleUser, "u2")

	got := h.RecentAssistant(2)
	if len(got) != 2 || got[0] != "a2" || got[1] != "a3" {
		t.Errorf("RecentAssistant(2) = %v, want [a2 a3]", got)
	}
	if got := h.RecentAssistant(10); len(got) != 3 {
		t.Errorf("RecentAssistant(10) returned %d turns, want 3", len(got))
	}
}

func TestIsNoise(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"", true},
		{"hm", true},
		{"um", true},
		{"Huh?", true},
		{"(wind blowing)", true},
		{"I cut my finger", false},
		{"yes", false},
	}
	for _, tt := range tests {
		if got := isNoise(tt.in); got != tt.want {
			t.Errorf("isNoise(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
