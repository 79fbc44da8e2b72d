package main

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/icco/recall"
)

func press(t *testing.T, m model, key string) model {
	t.Helper()
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(model)
}

func TestModelPlaysARound(t *testing.T) {
	m := initialModel(newClient("http://localhost"), "me@example.com", "pw", 3, 1)

	next, _ := m.Update(loadedMsg{games: []recall.Game{{ID: 1, Name: "Digit Span"}}})
	m = next.(model)
	if m.state != stateMenu {
		t.Fatalf("Expected menu, got %v", m.state)
	}

	m = press(t, m, "enter")
	if m.state != stateSaving || m.game == nil || m.game.ID != 1 {
		t.Fatalf("Expected a session to be starting, got state %v", m.state)
	}

	next, _ = m.Update(sessionStartedMsg{session: &recall.Session{ID: 5, GameID: 1}})
	m = next.(model)
	if m.state != stateShow || len(m.sequence) != 3 || m.round != 1 {
		t.Fatalf("Expected first sequence of length 3, got %q in state %v", m.sequence, m.state)
	}

	seq := m.sequence
	m = press(t, m, "enter")
	if m.state != stateAnswer {
		t.Fatalf("Expected answer state, got %v", m.state)
	}
	m = press(t, m, seq)
	m = press(t, m, "enter")
	if m.state != stateResult || !m.correct || m.total != 3 || m.length != 4 {
		t.Fatalf("Expected a correct round, got %+v", m)
	}

	m = press(t, m, "enter")
	if m.state != stateSaving {
		t.Fatalf("Expected the session to finish after the last round, got %v", m.state)
	}

	perf := &recall.Performance{GameID: 1, TotalSessions: 1, AverageScore: 3, BestScore: 3}
	next, _ = m.Update(finishedMsg{session: &recall.Session{ID: 5, Status: recall.StatusCompleted, TotalScore: 3}, perf: perf})
	m = next.(model)
	if m.state != stateDone || findPerformance(m.perf, 1) == nil {
		t.Fatalf("Expected done with stored performance, got %v", m.state)
	}
}
