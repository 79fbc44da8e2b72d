package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/icco/recall"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("205")).
		MarginLeft(2)

	menuItemStyle = lipgloss.NewStyle().
		MarginLeft(2)

	selectedMenuItemStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("170")).
		Bold(true).
		MarginLeft(2)

	sequenceStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(1, 3).
		MarginLeft(2).
		Bold(true)

	helpStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		MarginLeft(2)

	goodStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("42")).
		Bold(true).
		MarginLeft(2)

	errorStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("196")).
		Bold(true).
		MarginLeft(2)
)

type state int

const (
	stateLoading state = iota
	stateMenu
	stateShow
	stateAnswer
	stateResult
	stateSaving
	stateDone
)

const requestTimeout = 10 * time.Second

type (
	loadedMsg struct {
		games []recall.Game
		perf  []recall.Performance
	}
	sessionStartedMsg struct{ session *recall.Session }
	roundRecordedMsg  struct{ round *recall.Round }
	finishedMsg       struct {
		session *recall.Session
		perf    *recall.Performance
	}
	errMsg struct{ err error }
)

type model struct {
	api      *client
	email    string
	password string
	rounds   int
	start    int
	rng      *rand.Rand

	state  state
	games  []recall.Game
	perf   []recall.Performance
	cursor int

	game     *recall.Game
	session  *recall.Session
	round    int
	length   int
	sequence string
	correct  bool
	total    int
	best     *recall.Performance

	input   textinput.Model
	spinner spinner.Model
	err     error
}

func initialModel(api *client, email, password string, length, rounds int) model {
	input := textinput.New()
	input.Placeholder = "type the digits"
	input.CharLimit = maxLength
	input.Width = maxLength + 2

	return model{
		api:      api,
		email:    email,
		password: password,
		rounds:   max(rounds, 1),
		start:    min(max(length, minLength), maxLength),
		rng:      rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0)),
		state:    stateLoading,
		input:    input,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

func (m model) load() tea.Cmd {
	api, email, password := m.api, m.email, m.password
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		if _, err := api.login(ctx, email, password); err != nil {
			return errMsg{fmt.Errorf("login: %w", err)}
		}
		games, err := api.catalog(ctx)
		if err != nil {
			return errMsg{fmt.Errorf("catalog: %w", err)}
		}
		perf, err := api.performance(ctx)
		if err != nil {
			return errMsg{fmt.Errorf("performance: %w", err)}
		}
		return loadedMsg{games: games, perf: perf}
	}
}

func (m model) startSession() tea.Cmd {
	api, gameID, difficulty := m.api, m.game.ID, difficultyFor(m.start)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		session, err := api.startSession(ctx, recall.StartSessionInput{
			GameID:     gameID,
			Difficulty: &difficulty,
			Meta:       recall.Document{"client": "recall-tui"},
		})
		if err != nil {
			return errMsg{fmt.Errorf("start session: %w", err)}
		}
		return sessionStartedMsg{session: session}
	}
}

func (m model) recordRound(answer string, correct bool, score int) tea.Cmd {
	api := m.api
	number := m.round
	in := recall.RecordRoundInput{
		SessionID:   m.session.ID,
		RoundNumber: &number,
		Prompt:      recall.Document{"sequence": m.sequence, "length": len(m.sequence)},
		Response:    recall.Document{"answer": answer},
		IsCorrect:   &correct,
		Score:       &score,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		round, err := api.recordRound(ctx, in)
		if err != nil {
			return errMsg{fmt.Errorf("record round: %w", err)}
		}
		return roundRecordedMsg{round: round}
	}
}

func (m model) finish() tea.Cmd {
	api, total := m.api, m.total
	sessionID, gameID := m.session.ID, m.game.ID
	difficulty := difficultyFor(m.start)
	update := aggregate(findPerformance(m.perf, gameID), gameID, total, difficulty)
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()

		session, err := api.completeSession(ctx, recall.CompleteSessionInput{
			ID:         sessionID,
			TotalScore: &total,
		})
		if err != nil {
			return errMsg{fmt.Errorf("complete session: %w", err)}
		}
		perf, err := api.upsertPerformance(ctx, update)
		if err != nil {
			return errMsg{fmt.Errorf("save performance: %w", err)}
		}
		return finishedMsg{session: session, perf: perf}
	}
}

func (m model) nextRound() model {
	m.round++
	m.sequence = newSequence(m.rng, m.length)
	m.input.Reset()
	m.state = stateShow
	return m
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case errMsg:
		m.err = msg.err
		if m.state == stateLoading {
			m.state = stateDone
		} else if m.state == stateSaving || m.state == stateShow {
			m.state = stateMenu
		}
		return m, nil

	case loadedMsg:
		m.games = msg.games
		m.perf = msg.perf
		m.state = stateMenu
		return m, nil

	case sessionStartedMsg:
		m.session = msg.session
		m.round = 0
		m.total = 0
		m.length = m.start
		m.err = nil
		return m.nextRound(), nil

	case roundRecordedMsg:
		return m, nil

	case finishedMsg:
		m.session = msg.session
		m.best = msg.perf
		if i := indexOfPerformance(m.perf, msg.perf.GameID); i >= 0 {
			m.perf[i] = *msg.perf
		} else {
			m.perf = append(m.perf, *msg.perf)
		}
		m.state = stateDone
		return m, nil

	case tea.KeyMsg:
		return m.updateKey(msg)
	}

	return m, nil
}

func (m model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case stateMenu:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.games)-1 {
				m.cursor++
			}
		case "enter", " ":
			if len(m.games) == 0 {
				return m, nil
			}
			m.game = &m.games[m.cursor]
			m.state = stateSaving
			return m, m.startSession()
		}

	case stateShow:
		if msg.String() == "enter" || msg.String() == " " {
			m.state = stateAnswer
			cmd := m.input.Focus()
			return m, cmd
		}

	case stateAnswer:
		if msg.String() == "enter" {
			answer := m.input.Value()
			correct, score := judge(m.sequence, answer)
			m.correct = correct
			m.total += score
			m.input.Blur()
			m.state = stateResult
			cmd := m.recordRound(answer, correct, score)
			m.length = nextLength(m.length, correct)
			return m, cmd
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case stateResult:
		if msg.String() == "enter" || msg.String() == " " {
			if m.round >= m.rounds {
				m.state = stateSaving
				return m, m.finish()
			}
			return m.nextRound(), nil
		}

	case stateDone:
		switch msg.String() {
		case "q", "esc":
			return m, tea.Quit
		case "enter", "m":
			if m.games != nil {
				m.state = stateMenu
				m.err = nil
			}
		}
	}

	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString("\n" + titleStyle.Render("Recall") + "\n\n")

	switch m.state {
	case stateLoading, stateSaving:
		b.WriteString(menuItemStyle.Render(m.spinner.View()+" talking to "+m.api.base) + "\n")

	case stateMenu:
		b.WriteString(m.viewMenu())

	case stateShow:
		fmt.Fprintf(&b, "%s\n\n", menuItemStyle.Render(fmt.Sprintf("%s · round %d of %d", m.game.Name, m.round, m.rounds)))
		b.WriteString(sequenceStyle.Render(m.sequence) + "\n\n")
		b.WriteString(helpStyle.Render("memorize it, then press enter") + "\n")

	case stateAnswer:
		fmt.Fprintf(&b, "%s\n\n", menuItemStyle.Render(fmt.Sprintf("%s · round %d of %d", m.game.Name, m.round, m.rounds)))
		b.WriteString(menuItemStyle.Render(m.input.View()) + "\n\n")
		b.WriteString(helpStyle.Render("enter to submit") + "\n")

	case stateResult:
		if m.correct {
			b.WriteString(goodStyle.Render("Correct!") + "\n")
		} else {
			b.WriteString(errorStyle.Render("Missed. It was "+m.sequence) + "\n")
		}
		fmt.Fprintf(&b, "\n%s\n\n", menuItemStyle.Render(fmt.Sprintf("score so far: %d", m.total)))
		b.WriteString(helpStyle.Render("enter to continue") + "\n")

	case stateDone:
		if m.session != nil && m.session.Status == recall.StatusCompleted {
			fmt.Fprintf(&b, "%s\n", goodStyle.Render(fmt.Sprintf("Session complete: %d points", m.session.TotalScore)))
		}
		if m.best != nil {
			fmt.Fprintf(&b, "%s\n", menuItemStyle.Render(fmt.Sprintf(
				"sessions %d · average %.1f · best %d", m.best.TotalSessions, m.best.AverageScore, m.best.BestScore)))
		}
		b.WriteString("\n" + helpStyle.Render("enter for menu · q to quit") + "\n")
	}

	if m.err != nil {
		b.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}
	return b.String()
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString(menuItemStyle.Render("Choose a game:") + "\n\n")

	if len(m.games) == 0 {
		b.WriteString(menuItemStyle.Render("no games available yet") + "\n")
	}
	for i, g := range m.games {
		line := g.Name
		if p := findPerformance(m.perf, g.ID); p != nil {
			line += fmt.Sprintf("  (best %d)", p.BestScore)
		}
		if i == m.cursor {
			b.WriteString(selectedMenuItemStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(menuItemStyle.Render("  "+line) + "\n")
		}
	}

	b.WriteString("\n" + helpStyle.Render("↑/↓ to move · enter to play · q to quit") + "\n")
	return b.String()
}
