package main

import (
	"math/rand/v2"
	"strings"

	"github.com/icco/recall"
)

const (
	minLength = 2
	maxLength = 20
)

// newSequence returns n random digits.
func newSequence(rng *rand.Rand, n int) string {
	var b strings.Builder
	for range n {
		b.WriteByte(byte('0' + rng.IntN(10)))
	}
	return b.String()
}

// judge compares an answer against the prompt, ignoring spaces. A correct
// answer scores one point per digit.
func judge(sequence, answer string) (bool, int) {
	answer = strings.Join(strings.Fields(answer), "")
	if answer != sequence {
		return false, 0
	}
	return true, len(sequence)
}

// nextLength grows the sequence after a hit and shrinks it after a miss.
func nextLength(length int, correct bool) int {
	if correct {
		length++
	} else {
		length--
	}
	return min(max(length, minLength), maxLength)
}

// difficultyFor names the band a starting length falls in.
func difficultyFor(length int) string {
	switch {
	case length <= 4:
		return "easy"
	case length <= 6:
		return "medium"
	default:
		return "hard"
	}
}

// aggregate folds one finished session into the caller's running totals. The
// server stores whatever it is given, so the math lives here.
func aggregate(prev *recall.Performance, gameID int64, sessionScore int, difficulty string) recall.UpsertPerformanceInput {
	sessions, average, best := 0, 0.0, 0
	if prev != nil {
		sessions, average, best = prev.TotalSessions, prev.AverageScore, prev.BestScore
	}

	total := average*float64(sessions) + float64(sessionScore)
	sessions++
	average = total / float64(sessions)
	best = max(best, sessionScore)

	return recall.UpsertPerformanceInput{
		GameID:               gameID,
		TotalSessions:        &sessions,
		AverageScore:         &average,
		BestScore:            &best,
		DifficultyPreference: &difficulty,
	}
}

func indexOfPerformance(rows []recall.Performance, gameID int64) int {
	for i := range rows {
		if rows[i].GameID == gameID {
			return i
		}
	}
	return -1
}

// findPerformance picks the row for gameID out of rows.
func findPerformance(rows []recall.Performance, gameID int64) *recall.Performance {
	if i := indexOfPerformance(rows, gameID); i >= 0 {
		return &rows[i]
	}
	return nil
}
