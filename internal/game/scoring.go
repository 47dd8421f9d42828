package game

import (
	"math"
	"sort"
)

// computeScore grades guesses by attempt position: the i-th guess is compared
// with the i-th word, whatever round it was submitted in. The denominator is
// the number of rounds opened so far.
func computeScore(guesses, words []string, wordIndex int) int {
	correct := 0
	for i, g := range guesses {
		if i < len(words) && words[i] == g {
			correct++
		}
	}
	denom := wordIndex + 1
	if denom <= 0 {
		return 0
	}
	ratio := float64(correct) / float64(denom)
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 0
	}
	score := int(math.Round(ratio * 100))
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return score
}

// isGuessRight compares against the word of the current round, unlike
// computeScore which aligns on attempt order.
func isGuessRight(guess string, words []string, wordIndex int) bool {
	if wordIndex < 0 || wordIndex >= len(words) {
		return false
	}
	return words[wordIndex] == guess
}

// Scoreboard maps idNumber to score.
func Scoreboard(players []PlayerView) map[int]int {
	out := make(map[int]int, len(players))
	for _, p := range players {
		out[p.IDNumber] = p.Score
	}
	return out
}

// Ranking orders players by score, highest first. Equal scores share a rank
// and keep join order.
func Ranking(players []PlayerView) []ScoreEntry {
	sorted := make([]PlayerView, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Score > sorted[j].Score
	})
	out := make([]ScoreEntry, 0, len(sorted))
	for i, p := range sorted {
		rank := i + 1
		if i > 0 && sorted[i-1].Score == p.Score {
			rank = out[i-1].Rank
		}
		out = append(out, ScoreEntry{Rank: rank, Name: p.Name, IDNumber: p.IDNumber, Score: p.Score})
	}
	return out
}
