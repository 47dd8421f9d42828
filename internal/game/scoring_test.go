package game

import (
	"errors"
	"testing"
)

func TestGuessScenario(t *testing.T) {
	rm, pub := newTestManager(t)
	startedRoom(t, rm)

	snap, err := rm.Guess("ABCDEF", "Bob", "cat")
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	bob := snap.Players[0]
	if len(bob.Guesses) != 1 || bob.Guesses[0] != "cat" {
		t.Fatalf("expected guesses [cat], got %v", bob.Guesses)
	}
	if len(bob.RoundGuesses) != 1 || bob.RoundGuesses[0] != 0 {
		t.Fatalf("expected roundGuesses [0], got %v", bob.RoundGuesses)
	}
	if bob.Score != 100 {
		t.Fatalf("expected score 100, got %d", bob.Score)
	}
	if pub.last().exclude != "" {
		t.Fatal("guess broadcast must reach the guesser too")
	}

	rm.Advance("ABCDEF", "Alice")
	snap, err = rm.Guess("ABCDEF", "Bob", "fish")
	if err != nil {
		t.Fatalf("second guess: %v", err)
	}
	bob = snap.Players[0]
	if bob.Score != 50 {
		t.Fatalf("expected score 50, got %d", bob.Score)
	}

	before := pub.count()
	activities := len(snap.Activities)
	_, err = rm.Guess("ABCDEF", "Bob", "dog")
	if err != ErrDuplicateRoundAttempt {
		t.Fatalf("expected ErrDuplicateRoundAttempt, got %v", err)
	}
	snap, _ = rm.Snapshot("ABCDEF")
	bob = snap.Players[0]
	if len(bob.Guesses) != 2 || bob.Score != 50 || len(snap.Activities) != activities {
		t.Fatalf("repeated guess must not change the room: %+v", bob)
	}
	if pub.count() != before {
		t.Fatal("repeated guess must not broadcast")
	}
}

func TestGuessActivityClassification(t *testing.T) {
	rm, _ := newTestManager(t)
	startedRoom(t, rm)

	snap, _ := rm.Guess("ABCDEF", "Bob", "cat")
	a := snap.Activities[len(snap.Activities)-1]
	if a.Type != ActivityGuessRight {
		t.Fatalf("expected GUESS_RIGHT, got %s", a.Type)
	}
	if a.Metadata["guess"] != "cat" || a.Metadata["round"] != "1" {
		t.Fatalf("unexpected metadata %v", a.Metadata)
	}

	rm.Advance("ABCDEF", "Alice")
	snap, _ = rm.Guess("ABCDEF", "Bob", "fish")
	a = snap.Activities[len(snap.Activities)-1]
	if a.Type != ActivityGuessWrong || a.Metadata["round"] != "2" {
		t.Fatalf("expected GUESS_WRONG in round 2, got %s %v", a.Type, a.Metadata)
	}
}

// A player who sits out a round shifts attempt order against word order: the
// activity uses the current round while the score uses attempt position.
func TestSkippedRoundAlignments(t *testing.T) {
	rm, _ := newTestManager(t)
	startedRoom(t, rm)

	rm.Advance("ABCDEF", "Alice") // round 2, word "dog"; Bob skipped round 1
	snap, err := rm.Guess("ABCDEF", "Bob", "dog")
	if err != nil {
		t.Fatalf("guess: %v", err)
	}
	bob := snap.Players[0]
	a := snap.Activities[len(snap.Activities)-1]
	if a.Type != ActivityGuessRight {
		t.Fatalf("activity should compare with the current word, got %s", a.Type)
	}
	if bob.Score != 0 {
		t.Fatalf("score should compare attempt 1 with word 1, got %d", bob.Score)
	}
	if len(bob.RoundGuesses) != 1 || bob.RoundGuesses[0] != 1 {
		t.Fatalf("expected roundGuesses [1], got %v", bob.RoundGuesses)
	}
}

func TestGuessRejections(t *testing.T) {
	rm, pub := newTestManager(t)
	rm.CreateRoom("ABCDEF", "Alice")
	rm.Join("ABCDEF", "Bob", "")
	rm.SubmitWords("ABCDEF", []string{"cat"})
	before := pub.count()

	cases := []struct {
		name   string
		code   string
		player string
		guess  string
		want   error
	}{
		{"blank guess", "ABCDEF", "Bob", "   ", ErrInvalidGuess},
		{"empty guess", "ABCDEF", "Bob", "", ErrInvalidGuess},
		{"missing code", "", "Bob", "cat", ErrInvalidGuess},
		{"missing player", "ABCDEF", "", "cat", ErrInvalidGuess},
		{"unknown room", "NOPE", "Bob", "cat", ErrRoomNotFound},
		{"unknown player", "ABCDEF", "Zed", "cat", ErrPlayerNotFound},
		{"host cannot guess", "ABCDEF", "Alice", "cat", ErrPlayerNotFound},
		{"not started", "ABCDEF", "Bob", "cat", ErrRoundNotActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := rm.Guess(tc.code, tc.player, tc.guess)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if pub.count() != before {
		t.Fatal("rejected guesses must not broadcast")
	}
}

func TestGuessAfterEnd(t *testing.T) {
	rm, _ := newTestManager(t)
	startedRoom(t, rm)
	rm.Advance("ABCDEF", "Alice")
	rm.Advance("ABCDEF", "Alice")
	snap, _ := rm.Advance("ABCDEF", "Alice")
	if snap.Status != StatusEnded {
		t.Fatalf("expected ENDED, got %s", snap.Status)
	}
	if _, err := rm.Guess("ABCDEF", "Bob", "fish"); err != ErrRoundNotActive {
		t.Fatalf("expected ErrRoundNotActive after end, got %v", err)
	}
}

func TestComputeScore(t *testing.T) {
	words := []string{"cat", "dog", "fish"}
	cases := []struct {
		name      string
		guesses   []string
		wordIndex int
		want      int
	}{
		{"no guesses", nil, 0, 0},
		{"one of one", []string{"cat"}, 0, 100},
		{"one of two", []string{"cat", "x"}, 1, 50},
		{"two of three", []string{"cat", "dog", "x"}, 2, 67},
		{"one of three", []string{"x", "dog", "y"}, 2, 33},
		{"inactive room", []string{"cat"}, -1, 0},
		{"pointer moved back", []string{"cat", "dog", "fish"}, 0, 100},
		{"more guesses than words", []string{"cat", "dog", "fish", "eel"}, 3, 75},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := computeScore(tc.guesses, words, tc.wordIndex)
			if got != tc.want {
				t.Fatalf("computeScore = %d, want %d", got, tc.want)
			}
			if got < 0 || got > 100 {
				t.Fatalf("score out of range: %d", got)
			}
		})
	}
}

func TestIsGuessRight(t *testing.T) {
	words := []string{"cat", "dog"}
	if !isGuessRight("dog", words, 1) {
		t.Fatal("dog is the word at index 1")
	}
	if isGuessRight("Dog", words, 1) {
		t.Fatal("comparison is case sensitive")
	}
	if isGuessRight("cat", words, -1) || isGuessRight("cat", words, 2) {
		t.Fatal("out of range index is never right")
	}
}

func TestScoreboardAndRanking(t *testing.T) {
	players := []PlayerView{
		{Name: "Bob", IDNumber: 0, Score: 50},
		{Name: "Carol", IDNumber: 1, Score: 100},
		{Name: "Dave", IDNumber: 2, Score: 50},
	}
	board := Scoreboard(players)
	if board[0] != 50 || board[1] != 100 || board[2] != 50 {
		t.Fatalf("unexpected scoreboard %v", board)
	}

	ranking := Ranking(players)
	want := []ScoreEntry{
		{Rank: 1, Name: "Carol", IDNumber: 1, Score: 100},
		{Rank: 2, Name: "Bob", IDNumber: 0, Score: 50},
		{Rank: 2, Name: "Dave", IDNumber: 2, Score: 50},
	}
	for i := range want {
		if ranking[i] != want[i] {
			t.Fatalf("ranking[%d] = %+v, want %+v", i, ranking[i], want[i])
		}
	}
	if players[0].Name != "Bob" {
		t.Fatal("Ranking must not reorder its input")
	}
}
