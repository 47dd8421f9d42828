package game

import (
	"time"
)

// Status is serialized as a number so clients can compare against 0/1/2.
type Status int

const (
	StatusCreated Status = iota
	StatusStarted
	StatusEnded
)

func (s Status) String() string {
	switch s {
	case StatusCreated:
		return "CREATED"
	case StatusStarted:
		return "STARTED"
	case StatusEnded:
		return "ENDED"
	}
	return "UNKNOWN"
}

func (s Status) valid() bool {
	return s >= StatusCreated && s <= StatusEnded
}

type ActivityType string

const (
	ActivityJoin       ActivityType = "JOIN"
	ActivityGuessRight ActivityType = "GUESS_RIGHT"
	ActivityGuessWrong ActivityType = "GUESS_WRONG"
	ActivityLog        ActivityType = "LOG"
)

// HostIDNumber is the idNumber reported for the host, who is never part of
// the players list.
const HostIDNumber = -1

type Activity struct {
	Timestamp  time.Time         `json:"timestamp"`
	PlayerName string            `json:"playerName"`
	Type       ActivityType      `json:"type"`
	IsHost     bool              `json:"isHost"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

type Player struct {
	Name         string
	IDNumber     int
	IsHost       bool
	Guesses      []string
	RoundGuesses *OrderedSet[int]
	Score        int
}

// RoomChange is the subset of room state the host may overwrite through
// modifyRoom. Nil fields are left untouched.
type RoomChange struct {
	WordIndex *int    `json:"wordIndex,omitempty"`
	Status    *Status `json:"status,omitempty"`
}

// PlayerView is the wire form of a Player: sets become plain slices.
type PlayerView struct {
	Name         string   `json:"name"`
	IDNumber     int      `json:"idNumber"`
	IsHost       bool     `json:"isHost"`
	Guesses      []string `json:"guesses"`
	RoundGuesses []int    `json:"roundGuesses"`
	Score        int      `json:"score"`
}

// RoomSnapshot is an immutable copy of a Room taken under its lock.
type RoomSnapshot struct {
	Code       string       `json:"code"`
	Host       PlayerView   `json:"host"`
	Players    []PlayerView `json:"players"`
	Words      []string     `json:"words"`
	WordIndex  int          `json:"wordIndex"`
	Status     Status       `json:"status"`
	Activities []Activity   `json:"activities"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// ScoreEntry is one line of a ranked scoreboard.
type ScoreEntry struct {
	Rank     int    `json:"rank"`
	Name     string `json:"name"`
	IDNumber int    `json:"idNumber"`
	Score    int    `json:"score"`
}
