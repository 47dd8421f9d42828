package ws

import "github.com/kiliankoe/spellbee/internal/game"

type PlayerRef struct {
	Name   string `json:"name"`
	IsHost bool   `json:"isHost,omitempty"`
}

type CreateRoomData struct {
	Code string    `json:"code"`
	Host PlayerRef `json:"host"`
}

// JoinRoomData carries the joining player. Any isHost sent by the client is
// ignored.
type JoinRoomData struct {
	Code   string    `json:"code"`
	Player PlayerRef `json:"player"`
}

type SubmitWordsData struct {
	RoomID string   `json:"roomId"`
	Words  []string `json:"words"`
}

type SubmitGuessData struct {
	PlayerName string `json:"playerName"`
	Guess      string `json:"guess"`
	RoomID     string `json:"roomId"`
}

type GetPlayersData struct {
	Code string `json:"code"`
}

type AdvanceRoomData struct {
	Code       string `json:"code"`
	PlayerName string `json:"playerName"`
}

type SuggestWordsData struct {
	Code       string `json:"code"`
	PlayerName string `json:"playerName"`
	Topic      string `json:"topic"`
	Count      int    `json:"count"`
}

type ScoreboardAck struct {
	Scoreboard map[int]int       `json:"scoreboard"`
	Ranking    []game.ScoreEntry `json:"ranking"`
}
