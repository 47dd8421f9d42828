package game

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// Room is one game session. All mutation goes through the methods below,
// each of which holds mu for the whole read, decide, mutate, publish sequence.
type Room struct {
	Code string

	mu         sync.Mutex
	rm         *RoomManager
	host       *Player
	players    []*Player
	words      *OrderedSet[string]
	wordIndex  int
	status     Status
	activities []Activity
	createdAt  time.Time
}

func newRoom(rm *RoomManager, code, hostName string, now time.Time) *Room {
	return &Room{
		Code: code,
		rm:   rm,
		host: &Player{
			Name:         hostName,
			IDNumber:     HostIDNumber,
			IsHost:       true,
			RoundGuesses: NewOrderedSet[int](),
		},
		players:   []*Player{},
		words:     NewOrderedSet[string](),
		wordIndex: -1,
		status:    StatusCreated,
		createdAt: now,
	}
}

func validName(name string) bool {
	return strings.TrimSpace(name) != ""
}

func validGuess(guess string) bool {
	return strings.TrimSpace(guess) != ""
}

func (r *Room) Snapshot() RoomSnapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

func (r *Room) Players() []PlayerView {
	r.mu.Lock()
	defer r.mu.Unlock()
	return playerViews(r.players)
}

func (r *Room) isHost(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.host.Name == name
}

func (r *Room) findPlayerLocked(name string) *Player {
	for _, p := range r.players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (r *Room) nameTakenLocked(name string) bool {
	return r.host.Name == name || r.findPlayerLocked(name) != nil
}

func (r *Room) appendActivityLocked(a Activity) {
	a.Timestamp = r.rm.now().UTC()
	r.activities = append(r.activities, a)
	if r.rm.sink != nil {
		r.rm.sink.Record(r.Code, a)
	}
}

func (r *Room) publishLocked(exclude string) RoomSnapshot {
	snap := r.snapshotLocked()
	if r.rm.pub != nil {
		r.rm.pub.Publish(r.Code, snap, exclude)
	}
	return snap
}

func (r *Room) join(name, from string) (RoomSnapshot, error) {
	if !validName(name) {
		return RoomSnapshot{}, ErrInvalidName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == StatusEnded {
		return RoomSnapshot{}, ErrRoomEnded
	}
	if r.nameTakenLocked(name) {
		return RoomSnapshot{}, ErrDuplicateName
	}
	r.players = append(r.players, &Player{
		Name:         name,
		IDNumber:     len(r.players),
		IsHost:       false,
		Guesses:      []string{},
		RoundGuesses: NewOrderedSet[int](),
	})
	r.appendActivityLocked(Activity{PlayerName: name, Type: ActivityJoin})
	return r.publishLocked(from), nil
}

func (r *Room) submitWords(words []string) (RoomSnapshot, error) {
	clean := make([]string, 0, len(words))
	for _, w := range words {
		if strings.TrimSpace(w) != "" {
			clean = append(clean, w)
		}
	}
	if len(clean) == 0 {
		return RoomSnapshot{}, ErrNoWords
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status == StatusEnded {
		return RoomSnapshot{}, ErrRoomEnded
	}
	r.words.Add(clean...)
	return r.publishLocked(""), nil
}

func (r *Room) advance(actingName string) (RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := r.wordIndex + 1
	return r.modifyLocked(actingName, RoomChange{WordIndex: &next})
}

func (r *Room) modify(actingName string, change RoomChange) (RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.modifyLocked(actingName, change)
}

func (r *Room) modifyLocked(actingName string, change RoomChange) (RoomSnapshot, error) {
	if r.host.Name != actingName {
		return RoomSnapshot{}, ErrUnauthorized
	}
	if change.Status != nil {
		if !change.Status.valid() {
			return RoomSnapshot{}, ErrInvalidChange
		}
		if r.status == StatusEnded && *change.Status != StatusEnded {
			return RoomSnapshot{}, ErrRoomEnded
		}
	}
	if change.WordIndex != nil {
		if *change.WordIndex < -1 {
			return RoomSnapshot{}, ErrInvalidChange
		}
		if *change.WordIndex >= 0 && r.words.Len() == 0 {
			return RoomSnapshot{}, ErrNoWords
		}
	}

	before := r.status
	if change.WordIndex != nil {
		r.wordIndex = *change.WordIndex
	}
	if change.Status != nil {
		r.status = *change.Status
	}
	if r.status != StatusEnded && r.wordIndex >= 0 && r.wordIndex >= r.words.Len() {
		r.status = StatusEnded
	}
	if r.status == StatusCreated && r.wordIndex >= 0 {
		r.status = StatusStarted
	}

	if r.status != before {
		r.logTransitionLocked(r.status)
	}
	snap := r.publishLocked("")
	if r.status == StatusEnded && before != StatusEnded && r.rm.onEnded != nil {
		go r.rm.onEnded(snap)
	}
	return snap, nil
}

func (r *Room) logTransitionLocked(to Status) {
	var msg string
	switch to {
	case StatusStarted:
		msg = "started the game"
	case StatusEnded:
		msg = "ended the game"
	default:
		msg = "reset the game"
	}
	r.appendActivityLocked(Activity{
		PlayerName: r.host.Name,
		Type:       ActivityLog,
		IsHost:     true,
		Metadata:   map[string]string{"message": msg},
	})
}

func (r *Room) guess(playerName, guess string) (RoomSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p := r.findPlayerLocked(playerName)
	if p == nil {
		return RoomSnapshot{}, ErrPlayerNotFound
	}
	if r.status != StatusStarted || r.wordIndex < 0 {
		return RoomSnapshot{}, ErrRoundNotActive
	}
	if p.RoundGuesses.Contains(r.wordIndex) {
		return RoomSnapshot{}, ErrDuplicateRoundAttempt
	}

	p.Guesses = append(p.Guesses, guess)
	p.RoundGuesses.Add(r.wordIndex)
	words := r.words.Values()
	p.Score = computeScore(p.Guesses, words, r.wordIndex)

	typ := ActivityGuessWrong
	if isGuessRight(guess, words, r.wordIndex) {
		typ = ActivityGuessRight
	}
	r.appendActivityLocked(Activity{
		PlayerName: p.Name,
		Type:       typ,
		Metadata: map[string]string{
			"guess": guess,
			"round": strconv.Itoa(r.wordIndex + 1),
		},
	})
	return r.publishLocked(""), nil
}
