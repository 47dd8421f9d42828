package game

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sort"
	"strings"
	"sync"
	"time"
)

var (
	ErrRoomNotFound          = errors.New("room not found")
	ErrInvalidCode           = errors.New("invalid room code")
	ErrDuplicateName         = errors.New("name already taken in room")
	ErrUnauthorized          = errors.New("not host")
	ErrInvalidGuess          = errors.New("invalid guess")
	ErrDuplicateRoundAttempt = errors.New("already guessed this round")
	ErrPlayerNotFound        = errors.New("player not found")
	ErrRoundNotActive        = errors.New("no active round")
	ErrNoWords               = errors.New("no words")
	ErrInvalidName           = errors.New("invalid name")
	ErrInvalidChange         = errors.New("invalid room change")
	ErrRoomEnded             = errors.New("room has ended")
)

// Publisher receives the room snapshot after every accepted mutation. It is
// called with the room locked, so implementations must not block.
// exclude names a subscriber that should be skipped; empty means everyone.
type Publisher interface {
	Publish(code string, snap RoomSnapshot, exclude string)
}

// ActivitySink receives every activity as it is appended. Called with the
// room locked.
type ActivitySink interface {
	Record(code string, a Activity)
}

type Option func(*RoomManager)

func WithClock(now func() time.Time) Option {
	return func(rm *RoomManager) { rm.now = now }
}

func WithPublisher(p Publisher) Option {
	return func(rm *RoomManager) { rm.pub = p }
}

func WithActivitySink(s ActivitySink) Option {
	return func(rm *RoomManager) { rm.sink = s }
}

// WithEndedHook registers fn to run once when a room transitions to ENDED.
// fn runs on its own goroutine.
func WithEndedHook(fn func(RoomSnapshot)) Option {
	return func(rm *RoomManager) { rm.onEnded = fn }
}

// RoomManager owns every room of the process. Rooms are independent: each is
// guarded by its own mutex, the manager lock only covers the code map.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string]*Room

	now     func() time.Time
	pub     Publisher
	sink    ActivitySink
	onEnded func(RoomSnapshot)
}

func NewRoomManager(opts ...Option) *RoomManager {
	rm := &RoomManager{
		rooms: make(map[string]*Room),
		now:   time.Now,
	}
	for _, o := range opts {
		o(rm)
	}
	return rm
}

// CreateRoom registers a room under code. An existing code is left alone and
// reported as not created.
func (rm *RoomManager) CreateRoom(code, hostName string) (bool, error) {
	if strings.TrimSpace(code) == "" {
		return false, ErrInvalidCode
	}
	if !validName(hostName) {
		return false, ErrInvalidName
	}
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if _, ok := rm.rooms[code]; ok {
		return false, nil
	}
	rm.rooms[code] = newRoom(rm, code, hostName, rm.now().UTC())
	return true, nil
}

func (rm *RoomManager) Get(code string) (*Room, error) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	r := rm.rooms[code]
	if r == nil {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// Snapshot returns the wire view of the room under code.
func (rm *RoomManager) Snapshot(code string) (RoomSnapshot, error) {
	r, err := rm.Get(code)
	if err != nil {
		return RoomSnapshot{}, err
	}
	return r.Snapshot(), nil
}

// Codes lists the registered room codes in lexical order.
func (rm *RoomManager) Codes() []string {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	out := make([]string, 0, len(rm.rooms))
	for c := range rm.rooms {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

func (rm *RoomManager) Join(code, name, from string) (RoomSnapshot, error) {
	r, err := rm.Get(code)
	if err != nil {
		return RoomSnapshot{}, err
	}
	return r.join(name, from)
}

func (rm *RoomManager) SubmitWords(code string, words []string) (RoomSnapshot, error) {
	r, err := rm.Get(code)
	if err != nil {
		return RoomSnapshot{}, err
	}
	return r.submitWords(words)
}

func (rm *RoomManager) Modify(code, actingName string, change RoomChange) (RoomSnapshot, error) {
	r, err := rm.Get(code)
	if err != nil {
		return RoomSnapshot{}, err
	}
	return r.modify(actingName, change)
}

// Advance moves the room to the next round on behalf of the host.
func (rm *RoomManager) Advance(code, actingName string) (RoomSnapshot, error) {
	r, err := rm.Get(code)
	if err != nil {
		return RoomSnapshot{}, err
	}
	return r.advance(actingName)
}

func (rm *RoomManager) Guess(code, playerName, guess string) (RoomSnapshot, error) {
	if code == "" || playerName == "" {
		return RoomSnapshot{}, ErrInvalidGuess
	}
	if !validGuess(guess) {
		return RoomSnapshot{}, ErrInvalidGuess
	}
	r, err := rm.Get(code)
	if err != nil {
		return RoomSnapshot{}, err
	}
	return r.guess(playerName, guess)
}

func (rm *RoomManager) Players(code string) ([]PlayerView, error) {
	r, err := rm.Get(code)
	if err != nil {
		return nil, err
	}
	return r.Players(), nil
}

// IsHost reports whether name is the host of the room under code.
func (rm *RoomManager) IsHost(code, name string) (bool, error) {
	r, err := rm.Get(code)
	if err != nil {
		return false, err
	}
	return r.isHost(name), nil
}

func (rm *RoomManager) Scoreboard(code string) (map[int]int, error) {
	r, err := rm.Get(code)
	if err != nil {
		return nil, err
	}
	return Scoreboard(r.Players()), nil
}

func (rm *RoomManager) Ranking(code string) ([]ScoreEntry, error) {
	r, err := rm.Get(code)
	if err != nil {
		return nil, err
	}
	return Ranking(r.Players()), nil
}

// Alphabet excludes ambiguous characters: 0, O, 1, I, L
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 6

// NewCode returns a room code that is not registered at the time of the call.
func (rm *RoomManager) NewCode() (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		code, err := randomCode(codeLength)
		if err != nil {
			return "", fmt.Errorf("generating room code: %w", err)
		}
		rm.mu.RLock()
		_, taken := rm.rooms[code]
		rm.mu.RUnlock()
		if !taken {
			return code, nil
		}
	}
	return "", errors.New("failed to generate unique room code after 10 attempts")
}

func randomCode(n int) (string, error) {
	b := make([]byte, n)
	limit := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		v, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[v.Int64()]
	}
	return string(b), nil
}
