package ws

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	socketio "github.com/googollee/go-socket.io"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/kiliankoe/spellbee/internal/broadcast"
	"github.com/kiliankoe/spellbee/internal/config"
	"github.com/kiliankoe/spellbee/internal/game"
)

// Peer is the part of a socket.io connection the handlers use.
// socketio.Conn satisfies it.
type Peer interface {
	ID() string
	Emit(event string, v ...interface{})
}

type WordSuggester interface {
	SuggestWords(ctx context.Context, topic string, n int) ([]string, error)
}

type Server struct {
	RM        *game.RoomManager
	hub       *broadcast.Hub
	suggester WordSuggester
	config    config.Config

	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func New(rm *game.RoomManager, hub *broadcast.Hub, cfg config.Config) *Server {
	return &Server{
		RM:       rm,
		hub:      hub,
		config:   cfg,
		limiters: make(map[string]*rate.Limiter),
	}
}

func (srv *Server) SetSuggester(s WordSuggester) { srv.suggester = s }

// Mount attaches the Socket.IO server with handlers to the given Gin engine.
func (srv *Server) Mount(r *gin.Engine) *socketio.Server {
	io := socketio.NewServer(nil)

	io.OnConnect("/", func(s socketio.Conn) error {
		log.Info().Str("sid", s.ID()).Msg("socket connected")
		return nil
	})

	io.OnEvent("/", "createRoom", func(s socketio.Conn, d CreateRoomData) {
		srv.CreateRoom(s, d)
	})
	io.OnEvent("/", "joinRoom", func(s socketio.Conn, d JoinRoomData) bool {
		return srv.JoinRoom(s, d)
	})
	io.OnEvent("/", "getRoom", func(s socketio.Conn, code string) any {
		return srv.GetRoom(s, code)
	})
	io.OnEvent("/", "submitWords", func(s socketio.Conn, d SubmitWordsData) {
		srv.SubmitWords(s, d)
	})
	io.OnEvent("/", "modifyRoom", func(s socketio.Conn, code string, playerName string, change game.RoomChange) {
		srv.ModifyRoom(s, code, playerName, change)
	})
	io.OnEvent("/", "advanceRoom", func(s socketio.Conn, d AdvanceRoomData) {
		srv.AdvanceRoom(s, d)
	})
	io.OnEvent("/", "guessWord", func(s socketio.Conn, d SubmitGuessData) {
		srv.GuessWord(s, d)
	})
	io.OnEvent("/", "getPlayers", func(s socketio.Conn, d GetPlayersData) any {
		return srv.GetPlayers(s, d)
	})
	io.OnEvent("/", "getScoreboard", func(s socketio.Conn, d GetPlayersData) any {
		return srv.GetScoreboard(s, d)
	})
	io.OnEvent("/", "suggestWords", func(s socketio.Conn, d SuggestWordsData) any {
		return srv.SuggestWords(s, d)
	})

	io.OnError("/", func(s socketio.Conn, e error) {
		if s == nil {
			log.Error().Err(e).Msg("socket error")
			return
		}
		log.Error().Str("sid", s.ID()).Err(e).Msg("socket error")
	})
	io.OnDisconnect("/", func(s socketio.Conn, reason string) {
		srv.Disconnect(s)
		log.Info().Str("sid", s.ID()).Str("reason", reason).Msg("socket disconnected")
	})

	go func() {
		if err := io.Serve(); err != nil {
			log.Error().Err(err).Msg("socket.io serve")
		}
	}()

	r.GET("/socket.io/*any", gin.WrapH(io))
	r.POST("/socket.io/*any", gin.WrapH(io))

	return io
}

// Disconnect drops every room subscription and the rate limiter of p.
func (srv *Server) Disconnect(p Peer) {
	srv.hub.UnsubscribeAll(p.ID())
	srv.mu.Lock()
	delete(srv.limiters, p.ID())
	srv.mu.Unlock()
}

func (srv *Server) allow(p Peer, event string) bool {
	srv.mu.Lock()
	l := srv.limiters[p.ID()]
	if l == nil {
		l = rate.NewLimiter(rate.Limit(srv.config.EventRate), srv.config.EventBurst)
		srv.limiters[p.ID()] = l
	}
	srv.mu.Unlock()
	if !l.Allow() {
		log.Debug().Str("sid", p.ID()).Str("event", event).Msg("rate limited")
		return false
	}
	return true
}

// watch subscribes p to updates of code if the room exists. The pump
// goroutine ends when the subscription is closed.
func (srv *Server) watch(p Peer, code string) {
	if _, err := srv.RM.Get(code); err != nil {
		return
	}
	ch, fresh := srv.hub.Subscribe(code, p.ID())
	if !fresh {
		return
	}
	go func() {
		for msg := range ch {
			p.Emit(msg.Event, msg.Room)
		}
	}()
}

func rejected(p Peer, event, code string, err error) {
	log.Debug().Err(err).Str("sid", p.ID()).Str("code", code).Str("event", event).Msg("event rejected")
}

func (srv *Server) CreateRoom(p Peer, d CreateRoomData) {
	if !srv.allow(p, "createRoom") {
		return
	}
	created, err := srv.RM.CreateRoom(d.Code, d.Host.Name)
	if err != nil {
		rejected(p, "createRoom", d.Code, err)
		return
	}
	srv.watch(p, d.Code)
	log.Info().Str("sid", p.ID()).Str("code", d.Code).Str("player", d.Host.Name).Bool("created", created).Msg("createRoom")
}

// JoinRoom acks true only when the player was added.
func (srv *Server) JoinRoom(p Peer, d JoinRoomData) bool {
	if !srv.allow(p, "joinRoom") {
		return false
	}
	if _, err := srv.RM.Join(d.Code, d.Player.Name, p.ID()); err != nil {
		rejected(p, "joinRoom", d.Code, err)
		return false
	}
	srv.watch(p, d.Code)
	log.Info().Str("sid", p.ID()).Str("code", d.Code).Str("player", d.Player.Name).Msg("joinRoom")
	return true
}

func (srv *Server) GetRoom(p Peer, code string) any {
	if !srv.allow(p, "getRoom") {
		return errorAck("rate_limited")
	}
	snap, err := srv.RM.Snapshot(code)
	if err != nil {
		rejected(p, "getRoom", code, err)
		return errorAck("room_not_found")
	}
	srv.watch(p, code)
	return snap
}

func (srv *Server) SubmitWords(p Peer, d SubmitWordsData) {
	if !srv.allow(p, "submitWords") {
		return
	}
	srv.watch(p, d.RoomID)
	snap, err := srv.RM.SubmitWords(d.RoomID, d.Words)
	if err != nil {
		rejected(p, "submitWords", d.RoomID, err)
		return
	}
	log.Info().Str("sid", p.ID()).Str("code", d.RoomID).Int("words", len(snap.Words)).Msg("submitWords")
}

func (srv *Server) ModifyRoom(p Peer, code, playerName string, change game.RoomChange) {
	if !srv.allow(p, "modifyRoom") {
		return
	}
	srv.watch(p, code)
	snap, err := srv.RM.Modify(code, playerName, change)
	if err != nil {
		rejected(p, "modifyRoom", code, err)
		return
	}
	log.Info().Str("sid", p.ID()).Str("code", code).Str("player", playerName).
		Int("wordIndex", snap.WordIndex).Stringer("status", snap.Status).Msg("modifyRoom")
}

func (srv *Server) AdvanceRoom(p Peer, d AdvanceRoomData) {
	if !srv.allow(p, "advanceRoom") {
		return
	}
	srv.watch(p, d.Code)
	snap, err := srv.RM.Advance(d.Code, d.PlayerName)
	if err != nil {
		rejected(p, "advanceRoom", d.Code, err)
		return
	}
	log.Info().Str("sid", p.ID()).Str("code", d.Code).Str("player", d.PlayerName).
		Int("wordIndex", snap.WordIndex).Stringer("status", snap.Status).Msg("advanceRoom")
}

func (srv *Server) GuessWord(p Peer, d SubmitGuessData) {
	if !srv.allow(p, "guessWord") {
		return
	}
	srv.watch(p, d.RoomID)
	if _, err := srv.RM.Guess(d.RoomID, d.PlayerName, d.Guess); err != nil {
		rejected(p, "guessWord", d.RoomID, err)
		return
	}
	log.Info().Str("sid", p.ID()).Str("code", d.RoomID).Str("player", d.PlayerName).Msg("guessWord")
}

func (srv *Server) GetPlayers(p Peer, d GetPlayersData) any {
	if !srv.allow(p, "getPlayers") {
		return errorAck("rate_limited")
	}
	players, err := srv.RM.Players(d.Code)
	if err != nil {
		rejected(p, "getPlayers", d.Code, err)
		return errorAck("room_not_found")
	}
	return players
}

func (srv *Server) GetScoreboard(p Peer, d GetPlayersData) any {
	if !srv.allow(p, "getScoreboard") {
		return errorAck("rate_limited")
	}
	players, err := srv.RM.Players(d.Code)
	if err != nil {
		rejected(p, "getScoreboard", d.Code, err)
		return errorAck("room_not_found")
	}
	return ScoreboardAck{
		Scoreboard: game.Scoreboard(players),
		Ranking:    game.Ranking(players),
	}
}

const suggestTimeout = 30 * time.Second

// SuggestWords asks the configured provider for a word list. Only the host
// may ask, and nothing is added to the room.
func (srv *Server) SuggestWords(p Peer, d SuggestWordsData) any {
	if !srv.allow(p, "suggestWords") {
		return errorAck("rate_limited")
	}
	isHost, err := srv.RM.IsHost(d.Code, d.PlayerName)
	if err != nil {
		rejected(p, "suggestWords", d.Code, err)
		return errorAck("room_not_found")
	}
	if !isHost {
		rejected(p, "suggestWords", d.Code, game.ErrUnauthorized)
		return errorAck("unauthorized")
	}
	if srv.suggester == nil {
		return errorAck("suggestions_disabled")
	}
	ctx, cancel := context.WithTimeout(context.Background(), suggestTimeout)
	defer cancel()
	words, err := srv.suggester.SuggestWords(ctx, d.Topic, d.Count)
	if err != nil {
		log.Error().Err(err).Str("code", d.Code).Str("topic", d.Topic).Msg("suggestWords failed")
		return errorAck("suggestion_failed")
	}
	log.Info().Str("sid", p.ID()).Str("code", d.Code).Int("count", len(words)).Msg("suggestWords")
	return words
}

func errorAck(code string) map[string]any {
	return map[string]any{"error": code}
}
