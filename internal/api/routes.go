package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/spellbee/internal/broadcast"
	"github.com/kiliankoe/spellbee/internal/game"
)

type createRoomReq struct {
	Host string `json:"host" binding:"required"`
}

// Register mounts the read-mostly HTTP surface next to the socket transport.
func Register(r *gin.Engine, rm *game.RoomManager, hub *broadcast.Hub) {
	g := r.Group("/api/rooms")

	g.POST("", func(c *gin.Context) {
		var req createRoomReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
			return
		}
		code, err := rm.NewCode()
		if err != nil {
			log.Error().Err(err).Msg("room code generation failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "code_generation_failed"})
			return
		}
		if _, err := rm.CreateRoom(code, req.Host); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errorCode(err)})
			return
		}
		log.Info().Str("code", code).Str("player", req.Host).Msg("room created via api")
		c.JSON(http.StatusCreated, gin.H{"code": code})
	})

	g.GET("/:code", func(c *gin.Context) {
		snap, err := rm.Snapshot(c.Param("code"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": errorCode(err)})
			return
		}
		c.JSON(http.StatusOK, snap)
	})

	g.GET("/:code/players", func(c *gin.Context) {
		players, err := rm.Players(c.Param("code"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": errorCode(err)})
			return
		}
		c.JSON(http.StatusOK, players)
	})

	g.GET("/:code/scoreboard", func(c *gin.Context) {
		players, err := rm.Players(c.Param("code"))
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": errorCode(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"scoreboard": game.Scoreboard(players),
			"ranking":    game.Ranking(players),
		})
	})

	g.GET("/:code/events", func(c *gin.Context) {
		code := c.Param("code")
		snap, err := rm.Snapshot(code)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": errorCode(err)})
			return
		}
		id := "sse-" + uuid.NewString()
		ch, _ := hub.Subscribe(code, id)
		defer hub.Unsubscribe(code, id)
		log.Debug().Str("code", code).Str("subscriber", id).Msg("spectator connected")

		c.Header("Cache-Control", "no-cache")
		c.Header("X-Accel-Buffering", "no")
		c.SSEvent("room", snap)
		c.Writer.Flush()

		c.Stream(func(w io.Writer) bool {
			select {
			case msg, ok := <-ch:
				if !ok {
					return false
				}
				c.SSEvent("room", msg.Room)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
		log.Debug().Str("code", code).Str("subscriber", id).Msg("spectator disconnected")
	})
}

func statusFor(err error) int {
	if errors.Is(err, game.ErrRoomNotFound) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, game.ErrRoomNotFound):
		return "room_not_found"
	case errors.Is(err, game.ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, game.ErrInvalidCode):
		return "invalid_code"
	}
	return "bad_request"
}
