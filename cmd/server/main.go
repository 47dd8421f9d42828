package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/spellbee/internal/ai"
	"github.com/kiliankoe/spellbee/internal/api"
	"github.com/kiliankoe/spellbee/internal/archive"
	"github.com/kiliankoe/spellbee/internal/broadcast"
	"github.com/kiliankoe/spellbee/internal/config"
	"github.com/kiliankoe/spellbee/internal/game"
	"github.com/kiliankoe/spellbee/internal/ws"
)

const version = "v1.0.0-dev"

func main() {
	var (
		showHelp    = flag.Bool("help", false, "Show help message")
		showVersion = flag.Bool("version", false, "Show version information")
		portFlag    = flag.String("port", "", "Port to listen on (overrides PORT env var)")
	)
	flag.BoolVar(showHelp, "h", false, "Show help message (shorthand)")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	flag.Parse()

	if *showHelp {
		fmt.Printf(`Spellbee - Real-time spelling bee rooms

Usage: %s [options]

Options:
  -h, --help      Show this help message
  -v, --version   Show version information
  --port PORT     Port to listen on (default: 5000 or PORT env var)

Environment Variables (also read from .env):
  PORT                Port to listen on (default: 5000)
  LOG_LEVEL           debug, info, warn or error (default: info)
  CORS_ORIGINS        Comma-separated allowed origins (default: *)
  EVENT_RATE          Socket events per second per connection (default: 20)
  EVENT_BURST         Burst size for EVENT_RATE (default: 40)
  EXPORT_ENABLED      Append finished game results to a file (default: false)
  EXPORT_FILE         Path for exported results (default: ./spellbee-results.txt)
  DATABASE_URL        PostgreSQL DSN for the activity archive (optional)
  AI_PROVIDER         Word suggestions: "openai" or "ollama" (default: openai)
  AI_MODEL            Model for word suggestions (default: gpt-3.5-turbo)
  OPENAI_API_KEY      OpenAI API key
  OPENAI_BASE_URL     Custom OpenAI API base URL (optional)
  OLLAMA_HOST         Ollama host URL (default: http://localhost:11434)

Examples:
  %s                  Start server with default settings
  %s --port 3000      Start server on port 3000
`, os.Args[0], os.Args[0], os.Args[0])
		return
	}

	if *showVersion {
		fmt.Printf("Spellbee %s\n", version)
		return
	}

	envErr := godotenv.Load()
	cfg := config.FromEnv()
	if *portFlag != "" {
		cfg.Port = *portFlag
	}

	// zerolog setup (human-friendly console)
	zerolog.TimeFieldFormat = time.RFC3339
	cw := zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}
	log.Logger = log.Output(cw)
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if envErr != nil {
		log.Debug().Err(envErr).Msg("no .env file loaded")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Gin setup with custom logger (skip /socket.io noise)
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/socket.io") {
			return
		}
		status := c.Writer.Status()
		dur := time.Since(start)
		log.Info().Str("path", path).Int("status", status).Dur("dur", dur).Msg("http")
	})
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "time": time.Now().UTC()})
	})

	hub := broadcast.NewHub()
	opts := []game.Option{game.WithPublisher(hub)}

	var archiveDone sync.WaitGroup
	if cfg.DatabaseURL != "" {
		db, err := archive.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Error().Err(err).Msg("archive disabled: database unavailable")
		} else {
			defer db.Close()
			if err := db.Migrate(); err != nil {
				log.Error().Err(err).Msg("archive migration failed")
			}
			writer := archive.NewWriter(db)
			archiveDone.Add(1)
			go func() {
				defer archiveDone.Done()
				writer.Run(ctx)
			}()
			opts = append(opts, game.WithActivitySink(writer))
			log.Info().Msg("activity archive enabled")
		}
	}

	if cfg.ExportEnabled {
		opts = append(opts, game.WithEndedHook(func(snap game.RoomSnapshot) {
			if err := game.ExportResults(snap, cfg.ExportFile, time.Now()); err != nil {
				log.Error().Err(err).Str("code", snap.Code).Msg("failed to export game results")
				return
			}
			log.Info().Str("code", snap.Code).Str("file", cfg.ExportFile).Msg("exported game results")
		}))
	}

	rm := game.NewRoomManager(opts...)

	sock := ws.New(rm, hub, cfg)
	if strings.EqualFold(cfg.AIProvider, "ollama") || cfg.OpenAIKey != "" {
		sock.SetSuggester(ai.FromConfig(ai.Config{
			Provider:      cfg.AIProvider,
			Model:         cfg.AIModel,
			OpenAIKey:     cfg.OpenAIKey,
			OpenAIBaseURL: cfg.OpenAIBaseURL,
			OllamaHost:    cfg.OllamaHost,
		}))
		log.Info().Str("provider", cfg.AIProvider).Str("model", cfg.AIModel).Msg("word suggestions enabled")
	}
	io := sock.Mount(r)
	defer io.Close()

	api.Register(r, rm, hub)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	archiveDone.Wait()
}

func corsConfig(cfg config.Config) cors.Config {
	c := cors.Config{
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	if cfg.AllowAllOrigins() {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORSOrigin
		c.AllowCredentials = true
	}
	return c
}
