package archive

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kiliankoe/spellbee/internal/game"
)

const (
	batchSize     = 50
	flushInterval = 500 * time.Millisecond
	bufferSize    = 1024
)

// Row is one archived activity. GameID ties together the activities of one
// room lifetime, since room codes can be reused after a restart.
type Row struct {
	GameID   string
	RoomCode string
	Activity game.Activity
}

type batchStore interface {
	RecordActivities(rows []Row) error
}

// Writer is a game.ActivitySink that hands activities to a background batch
// loop. Record never blocks; when the buffer is full the activity is dropped.
type Writer struct {
	store    batchStore
	buffer   chan Row
	interval time.Duration

	mu    sync.Mutex
	games map[string]string
}

func NewWriter(store batchStore) *Writer {
	return &Writer{
		store:    store,
		buffer:   make(chan Row, bufferSize),
		interval: flushInterval,
		games:    make(map[string]string),
	}
}

func (w *Writer) gameID(code string) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	id, ok := w.games[code]
	if !ok {
		id = uuid.NewString()
		w.games[code] = id
	}
	return id
}

func (w *Writer) Record(code string, a game.Activity) {
	row := Row{GameID: w.gameID(code), RoomCode: code, Activity: a}
	select {
	case w.buffer <- row:
	default:
		log.Warn().Str("code", code).Msg("archive buffer full, dropping activity")
	}
}

// Run flushes batches of up to 50 rows, or whatever is pending every 500ms,
// until ctx is cancelled. Pending rows are flushed before it returns.
func (w *Writer) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	batch := make([]Row, 0, batchSize)
	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := w.store.RecordActivities(batch); err != nil {
			log.Error().Err(err).Int("rows", len(batch)).Msg("archive batch failed")
		}
		batch = batch[:0]
	}

	for {
		select {
		case row := <-w.buffer:
			batch = append(batch, row)
			if len(batch) >= batchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-ctx.Done():
			for {
				select {
				case row := <-w.buffer:
					batch = append(batch, row)
					if len(batch) >= batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		}
	}
}
