package archive

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiliankoe/spellbee/internal/game"
)

func getTestDB(t *testing.T) *DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}
	database, err := Connect(dsn)
	require.NoError(t, err)
	require.NoError(t, database.Migrate())
	t.Cleanup(func() {
		database.conn.Exec("DELETE FROM room_activities")
		database.Close()
	})
	return database
}

func TestMigrateIsRepeatable(t *testing.T) {
	database := getTestDB(t)
	require.NoError(t, database.Migrate())

	var exists bool
	err := database.conn.QueryRow(`
		SELECT EXISTS (SELECT FROM information_schema.tables WHERE table_name = 'room_activities')
	`).Scan(&exists)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRecordActivities(t *testing.T) {
	database := getTestDB(t)
	gameID := uuid.NewString()
	now := time.Now().UTC().Truncate(time.Millisecond)

	err := database.RecordActivities([]Row{
		{GameID: gameID, RoomCode: "ABCDEF", Activity: game.Activity{PlayerName: "Bob", Type: game.ActivityJoin, Timestamp: now}},
		{GameID: gameID, RoomCode: "ABCDEF", Activity: game.Activity{
			PlayerName: "Bob", Type: game.ActivityGuessRight, Timestamp: now,
			Metadata: map[string]string{"guess": "cat", "round": "1"},
		}},
	})
	require.NoError(t, err)

	var count int
	require.NoError(t, database.conn.QueryRow(
		`SELECT COUNT(*) FROM room_activities WHERE game_id = $1`, gameID).Scan(&count))
	assert.Equal(t, 2, count)

	var guess string
	require.NoError(t, database.conn.QueryRow(
		`SELECT metadata->>'guess' FROM room_activities WHERE game_id = $1 AND type = 'GUESS_RIGHT'`, gameID).Scan(&guess))
	assert.Equal(t, "cat", guess)
}
