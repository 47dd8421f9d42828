package game

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ExportResults appends a plain-text summary of a finished room to filename.
func ExportResults(snap RoomSnapshot, filename string, at time.Time) error {
	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	fileExists := false
	if _, err := os.Stat(filename); err == nil {
		fileExists = true
	}

	file, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	var sb strings.Builder
	if fileExists {
		sb.WriteString("\n\n")
	}
	sb.WriteString(fmt.Sprintf("Spelling Bee Results - Room %s\n", snap.Code))
	sb.WriteString(fmt.Sprintf("Host: %s\n", snap.Host.Name))
	sb.WriteString(fmt.Sprintf("Created: %s\n", snap.CreatedAt.Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n\n")

	sb.WriteString("Words:\n")
	for i, w := range snap.Words {
		sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, w))
	}
	sb.WriteString("\n")

	sb.WriteString("Final scores:\n")
	ranking := Ranking(snap.Players)
	if len(ranking) == 0 {
		sb.WriteString("- (no players)\n")
	}
	for _, e := range ranking {
		sb.WriteString(fmt.Sprintf("%d. %s: %d%%\n", e.Rank, e.Name, e.Score))
	}
	sb.WriteString("\n")

	sb.WriteString("Activity:\n")
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for _, a := range snap.Activities {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", a.Timestamp.Format(time.RFC3339), describeActivity(a)))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("Game ended at %s\n", at.Format("2006-01-02 15:04:05")))
	sb.WriteString(strings.Repeat("=", 50) + "\n")

	if _, err := file.WriteString(sb.String()); err != nil {
		return fmt.Errorf("failed to write to file: %w", err)
	}
	return nil
}

func describeActivity(a Activity) string {
	switch a.Type {
	case ActivityJoin:
		return a.PlayerName + " joined."
	case ActivityGuessRight:
		return fmt.Sprintf("%s guessed %s (round %s), correct", a.PlayerName, a.Metadata["guess"], a.Metadata["round"])
	case ActivityGuessWrong:
		return fmt.Sprintf("%s guessed %s (round %s), wrong", a.PlayerName, a.Metadata["guess"], a.Metadata["round"])
	case ActivityLog:
		return fmt.Sprintf("%s %s.", a.PlayerName, a.Metadata["message"])
	}
	return a.PlayerName + " " + string(a.Type)
}
