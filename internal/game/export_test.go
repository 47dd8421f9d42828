package game

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestExportResults(t *testing.T) {
	rm, _ := newTestManager(t)
	startedRoom(t, rm)
	rm.Join("ABCDEF", "Carol", "")
	rm.Guess("ABCDEF", "Bob", "cat")
	rm.Guess("ABCDEF", "Carol", "kat")
	snap, _ := rm.Snapshot("ABCDEF")

	file := filepath.Join(t.TempDir(), "nested", "results.txt")
	endedAt := fixedNow.Add(10 * time.Minute)
	if err := ExportResults(snap, file, endedAt); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	out := string(data)
	for _, want := range []string{
		"Spelling Bee Results - Room ABCDEF",
		"Host: Alice",
		"1. cat\n2. dog\n3. fish\n",
		"1. Bob: 100%",
		"2. Carol: 0%",
		"Bob joined.",
		"Alice started the game.",
		"Bob guessed cat (round 1), correct",
		"Carol guessed kat (round 1), wrong",
		"Game ended at 2025-03-14 15:19:26",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("export missing %q:\n%s", want, out)
		}
	}
}

func TestExportResultsAppends(t *testing.T) {
	rm, _ := newTestManager(t)
	rm.CreateRoom("ABCDEF", "Alice")
	snap, _ := rm.Snapshot("ABCDEF")

	file := filepath.Join(t.TempDir(), "results.txt")
	for i := 0; i < 2; i++ {
		if err := ExportResults(snap, file, fixedNow); err != nil {
			t.Fatalf("export %d: %v", i, err)
		}
	}
	data, _ := os.ReadFile(file)
	out := string(data)
	if n := strings.Count(out, "Spelling Bee Results - Room ABCDEF"); n != 2 {
		t.Fatalf("expected 2 sections, got %d", n)
	}
	if !strings.Contains(out, "- (no players)") {
		t.Fatal("empty room should list no players")
	}
}
