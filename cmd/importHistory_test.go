/*
Copyright 2020 Google LLC

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/soundlens/soundlens/internal/store"
)

const testExportFile = `[
	{"endTime": "2026-08-01 10:30", "artistName": "A", "trackName": "one", "msPlayed": 120000},
	{"endTime": "2026-08-01 11:00", "artistName": "B", "trackName": "two", "msPlayed": 60000}
]`

func TestConvertEntries(t *testing.T) {
	entries := []exportEntry{
		{EndTime: "2026-08-01 10:30", ArtistName: "A", TrackName: "one", MsPlayed: 120000},
	}

	plays, err := convertEntries(entries)
	if err != nil {
		t.Fatalf("converting entries: %v", err)
	}
	if len(plays) != 1 {
		t.Fatalf("got %d plays, want 1", len(plays))
	}
	if plays[0].Artist != "A" || plays[0].TrackName != "one" || plays[0].DurationMs != 120000 {
		t.Errorf("play fields not carried over: %+v", plays[0])
	}
	if plays[0].PlayedAt.Hour() != 10 || plays[0].PlayedAt.Minute() != 30 {
		t.Errorf("got played at %v, want 10:30", plays[0].PlayedAt)
	}
}

func TestConvertEntries_badTimestamp(t *testing.T) {
	entries := []exportEntry{
		{EndTime: "yesterday", ArtistName: "A", TrackName: "one", MsPlayed: 120000},
	}
	if _, err := convertEntries(entries); err == nil {
		t.Fatalf("Expected error parsing endTime %q", entries[0].EndTime)
	}
}

func TestImportHistoryReadsNumberedFiles(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 2; i++ {
		path := filepath.Join(dir, fmt.Sprintf("StreamingHistory_music_%d.json", i))
		if err := os.WriteFile(path, []byte(testExportFile), 0644); err != nil {
			t.Fatalf("writing export file: %v", err)
		}
	}

	dbPath := filepath.Join(t.TempDir(), "test.db")
	config := ImportConfig{DbPath: dbPath, User: "listener", Dir: dir}
	if err := importHistory(config); err != nil {
		t.Fatalf("importing history: %v", err)
	}

	db, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	count, err := db.CountPlays("listener")
	if err != nil {
		t.Fatalf("counting plays: %v", err)
	}
	// Both files carry the same two plays; import is idempotent on
	// (user, track, played_at), so the duplicates collapse.
	if count != 2 {
		t.Errorf("got %d plays, want 2", count)
	}

	imported, err := db.GetLastImported("listener")
	if err != nil {
		t.Fatalf("getting last imported: %v", err)
	}
	if imported.IsZero() {
		t.Errorf("expected last_imported to be set")
	}
}

func TestImportHistoryEmptyDirectory(t *testing.T) {
	config := ImportConfig{
		DbPath: filepath.Join(t.TempDir(), "test.db"),
		User:   "listener",
		Dir:    t.TempDir(),
	}
	if err := importHistory(config); err == nil {
		t.Fatalf("Expected error importing from empty directory")
	}
}
