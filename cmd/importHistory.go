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
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soundlens/soundlens/internal/store"
)

// The export's endTime field carries minute precision and no zone.
const exportTimeLayout = "2006-01-02 15:04"

type ImportConfig struct {
	DbPath string
	User   string
	Dir    string
}

var importCmd = &cobra.Command{
	Use:   "import <directory>",
	Short: "Imports a streaming-history export into the local database",
	Long: `Reads StreamingHistory_music_0.json, StreamingHistory_music_1.json, ...
from the given directory. The streaming service splits the export into
multiple files at 10k entries; files are read in order until one is missing.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		config := ImportConfig{
			DbPath: viper.GetString("database"),
			User:   strings.ToLower(viper.GetString("user")),
			Dir:    args[0],
		}
		err := importHistory(config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}

type exportEntry struct {
	EndTime    string `json:"endTime"`
	ArtistName string `json:"artistName"`
	TrackName  string `json:"trackName"`
	MsPlayed   int64  `json:"msPlayed"`
}

func importHistory(config ImportConfig) error {
	db, err := store.New(config.DbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	if err := db.CreateUser(config.User); err != nil {
		return fmt.Errorf("creating user: %w", err)
	}

	total := 0
	for fileIndex := 0; ; fileIndex++ {
		path := filepath.Join(config.Dir, fmt.Sprintf("StreamingHistory_music_%d.json", fileIndex))
		entries, err := readExportFile(path)
		if os.IsNotExist(err) {
			// No more files in the export
			break
		}
		if err != nil {
			return err
		}

		plays, err := convertEntries(entries)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		if err := db.AddPlays(config.User, plays); err != nil {
			return fmt.Errorf("inserting plays from %s: %w", path, err)
		}

		total += len(plays)
		fmt.Printf("Imported %s with %d entries\n", path, len(plays))
	}

	if total == 0 {
		return fmt.Errorf("no StreamingHistory_music_*.json files found in %s", config.Dir)
	}

	if err := db.SetLastImported(config.User, time.Now()); err != nil {
		return err
	}

	fmt.Printf("Imported %d plays for %q\n", total, config.User)
	return nil
}

func readExportFile(path string) ([]exportEntry, error) {
	contents, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var entries []exportEntry
	if err := json.Unmarshal(contents, &entries); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return entries, nil
}

func convertEntries(entries []exportEntry) ([]store.PlayImport, error) {
	plays := make([]store.PlayImport, 0, len(entries))
	for _, entry := range entries {
		playedAt, err := time.Parse(exportTimeLayout, entry.EndTime)
		if err != nil {
			return nil, fmt.Errorf("parsing endTime %q: %w", entry.EndTime, err)
		}
		plays = append(plays, store.PlayImport{
			Artist:     entry.ArtistName,
			TrackName:  entry.TrackName,
			PlayedAt:   playedAt,
			DurationMs: entry.MsPlayed,
		})
	}
	return plays, nil
}
