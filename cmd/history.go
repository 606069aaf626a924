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
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soundlens/soundlens/internal/stats"
	"github.com/soundlens/soundlens/internal/store"
)

var (
	historyArtists int
	historyTracks  int
)

var historyCmd = &cobra.Command{
	Use:   "history [from] [to (optional)]",
	Short: "Summarizes imported listening history",
	Long: `Aggregates the plays imported from a streaming-history export over the
specified period. Date strings look like 'yyyy', 'yyyy-mm', or 'yyyy-mm-dd'.`,
	Args: cobra.RangeArgs(1, 2),
	Run: func(cmd *cobra.Command, args []string) {
		err := printHistory(os.Stdout, viper.GetString("database"), args)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVar(&historyArtists, "artists", 10, "Number of top artists to show")
	historyCmd.Flags().IntVar(&historyTracks, "tracks", 10, "Number of top tracks to show")
}

func printHistory(out io.Writer, dbPath string, args []string) error {
	start, end, err := parseDateRangeFromArgs(args)
	if err != nil {
		return err
	}
	user := strings.ToLower(viper.GetString("user"))

	db, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	imported, err := db.GetLastImported(user)
	if err != nil {
		return err
	}
	if imported.IsZero() {
		return fmt.Errorf("No history imported for %q - run import first.", user)
	}

	plays, err := db.GetPlays(user, start, end)
	if err != nil {
		return fmt.Errorf("reading plays: %w", err)
	}

	const dateFormat = "2006-01-02"
	fmt.Fprintf(out, "Listening history for %s\n", user)
	fmt.Fprintf(out, "Period: %s to %s\n", start.Format(dateFormat), end.Format(dateFormat))
	fmt.Fprintf(out, "Plays: %d\n\n", len(plays))

	if len(plays) == 0 {
		fmt.Fprintln(out, "No plays found.")
		return nil
	}

	// Top artists by minutes
	if historyArtists > 0 {
		topArtists := stats.TopArtistsByMinutes(plays, historyArtists)
		artists := Analysis{results: [][]string{{"#", "Artist", "Minutes"}}}
		for i, row := range topArtists {
			artists.results = append(artists.results, []string{
				strconv.Itoa(i + 1), row.Name, fmt.Sprintf("%.1f", row.Minutes),
			})
		}
		fmt.Fprintf(out, "## Top %d Artists by listening time\n", historyArtists)
		fmt.Fprintln(out, artists)
	}

	// Top tracks by play count
	if historyTracks > 0 {
		topTracks := stats.TopTracksByPlays(plays, historyTracks)
		tracks := Analysis{results: [][]string{{"#", "Track", "Artist", "Plays"}}}
		for i, row := range topTracks {
			tracks.results = append(tracks.results, []string{
				strconv.Itoa(i + 1), row.Name, row.Artist, strconv.FormatInt(row.Count, 10),
			})
		}
		fmt.Fprintf(out, "## Top %d Tracks by plays\n", historyTracks)
		fmt.Fprintln(out, tracks)
	}

	// Monthly trend
	monthly := Analysis{results: [][]string{{"Month", "Minutes"}}}
	for _, entry := range stats.MonthlyMinutes(plays) {
		monthly.results = append(monthly.results, []string{entry.Key, fmt.Sprintf("%.1f", entry.Minutes)})
	}
	fmt.Fprintln(out, "## Monthly listening")
	fmt.Fprintln(out, monthly)

	// Day-of-week pattern
	weekdays := Analysis{results: [][]string{{"Day", "Minutes"}}}
	for _, entry := range stats.WeekdayMinutes(plays) {
		weekdays.results = append(weekdays.results, []string{entry.Key, fmt.Sprintf("%.1f", entry.Minutes)})
	}
	fmt.Fprintln(out, "## Listening by day of week")
	fmt.Fprintln(out, weekdays)

	// Play lengths
	summary := stats.SummarizeDurations(plays)
	fmt.Fprintln(out, "## Play lengths")
	fmt.Fprintf(out, "%d plays (%d skips excluded), mean %.1f min, median %.1f min, longest %.1f min\n",
		summary.Plays, summary.SkippedPlays, summary.MeanMinutes, summary.MedianMinutes, summary.MaxMinutes)

	return nil
}
