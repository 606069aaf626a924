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
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/soundlens/soundlens/internal/catalog"
	"github.com/soundlens/soundlens/internal/stats"
)

type ReportConfig struct {
	WindowDays int
	MaxPages   int
	PageLimit  int
	TimeRange  string
	AsYaml     bool
}

var reportWindowDays int
var reportMaxPages int
var reportYaml bool

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generates a listening report from recent plays",
	Long: `Fetches the recently-played feed and the account's top artists, then
derives daily, hourly, and per-genre listening minutes.`,
	Run: func(cmd *cobra.Command, args []string) {
		config := ReportConfig{
			WindowDays: reportWindowDays,
			MaxPages:   reportMaxPages,
			PageLimit:  50,
			TimeRange:  catalog.RangeMedium,
			AsYaml:     reportYaml,
		}
		err := printReport(cmd.Context(), os.Stdout, config)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().IntVarP(&reportWindowDays, "window", "w", 7, "number of recent days to aggregate over")
	reportCmd.Flags().IntVar(&reportMaxPages, "max-pages", 4, "page budget for the recently-played feed")
	reportCmd.Flags().BoolVar(&reportYaml, "yaml", false, "emit the report as YAML instead of tables")
}

type listeningReport struct {
	Generated  string `yaml:"generated" json:"generated"`
	WindowDays int    `yaml:"window_days" json:"window_days"`

	stats.Aggregation `yaml:",inline" json:"stats"`
}

func printReport(ctx context.Context, out io.Writer, config ReportConfig) error {
	client, err := newCatalogClient()
	if err != nil {
		return err
	}

	report, err := buildReport(ctx, out, client, config, time.Now())
	if err != nil {
		return err
	}

	if config.AsYaml {
		encoded, err := yaml.Marshal(report)
		if err != nil {
			return fmt.Errorf("encoding report: %w", err)
		}
		_, err = out.Write(encoded)
		return err
	}

	fmt.Fprintf(out, "Listening report for the last %d days\n\n", config.WindowDays)

	daily := Analysis{results: [][]string{{"Date", "Minutes"}}}
	for _, entry := range report.Daily {
		daily.results = append(daily.results, []string{entry.Key, fmt.Sprintf("%.1f", entry.Minutes)})
	}
	fmt.Fprintln(out, daily)

	hourly := Analysis{results: [][]string{{"Hour", "Minutes"}}}
	for _, entry := range report.Hourly {
		hourly.results = append(hourly.results, []string{entry.Key, fmt.Sprintf("%.1f", entry.Minutes)})
	}
	fmt.Fprintln(out, hourly)

	genres := Analysis{results: [][]string{{"Genre", "Minutes", "Artists"}}}
	for _, stat := range report.Genres {
		genres.results = append(genres.results, []string{
			stat.Genre,
			fmt.Sprintf("%.1f", stat.Total),
			strings.Join(stat.Artists, ", "),
		})
	}
	fmt.Fprintln(out, genres)

	return nil
}

// buildReport runs the full aggregation pipeline: collect recent plays,
// resolve genres through one bulk top-artists fetch, aggregate. A
// partially collected feed still produces a report; only an empty one
// fails.
func buildReport(ctx context.Context, out io.Writer, client *catalog.Client, config ReportConfig, now time.Time) (*listeningReport, error) {
	items, err := client.RecentlyPlayed(ctx, config.PageLimit, config.MaxPages)
	if err != nil {
		if len(items) == 0 {
			return nil, fmt.Errorf("fetching recent plays: %w", err)
		}
		fmt.Fprintf(out, "Warning: feed collection stopped early, reporting on %d plays: %v\n", len(items), err)
	}

	topArtists, err := client.TopArtists(ctx, config.TimeRange, 50)
	if err != nil {
		return nil, fmt.Errorf("fetching top artists: %w", err)
	}

	tracks := make([]stats.PlayedTrack, 0, len(items))
	for _, item := range items {
		names := make([]string, 0, len(item.Track.Artists))
		for _, artist := range item.Track.Artists {
			names = append(names, artist.Name)
		}
		tracks = append(tracks, stats.PlayedTrack{
			TrackID:     item.Track.ID,
			TrackName:   item.Track.Name,
			ArtistNames: names,
			DurationMs:  item.Track.DurationMs,
			PlayedAt:    item.PlayedAt,
		})
	}
	tracks = stats.DedupeTracks(tracks)

	genreMap := stats.BuildGenreMap(enrichGenres(ctx, client, summarizeArtists(topArtists)))
	aggregation := stats.Aggregate(tracks, genreMap, config.WindowDays, now)

	return &listeningReport{
		Generated:   now.Format("2006-01-02"),
		WindowDays:  config.WindowDays,
		Aggregation: aggregation,
	}, nil
}

// enrichGenres backfills genres for artists whose bulk record carried
// none; the per-artist detail endpoint is authoritative for them. A
// failed lookup leaves the summary unchanged, so those artists fall
// back to the Unknown bucket.
func enrichGenres(ctx context.Context, client *catalog.Client, summaries []stats.ArtistSummary) []stats.ArtistSummary {
	var ids []string
	var slots []int
	for i, summary := range summaries {
		if len(summary.Genres) == 0 {
			ids = append(ids, summary.ArtistID)
			slots = append(slots, i)
		}
	}
	if len(ids) == 0 {
		return summaries
	}

	for j, detail := range client.Artists(ctx, ids) {
		if detail != nil {
			summaries[slots[j]].Genres = detail.Genres
		}
	}
	return summaries
}
