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
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/soundlens/soundlens/internal/catalog"
	"github.com/soundlens/soundlens/internal/stats"
)

var genresNumber int
var genresCmd = &cobra.Command{
	Use:   "genres [time-range]",
	Short: "Ranks genres by how many top artists carry them",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		err := printGenres(cmd.Context(), arg, genresNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(genresCmd)

	genresCmd.Flags().IntVarP(&genresNumber, "number", "n", 50, "number of top artists to rank over")
}

func printGenres(ctx context.Context, rangeArg string, numArtists int) error {
	timeRange, err := parseTimeRange(rangeArg)
	if err != nil {
		return err
	}

	client, err := newCatalogClient()
	if err != nil {
		return err
	}

	analysis, err := GenresAnalyzer{Number: numArtists, TimeRange: timeRange}.GetResults(ctx, client)
	if err != nil {
		return err
	}
	fmt.Println(analysis)
	return nil
}

type GenresAnalyzer struct {
	Number    int
	TimeRange string
}

func (g GenresAnalyzer) GetName() string {
	return "Genre breakdown"
}

func (g GenresAnalyzer) GetResults(ctx context.Context, client *catalog.Client) (analysis Analysis, err error) {
	number := g.Number
	if number == 0 {
		number = 50
	}

	artists, err := client.TopArtists(ctx, g.TimeRange, number)
	if err != nil {
		err = fmt.Errorf("fetching top artists: %w", err)
		return
	}

	ranked := stats.GenreArtistRanking(summarizeArtists(artists))

	analysis.results = [][]string{{"Genre", "Artists", "Who"}}
	for _, stat := range ranked {
		analysis.results = append(analysis.results, []string{
			stat.Genre,
			strconv.Itoa(int(stat.Total)),
			strings.Join(stat.Artists, ", "),
		})
	}

	analysis.summary = fmt.Sprintf("Found %d genres across %d artists (%s)\n", len(ranked), len(artists), g.TimeRange)
	return
}

func summarizeArtists(artists []catalog.Artist) []stats.ArtistSummary {
	summaries := make([]stats.ArtistSummary, 0, len(artists))
	for _, artist := range artists {
		summaries = append(summaries, stats.ArtistSummary{
			ArtistID:   artist.ID,
			Name:       artist.Name,
			Genres:     artist.Genres,
			Popularity: artist.Popularity,
		})
	}
	return summaries
}
