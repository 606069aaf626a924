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
)

var topArtistsNumber int
var topArtistsCmd = &cobra.Command{
	Use:   "top-artists [time-range]",
	Short: "Gets the account's top artists",
	Long:  `Time range is one of short (~4 weeks), medium (~6 months), or long (all-time). Defaults to medium.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		err := printTopArtists(cmd.Context(), arg, topArtistsNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topArtistsCmd)

	topArtistsCmd.Flags().IntVarP(&topArtistsNumber, "number", "n", 10, "number of results to return")
}

func printTopArtists(ctx context.Context, rangeArg string, numToReturn int) error {
	timeRange, err := parseTimeRange(rangeArg)
	if err != nil {
		return err
	}

	client, err := newCatalogClient()
	if err != nil {
		return err
	}

	analysis, err := TopArtistsAnalyzer{Number: numToReturn, TimeRange: timeRange}.GetResults(ctx, client)
	if err != nil {
		return err
	}
	fmt.Println(analysis)
	return nil
}

type TopArtistsAnalyzer struct {
	Number    int
	TimeRange string
}

func (t TopArtistsAnalyzer) GetName() string {
	return "Top artists"
}

func (t TopArtistsAnalyzer) GetResults(ctx context.Context, client *catalog.Client) (analysis Analysis, err error) {
	artists, err := client.TopArtists(ctx, t.TimeRange, t.Number)
	if err != nil {
		err = fmt.Errorf("printTopArtists: %w", err)
		return
	}

	analysis.results = [][]string{{"#", "Artist", "Genres", "Popularity"}}
	for i, artist := range artists {
		analysis.results = append(analysis.results, []string{
			strconv.Itoa(i + 1),
			artist.Name,
			strings.Join(artist.Genres, ", "),
			strconv.Itoa(artist.Popularity),
		})
	}

	analysis.summary = fmt.Sprintf("Found %d top artists (%s)\n", len(artists), t.TimeRange)
	return
}
