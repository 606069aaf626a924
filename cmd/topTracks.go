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
	"time"

	"github.com/spf13/cobra"

	"github.com/soundlens/soundlens/internal/catalog"
)

var topTracksNumber int
var topTracksCmd = &cobra.Command{
	Use:   "top-tracks [time-range]",
	Short: "Gets the account's top tracks",
	Long:  `Time range is one of short (~4 weeks), medium (~6 months), or long (all-time). Defaults to medium.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		err := printTopTracks(cmd.Context(), arg, topTracksNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(topTracksCmd)

	topTracksCmd.Flags().IntVarP(&topTracksNumber, "number", "n", 10, "number of results to return")
}

func printTopTracks(ctx context.Context, rangeArg string, numToReturn int) error {
	timeRange, err := parseTimeRange(rangeArg)
	if err != nil {
		return err
	}

	client, err := newCatalogClient()
	if err != nil {
		return err
	}

	analysis, err := TopTracksAnalyzer{Number: numToReturn, TimeRange: timeRange}.GetResults(ctx, client)
	if err != nil {
		return err
	}
	fmt.Println(analysis)
	return nil
}

type TopTracksAnalyzer struct {
	Number    int
	TimeRange string
}

func (t TopTracksAnalyzer) GetName() string {
	return "Top tracks"
}

func (t TopTracksAnalyzer) GetResults(ctx context.Context, client *catalog.Client) (analysis Analysis, err error) {
	tracks, err := client.TopTracks(ctx, t.TimeRange, t.Number)
	if err != nil {
		err = fmt.Errorf("printTopTracks: %w", err)
		return
	}

	analysis.results = [][]string{{"#", "Track", "Artist", "Length"}}
	for i, track := range tracks {
		artist := ""
		if len(track.Artists) > 0 {
			artist = track.Artists[0].Name
		}
		length := time.Duration(track.DurationMs) * time.Millisecond
		analysis.results = append(analysis.results, []string{
			strconv.Itoa(i + 1),
			track.Name,
			artist,
			length.Round(time.Second).String(),
		})
	}

	analysis.summary = fmt.Sprintf("Found %d top tracks (%s)\n", len(tracks), t.TimeRange)
	return
}
