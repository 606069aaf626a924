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

var moodsNumber int
var moodsCmd = &cobra.Command{
	Use:   "moods [time-range]",
	Short: "Classifies the account's top tracks into mood buckets",
	Long:  `Uses each track's tempo and major/minor mode. Tracks without analysis data are skipped.`,
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		arg := ""
		if len(args) > 0 {
			arg = args[0]
		}
		err := printMoods(cmd.Context(), arg, moodsNumber)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(moodsCmd)

	moodsCmd.Flags().IntVarP(&moodsNumber, "number", "n", 50, "number of top tracks to classify")
}

func printMoods(ctx context.Context, rangeArg string, numTracks int) error {
	timeRange, err := parseTimeRange(rangeArg)
	if err != nil {
		return err
	}

	client, err := newCatalogClient()
	if err != nil {
		return err
	}

	analysis, err := MoodsAnalyzer{Number: numTracks, TimeRange: timeRange}.GetResults(ctx, client)
	if err != nil {
		return err
	}
	fmt.Println(analysis)
	return nil
}

type MoodsAnalyzer struct {
	Number    int
	TimeRange string
}

func (m MoodsAnalyzer) GetName() string {
	return "Mood distribution"
}

func (m MoodsAnalyzer) GetResults(ctx context.Context, client *catalog.Client) (analysis Analysis, err error) {
	number := m.Number
	if number == 0 {
		number = 50
	}

	analyzed, err := fetchAnalyzedTracks(ctx, client, m.TimeRange, number)
	if err != nil {
		return
	}

	buckets, err := stats.Bucketize(analyzed)
	if err != nil {
		err = fmt.Errorf("classifying tracks: %w", err)
		return
	}

	analysis.results = [][]string{{"Mood", "Tracks", "Share", "Examples"}}
	for _, bucket := range buckets {
		analysis.results = append(analysis.results, []string{
			string(bucket.Mood),
			strconv.Itoa(bucket.Count),
			fmt.Sprintf("%.1f%%", bucket.Percentage),
			strings.Join(bucket.Samples, ", "),
		})
	}

	classified := 0
	for _, bucket := range buckets {
		classified += bucket.Count
	}
	analysis.summary = fmt.Sprintf("Classified %d of %d tracks (%s)\n", classified, len(analyzed), m.TimeRange)
	return
}

// fetchAnalyzedTracks pairs the account's top tracks with their audio
// analysis. A nil analysis slot marks the track as unclassifiable.
func fetchAnalyzedTracks(ctx context.Context, client *catalog.Client, timeRange string, number int) ([]stats.AnalyzedTrack, error) {
	tracks, err := client.TopTracks(ctx, timeRange, number)
	if err != nil {
		return nil, fmt.Errorf("fetching top tracks: %w", err)
	}

	ids := make([]string, 0, len(tracks))
	for _, track := range tracks {
		ids = append(ids, track.ID)
	}

	features, err := client.AudioFeatures(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching audio features: %w", err)
	}

	byID := make(map[string]*catalog.AudioFeatures, len(features))
	for _, f := range features {
		if f != nil {
			byID[f.ID] = f
		}
	}

	analyzed := make([]stats.AnalyzedTrack, 0, len(tracks))
	for _, track := range tracks {
		at := stats.AnalyzedTrack{TrackID: track.ID, TrackName: track.Name}
		if f, ok := byID[track.ID]; ok {
			at.Tempo = f.Tempo
			at.Mode = f.Mode
			at.HasAnalysis = true
		}
		analyzed = append(analyzed, at)
	}
	return analyzed, nil
}
