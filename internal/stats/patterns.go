package stats

import (
	"sort"
	"time"
)

// Plays at or under this length are treated as skips and excluded from
// the duration distribution.
const skipThresholdMinutes = 0.1

// ArtistMinutes is one row of a listening-time ranking.
type ArtistMinutes struct {
	Name    string  `yaml:"name"`
	Minutes float64 `yaml:"minutes"`
}

// TrackPlays is one row of a play-count ranking.
type TrackPlays struct {
	Name   string `yaml:"name"`
	Artist string `yaml:"artist"`
	Count  int64  `yaml:"count"`
}

// DurationSummary describes the distribution of individual play lengths
// after skips are filtered out.
type DurationSummary struct {
	Plays         int     `yaml:"plays"`
	SkippedPlays  int     `yaml:"skipped_plays"`
	MeanMinutes   float64 `yaml:"mean_minutes"`
	MedianMinutes float64 `yaml:"median_minutes"`
	MaxMinutes    float64 `yaml:"max_minutes"`
}

// WeekdayMinutes totals listening minutes per day of week, Monday first.
func WeekdayMinutes(tracks []PlayedTrack) []BucketEntry {
	weekdays := []time.Weekday{
		time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
		time.Friday, time.Saturday, time.Sunday,
	}

	totals := make(map[time.Weekday]float64, len(weekdays))
	for _, track := range tracks {
		totals[track.PlayedAt.Weekday()] += float64(track.DurationMs) / 60000.0
	}

	entries := make([]BucketEntry, 0, len(weekdays))
	for _, day := range weekdays {
		entries = append(entries, BucketEntry{Key: day.String(), Minutes: totals[day]})
	}
	return entries
}

// MonthlyMinutes totals listening minutes per calendar month, ascending.
// Only months that saw listening appear.
func MonthlyMinutes(tracks []PlayedTrack) []BucketEntry {
	totals := make(map[string]float64)
	for _, track := range tracks {
		totals[track.PlayedAt.Format("2006-01")] += float64(track.DurationMs) / 60000.0
	}

	months := make([]string, 0, len(totals))
	for month := range totals {
		months = append(months, month)
	}
	sort.Strings(months)

	entries := make([]BucketEntry, 0, len(months))
	for _, month := range months {
		entries = append(entries, BucketEntry{Key: month, Minutes: totals[month]})
	}
	return entries
}

// SummarizeDurations characterizes how long individual plays run,
// excluding skips.
func SummarizeDurations(tracks []PlayedTrack) DurationSummary {
	var durations []float64
	skipped := 0
	for _, track := range tracks {
		minutes := float64(track.DurationMs) / 60000.0
		if minutes <= skipThresholdMinutes {
			skipped++
			continue
		}
		durations = append(durations, minutes)
	}

	summary := DurationSummary{Plays: len(durations), SkippedPlays: skipped}
	if len(durations) == 0 {
		return summary
	}

	sort.Float64s(durations)
	var sum float64
	for _, d := range durations {
		sum += d
	}
	summary.MeanMinutes = sum / float64(len(durations))
	summary.MaxMinutes = durations[len(durations)-1]

	mid := len(durations) / 2
	if len(durations)%2 == 1 {
		summary.MedianMinutes = durations[mid]
	} else {
		summary.MedianMinutes = (durations[mid-1] + durations[mid]) / 2
	}
	return summary
}

// TopArtistsByMinutes ranks artists by accumulated listening minutes.
// Multi-artist plays credit each artist with the full play length.
func TopArtistsByMinutes(tracks []PlayedTrack, limit int) []ArtistMinutes {
	totals := make(map[string]float64)
	order := make([]string, 0)
	for _, track := range tracks {
		for _, artist := range track.ArtistNames {
			if _, ok := totals[artist]; !ok {
				order = append(order, artist)
			}
			totals[artist] += float64(track.DurationMs) / 60000.0
		}
	}

	ranked := make([]ArtistMinutes, 0, len(order))
	for _, artist := range order {
		ranked = append(ranked, ArtistMinutes{Name: artist, Minutes: totals[artist]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Minutes > ranked[j].Minutes
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// TopTracksByPlays ranks tracks by how often they were played.
func TopTracksByPlays(tracks []PlayedTrack, limit int) []TrackPlays {
	type trackKey struct {
		name   string
		artist string
	}

	totals := make(map[trackKey]int64)
	order := make([]trackKey, 0)
	for _, track := range tracks {
		artist := ""
		if len(track.ArtistNames) > 0 {
			artist = track.ArtistNames[0]
		}
		key := trackKey{track.TrackName, artist}
		if _, ok := totals[key]; !ok {
			order = append(order, key)
		}
		totals[key]++
	}

	ranked := make([]TrackPlays, 0, len(order))
	for _, key := range order {
		ranked = append(ranked, TrackPlays{Name: key.name, Artist: key.artist, Count: totals[key]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
