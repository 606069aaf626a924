package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustParse(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func TestDedupeTracksKeepsFirstOccurrence(t *testing.T) {
	at := mustParse(t, "2026-08-20T10:00:00Z")
	tracks := []PlayedTrack{
		{TrackName: "One", ArtistNames: []string{"A"}, DurationMs: 60000, PlayedAt: at},
		{TrackName: "One", ArtistNames: []string{"B"}, DurationMs: 90000, PlayedAt: at},
		{TrackName: "One", ArtistNames: []string{"A"}, DurationMs: 60000, PlayedAt: at.Add(time.Minute)},
		{TrackName: "Two", ArtistNames: []string{"A"}, DurationMs: 60000, PlayedAt: at},
	}

	deduped := DedupeTracks(tracks)
	require.Len(t, deduped, 3)
	assert.Equal(t, "One", deduped[0].TrackName)
	assert.Equal(t, []string{"A"}, deduped[0].ArtistNames, "first occurrence wins")
	assert.Equal(t, at.Add(time.Minute), deduped[1].PlayedAt)
	assert.Equal(t, "Two", deduped[2].TrackName)
}

func TestAggregateBucketDomainsAreComplete(t *testing.T) {
	now := mustParse(t, "2026-08-20T12:00:00Z")
	got := Aggregate(nil, GenreMap{}, 7, now)

	require.Len(t, got.Daily, 7)
	assert.Equal(t, "2026-08-14", got.Daily[0].Key)
	assert.Equal(t, "2026-08-20", got.Daily[6].Key)

	require.Len(t, got.Hourly, 24)
	assert.Equal(t, "00", got.Hourly[0].Key)
	assert.Equal(t, "23", got.Hourly[23].Key)
	for _, entry := range got.Daily {
		assert.Zero(t, entry.Minutes)
	}
	assert.Empty(t, got.Genres)
}

func TestAggregateDailyAndHourlyTotalsAgree(t *testing.T) {
	now := mustParse(t, "2026-08-20T23:00:00Z")
	genres := GenreMap{
		"A": {"rock"},
		"B": {"rock", "pop"},
	}
	tracks := []PlayedTrack{
		{TrackName: "t1", ArtistNames: []string{"A"}, DurationMs: 180000, PlayedAt: mustParse(t, "2026-08-18T08:30:00Z")},
		{TrackName: "t2", ArtistNames: []string{"B"}, DurationMs: 240000, PlayedAt: mustParse(t, "2026-08-18T22:10:00Z")},
		{TrackName: "t3", ArtistNames: []string{"A"}, DurationMs: 120000, PlayedAt: mustParse(t, "2026-08-20T08:45:00Z")},
		// Outside the window, dropped.
		{TrackName: "t4", ArtistNames: []string{"A"}, DurationMs: 600000, PlayedAt: mustParse(t, "2026-08-01T08:00:00Z")},
	}

	got := Aggregate(tracks, genres, 7, now)

	var dailySum, hourlySum, genreSum float64
	for _, entry := range got.Daily {
		dailySum += entry.Minutes
	}
	for _, entry := range got.Hourly {
		hourlySum += entry.Minutes
	}
	for _, stat := range got.Genres {
		genreSum += stat.Total
	}

	assert.InDelta(t, 9.0, dailySum, 0.001)
	assert.InDelta(t, dailySum, hourlySum, 0.001)
	assert.InDelta(t, dailySum, genreSum, 0.001, "even genre split must not double-count minutes")
}

func TestAggregateSplitsMinutesAcrossGenres(t *testing.T) {
	now := mustParse(t, "2026-08-20T12:00:00Z")
	genres := GenreMap{"B": {"rock", "pop"}}
	tracks := []PlayedTrack{
		{TrackName: "t1", ArtistNames: []string{"B"}, DurationMs: 240000, PlayedAt: mustParse(t, "2026-08-19T09:00:00Z")},
	}

	got := Aggregate(tracks, genres, 7, now)
	require.Len(t, got.Genres, 2)
	assert.InDelta(t, 2.0, got.Genres[0].Total, 0.001)
	assert.InDelta(t, 2.0, got.Genres[1].Total, 0.001)
	// Ties keep first-seen order.
	assert.Equal(t, "rock", got.Genres[0].Genre)
	assert.Equal(t, "pop", got.Genres[1].Genre)
}

func TestAggregateUnmappedArtistFallsBackToUnknown(t *testing.T) {
	now := mustParse(t, "2026-08-20T12:00:00Z")
	tracks := []PlayedTrack{
		{TrackName: "t1", ArtistNames: []string{"Mystery"}, DurationMs: 60000, PlayedAt: mustParse(t, "2026-08-19T09:00:00Z")},
	}

	got := Aggregate(tracks, GenreMap{}, 7, now)
	require.Len(t, got.Genres, 1)
	assert.Equal(t, UnknownGenre, got.Genres[0].Genre)
	assert.InDelta(t, 1.0, got.Genres[0].Total, 0.001)
	assert.Equal(t, []string{"Mystery"}, got.Genres[0].Artists)
}

func TestAggregateBucketsInReportLocation(t *testing.T) {
	// UTC-5: 2026-08-19T23:30 local is 2026-08-20T04:30 UTC.
	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2026, 8, 20, 12, 0, 0, 0, loc)
	tracks := []PlayedTrack{
		{TrackName: "t1", ArtistNames: []string{"A"}, DurationMs: 120000,
			PlayedAt: mustParse(t, "2026-08-20T04:30:00Z")},
	}

	got := Aggregate(tracks, GenreMap{"A": {"rock"}}, 7, now)

	byKey := make(map[string]float64, len(got.Daily))
	for _, entry := range got.Daily {
		byKey[entry.Key] = entry.Minutes
	}
	assert.InDelta(t, 2.0, byKey["2026-08-19"], 0.001, "play lands on its local day, not its UTC day")
	assert.Zero(t, byKey["2026-08-20"])
	assert.InDelta(t, 2.0, got.Hourly[23].Minutes, 0.001)
	assert.Zero(t, got.Hourly[4].Minutes)
}

func TestAggregateRanksGenresByMinutes(t *testing.T) {
	now := mustParse(t, "2026-08-20T12:00:00Z")
	genres := GenreMap{
		"A": {"jazz"},
		"B": {"rock"},
	}
	tracks := []PlayedTrack{
		{TrackName: "t1", ArtistNames: []string{"A"}, DurationMs: 60000, PlayedAt: mustParse(t, "2026-08-19T09:00:00Z")},
		{TrackName: "t2", ArtistNames: []string{"B"}, DurationMs: 300000, PlayedAt: mustParse(t, "2026-08-19T10:00:00Z")},
	}

	got := Aggregate(tracks, genres, 7, now)
	require.Len(t, got.Genres, 2)
	assert.Equal(t, "rock", got.Genres[0].Genre)
	assert.Equal(t, "jazz", got.Genres[1].Genre)
}

func TestGenreArtistRankingCountsWholeArtists(t *testing.T) {
	artists := []ArtistSummary{
		{Name: "A", Genres: []string{"rock", "pop"}},
		{Name: "B", Genres: []string{"rock"}},
		{Name: "C", Genres: nil},
	}

	ranked := GenreArtistRanking(artists)
	require.Len(t, ranked, 3)
	assert.Equal(t, "rock", ranked[0].Genre)
	assert.Equal(t, 2.0, ranked[0].Total)
	assert.Equal(t, []string{"A", "B"}, ranked[0].Artists)
	assert.Equal(t, "pop", ranked[1].Genre)
	assert.Equal(t, UnknownGenre, ranked[2].Genre)
	assert.Equal(t, []string{"C"}, ranked[2].Artists)
}
