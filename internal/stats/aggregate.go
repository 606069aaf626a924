package stats

import (
	"fmt"
	"sort"
	"time"
)

const dateFormat = "2006-01-02"

// DedupeTracks drops repeated feed entries, which the upstream paginated
// feed can produce across page boundaries. Identity is (playedAt,
// trackName); first occurrence wins and order is preserved.
func DedupeTracks(tracks []PlayedTrack) []PlayedTrack {
	type playKey struct {
		at   int64
		name string
	}

	seen := make(map[playKey]bool, len(tracks))
	deduped := make([]PlayedTrack, 0, len(tracks))
	for _, track := range tracks {
		key := playKey{track.PlayedAt.Unix(), track.TrackName}
		if seen[key] {
			continue
		}
		seen[key] = true
		deduped = append(deduped, track)
	}
	return deduped
}

// Aggregate turns a played-track set and a genre map into daily, hourly
// and per-genre listening-minute totals. The day window is the dayWindow
// calendar days ending at nowRef; both buckets are fully pre-initialized
// so sparse listening still yields a complete, contiguous key set.
// Tracks outside the window are dropped silently. Minutes for an artist
// with several genres are split evenly across them, so summing the genre
// totals never double-counts a play.
func Aggregate(tracks []PlayedTrack, genres GenreMap, dayWindow int, nowRef time.Time) Aggregation {
	daily := make(DailyBucket, 0, dayWindow)
	dayIndex := make(map[string]int, dayWindow)
	for i := dayWindow - 1; i >= 0; i-- {
		date := nowRef.AddDate(0, 0, -i).Format(dateFormat)
		dayIndex[date] = len(daily)
		daily = append(daily, BucketEntry{Key: date})
	}

	hourly := make(HourlyBucket, 24)
	for h := range hourly {
		hourly[h].Key = fmt.Sprintf("%02d", h)
	}

	genreTotals := make(map[string]*GenreStat)
	genreOrder := make([]string, 0)
	genreArtists := make(map[string]map[string]bool)

	for _, track := range tracks {
		// Day and hour boundaries are nowRef's; the feed reports plays
		// in UTC regardless of where the listening happened.
		playedAt := track.PlayedAt.In(nowRef.Location())
		day, inWindow := dayIndex[playedAt.Format(dateFormat)]
		if !inWindow {
			continue
		}

		minutes := float64(track.DurationMs) / 60000.0
		daily[day].Minutes += minutes
		hourly[playedAt.Hour()].Minutes += minutes

		for _, artist := range track.ArtistNames {
			resolved := genres.Resolve(artist)
			share := minutes / float64(len(resolved))
			for _, genre := range resolved {
				stat, ok := genreTotals[genre]
				if !ok {
					stat = &GenreStat{Genre: genre}
					genreTotals[genre] = stat
					genreOrder = append(genreOrder, genre)
					genreArtists[genre] = make(map[string]bool)
				}
				stat.Total += share
				if !genreArtists[genre][artist] {
					genreArtists[genre][artist] = true
					stat.Artists = append(stat.Artists, artist)
				}
			}
		}
	}

	ranked := make([]GenreStat, 0, len(genreOrder))
	for _, genre := range genreOrder {
		ranked = append(ranked, *genreTotals[genre])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})

	return Aggregation{Daily: daily, Hourly: hourly, Genres: ranked}
}

// GenreArtistRanking ranks genres by how many of the user's top artists
// carry them. Unlike minute totals, an artist counts fully toward each
// of its genres here.
func GenreArtistRanking(topArtists []ArtistSummary) []GenreStat {
	totals := make(map[string]*GenreStat)
	order := make([]string, 0)

	for _, artist := range topArtists {
		artistGenres := artist.Genres
		if len(artistGenres) == 0 {
			artistGenres = []string{UnknownGenre}
		}
		for _, genre := range artistGenres {
			stat, ok := totals[genre]
			if !ok {
				stat = &GenreStat{Genre: genre}
				totals[genre] = stat
				order = append(order, genre)
			}
			stat.Total++
			stat.Artists = append(stat.Artists, artist.Name)
		}
	}

	ranked := make([]GenreStat, 0, len(order))
	for _, genre := range order {
		ranked = append(ranked, *totals[genre])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Total > ranked[j].Total
	})
	return ranked
}
