package stats

import (
	"errors"
	"time"
)

// Genre assigned to artists that never showed up in the genre map.
const UnknownGenre = "Unknown"

var (
	// ErrNoAnalysisAvailable means none of the given tracks carried
	// tempo/mode analysis, so no mood distribution can be computed.
	ErrNoAnalysisAvailable = errors.New("no analysis data available")

	// ErrNoNewArtists means every search candidate was already in the
	// user's known top set.
	ErrNoNewArtists = errors.New("no new artists found")
)

// PlayedTrack is one play from the recently-played feed or an imported
// history export. Immutable once fetched.
type PlayedTrack struct {
	TrackID     string
	TrackName   string
	ArtistNames []string
	DurationMs  int64
	PlayedAt    time.Time
}

// ArtistSummary is the slice of the catalog's artist record the stats
// layer cares about.
type ArtistSummary struct {
	ArtistID   string   `yaml:"id" json:"id"`
	Name       string   `yaml:"name" json:"name"`
	Genres     []string `yaml:"genres" json:"genres"`
	Popularity int      `yaml:"popularity" json:"popularity"`
}

// GenreMap maps artist name to genre list. Built once per aggregation
// run and read-only afterward.
type GenreMap map[string][]string

// BucketEntry is one labeled accumulator of listening minutes.
type BucketEntry struct {
	Key     string  `yaml:"key" json:"key"`
	Minutes float64 `yaml:"minutes" json:"minutes"`
}

// DailyBucket holds one entry per calendar day of the window, ascending.
// Every day is present even when nothing was played on it.
type DailyBucket []BucketEntry

// HourlyBucket holds 24 entries labeled "00".."23".
type HourlyBucket []BucketEntry

// GenreStat is one row of a genre ranking. Total is listening minutes or
// a contributing-artist count depending on the view that produced it.
type GenreStat struct {
	Genre   string   `yaml:"genre" json:"genre"`
	Total   float64  `yaml:"total" json:"total"`
	Artists []string `yaml:"artists,omitempty" json:"artists,omitempty"`
}

// Aggregation is the derived output of one run over a track set.
type Aggregation struct {
	Daily  DailyBucket  `yaml:"daily" json:"daily"`
	Hourly HourlyBucket `yaml:"hourly" json:"hourly"`
	Genres []GenreStat  `yaml:"genres" json:"genres"`
}

type MoodLabel string

const (
	FastMajor   MoodLabel = "Fast Major"
	FastMinor   MoodLabel = "Fast Minor"
	SlowMajor   MoodLabel = "Slow Major"
	SlowMinor   MoodLabel = "Slow Minor"
	MediumMajor MoodLabel = "Medium Major"
	MediumMinor MoodLabel = "Medium Minor"
)

// AnalyzedTrack pairs a track with its tempo/mode analysis. HasAnalysis
// is false when the catalog had no analysis record for the track.
type AnalyzedTrack struct {
	TrackID     string
	TrackName   string
	Tempo       float64
	Mode        int
	HasAnalysis bool
}

// MoodBucket is one slice of the mood distribution across a track set.
type MoodBucket struct {
	Mood       MoodLabel `yaml:"mood" json:"mood"`
	Count      int       `yaml:"count" json:"count"`
	Percentage float64   `yaml:"percentage" json:"percentage"`
	Samples    []string  `yaml:"samples,omitempty" json:"samples,omitempty"`
}

// DiscoveredArtist is the result of a discovery run: a new-to-the-user
// artist plus the reason it was surfaced.
type DiscoveredArtist struct {
	Artist    ArtistSummary `yaml:"artist" json:"artist"`
	Rationale string        `yaml:"rationale" json:"rationale"`
}
