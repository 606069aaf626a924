package catalog

import "time"

// Time ranges understood by the top-artists and top-tracks endpoints.
const (
	RangeShort  = "short_term"  // last ~4 weeks
	RangeMedium = "medium_term" // last ~6 months
	RangeLong   = "long_term"   // all-time
)

// Artist is the catalog's artist shape. Genres may be empty; the
// per-artist detail endpoint is authoritative for them.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
}

type TrackArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Track struct {
	ID         string        `json:"id"`
	Name       string        `json:"name"`
	DurationMs int64         `json:"duration_ms"`
	Artists    []TrackArtist `json:"artists"`
}

// PlayHistoryItem is one entry of the recently-played feed.
type PlayHistoryItem struct {
	Track    Track     `json:"track"`
	PlayedAt time.Time `json:"played_at"`
}

// AudioFeatures is the per-track analysis shape. A nil entry in a batch
// response means the catalog has no analysis for that track.
type AudioFeatures struct {
	ID            string  `json:"id"`
	Tempo         float64 `json:"tempo"`
	Key           int     `json:"key"`
	Mode          int     `json:"mode"`
	TimeSignature int     `json:"time_signature"`
}

type artistsEnvelope struct {
	Items []Artist `json:"items"`
}

type tracksEnvelope struct {
	Items []Track `json:"items"`
}

type searchEnvelope struct {
	Artists struct {
		Items []Artist `json:"items"`
	} `json:"artists"`
}

type audioFeaturesEnvelope struct {
	AudioFeatures []*AudioFeatures `json:"audio_features"`
}
