package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/soundlens/soundlens/internal/stats"
)

func (s *Store) GetLastImported(user string) (time.Time, error) {
	row := s.db.QueryRow("SELECT last_imported FROM User WHERE name = ?", user)
	var t sql.NullTime
	err := row.Scan(&t)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting last imported: %w", err)
	}
	return t.Time, nil
}

func (s *Store) GetLatestPlay(user string) (time.Time, error) {
	row := s.db.QueryRow("SELECT played_at FROM Play WHERE user = ? ORDER BY played_at DESC LIMIT 1", user)
	var playedAt int64
	err := row.Scan(&playedAt)
	if err == sql.ErrNoRows {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("getting latest play: %w", err)
	}
	return time.Unix(playedAt, 0), nil
}

func (s *Store) CountPlays(user string) (int64, error) {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(id) FROM Play WHERE user = ?", user).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting plays: %w", err)
	}
	return count, nil
}

// GetPlays returns the user's plays in [start, end), oldest first, in
// the shape the stats package aggregates over.
func (s *Store) GetPlays(user string, start, end time.Time) ([]stats.PlayedTrack, error) {
	query := `
	SELECT Track.name, Track.artist, Play.played_at, Play.duration_ms
	FROM Play
	INNER JOIN Track ON Track.id = Play.track
	WHERE user = ?
	AND Play.played_at >= ? AND Play.played_at < ?
	ORDER BY Play.played_at ASC
	`
	rows, err := s.db.Query(query, user, start.Unix(), end.Unix())
	if err != nil {
		return nil, fmt.Errorf("querying plays: %w", err)
	}
	defer rows.Close()

	var plays []stats.PlayedTrack
	for rows.Next() {
		var name, artist string
		var playedAt, durationMs int64
		if err := rows.Scan(&name, &artist, &playedAt, &durationMs); err != nil {
			return nil, fmt.Errorf("scanning play: %w", err)
		}
		plays = append(plays, stats.PlayedTrack{
			TrackName:   name,
			ArtistNames: []string{artist},
			DurationMs:  durationMs,
			PlayedAt:    time.Unix(playedAt, 0),
		})
	}
	return plays, rows.Err()
}
