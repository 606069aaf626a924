package store

import (
	"database/sql"
	"fmt"
	"time"
)

// PlayImport is one entry of a streaming-history export file.
type PlayImport struct {
	Artist     string
	TrackName  string
	PlayedAt   time.Time
	DurationMs int64
}

// CreateUser ensures a user row exists.
func (s *Store) CreateUser(user string) error {
	row := s.db.QueryRow("SELECT name FROM User WHERE name = ?", user)
	var name string
	err := row.Scan(&name)
	if err == sql.ErrNoRows {
		_, err := s.db.Exec("INSERT INTO User (name) VALUES (?)", user)
		if err != nil {
			return fmt.Errorf("inserting user %q: %w", user, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("checking user %q: %w", user, err)
	}
	return nil
}

func (s *Store) SetLastImported(user string, imported time.Time) error {
	_, err := s.db.Exec("UPDATE User SET last_imported = ? WHERE name = ?", imported, user)
	if err != nil {
		return fmt.Errorf("updating last_imported for %q: %w", user, err)
	}
	return nil
}

// AddPlays inserts a batch of plays transactionally. Re-importing the
// same export is a no-op: plays are keyed on (user, track, played_at).
func (s *Store) AddPlays(user string, plays []PlayImport) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, play := range plays {
		if err := createArtist(tx, play.Artist); err != nil {
			return err
		}
		trackID, err := createTrack(tx, play.Artist, play.TrackName)
		if err != nil {
			return err
		}
		if err := createPlay(tx, user, trackID, play.PlayedAt, play.DurationMs); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func createArtist(tx *sql.Tx, name string) error {
	_, err := tx.Exec("INSERT OR IGNORE INTO Artist (name) VALUES (?)", name)
	if err != nil {
		return fmt.Errorf("inserting artist %q: %w", name, err)
	}
	return nil
}

func createTrack(tx *sql.Tx, artist, name string) (int64, error) {
	var id int64
	err := tx.QueryRow("SELECT id FROM Track WHERE artist = ? AND name = ?", artist, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, fmt.Errorf("checking track %q: %w", name, err)
	}

	res, err := tx.Exec("INSERT INTO Track (artist, name) VALUES (?, ?)", artist, name)
	if err != nil {
		return 0, fmt.Errorf("inserting track %q: %w", name, err)
	}
	return res.LastInsertId()
}

func createPlay(tx *sql.Tx, user string, trackID int64, playedAt time.Time, durationMs int64) error {
	var dummy int64
	err := tx.QueryRow("SELECT id FROM Play WHERE user = ? AND track = ? AND played_at = ?",
		user, trackID, playedAt.Unix()).Scan(&dummy)
	if err == nil {
		return nil // Already imported
	}
	if err != sql.ErrNoRows {
		return fmt.Errorf("checking play: %w", err)
	}

	_, err = tx.Exec("INSERT INTO Play (user, track, played_at, duration_ms) VALUES (?, ?, ?, ?)",
		user, trackID, playedAt.Unix(), durationMs)
	if err != nil {
		return fmt.Errorf("inserting play: %w", err)
	}
	return nil
}
