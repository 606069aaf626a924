package stats

// BuildGenreMap indexes an already-fetched artist list by name. Played
// tracks only carry artist names, so keying by name trades a little
// precision (two artists sharing a name collide, last write wins) for
// one bulk fetch instead of a lookup per play.
func BuildGenreMap(topArtists []ArtistSummary) GenreMap {
	genres := make(GenreMap, len(topArtists))
	for _, artist := range topArtists {
		genres[artist.Name] = artist.Genres
	}
	return genres
}

// Resolve returns an artist's genres, or the Unknown sentinel for
// artists the map has never seen or that carry no genres.
func (m GenreMap) Resolve(artistName string) []string {
	genres, ok := m[artistName]
	if !ok || len(genres) == 0 {
		return []string{UnknownGenre}
	}
	return genres
}
