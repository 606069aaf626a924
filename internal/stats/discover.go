package stats

import (
	"fmt"
	"math/rand"
	"strings"
)

// Discover picks an artist the user doesn't already know from a genre
// search result, uniformly at random. The rand source is a parameter so
// callers control determinism; the CLI seeds from the clock, tests from
// a constant. The rationale names the overlap between the pick's genres
// and the user's top genres, falling back to the searched genre when
// there is none.
func Discover(genre string, candidatePool []ArtistSummary, knownArtistIDs map[string]bool, knownTopGenres map[string]bool, rng *rand.Rand) (*DiscoveredArtist, error) {
	fresh := make([]ArtistSummary, 0, len(candidatePool))
	for _, candidate := range candidatePool {
		if knownArtistIDs[candidate.ArtistID] {
			continue
		}
		fresh = append(fresh, candidate)
	}
	if len(fresh) == 0 {
		return nil, fmt.Errorf("genre %q: %w", genre, ErrNoNewArtists)
	}

	pick := fresh[rng.Intn(len(fresh))]

	var overlap []string
	for _, g := range pick.Genres {
		if knownTopGenres[g] {
			overlap = append(overlap, g)
		}
	}

	rationale := fmt.Sprintf("matched your search for %q", genre)
	if len(overlap) > 0 {
		rationale = fmt.Sprintf("shares your top genres: %s", strings.Join(overlap, ", "))
	}

	return &DiscoveredArtist{Artist: pick, Rationale: rationale}, nil
}
