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
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/soundlens/soundlens/internal/catalog"
	"github.com/soundlens/soundlens/internal/stats"
)

var discoverPoolSize int
var discoverCmd = &cobra.Command{
	Use:   "discover <genre>",
	Short: "Suggests an artist you haven't listened to yet",
	Long:  `Searches the catalog for artists in the given genre and picks one at random that isn't already in your top artists.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		err := printDiscovery(cmd.Context(), args[0], discoverPoolSize)
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(discoverCmd)

	discoverCmd.Flags().IntVar(&discoverPoolSize, "pool", 20, "number of search candidates to draw from")
}

func printDiscovery(ctx context.Context, genre string, poolSize int) error {
	client, err := newCatalogClient()
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	discovered, err := discoverArtist(ctx, client, genre, poolSize, rng)
	if err != nil {
		return err
	}

	fmt.Printf("Try %s (%s)\n", discovered.Artist.Name, discovered.Rationale)
	if len(discovered.Artist.Genres) > 0 {
		fmt.Printf("Genres: %s\n", strings.Join(discovered.Artist.Genres, ", "))
	}
	return nil
}

// discoverArtist excludes the account's known top artists from a genre
// search and picks uniformly from the remainder. Known genres come from
// the same top-artists fetch, so the rationale can name the overlap.
func discoverArtist(ctx context.Context, client *catalog.Client, genre string, poolSize int, rng *rand.Rand) (*stats.DiscoveredArtist, error) {
	pool, err := client.SearchArtistsByGenre(ctx, genre, poolSize, viper.GetString("market"))
	if err != nil {
		return nil, fmt.Errorf("searching for artists: %w", err)
	}

	topArtists, err := client.TopArtists(ctx, catalog.RangeMedium, 50)
	if err != nil {
		return nil, fmt.Errorf("fetching top artists: %w", err)
	}

	knownIDs := make(map[string]bool, len(topArtists))
	knownGenres := make(map[string]bool)
	for _, artist := range topArtists {
		knownIDs[artist.ID] = true
		for _, g := range artist.Genres {
			knownGenres[g] = true
		}
	}

	return stats.Discover(genre, summarizeArtists(pool), knownIDs, knownGenres, rng)
}
