package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
)

// TopArtists returns the user's top artists for one of the fixed time
// ranges. An account with no top artists at all yields ErrEmptyResultSet.
func (c *Client) TopArtists(ctx context.Context, timeRange string, limit int) ([]Artist, error) {
	var envelope artistsEnvelope
	u := fmt.Sprintf("%s/me/top/artists?limit=%d&time_range=%s", c.baseURL, limit, timeRange)
	if err := c.get(ctx, u, &envelope); err != nil {
		return nil, fmt.Errorf("top artists: %w", err)
	}
	if len(envelope.Items) == 0 {
		return nil, fmt.Errorf("top artists (%s): %w", timeRange, ErrEmptyResultSet)
	}
	return envelope.Items, nil
}

func (c *Client) TopTracks(ctx context.Context, timeRange string, limit int) ([]Track, error) {
	var envelope tracksEnvelope
	u := fmt.Sprintf("%s/me/top/tracks?limit=%d&time_range=%s", c.baseURL, limit, timeRange)
	if err := c.get(ctx, u, &envelope); err != nil {
		return nil, fmt.Errorf("top tracks: %w", err)
	}
	return envelope.Items, nil
}

// RecentlyPlayed walks the recently-played feed up to maxPages pages.
// When a later page fails, the entries fetched before the failure are
// still returned, together with the error.
func (c *Client) RecentlyPlayed(ctx context.Context, limit, maxPages int) ([]PlayHistoryItem, error) {
	start := fmt.Sprintf("%s/me/player/recently-played?limit=%d", c.baseURL, limit)
	raw, collectErr := c.CollectPaginated(ctx, start, maxPages)

	var items []PlayHistoryItem
	for _, r := range raw {
		var item PlayHistoryItem
		if err := json.Unmarshal(r, &item); err != nil {
			return items, fmt.Errorf("recently played: %w: %v", ErrUpstreamUnavailable, err)
		}
		items = append(items, item)
	}
	if collectErr != nil {
		return items, fmt.Errorf("recently played: %w", collectErr)
	}
	return items, nil
}

// Artist fetches the detail record for one artist, which carries the
// authoritative genre list.
func (c *Client) Artist(ctx context.Context, id string) (*Artist, error) {
	var artist Artist
	u := fmt.Sprintf("%s/artists/%s", c.baseURL, url.PathEscape(id))
	if err := c.get(ctx, u, &artist); err != nil {
		return nil, fmt.Errorf("artist %s: %w", id, err)
	}
	return &artist, nil
}

// Artists fetches detail records concurrently, one request per ID. A
// failed lookup leaves a nil slot instead of failing the batch, so the
// caller can aggregate whatever did resolve.
func (c *Client) Artists(ctx context.Context, ids []string) []*Artist {
	artists := make([]*Artist, len(ids))

	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			artist, err := c.Artist(ctx, id)
			if err != nil {
				return
			}
			artists[i] = artist
		}(i, id)
	}
	wg.Wait()

	return artists
}

// SearchArtistsByGenre searches for artists tagged with the given genre.
func (c *Client) SearchArtistsByGenre(ctx context.Context, genre string, limit int, market string) ([]Artist, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("genre:%q", genre))
	query.Set("type", "artist")
	query.Set("limit", fmt.Sprintf("%d", limit))
	if market != "" {
		query.Set("market", market)
	}

	var envelope searchEnvelope
	u := fmt.Sprintf("%s/search?%s", c.baseURL, query.Encode())
	if err := c.get(ctx, u, &envelope); err != nil {
		return nil, fmt.Errorf("searching genre %q: %w", genre, err)
	}
	return envelope.Artists.Items, nil
}

// AudioFeatures fetches per-track analysis in batches of up to 100 IDs.
// Tracks the catalog has no analysis for come back as nil entries.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) ([]*AudioFeatures, error) {
	const batchSize = 100

	var features []*AudioFeatures
	for len(ids) > 0 {
		batch := ids
		if len(batch) > batchSize {
			batch = batch[:batchSize]
		}
		ids = ids[len(batch):]

		var envelope audioFeaturesEnvelope
		u := fmt.Sprintf("%s/audio-features?ids=%s", c.baseURL, url.QueryEscape(strings.Join(batch, ",")))
		if err := c.get(ctx, u, &envelope); err != nil {
			return nil, fmt.Errorf("audio features: %w", err)
		}
		features = append(features, envelope.AudioFeatures...)
	}
	return features, nil
}
