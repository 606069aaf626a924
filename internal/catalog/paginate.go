package catalog

import (
	"context"
	"encoding/json"
	"fmt"
)

type itemsPage struct {
	Items []json.RawMessage `json:"items"`
	Next  string            `json:"next"`
}

// CollectPaginated follows next-page links from startURL, accumulating
// items until the chain ends or maxPages requests have been issued. The
// page limiter spaces out requests so that a long chain stays under the
// catalog's rate limit without ever tripping a 429.
//
// On a page failure the items gathered so far are returned alongside the
// error; for this read-only aggregation a partial working set beats
// discarding everything.
func (c *Client) CollectPaginated(ctx context.Context, startURL string, maxPages int) ([]json.RawMessage, error) {
	var items []json.RawMessage

	url := startURL
	for pages := 0; url != "" && pages < maxPages; pages++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return items, err
		}

		var page itemsPage
		if err := c.get(ctx, url, &page); err != nil {
			return items, fmt.Errorf("collecting page %d: %w", pages+1, err)
		}

		items = append(items, page.Items...)
		url = page.Next
	}

	return items, nil
}
