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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soundlens/soundlens/internal/catalog"
	"github.com/soundlens/soundlens/internal/stats"
)

// newFakeCatalog stands in for the upstream API with a small fixed
// listening history.
func newFakeCatalog(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/me/player/recently-played", func(w http.ResponseWriter, r *http.Request) {
		playedAt := time.Now().Add(-2 * time.Hour).Format(time.RFC3339)
		fmt.Fprintf(w, `{
			"items": [
				{"track": {"id": "t1", "name": "one", "duration_ms": 180000,
				           "artists": [{"id": "a1", "name": "Artist One"}]},
				 "played_at": %[1]q},
				{"track": {"id": "t2", "name": "two", "duration_ms": 240000,
				           "artists": [{"id": "a2", "name": "Artist Two"}]},
				 "played_at": %[1]q}
			],
			"next": ""
		}`, playedAt)
	})
	mux.HandleFunc("/me/top/artists", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [
			{"id": "a1", "name": "Artist One", "genres": ["rock"], "popularity": 60},
			{"id": "a2", "name": "Artist Two", "genres": ["pop"], "popularity": 70}
		]}`)
	})
	mux.HandleFunc("/me/top/tracks", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items": [
			{"id": "t1", "name": "one", "duration_ms": 180000, "artists": [{"id": "a1", "name": "Artist One"}]},
			{"id": "t2", "name": "two", "duration_ms": 240000, "artists": [{"id": "a2", "name": "Artist Two"}]}
		]}`)
	})
	mux.HandleFunc("/audio-features", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"audio_features": [
			{"id": "t1", "tempo": 130, "mode": 1},
			{"id": "t2", "tempo": 90, "mode": 0}
		]}`)
	})
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"artists": {"items": [
			{"id": "a1", "name": "Artist One", "genres": ["rock"]},
			{"id": "fresh", "name": "Fresh Find", "genres": ["rock", "shoegaze"]}
		]}}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	upstream := newFakeCatalog(t)
	client := catalog.New(catalog.Config{
		Token:        "test-token",
		BaseURL:      upstream.URL,
		BaseDelay:    time.Millisecond,
		PageInterval: time.Millisecond,
	})
	return newRouter(client, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestServeHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestServeReport(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report?window=7", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var report listeningReport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&report))
	assert.Equal(t, 7, report.WindowDays)
	assert.Len(t, report.Daily, 7)
	assert.Len(t, report.Hourly, 24)
	assert.NotEmpty(t, report.Genres)
}

func TestServeReportRejectsBadWindow(t *testing.T) {
	router := newTestRouter(t)

	for _, window := range []string{"0", "91", "soon"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report?window="+window, nil))
		assert.Equalf(t, http.StatusBadRequest, rec.Code, "window=%s", window)
	}
}

func TestServeMoods(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/moods", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var buckets []stats.MoodBucket
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&buckets))
	require.Len(t, buckets, 2)

	var total float64
	for _, bucket := range buckets {
		total += bucket.Percentage
	}
	assert.InDelta(t, 100.0, total, 0.01)
}

func TestServeDiscover(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/discover?genre=rock", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var discovered stats.DiscoveredArtist
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&discovered))
	// a1 is a known top artist, so the only possible pick is the fresh one.
	assert.Equal(t, "fresh", discovered.Artist.ArtistID)
	assert.Contains(t, discovered.Rationale, "rock")
}

func TestServeDiscoverConcurrentRequests(t *testing.T) {
	router := newTestRouter(t)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/discover?genre=rock", nil))
			if rec.Code != http.StatusOK {
				t.Errorf("got status %d, want %d", rec.Code, http.StatusOK)
			}
		}()
	}
	wg.Wait()
}

func TestServeDiscoverRequiresGenre(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/discover", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServeMapsExpiredCredentialTo401(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(upstream.Close)

	client := catalog.New(catalog.Config{
		Token:        "stale-token",
		BaseURL:      upstream.URL,
		BaseDelay:    time.Millisecond,
		PageInterval: time.Millisecond,
	})
	router := newRouter(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/report", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServeMapsUpstreamFailureTo502(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(upstream.Close)

	client := catalog.New(catalog.Config{
		Token:        "test-token",
		BaseURL:      upstream.URL,
		MaxRetries:   2,
		BaseDelay:    time.Millisecond,
		PageInterval: time.Millisecond,
	})
	router := newRouter(client, slog.New(slog.NewTextHandler(io.Discard, nil)))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/moods", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "error"))
}
