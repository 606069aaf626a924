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
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/soundlens/soundlens/internal/catalog"
	"github.com/soundlens/soundlens/internal/stats"
)

var servePort int
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves listening statistics as JSON for the dashboard",
	Long: `Exposes the derived statistics over HTTP. Every request recomputes its
result from the catalog; nothing is cached or persisted.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := serve(servePort); err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "port to listen on")
}

func serve(port int) error {
	client, err := newCatalogClient()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	router := newRouter(client, logger)

	addr := fmt.Sprintf(":%d", port)
	logger.Info("listening", slog.String("addr", addr))
	return http.ListenAndServe(addr, router)
}

func newRouter(client *catalog.Client, logger *slog.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	router.Get("/api/report", handleReport(client, logger))
	router.Get("/api/moods", handleMoods(client, logger))
	router.Get("/api/discover", handleDiscover(client, logger))

	return router
}

func handleReport(client *catalog.Client, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		window := 7
		if arg := r.URL.Query().Get("window"); arg != "" {
			parsed, err := strconv.Atoi(arg)
			if err != nil || parsed < 1 || parsed > 90 {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "window must be 1-90 days"})
				return
			}
			window = parsed
		}

		config := ReportConfig{
			WindowDays: window,
			MaxPages:   4,
			PageLimit:  50,
			TimeRange:  catalog.RangeMedium,
		}
		report, err := buildReport(r.Context(), io.Discard, client, config, time.Now())
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, report)
	}
}

func handleMoods(client *catalog.Client, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		timeRange, err := parseTimeRange(r.URL.Query().Get("range"))
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}

		analyzed, err := fetchAnalyzedTracks(r.Context(), client, timeRange, 50)
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		buckets, err := stats.Bucketize(analyzed)
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, buckets)
	}
}

func handleDiscover(client *catalog.Client, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		genre := r.URL.Query().Get("genre")
		if genre == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "genre parameter is required"})
			return
		}

		// rand.Rand is not safe for concurrent use, so each request
		// gets its own source.
		rng := rand.New(rand.NewSource(time.Now().UnixNano()))
		discovered, err := discoverArtist(r.Context(), client, genre, 20, rng)
		if err != nil {
			writeFailure(w, logger, err)
			return
		}
		writeJSON(w, http.StatusOK, discovered)
	}
}

// writeFailure maps the failure taxonomy onto HTTP statuses: expired
// credentials ask the dashboard to re-authenticate, empty outcomes are
// not-found, and everything else is an upstream problem.
func writeFailure(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, catalog.ErrAuthExpired):
		status = http.StatusUnauthorized
	case errors.Is(err, catalog.ErrEmptyResultSet),
		errors.Is(err, stats.ErrNoAnalysisAvailable),
		errors.Is(err, stats.ErrNoNewArtists):
		status = http.StatusNotFound
	}

	logger.Error("request failed", slog.Int("status", status), slog.Any("error", err))
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("encoding response", slog.Any("error", err))
	}
}
