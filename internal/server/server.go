// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package server exposes the research feed, digest snapshots, and the
// prediction registry as a JSON API. The feed endpoint queries providers
// live; digest endpoints only read snapshots from disk.
package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pdiddy/laborwatch/internal/archive"
	"github.com/pdiddy/laborwatch/internal/digest"
	"github.com/pdiddy/laborwatch/internal/pipeline"
	"github.com/pdiddy/laborwatch/pkg/types"
)

// Server wires the pipeline, digest assembler, and registry into HTTP
// handlers. The archive store is optional; nil disables run recording and
// the run-history endpoints.
type Server struct {
	pipe        *pipeline.Pipeline
	assembler   *digest.Assembler
	predictions []types.TrackedPrediction
	digestDir   string
	store       *archive.Store
	w           io.Writer
}

// New builds a server. Warnings go to w; pass nil to discard them.
func New(pipe *pipeline.Pipeline, assembler *digest.Assembler, predictions []types.TrackedPrediction, digestDir string, store *archive.Store, w io.Writer) *Server {
	if w == nil {
		w = io.Discard
	}
	return &Server{
		pipe:        pipe,
		assembler:   assembler,
		predictions: predictions,
		digestDir:   digestDir,
		store:       store,
		w:           w,
	}
}

// Routes builds the echo instance with all handlers registered. Split from
// Start so tests can drive it through httptest.
func (s *Server) Routes() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error { return c.String(http.StatusOK, "ok") })

	api := e.Group("/api")
	api.GET("/feed", s.handleFeed)
	api.GET("/digest/latest", s.handleDigestLatest)
	api.GET("/digest/:week", s.handleDigestWeek)
	api.GET("/predictions", s.handlePredictions)
	api.GET("/runs", s.handleRuns)

	return e
}

// Start runs the server until the listener fails.
func (s *Server) Start(addr string) error {
	if addr == "" {
		addr = ":8090"
	}
	return s.Routes().Start(addr)
}

// feedResponse is the live feed payload.
type feedResponse struct {
	Items           []types.ClassifiedItem `json:"items"`
	TotalDiscovered int                    `json:"total_discovered"`
	TotalAfterDedup int                    `json:"total_after_dedup"`
	SourcesQueried  int                    `json:"sources_queried"`
	SourceErrors    []string               `json:"source_errors,omitempty"`
}

func (s *Server) handleFeed(c echo.Context) error {
	opts, err := parseFeedOptions(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := s.pipe.Run(c.Request().Context(), opts)
	if errors.Is(err, pipeline.ErrAllSourcesFailed) {
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}
	if err != nil {
		return err
	}

	if s.store != nil {
		if _, err := s.store.RecordRun(c.Request().Context(), "feed", res.Items, res.TotalDiscovered, res.TotalAfterDedup); err != nil {
			fmt.Fprintf(s.w, "warning: recording feed run: %v\n", err)
		}
	}

	return c.JSON(http.StatusOK, feedResponse{
		Items:           res.Items,
		TotalDiscovered: res.TotalDiscovered,
		TotalAfterDedup: res.TotalAfterDedup,
		SourcesQueried:  res.SourcesQueried,
		SourceErrors:    res.SourceErrors,
	})
}

// parseFeedOptions reads min_score, max, and tiers query parameters.
// Absent min_score maps to -1 so the configured default applies.
func parseFeedOptions(c echo.Context) (pipeline.FeedOptions, error) {
	opts := pipeline.FeedOptions{MinRelevanceScore: -1}

	if v := c.QueryParam("min_score"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, fmt.Errorf("invalid min_score %q", v)
		}
		opts.MinRelevanceScore = n
	}
	if v := c.QueryParam("max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return opts, fmt.Errorf("invalid max %q", v)
		}
		opts.MaxResults = n
	}
	if v := c.QueryParam("tiers"); v != "" {
		for _, part := range strings.Split(v, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || n < 1 || n > 4 {
				return opts, fmt.Errorf("invalid tier %q", part)
			}
			opts.Tiers = append(opts.Tiers, n)
		}
	}
	return opts, nil
}

// digestResponse wraps a snapshot with an availability flag so "no digest
// yet" is a normal 200, not an error.
type digestResponse struct {
	Available bool                `json:"available"`
	Digest    *types.WeeklyDigest `json:"digest,omitempty"`
}

func (s *Server) handleDigestLatest(c echo.Context) error {
	d, err := digest.LoadLatest(s.digestDir)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, digestResponse{Available: d != nil, Digest: d})
}

func (s *Server) handleDigestWeek(c echo.Context) error {
	d, err := digest.LoadWeek(s.digestDir, c.Param("week"))
	if err != nil {
		return err
	}
	if d == nil {
		return echo.NewHTTPError(http.StatusNotFound, "no digest for week "+c.Param("week"))
	}
	return c.JSON(http.StatusOK, digestResponse{Available: true, Digest: d})
}

func (s *Server) handlePredictions(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{"predictions": s.predictions})
}

func (s *Server) handleRuns(c echo.Context) error {
	if s.store == nil {
		return echo.NewHTTPError(http.StatusNotFound, "run archive disabled")
	}
	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid limit "+strconv.Quote(v))
		}
		limit = n
	}
	runs, err := s.store.RecentRuns(c.Request().Context(), limit)
	if err != nil {
		return err
	}
	if runs == nil {
		runs = []archive.RunRecord{}
	}
	return c.JSON(http.StatusOK, map[string]any{"runs": runs})
}
