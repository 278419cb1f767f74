package handlers

import (
	"context"
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/preston-bernstein/nba-projections-service/internal/app/forecast"
	"github.com/preston-bernstein/nba-projections-service/internal/app/ingest"
	"github.com/preston-bernstein/nba-projections-service/internal/http/requestutil"
	"github.com/preston-bernstein/nba-projections-service/internal/logging"
	"github.com/preston-bernstein/nba-projections-service/internal/sources"
)

// ManualRunner triggers a forecast run outside the schedule.
type ManualRunner interface {
	RunNow(ctx context.Context) (forecast.RunReport, error)
}

// Ingester copies upstream data into the store.
type Ingester interface {
	Sync(ctx context.Context, req ingest.Request) (ingest.Report, error)
}

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	runner   ManualRunner
	ingester Ingester
	token    string
	logger   *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token disables every admin route;
// ingester may be nil when no upstream is configured.
func NewAdminHandler(runner ManualRunner, ingester Ingester, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		runner:   runner,
		ingester: ingester,
		token:    token,
		logger:   logger,
	}
}

// RunForecast runs the weekly forecast now and returns its report.
// Guarded by ADMIN_TOKEN; returns 401 if missing/invalid.
func (h *AdminHandler) RunForecast(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(w, r) {
		return
	}
	if h.runner == nil {
		writeError(w, r, http.StatusServiceUnavailable, "forecast runner not configured", h.logger)
		return
	}

	logger := loggerFromContext(r, h.logger)
	// Runs to completion even if the client disconnects.
	report, err := h.runner.RunNow(context.WithoutCancel(r.Context()))
	switch {
	case errors.Is(err, forecast.ErrRunInProgress):
		writeError(w, r, http.StatusConflict, "forecast run already in progress", logger)
		return
	case errors.Is(err, sources.ErrSourceUnavailable):
		logging.Warn(logger, "admin forecast run failed", "error", err)
		writeError(w, r, http.StatusBadGateway, "forecast inputs unavailable", logger)
		return
	case err != nil:
		logging.Error(logger, "admin forecast run failed", err)
		writeError(w, r, http.StatusInternalServerError, "forecast run failed", logger)
		return
	}

	logging.Info(logger, "admin forecast run complete",
		slog.String(logging.FieldRunID, report.RunID),
		slog.Int(logging.FieldCount, report.Projections),
	)
	writeJSON(w, http.StatusOK, report, logger)
}

// RunIngest pulls upstream data into the store. ?season= backfills a whole season.
func (h *AdminHandler) RunIngest(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(w, r) {
		return
	}
	if h.ingester == nil {
		writeError(w, r, http.StatusServiceUnavailable, "ingestion not configured", h.logger)
		return
	}
	var req ingest.Request
	if raw := strings.TrimSpace(r.URL.Query().Get("season")); raw != "" {
		season, err := strconv.Atoi(raw)
		if err != nil || season < 1900 {
			writeError(w, r, http.StatusBadRequest, "invalid season", h.logger)
			return
		}
		req.Season = season
	}

	logger := loggerFromContext(r, h.logger)
	report, err := h.ingester.Sync(context.WithoutCancel(r.Context()), req)
	switch {
	case errors.Is(err, ingest.ErrInvalidSeason):
		writeError(w, r, http.StatusBadRequest, err.Error(), logger)
		return
	case errors.Is(err, sources.ErrSourceUnavailable):
		logging.Warn(logger, "admin ingest failed", "error", err)
		writeError(w, r, http.StatusBadGateway, "upstream unavailable", logger)
		return
	case err != nil:
		logging.Error(logger, "admin ingest failed", err)
		writeError(w, r, http.StatusInternalServerError, "ingest failed", logger)
		return
	}
	writeJSON(w, http.StatusOK, report, logger)
}

// authorize writes 401 and returns false unless the request carries the admin token.
func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	if h.token != "" && subtle.ConstantTimeCompare([]byte(requestutil.BearerToken(r)), []byte(h.token)) == 1 {
		return true
	}
	logging.Warn(h.logger, "admin unauthorized",
		slog.String(logging.FieldPath, r.URL.Path),
		slog.String("client_ip", requestutil.ClientIP(r)),
	)
	writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
	return false
}
