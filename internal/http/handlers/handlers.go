package handlers

import (
	"context"
	"errors"
	"log/slog"
	nethttp "net/http"
	"strconv"
	"strings"
	"time"

	appplayers "github.com/preston-bernstein/nba-projections-service/internal/app/players"
	appprojections "github.com/preston-bernstein/nba-projections-service/internal/app/projections"
	appschedule "github.com/preston-bernstein/nba-projections-service/internal/app/schedule"
	appteams "github.com/preston-bernstein/nba-projections-service/internal/app/teams"
	"github.com/preston-bernstein/nba-projections-service/internal/logging"
	"github.com/preston-bernstein/nba-projections-service/internal/runner"
	"github.com/preston-bernstein/nba-projections-service/internal/snapshots"
	"github.com/preston-bernstein/nba-projections-service/internal/store"
	"github.com/preston-bernstein/nba-projections-service/internal/timeutil"
)

// Services groups the read-side application services.
type Services struct {
	Players     *appplayers.Service
	Teams       *appteams.Service
	Projections *appprojections.Service
	Schedule    *appschedule.Service
}

// Handler wires HTTP routes to the application services.
type Handler struct {
	svc      Services
	logger   *slog.Logger
	statusFn func() runner.Status
	pingFn   func(context.Context) error
}

// NewHandler constructs a Handler. statusFn and pingFn may be nil.
func NewHandler(svc Services, logger *slog.Logger, statusFn func() runner.Status, pingFn func(context.Context) error) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		statusFn: statusFn,
		pingFn:   pingFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if err := r.Context().Err(); err != nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic: the store answers and forecast runs are healthy.
func (h *Handler) Ready(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.pingFn != nil {
		if err := h.pingFn(r.Context()); err != nil {
			logging.Warn(loggerFromContext(r, h.logger), "store ping failed", "error", err)
			writeError(w, r, nethttp.StatusServiceUnavailable, "store unavailable", h.logger)
			return
		}
	}
	if h.statusFn == nil {
		writeJSON(w, nethttp.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, nethttp.StatusOK, map[string]any{"status": "ready", "forecast": status}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, nethttp.StatusServiceUnavailable, msg, h.logger)
}

// Projections lists stored projections, optionally filtered by playerId and gameId.
func (h *Handler) Projections(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	q := r.URL.Query()
	filter := store.ProjectionFilter{
		PlayerID: strings.TrimSpace(q.Get("playerId")),
		GameID:   strings.TrimSpace(q.Get("gameId")),
	}
	items, err := h.svc.Projections.Projections(r.Context(), filter)
	if err != nil {
		h.internalError(w, r, "list projections failed", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"count": len(items), "projections": items}, h.logger)
}

// ProjectionWeeks lists weeks with a stored snapshot.
func (h *Handler) ProjectionWeeks(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	weeks, err := h.svc.Projections.Weeks()
	if err != nil {
		h.snapshotError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"weeks": weeks}, h.logger)
}

// ProjectionWeek returns the snapshot of the week containing {date}.
func (h *Handler) ProjectionWeek(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	date := r.PathValue("date")
	if _, err := timeutil.ParseDate(date); err != nil {
		writeError(w, r, nethttp.StatusBadRequest, "invalid date format (expected YYYY-MM-DD)", h.logger)
		return
	}
	snap, err := h.svc.Projections.Week(date)
	if err != nil {
		h.snapshotError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, snap, h.logger)
}

// Matchups lists the scheduled games of the week containing ?week= (default: this week).
func (h *Handler) Matchups(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	if h.svc.Schedule == nil {
		writeError(w, r, nethttp.StatusServiceUnavailable, "schedule unavailable", h.logger)
		return
	}
	var day time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("week")); raw != "" {
		parsed, err := timeutil.ParseDate(raw)
		if err != nil {
			writeError(w, r, nethttp.StatusBadRequest, "invalid week (expected YYYY-MM-DD)", h.logger)
			return
		}
		day = parsed
	}
	week, items, err := h.svc.Schedule.Week(r.Context(), day)
	if err != nil {
		h.internalError(w, r, "list matchups failed", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"weekStart": timeutil.FormatDate(week.Start),
		"count":     len(items),
		"matchups":  items,
	}, h.logger)
}

// Teams lists the league's teams.
func (h *Handler) Teams(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	items, err := h.svc.Teams.Teams(r.Context())
	if err != nil {
		h.internalError(w, r, "list teams failed", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"teams": items}, h.logger)
}

// TeamByID returns a team by ID or abbreviation.
func (h *Handler) TeamByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	id, ok := h.pathID(w, r, "invalid team id")
	if !ok {
		return
	}
	team, err := h.svc.Teams.TeamByID(r.Context(), id)
	if errors.Is(err, appteams.ErrTeamNotFound) {
		writeError(w, r, nethttp.StatusNotFound, "team not found", h.logger)
		return
	}
	if err != nil {
		h.internalError(w, r, "team lookup failed", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, team, h.logger)
}

// Players lists player profiles. ?team=, ?position= and ?rostered=true narrow the list.
func (h *Handler) Players(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	q := r.URL.Query()
	filter := appplayers.ListFilter{
		TeamID:   strings.TrimSpace(q.Get("team")),
		Position: strings.TrimSpace(q.Get("position")),
	}
	if raw := strings.TrimSpace(q.Get("rostered")); raw != "" {
		rostered, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, r, nethttp.StatusBadRequest, "invalid rostered flag", h.logger)
			return
		}
		filter.RosteredOnly = rostered
	}
	items, err := h.svc.Players.Players(r.Context(), filter)
	if err != nil {
		h.internalError(w, r, "list players failed", err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"count": len(items), "players": items}, h.logger)
}

// PlayerByID returns a player profile.
func (h *Handler) PlayerByID(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	id, ok := h.pathID(w, r, "invalid player id")
	if !ok {
		return
	}
	player, err := h.svc.Players.PlayerByID(r.Context(), id)
	if err != nil {
		h.playerError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, player, h.logger)
}

// PlayerProjections returns the player's current-week projections.
func (h *Handler) PlayerProjections(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	id, ok := h.pathID(w, r, "invalid player id")
	if !ok {
		return
	}
	items, err := h.svc.Players.CurrentWeekProjections(r.Context(), id)
	if err != nil {
		h.playerError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{"playerId": id, "projections": items}, h.logger)
}

// PlayerSeasonTotals returns regular-season totals; ?season= defaults to the season in progress.
func (h *Handler) PlayerSeasonTotals(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	id, ok := h.pathID(w, r, "invalid player id")
	if !ok {
		return
	}
	season, ok := h.seasonParam(w, r)
	if !ok {
		return
	}
	totals, err := h.svc.Players.SeasonTotals(r.Context(), id, season)
	if err != nil {
		h.playerError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, totals, h.logger)
}

// PlayerGameLogs returns the player's box scores; ?season= defaults to the season in progress.
func (h *Handler) PlayerGameLogs(w nethttp.ResponseWriter, r *nethttp.Request) {
	if !requireMethod(w, r, nethttp.MethodGet, h.logger) {
		return
	}
	id, ok := h.pathID(w, r, "invalid player id")
	if !ok {
		return
	}
	season, ok := h.seasonParam(w, r)
	if !ok {
		return
	}
	logs, season, err := h.svc.Players.GameLogs(r.Context(), id, season)
	if err != nil {
		h.playerError(w, r, err)
		return
	}
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"playerId": id,
		"season":   season,
		"count":    len(logs),
		"gameLogs": logs,
	}, h.logger)
}

// seasonParam reads ?season=; 0 means unset.
func (h *Handler) seasonParam(w nethttp.ResponseWriter, r *nethttp.Request) (int, bool) {
	raw := strings.TrimSpace(r.URL.Query().Get("season"))
	if raw == "" {
		return 0, true
	}
	season, err := strconv.Atoi(raw)
	if err != nil || season < 1900 {
		writeError(w, r, nethttp.StatusBadRequest, "invalid season", h.logger)
		return 0, false
	}
	return season, true
}

func (h *Handler) pathID(w nethttp.ResponseWriter, r *nethttp.Request, msg string) (string, bool) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" || strings.ContainsAny(id, " \t/") {
		writeError(w, r, nethttp.StatusBadRequest, msg, h.logger)
		return "", false
	}
	return id, true
}

func (h *Handler) playerError(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, r, nethttp.StatusNotFound, "player not found", h.logger)
		return
	}
	h.internalError(w, r, "player lookup failed", err)
}

func (h *Handler) snapshotError(w nethttp.ResponseWriter, r *nethttp.Request, err error) {
	switch {
	case errors.Is(err, appprojections.ErrSnapshotsDisabled):
		writeError(w, r, nethttp.StatusServiceUnavailable, "snapshots disabled", h.logger)
	case errors.Is(err, snapshots.ErrSnapshotNotFound):
		writeError(w, r, nethttp.StatusNotFound, "snapshot not found", h.logger)
	default:
		h.internalError(w, r, "snapshot read failed", err)
	}
}

func (h *Handler) internalError(w nethttp.ResponseWriter, r *nethttp.Request, msg string, err error) {
	logging.Error(loggerFromContext(r, h.logger), msg, err)
	writeError(w, r, nethttp.StatusInternalServerError, "internal error", h.logger)
}

// NotFound answers unknown routes with a JSON error.
func (h *Handler) NotFound(w nethttp.ResponseWriter, r *nethttp.Request) {
	writeError(w, r, nethttp.StatusNotFound, "not found", h.logger)
}
