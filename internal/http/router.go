package http

import (
	nethttp "net/http"

	"github.com/preston-bernstein/nba-projections-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux. admin may be nil.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("/", handler.NotFound)
	mux.HandleFunc("/health", handler.Health)
	mux.HandleFunc("/ready", handler.Ready)
	mux.HandleFunc("/projections", handler.Projections)
	mux.HandleFunc("/projections/weeks", handler.ProjectionWeeks)
	mux.HandleFunc("/projections/weeks/{date}", handler.ProjectionWeek)
	mux.HandleFunc("/matchups", handler.Matchups)
	mux.HandleFunc("/teams", handler.Teams)
	mux.HandleFunc("/teams/{id}", handler.TeamByID)
	mux.HandleFunc("/players", handler.Players)
	mux.HandleFunc("/players/{id}", handler.PlayerByID)
	mux.HandleFunc("/players/{id}/projections", handler.PlayerProjections)
	mux.HandleFunc("/players/{id}/season-totals", handler.PlayerSeasonTotals)
	mux.HandleFunc("/players/{id}/gamelogs", handler.PlayerGameLogs)
	if admin != nil {
		mux.HandleFunc("/admin/forecast/run", admin.RunForecast)
		mux.HandleFunc("/admin/ingest/run", admin.RunIngest)
	}
	return mux
}
