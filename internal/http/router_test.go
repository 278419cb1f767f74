package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/nba-projections-service/internal/app/forecast"
	appplayers "github.com/preston-bernstein/nba-projections-service/internal/app/players"
	appprojections "github.com/preston-bernstein/nba-projections-service/internal/app/projections"
	appschedule "github.com/preston-bernstein/nba-projections-service/internal/app/schedule"
	appteams "github.com/preston-bernstein/nba-projections-service/internal/app/teams"
	"github.com/preston-bernstein/nba-projections-service/internal/domain/players"
	"github.com/preston-bernstein/nba-projections-service/internal/http/handlers"
	"github.com/preston-bernstein/nba-projections-service/internal/store"
	"github.com/preston-bernstein/nba-projections-service/internal/testutil"
)

type noopRunner struct{}

func (noopRunner) RunNow(context.Context) (forecast.RunReport, error) {
	return forecast.RunReport{RunID: "run-1"}, nil
}

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	ms := store.NewMemoryStore()
	if err := ms.UpsertPlayers(context.Background(), []players.Player{testutil.SamplePlayer("p1", "bos", "G", 1)}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	h := handlers.NewHandler(handlers.Services{
		Players:     appplayers.NewService(ms),
		Teams:       appteams.NewService(ms),
		Projections: appprojections.NewService(ms, nil),
		Schedule:    appschedule.NewService(ms),
	}, nil, nil, nil)
	return NewRouter(h, handlers.NewAdminHandler(noopRunner{}, nil, "secret", nil))
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router := newRouter(t)

	cases := map[string]int{
		"/health":                      http.StatusOK,
		"/ready":                       http.StatusOK,
		"/projections":                 http.StatusOK,
		"/projections/weeks":           http.StatusServiceUnavailable, // snapshots disabled
		"/projections/weeks/bad":       http.StatusBadRequest,
		"/matchups":                    http.StatusOK,
		"/teams":                       http.StatusOK,
		"/teams/bos":                   http.StatusNotFound,
		"/players/p1":                  http.StatusOK,
		"/players/p1/projections":      http.StatusOK,
		"/players/p1/season-totals":    http.StatusOK,
		"/players/p1/gamelogs":         http.StatusOK,
		"/players":                     http.StatusOK,
		"/players/missing":             http.StatusNotFound,
		"/players/missing/projections": http.StatusNotFound,
	}

	for path, expected := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		if rr.Code != expected {
			t.Fatalf("route %s expected status %d, got %d", path, expected, rr.Code)
		}
	}
}

func TestRouterAdminRoute(t *testing.T) {
	router := newRouter(t)

	rr := testutil.ServeRequest(router, testutil.AuthorizedRequest("/admin/forecast/run", "secret"))
	testutil.AssertStatus(t, rr, http.StatusOK)

	// No ingester wired.
	rr = testutil.ServeRequest(router, testutil.AuthorizedRequest("/admin/ingest/run", "secret"))
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	router := newRouter(t)

	rr := testutil.Serve(router, http.MethodGet, "/does-not-exist", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["error"] != "not found" {
		t.Fatalf("expected JSON not-found body, got %+v", resp)
	}
}

func TestRouterWithoutAdmin(t *testing.T) {
	ms := store.NewMemoryStore()
	h := handlers.NewHandler(handlers.Services{Projections: appprojections.NewService(ms, nil)}, nil, nil, nil)
	router := NewRouter(h, nil)

	rr := testutil.Serve(router, http.MethodPost, "/admin/forecast/run", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}
