package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/preston-bernstein/nba-projections-service/internal/http/middleware"
	"github.com/preston-bernstein/nba-projections-service/internal/testutil"
)

func TestWriteErrorRequestID(t *testing.T) {
	cases := []struct {
		name   string
		header string
		wrap   bool
		want   string
	}{
		{name: "from middleware", header: "caller-7", wrap: true, want: "caller-7"},
		{name: "from header", header: "header-id", want: "header-id"},
		{name: "absent", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var h http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeError(w, r, http.StatusConflict, "forecast run already in progress", nil)
			})
			if tc.wrap {
				h = middleware.LoggingMiddleware(nil, nil, h)
			}
			req := httptest.NewRequest(http.MethodPost, "/admin/forecast/run", nil)
			if tc.header != "" {
				req.Header.Set("X-Request-ID", tc.header)
			}
			rr := testutil.ServeRequest(h, req)

			testutil.AssertStatus(t, rr, http.StatusConflict)
			if got := rr.Header().Get("Content-Type"); got != contentTypeJSON {
				t.Fatalf("expected json content type, got %s", got)
			}
			var body errorResponse
			testutil.DecodeJSON(t, rr, &body)
			if body.Error != "forecast run already in progress" || body.RequestID != tc.want {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}
}

func TestWriteJSONLogsEncodeError(t *testing.T) {
	logger, buf := testutil.NewBufferLogger()
	rr := httptest.NewRecorder()
	writeJSON(rr, http.StatusOK, map[string]float64{"points": 0}, logger)
	if buf.Len() != 0 {
		t.Fatalf("expected clean encode, got log %s", buf.String())
	}

	rr = httptest.NewRecorder()
	writeJSON(rr, http.StatusOK, make(chan int), logger)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status written even on encode error, got %d", rr.Code)
	}
	if buf.Len() == 0 {
		t.Fatal("expected encode error logged")
	}
}

func TestRequireMethod(t *testing.T) {
	rr := httptest.NewRecorder()
	if !requireMethod(rr, httptest.NewRequest(http.MethodGet, "/teams", nil), http.MethodGet, nil) {
		t.Fatal("expected GET accepted")
	}

	rr = httptest.NewRecorder()
	if requireMethod(rr, httptest.NewRequest(http.MethodGet, "/admin/ingest/run", nil), http.MethodPost, nil) {
		t.Fatal("expected GET rejected")
	}
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
	if got := rr.Header().Get("Allow"); got != http.MethodPost {
		t.Fatalf("expected Allow POST, got %q", got)
	}
}
