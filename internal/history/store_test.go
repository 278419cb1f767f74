package history

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/preston-bernstein/nba-projections-service/internal/domain/projections"
	"github.com/preston-bernstein/nba-projections-service/internal/testutil"
)

// recordingDriver is a database/sql driver that records every statement per DSN.
type recordingDriver struct {
	mu   sync.Mutex
	logs map[string]*execLog
}

type execLog struct {
	mu      sync.Mutex
	queries []string
	args    [][]driver.Value
	failOn  string
}

func (d *recordingDriver) Open(name string) (driver.Conn, error) {
	return &recordingConn{log: d.logFor(name)}, nil
}

func (d *recordingDriver) logFor(name string) *execLog {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.logs[name] == nil {
		d.logs[name] = &execLog{}
	}
	return d.logs[name]
}

type recordingConn struct{ log *execLog }

func (c *recordingConn) Prepare(query string) (driver.Stmt, error) {
	return &recordingStmt{log: c.log, query: query}, nil
}
func (c *recordingConn) Close() error { return nil }
func (c *recordingConn) Begin() (driver.Tx, error) {
	return nil, errors.New("transactions unsupported")
}

type recordingStmt struct {
	log   *execLog
	query string
}

func (s *recordingStmt) Close() error  { return nil }
func (s *recordingStmt) NumInput() int { return -1 }

func (s *recordingStmt) Exec(args []driver.Value) (driver.Result, error) {
	s.log.mu.Lock()
	defer s.log.mu.Unlock()
	if s.log.failOn != "" && strings.Contains(s.query, s.log.failOn) {
		return nil, errors.New("code: 60, table is read only")
	}
	s.log.queries = append(s.log.queries, s.query)
	s.log.args = append(s.log.args, args)
	return driver.RowsAffected(1), nil
}

func (s *recordingStmt) Query([]driver.Value) (driver.Rows, error) {
	return nil, errors.New("queries unsupported")
}

var fakeDriver = &recordingDriver{logs: map[string]*execLog{}}

func init() {
	sql.Register("history-recording", fakeDriver)
}

func newTestStore(t *testing.T) (*Store, *execLog) {
	t.Helper()
	db, err := sql.Open("history-recording", t.Name())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	s := New(db, nil)
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	return s, fakeDriver.logFor(t.Name())
}

func sampleWeek(n int) projections.WeekSnapshot {
	items := make([]projections.Projection, 0, n)
	for i := 0; i < n; i++ {
		items = append(items, testutil.SampleProjection(fmt.Sprintf("g%d", i), "p1", float64(10+i)))
	}
	week := projections.NewWeekSnapshot("2024-01-15", testutil.ReferenceNow, items)
	week.RunID = "run-1"
	return week
}

func TestEnsureSchemaCreatesTable(t *testing.T) {
	s, log := newTestStore(t)

	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}
	if len(log.queries) != 1 || !strings.HasPrefix(log.queries[0], "CREATE TABLE IF NOT EXISTS projection_history") {
		t.Fatalf("unexpected statements %v", log.queries)
	}
}

func TestSaveProjectionsAppendsRows(t *testing.T) {
	s, log := newTestStore(t)

	if err := s.SaveProjections(context.Background(), sampleWeek(2)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(log.queries) != 1 {
		t.Fatalf("expected one insert, got %d", len(log.queries))
	}
	if strings.Count(log.queries[0], "(?,") != 2 {
		t.Fatalf("expected two value tuples, got %q", log.queries[0])
	}
	args := log.args[0]
	if len(args) != 2*rowColumns {
		t.Fatalf("expected %d args, got %d", 2*rowColumns, len(args))
	}
	if args[0] != "run-1" || args[5] != "p1" || args[rowColumns+3] != "g1" {
		t.Fatalf("unexpected row args %v", args[:rowColumns+4])
	}
	weekStart, ok := args[1].(time.Time)
	if !ok || !weekStart.Equal(testutil.MustParseRFC3339("2024-01-15T00:00:00Z")) {
		t.Fatalf("unexpected week start %v", args[1])
	}
	if args[rowColumns+13] != float64(11) {
		t.Fatalf("expected points of second row, got %v", args[rowColumns+13])
	}
}

func TestSaveProjectionsChunksLargeWeeks(t *testing.T) {
	s, log := newTestStore(t)

	if err := s.SaveProjections(context.Background(), sampleWeek(chunkSize+1)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(log.queries) != 2 {
		t.Fatalf("expected two inserts, got %d", len(log.queries))
	}
	if len(log.args[1]) != rowColumns {
		t.Fatalf("expected one row in the last chunk, got %d args", len(log.args[1]))
	}
}

func TestSaveProjectionsSkipsEmptyWeek(t *testing.T) {
	s, log := newTestStore(t)

	if err := s.SaveProjections(context.Background(), sampleWeek(0)); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(log.queries) != 0 {
		t.Fatalf("expected no statements, got %v", log.queries)
	}
}

func TestSaveProjectionsErrors(t *testing.T) {
	s, log := newTestStore(t)

	bad := sampleWeek(1)
	bad.WeekStart = "week three"
	if err := s.SaveProjections(context.Background(), bad); err == nil {
		t.Fatal("expected invalid week start to fail")
	}

	log.failOn = "INSERT"
	err := s.SaveProjections(context.Background(), sampleWeek(1))
	if err == nil || !strings.Contains(err.Error(), "insert projection_history") {
		t.Fatalf("expected wrapped insert error, got %v", err)
	}
}

func TestPing(t *testing.T) {
	s, _ := newTestStore(t)
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestOpenFailsWhenUnreachable(t *testing.T) {
	if _, err := Open(context.Background(), "clickhouse://127.0.0.1:1/default", nil); err == nil {
		t.Fatal("expected unreachable clickhouse to fail")
	}
}
