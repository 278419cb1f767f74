package metrics

import (
	"sync"
	"time"
)

type sourceStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

// ForecastStats summarizes the forecast runs seen by a Recorder.
type ForecastStats struct {
	Runs            int
	Errors          int
	Contended       int
	LastProjections int
	LastSkipped     int
	LastDuration    time.Duration
}

// Recorder keeps in-memory counters and forwards to OpenTelemetry instruments when configured.
type Recorder struct {
	mu       sync.Mutex
	sources  map[string]*sourceStats
	forecast ForecastStats
	otel     *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		sources: make(map[string]*sourceStats),
		otel:    otel,
	}
}

// RecordSourceAttempt counts one call to a data source and stores its latency.
func (r *Recorder) RecordSourceAttempt(source string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats, ok := r.sources[source]
	if !ok {
		stats = &sourceStats{}
		r.sources[source] = stats
	}
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordSourceAttempt(source, duration, err)
	}
}

// RecordForecastRun tracks a completed or failed forecast run.
func (r *Recorder) RecordForecastRun(trigger string, duration time.Duration, projections, skipped int, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.forecast.Runs++
	r.forecast.LastDuration = duration
	if err != nil {
		r.forecast.Errors++
	} else {
		r.forecast.LastProjections = projections
		r.forecast.LastSkipped = skipped
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordForecastRun(trigger, duration, projections, skipped, err)
	}
}

// RecordLockContention counts a run skipped because another holder owned the run lock.
func (r *Recorder) RecordLockContention(trigger string) {
	if r == nil {
		return
	}
	r.mu.Lock()
	r.forecast.Contended++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordLockContention(trigger)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the counters for one source.
type Snapshot struct {
	Calls           int
	Errors          int
	LastCallLatency time.Duration
}

// Snapshot returns a copy of the current stats for the source.
func (r *Recorder) Snapshot(source string) Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stats, ok := r.sources[source]
	if !ok || stats == nil {
		return Snapshot{}
	}
	return Snapshot{
		Calls:           stats.calls,
		Errors:          stats.errors,
		LastCallLatency: stats.lastCallLatency,
	}
}

// SourceCalls returns the total attempts recorded for a source.
func (r *Recorder) SourceCalls(source string) int {
	return r.Snapshot(source).Calls
}

// SourceErrors returns the total failed attempts recorded for a source.
func (r *Recorder) SourceErrors(source string) int {
	return r.Snapshot(source).Errors
}

// Forecast returns a copy of the forecast run counters.
func (r *Recorder) Forecast() ForecastStats {
	if r == nil {
		return ForecastStats{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.forecast
}
