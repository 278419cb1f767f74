package server

import (
	"context"

	"github.com/preston-bernstein/nba-projections-service/internal/app/forecast"
	"github.com/preston-bernstein/nba-projections-service/internal/runner"
)

// Scheduler is the run loop the server starts and stops.
type Scheduler interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() runner.Status
	RunNow(ctx context.Context) (forecast.RunReport, error)
}
