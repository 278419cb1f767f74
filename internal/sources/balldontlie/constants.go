package balldontlie

import "time"

const (
	sourceName         = "balldontlie"
	defaultBaseURL     = "https://api.balldontlie.io/v1"
	defaultPerPage     = 100
	defaultHTTPTimeout = 10 * time.Second
	defaultMaxPages    = 50
	// The free tier allows five requests a minute.
	defaultRequestsPerMinute = 5
	dateLayout               = "2006-01-02"
	// Only players on a current roster; the plain listing includes every retired player.
	playersPath = "/players/active"
)
