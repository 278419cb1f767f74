package server

import "time"

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 10 * time.Second
	// A manual forecast run answers on the admin route, so writes get more room than reads.
	writeTimeout = 2 * time.Minute
	idleTimeout  = 60 * time.Second

	backendConnectTimeout = 15 * time.Second
)

// shutdownTimeout remains a var for tests to override.
var shutdownTimeout = 10 * time.Second
