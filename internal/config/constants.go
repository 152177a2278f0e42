package config

import "time"

const (
	defaultPort           = "4000"
	defaultMaxHoles       = 36
	defaultDBPath         = "golf.db"
	defaultBusyTimeout    = 5 * time.Second
	defaultMaxOpenConns   = 4
	defaultRateLimitBurst = 20
	defaultMetricsPort    = "9090"
	defaultServiceName    = "golf-match-service"
)
