// Package health reports data store reachability over the standard gRPC health protocol.
package health

import (
	"context"
	"time"

	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/mindweave/mindweave-server/internal/logger"
)

// JournalService is the service name probes can ask about in addition to the empty overall name.
const JournalService = "mindweave.Journal"

// DefaultInterval is used when NewChecker is given a non-positive interval.
const DefaultInterval = 10 * time.Second

const pingTimeout = 2 * time.Second

type Pinger interface {
	Ping(ctx context.Context) error
}

// Checker drives a health.Server from periodic data store pings.
type Checker struct {
	server   *health.Server
	pinger   Pinger
	interval time.Duration
	logger   *logger.Logger
	serving  bool
}

// NewChecker creates a Checker. Every service starts NOT_SERVING until the first successful ping.
func NewChecker(pinger Pinger, interval time.Duration, logger *logger.Logger) *Checker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	c := &Checker{
		server:   health.NewServer(),
		pinger:   pinger,
		interval: interval,
		logger:   logger,
	}
	c.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return c
}

func (c *Checker) Server() *health.Server {
	return c.server
}

// Check pings the data store once and publishes the result. It reports whether the store answered.
func (c *Checker) Check(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	err := c.pinger.Ping(ctx)
	ok := err == nil
	if ok != c.serving {
		if ok {
			c.logger.Info("health checker: data store reachable")
		} else {
			c.logger.Error("health checker: data store unreachable", "error", err)
		}
	}
	c.serving = ok

	if ok {
		c.set(healthpb.HealthCheckResponse_SERVING)
	} else {
		c.set(healthpb.HealthCheckResponse_NOT_SERVING)
	}
	return ok
}

// Run checks immediately and then on every interval until ctx ends, after which
// every service is reported NOT_SERVING so load balancers drain the instance.
func (c *Checker) Run(ctx context.Context) {
	c.Check(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.server.Shutdown()
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

func (c *Checker) set(status healthpb.HealthCheckResponse_ServingStatus) {
	c.server.SetServingStatus("", status)
	c.server.SetServingStatus(JournalService, status)
}
