package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lambojac/mirriora/internal/infra/config"
)

// Provider represents a telemetry provider handle.
type Provider struct {
	startTime prometheus.Gauge
}

// Attach registers process-level metrics with the default registry. Request
// metrics live in the HTTP middleware; this covers what the middleware cannot
// see.
func Attach(_ context.Context, cfg *config.AppConfig) (*Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	startTime := promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "mirriora",
		Name:      "process_start_timestamp_seconds",
		Help:      "Unix timestamp of when the process started",
	})
	startTime.Set(float64(time.Now().Unix()))

	return &Provider{
		startTime: startTime,
	}, nil
}
