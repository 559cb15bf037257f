package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Namespace for all metrics
const namespace = "headquartz"

// Subsystems
const (
	engineSubsystem   = "engine"
	mediatorSubsystem = "mediator"
	companySubsystem  = "company"
)

// Registry is the global Prometheus registry for all metrics.
// Nil until InitRegistry is called; every Register is a no-op while nil.
var Registry *prometheus.Registry

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

func registerAll(collectors ...prometheus.Collector) error {
	if Registry == nil {
		return nil
	}
	for _, c := range collectors {
		if err := Registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}
