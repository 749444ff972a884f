package session

import "github.com/prometheus/client_golang/prometheus"

// Collectors returns the Prometheus collectors describing the store. Register
// them once per store.
func (s *Store) Collectors() []prometheus.Collector {
	active := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: "calculator",
		Subsystem: "sessions",
		Name:      "active",
		Help:      "Number of live calculator sessions.",
	}, func() float64 {
		return float64(s.Len())
	})

	return []prometheus.Collector{active, s.expired}
}
