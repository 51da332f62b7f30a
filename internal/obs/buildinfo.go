package obs

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	buildInfoOnce sync.Once

	buildInfo = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "build_info",
			Help: "Taskdesk API build information.",
		},
		[]string{"version"},
	)
)

// InitBuildInfo registers the build_info metric once and pins its value.
func InitBuildInfo(version string) {
	buildInfoOnce.Do(func() {
		prometheus.MustRegister(buildInfo)
	})
	buildInfo.WithLabelValues(version).Set(1)
}
