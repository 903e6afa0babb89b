package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "coddycrm", Name: "http_requests_total", Help: "Handled HTTP requests",
	}, []string{"method", "status"})
	OverdueSweeps = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coddycrm", Name: "overdue_sweeps_total", Help: "Overdue sweep runs",
	})
	OverdueMarked = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "coddycrm", Name: "overdue_marked_total", Help: "Student tasks marked overdue",
	})
	DBPing = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "coddycrm", Name: "db_ping_seconds", Help: "DB ping latency",
		Buckets: prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(HTTPRequests, OverdueSweeps, OverdueMarked, DBPing)
}

func Handler() http.Handler { return promhttp.Handler() }
