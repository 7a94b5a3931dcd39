package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LoansOpened = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "keyloan",
		Name:      "loans_opened_total",
		Help:      "Loans opened.",
	})
	LoansClosed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "keyloan",
		Name:      "loans_closed_total",
		Help:      "Loans closed (keys returned).",
	})
	LoanRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keyloan",
		Name:      "loan_rejections_total",
		Help:      "Rejected open/close attempts by error type.",
	}, []string{"op", "reason"})
	ImportRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "keyloan",
		Name:      "import_rows_total",
		Help:      "Imported rows by kind and outcome.",
	}, []string{"kind", "outcome"})
	httpDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "keyloan",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route", "status"})
)

// Middleware records request latency labelled by the matched route pattern.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpDuration.
			WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}

func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
