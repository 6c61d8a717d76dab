package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal conta requisições por rota, método e status
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sample_app_http_requests_total",
		Help: "Total HTTP requests handled.",
	}, []string{"method", "route", "status"})

	// HTTPRequestDuration mede a latência por rota
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sample_app_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})

	// LoginAttemptsTotal conta tentativas de login por resultado
	LoginAttemptsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sample_app_login_attempts_total",
		Help: "Login attempts by outcome.",
	}, []string{"outcome"})

	// MailDeliveriesTotal conta emails por tipo e resultado
	MailDeliveriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sample_app_mail_deliveries_total",
		Help: "Emails handed to the SMTP server or queue.",
	}, []string{"kind", "status"})
)

// Middleware registra contagem e latência de cada requisição
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}

		HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
