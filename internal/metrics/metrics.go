package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "genetix_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "genetix_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	CreaturesMinted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "genetix_creatures_minted_total",
		Help: "Lifetime number of creatures minted",
	})

	BattlesCreated = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "genetix_battles_total",
		Help: "Lifetime number of battles created",
	})

	SoulStonesMinted = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "genetix_soul_stones_total",
		Help: "Lifetime number of soul stones minted",
	})

	FeesCollected = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "genetix_fees_collected_total",
		Help: "Lifetime platform fees collected in base units",
	})

	OpenBattles = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "genetix_open_battles",
		Help: "Battles currently waiting for an opponent",
	})
)

func PrometheusMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			path := c.Path()
			if path == "" {
				path = c.Request().URL.Path
			}

			status := c.Response().Status
			if err != nil {
				if he, ok := err.(*echo.HTTPError); ok {
					status = he.Code
				}
			}

			httpRequestsTotal.WithLabelValues(c.Request().Method, path, strconv.Itoa(status)).Inc()
			httpRequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())

			return err
		}
	}
}
