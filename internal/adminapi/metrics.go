package adminapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nvalente/studiocms/internal/webserver"
	"github.com/nvalente/studiocms/pkg/metrics"
)

var metricNames = []string{
	metrics.SystemCpuPercent,
	metrics.SystemMemPercent,
	metrics.HttpRequests,
	metrics.CheckoutCreated,
	metrics.OrderCompleted,
	metrics.ContactReceived,
}

func registerMetricsRoutes() {
	webserver.ApiGET("/metrics", listMetricSummaries)
	webserver.ApiGET("/metrics/:name", getMetricSummary)
}

func metricsWindow(c echo.Context) time.Duration {
	window := 24 * time.Hour
	if w := strings.TrimSpace(c.QueryParam("window")); w != "" {
		if d, err := time.ParseDuration(w); err == nil && d > 0 {
			window = d
		}
	}
	return window
}

func listMetricSummaries(c echo.Context) error {
	window := metricsWindow(c)
	summaries := make([]*metrics.Summary, 0, len(metricNames))
	for _, name := range metricNames {
		summary, err := metrics.Summarize(name, window)
		if err != nil {
			continue
		}
		summaries = append(summaries, summary)
	}
	return ok(c, summaries)
}

func getMetricSummary(c echo.Context) error {
	name := c.Param("name")
	summary, err := metrics.Summarize(name, metricsWindow(c))
	if err != nil {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "No data for metric", err.Error())
	}
	return ok(c, summary)
}
