// Package metrics keeps a small workdir-local time series store for
// operational counters and system gauges.
package metrics

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/nakabonne/tstorage"
	"github.com/pkg/errors"
)

// Metric names
const (
	SystemCpuPercent = "system_cpu_percent"
	SystemMemPercent = "system_mem_percent"
	HttpRequests     = "http_requests"
	CheckoutCreated  = "checkout_created"
	OrderCompleted   = "order_completed"
	ContactReceived  = "contact_received"
)

var (
	mu      sync.Mutex
	storage tstorage.Storage
)

// InitMetrics opens the time series store under workdir/data/metrics
func InitMetrics(workdir string) error {
	mu.Lock()
	defer mu.Unlock()
	if storage != nil {
		return nil
	}
	s, err := tstorage.NewStorage(
		tstorage.WithDataPath(filepath.Join(workdir, "data", "metrics")),
		tstorage.WithTimestampPrecision(tstorage.Seconds),
		tstorage.WithRetention(30*24*time.Hour),
	)
	if err != nil {
		return errors.Wrap(err, "open metrics storage")
	}
	storage = s
	return nil
}

// Close flushes and closes the store
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if storage == nil {
		return nil
	}
	err := storage.Close()
	storage = nil
	return err
}

// Gauge records a sampled value
func Gauge(name string, value float64) {
	insert(name, value)
}

// Incr records a counting event of weight 1
func Incr(name string) {
	insert(name, 1)
}

func insert(name string, value float64) {
	mu.Lock()
	s := storage
	mu.Unlock()
	if s == nil {
		return
	}
	_ = s.InsertRows([]tstorage.Row{
		{
			Metric:    name,
			DataPoint: tstorage.DataPoint{Timestamp: time.Now().Unix(), Value: value},
		},
	})
}

// Summary aggregates a metric over the trailing window
type Summary struct {
	Metric string  `json:"metric"`
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	Max    float64 `json:"max"`
}

// Summarize selects the metric points in [now-window, now] and
// computes basic aggregates
func Summarize(name string, window time.Duration) (*Summary, error) {
	mu.Lock()
	s := storage
	mu.Unlock()
	if s == nil {
		return nil, errors.New("metrics storage not initialized")
	}

	end := time.Now().Unix()
	start := end - int64(window.Seconds())
	points, err := s.Select(name, nil, start, end)
	if err != nil {
		if errors.Is(err, tstorage.ErrNoDataPoints) {
			return &Summary{Metric: name}, nil
		}
		return nil, errors.Wrapf(err, "select %s", name)
	}

	values := make(stats.Float64Data, 0, len(points))
	for _, p := range points {
		values = append(values, p.Value)
	}
	sum, _ := values.Sum()
	mean, _ := values.Mean()
	median, _ := values.Median()
	max, _ := values.Max()
	return &Summary{
		Metric: name,
		Count:  len(values),
		Sum:    sum,
		Mean:   mean,
		Median: median,
		Max:    max,
	}, nil
}
