package monitoring

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const checkTimeout = 5 * time.Second

type Metrics struct {
	RequestCount    int64            `json:"request_count"`
	RequestDuration time.Duration    `json:"avg_request_duration_ms"`
	ActiveRequests  int64            `json:"active_requests"`
	ErrorCount      int64            `json:"error_count"`
	StatusCodes     map[string]int64 `json:"status_codes"`
	Endpoints       map[string]int64 `json:"endpoint_calls"`
	StartTime       time.Time        `json:"start_time"`
	LastRequest     time.Time        `json:"last_request"`
}

type HealthCheck struct {
	Name    string    `json:"name"`
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	LastRun time.Time `json:"last_run"`
}

type HealthCheckFunc func(ctx context.Context) error

// StatsFunc reports component statistics for the metrics endpoint.
type StatsFunc func() map[string]interface{}

// Monitor collects request metrics and runs registered health checks on
// every check.
type Monitor struct {
	mu            sync.Mutex
	metrics       Metrics
	totalDuration time.Duration

	checksMu sync.RWMutex
	checks   map[string]HealthCheckFunc
	stats    map[string]StatsFunc
}

func NewMonitor() *Monitor {
	return &Monitor{
		metrics: Metrics{
			StatusCodes: make(map[string]int64),
			Endpoints:   make(map[string]int64),
			StartTime:   time.Now(),
		},
		checks: make(map[string]HealthCheckFunc),
		stats:  make(map[string]StatsFunc),
	}
}

func (m *Monitor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.mu.Lock()
		m.metrics.ActiveRequests++
		m.mu.Unlock()

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()
		endpoint := c.Request.Method + " " + c.FullPath()
		if c.FullPath() == "" {
			endpoint = c.Request.Method + " unmatched"
		}

		m.mu.Lock()
		defer m.mu.Unlock()
		m.metrics.RequestCount++
		m.metrics.ActiveRequests--
		m.totalDuration += duration
		m.metrics.RequestDuration = m.totalDuration / time.Duration(m.metrics.RequestCount)
		m.metrics.LastRequest = time.Now()
		if statusCode >= 400 {
			m.metrics.ErrorCount++
		}
		m.metrics.StatusCodes[http.StatusText(statusCode)]++
		m.metrics.Endpoints[endpoint]++
	}
}

func (m *Monitor) Snapshot() Metrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := m.metrics
	out.StatusCodes = make(map[string]int64, len(m.metrics.StatusCodes))
	out.Endpoints = make(map[string]int64, len(m.metrics.Endpoints))
	for k, v := range m.metrics.StatusCodes {
		out.StatusCodes[k] = v
	}
	for k, v := range m.metrics.Endpoints {
		out.Endpoints[k] = v
	}
	return out
}

type SystemMetrics struct {
	Uptime         time.Duration `json:"uptime"`
	MemoryUsage    MemoryStats   `json:"memory"`
	GoroutineCount int           `json:"goroutine_count"`
	CPUCount       int           `json:"cpu_count"`
	GoVersion      string        `json:"go_version"`
}

type MemoryStats struct {
	Alloc        uint64 `json:"alloc_mb"`
	TotalAlloc   uint64 `json:"total_alloc_mb"`
	Sys          uint64 `json:"sys_mb"`
	NumGC        uint32 `json:"num_gc"`
	NextGC       uint64 `json:"next_gc_mb"`
	GCPauseTotal string `json:"gc_pause_total"`
}

func (m *Monitor) System() SystemMetrics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	return SystemMetrics{
		Uptime: time.Since(m.metrics.StartTime),
		MemoryUsage: MemoryStats{
			Alloc:        bToMb(ms.Alloc),
			TotalAlloc:   bToMb(ms.TotalAlloc),
			Sys:          bToMb(ms.Sys),
			NumGC:        ms.NumGC,
			NextGC:       bToMb(ms.NextGC),
			GCPauseTotal: time.Duration(ms.PauseTotalNs).String(),
		},
		GoroutineCount: runtime.NumGoroutine(),
		CPUCount:       runtime.NumCPU(),
		GoVersion:      runtime.Version(),
	}
}

func bToMb(b uint64) uint64 {
	return b / 1024 / 1024
}

func (m *Monitor) RegisterHealthCheck(name string, check HealthCheckFunc) {
	m.checksMu.Lock()
	m.checks[name] = check
	m.checksMu.Unlock()
}

// RegisterStats adds a section to the metrics endpoint.
func (m *Monitor) RegisterStats(name string, fn StatsFunc) {
	m.checksMu.Lock()
	m.stats[name] = fn
	m.checksMu.Unlock()
}

func (m *Monitor) RunHealthChecks(ctx context.Context) []HealthCheck {
	m.checksMu.RLock()
	names := make([]string, 0, len(m.checks))
	for name := range m.checks {
		names = append(names, name)
	}
	checks := make(map[string]HealthCheckFunc, len(m.checks))
	for name, fn := range m.checks {
		checks[name] = fn
	}
	m.checksMu.RUnlock()
	sort.Strings(names)

	results := make([]HealthCheck, 0, len(names))
	for _, name := range names {
		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		result := HealthCheck{Name: name, Status: "healthy", LastRun: time.Now()}
		if err := checks[name](checkCtx); err != nil {
			result.Status = "unhealthy"
			result.Message = err.Error()
		}
		cancel()
		results = append(results, result)
	}
	return results
}

func healthy(checks []HealthCheck) bool {
	for _, check := range checks {
		if check.Status != "healthy" {
			return false
		}
	}
	return true
}

func (m *Monitor) MetricsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		components := gin.H{}
		m.checksMu.RLock()
		for name, fn := range m.stats {
			components[name] = fn()
		}
		m.checksMu.RUnlock()

		c.JSON(http.StatusOK, gin.H{
			"application": m.Snapshot(),
			"system":      m.System(),
			"components":  components,
			"timestamp":   time.Now(),
		})
	}
}

func (m *Monitor) HealthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := m.RunHealthChecks(c.Request.Context())

		overallStatus, status := "healthy", http.StatusOK
		if !healthy(checks) {
			overallStatus, status = "unhealthy", http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"status":    overallStatus,
			"timestamp": time.Now(),
			"checks":    checks,
			"uptime":    time.Since(m.metrics.StartTime).String(),
		})
	}
}

func (m *Monitor) ReadinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if healthy(m.RunHealthChecks(c.Request.Context())) {
			c.JSON(http.StatusOK, gin.H{"status": "ready", "timestamp": time.Now()})
			return
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not ready", "timestamp": time.Now()})
	}
}

func (m *Monitor) LivenessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "alive",
			"timestamp": time.Now(),
			"uptime":    time.Since(m.metrics.StartTime).String(),
		})
	}
}
