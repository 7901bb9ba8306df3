package metrics

import (
	"math"
	"sync"
	"sync/atomic"
	"time"

	"imagerelay/internal/core"
)

const qpsWindowSeconds = 60

// MetricsConfig configuration for MetricsService
type MetricsConfig struct {
	HistorySize int
	Logger      core.Logger
}

type counters struct {
	total     atomic.Int64
	succeeded atomic.Int64
	failed    atomic.Int64
	latencyMs atomic.Int64
}

// rateWindow counts requests in one-second buckets over the last minute.
type rateWindow struct {
	mu      sync.Mutex
	buckets [qpsWindowSeconds]struct{ sec, n int64 }
}

func (w *rateWindow) add(now time.Time) {
	sec := now.Unix()
	w.mu.Lock()
	b := &w.buckets[sec%qpsWindowSeconds]
	if b.sec != sec {
		b.sec, b.n = sec, 0
	}
	b.n++
	w.mu.Unlock()
}

func (w *rateWindow) rate(now time.Time) float64 {
	oldest := now.Unix() - qpsWindowSeconds
	var n int64
	w.mu.Lock()
	for _, b := range w.buckets {
		if b.sec > oldest {
			n += b.n
		}
	}
	w.mu.Unlock()
	return math.Round(float64(n)/qpsWindowSeconds*1000) / 1000
}

// MetricsService keeps in-memory generation statistics for /api/stats and
// forwards dispatcher events to the Prometheus collectors.
type MetricsService struct {
	counters counters
	window   rateWindow

	historyMu      sync.RWMutex
	history        []core.RequestRecord
	lastSeen       time.Time
	maxHistorySize int

	// Records land in pending first and are moved to history in batches.
	pendingMu sync.Mutex
	pending   []core.RequestRecord

	ticker    *time.Ticker
	done      chan struct{}
	closeOnce sync.Once
	logger    core.Logger
}

// NewMetricsService creates a MetricsService and starts its batch loop.
func NewMetricsService(config MetricsConfig) *MetricsService {
	if config.HistorySize <= 0 {
		config.HistorySize = core.HistoryBufferSize
	}
	if config.Logger == nil {
		config.Logger = &core.NopLogger{}
	}

	ms := &MetricsService{
		maxHistorySize: config.HistorySize,
		pending:        make([]core.RequestRecord, 0, core.HistoryBatchSize),
		ticker:         time.NewTicker(core.HistoryFlushInterval),
		done:           make(chan struct{}),
		logger:         config.Logger,
	}
	go ms.run()
	return ms
}

func (ms *MetricsService) run() {
	for {
		select {
		case <-ms.ticker.C:
			ms.drainPending()
		case <-ms.done:
			return
		}
	}
}

func (ms *MetricsService) drainPending() {
	ms.pendingMu.Lock()
	batch := ms.pending
	if len(batch) == 0 {
		ms.pendingMu.Unlock()
		return
	}
	ms.pending = make([]core.RequestRecord, 0, core.HistoryBatchSize)
	ms.pendingMu.Unlock()

	ms.historyMu.Lock()
	ms.history = append(ms.history, batch...)
	if over := len(ms.history) - ms.maxHistorySize; over > 0 {
		ms.history = append([]core.RequestRecord(nil), ms.history[over:]...)
	}
	ms.historyMu.Unlock()
}

// RecordRequest adds one finished generation to the statistics.
func (ms *MetricsService) RecordRequest(success bool, responseTime int64, model, outcome string) {
	now := time.Now()

	ms.counters.total.Add(1)
	ms.counters.latencyMs.Add(responseTime)
	if success {
		ms.counters.succeeded.Add(1)
	} else {
		ms.counters.failed.Add(1)
	}
	ms.window.add(now)

	ms.historyMu.Lock()
	ms.lastSeen = now
	ms.historyMu.Unlock()

	ms.pendingMu.Lock()
	ms.pending = append(ms.pending, core.RequestRecord{
		Timestamp:    now,
		Success:      success,
		ResponseTime: responseTime,
		Model:        model,
		Outcome:      outcome,
	})
	full := len(ms.pending) >= core.HistoryBatchSize
	ms.pendingMu.Unlock()

	if full {
		ms.drainPending()
	}
}

func (ms *MetricsService) RecordUpstreamAttempt(model, outcome string, duration time.Duration) {
	UpstreamAttempts.WithLabelValues(model, outcome).Inc()
	UpstreamDuration.WithLabelValues(model).Observe(duration.Seconds())
}

func (ms *MetricsService) RecordRetry(model string, _ time.Duration) {
	RetriesTotal.WithLabelValues(model).Inc()
}

func (ms *MetricsService) RecordFallback(from, to string) {
	FallbacksTotal.WithLabelValues(from, to).Inc()
}

// RecordGeneration records the final result of a generation request.
// Image and text results count as successful.
func (ms *MetricsService) RecordGeneration(model, outcome string, duration time.Duration) {
	GenerationDuration.WithLabelValues(model, outcome).Observe(duration.Seconds())
	success := outcome == core.ResultImage.String() || outcome == core.ResultText.String()
	ms.RecordRequest(success, duration.Milliseconds(), model, outcome)
}

// GetQPS returns the request rate over the last minute.
func (ms *MetricsService) GetQPS() float64 {
	return ms.window.rate(time.Now())
}

// GetRequestStats returns a snapshot of the totals and a copy of the history.
func (ms *MetricsService) GetRequestStats() core.RequestStats {
	ms.drainPending()

	ms.historyMu.RLock()
	defer ms.historyMu.RUnlock()

	return core.RequestStats{
		TotalRequests:      ms.counters.total.Load(),
		SuccessfulRequests: ms.counters.succeeded.Load(),
		FailedRequests:     ms.counters.failed.Load(),
		TotalResponseTime:  ms.counters.latencyMs.Load(),
		LastRequestTime:    ms.lastSeen,
		RequestHistory:     append([]core.RequestRecord(nil), ms.history...),
	}
}

// GetPeriodStats computes statistics for several trailing windows, given in
// hours, in one pass over history.
func GetPeriodStats(history []core.RequestRecord, hourPeriods ...int) map[int]core.PeriodStats {
	if len(hourPeriods) == 0 {
		return nil
	}

	type acc struct {
		cutoff        time.Time
		n, ok, millis int64
	}
	now := time.Now()
	accs := make([]acc, len(hourPeriods))
	for i, hours := range hourPeriods {
		accs[i].cutoff = now.Add(-time.Duration(hours) * time.Hour)
	}

	for _, record := range history {
		for i := range accs {
			if !record.Timestamp.After(accs[i].cutoff) {
				continue
			}
			accs[i].n++
			accs[i].millis += record.ResponseTime
			if record.Success {
				accs[i].ok++
			}
		}
	}

	result := make(map[int]core.PeriodStats, len(hourPeriods))
	for i, hours := range hourPeriods {
		a := accs[i]
		stats := core.PeriodStats{
			Requests: a.n,
			QPS:      float64(a.n) / (float64(hours) * 3600),
		}
		if a.n > 0 {
			stats.SuccessRate = float64(a.ok) / float64(a.n) * 100
			stats.AvgResponseTime = a.millis / a.n
		}
		result[hours] = stats
	}
	return result
}

// ModelBreakdown counts history records per model.
func ModelBreakdown(history []core.RequestRecord) map[string]int64 {
	counts := make(map[string]int64)
	for _, record := range history {
		counts[record.Model]++
	}
	return counts
}

// Close stops the batch loop and moves pending records into history.
func (ms *MetricsService) Close() error {
	ms.closeOnce.Do(func() {
		close(ms.done)
		ms.ticker.Stop()
		ms.drainPending()
		ms.logger.Debug("Metrics service stopped")
	})
	return nil
}
