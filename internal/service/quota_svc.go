package service

import (
	"sync"
	"time"
)

const (
	quotaWindow     = 24 * time.Hour
	quotaRecentLogs = 50
)

// QuotaEntry records one billed API call.
type QuotaEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Endpoint  string    `json:"endpoint"`
	Cost      int       `json:"cost"`
}

// QuotaUsage is the aggregated view over the rolling window.
type QuotaUsage struct {
	TotalQuotaUsed    int            `json:"totalQuotaUsed"`
	RequestCount      int            `json:"requestCount"`
	EndpointBreakdown map[string]int `json:"endpointBreakdown"`
	RecentLogs        []QuotaEntry   `json:"recentLogs"`
}

// QuotaService tracks estimated Data API quota consumption over a rolling
// 24-hour window. It is an estimate only: the process has no way to read
// Google's actual counter, and entries do not survive a restart.
type QuotaService struct {
	mu      sync.Mutex
	entries []QuotaEntry
	now     func() time.Time
}

func NewQuotaService() *QuotaService {
	return &QuotaService{now: time.Now}
}

// LogUsage appends one entry and prunes everything older than the window.
func (q *QuotaService) LogUsage(endpoint string, cost int) {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := q.now()
	q.entries = append(q.entries, QuotaEntry{Timestamp: now, Endpoint: endpoint, Cost: cost})
	q.prune(now)
}

// Usage returns the aggregate over entries still inside the window.
func (q *QuotaService) Usage() QuotaUsage {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.prune(q.now())

	usage := QuotaUsage{EndpointBreakdown: make(map[string]int)}
	for _, e := range q.entries {
		usage.TotalQuotaUsed += e.Cost
		usage.RequestCount++
		usage.EndpointBreakdown[e.Endpoint] += e.Cost
	}

	start := 0
	if len(q.entries) > quotaRecentLogs {
		start = len(q.entries) - quotaRecentLogs
	}
	usage.RecentLogs = append([]QuotaEntry(nil), q.entries[start:]...)
	return usage
}

func (q *QuotaService) prune(now time.Time) {
	cutoff := now.Add(-quotaWindow)
	i := 0
	for i < len(q.entries) && q.entries[i].Timestamp.Before(cutoff) {
		i++
	}
	if i > 0 {
		q.entries = append(q.entries[:0], q.entries[i:]...)
	}
}
