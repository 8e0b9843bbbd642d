package service

import (
	"fmt"
	"testing"
	"time"
)

func TestQuotaService_Aggregates(t *testing.T) {
	q := NewQuotaService()
	q.LogUsage("search", 100)
	q.LogUsage("videos", 1)
	q.LogUsage("videos", 1)

	usage := q.Usage()
	if usage.TotalQuotaUsed != 102 {
		t.Errorf("TotalQuotaUsed = %d, want 102", usage.TotalQuotaUsed)
	}
	if usage.RequestCount != 3 {
		t.Errorf("RequestCount = %d, want 3", usage.RequestCount)
	}
	if usage.EndpointBreakdown["search"] != 100 || usage.EndpointBreakdown["videos"] != 2 {
		t.Errorf("breakdown = %v", usage.EndpointBreakdown)
	}
	if len(usage.RecentLogs) != 3 {
		t.Errorf("RecentLogs = %d entries, want 3", len(usage.RecentLogs))
	}
}

func TestQuotaService_PrunesOldEntries(t *testing.T) {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	q := NewQuotaService()
	q.now = func() time.Time { return now }

	q.LogUsage("search", 100)

	// One second past the window boundary.
	now = now.Add(quotaWindow + time.Second)
	q.LogUsage("videos", 1)

	usage := q.Usage()
	if usage.TotalQuotaUsed != 1 {
		t.Errorf("TotalQuotaUsed = %d, want 1 after pruning", usage.TotalQuotaUsed)
	}
	if usage.RequestCount != 1 {
		t.Errorf("RequestCount = %d, want 1", usage.RequestCount)
	}
}

func TestQuotaService_RecentLogsCapped(t *testing.T) {
	q := NewQuotaService()
	for i := 0; i < quotaRecentLogs+10; i++ {
		q.LogUsage(fmt.Sprintf("ep%d", i), 1)
	}

	usage := q.Usage()
	if len(usage.RecentLogs) != quotaRecentLogs {
		t.Fatalf("RecentLogs = %d entries, want %d", len(usage.RecentLogs), quotaRecentLogs)
	}
	// Most recent entry must be last.
	last := usage.RecentLogs[len(usage.RecentLogs)-1]
	if last.Endpoint != fmt.Sprintf("ep%d", quotaRecentLogs+9) {
		t.Errorf("last entry = %q", last.Endpoint)
	}
	if usage.RequestCount != quotaRecentLogs+10 {
		t.Errorf("RequestCount = %d, want %d", usage.RequestCount, quotaRecentLogs+10)
	}
}
