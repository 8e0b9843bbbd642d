package youtube

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

const quotaErrorBody = `{
	"error": {
		"code": 403,
		"message": "The request cannot be completed because you have exceeded your quota.",
		"errors": [{"message": "quota exceeded", "domain": "youtube.quota", "reason": "quotaExceeded"}]
	}
}`

func TestIsQuotaExceeded_StructuredReason(t *testing.T) {
	err := parseAPIError(403, []byte(quotaErrorBody))
	if !IsQuotaExceeded(err) {
		t.Fatal("403 with reason quotaExceeded should classify as quota exhaustion")
	}
}

func TestIsQuotaExceeded_MessageHeuristic(t *testing.T) {
	body := `{"error": {"code": 403, "message": "Daily Quota limit reached", "errors": []}}`
	if !IsQuotaExceeded(parseAPIError(403, []byte(body))) {
		t.Fatal("403 with 'quota' in the message should classify as quota exhaustion")
	}
}

func TestIsQuotaExceeded_Negative(t *testing.T) {
	cases := []struct {
		name string
		err  error
	}{
		{"plain error", errors.New("network down")},
		{"nil", nil},
		{"500", parseAPIError(500, []byte(`{"error":{"code":500,"message":"backend quota oops"}}`))},
		{"403 without quota", parseAPIError(403, []byte(`{"error":{"code":403,"message":"forbidden","errors":[{"reason":"forbidden"}]}}`))},
	}
	for _, tt := range cases {
		if IsQuotaExceeded(tt.err) {
			t.Errorf("%s: should not classify as quota exhaustion", tt.name)
		}
	}
}

func TestParseAPIError_MalformedBody(t *testing.T) {
	err := parseAPIError(502, []byte("<html>Bad Gateway</html>"))
	if err.Status != 502 {
		t.Errorf("Status = %d, want 502", err.Status)
	}
	if err.Message == "" {
		t.Error("Message should fall back to the HTTP status text")
	}
}

func TestSearch_ParsesItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		if r.URL.Query().Get("key") != "test-key" {
			t.Error("API key not injected")
		}
		if r.URL.Query().Get("q") != "review phim" {
			t.Errorf("q = %q", r.URL.Query().Get("q"))
		}
		w.Write([]byte(`{
			"nextPageToken": "CAUQAA",
			"pageInfo": {"totalResults": 1000, "resultsPerPage": 2},
			"items": [
				{"id": {"videoId": "abc123"}, "snippet": {"title": "Review A", "channelId": "UC1", "channelTitle": "Kênh A", "publishedAt": "2025-01-02T03:04:05Z"}},
				{"id": {"videoId": "def456"}, "snippet": {"title": "Review B", "channelId": "UC2", "channelTitle": "Kênh B", "publishedAt": "2025-02-03T04:05:06Z"}}
			]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "VN")
	resp, err := c.Search(context.Background(), SearchParams{Q: "review phim"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(resp.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(resp.Items))
	}
	if resp.Items[0].ID != "abc123" || resp.Items[0].Title != "Review A" {
		t.Errorf("first item = %+v", resp.Items[0])
	}
	if resp.NextPageToken != "CAUQAA" {
		t.Errorf("nextPageToken = %q", resp.NextPageToken)
	}
	if resp.IsCrawlerData {
		t.Error("API response must not be tagged as crawler data")
	}
}

func TestSearch_QuotaError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(quotaErrorBody))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "VN")
	_, err := c.Search(context.Background(), SearchParams{Q: "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !IsQuotaExceeded(err) {
		t.Fatalf("error should classify as quota exhaustion, got %v", err)
	}
}

func TestGetVideo_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"pageInfo": {"totalResults": 0, "resultsPerPage": 0}, "items": []}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "VN")
	rec, err := c.GetVideo(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if rec != nil {
		t.Errorf("rec = %+v, want nil for zero results", rec)
	}
}

func TestGetVideo_FullRecord(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"pageInfo": {"totalResults": 1, "resultsPerPage": 1},
			"items": [{
				"id": "abc123",
				"snippet": {"title": "T", "channelId": "UC1", "channelTitle": "C", "publishedAt": "2025-01-01T00:00:00Z"},
				"contentDetails": {"duration": "PT10M3S"},
				"statistics": {"viewCount": "12345", "likeCount": "67", "favoriteCount": "0", "commentCount": "8"}
			}]
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "test-key", "VN")
	rec, err := c.GetVideo(context.Background(), "abc123")
	if err != nil {
		t.Fatalf("GetVideo: %v", err)
	}
	if rec == nil {
		t.Fatal("rec is nil")
	}
	if rec.Duration != "PT10M3S" {
		t.Errorf("duration = %q", rec.Duration)
	}
	if rec.ViewCount != "12345" || rec.CommentCount != "8" {
		t.Errorf("statistics = %+v", rec)
	}
}

func TestSearchParams_Defaults(t *testing.T) {
	v := SearchParams{Q: "abc"}.values("VN")
	if v.Get("order") != "relevance" || v.Get("safeSearch") != "moderate" {
		t.Errorf("defaults not applied: %v", v)
	}
	if v.Get("maxResults") != "20" {
		t.Errorf("maxResults default = %q, want 20", v.Get("maxResults"))
	}
	if v.Get("pageToken") != "" {
		t.Error("empty pageToken must not be sent")
	}
}
