package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v3"

	"github.com/lhhieu89/reviewphims/internal/crawler"
	"github.com/lhhieu89/reviewphims/internal/service"
	"github.com/lhhieu89/reviewphims/internal/youtube"
)

func TestMain(m *testing.M) {
	InitMetrics()
	os.Exit(m.Run())
}

func newTestApp(apiHandler http.HandlerFunc) (*fiber.App, func()) {
	api := httptest.NewServer(apiHandler)
	web := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>"))
	}))

	svc := service.NewVideoService(
		youtube.NewClient(api.URL, "test-key", "VN"),
		crawler.New(web.URL),
		service.NewQuotaService(),
	)
	h := NewVideoHandler(svc, service.NewResponseCache(""))

	app := fiber.New()
	app.Get("/api/youtube/search", h.Search)
	app.Get("/api/youtube/video", h.GetVideo)
	app.Get("/api/youtube/channel", h.GetChannel)

	return app, func() {
		api.Close()
		web.Close()
	}
}

func TestSearch_MissingQueryRejected(t *testing.T) {
	app, done := newTestApp(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called")
	})
	defer done()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/youtube/search", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "MISSING_PARAM" {
		t.Errorf("error code = %q", body.Error.Code)
	}
}

func TestSearch_ForwardsFilterParams(t *testing.T) {
	var got map[string]string
	app, done := newTestApp(func(w http.ResponseWriter, r *http.Request) {
		got = map[string]string{
			"safeSearch":        r.URL.Query().Get("safeSearch"),
			"relevanceLanguage": r.URL.Query().Get("relevanceLanguage"),
			"videoEmbeddable":   r.URL.Query().Get("videoEmbeddable"),
		}
		w.Write([]byte(`{"items":[]}`))
	})
	defer done()

	req := httptest.NewRequest(http.MethodGet,
		"/api/youtube/search?q=phim&safeSearch=strict&relevanceLanguage=en&videoEmbeddable=any", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if got["safeSearch"] != "strict" || got["relevanceLanguage"] != "en" || got["videoEmbeddable"] != "any" {
		t.Errorf("upstream query = %v", got)
	}
}

func TestGetVideo_NotFoundIs404(t *testing.T) {
	app, done := newTestApp(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[]}`))
	})
	defer done()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/youtube/video?id=nope1234567", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestGetVideo_MalformedIDRejected(t *testing.T) {
	app, done := newTestApp(func(w http.ResponseWriter, r *http.Request) {
		t.Error("upstream must not be called")
	})
	defer done()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/youtube/video?id=abc%3Bdrop", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestGetChannel_QuotaYields503WithFallbackURL(t *testing.T) {
	app, done := newTestApp(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"quota exceeded","errors":[{"reason":"quotaExceeded"}]}}`))
	})
	defer done()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/youtube/channel?id=UCabcdef", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}

	var body struct {
		FallbackURL string `json:"fallbackUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.FallbackURL != "https://www.youtube.com/channel/UCabcdef" {
		t.Errorf("fallbackUrl = %q", body.FallbackURL)
	}
}

func TestSearch_QuotaServedByCrawler(t *testing.T) {
	app, done := newTestApp(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"code":403,"message":"quota exceeded","errors":[{"reason":"quotaExceeded"}]}}`))
	})
	defer done()

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/youtube/search?q=review+phim", nil))
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var body struct {
		IsCrawlerData bool `json:"isCrawlerData"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.IsCrawlerData {
		t.Error("expected crawler-sourced response under quota exhaustion")
	}
}
