// Package crawler reconstructs approximate video data from public YouTube
// pages when the Data API is unavailable. The pages are not an API: the
// embedded JSON graph is undocumented and changes without notice, so every
// extraction here is best-effort. The package never propagates a parse
// failure — operations degrade to nil or an empty, well-shaped result.
package crawler

import (
	"context"
	"math/rand"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
)

// DefaultBaseURL is the public site the crawler scrapes.
const DefaultBaseURL = "https://www.youtube.com"

const (
	cacheTTL     = 5 * time.Minute
	cacheSize    = 512
	fetchTimeout = 10 * time.Second
	// oembed and embed fetches are abandoned after 2 seconds; a slow
	// response is treated as failure and triggers the next fallback tier.
	oembedTimeout = 2 * time.Second
)

var desktopAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 13_2_1) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/16.3 Safari/605.1.15",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:120.0) Gecko/20100101 Firefox/120.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.5993.70 Safari/537.36",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:118.0) Gecko/20100101 Firefox/118.0",
}

var mobileAgents = []string{
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (Linux; Android 13; SM-G991B) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.6099.234 Mobile Safari/537.36",
	"Mozilla/5.0 (Linux; Android 12; Pixel 6) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.6045.134 Mobile Safari/537.36",
	"Mozilla/5.0 (iPad; CPU OS 15_7 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/15.7 Mobile/15E148 Safari/604.1",
}

func randomUserAgent() string {
	if rand.Intn(4) == 0 {
		return mobileAgents[rand.Intn(len(mobileAgents))]
	}
	return desktopAgents[rand.Intn(len(desktopAgents))]
}

// Crawler fetches and parses public video pages. It keeps its own short-TTL
// page and result cache, independent of the orchestrator's caches, because
// page-rendering fallbacks also call it directly.
type Crawler struct {
	baseURL string
	http    *http.Client
	cache   *expirable.LRU[string, any]
	now     func() time.Time
}

// New creates a crawler scraping the given base URL. baseURL may be empty to
// use the public site; tests point it at a stub server.
func New(baseURL string) *Crawler {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Crawler{
		baseURL: baseURL,
		http:    &http.Client{Timeout: fetchTimeout},
		cache:   expirable.NewLRU[string, any](cacheSize, nil, cacheTTL),
		now:     time.Now,
	}
}

// fetchDocument GETs a page with a randomized user agent and parses it with
// goquery. Returns nil on any failure; fetch problems are logged, never
// escalated.
func (cr *Crawler) fetchDocument(ctx context.Context, url string) *goquery.Document {
	cacheKey := "html:" + url
	if cached, ok := cr.cache.Get(cacheKey); ok {
		return cached.(*goquery.Document)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", randomUserAgent())
	req.Header.Set("Accept-Language", "vi-VN,vi;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := cr.http.Do(req)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("crawler: fetch failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warn().Int("status", resp.StatusCode).Str("url", url).Msg("crawler: fetch failed")
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("crawler: parse failed")
		return nil
	}

	cr.cache.Add(cacheKey, doc)
	return doc
}

var (
	initialDataRe    = regexp.MustCompile(`(?s)var\s+ytInitialData\s*=\s*(\{.+?\});`)
	initialDataAltRe = regexp.MustCompile(`(?s)ytInitialData\s*=\s*(\{.+?\});`)
)

// extractInitialData scans all script tags for the ytInitialData assignment
// and parses the captured JSON object. A strict regex is tried first; when
// its capture does not parse, a looser one is tried once. Returns nil when
// nothing usable is found — callers must handle absence.
func extractInitialData(doc *goquery.Document) *initialData {
	var data *initialData

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "ytInitialData") {
			return true
		}
		for _, re := range []*regexp.Regexp{initialDataRe, initialDataAltRe} {
			m := re.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			if parsed := decodeInitialData(m[1]); parsed != nil {
				data = parsed
				return false
			}
		}
		return true
	})

	return data
}
