package service

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lhhieu89/reviewphims/internal/model"
	"github.com/lhhieu89/reviewphims/internal/youtube"
)

const (
	poolTTL         = 24 * time.Hour
	poolDefaultSize = 200
)

// Search keywords per pool category. Result sets are merged across keywords
// on refill, so adding a keyword widens the pool without other changes.
var reviewKeywords = map[string][]string{
	"general":       {"Review phim 2025"},
	"costume_drama": {"review phim cung đấu", "review phim cung đấu 2025"},
	"trailers":      {"phim moi 2025 trailer", "teaser phim moi"},
}

// VideoSearcher is the slice of the orchestrator the pool needs.
type VideoSearcher interface {
	Search(ctx context.Context, p youtube.SearchParams) (*model.VideoListResponse, error)
}

type pool struct {
	videos    []model.VideoRecord
	fetchedAt time.Time
}

// PoolCategoryStatus describes one category pool for the status endpoint.
type PoolCategoryStatus struct {
	Count       int        `json:"count"`
	LastUpdated *time.Time `json:"lastUpdated"`
	IsExpired   bool       `json:"isExpired"`
}

// PoolService keeps per-category pools of pre-fetched videos so that random
// picks never cost quota at read time. Reads are served from whatever the
// pool holds, expired included; freshness is the refill path's concern.
type PoolService struct {
	mu       sync.RWMutex
	pools    map[string]*pool
	searcher VideoSearcher
	now      func() time.Time
}

func NewPoolService(searcher VideoSearcher) *PoolService {
	return &PoolService{
		pools:    make(map[string]*pool),
		searcher: searcher,
		now:      time.Now,
	}
}

// GetRandomVideos returns up to count videos drawn at random from the
// category pool. It never fetches: an empty or missing pool yields an empty
// slice and the caller decides whether to trigger a refill.
func (p *PoolService) GetRandomVideos(category string, count int) []model.VideoRecord {
	p.mu.RLock()
	defer p.mu.RUnlock()

	pl, ok := p.pools[category]
	if !ok || len(pl.videos) == 0 {
		return nil
	}

	shuffled := append([]model.VideoRecord(nil), pl.videos...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count > 0 && count < len(shuffled) {
		shuffled = shuffled[:count]
	}
	return shuffled
}

// FetchAndCacheVideos refills the category pool unless it is still fresh.
// The refill replaces the pool wholesale; on search failure the previous
// pool, stale or not, stays in place.
func (p *PoolService) FetchAndCacheVideos(ctx context.Context, category string) (int, error) {
	keywords, ok := reviewKeywords[category]
	if !ok {
		keywords = reviewKeywords["general"]
		category = "general"
	}

	p.mu.RLock()
	pl, exists := p.pools[category]
	if exists && len(pl.videos) > 0 && p.now().Sub(pl.fetchedAt) < poolTTL {
		n := len(pl.videos)
		p.mu.RUnlock()
		return n, nil
	}
	p.mu.RUnlock()

	perKeyword := poolDefaultSize / len(keywords)
	seen := make(map[string]bool)
	var videos []model.VideoRecord

	for _, kw := range keywords {
		resp, err := p.searcher.Search(ctx, youtube.SearchParams{Q: kw, MaxResults: perKeyword})
		if err != nil {
			log.Error().Err(err).Str("category", category).Str("keyword", kw).Msg("pool refill search failed")
			if len(videos) == 0 {
				return p.count(category), err
			}
			break
		}
		for _, v := range resp.Items {
			if !seen[v.ID] {
				seen[v.ID] = true
				videos = append(videos, v)
			}
		}
	}

	p.mu.Lock()
	p.pools[category] = &pool{videos: videos, fetchedAt: p.now()}
	p.mu.Unlock()

	log.Info().Str("category", category).Int("count", len(videos)).Msg("video pool refilled")
	return len(videos), nil
}

// Initialize warms every category concurrently. Failures are logged per
// category and do not abort the others.
func (p *PoolService) Initialize(ctx context.Context) {
	var wg sync.WaitGroup
	for category := range reviewKeywords {
		wg.Add(1)
		go func(category string) {
			defer wg.Done()
			if _, err := p.FetchAndCacheVideos(ctx, category); err != nil {
				log.Error().Err(err).Str("category", category).Msg("pool warmup failed")
			}
		}(category)
	}
	wg.Wait()
}

// CacheStatus reports every known category, empty pools included.
func (p *PoolService) CacheStatus() map[string]PoolCategoryStatus {
	p.mu.RLock()
	defer p.mu.RUnlock()

	status := make(map[string]PoolCategoryStatus, len(reviewKeywords))
	now := p.now()
	for category := range reviewKeywords {
		st := PoolCategoryStatus{IsExpired: true}
		if pl, ok := p.pools[category]; ok {
			t := pl.fetchedAt
			st.Count = len(pl.videos)
			st.LastUpdated = &t
			st.IsExpired = now.Sub(pl.fetchedAt) >= poolTTL
		}
		status[category] = st
	}
	return status
}

// ClearCache drops every pool.
func (p *PoolService) ClearCache() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pools = make(map[string]*pool)
}

func (p *PoolService) count(category string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if pl, ok := p.pools[category]; ok {
		return len(pl.videos)
	}
	return 0
}
