package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/lhhieu89/reviewphims/internal/crawler"
	"github.com/lhhieu89/reviewphims/internal/model"
	"github.com/lhhieu89/reviewphims/internal/youtube"
)

// VideoService is the retrieval orchestrator: each operation tries the Data
// API first and falls back to the page crawler when — and only when — the API
// reports quota exhaustion. Every other error propagates untouched, because
// masking a genuine outage behind the crawler would hide it, while quota
// exhaustion is an expected, recoverable condition.
type VideoService struct {
	api     *youtube.Client
	crawler *crawler.Crawler
	quota   *QuotaService
}

func NewVideoService(api *youtube.Client, cr *crawler.Crawler, quota *QuotaService) *VideoService {
	return &VideoService{api: api, crawler: cr, quota: quota}
}

// Search runs a video search, unified across both sources.
func (s *VideoService) Search(ctx context.Context, p youtube.SearchParams) (*model.VideoListResponse, error) {
	s.quota.LogUsage("search", youtube.CostSearch)

	resp, err := s.api.Search(ctx, p)
	if err == nil {
		return resp, nil
	}
	if youtube.IsQuotaExceeded(err) {
		log.Warn().Str("query", p.Q).Msg("api quota exceeded, falling back to web crawler")
		return s.crawler.Search(ctx, p.Q, p.MaxResults), nil
	}
	return nil, err
}

// ListMostPopular lists the most-popular chart, falling back to the public
// trending feed under quota exhaustion.
func (s *VideoService) ListMostPopular(ctx context.Context, p youtube.MostPopularParams) (*model.VideoListResponse, error) {
	s.quota.LogUsage("videos", youtube.CostVideos)

	resp, err := s.api.ListMostPopular(ctx, p)
	if err == nil {
		return resp, nil
	}
	if youtube.IsQuotaExceeded(err) {
		log.Warn().Msg("api quota exceeded, falling back to web crawler")
		return s.crawler.MostPopular(ctx, p.MaxResults), nil
	}
	return nil, err
}

// GetByID looks a single video up. (nil, nil) means not found — a legitimate
// empty answer, distinct from every failure mode. Under quota exhaustion the
// watch page is scraped first; when that parse degrades, the oembed/embed
// chain still recovers at least the id.
func (s *VideoService) GetByID(ctx context.Context, id string) (*model.VideoRecord, error) {
	s.quota.LogUsage("videos", youtube.CostVideos)

	rec, err := s.api.GetVideo(ctx, id)
	if err == nil {
		return rec, nil
	}
	if youtube.IsQuotaExceeded(err) {
		log.Warn().Str("videoId", id).Msg("api quota exceeded, falling back to web crawler")
		if crawled := s.crawler.VideoByID(ctx, id); crawled != nil {
			return crawled, nil
		}
		return s.crawler.VideoByOembed(ctx, id), nil
	}
	return nil, err
}

// GetChannelByID looks a channel up through the Data API only. There is no
// crawler fallback for channels: under quota exhaustion the APIError itself
// surfaces and the operation degrades to unavailable.
func (s *VideoService) GetChannelByID(ctx context.Context, id string) (*model.ChannelRecord, error) {
	s.quota.LogUsage("channels", youtube.CostChannels)
	return s.api.GetChannel(ctx, id)
}
