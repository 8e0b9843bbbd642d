package crawler

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lhhieu89/reviewphims/internal/model"
)

// trendingTabTitle is the tab label on the Vietnamese-locale trending feed.
const trendingTabTitle = "Thịnh hành"

// Search scrapes the public results page. Always returns a well-shaped list;
// any structural failure degrades to zero results.
func (cr *Crawler) Search(ctx context.Context, query string, maxResults int) *model.VideoListResponse {
	if maxResults <= 0 {
		maxResults = 20
	}

	cacheKey := "search:" + query + ":" + strconv.Itoa(maxResults)
	if cached, ok := cr.cache.Get(cacheKey); ok {
		return cached.(*model.VideoListResponse)
	}

	log.Info().Str("query", query).Msg("crawler: searching")

	doc := cr.fetchDocument(ctx, cr.baseURL+"/results?search_query="+url.QueryEscape(query))
	if doc == nil {
		return model.EmptyVideoList(true)
	}

	data := extractInitialData(doc)
	if data == nil || data.Contents.TwoColumnSearchResultsRenderer == nil {
		return model.EmptyVideoList(true)
	}

	sections := data.Contents.TwoColumnSearchResultsRenderer.PrimaryContents.SectionListRenderer
	resp := cr.collectVideos(sections, maxResults)

	cr.cache.Add(cacheKey, resp)
	return resp
}

// MostPopular scrapes the trending feed as a stand-in for the mostPopular
// chart. Always returns a well-shaped list.
func (cr *Crawler) MostPopular(ctx context.Context, maxResults int) *model.VideoListResponse {
	if maxResults <= 0 {
		maxResults = 20
	}

	cacheKey := "popular:" + strconv.Itoa(maxResults)
	if cached, ok := cr.cache.Get(cacheKey); ok {
		return cached.(*model.VideoListResponse)
	}

	log.Info().Msg("crawler: fetching trending feed")

	doc := cr.fetchDocument(ctx, cr.baseURL+"/feed/trending")
	if doc == nil {
		return model.EmptyVideoList(true)
	}

	data := extractInitialData(doc)
	if data == nil || data.Contents.TwoColumnBrowseResultsRenderer == nil {
		return model.EmptyVideoList(true)
	}

	tabs := data.Contents.TwoColumnBrowseResultsRenderer.Tabs
	if len(tabs) == 0 {
		return model.EmptyVideoList(true)
	}

	tab := tabs[0]
	for _, t := range tabs {
		if t.TabRenderer.Title == trendingTabTitle {
			tab = t
			break
		}
	}

	resp := cr.collectVideos(tab.TabRenderer.Content.SectionListRenderer, maxResults)

	cr.cache.Add(cacheKey, resp)
	return resp
}

// collectVideos walks the section list, skipping non-video entries, and stops
// once maxResults records are gathered.
func (cr *Crawler) collectVideos(sections sectionList, maxResults int) *model.VideoListResponse {
	now := cr.now()
	items := make([]model.VideoRecord, 0, maxResults)

	for _, section := range sections.Contents {
		if section.ItemSectionRenderer == nil {
			continue
		}
		for _, content := range section.ItemSectionRenderer.Contents {
			vr := content.firstVideoRenderer()
			if vr == nil || vr.VideoID == "" {
				continue
			}
			items = append(items, cr.recordFromRenderer(vr, now))
			if len(items) >= maxResults {
				break
			}
		}
		if len(items) >= maxResults {
			break
		}
	}

	return &model.VideoListResponse{
		Items: items,
		PageInfo: model.PageInfo{
			TotalResults:   len(items),
			ResultsPerPage: len(items),
		},
		IsCrawlerData: true,
	}
}

func (cr *Crawler) recordFromRenderer(vr *videoRenderer, now time.Time) model.VideoRecord {
	viewText := vr.ViewCountText.text()
	if viewText == "" {
		viewText = vr.ShortViewCountText.text()
	}

	return model.VideoRecord{
		ID:            vr.VideoID,
		Title:         vr.Title.text(),
		Description:   vr.description(),
		ChannelID:     vr.OwnerText.firstRunBrowseID(),
		ChannelTitle:  vr.OwnerText.text(),
		PublishedAt:   parseRelativeTime(vr.PublishedTimeText.text(), now).UTC().Format(time.RFC3339),
		Thumbnails:    model.SynthesizeThumbnails(vr.VideoID),
		Duration:      formatDuration(vr.LengthText.text()),
		ViewCount:     digitsOnly(viewText),
		LikeCount:     "0",
		FavoriteCount: "0",
		CommentCount:  "0",
		IsCrawlerData: true,
	}
}
