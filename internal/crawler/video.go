package crawler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"

	"github.com/lhhieu89/reviewphims/internal/model"
)

// VideoByID reconstructs a full video record from the public watch page.
// Returns nil when the page cannot be fetched or the data blob is missing —
// the caller decides what absence means.
func (cr *Crawler) VideoByID(ctx context.Context, id string) *model.VideoRecord {
	cacheKey := "video:" + id
	if cached, ok := cr.cache.Get(cacheKey); ok {
		return cached.(*model.VideoRecord)
	}

	log.Info().Str("videoId", id).Msg("crawler: fetching watch page")

	doc := cr.fetchDocument(ctx, cr.baseURL+"/watch?v="+url.QueryEscape(id))
	if doc == nil {
		return nil
	}

	data := extractInitialData(doc)
	if data == nil || data.Contents.TwoColumnWatchNextResults == nil {
		return nil
	}

	var primary, secondary watchContent
	for _, content := range data.Contents.TwoColumnWatchNextResults.Results.Results.Contents {
		if content.VideoPrimaryInfoRenderer != nil {
			primary = content
		}
		if content.VideoSecondaryInfoRenderer != nil {
			secondary = content
		}
	}
	if primary.VideoPrimaryInfoRenderer == nil {
		return nil
	}
	info := primary.VideoPrimaryInfoRenderer

	viewText := info.ViewCount.VideoViewCountRenderer.ViewCount.text()
	if viewText == "" {
		viewText = info.ViewCount.VideoViewCountRenderer.ShortViewCount.text()
	}

	likeCount := "0"
	if buttons := info.VideoActions.MenuRenderer.TopLevelButtons; len(buttons) > 0 {
		if t := buttons[0].SegmentedLikeDislikeButtonRenderer.LikeButton.ToggleButtonRenderer.DefaultText.text(); t != "" {
			likeCount = digitsOnly(t)
		}
	}

	rec := &model.VideoRecord{
		ID:            id,
		Title:         info.Title.text(),
		PublishedAt:   parseRelativeTime(info.DateText.text(), cr.now()).UTC().Format(time.RFC3339),
		Thumbnails:    model.SynthesizeThumbnails(id),
		Duration:      formatDuration(metaDuration(doc)),
		ViewCount:     digitsOnly(viewText),
		LikeCount:     likeCount,
		FavoriteCount: "0",
		CommentCount:  "0",
		IsCrawlerData: true,
	}

	if owner := secondary.VideoSecondaryInfoRenderer; owner != nil {
		rec.ChannelTitle = owner.Owner.VideoOwnerRenderer.Title.text()
		rec.ChannelID = owner.Owner.VideoOwnerRenderer.NavigationEndpoint.BrowseEndpoint.BrowseID
		rec.Description = owner.Description.text()
	}

	cr.cache.Add(cacheKey, rec)
	return rec
}

// metaDuration reads the itemprop=duration meta tag the watch page carries,
// already in ISO-8601 form. Empty when absent.
func metaDuration(doc *goquery.Document) string {
	content, _ := doc.Find(`meta[itemprop="duration"]`).First().Attr("content")
	return content
}

// VideoByOembed looks a video up through the open oembed endpoint, falling
// back to the embed page, and finally to a record holding only the id. It
// never returns nil and never fails.
//
// Two oembed statuses are terminal, not retried: 401 means the video is not
// embeddable, 403 means it is not public. Callers render those distinctly.
func (cr *Crawler) VideoByOembed(ctx context.Context, id string) *model.VideoRecord {
	cacheKey := "oembed:" + id
	if cached, ok := cr.cache.Get(cacheKey); ok {
		return cached.(*model.VideoRecord)
	}

	log.Info().Str("videoId", id).Msg("crawler: oembed lookup")

	if rec := cr.fetchOembed(ctx, id); rec != nil {
		cr.cache.Add(cacheKey, rec)
		return rec
	}

	if rec := cr.fetchEmbedPage(ctx, id); rec != nil {
		cr.cache.Add(cacheKey, rec)
		return rec
	}

	// Most basic shape: the id is all we know.
	rec := &model.VideoRecord{ID: id, IsCrawlerData: true}
	cr.cache.Add(cacheKey, rec)
	return rec
}

func (cr *Crawler) fetchOembed(ctx context.Context, id string) *model.VideoRecord {
	ctx, cancel := context.WithTimeout(ctx, oembedTimeout)
	defer cancel()

	oembedURL := cr.baseURL + "/oembed?url=" +
		url.QueryEscape(cr.baseURL+"/watch?v="+id) + "&format=json"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, oembedURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", randomUserAgent())

	resp, err := cr.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("videoId", id).Msg("crawler: oembed failed, trying embed page")
		return nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		var payload struct {
			Title        string `json:"title"`
			AuthorName   string `json:"author_name"`
			ThumbnailURL string `json:"thumbnail_url"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Title == "" {
			return nil
		}
		return &model.VideoRecord{
			ID:            id,
			Title:         payload.Title,
			ChannelTitle:  payload.AuthorName,
			Thumbnails:    model.SynthesizeThumbnails(id),
			IsCrawlerData: true,
		}
	case http.StatusUnauthorized:
		embeddable := false
		return &model.VideoRecord{ID: id, Embeddable: &embeddable, IsCrawlerData: true}
	case http.StatusForbidden:
		public := false
		return &model.VideoRecord{ID: id, Public: &public, IsCrawlerData: true}
	}
	return nil
}

var ytcfgRe = regexp.MustCompile(`ytcfg\.set\((.*)\);window`)

func (cr *Crawler) fetchEmbedPage(ctx context.Context, id string) *model.VideoRecord {
	ctx, cancel := context.WithTimeout(ctx, oembedTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cr.baseURL+"/embed/"+url.PathEscape(id), nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", randomUserAgent())

	resp, err := cr.http.Do(req)
	if err != nil {
		log.Debug().Err(err).Str("videoId", id).Msg("crawler: embed page fetch failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil
	}

	var rec *model.VideoRecord
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "ytcfg.set") {
			return true
		}
		if parsed := parseEmbedConfig(id, text); parsed != nil {
			rec = parsed
			return false
		}
		return true
	})
	return rec
}

// parseEmbedConfig extracts title/author from the ytcfg.set blob. The player
// response inside it is a second layer of JSON encoded as a string.
func parseEmbedConfig(id, script string) *model.VideoRecord {
	m := ytcfgRe.FindStringSubmatch(script)
	if m == nil {
		return nil
	}

	var cfg embedConfig
	if err := json.Unmarshal([]byte(m[1]), &cfg); err != nil {
		return nil
	}
	if cfg.PlayerVars.EmbeddedPlayerResponse == "" {
		return nil
	}

	var player embeddedPlayerResponse
	if err := json.Unmarshal([]byte(cfg.PlayerVars.EmbeddedPlayerResponse), &player); err != nil {
		return nil
	}

	details := player.EmbedPreview.ThumbnailPreviewRenderer.VideoDetails.EmbeddedPlayerOverlayVideoDetailsRenderer
	title := details.CollapsedRenderer.EmbeddedPlayerOverlayVideoDetailsCollapsedRenderer.Title.text()
	author := details.ExpandedRenderer.EmbeddedPlayerOverlayVideoDetailsExpandedRenderer.Title.text()
	if title == "" && author == "" {
		return nil
	}

	return &model.VideoRecord{
		ID:            id,
		Title:         title,
		ChannelTitle:  author,
		Thumbnails:    model.SynthesizeThumbnails(id),
		IsCrawlerData: true,
	}
}
