package model

import "fmt"

// Thumbnail is a single image variant of a video's thumbnail set.
type Thumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Thumbnails holds the fixed set of named variants YouTube serves.
type Thumbnails struct {
	Default  *Thumbnail `json:"default,omitempty"`
	Medium   *Thumbnail `json:"medium,omitempty"`
	High     *Thumbnail `json:"high,omitempty"`
	Standard *Thumbnail `json:"standard,omitempty"`
	Maxres   *Thumbnail `json:"maxres,omitempty"`
}

// VideoRecord is the unified, source-agnostic representation of a video.
// Records built from the Data API carry the full field set; records built by
// the page crawler are best-effort and may leave counters at "0" and
// ChannelID empty.
type VideoRecord struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	ChannelID     string     `json:"channelId,omitempty"`
	ChannelTitle  string     `json:"channelTitle,omitempty"`
	PublishedAt   string     `json:"publishedAt,omitempty"`
	Thumbnails    Thumbnails `json:"thumbnails"`
	Duration      string     `json:"duration,omitempty"`
	ViewCount     string     `json:"viewCount,omitempty"`
	LikeCount     string     `json:"likeCount,omitempty"`
	FavoriteCount string     `json:"favoriteCount,omitempty"`
	CommentCount  string     `json:"commentCount,omitempty"`

	// Embeddable / Public are only set by the oembed lookup: a 401 from the
	// oembed endpoint means the video cannot be embedded, a 403 means it is
	// not public. Both are terminal states callers render distinctly.
	Embeddable *bool `json:"embeddable,omitempty"`
	Public     *bool `json:"public,omitempty"`

	IsCrawlerData bool `json:"isCrawlerData,omitempty"`
}

// PageInfo mirrors the Data API paging block.
type PageInfo struct {
	TotalResults   int `json:"totalResults"`
	ResultsPerPage int `json:"resultsPerPage"`
}

// VideoListResponse is the list shape returned by search and most-popular,
// regardless of which source produced it. IsCrawlerData tells consumers to
// adjust trust and caching policy for scraped records.
type VideoListResponse struct {
	Items         []VideoRecord `json:"items"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
	PrevPageToken string        `json:"prevPageToken,omitempty"`
	PageInfo      PageInfo      `json:"pageInfo"`
	IsCrawlerData bool          `json:"isCrawlerData"`
}

// EmptyVideoList returns a well-shaped zero-result response. The crawler
// returns this instead of nil on any structural failure so callers never have
// to distinguish "no data" from "parse failed".
func EmptyVideoList(crawled bool) *VideoListResponse {
	return &VideoListResponse{
		Items:         []VideoRecord{},
		IsCrawlerData: crawled,
	}
}

// SynthesizeThumbnails builds all five variants deterministically from a
// video ID. Used when a record is reconstructed from scraped pages, which
// never carry the full thumbnail set. The standard and maxres slots reuse
// hqdefault because sddefault/maxresdefault are missing for many videos.
func SynthesizeThumbnails(videoID string) Thumbnails {
	variant := func(name string, w, h int) *Thumbnail {
		return &Thumbnail{
			URL:    fmt.Sprintf("https://i.ytimg.com/vi/%s/%s.jpg", videoID, name),
			Width:  w,
			Height: h,
		}
	}
	return Thumbnails{
		Default:  variant("default", 120, 90),
		Medium:   variant("mqdefault", 320, 180),
		High:     variant("hqdefault", 480, 360),
		Standard: variant("hqdefault", 640, 480),
		Maxres:   variant("hqdefault", 1280, 720),
	}
}
