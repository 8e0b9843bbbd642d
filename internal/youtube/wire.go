package youtube

import "github.com/lhhieu89/reviewphims/internal/model"

// Wire shapes for Data API responses. Only the fields the site consumes are
// declared; everything else in the payload is ignored on decode.

type pageInfo struct {
	TotalResults   int `json:"totalResults"`
	ResultsPerPage int `json:"resultsPerPage"`
}

type snippet struct {
	PublishedAt  string           `json:"publishedAt"`
	ChannelID    string           `json:"channelId"`
	Title        string           `json:"title"`
	Description  string           `json:"description"`
	Thumbnails   model.Thumbnails `json:"thumbnails"`
	ChannelTitle string           `json:"channelTitle"`
}

type searchListResponse struct {
	NextPageToken string       `json:"nextPageToken"`
	PrevPageToken string       `json:"prevPageToken"`
	PageInfo      pageInfo     `json:"pageInfo"`
	Items         []searchItem `json:"items"`
}

type searchItem struct {
	ID struct {
		VideoID string `json:"videoId"`
	} `json:"id"`
	Snippet snippet `json:"snippet"`
}

func (r searchListResponse) toList() *model.VideoListResponse {
	items := make([]model.VideoRecord, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, model.VideoRecord{
			ID:           it.ID.VideoID,
			Title:        it.Snippet.Title,
			Description:  it.Snippet.Description,
			ChannelID:    it.Snippet.ChannelID,
			ChannelTitle: it.Snippet.ChannelTitle,
			PublishedAt:  it.Snippet.PublishedAt,
			Thumbnails:   it.Snippet.Thumbnails,
		})
	}
	return &model.VideoListResponse{
		Items:         items,
		NextPageToken: r.NextPageToken,
		PrevPageToken: r.PrevPageToken,
		PageInfo:      model.PageInfo(r.PageInfo),
	}
}

type videoListResponse struct {
	NextPageToken string      `json:"nextPageToken"`
	PrevPageToken string      `json:"prevPageToken"`
	PageInfo      pageInfo    `json:"pageInfo"`
	Items         []videoItem `json:"items"`
}

type videoItem struct {
	ID             string  `json:"id"`
	Snippet        snippet `json:"snippet"`
	ContentDetails struct {
		Duration string `json:"duration"`
	} `json:"contentDetails"`
	Statistics struct {
		ViewCount     string `json:"viewCount"`
		LikeCount     string `json:"likeCount"`
		FavoriteCount string `json:"favoriteCount"`
		CommentCount  string `json:"commentCount"`
	} `json:"statistics"`
}

func (it videoItem) toRecord() model.VideoRecord {
	return model.VideoRecord{
		ID:            it.ID,
		Title:         it.Snippet.Title,
		Description:   it.Snippet.Description,
		ChannelID:     it.Snippet.ChannelID,
		ChannelTitle:  it.Snippet.ChannelTitle,
		PublishedAt:   it.Snippet.PublishedAt,
		Thumbnails:    it.Snippet.Thumbnails,
		Duration:      it.ContentDetails.Duration,
		ViewCount:     it.Statistics.ViewCount,
		LikeCount:     it.Statistics.LikeCount,
		FavoriteCount: it.Statistics.FavoriteCount,
		CommentCount:  it.Statistics.CommentCount,
	}
}

func (r videoListResponse) toList() *model.VideoListResponse {
	items := make([]model.VideoRecord, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, it.toRecord())
	}
	return &model.VideoListResponse{
		Items:         items,
		NextPageToken: r.NextPageToken,
		PrevPageToken: r.PrevPageToken,
		PageInfo:      model.PageInfo(r.PageInfo),
	}
}

type channelListResponse struct {
	PageInfo pageInfo      `json:"pageInfo"`
	Items    []channelItem `json:"items"`
}

type channelItem struct {
	ID      string `json:"id"`
	Snippet struct {
		Title       string           `json:"title"`
		Description string           `json:"description"`
		CustomURL   string           `json:"customUrl"`
		PublishedAt string           `json:"publishedAt"`
		Thumbnails  model.Thumbnails `json:"thumbnails"`
		Country     string           `json:"country"`
	} `json:"snippet"`
	Statistics struct {
		ViewCount             string `json:"viewCount"`
		SubscriberCount       string `json:"subscriberCount"`
		HiddenSubscriberCount bool   `json:"hiddenSubscriberCount"`
		VideoCount            string `json:"videoCount"`
	} `json:"statistics"`
}

func (it channelItem) toRecord() model.ChannelRecord {
	return model.ChannelRecord{
		ID:              it.ID,
		Title:           it.Snippet.Title,
		Description:     it.Snippet.Description,
		CustomURL:       it.Snippet.CustomURL,
		PublishedAt:     it.Snippet.PublishedAt,
		Country:         it.Snippet.Country,
		Thumbnails:      it.Snippet.Thumbnails,
		ViewCount:       it.Statistics.ViewCount,
		SubscriberCount: it.Statistics.SubscriberCount,
		HiddenSubsCount: it.Statistics.HiddenSubscriberCount,
		VideoCount:      it.Statistics.VideoCount,
	}
}
