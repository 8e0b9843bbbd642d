package model

// ChannelRecord is the API response shape for channel lookups. Channels are
// only ever served from the Data API; there is no crawler-built variant.
type ChannelRecord struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	CustomURL       string     `json:"customUrl,omitempty"`
	PublishedAt     string     `json:"publishedAt,omitempty"`
	Country         string     `json:"country,omitempty"`
	Thumbnails      Thumbnails `json:"thumbnails"`
	ViewCount       string     `json:"viewCount,omitempty"`
	SubscriberCount string     `json:"subscriberCount,omitempty"`
	HiddenSubsCount bool       `json:"hiddenSubscriberCount,omitempty"`
	VideoCount      string     `json:"videoCount,omitempty"`
}
