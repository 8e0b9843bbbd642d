package crawler

import (
	"encoding/json"
	"strings"
)

// Partial declarations of the renderer-keyed JSON graph YouTube embeds in its
// pages. Field paths are best-effort, not a contract: unknown fields are
// ignored on decode and missing ones come back as zero values, which keeps
// every extraction step no-throw by construction.

// textField is the "simpleText or runs" shape used for nearly every label.
type textField struct {
	SimpleText string `json:"simpleText"`
	Runs       []run  `json:"runs"`
}

type run struct {
	Text               string `json:"text"`
	NavigationEndpoint struct {
		BrowseEndpoint struct {
			BrowseID string `json:"browseId"`
		} `json:"browseEndpoint"`
	} `json:"navigationEndpoint"`
}

// text returns the simpleText when present, otherwise the concatenated runs.
func (t textField) text() string {
	if t.SimpleText != "" {
		return t.SimpleText
	}
	if len(t.Runs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range t.Runs {
		b.WriteString(r.Text)
	}
	return b.String()
}

// firstRunBrowseID returns the channel ID attached to the first run, if any.
func (t textField) firstRunBrowseID() string {
	if len(t.Runs) == 0 {
		return ""
	}
	return t.Runs[0].NavigationEndpoint.BrowseEndpoint.BrowseID
}

type initialData struct {
	Contents struct {
		TwoColumnSearchResultsRenderer *struct {
			PrimaryContents struct {
				SectionListRenderer sectionList `json:"sectionListRenderer"`
			} `json:"primaryContents"`
		} `json:"twoColumnSearchResultsRenderer"`

		TwoColumnBrowseResultsRenderer *struct {
			Tabs []struct {
				TabRenderer struct {
					Title   string `json:"title"`
					Content struct {
						SectionListRenderer sectionList `json:"sectionListRenderer"`
					} `json:"content"`
				} `json:"tabRenderer"`
			} `json:"tabs"`
		} `json:"twoColumnBrowseResultsRenderer"`

		TwoColumnWatchNextResults *struct {
			Results struct {
				Results struct {
					Contents []watchContent `json:"contents"`
				} `json:"results"`
			} `json:"results"`
		} `json:"twoColumnWatchNextResults"`
	} `json:"contents"`
}

func decodeInitialData(raw string) *initialData {
	var data initialData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil
	}
	return &data
}

type sectionList struct {
	Contents []struct {
		ItemSectionRenderer *struct {
			Contents []itemContent `json:"contents"`
		} `json:"itemSectionRenderer"`
	} `json:"contents"`
}

// itemContent is one entry of a results section. Entries that are not videos
// (channels, playlists, ads) leave VideoRenderer nil and are skipped.
type itemContent struct {
	VideoRenderer *videoRenderer `json:"videoRenderer"`
	ShelfRenderer *struct {
		Content struct {
			VerticalListRenderer struct {
				Items []itemContent `json:"items"`
			} `json:"verticalListRenderer"`
		} `json:"content"`
	} `json:"shelfRenderer"`
}

// firstVideoRenderer resolves the renderer for this entry, looking inside a
// shelf when the entry is a trending-page shelf rather than a bare video.
func (ic itemContent) firstVideoRenderer() *videoRenderer {
	if ic.VideoRenderer != nil {
		return ic.VideoRenderer
	}
	if ic.ShelfRenderer != nil {
		items := ic.ShelfRenderer.Content.VerticalListRenderer.Items
		if len(items) > 0 && items[0].VideoRenderer != nil {
			return items[0].VideoRenderer
		}
	}
	return nil
}

type videoRenderer struct {
	VideoID                  string    `json:"videoId"`
	Title                    textField `json:"title"`
	OwnerText                textField `json:"ownerText"`
	DetailedMetadataSnippets []struct {
		SnippetText textField `json:"snippetText"`
	} `json:"detailedMetadataSnippets"`
	PublishedTimeText  textField `json:"publishedTimeText"`
	ViewCountText      textField `json:"viewCountText"`
	ShortViewCountText textField `json:"shortViewCountText"`
	LengthText         textField `json:"lengthText"`
}

func (vr *videoRenderer) description() string {
	if len(vr.DetailedMetadataSnippets) == 0 {
		return ""
	}
	return vr.DetailedMetadataSnippets[0].SnippetText.text()
}

type watchContent struct {
	VideoPrimaryInfoRenderer *struct {
		Title     textField `json:"title"`
		ViewCount struct {
			VideoViewCountRenderer struct {
				ViewCount      textField `json:"viewCount"`
				ShortViewCount textField `json:"shortViewCount"`
			} `json:"videoViewCountRenderer"`
		} `json:"viewCount"`
		DateText     textField `json:"dateText"`
		VideoActions struct {
			MenuRenderer struct {
				TopLevelButtons []struct {
					SegmentedLikeDislikeButtonRenderer struct {
						LikeButton struct {
							ToggleButtonRenderer struct {
								DefaultText textField `json:"defaultText"`
							} `json:"toggleButtonRenderer"`
						} `json:"likeButton"`
					} `json:"segmentedLikeDislikeButtonRenderer"`
				} `json:"topLevelButtons"`
			} `json:"menuRenderer"`
		} `json:"videoActions"`
	} `json:"videoPrimaryInfoRenderer"`

	VideoSecondaryInfoRenderer *struct {
		Owner struct {
			VideoOwnerRenderer struct {
				Title              textField `json:"title"`
				NavigationEndpoint struct {
					BrowseEndpoint struct {
						BrowseID string `json:"browseId"`
					} `json:"browseEndpoint"`
				} `json:"navigationEndpoint"`
			} `json:"videoOwnerRenderer"`
		} `json:"owner"`
		Description textField `json:"description"`
	} `json:"videoSecondaryInfoRenderer"`
}

// Embed-page shapes: the ytcfg.set(...) blob carries a player response as a
// double-encoded JSON string.

type embedConfig struct {
	PlayerVars struct {
		EmbeddedPlayerResponse string `json:"embedded_player_response"`
	} `json:"PLAYER_VARS"`
}

type embeddedPlayerResponse struct {
	EmbedPreview struct {
		ThumbnailPreviewRenderer struct {
			VideoDetails struct {
				EmbeddedPlayerOverlayVideoDetailsRenderer struct {
					CollapsedRenderer struct {
						EmbeddedPlayerOverlayVideoDetailsCollapsedRenderer struct {
							Title textField `json:"title"`
						} `json:"embeddedPlayerOverlayVideoDetailsCollapsedRenderer"`
					} `json:"collapsedRenderer"`
					ExpandedRenderer struct {
						EmbeddedPlayerOverlayVideoDetailsExpandedRenderer struct {
							Title textField `json:"title"`
						} `json:"embeddedPlayerOverlayVideoDetailsExpandedRenderer"`
					} `json:"expandedRenderer"`
				} `json:"embeddedPlayerOverlayVideoDetailsRenderer"`
			} `json:"videoDetails"`
		} `json:"thumbnailPreviewRenderer"`
	} `json:"embedPreview"`
}
