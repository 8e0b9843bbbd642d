// Package youtube is a thin client for the YouTube Data API v3. It knows how
// to build typed requests, parse the structured error body, and classify
// quota exhaustion — nothing else. Caching across sources is the caller's job.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/lhhieu89/reviewphims/internal/model"
)

// DefaultBaseURL is the fixed upstream base for the Data API.
const DefaultBaseURL = "https://www.googleapis.com/youtube/v3"

// Quota unit costs per endpoint, as billed upstream.
const (
	CostSearch   = 100
	CostVideos   = 1
	CostChannels = 1
)

// APIError is a non-2xx response from the Data API, carrying the structured
// error body when one was present.
type APIError struct {
	Status  int    // HTTP status
	Code    int    // numeric code from the error body, if any
	Reason  string // first structured reason, e.g. "quotaExceeded"
	Message string
}

func (e *APIError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("youtube api: %d %s (%s)", e.Status, e.Message, e.Reason)
	}
	return fmt.Sprintf("youtube api: %d %s", e.Status, e.Message)
}

// IsQuotaExceeded reports whether err is the Data API refusing requests
// because the usage budget for the period is spent. The structured reason
// code is the primary signal; the message substring is kept as a secondary
// heuristic because upstream wording has changed before.
//
// This predicate is the only condition under which callers may fall back to
// the page crawler.
func IsQuotaExceeded(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Status != http.StatusForbidden && apiErr.Code != http.StatusForbidden {
		return false
	}
	switch apiErr.Reason {
	case "quotaExceeded", "dailyLimitExceeded":
		return true
	}
	return strings.Contains(strings.ToLower(apiErr.Message), "quota")
}

type Client struct {
	baseURL    string
	apiKey     string
	regionCode string
	http       *http.Client
}

// NewClient creates a Data API client. baseURL may be empty to use the
// default; tests point it at a stub server.
func NewClient(baseURL, apiKey, regionCode string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		regionCode: regionCode,
		http:       &http.Client{Timeout: 15 * time.Second},
	}
}

// SearchParams are the typed parameters for the search endpoint. Zero values
// fall back to the defaults the site has always used.
type SearchParams struct {
	Q                 string
	MaxResults        int
	PageToken         string
	RegionCode        string
	Order             string // date | rating | relevance | title | viewCount
	VideoCategoryID   string
	VideoDuration     string // short | medium | long
	SafeSearch        string // none | moderate | strict
	RelevanceLanguage string
	VideoEmbeddable   string // "true" | "any"
}

func (p SearchParams) values(defaultRegion string) url.Values {
	v := url.Values{}
	v.Set("part", "snippet")
	v.Set("type", "video")
	v.Set("q", p.Q)
	v.Set("maxResults", strconv.Itoa(orDefault(p.MaxResults, 20)))
	v.Set("regionCode", orDefaultStr(p.RegionCode, defaultRegion))
	v.Set("order", orDefaultStr(p.Order, "relevance"))
	v.Set("safeSearch", orDefaultStr(p.SafeSearch, "moderate"))
	v.Set("relevanceLanguage", orDefaultStr(p.RelevanceLanguage, "vi"))
	v.Set("videoEmbeddable", orDefaultStr(p.VideoEmbeddable, "true"))
	setIfPresent(v, "pageToken", p.PageToken)
	setIfPresent(v, "videoCategoryId", p.VideoCategoryID)
	setIfPresent(v, "videoDuration", p.VideoDuration)
	return v
}

// MostPopularParams are the typed parameters for the mostPopular chart.
type MostPopularParams struct {
	RegionCode      string
	MaxResults      int
	PageToken       string
	VideoCategoryID string
}

func (p MostPopularParams) values(defaultRegion string) url.Values {
	v := url.Values{}
	v.Set("part", "snippet,statistics,contentDetails")
	v.Set("chart", "mostPopular")
	v.Set("regionCode", orDefaultStr(p.RegionCode, defaultRegion))
	v.Set("maxResults", strconv.Itoa(orDefault(p.MaxResults, 20)))
	setIfPresent(v, "pageToken", p.PageToken)
	setIfPresent(v, "videoCategoryId", p.VideoCategoryID)
	return v
}

// Search calls the search endpoint and normalizes the result.
func (c *Client) Search(ctx context.Context, p SearchParams) (*model.VideoListResponse, error) {
	var wire searchListResponse
	if err := c.call(ctx, "search", p.values(c.regionCode), &wire); err != nil {
		return nil, err
	}
	return wire.toList(), nil
}

// ListMostPopular calls the videos endpoint with the mostPopular chart.
func (c *Client) ListMostPopular(ctx context.Context, p MostPopularParams) (*model.VideoListResponse, error) {
	var wire videoListResponse
	if err := c.call(ctx, "videos", p.values(c.regionCode), &wire); err != nil {
		return nil, err
	}
	return wire.toList(), nil
}

// GetVideo looks up a single video. A valid ID with zero results returns
// (nil, nil): not-found is a legitimate empty answer, not a fault.
func (c *Client) GetVideo(ctx context.Context, id string) (*model.VideoRecord, error) {
	v := url.Values{}
	v.Set("part", "snippet,contentDetails,statistics")
	v.Set("id", id)

	var wire videoListResponse
	if err := c.call(ctx, "videos", v, &wire); err != nil {
		return nil, err
	}
	if len(wire.Items) == 0 {
		return nil, nil
	}
	rec := wire.Items[0].toRecord()
	return &rec, nil
}

// GetChannel looks up a single channel. Zero results returns (nil, nil).
func (c *Client) GetChannel(ctx context.Context, id string) (*model.ChannelRecord, error) {
	v := url.Values{}
	v.Set("part", "snippet,statistics")
	v.Set("id", id)

	var wire channelListResponse
	if err := c.call(ctx, "channels", v, &wire); err != nil {
		return nil, err
	}
	if len(wire.Items) == 0 {
		return nil, nil
	}
	rec := wire.Items[0].toRecord()
	return &rec, nil
}

func (c *Client) call(ctx context.Context, endpoint string, params url.Values, out any) error {
	params.Set("key", c.apiKey)
	reqURL := c.baseURL + "/" + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("youtube api: build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("youtube api: %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return fmt.Errorf("youtube api: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseAPIError(resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("youtube api: decode %s response: %w", endpoint, err)
	}
	return nil
}

// parseAPIError decodes the structured Data API error envelope. An
// undecodable body still yields an APIError carrying the HTTP status.
func parseAPIError(status int, body []byte) *APIError {
	var envelope struct {
		Error struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
			Errors  []struct {
				Reason string `json:"reason"`
			} `json:"errors"`
		} `json:"error"`
	}

	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(body, &envelope); err != nil {
		apiErr.Message = http.StatusText(status)
		return apiErr
	}

	apiErr.Code = envelope.Error.Code
	apiErr.Message = envelope.Error.Message
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	if len(envelope.Error.Errors) > 0 {
		apiErr.Reason = envelope.Error.Errors[0].Reason
	}
	return apiErr
}

func orDefault(n, def int) int {
	if n <= 0 {
		return def
	}
	return n
}

func orDefaultStr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func setIfPresent(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}
