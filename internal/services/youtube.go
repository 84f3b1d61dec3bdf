package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/desertthunder/vidvault/internal/formatter"
	"github.com/desertthunder/vidvault/internal/models"
	"github.com/desertthunder/vidvault/internal/shared"
)

const (
	defaultYTBaseURL string = "https://www.googleapis.com/youtube/v3"
	defaultRegion    string = "US"
	searchPageSize   string = "12"
	noThumbnailURL   string = "https://via.placeholder.com/320x180?text=No+Image"
)

type ytThumbnail struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ytSnippet struct {
	Title        string `json:"title"`
	ChannelTitle string `json:"channelTitle"`
	CategoryID   string `json:"categoryId"`
	PublishedAt  string `json:"publishedAt"`
	Thumbnails   struct {
		High   *ytThumbnail `json:"high"`
		Medium *ytThumbnail `json:"medium"`
	} `json:"thumbnails"`
}

type ytStatistics struct {
	ViewCount string `json:"viewCount"`
	LikeCount string `json:"likeCount"`
}

type ytContentDetails struct {
	Duration          string `json:"duration"`
	RegionRestriction *struct {
		Blocked []string `json:"blocked"`
		Allowed []string `json:"allowed"`
	} `json:"regionRestriction"`
	ContentRating struct {
		YTRating string `json:"ytRating"`
	} `json:"contentRating"`
}

type ytStatus struct {
	Embeddable bool `json:"embeddable"`
}

// ytVideoItem is one entry from the videos listing endpoint.
type ytVideoItem struct {
	ID             string           `json:"id"`
	Snippet        ytSnippet        `json:"snippet"`
	Statistics     ytStatistics     `json:"statistics"`
	ContentDetails ytContentDetails `json:"contentDetails"`
	Status         ytStatus         `json:"status"`
}

// YouTubeService implements the Catalog interface against the YouTube Data API v3.
//
// The category listing is fetched once per process and cached; a failed fetch
// caches an empty map so every video falls back to the "Unknown" category
// instead of retrying on each search.
type YouTubeService struct {
	baseURL    string
	apiKey     string
	region     string
	httpClient *http.Client
	limiter    *rate.Limiter

	mu         sync.Mutex
	categories map[string]string
}

// NewYouTubeService creates a new YouTube catalog instance.
//
// An empty baseURL or region falls back to the public API endpoint and "US".
func NewYouTubeService(baseURL, apiKey, region string) *YouTubeService {
	if baseURL == "" {
		baseURL = defaultYTBaseURL
	}
	if region == "" {
		region = defaultRegion
	}

	return &YouTubeService{
		baseURL:    baseURL,
		apiKey:     apiKey,
		region:     strings.ToUpper(region),
		httpClient: http.DefaultClient,
		limiter:    rate.NewLimiter(rate.Limit(10), 1),
	}
}

// Name returns the catalog name.
func (y *YouTubeService) Name() string {
	return "YouTube"
}

// Ready reports whether the catalog has an API key configured.
func (y *YouTubeService) Ready() bool {
	return strings.TrimSpace(y.apiKey) != ""
}

func (y *YouTubeService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if err := y.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait failed: %w", err)
	}

	params.Set("key", y.apiKey)
	apiURL := y.baseURL + endpoint + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := y.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error.Message != "" {
			return fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, resp.StatusCode, errResp.Error.Message)
		}
		return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// Search runs the full lookup pipeline: an ID-only search, a batched details
// fetch, then filtering and projection into display models.
//
// Only embeddable, syndicated videos playable in the configured region and
// without an age-restricted rating survive the filter, so the result set may
// be smaller than the requested page size.
func (y *YouTubeService) Search(ctx context.Context, query string) ([]models.Video, error) {
	if !y.Ready() {
		return nil, shared.ErrMissingAPIKey
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("maxResults", searchPageSize)
	params.Set("videoEmbeddable", "true")
	params.Set("videoSyndicated", "true")
	params.Set("safeSearch", "moderate")
	params.Set("q", query)
	params.Set("regionCode", y.region)

	var searchResp struct {
		Items []struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		} `json:"items"`
	}
	if err := y.doRequest(ctx, "/search", params, &searchResp); err != nil {
		return nil, err
	}

	ids := []string{}
	for _, item := range searchResp.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	if len(ids) == 0 {
		return []models.Video{}, nil
	}

	detailParams := url.Values{}
	detailParams.Set("part", "snippet,statistics,contentDetails,status")
	detailParams.Set("id", strings.Join(ids, ","))

	var detailResp struct {
		Items []ytVideoItem `json:"items"`
	}
	if err := y.doRequest(ctx, "/videos", detailParams, &detailResp); err != nil {
		return nil, err
	}

	categories := y.categoryMap(ctx)

	videos := []models.Video{}
	for _, item := range detailResp.Items {
		if !item.Status.Embeddable {
			continue
		}
		if !y.allowedInRegion(item) {
			continue
		}
		if item.ContentDetails.ContentRating.YTRating == "ytAgeRestricted" {
			continue
		}
		videos = append(videos, projectVideo(item, categories))
	}

	return videos, nil
}

// allowedInRegion applies the video's region restriction against the
// configured region. No restriction block means playable everywhere.
func (y *YouTubeService) allowedInRegion(item ytVideoItem) bool {
	restriction := item.ContentDetails.RegionRestriction
	if restriction == nil {
		return true
	}

	for _, code := range restriction.Blocked {
		if strings.ToUpper(code) == y.region {
			return false
		}
	}

	if restriction.Allowed != nil {
		for _, code := range restriction.Allowed {
			if strings.ToUpper(code) == y.region {
				return true
			}
		}
		return false
	}

	return true
}

// categoryMap returns the cached category ID to title mapping, fetching it on
// first use. Both success and failure populate the cache.
func (y *YouTubeService) categoryMap(ctx context.Context) map[string]string {
	y.mu.Lock()
	defer y.mu.Unlock()

	if y.categories != nil {
		return y.categories
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("regionCode", y.region)

	var resp struct {
		Items []struct {
			ID      string `json:"id"`
			Snippet struct {
				Title string `json:"title"`
			} `json:"snippet"`
		} `json:"items"`
	}

	y.categories = map[string]string{}
	if err := y.doRequest(ctx, "/videoCategories", params, &resp); err != nil {
		return y.categories
	}

	for _, item := range resp.Items {
		y.categories[item.ID] = item.Snippet.Title
	}

	return y.categories
}

// projectVideo builds the display model, substituting defaults for any
// metadata the API omitted.
func projectVideo(item ytVideoItem, categories map[string]string) models.Video {
	title := item.Snippet.Title
	if title == "" {
		title = "Untitled"
	}

	thumbnail := noThumbnailURL
	if item.Snippet.Thumbnails.High != nil && item.Snippet.Thumbnails.High.URL != "" {
		thumbnail = item.Snippet.Thumbnails.High.URL
	} else if item.Snippet.Thumbnails.Medium != nil && item.Snippet.Thumbnails.Medium.URL != "" {
		thumbnail = item.Snippet.Thumbnails.Medium.URL
	}

	category := categories[item.Snippet.CategoryID]
	if category == "" {
		category = "Unknown"
	}

	return models.Video{
		ID:           item.ID,
		Title:        title,
		ChannelTitle: item.Snippet.ChannelTitle,
		Thumbnail:    thumbnail,
		Duration:     formatter.FormatDuration(item.ContentDetails.Duration),
		DurationRaw:  item.ContentDetails.Duration,
		ViewCount:    parseCount(item.Statistics.ViewCount),
		LikeCount:    parseCount(item.Statistics.LikeCount),
		Category:     category,
		PublishedAt:  item.Snippet.PublishedAt,
	}
}

// parseCount converts an API count string to an integer, defaulting to zero.
func parseCount(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
