package clients

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"html"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/spacesedan/commentlens/internal/metrics"
	"github.com/spacesedan/commentlens/internal/models"
)

var (
	ErrVideoNotFound = errors.New("video not found")
	ErrYouTubeQuota  = errors.New("youtube api quota exceeded")
)

const ytInitialPlayerResponseMarker = "ytInitialPlayerResponse = "

type YouTubeOptions struct {
	APIKey      string
	APIBase     string
	WatchBase   string
	MaxComments int
	Timeout     time.Duration
	Retry       *RetryPolicy
	Cache       Cache
	CacheTTL    time.Duration
}

type YouTubeClient struct {
	Client      *http.Client
	apiKey      string
	apiBase     string
	watchBase   string
	maxComments int
	retry       RetryPolicy
	cache       Cache
	cacheTTL    time.Duration
}

func NewYouTubeClient(opts YouTubeOptions) *YouTubeClient {
	if opts.APIBase == "" {
		opts.APIBase = YOUTUBE_API_BASE
	}
	if opts.WatchBase == "" {
		opts.WatchBase = YOUTUBE_WATCH_BASE
	}
	if opts.MaxComments <= 0 {
		opts.MaxComments = 500
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	retry := DefaultRetryPolicy
	if opts.Retry != nil {
		retry = *opts.Retry
	}
	if opts.APIKey == "" {
		slog.Warn("[YouTubeClient] YOUTUBE_API_KEY is not set, Data API requests will fail")
	}

	return &YouTubeClient{
		Client:      &http.Client{Timeout: opts.Timeout},
		apiKey:      opts.APIKey,
		apiBase:     strings.TrimRight(opts.APIBase, "/"),
		watchBase:   strings.TrimRight(opts.WatchBase, "/"),
		maxComments: opts.MaxComments,
		retry:       retry,
		cache:       opts.Cache,
		cacheTTL:    opts.CacheTTL,
	}
}

func (y *YouTubeClient) GetVideoInfo(ctx context.Context, videoID string) (models.VideoInfo, error) {
	var info models.VideoInfo
	if y.cached(ctx, "video:"+videoID, &info) {
		return info, nil
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("id", videoID)

	var resp models.YouTubeVideoListResponse
	if err := y.getJSON(ctx, "/videos", params, &resp); err != nil {
		return info, err
	}
	if len(resp.Items) == 0 {
		return info, ErrVideoNotFound
	}

	snippet := resp.Items[0].Snippet
	info = models.VideoInfo{
		VideoID:      videoID,
		Title:        snippet.Title,
		ChannelTitle: snippet.ChannelTitle,
	}
	if published, err := time.Parse(time.RFC3339, snippet.PublishedAt); err == nil {
		info.PublishedAt = published
	} else {
		slog.Warn("[YouTubeClient] Unparseable publishedAt",
			slog.String("video_id", videoID),
			slog.String("value", snippet.PublishedAt))
	}

	y.store(ctx, "video:"+videoID, info)
	return info, nil
}

// GetComments returns plain-text top-level comments in API order, up to the
// configured maximum. Videos with comments disabled yield an empty list.
func (y *YouTubeClient) GetComments(ctx context.Context, videoID string) ([]string, error) {
	var comments []string
	if y.cached(ctx, "comments:"+videoID, &comments) {
		return comments, nil
	}

	comments = []string{}
	pageToken := ""
	pageCount := 0

	for {
		params := url.Values{}
		params.Set("part", "snippet")
		params.Set("videoId", videoID)
		params.Set("textFormat", "plainText")
		params.Set("maxResults", fmt.Sprint(YOUTUBE_PAGE_SIZE))
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		var resp models.YouTubeCommentThreadResponse
		err := y.getJSON(ctx, "/commentThreads", params, &resp)
		if errors.Is(err, errCommentsDisabled) {
			slog.Info("[YouTubeClient] Comments are disabled", slog.String("video_id", videoID))
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to fetch comments page %d: %w", pageCount+1, err)
		}

		for _, item := range resp.Items {
			if text := item.Snippet.TopLevelComment.Snippet.TextDisplay; text != "" {
				comments = append(comments, text)
			}
		}

		pageCount++
		pageToken = resp.NextPageToken
		if pageToken == "" || len(comments) >= y.maxComments {
			break
		}
	}

	if len(comments) > y.maxComments {
		comments = comments[:y.maxComments]
	}

	slog.Info("[YouTubeClient] Fetched comments",
		slog.String("video_id", videoID),
		slog.Int("comments", len(comments)),
		slog.Int("pages", pageCount))

	y.store(ctx, "comments:"+videoID, comments)
	return comments, nil
}

// GetTranscript scrapes the watch page for a caption track and returns its text.
// When no track can be fetched the placeholder transcript is returned.
func (y *YouTubeClient) GetTranscript(ctx context.Context, videoID string) string {
	var transcript string
	if y.cached(ctx, "transcript:"+videoID, &transcript) {
		return transcript
	}

	transcript, err := y.fetchTranscript(ctx, videoID)
	if err != nil || transcript == "" {
		msg := "empty transcript"
		if err != nil {
			msg = err.Error()
		}
		slog.Warn("[YouTubeClient] Transcript unavailable, using placeholder",
			slog.String("video_id", videoID),
			slog.String("error", msg))
		return PLACEHOLDER_TRANSCRIPT
	}

	y.store(ctx, "transcript:"+videoID, transcript)
	return transcript
}

func (y *YouTubeClient) fetchTranscript(ctx context.Context, videoID string) (string, error) {
	watchURL := y.watchBase + "/watch?v=" + url.QueryEscape(videoID)
	body, err := y.getBody(ctx, watchURL, 6*1024*1024, func(req *http.Request) {
		req.Header.Set("Accept-Language", "en-US,en;q=0.9")
		req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	})
	if err != nil {
		return "", fmt.Errorf("watch page: %w", err)
	}

	idx := strings.Index(string(body), ytInitialPlayerResponseMarker)
	if idx < 0 {
		return "", errors.New("ytInitialPlayerResponse not found in watch page")
	}
	jsonData := extractJSON(body[idx+len(ytInitialPlayerResponseMarker):])
	if jsonData == nil {
		return "", errors.New("failed to extract ytInitialPlayerResponse JSON")
	}

	var player models.YouTubePlayerResponse
	if err := json.Unmarshal(jsonData, &player); err != nil {
		return "", fmt.Errorf("decode ytInitialPlayerResponse: %w", err)
	}
	if player.Captions == nil || len(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks) == 0 {
		return "", errors.New("no caption tracks in watch page")
	}

	track := pickCaptionTrack(player.Captions.PlayerCaptionsTracklistRenderer.CaptionTracks)
	return y.fetchTimedText(ctx, track.BaseURL)
}

// pickCaptionTrack prefers a manual English track, then any English track.
func pickCaptionTrack(tracks []models.YouTubeCaptionTrack) models.YouTubeCaptionTrack {
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") && t.Kind != "asr" {
			return t
		}
	}
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}

func (y *YouTubeClient) fetchTimedText(ctx context.Context, baseURL string) (string, error) {
	body, err := y.getBody(ctx, baseURL, 512*1024, nil)
	if err != nil {
		return "", fmt.Errorf("fetch timedtext: %w", err)
	}

	var tt models.YouTubeTimedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", fmt.Errorf("parse timedtext XML: %w", err)
	}

	var sb strings.Builder
	for _, line := range tt.Lines {
		text := strings.Join(strings.Fields(html.UnescapeString(line.Text)), " ")
		if text == "" {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}

// extractJSON returns the balanced JSON object at the start of b.
func extractJSON(b []byte) []byte {
	if len(b) == 0 || b[0] != '{' {
		return nil
	}
	depth := 0
	inStr := false
	escaped := false
	for i, c := range b {
		if inStr {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inStr = false
			}
			continue
		}
		switch c {
		case '"':
			inStr = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return b[:i+1]
			}
		}
	}
	return nil
}

var errCommentsDisabled = errors.New("comments disabled")

func (y *YouTubeClient) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	params.Set("key", y.apiKey)
	endpoint := y.apiBase + path + "?" + params.Encode()

	resp, err := doWithRetry(ctx, y.Client, y.retry, "YouTubeClient", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("youtube %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("youtube %s: failed to read response: %w", path, err)
	}

	if resp.StatusCode != http.StatusOK {
		return y.apiError(path, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		slog.Error("[YouTubeClient] Failed to unmarshal response",
			slog.String("path", path),
			slog.String("error", err.Error()),
			getPreview(body))
		return fmt.Errorf("youtube %s: failed to decode response: %w", path, err)
	}
	return nil
}

func (y *YouTubeClient) apiError(path string, status int, body []byte) error {
	var apiErr models.YouTubeErrorResponse
	_ = json.Unmarshal(body, &apiErr)

	reason := ""
	if len(apiErr.Error.Errors) > 0 {
		reason = apiErr.Error.Errors[0].Reason
	}

	slog.Error("[YouTubeClient] API returned an error",
		slog.String("path", path),
		slog.Int("status", status),
		slog.String("reason", reason),
		slog.String("message", apiErr.Error.Message))

	switch {
	case reason == "quotaExceeded" || reason == "dailyLimitExceeded":
		metrics.QuotaHits.WithLabelValues("youtube").Inc()
		return ErrYouTubeQuota
	case reason == "commentsDisabled":
		return errCommentsDisabled
	case status == http.StatusNotFound || reason == "videoNotFound":
		return ErrVideoNotFound
	default:
		return fmt.Errorf("youtube %s: %w", path, &httpStatusError{StatusCode: status})
	}
}

func (y *YouTubeClient) getBody(ctx context.Context, target string, limit int64, decorate func(*http.Request)) ([]byte, error) {
	resp, err := doWithRetry(ctx, y.Client, y.retry, "YouTubeClient", func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
		if err != nil {
			return nil, err
		}
		if decorate != nil {
			decorate(req)
		}
		return req, nil
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &httpStatusError{StatusCode: resp.StatusCode}
	}
	return io.ReadAll(io.LimitReader(resp.Body, limit))
}

func (y *YouTubeClient) cached(ctx context.Context, key string, out any) bool {
	if y.cache == nil {
		return false
	}
	hit, err := y.cache.GetJSON(ctx, "youtube:"+key, out)
	if err != nil {
		slog.Warn("[YouTubeClient] Cache read failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return false
	}
	return hit
}

func (y *YouTubeClient) store(ctx context.Context, key string, value any) {
	if y.cache == nil || y.cacheTTL <= 0 {
		return
	}
	if err := y.cache.SetJSON(ctx, "youtube:"+key, value, y.cacheTTL); err != nil {
		slog.Warn("[YouTubeClient] Cache write failed",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}
}
