package clients

import "time"

const (
	MAX_RETRIES     = 3
	INITIAL_BACKOFF = 1 * time.Second
	MAX_BACKOFF     = 32 * time.Second
	USER_AGENT      = "commentlens-client/1.0 (+https://github.com/spacesedan/commentlens)"
)

const (
	YOUTUBE_API_BASE       = "https://www.googleapis.com/youtube/v3"
	YOUTUBE_WATCH_BASE     = "https://www.youtube.com"
	YOUTUBE_PAGE_SIZE      = 100
	PLACEHOLDER_TRANSCRIPT = "This is a placeholder transcript."
)
