package models

import "time"

type SentimentDistribution struct {
	Positive float64 `json:"positive"`
	Negative float64 `json:"negative"`
	Neutral  float64 `json:"neutral"`
}

// AnalysisReport is built once per request and never stored.
type AnalysisReport struct {
	VideoID             string                `json:"videoId"`
	VideoTitle          string                `json:"videoTitle"`
	ChannelTitle        string                `json:"channelTitle"`
	PublishedAt         time.Time             `json:"publishedAt"`
	CommentCount        int                   `json:"commentCount"`
	CommentsUnavailable bool                  `json:"commentsUnavailable"`
	Sentiment           SentimentDistribution `json:"sentiment"`
	Summary             string                `json:"summary"`
	TranscriptSummary   string                `json:"transcriptSummary"`
	APIQuotaExceeded    bool                  `json:"apiQuotaExceeded"`
}
