package models

const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// SentimentPrediction is one classifier verdict for one comment.
type SentimentPrediction struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}
