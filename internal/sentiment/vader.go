package sentiment

import (
	"context"
	"html"
	"math"
	"regexp"
	"strings"

	"github.com/jonreiter/govader"
	"github.com/russross/blackfriday/v2"
	"github.com/spacesedan/commentlens/internal/models"
)

const VADER_CUTOFF = 0.20

var (
	markdownLinkPattern = regexp.MustCompile(`\[(.*?)\]\((https?:\/\/[^\s\)]+)\)`)
	urlPattern          = regexp.MustCompile(`https?://\S+|www\.\S+`)
	tagPattern          = regexp.MustCompile(`<[^>]*>`)
)

func RemoveLinks(input string) string {
	input = markdownLinkPattern.ReplaceAllString(input, "$1")
	return urlPattern.ReplaceAllString(input, "")
}

// ConvertMarkdownToText renders markdown and strips the resulting markup,
// leaving single-spaced plain text without links.
func ConvertMarkdownToText(input string) string {
	output := blackfriday.Run([]byte(RemoveLinks(input)), blackfriday.WithNoExtensions())
	plain := html.UnescapeString(tagPattern.ReplaceAllString(string(output), " "))
	return strings.Join(strings.Fields(RemoveLinks(plain)), " ")
}

// VADERClassifier scores comments with the VADER lexicon. The score is the
// magnitude of the compound polarity.
type VADERClassifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

func NewVADERClassifier() *VADERClassifier {
	return &VADERClassifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

func (v *VADERClassifier) Classify(_ context.Context, text string) (models.SentimentPrediction, error) {
	score, label := v.analyze(text)
	return models.SentimentPrediction{Label: label, Score: math.Abs(score)}, nil
}

func (v *VADERClassifier) analyze(text string) (float64, string) {
	sentiment := v.analyzer.PolarityScores(ConvertMarkdownToText(text))
	score := sentiment.Compound

	var label string
	if score >= VADER_CUTOFF {
		label = models.SentimentPositive
	} else if score <= -VADER_CUTOFF {
		label = models.SentimentNegative
	} else {
		label = models.SentimentNeutral
	}

	return score, label
}
