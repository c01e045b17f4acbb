package summarizer

import "github.com/spacesedan/commentlens/internal/models"

var displayText = map[string]map[models.SummaryStatus]string{
	StageTranscript: {
		models.SummaryUnavailable:   "Transcript summary unavailable: OpenAI API is not configured.",
		models.SummaryQuotaExceeded: "Unable to generate transcript summary: OpenAI API quota exceeded. Please check your API key and billing details.",
		models.SummaryFailed:        "Unable to generate transcript summary due to API errors. Please try again later.",
	},
	StageComments: {
		models.SummaryUnavailable:   "Comments summary unavailable: OpenAI API is not configured.",
		models.SummaryQuotaExceeded: "OpenAI API quota exceeded. Unable to process comments.",
		models.SummaryFailed:        "Failed to summarize comments due to API errors.",
	},
	StageFinal: {
		models.SummaryUnavailable:   "Analysis unavailable: OpenAI API is not configured.",
		models.SummaryQuotaExceeded: "Unable to generate analysis: OpenAI API quota exceeded. Please check your API key and billing details.",
		models.SummaryFailed:        "Unable to generate final analysis due to API errors. Please try again later.",
		models.SummaryNoComments:    "No comments were found for this video, so there is no viewer feedback to analyze.",
	},
}

var incompleteText = map[models.FailureCause]string{
	models.CauseComments:   "Unable to provide a complete analysis: Some parts of the analysis failed due to API limitations.",
	models.CauseTranscript: "Unable to provide a complete analysis: Failed to process video transcript due to API limitations.",
}

// Display renders a stage result for end users.
func Display(stage string, result models.SummaryResult) string {
	if result.IsOK() {
		return result.Text
	}
	if result.Status == models.SummaryIncomplete {
		if text, ok := incompleteText[result.Cause]; ok {
			return text
		}
		return incompleteText[models.CauseComments]
	}
	if text, ok := displayText[stage][result.Status]; ok {
		return text
	}
	return "Summary unavailable."
}
