package models

// SummaryStatus tags the outcome of one LLM-backed summarization stage.
type SummaryStatus int

const (
	SummaryOK SummaryStatus = iota
	SummaryQuotaExceeded
	SummaryUnavailable
	SummaryFailed
	// SummaryIncomplete is only produced by the synthesizer when an upstream stage failed.
	SummaryIncomplete
	// SummaryNoComments is only produced by the synthesizer when there was nothing to analyze.
	SummaryNoComments
)

func (s SummaryStatus) String() string {
	switch s {
	case SummaryOK:
		return "ok"
	case SummaryQuotaExceeded:
		return "quota_exceeded"
	case SummaryUnavailable:
		return "unavailable"
	case SummaryFailed:
		return "failed"
	case SummaryIncomplete:
		return "incomplete"
	case SummaryNoComments:
		return "no_comments"
	default:
		return "unknown"
	}
}

// FailureCause names the upstream stage that made a synthesis incomplete.
type FailureCause string

const (
	CauseComments   FailureCause = "comments"
	CauseTranscript FailureCause = "transcript"
)

// SummaryResult is passed between stages instead of sentinel strings. Text is only
// meaningful when Status is SummaryOK.
type SummaryResult struct {
	Status SummaryStatus
	Text   string
	Cause  FailureCause
}

func SummaryText(text string) SummaryResult {
	return SummaryResult{Status: SummaryOK, Text: text}
}

func SummaryQuota() SummaryResult {
	return SummaryResult{Status: SummaryQuotaExceeded}
}

func SummaryNotConfigured() SummaryResult {
	return SummaryResult{Status: SummaryUnavailable}
}

func SummaryFailure() SummaryResult {
	return SummaryResult{Status: SummaryFailed}
}

func SummaryIncompleteFrom(cause FailureCause) SummaryResult {
	return SummaryResult{Status: SummaryIncomplete, Cause: cause}
}

func SummaryEmpty() SummaryResult {
	return SummaryResult{Status: SummaryNoComments}
}

func (r SummaryResult) IsOK() bool {
	return r.Status == SummaryOK
}

func (r SummaryResult) IsQuotaExceeded() bool {
	return r.Status == SummaryQuotaExceeded
}

func (r SummaryResult) IsFailure() bool {
	return r.Status != SummaryOK
}

// CommentBatch is an ordered, non-empty group of comments summarized in one request.
type CommentBatch []string
