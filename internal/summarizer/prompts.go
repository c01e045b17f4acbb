package summarizer

import "fmt"

const (
	TRANSCRIPT_PROMPT = "Provide a detailed summary of the given youtube video transcript."
	COMMENTS_PROMPT   = "Summarize the following comments while keeping the detailed context."
)

func finalPrompt(transcriptSummary string) string {
	return fmt.Sprintf("This is the summary of a YouTube video's transcript: %s. "+
		"Viewers have commented on the video and their comments have been summarized. "+
		"Your task is to analyze these comments in the context of the video transcript. "+
		"Based on the comment content and its relation to the transcript, please provide detailed insights, addressing these key points:\n"+
		"1. Identify positive aspects of the video that the comments highlight and link these to specific parts of the transcript where possible.\n"+
		"2. Identify any criticisms or areas for improvement mentioned in the comments, and relate these to relevant sections of the transcript.\n"+
		"3. Based on the feedback or suggestions in the comments, recommend new content ideas or topics for future videos that align with the viewers' interests "+
		"but don't make up things that the comments do not say. "+
		"Ensure your analysis is clear and includes specific examples from both the comments and the transcript to support your insights.",
		transcriptSummary)
}
