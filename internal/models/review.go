package models

// FeedbackSections holds the five labeled regions extracted from the raw
// reviewer text. Every key is always present in the serialized output, even
// when extraction found no matching section (the value is then empty).
type FeedbackSections struct {
	AccuracyAssessment     string `json:"accuracy_assessment"`
	Completeness           string `json:"completeness"`
	Clarity                string `json:"clarity"`
	ImprovementSuggestions string `json:"improvement_suggestions"`
	OverallRating          string `json:"overall_rating"`
}

// ReviewResult is the complete outcome of one peer review. Created once per
// successful invocation and never mutated afterwards.
type ReviewResult struct {
	FeedbackSections
	// RawFeedback is the full reviewer text, untouched.
	RawFeedback string `json:"raw_feedback"`
	// Reviewer labels the upstream model that produced the feedback.
	Reviewer string `json:"reviewer"`
	// Timestamp is the ISO-8601 UTC instant at which parsing completed.
	Timestamp string `json:"timestamp"`
}

// ToolCallResult wraps a ReviewResult for delivery to the calling agent.
type ToolCallResult struct {
	PeerReviewFeedback ReviewResult `json:"peer_review_feedback"`
	UsageNote          string       `json:"usage_note"`
}

// ToolErrorPayload is the error-shaped document returned as tool-level data
// when an invocation fails. It is carried inside a successful JSON-RPC
// response so the calling agent can always parse result.content[0].text.
type ToolErrorPayload struct {
	Error      string `json:"error"`
	Suggestion string `json:"suggestion"`
}
