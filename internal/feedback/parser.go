// Package feedback extracts the five labeled sections from raw peer-review
// text. Parsing is pure and total: it never fails, and unmatched sections
// default to the empty string.
package feedback

import (
	"regexp"
	"strings"

	"peer-review-server/internal/models"
)

// SectionLabels are the fixed headers the reviewer is instructed to emit,
// in canonical order. Content boundaries are always defined relative to the
// next label in this order, not the next label actually present in the text.
var SectionLabels = []string{
	"ACCURACY ASSESSMENT",
	"COMPLETENESS",
	"CLARITY",
	"IMPROVEMENT SUGGESTIONS",
	"OVERALL RATING",
}

var labelPatterns = compileLabelPatterns()

func compileLabelPatterns() []*regexp.Regexp {
	patterns := make([]*regexp.Regexp, len(SectionLabels))
	for i, label := range SectionLabels {
		patterns[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(label) + `:`)
	}
	return patterns
}

// Parse splits raw reviewer text into FeedbackSections. Each label is
// located independently with a case-insensitive search, and its content runs
// up to the first occurrence of the next canonical label after it, or to the
// end of the text for the last label. If the reviewer omits a header, the
// following section's text is absorbed into its neighbor up to whichever
// canonical header is found next. That imprecision is accepted; upstream
// text with missing or reordered headers has no well-defined split.
func Parse(raw string) models.FeedbackSections {
	return models.FeedbackSections{
		AccuracyAssessment:     extractSection(raw, 0),
		Completeness:           extractSection(raw, 1),
		Clarity:                extractSection(raw, 2),
		ImprovementSuggestions: extractSection(raw, 3),
		OverallRating:          extractSection(raw, 4),
	}
}

// extractSection captures the trimmed span between label i and the next
// canonical label, returning "" when label i does not occur at all.
func extractSection(raw string, i int) string {
	loc := labelPatterns[i].FindStringIndex(raw)
	if loc == nil {
		return ""
	}
	start := loc[1]
	end := len(raw)
	if i+1 < len(labelPatterns) {
		if next := labelPatterns[i+1].FindStringIndex(raw[start:]); next != nil {
			end = start + next[0]
		}
	}
	return strings.TrimSpace(raw[start:end])
}
