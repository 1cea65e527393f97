// Package review obtains peer-review feedback for a question/answer pair
// from the Google Gemini generateContent endpoint.
package review

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"peer-review-server/internal/config"
	"peer-review-server/internal/feedback"
	"peer-review-server/internal/models"
)

// ReviewerName is the constant label attached to every ReviewResult.
const ReviewerName = "Google Gemini"

const reviewPromptTemplate = `PEER REVIEW REQUEST:

Original Question: "%s"

Initial AI Response: "%s"

Please provide constructive peer review feedback in the following format:

ACCURACY ASSESSMENT:
[Evaluate factual correctness and identify any errors]

COMPLETENESS:
[Identify important points or perspectives that are missing]

CLARITY:
[Suggest ways to improve explanation clarity and structure]

IMPROVEMENT SUGGESTIONS:
[Provide specific, actionable suggestions for enhancement]

OVERALL RATING:
[Provide a brief overall assessment: Excellent/Good/Needs Improvement/Poor]

Be constructive, specific, and helpful in your feedback.`

// logExcerptLimit caps how much of the answer is echoed into the log when
// dispatching an upstream request.
const logExcerptLimit = 200

// Service is the interface the tool handler depends on. Failures are plain
// errors: they are destined to become tool-level error payloads, never
// JSON-RPC protocol errors.
type Service interface {
	Review(question, answer string) (*models.ReviewResult, error)
}

// Wire types for the generateContent REST call.

type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []generateCandidate `json:"candidates"`
}

type generateCandidate struct {
	Content *generateContent `json:"content"`
}

// GeminiClient implements Service against the Gemini REST API.
type GeminiClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewGeminiClient creates a GeminiClient from the process configuration.
// A missing credential is not an error here: it is reported per invocation
// so the server can still start and list its tool.
func NewGeminiClient(cfg *config.Config) *GeminiClient {
	return &GeminiClient{
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second,
		},
	}
}

// Review issues exactly one synchronous generateContent call and returns the
// structured result. No retry, no backoff: a single attempt, success or
// failure.
func (c *GeminiClient) Review(question, answer string) (*models.ReviewResult, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable is required")
	}

	prompt := fmt.Sprintf(reviewPromptTemplate, question, answer)
	log.Printf("Sending request to Gemini: question=%q answerExcerpt=%q promptLength=%d",
		question, excerpt(answer), len(prompt))

	body, err := json.Marshal(generateRequest{
		Contents: []generateContent{{Parts: []generatePart{{Text: prompt}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("Failed to get Gemini review: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("Failed to get Gemini review: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("Error calling Gemini API: %v", err)
		return nil, fmt.Errorf("Failed to get Gemini review: %v", err)
	}
	defer resp.Body.Close()

	log.Printf("Gemini API response status: %d %s", resp.StatusCode, resp.Status)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Failed to get Gemini review: unexpected status %s", resp.Status)
	}

	var data generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("Failed to get Gemini review: %v", err)
	}

	text, ok := firstCandidateText(data)
	if !ok {
		return nil, fmt.Errorf("Invalid response from Gemini API")
	}
	log.Printf("Gemini review text received: %d bytes", len(text))

	sections := feedback.Parse(text)
	return &models.ReviewResult{
		FeedbackSections: sections,
		RawFeedback:      text,
		Reviewer:         ReviewerName,
		Timestamp:        time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// firstCandidateText extracts the first candidate's first text part. Only
// the first candidate is ever used.
func firstCandidateText(data generateResponse) (string, bool) {
	if len(data.Candidates) == 0 {
		return "", false
	}
	content := data.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return "", false
	}
	return content.Parts[0].Text, true
}

func excerpt(s string) string {
	if len(s) <= logExcerptLimit {
		return s
	}
	return s[:logExcerptLimit] + "..."
}
