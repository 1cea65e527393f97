package mcp

import (
	"encoding/json"
	"fmt"
	"testing"

	"peer-review-server/internal/feedback"
	"peer-review-server/internal/models"
)

// mockReviewService is a function-field mock of review.Service.
type mockReviewService struct {
	ReviewFunc func(question, answer string) (*models.ReviewResult, error)
}

func (m *mockReviewService) Review(question, answer string) (*models.ReviewResult, error) {
	if m.ReviewFunc != nil {
		return m.ReviewFunc(question, answer)
	}
	return nil, fmt.Errorf("ReviewFunc not set")
}

func callToolRequest(t *testing.T, name string, arguments interface{}) models.JSONRPCRequest {
	t.Helper()
	params, err := json.Marshal(map[string]interface{}{
		"name":      name,
		"arguments": arguments,
	})
	if err != nil {
		t.Fatalf("marshaling params: %v", err)
	}
	return models.JSONRPCRequest{ID: 1, Method: "call_tool", Params: params}
}

func toolResult(t *testing.T, result interface{}) *models.MCPToolResult {
	t.Helper()
	toolRes, ok := result.(*models.MCPToolResult)
	if !ok {
		t.Fatalf("result is not *models.MCPToolResult: %T", result)
	}
	if len(toolRes.Content) != 1 || toolRes.Content[0].Type != "text" {
		t.Fatalf("unexpected content structure: %+v", toolRes.Content)
	}
	return toolRes
}

func TestProcessor_ListTools(t *testing.T) {
	p := NewProcessor(&mockReviewService{})

	result, rpcErr := p.ProcessRequest(models.JSONRPCRequest{ID: "1", Method: "list_tools"})
	if rpcErr != nil {
		t.Fatalf("unexpected protocol error: %+v", rpcErr)
	}

	listResult, ok := result.(models.ToolsListResult)
	if !ok {
		t.Fatalf("result is not ToolsListResult: %T", result)
	}
	if len(listResult.Tools) != 1 {
		t.Fatalf("expected exactly one tool, got %d", len(listResult.Tools))
	}

	tool := listResult.Tools[0]
	if tool.Name != ToolName {
		t.Errorf("expected tool name %q, got %q", ToolName, tool.Name)
	}
	if tool.Description == "" {
		t.Error("tool description must not be empty")
	}
	required, ok := tool.InputSchema["required"].([]string)
	if !ok {
		t.Fatalf("input schema has no required list: %+v", tool.InputSchema)
	}
	if len(required) != 2 || required[0] != "user_question" || required[1] != "my_answer" {
		t.Errorf("expected required [user_question my_answer], got %v", required)
	}
}

func TestProcessor_ListTools_StaticDescriptor(t *testing.T) {
	p := NewProcessor(&mockReviewService{})

	first, _ := p.ProcessRequest(models.JSONRPCRequest{Method: "list_tools"})
	second, _ := p.ProcessRequest(models.JSONRPCRequest{Method: "list_tools"})

	a, _ := json.Marshal(first)
	b, _ := json.Marshal(second)
	if string(a) != string(b) {
		t.Errorf("descriptor must be identical on every call:\n%s\n%s", a, b)
	}
}

func TestProcessor_UnknownMethod(t *testing.T) {
	p := NewProcessor(&mockReviewService{})

	result, rpcErr := p.ProcessRequest(models.JSONRPCRequest{ID: 7, Method: "initialize"})
	if result != nil {
		t.Errorf("expected nil result for unknown method, got %+v", result)
	}
	if rpcErr == nil {
		t.Fatal("expected protocol error for unknown method")
	}
	if rpcErr.Code != -32601 {
		t.Errorf("expected code -32601, got %d", rpcErr.Code)
	}
	if rpcErr.Message != "Method not found" {
		t.Errorf("expected message 'Method not found', got %q", rpcErr.Message)
	}
}

func TestProcessor_UnknownTool(t *testing.T) {
	p := NewProcessor(&mockReviewService{})

	req := callToolRequest(t, "grammar_check", map[string]string{})
	result, rpcErr := p.ProcessRequest(req)
	if result != nil {
		t.Errorf("expected nil result for unknown tool, got %+v", result)
	}
	if rpcErr == nil {
		t.Fatal("expected protocol error for unknown tool")
	}
	if rpcErr.Code != -32601 {
		t.Errorf("expected code -32601, got %d", rpcErr.Code)
	}
	if rpcErr.Message != "Unknown tool: grammar_check" {
		t.Errorf("unexpected message %q", rpcErr.Message)
	}
}

func TestProcessor_CallTool_MissingAnswer(t *testing.T) {
	p := NewProcessor(&mockReviewService{
		ReviewFunc: func(q, a string) (*models.ReviewResult, error) {
			t.Error("review service must not be called for invalid arguments")
			return nil, nil
		},
	})

	req := callToolRequest(t, ToolName, map[string]string{"user_question": "why?"})
	result, rpcErr := p.ProcessRequest(req)
	if rpcErr != nil {
		t.Fatalf("validation failures must not be protocol errors, got %+v", rpcErr)
	}

	toolRes := toolResult(t, result)
	if !toolRes.IsError {
		t.Error("expected isError on the tool result")
	}

	var payload models.ToolErrorPayload
	if err := json.Unmarshal([]byte(toolRes.Content[0].Text), &payload); err != nil {
		t.Fatalf("tool error text is not valid JSON: %v", err)
	}
	if payload.Error == "" {
		t.Error("expected non-empty error key in payload")
	}
	if payload.Suggestion == "" {
		t.Error("expected non-empty suggestion key in payload")
	}
}

func TestProcessor_CallTool_EmptyAndNullArgumentsRejected(t *testing.T) {
	tests := []struct {
		name string
		args interface{}
	}{
		{"empty strings", map[string]string{"user_question": "", "my_answer": ""}},
		{"null values", map[string]interface{}{"user_question": nil, "my_answer": nil}},
		{"no arguments", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewProcessor(&mockReviewService{})
			result, rpcErr := p.ProcessRequest(callToolRequest(t, ToolName, tt.args))
			if rpcErr != nil {
				t.Fatalf("unexpected protocol error: %+v", rpcErr)
			}
			if !toolResult(t, result).IsError {
				t.Error("expected isError for rejected arguments")
			}
		})
	}
}

func TestProcessor_CallTool_Success(t *testing.T) {
	stubText := "ACCURACY ASSESSMENT:\nAccurate.\n\nCOMPLETENESS:\nComplete.\n\nCLARITY:\nClear.\n\nIMPROVEMENT SUGGESTIONS:\nShorten it.\n\nOVERALL RATING:\nGood"
	p := NewProcessor(&mockReviewService{
		ReviewFunc: func(q, a string) (*models.ReviewResult, error) {
			if q != "why?" || a != "because" {
				t.Errorf("unexpected arguments: %q %q", q, a)
			}
			return &models.ReviewResult{
				FeedbackSections: feedback.Parse(stubText),
				RawFeedback:      stubText,
				Reviewer:         "Google Gemini",
				Timestamp:        "2026-01-02T03:04:05Z",
			}, nil
		},
	})

	req := callToolRequest(t, ToolName, map[string]string{"user_question": "why?", "my_answer": "because"})
	result, rpcErr := p.ProcessRequest(req)
	if rpcErr != nil {
		t.Fatalf("unexpected protocol error: %+v", rpcErr)
	}

	toolRes := toolResult(t, result)
	if toolRes.IsError {
		t.Fatalf("unexpected tool error: %s", toolRes.Content[0].Text)
	}

	var wrapped models.ToolCallResult
	if err := json.Unmarshal([]byte(toolRes.Content[0].Text), &wrapped); err != nil {
		t.Fatalf("result text is not valid JSON: %v", err)
	}
	fb := wrapped.PeerReviewFeedback
	if fb.RawFeedback != stubText {
		t.Errorf("raw_feedback must be verbatim, got %q", fb.RawFeedback)
	}
	if fb.AccuracyAssessment != "Accurate." || fb.OverallRating != "Good" {
		t.Errorf("unexpected parsed sections: %+v", fb.FeedbackSections)
	}
	if wrapped.UsageNote == "" {
		t.Error("expected non-empty usage_note")
	}

	// All five section keys must be present in the serialized payload.
	var asMap map[string]interface{}
	if err := json.Unmarshal([]byte(toolRes.Content[0].Text), &asMap); err != nil {
		t.Fatal(err)
	}
	inner, ok := asMap["peer_review_feedback"].(map[string]interface{})
	if !ok {
		t.Fatalf("missing peer_review_feedback object: %v", asMap)
	}
	for _, key := range []string{"accuracy_assessment", "completeness", "clarity", "improvement_suggestions", "overall_rating", "raw_feedback", "reviewer", "timestamp"} {
		if _, present := inner[key]; !present {
			t.Errorf("serialized feedback missing key %q", key)
		}
	}
}

func TestProcessor_CallTool_UpstreamFailureIsToolError(t *testing.T) {
	p := NewProcessor(&mockReviewService{
		ReviewFunc: func(q, a string) (*models.ReviewResult, error) {
			return nil, fmt.Errorf("Failed to get Gemini review: unexpected status 500 Internal Server Error")
		},
	})

	req := callToolRequest(t, ToolName, map[string]string{"user_question": "q", "my_answer": "a"})
	result, rpcErr := p.ProcessRequest(req)
	if rpcErr != nil {
		t.Fatalf("upstream failures must not be protocol errors, got %+v", rpcErr)
	}

	toolRes := toolResult(t, result)
	if !toolRes.IsError {
		t.Fatal("expected isError for upstream failure")
	}
	var payload models.ToolErrorPayload
	if err := json.Unmarshal([]byte(toolRes.Content[0].Text), &payload); err != nil {
		t.Fatal(err)
	}
	if payload.Error == "" || payload.Error[:6] != "Failed" {
		t.Errorf("expected error mentioning failed review, got %q", payload.Error)
	}
}
