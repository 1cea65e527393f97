// Package mcp dispatches parsed JSON-RPC requests to the tool surface:
// list_tools, call_tool, and the one registered tool, ai_peer_review.
package mcp

import (
	"encoding/json"
	"log"

	"peer-review-server/internal/errors"
	"peer-review-server/internal/models"
	"peer-review-server/internal/review"
)

// ToolName is the single tool this server registers.
const ToolName = "ai_peer_review"

const toolDescription = "Get peer review feedback from Google Gemini on your response to help improve accuracy and completeness"

const usageNote = "Use this feedback to identify areas for improvement in your response. Consider revising your answer to address the points raised in the peer review."

const errorSuggestion = "The peer review service encountered an error. Please check the logs."

// ToolCallParams represents the parameters for a call_tool request.
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type reviewArguments struct {
	UserQuestion string `json:"user_question"`
	MyAnswer     string `json:"my_answer"`
}

// Processor handles list_tools and call_tool requests.
type Processor struct {
	reviewer review.Service
}

// NewProcessor creates a new Processor backed by the given review service.
func NewProcessor(reviewer review.Service) *Processor {
	return &Processor{reviewer: reviewer}
}

// toolDescriptor returns the static descriptor for ai_peer_review. The
// descriptor is identical on every call.
func toolDescriptor() models.ToolDescriptor {
	return models.ToolDescriptor{
		Name:        ToolName,
		Description: toolDescription,
		InputSchema: models.Schema{
			"type": "object",
			"properties": map[string]interface{}{
				"user_question": map[string]interface{}{
					"type":        "string",
					"description": "The original question asked by the user",
				},
				"my_answer": map[string]interface{}{
					"type":        "string",
					"description": "Your initial response that needs peer review",
				},
			},
			"required": []string{"user_question", "my_answer"},
		},
	}
}

// ProcessRequest dispatches a request by method name and returns either a
// result payload or a protocol-level error, never both.
func (p *Processor) ProcessRequest(req models.JSONRPCRequest) (interface{}, *models.JSONRPCError) {
	switch req.Method {
	case "list_tools":
		return models.ToolsListResult{Tools: []models.ToolDescriptor{toolDescriptor()}}, nil
	case "call_tool":
		var params ToolCallParams
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				log.Printf("Could not parse call_tool params: %v", err)
			}
		}
		log.Printf("Tool call received: name=%q", params.Name)
		if params.Name != ToolName {
			return nil, errors.NewUnknownToolError(params.Name)
		}
		return p.handlePeerReview(params.Arguments), nil
	default:
		return nil, errors.NewMethodNotFoundError()
	}
}

// handlePeerReview runs the ai_peer_review tool. Validation and upstream
// failures never surface as protocol errors: they are converted into a
// successful envelope whose payload is an error-shaped document, so the
// calling agent can always parse result.content[0].text.
func (p *Processor) handlePeerReview(arguments json.RawMessage) *models.MCPToolResult {
	var args reviewArguments
	if len(arguments) > 0 {
		if err := json.Unmarshal(arguments, &args); err != nil {
			log.Printf("Error in ai_peer_review tool: bad arguments: %v", err)
			return errorResult("Both user_question and my_answer are required")
		}
	}
	if args.UserQuestion == "" || args.MyAnswer == "" {
		log.Print("Error in ai_peer_review tool: missing required arguments")
		return errorResult("Both user_question and my_answer are required")
	}

	log.Print("Starting peer review process")
	result, err := p.reviewer.Review(args.UserQuestion, args.MyAnswer)
	if err != nil {
		log.Printf("Error in ai_peer_review tool: %v", err)
		return errorResult(err.Error())
	}
	log.Printf("Parsed feedback: rating=%q", result.OverallRating)

	payload, err := json.MarshalIndent(models.ToolCallResult{
		PeerReviewFeedback: *result,
		UsageNote:          usageNote,
	}, "", "  ")
	if err != nil {
		log.Printf("Error in ai_peer_review tool: marshaling result: %v", err)
		return errorResult(err.Error())
	}
	log.Printf("Sending result back to host: resultSize=%d", len(payload))

	return &models.MCPToolResult{
		Content: []models.MCPToolContent{{Type: "text", Text: string(payload)}},
	}
}

// errorResult wraps a tool-level failure as data.
func errorResult(message string) *models.MCPToolResult {
	payload, err := json.MarshalIndent(models.ToolErrorPayload{
		Error:      message,
		Suggestion: errorSuggestion,
	}, "", "  ")
	if err != nil {
		// ToolErrorPayload contains only strings; this cannot happen.
		payload = []byte(`{"error": "internal marshaling failure"}`)
	}
	return &models.MCPToolResult{
		Content: []models.MCPToolContent{{Type: "text", Text: string(payload)}},
		IsError: true,
	}
}
