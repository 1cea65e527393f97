package models

// MCPToolContent is one content part of a tool invocation result.
type MCPToolContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// MCPToolResult is the payload returned for a call_tool request. Tool-level
// failures set IsError; the field is omitted entirely on success, so its
// absence means false.
type MCPToolResult struct {
	Content []MCPToolContent `json:"content"`
	IsError bool             `json:"isError,omitempty"`
}

// Schema is a JSON-Schema-like object, kept as a map for flexibility.
type Schema map[string]interface{}

// ToolDescriptor describes a single tool available through the server.
// Constructed once and never mutated.
type ToolDescriptor struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema Schema `json:"inputSchema"`
}

// ToolsListResult is the result payload for a list_tools request.
type ToolsListResult struct {
	Tools []ToolDescriptor `json:"tools"`
}
