package errors

import (
	"fmt"

	"peer-review-server/internal/models"
)

// JSON-RPC error codes (as per JSON-RPC 2.0 Specification)
const (
	CodeParseError     = -32700 // Invalid JSON was received by the server.
	CodeInvalidRequest = -32600 // The JSON sent is not a valid Request object.
	CodeMethodNotFound = -32601 // The method does not exist / is not available.
	CodeInvalidParams  = -32602 // Invalid method parameter(s).
	CodeInternalError  = -32603 // Internal JSON-RPC error.
)

// NewMethodNotFoundError builds the error object for an unrecognized method.
func NewMethodNotFoundError() *models.JSONRPCError {
	return &models.JSONRPCError{
		Code:    CodeMethodNotFound,
		Message: "Method not found",
	}
}

// NewUnknownToolError builds the error object for a call_tool request naming
// a tool this server does not expose. The same -32601 code is used because
// the tool namespace is part of the method surface.
func NewUnknownToolError(name string) *models.JSONRPCError {
	return &models.JSONRPCError{
		Code:    CodeMethodNotFound,
		Message: fmt.Sprintf("Unknown tool: %s", name),
	}
}

// NewInternalError builds the error object for the fatal-exit path. The
// detail is included verbatim so the host can log the cause.
func NewInternalError(detail string) *models.JSONRPCError {
	return &models.JSONRPCError{
		Code:    CodeInternalError,
		Message: fmt.Sprintf("Internal server error: %s", detail),
	}
}
