package models

import "encoding/json"

// JSONRPCRequest represents a JSON-RPC request object read from stdin.
type JSONRPCRequest struct {
	// JSONRPC specifies the version of the JSON-RPC protocol. Incoming
	// requests are not required to carry it; responses always set "2.0".
	JSONRPC string `json:"jsonrpc,omitempty"`
	// ID is an opaque identifier established by the client. It can be a
	// string, a number, or null. The server must reply with the same ID.
	ID interface{} `json:"id"`
	// Method is the name of the method to be invoked.
	Method string `json:"method"`
	// Params holds the parameter values for the method. We use
	// json.RawMessage to defer parsing until the method is known.
	Params json.RawMessage `json:"params,omitempty"`
}

// JSONRPCError represents a JSON-RPC error object.
type JSONRPCError struct {
	// Code is a number that indicates the error type that occurred.
	Code int `json:"code"`
	// Message is a short description of the error.
	Message string `json:"message"`
}

// JSONRPCResponse represents a JSON-RPC response object written to stdout.
type JSONRPCResponse struct {
	JSONRPC string `json:"jsonrpc"`
	// ID echoes the identifier of the request this responds to. When the
	// request carried no id, this serializes as null.
	ID interface{} `json:"id"`
	// Result contains the result of the method invocation on success.
	Result interface{} `json:"result,omitempty"`
	// Error contains an error object if the invocation failed at the
	// protocol level. Must not coexist with Result.
	Error *JSONRPCError `json:"error,omitempty"`
}
