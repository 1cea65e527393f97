// Package transport runs the newline-delimited JSON-RPC loop over standard
// input and output. Protocol output owns stdout exclusively; all logging
// goes through the log package's side channel.
package transport

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"

	"peer-review-server/internal/errors"
	"peer-review-server/internal/models"
)

// maxLineBytes bounds a single request line. Answers under review can be
// large, so this is well above bufio's default.
const maxLineBytes = 4 * 1024 * 1024

// RequestProcessor handles one parsed request and returns either a result
// payload or a protocol-level error.
type RequestProcessor interface {
	ProcessRequest(req models.JSONRPCRequest) (interface{}, *models.JSONRPCError)
}

// StdioHandler reads one request object per line from input and writes
// exactly one response line per well-formed request to output.
type StdioHandler struct {
	processor RequestProcessor
}

// NewStdioHandler creates a new StdioHandler.
func NewStdioHandler(processor RequestProcessor) *StdioHandler {
	return &StdioHandler{processor: processor}
}

// Start runs the loop until end-of-stream or the single fatal-exit path.
// Malformed lines are logged and skipped without a response. A panic while
// handling a request is caught once: it is logged, answered with -32603 and
// the request's id, and then the loop terminates for good.
func (h *StdioHandler) Start(input io.Reader, output io.Writer) error {
	log.Print("Starting stdio JSON-RPC handler")

	writer := bufio.NewWriter(output)
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())

		req, ok := parseRequestLine(line)
		if !ok {
			log.Printf("Failed to decode JSON from stdin: %q", string(line))
			continue
		}
		log.Printf("Received request: method=%q id=%v", req.Method, req.ID)

		resp, fatal := h.dispatch(req)
		if err := writeResponse(writer, resp); err != nil {
			log.Printf("Error writing response to output: %v", err)
			return err
		}
		if fatal != nil {
			return fatal
		}
	}

	if err := scanner.Err(); err != nil {
		log.Printf("Error reading from stdin: %v", err)
		return err
	}
	log.Print("Stdio JSON-RPC handler finished")
	return nil
}

// parseRequestLine accepts only a JSON object. Anything else (including
// bare null, which json.Unmarshal would silently accept into a struct) is a
// malformed line.
func parseRequestLine(line []byte) (models.JSONRPCRequest, bool) {
	if len(line) == 0 || line[0] != '{' {
		return models.JSONRPCRequest{}, false
	}
	var req models.JSONRPCRequest
	if err := json.Unmarshal(line, &req); err != nil {
		return models.JSONRPCRequest{}, false
	}
	return req, true
}

// dispatch hands the request to the processor with the loop's single
// catch-all in place. A recovered panic becomes the -32603 response and a
// non-nil fatal error.
func (h *StdioHandler) dispatch(req models.JSONRPCRequest) (resp models.JSONRPCResponse, fatal error) {
	resp = models.JSONRPCResponse{JSONRPC: "2.0", ID: req.ID}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("Error in main loop: %v", r)
			fatal = fmt.Errorf("panic handling request: %v", r)
			resp.Result = nil
			resp.Error = errors.NewInternalError(fmt.Sprintf("%v", r))
		}
	}()

	result, rpcErr := h.processor.ProcessRequest(req)
	if rpcErr != nil {
		resp.Error = rpcErr
	} else {
		resp.Result = result
	}
	return resp, nil
}

// writeResponse serializes the response as a single line and flushes it, so
// the invoking process can read it without buffering delay.
func writeResponse(writer *bufio.Writer, resp models.JSONRPCResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		// Responses are built from marshalable types; treat this as the
		// write failure it effectively is.
		return fmt.Errorf("marshaling response: %w", err)
	}
	log.Printf("Sending response: id=%v bytes=%d", resp.ID, len(data))
	if _, err := writer.Write(data); err != nil {
		return err
	}
	if err := writer.WriteByte('\n'); err != nil {
		return err
	}
	return writer.Flush()
}
