package server

import (
	"encoding/json"
	"fmt"

	"github.com/ansibridge/ansibridge/pkg/registry"
)

// RequestType identifies an inbound request.
type RequestType string

const (
	RequestListTools RequestType = "listTools"
	RequestCallTool  RequestType = "callTool"
)

// Validate checks that the request type is known.
func (t RequestType) Validate() error {
	switch t {
	case RequestListTools, RequestCallTool:
		return nil
	default:
		return fmt.Errorf("unknown request type: %s", t)
	}
}

// Request is one inbound line of the protocol stream.
type Request struct {
	RequestID  string          `json:"requestId"`
	Type       RequestType     `json:"type"`
	Name       string          `json:"name,omitempty"`
	Parameters json.RawMessage `json:"parameters,omitempty"`
}

// Outbound message type tags.
const (
	MessageServerInfo    = "serverInfo"
	MessageInfo          = "info"
	MessageListTools     = "listToolsResponse"
	MessageCallTool      = "callToolResponse"
	MessageCallToolError = "callToolError"
	MessageError         = "error"
)

// ServerInfo announces the server once at startup.
type ServerInfo struct {
	Type         string   `json:"type"`
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Dependencies []string `json:"dependencies"`
}

// InfoMessage is an out-of-band progress message emitted during a call.
type InfoMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Message   string `json:"message"`
}

// ListToolsResponse answers a listTools request.
type ListToolsResponse struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId"`
	Tools     []registry.Tool `json:"tools"`
}

// CallToolResponse is the terminal response of a successful call.
type CallToolResponse struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Result    any    `json:"result"`
}

// CallToolError is the terminal response of a failed dispatch.
type CallToolError struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Error     string `json:"error"`
}

// ErrorResponse reports a request the server could not route.
type ErrorResponse struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId"`
	Error     string `json:"error"`
}
