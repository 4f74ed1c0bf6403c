// Package control exposes the engine operations and the event stream over
// WebSocket.
package control

import (
	"encoding/json"
	"errors"

	"github.com/frudas24/inputtap/internal/input"
)

// Wire error codes.
const (
	CodeInvalidArguments = "INVALID_ARGUMENTS"
	CodeInvalidEventType = "INVALID_EVENT_TYPE"
	CodeInvalidInputType = "INVALID_INPUT_TYPE"
	CodeUnknownMethod    = "UNKNOWN_METHOD"
	CodeInternal         = "INTERNAL"
)

// Request is a control websocket call.
type Request struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Method string          `json:"method"`
	Args   json.RawMessage `json:"args,omitempty"`
}

// Response answers one Request. A failure sets Error, a value-returning call
// sets Result and a void call that succeeded sets neither.
type Response struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result any             `json:"result,omitempty"`
	Error  *Error          `json:"error,omitempty"`
}

// Error is the wire form of a failed call.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SetBlockedArgs is the setInputBlocked payload.
type SetBlockedArgs struct {
	Blocked *bool    `json:"blocked"`
	Types   []string `json:"types,omitempty"`
}

// TypesArgs is the isPermissionGranted payload.
type TypesArgs struct {
	Types []string `json:"types,omitempty"`
}

// errorCode maps the input error taxonomy to wire codes.
func errorCode(err error) string {
	switch {
	case errors.Is(err, input.ErrInvalidEventKind):
		return CodeInvalidEventType
	case errors.Is(err, input.ErrInvalidCategory):
		return CodeInvalidInputType
	case errors.Is(err, input.ErrInvalidArguments):
		return CodeInvalidArguments
	default:
		return CodeInternal
	}
}

// failure builds an error response for id.
func failure(id json.RawMessage, code, message string) Response {
	return Response{ID: id, Error: &Error{Code: code, Message: message}}
}
