package protocol

import (
	"encoding/json"
	"strings"
)

// ServerMessageType enumerates the recognized inbound frame types.
type ServerMessageType string

const (
	ServerPing         ServerMessageType = "PING"
	ServerAuthSuccess  ServerMessageType = "AUTH_SUCCESS"
	ServerAuthFailure  ServerMessageType = "AUTH_FAILURE"
	ServerError        ServerMessageType = "ERROR"
	ServerActionResult ServerMessageType = "ACTION_RESULT"
)

// ExecutionStatus is the outcome of a dispatched action.
type ExecutionStatus string

const (
	StatusSuccess ExecutionStatus = "success"
	StatusError   ExecutionStatus = "error"
)

// ExecutionResult is the normalized form of an inbound ACTION_RESULT payload.
type ExecutionResult struct {
	ID            string          `json:"id"`
	Status        ExecutionStatus `json:"status"`
	ExecutionTime float64         `json:"executionTime"`
	Error         string          `json:"error,omitempty"`
}

// ErrorPayload is delivered to the caller through the OnError observer
// callback.
type ErrorPayload struct {
	Code    string
	Message string
}

// ServerMessage is the parsed result of one inbound text frame, produced by
// Decode. At most one of the typed fields below is set, matching Type: Error
// or AuthFailure for ERROR, ActionResult for ACTION_RESULT, none for PING,
// AUTH_SUCCESS and AUTH_FAILURE. Raw always carries the frame as received.
type ServerMessage struct {
	Type ServerMessageType

	Error         *ErrorPayload
	AuthFailure   bool // routed separately when an ERROR code classifies as auth-like
	ActionResult  *ExecutionResult
	Raw           string
}

// envelope mirrors the self-describing map shape every inbound frame has:
// a string "type" plus an optional top-level/payload code and message.
type envelope struct {
	Type    string          `json:"type"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Payload json.RawMessage `json:"payload"`
}

type errorPayloadBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type actionResultBody struct {
	ID            *string  `json:"id"`
	Status        *string  `json:"status"`
	ExecutionTime *float64 `json:"executionTime"`
	Error         string   `json:"error"`
}

// InvalidServerMessageError marks a frame that could not be decoded into any
// recognized shape; callers surface it as INVALID_SERVER_MESSAGE.
type InvalidServerMessageError struct{ Reason string }

func (e *InvalidServerMessageError) Error() string { return e.Reason }

// Decode parses a single inbound text frame. On any deviation from the
// recognized shapes it returns an *InvalidServerMessageError; the raw frame
// is preserved by the caller for diagnostic logging.
func Decode(frame string) (*ServerMessage, error) {
	var env envelope
	if err := json.Unmarshal([]byte(frame), &env); err != nil {
		return nil, &InvalidServerMessageError{Reason: "malformed JSON: " + err.Error()}
	}
	if env.Type == "" {
		return nil, &InvalidServerMessageError{Reason: "missing type field"}
	}

	msg := &ServerMessage{Type: ServerMessageType(env.Type), Raw: frame}

	switch msg.Type {
	case ServerPing, ServerAuthSuccess, ServerAuthFailure:
		return msg, nil
	case ServerError:
		code := resolveErrorCode(env)
		if isAuthLike(code) {
			msg.AuthFailure = true
			return msg, nil
		}
		msg.Error = mapErrorCode(code)
		return msg, nil
	case ServerActionResult:
		var body actionResultBody
		if len(env.Payload) > 0 {
			if err := json.Unmarshal(env.Payload, &body); err != nil {
				return nil, &InvalidServerMessageError{Reason: "malformed ACTION_RESULT payload: " + err.Error()}
			}
		}
		if body.ID == nil || *body.ID == "" || body.Status == nil || body.ExecutionTime == nil {
			return nil, &InvalidServerMessageError{Reason: "ACTION_RESULT missing required fields"}
		}
		status := ExecutionStatus(*body.Status)
		if status != StatusSuccess && status != StatusError {
			return nil, &InvalidServerMessageError{Reason: "ACTION_RESULT has unrecognized status"}
		}
		msg.ActionResult = &ExecutionResult{
			ID:            *body.ID,
			Status:        status,
			ExecutionTime: *body.ExecutionTime,
			Error:         body.Error,
		}
		return msg, nil
	default:
		return nil, &InvalidServerMessageError{Reason: "unrecognized type: " + env.Type}
	}
}

// resolveErrorCode implements the priority order: payload.code, top-level
// code, payload.message, top-level message, empty.
func resolveErrorCode(env envelope) string {
	var body errorPayloadBody
	if len(env.Payload) > 0 {
		_ = json.Unmarshal(env.Payload, &body)
	}
	switch {
	case body.Code != "":
		return body.Code
	case env.Code != "":
		return env.Code
	case body.Message != "":
		return body.Message
	case env.Message != "":
		return env.Message
	default:
		return ""
	}
}

func isAuthLike(code string) bool {
	lower := strings.ToLower(code)
	return strings.Contains(lower, "auth") ||
		strings.Contains(lower, "unauthorized") ||
		strings.Contains(lower, "not authorized")
}

// knownErrorCodes maps a normalized server error code to the caller-facing
// message. Anything absent falls back to UNKNOWN_SERVER_ERROR.
var knownErrorCodes = map[string]string{
	"MAX_STEPS_EXCEEDED":         "Too many steps in a single action.",
	"MAX_TEXT_LENGTH_EXCEEDED":   "Text step exceeds the maximum length.",
	"COMMAND_EXECUTION_DISABLED": "Terminal commands are disabled on the desktop.",
	"DEVICE_NOT_AUTHORIZED":      "This device is not authorized.",
}

func mapErrorCode(rawCode string) *ErrorPayload {
	normalized := strings.ToUpper(strings.TrimSpace(rawCode))
	if message, ok := knownErrorCodes[normalized]; ok {
		return &ErrorPayload{Code: normalized, Message: message}
	}
	return &ErrorPayload{Code: "UNKNOWN_SERVER_ERROR", Message: "Unexpected desktop error."}
}

// --- Outbound envelopes ---

type authPayload struct {
	ClientID        string `json:"clientId"`
	DeviceID        string `json:"deviceId"`
	ProtocolVersion string `json:"protocolVersion"`
}

type authFrame struct {
	Type    string      `json:"type"`
	Payload authPayload `json:"payload"`
}

// ProtocolVersion is sent verbatim on every AUTH frame.
const ProtocolVersion = "1.0"

// EncodeAuth serializes the AUTH envelope.
func EncodeAuth(clientID, deviceID string) (string, error) {
	frame := authFrame{
		Type: "AUTH",
		Payload: authPayload{
			ClientID:        clientID,
			DeviceID:        deviceID,
			ProtocolVersion: ProtocolVersion,
		},
	}
	b, err := json.Marshal(frame)
	return string(b), err
}

type executeActionPayload struct {
	ID    string `json:"id"`
	Steps []Step `json:"steps"`
}

type executeActionFrame struct {
	Type      string               `json:"type"`
	Timestamp int64                `json:"timestamp"`
	Payload   executeActionPayload `json:"payload"`
}

// EncodeExecuteAction serializes the EXECUTE_ACTION envelope.
func EncodeExecuteAction(action Action, timestampMs int64) (string, error) {
	frame := executeActionFrame{
		Type:      "EXECUTE_ACTION",
		Timestamp: timestampMs,
		Payload:   executeActionPayload{ID: action.ID, Steps: action.Steps},
	}
	b, err := json.Marshal(frame)
	return string(b), err
}

type pongFrame struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// EncodePong serializes the PONG envelope sent in reply to every PING.
func EncodePong(timestampMs int64) (string, error) {
	b, err := json.Marshal(pongFrame{Type: "PONG", Timestamp: timestampMs})
	return string(b), err
}
