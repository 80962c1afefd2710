package internal

import (
	"errors"
	"fmt"
	"time"
)

// ErrorKind classifies failures so HTTP handlers and CLI commands can map
// them to the right status codes and messages.
type ErrorKind int

const (
	ErrUnknown ErrorKind = iota
	ErrEmptyInput
	ErrNoCaptions
	ErrRateLimited
	ErrTimeout
	ErrTransport
	ErrUpstreamUnavailable
	ErrUpstreamError
)

// String returns a human-readable representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrEmptyInput:
		return "empty input"
	case ErrNoCaptions:
		return "no captions available"
	case ErrRateLimited:
		return "rate limited by YouTube"
	case ErrTimeout:
		return "request timed out"
	case ErrTransport:
		return "transport error"
	case ErrUpstreamUnavailable:
		return "AI service unavailable"
	case ErrUpstreamError:
		return "AI service error"
	default:
		return "unknown error"
	}
}

// QAError carries an ErrorKind alongside a human-readable detail message
type QAError struct {
	Kind   ErrorKind
	Detail string
}

func (e *QAError) Error() string {
	if e.Detail == "" {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// NewQAError creates a QAError with a formatted detail message
func NewQAError(kind ErrorKind, format string, args ...any) *QAError {
	return &QAError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// KindOf extracts the ErrorKind from an error chain, ErrUnknown if none
func KindOf(err error) ErrorKind {
	var qaErr *QAError
	if errors.As(err, &qaErr) {
		return qaErr.Kind
	}
	return ErrUnknown
}

// Exchange is a single question/answer pair in a conversation
type Exchange struct {
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Timestamp time.Time `json:"timestamp"`
}

// AutoQARequest is the request body for /api/qa/auto where captions are
// fetched from YouTube on behalf of the caller.
type AutoQARequest struct {
	VideoID      string `json:"video_id"`
	Question     string `json:"question"`
	SessionID    string `json:"session_id"`
	ClearHistory bool   `json:"clear_history"`
}

// QARequest is the request body for /api/qa where the caller supplies
// the transcript themselves.
type QARequest struct {
	VideoID      string `json:"video_id"`
	Transcript   string `json:"transcript"`
	Question     string `json:"question"`
	SessionID    string `json:"session_id"`
	ClearHistory bool   `json:"clear_history"`
}

// QAResponse is the response body for both Q&A endpoints
type QAResponse struct {
	Success            bool   `json:"success"`
	Answer             string `json:"answer,omitempty"`
	Error              string `json:"error,omitempty"`
	VideoID            string `json:"video_id"`
	TranscriptFetched  bool   `json:"transcript_fetched"`
	SessionID          string `json:"session_id,omitempty"`
	ConversationLength int    `json:"conversation_length"`
}

// HistoryResponse is the response body for GET /api/conversation/history
type HistoryResponse struct {
	VideoID   string     `json:"video_id"`
	SessionID string     `json:"session_id"`
	History   []Exchange `json:"history"`
	Count     int        `json:"count"`
}

// HealthResponse is the response body for / and /health
type HealthResponse struct {
	Status          string   `json:"status"`
	Message         string   `json:"message"`
	AIConfigured    bool     `json:"ai_configured"`
	MissingSettings []string `json:"missing_settings,omitempty"`
}
