package services

import (
	"errors"
	"fmt"
)

// DefaultUpstreamMessage is reported when the completion API fails without an error message
const DefaultUpstreamMessage = "OpenAI API error"

var (
	// ErrNoText is returned when the report text is missing or empty
	ErrNoText = errors.New("no text provided")

	// ErrMissingAPIKey is returned when the completion API credential is not configured
	ErrMissingAPIKey = errors.New("API key not configured")

	// ErrInvalidAIResponse is returned when the model reply contains no JSON object
	ErrInvalidAIResponse = errors.New("invalid AI response")
)

// UpstreamError is a non-success response from the completion API
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *UpstreamError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = DefaultUpstreamMessage
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("completion API returned status %d: %s", e.StatusCode, msg)
	}
	return fmt.Sprintf("completion API error: %s", msg)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// PublicMessage returns the message safe to relay to API clients
func (e *UpstreamError) PublicMessage() string {
	if e.Message == "" {
		return DefaultUpstreamMessage
	}
	return e.Message
}
