package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"expense-categorizer-api/internal/jsonscan"
	"expense-categorizer-api/internal/middleware"
	"expense-categorizer-api/internal/services"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error string `json:"error"`
}

var (
	// ErrInvalidBody is returned when the request body is not a JSON object with a string text field
	ErrInvalidBody = errors.New("invalid request body")

	// ErrRequestTooLarge is returned when the request body exceeds the configured limit
	ErrRequestTooLarge = errors.New("request too large")

	// ErrMethodNotAllowed is returned for methods other than POST and OPTIONS
	ErrMethodNotAllowed = errors.New("method not allowed")
)

// StatusFor maps an error to the HTTP status and public message reported to the client
func StatusFor(err error) (int, string) {
	var upstreamErr *services.UpstreamError
	var malformedErr *jsonscan.MalformedError

	switch {
	case errors.Is(err, services.ErrNoText):
		return http.StatusBadRequest, "No text provided"
	case errors.Is(err, ErrInvalidBody):
		return http.StatusBadRequest, "Invalid request body"
	case errors.Is(err, ErrMethodNotAllowed):
		return http.StatusMethodNotAllowed, "Method not allowed"
	case errors.Is(err, ErrRequestTooLarge):
		return http.StatusRequestEntityTooLarge, middleware.RequestTooLargeMessage
	case errors.Is(err, services.ErrMissingAPIKey):
		return http.StatusInternalServerError, services.ErrMissingAPIKey.Error()
	case errors.As(err, &upstreamErr):
		status := upstreamErr.StatusCode
		if status < 400 || status > 599 {
			status = http.StatusInternalServerError
		}
		return status, upstreamErr.PublicMessage()
	case errors.Is(err, services.ErrInvalidAIResponse), errors.Is(err, jsonscan.ErrNoObject):
		return http.StatusInternalServerError, "Invalid AI response"
	case errors.As(err, &malformedErr):
		return http.StatusInternalServerError, malformedErr.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// errorBody encodes an error response
func errorBody(message string) []byte {
	body, err := json.Marshal(ErrorResponse{Error: message})
	if err != nil {
		return []byte(`{"error":"Internal server error"}`)
	}
	return body
}
