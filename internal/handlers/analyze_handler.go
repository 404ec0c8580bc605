package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"expense-categorizer-api/internal/middleware"
	"expense-categorizer-api/internal/services"
	"expense-categorizer-api/pkg/lambda"
)

const jsonContentType = "application/json; charset=utf-8"

// AnalyzeHandler handles expense categorization requests
type AnalyzeHandler struct {
	categorizationService services.CategorizationService
	maxBodyBytes          int64
}

// NewAnalyzeHandler creates a new analyze handler. A non-positive maxBodyBytes disables the body limit.
func NewAnalyzeHandler(categorizationService services.CategorizationService, maxBodyBytes int64) *AnalyzeHandler {
	return &AnalyzeHandler{
		categorizationService: categorizationService,
		maxBodyBytes:          maxBodyBytes,
	}
}

// analyzeBody is decoded leniently: a missing text field is reported as missing text, not a bad body
type analyzeBody struct {
	Text string `json:"text"`
}

// Analyze categorizes the expenses found in the posted report text.
// Registered for every method; OPTIONS and POST are the only ones served.
func (h *AnalyzeHandler) Analyze(c *gin.Context) {
	var body []byte
	if c.Request.Method == http.MethodPost && c.Request.Body != nil {
		var err error
		body, err = io.ReadAll(c.Request.Body)
		if err != nil {
			var maxBytesErr *http.MaxBytesError
			if errors.As(err, &maxBytesErr) {
				err = ErrRequestTooLarge
			} else {
				err = fmt.Errorf("%w: %v", ErrInvalidBody, err)
			}
			h.writeGinError(c, err)
			return
		}
	}

	status, payload := h.handle(c.Request.Context(), c.Request.Method, body)
	if payload == nil {
		c.Status(status)
		return
	}
	c.Data(status, jsonContentType, payload)
}

func (h *AnalyzeHandler) writeGinError(c *gin.Context, err error) {
	status, message := StatusFor(err)
	_ = c.Error(err)
	c.Data(status, jsonContentType, errorBody(message))
}

// HandleAnalyze handles analyze requests for Lambda
func (h *AnalyzeHandler) HandleAnalyze(ctx context.Context, req *lambda.Request) (resp *lambda.Response, err error) {
	requestID := req.Header(middleware.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.New().String()
	}

	defer func() {
		if r := recover(); r != nil {
			message := fmt.Sprint(r)
			logrus.WithFields(logrus.Fields{
				"request_id": requestID,
				"panic":      message,
			}).Error("Recovered from panic")
			resp = h.lambdaResponse(requestID, http.StatusInternalServerError, errorBody(message))
			err = nil
		}
	}()

	var status int
	var payload []byte
	if h.maxBodyBytes > 0 && int64(len(req.Body)) > h.maxBodyBytes {
		status, payload = h.failure(ErrRequestTooLarge)
	} else {
		status, payload = h.handle(ctx, req.Method, req.Body)
	}

	logrus.WithFields(logrus.Fields{
		"request_id":  requestID,
		"method":      req.Method,
		"path":        req.Path,
		"status_code": status,
	}).Info("Lambda request completed")

	return h.lambdaResponse(requestID, status, payload), nil
}

func (h *AnalyzeHandler) lambdaResponse(requestID string, status int, payload []byte) *lambda.Response {
	headers := map[string]string{
		"Access-Control-Allow-Origin":  middleware.AllowOrigin,
		"Access-Control-Allow-Methods": middleware.AllowMethods,
		"Access-Control-Allow-Headers": middleware.AllowHeaders,
		middleware.RequestIDHeader:     requestID,
	}
	if payload != nil {
		headers["Content-Type"] = jsonContentType
	} else {
		payload = []byte{}
	}
	return lambda.NewResponse(status, headers, payload)
}

// handle runs the request contract shared by both adapters. A nil payload means an empty body.
func (h *AnalyzeHandler) handle(ctx context.Context, method string, body []byte) (int, []byte) {
	switch method {
	case http.MethodOptions:
		return http.StatusOK, nil
	case http.MethodPost:
	default:
		return h.failure(ErrMethodNotAllowed)
	}

	text, err := decodeText(body)
	if err != nil {
		return h.failure(err)
	}

	result, err := h.categorizationService.Categorize(ctx, text)
	if err != nil {
		return h.failure(err)
	}

	return http.StatusOK, result.Body
}

func (h *AnalyzeHandler) failure(err error) (int, []byte) {
	status, message := StatusFor(err)
	if status >= 500 {
		logrus.WithError(err).WithField("status_code", status).Error("Analyze request failed")
	}
	return status, errorBody(message)
}

// decodeText extracts the text field. An empty body counts as missing text.
func decodeText(body []byte) (string, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return "", services.ErrNoText
	}

	var req analyzeBody
	if err := json.Unmarshal(body, &req); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidBody, err)
	}
	return req.Text, nil
}
