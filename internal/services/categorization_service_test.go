package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"expense-categorizer-api/internal/jsonscan"
)

// fakeCompletionClient records calls and replays a canned reply
type fakeCompletionClient struct {
	reply    string
	err      error
	calls    int
	requests []CompletionRequest
	deadline bool
}

func (f *fakeCompletionClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	f.calls++
	f.requests = append(f.requests, req)
	_, f.deadline = ctx.Deadline()
	return f.reply, f.err
}

func testConfig() CategorizationConfig {
	cfg := DefaultCategorizationConfig()
	cfg.APIKey = "sk-test"
	return cfg
}

const scenarioReply = `Here is the result: {"expenses":[{"description":"רמי לוי","amount":150,"category":"מזון לבית"},{"description":"WOLT","amount":45,"category":"אוכל בחוץ ובילויים"}]}`

const scenarioBody = `{"expenses":[{"description":"רמי לוי","amount":150,"category":"מזון לבית"},{"description":"WOLT","amount":45,"category":"אוכל בחוץ ובילויים"}]}`

func TestCategorize_Scenario(t *testing.T) {
	client := &fakeCompletionClient{reply: scenarioReply}
	service := NewCategorizationService(testConfig(), client, nil)

	result, err := service.Categorize(context.Background(), "רמי לוי 150 ש\"ח\nWOLT 45 ש\"ח")
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}

	if string(result.Body) != scenarioBody {
		t.Errorf("Expected body %s, got %s", scenarioBody, result.Body)
	}

	if result.Analysis == nil || len(result.Analysis.Expenses) != 2 {
		t.Fatalf("Expected 2 decoded expenses, got %+v", result.Analysis)
	}
	if result.Analysis.Expenses[1].Description != "WOLT" || result.Analysis.Expenses[1].Amount != 45 {
		t.Errorf("Unexpected second expense: %+v", result.Analysis.Expenses[1])
	}

	if client.calls != 1 {
		t.Fatalf("Expected 1 completion call, got %d", client.calls)
	}
	req := client.requests[0]
	if req.Model != DefaultModel {
		t.Errorf("Expected model %s, got %s", DefaultModel, req.Model)
	}
	if req.MaxTokens != 4096 {
		t.Errorf("Expected max tokens 4096, got %d", req.MaxTokens)
	}
	if req.Temperature != 0.1 {
		t.Errorf("Expected temperature 0.1, got %v", req.Temperature)
	}
	if !strings.Contains(req.Prompt, "WOLT 45 ש\"ח") {
		t.Error("Expected prompt to contain the report text")
	}
	if client.deadline {
		t.Error("Expected no deadline when no timeout is configured")
	}
}

func TestCategorize_Errors(t *testing.T) {
	upstream := &UpstreamError{StatusCode: 429, Message: "Rate limit reached"}

	tests := []struct {
		name      string
		config    CategorizationConfig
		text      string
		reply     string
		clientErr error
		wantErr   error
		wantCalls int
	}{
		{
			name:      "empty text",
			config:    testConfig(),
			text:      "",
			wantErr:   ErrNoText,
			wantCalls: 0,
		},
		{
			name:      "missing api key",
			config:    DefaultCategorizationConfig(),
			text:      "סונול 200",
			wantErr:   ErrMissingAPIKey,
			wantCalls: 0,
		},
		{
			name:      "upstream failure",
			config:    testConfig(),
			text:      "סונול 200",
			clientErr: upstream,
			wantErr:   upstream,
			wantCalls: 1,
		},
		{
			name:      "reply without object",
			config:    testConfig(),
			text:      "סונול 200",
			reply:     "I could not find any expenses in this text.",
			wantErr:   ErrInvalidAIResponse,
			wantCalls: 1,
		},
		{
			name:      "empty reply",
			config:    testConfig(),
			text:      "סונול 200",
			reply:     "",
			wantErr:   ErrInvalidAIResponse,
			wantCalls: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &fakeCompletionClient{reply: tt.reply, err: tt.clientErr}
			service := NewCategorizationService(tt.config, client, nil)

			_, err := service.Categorize(context.Background(), tt.text)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Categorize() error = %v, want %v", err, tt.wantErr)
			}
			if client.calls != tt.wantCalls {
				t.Errorf("Expected %d completion calls, got %d", tt.wantCalls, client.calls)
			}
		})
	}
}

func TestCategorize_MalformedReply(t *testing.T) {
	client := &fakeCompletionClient{reply: `Result: {expenses: [{"amount": 5}]}`}
	service := NewCategorizationService(testConfig(), client, nil)

	_, err := service.Categorize(context.Background(), "מכולת 5")

	var malformed *jsonscan.MalformedError
	if !errors.As(err, &malformed) {
		t.Fatalf("Expected MalformedError, got %v", err)
	}
}

func TestCategorize_TransportError(t *testing.T) {
	client := &fakeCompletionClient{err: errors.New("dial tcp: connection refused")}
	service := NewCategorizationService(testConfig(), client, nil)

	_, err := service.Categorize(context.Background(), "מכולת 5")
	if err == nil {
		t.Fatal("Expected error, got nil")
	}

	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		t.Error("Transport failures should not be reported as upstream errors")
	}
	if !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("Expected underlying message to be kept, got %v", err)
	}
}

func TestCategorize_TrustsModelOutput(t *testing.T) {
	reply := `{"expenses":[{"description":"Mystery","amount":12,"category":"not a category"}],"note":"extra"}`
	client := &fakeCompletionClient{reply: reply}
	service := NewCategorizationService(testConfig(), client, nil)

	result, err := service.Categorize(context.Background(), "Mystery 12")
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if string(result.Body) != reply {
		t.Errorf("Expected body to be returned verbatim, got %s", result.Body)
	}
}

func TestCategorize_UnexpectedShape(t *testing.T) {
	reply := `{"expenses":"none"}`
	client := &fakeCompletionClient{reply: reply}
	service := NewCategorizationService(testConfig(), client, nil)

	result, err := service.Categorize(context.Background(), "nothing")
	if err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if result.Analysis != nil {
		t.Error("Expected no analysis for an unexpected shape")
	}
	if string(result.Body) != reply {
		t.Errorf("Expected body %s, got %s", reply, result.Body)
	}
}

func TestCategorize_Timeout(t *testing.T) {
	cfg := testConfig()
	cfg.Timeout = 30 * time.Second
	client := &fakeCompletionClient{reply: `{"expenses":[]}`}
	service := NewCategorizationService(cfg, client, nil)

	if _, err := service.Categorize(context.Background(), "סונול 200"); err != nil {
		t.Fatalf("Categorize() error = %v", err)
	}
	if !client.deadline {
		t.Error("Expected completion context to carry a deadline")
	}
}

func TestUpstreamError(t *testing.T) {
	err := &UpstreamError{StatusCode: 401}
	if err.PublicMessage() != DefaultUpstreamMessage {
		t.Errorf("Expected fallback message, got %s", err.PublicMessage())
	}
	if !strings.Contains(err.Error(), "401") {
		t.Errorf("Expected status in error string, got %s", err.Error())
	}

	err = &UpstreamError{StatusCode: 400, Message: "Invalid model"}
	if err.PublicMessage() != "Invalid model" {
		t.Errorf("Expected upstream message, got %s", err.PublicMessage())
	}
}
