package lambda

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// Adapt wraps a handler so it can serve both API Gateway payload versions
// from a single function. The returned value is the matching response event.
func Adapt(h HandlerFunc) func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
	return func(ctx context.Context, raw json.RawMessage) (interface{}, error) {
		version, err := DetectPayloadVersion(raw)
		if err != nil {
			return nil, err
		}

		switch version {
		case PayloadV2:
			var event events.APIGatewayV2HTTPRequest
			if err := json.Unmarshal(raw, &event); err != nil {
				return nil, fmt.Errorf("invalid HTTP API event: %w", err)
			}
			req, err := FromAPIGatewayV2HTTPRequest(event)
			if err != nil {
				return badRequest(err).ToAPIGatewayV2HTTPResponse(), nil
			}
			resp, err := invoke(ctx, h, req)
			if err != nil {
				return nil, err
			}
			return resp.ToAPIGatewayV2HTTPResponse(), nil

		default:
			var event events.APIGatewayProxyRequest
			if err := json.Unmarshal(raw, &event); err != nil {
				return nil, fmt.Errorf("invalid REST API event: %w", err)
			}
			req, err := FromAPIGatewayProxyRequest(event)
			if err != nil {
				return badRequest(err).ToAPIGatewayProxyResponse(), nil
			}
			resp, err := invoke(ctx, h, req)
			if err != nil {
				return nil, err
			}
			return resp.ToAPIGatewayProxyResponse(), nil
		}
	}
}

func invoke(ctx context.Context, h HandlerFunc, req *Request) (*Response, error) {
	resp, err := h(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("handler returned no response for %s %s", req.Method, req.Path)
	}
	return resp, nil
}

func badRequest(err error) *Response {
	logrus.WithError(err).Warn("Rejected undecodable request body")
	body, _ := json.Marshal(map[string]string{"error": "Invalid request body"})
	return JSON(http.StatusBadRequest, body)
}
