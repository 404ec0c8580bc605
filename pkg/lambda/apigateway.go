package lambda

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

// PayloadVersion identifies the API Gateway event format
type PayloadVersion string

const (
	// PayloadV1 is the REST API (and HTTP API 1.0) proxy format
	PayloadV1 PayloadVersion = "1.0"
	// PayloadV2 is the HTTP API and function URL format
	PayloadV2 PayloadVersion = "2.0"
)

// DetectPayloadVersion inspects a raw event and reports its format.
// Events without a version field are treated as REST API proxy events.
func DetectPayloadVersion(raw []byte) (PayloadVersion, error) {
	var probe struct {
		Version        string `json:"version"`
		RequestContext struct {
			HTTP *struct {
				Method string `json:"method"`
			} `json:"http"`
		} `json:"requestContext"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return "", fmt.Errorf("invalid event payload: %w", err)
	}

	if probe.Version == string(PayloadV2) || probe.RequestContext.HTTP != nil {
		return PayloadV2, nil
	}
	return PayloadV1, nil
}

// FromAPIGatewayProxyRequest converts a REST API proxy event
func FromAPIGatewayProxyRequest(event events.APIGatewayProxyRequest) (*Request, error) {
	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:      event.HTTPMethod,
		Path:        event.Path,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        body,
		PathParams:  event.PathParameters,
	}, nil
}

// FromAPIGatewayV2HTTPRequest converts an HTTP API (payload 2.0) event
func FromAPIGatewayV2HTTPRequest(event events.APIGatewayV2HTTPRequest) (*Request, error) {
	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:      event.RequestContext.HTTP.Method,
		Path:        event.RawPath,
		Headers:     event.Headers,
		QueryParams: event.QueryStringParameters,
		Body:        body,
		PathParams:  event.PathParameters,
	}, nil
}

// ToAPIGatewayProxyResponse converts the response to the REST API proxy format
func (r *Response) ToAPIGatewayProxyResponse() events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       string(r.Body),
	}
}

// ToAPIGatewayV2HTTPResponse converts the response to the HTTP API format
func (r *Response) ToAPIGatewayV2HTTPResponse() events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: r.StatusCode,
		Headers:    r.Headers,
		Body:       string(r.Body),
	}
}

func decodeBody(body string, isBase64 bool) ([]byte, error) {
	if !isBase64 {
		return []byte(body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 body: %w", err)
	}
	return decoded, nil
}
