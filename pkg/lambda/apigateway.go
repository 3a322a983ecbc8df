package lambda

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambdacontext"
)

// FromAPIGateway converts an API Gateway proxy event to a generic request
func FromAPIGateway(event events.APIGatewayProxyRequest) *Request {
	return &Request{
		Method:          event.HTTPMethod,
		Path:            event.Path,
		Headers:         event.Headers,
		QueryParams:     event.QueryStringParameters,
		PathParams:      event.PathParameters,
		Body:            event.Body,
		IsBase64Encoded: event.IsBase64Encoded,
		RequestID:       event.RequestContext.RequestID,
	}
}

// ToAPIGateway converts a generic response to an API Gateway proxy response
func ToAPIGateway(resp *Response) events.APIGatewayProxyResponse {
	if resp == nil {
		return events.APIGatewayProxyResponse{
			StatusCode: 500,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"error":"empty response"}`,
		}
	}

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Headers,
		Body:       resp.Body,
	}
}

// InvocationID returns the Lambda invocation id carried by ctx, or "" outside Lambda
func InvocationID(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		return lc.AwsRequestID
	}
	return ""
}
