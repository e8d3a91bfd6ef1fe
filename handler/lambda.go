package handler

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/aws/aws-lambda-go/events"
	"github.com/go-chi/chi/v5/middleware"
)

// LambdaAdapter serves API Gateway HTTP API (payload format 2.0) events
// through an http.Handler.
type LambdaAdapter struct {
	Handler http.Handler
}

func (a *LambdaAdapter) HandleEvent(
	ctx context.Context, event *events.APIGatewayV2HTTPRequest,
) (*events.APIGatewayV2HTTPResponse, error) {
	req, err := newHttpRequest(ctx, event)
	if err != nil {
		return &events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusBadRequest,
			Headers:    map[string]string{},
		}, nil
	}

	res := newResponseBuffer()
	a.Handler.ServeHTTP(res, req)
	return res.toEvent(), nil
}

func newHttpRequest(
	ctx context.Context, event *events.APIGatewayV2HTTPRequest,
) (*http.Request, error) {
	body := event.Body

	// The production API Gateway base64 encodes form bodies. `sam local`
	// doesn't. Either way the flag says which.
	if event.IsBase64Encoded {
		if decoded, err := base64.StdEncoding.DecodeString(body); err != nil {
			return nil, fmt.Errorf("failed to base64 decode body: %w", err)
		} else {
			body = string(decoded)
		}
	}

	target := event.RawPath
	if event.RawQueryString != "" {
		target += "?" + event.RawQueryString
	}
	method := event.RequestContext.HTTP.Method

	req, err := http.NewRequestWithContext(
		ctx, method, target, strings.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build request from event: %w", err)
	}

	// API Gateway lowercases header names. http.Header.Set canonicalizes them
	// again so handlers can use the usual names.
	for name, value := range event.Headers {
		req.Header.Set(name, value)
	}
	if id := event.RequestContext.RequestID; id != "" &&
		req.Header.Get(middleware.RequestIDHeader) == "" {
		req.Header.Set(middleware.RequestIDHeader, id)
	}
	req.RemoteAddr = event.RequestContext.HTTP.SourceIP
	req.RequestURI = target
	return req, nil
}

// responseBuffer collects a handler's response for conversion into a Lambda
// response event.
type responseBuffer struct {
	header http.Header
	status int
	body   bytes.Buffer
}

func newResponseBuffer() *responseBuffer {
	return &responseBuffer{header: http.Header{}}
}

func (rb *responseBuffer) Header() http.Header {
	return rb.header
}

func (rb *responseBuffer) WriteHeader(status int) {
	if rb.status == 0 {
		rb.status = status
	}
}

func (rb *responseBuffer) Write(data []byte) (int, error) {
	rb.WriteHeader(http.StatusOK)
	return rb.body.Write(data)
}

func (rb *responseBuffer) toEvent() *events.APIGatewayV2HTTPResponse {
	res := &events.APIGatewayV2HTTPResponse{
		StatusCode: rb.status,
		Headers:    make(map[string]string, len(rb.header)),
	}
	if res.StatusCode == 0 {
		res.StatusCode = http.StatusOK
	}

	for name, values := range rb.header {
		res.Headers[strings.ToLower(name)] = strings.Join(values, ",")
	}

	if body := rb.body.Bytes(); utf8.Valid(body) {
		res.Body = string(body)
	} else {
		res.Body = base64.StdEncoding.EncodeToString(body)
		res.IsBase64Encoded = true
	}
	return res
}
