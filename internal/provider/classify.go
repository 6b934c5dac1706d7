package provider

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// ErrorKind groups provider failures by the fallback they call for.
type ErrorKind string

const (
	KindNone      ErrorKind = ""
	KindRateLimit ErrorKind = "rate_limit"
	KindNetwork   ErrorKind = "network"
	KindContent   ErrorKind = "content"
	KindOther     ErrorKind = "other"
)

// Classify inspects a provider error. Typed API errors are checked first,
// then the message text.
func Classify(err error) ErrorKind {
	if err == nil {
		return KindNone
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return KindRateLimit
		case http.StatusGatewayTimeout, http.StatusRequestTimeout:
			return KindNetwork
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode == http.StatusTooManyRequests {
		return KindRateLimit
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindNetwork
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindNetwork
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "rate limit"), strings.Contains(msg, "rate_limit"), strings.Contains(msg, "429"):
		return KindRateLimit
	case strings.Contains(msg, "timeout"), strings.Contains(msg, "network"), strings.Contains(msg, "connection refused"):
		return KindNetwork
	case strings.Contains(msg, "content"), strings.Contains(msg, "filter"):
		return KindContent
	}
	return KindOther
}
