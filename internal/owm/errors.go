package owm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

type ErrorKind int

const (
	// ClientError is a 4xx from the provider: unknown city, bad key.
	ClientError ErrorKind = iota
	// ServerError is a 5xx from the provider.
	ServerError
	// NetworkError means no response was received at all.
	NetworkError
)

func (k ErrorKind) String() string {
	switch k {
	case ClientError:
		return "client_error"
	case ServerError:
		return "server_error"
	case NetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

const (
	msgProviderUnavailable = "weather provider unavailable"
	msgProviderUnreachable = "weather provider unreachable"
)

// UpstreamError is what the gateway reports to its callers. Status and Message
// are safe to show to an end user; the underlying cause is kept for logs.
type UpstreamError struct {
	Status  int
	Kind    ErrorKind
	Message string
	cause   error
}

func (e *UpstreamError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("upstream %s (status %d): %s: %v", e.Kind, e.Status, e.Message, e.cause)
	}
	return fmt.Sprintf("upstream %s (status %d): %s", e.Kind, e.Status, e.Message)
}

func (e *UpstreamError) Unwrap() error { return e.cause }

func networkError(cause error) *UpstreamError {
	status := http.StatusBadGateway
	var ne net.Error
	if errors.Is(cause, context.DeadlineExceeded) || (errors.As(cause, &ne) && ne.Timeout()) {
		status = http.StatusGatewayTimeout
	}
	return &UpstreamError{
		Status:  status,
		Kind:    NetworkError,
		Message: msgProviderUnreachable,
		cause:   cause,
	}
}

func statusError(status int, body []byte) *UpstreamError {
	// 1xx/3xx the transport did not resolve are treated like provider faults.
	if status >= 500 || status < 400 {
		if status < 500 {
			status = http.StatusBadGateway
		}
		return &UpstreamError{Status: status, Kind: ServerError, Message: msgProviderUnavailable}
	}
	msg := extractMessage(body)
	if msg == "" {
		msg = http.StatusText(status)
	}
	if msg == "" {
		msg = fmt.Sprintf("request failed with status %d", status)
	}
	return &UpstreamError{Status: status, Kind: ClientError, Message: msg}
}
