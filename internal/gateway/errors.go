package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure.
type Kind int

const (
	// KindNetworkUnreachable means the request never produced a response
	// (DNS, refused connection, timeout, cancelled context).
	KindNetworkUnreachable Kind = iota + 1
	// KindInvalidResponse means a body arrived but was not JSON, or had an
	// unexpected shape.
	KindInvalidResponse
	// KindStatus means the server answered non-2xx with a parseable body.
	KindStatus
	// KindRequest means the call was rejected locally and nothing was sent
	// (unsupported method, bad path, body that failed to encode).
	KindRequest
)

func (k Kind) String() string {
	switch k {
	case KindNetworkUnreachable:
		return "network unreachable"
	case KindInvalidResponse:
		return "invalid response"
	case KindStatus:
		return "http status"
	case KindRequest:
		return "invalid request"
	default:
		return "unknown"
	}
}

var (
	ErrNetworkUnreachable = errors.New("gateway: network unreachable")
	ErrInvalidResponse    = errors.New("gateway: invalid response")
	ErrStatus             = errors.New("gateway: unexpected http status")
	ErrRequest            = errors.New("gateway: invalid request")
)

// Error is the only error type returned by Client.
type Error struct {
	Kind   Kind
	Method string
	Path   string
	Status int
	// Raw holds the response text for KindInvalidResponse and KindStatus.
	Raw string
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("gateway: %s %s: http %d", e.Method, e.Path, e.Status)
	case KindInvalidResponse:
		if e.Err != nil {
			return fmt.Sprintf("gateway: %s %s: invalid response: %v", e.Method, e.Path, e.Err)
		}
		return fmt.Sprintf("gateway: %s %s: invalid response", e.Method, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("gateway: %s %s: %s: %v", e.Method, e.Path, e.Kind, e.Err)
		}
		return fmt.Sprintf("gateway: %s %s: %s", e.Method, e.Path, e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on the Kind sentinels.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetworkUnreachable:
		return e.Kind == KindNetworkUnreachable
	case ErrInvalidResponse:
		return e.Kind == KindInvalidResponse
	case ErrStatus:
		return e.Kind == KindStatus
	case ErrRequest:
		return e.Kind == KindRequest
	}
	return false
}

// InvalidResponse builds a KindInvalidResponse error for callers that
// reject a payload's shape after a successful parse.
func InvalidResponse(p Payload, err error) *Error {
	return &Error{Kind: KindInvalidResponse, Method: p.Method, Path: p.Path, Status: p.Status, Raw: string(p.Raw), Err: err}
}

// AsError unwraps err into a *Error.
func AsError(err error) (*Error, bool) {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr, true
	}
	return nil, false
}
