package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jask/fundadmin/internal/gateway"
	"github.com/jask/fundadmin/internal/repository"
)

// SubmitKind classifies a failed mutation.
type SubmitKind int

const (
	KindValidation SubmitKind = iota + 1
	KindApplication
	KindNetwork
	KindInvalidResponse
)

func (k SubmitKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindApplication:
		return "application"
	case KindNetwork:
		return "network"
	case KindInvalidResponse:
		return "invalid response"
	default:
		return "unknown"
	}
}

const (
	msgValidation      = "Please fill in all fields."
	msgNetwork         = "Could not connect to the server."
	msgInvalidResponse = "Invalid response from server"
)

var (
	ErrValidation      = errors.New("submit: validation failed")
	ErrApplication     = errors.New("submit: rejected by server")
	ErrNetwork         = errors.New("submit: network unreachable")
	ErrInvalidResponse = errors.New("submit: invalid response")
	ErrInFlight        = errors.New("submit: request already in flight")
	ErrNotPending      = errors.New("submit: account already decided")
)

// SubmitError carries a user-facing Message alongside the cause.
type SubmitError struct {
	Kind    SubmitKind
	Message string
	Err     error
}

func (e *SubmitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("submit %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("submit %s: %s", e.Kind, e.Message)
}

func (e *SubmitError) Unwrap() error { return e.Err }

func (e *SubmitError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrApplication:
		return e.Kind == KindApplication
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrInvalidResponse:
		return e.Kind == KindInvalidResponse
	}
	return false
}

// Doer is the write side of the gateway.
type Doer interface {
	Do(ctx context.Context, r gateway.Request) (gateway.Payload, error)
}

// Submitter posts mutation bodies and interprets the Ack envelope.
type Submitter struct {
	Gateway Doer
}

// Submit posts body to path. fallback is shown when the server rejects the
// request without a message.
func (s *Submitter) Submit(ctx context.Context, path string, body gateway.Body, fallback string) (repository.Ack, error) {
	if s.Gateway == nil {
		return repository.Ack{}, &SubmitError{Kind: KindNetwork, Message: msgNetwork, Err: errors.New("gateway not configured")}
	}
	p, err := s.Gateway.Do(ctx, gateway.Request{Method: http.MethodPost, Path: path, Body: body})
	if err != nil {
		gwErr, ok := gateway.AsError(err)
		switch {
		case ok && gwErr.Kind == gateway.KindStatus:
			if ack, decErr := decodeAck(p); decErr == nil {
				return ack, &SubmitError{Kind: KindApplication, Message: messageOr(ack.Message, fallback), Err: err}
			}
			return repository.Ack{}, &SubmitError{Kind: KindApplication, Message: fallback, Err: err}
		case ok && gwErr.Kind == gateway.KindRequest:
			return repository.Ack{}, fmt.Errorf("submit %s: %w", path, err)
		case ok && gwErr.Kind == gateway.KindInvalidResponse:
			return repository.Ack{}, &SubmitError{Kind: KindInvalidResponse, Message: msgInvalidResponse, Err: err}
		default:
			return repository.Ack{}, &SubmitError{Kind: KindNetwork, Message: msgNetwork, Err: err}
		}
	}
	ack, err := decodeAck(p)
	if err != nil {
		return repository.Ack{}, &SubmitError{Kind: KindInvalidResponse, Message: msgInvalidResponse, Err: err}
	}
	if !ack.Success {
		return ack, &SubmitError{Kind: KindApplication, Message: messageOr(ack.Message, fallback)}
	}
	return ack, nil
}

func decodeAck(p gateway.Payload) (repository.Ack, error) {
	if p.Shape != gateway.ShapeObject {
		return repository.Ack{}, gateway.InvalidResponse(p, fmt.Errorf("ack: expected object, got %s", p.Shape))
	}
	var ack repository.Ack
	if err := p.Decode(&ack); err != nil {
		return repository.Ack{}, gateway.InvalidResponse(p, fmt.Errorf("ack: %w", err))
	}
	return ack, nil
}

func messageOr(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}

// UserMessage returns the short text to show for err.
func UserMessage(err error) string {
	var se *SubmitError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	if errors.Is(err, gateway.ErrNetworkUnreachable) {
		return msgNetwork
	}
	if errors.Is(err, gateway.ErrInvalidResponse) {
		return msgInvalidResponse
	}
	if errors.Is(err, ErrInFlight) {
		return "Request already in progress."
	}
	if errors.Is(err, ErrNotPending) {
		return "Account is no longer pending."
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
