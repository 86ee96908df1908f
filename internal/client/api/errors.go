// Package api implements the remote calls behind every lines and session
// command. Each call produces exactly one (value, error) pair; the error is
// either a *ServerRejection or a *TransportFault.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/atinyakov/subwaymap/internal/models"
)

// ServerRejection is a completed exchange whose status is not the one the
// command expects.
type ServerRejection struct {
	// Status is the HTTP status code the server answered with.
	Status int
	// Message is body.message when present, otherwise the status text.
	Message string
}

func (e *ServerRejection) Error() string {
	return fmt.Sprintf("server rejected request (%d): %s", e.Status, e.Message)
}

// TransportFault is a network failure or a success response whose body could
// not be understood. It carries no guaranteed message.
type TransportFault struct {
	// Op names the call that failed, e.g. "fetch lines".
	Op  string
	Err error
}

func (e *TransportFault) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportFault) Unwrap() error { return e.Err }

// IsServerRejection reports whether err wraps a *ServerRejection.
func IsServerRejection(err error) bool {
	var sr *ServerRejection
	return errors.As(err, &sr)
}

// IsTransportFault reports whether err wraps a *TransportFault.
func IsTransportFault(err error) bool {
	var tf *TransportFault
	return errors.As(err, &tf)
}

// Message returns the best-effort diagnostic message of err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var sr *ServerRejection
	if errors.As(err, &sr) {
		return sr.Message
	}
	return err.Error()
}

// rejection builds a ServerRejection without assuming the body is JSON or
// carries a message field.
func rejection(status int, body []byte) *ServerRejection {
	var eb models.ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Message != "" {
		return &ServerRejection{Status: status, Message: eb.Message}
	}
	return &ServerRejection{Status: status, Message: http.StatusText(status)}
}
