package odoo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredentials is reported when the server answers authenticate with false
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnexpectedReply is reported when a reply does not have the shape the method returns
	ErrUnexpectedReply = errors.New("unexpected reply")
)

// AuthenticationFailedError is returned when the session endpoint rejects or fails
// the authentication call.
type AuthenticationFailedError struct {
	Database string
	Username string
	// Fault is set when the server answered with a fault
	Fault *Fault
	Err   error
}

func (e *AuthenticationFailedError) Error() string {
	switch {
	case e.Fault != nil:
		return fmt.Sprintf("authentication failed for %s@%s: %s", e.Username, e.Database, e.Fault.Message)
	case e.Err != nil:
		return fmt.Sprintf("authentication failed for %s@%s: %v", e.Username, e.Database, e.Err)
	}
	return fmt.Sprintf("authentication failed for %s@%s", e.Username, e.Database)
}

func (e *AuthenticationFailedError) Unwrap() error { return e.Err }

// RemoteCallFailedError is returned when a model method invocation reports a fault.
type RemoteCallFailedError struct {
	Model  string
	Method string
	Fault  Fault
}

func (e *RemoteCallFailedError) Error() string {
	if e.Model == "" {
		return fmt.Sprintf("remote call %s failed: %s", e.Method, e.Fault.Message)
	}
	return fmt.Sprintf("remote call %s.%s failed: %s", e.Model, e.Method, e.Fault.Message)
}

// TransportError wraps a failure that is not a server fault (network, HTTP status,
// malformed response).
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error on %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// FaultMessage returns the server-provided fault string carried by err, if any.
func FaultMessage(err error) (string, bool) {
	var rce *RemoteCallFailedError
	if errors.As(err, &rce) {
		return rce.Fault.Message, true
	}
	var afe *AuthenticationFailedError
	if errors.As(err, &afe) && afe.Fault != nil {
		return afe.Fault.Message, true
	}
	return "", false
}
