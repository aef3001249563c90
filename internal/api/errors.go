package api

import (
	"errors"
	"fmt"
)

// ErrorKind classifies transport failures.
type ErrorKind int

const (
	// KindNetwork means the request never produced a response.
	KindNetwork ErrorKind = iota
	// KindDecode means the response body was not valid JSON.
	KindDecode
	// KindApplication means the server answered with an "error" field.
	KindApplication
	// KindStatus means a non-2xx response without an "error" field.
	KindStatus
)

func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindDecode:
		return "decode"
	case KindApplication:
		return "application"
	case KindStatus:
		return "status"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// TransportError is the only error type returned by Client.Request.
type TransportError struct {
	Kind    ErrorKind
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	switch e.Kind {
	case KindApplication:
		return e.Message
	case KindStatus:
		return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Status)
	default:
		return fmt.Sprintf("%s %s: %s error: %v", e.Method, e.Path, e.Kind, e.Err)
	}
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsKind reports whether err is a TransportError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var te *TransportError
	return errors.As(err, &te) && te.Kind == kind
}

// UserMessage returns the text worth showing to a user for err: the server's
// own message for application errors, a short description otherwise.
func UserMessage(err error) string {
	var te *TransportError
	if !errors.As(err, &te) {
		return err.Error()
	}
	switch te.Kind {
	case KindApplication:
		return te.Message
	case KindNetwork:
		return "server unreachable"
	case KindDecode:
		return "unexpected response from server"
	default:
		return fmt.Sprintf("server returned %d", te.Status)
	}
}
