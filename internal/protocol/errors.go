package protocol

import (
	"errors"
	"fmt"
)

// Status is the response status shared across the protocol stack. Non-zero
// values double as error kinds.
type Status uint16

const (
	Success Status = iota
	InvalidHeader
	ConnectionError
	InvalidEncoding
	WireProtocolVersionNotSupported
	BodySizeExceedsLimit
	AuthSizeExceedsLimit
)

var statusNames = map[Status]string{
	Success:                         "success",
	InvalidHeader:                   "invalid header",
	ConnectionError:                 "connection error",
	InvalidEncoding:                 "invalid encoding",
	WireProtocolVersionNotSupported: "wire protocol version not supported",
	BodySizeExceedsLimit:            "body size exceeds limit",
	AuthSizeExceedsLimit:            "auth size exceeds limit",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("status(%d)", uint16(s))
}

func (s Status) Error() string {
	return "protocol: " + s.String()
}

// Error carries a Status plus the operation and underlying cause.
type Error struct {
	Status Status
	Op     string
	Err    error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("protocol: %s: %s", e.Op, e.Status)
	}
	return fmt.Sprintf("protocol: %s: %s: %v", e.Op, e.Status, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against a bare Status target.
func (e *Error) Is(target error) bool {
	s, ok := target.(Status)
	return ok && s == e.Status
}

// Errorf builds an *Error whose cause is formatted from format and args.
func Errorf(status Status, op, format string, args ...any) error {
	return &Error{Status: status, Op: op, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches status and op to err. A nil err stays nil.
func Wrap(status Status, op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Status: status, Op: op, Err: err}
}

// StatusOf returns the Status carried by err. Errors outside the taxonomy
// are reported as ConnectionError since they originate in the byte stream.
func StatusOf(err error) Status {
	if err == nil {
		return Success
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Status
	}
	var s Status
	if errors.As(err, &s) {
		return s
	}
	return ConnectionError
}
