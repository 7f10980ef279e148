package client

import "fmt"

// Class partitions call failures by the recovery a caller can attempt.
type Class int

const (
	// ClassLocal covers failures on this side of the wire: request
	// construction, encoding, or an undecodable response.
	ClassLocal Class = iota
	// ClassAuth covers authentication and authorization rejections.
	ClassAuth
	// ClassVersion covers a client/server version mismatch.
	ClassVersion
	// ClassBadStatus covers decodable error responses outside the auth
	// statuses.
	ClassBadStatus
	// ClassTransport covers network-level failures.
	ClassTransport
)

func (c Class) String() string {
	switch c {
	case ClassLocal:
		return "local"
	case ClassAuth:
		return "auth"
	case ClassVersion:
		return "version"
	case ClassBadStatus:
		return "bad-status"
	case ClassTransport:
		return "transport"
	default:
		return fmt.Sprintf("class(%d)", int(c))
	}
}

// Error is the failure type returned by Client.Do.
type Error struct {
	Class   Class
	Message string
	// Status is the HTTP status code, when a response was received.
	Status int
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Class, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Class, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }
