// Package protocol defines the wire error taxonomy, its HTTP status
// mapping, and the client/server version handshake.
//
// Two disjoint error families exist. Domain errors are handler-declared
// values carried through the success channel (status 200) as the error arm
// of a result response type; they are ordinary data and never appear here.
// Protocol errors are everything else: service-level failures declared by a
// handler (authentication, authorization, internal) and runtime faults from
// routing, query, body, or serialization. All protocol errors share one
// JSON envelope that every generated client and server pair must reproduce
// byte for byte.
package protocol

import (
	"net/http"

	json "github.com/goccy/go-json"
)

// Header names of the humble HTTP contract.
const (
	// HeaderAuthorization carries the request credential.
	HeaderAuthorization = "Authorization"
	// HeaderBackendVersion carries the server's version identifier on
	// every response.
	HeaderBackendVersion = "X-Backend-Version"
	// HeaderRequestID carries the optional request-correlation
	// identifier on responses.
	HeaderRequestID = "Request-Id"
)

// ErrorResponse is the wire envelope shared by all protocol errors:
//
//	{"code": <http-status>, "kind": {"Service": …} | {"Runtime": …}}
//
// It carries exactly those two fields.
type ErrorResponse struct {
	Code int  `json:"code"`
	Kind Kind `json:"kind"`
}

// Error implements the error interface.
func (e *ErrorResponse) Error() string {
	return http.StatusText(e.Code) + ": " + e.Kind.describe()
}

// MarshalJSON renders the envelope with its fixed field set.
func (e *ErrorResponse) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Code int            `json:"code"`
		Kind map[string]any `json:"kind"`
	}{
		Code: e.Code,
		Kind: map[string]any{e.Kind.family(): e.Kind.wireValue()},
	})
}

// Kind is a sealed interface over the protocol error kinds. The Service
// family holds handler-declared failures; the Runtime family holds faults
// raised by the routing and serialization machinery itself.
type Kind interface {
	// Status is the HTTP status the envelope is served with.
	Status() int
	family() string
	wireValue() any
	describe() string
}

// Respond builds the envelope for a kind.
func Respond(k Kind) *ErrorResponse {
	return &ErrorResponse{Code: k.Status(), Kind: k}
}
