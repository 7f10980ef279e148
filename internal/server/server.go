// Package server implements the request-time routing contract a generated
// humble server follows.
//
// A Mux owns a set of mount points, each binding a compiled service
// dispatch structure to a URL root. Mounting happens dynamically at
// startup, so colliding mounts are a configuration fault reported per
// request through the protocol envelope, never a compile-time condition.
// The mount table and every dispatch structure are immutable once serving
// begins; lookups take no locks.
//
// Per request: resolve the mount by root prefix, match the remaining path
// segments against the service's routes, parse route parameters into their
// declared types, decode query and body, invoke the handler, and encode the
// response. Every failure along that path maps to exactly one protocol
// error kind.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/49nord/humble/internal/codec"
	"github.com/49nord/humble/internal/ir"
	"github.com/49nord/humble/internal/protocol"
	"github.com/49nord/humble/internal/router"
)

// Handler processes one decoded request. The returned value must inhabit
// the endpoint's response type in the codec value model. A returned
// *protocol.ErrorResponse is served as-is; any other error becomes an
// Internal service failure.
type Handler func(ctx context.Context, req *Request) (any, error)

// Request carries the decoded inputs of one dispatch.
type Request struct {
	// Params holds route parameters parsed into their declared types.
	Params map[string]any
	// Query is the decoded query struct value, nil when the endpoint
	// declares none.
	Query any
	// Body is the decoded body value, nil for bodyless endpoints.
	Body any
	// Header exposes the raw request headers, including the
	// authorization credential.
	Header http.Header
}

// Service error helpers for handler implementations.
var (
	// ErrAuthentication rejects a request lacking a valid credential.
	ErrAuthentication = protocol.Respond(protocol.Authentication{})
	// ErrAuthorization rejects an authenticated but unauthorized caller.
	ErrAuthorization = protocol.Respond(protocol.Authorization{})
)

// ErrInternal wraps a handler failure as an internal service error.
func ErrInternal(err error) *protocol.ErrorResponse {
	return protocol.Respond(protocol.Internal{Message: err.Error()})
}

type mount struct {
	root     []string
	service  *router.Service
	handlers map[string]Handler
}

// Mux routes requests to mounted services.
type Mux struct {
	codec   *codec.Codec
	logger  zerolog.Logger
	version string
	mounts  []*mount
}

// NewMux creates an empty mux serving the given module's types. The
// version string is sent in the backend-version header of every response.
func NewMux(module *ir.Module, version string, logger zerolog.Logger) *Mux {
	return &Mux{
		codec:   codec.New(module),
		logger:  logger,
		version: version,
	}
}

// HandlerKey names an endpoint within a handler map: the method and the
// pattern with parameter types elided, e.g. "GET /monsters/{id}".
func HandlerKey(route *router.Route) string {
	var b strings.Builder
	b.WriteString(route.Method)
	b.WriteByte(' ')
	if len(route.Segments) == 0 {
		b.WriteByte('/')
	}
	for _, seg := range route.Segments {
		b.WriteByte('/')
		if seg.IsParam() {
			b.WriteByte('{')
			b.WriteString(seg.Param.Name)
			b.WriteByte('}')
		} else {
			b.WriteString(seg.Literal)
		}
	}
	return b.String()
}

// Mount binds a compiled service to a URL root. Every route of the service
// must have a handler under its HandlerKey. Collisions with existing
// mounts are not rejected here: they surface per request as
// ServiceMountsAmbiguous, because mounting is dynamic configuration.
func (m *Mux) Mount(root string, service *router.Service, handlers map[string]Handler) error {
	for _, route := range service.Routes {
		if _, ok := handlers[HandlerKey(route)]; !ok {
			return errors.New("no handler for " + HandlerKey(route))
		}
	}
	m.mounts = append(m.mounts, &mount{
		root:     router.SplitPath(root),
		service:  service,
		handlers: handlers,
	})
	return nil
}

// ServeHTTP implements http.Handler.
func (m *Mux) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	w.Header().Set(protocol.HeaderBackendVersion, m.version)
	w.Header().Set(protocol.HeaderRequestID, requestID)

	logger := m.logger.With().
		Str("request_id", requestID).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Logger()

	status := m.dispatch(w, r, logger)
	logger.Debug().Int("status", status).Msg("finished request")
}

// dispatch runs the routing contract and returns the response status.
func (m *Mux) dispatch(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) int {
	segments := router.SplitPath(r.URL.Path)

	matches := m.matchMounts(segments)
	if len(matches) == 0 {
		return m.writeError(w, logger, protocol.Respond(protocol.NoServiceMounted{}))
	}
	if len(matches) > 1 {
		return m.writeError(w, logger, protocol.Respond(protocol.ServiceMountsAmbiguous{}))
	}
	mnt := matches[0]
	remainder := segments[len(mnt.root):]

	matched := mnt.service.MatchAll(r.Method, remainder)
	if len(matched) == 0 {
		return m.writeError(w, logger,
			protocol.Respond(protocol.NoRouteMountedInService{Service: mnt.service.Name}))
	}
	if len(matched) > 1 {
		return m.writeError(w, logger,
			protocol.Respond(protocol.RouteMountsAmbiguous{Service: mnt.service.Name}))
	}
	route, raw := matched[0].Route, matched[0].Params

	req, errResp := m.decodeRequest(route.Endpoint, raw, r)
	if errResp != nil {
		return m.writeError(w, logger, errResp)
	}

	value, err := mnt.handlers[HandlerKey(route)](r.Context(), req)
	if err != nil {
		var resp *protocol.ErrorResponse
		if !errors.As(err, &resp) {
			resp = ErrInternal(err)
		}
		logger.Error().Err(err).Msg("handler returned error")
		return m.writeError(w, logger, resp)
	}

	body, err := m.codec.Encode(route.Endpoint.Response, value)
	if err != nil {
		logger.Error().Err(err).Msg("cannot serialize handler response")
		return m.writeError(w, logger,
			protocol.Respond(protocol.SerializeHandlerResponse{Message: err.Error()}))
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
	return http.StatusOK
}

// matchMounts returns every mount whose root is a prefix of the path.
func (m *Mux) matchMounts(segments []string) []*mount {
	var out []*mount
	for _, mnt := range m.mounts {
		if len(mnt.root) > len(segments) {
			continue
		}
		prefix := true
		for i, seg := range mnt.root {
			if segments[i] != seg {
				prefix = false
				break
			}
		}
		if prefix {
			out = append(out, mnt)
		}
	}
	return out
}

// decodeRequest parses route parameters, query, and body.
func (m *Mux) decodeRequest(ep *ir.Endpoint, raw map[string]string, r *http.Request) (*Request, *protocol.ErrorResponse) {
	req := &Request{Header: r.Header}

	if len(raw) > 0 {
		req.Params = make(map[string]any, len(raw))
		for _, seg := range ep.Route {
			if !seg.IsParam() {
				continue
			}
			value, err := codec.ParseScalar(seg.Param.Type.(ir.Builtin), raw[seg.Param.Name])
			if err != nil {
				return nil, protocol.Respond(protocol.RouteParamInvalid{
					ParamName:  seg.Param.Name,
					ParseError: err.Error(),
				})
			}
			req.Params[seg.Param.Name] = value
		}
	}

	if ep.Query != nil {
		query, err := m.decodeQuery(ep.Query, r.URL.Query())
		if err != nil {
			return nil, protocol.Respond(protocol.QueryInvalid{Message: err.Error()})
		}
		req.Query = query
	}

	if ep.Body != nil {
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, protocol.Respond(protocol.PostBodyReadError{Message: err.Error()})
		}
		body, err := m.codec.Decode(ep.Body, data)
		if err != nil {
			return nil, protocol.Respond(protocol.PostBodyInvalid{Message: err.Error()})
		}
		req.Body = body
	}

	return req, nil
}
