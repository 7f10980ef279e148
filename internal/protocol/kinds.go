package protocol

import (
	"fmt"
	"net/http"
)

// Authentication is the Service kind for a missing or invalid credential.
type Authentication struct{}

// Status implements Kind.
func (Authentication) Status() int { return http.StatusUnauthorized }

func (Authentication) family() string   { return "Service" }
func (Authentication) wireValue() any   { return "Authentication" }
func (Authentication) describe() string { return "authentication error" }

// Authorization is the Service kind for an authenticated but unauthorized
// caller.
type Authorization struct{}

// Status implements Kind.
func (Authorization) Status() int { return http.StatusForbidden }

func (Authorization) family() string   { return "Service" }
func (Authorization) wireValue() any   { return "Authorization" }
func (Authorization) describe() string { return "not authorized" }

// Internal is the Service kind for an internal handler failure.
type Internal struct {
	Message string
}

// Status implements Kind.
func (Internal) Status() int { return http.StatusInternalServerError }

func (Internal) family() string { return "Service" }
func (i Internal) wireValue() any {
	return map[string]any{"Internal": i.Message}
}
func (i Internal) describe() string { return "internal server error: " + i.Message }

// runtimeKind marks the Runtime family and carries the shared plumbing.
type runtimeKind struct{}

func (runtimeKind) family() string { return "Runtime" }

// NoServiceMounted is raised when no mount point's root prefix matches the
// request path at all.
type NoServiceMounted struct{ runtimeKind }

// Status implements Kind.
func (NoServiceMounted) Status() int { return http.StatusNotFound }

func (NoServiceMounted) wireValue() any   { return "NoServiceMounted" }
func (NoServiceMounted) describe() string { return "no service mounted" }

// ServiceMountsAmbiguous is raised when two mount points collide at the same
// root. Mounting happens dynamically at server startup, so the condition is
// a configuration fault reported at runtime; it is never request-dependent.
type ServiceMountsAmbiguous struct{ runtimeKind }

// Status implements Kind.
func (ServiceMountsAmbiguous) Status() int { return http.StatusInternalServerError }

func (ServiceMountsAmbiguous) wireValue() any   { return "ServiceMountsAmbiguous" }
func (ServiceMountsAmbiguous) describe() string { return "service mounts ambiguous" }

// NoRouteMountedInService is raised when a mount point matched but no route
// of the mounted service matches the remaining path.
type NoRouteMountedInService struct {
	runtimeKind
	Service string
}

// Status implements Kind.
func (NoRouteMountedInService) Status() int { return http.StatusNotFound }

func (k NoRouteMountedInService) wireValue() any {
	return map[string]any{"NoRouteMountedInService": map[string]any{"service": k.Service}}
}
func (k NoRouteMountedInService) describe() string {
	return fmt.Sprintf("no route mounted in service %s", k.Service)
}

// RouteMountsAmbiguous is raised when two routes of dynamically mounted
// services collide.
type RouteMountsAmbiguous struct {
	runtimeKind
	Service string
}

// Status implements Kind.
func (RouteMountsAmbiguous) Status() int { return http.StatusInternalServerError }

func (k RouteMountsAmbiguous) wireValue() any {
	return map[string]any{"RouteMountsAmbiguous": map[string]any{"service": k.Service}}
}
func (k RouteMountsAmbiguous) describe() string {
	return fmt.Sprintf("route mounts ambiguous in service %s", k.Service)
}

// RouteParamInvalid is raised when a path component fails to parse into the
// declared parameter type. It fails the request, never the compile.
type RouteParamInvalid struct {
	runtimeKind
	ParamName  string
	ParseError string
}

// Status implements Kind.
func (RouteParamInvalid) Status() int { return http.StatusBadRequest }

func (k RouteParamInvalid) wireValue() any {
	return map[string]any{"RouteParamInvalid": map[string]any{
		"param_name":  k.ParamName,
		"parse_error": k.ParseError,
	}}
}
func (k RouteParamInvalid) describe() string {
	return fmt.Sprintf("invalid route parameter %q: %s", k.ParamName, k.ParseError)
}

// QueryInvalid is raised when the URL query fails to decode into the
// endpoint's query type.
type QueryInvalid struct {
	runtimeKind
	Message string
}

// Status implements Kind.
func (QueryInvalid) Status() int { return http.StatusBadRequest }

func (k QueryInvalid) wireValue() any {
	return map[string]any{"QueryInvalid": k.Message}
}
func (k QueryInvalid) describe() string { return "invalid query: " + k.Message }

// PostBodyReadError is raised when the request body cannot be read.
type PostBodyReadError struct {
	runtimeKind
	Message string
}

// Status implements Kind.
func (PostBodyReadError) Status() int { return http.StatusBadRequest }

func (k PostBodyReadError) wireValue() any {
	return map[string]any{"PostBodyReadError": k.Message}
}
func (k PostBodyReadError) describe() string { return "cannot read body: " + k.Message }

// PostBodyInvalid is raised when the request body fails to decode into the
// endpoint's body type.
type PostBodyInvalid struct {
	runtimeKind
	Message string
}

// Status implements Kind.
func (PostBodyInvalid) Status() int { return http.StatusBadRequest }

func (k PostBodyInvalid) wireValue() any {
	return map[string]any{"PostBodyInvalid": k.Message}
}
func (k PostBodyInvalid) describe() string { return "invalid body: " + k.Message }

// SerializeHandlerResponse is raised when a handler's successful response
// fails to serialize.
type SerializeHandlerResponse struct {
	runtimeKind
	Message string
}

// Status implements Kind.
func (SerializeHandlerResponse) Status() int { return http.StatusInternalServerError }

func (k SerializeHandlerResponse) wireValue() any {
	return map[string]any{"SerializeHandlerResponse": k.Message}
}
func (k SerializeHandlerResponse) describe() string {
	return "cannot serialize handler response: " + k.Message
}

// SerializeErrorResponse is raised when an error envelope itself fails to
// serialize.
type SerializeErrorResponse struct {
	runtimeKind
	Message string
}

// Status implements Kind.
func (SerializeErrorResponse) Status() int { return http.StatusInternalServerError }

func (k SerializeErrorResponse) wireValue() any {
	return map[string]any{"SerializeErrorResponse": k.Message}
}
func (k SerializeErrorResponse) describe() string {
	return "cannot serialize error response: " + k.Message
}
