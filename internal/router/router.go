// Package router compiles service declarations into an unambiguous dispatch
// structure.
//
// Compilation happens once per schema: every endpoint becomes a compiled
// route whose segments are exact-match literal nodes or typed wildcard
// nodes. Ambiguity between two endpoints of one service is a static
// property of the schema and is detected exhaustively (pairwise) at compile
// time; it never surfaces as a per-request condition.
//
// The compiled table is immutable and safe for unsynchronized concurrent
// reads by any number of request-handling workers.
package router

import (
	"fmt"
	"strings"

	"github.com/49nord/humble/internal/ir"
)

// RouteAmbiguityError reports two endpoint patterns of one service that
// could both match an overlapping set of concrete request paths.
type RouteAmbiguityError struct {
	Service  string `json:"service"`
	Method   string `json:"method"`
	PatternA string `json:"pattern_a"`
	PatternB string `json:"pattern_b"`
}

// Error implements the error interface.
func (e *RouteAmbiguityError) Error() string {
	return fmt.Sprintf("service %s: ambiguous routes %s %s and %s %s",
		e.Service, e.Method, e.PatternA, e.Method, e.PatternB)
}

// Route is one compiled endpoint route.
type Route struct {
	Method   string
	Segments []ir.Segment
	Endpoint *ir.Endpoint
}

// Pattern renders the route pattern in schema syntax.
func (r *Route) Pattern() string { return ir.PatternString(r.Segments) }

// Service is the compiled dispatch structure of one service declaration.
type Service struct {
	Name   string
	Routes []*Route
}

// Table holds the compiled dispatch structures of every service in a
// module, in declaration order.
type Table struct {
	Services []*Service
}

// Compile builds the dispatch table for every service of the module,
// rejecting ambiguous route pairs.
func Compile(module *ir.Module) (*Table, error) {
	table := &Table{}
	for _, decl := range module.Services() {
		svc, err := compileService(decl)
		if err != nil {
			return nil, err
		}
		table.Services = append(table.Services, svc)
	}
	return table, nil
}

// Lookup returns the compiled service with the given name.
func (t *Table) Lookup(name string) (*Service, bool) {
	for _, svc := range t.Services {
		if svc.Name == name {
			return svc, true
		}
	}
	return nil, false
}

func compileService(decl *ir.ServiceDecl) (*Service, error) {
	svc := &Service{Name: decl.Name}
	for i := range decl.Endpoints {
		ep := &decl.Endpoints[i]
		svc.Routes = append(svc.Routes, &Route{
			Method:   ep.Method,
			Segments: ep.Route,
			Endpoint: ep,
		})
	}

	// exhaustive pairwise ambiguity check
	for i := 0; i < len(svc.Routes); i++ {
		for j := i + 1; j < len(svc.Routes); j++ {
			a, b := svc.Routes[i], svc.Routes[j]
			if a.Method != b.Method {
				continue
			}
			if ambiguous(a.Segments, b.Segments) {
				return nil, &RouteAmbiguityError{
					Service:  decl.Name,
					Method:   a.Method,
					PatternA: a.Pattern(),
					PatternB: b.Pattern(),
				}
			}
		}
	}
	return svc, nil
}

// ambiguous reports whether two same-method patterns could match an
// overlapping set of concrete paths. A position discriminates only when
// both sides carry distinct literals: a parameter matches any literal the
// other side could match. Patterns of different segment counts never
// overlap, since matching requires an exact segment-count split.
func ambiguous(a, b []ir.Segment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].IsParam() || b[i].IsParam() {
			continue
		}
		if a[i].Literal != b[i].Literal {
			return false
		}
	}
	return true
}

// Match finds the route whose segment count and literals match the given
// concrete path segments. Parameter values are returned raw; typed parsing
// is the caller's concern so that a parse failure can fail the request
// rather than the lookup. The boolean reports whether any route matched.
func (s *Service) Match(method string, segments []string) (*Route, map[string]string, bool) {
	for _, route := range s.Routes {
		if route.Method != method || len(route.Segments) != len(segments) {
			continue
		}
		params, ok := matchSegments(route.Segments, segments)
		if ok {
			return route, params, true
		}
	}
	return nil, nil, false
}

func matchSegments(pattern []ir.Segment, concrete []string) (map[string]string, bool) {
	var params map[string]string
	for i, seg := range pattern {
		if seg.IsParam() {
			if params == nil {
				params = make(map[string]string)
			}
			params[seg.Param.Name] = concrete[i]
			continue
		}
		if seg.Literal != concrete[i] {
			return nil, false
		}
	}
	return params, true
}

// Matched pairs a route with the raw parameter values captured from a
// concrete path.
type Matched struct {
	Route  *Route
	Params map[string]string
}

// MatchAll returns every route whose segment count and literals match. With
// a statically compiled table at most one route matches; dynamically merged
// mounts can produce more, which the server reports as a mount collision.
func (s *Service) MatchAll(method string, segments []string) []Matched {
	var out []Matched
	for _, route := range s.Routes {
		if route.Method != method || len(route.Segments) != len(segments) {
			continue
		}
		if params, ok := matchSegments(route.Segments, segments); ok {
			out = append(out, Matched{Route: route, Params: params})
		}
	}
	return out
}

// SplitPath splits a concrete URL path into segments. The root path yields
// no segments.
func SplitPath(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}
