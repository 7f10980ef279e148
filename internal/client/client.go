// Package client implements the call side of the humble HTTP contract:
// request building from endpoint bindings, the version handshake, and the
// error taxonomy callers use for differentiated recovery.
package client

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/49nord/humble/internal/codec"
	"github.com/49nord/humble/internal/ir"
	"github.com/49nord/humble/internal/protocol"
)

// Client calls humble services over HTTP.
type Client struct {
	base       string
	httpClient *http.Client
	version    string
	credential string
	strict     bool
	codec      *codec.Codec
	logger     zerolog.Logger
}

// Options configures a Client.
type Options struct {
	// BaseURL is the server address including any mount root.
	BaseURL string
	// Version is the client's declared version string, compared against
	// the server's backend-version header.
	Version string
	// Credential is sent in the authorization header when non-empty.
	Credential string
	// StrictVersionCheck surfaces a version mismatch even when a 200
	// response decodes successfully.
	StrictVersionCheck bool
	// HTTPClient overrides the default transport, e.g. to set a
	// per-request deadline.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// New creates a client for services of the given module.
func New(module *ir.Module, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		base:       strings.TrimRight(opts.BaseURL, "/"),
		httpClient: httpClient,
		version:    opts.Version,
		credential: opts.Credential,
		strict:     opts.StrictVersionCheck,
		codec:      codec.New(module),
		logger:     opts.Logger,
	}
}

// Call identifies one endpoint invocation.
type Call struct {
	Endpoint *ir.Endpoint
	// Params maps route parameter names to typed values.
	Params map[string]any
	// Query holds raw query values for endpoints declaring a query type.
	Query url.Values
	// Body is the body value for endpoints declaring one.
	Body any
}

// Info carries response metadata exposed to callers independent of success
// or failure, for log correlation.
type Info struct {
	RequestID     string
	ServerVersion string
}

// Do performs one call and decodes the response value.
func (c *Client) Do(ctx context.Context, call Call) (any, *Info, error) {
	ep := call.Endpoint

	target, err := c.buildURL(ep, call)
	if err != nil {
		return nil, nil, &Error{Class: ClassLocal, Message: "cannot build request URL", Err: err}
	}

	var body io.Reader
	if ep.Body != nil {
		data, err := c.codec.Encode(ep.Body, call.Body)
		if err != nil {
			return nil, nil, &Error{Class: ClassLocal, Message: "cannot encode request body", Err: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, ep.Method, target, body)
	if err != nil {
		return nil, nil, &Error{Class: ClassLocal, Message: "cannot build request", Err: err}
	}
	if ep.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.credential != "" {
		req.Header.Set(protocol.HeaderAuthorization, c.credential)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, &Error{Class: ClassTransport, Message: "request failed", Err: err}
	}
	defer resp.Body.Close()

	info := &Info{
		RequestID:     resp.Header.Get(protocol.HeaderRequestID),
		ServerVersion: resp.Header.Get(protocol.HeaderBackendVersion),
	}
	c.logger.Debug().
		Str("request_id", info.RequestID).
		Int("status", resp.StatusCode).
		Msg("received response")

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, info, &Error{Class: ClassTransport, Message: "cannot read response body", Err: err}
	}

	value, callErr := c.classify(ep, resp.StatusCode, info, data)
	return value, info, callErr
}

// classify implements the response-side contract: decode on success,
// version skew in preference to status-derived classification, and the
// remaining client error classes otherwise.
func (c *Client) classify(ep *ir.Endpoint, status int, info *Info, data []byte) (any, error) {
	mismatch := !protocol.VersionEqual(c.version, info.ServerVersion)

	if status == http.StatusOK {
		value, err := c.codec.Decode(ep.Response, data)
		if err == nil {
			// a decodable 200 suppresses a version mismatch unless
			// strict checking is requested
			if mismatch && c.strict {
				return nil, &Error{Class: ClassVersion, Message: versionMessage(c.version, info.ServerVersion)}
			}
			return value, nil
		}
		if mismatch {
			return nil, &Error{Class: ClassVersion, Message: versionMessage(c.version, info.ServerVersion), Err: err}
		}
		return nil, &Error{Class: ClassLocal, Message: "cannot decode response body", Err: err}
	}

	if mismatch {
		return nil, &Error{Class: ClassVersion, Message: versionMessage(c.version, info.ServerVersion), Status: status}
	}

	env, err := protocol.DecodeEnvelope(data)
	if err != nil {
		return nil, &Error{Class: ClassLocal, Message: "undecodable error response", Status: status, Err: err}
	}
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, &Error{Class: ClassAuth, Message: env.Variant, Status: status}
	default:
		return nil, &Error{Class: ClassBadStatus, Message: env.Variant, Status: status}
	}
}

// buildURL renders the endpoint's path template with the call's typed
// parameter values.
func (c *Client) buildURL(ep *ir.Endpoint, call Call) (string, error) {
	var b strings.Builder
	b.WriteString(c.base)
	if len(ep.Route) == 0 {
		b.WriteByte('/')
	}
	for _, seg := range ep.Route {
		b.WriteByte('/')
		if !seg.IsParam() {
			b.WriteString(seg.Literal)
			continue
		}
		value, ok := call.Params[seg.Param.Name]
		if !ok {
			return "", &Error{Class: ClassLocal, Message: "missing route parameter " + seg.Param.Name}
		}
		s, err := codec.FormatScalar(seg.Param.Type.(ir.Builtin), value)
		if err != nil {
			return "", err
		}
		b.WriteString(url.PathEscape(s))
	}
	if ep.Query != nil && len(call.Query) > 0 {
		b.WriteByte('?')
		b.WriteString(call.Query.Encode())
	}
	return b.String(), nil
}

func versionMessage(client, server string) string {
	return "server version " + server + " does not match client version " + client
}
