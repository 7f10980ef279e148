package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/49nord/humble/internal/ir"
	"github.com/49nord/humble/internal/protocol"
	"github.com/49nord/humble/internal/testutil"
)

func findEndpoint(t *testing.T, module *ir.Module, method string, segments int) *ir.Endpoint {
	t.Helper()
	svc := module.Services()[0]
	for i := range svc.Endpoints {
		ep := &svc.Endpoints[i]
		if ep.Method == method && len(ep.Route) == segments {
			return ep
		}
	}
	t.Fatalf("no %s endpoint with %d segments", method, segments)
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts Options) (*Client, *ir.Module, func()) {
	t.Helper()
	module := testutil.MustCompile(t, testutil.MonsterSchema)
	srv := httptest.NewServer(handler)
	opts.BaseURL = srv.URL
	if opts.Version == "" {
		opts.Version = "1.2.0"
	}
	opts.Logger = zerolog.Nop()
	return New(module, opts), module, srv.Close
}

func respond(w http.ResponseWriter, version string, status int, body string) {
	w.Header().Set(protocol.HeaderBackendVersion, version)
	w.Header().Set(protocol.HeaderRequestID, "req-1")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestDoSuccess(t *testing.T) {
	var gotPath, gotAuth string
	c, module, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.String()
		gotAuth = r.Header.Get(protocol.HeaderAuthorization)
		respond(w, "1.2.0", http.StatusOK, `[]`)
	}, Options{Credential: "secret"})
	defer done()

	ep := findEndpoint(t, module, "GET", 1)
	value, info, err := c.Do(context.Background(), Call{
		Endpoint: ep,
		Query:    url.Values{"name": {"imp"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []any{}, value)
	assert.Equal(t, "req-1", info.RequestID)
	assert.Equal(t, "1.2.0", info.ServerVersion)
	assert.Equal(t, "/monsters?name=imp", gotPath)
	assert.Equal(t, "secret", gotAuth)
}

func TestDoBuildsParamURL(t *testing.T) {
	var gotPath string
	c, module, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		respond(w, "1.2.0", http.StatusOK, `null`)
	}, Options{})
	defer done()

	ep := findEndpoint(t, module, "DELETE", 2)
	id := "7380bd5f-c42a-4155-9aec-2592b0c1c95f"
	_, _, err := c.Do(context.Background(), Call{
		Endpoint: ep,
		Params:   map[string]any{"id": mustUUID(t, id)},
	})
	require.NoError(t, err)
	assert.Equal(t, "/monsters/"+id, gotPath)
}

func TestDoMissingParamIsLocal(t *testing.T) {
	c, module, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	}, Options{})
	defer done()

	ep := findEndpoint(t, module, "DELETE", 2)
	_, _, err := c.Do(context.Background(), Call{Endpoint: ep})

	var callErr *Error
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, ClassLocal, callErr.Class)
}

func TestDoAuthError(t *testing.T) {
	c, module, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, "1.2.0", http.StatusForbidden, `{"code":403,"kind":{"Service":"Authorization"}}`)
	}, Options{})
	defer done()

	ep := findEndpoint(t, module, "GET", 1)
	_, info, err := c.Do(context.Background(), Call{Endpoint: ep})

	var callErr *Error
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, ClassAuth, callErr.Class)
	assert.Equal(t, http.StatusForbidden, callErr.Status)
	assert.Equal(t, "Authorization", callErr.Message)
	assert.Equal(t, "req-1", info.RequestID)
}

func TestDoVersionMismatchPreferredOverStatus(t *testing.T) {
	c, module, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, "2.0.0", http.StatusForbidden, `{"code":403,"kind":{"Service":"Authorization"}}`)
	}, Options{})
	defer done()

	ep := findEndpoint(t, module, "GET", 1)
	_, _, err := c.Do(context.Background(), Call{Endpoint: ep})

	var callErr *Error
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, ClassVersion, callErr.Class)
}

func TestDoDirtyVersionsCompareEqual(t *testing.T) {
	c, module, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, "1.2.0-modified", http.StatusOK, `[]`)
	}, Options{StrictVersionCheck: true})
	defer done()

	ep := findEndpoint(t, module, "GET", 1)
	_, _, err := c.Do(context.Background(), Call{Endpoint: ep})
	require.NoError(t, err)
}

func TestDoDecodableMismatchSuppressedByDefault(t *testing.T) {
	c, module, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, "2.0.0", http.StatusOK, `[]`)
	}, Options{})
	defer done()

	ep := findEndpoint(t, module, "GET", 1)
	value, _, err := c.Do(context.Background(), Call{Endpoint: ep})
	require.NoError(t, err)
	assert.Equal(t, []any{}, value)
}

func TestDoStrictVersionCheck(t *testing.T) {
	c, module, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, "2.0.0", http.StatusOK, `[]`)
	}, Options{StrictVersionCheck: true})
	defer done()

	ep := findEndpoint(t, module, "GET", 1)
	_, _, err := c.Do(context.Background(), Call{Endpoint: ep})

	var callErr *Error
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, ClassVersion, callErr.Class)
}

func TestDoUndecodableSuccessWithMismatchIsVersion(t *testing.T) {
	c, module, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, "2.0.0", http.StatusOK, `{"shape":"changed"}`)
	}, Options{})
	defer done()

	ep := findEndpoint(t, module, "GET", 1)
	_, _, err := c.Do(context.Background(), Call{Endpoint: ep})

	var callErr *Error
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, ClassVersion, callErr.Class)
}

func TestDoUndecodableSuccessSameVersionIsLocal(t *testing.T) {
	c, module, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, "1.2.0", http.StatusOK, `{"shape":"wrong"}`)
	}, Options{})
	defer done()

	ep := findEndpoint(t, module, "GET", 1)
	_, _, err := c.Do(context.Background(), Call{Endpoint: ep})

	var callErr *Error
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, ClassLocal, callErr.Class)
}

func TestDoBadStatus(t *testing.T) {
	c, module, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, "1.2.0", http.StatusNotFound, `{"code":404,"kind":{"Runtime":"NoServiceMounted"}}`)
	}, Options{})
	defer done()

	ep := findEndpoint(t, module, "GET", 1)
	_, _, err := c.Do(context.Background(), Call{Endpoint: ep})

	var callErr *Error
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, ClassBadStatus, callErr.Class)
	assert.Equal(t, "NoServiceMounted", callErr.Message)
}

func TestDoUndecodableErrorBodyIsLocal(t *testing.T) {
	c, module, done := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		respond(w, "1.2.0", http.StatusBadGateway, `<html>gateway error</html>`)
	}, Options{})
	defer done()

	ep := findEndpoint(t, module, "GET", 1)
	_, _, err := c.Do(context.Background(), Call{Endpoint: ep})

	var callErr *Error
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, ClassLocal, callErr.Class)
	assert.Equal(t, http.StatusBadGateway, callErr.Status)
}

func TestDoTransportError(t *testing.T) {
	module := testutil.MustCompile(t, testutil.MonsterSchema)
	c := New(module, Options{
		BaseURL: "http://127.0.0.1:1",
		Version: "1.2.0",
		Logger:  zerolog.Nop(),
	})

	ep := findEndpoint(t, module, "GET", 1)
	_, _, err := c.Do(context.Background(), Call{Endpoint: ep})

	var callErr *Error
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, ClassTransport, callErr.Class)
}

func TestErrorString(t *testing.T) {
	err := &Error{Class: ClassAuth, Message: "Authorization", Status: 403}
	assert.Equal(t, "auth: Authorization", err.Error())
	assert.Equal(t, "version", ClassVersion.String())
}

func mustUUID(t *testing.T, s string) any {
	t.Helper()
	return uuid.MustParse(s)
}
