package protocol

import (
	"net/http"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func marshal(t *testing.T, k Kind) string {
	t.Helper()
	data, err := json.Marshal(Respond(k))
	require.NoError(t, err)
	return string(data)
}

func TestEnvelopeServiceKinds(t *testing.T) {
	assert.Equal(t,
		`{"code":401,"kind":{"Service":"Authentication"}}`,
		marshal(t, Authentication{}))
	assert.Equal(t,
		`{"code":403,"kind":{"Service":"Authorization"}}`,
		marshal(t, Authorization{}))
	assert.Equal(t,
		`{"code":500,"kind":{"Service":{"Internal":"db down"}}}`,
		marshal(t, Internal{Message: "db down"}))
}

func TestEnvelopeRuntimeKinds(t *testing.T) {
	assert.Equal(t,
		`{"code":404,"kind":{"Runtime":"NoServiceMounted"}}`,
		marshal(t, NoServiceMounted{}))
	assert.Equal(t,
		`{"code":500,"kind":{"Runtime":"ServiceMountsAmbiguous"}}`,
		marshal(t, ServiceMountsAmbiguous{}))
	assert.Equal(t,
		`{"code":404,"kind":{"Runtime":{"NoRouteMountedInService":{"service":"Api"}}}}`,
		marshal(t, NoRouteMountedInService{Service: "Api"}))
	assert.Equal(t,
		`{"code":400,"kind":{"Runtime":{"RouteParamInvalid":{"param_name":"id","parse_error":"invalid UUID length: 4"}}}}`,
		marshal(t, RouteParamInvalid{ParamName: "id", ParseError: "invalid UUID length: 4"}))
	assert.Equal(t,
		`{"code":400,"kind":{"Runtime":{"QueryInvalid":"bad query"}}}`,
		marshal(t, QueryInvalid{Message: "bad query"}))
	assert.Equal(t,
		`{"code":400,"kind":{"Runtime":{"PostBodyInvalid":"bad body"}}}`,
		marshal(t, PostBodyInvalid{Message: "bad body"}))
}

func TestKindStatuses(t *testing.T) {
	assert.Equal(t, http.StatusUnauthorized, Authentication{}.Status())
	assert.Equal(t, http.StatusForbidden, Authorization{}.Status())
	assert.Equal(t, http.StatusInternalServerError, Internal{}.Status())
	assert.Equal(t, http.StatusNotFound, NoServiceMounted{}.Status())
	assert.Equal(t, http.StatusInternalServerError, ServiceMountsAmbiguous{}.Status())
	assert.Equal(t, http.StatusNotFound, NoRouteMountedInService{}.Status())
	assert.Equal(t, http.StatusInternalServerError, RouteMountsAmbiguous{}.Status())
	assert.Equal(t, http.StatusBadRequest, RouteParamInvalid{}.Status())
	assert.Equal(t, http.StatusBadRequest, QueryInvalid{}.Status())
	assert.Equal(t, http.StatusBadRequest, PostBodyReadError{}.Status())
	assert.Equal(t, http.StatusBadRequest, PostBodyInvalid{}.Status())
	assert.Equal(t, http.StatusInternalServerError, SerializeHandlerResponse{}.Status())
	assert.Equal(t, http.StatusInternalServerError, SerializeErrorResponse{}.Status())
}

func TestRespondCarriesStatus(t *testing.T) {
	resp := Respond(Authorization{})
	assert.Equal(t, 403, resp.Code)
	assert.Equal(t, "Forbidden: not authorized", resp.Error())
}

func TestDecodeEnvelopeUnitKind(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"code":403,"kind":{"Service":"Authorization"}}`))
	require.NoError(t, err)
	assert.Equal(t, 403, env.Code)
	assert.Equal(t, "Service", env.Family)
	assert.Equal(t, "Authorization", env.Variant)
	assert.Empty(t, env.Detail)
}

func TestDecodeEnvelopePayloadKind(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"code":400,"kind":{"Runtime":{"RouteParamInvalid":{"param_name":"id","parse_error":"nope"}}}}`))
	require.NoError(t, err)
	assert.Equal(t, "Runtime", env.Family)
	assert.Equal(t, "RouteParamInvalid", env.Variant)
	assert.JSONEq(t, `{"param_name":"id","parse_error":"nope"}`, string(env.Detail))
}

func TestDecodeEnvelopeRoundTrip(t *testing.T) {
	data, err := json.Marshal(Respond(NoRouteMountedInService{Service: "Api"}))
	require.NoError(t, err)

	env, err := DecodeEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, 404, env.Code)
	assert.Equal(t, "NoRouteMountedInService", env.Variant)
}

func TestDecodeEnvelopeMalformed(t *testing.T) {
	_, err := DecodeEnvelope([]byte(`not json`))
	assert.Error(t, err)

	_, err = DecodeEnvelope([]byte(`{"code":400,"kind":{}}`))
	assert.Error(t, err)

	_, err = DecodeEnvelope([]byte(`{"code":400,"kind":{"Unknown":"X"}}`))
	assert.Error(t, err)

	_, err = DecodeEnvelope([]byte(`{"code":400,"kind":{"Runtime":42}}`))
	assert.Error(t, err)
}

func TestVersionEqual(t *testing.T) {
	assert.True(t, VersionEqual("1.2.0", "1.2.0"))
	assert.True(t, VersionEqual("1.2.0", "1.2.0-modified"))
	assert.True(t, VersionEqual("1.2.0-modified", "1.2.0"))
	assert.True(t, VersionEqual("1.2.0-modified", "1.2.0-modified"))
	assert.False(t, VersionEqual("1.2.0", "1.2.1"))
	assert.False(t, VersionEqual("1.2.0-modified", "1.2.1"))
}
