package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nubarte/marketplace-client/api"
	apperrors "github.com/nubarte/marketplace-client/internal/errors"
	"github.com/nubarte/marketplace-client/internal/utils"
)

type capturedRequest struct {
	path    string
	body    map[string]any
	headers http.Header
}

type clientFixture struct {
	client *api.Client

	lock       sync.Mutex
	requests   []capturedRequest
	respStatus int
	respBody   string
}

func setupClientFixture(t *testing.T) *clientFixture {
	t.Helper()

	f := &clientFixture{respStatus: http.StatusOK, respBody: "{}"}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.lock.Lock()
		f.requests = append(f.requests, capturedRequest{path: r.URL.Path, body: body, headers: r.Header.Clone()})
		status, payload := f.respStatus, f.respBody
		f.lock.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(payload))
	}))
	t.Cleanup(server.Close)

	f.client = api.NewClient(server.URL, api.WithDeviceID("device-1"))
	return f
}

func (f *clientFixture) respond(status int, body string) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.respStatus = status
	f.respBody = body
}

func (f *clientFixture) lastRequest(t *testing.T) capturedRequest {
	t.Helper()
	f.lock.Lock()
	defer f.lock.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func TestLoginSendsSpanishFieldNames(t *testing.T) {
	f := setupClientFixture(t)
	f.respond(http.StatusOK, `{"access_token":"tok","usuario":{"id":7,"nombre":"María","correo":"maria@example.com"}}`)

	res, err := f.client.Login(context.Background(), "maria@example.com", "secreta")
	require.NoError(t, err)

	req := f.lastRequest(t)
	require.Equal(t, api.EndpointLogin, req.path)
	require.Equal(t, "maria@example.com", req.body["correo"])
	require.Equal(t, "secreta", req.body["contrasena"])

	require.Equal(t, "tok", res.BearerToken())
	require.Equal(t, 7, res.Usuario.ID)
}

func TestRequestsCarryDeviceAndRequestIDs(t *testing.T) {
	f := setupClientFixture(t)

	_, err := f.client.Login(context.Background(), "a@b.c", "x")
	require.NoError(t, err)

	req := f.lastRequest(t)
	require.Equal(t, "device-1", req.headers.Get("X-Device-Id"))
	require.NotEmpty(t, req.headers.Get("X-Request-Id"))
	require.Equal(t, "application/json", req.headers.Get("Content-Type"))
}

func TestLegacyTokenFieldDecodes(t *testing.T) {
	f := setupClientFixture(t)
	f.respond(http.StatusOK, `{"token":"legacy-tok"}`)

	res, err := f.client.Login(context.Background(), "a@b.c", "x")
	require.NoError(t, err)
	require.Equal(t, "legacy-tok", res.BearerToken())
}

func TestErrorPayloadDecodesIntoTypedError(t *testing.T) {
	f := setupClientFixture(t)
	f.respond(http.StatusUnauthorized, `{"message":"Contraseña incorrecta","attemptsRemaining":2}`)

	_, err := f.client.Login(context.Background(), "a@b.c", "bad")
	require.Error(t, err)

	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
	require.Equal(t, "Contraseña incorrecta", apiErr.Message)
	require.NotNil(t, apiErr.AttemptsRemaining)
	require.Equal(t, 2, *apiErr.AttemptsRemaining)
}

func TestUndecodableErrorBodyStillCarriesStatus(t *testing.T) {
	f := setupClientFixture(t)
	f.respond(http.StatusBadGateway, `upstream says no`)

	_, err := f.client.CheckSession(context.Background())
	apiErr, ok := api.AsError(err)
	require.True(t, ok)
	require.Equal(t, http.StatusBadGateway, apiErr.Status)
}

func TestSessionFatalCodes(t *testing.T) {
	fatal := &api.Error{Status: http.StatusUnauthorized, Code: api.CodeSessionRevoked}
	require.True(t, fatal.SessionFatal())

	fatal.Code = api.CodeTokenExpired
	require.True(t, fatal.SessionFatal())

	plain := &api.Error{Status: http.StatusUnauthorized}
	require.False(t, plain.SessionFatal())

	wrongStatus := &api.Error{Status: http.StatusForbidden, Code: api.CodeSessionRevoked}
	require.False(t, wrongStatus.SessionFatal())
}

func TestSentinelMapping(t *testing.T) {
	cases := []struct {
		apiErr   *api.Error
		sentinel error
	}{
		{&api.Error{Status: http.StatusUnauthorized, Code: api.CodeSessionRevoked}, apperrors.ErrSessionRevoked},
		{&api.Error{Status: http.StatusUnauthorized, Code: api.CodeTokenExpired}, apperrors.ErrTokenExpired},
		{&api.Error{Status: http.StatusUnauthorized, AttemptsRemaining: utils.Ptr(2)}, apperrors.ErrInvalidCredentials},
		{&api.Error{Status: http.StatusUnauthorized}, apperrors.ErrSessionInvalid},
		{&api.Error{Status: http.StatusForbidden, Blocked: true}, apperrors.ErrAccountBlocked},
		{&api.Error{Status: http.StatusTooManyRequests}, apperrors.ErrAccountBlocked},
		{&api.Error{Status: http.StatusForbidden}, apperrors.ErrForbidden},
		{&api.Error{Status: http.StatusNotFound}, apperrors.ErrNotFound},
		{&api.Error{Status: http.StatusInternalServerError}, apperrors.ErrServerError},
		{&api.Error{Status: http.StatusBadGateway}, apperrors.ErrServerError},
		{&api.Error{Status: http.StatusBadRequest}, apperrors.ErrTransport},
	}
	for _, c := range cases {
		require.ErrorIs(t, c.apiErr, c.sentinel, c.apiErr.Error())
	}
}

func TestVerifyEmailSendsCode(t *testing.T) {
	f := setupClientFixture(t)

	_, err := f.client.VerifyEmail(context.Background(), "maria@example.com", "123456")
	require.NoError(t, err)

	req := f.lastRequest(t)
	require.Equal(t, api.EndpointVerifyEmail, req.path)
	require.Equal(t, "123456", req.body["codigo"])
}

func TestRecoveryCallsCarrySpanishFields(t *testing.T) {
	f := setupClientFixture(t)
	f.respond(http.StatusOK, `{"message":"enviado","attemptsRemaining":1}`)

	res, err := f.client.RequestRecoveryCode(context.Background(), "maria@example.com")
	require.NoError(t, err)
	require.Equal(t, "enviado", res.Message)
	require.Equal(t, 1, utils.Value(res.AttemptsRemaining))

	req := f.lastRequest(t)
	require.Equal(t, api.EndpointForgotPassword, req.path)
	require.Equal(t, "maria@example.com", req.body["correo"])

	_, err = f.client.ResetPassword(context.Background(), "maria@example.com", "123456", "Nuev@Pass1")
	require.NoError(t, err)
	req = f.lastRequest(t)
	require.Equal(t, api.EndpointResetPassword, req.path)
	require.Equal(t, "123456", req.body["codigo"])
	require.Equal(t, "Nuev@Pass1", req.body["contrasena"])
}

func TestEmail2FASetupEndpointsAreNotPublic(t *testing.T) {
	require.False(t, api.IsPublicPath(api.EndpointConfigureEmail2FA))
	require.False(t, api.IsPublicPath(api.EndpointVerifyEmail2FA))
}

func TestIsPublicPath(t *testing.T) {
	require.True(t, api.IsPublicPath(api.EndpointLogin))
	require.True(t, api.IsPublicPath(api.EndpointRegister))
	require.True(t, api.IsPublicPath(api.EndpointVerifyLoginCode))
	require.False(t, api.IsPublicPath(api.EndpointCheckSession))
	require.False(t, api.IsPublicPath(api.EndpointCloseOtherSessions))
	require.False(t, api.IsPublicPath("/api/orders"))
}
