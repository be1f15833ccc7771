package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Client is the typed HTTP client for the marketplace auth API. Attach an
// *Authenticator transport to the underlying http.Client to get bearer
// handling and session-fatal error interception.
type Client struct {
	baseURL    string
	httpClient *http.Client
	deviceID   string
}

// Option configures the Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client (and with it the
// transport chain).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		c.httpClient = h
	}
}

// WithDeviceID pins the per-install device identifier sent on every request.
func WithDeviceID(id string) Option {
	return func(c *Client) {
		c.deviceID = id
	}
}

// NewClient creates a Client for the given base URL.
func NewClient(baseURL string, options ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		deviceID:   uuid.New().String(),
	}
	for _, option := range options {
		option(c)
	}
	return c
}

// Login submits credentials. The response covers success, blocked and
// requires-2FA outcomes; rejections arrive as *Error.
func (c *Client) Login(ctx context.Context, correo, contrasena string) (*LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"correo": correo, "contrasena": contrasena}
	if err := c.post(ctx, EndpointLogin, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckSession re-confirms the current session against the server.
func (c *Client) CheckSession(ctx context.Context) (*CheckSessionResponse, error) {
	var out CheckSessionResponse
	if err := c.post(ctx, EndpointCheckSession, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyLoginCode completes an email-code second-factor challenge. On success
// the payload matches a full login success.
func (c *Client) VerifyLoginCode(ctx context.Context, correo, codigo string) (*LoginResponse, error) {
	var out LoginResponse
	body := map[string]string{"correo": correo, "codigo": codigo}
	if err := c.post(ctx, EndpointVerifyLoginCode, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendLoginCode requests a fresh login code dispatch to the pending email.
func (c *Client) ResendLoginCode(ctx context.Context, correo string) error {
	var out SimpleResponse
	return c.post(ctx, EndpointResendLoginCode, map[string]string{"correo": correo}, &out)
}

// CloseOtherSessions revokes every session except the current one.
func (c *Client) CloseOtherSessions(ctx context.Context) (*CloseOtherSessionsResponse, error) {
	var out CloseOtherSessionsResponse
	if err := c.post(ctx, EndpointCloseOtherSessions, struct{}{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates a new account.
func (c *Client) Register(ctx context.Context, nombre, correo, contrasena string) (*RegisterResponse, error) {
	var out RegisterResponse
	body := map[string]string{"nombre": nombre, "correo": correo, "contrasena": contrasena}
	if err := c.post(ctx, EndpointRegister, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail confirms a registration with the emailed 6-digit code.
func (c *Client) VerifyEmail(ctx context.Context, correo, codigo string) (*SimpleResponse, error) {
	var out SimpleResponse
	body := map[string]string{"correo": correo, "codigo": codigo}
	if err := c.post(ctx, EndpointVerifyEmail, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendVerificationCode requests a fresh registration verification code.
func (c *Client) ResendVerificationCode(ctx context.Context, correo string) error {
	var out SimpleResponse
	return c.post(ctx, EndpointResendVerification, map[string]string{"correo": correo}, &out)
}

// RequestRecoveryCode asks for a password-recovery code to be emailed. The
// server throttles these; over-quota requests arrive as a 429 *Error with
// Blocked set.
func (c *Client) RequestRecoveryCode(ctx context.Context, correo string) (*RecoveryResponse, error) {
	var out RecoveryResponse
	if err := c.post(ctx, EndpointForgotPassword, map[string]string{"correo": correo}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyRecoveryCode checks the emailed recovery code before the password can
// be reset.
func (c *Client) VerifyRecoveryCode(ctx context.Context, correo, codigo string) (*RecoveryResponse, error) {
	var out RecoveryResponse
	body := map[string]string{"correo": correo, "codigo": codigo}
	if err := c.post(ctx, EndpointVerifyRecoveryCode, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword sets a new password using a verified recovery code.
func (c *Client) ResetPassword(ctx context.Context, correo, codigo, contrasena string) (*SimpleResponse, error) {
	var out SimpleResponse
	body := map[string]string{"correo": correo, "codigo": codigo, "contrasena": contrasena}
	if err := c.post(ctx, EndpointResetPassword, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConfigureEmail2FA starts email second-factor enrolment for the logged-in
// account by dispatching a code to its address.
func (c *Client) ConfigureEmail2FA(ctx context.Context, correo string) (*Email2FASetupResponse, error) {
	var out Email2FASetupResponse
	if err := c.post(ctx, EndpointConfigureEmail2FA, map[string]string{"correo": correo}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmail2FASetup completes email second-factor enrolment with the
// emailed code.
func (c *Client) VerifyEmail2FASetup(ctx context.Context, correo, codigo string) (*SimpleResponse, error) {
	var out SimpleResponse
	body := map[string]string{"correo": correo, "codigo": codigo}
	if err := c.post(ctx, EndpointVerifyEmail2FA, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body any, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return errors.Wrapf(err, "[Client] encode request %s", endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.Wrapf(err, "[Client] build request %s", endpoint)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Device-Id", c.deviceID)
	req.Header.Set("X-Request-Id", uuid.New().String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Wrapf(err, "[Client] %s", endpoint)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrapf(err, "[Client] read response %s", endpoint)
	}

	if resp.StatusCode >= 400 {
		apiErr := &Error{Status: resp.StatusCode}
		if len(data) > 0 {
			if err := json.Unmarshal(data, apiErr); err != nil {
				log.Debug().Int("status", resp.StatusCode).Str("endpoint", endpoint).
					Msg("undecodable error payload")
			}
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return errors.Wrapf(err, "[Client] decode response %s", endpoint)
		}
	}
	return nil
}
