package apifakes

import (
	"context"
	"sync"

	"github.com/nubarte/marketplace-client/api"
)

// FakeAPI is a scripted stand-in for the api.Client: responses and errors are
// assigned per operation, and call counts are recorded for assertions.
type FakeAPI struct {
	lock sync.Mutex

	LoginResponse *api.LoginResponse
	LoginErr      error
	LoginCalls    int

	CheckSessionErr   error
	CheckSessionCalls int

	VerifyLoginCodeResponse *api.LoginResponse
	VerifyLoginCodeErr      error
	VerifyLoginCodeCalls    int

	ResendLoginCodeErr   error
	ResendLoginCodeCalls int

	CloseOtherSessionsResponse *api.CloseOtherSessionsResponse
	CloseOtherSessionsErr      error
	CloseOtherSessionsCalls    int

	RegisterResponse *api.RegisterResponse
	RegisterErr      error
	RegisterCalls    int

	VerifyEmailErr   error
	VerifyEmailCalls int

	ResendVerificationErr   error
	ResendVerificationCalls int

	RequestRecoveryCodeResponse *api.RecoveryResponse
	RequestRecoveryCodeErr      error
	RequestRecoveryCodeCalls    int

	VerifyRecoveryCodeResponse *api.RecoveryResponse
	VerifyRecoveryCodeErr      error
	VerifyRecoveryCodeCalls    int

	ResetPasswordErr   error
	ResetPasswordCalls int

	ConfigureEmail2FAResponse *api.Email2FASetupResponse
	ConfigureEmail2FAErr      error
	ConfigureEmail2FACalls    int

	VerifyEmail2FASetupErr   error
	VerifyEmail2FASetupCalls int
}

func NewFakeAPI() *FakeAPI {
	return &FakeAPI{}
}

func (f *FakeAPI) Login(_ context.Context, _, _ string) (*api.LoginResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.LoginCalls++
	if f.LoginErr != nil {
		return nil, f.LoginErr
	}
	return f.LoginResponse, nil
}

func (f *FakeAPI) CheckSession(_ context.Context) (*api.CheckSessionResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.CheckSessionCalls++
	if f.CheckSessionErr != nil {
		return nil, f.CheckSessionErr
	}
	return &api.CheckSessionResponse{Valid: true}, nil
}

// CheckSessionCallCount reads the counter under the lock, for assertions that
// race with a polling goroutine.
func (f *FakeAPI) CheckSessionCallCount() int {
	f.lock.Lock()
	defer f.lock.Unlock()
	return f.CheckSessionCalls
}

func (f *FakeAPI) VerifyLoginCode(_ context.Context, _, _ string) (*api.LoginResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.VerifyLoginCodeCalls++
	if f.VerifyLoginCodeErr != nil {
		return nil, f.VerifyLoginCodeErr
	}
	return f.VerifyLoginCodeResponse, nil
}

func (f *FakeAPI) ResendLoginCode(_ context.Context, _ string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.ResendLoginCodeCalls++
	return f.ResendLoginCodeErr
}

func (f *FakeAPI) CloseOtherSessions(_ context.Context) (*api.CloseOtherSessionsResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.CloseOtherSessionsCalls++
	if f.CloseOtherSessionsErr != nil {
		return nil, f.CloseOtherSessionsErr
	}
	return f.CloseOtherSessionsResponse, nil
}

func (f *FakeAPI) Register(_ context.Context, _, _, _ string) (*api.RegisterResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.RegisterCalls++
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	return f.RegisterResponse, nil
}

func (f *FakeAPI) VerifyEmail(_ context.Context, _, _ string) (*api.SimpleResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.VerifyEmailCalls++
	if f.VerifyEmailErr != nil {
		return nil, f.VerifyEmailErr
	}
	return &api.SimpleResponse{}, nil
}

func (f *FakeAPI) ResendVerificationCode(_ context.Context, _ string) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.ResendVerificationCalls++
	return f.ResendVerificationErr
}

func (f *FakeAPI) RequestRecoveryCode(_ context.Context, _ string) (*api.RecoveryResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.RequestRecoveryCodeCalls++
	if f.RequestRecoveryCodeErr != nil {
		return nil, f.RequestRecoveryCodeErr
	}
	if f.RequestRecoveryCodeResponse != nil {
		return f.RequestRecoveryCodeResponse, nil
	}
	return &api.RecoveryResponse{}, nil
}

func (f *FakeAPI) VerifyRecoveryCode(_ context.Context, _, _ string) (*api.RecoveryResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.VerifyRecoveryCodeCalls++
	if f.VerifyRecoveryCodeErr != nil {
		return nil, f.VerifyRecoveryCodeErr
	}
	if f.VerifyRecoveryCodeResponse != nil {
		return f.VerifyRecoveryCodeResponse, nil
	}
	return &api.RecoveryResponse{}, nil
}

func (f *FakeAPI) ResetPassword(_ context.Context, _, _, _ string) (*api.SimpleResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.ResetPasswordCalls++
	if f.ResetPasswordErr != nil {
		return nil, f.ResetPasswordErr
	}
	return &api.SimpleResponse{}, nil
}

func (f *FakeAPI) ConfigureEmail2FA(_ context.Context, _ string) (*api.Email2FASetupResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.ConfigureEmail2FACalls++
	if f.ConfigureEmail2FAErr != nil {
		return nil, f.ConfigureEmail2FAErr
	}
	if f.ConfigureEmail2FAResponse != nil {
		return f.ConfigureEmail2FAResponse, nil
	}
	return &api.Email2FASetupResponse{}, nil
}

func (f *FakeAPI) VerifyEmail2FASetup(_ context.Context, _, _ string) (*api.SimpleResponse, error) {
	f.lock.Lock()
	defer f.lock.Unlock()
	f.VerifyEmail2FASetupCalls++
	if f.VerifyEmail2FASetupErr != nil {
		return nil, f.VerifyEmail2FASetupErr
	}
	return &api.SimpleResponse{}, nil
}
