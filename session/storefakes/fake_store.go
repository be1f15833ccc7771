package storefakes

import (
	"strconv"
	"sync"

	"github.com/nubarte/marketplace-client/session"
	"github.com/nubarte/marketplace-client/users"
)

var _ session.Store = (*FakeStore)(nil)

// FakeStore is an in-memory credential store mirroring the browser client's
// localStorage layout.
type FakeStore struct {
	values map[string]string
	lock   sync.RWMutex
}

func NewFakeStore() *FakeStore {
	return &FakeStore{values: make(map[string]string)}
}

func (fs *FakeStore) Save(s session.Session) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values[session.KeyAccessToken] = s.AccessToken
	fs.values[session.KeyLegacyToken] = s.AccessToken
	fs.values[session.KeyUserID] = strconv.Itoa(s.User.ID)
	fs.values[session.KeyUserName] = s.User.Name
	fs.values[session.KeyUserEmail] = s.User.Email
	fs.values[session.KeyLoggedIn] = "true"
	return nil
}

func (fs *FakeStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values = make(map[string]string)
	return nil
}

func (fs *FakeStore) Current() session.Session {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	token := fs.values[session.KeyAccessToken]
	if token == "" {
		token = fs.values[session.KeyLegacyToken]
	}
	if token == "" {
		return session.Session{}
	}
	id, _ := strconv.Atoi(fs.values[session.KeyUserID])
	return session.Session{
		AccessToken: token,
		User: users.Profile{
			ID:    id,
			Name:  fs.values[session.KeyUserName],
			Email: fs.values[session.KeyUserEmail],
		},
	}
}

func (fs *FakeStore) IsAuthenticated() bool {
	return fs.Current().Authenticated()
}

func (fs *FakeStore) SavePendingSecondFactorEmail(email string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values[session.KeyPendingEmail] = email
	return nil
}

func (fs *FakeStore) PendingSecondFactorEmail() string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	return fs.values[session.KeyPendingEmail]
}

func (fs *FakeStore) ClearPendingSecondFactorEmail() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	delete(fs.values, session.KeyPendingEmail)
	return nil
}

func (fs *FakeStore) SaveRecoveryEmail(email string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values[session.KeyRecoveryEmail] = email
	return nil
}

func (fs *FakeStore) RecoveryEmail() string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	return fs.values[session.KeyRecoveryEmail]
}

func (fs *FakeStore) ClearRecoveryEmail() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	delete(fs.values, session.KeyRecoveryEmail)
	return nil
}
