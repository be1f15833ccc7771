package session

import (
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/scrypt"

	"github.com/nubarte/marketplace-client/users"
)

const (
	fileMagic   = "NBCRED1"
	saltLen     = 16
	keyFileName = "store.key"

	passphraseEnvVar = "NUBARTE_CREDENTIALS_PASSPHRASE"
)

var _ Store = (*FileStore)(nil)

// FileStore persists the credential map sealed with XChaCha20-Poly1305. The
// sealing key is stretched with scrypt from either the NUBARTE_CREDENTIALS_PASSPHRASE
// environment variable or an auto-generated key file next to the credential file.
type FileStore struct {
	path       string
	passphrase []byte

	values map[string]string
	lock   sync.RWMutex
}

// NewFileStore opens (or initialises) the credential file at path.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, errors.Wrap(err, "[NewFileStore] create data folder")
	}

	passphrase, err := resolvePassphrase(filepath.Dir(path))
	if err != nil {
		return nil, err
	}

	fs := &FileStore{
		path:       path,
		passphrase: passphrase,
		values:     make(map[string]string),
	}
	if err := fs.load(); err != nil {
		return nil, err
	}
	return fs, nil
}

func resolvePassphrase(dir string) ([]byte, error) {
	if p := os.Getenv(passphraseEnvVar); p != "" {
		return []byte(p), nil
	}

	keyPath := filepath.Join(dir, keyFileName)
	if data, err := os.ReadFile(keyPath); err == nil && len(data) > 0 {
		return data, nil
	}

	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, errors.Wrap(err, "[FileStore] generate key file")
	}
	if err := os.WriteFile(keyPath, secret, 0o600); err != nil {
		return nil, errors.Wrap(err, "[FileStore] write key file")
	}
	return secret, nil
}

func (fs *FileStore) Save(s Session) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values[KeyAccessToken] = s.AccessToken
	fs.values[KeyLegacyToken] = s.AccessToken
	fs.values[KeyUserID] = strconv.Itoa(s.User.ID)
	fs.values[KeyUserName] = s.User.Name
	fs.values[KeyUserEmail] = s.User.Email
	fs.values[KeyLoggedIn] = "true"
	return fs.persist()
}

func (fs *FileStore) Clear() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values = make(map[string]string)
	return fs.persist()
}

func (fs *FileStore) Current() Session {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	return fs.currentLocked()
}

func (fs *FileStore) currentLocked() Session {
	token := fs.values[KeyAccessToken]
	if token == "" {
		token = fs.values[KeyLegacyToken]
	}
	if token == "" {
		return Session{}
	}
	id, _ := strconv.Atoi(fs.values[KeyUserID])
	return Session{
		AccessToken: token,
		User: users.Profile{
			ID:    id,
			Name:  fs.values[KeyUserName],
			Email: fs.values[KeyUserEmail],
		},
	}
}

func (fs *FileStore) IsAuthenticated() bool {
	return fs.Current().Authenticated()
}

func (fs *FileStore) SavePendingSecondFactorEmail(email string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values[KeyPendingEmail] = email
	return fs.persist()
}

func (fs *FileStore) PendingSecondFactorEmail() string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	return fs.values[KeyPendingEmail]
}

func (fs *FileStore) ClearPendingSecondFactorEmail() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	delete(fs.values, KeyPendingEmail)
	return fs.persist()
}

func (fs *FileStore) SaveRecoveryEmail(email string) error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values[KeyRecoveryEmail] = email
	return fs.persist()
}

func (fs *FileStore) RecoveryEmail() string {
	fs.lock.RLock()
	defer fs.lock.RUnlock()

	return fs.values[KeyRecoveryEmail]
}

func (fs *FileStore) ClearRecoveryEmail() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	delete(fs.values, KeyRecoveryEmail)
	return fs.persist()
}

// Reload re-reads the credential file, discarding in-memory state. Used by the
// watcher when another process rewrites the file.
func (fs *FileStore) Reload() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	fs.values = make(map[string]string)
	return fs.loadLocked()
}

func (fs *FileStore) load() error {
	fs.lock.Lock()
	defer fs.lock.Unlock()

	return fs.loadLocked()
}

func (fs *FileStore) loadLocked() error {
	data, err := os.ReadFile(fs.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return errors.Wrap(err, "[FileStore] read credential file")
	}
	if len(data) == 0 {
		return nil
	}

	values, err := fs.unseal(data)
	if err != nil {
		return err
	}
	fs.values = values
	return nil
}

// persist writes the sealed map through a temp file and rename so a crashed
// write never leaves a torn credential file.
func (fs *FileStore) persist() error {
	sealed, err := fs.seal(fs.values)
	if err != nil {
		return err
	}

	tmp := fs.path + ".tmp"
	if err := os.WriteFile(tmp, sealed, 0o600); err != nil {
		return errors.Wrap(err, "[FileStore] write credential file")
	}
	if err := os.Rename(tmp, fs.path); err != nil {
		return errors.Wrap(err, "[FileStore] replace credential file")
	}
	return nil
}

func (fs *FileStore) seal(values map[string]string) ([]byte, error) {
	plain, err := json.Marshal(values)
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore] encode values")
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "[FileStore] generate salt")
	}
	aead, err := fs.aead(salt)
	if err != nil {
		return nil, err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Wrap(err, "[FileStore] generate nonce")
	}

	out := make([]byte, 0, len(fileMagic)+len(salt)+len(nonce)+len(plain)+aead.Overhead())
	out = append(out, fileMagic...)
	out = append(out, salt...)
	out = append(out, nonce...)
	out = aead.Seal(out, nonce, plain, []byte(fileMagic))
	return out, nil
}

func (fs *FileStore) unseal(data []byte) (map[string]string, error) {
	if len(data) < len(fileMagic)+saltLen {
		return nil, errors.New("[FileStore] credential file corrupt")
	}
	if string(data[:len(fileMagic)]) != fileMagic {
		return nil, errors.New("[FileStore] unrecognised credential file format")
	}
	data = data[len(fileMagic):]

	salt := data[:saltLen]
	data = data[saltLen:]

	aead, err := fs.aead(salt)
	if err != nil {
		return nil, err
	}
	if len(data) < aead.NonceSize() {
		return nil, errors.New("[FileStore] credential file corrupt")
	}
	nonce := data[:aead.NonceSize()]
	ciphertext := data[aead.NonceSize():]

	plain, err := aead.Open(nil, nonce, ciphertext, []byte(fileMagic))
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore] decrypt credential file")
	}

	values := make(map[string]string)
	if err := json.Unmarshal(plain, &values); err != nil {
		return nil, errors.Wrap(err, "[FileStore] decode values")
	}
	return values, nil
}

func (fs *FileStore) aead(salt []byte) (cipher.AEAD, error) {
	key, err := scrypt.Key(fs.passphrase, salt, 1<<15, 8, 1, chacha20poly1305.KeySize)
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore] derive key")
	}
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Wrap(err, "[FileStore] init cipher")
	}
	return aead, nil
}
