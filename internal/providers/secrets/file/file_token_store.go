package file

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/netforge-io/netforge/config"
	"github.com/netforge-io/netforge/faults"
	"github.com/netforge-io/netforge/secrets"
)

const (
	encryptedStoreVersion = 1
	keyLengthBytes        = 32
	nonceLengthBytes      = 12
	saltLengthBytes       = 16

	defaultKDFTime    = 1
	defaultKDFMemory  = 64 * 1024
	defaultKDFThreads = 4
)

var _ secrets.TokenStore = (*FileTokenStore)(nil)

// FileTokenStore persists named tokens in a single encrypted file. The
// snapshot is sealed with AES-GCM under a key derived from the passphrase
// via argon2id; every write re-salts and re-encrypts the whole store.
type FileTokenStore struct {
	path       string
	passphrase []byte
	kdf        kdfSettings

	mu          sync.Mutex
	initialized bool
}

type kdfSettings struct {
	Time    uint32
	Memory  uint32
	Threads uint8
}

type encryptedStore struct {
	Version    int    `json:"version"`
	Salt       string `json:"salt"`
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

type tokenSnapshot struct {
	Tokens map[string]string `json:"tokens"`
}

func NewFileTokenStore(cfg config.FileSecretStore) (*FileTokenStore, error) {
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return nil, validationError("secret-store.file.path is required", nil)
	}

	if countSet(strings.TrimSpace(cfg.Passphrase) != "", strings.TrimSpace(cfg.PassphraseFile) != "") != 1 {
		return nil, validationError("secret-store.file must define exactly one of passphrase, passphrase-file", nil)
	}

	kdf, err := resolveKDFSettings(cfg.KDF)
	if err != nil {
		return nil, err
	}

	store := &FileTokenStore{
		path: filepath.Clean(path),
		kdf:  kdf,
	}

	if strings.TrimSpace(cfg.Passphrase) != "" {
		store.passphrase = []byte(strings.TrimSpace(cfg.Passphrase))
	} else {
		passphraseData, err := os.ReadFile(strings.TrimSpace(cfg.PassphraseFile))
		if err != nil {
			return nil, validationError("secret-store.file.passphrase-file could not be read", err)
		}
		passphrase := strings.TrimSpace(string(passphraseData))
		if passphrase == "" {
			return nil, validationError("secret-store.file.passphrase-file must not be empty", nil)
		}
		store.passphrase = []byte(passphrase)
	}

	return store, nil
}

func (s *FileTokenStore) Init(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.initLocked()
}

func (s *FileTokenStore) Store(_ context.Context, name string, value string) error {
	normalizedName, err := normalizeTokenName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initLocked(); err != nil {
		return err
	}

	snapshot, err := s.readSnapshotLocked()
	if err != nil {
		return err
	}
	snapshot.Tokens[normalizedName] = value

	return s.writeSnapshotLocked(snapshot)
}

func (s *FileTokenStore) Get(_ context.Context, name string) (string, error) {
	normalizedName, err := normalizeTokenName(name)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initLocked(); err != nil {
		return "", err
	}

	snapshot, err := s.readSnapshotLocked()
	if err != nil {
		return "", err
	}

	value, found := snapshot.Tokens[normalizedName]
	if !found {
		return "", notFoundError(normalizedName)
	}
	return value, nil
}

func (s *FileTokenStore) Delete(_ context.Context, name string) error {
	normalizedName, err := normalizeTokenName(name)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initLocked(); err != nil {
		return err
	}

	snapshot, err := s.readSnapshotLocked()
	if err != nil {
		return err
	}
	delete(snapshot.Tokens, normalizedName)

	return s.writeSnapshotLocked(snapshot)
}

func (s *FileTokenStore) List(context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initLocked(); err != nil {
		return nil, err
	}

	snapshot, err := s.readSnapshotLocked()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(snapshot.Tokens))
	for name := range snapshot.Tokens {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

func (s *FileTokenStore) initLocked() error {
	if s == nil {
		return validationError("file token store must not be nil", nil)
	}
	if strings.TrimSpace(s.path) == "" {
		return validationError("token store path must not be empty", nil)
	}
	if len(s.passphrase) == 0 {
		return validationError("token store passphrase is missing", nil)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return internalError("failed to prepare token store directory", err)
	}

	if _, err := os.Stat(s.path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if writeErr := s.writeSnapshotLocked(tokenSnapshot{Tokens: map[string]string{}}); writeErr != nil {
				return writeErr
			}
			s.initialized = true
			return nil
		}
		return internalError("failed to inspect token store file", err)
	}

	if !s.initialized {
		if _, err := s.readSnapshotLocked(); err != nil {
			return err
		}
	}

	s.initialized = true
	return nil
}

func (s *FileTokenStore) readSnapshotLocked() (tokenSnapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return tokenSnapshot{}, internalError("failed to read encrypted token store", err)
	}

	var envelope encryptedStore
	if err := json.Unmarshal(data, &envelope); err != nil {
		return tokenSnapshot{}, internalError("failed to decode encrypted token store", err)
	}

	if envelope.Version != encryptedStoreVersion {
		return tokenSnapshot{}, validationError("token store format version is unsupported", nil)
	}

	salt, err := base64.StdEncoding.DecodeString(envelope.Salt)
	if err != nil {
		return tokenSnapshot{}, validationError("token store salt is invalid", err)
	}
	nonce, err := base64.StdEncoding.DecodeString(envelope.Nonce)
	if err != nil {
		return tokenSnapshot{}, validationError("token store nonce is invalid", err)
	}
	ciphertext, err := base64.StdEncoding.DecodeString(envelope.Ciphertext)
	if err != nil {
		return tokenSnapshot{}, validationError("token store ciphertext is invalid", err)
	}

	gcm, err := s.cipherFor(salt)
	if err != nil {
		return tokenSnapshot{}, err
	}

	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return tokenSnapshot{}, authError("failed to decrypt token store with provided passphrase", err)
	}

	var snapshot tokenSnapshot
	if err := json.Unmarshal(plaintext, &snapshot); err != nil {
		return tokenSnapshot{}, internalError("failed to decode decrypted token store", err)
	}
	if snapshot.Tokens == nil {
		snapshot.Tokens = make(map[string]string)
	}

	return snapshot, nil
}

func (s *FileTokenStore) writeSnapshotLocked(snapshot tokenSnapshot) error {
	if snapshot.Tokens == nil {
		snapshot.Tokens = make(map[string]string)
	}

	plaintext, err := json.Marshal(snapshot)
	if err != nil {
		return internalError("failed to encode token snapshot", err)
	}

	nonce, err := randomBytes(nonceLengthBytes)
	if err != nil {
		return internalError("failed to generate token store nonce", err)
	}
	salt, err := randomBytes(saltLengthBytes)
	if err != nil {
		return internalError("failed to generate token store salt", err)
	}

	gcm, err := s.cipherFor(salt)
	if err != nil {
		return err
	}

	ciphertext := gcm.Seal(nil, nonce, plaintext, nil)

	envelope := encryptedStore{
		Version:    encryptedStoreVersion,
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Nonce:      base64.StdEncoding.EncodeToString(nonce),
		Ciphertext: base64.StdEncoding.EncodeToString(ciphertext),
	}

	encoded, err := json.Marshal(envelope)
	if err != nil {
		return internalError("failed to encode encrypted token store", err)
	}

	return writeAtomicFile(s.path, encoded, 0o600)
}

func (s *FileTokenStore) cipherFor(salt []byte) (cipher.AEAD, error) {
	if len(salt) == 0 {
		return nil, validationError("token store salt is missing", nil)
	}

	key := argon2.IDKey(s.passphrase, salt, s.kdf.Time, s.kdf.Memory, s.kdf.Threads, keyLengthBytes)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, internalError("failed to initialize token cipher", err)
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, internalError("failed to initialize token cipher mode", err)
	}
	return gcm, nil
}

func resolveKDFSettings(kdf *config.KDF) (kdfSettings, error) {
	settings := kdfSettings{
		Time:    defaultKDFTime,
		Memory:  defaultKDFMemory,
		Threads: defaultKDFThreads,
	}

	if kdf == nil {
		return settings, nil
	}

	if kdf.Time < 0 || kdf.Memory < 0 || kdf.Threads < 0 {
		return kdfSettings{}, validationError("secret-store.file.kdf values must be non-negative", nil)
	}

	if kdf.Time > 0 {
		settings.Time = uint32(kdf.Time)
	}
	if kdf.Memory > 0 {
		settings.Memory = uint32(kdf.Memory)
	}
	if kdf.Threads > 0 {
		settings.Threads = uint8(kdf.Threads)
	}

	return settings, nil
}

func normalizeTokenName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", validationError("token name must not be empty", nil)
	}
	if strings.ContainsAny(trimmed, "/\\ \t") {
		return "", validationError("token name must not contain slashes or whitespace", nil)
	}
	return trimmed, nil
}

func countSet(values ...bool) int {
	count := 0
	for _, value := range values {
		if value {
			count++
		}
	}
	return count
}

func randomBytes(length int) ([]byte, error) {
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return nil, err
	}
	return buffer, nil
}

func writeAtomicFile(path string, data []byte, mode os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return internalError("failed to create token store directory", err)
	}

	tempFile, err := os.CreateTemp(dir, ".netforge-secret-*")
	if err != nil {
		return internalError("failed to create temporary token file", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return internalError("failed to write temporary token file", err)
	}

	if err := tempFile.Chmod(mode); err != nil {
		_ = tempFile.Close()
		_ = os.Remove(tempPath)
		return internalError("failed to set token file permissions", err)
	}

	if err := tempFile.Close(); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to close temporary token file", err)
	}

	if err := os.Rename(tempPath, path); err != nil {
		_ = os.Remove(tempPath)
		return internalError("failed to replace token store file", err)
	}

	return nil
}

func validationError(message string, cause error) error {
	return faults.NewTypedError(faults.ValidationError, message, cause)
}

func notFoundError(name string) error {
	return faults.NewTypedError(faults.NotFoundError, fmt.Sprintf("token %q not found", name), nil)
}

func authError(message string, cause error) error {
	return faults.NewTypedError(faults.AuthError, message, cause)
}

func internalError(message string, cause error) error {
	return faults.NewTypedError(faults.InternalError, message, cause)
}
