// Package protect implements the keyed symmetric primitive used to store
// sensitive scalar fields in opaque form, and the codecs built on it.
package protect

import (
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// Protector turns plaintext into an opaque string and back.
// Unprotect must reject anything not produced by Protect under the same keys.
type Protector interface {
	Protect(plaintext string) (string, error)
	Unprotect(protected string) (string, error)
}

var (
	ErrMalformed  = errors.New("protect: malformed payload")
	ErrUnknownKey = errors.New("protect: unknown key id")
	ErrTampered   = errors.New("protect: message authentication failed")
)

// MinSecretSize is the minimum master key length in bytes.
const MinSecretSize = 32

// Key is a master key with a short identifier embedded in every payload.
type Key struct {
	ID     string
	Secret []byte
}

// Keyring is a purpose-scoped Protector backed by XChaCha20-Poly1305.
// Each master key is expanded with HKDF-SHA256 using the purpose as info,
// so payloads protected for one purpose never open under another.
// The first key encrypts; every key decrypts.
type Keyring struct {
	purpose string
	primary string
	aeads   map[string]cipher.AEAD
}

var _ Protector = (*Keyring)(nil)

// NewKeyring creates a keyring for purpose. keys[0] becomes the primary key.
func NewKeyring(purpose string, keys []Key) (*Keyring, error) {
	if purpose == "" {
		return nil, errors.New("protect: purpose is required")
	}
	if len(keys) == 0 {
		return nil, errors.New("protect: at least one key is required")
	}

	k := &Keyring{
		purpose: purpose,
		primary: keys[0].ID,
		aeads:   make(map[string]cipher.AEAD, len(keys)),
	}
	for _, key := range keys {
		if key.ID == "" || strings.ContainsAny(key.ID, ".:,") {
			return nil, fmt.Errorf("protect: invalid key id %q", key.ID)
		}
		if _, dup := k.aeads[key.ID]; dup {
			return nil, fmt.Errorf("protect: duplicate key id %q", key.ID)
		}
		if len(key.Secret) < MinSecretSize {
			return nil, fmt.Errorf("protect: key %q must be at least %d bytes", key.ID, MinSecretSize)
		}

		subkey := make([]byte, chacha20poly1305.KeySize)
		if _, err := io.ReadFull(hkdf.New(sha256.New, key.Secret, nil, []byte(purpose)), subkey); err != nil {
			return nil, fmt.Errorf("protect: derive key %q: %w", key.ID, err)
		}
		aead, err := chacha20poly1305.NewX(subkey)
		if err != nil {
			return nil, fmt.Errorf("protect: init cipher %q: %w", key.ID, err)
		}
		k.aeads[key.ID] = aead
	}

	return k, nil
}

// Purpose returns the purpose string the keyring is bound to.
func (k *Keyring) Purpose() string {
	return k.purpose
}

// PrimaryKeyID returns the id of the key used by Protect.
func (k *Keyring) PrimaryKeyID() string {
	return k.primary
}

// Protect encrypts plaintext under the primary key.
// Output format: <keyID>.<base64url(nonce || ciphertext || tag)>.
func (k *Keyring) Protect(plaintext string) (string, error) {
	aead := k.aeads[k.primary]

	nonce := make([]byte, aead.NonceSize(), aead.NonceSize()+len(plaintext)+aead.Overhead())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("protect: read nonce: %w", err)
	}

	sealed := aead.Seal(nonce, nonce, []byte(plaintext), []byte(k.purpose))
	return k.primary + "." + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Unprotect reverses Protect. It fails with ErrMalformed, ErrUnknownKey
// or ErrTampered.
func (k *Keyring) Unprotect(protected string) (string, error) {
	keyID, payload, ok := strings.Cut(protected, ".")
	if !ok || keyID == "" || payload == "" {
		return "", ErrMalformed
	}

	aead, ok := k.aeads[keyID]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKey, keyID)
	}

	data, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(data) < aead.NonceSize()+aead.Overhead() {
		return "", ErrMalformed
	}

	nonce, ciphertext := data[:aead.NonceSize()], data[aead.NonceSize():]
	plaintext, err := aead.Open(nil, nonce, ciphertext, []byte(k.purpose))
	if err != nil {
		return "", ErrTampered
	}

	return string(plaintext), nil
}

// ParseKeys parses "id:base64secret[,id:base64secret...]".
// Order is preserved; the first entry is the primary key.
func ParseKeys(spec string) ([]Key, error) {
	var keys []Key
	for _, part := range strings.Split(spec, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, encoded, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("protect: key entry %q must be id:base64secret", part)
		}
		secret, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("protect: key %q: invalid base64: %w", id, err)
		}
		keys = append(keys, Key{ID: id, Secret: secret})
	}
	if len(keys) == 0 {
		return nil, errors.New("protect: no keys configured")
	}
	return keys, nil
}

// GenerateSecret returns a fresh random master key, base64-encoded for ParseKeys.
func GenerateSecret() (string, error) {
	secret := make([]byte, MinSecretSize)
	if _, err := io.ReadFull(rand.Reader, secret); err != nil {
		return "", fmt.Errorf("protect: generate secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(secret), nil
}
