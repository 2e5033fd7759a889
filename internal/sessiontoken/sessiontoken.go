// Package sessiontoken seals the session payload with the process keypair.
// The sealed token travels in a cookie; the server keeps no session store
// and opens the cookie on every request.
package sessiontoken

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/json"
	"encoding/pem"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	domainauth "github.com/oakgrove/campus-portal/internal/domain/auth"
)

var (
	// ErrSealFailed is returned when a specific payload cannot be sealed.
	// Distinguishable from key-loading failures, which are fatal at startup.
	ErrSealFailed = errors.New("session payload could not be sealed")

	// ErrTokenInvalid is returned when a token does not open with the
	// current keypair. Callers treat the session as absent.
	ErrTokenInvalid = errors.New("session token invalid")
)

// Versioned prefix to allow future key/algorithm rotations without
// invalidating cookie parsing outright.
const tokenPrefixV1 = "v1:"

// Codec seals and opens session claims using RSA-OAEP: the public half
// seals, the private half opens. Both halves are immutable for the process
// lifetime.
type Codec struct {
	priv *rsa.PrivateKey
	pub  *rsa.PublicKey
}

// NewCodec constructs a Codec from an already-parsed keypair.
func NewCodec(priv *rsa.PrivateKey, pub *rsa.PublicKey) (*Codec, error) {
	if priv == nil || pub == nil {
		return nil, errors.New("both keypair halves are required")
	}
	if priv.PublicKey.N.Cmp(pub.N) != 0 {
		return nil, errors.New("public key does not match private key")
	}
	return &Codec{priv: priv, pub: pub}, nil
}

// Load reads and parses the PEM keypair from disk. A keypair that fails to
// parse is a configuration error; callers abort startup rather than serving
// requests that could never issue a session.
func Load(privateKeyFile, publicKeyFile string) (*Codec, error) {
	priv, err := loadPrivateKey(privateKeyFile)
	if err != nil {
		return nil, fmt.Errorf("load private key: %w", err)
	}
	pub, err := loadPublicKey(publicKeyFile)
	if err != nil {
		return nil, fmt.Errorf("load public key: %w", err)
	}
	return NewCodec(priv, pub)
}

// Seal encrypts the claims into an opaque URL-safe token.
func (c *Codec) Seal(claims domainauth.SessionClaims) (string, error) {
	if claims.Subject == "" {
		return "", fmt.Errorf("%w: empty subject", ErrSealFailed)
	}
	if claims.IssuedAt.IsZero() {
		claims.IssuedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSealFailed, err)
	}

	ct, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, c.pub, payload, nil)
	if err != nil {
		// Typically a payload exceeding the OAEP size bound for the key.
		return "", fmt.Errorf("%w: %w", ErrSealFailed, err)
	}

	return tokenPrefixV1 + base64.RawURLEncoding.EncodeToString(ct), nil
}

// Open decrypts a token produced by Seal and returns the claims.
func (c *Codec) Open(token string) (domainauth.SessionClaims, error) {
	var claims domainauth.SessionClaims

	if !strings.HasPrefix(token, tokenPrefixV1) {
		return claims, fmt.Errorf("%w: unknown token version", ErrTokenInvalid)
	}
	ct, err := base64.RawURLEncoding.DecodeString(token[len(tokenPrefixV1):])
	if err != nil {
		return claims, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	payload, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, c.priv, ct, nil)
	if err != nil {
		return claims, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	if unmarshalErr := json.Unmarshal(payload, &claims); unmarshalErr != nil {
		return claims, fmt.Errorf("%w: %w", ErrTokenInvalid, unmarshalErr)
	}
	if claims.Subject == "" {
		return claims, fmt.Errorf("%w: empty subject", ErrTokenInvalid)
	}
	return claims, nil
}

func loadPrivateKey(path string) (*rsa.PrivateKey, error) {
	block, err := readPEM(path)
	if err != nil {
		return nil, err
	}

	if key, parseErr := x509.ParsePKCS8PrivateKey(block.Bytes); parseErr == nil {
		rsaKey, ok := key.(*rsa.PrivateKey)
		if !ok {
			return nil, fmt.Errorf("%s: not an RSA private key", path)
		}
		return rsaKey, nil
	}
	key, err := x509.ParsePKCS1PrivateKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return key, nil
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	block, err := readPEM(path)
	if err != nil {
		return nil, err
	}

	if key, parseErr := x509.ParsePKIXPublicKey(block.Bytes); parseErr == nil {
		rsaKey, ok := key.(*rsa.PublicKey)
		if !ok {
			return nil, fmt.Errorf("%s: not an RSA public key", path)
		}
		return rsaKey, nil
	}
	key, err := x509.ParsePKCS1PublicKey(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return key, nil
}

func readPEM(path string) (*pem.Block, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	block, _ := pem.Decode(raw)
	if block == nil {
		return nil, fmt.Errorf("%s: no PEM block found", path)
	}
	return block, nil
}
