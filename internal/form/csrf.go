// internal/form/csrf.go
//
// Formhook – Forms subsystem: stateless CSRF token utilities.
//
// Context
//   The rendered page embeds a hidden `csrf_token` input.  The POST handler
//   verifies it before any field is looked at.  Tokens are stateless:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – issue time, 8 bytes, big-endian.
//   •  HMAC – keyed with the configured form.csrf_key.
//
//   Verification checks the signature and that the timestamp falls inside
//   maxAge.  No server-side sessions are kept, so any instance can verify.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	nonceBytes = 16
	tokenBytes = nonceBytes + 8 + sha256.Size
	maxAge     = 2 * time.Hour
	clockSkew  = time.Minute
)

// CSRF issues and verifies tokens for one secret.  Safe for concurrent use.
type CSRF struct {
	secret []byte
	now    func() time.Time
}

// ErrCSRFKey is returned for a configured key that is not base64 or is
// shorter than minKeyBytes once decoded.
var ErrCSRFKey = errors.New("form.csrf_key must be base64 of at least 32 bytes")

const minKeyBytes = 32

// keyEncodings are tried in order; padded and unpadded, URL and standard.
var keyEncodings = []*base64.Encoding{
	base64.RawURLEncoding,
	base64.URLEncoding,
	base64.RawStdEncoding,
	base64.StdEncoding,
}

// NewCSRF decodes key.  An empty key falls back to a random secret that
// resets on restart.  A non-empty key that does not decode to at least
// 32 bytes is an error.
func NewCSRF(key string) (*CSRF, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		sec := make([]byte, minKeyBytes)
		if _, err := rand.Read(sec); err != nil {
			return nil, err
		}
		zap.S().Warnw("form.csrf_key not set, using random key")
		return &CSRF{secret: sec, now: time.Now}, nil
	}
	for _, enc := range keyEncodings {
		if b, err := enc.DecodeString(key); err == nil && len(b) >= minKeyBytes {
			return &CSRF{secret: b, now: time.Now}, nil
		}
	}
	return nil, ErrCSRFKey
}

// Generate creates a new token.  Call once per form render.
func (c *CSRF) Generate() (string, error) {
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(c.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, c.sign(nonce, ts)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify returns true if tok passes HMAC and age checks.
func (c *CSRF) Verify(tok string) bool {
	if tok == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:nonceBytes]
	tsBytes := raw[nonceBytes : nonceBytes+8]
	sig := raw[nonceBytes+8:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	now := c.now()
	if now.Sub(issued) > maxAge || issued.Sub(now) > clockSkew {
		return false
	}

	return hmac.Equal(sig, c.sign(nonce, tsBytes))
}

func (c *CSRF) sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}
