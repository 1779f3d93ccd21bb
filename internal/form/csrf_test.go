// internal/form/csrf_test.go
//
// Unit-tests for the stateless CSRF tokens.
//
// Run: go test ./internal/form -run CSRF -v

package form

import (
	"bytes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"
)

func testCSRF(t *testing.T) *CSRF {
	t.Helper()
	key := base64.RawURLEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	c, err := NewCSRF(key)
	if err != nil {
		t.Fatalf("NewCSRF: %v", err)
	}
	return c
}

func TestCSRF_RoundTrip(t *testing.T) {
	c := testCSRF(t)
	tok, err := c.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !c.Verify(tok) {
		t.Fatal("fresh token rejected")
	}
}

func TestCSRF_RejectsTampering(t *testing.T) {
	c := testCSRF(t)
	tok, _ := c.Generate()

	raw, _ := base64.RawURLEncoding.DecodeString(tok)
	raw[0] ^= 0xff
	if c.Verify(base64.RawURLEncoding.EncodeToString(raw)) {
		t.Fatal("tampered token accepted")
	}
	for _, bad := range []string{"", "short", "!!!not-base64!!!"} {
		if c.Verify(bad) {
			t.Fatalf("token %q accepted", bad)
		}
	}
}

func TestCSRF_OtherKeyRejected(t *testing.T) {
	tok, _ := testCSRF(t).Generate()
	other, err := NewCSRF("") // random key
	if err != nil {
		t.Fatalf("NewCSRF: %v", err)
	}
	if other.Verify(tok) {
		t.Fatal("token verified under a different key")
	}
}

func TestCSRF_Expiry(t *testing.T) {
	c := testCSRF(t)
	issued := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return issued }
	tok, _ := c.Generate()

	c.now = func() time.Time { return issued.Add(maxAge - time.Second) }
	if !c.Verify(tok) {
		t.Fatal("token rejected inside maxAge")
	}
	c.now = func() time.Time { return issued.Add(maxAge + time.Second) }
	if c.Verify(tok) {
		t.Fatal("expired token accepted")
	}
	c.now = func() time.Time { return issued.Add(-2 * clockSkew) }
	if c.Verify(tok) {
		t.Fatal("token from the future accepted")
	}
}

func TestCSRF_KeyEncodings(t *testing.T) {
	secret := bytes.Repeat([]byte{0xfb, 0xff}, 16) // exercises +/ vs -_ and padding

	issuer, err := NewCSRF(base64.RawURLEncoding.EncodeToString(secret))
	if err != nil {
		t.Fatalf("NewCSRF raw url: %v", err)
	}
	tok, _ := issuer.Generate()

	for _, enc := range []*base64.Encoding{
		base64.URLEncoding, base64.RawStdEncoding, base64.StdEncoding,
	} {
		c, err := NewCSRF(enc.EncodeToString(secret))
		if err != nil {
			t.Fatalf("NewCSRF(%q): %v", enc.EncodeToString(secret), err)
		}
		if !c.Verify(tok) {
			t.Fatalf("key %q decoded to a different secret", enc.EncodeToString(secret))
		}
	}
}

func TestCSRF_BadKeyRejected(t *testing.T) {
	for _, key := range []string{
		"not base64 at all!",
		base64.StdEncoding.EncodeToString([]byte("too short")),
	} {
		if _, err := NewCSRF(key); !errors.Is(err, ErrCSRFKey) {
			t.Fatalf("NewCSRF(%q) err = %v, want ErrCSRFKey", key, err)
		}
	}
}
