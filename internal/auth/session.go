package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// SessionTTL is how long an admin session cookie stays valid. Expiry is
// the only termination path; there is no server-side revocation list.
const SessionTTL = 24 * time.Hour

// CookieName matches the cookie the original storefront set.
const CookieName = "admin_token"

// ErrInvalidSession covers missing, tampered and expired tokens alike.
var ErrInvalidSession = errors.New("invalid session")

// Sessions mints and verifies opaque signed session tokens. A token is
// "<id>.<expiry-unix>.<sig>" where sig is HMAC-SHA256 over the first
// two segments; no session state is kept server-side.
type Sessions struct {
	secret  []byte
	nowFunc func() time.Time
}

// NewSessions returns a Sessions signer using the given shared secret.
func NewSessions(secret string) *Sessions {
	return &Sessions{
		secret:  []byte(secret),
		nowFunc: time.Now,
	}
}

// Issue returns a new token valid for SessionTTL.
func (s *Sessions) Issue() string {
	payload := fmt.Sprintf("%s.%d", uuid.NewString(), s.nowFunc().Add(SessionTTL).Unix())
	return payload + "." + s.sign(payload)
}

// Verify checks the signature and expiry of a token.
func (s *Sessions) Verify(token string) error {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return ErrInvalidSession
	}
	payload := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(s.sign(payload)), []byte(parts[2])) {
		return ErrInvalidSession
	}
	expiry, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil || s.nowFunc().Unix() > expiry {
		return ErrInvalidSession
	}
	return nil
}

func (s *Sessions) sign(payload string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(payload))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
