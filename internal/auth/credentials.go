// Package auth implements the admin session gate: a credential check
// behind an injectable verifier, and an HMAC-signed cookie session
// valid for 24 hours.
//
// The storefront ships with a single shared admin credential pair and
// no rate limiting, lockout or rotation. That is a known weakness
// carried over from the original deployment; swapping in a real account
// store only requires another CredentialVerifier implementation.
package auth

import "crypto/subtle"

// CredentialVerifier checks a username/password pair.
type CredentialVerifier interface {
	Verify(username, password string) bool
}

// StaticCredentials accepts exactly one configured pair.
type StaticCredentials struct {
	Username string
	Password string
}

// Verify compares in constant time so the check does not leak prefix
// length.
func (s StaticCredentials) Verify(username, password string) bool {
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.Username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) == 1
	return userOK && passOK
}
