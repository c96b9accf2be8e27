package token

import "errors"

// Validation failures are distinctly typed so callers can decide whether
// expired vs. revoked vs. malformed matters to them.
var (
	// ErrExpired indicates a token whose exp claim is in the past.
	ErrExpired = errors.New("token expired")
	// ErrInvalidSignature indicates a token whose signature does not verify.
	ErrInvalidSignature = errors.New("token signature invalid")
	// ErrMalformed indicates a token that is not structurally a JWT.
	ErrMalformed = errors.New("token malformed")
	// ErrRevoked indicates a token whose jti is on the revocation list.
	// Revocation is permanent and independent of expiry.
	ErrRevoked = errors.New("token revoked")
	// ErrMissingJTI indicates a token without a jti claim; such a token
	// cannot be tracked on the revocation list.
	ErrMissingJTI = errors.New("token has no jti claim")
)
