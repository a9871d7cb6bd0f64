package utils // package utils provides password hashing and access token helpers

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Token verification failures. Callers outside this package wrap all three
// into a single unauthorized error before answering the client.
var (
	ErrTokenMalformed   = errors.New("token malformed")
	ErrSignatureInvalid = errors.New("token signature invalid")
	ErrTokenExpired     = errors.New("token expired")
)

// TokenConfig is everything a TokenIssuer needs. Now may be nil, in which
// case time.Now is used.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

// AccessToken is a signed bearer token along with its expiry.
type AccessToken struct {
	Token string
	Exp   time.Time
}

// TokenClaims is what a verified token says about its holder. IsAdmin is a
// snapshot taken at issuance and may be stale relative to the user record.
type TokenClaims struct {
	UserID  uint64
	IsAdmin bool
	Exp     time.Time
}

type accessClaims struct {
	IsAdmin bool `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 access tokens. Tokens cannot be
// revoked before they expire.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
	parser *jwt.Parser
}

// NewTokenIssuer validates cfg and returns an issuer bound to it.
func NewTokenIssuer(cfg TokenConfig) (*TokenIssuer, error) {
	if strings.TrimSpace(cfg.Secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", cfg.TTL)
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &TokenIssuer{
		secret: []byte(cfg.Secret),
		ttl:    cfg.TTL,
		now:    now,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(now),
			jwt.WithStrictDecoding(),
		),
	}, nil
}

// TTL returns the configured token lifetime.
func (t *TokenIssuer) TTL() time.Duration { return t.ttl }

// Issue signs a token for userID that expires TTL from now. Every token gets
// a random jti, so two tokens issued in the same second still differ.
func (t *TokenIssuer) Issue(userID uint64, isAdmin bool) (AccessToken, error) {
	now := t.now().UTC()
	exp := now.Add(t.ttl)
	claims := accessClaims{
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: claims.ExpiresAt.Time}, nil
}

// Verify checks the signature and expiry of raw and returns its claims.
// A token is expired once the clock reaches its exp instant.
func (t *TokenIssuer) Verify(raw string) (TokenClaims, error) {
	if corruptSignature(raw) {
		return TokenClaims{}, ErrSignatureInvalid
	}
	var claims accessClaims
	_, err := t.parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return TokenClaims{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return TokenClaims{}, ErrSignatureInvalid
		default:
			return TokenClaims{}, fmt.Errorf("%w: %v", ErrTokenMalformed, err)
		}
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return TokenClaims{}, fmt.Errorf("%w: bad subject %q", ErrTokenMalformed, claims.Subject)
	}
	return TokenClaims{UserID: id, IsAdmin: claims.IsAdmin, Exp: claims.ExpiresAt.Time.UTC()}, nil
}

// corruptSignature reports whether raw has well-formed header and claims
// segments but a signature segment that is not strict unpadded base64url.
// Lenient decoding ignores the unused low bits of the last character, so
// such a token could otherwise decode to the original signature.
func corruptSignature(raw string) bool {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return false
	}
	enc := base64.RawURLEncoding.Strict()
	for _, p := range parts[:2] {
		if _, err := enc.DecodeString(p); err != nil {
			return false
		}
	}
	_, err := enc.DecodeString(parts[2])
	return err != nil
}
