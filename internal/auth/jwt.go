// Package auth provides bearer-token issuance and verification, the request
// middleware that enforces it, and password hashing.
//
// AUTHENTICATION FLOW OVERVIEW:
// 1. Client registers (POST /create-account) or logs in (POST /login)
// 2. Server issues a signed JWT whose payload carries a snapshot of the user
// 3. Client sends it back as "Authorization: Bearer <token>" on every
//    protected route
// 4. RequireAuth verifies the signature and expiry and puts the user snapshot
//    in the request context
//
// The snapshot is taken at issue time and is NOT refreshed per request.
// Handlers that need current display fields re-read the user from the store.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sakif/notekeeper/internal/model"
)

// DefaultTokenTTL is how long an access token stays valid: 3600 minutes.
// There is no refresh flow; an expired token means logging in again.
const DefaultTokenTTL = 3600 * time.Minute

const issuer = "notekeeper"

var (
	ErrTokenExpired = errors.New("auth: token expired")
	ErrTokenInvalid = errors.New("auth: invalid token")
)

// SessionUser is the user snapshot embedded in every token.
//
// It mirrors model.User minus the password hash: the token is readable by
// anyone holding it, so the hash stays out.
type SessionUser struct {
	ID        string    `json:"_id"`
	FullName  string    `json:"fullname"`
	Email     string    `json:"email"`
	CreatedOn time.Time `json:"createdOn"`
}

// NewSessionUser copies the public fields of u into a token snapshot.
func NewSessionUser(u *model.User) SessionUser {
	return SessionUser{
		ID:        u.ID,
		FullName:  u.FullName,
		Email:     u.Email,
		CreatedOn: u.CreatedOn,
	}
}

// Claims is the JWT payload: {"user": {...}} plus the registered claims.
//
// The user object is a SessionUser, not the full stored record: the
// password hash is never signed into a token, unlike the original payload
// that embedded the whole user document.
type Claims struct {
	User SessionUser `json:"user"`
	jwt.RegisteredClaims
}

// TokenService handles JWT creation and validation.
//
// It holds the HMAC secret key used to sign and verify tokens.
// The same secret must be used for both operations.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a TokenService with the given secret and token
// lifetime. A zero ttl selects DefaultTokenTTL.
func NewTokenService(secret string, ttl time.Duration) (*TokenService, error) {
	if len(secret) < 16 {
		return nil, errors.New("auth: JWT secret must be at least 16 characters")
	}
	if ttl < 0 {
		return nil, errors.New("auth: token TTL must not be negative")
	}
	if ttl == 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the lifetime applied by Issue.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token carrying a snapshot of user, valid for the configured TTL.
func (s *TokenService) Issue(user *model.User) (string, error) {
	return s.IssueWithTTL(user, s.ttl)
}

// IssueWithTTL signs a token with a custom lifetime.
// Used in tests to mint already-expired tokens.
func (s *TokenService) IssueWithTTL(user *model.User, d time.Duration) (string, error) {
	if user == nil || user.ID == "" {
		return "", errors.New("auth: cannot issue token without a user id")
	}

	now := time.Now()
	c := Claims{
		User: NewSessionUser(user),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(d)),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}

	return signed, nil
}

// Verify parses and verifies a token and returns its claims.
//
// VALIDATION CHECKS (performed by the jwt library):
//   - Signature is valid
//   - Token is not expired, and carries an expiry at all
//   - Issuer matches
//   - Algorithm is HS256 (prevents algorithm confusion attacks)
//
// Failures are reported as ErrTokenExpired or ErrTokenInvalid so callers can
// tell them apart with errors.Is.
func (s *TokenService) Verify(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(token *jwt.Token) (any, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("auth: unexpected signing method: %v", token.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	c, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: bad claims", ErrTokenInvalid)
	}
	if c.User.ID == "" {
		return nil, fmt.Errorf("%w: token has no user", ErrTokenInvalid)
	}

	return c, nil
}
