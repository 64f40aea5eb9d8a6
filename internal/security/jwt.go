// Package security holds the token codec and password hasher used by the
// authentication service.
package security

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// ErrInvalidToken is returned by Decode for every failure: malformed input,
// bad signature, wrong algorithm, expiry or a missing subject.
var ErrInvalidToken = errors.New("invalid token")

// Claims are the verified contents of an access token.
type Claims struct {
	UserID    int64
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// JWTCodec signs and verifies HMAC access tokens. The subject claim carries
// the user id.
type JWTCodec struct {
	secret []byte
	method jwt.SigningMethod
	issuer string
	now    func() time.Time
}

// NewJWTCodec creates a codec for one of HS256, HS384 or HS512.
func NewJWTCodec(secret, algorithm, issuer string) (*JWTCodec, error) {
	if secret == "" {
		return nil, errors.New("jwt secret cannot be empty")
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported jwt algorithm %q", algorithm)
	}
	return &JWTCodec{
		secret: []byte(secret),
		method: method,
		issuer: issuer,
		now:    time.Now,
	}, nil
}

// Encode issues a token for userID valid for ttl.
func (c *JWTCodec) Encode(userID int64, ttl time.Duration) (string, error) {
	now := c.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatInt(userID, 10),
		Issuer:    c.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Decode validates signature, algorithm, expiry and issuer and returns the
// claims. Any failure yields ErrInvalidToken.
func (c *JWTCodec) Decode(token string) (*Claims, error) {
	var claims jwt.RegisteredClaims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{c.method.Alg()}))

	parsed, err := parser.ParseWithClaims(token, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	// jwt/v4 treats a missing exp as valid; access tokens must expire.
	if claims.ExpiresAt == nil || !claims.ExpiresAt.After(c.now()) {
		return nil, ErrInvalidToken
	}
	if c.issuer != "" && !claims.VerifyIssuer(c.issuer, true) {
		return nil, ErrInvalidToken
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return nil, ErrInvalidToken
	}

	out := &Claims{UserID: id, ExpiresAt: claims.ExpiresAt.Time}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}
