package auth

import (
	"errors"
	"time"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the signed payload of a session token.
type Claims struct {
	UserID  string `json:"id"`
	IsAdmin bool   `json:"isAdmin"`
	jwt.RegisteredClaims
}

// Identity is the verified content of a session token.
//
// IsAdmin is the flag as it was when the token was issued. It is not
// re-read from the user store, so a demotion only takes effect once the
// tokens issued before it have expired.
type Identity struct {
	SubjectID string
	IsAdmin   bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenCodec issues and verifies HS256-signed session tokens.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// CodecOption customises a TokenCodec.
type CodecOption func(*TokenCodec)

// WithClock replaces time.Now as the codec's notion of the current time.
func WithClock(now func() time.Time) CodecOption {
	return func(c *TokenCodec) { c.now = now }
}

// NewTokenCodec builds a codec. The secret is copied and never exposed again.
func NewTokenCodec(secret []byte, ttl time.Duration, opts ...CodecOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret must not be empty")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}
	c := &TokenCodec{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Issue signs a token for subjectID valid for the codec's TTL.
func (c *TokenCodec) Issue(subjectID string, isAdmin bool) (string, error) {
	if subjectID == "" {
		return "", errors.New("subject id must not be empty")
	}
	issuedAt := c.now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID:  subjectID,
		IsAdmin: isAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(c.ttl)),
		},
	})

	return token.SignedString(c.secret)
}

// Verify checks the signature first and only then the claims. A token is
// valid up to and including its expiry instant. It returns
// common.ErrTokenExpired for a correctly signed token past its expiry and
// common.ErrInvalidToken for everything else. Callers at the HTTP boundary
// must not tell the two apart.
func (c *TokenCodec) Verify(tokenString string) (*Identity, error) {
	// jwt/v5 treats now == exp as expired, so time claims are checked here.
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}
	if claims.UserID == "" || claims.ExpiresAt == nil {
		return nil, common.ErrInvalidToken
	}

	now := c.now()
	if claims.IssuedAt != nil && claims.IssuedAt.Time.After(now) {
		return nil, common.ErrInvalidToken
	}
	if now.After(claims.ExpiresAt.Time) {
		return nil, common.ErrTokenExpired
	}

	id := &Identity{
		SubjectID: claims.UserID,
		IsAdmin:   claims.IsAdmin,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		id.IssuedAt = claims.IssuedAt.Time
	}
	return id, nil
}
