package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var ErrInvalidToken = errors.New("invalid token")

const (
	audienceAccess  = "passport:access"
	audienceRefresh = "passport:refresh"
)

type Claims struct {
	jwt.RegisteredClaims
	UserID    string `json:"uid,omitempty"`
	SessionID string `json:"sid"`
}

// Options selects a signing profile: which secret, audience and TTL a
// token is bound to. Access and refresh tokens use separate secrets so
// one can never be replayed as the other.
type Options struct {
	Secret   []byte
	Audience string
	TTL      time.Duration
}

type Codec struct {
	access  Options
	refresh Options
	now     func() time.Time
}

func NewCodec(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration, now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{
		access:  Options{Secret: accessSecret, Audience: audienceAccess, TTL: accessTTL},
		refresh: Options{Secret: refreshSecret, Audience: audienceRefresh, TTL: refreshTTL},
		now:     now,
	}
}

func (c *Codec) SignAccess(userID, sessionID uuid.UUID) (string, error) {
	return c.sign(Claims{UserID: userID.String(), SessionID: sessionID.String()}, c.access)
}

func (c *Codec) SignRefresh(sessionID uuid.UUID) (string, error) {
	return c.sign(Claims{SessionID: sessionID.String()}, c.refresh)
}

func (c *Codec) VerifyAccess(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.access)
}

func (c *Codec) VerifyRefresh(tokenString string) (*Claims, error) {
	return c.verify(tokenString, c.refresh)
}

func (c *Codec) sign(claims Claims, opts Options) (string, error) {
	now := c.now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Audience:  jwt.ClaimStrings{opts.Audience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(opts.TTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(opts.Secret)
}

// verify never panics and collapses every failure mode (bad signature,
// malformed structure, wrong audience, expiry) into ErrInvalidToken so
// the caller decides the user-facing error.
func (c *Codec) verify(tokenString string, opts Options) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return opts.Secret, nil
	},
		jwt.WithAudience(opts.Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if _, err := uuid.Parse(claims.SessionID); err != nil {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
