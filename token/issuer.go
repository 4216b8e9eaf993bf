package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalid is returned by [Issuer.Verify] for any token that fails
// signature, structure, or expiry checks. Callers get no further detail.
var ErrInvalid = errors.New("invalid token")

// Config defines a public type used by authcore APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	SigningSecret []byte
	TTL           time.Duration
	Issuer        string
}

// Claims defines a public type used by authcore APIs.
//
// Claims instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Claims struct {
	UID string `json:"uid"`
	jwt.RegisteredClaims
}

// Issuer defines a public type used by authcore APIs.
//
// Issuer instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Issuer struct {
	config Config
}

// NewIssuer describes the newissuer operation and its observable behavior.
//
// NewIssuer may return an error when input validation, dependency calls, or security checks fail.
// NewIssuer does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewIssuer(cfg Config) (*Issuer, error) {
	if len(cfg.SigningSecret) == 0 {
		return nil, errors.New("signing secret required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("invalid TTL configuration")
	}
	return &Issuer{config: cfg}, nil
}

// Issue describes the issue operation and its observable behavior.
//
// Issue may return an error when input validation, dependency calls, or security checks fail.
// Issue does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (i *Issuer) Issue(userID string) (string, error) {
	if userID == "" {
		return "", errors.New("empty user id")
	}

	now := time.Now()
	claims := Claims{
		UID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.config.TTL)),
			Issuer:    i.config.Issuer,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(i.config.SigningSecret)
}

// Verify checks signature and expiry only and returns the embedded user id.
// It never consults the session cache mirror.
func (i *Issuer) Verify(tokenStr string) (string, error) {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if i.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(i.config.Issuer))
	}

	parser := jwt.NewParser(options...)
	tok, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return i.config.SigningSecret, nil
	})
	if err != nil {
		return "", ErrInvalid
	}

	claims, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || claims.UID == "" {
		return "", ErrInvalid
	}

	return claims.UID, nil
}

// TTL reports the configured token lifetime. The engine uses it for the
// session cache mirror so both expire together.
func (i *Issuer) TTL() time.Duration {
	return i.config.TTL
}
