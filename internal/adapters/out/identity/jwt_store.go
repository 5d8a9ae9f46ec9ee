// Package identity verifies bearer tokens and maps them to stored principals.
//
// Tokens are HS256 JSON Web Tokens whose subject is the principal id. Issuing tokens belongs to
// the login flow; Issue exists for seeding and tests.
package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/core/domain/model/identity"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"

	"github.com/golang-jwt/jwt/v5"
)

// PrincipalGetter loads a principal by id; a ports.PrincipalRepository satisfies it.
type PrincipalGetter interface {
	Get(ctx context.Context, id kernel.UUID) (*identity.Principal, error)
}

type JWTStore struct {
	secret     []byte
	principals PrincipalGetter
	now        func() time.Time
}

func NewJWTStore(secret string, principals PrincipalGetter) (*JWTStore, error) {
	if secret == "" {
		return nil, errs.NewValueIsRequiredError("jwtSecret")
	}
	return &JWTStore{
		secret:     []byte(secret),
		principals: principals,
		now:        time.Now,
	}, nil
}

// LookupPrincipal verifies signature and expiry of token and loads its subject.
func (s *JWTStore) LookupPrincipal(ctx context.Context, token string) (*identity.Principal, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return nil, errs.NewUnauthenticatedErrorWithCause(err)
	}

	id, err := kernel.UUIDFromString(claims.Subject)
	if err != nil {
		return nil, errs.NewUnauthenticatedErrorWithCause(err)
	}

	principal, err := s.principals.Get(ctx, id)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.NewUnauthenticatedErrorWithCause(err)
	}
	if err != nil {
		return nil, err
	}
	return principal, nil
}

// Issue signs a token for principalID valid for ttl.
func (s *JWTStore) Issue(principalID kernel.UUID, ttl time.Duration) (string, error) {
	issuedAt := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   principalID.String(),
		IssuedAt:  jwt.NewNumericDate(issuedAt),
		ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}
