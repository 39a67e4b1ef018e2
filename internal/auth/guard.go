package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"grievance/internal/domain"
	"grievance/pkg/e"
)

// Claims mirrors the tokens issued by the account service: the subject is
// carried in "id", with "sub" accepted as a fallback.
type Claims struct {
	UserID string      `json:"id,omitempty"`
	Email  string      `json:"email,omitempty"`
	Role   domain.Role `json:"role"`
	Name   string      `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// Guard verifies bearer tokens and turns them into principals.
type Guard struct {
	signingKey []byte
	issuer     string
	now        func() time.Time
}

type Option func(*Guard)

// WithClock overrides the time source used for expiry checks and issuance.
func WithClock(now func() time.Time) Option {
	return func(g *Guard) { g.now = now }
}

func NewGuard(secret, issuer string, opts ...Option) *Guard {
	g := &Guard{
		signingKey: []byte(secret),
		issuer:     issuer,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Guard) Authenticate(token string) (domain.Principal, error) {
	const op = "auth.Guard.Authenticate"

	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Principal{}, fmt.Errorf("%s: empty token: %w", op, e.ErrUnauthenticated)
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(g.now),
	}
	if g.issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(g.issuer))
	}

	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return g.signingKey, nil
	}, parserOpts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.Principal{}, fmt.Errorf("%s: token has expired: %w", op, e.ErrUnauthenticated)
		}
		return domain.Principal{}, fmt.Errorf("%s: invalid token: %w", op, e.ErrUnauthenticated)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return domain.Principal{}, fmt.Errorf("%s: invalid token claims: %w", op, e.ErrUnauthenticated)
	}

	subject := claims.UserID
	if subject == "" {
		subject = claims.Subject
	}
	if subject == "" {
		return domain.Principal{}, fmt.Errorf("%s: missing subject: %w", op, e.ErrUnauthenticated)
	}
	if !claims.Role.Valid() {
		return domain.Principal{}, fmt.Errorf("%s: unknown role %q: %w", op, claims.Role, e.ErrUnauthenticated)
	}

	return domain.Principal{
		SubjectID:   subject,
		Role:        claims.Role,
		DisplayName: claims.Name,
	}, nil
}

// Authorize authenticates the token and requires one of the given roles.
func (g *Guard) Authorize(token string, required ...domain.Role) (domain.Principal, error) {
	p, err := g.Authenticate(token)
	if err != nil {
		return domain.Principal{}, err
	}
	if err := RequireRole(p, required...); err != nil {
		return domain.Principal{}, err
	}
	return p, nil
}

// Issue signs a token for p. Production tokens come from the account
// service; this exists for tests and local tooling.
func (g *Guard) Issue(p domain.Principal, ttl time.Duration) (string, error) {
	now := g.now()
	claims := Claims{
		UserID: p.SubjectID,
		Role:   p.Role,
		Name:   p.DisplayName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.SubjectID,
			Issuer:    g.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(g.signingKey)
	if err != nil {
		return "", e.Wrap("auth.Guard.Issue", err)
	}
	return signed, nil
}
