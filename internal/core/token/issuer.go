// Package token mints and parses the JWT access/refresh pair handed out by
// the authentication flow.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/memberhub/accounts/internal/core/domain"
)

// Type distinguishes access tokens from refresh tokens via the token_type claim.
type Type string

const (
	TypeAccess  Type = "access"
	TypeRefresh Type = "refresh"
)

const (
	defaultAccessTTL  = 5 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
)

var supportedAlgorithms = map[string]jwt.SigningMethod{
	jwt.SigningMethodHS256.Alg(): jwt.SigningMethodHS256,
	jwt.SigningMethodHS384.Alg(): jwt.SigningMethodHS384,
	jwt.SigningMethodHS512.Alg(): jwt.SigningMethodHS512,
}

// Claims is the payload of both token kinds. Subject holds the member ID and
// ID holds a unique token identifier.
type Claims struct {
	TokenType Type   `json:"token_type"`
	Role      string `json:"role"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// Identity is the member data embedded in every token.
type Identity struct {
	MemberID string
	Role     string
	Name     string
	Email    string
}

// IdentityOf extracts the token identity of a member.
func IdentityOf(m *domain.Member) Identity {
	return Identity{MemberID: m.ID, Role: m.Role, Name: m.Name, Email: m.Email}
}

// Identity returns the member identity carried by the claims.
func (c *Claims) Identity() Identity {
	return Identity{MemberID: c.Subject, Role: c.Role, Name: c.Name, Email: c.Email}
}

// Config captures the signing configuration. Algorithm defaults to HS256.
type Config struct {
	Secret     string
	Algorithm  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
	// Now overrides the clock used for issuing and validating. Tests only.
	Now func() time.Time
}

// Pair is a freshly minted access/refresh token couple.
type Pair struct {
	Access           string
	Refresh          string
	RefreshExpiresAt time.Time
}

// Issuer signs and verifies tokens with a single HMAC secret.
type Issuer struct {
	secret     []byte
	method     jwt.SigningMethod
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewIssuer(cfg Config) (*Issuer, error) {
	if cfg.Secret == "" {
		return nil, errors.New("token: signing secret is required")
	}
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS256.Alg()
	}
	method, ok := supportedAlgorithms[alg]
	if !ok {
		return nil, fmt.Errorf("token: unsupported signing algorithm %q", alg)
	}

	iss := &Issuer{
		secret:     []byte(cfg.Secret),
		method:     method,
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		now:        cfg.Now,
	}
	if iss.accessTTL <= 0 {
		iss.accessTTL = defaultAccessTTL
	}
	if iss.refreshTTL <= 0 {
		iss.refreshTTL = defaultRefreshTTL
	}
	if iss.now == nil {
		iss.now = time.Now
	}
	return iss, nil
}

// RefreshTTL is the configured refresh-token lifetime, also used as the
// refresh cookie max-age.
func (i *Issuer) RefreshTTL() time.Duration {
	return i.refreshTTL
}

// Pair mints a new access token and refresh token for id.
func (i *Issuer) Pair(id Identity) (Pair, error) {
	access, _, err := i.sign(id, TypeAccess, i.accessTTL)
	if err != nil {
		return Pair{}, err
	}
	refresh, exp, err := i.sign(id, TypeRefresh, i.refreshTTL)
	if err != nil {
		return Pair{}, err
	}
	return Pair{Access: access, Refresh: refresh, RefreshExpiresAt: exp}, nil
}

// Access mints a standalone access token for id.
func (i *Issuer) Access(id Identity) (string, error) {
	access, _, err := i.sign(id, TypeAccess, i.accessTTL)
	return access, err
}

// Parse verifies signature, algorithm, expiry and token_type. Every failure
// wraps domain.ErrInvalidToken.
func (i *Issuer) Parse(raw string, want Type) (*Claims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{i.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil || !tkn.Valid {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidToken, err)
	}
	if claims.TokenType != want {
		return nil, fmt.Errorf("%w: expected %s token, got %q", domain.ErrInvalidToken, want, claims.TokenType)
	}
	if claims.Subject == "" || claims.ID == "" {
		return nil, fmt.Errorf("%w: missing subject or jti", domain.ErrInvalidToken)
	}
	return claims, nil
}

func (i *Issuer) sign(id Identity, typ Type, ttl time.Duration) (string, time.Time, error) {
	now := i.now()
	exp := now.Add(ttl)
	claims := Claims{
		TokenType: typ,
		Role:      id.Role,
		Name:      id.Name,
		Email:     id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.MemberID,
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(i.method, claims).SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign %s token: %w", typ, err)
	}
	return signed, exp, nil
}
