package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Role string

const (
	RoleUser   Role = "user"
	RoleDoctor Role = "doctor"
	RoleAdmin  Role = "admin"
)

const issuerName = "medibook"

var (
	ErrUnknownRole  = errors.New("unknown role")
	ErrInvalidToken = errors.New("invalid token")
)

// Principal is the authenticated caller resolved from a token.
type Principal struct {
	ID   primitive.ObjectID
	Role Role
}

type Claims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}

// Namespace holds everything that keeps one role's sessions apart from the others.
type Namespace struct {
	Role       Role
	Secret     []byte
	CookieName string
	TTL        time.Duration
}

type Issuer struct {
	namespaces map[Role]Namespace
	now        func() time.Time
}

func NewIssuer(namespaces ...Namespace) (*Issuer, error) {
	issuer := &Issuer{namespaces: make(map[Role]Namespace), now: time.Now}
	for _, ns := range namespaces {
		if len(ns.Secret) == 0 {
			return nil, fmt.Errorf("empty secret for role %s", ns.Role)
		}
		if ns.TTL <= 0 {
			return nil, fmt.Errorf("non-positive ttl for role %s", ns.Role)
		}
		issuer.namespaces[ns.Role] = ns
	}
	return issuer, nil
}

func (i *Issuer) Namespace(role Role) (Namespace, bool) {
	ns, ok := i.namespaces[role]
	return ns, ok
}

// Issue signs a token for id in the role's namespace and returns it with its expiry.
func (i *Issuer) Issue(role Role, id primitive.ObjectID) (string, time.Time, error) {
	ns, ok := i.namespaces[role]
	if !ok {
		return "", time.Time{}, ErrUnknownRole
	}
	now := i.now()
	expiresAt := now.Add(ns.TTL)
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuerName,
			Subject:   id.Hex(),
			Audience:  jwt.ClaimStrings{string(role)},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ns.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks raw against the role's own secret. Tokens may arrive with or
// without the "Bearer " marker.
func (i *Issuer) Verify(role Role, raw string) (Principal, error) {
	ns, ok := i.namespaces[role]
	if !ok {
		return Principal{}, ErrUnknownRole
	}
	tokenString := NormalizeToken(raw)
	if tokenString == "" {
		return Principal{}, ErrInvalidToken
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return ns.Secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(string(role)),
		jwt.WithIssuer(issuerName),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Role != role {
		return Principal{}, ErrInvalidToken
	}
	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	return Principal{ID: id, Role: role}, nil
}

// NormalizeToken strips quoting, whitespace and an optional bearer scheme.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	token = strings.Trim(token, `"`)
	if len(token) >= 6 && strings.EqualFold(token[:6], "bearer") && (len(token) == 6 || token[6] == ' ') {
		token = token[6:]
	}
	return strings.TrimSpace(token)
}
