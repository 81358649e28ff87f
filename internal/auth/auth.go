// Package auth implements the demo login: a fixed user list checked against
// plain-text credentials, and locally signed HMAC tokens. It is a mock, not
// a security boundary; the user fixture is injected so tests can build
// isolated instances instead of sharing package-level state.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Roles the dashboard distinguishes between.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// ErrInvalidCredentials is returned when username/password do not match any
// fixture user.
var ErrInvalidCredentials = errors.New("invalid credentials")

// User is one demo account. Password is stored in the clear on purpose.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"-"`
}

// DefaultUsers is the demo fixture shipped with the dashboard.
func DefaultUsers() []User {
	return []User{
		{ID: "u-admin", Username: "admin", Name: "Control Center Admin", Role: RoleAdmin, Password: "admin123"},
		{ID: "u-operator", Username: "operator", Name: "Traffic Operator", Role: RoleUser, Password: "operator123"},
		{ID: "u-viewer", Username: "viewer", Name: "Dashboard Viewer", Role: RoleUser, Password: "viewer123"},
	}
}

// Claims carried by issued tokens.
type Claims struct {
	jwt.RegisteredClaims
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Service authenticates fixture users and issues/verifies tokens.
type Service struct {
	users  []User
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option customises a Service.
type Option func(*Service)

// WithClock injects the token timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds an auth service over the given user fixture.
func NewService(users []User, secret string, ttl time.Duration, opts ...Option) *Service {
	s := &Service{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
	if s.ttl <= 0 {
		s.ttl = 12 * time.Hour
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Authenticate checks credentials against the fixture and returns the
// matching user.
func (s *Service) Authenticate(username, password string) (*User, error) {
	for i := range s.users {
		u := &s.users[i]
		if u.Username == username && u.Password == password {
			found := *u
			return &found, nil
		}
	}
	return nil, ErrInvalidCredentials
}

// IssueToken signs a token for the given user.
func (s *Service) IssueToken(u *User) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Username: u.Username,
		Role:     u.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses and validates a signed token, returning its claims.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %q", t.Method.Alg())
			}
			return s.secret, nil
		},
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(5*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("token is not valid")
	}
	return claims, nil
}

// VerifyBearer extracts the bearer token from an Authorization header value
// and verifies it.
func (s *Service) VerifyBearer(header string) (*Claims, error) {
	if header == "" {
		return nil, errors.New("missing Authorization header")
	}
	parts := strings.Split(header, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return nil, errors.New("invalid Authorization header format")
	}
	return s.VerifyToken(parts[1])
}
