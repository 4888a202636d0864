package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"estatedesk/internal/model"
)

// Principal is the authenticated identity carried by a session. Role and id
// are frozen for the token lifetime; a status or role change does not revoke
// an already-issued session.
type Principal struct {
	ID     uuid.UUID  `json:"id"`
	Role   model.Role `json:"role"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Mobile string     `json:"mobile"`
}

// IsSuperAdmin reports whether the principal is the configured super admin.
func (p *Principal) IsSuperAdmin() bool {
	return p != nil && p.Role == model.RoleSuperAdmin
}

// Claims represents JWT claims carrying the principal.
type Claims struct {
	UserID string     `json:"user_id"`
	Role   model.Role `json:"role"`
	Name   string     `json:"name"`
	Email  string     `json:"email"`
	Mobile string     `json:"mobile"`
	jwt.RegisteredClaims
}

// JWTService handles session token generation and validation.
type JWTService struct {
	secret []byte
	ttl    time.Duration
}

// NewJWTService creates a new JWT service with the given secret and session lifetime.
func NewJWTService(secret string, ttl time.Duration) *JWTService {
	return &JWTService{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// GenerateToken issues a signed session token for the principal.
func (s *JWTService) GenerateToken(p *Principal) (string, error) {
	claims := &Claims{
		UserID: p.ID.String(),
		Role:   p.Role,
		Name:   p.Name,
		Email:  p.Email,
		Mobile: p.Mobile,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// ValidateToken validates a session token and returns the claims.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	return claims, nil
}

// Principal rebuilds the session principal from validated claims.
func (c *Claims) Principal() (*Principal, error) {
	id, err := uuid.Parse(c.UserID)
	if err != nil {
		return nil, errors.New("invalid user id in claims")
	}
	return &Principal{
		ID:     id,
		Role:   c.Role,
		Name:   c.Name,
		Email:  c.Email,
		Mobile: c.Mobile,
	}, nil
}
