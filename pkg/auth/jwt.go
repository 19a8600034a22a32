package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
)

// Claims binds a token to one user, their role and their dui.
type Claims struct {
	Role string `json:"role"`
	DUI  string `json:"dui"`
	jwt.RegisteredClaims
}

// UserID parses the subject.
func (c *Claims) UserID() (uuid.UUID, error) {
	return uuid.Parse(c.Subject)
}

type JWTService interface {
	Issue(userID uuid.UUID, role, dui string) (token string, expiresAt time.Time, err error)
	Verify(token string) (*Claims, error)
}

type Config struct {
	Secret string
	Issuer string
	Expiry time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

type jwtService struct {
	secret []byte
	issuer string
	expiry time.Duration
	now    func() time.Time
}

func NewJWTService(cfg Config) (JWTService, error) {
	if cfg.Secret == "" {
		return nil, errors.New("jwt secret is required")
	}
	if cfg.Expiry <= 0 {
		return nil, errors.New("jwt expiry must be positive")
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &jwtService{
		secret: []byte(cfg.Secret),
		issuer: cfg.Issuer,
		expiry: cfg.Expiry,
		now:    cfg.Now,
	}, nil
}

func (s *jwtService) Issue(userID uuid.UUID, role, dui string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.expiry)

	claims := Claims{
		Role: role,
		DUI:  dui,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return token, expiresAt, nil
}

// Verify returns an InvalidCredential AppError for every rejected token.
func (s *jwtService) Verify(token string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil {
		return nil, apperrors.InvalidCredential(err)
	}

	if claims.Subject == "" || claims.Role == "" || claims.DUI == "" {
		return nil, apperrors.InvalidCredential(errors.New("incomplete claims"))
	}
	if _, err := claims.UserID(); err != nil {
		return nil, apperrors.InvalidCredential(fmt.Errorf("invalid subject: %w", err))
	}
	return claims, nil
}
