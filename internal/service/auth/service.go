package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jwalitptl/medreminder-api/internal/model"
	"github.com/jwalitptl/medreminder-api/internal/repository"
	"github.com/jwalitptl/medreminder-api/internal/service/integrity"
	"github.com/jwalitptl/medreminder-api/pkg/auth"
	apperrors "github.com/jwalitptl/medreminder-api/pkg/errors"
	"github.com/jwalitptl/medreminder-api/pkg/logger"
	"github.com/jwalitptl/medreminder-api/pkg/security"
)

var errBadLogin = apperrors.Unauthenticated("invalid email or password")

type Service struct {
	store  repository.Store
	jwtSvc auth.JWTService
	hasher security.PasswordHasher
	logger *logger.Logger
}

func NewService(store repository.Store, jwtSvc auth.JWTService, hasher security.PasswordHasher, log *logger.Logger) *Service {
	return &Service{
		store:  store,
		jwtSvc: jwtSvc,
		hasher: hasher,
		logger: log,
	}
}

// Register creates a user after checking the identity domain.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	if err := integrity.CheckDUI("dui", req.DUI); err != nil {
		return nil, err
	}
	if !req.Role.Valid() {
		return nil, apperrors.InvalidInput("invalid role", apperrors.FieldError{Field: "role", Message: "must be one of: doctor patient"})
	}
	if err := integrity.CheckPresentNotBlank(
		integrity.Field{Name: "name", Value: &name},
		integrity.Field{Name: "email", Value: &email},
	); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if errors.Is(err, security.ErrPasswordTooShort) {
		return nil, apperrors.InvalidInput("validation failed", apperrors.FieldError{Field: "password", Message: err.Error()})
	}
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         req.Role,
		DUI:          req.DUI,
	}
	user.Touch(time.Now().UTC())

	err = s.store.WithTx(ctx, func(tx repository.Store) error {
		if err := integrity.CheckNewUser(ctx, tx, user.Email, user.DUI); err != nil {
			return err
		}
		return integrity.StoreError(tx.Users().Create(ctx, user), "user")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", "user_id", user.ID.String(), "role", string(user.Role))
	return user, nil
}

// Login checks the password and issues a token. Unknown emails and wrong
// passwords fail the same way.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.store.Users().GetByEmail(ctx, normalizeEmail(req.Email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errBadLogin
	}
	if err != nil {
		return nil, integrity.StoreError(err, "user")
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, errBadLogin
	}

	token, expiresAt, err := s.jwtSvc.Issue(user.ID, string(user.Role), user.DUI)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// ResolveIdentity verifies a token and loads the caller from the store. The
// stored role and dui win over the claims.
func (s *Service) ResolveIdentity(ctx context.Context, token string) (model.Identity, error) {
	claims, err := s.jwtSvc.Verify(token)
	if err != nil {
		return model.Identity{}, err
	}
	userID, err := claims.UserID()
	if err != nil {
		return model.Identity{}, apperrors.InvalidCredential(err)
	}

	user, err := s.store.Users().Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.Identity{}, apperrors.InvalidCredential(errors.New("user no longer exists"))
	}
	if err != nil {
		return model.Identity{}, integrity.StoreError(err, "user")
	}
	return user.Identity(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
