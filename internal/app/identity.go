package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hostelhub/internal/domain"
)

// TokenIssuer signs a credential for a user; verification lives in the
// HTTP middleware.
type TokenIssuer interface {
	Issue(u domain.User) (string, error)
}

type IdentityService struct {
	users  domain.UserRepository
	tokens TokenIssuer
}

func NewIdentityService(users domain.UserRepository, tokens TokenIssuer) *IdentityService {
	return &IdentityService{users: users, tokens: tokens}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
	Phone    string
}

func (s *IdentityService) Register(ctx context.Context, in RegisterInput) (string, error) {
	var missing []string
	if in.Username == "" {
		missing = append(missing, "username")
	}
	if in.Email == "" {
		missing = append(missing, "email")
	}
	if len(in.Password) < 6 {
		missing = append(missing, "password")
	}
	if in.FullName == "" {
		missing = append(missing, "fullName")
	}
	if len(missing) > 0 {
		return "", domain.Invalid(missing...)
	}

	if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
		return "", domain.Conflictf("user already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	if _, err := s.users.GetUserByUsername(ctx, in.Username); err == nil {
		return "", domain.Conflictf("user already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	u := domain.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		FullName:     in.FullName,
		Phone:        in.Phone,
		Role:         domain.RoleStudent,
		CreatedAt:    time.Now(),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return "", err
	}
	return s.tokens.Issue(u)
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", domain.ErrUnauthenticated
		}
		return "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrUnauthenticated
	}
	return s.tokens.Issue(u)
}

func (s *IdentityService) Profile(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetUser(ctx, userID)
}

func (s *IdentityService) Users(ctx context.Context, actor domain.Identity) ([]domain.User, error) {
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	return s.users.ListUsers(ctx)
}
