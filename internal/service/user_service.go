package service

import (
	"context"
	"errors"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"github.com/Anay7520/ChatSphere/internal/domain"
	"github.com/Anay7520/ChatSphere/internal/repository"
	"github.com/Anay7520/ChatSphere/pkg/log"
	"github.com/Anay7520/ChatSphere/pkg/token"
)

type userService struct {
	users  repository.UserRepository
	tokens *token.Manager
}

// NewUserService creates the user service.
func NewUserService(users repository.UserRepository, tokens *token.Manager) UserService {
	return &userService{users: users, tokens: tokens}
}

func (s *userService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	if err := checkPasswordStrength(req.Password); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:        req.Email,
		Username:     req.Username,
		DisplayName:  req.DisplayName,
		PasswordHash: string(hash),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger := log.Ctx(ctx)
	logger.Info().
		Str(log.FieldUserID, user.ID).
		Str("username", user.Username).
		Msg("user registered")

	return s.issueTokens(user)
}

func (s *userService) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	var (
		user *domain.User
		err  error
	)
	switch {
	case req.Email != "":
		user, err = s.users.GetByEmail(ctx, req.Email)
	case req.Username != "":
		user, err = s.users.GetByUsername(ctx, req.Username)
	default:
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}

	logger := log.Ctx(ctx)
	logger.Info().Str(log.FieldUserID, user.ID).Msg("user logged in")

	return s.issueTokens(user)
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error) {
	claims, err := s.tokens.Validate(refreshToken, token.TypeRefresh)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return s.issueTokens(user)
}

func (s *userService) Get(ctx context.Context, userID string) (*domain.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Update(ctx context.Context, userID string, req *domain.UpdateUserRequest) (*domain.UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = *req.DisplayName
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

func (s *userService) Search(ctx context.Context, query string, limit int64, excludeID string) (*domain.SearchResponse, error) {
	if limit <= 0 || limit > 50 {
		limit = 20
	}
	users, err := s.users.Search(ctx, query, limit, excludeID)
	if err != nil {
		return nil, err
	}

	summaries := make([]domain.UserSummary, 0, len(users))
	for i := range users {
		summaries = append(summaries, users[i].ToSummary())
	}
	return &domain.SearchResponse{Users: summaries, Count: len(summaries)}, nil
}

func (s *userService) Deactivate(ctx context.Context, userID string) error {
	if err := s.users.Deactivate(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	logger := log.Ctx(ctx)
	logger.Info().Str(log.FieldUserID, userID).Msg("user deactivated")
	return nil
}

func (s *userService) issueTokens(user *domain.User) (*domain.AuthResponse, error) {
	access, refresh, exp, err := s.tokens.GeneratePair(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &domain.AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		ExpiresAt:    exp,
	}, nil
}

// checkPasswordStrength requires at least one upper, one lower and one
// digit. Length is already enforced by request binding.
func checkPasswordStrength(password string) error {
	var upper, lower, digit bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	if !upper || !lower || !digit {
		return ErrWeakPassword
	}
	return nil
}
