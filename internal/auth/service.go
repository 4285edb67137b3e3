package auth

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	errors "github.com/frahmantamala/finance-dashboard/internal"
	userDatamodel "github.com/frahmantamala/finance-dashboard/internal/core/datamodel/user"
)

// UserRepository reads and writes credentials. Lookups return nil, nil when no row matches.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	Create(ctx context.Context, user *userDatamodel.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetAdmin(ctx context.Context, id int64, admin bool) error
}

// Service is the main auth service with dependencies
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	bcryptCost     int
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(userRepo UserRepository, tokenGen TokenGenerator, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		bcryptCost:     bcryptCost,
		logger:         logger,
	}
}

// Signup registers an active account and returns it without issuing tokens.
func (s *Service) Signup(ctx context.Context, dto SignupDTO) (*userDatamodel.User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	email := NormalizeEmail(dto.Email)

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		s.logger.Error("failed to look up email", "error", err)
		return nil, errors.NewInternalError("failed to register user", err)
	}
	if existing != nil {
		return nil, errors.ErrEmailTaken
	}

	hash, err := s.HashPassword(dto.Password)
	if err != nil {
		return nil, errors.NewInternalError("failed to hash password", err)
	}

	user := &userDatamodel.User{
		Email:        email,
		FullName:     strings.TrimSpace(dto.FullName),
		PasswordHash: hash,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		s.logger.Error("failed to create user", "error", err)
		return nil, errors.NewInternalError("failed to register user", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// Authenticate validates credentials and returns tokens
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (AuthTokens, error) {
	if err := dto.Validate(); err != nil {
		return AuthTokens{}, err
	}

	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(dto.Email))
	if err != nil {
		s.logger.Error("failed to load user for login", "error", err)
		return AuthTokens{}, errors.NewInternalError("failed to authenticate", err)
	}
	if user == nil {
		return AuthTokens{}, errors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.Password)); err != nil {
		return AuthTokens{}, errors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return AuthTokens{}, errors.ErrUserInactive
	}

	return s.issue(user)
}

// RefreshTokens validates refresh token and returns new tokens
func (s *Service) RefreshTokens(ctx context.Context, refreshToken string) (AuthTokens, error) {
	claims, err := s.tokenGenerator.ValidateRefreshToken(refreshToken)
	if err != nil {
		return AuthTokens{}, err
	}

	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return AuthTokens{}, err
	}
	return s.issue(user)
}

// ValidateAccessToken validates access token and returns claims
func (s *Service) ValidateAccessToken(tokenString string) (*Claims, error) {
	return s.tokenGenerator.ValidateAccessToken(tokenString)
}

// Authorize resolves an access token to the session of an active user.
func (s *Service) Authorize(ctx context.Context, tokenString string) (*errors.Session, error) {
	claims, err := s.tokenGenerator.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}
	user, err := s.activeUser(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	return &errors.Session{UserID: user.ID, Email: user.Email, Permissions: PermissionsFor(user)}, nil
}

// SetAdmin grants or revokes the admin role of the account registered under email.
// Sessions pick the change up on their next request.
func (s *Service) SetAdmin(ctx context.Context, email string, admin bool) (*userDatamodel.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		s.logger.Error("failed to look up user", "error", err)
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}
	if err := s.userRepo.SetAdmin(ctx, user.ID, admin); err != nil {
		s.logger.Error("failed to update admin role", "user_id", user.ID, "error", err)
		return nil, errors.NewInternalError("failed to update user", err)
	}
	user.IsAdmin = admin
	s.logger.Info("admin role changed", "user_id", user.ID, "admin", admin)
	return user, nil
}

func (s *Service) ChangePassword(ctx context.Context, userID int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	user, err := s.activeUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
		return errors.ErrInvalidCredentials
	}

	hash, err := s.HashPassword(dto.NewPassword)
	if err != nil {
		return errors.NewInternalError("failed to hash password", err)
	}
	if err := s.userRepo.UpdatePassword(ctx, userID, hash); err != nil {
		s.logger.Error("failed to update password", "user_id", userID, "error", err)
		return errors.NewInternalError("failed to change password", err)
	}

	s.logger.Info("password changed", "user_id", userID)
	return nil
}

// HashPassword creates a bcrypt hash of the password
func (s *Service) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *Service) activeUser(ctx context.Context, id int64) (*userDatamodel.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to load user", "user_id", id, "error", err)
		return nil, errors.NewInternalError("failed to load user", err)
	}
	if user == nil {
		return nil, errors.ErrInvalidToken
	}
	if !user.IsActive {
		return nil, errors.ErrUserInactive
	}
	return user, nil
}

func (s *Service) issue(user *userDatamodel.User) (AuthTokens, error) {
	accessToken, err := s.tokenGenerator.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("failed to issue token", err)
	}
	refreshToken, err := s.tokenGenerator.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return AuthTokens{}, errors.NewInternalError("failed to issue token", err)
	}
	return AuthTokens{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    TokenTypeBearer,
		ExpiresIn:    int64(s.tokenGenerator.AccessTTL().Seconds()),
	}, nil
}
