package service

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"resourcing/internal/apperror"
	"resourcing/internal/model"
	"resourcing/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Access tokens are short-lived; sessions survive through refresh tokens.
const (
	AccessTokenTTL  = 20 * time.Minute
	RefreshTokenTTL = 7 * 24 * time.Hour
)

// --- DTOs ---

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	Role         string `json:"role"`
	Message      string `json:"message"`
}

type TokenResponse struct {
	Token string `json:"token"`
}

// --- Interface ---

// UserService is the identity collaborator: domain-restricted login with
// auto-provisioning, short-lived JWTs, and refresh-token rotation.
type UserService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
}

type userService struct {
	repo        repository.UserRepository
	domain      string
	adminEmails map[string]bool
}

func NewUserService(repo repository.UserRepository) UserService {
	admins := make(map[string]bool)
	adminEnv := os.Getenv("ADMIN_EMAILS")
	if adminEnv == "" {
		adminEnv = "planner@" + AllowedEmailDomain()
	}
	for _, email := range strings.Split(adminEnv, ",") {
		if trimmed := strings.TrimSpace(strings.ToLower(email)); trimmed != "" {
			admins[trimmed] = true
		}
	}
	return &userService{
		repo:        repo,
		domain:      AllowedEmailDomain(),
		adminEmails: admins,
	}
}

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key" // development fallback only
	}
	return []byte(secret)
}

// --- Implementation ---

func (s *userService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := strings.ToLower(req.Email)
	if !strings.HasSuffix(email, "@"+s.domain) {
		return nil, apperror.Forbidden(fmt.Sprintf("Access restricted to @%s users", s.domain))
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, apperror.Storage("failed to look up user", err)
		}
		// First login on the corporate domain provisions the account
		hashed, hashErr := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if hashErr != nil {
			return nil, apperror.Storage("failed to hash password", hashErr)
		}
		role := model.RoleUser
		if s.adminEmails[email] {
			role = model.RoleAdmin
		}
		user = &model.User{Email: email, Password: string(hashed), Role: role}
		if createErr := s.repo.Create(ctx, user); createErr != nil {
			return nil, apperror.Storage("failed to provision user", createErr)
		}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	token, err := s.signAccessToken(user)
	if err != nil {
		return nil, apperror.Storage("failed to generate token", err)
	}

	refresh := &model.RefreshToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(RefreshTokenTTL),
	}
	if err := s.repo.StoreRefreshToken(ctx, refresh); err != nil {
		return nil, apperror.Storage("failed to store refresh token", err)
	}

	return &LoginResponse{
		Token:        token,
		RefreshToken: refresh.Token,
		Role:         user.Role,
		Message:      "Login successful",
	}, nil
}

func (s *userService) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	if refreshToken == "" {
		return nil, apperror.Unauthorized("Refresh token is missing")
	}

	stored, err := s.repo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.repo.DeleteRefreshToken(ctx, refreshToken)
		return nil, apperror.Unauthorized("Session expired, please login again")
	}

	token, err := s.signAccessToken(&stored.User)
	if err != nil {
		return nil, apperror.Storage("failed to generate token", err)
	}
	return &TokenResponse{Token: token}, nil
}

func (s *userService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.repo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return apperror.Storage("failed to delete refresh token", err)
	}
	return nil
}

func (s *userService) signAccessToken(user *model.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"exp":   time.Now().Add(AccessTokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}
