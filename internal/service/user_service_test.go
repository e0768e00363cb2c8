package service

import (
	"context"
	"testing"
	"time"

	"resourcing/internal/apperror"
	"resourcing/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepo struct {
	users         map[string]*model.User
	refreshTokens map[string]*model.RefreshToken
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:         make(map[string]*model.User),
		refreshTokens: make(map[string]*model.RefreshToken),
	}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID.String() == id {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) StoreRefreshToken(ctx context.Context, token *model.RefreshToken) error {
	f.refreshTokens[token.Token] = token
	return nil
}

func (f *fakeUserRepo) GetRefreshToken(ctx context.Context, token string) (*model.RefreshToken, error) {
	if t, ok := f.refreshTokens[token]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) DeleteRefreshToken(ctx context.Context, token string) error {
	delete(f.refreshTokens, token)
	return nil
}

func (f *fakeUserRepo) DeleteExpiredRefreshTokens(ctx context.Context) error {
	return nil
}

func TestUserService_Login_WrongDomainRejected(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	_, err := svc.Login(context.Background(), LoginRequest{Email: "someone@gmail.com", Password: "secret"})
	assert.Error(t, err)
	ae := apperror.From(err)
	assert.Equal(t, 403, ae.HTTPStatus)
}

func TestUserService_Login_ProvisionsFirstTimeUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	res, err := svc.Login(context.Background(), LoginRequest{Email: "maya@prodesign.mu", Password: "secret"})
	assert.NoError(t, err)
	assert.Equal(t, model.RoleUser, res.Role)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.RefreshToken)

	// The stored password must be hashed, never plaintext
	stored := repo.users["maya@prodesign.mu"]
	assert.NotEqual(t, "secret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret")))

	// Token carries identity claims
	parsed, _ := jwt.Parse(res.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("default_super_secret_key"), nil
	})
	claims := parsed.Claims.(jwt.MapClaims)
	assert.Equal(t, "maya@prodesign.mu", claims["email"])
	assert.Equal(t, model.RoleUser, claims["role"])
}

func TestUserService_Login_AdminEmailGetsAdminRole(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	res, err := svc.Login(context.Background(), LoginRequest{Email: "planner@prodesign.mu", Password: "secret"})
	assert.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, res.Role)
}

func TestUserService_Login_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	_, err := svc.Login(context.Background(), LoginRequest{Email: "maya@prodesign.mu", Password: "first"})
	assert.NoError(t, err)

	_, err = svc.Login(context.Background(), LoginRequest{Email: "maya@prodesign.mu", Password: "other"})
	assert.Error(t, err)
	assert.Equal(t, 401, apperror.From(err).HTTPStatus)
}

func TestUserService_Refresh(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	res, err := svc.Login(context.Background(), LoginRequest{Email: "maya@prodesign.mu", Password: "secret"})
	assert.NoError(t, err)

	// Preload behaviour: the fake stores the user on the token
	repo.refreshTokens[res.RefreshToken].User = *repo.users["maya@prodesign.mu"]

	refreshed, err := svc.Refresh(context.Background(), res.RefreshToken)
	assert.NoError(t, err)
	assert.NotEmpty(t, refreshed.Token)

	_, err = svc.Refresh(context.Background(), "unknown-token")
	assert.Error(t, err)
}

func TestUserService_Refresh_Expired(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	res, err := svc.Login(context.Background(), LoginRequest{Email: "maya@prodesign.mu", Password: "secret"})
	assert.NoError(t, err)

	repo.refreshTokens[res.RefreshToken].ExpiresAt = time.Now().Add(-time.Hour)

	_, err = svc.Refresh(context.Background(), res.RefreshToken)
	assert.Error(t, err)
	assert.Equal(t, "Session expired, please login again", apperror.From(err).Message)
	// Expired token is purged
	assert.NotContains(t, repo.refreshTokens, res.RefreshToken)
}

func TestUserService_Logout(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	res, err := svc.Login(context.Background(), LoginRequest{Email: "maya@prodesign.mu", Password: "secret"})
	assert.NoError(t, err)

	assert.NoError(t, svc.Logout(context.Background(), res.RefreshToken))
	assert.NotContains(t, repo.refreshTokens, res.RefreshToken)
}
