package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/pkg/apperror"
	"github.com/ignatzorin/jobportal-backend/internal/repository"
)

// mockAuthRepository реализует AuthRepository для тестов.
type mockAuthRepository struct {
	mu           sync.Mutex
	usersByEmail map[string]*models.User
	usersByID    map[uuid.UUID]*models.User
	sessions     map[string]*models.Session
}

func newMockAuthRepository() *mockAuthRepository {
	return &mockAuthRepository{
		usersByEmail: make(map[string]*models.User),
		usersByID:    make(map[uuid.UUID]*models.User),
		sessions:     make(map[string]*models.Session),
	}
}

func (m *mockAuthRepository) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.usersByEmail[user.Email]; ok {
		return repository.ErrEmailTaken
	}
	user.ID = uuid.New()
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	m.usersByEmail[user.Email] = user
	m.usersByID[user.ID] = user
	return nil
}

func (m *mockAuthRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.usersByEmail[email]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.usersByID[id]; ok {
		return user, nil
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.usersByID {
		if u.ResetToken != nil && *u.ResetToken == token {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (m *mockAuthRepository) SetResetToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.usersByID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.ResetToken = &token
	u.ResetTokenExpiresAt = &expiresAt
	return nil
}

func (m *mockAuthRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.usersByID[userID]
	if !ok {
		return repository.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.ResetToken = nil
	u.ResetTokenExpiresAt = nil
	for token, s := range m.sessions {
		if s.UserID == userID {
			delete(m.sessions, token)
		}
	}
	return nil
}

func (m *mockAuthRepository) CreateSession(ctx context.Context, session *models.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	session.ID = uuid.New()
	session.CreatedAt = time.Now()
	m.sessions[session.RefreshToken] = session
	return nil
}

func (m *mockAuthRepository) GetSession(ctx context.Context, refreshToken string) (*models.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.sessions[refreshToken]; ok {
		return s, nil
	}
	return nil, repository.ErrSessionNotFound
}

func (m *mockAuthRepository) DeleteSession(ctx context.Context, refreshToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, refreshToken)
	return nil
}

func (m *mockAuthRepository) UpdateLastLoginAt(ctx context.Context, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user, ok := m.usersByID[userID]; ok {
		now := time.Now()
		user.LastLoginAt = &now
	}
	return nil
}

func newTestAuthService() (*AuthService, *mockAuthRepository, *mockMailer) {
	repo := newMockAuthRepository()
	mailer := newMockMailer()
	tm := NewTokenManager("access-secret", "refresh-secret", time.Minute, time.Hour)
	return NewAuthService(repo, tm, mailer, "http://localhost:3000/", 24*time.Hour), repo, mailer
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	service, repo, _ := newTestAuthService()
	ctx := context.Background()

	res, err := service.Register(ctx, RegisterInput{
		Name:     "Jane Doe",
		Email:    "Jane@Example.com",
		Password: "Password123",
		Role:     "employer",
	}, map[string]string{"ip": "127.0.0.1"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, res.User.ID)
	assert.Equal(t, "jane@example.com", res.User.Email)
	assert.Equal(t, models.RoleEmployer, res.User.Role)
	assert.Len(t, repo.sessions, 1)

	loginRes, err := service.Login(ctx, LoginInput{Email: "jane@example.com", Password: "Password123"}, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, loginRes.TokenPair.AccessToken)
	assert.NotNil(t, loginRes.User.LastLoginAt)

	userID, role, err := service.ParseAccessToken(loginRes.TokenPair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, userID)
	assert.Equal(t, models.RoleEmployer, role)
}

func TestAuthService_RegisterDefaultsToJobSeeker(t *testing.T) {
	service, _, _ := newTestAuthService()

	res, err := service.Register(context.Background(), RegisterInput{
		Name: "John", Email: "john@example.com", Password: "Password123",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, models.RoleJobSeeker, res.User.Role)
}

func TestAuthService_RegisterRejects(t *testing.T) {
	service, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{
		Name: "Root", Email: "root@example.com", Password: "Password123", Role: models.RoleAdmin,
	}, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidRole)

	_, err = service.Register(ctx, RegisterInput{
		Name: "Weak", Email: "weak@example.com", Password: "short",
	}, nil)
	assert.True(t, apperror.IsValidation(err))

	_, err = service.Register(ctx, RegisterInput{
		Name: "First", Email: "dup@example.com", Password: "Password123",
	}, nil)
	require.NoError(t, err)
	_, err = service.Register(ctx, RegisterInput{
		Name: "Second", Email: "dup@example.com", Password: "Password123",
	}, nil)
	assert.ErrorIs(t, err, apperror.ErrEmailTaken)
}

func TestAuthService_LoginWrongPassword(t *testing.T) {
	service, _, _ := newTestAuthService()
	ctx := context.Background()

	_, err := service.Register(ctx, RegisterInput{
		Name: "Jane", Email: "jane@example.com", Password: "Password123",
	}, nil)
	require.NoError(t, err)

	_, err = service.Login(ctx, LoginInput{Email: "jane@example.com", Password: "Wrong12345"}, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)

	_, err = service.Login(ctx, LoginInput{Email: "nobody@example.com", Password: "Password123"}, nil)
	assert.ErrorIs(t, err, apperror.ErrInvalidCredentials)
}

func TestAuthService_Refresh(t *testing.T) {
	service, repo, _ := newTestAuthService()
	ctx := context.Background()

	hash, _ := bcrypt.GenerateFromPassword([]byte("Password123"), bcrypt.MinCost)
	user := &models.User{
		ID:           uuid.New(),
		Email:        "user@example.com",
		PasswordHash: string(hash),
		Role:         models.RoleJobSeeker,
	}
	repo.usersByEmail[user.Email] = user
	repo.usersByID[user.ID] = user

	tokenPair, refreshExp, err := service.tokenManager.GeneratePair(user)
	require.NoError(t, err)
	repo.sessions[tokenPair.RefreshToken] = &models.Session{
		ID:           uuid.New(),
		UserID:       user.ID,
		RefreshToken: tokenPair.RefreshToken,
		ExpiresAt:    refreshExp,
	}

	newPair, err := service.Refresh(ctx, tokenPair.RefreshToken, nil)
	require.NoError(t, err)
	assert.NotEqual(t, tokenPair.RefreshToken, newPair.RefreshToken)

	// Старый refresh токен больше не принимается.
	_, err = service.Refresh(ctx, tokenPair.RefreshToken, nil)
	assert.ErrorIs(t, err, apperror.ErrUnauthorized)

	require.NoError(t, service.Logout(ctx, newPair.RefreshToken))
	assert.Empty(t, repo.sessions)
}

func TestAuthService_ForgotAndResetPassword(t *testing.T) {
	service, repo, mailer := newTestAuthService()
	ctx := context.Background()

	res, err := service.Register(ctx, RegisterInput{
		Name: "Jane", Email: "jane@example.com", Password: "Password123",
	}, nil)
	require.NoError(t, err)

	require.NoError(t, service.ForgotPassword(ctx, "jane@example.com"))

	var letter Letter
	select {
	case letter = <-mailer.sent:
	case <-time.After(2 * time.Second):
		t.Fatal("письмо со ссылкой не отправлено")
	}
	assert.Equal(t, "Password Reset Request", letter.Subject)
	assert.Contains(t, letter.Body, "http://localhost:3000/reset-password?token=")

	token := *repo.usersByID[res.User.ID].ResetToken
	assert.True(t, strings.HasSuffix(letter.Body, token))

	require.NoError(t, service.ResetPassword(ctx, token, "NewPassword456"))
	assert.Nil(t, repo.usersByID[res.User.ID].ResetToken)
	assert.Empty(t, repo.sessions)

	_, err = service.Login(ctx, LoginInput{Email: "jane@example.com", Password: "NewPassword456"}, nil)
	require.NoError(t, err)

	// Токен одноразовый.
	err = service.ResetPassword(ctx, token, "OtherPassword789")
	assert.ErrorIs(t, err, apperror.ErrInvalidResetToken)
}

func TestAuthService_ForgotPasswordUnknownEmail(t *testing.T) {
	service, _, mailer := newTestAuthService()

	require.NoError(t, service.ForgotPassword(context.Background(), "ghost@example.com"))
	select {
	case <-mailer.sent:
		t.Fatal("письмо не должно отправляться")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAuthService_ResetPasswordExpired(t *testing.T) {
	service, repo, _ := newTestAuthService()
	ctx := context.Background()

	res, err := service.Register(ctx, RegisterInput{
		Name: "Jane", Email: "jane@example.com", Password: "Password123",
	}, nil)
	require.NoError(t, err)

	require.NoError(t, repo.SetResetToken(ctx, res.User.ID, "expired", time.Now().Add(-time.Minute)))

	err = service.ResetPassword(ctx, "expired", "NewPassword456")
	assert.True(t, errors.Is(err, apperror.ErrInvalidResetToken))
}
