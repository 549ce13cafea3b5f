package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/ignatzorin/jobportal-backend/internal/client/session"
	"github.com/ignatzorin/jobportal-backend/internal/dto"
	"github.com/ignatzorin/jobportal-backend/internal/models"
)

// Register регистрирует пользователя и сохраняет сессию.
func (c *Client) Register(ctx context.Context, req dto.RegisterRequest) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	if err := c.doJSON(ctx, http.MethodPost, "/auth/register", req, &resp); err != nil {
		return nil, err
	}
	if err := c.remember(resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login выполняет вход и сохраняет сессию.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.AuthResponse, error) {
	var resp dto.AuthResponse
	req := dto.LoginRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	if err := c.remember(resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Logout завершает сессию на сервере и очищает её локально.
// Локальная сессия очищается, даже если сервер ответил ошибкой.
func (c *Client) Logout(ctx context.Context) error {
	current, ok, err := c.sessions.Get()
	if err != nil {
		return fmt.Errorf("api: чтение сессии: %w", err)
	}
	if !ok {
		return nil
	}

	var remoteErr error
	if current.RefreshToken != "" {
		remoteErr = c.doJSON(ctx, http.MethodPost, "/auth/logout", dto.RefreshRequest{RefreshToken: current.RefreshToken}, nil)
	}
	if err := c.sessions.Clear(); err != nil {
		return fmt.Errorf("api: очистка сессии: %w", err)
	}
	return remoteErr
}

// ForgotPassword запрашивает письмо со ссылкой на сброс пароля.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/forgot-password", dto.ForgotPasswordRequest{Email: email}, nil)
}

// ResetPassword устанавливает новый пароль по токену из письма.
func (c *Client) ResetPassword(ctx context.Context, token, password string) error {
	return c.doJSON(ctx, http.MethodPost, "/auth/reset-password", dto.ResetPasswordRequest{Token: token, Password: password}, nil)
}

// Me возвращает текущего пользователя.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, http.MethodGet, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) remember(resp dto.AuthResponse) error {
	err := c.sessions.Set(session.Session{
		UserID:       resp.User.ID,
		Name:         resp.User.Name,
		Email:        resp.User.Email,
		Role:         resp.User.Role,
		AccessToken:  resp.Tokens.AccessToken,
		RefreshToken: resp.Tokens.RefreshToken,
	})
	if err != nil {
		return fmt.Errorf("api: сохранение сессии: %w", err)
	}
	return nil
}
