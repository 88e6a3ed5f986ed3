package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/jwalitptl/clinic-booking/internal/model"
)

// Login signs in and stores the token and user on the session.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var resp model.AuthResponse
	req := model.LoginRequest{Email: email, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	c.session.set(resp.Token, resp.User)
	return resp.User, nil
}

// Register creates a patient account and signs it in.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	var resp model.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	c.session.set(resp.Token, resp.User)
	return resp.User, nil
}

func (c *Client) Logout() {
	c.session.clear()
}

// CreateAdmin creates another admin account. The session is unchanged.
func (c *Client) CreateAdmin(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/auth/create-admin", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ForgetPassword asks for a reset link and returns the server's message.
func (c *Client) ForgetPassword(ctx context.Context, email string) (string, error) {
	return c.doMessage(ctx, http.MethodPost, "/auth/forgetpassword", nil, model.ForgetPasswordRequest{Email: email}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, token, password string) (string, error) {
	return c.doMessage(ctx, http.MethodPut, "/auth/resetpassword/"+url.PathEscape(token), nil,
		model.ResetPasswordRequest{Password: password}, nil)
}
