package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking/internal/model"
)

func (c *Client) ListUsers(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	query := url.Values{}
	if filter.Search != "" {
		query.Set("search", filter.Search)
	}
	if filter.Role != "" {
		query.Set("role", filter.Role)
	}
	if filter.AgeRange != "" {
		query.Set("age", filter.AgeRange)
	}

	var users []*model.User
	if err := c.do(ctx, http.MethodGet, "/users", query, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/users/"+id.String(), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, id uuid.UUID, req model.UpdateUserRequest) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPut, "/users/"+id.String(), nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/users/"+id.String(), nil, nil, nil)
}
