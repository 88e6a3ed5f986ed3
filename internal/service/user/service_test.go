package user

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-booking/internal/model"
	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
)

type fakeRepo struct {
	users map[uuid.UUID]*model.User
}

func (r *fakeRepo) Create(ctx context.Context, u *model.User) error { return nil }

func (r *fakeRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user: %w", apperrors.ErrRecordNotFound)
	}
	cp := *u
	return &cp, nil
}

func (r *fakeRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, fmt.Errorf("user: %w", apperrors.ErrRecordNotFound)
}

func (r *fakeRepo) List(ctx context.Context, filter model.UserFilter) ([]*model.User, error) {
	out := []*model.User{}
	for _, u := range r.users {
		if filter.Role == "" || string(u.Role) == filter.Role {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(ctx context.Context, u *model.User) error {
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeRepo) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error { return nil }

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.users[id]; !ok {
		return fmt.Errorf("user: %w", apperrors.ErrRecordNotFound)
	}
	delete(r.users, id)
	return nil
}

func seed() (*Service, *fakeRepo, *model.User, *model.User) {
	sara := &model.User{Base: model.Base{ID: uuid.New()}, Name: "Sara", Email: "sara@example.com", Age: 29, Role: model.RolePatient}
	omar := &model.User{Base: model.Base{ID: uuid.New()}, Name: "Omar", Email: "omar@example.com", Age: 41, Role: model.RoleAdmin}
	repo := &fakeRepo{users: map[uuid.UUID]*model.User{sara.ID: sara, omar.ID: omar}}
	return NewService(repo), repo, sara, omar
}

func TestUpdateUser_PartialFields(t *testing.T) {
	svc, repo, sara, _ := seed()
	age := 30
	role := model.RoleAdmin

	updated, err := svc.UpdateUser(context.Background(), sara.ID, &model.UpdateUserRequest{Age: &age, Role: &role})
	require.NoError(t, err)

	assert.Equal(t, 30, updated.Age)
	assert.Equal(t, model.RoleAdmin, updated.Role)
	assert.Equal(t, "Sara", updated.Name)
	assert.Equal(t, 30, repo.users[sara.ID].Age)
}

func TestUpdateUser_EmailConflict(t *testing.T) {
	svc, _, sara, omar := seed()

	_, err := svc.UpdateUser(context.Background(), sara.ID, &model.UpdateUserRequest{Email: &omar.Email})
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrConflict, appErr.Code)
}

func TestListUsers_ByRole(t *testing.T) {
	svc, _, _, omar := seed()

	users, err := svc.ListUsers(context.Background(), model.UserFilter{Role: "admin"})
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, omar.ID, users[0].ID)
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, _, _, _ := seed()

	err := svc.DeleteUser(context.Background(), uuid.New())
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, MsgUserNotFound, appErr.Message)
}
