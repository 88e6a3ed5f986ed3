package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking/internal/model"
)

func (c *Client) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	var doctors []*model.Doctor
	if err := c.do(ctx, http.MethodGet, "/doctors", nil, nil, &doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (c *Client) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := c.do(ctx, http.MethodGet, "/doctors/"+id.String(), nil, nil, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// CreateDoctor sends JSON, or multipart when image is set.
func (c *Client) CreateDoctor(ctx context.Context, req model.DoctorRequest, image *File) (*model.Doctor, error) {
	return c.saveDoctor(ctx, http.MethodPost, "/doctors", req, image)
}

func (c *Client) UpdateDoctor(ctx context.Context, id uuid.UUID, req model.DoctorRequest, image *File) (*model.Doctor, error) {
	return c.saveDoctor(ctx, http.MethodPut, "/doctors/"+id.String(), req, image)
}

func (c *Client) saveDoctor(ctx context.Context, method, path string, req model.DoctorRequest, image *File) (*model.Doctor, error) {
	var doctor model.Doctor
	if image == nil {
		if err := c.do(ctx, method, path, nil, req, &doctor); err != nil {
			return nil, err
		}
		return &doctor, nil
	}

	fields, err := formFields(req)
	if err != nil {
		return nil, err
	}
	if err := c.doMultipart(ctx, method, path, fields, "image", []File{*image}, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (c *Client) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/doctors/"+id.String(), nil, nil, nil)
}
