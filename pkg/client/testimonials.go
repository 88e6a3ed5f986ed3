package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking/internal/model"
)

func (c *Client) ListTestimonials(ctx context.Context) ([]*model.Testimonial, error) {
	var list []*model.Testimonial
	if err := c.do(ctx, http.MethodGet, "/testimonials", nil, nil, &list); err != nil {
		return nil, err
	}
	return list, nil
}

func (c *Client) GetTestimonial(ctx context.Context, id uuid.UUID) (*model.Testimonial, error) {
	var t model.Testimonial
	if err := c.do(ctx, http.MethodGet, "/testimonials/"+id.String(), nil, nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) CreateTestimonial(ctx context.Context, req model.TestimonialRequest) (*model.Testimonial, error) {
	var t model.Testimonial
	if err := c.do(ctx, http.MethodPost, "/testimonials", nil, req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) UpdateTestimonial(ctx context.Context, id uuid.UUID, req model.TestimonialRequest) (*model.Testimonial, error) {
	var t model.Testimonial
	if err := c.do(ctx, http.MethodPut, "/testimonials/"+id.String(), nil, req, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func (c *Client) DeleteTestimonial(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/testimonials/"+id.String(), nil, nil, nil)
}
