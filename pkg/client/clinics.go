package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking/internal/model"
)

func (c *Client) ListClinics(ctx context.Context, filter model.ClinicFilter) ([]*model.Clinic, error) {
	query := url.Values{}
	if filter.Name != "" {
		query.Set("name", filter.Name)
	}
	if filter.Status != "" {
		query.Set("status", filter.Status)
	}

	var clinics []*model.Clinic
	if err := c.do(ctx, http.MethodGet, "/clinics", query, nil, &clinics); err != nil {
		return nil, err
	}
	return clinics, nil
}

// ActiveClinics is the clinic list offered by the booking form.
func (c *Client) ActiveClinics(ctx context.Context) ([]*model.Clinic, error) {
	return c.ListClinics(ctx, model.ClinicFilter{Status: string(model.ClinicStatusActive)})
}

func (c *Client) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	var clinic model.Clinic
	if err := c.do(ctx, http.MethodGet, "/clinics/"+id.String(), nil, nil, &clinic); err != nil {
		return nil, err
	}
	return &clinic, nil
}

// CreateClinic sends JSON, or multipart when videos are attached.
func (c *Client) CreateClinic(ctx context.Context, req model.ClinicRequest, videos ...File) (*model.Clinic, error) {
	return c.saveClinic(ctx, http.MethodPost, "/clinics", req, videos)
}

func (c *Client) UpdateClinic(ctx context.Context, id uuid.UUID, req model.ClinicRequest, videos ...File) (*model.Clinic, error) {
	return c.saveClinic(ctx, http.MethodPut, "/clinics/"+id.String(), req, videos)
}

func (c *Client) saveClinic(ctx context.Context, method, path string, req model.ClinicRequest, videos []File) (*model.Clinic, error) {
	var clinic model.Clinic
	if len(videos) == 0 {
		if err := c.do(ctx, method, path, nil, req, &clinic); err != nil {
			return nil, err
		}
		return &clinic, nil
	}

	fields, err := formFields(req)
	if err != nil {
		return nil, err
	}
	if err := c.doMultipart(ctx, method, path, fields, "videos", videos, &clinic); err != nil {
		return nil, err
	}
	return &clinic, nil
}

func (c *Client) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/clinics/"+id.String(), nil, nil, nil)
}

func (c *Client) AddDoctorsToClinic(ctx context.Context, id uuid.UUID, doctorIDs ...uuid.UUID) (*model.Clinic, error) {
	var clinic model.Clinic
	req := model.AddDoctorsRequest{DoctorIDs: doctorIDs}
	if err := c.do(ctx, http.MethodPost, "/clinics/"+id.String()+"/add-doctors", nil, req, &clinic); err != nil {
		return nil, err
	}
	return &clinic, nil
}

func (c *Client) DeleteClinicVideo(ctx context.Context, id, videoID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/clinics/"+id.String()+"/videos/"+videoID.String(), nil, nil, nil)
}

// formFields flattens a request into multipart values keyed by json name.
// Strings are sent as is, everything else as its JSON text, which is how
// the server expects array fields.
func formFields(v interface{}) (map[string]string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}
	var values map[string]json.RawMessage
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil, fmt.Errorf("failed to encode form: %w", err)
	}

	fields := make(map[string]string, len(values))
	for k, v := range values {
		if string(v) == "null" {
			continue
		}
		var s string
		if err := json.Unmarshal(v, &s); err == nil {
			fields[k] = s
			continue
		}
		fields[k] = string(v)
	}
	return fields, nil
}
