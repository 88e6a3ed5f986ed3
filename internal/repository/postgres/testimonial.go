package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/internal/repository"
)

const testimonialColumns = `id, name, job_title, text, rating, created_at, updated_at`

type testimonialRepository struct {
	BaseRepository
}

func NewTestimonialRepository(base BaseRepository) repository.TestimonialRepository {
	return &testimonialRepository{base}
}

func (r *testimonialRepository) Create(ctx context.Context, t *model.Testimonial) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	now := time.Now()
	t.CreatedAt = now
	t.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO testimonials (id, name, job_title, text, rating, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		t.ID, t.Name, t.JobTitle, t.Text, t.Rating, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create testimonial: %w", err)
	}
	return nil
}

func (r *testimonialRepository) Get(ctx context.Context, id uuid.UUID) (*model.Testimonial, error) {
	var t model.Testimonial
	if err := r.db.GetContext(ctx, &t, `SELECT `+testimonialColumns+` FROM testimonials WHERE id = $1`, id); err != nil {
		return nil, notFound(err, "testimonial")
	}
	return &t, nil
}

func (r *testimonialRepository) List(ctx context.Context) ([]*model.Testimonial, error) {
	out := []*model.Testimonial{}
	if err := r.db.SelectContext(ctx, &out, `SELECT `+testimonialColumns+` FROM testimonials ORDER BY created_at DESC`); err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	return out, nil
}

func (r *testimonialRepository) Update(ctx context.Context, t *model.Testimonial) error {
	t.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx, `
		UPDATE testimonials SET name = $1, job_title = $2, text = $3, rating = $4, updated_at = $5
		WHERE id = $6`,
		t.Name, t.JobTitle, t.Text, t.Rating, t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update testimonial: %w", err)
	}
	return expectAffected(res, "testimonial")
}

func (r *testimonialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM testimonials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete testimonial: %w", err)
	}
	return expectAffected(res, "testimonial")
}
