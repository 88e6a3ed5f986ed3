package testimonial

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/internal/repository"
	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
)

const (
	MsgTestimonialNotFound = "الرأي غير موجود"
	MsgInvalidRating       = "التقييم يجب أن يكون بين 1 و 5"
)

const (
	minRating = 1
	maxRating = 5
)

type TestimonialServicer interface {
	Create(ctx context.Context, req *model.TestimonialRequest) (*model.Testimonial, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Testimonial, error)
	List(ctx context.Context) ([]*model.Testimonial, error)
	Update(ctx context.Context, id uuid.UUID, req *model.TestimonialRequest) (*model.Testimonial, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo repository.TestimonialRepository
}

func NewService(repo repository.TestimonialRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, req *model.TestimonialRequest) (*model.Testimonial, error) {
	if err := checkRating(req.Rating); err != nil {
		return nil, err
	}
	t := &model.Testimonial{}
	apply(t, req)
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to create testimonial: %w", err))
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*model.Testimonial, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return t, nil
}

func (s *Service) List(ctx context.Context) ([]*model.Testimonial, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list testimonials: %w", err))
	}
	return list, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, req *model.TestimonialRequest) (*model.Testimonial, error) {
	if err := checkRating(req.Rating); err != nil {
		return nil, err
	}
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	apply(t, req)
	if err := s.repo.Update(ctx, t); err != nil {
		return nil, wrapRepoError(err)
	}
	return t, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapRepoError(err)
	}
	return nil
}

func apply(t *model.Testimonial, req *model.TestimonialRequest) {
	t.Name = req.Name
	t.JobTitle = req.JobTitle
	t.Text = req.Text
	t.Rating = req.Rating
}

func checkRating(rating int) error {
	if rating < minRating || rating > maxRating {
		return apperrors.BadRequest(MsgInvalidRating, nil)
	}
	return nil
}

func wrapRepoError(err error) error {
	if apperrors.IsNotFound(err) {
		return apperrors.NotFound(MsgTestimonialNotFound, err)
	}
	return apperrors.Internal(err)
}
