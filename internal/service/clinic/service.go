package clinic

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/internal/repository"
	"github.com/jwalitptl/clinic-booking/internal/storage"
	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
	"github.com/jwalitptl/clinic-booking/pkg/logger"
)

const MsgClinicNotFound = "العيادة غير موجودة"

type ClinicServicer interface {
	CreateClinic(ctx context.Context, req *model.ClinicRequest, videos []*multipart.FileHeader) (*model.Clinic, error)
	GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error)
	ListClinics(ctx context.Context, filter model.ClinicFilter) ([]*model.Clinic, error)
	UpdateClinic(ctx context.Context, id uuid.UUID, req *model.ClinicRequest, videos []*multipart.FileHeader) (*model.Clinic, error)
	DeleteClinic(ctx context.Context, id uuid.UUID) error
	ValidDays(ctx context.Context, id uuid.UUID) ([]string, error)
	AddDoctors(ctx context.Context, id uuid.UUID, doctorIDs []uuid.UUID) (*model.Clinic, error)
	DeleteVideo(ctx context.Context, id, videoID uuid.UUID) error
}

type Service struct {
	repo      repository.ClinicRepository
	media     storage.MediaStore
	validDays *cache.Cache
	logger    *logger.Logger
}

// NewService caches valid days per clinic for ttl. Writes through this
// service evict the affected entry.
func NewService(repo repository.ClinicRepository, media storage.MediaStore, ttl time.Duration, logger *logger.Logger) *Service {
	return &Service{
		repo:      repo,
		media:     media,
		validDays: cache.New(ttl, 2*ttl),
		logger:    logger,
	}
}

func (s *Service) CreateClinic(ctx context.Context, req *model.ClinicRequest, videos []*multipart.FileHeader) (*model.Clinic, error) {
	clinic := &model.Clinic{}
	applyRequest(clinic, req)
	if clinic.Status == "" {
		clinic.Status = model.ClinicStatusActive
	}

	uploaded, err := s.upload(ctx, videos)
	if err != nil {
		return nil, err
	}
	clinic.Videos = uploaded

	if err := s.repo.Create(ctx, clinic); err != nil {
		s.cleanup(ctx, uploaded)
		return nil, apperrors.Internal(fmt.Errorf("failed to create clinic: %w", err))
	}
	return s.GetClinic(ctx, clinic.ID)
}

func (s *Service) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return clinic, nil
}

func (s *Service) ListClinics(ctx context.Context, filter model.ClinicFilter) ([]*model.Clinic, error) {
	clinics, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list clinics: %w", err))
	}
	return clinics, nil
}

func (s *Service) UpdateClinic(ctx context.Context, id uuid.UUID, req *model.ClinicRequest, videos []*multipart.FileHeader) (*model.Clinic, error) {
	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	applyRequest(clinic, req)

	uploaded, err := s.upload(ctx, videos)
	if err != nil {
		return nil, err
	}
	clinic.Videos = append(clinic.Videos, uploaded...)

	if err := s.repo.Update(ctx, clinic); err != nil {
		s.cleanup(ctx, uploaded)
		return nil, wrapRepoError(err)
	}
	s.validDays.Delete(id.String())
	return s.GetClinic(ctx, id)
}

func (s *Service) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	clinic, err := s.repo.Get(ctx, id)
	if err != nil {
		return wrapRepoError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapRepoError(err)
	}
	s.validDays.Delete(id.String())
	s.cleanup(ctx, clinic.Videos)
	return nil
}

// ValidDays returns the clinic's bookable weekdays, possibly including the
// "All" sentinel. Unknown clinics are a NotFound error.
func (s *Service) ValidDays(ctx context.Context, id uuid.UUID) ([]string, error) {
	if days, ok := s.validDays.Get(id.String()); ok {
		return days.([]string), nil
	}
	days, err := s.repo.GetAvailableDays(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	s.validDays.SetDefault(id.String(), days)
	return days, nil
}

func (s *Service) AddDoctors(ctx context.Context, id uuid.UUID, doctorIDs []uuid.UUID) (*model.Clinic, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return nil, wrapRepoError(err)
	}
	if err := s.repo.AddDoctors(ctx, id, doctorIDs); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to add doctors: %w", err))
	}
	return s.GetClinic(ctx, id)
}

func (s *Service) DeleteVideo(ctx context.Context, id, videoID uuid.UUID) error {
	video, err := s.repo.DeleteVideo(ctx, id, videoID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return apperrors.NotFound("الفيديو غير موجود", err)
		}
		return apperrors.Internal(err)
	}
	s.cleanup(ctx, []model.Video{*video})
	return nil
}

func (s *Service) upload(ctx context.Context, files []*multipart.FileHeader) ([]model.Video, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if s.media == nil {
		return nil, apperrors.Internal(fmt.Errorf("media storage is not configured"))
	}
	videos := make([]model.Video, 0, len(files))
	for _, f := range files {
		url, err := s.media.Upload(ctx, storage.FolderVideos, f)
		if err != nil {
			s.cleanup(ctx, videos)
			return nil, apperrors.Internal(err)
		}
		videos = append(videos, model.Video{URL: url})
	}
	return videos, nil
}

// cleanup removes stored objects; failures are logged only.
func (s *Service) cleanup(ctx context.Context, videos []model.Video) {
	if s.media == nil {
		return
	}
	for _, v := range videos {
		if err := s.media.Remove(ctx, v.URL); err != nil {
			s.logger.Warn("Failed to remove clinic video", "url", v.URL, "error", err.Error())
		}
	}
}

func applyRequest(clinic *model.Clinic, req *model.ClinicRequest) {
	clinic.Name = req.Name
	clinic.Email = req.Email
	clinic.Phone = req.Phone
	clinic.Address = req.Address
	clinic.SpecializationType = model.SpecializationType(req.SpecializationType)
	clinic.Specialties = req.Specialties
	if clinic.SpecializationType == model.SpecializationGeneral {
		clinic.Specialties = nil
	}
	if req.Status != "" {
		clinic.Status = model.ClinicStatus(req.Status)
	}
	clinic.AvailableDays = req.AvailableDays
	clinic.Price = req.Price
	clinic.About = req.About
	clinic.SpecialWords = req.SpecialWords
}

func wrapRepoError(err error) error {
	if apperrors.IsNotFound(err) {
		return apperrors.NotFound(MsgClinicNotFound, err)
	}
	return apperrors.Internal(err)
}
