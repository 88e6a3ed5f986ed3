package doctor

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/internal/repository"
	"github.com/jwalitptl/clinic-booking/internal/storage"
	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
	"github.com/jwalitptl/clinic-booking/pkg/logger"
)

const MsgDoctorNotFound = "الطبيب غير موجود"

type DoctorServicer interface {
	CreateDoctor(ctx context.Context, req *model.DoctorRequest, image *multipart.FileHeader) (*model.Doctor, error)
	GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
	ListDoctors(ctx context.Context) ([]*model.Doctor, error)
	UpdateDoctor(ctx context.Context, id uuid.UUID, req *model.DoctorRequest, image *multipart.FileHeader) (*model.Doctor, error)
	DeleteDoctor(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo   repository.DoctorRepository
	media  storage.MediaStore
	logger *logger.Logger
}

func NewService(repo repository.DoctorRepository, media storage.MediaStore, logger *logger.Logger) *Service {
	return &Service{repo: repo, media: media, logger: logger}
}

func (s *Service) CreateDoctor(ctx context.Context, req *model.DoctorRequest, image *multipart.FileHeader) (*model.Doctor, error) {
	doctor := &model.Doctor{Status: model.DoctorStatusAvailable}
	applyRequest(doctor, req)

	if image != nil {
		url, err := s.upload(ctx, image)
		if err != nil {
			return nil, err
		}
		doctor.Image = url
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		s.remove(ctx, doctor.Image)
		return nil, apperrors.Internal(fmt.Errorf("failed to create doctor: %w", err))
	}
	return doctor, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	return doctor, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(fmt.Errorf("failed to list doctors: %w", err))
	}
	return doctors, nil
}

func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, req *model.DoctorRequest, image *multipart.FileHeader) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, wrapRepoError(err)
	}
	applyRequest(doctor, req)

	oldImage := doctor.Image
	if image != nil {
		url, err := s.upload(ctx, image)
		if err != nil {
			return nil, err
		}
		doctor.Image = url
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		if doctor.Image != oldImage {
			s.remove(ctx, doctor.Image)
		}
		return nil, wrapRepoError(err)
	}
	if doctor.Image != oldImage {
		s.remove(ctx, oldImage)
	}
	return doctor, nil
}

func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return wrapRepoError(err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapRepoError(err)
	}
	s.remove(ctx, doctor.Image)
	return nil
}

func (s *Service) upload(ctx context.Context, image *multipart.FileHeader) (string, error) {
	if s.media == nil {
		return "", apperrors.Internal(fmt.Errorf("media storage is not configured"))
	}
	url, err := s.media.Upload(ctx, storage.FolderDoctors, image)
	if err != nil {
		return "", apperrors.Internal(err)
	}
	return url, nil
}

func (s *Service) remove(ctx context.Context, url string) {
	if url == "" || s.media == nil {
		return
	}
	if err := s.media.Remove(ctx, url); err != nil {
		s.logger.Warn("Failed to remove doctor image", "url", url, "error", err.Error())
	}
}

func applyRequest(doctor *model.Doctor, req *model.DoctorRequest) {
	doctor.Name = req.Name
	doctor.Email = req.Email
	doctor.Phone = req.Phone
	doctor.Address = req.Address
	doctor.YearsOfExperience = req.YearsOfExperience
	doctor.Specialization = model.SpecializationType(req.Specialization)
	doctor.Specialties = req.Specialties
	if doctor.Specialization == model.SpecializationGeneral {
		doctor.Specialties = nil
	}
	doctor.Clinics = req.Clinics
	doctor.Schedules = req.Schedules
	if req.Status != "" {
		doctor.Status = model.DoctorStatus(req.Status)
	}
}

func wrapRepoError(err error) error {
	if apperrors.IsNotFound(err) {
		return apperrors.NotFound(MsgDoctorNotFound, err)
	}
	return apperrors.Internal(err)
}
