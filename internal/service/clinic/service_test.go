package clinic

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-booking/internal/model"
	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
	"github.com/jwalitptl/clinic-booking/pkg/logger"
)

type fakeRepo struct {
	clinics   map[uuid.UUID]*model.Clinic
	daysCalls int
	doctors   map[uuid.UUID][]uuid.UUID
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{clinics: map[uuid.UUID]*model.Clinic{}, doctors: map[uuid.UUID][]uuid.UUID{}}
}

func (r *fakeRepo) Create(ctx context.Context, c *model.Clinic) error {
	c.ID = uuid.New()
	for i := range c.Videos {
		c.Videos[i].ID = uuid.New()
		c.Videos[i].CreatedAt = time.Now()
	}
	cp := *c
	r.clinics[c.ID] = &cp
	return nil
}

func (r *fakeRepo) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	c, ok := r.clinics[id]
	if !ok {
		return nil, fmt.Errorf("clinic: %w", apperrors.ErrRecordNotFound)
	}
	cp := *c
	return &cp, nil
}

func (r *fakeRepo) List(ctx context.Context, filter model.ClinicFilter) ([]*model.Clinic, error) {
	out := []*model.Clinic{}
	for _, c := range r.clinics {
		if filter.Status == "" || string(c.Status) == filter.Status {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeRepo) Update(ctx context.Context, c *model.Clinic) error {
	if _, ok := r.clinics[c.ID]; !ok {
		return fmt.Errorf("clinic: %w", apperrors.ErrRecordNotFound)
	}
	cp := *c
	r.clinics[c.ID] = &cp
	return nil
}

func (r *fakeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.clinics[id]; !ok {
		return fmt.Errorf("clinic: %w", apperrors.ErrRecordNotFound)
	}
	delete(r.clinics, id)
	return nil
}

func (r *fakeRepo) GetAvailableDays(ctx context.Context, id uuid.UUID) ([]string, error) {
	r.daysCalls++
	c, ok := r.clinics[id]
	if !ok {
		return nil, fmt.Errorf("clinic: %w", apperrors.ErrRecordNotFound)
	}
	return []string(c.AvailableDays), nil
}

func (r *fakeRepo) AddVideos(ctx context.Context, clinicID uuid.UUID, videos []model.Video) error {
	return nil
}

func (r *fakeRepo) DeleteVideo(ctx context.Context, clinicID, videoID uuid.UUID) (*model.Video, error) {
	c, ok := r.clinics[clinicID]
	if !ok {
		return nil, fmt.Errorf("video: %w", apperrors.ErrRecordNotFound)
	}
	for i, v := range c.Videos {
		if v.ID == videoID {
			c.Videos = append(c.Videos[:i:i], c.Videos[i+1:]...)
			return &v, nil
		}
	}
	return nil, fmt.Errorf("video: %w", apperrors.ErrRecordNotFound)
}

func (r *fakeRepo) AddDoctors(ctx context.Context, clinicID uuid.UUID, doctorIDs []uuid.UUID) error {
	r.doctors[clinicID] = append(r.doctors[clinicID], doctorIDs...)
	return nil
}

type fakeMedia struct {
	uploaded []string
	removed  []string
}

func (m *fakeMedia) Upload(ctx context.Context, folder string, file *multipart.FileHeader) (string, error) {
	url := "http://media/" + folder + "/" + file.Filename
	m.uploaded = append(m.uploaded, url)
	return url, nil
}

func (m *fakeMedia) Remove(ctx context.Context, url string) error {
	m.removed = append(m.removed, url)
	return nil
}

func newTestService() (*Service, *fakeRepo, *fakeMedia) {
	repo := newFakeRepo()
	media := &fakeMedia{}
	return NewService(repo, media, time.Minute, logger.New(logger.Config{Output: io.Discard})), repo, media
}

func dentalRequest() *model.ClinicRequest {
	return &model.ClinicRequest{
		Name:               "Dental",
		Email:              "dental@example.com",
		Phone:              "+201234567890",
		Address:            "5 Tahrir Sq",
		SpecializationType: "specialized",
		Specialties:        []string{"Orthodontics"},
		AvailableDays:      []string{"Monday", "Tuesday"},
		Price:              250,
		About:              "Full dental care for the family",
	}
}

func TestCreateClinic_DefaultsActiveAndUploadsVideos(t *testing.T) {
	svc, _, media := newTestService()

	clinic, err := svc.CreateClinic(context.Background(), dentalRequest(),
		[]*multipart.FileHeader{{Filename: "tour.mp4"}})
	require.NoError(t, err)

	assert.Equal(t, model.ClinicStatusActive, clinic.Status)
	require.Len(t, clinic.Videos, 1)
	assert.Equal(t, "http://media/videos/tour.mp4", clinic.Videos[0].URL)
	assert.Len(t, media.uploaded, 1)
}

func TestCreateClinic_GeneralDropsSpecialties(t *testing.T) {
	svc, _, _ := newTestService()
	req := dentalRequest()
	req.SpecializationType = "general"

	clinic, err := svc.CreateClinic(context.Background(), req, nil)
	require.NoError(t, err)
	assert.Empty(t, clinic.Specialties)
}

func TestValidDays_CachedUntilUpdate(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	clinic, err := svc.CreateClinic(ctx, dentalRequest(), nil)
	require.NoError(t, err)

	days, err := svc.ValidDays(ctx, clinic.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"Monday", "Tuesday"}, days)

	_, err = svc.ValidDays(ctx, clinic.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.daysCalls)

	req := dentalRequest()
	req.AvailableDays = []string{"All"}
	_, err = svc.UpdateClinic(ctx, clinic.ID, req, nil)
	require.NoError(t, err)

	days, err = svc.ValidDays(ctx, clinic.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"All"}, days)
	assert.Equal(t, 2, repo.daysCalls)
}

func TestValidDays_UnknownClinic(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ValidDays(context.Background(), uuid.New())
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.ErrNotFound, appErr.Code)
	assert.Equal(t, MsgClinicNotFound, appErr.Message)
}

func TestDeleteClinic_RemovesMedia(t *testing.T) {
	svc, repo, media := newTestService()
	ctx := context.Background()
	clinic, err := svc.CreateClinic(ctx, dentalRequest(), []*multipart.FileHeader{{Filename: "a.mp4"}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteClinic(ctx, clinic.ID))
	assert.Empty(t, repo.clinics)
	assert.Equal(t, []string{"http://media/videos/a.mp4"}, media.removed)
}

func TestDeleteVideo(t *testing.T) {
	svc, _, media := newTestService()
	ctx := context.Background()
	clinic, err := svc.CreateClinic(ctx, dentalRequest(), []*multipart.FileHeader{{Filename: "a.mp4"}})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteVideo(ctx, clinic.ID, clinic.Videos[0].ID))
	assert.Equal(t, []string{"http://media/videos/a.mp4"}, media.removed)

	err = svc.DeleteVideo(ctx, clinic.ID, uuid.New())
	assert.True(t, apperrors.IsNotFound(err))
}

func TestAddDoctors_UnknownClinic(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.AddDoctors(context.Background(), uuid.New(), []uuid.UUID{uuid.New()})
	assert.True(t, apperrors.IsNotFound(err))
}
