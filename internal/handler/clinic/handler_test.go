package clinic

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-booking/internal/handler/handlertest"
	"github.com/jwalitptl/clinic-booking/internal/model"
	clinicsvc "github.com/jwalitptl/clinic-booking/internal/service/clinic"
	apperrors "github.com/jwalitptl/clinic-booking/pkg/errors"
)

type fakeService struct {
	req      *model.ClinicRequest
	videos   []*multipart.FileHeader
	filter   model.ClinicFilter
	deleted  []uuid.UUID
	addedTo  uuid.UUID
	added    []uuid.UUID
	notFound bool
}

func (f *fakeService) CreateClinic(ctx context.Context, req *model.ClinicRequest, videos []*multipart.FileHeader) (*model.Clinic, error) {
	f.req, f.videos = req, videos
	return &model.Clinic{Base: model.Base{ID: uuid.New()}, Name: req.Name}, nil
}

func (f *fakeService) GetClinic(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	if f.notFound {
		return nil, apperrors.NotFound(clinicsvc.MsgClinicNotFound, nil)
	}
	return &model.Clinic{Base: model.Base{ID: id}, Name: "Nile"}, nil
}

func (f *fakeService) ListClinics(ctx context.Context, filter model.ClinicFilter) ([]*model.Clinic, error) {
	f.filter = filter
	return []*model.Clinic{{Name: "Nile"}}, nil
}

func (f *fakeService) UpdateClinic(ctx context.Context, id uuid.UUID, req *model.ClinicRequest, videos []*multipart.FileHeader) (*model.Clinic, error) {
	f.req, f.videos = req, videos
	return &model.Clinic{Base: model.Base{ID: id}, Name: req.Name}, nil
}

func (f *fakeService) DeleteClinic(ctx context.Context, id uuid.UUID) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeService) ValidDays(ctx context.Context, id uuid.UUID) ([]string, error) {
	return []string{"Monday"}, nil
}

func (f *fakeService) AddDoctors(ctx context.Context, id uuid.UUID, doctorIDs []uuid.UUID) (*model.Clinic, error) {
	f.addedTo, f.added = id, doctorIDs
	return &model.Clinic{Base: model.Base{ID: id}}, nil
}

func (f *fakeService) DeleteVideo(ctx context.Context, id, videoID uuid.UUID) error {
	f.deleted = append(f.deleted, videoID)
	return nil
}

func setup(t *testing.T) (*handlertest.Env, *fakeService) {
	env := handlertest.New(t)
	svc := &fakeService{}
	NewHandler(svc).RegisterRoutes(env.API, env.Auth)
	return env, svc
}

func validRequest() model.ClinicRequest {
	return model.ClinicRequest{
		Name:               "Nile Clinic",
		Email:              "nile@example.com",
		Phone:              "01012345678",
		Address:            "12 Tahrir St",
		SpecializationType: "general",
		AvailableDays:      []string{"Monday", "Wednesday"},
		Price:              250,
		About:              "Family medicine for all ages",
	}
}

func TestClinicHandler_PublicReads(t *testing.T) {
	env, svc := setup(t)

	w := env.Do(t, http.MethodGet, "/api/v1/clinics?name=nile&status=active", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.ClinicFilter{Name: "nile", Status: "active"}, svc.filter)

	id := uuid.New()
	w = env.Do(t, http.MethodGet, "/api/v1/clinics/"+id.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var got model.Clinic
	handlertest.Decode(t, w, &got)
	assert.Equal(t, id, got.ID)

	svc.notFound = true
	w = env.Do(t, http.MethodGet, "/api/v1/clinics/"+id.String(), nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, clinicsvc.MsgClinicNotFound, handlertest.Decode(t, w, nil).Message)
}

func TestClinicHandler_CreateJSON(t *testing.T) {
	env, svc := setup(t)
	req := validRequest()

	w := env.Do(t, http.MethodPost, "/api/v1/clinics", req, env.Token(t, env.Patient))
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, svc.req)

	w = env.Do(t, http.MethodPost, "/api/v1/clinics", req, env.Token(t, env.Admin))
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, svc.req)
	assert.Equal(t, []string{"Monday", "Wednesday"}, svc.req.AvailableDays)
	assert.Empty(t, svc.videos)
}

func TestClinicHandler_CreateRejectsBadDays(t *testing.T) {
	env, svc := setup(t)
	req := validRequest()
	req.AvailableDays = []string{"Funday"}

	w := env.Do(t, http.MethodPost, "/api/v1/clinics", req, env.Token(t, env.Admin))
	require.Equal(t, http.StatusBadRequest, w.Code)
	resp := handlertest.Decode(t, w, nil)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "weekday", resp.Errors[0].Tag)
	assert.Nil(t, svc.req)
}

func TestClinicHandler_CreateMultipart(t *testing.T) {
	env, svc := setup(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"name":               "Nile Clinic",
		"email":              "nile@example.com",
		"phone":              "01012345678",
		"address":            "12 Tahrir St",
		"specializationType": "specialized",
		"specialties":        `["cardiology"]`,
		"availableDays":      `["All"]`,
		"price":              "300",
		"about":              "Heart care and diagnostics",
	}
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	part, err := mw.CreateFormFile("videos", "tour.mp4")
	require.NoError(t, err)
	_, err = part.Write([]byte("video-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	httpReq := httptest.NewRequest(http.MethodPost, "/api/v1/clinics", &buf)
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	w := env.DoRequest(httpReq, env.Token(t, env.Admin))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, svc.req)
	assert.Equal(t, []string{"cardiology"}, svc.req.Specialties)
	assert.Equal(t, []string{"All"}, svc.req.AvailableDays)
	assert.Equal(t, 300.0, svc.req.Price)
	require.Len(t, svc.videos, 1)
	assert.Equal(t, "tour.mp4", svc.videos[0].Filename)
}

func TestClinicHandler_AdminMutations(t *testing.T) {
	env, svc := setup(t)
	admin := env.Token(t, env.Admin)
	id, videoID, doctorID := uuid.New(), uuid.New(), uuid.New()

	w := env.Do(t, http.MethodPost, "/api/v1/clinics/"+id.String()+"/add-doctors",
		model.AddDoctorsRequest{DoctorIDs: []uuid.UUID{doctorID}}, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, svc.addedTo)
	assert.Equal(t, []uuid.UUID{doctorID}, svc.added)

	w = env.Do(t, http.MethodDelete, "/api/v1/clinics/"+id.String()+"/videos/"+videoID.String(), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.Do(t, http.MethodDelete, "/api/v1/clinics/"+id.String(), nil, admin)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, MsgClinicDeleted, handlertest.Decode(t, w, nil).Message)
	assert.Equal(t, []uuid.UUID{videoID, id}, svc.deleted)

	w = env.Do(t, http.MethodDelete, "/api/v1/clinics/bad-id", nil, admin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
