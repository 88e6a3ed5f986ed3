package doctor

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
)

type fakeService struct {
	req   *model.DoctorRequest
	image *multipart.FileHeader
}

func (f *fakeService) CreateDoctor(ctx context.Context, req *model.DoctorRequest, image *multipart.FileHeader) (*model.Doctor, error) {
	f.req, f.image = req, image
	return &model.Doctor{Base: model.Base{ID: uuid.New()}, Name: req.Name}, nil
}

func (f *fakeService) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	return &model.Doctor{Base: model.Base{ID: id}}, nil
}

func (f *fakeService) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	return []*model.Doctor{}, nil
}

func (f *fakeService) UpdateDoctor(ctx context.Context, id uuid.UUID, req *model.DoctorRequest, image *multipart.FileHeader) (*model.Doctor, error) {
	f.req, f.image = req, image
	return &model.Doctor{Base: model.Base{ID: id}, Name: req.Name}, nil
}

func (f *fakeService) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	return nil
}

func multipartBody(t *testing.T, fields map[string]string, withImage bool) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		part, err := mw.CreateFormFile("image", "portrait.png")
		require.NoError(t, err)
		_, err = part.Write([]byte("png"))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestDoctorHandler_CreateMultipart(t *testing.T) {
	env := handlertest.New(t)
	svc := &fakeService{}
	NewHandler(svc).RegisterRoutes(env.API, env.Auth)
	clinicID := uuid.New()

	body, contentType := multipartBody(t, map[string]string{
		"name":              "Dr. Hany",
		"email":             "hany@example.com",
		"phone":             "01098765432",
		"address":           "Giza",
		"yearsOfExperience": "12",
		"specialization":    "specialized",
		"specialties":       `["dermatology"]`,
		"clinics":           `["` + clinicID.String() + `"]`,
		"schedules":         `[{"days":["Sunday","Tuesday"],"startTime":"09:00","endTime":"13:00"}]`,
	}, true)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/doctors", body)
	req.Header.Set("Content-Type", contentType)
	w := env.DoRequest(req, env.Token(t, env.Admin))

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	require.NotNil(t, svc.req)
	assert.Equal(t, 12, svc.req.YearsOfExperience)
	assert.Equal(t, []uuid.UUID{clinicID}, svc.req.Clinics)
	require.Len(t, svc.req.Schedules, 1)
	assert.Equal(t, []string{"Sunday", "Tuesday"}, svc.req.Schedules[0].Days)
	require.NotNil(t, svc.image)
	assert.Equal(t, "portrait.png", svc.image.Filename)
}

func TestDoctorHandler_RejectsBadSchedule(t *testing.T) {
	env := handlertest.New(t)
	svc := &fakeService{}
	NewHandler(svc).RegisterRoutes(env.API, env.Auth)

	body, contentType := multipartBody(t, map[string]string{
		"name":           "Dr. Hany",
		"email":          "hany@example.com",
		"phone":          "01098765432",
		"address":        "Giza",
		"specialization": "general",
		"schedules":      `[{"days":["Someday"]}]`,
	}, false)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/doctors/"+uuid.NewString(), body)
	req.Header.Set("Content-Type", contentType)
	w := env.DoRequest(req, env.Token(t, env.Admin))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, svc.req)
}

func TestDoctorHandler_PublicList(t *testing.T) {
	env := handlertest.New(t)
	NewHandler(&fakeService{}).RegisterRoutes(env.API, env.Auth)

	w := env.Do(t, http.MethodGet, "/api/v1/doctors", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = env.Do(t, http.MethodDelete, "/api/v1/doctors/"+uuid.NewString(), nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
