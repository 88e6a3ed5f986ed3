package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/internal/repository"
)

// clinicSelect returns clinics with booking counters derived from bookings.
const clinicSelect = `
	SELECT
		c.id, c.name, c.email, c.phone, c.address, c.specialization_type, c.specialties,
		c.status, c.available_days, c.price, c.about, c.special_words, c.created_at, c.updated_at,
		COUNT(b.id) FILTER (WHERE b.created_at >= date_trunc('day', NOW())) AS bookings_today,
		COUNT(b.id) FILTER (WHERE b.created_at >= NOW() - INTERVAL '7 days') AS bookings_last_7_days,
		COUNT(b.id) FILTER (WHERE b.created_at >= NOW() - INTERVAL '30 days') AS bookings_last_30_days,
		COUNT(b.id) AS total_bookings
	FROM clinics c
	LEFT JOIN bookings b ON b.clinic_id = c.id
`

const clinicGroupBy = ` GROUP BY c.id`

type clinicRepository struct {
	BaseRepository
}

func NewClinicRepository(base BaseRepository) repository.ClinicRepository {
	return &clinicRepository{base}
}

func (r *clinicRepository) Create(ctx context.Context, clinic *model.Clinic) error {
	query := `
		INSERT INTO clinics (
			id, name, email, phone, address, specialization_type, specialties, status,
			available_days, price, about, special_words, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14
		)
	`
	if clinic.ID == uuid.Nil {
		clinic.ID = uuid.New()
	}
	now := time.Now()
	clinic.CreatedAt = now
	clinic.UpdatedAt = now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			clinic.ID,
			clinic.Name,
			clinic.Email,
			clinic.Phone,
			clinic.Address,
			clinic.SpecializationType,
			pq.StringArray(clinic.Specialties),
			clinic.Status,
			pq.StringArray(clinic.AvailableDays),
			clinic.Price,
			clinic.About,
			pq.StringArray(clinic.SpecialWords),
			clinic.CreatedAt,
			clinic.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create clinic: %w", err)
		}
		return insertVideos(ctx, tx, clinic.ID, clinic.Videos)
	})
}

func (r *clinicRepository) Get(ctx context.Context, id uuid.UUID) (*model.Clinic, error) {
	var clinic model.Clinic
	if err := r.db.GetContext(ctx, &clinic, clinicSelect+` WHERE c.id = $1`+clinicGroupBy, id); err != nil {
		return nil, notFound(err, "clinic")
	}

	if err := r.loadRelations(ctx, []*model.Clinic{&clinic}); err != nil {
		return nil, err
	}
	return &clinic, nil
}

func (r *clinicRepository) List(ctx context.Context, filter model.ClinicFilter) ([]*model.Clinic, error) {
	var (
		conds []string
		args  []interface{}
	)
	if name := strings.TrimSpace(filter.Name); name != "" {
		args = append(args, "%"+name+"%")
		conds = append(conds, fmt.Sprintf("c.name ILIKE $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("c.status = $%d", len(args)))
	}

	query := clinicSelect
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += clinicGroupBy + " ORDER BY c.name"

	clinics := []*model.Clinic{}
	if err := r.db.SelectContext(ctx, &clinics, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list clinics: %w", err)
	}

	if err := r.loadRelations(ctx, clinics); err != nil {
		return nil, err
	}
	return clinics, nil
}

// loadRelations fills videos and doctor summaries for the given clinics.
func (r *clinicRepository) loadRelations(ctx context.Context, clinics []*model.Clinic) error {
	if len(clinics) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*model.Clinic, len(clinics))
	ids := make([]string, 0, len(clinics))
	for _, c := range clinics {
		c.Videos = []model.Video{}
		c.Doctors = []model.DoctorRef{}
		byID[c.ID] = c
		ids = append(ids, c.ID.String())
	}

	var videos []model.Video
	if err := r.db.SelectContext(ctx, &videos,
		`SELECT id, clinic_id, url, created_at FROM clinic_videos WHERE clinic_id = ANY($1::uuid[]) ORDER BY created_at`,
		pq.Array(ids),
	); err != nil {
		return fmt.Errorf("failed to load clinic videos: %w", err)
	}
	for _, v := range videos {
		if c, ok := byID[v.ClinicID]; ok {
			c.Videos = append(c.Videos, v)
		}
	}

	var doctors []struct {
		ClinicID uuid.UUID `db:"clinic_id"`
		model.DoctorRef
	}
	if err := r.db.SelectContext(ctx, &doctors, `
		SELECT cd.clinic_id, d.id, d.name, d.specialization, d.image
		FROM clinic_doctors cd
		JOIN doctors d ON d.id = cd.doctor_id
		WHERE cd.clinic_id = ANY($1::uuid[])
		ORDER BY d.name`,
		pq.Array(ids),
	); err != nil {
		return fmt.Errorf("failed to load clinic doctors: %w", err)
	}
	for _, d := range doctors {
		if c, ok := byID[d.ClinicID]; ok {
			c.Doctors = append(c.Doctors, d.DoctorRef)
		}
	}
	return nil
}

func (r *clinicRepository) Update(ctx context.Context, clinic *model.Clinic) error {
	query := `
		UPDATE clinics
		SET name = $1, email = $2, phone = $3, address = $4, specialization_type = $5,
			specialties = $6, status = $7, available_days = $8, price = $9, about = $10,
			special_words = $11, updated_at = $12
		WHERE id = $13
	`
	clinic.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query,
			clinic.Name,
			clinic.Email,
			clinic.Phone,
			clinic.Address,
			clinic.SpecializationType,
			pq.StringArray(clinic.Specialties),
			clinic.Status,
			pq.StringArray(clinic.AvailableDays),
			clinic.Price,
			clinic.About,
			pq.StringArray(clinic.SpecialWords),
			clinic.UpdatedAt,
			clinic.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update clinic: %w", err)
		}
		if err := expectAffected(res, "clinic"); err != nil {
			return err
		}
		return insertVideos(ctx, tx, clinic.ID, clinic.Videos)
	})
}

func (r *clinicRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clinics WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete clinic: %w", err)
	}
	return expectAffected(res, "clinic")
}

func (r *clinicRepository) GetAvailableDays(ctx context.Context, id uuid.UUID) ([]string, error) {
	var days pq.StringArray
	if err := r.db.GetContext(ctx, &days, `SELECT available_days FROM clinics WHERE id = $1`, id); err != nil {
		return nil, notFound(err, "clinic")
	}
	if days == nil {
		return []string{}, nil
	}
	return []string(days), nil
}

func (r *clinicRepository) AddVideos(ctx context.Context, clinicID uuid.UUID, videos []model.Video) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		return insertVideos(ctx, tx, clinicID, videos)
	})
}

func (r *clinicRepository) DeleteVideo(ctx context.Context, clinicID, videoID uuid.UUID) (*model.Video, error) {
	var video model.Video
	err := r.db.GetContext(ctx, &video, `
		DELETE FROM clinic_videos
		WHERE id = $1 AND clinic_id = $2
		RETURNING id, clinic_id, url, created_at`,
		videoID, clinicID,
	)
	if err != nil {
		return nil, notFound(err, "video")
	}
	return &video, nil
}

func (r *clinicRepository) AddDoctors(ctx context.Context, clinicID uuid.UUID, doctorIDs []uuid.UUID) error {
	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, doctorID := range doctorIDs {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO clinic_doctors (clinic_id, doctor_id)
				VALUES ($1, $2)
				ON CONFLICT DO NOTHING`,
				clinicID, doctorID,
			); err != nil {
				return fmt.Errorf("failed to link doctor %s: %w", doctorID, err)
			}
		}
		return nil
	})
}

// insertVideos persists the videos that have not been stored yet, marked by
// a zero CreatedAt, and assigns their ids in place.
func insertVideos(ctx context.Context, tx *sqlx.Tx, clinicID uuid.UUID, videos []model.Video) error {
	for i := range videos {
		v := &videos[i]
		if !v.CreatedAt.IsZero() {
			continue
		}
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
		v.ClinicID = clinicID
		v.CreatedAt = time.Now()
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clinic_videos (id, clinic_id, url, created_at) VALUES ($1, $2, $3, $4)`,
			v.ID, clinicID, v.URL, v.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to add clinic video: %w", err)
		}
	}
	return nil
}
