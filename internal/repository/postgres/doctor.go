package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/jwalitptl/clinic-booking/internal/model"
	"github.com/jwalitptl/clinic-booking/internal/repository"
)

const doctorColumns = `id, name, email, phone, address, years_of_experience, specialization,
	specialties, schedules, status, image, created_at, updated_at`

type doctorRepository struct {
	BaseRepository
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, name, email, phone, address, years_of_experience, specialization,
			specialties, schedules, status, image, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	if doctor.ID == uuid.Nil {
		doctor.ID = uuid.New()
	}
	now := time.Now()
	doctor.CreatedAt = now
	doctor.UpdatedAt = now

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, query,
			doctor.ID,
			doctor.Name,
			doctor.Email,
			doctor.Phone,
			doctor.Address,
			doctor.YearsOfExperience,
			doctor.Specialization,
			pq.StringArray(doctor.Specialties),
			doctor.Schedules,
			doctor.Status,
			doctor.Image,
			doctor.CreatedAt,
			doctor.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to create doctor: %w", err)
		}
		return replaceDoctorClinics(ctx, tx, doctor.ID, doctor.Clinics)
	})
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, `SELECT `+doctorColumns+` FROM doctors WHERE id = $1`, id); err != nil {
		return nil, notFound(err, "doctor")
	}
	if err := r.loadClinics(ctx, []*model.Doctor{&doctor}); err != nil {
		return nil, err
	}
	return &doctor, nil
}

func (r *doctorRepository) List(ctx context.Context) ([]*model.Doctor, error) {
	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, `SELECT `+doctorColumns+` FROM doctors ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	if err := r.loadClinics(ctx, doctors); err != nil {
		return nil, err
	}
	return doctors, nil
}

func (r *doctorRepository) loadClinics(ctx context.Context, doctors []*model.Doctor) error {
	if len(doctors) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*model.Doctor, len(doctors))
	ids := make([]string, 0, len(doctors))
	for _, d := range doctors {
		d.Clinics = []uuid.UUID{}
		byID[d.ID] = d
		ids = append(ids, d.ID.String())
	}

	var links []struct {
		ClinicID uuid.UUID `db:"clinic_id"`
		DoctorID uuid.UUID `db:"doctor_id"`
	}
	if err := r.db.SelectContext(ctx, &links,
		`SELECT clinic_id, doctor_id FROM clinic_doctors WHERE doctor_id = ANY($1::uuid[])`,
		pq.Array(ids),
	); err != nil {
		return fmt.Errorf("failed to load doctor clinics: %w", err)
	}
	for _, l := range links {
		if d, ok := byID[l.DoctorID]; ok {
			d.Clinics = append(d.Clinics, l.ClinicID)
		}
	}
	return nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET name = $1, email = $2, phone = $3, address = $4, years_of_experience = $5,
			specialization = $6, specialties = $7, schedules = $8, status = $9, image = $10,
			updated_at = $11
		WHERE id = $12
	`
	doctor.UpdatedAt = time.Now()

	return r.WithTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, query,
			doctor.Name,
			doctor.Email,
			doctor.Phone,
			doctor.Address,
			doctor.YearsOfExperience,
			doctor.Specialization,
			pq.StringArray(doctor.Specialties),
			doctor.Schedules,
			doctor.Status,
			doctor.Image,
			doctor.UpdatedAt,
			doctor.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update doctor: %w", err)
		}
		if err := expectAffected(res, "doctor"); err != nil {
			return err
		}
		return replaceDoctorClinics(ctx, tx, doctor.ID, doctor.Clinics)
	})
}

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return expectAffected(res, "doctor")
}

func replaceDoctorClinics(ctx context.Context, tx *sqlx.Tx, doctorID uuid.UUID, clinicIDs []uuid.UUID) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM clinic_doctors WHERE doctor_id = $1`, doctorID); err != nil {
		return fmt.Errorf("failed to clear doctor clinics: %w", err)
	}
	for _, clinicID := range clinicIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO clinic_doctors (clinic_id, doctor_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			clinicID, doctorID,
		); err != nil {
			return fmt.Errorf("failed to link clinic %s: %w", clinicID, err)
		}
	}
	return nil
}
