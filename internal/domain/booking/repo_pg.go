package booking

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type repoPG struct {
	pool *pgxpool.Pool
}

func NewRepo(pool *pgxpool.Pool) Repository {
	return &repoPG{pool: pool}
}

const apptCols = `id, doctor_id, date, "time", available, patient_id,
	cancellation_history, created_at, updated_at`

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	a.ID = uuid.New()
	_, err := r.pool.Exec(ctx, `
		INSERT INTO appointments (id, doctor_id, date, "time", available, patient_id)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		a.ID, a.DoctorID, a.Date, a.Time, a.Available, a.PatientID,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return ErrDoctorNotFound
	}
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return scanAppt(r.pool.QueryRow(ctx, `SELECT `+apptCols+` FROM appointments WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, a *Appointment) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments SET date = $2, "time" = $3, updated_at = now()
		WHERE id = $1`,
		a.ID, a.Date, a.Time,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `
		DELETE FROM appointments WHERE id = $1 AND available = true`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrReserved
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx, `SELECT `+apptCols+` FROM appointments ORDER BY date, "time" LIMIT $1 OFFSET $2`,
		`SELECT count(*) FROM appointments`, nil, limit, offset)
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE doctor_id = $3 ORDER BY date, "time" LIMIT $1 OFFSET $2`,
		`SELECT count(*) FROM appointments WHERE doctor_id = $1`, &doctorID, limit, offset)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	return r.list(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE patient_id = $3 ORDER BY date, "time" LIMIT $1 OFFSET $2`,
		`SELECT count(*) FROM appointments WHERE patient_id = $1`, &patientID, limit, offset)
}

func (r *repoPG) list(ctx context.Context, query, countQuery string, filter *uuid.UUID, limit, offset int) ([]*Appointment, int, error) {
	var total int
	var err error
	if filter != nil {
		err = r.pool.QueryRow(ctx, countQuery, *filter).Scan(&total)
	} else {
		err = r.pool.QueryRow(ctx, countQuery).Scan(&total)
	}
	if err != nil {
		return nil, 0, err
	}

	var rows pgx.Rows
	if filter != nil {
		rows, err = r.pool.Query(ctx, query, limit, offset, *filter)
	} else {
		rows, err = r.pool.Query(ctx, query, limit, offset)
	}
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var result []*Appointment
	for rows.Next() {
		a, err := scanAppt(rows)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, a)
	}
	return result, total, rows.Err()
}

func (r *repoPG) Reserve(ctx context.Context, id, patientID uuid.UUID) error {
	// Availability sits in the WHERE clause: of two concurrent reservations
	// exactly one matches a row, the other sees zero rows affected.
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments SET available = false, patient_id = $2, updated_at = now()
		WHERE id = $1 AND available = true`,
		id, patientID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrUnavailable
	}
	return nil
}

func (r *repoPG) Cancel(ctx context.Context, id, patientID uuid.UUID) error {
	// Release and history append happen in one statement so the entry can
	// never be lost between the two.
	tag, err := r.pool.Exec(ctx, `
		UPDATE appointments SET
			available = true,
			patient_id = NULL,
			cancellation_history = cancellation_history || jsonb_build_array(jsonb_build_object(
				'cancellation_date', now(),
				'canceled_by_patient', $2::text,
				'canceled_appointment_time', "time")),
			updated_at = now()
		WHERE id = $1 AND patient_id = $2 AND available = false`,
		id, patientID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
		return ErrNotOwned
	}
	return nil
}

func (r *repoPG) HistoryByPatient(ctx context.Context, patientID uuid.UUID) ([]CancellationRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT a.id, a.doctor_id,
			(e->>'cancellation_date')::timestamptz,
			(e->>'canceled_by_patient')::uuid,
			e->>'canceled_appointment_time'
		FROM appointments a,
			jsonb_array_elements(a.cancellation_history) e
		WHERE e->>'canceled_by_patient' = $1::text
		ORDER BY (e->>'cancellation_date')::timestamptz`,
		patientID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []CancellationRecord
	for rows.Next() {
		var rec CancellationRecord
		err := rows.Scan(
			&rec.AppointmentID, &rec.DoctorID,
			&rec.CancellationDate, &rec.CanceledByPatient, &rec.CanceledAppointmentTime,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, rows.Err()
}

func scanAppt(row pgx.Row) (*Appointment, error) {
	var a Appointment
	var history []byte
	err := row.Scan(
		&a.ID, &a.DoctorID, &a.Date, &a.Time, &a.Available, &a.PatientID,
		&history, &a.CreatedAt, &a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if len(history) > 0 {
		if err := json.Unmarshal(history, &a.CancellationHistory); err != nil {
			return nil, err
		}
	}
	if a.CancellationHistory == nil {
		a.CancellationHistory = []HistoryEntry{}
	}
	return &a, nil
}
