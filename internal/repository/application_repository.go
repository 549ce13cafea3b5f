package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/ignatzorin/jobportal-backend/internal/domain/valueobject"
	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/repository/common"
)

var (
	// ErrApplicationNotFound возвращается, когда отклик не найден.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrAlreadyApplied возвращается при повторном отклике на ту же вакансию.
	ErrAlreadyApplied = errors.New("application already exists")
	// ErrStatusChanged возвращается, если статус изменился между чтением и записью.
	ErrStatusChanged = errors.New("application status changed concurrently")
)

const applicationDetailsSelect = `
	SELECT a.*, j.title AS job_title, j.company, j.employer_id,
	       u.name AS applicant_name, u.email AS applicant_email
	FROM job_applications a
	JOIN jobs j ON j.id = a.job_id
	JOIN users u ON u.id = a.applicant_id
`

// ApplicationRepository работает с откликами и историей их статусов.
type ApplicationRepository struct {
	db *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create сохраняет отклик и первую запись истории.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	return common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			INSERT INTO job_applications (job_id, applicant_id, cover_letter, resume_key, resume_name, status)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, applied_at, updated_at
		`
		if err := tx.QueryRowxContext(ctx, query,
			app.JobID, app.ApplicantID, app.CoverLetter, app.ResumeKey, app.ResumeName, app.Status,
		).Scan(&app.ID, &app.AppliedAt, &app.UpdatedAt); err != nil {
			var pqErr *pq.Error
			if errors.As(err, &pqErr) && pqErr.Code == "23505" {
				return ErrAlreadyApplied
			}
			return fmt.Errorf("application repository: create %w", err)
		}

		return insertHistory(ctx, tx, app.ID, nil, app.Status, nil, &app.ApplicantID)
	})
}

// Exists проверяет, откликался ли соискатель на вакансию.
func (r *ApplicationRepository) Exists(ctx context.Context, jobID, applicantID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM job_applications WHERE job_id = $1 AND applicant_id = $2)`
	if err := r.db.GetContext(ctx, &exists, query, jobID, applicantID); err != nil {
		return false, fmt.Errorf("application repository: exists %w", err)
	}
	return exists, nil
}

// GetByID возвращает отклик с данными вакансии и соискателя.
func (r *ApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ApplicationDetails, error) {
	var app models.ApplicationDetails
	if err := r.db.GetContext(ctx, &app, applicationDetailsSelect+` WHERE a.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("application repository: get by id %w", err)
	}
	return &app, nil
}

// ListByApplicant возвращает отклики соискателя.
func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.ApplicationDetails, error) {
	return r.list(ctx, applicationDetailsSelect+` WHERE a.applicant_id = $1 ORDER BY a.applied_at DESC`, applicantID)
}

// ListByJob возвращает отклики на вакансию.
func (r *ApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.ApplicationDetails, error) {
	return r.list(ctx, applicationDetailsSelect+` WHERE a.job_id = $1 ORDER BY a.applied_at DESC`, jobID)
}

// ListRecentForEmployer возвращает последние отклики на вакансии работодателя.
func (r *ApplicationRepository) ListRecentForEmployer(ctx context.Context, employerID uuid.UUID, limit int) ([]models.ApplicationDetails, error) {
	return r.list(ctx, applicationDetailsSelect+` WHERE j.employer_id = $1 ORDER BY a.applied_at DESC LIMIT $2`, employerID, limit)
}

func (r *ApplicationRepository) list(ctx context.Context, query string, args ...interface{}) ([]models.ApplicationDetails, error) {
	apps := []models.ApplicationDetails{}
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, fmt.Errorf("application repository: list %w", err)
	}
	return apps, nil
}

// UpdateStatus меняет статус при условии, что текущий статус равен from.
// Пустой feedback не затирает сохранённый комментарий.
func (r *ApplicationRepository) UpdateStatus(
	ctx context.Context,
	id uuid.UUID,
	from, to valueobject.ApplicationStatus,
	feedback *string,
	changedBy uuid.UUID,
) (*models.Application, error) {
	var app models.Application
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		query := `
			UPDATE job_applications
			SET status = $3, feedback = COALESCE($4, feedback), updated_at = NOW()
			WHERE id = $1 AND status = $2
			RETURNING *
		`
		if err := tx.GetContext(ctx, &app, query, id, from, to, feedback); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrStatusChanged
			}
			return fmt.Errorf("application repository: update status %w", err)
		}

		return insertHistory(ctx, tx, id, &from, to, feedback, &changedBy)
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// MarkAcknowledged отмечает отклик как подтверждённый. Если отклик ещё в PENDING,
// переводит его в REVIEWING с заданным сообщением.
func (r *ApplicationRepository) MarkAcknowledged(ctx context.Context, id uuid.UUID, message string, changedBy uuid.UUID) (*models.Application, error) {
	var app models.Application
	err := common.WithTransaction(ctx, r.db, func(tx *sqlx.Tx) error {
		var before valueobject.ApplicationStatus
		if err := tx.GetContext(ctx, &before, `SELECT status FROM job_applications WHERE id = $1 FOR UPDATE`, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrApplicationNotFound
			}
			return fmt.Errorf("application repository: lock %w", err)
		}

		promote := before == valueobject.ApplicationStatusPending
		query := `
			UPDATE job_applications
			SET acknowledged = TRUE,
			    status = CASE WHEN $2 THEN $3 ELSE status END,
			    feedback = CASE WHEN $2 THEN $4 ELSE feedback END,
			    updated_at = NOW()
			WHERE id = $1
			RETURNING *
		`
		if err := tx.GetContext(ctx, &app, query, id, promote, valueobject.ApplicationStatusReviewing, message); err != nil {
			return fmt.Errorf("application repository: acknowledge %w", err)
		}

		if !promote {
			return nil
		}
		return insertHistory(ctx, tx, id, &before, app.Status, &message, &changedBy)
	})
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// History возвращает историю статусов в хронологическом порядке.
func (r *ApplicationRepository) History(ctx context.Context, id uuid.UUID) ([]models.StatusHistoryEntry, error) {
	entries := []models.StatusHistoryEntry{}
	query := `SELECT * FROM application_status_history WHERE application_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &entries, query, id); err != nil {
		return nil, fmt.Errorf("application repository: history %w", err)
	}
	return entries, nil
}

func insertHistory(
	ctx context.Context,
	tx *sqlx.Tx,
	applicationID uuid.UUID,
	from *valueobject.ApplicationStatus,
	to valueobject.ApplicationStatus,
	feedback *string,
	changedBy *uuid.UUID,
) error {
	query := `
		INSERT INTO application_status_history (application_id, from_status, to_status, feedback, changed_by)
		VALUES ($1, $2, $3, $4, $5)
	`
	if _, err := tx.ExecContext(ctx, query, applicationID, from, to, feedback, changedBy); err != nil {
		return fmt.Errorf("application repository: insert history %w", err)
	}
	return nil
}
