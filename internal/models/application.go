package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/domain/valueobject"
)

// Application описывает отклик соискателя на вакансию.
type Application struct {
	ID           uuid.UUID                     `db:"id" json:"id"`
	JobID        uuid.UUID                     `db:"job_id" json:"job_id"`
	ApplicantID  uuid.UUID                     `db:"applicant_id" json:"applicant_id"`
	CoverLetter  *string                       `db:"cover_letter" json:"cover_letter,omitempty"`
	ResumeKey    *string                       `db:"resume_key" json:"-"`
	ResumeName   *string                       `db:"resume_name" json:"resume_name,omitempty"`
	Status       valueobject.ApplicationStatus `db:"status" json:"status"`
	Feedback     *string                       `db:"feedback" json:"feedback,omitempty"`
	Acknowledged bool                          `db:"acknowledged" json:"acknowledged"`
	AppliedAt    time.Time                     `db:"applied_at" json:"applied_at"`
	UpdatedAt    time.Time                     `db:"updated_at" json:"updated_at"`
}

// ApplicationDetails отклик с данными вакансии и соискателя.
type ApplicationDetails struct {
	Application
	JobTitle       string    `db:"job_title" json:"job_title"`
	Company        string    `db:"company" json:"company"`
	EmployerID     uuid.UUID `db:"employer_id" json:"employer_id"`
	ApplicantName  string    `db:"applicant_name" json:"applicant_name"`
	ApplicantEmail string    `db:"applicant_email" json:"applicant_email"`
}

// HasResume сообщает, приложено ли резюме.
func (a *Application) HasResume() bool {
	return a.ResumeKey != nil && *a.ResumeKey != ""
}

// StatusHistoryEntry - запись истории смены статусов.
type StatusHistoryEntry struct {
	ID            uuid.UUID                      `db:"id" json:"id"`
	ApplicationID uuid.UUID                      `db:"application_id" json:"application_id"`
	FromStatus    *valueobject.ApplicationStatus `db:"from_status" json:"from_status,omitempty"`
	ToStatus      valueobject.ApplicationStatus  `db:"to_status" json:"to_status"`
	Feedback      *string                        `db:"feedback" json:"feedback,omitempty"`
	ChangedBy     *uuid.UUID                     `db:"changed_by" json:"changed_by,omitempty"`
	CreatedAt     time.Time                      `db:"created_at" json:"created_at"`
}

// ApplicationStatusHistory ответ для истории статусов отклика.
type ApplicationStatusHistory struct {
	ApplicationID uuid.UUID                     `json:"applicationId"`
	CurrentStatus valueobject.ApplicationStatus `json:"currentStatus"`
	LastUpdated   time.Time                     `json:"lastUpdated"`
	Feedback      *string                       `json:"feedback,omitempty"`
	Progress      valueobject.Progress          `json:"progress"`
	History       []StatusHistoryEntry          `json:"history"`
}
