package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Типы занятости вакансии.
const (
	JobTypeFullTime   = "Full-time"
	JobTypePartTime   = "Part-time"
	JobTypeContract   = "Contract"
	JobTypeInternship = "Internship"
	JobTypeRemote     = "Remote"
)

// ValidJobTypes список допустимых типов занятости.
var ValidJobTypes = map[string]struct{}{
	JobTypeFullTime:   {},
	JobTypePartTime:   {},
	JobTypeContract:   {},
	JobTypeInternship: {},
	JobTypeRemote:     {},
}

// Job описывает вакансию.
type Job struct {
	ID           uuid.UUID      `db:"id" json:"id"`
	EmployerID   uuid.UUID      `db:"employer_id" json:"employer_id"`
	Title        string         `db:"title" json:"title"`
	Description  string         `db:"description" json:"description"`
	Company      string         `db:"company" json:"company"`
	Location     string         `db:"location" json:"location"`
	Type         string         `db:"type" json:"type"`
	Salary       *string        `db:"salary" json:"salary,omitempty"`
	Requirements pq.StringArray `db:"requirements" json:"requirements"`
	Skills       pq.StringArray `db:"skills" json:"skills"`
	PostedAt     time.Time      `db:"posted_at" json:"posted_at"`
	Deadline     *time.Time     `db:"deadline" json:"deadline,omitempty"`
	Active       bool           `db:"active" json:"active"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// JobFilter параметры поиска вакансий.
type JobFilter struct {
	Search   string
	Location string
	Type     string
}

// SavedJob - вакансия, сохранённая соискателем.
type SavedJob struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	JobID     uuid.UUID `db:"job_id" json:"job_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// SavedJobWithJob сохранённая вакансия вместе с данными вакансии.
type SavedJobWithJob struct {
	Job
	SavedAt time.Time `db:"saved_at" json:"saved_at"`
}
