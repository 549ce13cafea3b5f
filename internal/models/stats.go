package models

import (
	"time"
)

// AdminStats сводка для администратора.
type AdminStats struct {
	TotalUsers        int `db:"total_users" json:"totalUsers"`
	ActiveJobs        int `db:"active_jobs" json:"activeJobs"`
	ApplicationsToday int `db:"applications_today" json:"applicationsToday"`
}

// DailyActivity число регистраций за день.
type DailyActivity struct {
	Day   time.Time `db:"day" json:"date"`
	Count int       `db:"count" json:"count"`
}

// Типы событий ленты активности.
const (
	ActivityUserRegistered = "user_registered"
	ActivityJobPosted      = "job_posted"
	ActivityApplication    = "application_submitted"
)

// RecentActivity элемент ленты последних событий.
type RecentActivity struct {
	Type        string    `db:"type" json:"type"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"timestamp"`
}

// EmployerStats сводка для работодателя.
type EmployerStats struct {
	ActiveJobs        int `db:"active_jobs" json:"activeJobs"`
	TotalApplications int `db:"total_applications" json:"totalApplications"`
	HiredCandidates   int `db:"hired_candidates" json:"hiredCandidates"`
}

// JobSeekerStats сводка для соискателя.
type JobSeekerStats struct {
	TotalApplications int `db:"total_applications" json:"totalApplications"`
	Interviews        int `db:"interviews" json:"interviews"`
	ProfileViews      int `db:"profile_views" json:"profileViews"`
}
