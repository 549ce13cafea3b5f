package valueobject

import (
	"fmt"
	"strings"

	"github.com/ignatzorin/jobportal-backend/internal/pkg/apperror"
)

type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "PENDING"
	ApplicationStatusReviewing   ApplicationStatus = "REVIEWING"
	ApplicationStatusShortlisted ApplicationStatus = "SHORTLISTED"
	ApplicationStatusInterviewed ApplicationStatus = "INTERVIEWED"
	ApplicationStatusOffered     ApplicationStatus = "OFFERED"
	ApplicationStatusAccepted    ApplicationStatus = "ACCEPTED"
	ApplicationStatusRejected    ApplicationStatus = "REJECTED"
)

// StatusColor - цветовой тег для отображения статуса.
type StatusColor string

const (
	StatusColorDefault   StatusColor = "default"
	StatusColorPrimary   StatusColor = "primary"
	StatusColorInfo      StatusColor = "info"
	StatusColorSecondary StatusColor = "secondary"
	StatusColorWarning   StatusColor = "warning"
	StatusColorSuccess   StatusColor = "success"
	StatusColorError     StatusColor = "error"
)

// StatusPolicyEntry описывает один статус отклика.
type StatusPolicyEntry struct {
	State            ApplicationStatus   `json:"state"`
	Label            string              `json:"label"`
	Description      string              `json:"description"`
	AllowedNext      []ApplicationStatus `json:"allowedNext"`
	FeedbackRequired bool                `json:"feedbackRequired"`
	Color            StatusColor         `json:"color"`
}

// ErrUnknownStatus возвращается для значений вне перечисления.
var ErrUnknownStatus = apperror.New(apperror.ErrCodeValidation, "некорректный статус отклика")

// Порядок объявления важен: по нему строится шкала прогресса.
var statusPolicy = []StatusPolicyEntry{
	{
		State:       ApplicationStatusPending,
		Label:       "Pending",
		Description: "Application submitted but not yet reviewed",
		AllowedNext: []ApplicationStatus{ApplicationStatusReviewing, ApplicationStatusRejected},
		Color:       StatusColorDefault,
	},
	{
		State:            ApplicationStatusReviewing,
		Label:            "Under Review",
		Description:      "Application is being reviewed by the employer",
		AllowedNext:      []ApplicationStatus{ApplicationStatusShortlisted, ApplicationStatusRejected},
		FeedbackRequired: true,
		Color:            StatusColorPrimary,
	},
	{
		State:            ApplicationStatusShortlisted,
		Label:            "Shortlisted",
		Description:      "Candidate shortlisted for interview",
		AllowedNext:      []ApplicationStatus{ApplicationStatusInterviewed, ApplicationStatusRejected},
		FeedbackRequired: true,
		Color:            StatusColorInfo,
	},
	{
		State:            ApplicationStatusInterviewed,
		Label:            "Interviewed",
		Description:      "Interview completed",
		AllowedNext:      []ApplicationStatus{ApplicationStatusOffered, ApplicationStatusRejected},
		FeedbackRequired: true,
		Color:            StatusColorSecondary,
	},
	{
		State:            ApplicationStatusOffered,
		Label:            "Offer Extended",
		Description:      "Job offer has been made",
		AllowedNext:      []ApplicationStatus{ApplicationStatusAccepted, ApplicationStatusRejected},
		FeedbackRequired: true,
		Color:            StatusColorWarning,
	},
	{
		State:       ApplicationStatusAccepted,
		Label:       "Accepted",
		Description: "Offer accepted by candidate",
		Color:       StatusColorSuccess,
	},
	{
		State:            ApplicationStatusRejected,
		Label:            "Rejected",
		Description:      "Application rejected",
		FeedbackRequired: true,
		Color:            StatusColorError,
	},
}

func lookup(s ApplicationStatus) (StatusPolicyEntry, bool) {
	for _, e := range statusPolicy {
		if e.State == s {
			return e, true
		}
	}
	return StatusPolicyEntry{}, false
}

func (e StatusPolicyEntry) clone() StatusPolicyEntry {
	e.AllowedNext = append([]ApplicationStatus{}, e.AllowedNext...)
	return e
}

func (s ApplicationStatus) IsValid() bool {
	_, ok := lookup(s)
	return ok
}

func (s ApplicationStatus) String() string {
	return string(s)
}

// Describe возвращает запись таблицы для статуса.
func Describe(s ApplicationStatus) (StatusPolicyEntry, error) {
	e, ok := lookup(s)
	if !ok {
		return StatusPolicyEntry{}, ErrUnknownStatus.WithCause(fmt.Errorf("status %q", s))
	}
	return e.clone(), nil
}

// AllowedTransitions возвращает допустимые следующие статусы.
// Для конечных и неизвестных статусов список пуст.
func AllowedTransitions(s ApplicationStatus) []ApplicationStatus {
	e, ok := lookup(s)
	if !ok {
		return []ApplicationStatus{}
	}
	return e.clone().AllowedNext
}

// RequiresFeedback сообщает, нужен ли комментарий при переходе в статус.
func RequiresFeedback(s ApplicationStatus) bool {
	e, ok := lookup(s)
	return ok && e.FeedbackRequired
}

func (s ApplicationStatus) Label() string {
	if e, ok := lookup(s); ok {
		return e.Label
	}
	return string(s)
}

func (s ApplicationStatus) IsTerminal() bool {
	e, ok := lookup(s)
	return ok && len(e.AllowedNext) == 0
}

func (s ApplicationStatus) CanTransitionTo(next ApplicationStatus) bool {
	for _, allowed := range AllowedTransitions(s) {
		if allowed == next {
			return true
		}
	}
	return false
}

// StatusPolicy возвращает копию всей таблицы в порядке объявления.
func StatusPolicy() []StatusPolicyEntry {
	out := make([]StatusPolicyEntry, len(statusPolicy))
	for i, e := range statusPolicy {
		out[i] = e.clone()
	}
	return out
}

// ParseApplicationStatus разбирает строку без учета регистра.
// Старые значения UNDER_REVIEW, INTERVIEW и HIRED не принимаются.
func ParseApplicationStatus(v string) (ApplicationStatus, error) {
	s := ApplicationStatus(strings.ToUpper(strings.TrimSpace(v)))
	if !s.IsValid() {
		return "", ErrUnknownStatus.WithCause(fmt.Errorf("status %q", v))
	}
	return s, nil
}

// ValidateTransition проверяет переход и наличие комментария.
func ValidateTransition(current, next ApplicationStatus, feedback string) error {
	if !next.IsValid() {
		return ErrUnknownStatus
	}
	if !current.CanTransitionTo(next) {
		return apperror.ErrInvalidTransition.WithCause(fmt.Errorf("%s -> %s", current, next))
	}
	if RequiresFeedback(next) && strings.TrimSpace(feedback) == "" {
		return apperror.ErrFeedbackRequired
	}
	return nil
}

// ProgressStep - шаг шкалы прогресса отклика.
type ProgressStep struct {
	State     ApplicationStatus `json:"state"`
	Label     string            `json:"label"`
	Completed bool              `json:"completed"`
	Active    bool              `json:"active"`
}

// Progress - проекция статуса на шкалу. REJECTED не является шагом,
// а отображается отдельным бейджем.
type Progress struct {
	Steps    []ProgressStep `json:"steps"`
	Rejected bool           `json:"rejected"`
}

// ProgressOf строит шкалу прогресса для текущего статуса.
func ProgressOf(current ApplicationStatus) Progress {
	p := Progress{Rejected: current == ApplicationStatusRejected}
	reached := -1
	for i, e := range statusPolicy {
		if e.State == current && !p.Rejected {
			reached = i
		}
	}
	for i, e := range statusPolicy {
		if e.State == ApplicationStatusRejected {
			continue
		}
		p.Steps = append(p.Steps, ProgressStep{
			State:     e.State,
			Label:     e.Label,
			Completed: i <= reached,
			Active:    i == reached,
		})
	}
	return p
}
