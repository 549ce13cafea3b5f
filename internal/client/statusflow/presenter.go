// Package statusflow проводит пользователя через смену статуса отклика:
// выбор следующего статуса, комментарий, проверку и отправку на сервер.
package statusflow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/client/api"
	"github.com/ignatzorin/jobportal-backend/internal/domain/valueobject"
	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/pagination"
)

var (
	ErrNoTargetSelected  = errors.New("statusflow: новый статус не выбран")
	ErrIllegalTransition = errors.New("statusflow: переход недопустим")
	ErrFeedbackRequired  = errors.New("statusflow: требуется комментарий")
)

// CommitFailedError - сервер отклонил смену статуса. Message показывается пользователю как есть.
type CommitFailedError struct {
	Message string
	cause   error
}

func (e *CommitFailedError) Error() string {
	return e.Message
}

func (e *CommitFailedError) Unwrap() error {
	return e.cause
}

// CommitFunc сохраняет переход на сервере.
type CommitFunc func(ctx context.Context, target valueobject.ApplicationStatus, feedback string) error

// Presenter хранит выбор пользователя для одного отклика. Не безопасен для конкурентного использования.
type Presenter struct {
	current  valueobject.ApplicationStatus
	target   valueobject.ApplicationStatus
	feedback string
	commit   CommitFunc
}

func NewPresenter(current valueobject.ApplicationStatus, commit CommitFunc) *Presenter {
	return &Presenter{current: current, commit: commit}
}

func (p *Presenter) Current() valueobject.ApplicationStatus { return p.current }
func (p *Presenter) Target() valueobject.ApplicationStatus  { return p.target }
func (p *Presenter) Feedback() string                       { return p.feedback }

// Options возвращает статусы, доступные для выбора. Для конечных статусов список пуст.
func (p *Presenter) Options() []valueobject.StatusPolicyEntry {
	next := valueobject.AllowedTransitions(p.current)
	out := make([]valueobject.StatusPolicyEntry, 0, len(next))
	for _, s := range next {
		if e, err := valueobject.Describe(s); err == nil {
			out = append(out, e)
		}
	}
	return out
}

// FeedbackRequired сообщает, нужен ли комментарий для выбранного статуса.
func (p *Presenter) FeedbackRequired() bool {
	return p.target != "" && valueobject.RequiresFeedback(p.target)
}

// Progress возвращает шкалу прогресса для текущего статуса.
func (p *Presenter) Progress() valueobject.Progress {
	return valueobject.ProgressOf(p.current)
}

func (p *Presenter) Select(target valueobject.ApplicationStatus) {
	p.target = target
}

func (p *Presenter) SetFeedback(text string) {
	p.feedback = text
}

// Reset сбрасывает выбор без отправки.
func (p *Presenter) Reset() {
	p.target = ""
	p.feedback = ""
}

// Propose проверяет выбор и отправляет его через CommitFunc.
// При ошибке проверки commit не вызывается, состояние не меняется.
// После успешной отправки текущим становится выбранный статус, выбор сбрасывается.
func (p *Presenter) Propose(ctx context.Context) error {
	if err := Validate(p.current, p.target, p.feedback); err != nil {
		return err
	}
	if p.commit == nil {
		return &CommitFailedError{Message: "отправка изменений недоступна"}
	}

	if err := p.commit(ctx, p.target, p.feedback); err != nil {
		var failed *CommitFailedError
		if errors.As(err, &failed) {
			return failed
		}
		return &CommitFailedError{Message: err.Error(), cause: err}
	}

	p.current = p.target
	p.Reset()
	return nil
}

// Validate проверяет переход current -> target с комментарием feedback.
func Validate(current, target valueobject.ApplicationStatus, feedback string) error {
	if strings.TrimSpace(target.String()) == "" {
		return ErrNoTargetSelected
	}
	if !current.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, current, target)
	}
	if valueobject.RequiresFeedback(target) && strings.TrimSpace(feedback) == "" {
		return ErrFeedbackRequired
	}
	return nil
}

// DisplayMessage переводит ошибку в текст для пользователя.
func DisplayMessage(err error) string {
	var failed *CommitFailedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &failed):
		return failed.Message
	case errors.Is(err, ErrNoTargetSelected):
		return "Выберите новый статус"
	case errors.Is(err, ErrIllegalTransition):
		return "Переход в выбранный статус недоступен"
	case errors.Is(err, ErrFeedbackRequired):
		return "Для этого статуса нужен комментарий"
	case errors.Is(err, valueobject.ErrUnknownStatus):
		return "Неизвестный статус отклика"
	case errors.Is(err, pagination.ErrInvalidPageSize):
		return "Некорректный размер страницы"
	default:
		return "Не удалось выполнить действие, попробуйте ещё раз"
	}
}

// StatusUpdater - часть API клиента, нужная для смены статуса.
type StatusUpdater interface {
	UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status valueobject.ApplicationStatus, feedback string) (*models.ApplicationDetails, error)
}

// CommitFor строит CommitFunc поверх API клиента для отклика applicationID.
func CommitFor(client StatusUpdater, applicationID uuid.UUID) CommitFunc {
	return func(ctx context.Context, target valueobject.ApplicationStatus, feedback string) error {
		_, err := client.UpdateApplicationStatus(ctx, applicationID, target, feedback)
		if err == nil {
			return nil
		}
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			return &CommitFailedError{Message: apiErr.Message, cause: err}
		}
		return &CommitFailedError{Message: err.Error(), cause: err}
	}
}

var _ StatusUpdater = (*api.Client)(nil)
