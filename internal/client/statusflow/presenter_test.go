package statusflow

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/jobportal-backend/internal/client/api"
	vo "github.com/ignatzorin/jobportal-backend/internal/domain/valueobject"
	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/pagination"
)

type commitCall struct {
	target   vo.ApplicationStatus
	feedback string
}

func recorder(result error) (CommitFunc, *[]commitCall) {
	var calls []commitCall
	return func(ctx context.Context, target vo.ApplicationStatus, feedback string) error {
		calls = append(calls, commitCall{target, feedback})
		return result
	}, &calls
}

func allStatuses() []vo.ApplicationStatus {
	var out []vo.ApplicationStatus
	for _, e := range vo.StatusPolicy() {
		out = append(out, e.State)
	}
	return out
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		current  vo.ApplicationStatus
		target   vo.ApplicationStatus
		feedback string
		want     error
	}{
		{"статус не выбран", vo.ApplicationStatusPending, "", "", ErrNoTargetSelected},
		{"PENDING -> SHORTLISTED", vo.ApplicationStatusPending, vo.ApplicationStatusShortlisted, "ok", ErrIllegalTransition},
		{"REVIEWING -> SHORTLISTED с комментарием", vo.ApplicationStatusReviewing, vo.ApplicationStatusShortlisted, "Strong candidate", nil},
		{"INTERVIEWED -> REJECTED без комментария", vo.ApplicationStatusInterviewed, vo.ApplicationStatusRejected, "", ErrFeedbackRequired},
		{"комментарий из пробелов", vo.ApplicationStatusOffered, vo.ApplicationStatusRejected, "  \t", ErrFeedbackRequired},
		{"PENDING -> REVIEWING требует комментарий", vo.ApplicationStatusPending, vo.ApplicationStatusReviewing, "", ErrFeedbackRequired},
		{"OFFERED -> ACCEPTED без комментария", vo.ApplicationStatusOffered, vo.ApplicationStatusAccepted, "", nil},
		{"из конечного статуса", vo.ApplicationStatusAccepted, vo.ApplicationStatusRejected, "late", ErrIllegalTransition},
		{"старый словарь", vo.ApplicationStatusPending, "UNDER_REVIEW", "x", ErrIllegalTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.current, tt.target, tt.feedback)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestValidate_AllPairs(t *testing.T) {
	for _, current := range allStatuses() {
		for _, target := range allStatuses() {
			err := Validate(current, target, "")
			switch {
			case !current.CanTransitionTo(target):
				assert.ErrorIs(t, err, ErrIllegalTransition, "%s -> %s", current, target)
			case vo.RequiresFeedback(target):
				assert.ErrorIs(t, err, ErrFeedbackRequired, "%s -> %s", current, target)
				assert.ErrorIs(t, Validate(current, target, "   "), ErrFeedbackRequired)
				assert.NoError(t, Validate(current, target, "причина"))
			default:
				assert.NoError(t, err, "%s -> %s", current, target)
			}
		}
	}
}

func TestPresenter_TerminalStatesOfferNothing(t *testing.T) {
	for _, s := range allStatuses() {
		p := NewPresenter(s, nil)
		if s.IsTerminal() {
			assert.Empty(t, p.Options(), s)
		} else {
			assert.NotEmpty(t, p.Options(), s)
		}
	}
}

func TestPresenter_ProposeSuccess(t *testing.T) {
	commit, calls := recorder(nil)
	p := NewPresenter(vo.ApplicationStatusReviewing, commit)

	p.Select(vo.ApplicationStatusShortlisted)
	p.SetFeedback("Strong candidate")
	assert.True(t, p.FeedbackRequired())

	require.NoError(t, p.Propose(context.Background()))
	assert.Equal(t, []commitCall{{vo.ApplicationStatusShortlisted, "Strong candidate"}}, *calls)

	assert.Equal(t, vo.ApplicationStatusShortlisted, p.Current())
	assert.Empty(t, p.Target())
	assert.Empty(t, p.Feedback())

	states := make([]vo.ApplicationStatus, 0)
	for _, e := range p.Options() {
		states = append(states, e.State)
	}
	assert.Equal(t, []vo.ApplicationStatus{vo.ApplicationStatusInterviewed, vo.ApplicationStatusRejected}, states)
}

func TestPresenter_ValidationDoesNotCommit(t *testing.T) {
	commit, calls := recorder(nil)
	p := NewPresenter(vo.ApplicationStatusPending, commit)

	assert.ErrorIs(t, p.Propose(context.Background()), ErrNoTargetSelected)

	p.Select(vo.ApplicationStatusShortlisted)
	assert.ErrorIs(t, p.Propose(context.Background()), ErrIllegalTransition)

	assert.Empty(t, *calls)
	assert.Equal(t, vo.ApplicationStatusPending, p.Current())
	assert.Equal(t, vo.ApplicationStatusShortlisted, p.Target())
}

func TestPresenter_CommitRejected(t *testing.T) {
	commit, calls := recorder(errors.New("отклик уже изменён"))
	p := NewPresenter(vo.ApplicationStatusInterviewed, commit)
	p.Select(vo.ApplicationStatusRejected)
	p.SetFeedback("Не подходит по опыту")

	err := p.Propose(context.Background())
	var failed *CommitFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "отклик уже изменён", failed.Message)
	assert.Equal(t, "отклик уже изменён", DisplayMessage(err))
	assert.Len(t, *calls, 1)

	assert.Equal(t, vo.ApplicationStatusInterviewed, p.Current())
	assert.Equal(t, vo.ApplicationStatusRejected, p.Target())
	assert.Equal(t, "Не подходит по опыту", p.Feedback())
}

func TestPresenter_Progress(t *testing.T) {
	p := NewPresenter(vo.ApplicationStatusRejected, nil)
	progress := p.Progress()
	assert.True(t, progress.Rejected)
	for _, step := range progress.Steps {
		assert.False(t, step.Completed)
		assert.NotEqual(t, vo.ApplicationStatusRejected, step.State)
	}
}

func TestDisplayMessage(t *testing.T) {
	assert.Empty(t, DisplayMessage(nil))
	assert.Equal(t, "Выберите новый статус", DisplayMessage(ErrNoTargetSelected))
	assert.Equal(t, "Переход в выбранный статус недоступен", DisplayMessage(Validate(vo.ApplicationStatusPending, vo.ApplicationStatusOffered, "")))
	assert.Equal(t, "Для этого статуса нужен комментарий", DisplayMessage(ErrFeedbackRequired))
	assert.Equal(t, "Неизвестный статус отклика", DisplayMessage(vo.ErrUnknownStatus))
	assert.Equal(t, "Некорректный размер страницы", DisplayMessage(pagination.ErrInvalidPageSize))
	assert.NotEmpty(t, DisplayMessage(errors.New("boom")))
}

type fakeUpdater struct {
	err    error
	gotID  uuid.UUID
	status vo.ApplicationStatus
}

func (f *fakeUpdater) UpdateApplicationStatus(ctx context.Context, id uuid.UUID, status vo.ApplicationStatus, feedback string) (*models.ApplicationDetails, error) {
	f.gotID = id
	f.status = status
	if f.err != nil {
		return nil, f.err
	}
	return &models.ApplicationDetails{}, nil
}

func TestCommitFor(t *testing.T) {
	id := uuid.New()
	updater := &fakeUpdater{}
	commit := CommitFor(updater, id)

	require.NoError(t, commit(context.Background(), vo.ApplicationStatusOffered, "Оффер отправлен"))
	assert.Equal(t, id, updater.gotID)
	assert.Equal(t, vo.ApplicationStatusOffered, updater.status)

	updater.err = &api.Error{StatusCode: http.StatusConflict, Message: "недопустимый переход статуса"}
	err := commit(context.Background(), vo.ApplicationStatusOffered, "x")
	var failed *CommitFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, "недопустимый переход статуса", failed.Message)
	assert.True(t, api.IsStatus(err, http.StatusConflict))
}
