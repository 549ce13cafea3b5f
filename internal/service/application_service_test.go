package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/jobportal-backend/internal/domain/valueobject"
	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/pkg/apperror"
	"github.com/ignatzorin/jobportal-backend/internal/repository"
	"github.com/ignatzorin/jobportal-backend/internal/storage"
)

// mockApplicationRepository хранит отклики в памяти и собирает детали из моков вакансий и пользователей.
type mockApplicationRepository struct {
	mu           sync.Mutex
	jobs         *mockJobRepository
	users        *mockAuthRepository
	apps         map[uuid.UUID]*models.Application
	history      map[uuid.UUID][]models.StatusHistoryEntry
	beforeUpdate func(id uuid.UUID)
}

func newMockApplicationRepository(jobs *mockJobRepository, users *mockAuthRepository) *mockApplicationRepository {
	return &mockApplicationRepository{
		jobs:    jobs,
		users:   users,
		apps:    make(map[uuid.UUID]*models.Application),
		history: make(map[uuid.UUID][]models.StatusHistoryEntry),
	}
}

func (m *mockApplicationRepository) addHistory(id uuid.UUID, from *valueobject.ApplicationStatus, to valueobject.ApplicationStatus, feedback *string, by uuid.UUID) {
	m.history[id] = append(m.history[id], models.StatusHistoryEntry{
		ID:            uuid.New(),
		ApplicationID: id,
		FromStatus:    from,
		ToStatus:      to,
		Feedback:      feedback,
		ChangedBy:     &by,
		CreatedAt:     time.Now(),
	})
}

func (m *mockApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.JobID == app.JobID && a.ApplicantID == app.ApplicantID {
			return repository.ErrAlreadyApplied
		}
	}
	app.ID = uuid.New()
	app.AppliedAt = time.Now()
	app.UpdatedAt = app.AppliedAt
	cp := *app
	m.apps[app.ID] = &cp
	m.addHistory(app.ID, nil, app.Status, nil, app.ApplicantID)
	return nil
}

func (m *mockApplicationRepository) Exists(ctx context.Context, jobID, applicantID uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, a := range m.apps {
		if a.JobID == jobID && a.ApplicantID == applicantID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockApplicationRepository) details(a *models.Application) models.ApplicationDetails {
	d := models.ApplicationDetails{Application: *a}
	if job, err := m.jobs.GetByID(context.Background(), a.JobID); err == nil {
		d.JobTitle = job.Title
		d.Company = job.Company
		d.EmployerID = job.EmployerID
	}
	if u, err := m.users.GetByID(context.Background(), a.ApplicantID); err == nil {
		d.ApplicantName = u.Name
		d.ApplicantEmail = u.Email
	}
	return d
}

func (m *mockApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ApplicationDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, repository.ErrApplicationNotFound
	}
	d := m.details(a)
	return &d, nil
}

func (m *mockApplicationRepository) listWhere(keep func(d models.ApplicationDetails) bool) []models.ApplicationDetails {
	out := []models.ApplicationDetails{}
	for _, a := range m.apps {
		if d := m.details(a); keep(d) {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, k int) bool { return out[i].AppliedAt.After(out[k].AppliedAt) })
	return out
}

func (m *mockApplicationRepository) ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.ApplicationDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listWhere(func(d models.ApplicationDetails) bool { return d.ApplicantID == applicantID }), nil
}

func (m *mockApplicationRepository) ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.ApplicationDetails, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listWhere(func(d models.ApplicationDetails) bool { return d.JobID == jobID }), nil
}

func (m *mockApplicationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to valueobject.ApplicationStatus, feedback *string, changedBy uuid.UUID) (*models.Application, error) {
	if m.beforeUpdate != nil {
		m.beforeUpdate(id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok || a.Status != from {
		return nil, repository.ErrStatusChanged
	}
	a.Status = to
	if feedback != nil {
		a.Feedback = feedback
	}
	a.UpdatedAt = time.Now()
	m.addHistory(id, &from, to, feedback, changedBy)
	cp := *a
	return &cp, nil
}

func (m *mockApplicationRepository) MarkAcknowledged(ctx context.Context, id uuid.UUID, message string, changedBy uuid.UUID) (*models.Application, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.apps[id]
	if !ok {
		return nil, repository.ErrApplicationNotFound
	}
	a.Acknowledged = true
	if a.Status == valueobject.ApplicationStatusPending {
		from := a.Status
		a.Status = valueobject.ApplicationStatusReviewing
		a.Feedback = &message
		m.addHistory(id, &from, a.Status, &message, changedBy)
	}
	cp := *a
	return &cp, nil
}

func (m *mockApplicationRepository) History(ctx context.Context, id uuid.UUID) ([]models.StatusHistoryEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.StatusHistoryEntry(nil), m.history[id]...), nil
}

type applicationFixture struct {
	svc       *ApplicationService
	apps      *mockApplicationRepository
	jobs      *mockJobRepository
	users     *mockAuthRepository
	notes     *mockNotificationRepository
	mailer    *mockMailer
	cache     *CacheService
	employer  Actor
	applicant Actor
	job       *models.Job
}

func newApplicationFixture(t *testing.T) *applicationFixture {
	t.Helper()

	users := newMockAuthRepository()
	jobs := newMockJobRepository()
	apps := newMockApplicationRepository(jobs, users)
	notes := newMockNotificationRepository()
	mailer := newMockMailer()
	cache := NewCacheService(0)
	t.Cleanup(cache.Stop)

	files, err := storage.NewDiskStore(t.TempDir(), 1)
	require.NoError(t, err)

	ctx := context.Background()
	employer := &models.User{Name: "John Smith", Email: "hr@acme.test", Role: models.RoleEmployer}
	require.NoError(t, users.Create(ctx, employer))
	applicant := &models.User{Name: "Jane Doe", Email: "jane@example.com", Role: models.RoleJobSeeker}
	require.NoError(t, users.Create(ctx, applicant))

	job := &models.Job{EmployerID: employer.ID, Title: "Go Developer", Company: "Acme", Type: models.JobTypeFullTime}
	require.NoError(t, jobs.Create(ctx, job))

	svc := NewApplicationService(apps, jobs, users, files, mailer, NewNotificationService(notes, nil), cache)

	return &applicationFixture{
		svc:       svc,
		apps:      apps,
		jobs:      jobs,
		users:     users,
		notes:     notes,
		mailer:    mailer,
		cache:     cache,
		employer:  Actor{UserID: employer.ID, Role: models.RoleEmployer},
		applicant: Actor{UserID: applicant.ID, Role: models.RoleJobSeeker},
		job:       job,
	}
}

func (f *applicationFixture) submit(t *testing.T) *models.ApplicationDetails {
	t.Helper()
	app, err := f.svc.Submit(context.Background(), f.applicant, SubmitApplicationInput{
		JobID:       f.job.ID,
		CoverLetter: "I love Go.",
		Resume:      &ResumeUpload{Name: "cv", Content: strings.NewReader("Jane Doe\nGo developer, 5 years.")},
	})
	require.NoError(t, err)
	f.waitLetter(t)
	return app
}

func (f *applicationFixture) waitLetter(t *testing.T) Letter {
	t.Helper()
	select {
	case l := <-f.mailer.sent:
		return l
	case <-time.After(2 * time.Second):
		t.Fatal("письмо не отправлено")
		return Letter{}
	}
}

func (f *applicationFixture) notificationsFor(userID uuid.UUID) int {
	f.notes.mu.Lock()
	defer f.notes.mu.Unlock()
	n := 0
	for _, item := range f.notes.items {
		if item.UserID == userID {
			n++
		}
	}
	return n
}

func TestApplicationService_Submit(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.applicant, SubmitApplicationInput{
		JobID:       f.job.ID,
		CoverLetter: "  I love Go. ",
		Resume:      &ResumeUpload{Name: `C:\docs\cv`, Content: strings.NewReader("plain text resume")},
	})
	require.NoError(t, err)

	assert.Equal(t, valueobject.ApplicationStatusPending, app.Status)
	assert.Equal(t, "I love Go.", *app.CoverLetter)
	assert.Equal(t, "cv.txt", *app.ResumeName)
	assert.Equal(t, "Go Developer", app.JobTitle)
	assert.Equal(t, f.employer.UserID, app.EmployerID)

	letter := f.waitLetter(t)
	assert.Equal(t, "Application Received - Go Developer", letter.Subject)
	assert.Equal(t, "jane@example.com", letter.To)
	assert.Equal(t, 1, f.notificationsFor(f.employer.UserID))

	_, err = f.svc.Submit(ctx, f.applicant, SubmitApplicationInput{JobID: f.job.ID})
	assert.ErrorIs(t, err, apperror.ErrAlreadyApplied)
}

func TestApplicationService_SubmitRejects(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	_, err := f.svc.Submit(ctx, f.employer, SubmitApplicationInput{JobID: f.job.ID})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = f.svc.Submit(ctx, f.applicant, SubmitApplicationInput{JobID: uuid.New()})
	assert.ErrorIs(t, err, apperror.ErrJobNotFound)

	png := "\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"
	_, err = f.svc.Submit(ctx, f.applicant, SubmitApplicationInput{
		JobID:  f.job.ID,
		Resume: &ResumeUpload{Name: "photo.png", Content: strings.NewReader(png)},
	})
	assert.ErrorIs(t, err, apperror.ErrUnsupportedFileType)

	require.NoError(t, f.jobs.Deactivate(ctx, f.job.ID))
	_, err = f.svc.Submit(ctx, f.applicant, SubmitApplicationInput{JobID: f.job.ID})
	assert.ErrorIs(t, err, apperror.ErrJobClosed)
}

func TestApplicationService_UpdateStatus(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()
	app := f.submit(t)

	_, err := f.svc.UpdateStatus(ctx, f.employer, app.ID, StatusUpdateInput{Status: "REVIEWING"})
	assert.ErrorIs(t, err, apperror.ErrFeedbackRequired)

	_, err = f.svc.UpdateStatus(ctx, f.employer, app.ID, StatusUpdateInput{Status: "ACCEPTED"})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)

	_, err = f.svc.UpdateStatus(ctx, f.employer, app.ID, StatusUpdateInput{Status: "HIRED"})
	assert.ErrorIs(t, err, valueobject.ErrUnknownStatus)

	_, err = f.svc.UpdateStatus(ctx, f.applicant, app.ID, StatusUpdateInput{Status: "REJECTED", Feedback: "no"})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	updated, err := f.svc.UpdateStatus(ctx, f.employer, app.ID, StatusUpdateInput{Status: "reviewing", Feedback: " Looks promising "})
	require.NoError(t, err)
	assert.Equal(t, valueobject.ApplicationStatusReviewing, updated.Status)
	assert.Equal(t, "Looks promising", *updated.Feedback)

	letter := f.waitLetter(t)
	assert.Equal(t, "Application Status Update - Go Developer at Acme", letter.Subject)
	assert.Contains(t, letter.Body, "Feedback from the employer:\nLooks promising")
	assert.Contains(t, letter.Body, "Best regards,\nJohn Smith\nAcme")
	assert.Equal(t, 1, f.notificationsFor(f.applicant.UserID))

	history, err := f.svc.StatusHistory(ctx, f.applicant, app.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ApplicationStatusReviewing, history.CurrentStatus)
	require.Len(t, history.History, 2)
	assert.Equal(t, valueobject.ApplicationStatusReviewing, history.History[1].ToStatus)
	assert.True(t, history.Progress.Steps[1].Active)
}

func TestApplicationService_UpdateStatusInvalidatesDashboards(t *testing.T) {
	f := newApplicationFixture(t)
	app := f.submit(t)

	f.cache.Set(EmployerDashboardCacheKey(f.employer.UserID, "stats"), 1, time.Minute)
	f.cache.Set(JobSeekerDashboardCacheKey(f.applicant.UserID, "stats"), 1, time.Minute)

	_, err := f.svc.UpdateStatus(context.Background(), f.employer, app.ID, StatusUpdateInput{Status: "REJECTED", Feedback: "Position filled"})
	require.NoError(t, err)

	_, ok := f.cache.Get(EmployerDashboardCacheKey(f.employer.UserID, "stats"))
	assert.False(t, ok)
	_, ok = f.cache.Get(JobSeekerDashboardCacheKey(f.applicant.UserID, "stats"))
	assert.False(t, ok)
}

func TestApplicationService_UpdateStatusStaleRead(t *testing.T) {
	f := newApplicationFixture(t)
	app := f.submit(t)

	// Другой запрос успевает отклонить отклик между чтением и записью.
	f.apps.beforeUpdate = func(id uuid.UUID) {
		f.apps.mu.Lock()
		f.apps.apps[id].Status = valueobject.ApplicationStatusRejected
		f.apps.mu.Unlock()
	}

	_, err := f.svc.UpdateStatus(context.Background(), f.employer, app.ID, StatusUpdateInput{Status: "REVIEWING", Feedback: "ok"})
	assert.ErrorIs(t, err, apperror.ErrInvalidTransition)
}

func TestApplicationService_Acknowledge(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()
	app := f.submit(t)

	_, err := f.svc.Acknowledge(ctx, f.applicant, app.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	acked, err := f.svc.Acknowledge(ctx, f.employer, app.ID)
	require.NoError(t, err)
	assert.True(t, acked.Acknowledged)
	assert.Equal(t, valueobject.ApplicationStatusReviewing, acked.Status)

	letter := f.waitLetter(t)
	assert.Contains(t, letter.Body, "our recruiting team will carefully review your qualifications")

	again, err := f.svc.Acknowledge(ctx, f.employer, app.ID)
	require.NoError(t, err)
	assert.Equal(t, valueobject.ApplicationStatusReviewing, again.Status)

	history, err := f.apps.History(ctx, app.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	select {
	case <-f.mailer.sent:
		t.Fatal("повторное подтверждение не должно отправлять письмо")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestApplicationService_AccessControl(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()
	app := f.submit(t)

	stranger := Actor{UserID: uuid.New(), Role: models.RoleJobSeeker}
	admin := Actor{UserID: uuid.New(), Role: models.RoleAdmin}

	_, err := f.svc.Get(ctx, stranger, app.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = f.svc.Get(ctx, admin, app.ID)
	assert.NoError(t, err)

	_, err = f.svc.ListForJob(ctx, stranger, f.job.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	list, err := f.svc.ListForJob(ctx, f.employer, f.job.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	mine, err := f.svc.ListMine(ctx, f.applicant)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	_, err = f.svc.OpenResume(ctx, stranger, app.ID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	resume, err := f.svc.OpenResume(ctx, f.employer, app.ID)
	require.NoError(t, err)
	defer resume.Body.Close()
	content, err := io.ReadAll(resume.Body)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe\nGo developer, 5 years.", string(content))
	assert.Equal(t, "cv.txt", resume.Name)
	assert.Equal(t, "text/plain; charset=utf-8", resume.ContentType)

	_, err = f.svc.Get(ctx, admin, uuid.New())
	assert.ErrorIs(t, err, apperror.ErrApplicationNotFound)
}

func TestResumeName(t *testing.T) {
	tests := []struct {
		original, ext, want string
	}{
		{"cv.exe", "txt", "cv.txt"},
		{"cv.pdf", "txt", "cv.txt"},
		{`C:\docs\резюме.docx`, "docx", "резюме.docx"},
		{"", "pdf", "resume.pdf"},
		{".pdf", "pdf", "resume.pdf"},
		{"cv", "rtf", "cv.rtf"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, resumeName(tt.original, tt.ext), tt.original)
	}
}

func TestApplicationService_SubmitRenamesBySniffedType(t *testing.T) {
	f := newApplicationFixture(t)
	ctx := context.Background()

	app, err := f.svc.Submit(ctx, f.applicant, SubmitApplicationInput{
		JobID:  f.job.ID,
		Resume: &ResumeUpload{Name: "cv.exe", Content: strings.NewReader("plain text resume")},
	})
	require.NoError(t, err)
	assert.Equal(t, "cv.txt", *app.ResumeName)

	resume, err := f.svc.OpenResume(ctx, f.employer, app.ID)
	require.NoError(t, err)
	defer resume.Body.Close()
	assert.Equal(t, "text/plain; charset=utf-8", resume.ContentType)
}
