package service

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/jobportal-backend/internal/domain/valueobject"
	"github.com/ignatzorin/jobportal-backend/internal/logger"
	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/pkg/apperror"
	"github.com/ignatzorin/jobportal-backend/internal/repository"
	"github.com/ignatzorin/jobportal-backend/internal/storage"
	"github.com/ignatzorin/jobportal-backend/internal/validation"
)

// События уведомлений об откликах.
const (
	EventApplicationSubmitted     = "application_submitted"
	EventApplicationStatusChanged = "application_status_changed"
	EventApplicationAcknowledged  = "application_acknowledged"
)

// AcknowledgeMessage - комментарий, который сохраняется при подтверждении отклика.
const AcknowledgeMessage = "Your application has been received and is being reviewed."

// ApplicationRepository описывает хранилище откликов.
type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	Exists(ctx context.Context, jobID, applicantID uuid.UUID) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.ApplicationDetails, error)
	ListByApplicant(ctx context.Context, applicantID uuid.UUID) ([]models.ApplicationDetails, error)
	ListByJob(ctx context.Context, jobID uuid.UUID) ([]models.ApplicationDetails, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to valueobject.ApplicationStatus, feedback *string, changedBy uuid.UUID) (*models.Application, error)
	MarkAcknowledged(ctx context.Context, id uuid.UUID, message string, changedBy uuid.UUID) (*models.Application, error)
	History(ctx context.Context, id uuid.UUID) ([]models.StatusHistoryEntry, error)
}

// JobReader читает вакансии.
type JobReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Job, error)
}

// UserReader читает пользователей.
type UserReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Notifier создаёт уведомления пользователям.
type Notifier interface {
	Notify(ctx context.Context, userID uuid.UUID, category, event string, data interface{}) (*models.Notification, error)
}

// Actor - пользователь, выполняющий действие.
type Actor struct {
	UserID uuid.UUID
	Role   string
}

// IsAdmin сообщает, является ли пользователь администратором.
func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// ResumeUpload - загружаемый файл резюме.
type ResumeUpload struct {
	Name    string
	Content io.Reader
}

// SubmitApplicationInput - данные нового отклика.
type SubmitApplicationInput struct {
	JobID       uuid.UUID
	CoverLetter string
	Resume      *ResumeUpload
}

// StatusUpdateInput - запрос на смену статуса.
type StatusUpdateInput struct {
	Status   string `json:"status"`
	Feedback string `json:"feedback"`
}

// ResumeFile - открытый файл резюме. Body закрывает вызывающий.
type ResumeFile struct {
	Body        io.ReadCloser
	Name        string
	ContentType string
}

// ApplicationService содержит бизнес-логику откликов.
type ApplicationService struct {
	repo     ApplicationRepository
	jobs     JobReader
	users    UserReader
	files    storage.FileStore
	mailer   Mailer
	notifier Notifier
	cache    *CacheService
	log      *logrus.Entry
}

// NewApplicationService создаёт сервис откликов. cache может быть nil.
func NewApplicationService(
	repo ApplicationRepository,
	jobs JobReader,
	users UserReader,
	files storage.FileStore,
	mailer Mailer,
	notifier Notifier,
	cache *CacheService,
) *ApplicationService {
	return &ApplicationService{
		repo:     repo,
		jobs:     jobs,
		users:    users,
		files:    files,
		mailer:   mailer,
		notifier: notifier,
		cache:    cache,
		log:      logger.Component("applications"),
	}
}

// Submit создаёт отклик соискателя на активную вакансию.
func (s *ApplicationService) Submit(ctx context.Context, actor Actor, in SubmitApplicationInput) (*models.ApplicationDetails, error) {
	if actor.Role != models.RoleJobSeeker {
		return nil, apperror.ErrForbidden
	}

	coverLetter := strings.TrimSpace(in.CoverLetter)
	if err := validation.ValidateLength("сопроводительное письмо", coverLetter, 0, validation.MaxCoverLetterLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	job, err := s.jobs.GetByID(ctx, in.JobID)
	if err != nil {
		return nil, mapJobErr(err)
	}
	if !job.Active || (job.Deadline != nil && time.Now().After(*job.Deadline)) {
		return nil, apperror.ErrJobClosed
	}

	exists, err := s.repo.Exists(ctx, job.ID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.ErrAlreadyApplied
	}

	applicant, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, err
	}

	app := &models.Application{
		JobID:       job.ID,
		ApplicantID: actor.UserID,
		CoverLetter: trimmedOrNil(&coverLetter),
		Status:      valueobject.ApplicationStatusPending,
	}

	if in.Resume != nil {
		key, name, err := s.saveResume(ctx, actor.UserID, in.Resume)
		if err != nil {
			return nil, err
		}
		app.ResumeKey = &key
		app.ResumeName = &name
	}

	if err := s.repo.Create(ctx, app); err != nil {
		if app.HasResume() {
			s.dropFile(ctx, *app.ResumeKey)
		}
		if errors.Is(err, repository.ErrAlreadyApplied) {
			return nil, apperror.ErrAlreadyApplied
		}
		return nil, err
	}

	details := &models.ApplicationDetails{
		Application:    *app,
		JobTitle:       job.Title,
		Company:        job.Company,
		EmployerID:     job.EmployerID,
		ApplicantName:  applicant.Name,
		ApplicantEmail: applicant.Email,
	}

	sendAsync(ctx, s.mailer, ApplicationReceivedLetter(s.letterData(ctx, details)))
	s.notify(ctx, job.EmployerID, EventApplicationSubmitted, map[string]interface{}{
		"application_id": app.ID,
		"job_id":         job.ID,
		"job_title":      job.Title,
		"applicant_name": applicant.Name,
	})
	s.invalidate(job.EmployerID, actor.UserID)

	return details, nil
}

func (s *ApplicationService) saveResume(ctx context.Context, owner uuid.UUID, upload *ResumeUpload) (string, string, error) {
	detected, err := storage.Sniff(upload.Content, storage.ResumeTypes)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return "", "", apperror.ErrUnsupportedFileType.WithCause(err)
		}
		return "", "", err
	}

	name := resumeName(upload.Name, detected.Extension)
	key, _, err := s.files.Save(ctx, owner, name, detected.MIME, detected.Reader)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return "", "", apperror.Wrap(err, apperror.ErrCodeValidation, "размер файла превышает лимит")
		}
		return "", "", err
	}
	return key, name, nil
}

// resumeName строит имя для хранения. Расширение берётся из определённого типа, а не из имени клиента.
func resumeName(original, ext string) string {
	name := strings.TrimSpace(filepath.Base(strings.ReplaceAll(original, `\`, "/")))
	name = strings.TrimSuffix(name, filepath.Ext(name))
	if name == "" || name == "." || name == "/" {
		name = "resume"
	}
	if len(name) > 200 {
		name = name[:200]
	}
	if ext != "" {
		name += "." + ext
	}
	return name
}

// ListMine возвращает отклики соискателя.
func (s *ApplicationService) ListMine(ctx context.Context, actor Actor) ([]models.ApplicationDetails, error) {
	return s.repo.ListByApplicant(ctx, actor.UserID)
}

// ListForJob возвращает отклики на вакансию. Доступно владельцу вакансии и администратору.
func (s *ApplicationService) ListForJob(ctx context.Context, actor Actor, jobID uuid.UUID) ([]models.ApplicationDetails, error) {
	job, err := s.jobs.GetByID(ctx, jobID)
	if err != nil {
		return nil, mapJobErr(err)
	}
	if job.EmployerID != actor.UserID && !actor.IsAdmin() {
		return nil, apperror.ErrForbidden
	}
	return s.repo.ListByJob(ctx, jobID)
}

// Get возвращает отклик. Доступно соискателю, владельцу вакансии и администратору.
func (s *ApplicationService) Get(ctx context.Context, actor Actor, id uuid.UUID) (*models.ApplicationDetails, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(actor, app) {
		return nil, apperror.ErrForbidden
	}
	return app, nil
}

// UpdateStatus переводит отклик в новый статус по таблице переходов.
func (s *ApplicationService) UpdateStatus(ctx context.Context, actor Actor, id uuid.UUID, in StatusUpdateInput) (*models.ApplicationDetails, error) {
	next, err := valueobject.ParseApplicationStatus(in.Status)
	if err != nil {
		return nil, err
	}

	feedback := strings.TrimSpace(in.Feedback)
	if err := validation.ValidateLength("комментарий", feedback, 0, validation.MaxFeedbackLength); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.EmployerID != actor.UserID {
		return nil, apperror.ErrForbidden
	}

	if err := valueobject.ValidateTransition(app.Status, next, feedback); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateStatus(ctx, app.ID, app.Status, next, trimmedOrNil(&feedback), actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			return nil, apperror.ErrInvalidTransition.WithCause(err)
		}
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"application_id": app.ID,
		"from":           app.Status,
		"to":             next,
	}).Info("статус отклика изменён")

	app.Application = *updated

	sendAsync(ctx, s.mailer, StatusUpdateLetter(s.letterData(ctx, app), next, feedback))
	s.notify(ctx, app.ApplicantID, EventApplicationStatusChanged, map[string]interface{}{
		"application_id": app.ID,
		"job_title":      app.JobTitle,
		"company":        app.Company,
		"status":         next,
		"label":          next.Label(),
		"feedback":       feedback,
	})
	s.invalidate(app.EmployerID, app.ApplicantID)

	return app, nil
}

// Acknowledge отправляет соискателю подтверждение и переводит PENDING в REVIEWING.
// Повторное подтверждение ничего не меняет.
func (s *ApplicationService) Acknowledge(ctx context.Context, actor Actor, id uuid.UUID) (*models.ApplicationDetails, error) {
	app, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.EmployerID != actor.UserID {
		return nil, apperror.ErrForbidden
	}
	if app.Acknowledged {
		return app, nil
	}

	updated, err := s.repo.MarkAcknowledged(ctx, app.ID, AcknowledgeMessage, actor.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, err
	}
	app.Application = *updated

	sendAsync(ctx, s.mailer, AcknowledgementLetter(s.letterData(ctx, app)))
	s.notify(ctx, app.ApplicantID, EventApplicationAcknowledged, map[string]interface{}{
		"application_id": app.ID,
		"job_title":      app.JobTitle,
		"company":        app.Company,
		"status":         app.Status,
		"label":          app.Status.Label(),
	})
	s.invalidate(app.EmployerID, app.ApplicantID)

	return app, nil
}

// StatusHistory возвращает текущий статус, прогресс и историю переходов.
func (s *ApplicationService) StatusHistory(ctx context.Context, actor Actor, id uuid.UUID) (*models.ApplicationStatusHistory, error) {
	app, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	history, err := s.repo.History(ctx, id)
	if err != nil {
		return nil, err
	}

	return &models.ApplicationStatusHistory{
		ApplicationID: app.ID,
		CurrentStatus: app.Status,
		LastUpdated:   app.UpdatedAt,
		Feedback:      app.Feedback,
		Progress:      valueobject.ProgressOf(app.Status),
		History:       history,
	}, nil
}

// OpenResume открывает резюме отклика для чтения.
func (s *ApplicationService) OpenResume(ctx context.Context, actor Actor, id uuid.UUID) (*ResumeFile, error) {
	app, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if !app.HasResume() {
		return nil, apperror.ErrResumeNotFound
	}

	body, err := s.files.Open(ctx, *app.ResumeKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperror.ErrResumeNotFound.WithCause(err)
		}
		return nil, err
	}

	contentType, content, err := storage.DetectContentType(body, storage.ResumeTypes)
	if err != nil {
		_ = body.Close()
		return nil, err
	}

	name := "resume"
	if app.ResumeName != nil {
		name = *app.ResumeName
	}
	return &ResumeFile{
		Body:        readCloser{Reader: content, Closer: body},
		Name:        name,
		ContentType: contentType,
	}, nil
}

type readCloser struct {
	io.Reader
	io.Closer
}

func (s *ApplicationService) load(ctx context.Context, id uuid.UUID) (*models.ApplicationDetails, error) {
	app, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, apperror.ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}

func canView(actor Actor, app *models.ApplicationDetails) bool {
	return actor.IsAdmin() || app.ApplicantID == actor.UserID || app.EmployerID == actor.UserID
}

func (s *ApplicationService) letterData(ctx context.Context, app *models.ApplicationDetails) ApplicationLetterData {
	employerName := app.Company
	if employer, err := s.users.GetByID(ctx, app.EmployerID); err == nil {
		employerName = employer.Name
	}

	return ApplicationLetterData{
		ApplicantName:  app.ApplicantName,
		ApplicantEmail: app.ApplicantEmail,
		JobTitle:       app.JobTitle,
		Company:        app.Company,
		EmployerName:   employerName,
	}
}

func (s *ApplicationService) notify(ctx context.Context, userID uuid.UUID, event string, data map[string]interface{}) {
	if s.notifier == nil {
		return
	}
	if _, err := s.notifier.Notify(ctx, userID, models.NotificationCategoryApplications, event, data); err != nil {
		s.log.WithError(err).WithField("user_id", userID).Warn("не удалось создать уведомление")
	}
}

func (s *ApplicationService) dropFile(ctx context.Context, key string) {
	if err := s.files.Delete(ctx, key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		s.log.WithError(err).WithField("key", key).Warn("не удалось удалить файл")
	}
}

func (s *ApplicationService) invalidate(userIDs ...uuid.UUID) {
	if s.cache == nil {
		return
	}
	for _, id := range userIDs {
		s.cache.InvalidateUserCache(id)
	}
	s.cache.InvalidateAdminCache()
}
