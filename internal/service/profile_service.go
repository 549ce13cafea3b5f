package service

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"

	"github.com/ignatzorin/jobportal-backend/internal/logger"
	"github.com/ignatzorin/jobportal-backend/internal/models"
	"github.com/ignatzorin/jobportal-backend/internal/pkg/apperror"
	"github.com/ignatzorin/jobportal-backend/internal/repository"
	"github.com/ignatzorin/jobportal-backend/internal/storage"
	"github.com/ignatzorin/jobportal-backend/internal/validation"
)

// ProfileRepository описывает хранилище профилей работодателей.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.EmployerProfile, error)
	Upsert(ctx context.Context, profile *models.EmployerProfile) error
	SetImage(ctx context.Context, userID uuid.UUID, kind, key string) (*string, error)
}

// ProfileInput - редактируемые поля профиля работодателя.
type ProfileInput struct {
	Phone       *string `json:"phone"`
	Location    *string `json:"location"`
	Bio         *string `json:"bio"`
	Experience  *string `json:"experience"`
	CompanySize *string `json:"company_size"`
	Industry    *string `json:"industry"`
	Website     *string `json:"website"`
}

// ProfileService управляет профилем работодателя.
type ProfileService struct {
	repo  ProfileRepository
	files storage.FileStore
}

// NewProfileService создаёт сервис профилей.
func NewProfileService(repo ProfileRepository, files storage.FileStore) *ProfileService {
	return &ProfileService{repo: repo, files: files}
}

// Get возвращает профиль, создавая пустой при первом обращении.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*models.EmployerProfile, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, repository.ErrProfileNotFound) {
		return nil, err
	}

	profile = &models.EmployerProfile{UserID: userID}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// Update сохраняет текстовые поля профиля.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, in ProfileInput) (*models.EmployerProfile, error) {
	checks := []error{
		validation.ValidateOptionalLength("телефон", in.Phone, 32),
		validation.ValidateOptionalLength("локация", in.Location, validation.MaxLocationLength),
		validation.ValidateOptionalLength("о компании", in.Bio, validation.MaxBioLength),
		validation.ValidateOptionalLength("опыт", in.Experience, validation.MaxExperienceLength),
		validation.ValidateOptionalLength("размер компании", in.CompanySize, 50),
		validation.ValidateOptionalLength("отрасль", in.Industry, 100),
		validation.ValidateWebsite(in.Website),
	}
	for _, err := range checks {
		if err != nil {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
		}
	}

	profile := &models.EmployerProfile{
		UserID:      userID,
		Phone:       trimmedOrNil(in.Phone),
		Location:    trimmedOrNil(in.Location),
		Bio:         trimmedOrNil(in.Bio),
		Experience:  trimmedOrNil(in.Experience),
		CompanySize: trimmedOrNil(in.CompanySize),
		Industry:    trimmedOrNil(in.Industry),
		Website:     trimmedOrNil(in.Website),
	}
	if err := s.repo.Upsert(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

// UploadImage сохраняет аватар или логотип компании. Старое изображение удаляется.
func (s *ProfileService) UploadImage(ctx context.Context, userID uuid.UUID, kind, name string, content io.Reader) (*models.EmployerProfile, error) {
	kind = strings.ToLower(strings.TrimSpace(kind))
	if kind != repository.ProfileImageAvatar && kind != repository.ProfileImageLogo {
		return nil, apperror.New(apperror.ErrCodeValidation, "тип изображения должен быть avatar или logo")
	}

	detected, err := storage.Sniff(content, storage.ImageTypes)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedType) {
			return nil, apperror.ErrUnsupportedFileType.WithCause(err)
		}
		return nil, err
	}

	key, _, err := s.files.Save(ctx, userID, kind+"."+detected.Extension, detected.MIME, detected.Reader)
	if err != nil {
		if errors.Is(err, storage.ErrTooLarge) {
			return nil, apperror.Wrap(err, apperror.ErrCodeValidation, "размер файла превышает лимит")
		}
		return nil, err
	}

	previous, err := s.repo.SetImage(ctx, userID, kind, key)
	if err != nil {
		_ = s.files.Delete(ctx, key)
		return nil, err
	}
	if previous != nil && *previous != "" && *previous != key {
		if err := s.files.Delete(ctx, *previous); err != nil {
			logger.Component("profile").WithError(err).WithField("key", *previous).Warn("не удалось удалить старое изображение")
		}
	}

	return s.repo.GetByUserID(ctx, userID)
}

// OpenImage открывает изображение профиля для чтения.
func (s *ProfileService) OpenImage(ctx context.Context, userID uuid.UUID, kind string) (io.ReadCloser, error) {
	profile, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return nil, apperror.ErrProfileNotFound
		}
		return nil, err
	}

	key := profile.AvatarKey
	if strings.ToLower(kind) == repository.ProfileImageLogo {
		key = profile.CompanyLogoKey
	}
	if key == nil || *key == "" {
		return nil, apperror.New(apperror.ErrCodeNotFound, "изображение не загружено")
	}

	body, err := s.files.Open(ctx, *key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperror.Wrap(err, apperror.ErrCodeNotFound, "изображение не найдено")
		}
		return nil, err
	}
	return body, nil
}
