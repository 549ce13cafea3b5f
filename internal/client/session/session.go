// Package session хранит токены и данные вошедшего пользователя на стороне клиента.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
)

// Session - данные вошедшего пользователя.
type Session struct {
	UserID       uuid.UUID `json:"user_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
}

// Store - доступ к текущей сессии. ok=false, если пользователь не вошёл.
type Store interface {
	Get() (s Session, ok bool, err error)
	Set(s Session) error
	Clear() error
}

// MemoryStore держит сессию в памяти процесса.
type MemoryStore struct {
	mu      sync.RWMutex
	session *Session
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Get() (Session, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.session == nil {
		return Session{}, false, nil
	}
	return *m.session, true, nil
}

func (m *MemoryStore) Set(s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = &s
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.session = nil
	return nil
}

// fileData - содержимое файла сессии.
type fileData struct {
	Session   *Session    `json:"session,omitempty"`
	SavedJobs []uuid.UUID `json:"saved_jobs,omitempty"`
}

// FileStore хранит сессию и сохранённые вакансии в JSON файле.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore создаёт хранилище в файле path. Каталог создаётся при первой записи.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath возвращает путь к файлу сессии в пользовательском каталоге настроек.
func DefaultPath(app string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("session: не удалось определить каталог настроек: %w", err)
	}
	return filepath.Join(dir, app, "session.json"), nil
}

func (f *FileStore) Get() (Session, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return Session{}, false, err
	}
	if data.Session == nil {
		return Session{}, false, nil
	}
	return *data.Session, true, nil
}

func (f *FileStore) Set(s Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data.Session = &s
	return f.save(data)
}

// Clear удаляет сессию. Сохранённые вакансии остаются.
func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data.Session = nil
	return f.save(data)
}

// SavedJobs возвращает идентификаторы сохранённых вакансий в порядке добавления.
func (f *FileStore) SavedJobs() ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return nil, err
	}
	return append([]uuid.UUID(nil), data.SavedJobs...), nil
}

// ToggleSaved добавляет вакансию в сохранённые или убирает её оттуда.
// Возвращает true, если после вызова вакансия сохранена.
func (f *FileStore) ToggleSaved(jobID uuid.UUID) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return false, err
	}

	for i, id := range data.SavedJobs {
		if id == jobID {
			data.SavedJobs = append(data.SavedJobs[:i], data.SavedJobs[i+1:]...)
			return false, f.save(data)
		}
	}
	data.SavedJobs = append(data.SavedJobs, jobID)
	return true, f.save(data)
}

func (f *FileStore) load() (*fileData, error) {
	raw, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return &fileData{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: чтение %s: %w", f.path, err)
	}

	var data fileData
	if err := json.Unmarshal(raw, &data); err != nil {
		// Повреждённый файл равносилен отсутствию сессии.
		return &fileData{}, nil
	}
	return &data, nil
}

func (f *FileStore) save(data *fileData) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("session: создание каталога: %w", err)
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("session: сериализация: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("session: временный файл: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("session: запись: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("session: запись: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("session: запись: %w", err)
	}
	return nil
}
