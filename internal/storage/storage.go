// Package storage хранит загруженные файлы: резюме и изображения профиля.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/h2non/filetype"
)

var (
	// ErrTooLarge возвращается, если файл превышает лимит размера.
	ErrTooLarge = errors.New("storage: размер файла превышает лимит")
	// ErrNotFound возвращается, если файла нет в хранилище.
	ErrNotFound = errors.New("storage: файл не найден")
	// ErrUnsupportedType возвращается, если тип файла не из разрешённого списка.
	ErrUnsupportedType = errors.New("storage: неподдерживаемый тип файла")
	// ErrInvalidKey возвращается для ключей вне хранилища.
	ErrInvalidKey = errors.New("storage: некорректный ключ")
)

// FileStore - хранилище файлов. Ключ возвращается из Save и сохраняется в БД.
type FileStore interface {
	Save(ctx context.Context, owner uuid.UUID, originalName, contentType string, r io.Reader) (key string, size int64, err error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Разрешённые типы резюме.
var ResumeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/rtf": true,
	"text/plain":      true,
}

// Разрешённые типы изображений профиля.
var ImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// sniffSize - сколько байт читаем для определения типа. docx распознаётся по содержимому zip.
const sniffSize = 8192

// Detected - результат определения типа файла.
type Detected struct {
	MIME      string
	Extension string
	// Reader отдаёт файл целиком, включая прочитанный заголовок.
	Reader io.Reader
}

// Sniff определяет тип по магическим байтам и проверяет его по allowed.
// Обычный текст не имеет сигнатуры, поэтому принимается только валидный UTF-8.
func Sniff(r io.Reader, allowed map[string]bool) (*Detected, error) {
	head, err := readHead(r)
	if err != nil {
		return nil, err
	}
	if len(head) == 0 {
		return nil, ErrUnsupportedType
	}

	d := &Detected{Reader: io.MultiReader(bytes.NewReader(head), r)}
	d.MIME, d.Extension = match(head)
	if d.MIME == "" {
		return nil, ErrUnsupportedType
	}
	if !allowed[d.MIME] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, d.MIME)
	}
	return d, nil
}

// DetectContentType определяет Content-Type сохранённого файла по содержимому.
// Типы вне allowed отдаются как application/octet-stream. Возвращённый reader отдаёт файл целиком.
func DetectContentType(r io.Reader, allowed map[string]bool) (string, io.Reader, error) {
	head, err := readHead(r)
	if err != nil {
		return "", nil, err
	}
	full := io.MultiReader(bytes.NewReader(head), r)

	mime, _ := match(head)
	switch {
	case mime == "" || !allowed[mime]:
		return "application/octet-stream", full, nil
	case mime == "text/plain":
		return "text/plain; charset=utf-8", full, nil
	default:
		return mime, full, nil
	}
}

func readHead(r io.Reader) ([]byte, error) {
	head := make([]byte, sniffSize)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("storage: не удалось прочитать файл: %w", err)
	}
	return head[:n], nil
}

// match возвращает MIME и расширение или пустые строки, если тип не распознан.
func match(head []byte) (mime, ext string) {
	if len(head) == 0 {
		return "", ""
	}
	if kind, _ := filetype.Match(head); kind != filetype.Unknown {
		return kind.MIME.Value, kind.Extension
	}
	if utf8.Valid(trimPartialRune(head)) && !bytes.ContainsRune(head, 0) {
		return "text/plain", "txt"
	}
	return "", ""
}

// trimPartialRune отрезает незавершённую последовательность UTF-8 на границе буфера.
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if utf8.Valid(b) {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

// BuildKey строит ключ вида <owner>/<unix_nano>_<name>.
func BuildKey(owner uuid.UUID, originalName string, now time.Time) string {
	return path.Join(owner.String(), fmt.Sprintf("%d_%s", now.UnixNano(), sanitizeFilename(originalName)))
}

// ValidateKey отсекает абсолютные пути и выход за пределы хранилища.
func ValidateKey(key string) error {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return ErrInvalidKey
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." || part == "" {
			return ErrInvalidKey
		}
	}
	return nil
}

// sanitizeFilename удаляет потенциально опасные символы.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "")
	name = strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == ' ' || r < 0x20:
			return '_'
		default:
			return r
		}
	}, name)
	if name == "" || name == "." {
		name = "file"
	}
	return name
}
