// Package pagination режет список на страницы фиксированного размера.
package pagination

import (
	"errors"
	"sync"
)

// ErrInvalidPageSize возвращается при размере страницы меньше единицы.
var ErrInvalidPageSize = errors.New("pagination: размер страницы должен быть положительным")

// Page - одна страница списка.
type Page[T any] struct {
	Items       []T `json:"items"`
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalItems  int `json:"totalItems"`
	PerPage     int `json:"perPage"`
}

// TotalPages возвращает ceil(total/perPage).
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Clamp приводит номер страницы к [1, max(1, totalPages)].
func Clamp(page, totalPages int) int {
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		return 1
	}
	if page > totalPages {
		return totalPages
	}
	return page
}

// Paginate возвращает страницу page. Номер страницы вне диапазона молча приводится к допустимому.
func Paginate[T any](items []T, perPage, page int) (Page[T], error) {
	if perPage <= 0 {
		return Page[T]{}, ErrInvalidPageSize
	}

	total := len(items)
	totalPages := TotalPages(total, perPage)
	current := Clamp(page, totalPages)

	start := (current - 1) * perPage
	end := start + perPage
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page[T]{
		Items:       items[start:end:end],
		CurrentPage: current,
		TotalPages:  totalPages,
		TotalItems:  total,
		PerPage:     perPage,
	}, nil
}

// State хранит состояние постраничного просмотра одного списка.
// onChange вызывается после каждой смены страницы (например, чтобы прокрутить вывод к началу).
type State[T any] struct {
	mu       sync.Mutex
	items    []T
	perPage  int
	page     int
	onChange func(Page[T])
}

// New создаёт состояние на первой странице.
func New[T any](items []T, perPage int, onChange func(Page[T])) (*State[T], error) {
	if perPage <= 0 {
		return nil, ErrInvalidPageSize
	}
	return &State[T]{items: items, perPage: perPage, page: 1, onChange: onChange}, nil
}

// Current возвращает текущую страницу.
func (s *State[T]) Current() Page[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked()
}

// ChangePage переключает страницу и вызывает onChange.
func (s *State[T]) ChangePage(n int) Page[T] {
	s.mu.Lock()
	s.page = Clamp(n, TotalPages(len(s.items), s.perPage))
	p := s.currentLocked()
	hook := s.onChange
	s.mu.Unlock()

	if hook != nil {
		hook(p)
	}
	return p
}

// SetItems заменяет список, текущая страница остаётся в допустимом диапазоне.
func (s *State[T]) SetItems(items []T) Page[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = items
	s.page = Clamp(s.page, TotalPages(len(items), s.perPage))
	return s.currentLocked()
}

func (s *State[T]) currentLocked() Page[T] {
	// perPage проверен в New, ошибка невозможна.
	p, _ := Paginate(s.items, s.perPage, s.page)
	return p
}
