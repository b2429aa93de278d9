package pagination

import (
	"strconv"

	"gorm.io/gorm"
)

const DefaultSize = 10

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Items    []T
	Number   int
	NumPages int
	Size     int
	Total    int64
}

func (p *Page[T]) HasPrev() bool { return p.Number > 1 }
func (p *Page[T]) HasNext() bool { return p.Number < p.NumPages }
func (p *Page[T]) HasOther() bool { return p.NumPages > 1 }
func (p *Page[T]) PrevNumber() int { return p.Number - 1 }
func (p *Page[T]) NextNumber() int { return p.Number + 1 }
func (p *Page[T]) Offset() int { return (p.Number - 1) * p.Size }

// Resolve turns the raw ?page= value into a page number within [1, numPages].
// A value that is not an integer selects the first page; anything out of range
// selects the last one. An empty set still has one (empty) page.
func Resolve(raw string, total int64, size int) (number, numPages int) {
	if size < 1 {
		size = DefaultSize
	}
	numPages = int((total + int64(size) - 1) / int64(size))
	if numPages < 1 {
		numPages = 1
	}

	number, err := strconv.Atoi(raw)
	if err != nil {
		return 1, numPages
	}
	if number < 1 || number > numPages {
		return numPages, numPages
	}
	return number, numPages
}

// Paginate counts the rows matched by query and loads the requested page into
// a new Page. The query must already carry its ordering; preloads are applied
// to the page query only.
func Paginate[T any](query *gorm.DB, raw string, size int, preload ...string) (*Page[T], error) {
	if size < 1 {
		size = DefaultSize
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}

	number, numPages := Resolve(raw, total, size)
	page := &Page[T]{Number: number, NumPages: numPages, Size: size, Total: total}

	find := query.Session(&gorm.Session{})
	for _, assoc := range preload {
		find = find.Preload(assoc)
	}
	if err := find.Offset(page.Offset()).Limit(size).Find(&page.Items).Error; err != nil {
		return nil, err
	}
	return page, nil
}
