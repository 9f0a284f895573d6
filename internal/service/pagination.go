package service

import (
	"strconv"
	"strings"
)

// PageSize is the fixed number of posts per feed page.
const PageSize = 10

// Pagination describes a clamped page window over a result set.
type Pagination struct {
	Number   int
	NumPages int
	PerPage  int
	Total    int64
}

// Paginate clamps the requested page into [1, NumPages]. An empty result
// set still has a single (empty) page.
func Paginate(total int64, requested, perPage int) Pagination {
	if perPage <= 0 {
		perPage = PageSize
	}
	if total < 0 {
		total = 0
	}

	numPages := 1
	if total > 0 {
		numPages = int((total + int64(perPage) - 1) / int64(perPage))
	}

	number := requested
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return Pagination{Number: number, NumPages: numPages, PerPage: perPage, Total: total}
}

// ParsePage converts a raw ?page= value. Missing or malformed values mean
// the first page; "last" selects the final page.
func ParsePage(raw string) int {
	trimmed := strings.TrimSpace(raw)
	if strings.EqualFold(trimmed, "last") {
		return int(^uint(0) >> 1)
	}
	page, err := strconv.Atoi(trimmed)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// Offset returns the row offset of the current page.
func (p Pagination) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p Pagination) HasPrevious() bool {
	return p.Number > 1
}

func (p Pagination) HasNext() bool {
	return p.Number < p.NumPages
}

func (p Pagination) PreviousNumber() int {
	if p.HasPrevious() {
		return p.Number - 1
	}
	return p.Number
}

func (p Pagination) NextNumber() int {
	if p.HasNext() {
		return p.Number + 1
	}
	return p.Number
}
