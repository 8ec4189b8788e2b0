// Package paging carries zero-based page requests between transport and repositories.
package paging

import (
	"errors"
	"math"
)

// ErrInvalidPage signals a negative page number or a non-positive page size.
var ErrInvalidPage = errors.New("page number must be >= 0 and page size must be >= 1")

// Request selects one zero-based page of a stably ordered result set.
type Request struct {
	Number int
	Size   int
}

// New builds a page request from optional parameters. A nil result means the
// caller asked for the complete, unpaginated set.
func New(number, size *int32) (*Request, error) {
	if number == nil || size == nil {
		return nil, nil
	}
	if *number < 0 || *size < 1 {
		return nil, ErrInvalidPage
	}
	return &Request{Number: int(*number), Size: int(*size)}, nil
}

// WithDefaults is like New but falls back to the given defaults for missing values.
func WithDefaults(number, size *int32, defaultNumber, defaultSize int32) (*Request, error) {
	if number == nil {
		number = &defaultNumber
	}
	if size == nil {
		size = &defaultSize
	}
	return New(number, size)
}

// Offset is the number of rows skipped before the page starts.
func (r *Request) Offset() int {
	if r == nil {
		return 0
	}
	return r.Number * r.Size
}

// Slice returns the portion of items covered by the request.
func Slice[T any](items []T, req *Request) []T {
	if req == nil {
		return items
	}
	start := req.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + req.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Page is a slice of results together with totals for the whole set.
type Page[T any] struct {
	Items         []T
	Number        int
	Size          int
	TotalElements int64
}

// TotalPages reports how many pages of Size cover TotalElements.
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int(math.Ceil(float64(p.TotalElements) / float64(p.Size)))
}
