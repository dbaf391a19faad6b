package domain

import "github.com/juju/errors"

const DefaultPageSize = 20

// PageRequest selects one zero-based page of results sorted ascending by SortField.
type PageRequest struct {
	Page      int
	Size      int
	SortField string
}

// Page is one slice of a larger result set.
type Page[T any] struct {
	Items []T
	Page  int
	Size  int
	Total int64
}

// Validate returns an error if the page coordinates are unusable
func (p PageRequest) Validate() error {
	if p.Page < 0 {
		return errors.NotValidf("page %d", p.Page)
	}
	if p.Size <= 0 {
		return errors.NotValidf("page size %d", p.Size)
	}
	return nil
}

// Offset returns the number of rows to skip
func (p PageRequest) Offset() int {
	return p.Page * p.Size
}

// TotalPages returns how many pages of this size cover the result set
func (p Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}
