package utils

import "errors"

var (
	// ErrInvalidPage is returned when the page number or size is below one
	ErrInvalidPage = errors.New("page number and page size must be greater than zero")
	// ErrPageOutOfRange is returned when the page number exceeds the total page count
	ErrPageOutOfRange = errors.New("page number exceeds total pages")
)

// TotalPages returns ceil(total/pageSize), or 0 when pageSize is not positive
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	size := int64(pageSize)
	pages := total / size
	if total%size != 0 {
		pages++ // Partial last page
	}
	return int(pages)
}

// CheckPage validates a page request against the number of available items
// and returns the total number of pages.
func CheckPage(pageNumber, pageSize int, total int64) (int, error) {
	if pageNumber <= 0 || pageSize <= 0 {
		return 0, ErrInvalidPage
	}
	totalPages := TotalPages(total, pageSize)
	if pageNumber > totalPages {
		return totalPages, ErrPageOutOfRange
	}
	return totalPages, nil
}
