package services

import "ecommerce-service/errs"

// maxPageSize caps the page size accepted by any list endpoint.
const maxPageSize = 100

// validatePaging rejects out-of-range paging parameters before any query
// runs. Pages are zero-based.
func validatePaging(page, size, maxSize int) error {
	if page < 0 {
		return errs.Validation("page must not be negative, got %d", page)
	}
	if size < 1 {
		return errs.Validation("page size must be at least 1, got %d", size)
	}
	if size > maxSize {
		return errs.Validation("page size must not exceed %d, got %d", maxSize, size)
	}
	return nil
}
