package product

import "errors"

var (
	// ErrProductNotFound signals that no product matches the id.
	ErrProductNotFound = errors.New("product not found")
	// ErrNoFiles is returned when a create request carries no images.
	ErrNoFiles = errors.New("no files were uploaded")
	// ErrInvalidPrice is returned when the price field does not parse as a
	// finite non-negative number.
	ErrInvalidPrice = errors.New("invalid price value")
	// ErrMissingField indicates a required product field was absent.
	ErrMissingField = errors.New("missing required field")
	// ErrFileTooLarge signals that an uploaded file exceeds the configured cap.
	ErrFileTooLarge = errors.New("file too large")
	// ErrStorageFailed aggregates blob store failures within one batch.
	ErrStorageFailed = errors.New("blob storage failed")
)
