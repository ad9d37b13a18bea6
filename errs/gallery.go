package errs

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrPhotoNotFound = errors.New("photo not found")
	ErrNotInList     = errors.New("photo is not in the current list")
	ErrLightboxIndex = errors.New("lightbox index out of range")
)

func NewPhotoNotFoundError(id fmt.Stringer) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%w: %w", ErrPhotoNotFound, ErrNotFound),
		Details:    id.String(),
		Field:      "photoId",
	}
}

// NewNotInListError means the photo exists but the active filters hide it.
func NewNotInListError(id fmt.Stringer) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusNotFound,
		err:        fmt.Errorf("%w: %w", ErrNotInList, ErrNotFound),
		Details:    id.String(),
		Field:      "photoId",
	}
}

func NewLightboxIndexError(index, length int) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        ErrLightboxIndex,
		Details:    fmt.Sprintf("index %d outside [0,%d)", index, length),
		Field:      "index",
	}
}
