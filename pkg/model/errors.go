package model

import (
	stderrors "errors"
	"strings"

	apperrors "github.com/goliatone/go-errors"
)

const (
	ErrCodeInvalidReference   = "INVALID_REFERENCE"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeInvalidField       = "INVALID_FIELD"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
)

var (
	// ErrInvalidReference marks a mutation naming a field or step that does
	// not exist where it must.
	ErrInvalidReference = apperrors.New("invalid reference", apperrors.CategoryBadInput).
				WithTextCode(ErrCodeInvalidReference)
	// ErrNotFound marks an update or removal targeting an absent id.
	ErrNotFound = apperrors.New("not found", apperrors.CategoryNotFound).
			WithTextCode(ErrCodeNotFound)
	// ErrInvalidField marks a field that cannot be admitted into a definition.
	ErrInvalidField = apperrors.New("invalid field", apperrors.CategoryValidation).
			WithTextCode(ErrCodeInvalidField)
	// ErrStorageUnavailable marks a persistence read or write failure.
	ErrStorageUnavailable = apperrors.New("storage unavailable", apperrors.CategoryExternal).
				WithTextCode(ErrCodeStorageUnavailable)
)

// NewError clones base with a specific message, optional source and metadata.
func NewError(base *apperrors.Error, message string, source error, metadata map[string]any) *apperrors.Error {
	if base == nil {
		base = ErrInvalidReference
	}
	err := base.Clone()
	if text := strings.TrimSpace(message); text != "" {
		err.Message = text
	}
	if source != nil {
		err.Source = source
	}
	if len(metadata) > 0 {
		err = err.WithMetadata(metadata)
	}
	return err
}

// ErrorCode extracts the text code from a go-errors error chain.
func ErrorCode(err error) string {
	var ge *apperrors.Error
	if stderrors.As(err, &ge) {
		return ge.TextCode
	}
	return ""
}

// HasCode reports whether err carries the given text code.
func HasCode(err error, code string) bool {
	return err != nil && ErrorCode(err) == code
}
