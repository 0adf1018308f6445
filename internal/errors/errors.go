package gerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSchemaIncompatible is returned when a required table or column is absent
	// after every admissible name has been probed.
	ErrSchemaIncompatible = errors.New("schema incompatible")
	// ErrInvalidPage is returned for page < 1 or a page size out of range.
	ErrInvalidPage = errors.New("invalid page")
	// ErrNotAuthorizedOrNotFound covers both a missing product and a product owned
	// by another business. The two cases are never distinguished.
	ErrNotAuthorizedOrNotFound = errors.New("not authorized or not found")
	// ErrStorageUnavailable wraps connection and query failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
	// ErrInvalidProduct is returned when product fields fail validation.
	ErrInvalidProduct = errors.New("invalid product")
)

// SchemaError names the table and logical field that could not be resolved.
type SchemaError struct {
	Table      string
	Field      string
	Candidates []string
}

func (e *SchemaError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("schema incompatible: table %s is missing", e.Table)
	}
	return fmt.Sprintf("schema incompatible: table %s has none of [%s] for %s",
		e.Table, strings.Join(e.Candidates, ", "), e.Field)
}

func (e *SchemaError) Unwrap() error {
	return ErrSchemaIncompatible
}

type storageError struct {
	cause error
}

func (e *storageError) Error() string {
	return fmt.Sprintf("%s: %s", ErrStorageUnavailable, e.cause)
}

func (e *storageError) Is(target error) bool {
	return target == ErrStorageUnavailable
}

func (e *storageError) Unwrap() error {
	return e.cause
}

// StorageError marks err as a storage failure while keeping it unwrappable.
// Errors that already belong to the taxonomy are returned unchanged.
func StorageError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrStorageUnavailable) ||
		errors.Is(err, ErrSchemaIncompatible) ||
		errors.Is(err, ErrNotAuthorizedOrNotFound) ||
		errors.Is(err, ErrInvalidPage) ||
		errors.Is(err, ErrInvalidProduct) {
		return err
	}
	return &storageError{cause: err}
}

// InvalidProduct wraps a validation message into ErrInvalidProduct.
func InvalidProduct(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidProduct, msg)
}
