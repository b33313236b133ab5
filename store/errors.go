package store

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

var (
	// ErrNotFound: the requested row does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrCustomerNotFound: an order referenced a customer id with no row.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrNoItems: an order was submitted without line items.
	ErrNoItems = errors.New("order must contain at least one item")
	// ErrDuplicateName: a product name collided with an existing one.
	ErrDuplicateName = errors.New("name already in use")
	// ErrInUse: a delete was blocked because orders still reference the row.
	ErrInUse = errors.New("record is referenced by existing orders")
	// ErrOrderNotSaved: the order transaction failed and was rolled back.
	ErrOrderNotSaved = errors.New("order not saved")
)

// ValidationError reports a single invalid input field, caught before the
// statement reaches the database.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var validate = validator.New()

func validateInput(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &ValidationError{Field: fe.Field(), Reason: fe.Tag()}
	}
	return err
}

// mapError translates driver-level failures into the typed conditions the
// presentation layer renders: unique-constraint hits become ErrDuplicateName,
// foreign-key hits become ErrInUse, gorm's not-found becomes ErrNotFound.
// Everything else passes through unchanged.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.ExtendedCode {
		case sqlite3.ErrConstraintUnique:
			return fmt.Errorf("%w: %v", ErrDuplicateName, err)
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %v", ErrInUse, err)
		}
	}
	return err
}
