package repositories

import (
	"errors"
	"fmt"

	"taskflow/internal/apperrors"

	"gorm.io/gorm"
)

// notFound folds gorm's sentinel into the domain one and wraps everything
// else with the operation name.
func notFound(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
