package repository

import (
	"errors"
	"fmt"

	"github.com/yeremiapane/restaurant-hub/utils"
	"gorm.io/gorm"
)

// wrap turns gorm failures into the shared error taxonomy. Missing rows become ErrNotFound, unique key
// violations ErrConflict, and any other failure is tagged ErrStorage. Duplicate keys are only recognised
// on connections opened with TranslateError.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", op, utils.ErrNotFound)
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", op, utils.ErrConflict)
	}
	return fmt.Errorf("%s: %w: %v", op, utils.ErrStorage, err)
}
