package repositories

import (
	"errors"
	"fmt"

	"volunteer-connect/internal/core/domain"

	"gorm.io/gorm"
)

// translate maps storage errors onto domain error kinds so services never
// see raw driver errors for missing rows or unique violations.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%w: record already exists", domain.ErrConflict)
	}
	return err
}
