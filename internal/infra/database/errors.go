package database

import (
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/xavierca1/ligue-crm/internal/entity"
)

const (
	pqForeignKeyViolation = "23503"
	pqUniqueViolation     = "23505"
	pqInvalidTextRep      = "22P02"
)

var ErrDuplicate = errors.New("duplicate row")

// mapPQError translates the driver errors callers branch on.
func mapPQError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqForeignKeyViolation:
		return fmt.Errorf("%w (%s): %v", entity.ErrUnknownTenant, pqErr.Constraint, err)
	case pqUniqueViolation:
		return fmt.Errorf("%w (%s): %v", ErrDuplicate, pqErr.Constraint, err)
	case pqInvalidTextRep:
		return fmt.Errorf("%w: %v", entity.ErrInvalidID, err)
	}
	return err
}
