package services

import (
	"errors"
	"fmt"

	"latent/pkg/utils"
)

// ErrRootAdminMissing stops startup when the root account would otherwise be left for the
// first anonymous signup to claim.
var ErrRootAdminMissing = errors.New("root admin account does not exist and ROOT_ADMIN_PASSWORD is not set")

// dbError tags a store failure so the HTTP layer reports it as a 500 while keeping the cause.
func dbError(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, utils.ErrDatabaseError, err)
}
