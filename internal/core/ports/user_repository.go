package ports

import (
	"context"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
)

// UserRepository defines the persistence contract for user aggregates.
type UserRepository interface {
	// Add persists a newly registered user.
	Add(ctx context.Context, aggregate *user.User) error

	// Update persists the aggregate only if the stored active order still
	// equals expected (nil meaning "no active order"):
	//
	//	UPDATE users SET ... WHERE id = ? AND active_order IS NULL
	//	UPDATE users SET ... WHERE id = ? AND active_order = ?
	//
	// Returns *errs.VersionIsInvalidError when no row matches. Together with
	// the unique index on active_order this keeps the driver/order relation 1:1.
	Update(ctx context.Context, aggregate *user.User, expected *order.ID) error

	// Get retrieves a user by chat account id.
	// Returns *errs.ObjectNotFoundError when the account is not registered.
	Get(ctx context.Context, id int64) (*user.User, error)
}
