package ports

import (
	"context"
	"time"

	"truckbot/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order and numbers it through Order.AssignID.
	// Numbers are handed out by the store, grow monotonically and are never reused.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the aggregate only if the stored status still equals expected.
	// This is the compare-and-set that arbitrates concurrent claims:
	//
	//	UPDATE orders SET ... WHERE id = ? AND status = ?
	//
	// When no row matches, Update returns *errs.VersionIsInvalidError and
	// the caller must treat the transaction as lost.
	Update(ctx context.Context, aggregate *order.Order, expected order.Status) error

	// UpdateBroadcastRef writes only the broadcast reference of the aggregate.
	// It does not compare status and cannot undo a concurrent transition.
	UpdateBroadcastRef(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by number.
	// Returns *errs.ObjectNotFoundError when it does not exist.
	Get(ctx context.Context, id order.ID) (*order.Order, error)

	// ListExpiredReservations returns up to limit Reserved orders whose
	// deadline is before now, earliest deadline first.
	ListExpiredReservations(ctx context.Context, now time.Time, limit int) ([]*order.Order, error)
}
