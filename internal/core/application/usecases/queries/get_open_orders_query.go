package queries

import (
	"errors"

	"truckbot/internal/pkg/errs"
	"truckbot/internal/pkg/guard"
)

var ErrGetOpenOrdersQueryIsNotConstructed = errors.New(
	"GetOpenOrdersQuery must be created via NewGetOpenOrdersQuery constructor",
)

// GetOpenOrdersQuery lists orders that are waiting for a driver, oldest first.
type GetOpenOrdersQuery struct {
	limit int

	guard guard.ConstructorGuard
}

// NewGetOpenOrdersQuery creates the query. limit must be positive.
func NewGetOpenOrdersQuery(limit int) (GetOpenOrdersQuery, error) {
	if limit <= 0 {
		return GetOpenOrdersQuery{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	return GetOpenOrdersQuery{
		limit: limit,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (q GetOpenOrdersQuery) Limit() int {
	return q.limit
}

func (q GetOpenOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOpenOrdersQueryIsNotConstructed)
}
