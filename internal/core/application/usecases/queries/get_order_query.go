// Package queries contains read operations for retrieving ledger state.
// Queries bypass the aggregates and read straight from the database; they
// never take part in a unit of work.
package queries

import (
	"errors"
	"time"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/pkg/guard"
)

var ErrGetOrderQueryIsNotConstructed = errors.New("GetOrderQuery must be created via NewGetOrderQuery constructor")

// GetOrderQuery reads the current state of one order.
//
// Example:
//
//	query, err := NewGetOrderQuery(7)
//	if err != nil {
//	    return err
//	}
//	view, err := handler.Handle(ctx, query)
//	if errors.Is(err, errs.ErrObjectNotFound) {
//	    // no such order
//	}
type GetOrderQuery struct {
	orderID order.ID

	guard guard.ConstructorGuard
}

func NewGetOrderQuery(orderID order.ID) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderQuery) OrderID() order.ID {
	return q.orderID
}

func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

// OrderView is the read model of an order. DriverID is set for Reserved and
// Completed orders, ReservedUntil only for Reserved ones.
type OrderView struct {
	ID             order.ID
	CustomerID     int64
	Cargo          string
	FromAddr       string
	ToAddr         string
	Phone          string
	Status         order.Status
	DriverID       *int64
	DriverUsername string
	ReservedUntil  *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
