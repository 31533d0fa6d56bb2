package http

import (
	"time"

	"truckbot/internal/core/application/usecases/queries"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Outcome string `json:"outcome,omitempty"`
	Message string `json:"message"`
}

// NewUser is the body of POST /api/v1/users.
type NewUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	CarModel string `json:"car_model"`
}

// User is the registered user.
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Phone    string `json:"phone,omitempty"`
	CarModel string `json:"car_model,omitempty"`
}

// NewOrder is the body of POST /api/v1/orders.
type NewOrder struct {
	Cargo    string `json:"cargo"`
	FromAddr string `json:"from_addr"`
	ToAddr   string `json:"to_addr"`
	Phone    string `json:"phone"`
}

// Order is the public view of an order.
type Order struct {
	ID             int64      `json:"id"`
	CustomerID     int64      `json:"customer_id"`
	Cargo          string     `json:"cargo"`
	FromAddr       string     `json:"from_addr"`
	ToAddr         string     `json:"to_addr"`
	Phone          string     `json:"phone"`
	Status         string     `json:"status"`
	DriverID       *int64     `json:"driver_id,omitempty"`
	DriverUsername string     `json:"driver_username,omitempty"`
	ReservedUntil  *time.Time `json:"reserved_until,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ActionResult answers the order actions.
type ActionResult struct {
	Outcome string `json:"outcome"`
	OrderID int64  `json:"order_id"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

// DriverStatus is the body of GET /api/v1/drivers/:id/status.
type DriverStatus struct {
	UserID        int64      `json:"user_id"`
	Username      string     `json:"username"`
	Role          string     `json:"role"`
	CarModel      string     `json:"car_model,omitempty"`
	Busy          bool       `json:"busy"`
	ActiveOrder   *int64     `json:"active_order,omitempty"`
	ReservedUntil *time.Time `json:"reserved_until,omitempty"`
}

func toOrder(v queries.OrderView) Order {
	return Order{
		ID:             int64(v.ID),
		CustomerID:     v.CustomerID,
		Cargo:          v.Cargo,
		FromAddr:       v.FromAddr,
		ToAddr:         v.ToAddr,
		Phone:          v.Phone,
		Status:         v.Status.String(),
		DriverID:       v.DriverID,
		DriverUsername: v.DriverUsername,
		ReservedUntil:  v.ReservedUntil,
		CreatedAt:      v.CreatedAt,
		UpdatedAt:      v.UpdatedAt,
	}
}

func toDriverStatus(v queries.DriverStatusView) DriverStatus {
	status := DriverStatus{
		UserID:        v.UserID,
		Username:      v.Username,
		Role:          v.Role.String(),
		CarModel:      string(v.CarModel),
		Busy:          v.IsBusy(),
		ReservedUntil: v.ReservedUntil,
	}
	if v.ActiveOrder != nil {
		id := int64(*v.ActiveOrder)
		status.ActiveOrder = &id
	}
	return status
}
