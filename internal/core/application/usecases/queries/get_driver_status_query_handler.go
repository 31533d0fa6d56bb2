package queries

import (
	"context"
	"time"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/pkg/errs"

	"gorm.io/gorm"
)

type GetDriverStatusQueryHandler struct {
	db *gorm.DB
}

func NewGetDriverStatusQueryHandler(db *gorm.DB) GetDriverStatusQueryHandler {
	return GetDriverStatusQueryHandler{db: db}
}

// Handle returns the user's view or an ObjectNotFoundError for unknown ids.
func (h GetDriverStatusQueryHandler) Handle(ctx context.Context, query GetDriverStatusQuery) (DriverStatusView, error) {
	if err := query.Validate(); err != nil {
		return DriverStatusView{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			u.id,
			u.username,
			u.role,
			u.car_model,
			u.active_order,
			o.reserved_until
		FROM users u
		LEFT JOIN orders o ON o.id = u.active_order
		WHERE u.id = ?
	`, query.DriverID()).Rows()
	if err != nil {
		return DriverStatusView{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return DriverStatusView{}, err
		}
		return DriverStatusView{}, errs.NewObjectNotFoundError("user", query.DriverID())
	}

	var view DriverStatusView
	var role, carModel string
	var activeOrder *int64
	var reservedUntil *time.Time

	if err = rows.Scan(&view.UserID, &view.Username, &role, &carModel, &activeOrder, &reservedUntil); err != nil {
		return DriverStatusView{}, err
	}

	if view.Role, err = user.ParseRole(role); err != nil {
		return DriverStatusView{}, err
	}
	if view.CarModel, err = user.ParseCarModel(carModel); err != nil {
		return DriverStatusView{}, err
	}
	if activeOrder != nil {
		id := order.ID(*activeOrder)
		view.ActiveOrder = &id
		view.ReservedUntil = reservedUntil
	}

	return view, nil
}
