package queries

import (
	"context"
	"database/sql"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/pkg/errs"

	"gorm.io/gorm"
)

const orderViewColumns = `
	o.id,
	o.customer_id,
	o.cargo,
	o.from_addr,
	o.to_addr,
	o.phone,
	o.status,
	o.driver_id,
	COALESCE(d.username, ''),
	o.reserved_until,
	o.created_at,
	o.updated_at`

// GetOrderQueryHandler answers status_of reads.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns the order's current view or an ObjectNotFoundError.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT`+orderViewColumns+`
		FROM orders o
		LEFT JOIN users d ON d.id = o.driver_id
		WHERE o.id = ?
	`, int64(query.OrderID())).Rows()
	if err != nil {
		return OrderView{}, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return OrderView{}, err
		}
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}

	return scanOrderView(rows)
}

func scanOrderView(rows *sql.Rows) (OrderView, error) {
	var view OrderView
	var id int64
	var status string

	err := rows.Scan(
		&id,
		&view.CustomerID,
		&view.Cargo,
		&view.FromAddr,
		&view.ToAddr,
		&view.Phone,
		&status,
		&view.DriverID,
		&view.DriverUsername,
		&view.ReservedUntil,
		&view.CreatedAt,
		&view.UpdatedAt,
	)
	if err != nil {
		return OrderView{}, err
	}

	view.ID = order.ID(id)
	if view.Status, err = order.ParseStatus(status); err != nil {
		return OrderView{}, err
	}
	return view, nil
}
