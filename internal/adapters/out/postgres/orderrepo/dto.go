// Package orderrepo persists the order aggregate with GORM. Statuses are
// stored by name so that the table can be read without the Go enum.
package orderrepo

import (
	"time"

	"truckbot/internal/core/domain/model/kernel"
	"truckbot/internal/core/domain/model/order"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The (status, reserved_until) index serves the expiry sweep.
type OrderDTO struct {
	ID                 int64      `gorm:"primaryKey;autoIncrement"`
	CustomerID         int64      `gorm:"not null;index"`
	Cargo              string     `gorm:"not null"`
	FromAddr           string     `gorm:"not null"`
	ToAddr             string     `gorm:"not null"`
	Phone              string     `gorm:"not null"`
	Status             string     `gorm:"type:varchar(32);not null;index:idx_orders_status_reserved_until,priority:1"`
	DriverID           *int64     `gorm:"index"`
	ReservedUntil      *time.Time `gorm:"index:idx_orders_status_reserved_until,priority:2"`
	BroadcastChatID    *int64
	BroadcastMessageID *int
	CreatedAt          time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt          time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

func fromDomain(o *order.Order) OrderDTO {
	dto := OrderDTO{
		ID:            int64(o.ID()),
		CustomerID:    o.CustomerID(),
		Cargo:         o.Cargo(),
		FromAddr:      o.FromAddr(),
		ToAddr:        o.ToAddr(),
		Phone:         o.Phone(),
		Status:        o.Status().String(),
		DriverID:      o.Driver(),
		ReservedUntil: o.ReservedUntil(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
	}

	if ref := o.BroadcastRef(); !ref.IsZero() {
		chatID, messageID := ref.ChatID(), ref.MessageID()
		dto.BroadcastChatID = &chatID
		dto.BroadcastMessageID = &messageID
	}

	return dto
}

// mutableColumns lists what Update writes; identity and order details never change.
// The broadcast reference is only written when set, so a transition that read
// the row before the reference was attached cannot erase it.
func (dto OrderDTO) mutableColumns() map[string]any {
	columns := map[string]any{
		"status":         dto.Status,
		"driver_id":      dto.DriverID,
		"reserved_until": dto.ReservedUntil,
		"updated_at":     dto.UpdatedAt,
	}
	if dto.BroadcastChatID != nil && dto.BroadcastMessageID != nil {
		columns["broadcast_chat_id"] = *dto.BroadcastChatID
		columns["broadcast_message_id"] = *dto.BroadcastMessageID
	}
	return columns
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	var ref kernel.BroadcastRef
	if dto.BroadcastChatID != nil && dto.BroadcastMessageID != nil {
		ref, err = kernel.NewBroadcastRef(*dto.BroadcastChatID, *dto.BroadcastMessageID)
		if err != nil {
			return nil, err
		}
	}

	return order.RestoreOrder(order.Snapshot{
		ID:            order.ID(dto.ID),
		CustomerID:    dto.CustomerID,
		Cargo:         dto.Cargo,
		FromAddr:      dto.FromAddr,
		ToAddr:        dto.ToAddr,
		Phone:         dto.Phone,
		Status:        status,
		DriverID:      dto.DriverID,
		ReservedUntil: utc(dto.ReservedUntil),
		BroadcastRef:  ref,
		CreatedAt:     dto.CreatedAt.UTC(),
		UpdatedAt:     dto.UpdatedAt.UTC(),
	})
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
