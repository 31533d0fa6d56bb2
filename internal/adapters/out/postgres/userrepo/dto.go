// Package userrepo persists the user aggregate with GORM.
package userrepo

import (
	"time"

	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
)

// UserDTO represents the database structure for persisting users.
// The unique index on active_order allows many NULLs but no shared order.
type UserDTO struct {
	ID          int64     `gorm:"primaryKey;autoIncrement:false"`
	Username    string    `gorm:"not null;default:''"`
	Role        string    `gorm:"type:varchar(16);not null"`
	Phone       string    `gorm:"not null;default:''"`
	CarModel    string    `gorm:"type:varchar(16);not null;default:''"`
	ActiveOrder *int64    `gorm:"uniqueIndex:idx_users_active_order"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

// TableName specifies the database table name for user entities.
func (UserDTO) TableName() string {
	return "users"
}

func fromDomain(u *user.User) UserDTO {
	var active *int64
	if id := u.ActiveOrder(); id != nil {
		raw := int64(*id)
		active = &raw
	}

	return UserDTO{
		ID:          u.ID(),
		Username:    u.Username(),
		Role:        u.Role().String(),
		Phone:       u.Phone(),
		CarModel:    string(u.CarModel()),
		ActiveOrder: active,
		CreatedAt:   u.CreatedAt(),
		UpdatedAt:   u.UpdatedAt(),
	}
}

func (dto UserDTO) mutableColumns() map[string]any {
	return map[string]any{
		"username":     dto.Username,
		"role":         dto.Role,
		"phone":        dto.Phone,
		"car_model":    dto.CarModel,
		"active_order": dto.ActiveOrder,
		"updated_at":   dto.UpdatedAt,
	}
}

func toDomain(dto UserDTO) (*user.User, error) {
	role, err := user.ParseRole(dto.Role)
	if err != nil {
		return nil, err
	}

	var active *order.ID
	if dto.ActiveOrder != nil {
		id := order.ID(*dto.ActiveOrder)
		active = &id
	}

	return user.RestoreUser(user.Snapshot{
		ID:          dto.ID,
		Username:    dto.Username,
		Role:        role,
		Phone:       dto.Phone,
		CarModel:    user.CarModel(dto.CarModel),
		ActiveOrder: active,
		CreatedAt:   dto.CreatedAt.UTC(),
		UpdatedAt:   dto.UpdatedAt.UTC(),
	})
}
