package userrepo

import (
	"context"
	"errors"
	"fmt"

	"truckbot/internal/adapters/out/postgres/dberr"
	"truckbot/internal/core/domain/model/order"
	"truckbot/internal/core/domain/model/user"
	"truckbot/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormUserRepository implements ports.UserRepository using GORM.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GORM user repository.
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// Add inserts a newly registered user.
func (r *GormUserRepository) Add(ctx context.Context, aggregate *user.User) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Wrap(err, "user")
	}
	return nil
}

// Update writes the aggregate if the stored active order still equals expected.
func (r *GormUserRepository) Update(ctx context.Context, aggregate *user.User, expected *order.ID) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	query := r.db.WithContext(ctx).Model(&UserDTO{}).Where("id = ?", dto.ID)
	if expected == nil {
		query = query.Where("active_order IS NULL")
	} else {
		query = query.Where("active_order = ?", int64(*expected))
	}

	result := query.Updates(dto.mutableColumns())
	if result.Error != nil {
		return dberr.Wrap(result.Error, "user")
	}

	if result.RowsAffected == 0 {
		return errs.NewVersionIsInvalidErrorWithCause(
			"user",
			fmt.Errorf("active order of user %d changed", dto.ID),
		)
	}
	return nil
}

// Get retrieves a user by chat account id.
func (r *GormUserRepository) Get(ctx context.Context, id int64) (*user.User, error) {
	var dto UserDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("user", id)
		}
		return nil, dberr.Wrap(err, "user")
	}

	return toDomain(dto)
}
